package logger

// Logger 日志接口
// 背包、配置表等模块只依赖此接口
type Logger interface {
	Debug(msg string, keysAndValues ...any)
	Info(msg string, keysAndValues ...any)
	Warn(msg string, keysAndValues ...any)
	Error(msg string, keysAndValues ...any)

	// Named 创建具名 logger
	Named(name string) Logger
	// WithFields 附加固定字段
	WithFields(keysAndValues ...any) Logger

	Sync() error
}
