package logger

var _ Logger = (*NoopLogger)(nil)

// NoopLogger 空日志记录器
// 未注入 Logger 时各模块的默认值
type NoopLogger struct{}

// NewNoop 创建空日志记录器
func NewNoop() *NoopLogger {
	return &NoopLogger{}
}

func (l *NoopLogger) Debug(string, ...any) {}
func (l *NoopLogger) Info(string, ...any)  {}
func (l *NoopLogger) Warn(string, ...any)  {}
func (l *NoopLogger) Error(string, ...any) {}

func (l *NoopLogger) Named(string) Logger      { return l }
func (l *NoopLogger) WithFields(...any) Logger { return l }

func (l *NoopLogger) Sync() error { return nil }
