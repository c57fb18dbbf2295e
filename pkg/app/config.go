package app

import (
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
	"github.com/lk2023060901/itembag/pkg/config"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix 环境变量前缀，ITEMBAG_LOG_LEVEL -> log.level
const EnvPrefix = "ITEMBAG"

var (
	configPath string
	logPath    string
)

// LoadConfig 加载应用配置
// 优先级：1. 命令行显式参数 > 2. 环境变量 > 3. 配置文件 > 4. 默认值
// 调用前可以在 fs 上注册应用自己的参数，fs 为 nil 时使用 pflag.CommandLine
func LoadConfig(target any, fs *pflag.FlagSet, args []string, opts ...config.Option) error {
	if fs == nil {
		fs = pflag.CommandLine
	}

	RegisterFlags(fs)
	if !fs.Parsed() {
		if err := fs.Parse(args); err != nil {
			return errors.Wrap(err, "parse flags")
		}
	}

	// 配置文件路径：Flag 显式指定 > ITEMBAG_CONFIG > 默认值
	path := configPath
	if !fs.Changed("config") {
		if env := os.Getenv(EnvPrefix + "_CONFIG"); env != "" {
			path = env
		}
	}
	configPath = path

	v := viper.New()
	if fs.Changed("log.path") {
		v.Set("log.output_path", logPath)
		v.Set("log.enable_file", true)
	}

	mgr := config.NewManager(append(opts, config.WithViper(v), config.WithEnvPrefix(EnvPrefix))...)
	if err := mgr.LoadFile(path); err != nil {
		return err
	}
	if err := mgr.Unmarshal(target); err != nil {
		return err
	}

	if fs.Changed("log.path") {
		if err := os.MkdirAll(filepath.Dir(logPath), 0755); err != nil {
			return errors.Wrap(err, "create log dir")
		}
	}
	return nil
}

// RegisterFlags 注册 --config/-c 和 --log.path，已注册时跳过
// 应用需要在解析前加入自己的参数时，先调用它再 Parse
func RegisterFlags(fs *pflag.FlagSet) {
	if fs.Lookup("config") == nil {
		fs.StringVarP(&configPath, "config", "c", "config.yaml", "path to config file")
	}
	if fs.Lookup("log.path") == nil {
		fs.StringVar(&logPath, "log.path", "", "output path for logs (enables file output)")
	}
}

// GetConfigPath 返回最终使用的配置文件路径
func GetConfigPath() string {
	return configPath
}
