package main

import (
	"fmt"
	"os"

	"github.com/lk2023060901/itembag/app/bagsim/internal/metrics"
	"github.com/lk2023060901/itembag/pkg/app"
	"github.com/lk2023060901/itembag/pkg/itemcatalog"
	"github.com/lk2023060901/itembag/pkg/logger"
	"github.com/spf13/pflag"
)

// Config 定义 bagsim 的完整配置结构
type Config struct {
	Log logger.Config `mapstructure:"log"`

	// 物品配置表
	Catalog itemcatalog.Config `mapstructure:"catalog"`

	// 指标配置
	Metrics metrics.Config `mapstructure:"metrics"`

	// 要回放的场景文件
	Scenarios []string `mapstructure:"scenarios"`

	// 同时回放的场景数，0 表示使用 CPU 数
	Concurrency int `mapstructure:"concurrency"`

	// 应用实例 ID，出现在所有日志中，为空时随机生成
	AppID string `mapstructure:"app_id"`
}

func main() {
	var (
		cfg       Config
		scenarios []string
		version   bool
	)

	fs := pflag.CommandLine
	app.RegisterFlags(fs)
	fs.StringSliceVarP(&scenarios, "scenario", "s", nil, "scenario files to replay (overrides config)")
	fs.BoolVarP(&version, "version", "v", false, "print version and exit")
	if err := fs.Parse(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if version {
		fmt.Println(app.GetInfo().String())
		return
	}

	// 1. 加载配置
	if err := app.LoadConfig(&cfg, fs, nil); err != nil {
		fmt.Fprintln(os.Stderr, "load config:", err)
		os.Exit(2)
	}
	if fs.Changed("scenario") {
		cfg.Scenarios = scenarios
	}

	// 2. 初始化主日志
	l, err := logger.New(&cfg.Log)
	if err != nil {
		fmt.Fprintln(os.Stderr, "init logger:", err)
		os.Exit(2)
	}
	defer func() { _ = l.Sync() }()

	if len(cfg.Scenarios) == 0 {
		l.Error("no scenario given", "config", app.GetConfigPath())
		os.Exit(2)
	}

	// 3. 通过 Wire 初始化应用
	program, err := InitApp(&cfg, l)
	if err != nil {
		l.Error("failed to initialize application", "error", err)
		os.Exit(2)
	}

	// 4. 回放场景
	if err := program.App.Run(); err != nil {
		l.Error("application exited with error", "error", err)
		os.Exit(1)
	}
	if err := program.Suite.Verify(); err != nil {
		l.Error("scenario check failed", "error", err)
		os.Exit(1)
	}
}
