package main

import (
	"github.com/lk2023060901/itembag/app/bagsim/internal/metrics"
	"github.com/lk2023060901/itembag/app/bagsim/internal/scenario"
	"github.com/lk2023060901/itembag/pkg/app"
	"github.com/lk2023060901/itembag/pkg/itemcatalog"
	"github.com/lk2023060901/itembag/pkg/logger"
)

// Program 组装完成的应用及其场景集
type Program struct {
	App   app.Application
	Suite *scenario.Suite
}

// provideCatalogConfig 提供物品配置表配置
func provideCatalogConfig(cfg *Config) *itemcatalog.Config {
	return &cfg.Catalog
}

// provideMetricsConfig 提供指标配置
func provideMetricsConfig(cfg *Config) *metrics.Config {
	return &cfg.Metrics
}

// provideScenarioPaths 提供场景文件列表
func provideScenarioPaths(cfg *Config) []string {
	return cfg.Scenarios
}

// provideAppOptions 提供应用选项
func provideAppOptions(cfg *Config, l logger.Logger) []app.Option {
	return []app.Option{
		app.WithName(app.AppName),
		app.WithID(cfg.AppID),
		app.WithLogger(l),
		app.WithConcurrency(cfg.Concurrency),
	}
}

// provideAppComponents 提供应用组件
func provideAppComponents(suite *scenario.Suite, catalog *itemcatalog.Catalog, m *metrics.BagMetrics) app.AppComponents {
	tasks := make([]app.Task, 0)
	for _, task := range suite.Tasks() {
		tasks = append(tasks, task)
	}

	return app.AppComponents{
		Tasks: tasks,
		Closers: []app.Closer{
			catalog, // 停止物品表监听
			m,       // 退出时写出指标文件
		},
	}
}
