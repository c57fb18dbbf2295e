//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"
	"github.com/lk2023060901/itembag/app/bagsim/internal/metrics"
	"github.com/lk2023060901/itembag/app/bagsim/internal/scenario"
	"github.com/lk2023060901/itembag/pkg/app"
	"github.com/lk2023060901/itembag/pkg/itembag"
	"github.com/lk2023060901/itembag/pkg/itemcatalog"
	"github.com/lk2023060901/itembag/pkg/logger"
)

func InitApp(cfg *Config, l logger.Logger) (*Program, error) {
	panic(wire.Build(
		// 1. 基础框架 (BaseApp)
		app.ProviderSet,

		// 2. 物品配置表
		provideCatalogConfig,
		itemcatalog.New,
		wire.Bind(new(itembag.KindRegistry), new(*itemcatalog.Catalog)),

		// 3. 指标收集
		provideMetricsConfig,
		metrics.New,

		// 4. 场景回放
		scenario.NewRunner,
		provideScenarioPaths,
		scenario.NewSuite,

		// 5. 组装与应用配置
		provideAppOptions,
		provideAppComponents,
		app.InitApp,
		wire.Struct(new(Program), "*"),
	))
}
