package itemcatalog

import (
	"math"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/lk2023060901/itembag/pkg/config"
	"github.com/lk2023060901/itembag/pkg/itembag"
	"github.com/lk2023060901/itembag/pkg/logger"
)

var (
	// ErrDuplicateItem 物品表中ID重复
	ErrDuplicateItem = errors.New("duplicate item id")
	// ErrNoPath 未配置物品表文件却要求监听
	ErrNoPath = errors.New("catalog path is empty")
)

var _ itembag.KindRegistry = (*Catalog)(nil)

// Catalog 物品配置表，实现 itembag.KindRegistry
// 读操作可并发，热更新时整表替换
type Catalog struct {
	cfg       *Config
	logger    logger.Logger
	validator *config.Validator

	mu    sync.RWMutex
	items map[itembag.ItemKind]ItemDef

	unknown sync.Map // 已记录过日志的未知物品

	watchMu sync.Mutex
	watcher *config.Watcher[Table]
}

// New 创建配置表，cfg.Path 非空时立即加载
func New(cfg *Config, l logger.Logger) (*Catalog, error) {
	merged, err := config.MergeConfig(DefaultConfig(), cfg)
	if err != nil {
		return nil, errors.Wrap(err, "merge catalog config")
	}
	if l == nil {
		l = logger.NewNoop()
	}

	c := &Catalog{
		cfg:       merged,
		logger:    l.Named("itemcatalog"),
		validator: config.NewValidator(),
		items:     make(map[itembag.ItemKind]ItemDef),
	}

	if merged.Path == "" {
		if err := c.Replace(nil); err != nil {
			return nil, err
		}
		return c, nil
	}

	if err := c.Load(merged.Path); err != nil {
		return nil, err
	}
	if merged.Watch {
		if err := c.Watch(); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Load 从文件加载物品表并替换当前内容
func (c *Catalog) Load(path string) error {
	mgr := config.NewManager()
	if err := mgr.LoadFile(path); err != nil {
		return errors.Wrap(err, "load item table")
	}

	var table Table
	if err := mgr.Unmarshal(&table); err != nil {
		return errors.Wrap(err, "decode item table")
	}

	if err := c.Replace(table.Items); err != nil {
		return err
	}
	c.logger.Info("item table loaded", "path", path, "items", c.Len())
	return nil
}

// Watch 监听物品表文件，变化后热更新；新表无效时保留旧表
func (c *Catalog) Watch() error {
	if c.cfg.Path == "" {
		return ErrNoPath
	}
	c.watchMu.Lock()
	defer c.watchMu.Unlock()
	if c.watcher != nil {
		return nil
	}

	w, err := config.NewWatcher[Table](c.cfg.Path, "", func(err error) {
		c.logger.Error("item table reload failed", "path", c.cfg.Path, "error", err)
	})
	if err != nil {
		return errors.Wrap(err, "watch item table")
	}

	w.OnChange(func(t *Table) {
		if err := c.Replace(t.Items); err != nil {
			c.logger.Error("item table rejected", "path", c.cfg.Path, "error", err)
			return
		}
		c.logger.Info("item table reloaded", "path", c.cfg.Path, "items", c.Len())
	})
	c.watcher = w
	return nil
}

// Close 停止监听物品表文件
func (c *Catalog) Close() error {
	c.watchMu.Lock()
	w := c.watcher
	c.watcher = nil
	c.watchMu.Unlock()

	if w == nil {
		return nil
	}
	return w.Close()
}

// Replace 校验并整表替换
// 内置货币先放入，表中同ID的行会覆盖它们
func (c *Catalog) Replace(defs []ItemDef) error {
	table := Table{Items: defs}
	if err := c.validator.Validate(&table); err != nil {
		return err
	}

	items := make(map[itembag.ItemKind]ItemDef, len(defs)+4)
	if !c.cfg.SkipCoins {
		for _, def := range CoinDefs() {
			items[itembag.ItemKind(def.ID)] = def
		}
	}

	seen := make(map[int32]struct{}, len(defs))
	for _, def := range defs {
		if _, dup := seen[def.ID]; dup {
			return errors.Wrapf(ErrDuplicateItem, "id %d", def.ID)
		}
		seen[def.ID] = struct{}{}
		items[itembag.ItemKind(def.ID)] = def
	}

	c.mu.Lock()
	c.items = items
	c.mu.Unlock()

	c.unknown.Clear()
	return nil
}

// Get 获取物品定义
func (c *Catalog) Get(kind itembag.ItemKind) (ItemDef, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	def, ok := c.items[kind]
	return def, ok
}

// Len 物品定义数量
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// MaxStackSize 最大堆叠数
// 配置为 0 时无上限；未知物品返回 DefaultMaxStack
func (c *Catalog) MaxStackSize(kind itembag.ItemKind) int32 {
	def, ok := c.Get(kind)
	if !ok {
		c.reportUnknown(kind)
		return c.cfg.DefaultMaxStack
	}
	if def.MaxStack <= 0 {
		return math.MaxInt32
	}
	return def.MaxStack
}

// IsCurrencyKind 面额大于 0 的物品是货币
func (c *Catalog) IsCurrencyKind(kind itembag.ItemKind) bool {
	def, ok := c.Get(kind)
	return ok && def.CoinValue > 0
}

// CurrencyValue 面额 × 数量，非货币为 0
func (c *Catalog) CurrencyValue(kind itembag.ItemKind, quantity int32) int64 {
	def, ok := c.Get(kind)
	if !ok {
		return 0
	}
	return def.CoinValue * int64(quantity)
}

func (c *Catalog) reportUnknown(kind itembag.ItemKind) {
	if _, logged := c.unknown.LoadOrStore(kind, struct{}{}); logged {
		return
	}
	c.logger.Warn("unknown item kind, using default max stack",
		"kind", int32(kind),
		"default_max_stack", c.cfg.DefaultMaxStack,
	)
}
