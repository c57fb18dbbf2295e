package itembag

import "github.com/lk2023060901/itembag/pkg/logger"

// Unbounded 无容量上限
const Unbounded = -1

// Observer 背包事件回调（指标上报等）
type Observer interface {
	// OnEvict 容量已满时最早的物品堆被挤出
	OnEvict(evicted ItemStack)
	// OnShortfall 模糊移除时数量不足，missing 为未能扣除的数量
	OnShortfall(requested ItemStack, missing int32)
	// OnOverflow 单次 Add 需要的新堆超过容量，dropped 为未放入的部分
	OnOverflow(dropped ItemStack)
}

type noopObserver struct{}

func (noopObserver) OnEvict(ItemStack)            {}
func (noopObserver) OnShortfall(ItemStack, int32) {}
func (noopObserver) OnOverflow(ItemStack)         {}

// Option 背包选项
type Option func(*Bag)

// WithCapacity 设置最大格子数，<= 0 视为无上限
func WithCapacity(capacity int) Option {
	return func(b *Bag) {
		if capacity <= 0 {
			capacity = Unbounded
		}
		b.capacity = capacity
	}
}

// WithLogger 设置日志器
func WithLogger(l logger.Logger) Option {
	return func(b *Bag) {
		if l != nil {
			b.logger = l
		}
	}
}

// WithObserver 设置事件回调
func WithObserver(o Observer) Option {
	return func(b *Bag) {
		if o != nil {
			b.observer = o
		}
	}
}
