package itembag

import (
	"iter"
	"slices"

	"github.com/cockroachdb/errors"
	"github.com/lk2023060901/itembag/pkg/logger"
)

// Bag 有容量上限、自动堆叠的物品背包
//
// 物品堆按加入顺序保存：
//   - 堆叠和移除从最新加入的物品堆往前扫描
//   - 容量已满时挤出最早加入的物品堆
//
// Bag 不加锁，由持有者保证单线程访问。
type Bag struct {
	registry KindRegistry
	capacity int
	entries  []ItemStack
	logger   logger.Logger
	observer Observer
}

// New 创建背包，默认无容量上限
func New(registry KindRegistry, opts ...Option) *Bag {
	if registry == nil {
		registry = unitRegistry{}
	}

	b := &Bag{
		registry: registry,
		capacity: Unbounded,
		logger:   logger.NewNoop(),
		observer: noopObserver{},
	}
	for _, opt := range opts {
		opt(b)
	}

	initCap := 10
	if b.capacity != Unbounded {
		initCap = b.capacity
	}
	b.entries = make([]ItemStack, 0, initCap)
	return b
}

// ===== 基础信息 =====

// Count 物品堆数量
func (b *Bag) Count() int {
	return len(b.entries)
}

// Capacity 最大格子数，Unbounded 表示无上限
func (b *Bag) Capacity() int {
	return b.capacity
}

// IsFull 有容量上限且物品堆数已达上限
func (b *Bag) IsFull() bool {
	return b.capacity != Unbounded && len(b.entries) >= b.capacity
}

// LatestItem 最新加入的物品堆，背包为空时返回 None
func (b *Bag) LatestItem() ItemStack {
	if len(b.entries) == 0 {
		return None
	}
	return b.entries[len(b.entries)-1]
}

// Items 按加入顺序返回所有物品堆的副本
func (b *Bag) Items() []ItemStack {
	return slices.Clone(b.entries)
}

// All 按加入顺序遍历物品堆
func (b *Bag) All() iter.Seq[ItemStack] {
	return func(yield func(ItemStack) bool) {
		for _, entry := range b.entries {
			if !yield(entry) {
				return
			}
		}
	}
}

// Quantity 可与 kind/variant 堆叠的物品总数
func (b *Bag) Quantity(kind ItemKind, variant int32) int64 {
	probe := ItemStack{Kind: kind, Variant: variant}
	var total int64
	for _, entry := range b.entries {
		if entry.Mergeable(probe) {
			total += int64(entry.Quantity)
		}
	}
	return total
}

// ===== 添加 =====

// Add 加入物品
//
// 先从最新的物品堆往前找未满的同类堆补满，剩余部分按最大堆叠数拆成新堆放到末尾。
// 背包已满时每放入一个新堆都会挤出最早的一个堆，无论其数量多少。
// 一次 Add 最多放入 capacity 个新堆，不会挤出本次刚放入的堆，超出部分丢弃并通知 OnOverflow。
func (b *Bag) Add(item ItemStack) {
	if item.Quantity <= 0 {
		return
	}

	maxStack := b.maxStack(item.Kind)
	remaining := item.Quantity

	for i := len(b.entries) - 1; i >= 0; i-- {
		if !b.entries[i].Mergeable(item) || b.entries[i].Quantity >= maxStack {
			continue
		}

		available := maxStack - b.entries[i].Quantity
		if remaining <= available {
			b.entries[i].Quantity += remaining
			return
		}

		b.entries[i].Quantity = maxStack
		remaining -= available
	}

	for pushed := 0; remaining > 0; pushed++ {
		if b.capacity != Unbounded && pushed >= b.capacity {
			b.logger.Debug("bag overflow, residual dropped",
				"item", item.String(),
				"dropped", remaining,
				"capacity", b.capacity,
			)
			b.observer.OnOverflow(item.WithQuantity(remaining))
			return
		}

		chunk := min(remaining, maxStack)
		b.push(item.WithQuantity(chunk))
		remaining -= chunk
	}
}

// push 放入新堆，满时先挤出最早的堆
func (b *Bag) push(stack ItemStack) {
	if b.IsFull() {
		evicted := b.entries[0]
		b.entries = slices.Delete(b.entries, 0, 1)

		b.logger.Debug("bag full, oldest stack evicted",
			"evicted", evicted.String(),
			"incoming", stack.String(),
			"capacity", b.capacity,
		)
		b.observer.OnEvict(evicted)
	}
	b.entries = append(b.entries, stack)
}

// ===== 移除 =====

// Remove 模糊移除：从最新的物品堆往前，跨多个同类堆扣除 item.Quantity
//
// 注意：数量不足时会扣光所有同类堆并且仍然返回 true。
// 这是已有调用方依赖的行为，需要数量不足时失败请使用 RemoveStrict。
func (b *Bag) Remove(item ItemStack) bool {
	if item.Quantity <= 0 {
		return true
	}

	remaining := item.Quantity
	for i := len(b.entries) - 1; i >= 0; i-- {
		if !b.entries[i].Mergeable(item) {
			continue
		}

		switch qty := b.entries[i].Quantity; {
		case qty == remaining:
			b.removeAt(i)
			return true
		case qty > remaining:
			b.entries[i].Quantity -= remaining
			return true
		default:
			remaining -= qty
			b.removeAt(i)
		}
	}

	b.logger.Debug("fuzzy remove under-supplied",
		"requested", item.String(),
		"missing", remaining,
	)
	b.observer.OnShortfall(item, remaining)
	return true
}

// RemoveStrict 严格移除：数量不足时返回 ErrInsufficientQuantity，背包不变
func (b *Bag) RemoveStrict(item ItemStack) error {
	if item.Quantity <= 0 {
		return nil
	}

	have := b.Quantity(item.Kind, item.Variant)
	if have < int64(item.Quantity) {
		return errors.Wrapf(ErrInsufficientQuantity,
			"kind %d variant %d: have %d, need %d", item.Kind, item.Variant, have, item.Quantity)
	}

	b.Remove(item)
	return nil
}

// RemoveExact 按加入顺序移除第一个完全相同（种类、词缀、数量）的物品堆
func (b *Bag) RemoveExact(item ItemStack) bool {
	i := slices.Index(b.entries, item)
	if i < 0 {
		return false
	}
	b.removeAt(i)
	return true
}

// RemoveLastExact 移除最新加入的完全相同的物品堆
func (b *Bag) RemoveLastExact(item ItemStack) bool {
	for i := len(b.entries) - 1; i >= 0; i-- {
		if b.entries[i] == item {
			b.removeAt(i)
			return true
		}
	}
	return false
}

// Clear 清空背包
func (b *Bag) Clear() {
	b.entries = b.entries[:0]
}

func (b *Bag) removeAt(i int) {
	b.entries = slices.Delete(b.entries, i, i+1)
}

// ===== 查询 =====

// Contains 模糊查询：同类物品堆的数量累加达到 item.Quantity 即为 true
func (b *Bag) Contains(item ItemStack) bool {
	var counter int64
	for i := len(b.entries) - 1; i >= 0; i-- {
		if !b.entries[i].Mergeable(item) {
			continue
		}

		counter += int64(b.entries[i].Quantity)
		if counter >= int64(item.Quantity) {
			return true
		}
	}
	return false
}

// ContainsExact 是否存在完全相同的物品堆
func (b *Bag) ContainsExact(item ItemStack) bool {
	return slices.Contains(b.entries, item)
}

// ContainsCoinValue 从最新的物品堆往前累加货币价值，达到 coinValue 即为 true
func (b *Bag) ContainsCoinValue(coinValue int64) bool {
	for i := len(b.entries) - 1; i >= 0; i-- {
		entry := b.entries[i]
		if !b.registry.IsCurrencyKind(entry.Kind) {
			continue
		}

		coinValue -= b.registry.CurrencyValue(entry.Kind, entry.Quantity)
		if coinValue <= 0 {
			return true
		}
	}
	return false
}

// TotalCoinValue 所有货币的总价值
func (b *Bag) TotalCoinValue() int64 {
	var total int64
	for _, entry := range b.entries {
		if b.registry.IsCurrencyKind(entry.Kind) {
			total += b.registry.CurrencyValue(entry.Kind, entry.Quantity)
		}
	}
	return total
}

// maxStack 配置表返回 < 1 时按 1 处理，保证堆叠循环总能推进
func (b *Bag) maxStack(kind ItemKind) int32 {
	return max(b.registry.MaxStackSize(kind), 1)
}

// unitRegistry 未注入配置表时使用：不可堆叠、没有货币
type unitRegistry struct{}

func (unitRegistry) MaxStackSize(ItemKind) int32         { return 1 }
func (unitRegistry) IsCurrencyKind(ItemKind) bool        { return false }
func (unitRegistry) CurrencyValue(ItemKind, int32) int64 { return 0 }
