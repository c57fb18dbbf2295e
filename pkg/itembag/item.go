package itembag

import "fmt"

// ItemKind 物品种类ID（对应物品配置表ID）
type ItemKind int32

// KindNone 空物品种类
const KindNone ItemKind = 0

// ItemStack 一组同种类、同词缀的物品
type ItemStack struct {
	Kind     ItemKind `mapstructure:"kind" json:"kind"`
	Variant  int32    `mapstructure:"variant" json:"variant"` // 词缀（prefix），不同词缀不可堆叠
	Quantity int32    `mapstructure:"quantity" json:"quantity"`
}

// None 背包为空时 LatestItem 的返回值
var None = ItemStack{}

// NewStack 创建物品堆
func NewStack(kind ItemKind, variant, quantity int32) ItemStack {
	return ItemStack{Kind: kind, Variant: variant, Quantity: quantity}
}

// IsNone 是否为空物品
func (s ItemStack) IsNone() bool {
	return s == None
}

// Mergeable 种类和词缀都相同即可堆叠，不比较数量
func (s ItemStack) Mergeable(other ItemStack) bool {
	return s.Kind == other.Kind && s.Variant == other.Variant
}

// WithQuantity 返回数量替换后的副本
func (s ItemStack) WithQuantity(quantity int32) ItemStack {
	s.Quantity = quantity
	return s
}

func (s ItemStack) String() string {
	return fmt.Sprintf("{kind:%d variant:%d qty:%d}", s.Kind, s.Variant, s.Quantity)
}
