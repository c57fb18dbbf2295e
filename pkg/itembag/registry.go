package itembag

// KindRegistry 物品种类查询接口
// 由物品配置表提供，背包只读使用
type KindRegistry interface {
	// MaxStackSize 单个堆的最大数量
	MaxStackSize(kind ItemKind) int32
	// IsCurrencyKind 是否为货币
	IsCurrencyKind(kind ItemKind) bool
	// CurrencyValue 一定数量货币的价值（按面额换算）
	CurrencyValue(kind ItemKind, quantity int32) int64
}
