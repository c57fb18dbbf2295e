package itemcatalog

// ItemDef 物品配置表中的一行
type ItemDef struct {
	ID        int32  `mapstructure:"id" json:"id" validate:"gt=0"`
	Name      string `mapstructure:"name" json:"name"`
	MaxStack  int32  `mapstructure:"max_stack" json:"max_stack" validate:"gte=0"`    // 0 表示无堆叠上限
	CoinValue int64  `mapstructure:"coin_value" json:"coin_value" validate:"gte=0"` // 大于 0 即为货币，单个物品的面额
}

// Table 配置文件结构
type Table struct {
	Items []ItemDef `mapstructure:"items" json:"items" validate:"dive"`
}

// Config 配置表加载配置
type Config struct {
	// Path 物品表文件（yaml/json），为空时只包含内置货币
	Path string `mapstructure:"path"`
	// DefaultMaxStack 未知物品的最大堆叠数
	DefaultMaxStack int32 `mapstructure:"default_max_stack"`
	// Watch 文件变化时热更新
	Watch bool `mapstructure:"watch"`
	// SkipCoins 不合并内置的四种货币
	SkipCoins bool `mapstructure:"skip_coins"`
}

// DefaultConfig 默认配置
func DefaultConfig() *Config {
	return &Config{
		DefaultMaxStack: 1,
	}
}

// 内置货币ID
const (
	CopperCoin   int32 = 71
	SilverCoin   int32 = 72
	GoldCoin     int32 = 73
	PlatinumCoin int32 = 74
)

// CoinDefs 内置货币：铜 1、银 100、金 10000、铂 1000000
func CoinDefs() []ItemDef {
	return []ItemDef{
		{ID: CopperCoin, Name: "Copper Coin", MaxStack: 100, CoinValue: 1},
		{ID: SilverCoin, Name: "Silver Coin", MaxStack: 100, CoinValue: 100},
		{ID: GoldCoin, Name: "Gold Coin", MaxStack: 100, CoinValue: 10000},
		{ID: PlatinumCoin, Name: "Platinum Coin", MaxStack: 999, CoinValue: 1000000},
	}
}
