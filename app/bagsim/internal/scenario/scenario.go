package scenario

import (
	"github.com/cockroachdb/errors"
	"github.com/go-viper/mapstructure/v2"
	"github.com/lk2023060901/itembag/pkg/config"
	"github.com/lk2023060901/itembag/pkg/itembag"
)

// 支持的操作
const (
	OpAdd               = "add"
	OpRemove            = "remove"
	OpRemoveStrict      = "remove_strict"
	OpRemoveExact       = "remove_exact"
	OpRemoveLastExact   = "remove_last_exact"
	OpContains          = "contains"
	OpContainsExact     = "contains_exact"
	OpContainsCoinValue = "contains_coin_value"
	OpTotalCoinValue    = "total_coin_value"
	OpClear             = "clear"
	OpCount             = "count"
	OpLatest            = "latest"
)

// Step 场景中的一步
type Step struct {
	Op   string            `mapstructure:"op" validate:"required,oneof=add remove remove_strict remove_exact remove_last_exact contains contains_exact contains_coin_value total_coin_value clear count latest"`
	Item itembag.ItemStack `mapstructure:"item"`
	// Value contains_coin_value 的目标价值
	Value int64 `mapstructure:"value"`
	// Expect 期望返回值：bool / 整数 / 物品堆，按操作解释，为空时不检查
	Expect any `mapstructure:"expect"`
	// Items 执行后背包内容（按加入顺序），为空时不检查
	Items []itembag.ItemStack `mapstructure:"items"`
}

// Scenario 回放场景
type Scenario struct {
	Name     string `mapstructure:"name"`
	Capacity int    `mapstructure:"capacity" validate:"gte=-1"`
	Steps    []Step `mapstructure:"steps" validate:"min=1,dive"`
}

// Load 读取场景文件（yaml/json）
// 每一步单独解码，出现未知字段时报错
func Load(path string) (*Scenario, error) {
	mgr := config.NewManager()
	if err := mgr.LoadFile(path); err != nil {
		return nil, err
	}

	sc := &Scenario{Capacity: itembag.Unbounded}
	if err := mgr.UnmarshalKey("name", &sc.Name); err != nil {
		return nil, err
	}
	if mgr.IsSet("capacity") {
		if err := mgr.UnmarshalKey("capacity", &sc.Capacity); err != nil {
			return nil, err
		}
	}

	var rawSteps []map[string]any
	if err := mgr.UnmarshalKey("steps", &rawSteps); err != nil {
		return nil, err
	}

	sc.Steps = make([]Step, 0, len(rawSteps))
	for i, raw := range rawSteps {
		step, err := decodeStep(raw)
		if err != nil {
			return nil, errors.Wrapf(err, "step %d", i)
		}
		sc.Steps = append(sc.Steps, step)
	}

	if err := config.NewValidator().Validate(sc); err != nil {
		return nil, errors.Wrapf(err, "scenario %s", path)
	}
	return sc, nil
}

func decodeStep(raw map[string]any) (Step, error) {
	var step Step
	if err := strictDecode(raw, &step); err != nil {
		return Step{}, err
	}
	return step, nil
}

// strictDecode 弱类型解码（"3" -> 3），拒绝未知字段
func strictDecode(input, output any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		Result:           output,
	})
	if err != nil {
		return errors.Wrap(err, "create decoder")
	}
	if err := dec.Decode(input); err != nil {
		return errors.Wrap(err, "decode")
	}
	return nil
}
