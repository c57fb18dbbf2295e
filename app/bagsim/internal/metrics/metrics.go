package metrics

import (
	"github.com/cockroachdb/errors"
	"github.com/lk2023060901/itembag/pkg/config"
	"github.com/lk2023060901/itembag/pkg/itembag"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Config 指标配置
type Config struct {
	// Namespace 指标命名空间
	Namespace string `mapstructure:"namespace" json:"namespace" yaml:"namespace"`
	// Textfile 退出时写入的 textfile collector 文件，为空时不写
	Textfile string `mapstructure:"textfile" json:"textfile" yaml:"textfile"`
	// EnableGoCollector 是否采集 Go 运行时指标
	EnableGoCollector bool `mapstructure:"enable_go_collector" json:"enable_go_collector" yaml:"enable_go_collector"`
}

// DefaultConfig 默认配置
func DefaultConfig() *Config {
	return &Config{Namespace: "itembag"}
}

var _ itembag.Observer = (*BagMetrics)(nil)

// BagMetrics 背包指标，同时作为背包的 Observer
type BagMetrics struct {
	config   *Config
	registry *prometheus.Registry

	EvictionsTotal  prometheus.Counter     // 满背包挤出的物品堆数
	EvictedQuantity prometheus.Counter     // 被挤出的物品数量
	ShortfallTotal  prometheus.Counter     // 模糊移除数量不足次数
	OverflowTotal   prometheus.Counter     // 超出容量被丢弃的物品数量
	OperationsTotal *prometheus.CounterVec // 操作总数（按操作、结果）
}

// New 创建背包指标
func New(cfg *Config) (*BagMetrics, error) {
	newCfg, err := config.MergeConfig(DefaultConfig(), cfg)
	if err != nil {
		return nil, errors.Wrap(err, "merge metrics config")
	}

	m := &BagMetrics{
		config:   newCfg,
		registry: prometheus.NewRegistry(),
		EvictionsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: newCfg.Namespace,
			Name:      "evictions_total",
			Help:      "背包已满时被挤出的物品堆总数",
		}),
		EvictedQuantity: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: newCfg.Namespace,
			Name:      "evicted_quantity_total",
			Help:      "被挤出的物品数量总和",
		}),
		ShortfallTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: newCfg.Namespace,
			Name:      "remove_shortfall_total",
			Help:      "模糊移除时数量不足的次数",
		}),
		OverflowTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: newCfg.Namespace,
			Name:      "overflow_quantity_total",
			Help:      "单次加入超出容量而被丢弃的物品数量",
		}),
		OperationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: newCfg.Namespace,
				Name:      "operations_total",
				Help:      "背包操作总数",
			},
			[]string{"op", "result"}, // result: ok/mismatch
		),
	}

	if newCfg.EnableGoCollector {
		if err := m.registry.Register(collectors.NewGoCollector()); err != nil {
			return nil, errors.Wrap(err, "register go collector")
		}
	}
	if err := m.Register(m.registry); err != nil {
		return nil, err
	}
	return m, nil
}

// Registry 返回内部 Registry
func (m *BagMetrics) Registry() *prometheus.Registry {
	return m.registry
}

// WriteTextfile 以文本格式写出所有指标，未配置 Textfile 时直接返回
func (m *BagMetrics) WriteTextfile() error {
	if m.config.Textfile == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(m.config.Textfile, m.registry); err != nil {
		return errors.Wrapf(err, "write metrics to %s", m.config.Textfile)
	}
	return nil
}

// Close 写出指标文件
func (m *BagMetrics) Close() error {
	return m.WriteTextfile()
}

// Register 注册指标到 Prometheus Registry
func (m *BagMetrics) Register(registerer prometheus.Registerer) error {
	collectors := []prometheus.Collector{
		m.EvictionsTotal,
		m.EvictedQuantity,
		m.ShortfallTotal,
		m.OverflowTotal,
		m.OperationsTotal,
	}
	for _, c := range collectors {
		if err := registerer.Register(c); err != nil {
			return errors.Wrap(err, "register bag metrics")
		}
	}
	return nil
}

// OnEvict 记录挤出
func (m *BagMetrics) OnEvict(evicted itembag.ItemStack) {
	m.EvictionsTotal.Inc()
	m.EvictedQuantity.Add(float64(evicted.Quantity))
}

// OnShortfall 记录数量不足
func (m *BagMetrics) OnShortfall(_ itembag.ItemStack, _ int32) {
	m.ShortfallTotal.Inc()
}

// OnOverflow 记录丢弃数量
func (m *BagMetrics) OnOverflow(dropped itembag.ItemStack) {
	m.OverflowTotal.Add(float64(dropped.Quantity))
}

// RecordOperation 记录一次操作
func (m *BagMetrics) RecordOperation(op string, ok bool) {
	result := "ok"
	if !ok {
		result = "mismatch"
	}
	m.OperationsTotal.WithLabelValues(op, result).Inc()
}
