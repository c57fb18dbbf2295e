package scenario

import (
	"context"
	"fmt"
	"slices"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/lk2023060901/itembag/app/bagsim/internal/metrics"
	"github.com/lk2023060901/itembag/pkg/itembag"
	"github.com/lk2023060901/itembag/pkg/logger"
)

// Result 单步执行结果
type Result struct {
	Index  int
	Op     string
	Got    any
	Want   any
	OK     bool
	Reason string
}

// Report 一次回放的结果
type Report struct {
	RunID   string
	Name    string
	Results []Result
	Final   []itembag.ItemStack
}

// Failed 返回所有不符合期望的步骤
func (r *Report) Failed() []Result {
	var failed []Result
	for _, res := range r.Results {
		if !res.OK {
			failed = append(failed, res)
		}
	}
	return failed
}

// Runner 在新背包上回放场景
type Runner struct {
	registry itembag.KindRegistry
	logger   logger.Logger
	metrics  *metrics.BagMetrics
}

// NewRunner 创建回放器
func NewRunner(registry itembag.KindRegistry, l logger.Logger, m *metrics.BagMetrics) *Runner {
	return &Runner{
		registry: registry,
		logger:   l.Named("scenario"),
		metrics:  m,
	}
}

// Run 回放场景，ctx 取消时中止并返回已执行的部分
func (r *Runner) Run(ctx context.Context, sc *Scenario) (*Report, error) {
	report := &Report{RunID: uuid.NewString(), Name: sc.Name}
	l := r.logger.WithFields("run_id", report.RunID, "scenario", sc.Name)

	opts := []itembag.Option{itembag.WithCapacity(sc.Capacity), itembag.WithLogger(l)}
	if r.metrics != nil {
		opts = append(opts, itembag.WithObserver(r.metrics))
	}
	bag := itembag.New(r.registry, opts...)

	for i, step := range sc.Steps {
		if err := ctx.Err(); err != nil {
			report.Final = bag.Items()
			return report, errors.Wrapf(err, "aborted before step %d", i)
		}

		res, err := r.apply(bag, step)
		if err != nil {
			report.Final = bag.Items()
			return report, errors.Wrapf(err, "step %d (%s)", i, step.Op)
		}
		res.Index = i

		if res.OK && len(step.Items) > 0 && !slices.Equal(bag.Items(), step.Items) {
			res.OK = false
			res.Reason = fmt.Sprintf("bag content %v, want %v", bag.Items(), step.Items)
		}

		if r.metrics != nil {
			r.metrics.RecordOperation(step.Op, res.OK)
		}
		if !res.OK {
			l.Warn("step mismatch", "step", i, "op", step.Op, "got", res.Got, "want", res.Want, "reason", res.Reason)
		} else {
			l.Debug("step ok", "step", i, "op", step.Op, "got", res.Got)
		}
		report.Results = append(report.Results, res)
	}

	report.Final = bag.Items()
	l.Info("scenario finished",
		"steps", len(report.Results),
		"failed", len(report.Failed()),
		"entries", bag.Count(),
	)
	return report, nil
}

// apply 执行一步并与期望比较
func (r *Runner) apply(bag *itembag.Bag, step Step) (Result, error) {
	res := Result{Op: step.Op, Want: step.Expect, OK: true}

	switch step.Op {
	case OpAdd:
		bag.Add(step.Item)
	case OpClear:
		bag.Clear()
	case OpRemove:
		res.Got = bag.Remove(step.Item)
	case OpRemoveStrict:
		err := bag.RemoveStrict(step.Item)
		if err != nil && !errors.Is(err, itembag.ErrInsufficientQuantity) {
			return res, err
		}
		res.Got = err == nil
	case OpRemoveExact:
		res.Got = bag.RemoveExact(step.Item)
	case OpRemoveLastExact:
		res.Got = bag.RemoveLastExact(step.Item)
	case OpContains:
		res.Got = bag.Contains(step.Item)
	case OpContainsExact:
		res.Got = bag.ContainsExact(step.Item)
	case OpContainsCoinValue:
		res.Got = bag.ContainsCoinValue(step.Value)
	case OpTotalCoinValue:
		res.Got = bag.TotalCoinValue()
	case OpCount:
		res.Got = int64(bag.Count())
	case OpLatest:
		res.Got = bag.LatestItem()
	default:
		return res, errors.Newf("unknown op %q", step.Op)
	}

	if step.Expect == nil || res.Got == nil {
		return res, nil
	}

	ok, err := matches(res.Got, step.Expect)
	if err != nil {
		return res, errors.Wrap(err, "decode expect")
	}
	res.OK = ok
	return res, nil
}

// matches 把 expect 解码成与 got 相同的类型后比较
func matches(got, expect any) (bool, error) {
	switch g := got.(type) {
	case bool:
		var want bool
		if err := strictDecode(expect, &want); err != nil {
			return false, err
		}
		return g == want, nil
	case int64:
		var want int64
		if err := strictDecode(expect, &want); err != nil {
			return false, err
		}
		return g == want, nil
	case itembag.ItemStack:
		var want itembag.ItemStack
		if err := strictDecode(expect, &want); err != nil {
			return false, err
		}
		return g == want, nil
	default:
		return false, errors.Newf("unsupported result type %T", got)
	}
}
