package scenario

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/lk2023060901/itembag/app/bagsim/internal/metrics"
	"github.com/lk2023060901/itembag/pkg/config"
	"github.com/lk2023060901/itembag/pkg/itembag"
	"github.com/lk2023060901/itembag/pkg/itemcatalog"
	"github.com/lk2023060901/itembag/pkg/logger"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const itemsYAML = `
items:
  - id: 1
    name: Wooden Sword
    max_stack: 1
  - id: 40
    name: Wooden Arrow
    max_stack: 50
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func newRunner(t *testing.T) (*Runner, *metrics.BagMetrics) {
	t.Helper()
	dir := t.TempDir()
	catalog, err := itemcatalog.New(&itemcatalog.Config{Path: writeFile(t, dir, "items.yaml", itemsYAML)}, nil)
	require.NoError(t, err)

	m, err := metrics.New(nil)
	require.NoError(t, err)
	return NewRunner(catalog, logger.NewNoop(), m), m
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()

	t.Run("valid", func(t *testing.T) {
		path := writeFile(t, dir, "ok.yaml", `
name: arrows
capacity: 3
steps:
  - op: add
    item: {kind: 40, quantity: "30"}
  - op: contains
    item: {kind: 40, quantity: 30}
    expect: true
`)
		sc, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, "arrows", sc.Name)
		assert.Equal(t, 3, sc.Capacity)
		require.Len(t, sc.Steps, 2)
		assert.Equal(t, itembag.NewStack(40, 0, 30), sc.Steps[0].Item)
		assert.Equal(t, true, sc.Steps[1].Expect)
	})

	t.Run("capacity defaults to unbounded", func(t *testing.T) {
		path := writeFile(t, dir, "nocap.yaml", "steps:\n  - op: clear\n")
		sc, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, itembag.Unbounded, sc.Capacity)
	})

	t.Run("unknown step field", func(t *testing.T) {
		path := writeFile(t, dir, "typo.yaml", "steps:\n  - op: add\n    itme: {kind: 1, quantity: 1}\n")
		_, err := Load(path)
		assert.Error(t, err)
	})

	t.Run("unknown op", func(t *testing.T) {
		path := writeFile(t, dir, "badop.yaml", "steps:\n  - op: sort\n")
		_, err := Load(path)
		assert.True(t, errors.Is(err, config.ErrValidationFailed))
	})

	t.Run("no steps", func(t *testing.T) {
		path := writeFile(t, dir, "empty.yaml", "name: empty\n")
		_, err := Load(path)
		assert.True(t, errors.Is(err, config.ErrValidationFailed))
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(dir, "none.yaml"))
		assert.True(t, errors.Is(err, config.ErrConfigFileNotFound))
	})
}

func TestRunner_Scenarios(t *testing.T) {
	tests := []struct {
		name string
		sc   *Scenario
	}{
		{
			name: "merge then overflow",
			sc: &Scenario{
				Capacity: itembag.Unbounded,
				Steps: []Step{
					{Op: OpAdd, Item: itembag.NewStack(40, 0, 30)},
					{Op: OpAdd, Item: itembag.NewStack(40, 0, 30), Items: []itembag.ItemStack{
						itembag.NewStack(40, 0, 50),
						itembag.NewStack(40, 0, 10),
					}},
					{Op: OpCount, Expect: 2},
				},
			},
		},
		{
			name: "eviction at capacity",
			sc: &Scenario{
				Capacity: 2,
				Steps: []Step{
					{Op: OpAdd, Item: itembag.NewStack(1, 0, 1)},
					{Op: OpAdd, Item: itembag.NewStack(1, 1, 1)},
					{Op: OpAdd, Item: itembag.NewStack(1, 2, 1)},
					{Op: OpContainsExact, Item: itembag.NewStack(1, 0, 1), Expect: false},
					{Op: OpLatest, Expect: map[string]any{"kind": 1, "variant": 2, "quantity": 1}},
				},
			},
		},
		{
			name: "coins",
			sc: &Scenario{
				Capacity: itembag.Unbounded,
				Steps: []Step{
					{Op: OpAdd, Item: itembag.NewStack(itembag.ItemKind(itemcatalog.GoldCoin), 0, 2)},
					{Op: OpAdd, Item: itembag.NewStack(itembag.ItemKind(itemcatalog.SilverCoin), 0, 5)},
					{Op: OpTotalCoinValue, Expect: "20500"},
					{Op: OpContainsCoinValue, Value: 20500, Expect: true},
					{Op: OpContainsCoinValue, Value: 20501, Expect: false},
				},
			},
		},
		{
			name: "removals",
			sc: &Scenario{
				Capacity: itembag.Unbounded,
				Steps: []Step{
					{Op: OpAdd, Item: itembag.NewStack(40, 0, 20)},
					{Op: OpAdd, Item: itembag.NewStack(1, 0, 1)},
					{Op: OpAdd, Item: itembag.NewStack(40, 0, 50)},
					{Op: OpRemoveStrict, Item: itembag.NewStack(40, 0, 100), Expect: false},
					{Op: OpRemove, Item: itembag.NewStack(40, 0, 60), Expect: true, Items: []itembag.ItemStack{
						itembag.NewStack(40, 0, 10),
						itembag.NewStack(1, 0, 1),
					}},
					{Op: OpRemoveLastExact, Item: itembag.NewStack(1, 0, 1), Expect: true},
					{Op: OpRemoveExact, Item: itembag.NewStack(1, 0, 1), Expect: false},
					{Op: OpClear},
					{Op: OpLatest, Expect: map[string]any{}},
				},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runner, _ := newRunner(t)
			report, err := runner.Run(context.Background(), tt.sc)
			require.NoError(t, err)
			assert.NotEmpty(t, report.RunID)
			assert.Len(t, report.Results, len(tt.sc.Steps))
			assert.Empty(t, report.Failed())
		})
	}
}

func TestRunner_Mismatch(t *testing.T) {
	runner, m := newRunner(t)
	sc := &Scenario{
		Capacity: itembag.Unbounded,
		Steps: []Step{
			{Op: OpAdd, Item: itembag.NewStack(40, 0, 5)},
			{Op: OpContains, Item: itembag.NewStack(40, 0, 6), Expect: true},
			{Op: OpCount, Items: []itembag.ItemStack{itembag.NewStack(40, 0, 6)}},
		},
	}

	report, err := runner.Run(context.Background(), sc)
	require.NoError(t, err)

	failed := report.Failed()
	require.Len(t, failed, 2)
	assert.Equal(t, 1, failed[0].Index)
	assert.Equal(t, false, failed[0].Got)
	assert.Equal(t, 2, failed[1].Index)
	assert.NotEmpty(t, failed[1].Reason)

	assert.Equal(t, float64(1), testutil.ToFloat64(m.OperationsTotal.WithLabelValues(OpContains, "mismatch")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.OperationsTotal.WithLabelValues(OpAdd, "ok")))
}

func TestRunner_BadExpect(t *testing.T) {
	runner, _ := newRunner(t)
	sc := &Scenario{
		Capacity: itembag.Unbounded,
		Steps:    []Step{{Op: OpCount, Expect: "many"}},
	}
	_, err := runner.Run(context.Background(), sc)
	assert.Error(t, err)
}

func TestRunner_Cancelled(t *testing.T) {
	runner, _ := newRunner(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report, err := runner.Run(ctx, &Scenario{Steps: []Step{{Op: OpClear}}})
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Empty(t, report.Results)
}

func TestSuite(t *testing.T) {
	dir := t.TempDir()
	pass := writeFile(t, dir, "pass.yaml", "steps:\n  - op: count\n    expect: 0\n")
	fail := writeFile(t, dir, "fail.yaml", "steps:\n  - op: count\n    expect: 1\n")

	runner, _ := newRunner(t)

	t.Run("all pass", func(t *testing.T) {
		suite := NewSuite(runner, []string{pass}, logger.NewNoop())
		for _, task := range suite.Tasks() {
			require.NoError(t, task(context.Background()))
		}
		assert.NoError(t, suite.Verify())

		report, ok := suite.Report(pass)
		require.True(t, ok)
		assert.Equal(t, pass, report.Name)
	})

	t.Run("mismatch", func(t *testing.T) {
		suite := NewSuite(runner, []string{pass, fail}, logger.NewNoop())
		for _, task := range suite.Tasks() {
			require.NoError(t, task(context.Background()))
		}
		assert.True(t, errors.Is(suite.Verify(), ErrMismatch))
	})

	t.Run("not executed", func(t *testing.T) {
		suite := NewSuite(runner, []string{pass}, logger.NewNoop())
		assert.True(t, errors.Is(suite.Verify(), ErrMismatch))
	})
}
