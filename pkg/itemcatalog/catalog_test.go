package itemcatalog

import (
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/lk2023060901/itembag/pkg/config"
	"github.com/lk2023060901/itembag/pkg/itembag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tableYAML = `
items:
  - id: 1
    name: Wooden Sword
    max_stack: 1
  - id: 40
    name: Wooden Arrow
    max_stack: 999
  - id: 2
    name: Dirt Block
    max_stack: 0
`

func writeTable(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestNew_WithoutFile(t *testing.T) {
	c, err := New(nil, nil)
	require.NoError(t, err)

	assert.Equal(t, len(CoinDefs()), c.Len())
	assert.True(t, c.IsCurrencyKind(itembag.ItemKind(GoldCoin)))
	assert.Equal(t, int32(100), c.MaxStackSize(itembag.ItemKind(SilverCoin)))
}

func TestNew_LoadsTable(t *testing.T) {
	path := writeTable(t, "items.yaml", tableYAML)

	c, err := New(&Config{Path: path}, nil)
	require.NoError(t, err)

	assert.Equal(t, 3+len(CoinDefs()), c.Len())
	def, ok := c.Get(40)
	require.True(t, ok)
	assert.Equal(t, "Wooden Arrow", def.Name)

	assert.Equal(t, int32(1), c.MaxStackSize(1))
	assert.Equal(t, int32(999), c.MaxStackSize(40))
	assert.Equal(t, int32(math.MaxInt32), c.MaxStackSize(2))
	assert.False(t, c.IsCurrencyKind(40))
}

func TestNew_JSONTable(t *testing.T) {
	path := writeTable(t, "items.json", `{"items": [{"id": 5, "name": "Gem", "max_stack": 10, "coin_value": 7}]}`)

	c, err := New(&Config{Path: path, SkipCoins: true}, nil)
	require.NoError(t, err)

	assert.Equal(t, 1, c.Len())
	assert.True(t, c.IsCurrencyKind(5))
	assert.Equal(t, int64(70), c.CurrencyValue(5, 10))
	assert.False(t, c.IsCurrencyKind(itembag.ItemKind(CopperCoin)))
}

func TestNew_MissingFile(t *testing.T) {
	_, err := New(&Config{Path: filepath.Join(t.TempDir(), "none.yaml")}, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, config.ErrConfigFileNotFound))
}

func TestUnknownKind(t *testing.T) {
	c, err := New(&Config{DefaultMaxStack: 30}, nil)
	require.NoError(t, err)

	assert.Equal(t, int32(30), c.MaxStackSize(9999))
	assert.False(t, c.IsCurrencyKind(9999))
	assert.Equal(t, int64(0), c.CurrencyValue(9999, 5))
}

func TestReplace(t *testing.T) {
	c, err := New(nil, nil)
	require.NoError(t, err)

	t.Run("duplicate id", func(t *testing.T) {
		err := c.Replace([]ItemDef{{ID: 3, MaxStack: 1}, {ID: 3, MaxStack: 2}})
		assert.True(t, errors.Is(err, ErrDuplicateItem))
	})

	t.Run("invalid rows rejected", func(t *testing.T) {
		err := c.Replace([]ItemDef{{ID: 0}, {ID: 4, MaxStack: -1}})
		assert.True(t, errors.Is(err, config.ErrValidationFailed))
	})

	t.Run("failed replace keeps old table", func(t *testing.T) {
		assert.Equal(t, len(CoinDefs()), c.Len())
	})

	t.Run("table overrides builtin coin", func(t *testing.T) {
		require.NoError(t, c.Replace([]ItemDef{{ID: CopperCoin, MaxStack: 500, CoinValue: 2}}))
		assert.Equal(t, int32(500), c.MaxStackSize(itembag.ItemKind(CopperCoin)))
		assert.Equal(t, int64(20), c.CurrencyValue(itembag.ItemKind(CopperCoin), 10))
	})
}

func TestWatchRequiresPath(t *testing.T) {
	c, err := New(nil, nil)
	require.NoError(t, err)
	assert.True(t, errors.Is(c.Watch(), ErrNoPath))
}

func TestWatchReloads(t *testing.T) {
	path := writeTable(t, "items.yaml", tableYAML)

	c, err := New(&Config{Path: path, Watch: true}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	require.Equal(t, int32(999), c.MaxStackSize(40))

	updated := "items:\n  - id: 40\n    name: Wooden Arrow\n    max_stack: 250\n"
	require.NoError(t, os.WriteFile(path, []byte(updated), 0644))

	assert.Eventually(t, func() bool {
		return c.MaxStackSize(40) == 250
	}, 5*time.Second, 50*time.Millisecond)
}

func TestCloseStopsReload(t *testing.T) {
	path := writeTable(t, "items.yaml", tableYAML)

	c, err := New(&Config{Path: path, Watch: true}, nil)
	require.NoError(t, err)
	require.NoError(t, c.Close())
	assert.NoError(t, c.Close())

	updated := "items:\n  - id: 40\n    name: Wooden Arrow\n    max_stack: 250\n"
	require.NoError(t, os.WriteFile(path, []byte(updated), 0644))
	time.Sleep(200 * time.Millisecond)

	assert.Equal(t, int32(999), c.MaxStackSize(40))
}

func TestCatalogDrivesBag(t *testing.T) {
	path := writeTable(t, "items.yaml", tableYAML)
	c, err := New(&Config{Path: path}, nil)
	require.NoError(t, err)

	bag := itembag.New(c, itembag.WithCapacity(4))
	bag.Add(itembag.NewStack(itembag.ItemKind(CopperCoin), 0, 150))
	bag.Add(itembag.NewStack(itembag.ItemKind(PlatinumCoin), 0, 2))
	bag.Add(itembag.NewStack(40, 0, 10))

	assert.Equal(t, []itembag.ItemStack{
		itembag.NewStack(itembag.ItemKind(CopperCoin), 0, 100),
		itembag.NewStack(itembag.ItemKind(CopperCoin), 0, 50),
		itembag.NewStack(itembag.ItemKind(PlatinumCoin), 0, 2),
		itembag.NewStack(40, 0, 10),
	}, bag.Items())
	assert.Equal(t, int64(2000150), bag.TotalCoinValue())
	assert.True(t, bag.ContainsCoinValue(2000000))
	assert.False(t, bag.ContainsCoinValue(2000151))
}
