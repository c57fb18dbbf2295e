package app

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type closerFunc func() error

func (f closerFunc) Close() error { return f() }

func TestBaseApp_RunTasks(t *testing.T) {
	var ran atomic.Int32
	var order []string

	a := NewBaseApp(WithName("test"), WithConcurrency(2))
	a.AppendTask(
		func(context.Context) error { ran.Add(1); return nil },
		func(context.Context) error { ran.Add(1); return nil },
		func(context.Context) error { ran.Add(1); return nil },
	)
	a.AppendCloser(
		closerFunc(func() error { order = append(order, "first"); return nil }),
		closerFunc(func() error { order = append(order, "second"); return nil }),
	)

	require.NoError(t, a.Run())
	assert.Equal(t, int32(3), ran.Load())
	assert.Equal(t, []string{"second", "first"}, order)

	assert.True(t, errors.Is(a.Run(), ErrAppAlreadyRunning))
}

func TestBaseApp_TaskErrorCancelsOthers(t *testing.T) {
	boom := errors.New("boom")

	a := NewBaseApp(WithConcurrency(2))
	a.AppendTask(
		func(context.Context) error { return boom },
		func(ctx context.Context) error {
			<-ctx.Done()
			return ctx.Err()
		},
	)

	err := a.Run()
	assert.True(t, errors.Is(err, boom))
}

func TestBaseApp_CloserError(t *testing.T) {
	closeErr := errors.New("close failed")

	a := NewBaseApp()
	a.AppendCloser(MapCloser(closerFunc(func() error { return closeErr })))

	err := a.Run()
	assert.True(t, errors.Is(err, closeErr))
	assert.NoError(t, a.Shutdown())
}

func TestInitApp(t *testing.T) {
	var called bool
	a := NewBaseApp()
	application := InitApp(a, AppComponents{
		Tasks: []Task{func(context.Context) error { called = true; return nil }},
	})

	require.NoError(t, application.Run())
	assert.True(t, called)
	assert.NotNil(t, application.Logger())
}

func TestWithConcurrency(t *testing.T) {
	o := DefaultOptions()
	def := o.Concurrency

	WithConcurrency(0)(&o)
	assert.Equal(t, def, o.Concurrency)

	WithConcurrency(3)(&o)
	assert.Equal(t, 3, o.Concurrency)
}

func TestWithID(t *testing.T) {
	assert.Equal(t, "bagsim-ci", NewBaseApp(WithID("bagsim-ci")).ID())
	assert.NotEmpty(t, NewBaseApp(WithID("")).ID())
}
