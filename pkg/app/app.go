package app

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"

	"github.com/cockroachdb/errors"
	"github.com/lk2023060901/itembag/pkg/logger"
	"golang.org/x/sync/errgroup"
)

var (
	ErrAppAlreadyRunning = errors.New("application is already running")
)

// Application 定义了命令行应用的接口
type Application interface {
	Run() error
	Shutdown() error
	Logger() logger.Logger
}

// Task 应用要执行的任务，ctx 在收到退出信号后取消
type Task func(ctx context.Context) error

// Closer 定义了资源清理接口
type Closer interface {
	Close() error
}

// BaseApp 提供了 Application 接口的基础实现
type BaseApp struct {
	opts    Options
	logger  logger.Logger
	tasks   []Task
	closers []Closer

	ctx    context.Context
	cancel context.CancelFunc
	mu     sync.RWMutex

	// 状态管理
	started atomic.Bool
	closed  atomic.Bool
}

// NewBaseApp 创建一个新的 BaseApp 实例
func NewBaseApp(opts ...Option) *BaseApp {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &BaseApp{
		opts:   o,
		logger: o.Logger.Named(o.Name).WithFields("app_id", o.ID),
		ctx:    ctx,
		cancel: cancel,
	}
}

// ID 应用实例 ID
func (a *BaseApp) ID() string {
	return a.opts.ID
}

// Logger 获取应用主日志对象
func (a *BaseApp) Logger() logger.Logger {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.logger
}

// Run 并发执行所有任务（最多 Concurrency 个同时运行），全部结束后关闭应用
// 任一任务返回错误时取消其余任务
func (a *BaseApp) Run() error {
	if !a.started.CompareAndSwap(false, true) {
		return ErrAppAlreadyRunning
	}

	a.mu.RLock()
	tasks := append([]Task(nil), a.tasks...)
	a.mu.RUnlock()

	a.logger.Info("application starting",
		"version", a.opts.Version,
		"tasks", len(tasks),
		"concurrency", a.opts.Concurrency,
	)

	// 监听系统信号
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)
	go func() {
		select {
		case sig := <-quit:
			a.logger.Info("received signal, shutting down", "signal", sig.String())
			a.cancel()
		case <-a.ctx.Done():
		}
	}()

	g, ctx := errgroup.WithContext(a.ctx)
	g.SetLimit(a.opts.Concurrency)
	for _, task := range tasks {
		g.Go(func() error {
			return task(ctx)
		})
	}
	runErr := g.Wait()
	if runErr != nil {
		a.logger.Error("task failed", "error", runErr)
	}

	if err := a.Shutdown(); err != nil {
		return errors.CombineErrors(runErr, err)
	}
	return runErr
}

// Shutdown 取消运行中的任务并清理资源
func (a *BaseApp) Shutdown() error {
	if !a.closed.CompareAndSwap(false, true) {
		return nil
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	a.cancel()

	// 逆序关闭所有 Closer 组件（LIFO）
	var errs error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil {
			a.logger.Error("failed to close component", "error", err)
			errs = errors.CombineErrors(errs, err)
		}
	}

	a.logger.Info("application exited")
	_ = a.logger.Sync()
	return errs
}

// AppendTask 添加任务
func (a *BaseApp) AppendTask(task ...Task) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.tasks = append(a.tasks, task...)
}

// AppendCloser 添加资源清理组件
func (a *BaseApp) AppendCloser(closer ...Closer) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.closers = append(a.closers, closer...)
}
