package config

import (
	"sync"

	"github.com/cockroachdb/errors"
)

// Watcher 配置监听器（热更新），T 为配置结构体
type Watcher[T any] struct {
	mgr       Manager
	key       string
	mu        sync.RWMutex
	config    *T
	callbacks []func(*T)
	onError   func(error)
}

// NewWatcher 加载配置文件并开始监听
// key 为空时解析整个文件，否则只解析该路径
// onError 接收重新加载失败的错误，失败时保留旧配置
func NewWatcher[T any](path, key string, onError func(error), opts ...Option) (*Watcher[T], error) {
	mgr := NewManager(opts...)
	if err := mgr.LoadFile(path); err != nil {
		return nil, err
	}

	w := &Watcher[T]{mgr: mgr, key: key, onError: onError}
	cfg, err := w.decode()
	if err != nil {
		return nil, err
	}
	w.config = cfg

	if err := mgr.Watch(w.reload); err != nil {
		return nil, err
	}
	return w, nil
}

// GetConfig 获取当前配置
func (w *Watcher[T]) GetConfig() *T {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.config
}

// Close 停止监听
func (w *Watcher[T]) Close() error {
	return w.mgr.Close()
}

// OnChange 注册配置变化回调
func (w *Watcher[T]) OnChange(callback func(*T)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.callbacks = append(w.callbacks, callback)
}

func (w *Watcher[T]) decode() (*T, error) {
	var cfg T
	var err error
	if w.key == "" {
		err = w.mgr.Unmarshal(&cfg)
	} else {
		err = w.mgr.UnmarshalKey(w.key, &cfg)
	}
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (w *Watcher[T]) reload() {
	cfg, err := w.decode()
	if err != nil {
		if w.onError != nil {
			w.onError(errors.Wrap(err, "reload config"))
		}
		return
	}

	w.mu.Lock()
	w.config = cfg
	callbacks := append([]func(*T){}, w.callbacks...)
	w.mu.Unlock()

	for _, cb := range callbacks {
		cb(cfg)
	}
}
