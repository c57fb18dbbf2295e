package config

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// Manager 配置管理器接口
type Manager interface {
	// LoadFile 加载配置文件（YAML、JSON、TOML 等，按扩展名识别）
	LoadFile(path string) error
	// Unmarshal 解析整个配置到结构体
	Unmarshal(v any) error
	// UnmarshalKey 解析指定路径的配置，如 "catalog.items"
	UnmarshalKey(key string, v any) error
	// Get 获取配置值
	Get(key string) any
	// IsSet 检查配置项是否存在
	IsSet(key string) bool
	// Watch 监听配置文件变化，文件重新读取后回调
	Watch(callback func()) error
	// Close 停止监听，未监听时直接返回
	Close() error
}

type manager struct {
	v         *viper.Viper
	mu        sync.RWMutex
	callbacks []func()
	watcher   *fsnotify.Watcher
	done      chan struct{}
}

// NewManager 创建配置管理器
func NewManager(opts ...Option) Manager {
	m := &manager{v: viper.New()}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *manager) LoadFile(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return errors.Wrapf(ErrConfigFileNotFound, "%s", path)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.v.SetConfigFile(path)
	if err := m.v.ReadInConfig(); err != nil {
		return errors.Wrapf(err, "read config file %s", path)
	}
	return nil
}

func (m *manager) Unmarshal(v any) error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if err := m.v.Unmarshal(v); err != nil {
		return errors.Wrap(err, "unmarshal config")
	}
	return nil
}

func (m *manager) UnmarshalKey(key string, v any) error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if err := m.v.UnmarshalKey(key, v); err != nil {
		return errors.Wrapf(err, "unmarshal key %s", key)
	}
	return nil
}

func (m *manager) Get(key string) any {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.v.Get(key)
}

func (m *manager) IsSet(key string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.v.IsSet(key)
}

func (m *manager) Watch(callback func()) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	path := m.v.ConfigFileUsed()
	if path == "" {
		return ErrNoConfigFile
	}

	m.callbacks = append(m.callbacks, callback)
	if m.watcher != nil {
		return nil
	}

	// 监听所在目录，编辑器保存时常以重命名方式替换文件
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, "create file watcher")
	}
	if err := w.Add(filepath.Dir(path)); err != nil {
		_ = w.Close()
		return errors.Wrapf(err, "watch %s", path)
	}

	m.watcher = w
	m.done = make(chan struct{})
	go m.watchLoop(w, filepath.Clean(path), m.done)
	return nil
}

func (m *manager) watchLoop(w *fsnotify.Watcher, path string, done chan struct{}) {
	defer close(done)
	for {
		select {
		case ev, ok := <-w.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != path || ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}

			m.mu.Lock()
			err := m.v.ReadInConfig()
			callbacks := append([]func(){}, m.callbacks...)
			m.mu.Unlock()

			// 文件可能正在写入，等下一次事件
			if err != nil {
				continue
			}
			for _, cb := range callbacks {
				cb()
			}
		case _, ok := <-w.Errors:
			if !ok {
				return
			}
		}
	}
}

func (m *manager) Close() error {
	m.mu.Lock()
	w, done := m.watcher, m.done
	m.watcher, m.done = nil, nil
	m.mu.Unlock()

	if w == nil {
		return nil
	}
	err := w.Close()
	<-done
	if err != nil {
		return errors.Wrap(err, "close file watcher")
	}
	return nil
}
