package config

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// DefaultDebounce collapses the burst of events an editor save produces
const DefaultDebounce = 200 * time.Millisecond

// FileWatcher reports changes to a single file. It watches the parent
// directory so files replaced by rename (as most editors save) keep being
// tracked. Callbacks run on the watcher goroutine.
type FileWatcher struct {
	path      string
	debounce  time.Duration
	callbacks []func(path string)
	mu        sync.RWMutex
	logger    *zap.Logger
	watcher   *fsnotify.Watcher
	stopCh    chan struct{}
	doneCh    chan struct{}
	closeOnce sync.Once
}

// WatcherOption configures a FileWatcher
type WatcherOption func(*FileWatcher)

// WithDebounce sets the quiet period before callbacks fire
func WithDebounce(d time.Duration) WatcherOption {
	return func(w *FileWatcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// NewFileWatcher starts watching path
func NewFileWatcher(path string, logger *zap.Logger, opts ...WatcherOption) (*FileWatcher, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", path, err)
	}

	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	if err := fsWatcher.Add(filepath.Dir(abs)); err != nil {
		fsWatcher.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", path, err)
	}

	w := &FileWatcher{
		path:     abs,
		debounce: DefaultDebounce,
		logger:   logger,
		watcher:  fsWatcher,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}

	go w.watchLoop()

	logger.Debug("Watching file", zap.String("path", abs))
	return w, nil
}

// OnChange registers a callback to be called when the file changes
func (w *FileWatcher) OnChange(callback func(path string)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.callbacks = append(w.callbacks, callback)
}

// Path returns the absolute path being watched
func (w *FileWatcher) Path() string {
	return w.path
}

// Close stops the watcher and waits for its goroutine to exit
func (w *FileWatcher) Close() error {
	var err error
	w.closeOnce.Do(func() {
		close(w.stopCh)
		<-w.doneCh
		err = w.watcher.Close()
	})
	return err
}

// watchLoop monitors for file changes and triggers callbacks
func (w *FileWatcher) watchLoop() {
	defer close(w.doneCh)

	var debounceTimer *time.Timer
	defer func() {
		if debounceTimer != nil {
			debounceTimer.Stop()
		}
	}()

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}

			w.logger.Debug("File changed",
				zap.String("file", event.Name),
				zap.String("operation", event.Op.String()),
			)

			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(w.debounce, w.notify)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("File watcher error", zap.Error(err))

		case <-w.stopCh:
			w.logger.Debug("Stopping file watcher", zap.String("path", w.path))
			return
		}
	}
}

func (w *FileWatcher) notify() {
	w.mu.RLock()
	callbacks := make([]func(string), len(w.callbacks))
	copy(callbacks, w.callbacks)
	w.mu.RUnlock()

	for _, cb := range callbacks {
		cb(w.path)
	}
}

// ConfigWatcher hot-reloads a YAML config overlay
type ConfigWatcher struct {
	file      *FileWatcher
	config    *Config
	callbacks []func(*Config)
	mu        sync.RWMutex
	logger    *zap.Logger
}

// NewConfigWatcher watches initial.ConfigFile and reloads the whole
// configuration whenever it changes. Invalid reloads are logged and
// ignored.
func NewConfigWatcher(initial *Config, logger *zap.Logger, opts ...WatcherOption) (*ConfigWatcher, error) {
	if initial.ConfigFile == "" {
		return nil, fmt.Errorf("config has no file to watch")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	file, err := NewFileWatcher(initial.ConfigFile, logger, opts...)
	if err != nil {
		return nil, err
	}

	cw := &ConfigWatcher{file: file, config: initial, logger: logger}
	file.OnChange(func(string) { cw.reload() })

	logger.Info("Configuration hot reloading enabled",
		zap.String("file", initial.ConfigFile),
		zap.String("environment", initial.Environment),
	)
	return cw, nil
}

// OnChange registers a callback to be called when configuration changes
func (cw *ConfigWatcher) OnChange(callback func(*Config)) {
	cw.mu.Lock()
	defer cw.mu.Unlock()
	cw.callbacks = append(cw.callbacks, callback)
}

// Current returns the most recently loaded configuration
func (cw *ConfigWatcher) Current() *Config {
	cw.mu.RLock()
	defer cw.mu.RUnlock()
	return cw.config
}

// Close stops watching
func (cw *ConfigWatcher) Close() error {
	return cw.file.Close()
}

func (cw *ConfigWatcher) reload() {
	cw.mu.RLock()
	path := cw.config.ConfigFile
	cw.mu.RUnlock()

	next, err := LoadConfigFile(path)
	if err != nil {
		cw.logger.Error("Invalid configuration after reload", zap.Error(err))
		return
	}

	cw.mu.Lock()
	cw.config = next
	callbacks := make([]func(*Config), len(cw.callbacks))
	copy(callbacks, cw.callbacks)
	cw.mu.Unlock()

	for _, cb := range callbacks {
		cb(next)
	}
	cw.logger.Info("Configuration reloaded successfully",
		zap.Int("callbacks_notified", len(callbacks)),
	)
}
