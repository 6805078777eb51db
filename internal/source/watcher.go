package source

import (
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// DefaultDebounce coalesces the bursts of events editors produce on save.
const DefaultDebounce = 100 * time.Millisecond

// Update is the result of reloading a watched file.
type Update struct {
	Path    string
	Strings []string
	Err     error
	Time    time.Time
}

// WatcherOption configures a Watcher.
type WatcherOption func(*Watcher)

// WithDebounce sets how long the watcher waits for events to settle.
func WithDebounce(d time.Duration) WatcherOption {
	return func(w *Watcher) {
		if d >= 0 {
			w.debounce = d
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) WatcherOption {
	return func(w *Watcher) {
		if logger != nil {
			w.logger = logger
		}
	}
}

// WithKeyPath sets the key path passed to Load.
func WithKeyPath(keyPath string) WatcherOption {
	return func(w *Watcher) {
		w.keyPath = keyPath
	}
}

// Watcher reloads a strings file when it changes and delivers the
// result on Updates. The parent directory is watched so that files
// replaced by rename are followed.
type Watcher struct {
	path    string
	keyPath string

	watcher  *fsnotify.Watcher
	debounce time.Duration
	logger   *zap.Logger

	updates chan Update
	reloads atomic.Int64

	mu       sync.Mutex
	closed   bool
	closeCh  chan struct{}
	closedWg sync.WaitGroup
}

// NewWatcher starts watching path.
func NewWatcher(path string, opts ...WatcherOption) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		path:     abs,
		debounce: DefaultDebounce,
		logger:   zap.NewNop(),
		updates:  make(chan Update, 1),
		closeCh:  make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		fsw.Close()
		return nil, &ParseError{Path: path, Err: err}
	}
	w.watcher = fsw

	w.closedWg.Add(1)
	go w.processLoop()

	return w, nil
}

// Path returns the absolute path of the watched file.
func (w *Watcher) Path() string {
	return w.path
}

// Updates returns the channel of reload results. Only the latest update
// is kept when the reader falls behind.
func (w *Watcher) Updates() <-chan Update {
	return w.updates
}

// Reloads returns the number of reloads performed.
func (w *Watcher) Reloads() int64 {
	return w.reloads.Load()
}

// Close stops the watcher and closes the updates channel.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	close(w.closeCh)
	w.mu.Unlock()

	w.closedWg.Wait()
	close(w.updates)
	return w.watcher.Close()
}

// processLoop handles incoming fsnotify events.
func (w *Watcher) processLoop() {
	defer w.closedWg.Done()

	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-w.closeCh:
			return

		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !w.relevant(ev) {
				continue
			}
			w.logger.Debug("strings file event", zap.String("path", ev.Name), zap.Stringer("op", ev.Op))
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			w.reload()

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("strings watcher error", zap.Error(err))
			w.send(Update{Path: w.path, Err: err, Time: time.Now()})
		}
	}
}

func (w *Watcher) relevant(ev fsnotify.Event) bool {
	if filepath.Clean(ev.Name) != w.path {
		return false
	}
	return ev.Op.Has(fsnotify.Write) || ev.Op.Has(fsnotify.Create) || ev.Op.Has(fsnotify.Rename)
}

func (w *Watcher) reload() {
	strs, err := Load(w.path, w.keyPath)
	w.reloads.Add(1)
	if err != nil {
		w.logger.Warn("strings reload failed", zap.String("path", w.path), zap.Error(err))
	} else {
		w.logger.Info("strings reloaded", zap.String("path", w.path), zap.Int("count", len(strs)))
	}
	w.send(Update{Path: w.path, Strings: strs, Err: err, Time: time.Now()})
}

// send delivers u, replacing an unread update.
func (w *Watcher) send(u Update) {
	for {
		select {
		case w.updates <- u:
			return
		default:
		}
		select {
		case <-w.updates:
		default:
		}
	}
}
