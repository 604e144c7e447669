package watch

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/conduit-lang/configkeys/internal/logging"
	"github.com/conduit-lang/configkeys/internal/store"
)

// Reloader re-reads the backing store and regenerates the artifact
type Reloader interface {
	Reload() bool
}

// StoreWatcher reloads the configuration when the backing store content
// changes. Events that leave the content as it was are ignored.
type StoreWatcher struct {
	store  *store.Store
	target Reloader
	log    *zap.Logger
	fw     *FileWatcher

	mu       sync.Mutex
	lastHash string
	reloads  int
}

// NewStoreWatcher creates a watcher for st that reloads target
func NewStoreWatcher(st *store.Store, target Reloader, debounce time.Duration, log *zap.Logger) (*StoreWatcher, error) {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	w := &StoreWatcher{
		store:  st,
		target: target,
		log:    logging.OrNop(log),
	}

	fw, err := NewFileWatcher([]string{st.Path}, debounce, w.handle, w.log)
	if err != nil {
		return nil, err
	}
	w.fw = fw
	return w, nil
}

// Start records the current content hash and begins watching
func (w *StoreWatcher) Start() error {
	w.mu.Lock()
	w.lastHash, _ = w.store.Hash()
	w.mu.Unlock()

	if err := w.fw.Start(); err != nil {
		return err
	}
	w.log.Info("watching configuration store", zap.String("path", w.store.Path))
	return nil
}

// Stop stops watching
func (w *StoreWatcher) Stop() error {
	return w.fw.Stop()
}

// Run watches until ctx is done
func (w *StoreWatcher) Run(ctx context.Context) error {
	if err := w.Start(); err != nil {
		return err
	}
	<-ctx.Done()
	return w.Stop()
}

// Reloads returns how many reloads the watcher has triggered
func (w *StoreWatcher) Reloads() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.reloads
}

func (w *StoreWatcher) handle(files []string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	hash, err := w.store.Hash()
	if err != nil {
		// the file is mid-replacement; the next event will pick it up
		w.log.Debug("configuration store unreadable", zap.Error(err))
		return nil
	}
	if hash == w.lastHash {
		w.log.Debug("configuration store content unchanged", zap.Strings("files", files))
		return nil
	}
	w.lastHash = hash

	w.log.Info("configuration store changed, regenerating", zap.String("path", w.store.Path))
	w.reloads++
	if !w.target.Reload() {
		w.log.Warn("regeneration after store change failed")
	}
	return nil
}
