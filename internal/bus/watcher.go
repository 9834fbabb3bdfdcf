package bus

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// Watcher turns filesystem mutations of a shared namespace directory into
// storage events on a local Bus. It is the cross-context half of the
// notification design: a write performed by another process is not observable
// through that process's in-memory Bus, so each context runs its own Watcher
// over the shared directory.
//
// The watcher keeps a cache of last-seen values so remote mutations can be
// re-published with both old and new serialized values. Events carrying a
// value identical to the cached one are suppressed; in particular, the
// context that performed a write sees its own mutation only through the
// in-memory Bus, not echoed back by its Watcher.
//
// It watches a real directory and therefore requires an OS-backed namespace.
type Watcher struct {
	dir     string
	bus     *Bus
	watcher *fsnotify.Watcher

	mu    sync.Mutex
	cache map[string][]byte

	unsubscribe func()
	cancel      context.CancelFunc
	wg          sync.WaitGroup
}

// NewWatcher creates a watcher over dir publishing onto b. The cache is
// primed from the current directory contents so that the first remote
// mutation of an existing key carries its old value.
func NewWatcher(dir string, b *Bus) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		dir:     dir,
		bus:     b,
		watcher: fw,
		cache:   make(map[string][]byte),
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		_ = fw.Close()
		return nil, err
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		key, ok := keyFromFile(entry.Name())
		if !ok {
			continue
		}
		if data, err := os.ReadFile(filepath.Join(dir, entry.Name())); err == nil {
			w.cache[key] = data
		}
	}

	if err := fw.Add(dir); err != nil {
		_ = fw.Close()
		return nil, err
	}

	// Track every event flowing through the local bus, including the ones
	// this context writes itself. A local write lands in the cache during the
	// synchronous publish, so the later fsnotify echo of the same content is
	// suppressed and the writing context only ever sees its in-memory signal.
	w.unsubscribe = b.SubscribeStorage(w.noteValue)

	return w, nil
}

// Start begins the event loop on its own goroutine.
func (w *Watcher) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	w.cancel = cancel
	w.wg.Add(1)
	go w.eventLoop(ctx)
}

// Stop halts the event loop and releases the underlying fsnotify watcher.
func (w *Watcher) Stop() {
	if w.unsubscribe != nil {
		w.unsubscribe()
	}
	if w.cancel != nil {
		w.cancel()
	}
	_ = w.watcher.Close()
	w.wg.Wait()
}

func (w *Watcher) eventLoop(ctx context.Context) {
	defer w.wg.Done()

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			slog.Debug("namespace watch error", "dir", w.dir, "error", err)

		case <-ctx.Done():
			return
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	key, ok := keyFromFile(filepath.Base(event.Name))
	if !ok {
		return
	}

	switch {
	case event.Op&(fsnotify.Create|fsnotify.Write) != 0:
		data, err := os.ReadFile(event.Name)
		if err != nil {
			// The rename target may already have been replaced or removed;
			// the follow-up event covers it.
			return
		}
		w.publish(key, data)

	case event.Op&(fsnotify.Remove|fsnotify.Rename) != 0:
		w.publish(key, nil)
	}
}

func (w *Watcher) publish(key string, newValue []byte) {
	w.mu.Lock()
	oldValue, existed := w.cache[key]
	if newValue == nil && !existed {
		w.mu.Unlock()
		return
	}
	if newValue != nil && existed && string(oldValue) == string(newValue) {
		// Unchanged content, or our own write already seen in-memory.
		w.mu.Unlock()
		return
	}
	if newValue == nil {
		delete(w.cache, key)
	} else {
		w.cache[key] = newValue
	}
	w.mu.Unlock()

	w.bus.Publish(Event{Key: key, OldValue: oldValue, NewValue: newValue})
}

// noteValue folds a bus event into the cache. Re-entrant with respect to the
// watcher's own publishes, which have already updated the cache.
func (w *Watcher) noteValue(ev Event) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if ev.NewValue == nil {
		delete(w.cache, ev.Key)
		return
	}
	w.cache[ev.Key] = ev.NewValue
}

// keyFromFile maps a namespace entry file name back to its key. Temp files
// from in-flight atomic writes are not keys.
func keyFromFile(name string) (string, bool) {
	if strings.HasSuffix(name, ".tmp") || strings.HasPrefix(name, ".") {
		return "", false
	}
	key := strings.TrimSuffix(name, ".json")
	if key == name || key == "" {
		return "", false
	}
	return key, true
}
