package store

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/afero"

	"github.com/errandhq/errandsync/internal/bus"
)

// Namespace is the shared key-value store visible to every context of one
// user profile: a directory holding one file per key. Values are opaque
// bytes, JSON by convention. There is no locking and no compare-and-swap;
// the conflict policy is last-write-wins per key, which is the accepted
// trade-off for a single-profile, multi-context store.
//
// Every successful mutation publishes a storage event on the attached bus
// carrying the key plus old and new serialized values.
type Namespace struct {
	fs  afero.Fs
	dir string
	bus *bus.Bus
}

// NewNamespace opens (creating if needed) the namespace directory.
func NewNamespace(fs afero.Fs, dir string, b *bus.Bus) (*Namespace, error) {
	if dir == "" {
		return nil, fmt.Errorf("namespace directory must not be empty")
	}
	if err := fs.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create namespace directory %s: %w", dir, err)
	}
	return &Namespace{fs: fs, dir: dir, bus: b}, nil
}

// Dir returns the backing directory, for attaching a cross-context watcher.
func (n *Namespace) Dir() string { return n.dir }

// Bus returns the notification bus mutations are published on.
func (n *Namespace) Bus() *bus.Bus { return n.bus }

func (n *Namespace) path(key string) string {
	return filepath.Join(n.dir, key+".json")
}

// validKey rejects keys that would escape the namespace directory.
func validKey(key string) error {
	if key == "" {
		return fmt.Errorf("key must not be empty")
	}
	if strings.ContainsAny(key, "/\\") || strings.Contains(key, "..") {
		return fmt.Errorf("key %q contains path characters", key)
	}
	return nil
}

// Get reads the value stored under key. ok is false when the key is absent.
func (n *Namespace) Get(key string) (value []byte, ok bool, err error) {
	if err := validKey(key); err != nil {
		return nil, false, err
	}
	data, err := afero.ReadFile(n.fs, n.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("read key %s: %w", key, err)
	}
	return data, true, nil
}

// Put writes value under key atomically (temp file, then rename) and
// publishes the change. The previous value, if any, rides along on the event.
func (n *Namespace) Put(key string, value []byte) error {
	if err := validKey(key); err != nil {
		return err
	}

	oldValue, _, err := n.Get(key)
	if err != nil {
		return err
	}

	target := n.path(key)
	tmp := target + ".tmp"
	if err := afero.WriteFile(n.fs, tmp, value, 0o644); err != nil {
		return fmt.Errorf("write temp file for key %s: %w", key, err)
	}
	if err := n.fs.Rename(tmp, target); err != nil {
		_ = n.fs.Remove(tmp)
		return fmt.Errorf("commit key %s: %w", key, err)
	}

	n.notify(key, oldValue, value)
	return nil
}

// Delete removes key. Deleting an absent key is a no-op and publishes
// nothing.
func (n *Namespace) Delete(key string) error {
	if err := validKey(key); err != nil {
		return err
	}

	oldValue, existed, err := n.Get(key)
	if err != nil {
		return err
	}
	if !existed {
		return nil
	}

	if err := n.fs.Remove(n.path(key)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete key %s: %w", key, err)
	}

	n.notify(key, oldValue, nil)
	return nil
}

// Keys lists every key in the namespace carrying the given prefix, sorted
// for deterministic iteration. Semantically the namespace is unordered.
func (n *Namespace) Keys(prefix string) ([]string, error) {
	entries, err := afero.ReadDir(n.fs, n.dir)
	if err != nil {
		return nil, fmt.Errorf("scan namespace %s: %w", n.dir, err)
	}

	var keys []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasSuffix(name, ".tmp") {
			continue
		}
		key := strings.TrimSuffix(name, ".json")
		if key == name {
			continue
		}
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

func (n *Namespace) notify(key string, oldValue, newValue []byte) {
	if n.bus == nil {
		return
	}
	n.bus.Publish(bus.Event{Key: key, OldValue: oldValue, NewValue: newValue})
}
