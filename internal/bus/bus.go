// Package bus carries change notifications between the shared task store and
// its consumers. Mutations produce two signals: a storage event with the key
// and old/new serialized values, and a parameterless "tasks changed" marker
// for listeners that only want a hint to re-scan. Delivery is synchronous,
// in subscription order, best-effort, at most once. Listeners that were not
// subscribed at dispatch time miss the event and are expected to fall back to
// scanning the store when they attach.
package bus

import "sync"

// Event is a storage change. A nil OldValue means the key did not exist
// before the mutation; a nil NewValue means the mutation removed it.
type Event struct {
	Key      string
	OldValue []byte
	NewValue []byte
}

type storageSub struct {
	id int
	fn func(Event)
}

type changedSub struct {
	id int
	fn func()
}

// Bus fans mutations out to subscribers. The zero value is not usable; call
// New.
type Bus struct {
	mu      sync.Mutex
	nextID  int
	storage []storageSub
	changed []changedSub
}

func New() *Bus {
	return &Bus{}
}

// SubscribeStorage registers fn for storage events and returns an
// unsubscribe func. fn runs on the publisher's goroutine; it must not block.
func (b *Bus) SubscribeStorage(fn func(Event)) func() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextID++
	id := b.nextID
	b.storage = append(b.storage, storageSub{id: id, fn: fn})
	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		for i, s := range b.storage {
			if s.id == id {
				b.storage = append(b.storage[:i], b.storage[i+1:]...)
				return
			}
		}
	}
}

// SubscribeChanged registers fn for the parameterless "tasks changed" signal
// and returns an unsubscribe func.
func (b *Bus) SubscribeChanged(fn func()) func() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextID++
	id := b.nextID
	b.changed = append(b.changed, changedSub{id: id, fn: fn})
	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		for i, s := range b.changed {
			if s.id == id {
				b.changed = append(b.changed[:i], b.changed[i+1:]...)
				return
			}
		}
	}
}

// Publish dispatches ev to every storage subscriber, then fires the changed
// signal once. Subscribers registered during dispatch do not receive ev.
func (b *Bus) Publish(ev Event) {
	b.mu.Lock()
	storage := make([]storageSub, len(b.storage))
	copy(storage, b.storage)
	changed := make([]changedSub, len(b.changed))
	copy(changed, b.changed)
	b.mu.Unlock()

	for _, s := range storage {
		s.fn(ev)
	}
	for _, s := range changed {
		s.fn()
	}
}
