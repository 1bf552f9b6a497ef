// Package dedupe tracks client request ids so a retried log append is applied
// at most once.
package dedupe

import (
	"context"
	"sync"
)

// DefaultMaxSize bounds how many request ids are remembered.
const DefaultMaxSize = 4096

// Deduper records seen request ids.
type Deduper interface {
	// SeenAndRecord reports whether id was already recorded and records it
	// if not. Check and record happen atomically.
	SeenAndRecord(ctx context.Context, id string) bool

	// Unrecord forgets id so a request that was never applied can be retried.
	Unrecord(ctx context.Context, id string)

	Size() int64
}

// ringDeduper remembers the most recent ids in a fixed ring. When full, the
// oldest id is forgotten first.
type ringDeduper struct {
	mu      sync.Mutex
	slots   []string
	index   map[string]int
	next    int
	maxSize int
}

// NewInMemoryDeduper creates an in-memory Deduper. A non-positive max size
// disables eviction.
func NewInMemoryDeduper(opts ...Option) Deduper {
	d := &ringDeduper{maxSize: DefaultMaxSize}
	for _, opt := range opts {
		opt(d)
	}
	d.index = make(map[string]int)
	if d.maxSize > 0 {
		d.slots = make([]string, 0, d.maxSize)
	}
	return d
}

func (d *ringDeduper) SeenAndRecord(_ context.Context, id string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.index[id]; ok {
		return true
	}

	if d.maxSize <= 0 {
		d.index[id] = -1
		return false
	}

	if len(d.slots) < d.maxSize {
		d.index[id] = len(d.slots)
		d.slots = append(d.slots, id)
		return false
	}

	// Full: overwrite the oldest slot. An emptied slot (after Unrecord) is
	// reused the same way.
	if old := d.slots[d.next]; old != "" {
		delete(d.index, old)
	}
	d.slots[d.next] = id
	d.index[id] = d.next
	d.next = (d.next + 1) % d.maxSize
	return false
}

func (d *ringDeduper) Unrecord(_ context.Context, id string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	slot, ok := d.index[id]
	if !ok {
		return
	}
	delete(d.index, id)
	if slot >= 0 {
		d.slots[slot] = ""
	}
}

func (d *ringDeduper) Size() int64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return int64(len(d.index))
}
