package cache

import (
	"container/list"

	"github.com/chinmay-sawant/fontresolve/internal/fontcore"
)

// lruEntry is the payload stored in the container/list element.
type lruEntry struct {
	name  string
	entry fontcore.CacheEntry
}

// memoryLRU is a bounded, doubly-linked-list LRU keyed by font name. No
// third-party LRU package appears anywhere in the retrieved example repos;
// this is a small hand-rolled structure grounded on the teacher's own
// internal/pdf/fontregistry.go map-of-pointers shape, generalized with
// eviction ordering via container/list (stdlib).
type memoryLRU struct {
	byName map[string]*list.Element
	order  *list.List // front = most recently used
}

func newMemoryLRU() *memoryLRU {
	return &memoryLRU{byName: make(map[string]*list.Element), order: list.New()}
}

func (l *memoryLRU) get(name string) (fontcore.CacheEntry, bool) {
	el, ok := l.byName[name]
	if !ok {
		return fontcore.CacheEntry{}, false
	}
	l.order.MoveToFront(el)
	return el.Value.(*lruEntry).entry, true
}

func (l *memoryLRU) peek(name string) (fontcore.CacheEntry, bool) {
	el, ok := l.byName[name]
	if !ok {
		return fontcore.CacheEntry{}, false
	}
	return el.Value.(*lruEntry).entry, true
}

func (l *memoryLRU) put(name string, entry fontcore.CacheEntry) {
	if el, ok := l.byName[name]; ok {
		el.Value.(*lruEntry).entry = entry
		l.order.MoveToFront(el)
		return
	}
	el := l.order.PushFront(&lruEntry{name: name, entry: entry})
	l.byName[name] = el
}

func (l *memoryLRU) remove(name string) bool {
	el, ok := l.byName[name]
	if !ok {
		return false
	}
	l.order.Remove(el)
	delete(l.byName, name)
	return true
}

func (l *memoryLRU) len() int { return l.order.Len() }

// lruOrderNames returns the names of all resident entries, least recently
// used first, without mutating recency (used by cleanup/eviction scans).
func (l *memoryLRU) lruOrderNames() []string {
	names := make([]string, 0, l.order.Len())
	for el := l.order.Back(); el != nil; el = el.Prev() {
		names = append(names, el.Value.(*lruEntry).name)
	}
	return names
}

func (l *memoryLRU) all() map[string]fontcore.CacheEntry {
	out := make(map[string]fontcore.CacheEntry, l.order.Len())
	for name, el := range l.byName {
		out[name] = el.Value.(*lruEntry).entry
	}
	return out
}
