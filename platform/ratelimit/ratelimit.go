// Package ratelimit provides a per-identity fixed-window rate limiter.
// This is part of the platform layer and contains no business logic.
package ratelimit

import (
	"container/list"
	"sync"
	"time"
)

// entry tracks one identity's window state. Entries live on the LRU list so
// the total number of tracked identities stays bounded.
type entry struct {
	key       string
	count     int
	expiresAt time.Time
}

// Limiter counts operations per identity inside a fixed window. When the
// window has expired the counter resets and a new window starts before the
// increment is applied. State is in-memory and single-process: restarts clear
// all counters and nothing is coordinated across replicas.
type Limiter struct {
	mu         sync.Mutex
	entries    map[string]*list.Element
	order      *list.List // front = most recently used
	maxTracked int
	max        int
	window     time.Duration
	now        func() time.Time
}

// New creates a limiter allowing max operations per identity per window.
// At most maxTracked identities are kept; the least recently used entry is
// evicted when the bound is reached. Entries idle longer than the window are
// also dropped opportunistically.
func New(max int, window time.Duration, maxTracked int) *Limiter {
	return &Limiter{
		entries:    make(map[string]*list.Element),
		order:      list.New(),
		maxTracked: maxTracked,
		max:        max,
		window:     window,
		now:        time.Now,
	}
}

// Allow records one operation for the identity and reports whether it is
// within the window budget. The read-modify-write is atomic per call.
func (l *Limiter) Allow(identifier string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()

	elem, ok := l.entries[identifier]
	if !ok {
		l.evictLocked(now)
		e := &entry{key: identifier, expiresAt: now.Add(l.window)}
		l.entries[identifier] = l.order.PushFront(e)
		e.count = 1
		return e.count <= l.max
	}

	l.order.MoveToFront(elem)
	e := elem.Value.(*entry)

	if now.After(e.expiresAt) {
		e.count = 0
		e.expiresAt = now.Add(l.window)
	}

	e.count++
	return e.count <= l.max
}

// Len reports the number of tracked identities.
func (l *Limiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.order.Len()
}

// evictLocked makes room for a new entry: expired entries go first, then the
// least recently used one if the hard bound is still reached.
func (l *Limiter) evictLocked(now time.Time) {
	for elem := l.order.Back(); elem != nil; {
		e := elem.Value.(*entry)
		if !now.After(e.expiresAt) {
			break
		}
		prev := elem.Prev()
		l.removeLocked(elem, e.key)
		elem = prev
	}

	if l.order.Len() < l.maxTracked {
		return
	}
	if oldest := l.order.Back(); oldest != nil {
		l.removeLocked(oldest, oldest.Value.(*entry).key)
	}
}

func (l *Limiter) removeLocked(elem *list.Element, key string) {
	l.order.Remove(elem)
	delete(l.entries, key)
}
