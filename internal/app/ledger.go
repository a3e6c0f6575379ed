package app

import "sync"

// ledgerEntry guards one record so transitions on different records never
// contend.
type ledgerEntry[T any] struct {
	mu  sync.Mutex
	val *T
}

// ledger is an append-only table: records are never deleted while the
// process runs.
type ledger[K comparable, T any] struct {
	mu   sync.RWMutex
	byID map[K]*ledgerEntry[T]
}

func newLedger[K comparable, T any]() *ledger[K, T] {
	return &ledger[K, T]{byID: make(map[K]*ledgerEntry[T])}
}

func (l *ledger[K, T]) put(id K, v *T) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.byID[id] = &ledgerEntry[T]{val: v}
}

func (l *ledger[K, T]) entry(id K) (*ledgerEntry[T], bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	e, ok := l.byID[id]
	return e, ok
}

// get returns a copy, safe to read without the entry lock.
func (l *ledger[K, T]) get(id K) (T, bool) {
	e, ok := l.entry(id)
	if !ok {
		var zero T
		return zero, false
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return *e.val, true
}

// apply runs fn under the record lock and returns a copy of the result.
func (l *ledger[K, T]) apply(id K, fn func(*T) error) (T, bool, error) {
	var zero T
	e, ok := l.entry(id)
	if !ok {
		return zero, false, nil
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	err := fn(e.val)
	return *e.val, true, err
}

func (l *ledger[K, T]) len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.byID)
}
