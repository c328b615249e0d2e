package bt

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

var (
	ErrNotFound  = errors.New("blackboard: key not found")
	ErrWrongType = errors.New("blackboard: wrong value type")
)

// Blackboard is the key/value store shared by the leaves of a tree.
type Blackboard struct {
	mu sync.RWMutex
	m  map[string]any
}

func NewBlackboard() *Blackboard {
	return &Blackboard{m: map[string]any{}}
}

func (b *Blackboard) Set(key string, v any) {
	b.mu.Lock()
	b.m[key] = v
	b.mu.Unlock()
}

func (b *Blackboard) Has(key string) bool {
	b.mu.RLock()
	_, ok := b.m[key]
	b.mu.RUnlock()
	return ok
}

func (b *Blackboard) Erase(key string) {
	b.mu.Lock()
	delete(b.m, key)
	b.mu.Unlock()
}

func (b *Blackboard) Raw(key string) (any, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	v, ok := b.m[key]
	return v, ok
}

// Copy duplicates src into dst. The value is shared, not deep-copied.
func (b *Blackboard) Copy(src, dst string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	v, ok := b.m[src]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, src)
	}
	b.m[dst] = v
	return nil
}

func (b *Blackboard) Keys() []string {
	b.mu.RLock()
	out := make([]string, 0, len(b.m))
	for k := range b.m {
		out = append(out, k)
	}
	b.mu.RUnlock()
	sort.Strings(out)
	return out
}

func Get[T any](b *Blackboard, key string) (T, error) {
	var zero T
	v, ok := b.Raw(key)
	if !ok {
		return zero, fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	t, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("%w: %s is %T", ErrWrongType, key, v)
	}
	return t, nil
}

// GetOr returns def when key is missing or holds another type.
func GetOr[T any](b *Blackboard, key string, def T) T {
	v, err := Get[T](b, key)
	if err != nil {
		return def
	}
	return v
}
