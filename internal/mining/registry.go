package mining

import "sync"

type registry[T any] struct {
	kind  string
	items map[string]T
	mu    sync.RWMutex
}

func newRegistry[T any](kind string) *registry[T] {
	return &registry[T]{
		kind:  kind,
		items: make(map[string]T),
	}
}

func (r *registry[T]) register(name string, item T) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[name]; ok {
		panic(r.kind + " is already registered: " + name)
	}
	r.items[name] = item
}

func (r *registry[T]) get(name string) (T, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[name]
	return item, ok
}
