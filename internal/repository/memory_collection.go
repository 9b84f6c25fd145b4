package repository

import (
	"context"
	"strings"
	"sync"

	"github.com/alexanderramin/accredit/internal/domain"
)

// entity is the pointer-method set every stored type provides.
type entity[T any] interface {
	*T
	EntityID() string
	Clone() *T
}

// memCollection keeps entities in insertion order with an id index. The
// mutex is shared by every collection of one MemoryStore.
type memCollection[T any, P entity[T]] struct {
	mu    *sync.RWMutex
	kind  string
	items []*T
	index map[string]int
}

func newMemCollection[T any, P entity[T]](mu *sync.RWMutex, kind string) *memCollection[T, P] {
	return &memCollection[T, P]{mu: mu, kind: kind, index: map[string]int{}}
}

func (c *memCollection[T, P]) Get(_ context.Context, id string) (*T, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	i, ok := c.index[id]
	if !ok {
		return nil, domain.NewNotFound(c.kind, id)
	}
	return P(c.items[i]).Clone(), nil
}

func (c *memCollection[T, P]) List(_ context.Context) ([]*T, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.cloneItems(), nil
}

func (c *memCollection[T, P]) Add(_ context.Context, v *T) error {
	id := P(v).EntityID()
	if strings.TrimSpace(id) == "" {
		return domain.NewValidation("id", "%s id is required", c.kind)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.index[id]; exists {
		return domain.NewValidation("id", "%s %q already exists", c.kind, id)
	}
	c.index[id] = len(c.items)
	c.items = append(c.items, P(v).Clone())
	return nil
}

func (c *memCollection[T, P]) Update(_ context.Context, v *T) error {
	id := P(v).EntityID()
	c.mu.Lock()
	defer c.mu.Unlock()
	i, ok := c.index[id]
	if !ok {
		return domain.NewNotFound(c.kind, id)
	}
	c.items[i] = P(v).Clone()
	return nil
}

func (c *memCollection[T, P]) Delete(_ context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	i, ok := c.index[id]
	if !ok {
		return domain.NewNotFound(c.kind, id)
	}
	c.items = append(c.items[:i], c.items[i+1:]...)
	c.reindex()
	return nil
}

func (c *memCollection[T, P]) Modify(_ context.Context, id string, fn func(*T) error) (*T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	i, ok := c.index[id]
	if !ok {
		return nil, domain.NewNotFound(c.kind, id)
	}
	working := P(c.items[i]).Clone()
	if err := fn(working); err != nil {
		return nil, err
	}
	if P(working).EntityID() != id {
		return nil, domain.NewValidation("id", "%s id cannot change", c.kind)
	}
	c.items[i] = working
	return P(working).Clone(), nil
}

// cloneItems copies every entity. Callers hold the lock.
func (c *memCollection[T, P]) cloneItems() []*T {
	out := make([]*T, len(c.items))
	for i, v := range c.items {
		out[i] = P(v).Clone()
	}
	return out
}

// replace swaps the contents wholesale. Callers hold the write lock.
func (c *memCollection[T, P]) replace(items []*T) {
	c.items = make([]*T, len(items))
	for i, v := range items {
		c.items[i] = P(v).Clone()
	}
	c.reindex()
}

func (c *memCollection[T, P]) reindex() {
	c.index = make(map[string]int, len(c.items))
	for i, v := range c.items {
		c.index[P(v).EntityID()] = i
	}
}
