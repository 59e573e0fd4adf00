package snapshot

import (
	"fmt"
	"iter"

	"contestdump/internal/services"
)

// Index maps ids to entities and iterates in insertion order.
type Index[T any] struct {
	order []ID
	items map[ID]T
}

func newIndex[T any](kind string, values []T, idOf func(T) ID) (*Index[T], error) {
	idx := &Index[T]{
		order: make([]ID, 0, len(values)),
		items: make(map[ID]T, len(values)),
	}
	for _, v := range values {
		id := idOf(v)
		if _, dup := idx.items[id]; dup {
			return nil, services.Wrap(services.ErrMapping, "snapshot", "index "+kind, fmt.Sprintf("duplicate id %q", id), nil)
		}
		idx.order = append(idx.order, id)
		idx.items[id] = v
	}
	return idx, nil
}

// Get returns the entity with the given id.
func (i *Index[T]) Get(id ID) (T, bool) {
	v, ok := i.items[id]
	return v, ok
}

// Len returns the number of indexed entities.
func (i *Index[T]) Len() int {
	if i == nil {
		return 0
	}
	return len(i.order)
}

// All yields entities in insertion order.
func (i *Index[T]) All() iter.Seq2[ID, T] {
	return func(yield func(ID, T) bool) {
		if i == nil {
			return
		}
		for _, id := range i.order {
			if !yield(id, i.items[id]) {
				return
			}
		}
	}
}

// Keys returns ids in insertion order.
func (i *Index[T]) Keys() []ID {
	if i == nil {
		return nil
	}
	return append([]ID(nil), i.order...)
}
