package memory

import (
	"github.com/mesh-intelligence/kanbanwave/internal/order"
	"github.com/mesh-intelligence/kanbanwave/pkg/types"
)

// collection holds the entities of one type, the container each belongs to,
// and one order sequence per container. Order sequences are replaced, never
// edited in place, so slices handed out earlier stay valid.
type collection[T types.Entity] struct {
	items  map[string]T
	owner  map[string]string
	orders map[string][]string
}

func newCollection[T types.Entity]() *collection[T] {
	return &collection[T]{
		items:  make(map[string]T),
		owner:  make(map[string]string),
		orders: make(map[string][]string),
	}
}

func (c *collection[T]) all(parentID string) []T {
	seq := c.orders[parentID]
	out := make([]T, 0, len(seq))
	for _, id := range seq {
		out = append(out, c.items[id])
	}
	return out
}

func (c *collection[T]) ids(parentID string) []string {
	seq := c.orders[parentID]
	out := make([]string, len(seq))
	copy(out, seq)
	return out
}

func (c *collection[T]) has(id string) bool {
	_, ok := c.items[id]
	return ok
}

// lookup returns the entity if it lives in parentID. An id held by another
// container is reported as not found.
func (c *collection[T]) lookup(parentID, id string) (T, error) {
	e, ok := c.items[id]
	if !ok || c.owner[id] != parentID {
		var zero T
		return zero, types.ErrNotFound
	}
	return e, nil
}

func (c *collection[T]) insert(parentID string, e T) error {
	id := e.EntityID()
	if id == "" {
		return types.ErrInvalidID
	}
	if c.has(id) {
		return types.ErrDuplicateID
	}
	c.items[id] = e
	c.owner[id] = parentID
	c.orders[parentID] = order.Insert(c.orders[parentID], len(c.orders[parentID]), id)
	return nil
}

func (c *collection[T]) replace(parentID string, e T) error {
	if _, err := c.lookup(parentID, e.EntityID()); err != nil {
		return err
	}
	c.items[e.EntityID()] = e
	return nil
}

func (c *collection[T]) remove(parentID, id string) error {
	if _, err := c.lookup(parentID, id); err != nil {
		return err
	}
	seq := c.orders[parentID]
	c.orders[parentID] = order.Remove(seq, order.IndexOf(seq, id))
	delete(c.items, id)
	delete(c.owner, id)
	return nil
}

// removeContainer drops a whole container. The caller has already
// validated everything; this cannot fail.
func (c *collection[T]) removeContainer(parentID string) {
	for _, id := range c.orders[parentID] {
		delete(c.items, id)
		delete(c.owner, id)
	}
	delete(c.orders, parentID)
}

// checkMember distinguishes an unknown id from one held elsewhere.
func (c *collection[T]) checkMember(parentID, id string) error {
	owner, ok := c.owner[id]
	if !ok {
		return types.ErrNotFound
	}
	if owner != parentID {
		return types.ErrInvalidMove
	}
	return nil
}

func (c *collection[T]) reorder(parentID, id string, target int) error {
	if err := c.checkMember(parentID, id); err != nil {
		return err
	}
	seq, _ := order.MoveID(c.orders[parentID], id, target)
	c.orders[parentID] = seq
	return nil
}

// move transfers id between containers. Both new sequences are computed
// before either is stored.
func (c *collection[T]) move(srcID, dstID, id string, target int) error {
	if err := c.checkMember(srcID, id); err != nil {
		return err
	}
	src := c.orders[srcID]
	newSrc := order.Remove(src, order.IndexOf(src, id))
	newDst := order.Insert(c.orders[dstID], target, id)

	c.orders[srcID] = newSrc
	c.orders[dstID] = newDst
	c.owner[id] = dstID
	return nil
}
