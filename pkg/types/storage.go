package types

import "errors"

// Unit provides CRUD and explicit order tracking for one entity type. List
// and card units are scoped by parent ID (board ID and list ID); the board
// unit has a single root container and ignores parentID.
type Unit[T Entity] interface {
	// GetAll returns the container's entities in order. A container that
	// does not exist yields an empty slice, not an error.
	GetAll(parentID string) ([]T, error)

	// GetOrders returns the container's order sequence. It always holds the
	// same IDs in the same order as GetAll.
	GetOrders(parentID string) ([]string, error)

	// Get returns one entity of the container.
	// Returns ErrNotFound if the container does not hold id.
	Get(parentID, id string) (T, error)

	// Create appends entity to the container and its order sequence.
	// The ID is assigned by the caller. Returns ErrDuplicateID if the ID
	// exists and ErrNotFound if the parent does not exist.
	Create(parentID string, entity T) error

	// Update replaces the entity with the same ID in the container.
	// Returns ErrNotFound if it is absent.
	Update(parentID string, entity T) error

	// Delete removes the entity, its order entry, and everything it owns.
	// Returns ErrNotFound if the container does not hold id.
	Delete(parentID, id string) error

	// Reorder moves id to targetIndex, clamped to [0, len-1].
	// Returns ErrNotFound if id does not exist and ErrInvalidMove if it
	// belongs to a different container.
	Reorder(parentID, id string, targetIndex int) error
}

// CardUnit adds the compound cross-list move to the card unit.
type CardUnit interface {
	Unit[Card]

	// Move takes card id out of srcListID and inserts it into dstListID at
	// targetIndex, clamped to [0, len(dst)]. Either both containers change
	// or neither does. When the lists are equal this is Reorder.
	Move(srcListID, dstListID, id string, targetIndex int) error
}

// Units groups the three storage units of one attached backend.
type Units struct {
	Boards Unit[Board]
	Lists  Unit[List]
	Cards  CardUnit
}

// Storage is the backend-agnostic persistence boundary. Callers attach to a
// backend, obtain its units, and detach when done.
type Storage interface {
	// Attach connects the storage to the backend described by config.
	// Returns ErrAlreadyAttached if called while attached.
	Attach(config Config) error

	// Detach releases backend resources. Idempotent. After Detach, unit
	// operations return ErrStorageDetached.
	Detach() error

	// Units returns the storage units. Returns ErrStorageDetached when the
	// storage is not attached.
	Units() (Units, error)
}

// Storage lifecycle errors.
var (
	ErrStorageDetached = errors.New("storage is detached")
	ErrAlreadyAttached = errors.New("storage is already attached")
)

// Unit operation errors.
var (
	ErrNotFound    = errors.New("entity not found")
	ErrDuplicateID = errors.New("entity ID already exists")
	ErrInvalidMove = errors.New("invalid move")
	ErrInvalidID   = errors.New("invalid entity ID")
)
