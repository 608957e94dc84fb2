package reconcile

import "github.com/mesh-intelligence/kanbanwave/pkg/types"

// ItemType names what was dragged.
type ItemType string

// Draggable item types.
const (
	ItemList ItemType = "LIST"
	ItemCard ItemType = "CARD"
)

// Destination is where the item was dropped.
type Destination struct {
	ContainerID string
	Index       int
}

// DropEvent is a decoded drag-and-drop result. For lists the containers are
// the board; for cards they are lists. A nil Destination means the drag was
// cancelled.
type DropEvent struct {
	ItemType          ItemType
	ItemID            string
	SourceContainerID string
	Destination       *Destination
}

// Status describes how a drop settled.
type Status int

// Drop statuses.
const (
	// StatusIgnored: cancelled drag, nothing captured or called.
	StatusIgnored Status = iota
	// StatusRejected: the event did not match the local view; nothing was
	// applied and the store was not called.
	StatusRejected
	// StatusCommitted: the store accepted the move.
	StatusCommitted
	// StatusRolledBack: the store rejected the move and the captured order
	// was restored.
	StatusRolledBack
	// StatusResynced: the store rejected the move after a later gesture had
	// touched the same containers, so the view was reloaded from the store.
	StatusResynced
	// StatusDiverged: the reload after a stale rejection failed too.
	StatusDiverged
)

var statusNames = [...]string{"ignored", "rejected", "committed", "rolled_back", "resynced", "diverged"}

func (s Status) String() string {
	if int(s) < len(statusNames) {
		return statusNames[s]
	}
	return "unknown"
}

// Outcome is the settled result of one drop.
type Outcome struct {
	Status Status
	Result types.Result
}
