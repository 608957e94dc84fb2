// Package sqlite provides the public constructor for the SQLite storage
// backend while keeping its implementation internal.
package sqlite

import (
	"github.com/mesh-intelligence/kanbanwave/internal/sqlite"
	"github.com/mesh-intelligence/kanbanwave/pkg/types"
)

// NewBackend creates a detached SQLite backend.
//
// Example:
//
//	backend := sqlite.NewBackend()
//	err := backend.Attach(types.Config{
//	    Backend: types.BackendSQLite,
//	    DataDir: ".kanban-db",
//	})
//	defer backend.Detach()
func NewBackend() types.Storage {
	return sqlite.NewBackend()
}
