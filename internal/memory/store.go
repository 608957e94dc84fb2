// Package memory implements the in-memory storage backend. Data lives only
// as long as the process, so each CLI invocation starts empty; sqlite is the
// default backend. It is also the reference for the ordering and cascade
// rules every backend follows.
package memory

import (
	"sync"

	"github.com/mesh-intelligence/kanbanwave/pkg/types"
)

// Compile-time interface checks.
var (
	_ types.Storage           = (*Store)(nil)
	_ types.Unit[types.Board] = (*boardUnit)(nil)
	_ types.Unit[types.List]  = (*listUnit)(nil)
	_ types.CardUnit          = (*cardUnit)(nil)
)

// Store holds boards, lists, and cards. Each unit has exclusive mutation
// rights over its entity type; cascades reach down through the store.
type Store struct {
	mu       sync.RWMutex
	attached bool

	boards *collection[types.Board]
	lists  *collection[types.List]
	cards  *collection[types.Card]
}

// New creates a detached in-memory store.
func New() *Store {
	return &Store{}
}

// Attach initializes empty collections. Returns ErrAlreadyAttached if the
// store is already attached.
func (s *Store) Attach(config types.Config) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.attached {
		return types.ErrAlreadyAttached
	}
	if err := config.Validate(); err != nil {
		return err
	}
	s.boards = newCollection[types.Board]()
	s.lists = newCollection[types.List]()
	s.cards = newCollection[types.Card]()
	s.attached = true
	return nil
}

// Detach drops all data. Idempotent.
func (s *Store) Detach() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.attached = false
	s.boards, s.lists, s.cards = nil, nil, nil
	return nil
}

// Units returns the board, list, and card units.
func (s *Store) Units() (types.Units, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.attached {
		return types.Units{}, types.ErrStorageDetached
	}
	return types.Units{
		Boards: &boardUnit{s: s},
		Lists:  &listUnit{s: s},
		Cards:  &cardUnit{s: s},
	}, nil
}

// read runs fn under the read lock if the store is attached.
func (s *Store) read(fn func() error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.attached {
		return types.ErrStorageDetached
	}
	return fn()
}

// write runs fn under the write lock if the store is attached.
func (s *Store) write(fn func() error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.attached {
		return types.ErrStorageDetached
	}
	return fn()
}

// deleteList removes a list and its cards. The list's existence is checked
// before anything is removed.
func (s *Store) deleteList(boardID, listID string) error {
	if _, err := s.lists.lookup(boardID, listID); err != nil {
		return err
	}
	s.cards.removeContainer(listID)
	return s.lists.remove(boardID, listID)
}

// deleteBoard removes a board, its lists, and their cards. The full removal
// set is computed first.
func (s *Store) deleteBoard(boardID string) error {
	if _, err := s.boards.lookup(types.RootContainer, boardID); err != nil {
		return err
	}
	listIDs := s.lists.ids(boardID)
	for _, listID := range listIDs {
		s.cards.removeContainer(listID)
	}
	s.lists.removeContainer(boardID)
	return s.boards.remove(types.RootContainer, boardID)
}
