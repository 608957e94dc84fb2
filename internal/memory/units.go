package memory

import "github.com/mesh-intelligence/kanbanwave/pkg/types"

type boardUnit struct{ s *Store }

func (u *boardUnit) GetAll(string) ([]types.Board, error) {
	var out []types.Board
	err := u.s.read(func() error {
		out = u.s.boards.all(types.RootContainer)
		return nil
	})
	return out, err
}

func (u *boardUnit) GetOrders(string) ([]string, error) {
	var out []string
	err := u.s.read(func() error {
		out = u.s.boards.ids(types.RootContainer)
		return nil
	})
	return out, err
}

func (u *boardUnit) Get(_ string, id string) (types.Board, error) {
	var out types.Board
	err := u.s.read(func() error {
		var err error
		out, err = u.s.boards.lookup(types.RootContainer, id)
		return err
	})
	return out, err
}

func (u *boardUnit) Create(_ string, b types.Board) error {
	return u.s.write(func() error {
		return u.s.boards.insert(types.RootContainer, b)
	})
}

func (u *boardUnit) Update(_ string, b types.Board) error {
	return u.s.write(func() error {
		return u.s.boards.replace(types.RootContainer, b)
	})
}

func (u *boardUnit) Delete(_ string, id string) error {
	return u.s.write(func() error {
		return u.s.deleteBoard(id)
	})
}

func (u *boardUnit) Reorder(_ string, id string, targetIndex int) error {
	return u.s.write(func() error {
		return u.s.boards.reorder(types.RootContainer, id, targetIndex)
	})
}

type listUnit struct{ s *Store }

func (u *listUnit) GetAll(boardID string) ([]types.List, error) {
	var out []types.List
	err := u.s.read(func() error {
		out = u.s.lists.all(boardID)
		return nil
	})
	return out, err
}

func (u *listUnit) GetOrders(boardID string) ([]string, error) {
	var out []string
	err := u.s.read(func() error {
		out = u.s.lists.ids(boardID)
		return nil
	})
	return out, err
}

func (u *listUnit) Get(boardID, id string) (types.List, error) {
	var out types.List
	err := u.s.read(func() error {
		var err error
		out, err = u.s.lists.lookup(boardID, id)
		return err
	})
	return out, err
}

// Create stores the list under boardID. The list's BoardID field is set from
// the container so the two never disagree.
func (u *listUnit) Create(boardID string, l types.List) error {
	return u.s.write(func() error {
		if !u.s.boards.has(boardID) {
			return types.ErrNotFound
		}
		l.BoardID = boardID
		return u.s.lists.insert(boardID, l)
	})
}

func (u *listUnit) Update(boardID string, l types.List) error {
	return u.s.write(func() error {
		l.BoardID = boardID
		return u.s.lists.replace(boardID, l)
	})
}

func (u *listUnit) Delete(boardID, id string) error {
	return u.s.write(func() error {
		return u.s.deleteList(boardID, id)
	})
}

func (u *listUnit) Reorder(boardID, id string, targetIndex int) error {
	return u.s.write(func() error {
		return u.s.lists.reorder(boardID, id, targetIndex)
	})
}

type cardUnit struct{ s *Store }

func (u *cardUnit) GetAll(listID string) ([]types.Card, error) {
	var out []types.Card
	err := u.s.read(func() error {
		out = u.s.cards.all(listID)
		return nil
	})
	return out, err
}

func (u *cardUnit) GetOrders(listID string) ([]string, error) {
	var out []string
	err := u.s.read(func() error {
		out = u.s.cards.ids(listID)
		return nil
	})
	return out, err
}

func (u *cardUnit) Get(listID, id string) (types.Card, error) {
	var out types.Card
	err := u.s.read(func() error {
		var err error
		out, err = u.s.cards.lookup(listID, id)
		return err
	})
	return out, err
}

func (u *cardUnit) Create(listID string, c types.Card) error {
	return u.s.write(func() error {
		if !u.s.lists.has(listID) {
			return types.ErrNotFound
		}
		return u.s.cards.insert(listID, c)
	})
}

func (u *cardUnit) Update(listID string, c types.Card) error {
	return u.s.write(func() error {
		return u.s.cards.replace(listID, c)
	})
}

func (u *cardUnit) Delete(listID, id string) error {
	return u.s.write(func() error {
		return u.s.cards.remove(listID, id)
	})
}

func (u *cardUnit) Reorder(listID, id string, targetIndex int) error {
	return u.s.write(func() error {
		return u.s.cards.reorder(listID, id, targetIndex)
	})
}

func (u *cardUnit) Move(srcListID, dstListID, id string, targetIndex int) error {
	return u.s.write(func() error {
		if srcListID == dstListID {
			return u.s.cards.reorder(srcListID, id, targetIndex)
		}
		if !u.s.lists.has(dstListID) {
			return types.ErrNotFound
		}
		return u.s.cards.move(srcListID, dstListID, id, targetIndex)
	})
}
