// Package board composes the board, list, and card stores into one read
// model (BoardContent) and one write facade. It never touches entities
// directly; every mutation goes through the owning unit's store.
package board

import (
	"context"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/mesh-intelligence/kanbanwave/internal/store"
	"github.com/mesh-intelligence/kanbanwave/pkg/types"
)

// Service is the board-content aggregator.
type Service struct {
	boards *store.External[types.Board]
	lists  *store.External[types.List]
	cards  *store.Cards

	newID  func() (string, error)
	logger logrus.FieldLogger
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the logger used for mutation tracing.
func WithLogger(l logrus.FieldLogger) Option {
	return func(s *Service) { s.logger = l }
}

// WithIDGenerator replaces the UUID v7 generator.
func WithIDGenerator(fn func() (string, error)) Option {
	return func(s *Service) { s.newID = fn }
}

// NewService wraps units in change-notifying stores.
func NewService(units types.Units, opts ...Option) *Service {
	s := &Service{
		boards: store.New(units.Boards),
		lists:  store.New(units.Lists),
		cards:  store.NewCards(units.Cards),
		newID:  newUUID,
		logger: discardLogger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func newUUID() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("generating UUID v7: %w", err)
	}
	return id.String(), nil
}

func discardLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// Boards returns the board store for subscription.
func (s *Service) Boards() *store.External[types.Board] { return s.boards }

// Lists returns the list store for subscription.
func (s *Service) Lists() *store.External[types.List] { return s.lists }

// Cards returns the card store for subscription.
func (s *Service) Cards() *store.Cards { return s.cards }

// ListBoards returns all boards in order.
func (s *Service) ListBoards(ctx context.Context) ([]types.Board, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.boards.GetSnapshot().GetAll(types.RootContainer)
}

// GetBoardContent reads the board, its lists, and each list's cards, all in
// order. Returns ErrNotFound if the board does not exist.
func (s *Service) GetBoardContent(ctx context.Context, boardID string) (types.BoardContent, error) {
	if err := ctx.Err(); err != nil {
		return types.BoardContent{}, err
	}
	b, err := s.boards.Get(types.RootContainer, boardID)
	if err != nil {
		return types.BoardContent{}, fmt.Errorf("board %s: %w", boardID, err)
	}
	lists, err := s.lists.GetSnapshot().GetAll(boardID)
	if err != nil {
		return types.BoardContent{}, fmt.Errorf("lists of board %s: %w", boardID, err)
	}
	cardSnap := s.cards.GetSnapshot()
	content := types.BoardContent{Board: b, Lists: make([]types.ListContent, 0, len(lists))}
	for _, l := range lists {
		cards, err := cardSnap.GetAll(l.ID)
		if err != nil {
			return types.BoardContent{}, fmt.Errorf("cards of list %s: %w", l.ID, err)
		}
		content.Lists = append(content.Lists, types.ListContent{List: l, Cards: cards})
	}
	return content, nil
}

// CreateBoard assigns a fresh ID and appends the board.
func (s *Service) CreateBoard(ctx context.Context, form types.BoardForm) (types.Board, error) {
	if err := ctx.Err(); err != nil {
		return types.Board{}, err
	}
	id, err := s.newID()
	if err != nil {
		return types.Board{}, err
	}
	b := types.Board{ID: id, Title: form.Title}
	if err := s.boards.Create(types.RootContainer, b); err != nil {
		return types.Board{}, fmt.Errorf("create board: %w", err)
	}
	s.logger.WithField("board_id", id).Debug("board created")
	return b, nil
}

// UpdateBoard replaces the board with the same ID.
func (s *Service) UpdateBoard(ctx context.Context, b types.Board) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.boards.Update(types.RootContainer, b); err != nil {
		return fmt.Errorf("update board %s: %w", b.ID, err)
	}
	s.logger.WithField("board_id", b.ID).Debug("board updated")
	return nil
}

// DeleteBoard removes the board with its lists and cards.
func (s *Service) DeleteBoard(ctx context.Context, boardID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.boards.Delete(types.RootContainer, boardID); err != nil {
		return fmt.Errorf("delete board %s: %w", boardID, err)
	}
	s.logger.WithField("board_id", boardID).Debug("board deleted")
	return nil
}

// ReorderBoard moves the board to targetIndex among all boards.
func (s *Service) ReorderBoard(ctx context.Context, boardID string, targetIndex int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.boards.Reorder(types.RootContainer, boardID, targetIndex); err != nil {
		return fmt.Errorf("reorder board %s: %w", boardID, err)
	}
	return nil
}

// CreateList assigns a fresh ID and appends the list to the board.
func (s *Service) CreateList(ctx context.Context, boardID string, form types.ListForm) (types.List, error) {
	if err := ctx.Err(); err != nil {
		return types.List{}, err
	}
	id, err := s.newID()
	if err != nil {
		return types.List{}, err
	}
	l := types.List{ID: id, Title: form.Title, BoardID: boardID}
	if err := s.lists.Create(boardID, l); err != nil {
		return types.List{}, fmt.Errorf("create list on board %s: %w", boardID, err)
	}
	s.logger.WithFields(logrus.Fields{"board_id": boardID, "list_id": id}).Debug("list created")
	return l, nil
}

// UpdateList replaces the list with the same ID on the board.
func (s *Service) UpdateList(ctx context.Context, boardID string, l types.List) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.lists.Update(boardID, l); err != nil {
		return fmt.Errorf("update list %s: %w", l.ID, err)
	}
	return nil
}

// DeleteList removes the list; the list unit removes its cards.
func (s *Service) DeleteList(ctx context.Context, boardID, listID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.lists.Delete(boardID, listID); err != nil {
		return fmt.Errorf("delete list %s: %w", listID, err)
	}
	s.logger.WithFields(logrus.Fields{"board_id": boardID, "list_id": listID}).Debug("list deleted")
	return nil
}

// ReorderList moves the list to targetIndex on its board.
func (s *Service) ReorderList(ctx context.Context, boardID, listID string, targetIndex int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.lists.Reorder(boardID, listID, targetIndex); err != nil {
		return fmt.Errorf("reorder list %s: %w", listID, err)
	}
	s.logger.WithFields(logrus.Fields{
		"board_id": boardID, "list_id": listID, "index": targetIndex,
	}).Debug("list reordered")
	return nil
}

// checkList verifies that listID belongs to boardID.
func (s *Service) checkList(boardID, listID string) error {
	if _, err := s.lists.Get(boardID, listID); err != nil {
		return fmt.Errorf("list %s on board %s: %w", listID, boardID, err)
	}
	return nil
}

// CreateCard assigns a fresh ID and appends the card to the list.
func (s *Service) CreateCard(ctx context.Context, boardID, listID string, form types.CardForm) (types.Card, error) {
	if err := ctx.Err(); err != nil {
		return types.Card{}, err
	}
	if err := s.checkList(boardID, listID); err != nil {
		return types.Card{}, err
	}
	id, err := s.newID()
	if err != nil {
		return types.Card{}, err
	}
	c := form.Card(id)
	if err := s.cards.Create(listID, c); err != nil {
		return types.Card{}, fmt.Errorf("create card in list %s: %w", listID, err)
	}
	s.logger.WithFields(logrus.Fields{"list_id": listID, "card_id": id}).Debug("card created")
	return c, nil
}

// UpdateCard replaces the card with the same ID in the list.
func (s *Service) UpdateCard(ctx context.Context, boardID, listID string, c types.Card) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.checkList(boardID, listID); err != nil {
		return err
	}
	if err := s.cards.Update(listID, c); err != nil {
		return fmt.Errorf("update card %s: %w", c.ID, err)
	}
	return nil
}

// DeleteCard removes the card from the list.
func (s *Service) DeleteCard(ctx context.Context, boardID, listID, cardID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.checkList(boardID, listID); err != nil {
		return err
	}
	if err := s.cards.Delete(listID, cardID); err != nil {
		return fmt.Errorf("delete card %s: %w", cardID, err)
	}
	s.logger.WithFields(logrus.Fields{"list_id": listID, "card_id": cardID}).Debug("card deleted")
	return nil
}

// ReorderCard moves a card within a list, or from sourceListID to
// destListID as one atomic move.
func (s *Service) ReorderCard(ctx context.Context, boardID, sourceListID, destListID, cardID string, targetIndex int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.checkList(boardID, sourceListID); err != nil {
		return err
	}
	if sourceListID != destListID {
		if err := s.checkList(boardID, destListID); err != nil {
			return err
		}
	}
	if err := s.cards.Move(sourceListID, destListID, cardID, targetIndex); err != nil {
		return fmt.Errorf("move card %s: %w", cardID, err)
	}
	s.logger.WithFields(logrus.Fields{
		"board_id": boardID, "card_id": cardID,
		"from": sourceListID, "to": destListID, "index": targetIndex,
	}).Debug("card reordered")
	return nil
}
