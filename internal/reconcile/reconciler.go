// Package reconcile applies drag-and-drop reorders to a local board view
// before the store confirms them, and restores the captured order when the
// store rejects the move.
package reconcile

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/mesh-intelligence/kanbanwave/internal/order"
	"github.com/mesh-intelligence/kanbanwave/internal/store"
	"github.com/mesh-intelligence/kanbanwave/pkg/types"
)

// Backend is the authoritative side of a board. board.Service satisfies it.
// Calls may block on a remote round trip.
type Backend interface {
	GetBoardContent(ctx context.Context, boardID string) (types.BoardContent, error)
	ReorderList(ctx context.Context, boardID, listID string, targetIndex int) error
	ReorderCard(ctx context.Context, boardID, sourceListID, destListID, cardID string, targetIndex int) error
}

// Reconciler owns the local view of one board.
//
// Every container in the view (the board's list order, each list's card
// order) carries a version. A gesture records the versions it wrote; when
// its store call fails, the captured order is restored only if no later
// gesture or reload has touched those containers since. Otherwise the view
// is reloaded from the store.
type Reconciler struct {
	backend   Backend
	boardID   string
	logger    logrus.FieldLogger
	listeners *store.Registry

	mu       sync.Mutex
	view     types.BoardContent
	versions map[string]uint64
	clock    uint64
}

// Option configures a Reconciler.
type Option func(*Reconciler)

// WithLogger sets the logger failures are reported to.
func WithLogger(l logrus.FieldLogger) Option {
	return func(r *Reconciler) { r.logger = l }
}

// New creates a reconciler for boardID with an empty view. Call Load before
// the first drop.
func New(backend Backend, boardID string, opts ...Option) *Reconciler {
	l := logrus.New()
	l.SetOutput(io.Discard)
	r := &Reconciler{
		backend:   backend,
		boardID:   boardID,
		logger:    l,
		listeners: store.NewRegistry(),
		view:      types.BoardContent{Board: types.Board{ID: boardID}},
		versions:  make(map[string]uint64),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Subscribe registers a listener called after every change to the view.
func (r *Reconciler) Subscribe(listener func()) (unsubscribe func()) {
	return r.listeners.Add(listener)
}

// Content returns a copy of the current view.
func (r *Reconciler) Content() types.BoardContent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.view.Clone()
}

// Load replaces the view with the store's board content. Every container
// gets a new version, so in-flight gestures can no longer roll back onto it.
func (r *Reconciler) Load(ctx context.Context) error {
	content, err := r.backend.GetBoardContent(ctx, r.boardID)
	if err != nil {
		return fmt.Errorf("load board %s: %w", r.boardID, err)
	}

	r.mu.Lock()
	r.view = content.Clone()
	r.touch(r.boardID)
	for _, l := range r.view.Lists {
		r.touch(l.ID)
	}
	r.mu.Unlock()

	r.listeners.Notify()
	return nil
}

// touch stamps container with a fresh version. Caller holds r.mu.
func (r *Reconciler) touch(container string) uint64 {
	r.clock++
	r.versions[container] = r.clock
	return r.clock
}

// gesture is one speculative change: the versions it wrote and how to undo
// it against the current view.
type gesture struct {
	ev      DropEvent
	wrote   map[string]uint64
	restore func(view *types.BoardContent)
}

// Drop applies ev to the view, asks the store to make the same move, and
// settles the outcome. It never retries.
func (r *Reconciler) Drop(ctx context.Context, ev DropEvent) Outcome {
	if ev.Destination == nil {
		return Outcome{Status: StatusIgnored}
	}

	var (
		g   *gesture
		res types.Result
	)
	switch ev.ItemType {
	case ItemList:
		g, res = r.applyList(ev)
	case ItemCard:
		g, res = r.applyCard(ev)
	default:
		res = types.Result{Kind: types.KindInvalidMove, Err: fmt.Errorf("unknown item type %q", ev.ItemType)}
	}
	if !res.OK() {
		r.report(ev, res, StatusRejected)
		return Outcome{Status: StatusRejected, Result: res}
	}
	r.listeners.Notify()

	var err error
	dst := ev.Destination
	switch ev.ItemType {
	case ItemList:
		err = r.backend.ReorderList(ctx, r.boardID, ev.ItemID, dst.Index)
	case ItemCard:
		err = r.backend.ReorderCard(ctx, r.boardID, ev.SourceContainerID, dst.ContainerID, ev.ItemID, dst.Index)
	}
	return r.settle(ctx, g, types.ResultOf(err))
}

// applyList moves a list within the board's list order.
func (r *Reconciler) applyList(ev DropEvent) (*gesture, types.Result) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, c := range []string{ev.SourceContainerID, ev.Destination.ContainerID} {
		if c != "" && c != r.boardID {
			return nil, types.Result{Kind: types.KindInvalidMove,
				Err: fmt.Errorf("list %s: container %s is not board %s: %w", ev.ItemID, c, r.boardID, types.ErrInvalidMove)}
		}
	}
	from := r.view.ListIndex(ev.ItemID)
	if from < 0 {
		return nil, notInView("list", ev.ItemID)
	}

	captured := r.view.ListIDs()
	r.view.Lists = order.Move(r.view.Lists, from, ev.Destination.Index)

	return &gesture{
		ev:    ev,
		wrote: map[string]uint64{r.boardID: r.touch(r.boardID)},
		restore: func(view *types.BoardContent) {
			view.Lists = arrangeLists(view.Lists, captured)
		},
	}, types.Result{}
}

// applyCard moves a card within one list or between two lists. For a move
// between lists both card orders are captured and both are restored.
func (r *Reconciler) applyCard(ev DropEvent) (*gesture, types.Result) {
	r.mu.Lock()
	defer r.mu.Unlock()

	srcID, dstID := ev.SourceContainerID, ev.Destination.ContainerID
	si := r.view.ListIndex(srcID)
	if si < 0 {
		return nil, notInView("list", srcID)
	}
	srcCards := r.view.Lists[si].Cards
	from := order.IndexOf(r.view.Lists[si].CardIDs(), ev.ItemID)
	if from < 0 {
		return nil, notInView("card", ev.ItemID)
	}

	if srcID == dstID {
		r.view.Lists[si].Cards = order.Move(srcCards, from, ev.Destination.Index)
		return &gesture{
			ev:    ev,
			wrote: map[string]uint64{srcID: r.touch(srcID)},
			restore: func(view *types.BoardContent) {
				setCards(view, srcID, srcCards)
			},
		}, types.Result{}
	}

	di := r.view.ListIndex(dstID)
	if di < 0 {
		return nil, notInView("list", dstID)
	}
	dstCards := r.view.Lists[di].Cards
	r.view.Lists[si].Cards = order.Remove(srcCards, from)
	r.view.Lists[di].Cards = order.Insert(dstCards, ev.Destination.Index, srcCards[from])

	return &gesture{
		ev:    ev,
		wrote: map[string]uint64{srcID: r.touch(srcID), dstID: r.touch(dstID)},
		restore: func(view *types.BoardContent) {
			setCards(view, srcID, srcCards)
			setCards(view, dstID, dstCards)
		},
	}, types.Result{}
}

// settle resolves a gesture after the store call returned.
func (r *Reconciler) settle(ctx context.Context, g *gesture, res types.Result) Outcome {
	if res.OK() {
		return Outcome{Status: StatusCommitted, Result: res}
	}

	r.mu.Lock()
	current := true
	for c, v := range g.wrote {
		if r.versions[c] != v {
			current = false
			break
		}
	}
	if current {
		g.restore(&r.view)
		for c := range g.wrote {
			r.touch(c)
		}
	}
	r.mu.Unlock()

	if current {
		r.listeners.Notify()
		r.report(g.ev, res, StatusRolledBack)
		return Outcome{Status: StatusRolledBack, Result: res}
	}

	// The store call may have failed because ctx ended; the reload must
	// still run.
	if err := r.Load(context.WithoutCancel(ctx)); err != nil {
		r.logger.WithError(err).WithField("board_id", r.boardID).Error("reload after stale rejection failed")
		r.report(g.ev, res, StatusDiverged)
		return Outcome{Status: StatusDiverged, Result: res}
	}
	r.report(g.ev, res, StatusResynced)
	return Outcome{Status: StatusResynced, Result: res}
}

func (r *Reconciler) report(ev DropEvent, res types.Result, status Status) {
	r.logger.WithFields(logrus.Fields{
		"board_id":  r.boardID,
		"item_type": string(ev.ItemType),
		"item_id":   ev.ItemID,
		"kind":      res.Kind.String(),
		"status":    status.String(),
	}).WithError(res.Err).Error("drop rejected")
}

func notInView(what, id string) types.Result {
	return types.Result{Kind: types.KindNotFound, Err: fmt.Errorf("%s %s not in view: %w", what, id, types.ErrNotFound)}
}

// setCards replaces the card order of listID, wherever the list is now.
func setCards(view *types.BoardContent, listID string, cards []types.Card) {
	if i := view.ListIndex(listID); i >= 0 {
		view.Lists[i].Cards = cards
	}
}

// arrangeLists returns lists in the order of ids. Lists missing from ids
// keep their relative order at the end.
func arrangeLists(lists []types.ListContent, ids []string) []types.ListContent {
	byID := make(map[string]types.ListContent, len(lists))
	for _, l := range lists {
		byID[l.ID] = l
	}
	out := make([]types.ListContent, 0, len(lists))
	for _, id := range ids {
		if l, ok := byID[id]; ok {
			out = append(out, l)
			delete(byID, id)
		}
	}
	for _, l := range lists {
		if _, ok := byID[l.ID]; ok {
			out = append(out, l)
		}
	}
	return out
}
