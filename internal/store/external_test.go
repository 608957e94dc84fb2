package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/kanbanwave/internal/memory"
	"github.com/mesh-intelligence/kanbanwave/pkg/types"
)

func setupStores(t *testing.T) (*External[types.Board], *External[types.List], *Cards) {
	t.Helper()
	s := memory.New()
	require.NoError(t, s.Attach(types.Config{Backend: types.BackendMemory}))
	t.Cleanup(func() { s.Detach() })
	u, err := s.Units()
	require.NoError(t, err)
	return New(u.Boards), New(u.Lists), NewCards(u.Cards)
}

func TestExternal_SnapshotIdentity(t *testing.T) {
	boards, _, _ := setupStores(t)

	first := boards.GetSnapshot()
	assert.Same(t, first, boards.GetSnapshot(), "no mutation, same snapshot")

	require.NoError(t, boards.Create("", types.Board{ID: "b1"}))
	second := boards.GetSnapshot()
	assert.NotSame(t, first, second)
	assert.Same(t, second, boards.GetSnapshot())
	assert.Equal(t, first.Version()+1, second.Version())
}

func TestExternal_NoopReorderStillChangesSnapshot(t *testing.T) {
	boards, _, _ := setupStores(t)
	require.NoError(t, boards.Create("", types.Board{ID: "b1"}))
	require.NoError(t, boards.Create("", types.Board{ID: "b2"}))

	before := boards.GetSnapshot()
	require.NoError(t, boards.Reorder("", "b1", 0))
	assert.NotSame(t, before, boards.GetSnapshot())

	ids, err := boards.GetSnapshot().GetOrders("")
	require.NoError(t, err)
	assert.Equal(t, []string{"b1", "b2"}, ids)
}

func TestExternal_FailedMutationKeepsSnapshot(t *testing.T) {
	boards, _, _ := setupStores(t)
	notified := 0
	boards.Subscribe(func() { notified++ })

	before := boards.GetSnapshot()
	assert.ErrorIs(t, boards.Delete("", "ghost"), types.ErrNotFound)
	assert.Same(t, before, boards.GetSnapshot())
	assert.Equal(t, 0, notified)
}

func TestExternal_ListenerSeesCommittedState(t *testing.T) {
	boards, lists, _ := setupStores(t)
	require.NoError(t, boards.Create("", types.Board{ID: "b1"}))

	var seen []string
	lists.Subscribe(func() {
		ids, err := lists.GetSnapshot().GetOrders("b1")
		require.NoError(t, err)
		seen = ids
	})

	require.NoError(t, lists.Create("b1", types.List{ID: "l1"}))
	assert.Equal(t, []string{"l1"}, seen)
	require.NoError(t, lists.Create("b1", types.List{ID: "l2"}))
	require.NoError(t, lists.Reorder("b1", "l2", 0))
	assert.Equal(t, []string{"l2", "l1"}, seen)
}

func TestExternal_SnapshotReadsThrough(t *testing.T) {
	boards, _, _ := setupStores(t)
	snap := boards.GetSnapshot()
	require.NoError(t, boards.Create("", types.Board{ID: "b1", Title: "T"}))

	all, err := snap.GetAll("")
	require.NoError(t, err)
	assert.Equal(t, []types.Board{{ID: "b1", Title: "T"}}, all, "old snapshot functions read current state")
}

func TestExternal_OneNotificationPerCall(t *testing.T) {
	boards, lists, cards := setupStores(t)
	require.NoError(t, boards.Create("", types.Board{ID: "b1"}))
	require.NoError(t, lists.Create("b1", types.List{ID: "l1"}))
	require.NoError(t, lists.Create("b1", types.List{ID: "l2"}))
	for _, id := range []string{"c1", "c2", "c3"} {
		require.NoError(t, cards.Create("l1", types.Card{ID: id}))
	}

	listCalls, cardCalls := 0, 0
	lists.Subscribe(func() { listCalls++ })
	cards.Subscribe(func() { cardCalls++ })

	require.NoError(t, cards.Move("l1", "l2", "c1", 0))
	assert.Equal(t, 1, cardCalls, "compound move notifies once")

	require.NoError(t, lists.Delete("b1", "l1"))
	assert.Equal(t, 1, listCalls, "cascading delete notifies once")
}

func TestExternal_ListenerPanicPropagates(t *testing.T) {
	boards, _, _ := setupStores(t)
	boards.Subscribe(func() { panic("boom") })

	assert.Panics(t, func() {
		_ = boards.Create("", types.Board{ID: "b1"})
	})
	_, err := boards.Get("", "b1")
	assert.NoError(t, err, "the mutation committed before the listener ran")
}

func TestExternal_Unsubscribe(t *testing.T) {
	boards, _, _ := setupStores(t)
	count := 0
	unsub := boards.Subscribe(func() { count++ })

	require.NoError(t, boards.Create("", types.Board{ID: "b1"}))
	unsub()
	unsub()
	require.NoError(t, boards.Create("", types.Board{ID: "b2"}))
	assert.Equal(t, 1, count)
}
