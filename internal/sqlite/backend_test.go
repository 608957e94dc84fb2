package sqlite

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/kanbanwave/pkg/types"
)

func setupBoard(t *testing.T) (*Backend, types.Units, string) {
	t.Helper()
	dir := t.TempDir()
	b, units := attachSQLite(t, dir, "")
	t.Cleanup(func() { b.Detach() })

	require.NoError(t, units.Boards.Create(types.RootContainer, types.Board{ID: "b1", Title: "Board"}))
	require.NoError(t, units.Lists.Create("b1", types.List{ID: "l1", Title: "Todo"}))
	require.NoError(t, units.Lists.Create("b1", types.List{ID: "l2", Title: "Doing"}))
	for _, id := range []string{"c1", "c2", "c3"} {
		require.NoError(t, units.Cards.Create("l1", types.Card{ID: id, Title: id}))
	}
	return b, units, dir
}

func TestBackend_Lifecycle(t *testing.T) {
	b := NewBackend()

	_, err := b.Units()
	assert.ErrorIs(t, err, types.ErrStorageDetached)

	require.NoError(t, b.Attach(types.Config{Backend: types.BackendSQLite, DataDir: t.TempDir()}))
	assert.ErrorIs(t, b.Attach(types.Config{Backend: types.BackendSQLite}), types.ErrAlreadyAttached)

	units, err := b.Units()
	require.NoError(t, err)

	require.NoError(t, b.Detach())
	require.NoError(t, b.Detach())

	_, err = units.Boards.GetAll(types.RootContainer)
	assert.ErrorIs(t, err, types.ErrStorageDetached)
	assert.ErrorIs(t, units.Boards.Create(types.RootContainer, types.Board{ID: "x"}), types.ErrStorageDetached)
}

func TestBackend_AttachValidatesConfig(t *testing.T) {
	b := NewBackend()
	err := b.Attach(types.Config{Backend: types.BackendSQLite, DataDir: t.TempDir(), SyncStrategy: "batch"})
	assert.ErrorIs(t, err, types.ErrSyncStrategyUnknown)
}

func TestUnits_CreateErrors(t *testing.T) {
	_, units, _ := setupBoard(t)

	assert.ErrorIs(t, units.Boards.Create(types.RootContainer, types.Board{ID: "b1"}), types.ErrDuplicateID)
	assert.ErrorIs(t, units.Boards.Create(types.RootContainer, types.Board{}), types.ErrInvalidID)
	assert.ErrorIs(t, units.Lists.Create("missing", types.List{ID: "l9"}), types.ErrNotFound)
	assert.ErrorIs(t, units.Cards.Create("missing", types.Card{ID: "c9"}), types.ErrNotFound)
	assert.ErrorIs(t, units.Cards.Create("l2", types.Card{ID: "c1"}), types.ErrDuplicateID)

	ids, err := units.Cards.GetOrders("l1")
	require.NoError(t, err)
	assert.Equal(t, []string{"c1", "c2", "c3"}, ids)
}

func TestUnits_ListTakesBoardFromContainer(t *testing.T) {
	_, units, _ := setupBoard(t)

	require.NoError(t, units.Lists.Create("b1", types.List{ID: "l3", Title: "Done", BoardID: "other"}))
	l, err := units.Lists.Get("b1", "l3")
	require.NoError(t, err)
	assert.Equal(t, "b1", l.BoardID)
}

func TestUnits_CardRoundTrip(t *testing.T) {
	_, units, _ := setupBoard(t)

	rel := "in 3 days"
	want := types.Card{
		ID:           "c9",
		Title:        "Write docs",
		Writer:       types.Writer{ID: "w1", Name: "Ada", Email: "ada@example.com"},
		Description:  "all of them",
		StartDate:    time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC),
		DueDate:      time.Date(2026, 3, 4, 17, 0, 0, 0, time.UTC),
		RelativeDate: &rel,
	}
	require.NoError(t, units.Cards.Create("l2", want))

	got, err := units.Cards.Get("l2", "c9")
	require.NoError(t, err)
	assert.Equal(t, want.Writer, got.Writer)
	assert.Equal(t, want.Description, got.Description)
	assert.True(t, want.StartDate.Equal(got.StartDate))
	assert.True(t, want.DueDate.Equal(got.DueDate))
	require.NotNil(t, got.RelativeDate)
	assert.Equal(t, rel, *got.RelativeDate)

	got.Title = "Write more docs"
	got.RelativeDate = nil
	got.DueDate = time.Time{}
	require.NoError(t, units.Cards.Update("l2", got))

	again, err := units.Cards.Get("l2", "c9")
	require.NoError(t, err)
	assert.Equal(t, "Write more docs", again.Title)
	assert.Nil(t, again.RelativeDate)
	assert.True(t, again.DueDate.IsZero())

	_, err = units.Cards.Get("l1", "c9")
	assert.ErrorIs(t, err, types.ErrNotFound)
	assert.ErrorIs(t, units.Cards.Update("l1", got), types.ErrNotFound)
}

func TestUnits_Reorder(t *testing.T) {
	tests := []struct {
		name   string
		id     string
		target int
		want   []string
	}{
		{"to front", "c3", 0, []string{"c3", "c1", "c2"}},
		{"to back", "c1", 2, []string{"c2", "c3", "c1"}},
		{"same place", "c2", 1, []string{"c1", "c2", "c3"}},
		{"clamped high", "c1", 99, []string{"c2", "c3", "c1"}},
		{"clamped low", "c3", -4, []string{"c3", "c1", "c2"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, units, _ := setupBoard(t)
			require.NoError(t, units.Cards.Reorder("l1", tt.id, tt.target))

			ids, err := units.Cards.GetOrders("l1")
			require.NoError(t, err)
			assert.Equal(t, tt.want, ids)

			cards, err := units.Cards.GetAll("l1")
			require.NoError(t, err)
			for i, c := range cards {
				assert.Equal(t, ids[i], c.ID)
			}
		})
	}
}

func TestUnits_ReorderErrors(t *testing.T) {
	_, units, _ := setupBoard(t)
	require.NoError(t, units.Cards.Create("l2", types.Card{ID: "c4", Title: "c4"}))

	assert.ErrorIs(t, units.Cards.Reorder("l1", "nope", 0), types.ErrNotFound)
	assert.ErrorIs(t, units.Cards.Reorder("l1", "c4", 0), types.ErrInvalidMove)
	assert.ErrorIs(t, units.Lists.Reorder("b2", "l1", 0), types.ErrInvalidMove)

	ids, err := units.Cards.GetOrders("l1")
	require.NoError(t, err)
	assert.Equal(t, []string{"c1", "c2", "c3"}, ids)
}

func TestUnits_Move(t *testing.T) {
	_, units, _ := setupBoard(t)
	require.NoError(t, units.Cards.Create("l2", types.Card{ID: "c4", Title: "c4"}))

	require.NoError(t, units.Cards.Move("l1", "l2", "c2", 0))
	src, _ := units.Cards.GetOrders("l1")
	dst, _ := units.Cards.GetOrders("l2")
	assert.Equal(t, []string{"c1", "c3"}, src)
	assert.Equal(t, []string{"c2", "c4"}, dst)

	require.NoError(t, units.Cards.Move("l1", "l2", "c1", 10))
	dst, _ = units.Cards.GetOrders("l2")
	assert.Equal(t, []string{"c2", "c4", "c1"}, dst)

	require.NoError(t, units.Cards.Move("l2", "l2", "c1", 0))
	dst, _ = units.Cards.GetOrders("l2")
	assert.Equal(t, []string{"c1", "c2", "c4"}, dst)

	_, err := units.Cards.Get("l2", "c1")
	assert.NoError(t, err)
}

func TestUnits_MoveFailureChangesNothing(t *testing.T) {
	_, units, _ := setupBoard(t)

	assert.ErrorIs(t, units.Cards.Move("l1", "missing", "c1", 0), types.ErrNotFound)
	assert.ErrorIs(t, units.Cards.Move("l1", "l2", "nope", 0), types.ErrNotFound)
	assert.ErrorIs(t, units.Cards.Move("l2", "l1", "c1", 0), types.ErrInvalidMove)

	src, _ := units.Cards.GetOrders("l1")
	dst, _ := units.Cards.GetOrders("l2")
	assert.Equal(t, []string{"c1", "c2", "c3"}, src)
	assert.Empty(t, dst)
}

func TestUnits_DeleteCascades(t *testing.T) {
	_, units, _ := setupBoard(t)
	require.NoError(t, units.Boards.Create(types.RootContainer, types.Board{ID: "b2", Title: "Other"}))

	require.NoError(t, units.Cards.Delete("l1", "c2"))
	ids, _ := units.Cards.GetOrders("l1")
	assert.Equal(t, []string{"c1", "c3"}, ids)
	require.NoError(t, units.Cards.Reorder("l1", "c3", 0))
	ids, _ = units.Cards.GetOrders("l1")
	assert.Equal(t, []string{"c3", "c1"}, ids)

	require.NoError(t, units.Lists.Delete("b1", "l1"))
	_, err := units.Cards.Get("l1", "c1")
	assert.ErrorIs(t, err, types.ErrNotFound)
	lists, _ := units.Lists.GetOrders("b1")
	assert.Equal(t, []string{"l2"}, lists)

	require.NoError(t, units.Boards.Delete(types.RootContainer, "b1"))
	boards, _ := units.Boards.GetOrders(types.RootContainer)
	assert.Equal(t, []string{"b2"}, boards)
	lists, _ = units.Lists.GetOrders("b1")
	assert.Empty(t, lists)

	assert.ErrorIs(t, units.Boards.Delete(types.RootContainer, "b1"), types.ErrNotFound)
	assert.ErrorIs(t, units.Lists.Delete("b2", "l2"), types.ErrNotFound)
}

func TestBackend_PersistsAcrossReattach(t *testing.T) {
	b, units, dir := setupBoard(t)
	require.NoError(t, units.Cards.Move("l1", "l2", "c3", 0))
	require.NoError(t, units.Lists.Reorder("b1", "l2", 0))
	require.NoError(t, b.Detach())

	b2, units2 := attachSQLite(t, dir, "")
	defer b2.Detach()

	lists, err := units2.Lists.GetOrders("b1")
	require.NoError(t, err)
	assert.Equal(t, []string{"l2", "l1"}, lists)
	src, _ := units2.Cards.GetOrders("l1")
	dst, _ := units2.Cards.GetOrders("l2")
	assert.Equal(t, []string{"c1", "c2"}, src)
	assert.Equal(t, []string{"c3"}, dst)

	// Ordinals continue after reload.
	require.NoError(t, units2.Cards.Create("l1", types.Card{ID: "c5", Title: "c5"}))
	src, _ = units2.Cards.GetOrders("l1")
	assert.Equal(t, []string{"c1", "c2", "c5"}, src)
}

// blockJSONL replaces a JSONL file with a directory so the atomic rename
// onto it fails.
func blockJSONL(t *testing.T, dir, file string) func() {
	t.Helper()
	path := filepath.Join(dir, file)
	require.NoError(t, os.Remove(path))
	require.NoError(t, os.Mkdir(path, 0o755))
	return func() { require.NoError(t, os.Remove(path)) }
}

func TestBackend_FailedJSONLWriteRollsBack(t *testing.T) {
	b, units, dir := setupBoard(t)
	listsBefore := readLines(t, filepath.Join(dir, listsJSONL))

	unblock := blockJSONL(t, dir, cardsJSONL)

	err := units.Cards.Reorder("l1", "c3", 0)
	require.Error(t, err)
	ids, err := units.Cards.GetOrders("l1")
	require.NoError(t, err)
	assert.Equal(t, []string{"c1", "c2", "c3"}, ids)

	// Deleting a list rewrites lists.jsonl before cards.jsonl fails.
	require.Error(t, units.Lists.Delete("b1", "l1"))
	lists, err := units.Lists.GetOrders("b1")
	require.NoError(t, err)
	assert.Equal(t, []string{"l1", "l2"}, lists)
	assert.Equal(t, listsBefore, readLines(t, filepath.Join(dir, listsJSONL)))

	unblock()

	require.NoError(t, units.Cards.Reorder("l1", "c3", 0))
	require.NoError(t, b.Detach())

	b2, units2 := attachSQLite(t, dir, "")
	defer b2.Detach()
	ids, err = units2.Cards.GetOrders("l1")
	require.NoError(t, err)
	assert.Equal(t, []string{"c3", "c1", "c2"}, ids)
	lists, err = units2.Lists.GetOrders("b1")
	require.NoError(t, err)
	assert.Equal(t, []string{"l1", "l2"}, lists)
}
