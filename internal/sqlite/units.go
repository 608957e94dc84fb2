package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/mesh-intelligence/kanbanwave/internal/order"
	"github.com/mesh-intelligence/kanbanwave/pkg/types"
)

// Boards.

type boardUnit struct{ b *Backend }

func (u *boardUnit) GetAll(string) ([]types.Board, error) {
	out := []types.Board{}
	err := u.b.read(func(q querier) error {
		rows, err := q.Query("SELECT board_id, title FROM boards ORDER BY ordinal, rowid")
		if err != nil {
			return fmt.Errorf("querying boards: %w", err)
		}
		defer rows.Close()
		for rows.Next() {
			var bd types.Board
			if err := rows.Scan(&bd.ID, &bd.Title); err != nil {
				return fmt.Errorf("scanning board: %w", err)
			}
			out = append(out, bd)
		}
		return rows.Err()
	})
	return out, err
}

func (u *boardUnit) GetOrders(string) ([]string, error) {
	var out []string
	err := u.b.read(func(q querier) (err error) {
		out, err = members(q, boardsTable, types.RootContainer)
		return err
	})
	return out, err
}

func (u *boardUnit) Get(_ string, id string) (types.Board, error) {
	var bd types.Board
	err := u.b.read(func(q querier) error {
		err := q.QueryRow("SELECT board_id, title FROM boards WHERE board_id = ?", id).
			Scan(&bd.ID, &bd.Title)
		if errors.Is(err, sql.ErrNoRows) {
			return types.ErrNotFound
		}
		return err
	})
	return bd, err
}

func (u *boardUnit) Create(_ string, bd types.Board) error {
	return u.b.write(func(tx *sql.Tx) ([]container, error) {
		if err := checkNew(tx, boardsTable, bd.ID); err != nil {
			return nil, err
		}
		ord, err := nextOrdinal(tx, boardsTable, types.RootContainer)
		if err != nil {
			return nil, err
		}
		if _, err := tx.Exec(
			"INSERT INTO boards (board_id, title, ordinal) VALUES (?, ?, ?)",
			bd.ID, bd.Title, ord); err != nil {
			return nil, fmt.Errorf("inserting board: %w", err)
		}
		return []container{boardsTable}, nil
	})
}

func (u *boardUnit) Update(_ string, bd types.Board) error {
	return u.b.write(func(tx *sql.Tx) ([]container, error) {
		if err := affected(tx.Exec(
			"UPDATE boards SET title = ? WHERE board_id = ?", bd.Title, bd.ID)); err != nil {
			return nil, err
		}
		return []container{boardsTable}, nil
	})
}

// Delete removes the board, its lists, and their cards.
func (u *boardUnit) Delete(_ string, id string) error {
	return u.b.write(func(tx *sql.Tx) ([]container, error) {
		if err := lookupIn(tx, boardsTable, types.RootContainer, id); err != nil {
			return nil, err
		}
		if _, err := tx.Exec(
			"DELETE FROM cards WHERE list_id IN (SELECT list_id FROM lists WHERE board_id = ?)", id); err != nil {
			return nil, fmt.Errorf("deleting board cards: %w", err)
		}
		if _, err := tx.Exec("DELETE FROM lists WHERE board_id = ?", id); err != nil {
			return nil, fmt.Errorf("deleting board lists: %w", err)
		}
		if err := removeRow(tx, boardsTable, types.RootContainer, id); err != nil {
			return nil, err
		}
		return []container{boardsTable, listsTable, cardsTable}, nil
	})
}

func (u *boardUnit) Reorder(_ string, id string, targetIndex int) error {
	return u.b.write(func(tx *sql.Tx) ([]container, error) {
		if err := reorder(tx, boardsTable, types.RootContainer, id, targetIndex); err != nil {
			return nil, err
		}
		return []container{boardsTable}, nil
	})
}

// Lists.

type listUnit struct{ b *Backend }

func (u *listUnit) GetAll(boardID string) ([]types.List, error) {
	out := []types.List{}
	err := u.b.read(func(q querier) error {
		rows, err := q.Query(
			"SELECT list_id, title, board_id FROM lists WHERE board_id = ? ORDER BY ordinal, rowid", boardID)
		if err != nil {
			return fmt.Errorf("querying lists: %w", err)
		}
		defer rows.Close()
		for rows.Next() {
			var l types.List
			if err := rows.Scan(&l.ID, &l.Title, &l.BoardID); err != nil {
				return fmt.Errorf("scanning list: %w", err)
			}
			out = append(out, l)
		}
		return rows.Err()
	})
	return out, err
}

func (u *listUnit) GetOrders(boardID string) ([]string, error) {
	var out []string
	err := u.b.read(func(q querier) (err error) {
		out, err = members(q, listsTable, boardID)
		return err
	})
	return out, err
}

func (u *listUnit) Get(boardID, id string) (types.List, error) {
	var l types.List
	err := u.b.read(func(q querier) error {
		err := q.QueryRow(
			"SELECT list_id, title, board_id FROM lists WHERE list_id = ? AND board_id = ?", id, boardID).
			Scan(&l.ID, &l.Title, &l.BoardID)
		if errors.Is(err, sql.ErrNoRows) {
			return types.ErrNotFound
		}
		return err
	})
	return l, err
}

// Create stores the list under boardID; the list's BoardID is taken from
// the container.
func (u *listUnit) Create(boardID string, l types.List) error {
	return u.b.write(func(tx *sql.Tx) ([]container, error) {
		if err := lookupIn(tx, boardsTable, types.RootContainer, boardID); err != nil {
			return nil, err
		}
		if err := checkNew(tx, listsTable, l.ID); err != nil {
			return nil, err
		}
		ord, err := nextOrdinal(tx, listsTable, boardID)
		if err != nil {
			return nil, err
		}
		if _, err := tx.Exec(
			"INSERT INTO lists (list_id, board_id, title, ordinal) VALUES (?, ?, ?, ?)",
			l.ID, boardID, l.Title, ord); err != nil {
			return nil, fmt.Errorf("inserting list: %w", err)
		}
		return []container{listsTable}, nil
	})
}

func (u *listUnit) Update(boardID string, l types.List) error {
	return u.b.write(func(tx *sql.Tx) ([]container, error) {
		if err := affected(tx.Exec(
			"UPDATE lists SET title = ? WHERE list_id = ? AND board_id = ?",
			l.Title, l.ID, boardID)); err != nil {
			return nil, err
		}
		return []container{listsTable}, nil
	})
}

// Delete removes the list and its cards.
func (u *listUnit) Delete(boardID, id string) error {
	return u.b.write(func(tx *sql.Tx) ([]container, error) {
		if err := lookupIn(tx, listsTable, boardID, id); err != nil {
			return nil, err
		}
		if _, err := tx.Exec("DELETE FROM cards WHERE list_id = ?", id); err != nil {
			return nil, fmt.Errorf("deleting list cards: %w", err)
		}
		if err := removeRow(tx, listsTable, boardID, id); err != nil {
			return nil, err
		}
		return []container{listsTable, cardsTable}, nil
	})
}

func (u *listUnit) Reorder(boardID, id string, targetIndex int) error {
	return u.b.write(func(tx *sql.Tx) ([]container, error) {
		if err := reorder(tx, listsTable, boardID, id, targetIndex); err != nil {
			return nil, err
		}
		return []container{listsTable}, nil
	})
}

// Cards.

type cardUnit struct{ b *Backend }

const cardColumns = "card_id, title, description, writer_id, writer_name, writer_email, start_date, due_date, relative_date"

func scanCard(scan func(dest ...any) error) (types.Card, error) {
	var (
		c                        types.Card
		desc, wid, wname, wemail sql.NullString
		start, due, relative     sql.NullString
	)
	if err := scan(&c.ID, &c.Title, &desc, &wid, &wname, &wemail, &start, &due, &relative); err != nil {
		return types.Card{}, err
	}
	c.Description = desc.String
	c.Writer = types.Writer{ID: wid.String, Name: wname.String, Email: wemail.String}
	var err error
	if c.StartDate, err = parseTime(start); err != nil {
		return types.Card{}, fmt.Errorf("card %s start_date: %w", c.ID, err)
	}
	if c.DueDate, err = parseTime(due); err != nil {
		return types.Card{}, fmt.Errorf("card %s due_date: %w", c.ID, err)
	}
	if relative.Valid {
		r := relative.String
		c.RelativeDate = &r
	}
	return c, nil
}

func formatTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s sql.NullString) (time.Time, error) {
	if !s.Valid || s.String == "" {
		return time.Time{}, nil
	}
	return time.Parse(time.RFC3339Nano, s.String)
}

func relativeArg(r *string) any {
	if r == nil {
		return nil
	}
	return *r
}

func (u *cardUnit) GetAll(listID string) ([]types.Card, error) {
	out := []types.Card{}
	err := u.b.read(func(q querier) error {
		rows, err := q.Query(
			"SELECT "+cardColumns+" FROM cards WHERE list_id = ? ORDER BY ordinal, rowid", listID)
		if err != nil {
			return fmt.Errorf("querying cards: %w", err)
		}
		defer rows.Close()
		for rows.Next() {
			c, err := scanCard(rows.Scan)
			if err != nil {
				return fmt.Errorf("scanning card: %w", err)
			}
			out = append(out, c)
		}
		return rows.Err()
	})
	return out, err
}

func (u *cardUnit) GetOrders(listID string) ([]string, error) {
	var out []string
	err := u.b.read(func(q querier) (err error) {
		out, err = members(q, cardsTable, listID)
		return err
	})
	return out, err
}

func (u *cardUnit) Get(listID, id string) (types.Card, error) {
	var c types.Card
	err := u.b.read(func(q querier) error {
		var err error
		c, err = scanCard(q.QueryRow(
			"SELECT "+cardColumns+" FROM cards WHERE card_id = ? AND list_id = ?", id, listID).Scan)
		if errors.Is(err, sql.ErrNoRows) {
			return types.ErrNotFound
		}
		return err
	})
	return c, err
}

func (u *cardUnit) Create(listID string, c types.Card) error {
	return u.b.write(func(tx *sql.Tx) ([]container, error) {
		ok, err := exists(tx, listsTable, listID)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, types.ErrNotFound
		}
		if err := checkNew(tx, cardsTable, c.ID); err != nil {
			return nil, err
		}
		ord, err := nextOrdinal(tx, cardsTable, listID)
		if err != nil {
			return nil, err
		}
		if _, err := tx.Exec(`
			INSERT INTO cards (card_id, list_id, title, description,
				writer_id, writer_name, writer_email,
				start_date, due_date, relative_date, ordinal)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			c.ID, listID, c.Title, c.Description,
			c.Writer.ID, c.Writer.Name, c.Writer.Email,
			formatTime(c.StartDate), formatTime(c.DueDate), relativeArg(c.RelativeDate), ord); err != nil {
			return nil, fmt.Errorf("inserting card: %w", err)
		}
		return []container{cardsTable}, nil
	})
}

func (u *cardUnit) Update(listID string, c types.Card) error {
	return u.b.write(func(tx *sql.Tx) ([]container, error) {
		if err := affected(tx.Exec(`
			UPDATE cards SET title = ?, description = ?,
				writer_id = ?, writer_name = ?, writer_email = ?,
				start_date = ?, due_date = ?, relative_date = ?
			WHERE card_id = ? AND list_id = ?`,
			c.Title, c.Description,
			c.Writer.ID, c.Writer.Name, c.Writer.Email,
			formatTime(c.StartDate), formatTime(c.DueDate), relativeArg(c.RelativeDate),
			c.ID, listID)); err != nil {
			return nil, err
		}
		return []container{cardsTable}, nil
	})
}

func (u *cardUnit) Delete(listID, id string) error {
	return u.b.write(func(tx *sql.Tx) ([]container, error) {
		if err := lookupIn(tx, cardsTable, listID, id); err != nil {
			return nil, err
		}
		if err := removeRow(tx, cardsTable, listID, id); err != nil {
			return nil, err
		}
		return []container{cardsTable}, nil
	})
}

func (u *cardUnit) Reorder(listID, id string, targetIndex int) error {
	return u.b.write(func(tx *sql.Tx) ([]container, error) {
		if err := reorder(tx, cardsTable, listID, id, targetIndex); err != nil {
			return nil, err
		}
		return []container{cardsTable}, nil
	})
}

// Move transfers the card between lists in one transaction.
func (u *cardUnit) Move(srcListID, dstListID, id string, targetIndex int) error {
	return u.b.write(func(tx *sql.Tx) ([]container, error) {
		if srcListID == dstListID {
			if err := reorder(tx, cardsTable, srcListID, id, targetIndex); err != nil {
				return nil, err
			}
			return []container{cardsTable}, nil
		}
		ok, err := exists(tx, listsTable, dstListID)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, types.ErrNotFound
		}
		if err := checkMember(tx, cardsTable, srcListID, id); err != nil {
			return nil, err
		}

		src, err := members(tx, cardsTable, srcListID)
		if err != nil {
			return nil, err
		}
		dst, err := members(tx, cardsTable, dstListID)
		if err != nil {
			return nil, err
		}
		src = order.Remove(src, order.IndexOf(src, id))
		dst = order.Insert(dst, targetIndex, id)

		if _, err := tx.Exec("UPDATE cards SET list_id = ? WHERE card_id = ?", dstListID, id); err != nil {
			return nil, fmt.Errorf("moving card: %w", err)
		}
		if err := renumber(tx, cardsTable, src); err != nil {
			return nil, err
		}
		if err := renumber(tx, cardsTable, dst); err != nil {
			return nil, err
		}
		return []container{cardsTable}, nil
	})
}
