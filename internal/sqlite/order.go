package sqlite

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/mesh-intelligence/kanbanwave/internal/order"
	"github.com/mesh-intelligence/kanbanwave/pkg/types"
)

// members returns the IDs of one container in order.
func members(q querier, c container, parentID string) ([]string, error) {
	query := "SELECT " + c.idCol + " FROM " + c.table
	var args []any
	if c.parentCol != "" {
		query += " WHERE " + c.parentCol + " = ?"
		args = append(args, parentID)
	}
	query += " ORDER BY ordinal, rowid"

	rows, err := q.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying %s order: %w", c.table, err)
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning %s order: %w", c.table, err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// ownerOf returns the container holding id, and false if id is unknown.
func ownerOf(q querier, c container, id string) (string, bool, error) {
	if c.parentCol == "" {
		var one int
		err := q.QueryRow("SELECT 1 FROM "+c.table+" WHERE "+c.idCol+" = ?", id).Scan(&one)
		if errors.Is(err, sql.ErrNoRows) {
			return "", false, nil
		}
		if err != nil {
			return "", false, fmt.Errorf("checking %s: %w", c.table, err)
		}
		return types.RootContainer, true, nil
	}

	var parent string
	err := q.QueryRow(
		"SELECT "+c.parentCol+" FROM "+c.table+" WHERE "+c.idCol+" = ?", id).Scan(&parent)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("checking %s: %w", c.table, err)
	}
	return parent, true, nil
}

func exists(q querier, c container, id string) (bool, error) {
	_, ok, err := ownerOf(q, c, id)
	return ok, err
}

// lookupIn returns ErrNotFound unless parentID holds id.
func lookupIn(q querier, c container, parentID, id string) error {
	owner, ok, err := ownerOf(q, c, id)
	if err != nil {
		return err
	}
	if !ok || owner != parentID {
		return types.ErrNotFound
	}
	return nil
}

// checkMember distinguishes an unknown id (ErrNotFound) from one held by
// another container (ErrInvalidMove).
func checkMember(q querier, c container, parentID, id string) error {
	owner, ok, err := ownerOf(q, c, id)
	if err != nil {
		return err
	}
	if !ok {
		return types.ErrNotFound
	}
	if owner != parentID {
		return types.ErrInvalidMove
	}
	return nil
}

// checkNew rejects empty and existing IDs.
func checkNew(q querier, c container, id string) error {
	if id == "" {
		return types.ErrInvalidID
	}
	ok, err := exists(q, c, id)
	if err != nil {
		return err
	}
	if ok {
		return types.ErrDuplicateID
	}
	return nil
}

// nextOrdinal returns the ordinal that appends to parentID.
func nextOrdinal(q querier, c container, parentID string) (int, error) {
	query := "SELECT COALESCE(MAX(ordinal) + 1, 0) FROM " + c.table
	var args []any
	if c.parentCol != "" {
		query += " WHERE " + c.parentCol + " = ?"
		args = append(args, parentID)
	}
	var n int
	if err := q.QueryRow(query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("computing %s ordinal: %w", c.table, err)
	}
	return n, nil
}

// renumber stores seq as ordinals 0..len(seq)-1.
func renumber(tx *sql.Tx, c container, seq []string) error {
	stmt, err := tx.Prepare("UPDATE " + c.table + " SET ordinal = ? WHERE " + c.idCol + " = ?")
	if err != nil {
		return fmt.Errorf("preparing %s renumber: %w", c.table, err)
	}
	defer stmt.Close()

	for i, id := range seq {
		if _, err := stmt.Exec(i, id); err != nil {
			return fmt.Errorf("renumbering %s %s: %w", c.table, id, err)
		}
	}
	return nil
}

// reorder moves id to target, clamped, within parentID.
func reorder(tx *sql.Tx, c container, parentID, id string, target int) error {
	if err := checkMember(tx, c, parentID, id); err != nil {
		return err
	}
	seq, err := members(tx, c, parentID)
	if err != nil {
		return err
	}
	seq, _ = order.MoveID(seq, id, target)
	return renumber(tx, c, seq)
}

// removeRow deletes id from parentID and closes the gap in the ordinals.
func removeRow(tx *sql.Tx, c container, parentID, id string) error {
	if _, err := tx.Exec("DELETE FROM "+c.table+" WHERE "+c.idCol+" = ?", id); err != nil {
		return fmt.Errorf("deleting %s %s: %w", c.table, id, err)
	}
	seq, err := members(tx, c, parentID)
	if err != nil {
		return err
	}
	return renumber(tx, c, seq)
}

// affected maps zero updated rows to ErrNotFound.
func affected(res sql.Result, err error) error {
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return types.ErrNotFound
	}
	return nil
}
