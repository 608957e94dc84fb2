package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/mesh-intelligence/kanbanwave/pkg/types"
)

// jsonlTableMapping maps JSONL files to their tables and columns. Parents
// load before children.
var jsonlTableMapping = []struct {
	file    string
	table   string
	columns []string
}{
	{boardsJSONL, "boards", []string{"board_id", "title", "ordinal"}},
	{listsJSONL, "lists", []string{"list_id", "board_id", "title", "ordinal"}},
	{cardsJSONL, "cards", []string{
		"card_id", "list_id", "title", "description",
		"writer_id", "writer_name", "writer_email",
		"start_date", "due_date", "relative_date", "ordinal",
	}},
}

// loadAllJSONL reads each JSONL file from dataDir into its table. Loading
// is transactional: all files load or the database stays empty. Malformed
// lines, records that violate constraints, and unknown fields are skipped.
// Lists and cards whose parent did not load are dropped.
func loadAllJSONL(db *sql.DB, dataDir string) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("beginning load transaction: %w", err)
	}
	defer tx.Rollback()

	for _, mapping := range jsonlTableMapping {
		path := filepath.Join(dataDir, mapping.file)
		records, err := readJSONL(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", mapping.file, err)
		}
		if len(records) == 0 {
			continue
		}
		if err := insertRecords(tx, mapping.table, mapping.columns, records); err != nil {
			return fmt.Errorf("loading %s into %s: %w", mapping.file, mapping.table, err)
		}
	}

	if err := pruneOrphans(tx); err != nil {
		return err
	}
	if err := normalizeOrdinals(tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing load transaction: %w", err)
	}
	return nil
}

// pruneOrphans removes lists without a board and cards without a list.
func pruneOrphans(tx *sql.Tx) error {
	if _, err := tx.Exec(
		"DELETE FROM lists WHERE board_id NOT IN (SELECT board_id FROM boards)"); err != nil {
		return fmt.Errorf("pruning orphan lists: %w", err)
	}
	if _, err := tx.Exec(
		"DELETE FROM cards WHERE list_id NOT IN (SELECT list_id FROM lists)"); err != nil {
		return fmt.Errorf("pruning orphan cards: %w", err)
	}
	return nil
}

// normalizeOrdinals renumbers every container densely from 0. Merged JSONL
// files can carry duplicate or sparse ordinals; ties keep file order.
func normalizeOrdinals(tx *sql.Tx) error {
	for _, c := range []container{boardsTable, listsTable, cardsTable} {
		parents := []string{types.RootContainer}
		if c.parentCol != "" {
			var err error
			if parents, err = distinctParents(tx, c); err != nil {
				return err
			}
		}
		for _, parent := range parents {
			seq, err := members(tx, c, parent)
			if err != nil {
				return err
			}
			if err := renumber(tx, c, seq); err != nil {
				return err
			}
		}
	}
	return nil
}

func distinctParents(tx *sql.Tx, c container) ([]string, error) {
	rows, err := tx.Query("SELECT DISTINCT " + c.parentCol + " FROM " + c.table)
	if err != nil {
		return nil, fmt.Errorf("querying %s parents: %w", c.table, err)
	}
	defer rows.Close()

	var parents []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, fmt.Errorf("scanning %s parent: %w", c.table, err)
		}
		parents = append(parents, p)
	}
	return parents, rows.Err()
}

// insertRecords inserts parsed JSONL records into a table. Only the mapped
// columns are read; missing ones insert as NULL.
func insertRecords(tx *sql.Tx, table string, columns []string, records []json.RawMessage) error {
	placeholders := make([]string, len(columns))
	for i := range placeholders {
		placeholders[i] = "?"
	}
	insertSQL := fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s)",
		table,
		strings.Join(columns, ", "),
		strings.Join(placeholders, ", "),
	)

	stmt, err := tx.Prepare(insertSQL)
	if err != nil {
		return fmt.Errorf("preparing insert for %s: %w", table, err)
	}
	defer stmt.Close()

	for _, rec := range records {
		var obj map[string]any
		if err := json.Unmarshal(rec, &obj); err != nil {
			continue
		}

		args := make([]any, len(columns))
		for i, col := range columns {
			args[i] = obj[col]
		}

		if _, err := stmt.Exec(args...); err != nil {
			// Constraint violations (duplicate IDs, missing NOT NULL
			// columns) drop the record, not the load.
			continue
		}
	}
	return nil
}
