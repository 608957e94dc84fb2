package sqlite

// JSONL file names in DataDir. They are the source of truth; kanban.db is
// rebuilt from them on every Attach.
const (
	boardsJSONL = "boards.jsonl"
	listsJSONL  = "lists.jsonl"
	cardsJSONL  = "cards.jsonl"
	dbFile      = "kanban.db"
)

// Schema DDL. Every table carries an ordinal: the entity's position in its
// container's order sequence.
const (
	createBoards = `CREATE TABLE boards (
    board_id TEXT PRIMARY KEY,
    title TEXT NOT NULL,
    ordinal INTEGER NOT NULL
);`

	createLists = `CREATE TABLE lists (
    list_id TEXT PRIMARY KEY,
    board_id TEXT NOT NULL,
    title TEXT NOT NULL,
    ordinal INTEGER NOT NULL,
    FOREIGN KEY (board_id) REFERENCES boards(board_id)
);`

	createCards = `CREATE TABLE cards (
    card_id TEXT PRIMARY KEY,
    list_id TEXT NOT NULL,
    title TEXT NOT NULL,
    description TEXT,
    writer_id TEXT,
    writer_name TEXT,
    writer_email TEXT,
    start_date TEXT,
    due_date TEXT,
    relative_date TEXT,
    ordinal INTEGER NOT NULL,
    FOREIGN KEY (list_id) REFERENCES lists(list_id)
);`
)

const (
	idxListsBoard = `CREATE INDEX idx_lists_board ON lists(board_id, ordinal);`
	idxCardsList  = `CREATE INDEX idx_cards_list ON cards(list_id, ordinal);`
)

// schemaDDL lists all CREATE statements in dependency order.
var schemaDDL = []string{
	createBoards,
	createLists,
	createCards,
	idxListsBoard,
	idxCardsList,
}

// container describes how one entity table is keyed and ordered.
type container struct {
	table     string
	idCol     string
	parentCol string // empty for boards, which live in the root container
	file      string
}

var (
	boardsTable = container{table: "boards", idCol: "board_id", file: boardsJSONL}
	listsTable  = container{table: "lists", idCol: "list_id", parentCol: "board_id", file: listsJSONL}
	cardsTable  = container{table: "cards", idCol: "card_id", parentCol: "list_id", file: cardsJSONL}
)
