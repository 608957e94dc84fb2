package types

import "time"

// RootContainer is the parent ID of the board container. Board units ignore
// the parent argument; callers pass RootContainer for clarity.
const RootContainer = ""

// Entity is implemented by every stored type. Units key their collections
// and order sequences by EntityID.
type Entity interface {
	EntityID() string
}

// Board is the top-level container. Deleting a board removes its lists.
type Board struct {
	ID    string `json:"board_id"`
	Title string `json:"title"`
}

// EntityID implements Entity.
func (b Board) EntityID() string { return b.ID }

// List belongs to exactly one board. Deleting a list removes its cards.
type List struct {
	ID      string `json:"list_id"`
	Title   string `json:"title"`
	BoardID string `json:"board_id"`
}

// EntityID implements Entity.
func (l List) EntityID() string { return l.ID }

// Writer identifies the author of a card.
type Writer struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Card belongs to exactly one list. Ownership is tracked by the card unit's
// containers, not by a field on the card.
type Card struct {
	ID           string    `json:"card_id"`
	Title        string    `json:"title"`
	Writer       Writer    `json:"writer"`
	Description  string    `json:"description"`
	StartDate    time.Time `json:"start_date"`
	DueDate      time.Time `json:"due_date"`
	RelativeDate *string   `json:"relative_date,omitempty"`
}

// EntityID implements Entity.
func (c Card) EntityID() string { return c.ID }

// BoardForm is the payload for creating a board; the ID is assigned on create.
type BoardForm struct {
	Title string `json:"title"`
}

// ListForm is the payload for creating a list.
type ListForm struct {
	Title string `json:"title"`
}

// CardForm is the payload for creating a card.
type CardForm struct {
	Title        string    `json:"title"`
	Writer       Writer    `json:"writer"`
	Description  string    `json:"description"`
	StartDate    time.Time `json:"start_date"`
	DueDate      time.Time `json:"due_date"`
	RelativeDate *string   `json:"relative_date,omitempty"`
}

// Card builds a card with the given ID from the form.
func (f CardForm) Card(id string) Card {
	return Card{
		ID:           id,
		Title:        f.Title,
		Writer:       f.Writer,
		Description:  f.Description,
		StartDate:    f.StartDate,
		DueDate:      f.DueDate,
		RelativeDate: f.RelativeDate,
	}
}

// ListContent is a list with its cards in order.
type ListContent struct {
	List
	Cards []Card `json:"cards"`
}

// BoardContent is a board with its lists, each with its cards, all in order.
// It is a read-only projection recomputed on demand and never persisted.
type BoardContent struct {
	Board
	Lists []ListContent `json:"lists"`
}

// Clone returns a deep copy. Card values are copied; RelativeDate pointers
// are shared since cards are treated as immutable values.
func (bc BoardContent) Clone() BoardContent {
	out := BoardContent{Board: bc.Board, Lists: make([]ListContent, len(bc.Lists))}
	for i, l := range bc.Lists {
		out.Lists[i] = l.Clone()
	}
	return out
}

// Clone returns a copy with its own card slice.
func (lc ListContent) Clone() ListContent {
	cards := make([]Card, len(lc.Cards))
	copy(cards, lc.Cards)
	return ListContent{List: lc.List, Cards: cards}
}

// ListIndex returns the position of the list with the given ID, or -1.
func (bc BoardContent) ListIndex(listID string) int {
	for i, l := range bc.Lists {
		if l.ID == listID {
			return i
		}
	}
	return -1
}

// CardIDs returns the card order of the list.
func (lc ListContent) CardIDs() []string {
	ids := make([]string, len(lc.Cards))
	for i, c := range lc.Cards {
		ids[i] = c.ID
	}
	return ids
}

// ListIDs returns the list order of the board.
func (bc BoardContent) ListIDs() []string {
	ids := make([]string, len(bc.Lists))
	for i, l := range bc.Lists {
		ids[i] = l.ID
	}
	return ids
}
