// Package types defines the Storage and Unit interfaces, the board/list/card
// entity types, and the standard errors for the kanbanwave storage system.
//
// Every container (the set of boards, a board's lists, a list's cards) has
// exactly one order sequence. Units own that sequence; everything above them
// reads it and asks the owning unit to change it.
package types
