package types

import (
	"context"
	"errors"
)

// ErrorKind classifies the outcome of a boundary call.
type ErrorKind int

// Error kinds. KindNone means success.
const (
	KindNone ErrorKind = iota
	KindNotFound
	KindDuplicateID
	KindInvalidMove
	KindUnavailable
	KindInternal
)

var kindNames = map[ErrorKind]string{
	KindNone:        "none",
	KindNotFound:    "not_found",
	KindDuplicateID: "duplicate_id",
	KindInvalidMove: "invalid_move",
	KindUnavailable: "unavailable",
	KindInternal:    "internal",
}

func (k ErrorKind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "unknown"
}

// Result is the explicit success/failure value of a boundary call.
type Result struct {
	Kind ErrorKind
	Err  error
}

// OK reports whether the call succeeded.
func (r Result) OK() bool { return r.Kind == KindNone }

// ResultOf classifies err. A nil error is a success.
func ResultOf(err error) Result {
	if err == nil {
		return Result{}
	}
	var kind ErrorKind
	switch {
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrInvalidID):
		kind = KindNotFound
	case errors.Is(err, ErrDuplicateID):
		kind = KindDuplicateID
	case errors.Is(err, ErrInvalidMove):
		kind = KindInvalidMove
	case errors.Is(err, ErrStorageDetached),
		errors.Is(err, context.Canceled),
		errors.Is(err, context.DeadlineExceeded):
		kind = KindUnavailable
	default:
		kind = KindInternal
	}
	return Result{Kind: kind, Err: err}
}
