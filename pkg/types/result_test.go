package types

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResultOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorKind
	}{
		{"nil is success", nil, KindNone},
		{"not found", ErrNotFound, KindNotFound},
		{"wrapped not found", fmt.Errorf("reorder list: %w", ErrNotFound), KindNotFound},
		{"duplicate", ErrDuplicateID, KindDuplicateID},
		{"invalid move", fmt.Errorf("move: %w", ErrInvalidMove), KindInvalidMove},
		{"detached", ErrStorageDetached, KindUnavailable},
		{"cancelled", context.Canceled, KindUnavailable},
		{"anything else", errors.New("disk on fire"), KindInternal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := ResultOf(tt.err)
			assert.Equal(t, tt.want, r.Kind)
			assert.Equal(t, tt.err == nil, r.OK())
			assert.Equal(t, tt.err, r.Err)
		})
	}
}

func TestErrorKindString(t *testing.T) {
	assert.Equal(t, "not_found", KindNotFound.String())
	assert.Equal(t, "invalid_move", KindInvalidMove.String())
	assert.Equal(t, "unknown", ErrorKind(99).String())
}
