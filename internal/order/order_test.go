package order

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClamp(t *testing.T) {
	tests := []struct {
		name         string
		index, n     int
		want, insert int
	}{
		{"inside", 1, 3, 1, 1},
		{"negative", -4, 3, 0, 0},
		{"past end", 9, 3, 2, 3},
		{"exactly len", 3, 3, 2, 3},
		{"empty", 5, 0, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Clamp(tt.index, tt.n))
			assert.Equal(t, tt.insert, ClampInsert(tt.index, tt.n))
		})
	}
}

func TestMove(t *testing.T) {
	seq := []string{"a", "b", "c", "d"}
	tests := []struct {
		name     string
		from, to int
		want     []string
	}{
		{"forward", 0, 2, []string{"b", "c", "a", "d"}},
		{"backward", 3, 1, []string{"a", "d", "b", "c"}},
		{"to front", 2, 0, []string{"c", "a", "b", "d"}},
		{"to end", 1, 3, []string{"a", "c", "d", "b"}},
		{"same index", 2, 2, []string{"a", "b", "c", "d"}},
		{"target clamped high", 0, 40, []string{"b", "c", "d", "a"}},
		{"target clamped low", 3, -1, []string{"d", "a", "b", "c"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Move(seq, tt.from, tt.to)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, []string{"a", "b", "c", "d"}, seq, "input must not change")
		})
	}
}

func TestMoveID(t *testing.T) {
	got, ok := MoveID([]string{"c1", "c2", "c3"}, "c3", 0)
	assert.True(t, ok)
	assert.Equal(t, []string{"c3", "c1", "c2"}, got)

	_, ok = MoveID([]string{"c1"}, "zz", 0)
	assert.False(t, ok)
}

func TestMoveToOwnIndexIsNoop(t *testing.T) {
	seq := []string{"a", "b", "c"}
	for i, id := range seq {
		got, ok := MoveID(seq, id, i)
		assert.True(t, ok)
		assert.Equal(t, seq, got)
	}
}

func TestRemoveInsert(t *testing.T) {
	src := []string{"c1", "c2"}
	dst := []string{"c3"}

	src2 := Remove(src, 0)
	dst2 := Insert(dst, 0, "c1")

	assert.Equal(t, []string{"c2"}, src2)
	assert.Equal(t, []string{"c1", "c3"}, dst2)
	assert.Equal(t, []string{"c1", "c2"}, src)
	assert.Equal(t, []string{"c3"}, dst)

	assert.Equal(t, []string{"c3", "x"}, Insert(dst, 10, "x"))
	assert.Equal(t, []string{"x"}, Insert([]string(nil), 0, "x"))
}

func TestIsPermutation(t *testing.T) {
	assert.True(t, IsPermutation([]string{"b", "a"}, []string{"a", "b"}))
	assert.True(t, IsPermutation(nil, nil))
	assert.False(t, IsPermutation([]string{"a", "a"}, []string{"a", "b"}))
	assert.False(t, IsPermutation([]string{"a"}, []string{"a", "b"}))
}
