package instruction_test

import (
	"testing"

	"github.com/aretw0/excelauto/pkg/instruction"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAll_SkipsInvalidAndKeepsOrder(t *testing.T) {
	in := []string{
		"'one'@A1",
		"'no address'",
		"'two'@A2#B",
		"'bad'@@@",
		"'three'@A3",
	}
	b := instruction.ParseAll(in)

	require.Len(t, b.Edits, 3)
	require.Len(t, b.Skipped, 2)

	var contents []string
	var indexes []int
	for _, e := range b.Edits {
		contents = append(contents, *e.Edit.Content)
		indexes = append(indexes, e.Index)
		assert.NoError(t, e.Err)
	}
	assert.Equal(t, []string{"one", "two", "three"}, contents)
	assert.Equal(t, []int{0, 2, 4}, indexes)

	assert.Equal(t, 1, b.Skipped[0].Index)
	assert.ErrorIs(t, b.Skipped[0].Err, instruction.ErrMissingAddress)
	assert.Equal(t, "'no address'", b.Skipped[0].Instruction)
	assert.Equal(t, 3, b.Skipped[1].Index)
	assert.ErrorIs(t, b.Skipped[1].Err, instruction.ErrInvalidAddress)
}

func TestParseAll_Empty(t *testing.T) {
	b := instruction.ParseAll(nil)
	assert.Empty(t, b.Edits)
	assert.Empty(t, b.Skipped)
}
