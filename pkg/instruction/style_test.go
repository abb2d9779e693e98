package instruction_test

import (
	"testing"

	"github.com/aretw0/excelauto/pkg/instruction"
	"github.com/stretchr/testify/assert"
)

func TestParseStyle(t *testing.T) {
	tests := []struct {
		field string
		want  instruction.Style
	}{
		{"B", instruction.Style{Bold: instruction.Enable}},
		{"b", instruction.Style{Bold: instruction.Disable}},
		{"I", instruction.Style{Italic: instruction.Enable}},
		{"i", instruction.Style{Italic: instruction.Disable}},
		{"U", instruction.Style{Underline: instruction.Enable}},
		{"u", instruction.Style{Underline: instruction.Disable}},
		{"➡️", instruction.Style{Align: instruction.AlignRight}},
		{"⬅️", instruction.Style{Align: instruction.AlignLeft}},
		{"↔️", instruction.Style{Align: instruction.AlignCenter}},
		{"➡", instruction.Style{Align: instruction.AlignRight}},
		{"BIU", instruction.Style{Bold: instruction.Enable, Italic: instruction.Enable, Underline: instruction.Enable}},
		{"xyz?!", instruction.Style{}},
		{"", instruction.Style{}},
	}
	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			assert.Equal(t, tt.want, instruction.ParseStyle(tt.field))
		})
	}
}

func TestParseStyle_OrderIndependent(t *testing.T) {
	want := instruction.ParseStyle("⬅️BiU")
	for _, field := range []string{"BiU⬅️", "U⬅️iB", "iiBBUU⬅️⬅️", "B?i.U-⬅️"} {
		assert.Equal(t, want, instruction.ParseStyle(field), field)
	}
}

// Contradictory tokens resolve by check order (right, left, center; enable
// before disable), never by their position in the field.
func TestParseStyle_ContradictionsFollowCheckOrder(t *testing.T) {
	tests := []struct {
		name   string
		fields []string
		want   instruction.Style
	}{
		{"bold", []string{"Bb", "bB"}, instruction.Style{Bold: instruction.Disable}},
		{"italic", []string{"Ii", "iI"}, instruction.Style{Italic: instruction.Disable}},
		{"underline", []string{"Uu", "uU"}, instruction.Style{Underline: instruction.Disable}},
		{"right then left", []string{"➡⬅", "⬅➡"}, instruction.Style{Align: instruction.AlignLeft}},
		{"center wins", []string{"➡↔⬅", "↔⬅➡", "⬅↔"}, instruction.Style{Align: instruction.AlignCenter}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, f := range tt.fields {
				assert.Equal(t, tt.want, instruction.ParseStyle(f), f)
			}
		})
	}
}

func TestToggle_Bool(t *testing.T) {
	v, ok := instruction.Unset.Bool()
	assert.False(t, ok)
	assert.False(t, v)

	v, ok = instruction.Enable.Bool()
	assert.True(t, ok)
	assert.True(t, v)

	v, ok = instruction.Disable.Bool()
	assert.True(t, ok)
	assert.False(t, v)
}
