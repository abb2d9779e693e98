package domain_test

import (
	"encoding/json"
	"testing"

	"github.com/aretw0/excelauto/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRange_Validate(t *testing.T) {
	ok := domain.Range{FirstRow: 1, FirstCol: 1, LastRow: 3, LastCol: 2}
	require.NoError(t, ok.Validate())
	assert.Equal(t, 3, ok.Rows())
	assert.Equal(t, 2, ok.Cols())
	assert.Equal(t, "A1:B3", ok.String())

	bad := []domain.Range{
		{FirstRow: 0, FirstCol: 1, LastRow: 1, LastCol: 1},
		{FirstRow: 1, FirstCol: 1, LastRow: 1, LastCol: 0},
		{FirstRow: 2, FirstCol: 1, LastRow: 1, LastCol: 1},
		{FirstRow: 1, FirstCol: 3, LastRow: 1, LastCol: 2},
	}
	for _, r := range bad {
		assert.ErrorIs(t, r.Validate(), domain.ErrInvalidRange, "%+v", r)
	}
}

func TestNormalizeValue(t *testing.T) {
	tests := []struct {
		in   any
		want any
	}{
		{nil, nil},
		{true, true},
		{"x", "x"},
		{3, int64(3)},
		{float64(4), int64(4)},
		{2.5, 2.5},
		{float32(1.5), 1.5},
		{json.Number("12"), int64(12)},
		{json.Number("1.25"), 1.25},
	}
	for _, tt := range tests {
		got, err := domain.NormalizeValue(tt.in)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}

	_, err := domain.NormalizeValue(map[string]any{})
	assert.ErrorIs(t, err, domain.ErrUnsupportedValue)
	_, err = domain.NormalizeValue([]any{1})
	assert.ErrorIs(t, err, domain.ErrUnsupportedValue)
}
