package apply_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/aretw0/excelauto/pkg/adapters/memory"
	"github.com/aretw0/excelauto/pkg/address"
	"github.com/aretw0/excelauto/pkg/apply"
	"github.com/aretw0/excelauto/pkg/domain"
	"github.com/aretw0/excelauto/pkg/instruction"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApply_WriteOrder(t *testing.T) {
	e, err := instruction.Parse("'Total'@B3#uIB↔️$FF0000%00FF00")
	require.NoError(t, err)

	sheet := memory.NewSheet()
	require.NoError(t, apply.New().Apply(context.Background(), sheet, e))

	assert.Equal(t, []string{
		"text B3 Total",
		"align B3 center",
		"bold B3 true",
		"italic B3 true",
		"underline B3 false",
		"font B3 FF0000",
		"fill B3 00FF00",
	}, sheet.Ops())
}

func TestApply_OnlySetFields(t *testing.T) {
	e, err := instruction.Parse("@A1#b")
	require.NoError(t, err)

	sheet := memory.NewSheet()
	require.NoError(t, apply.New().Apply(context.Background(), sheet, e))
	assert.Equal(t, []string{"bold A1 false"}, sheet.Ops())
}

func TestApply_AddressOnlyWritesNothing(t *testing.T) {
	e, err := instruction.Parse("@A1")
	require.NoError(t, err)

	sheet := memory.NewSheet()
	require.NoError(t, apply.New().Apply(context.Background(), sheet, e))
	assert.Empty(t, sheet.Ops())
}

func TestApply_EmptyContentClears(t *testing.T) {
	e, err := instruction.Parse("''@A1")
	require.NoError(t, err)

	sheet := memory.NewSheet()
	require.NoError(t, apply.New().Apply(context.Background(), sheet, e))
	c, ok := sheet.Cell(1, 1)
	require.True(t, ok)
	assert.Equal(t, "", *c.Text)
}

func TestApply_InvalidEdit(t *testing.T) {
	err := apply.New().Apply(context.Background(), memory.NewSheet(), instruction.Edit{})
	assert.ErrorIs(t, err, instruction.ErrInvalidAddress)
}

func TestApply_StopsAtFirstFailingWrite(t *testing.T) {
	e, err := instruction.Parse("'x'@A1#BI$FF0000")
	require.NoError(t, err)

	sheet := memory.NewSheet()
	sheet.FailOn = "italic"
	err = apply.New().Apply(context.Background(), sheet, e)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "set italic A1")
	assert.Equal(t, []string{"text A1 x", "bold A1 true"}, sheet.Ops())
}

func TestRun_BatchResilience(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))

	var applied, skipped []int
	hooks := domain.LifecycleHooks{
		OnInstructionApplied: func(ctx context.Context, e *domain.InstructionEvent) {
			applied = append(applied, e.Index)
		},
		OnInstructionSkipped: func(ctx context.Context, e *domain.InstructionEvent) {
			skipped = append(skipped, e.Index)
			assert.Error(t, e.Err)
			assert.Equal(t, "s1", e.SessionID)
		},
	}

	sheet := memory.NewSheet()
	a := apply.New(apply.WithLogger(logger), apply.WithLifecycleHooks(hooks), apply.WithSessionID("s1"))
	rep, err := a.Run(context.Background(), sheet, []string{
		"'first'@A1",
		"'orphan'",
		"'second'@A2",
		"'bad'@@@",
		"'third'@A1",
	})
	require.NoError(t, err)

	assert.Equal(t, 3, rep.Applied)
	assert.Equal(t, []apply.Skip{
		{Index: 1, Instruction: "'orphan'", Reason: apply.ReasonMissingAddress},
		{Index: 3, Instruction: "'bad'@@@", Reason: apply.ReasonInvalidAddress},
	}, rep.Skipped)
	assert.Equal(t, []int{0, 2, 4}, applied)
	assert.Equal(t, []int{1, 3}, skipped)

	// Later instructions win on the same cell.
	c, _ := sheet.Cell(1, 1)
	assert.Equal(t, "third", *c.Text)
	assert.Equal(t, []string{"text A1 first", "text A2 second", "text A1 third"}, sheet.Ops())

	assert.Contains(t, logs.String(), "level=WARN")
	assert.Contains(t, logs.String(), "'orphan'")
}

func TestRun_OutOfGridSkipped(t *testing.T) {
	var skipped []error
	hooks := domain.LifecycleHooks{
		OnInstructionSkipped: func(ctx context.Context, e *domain.InstructionEvent) {
			skipped = append(skipped, e.Err)
		},
	}
	maxRow := func(a address.Address) error {
		if a.Row > 100 {
			return errors.New("row limit")
		}
		return nil
	}

	sheet := memory.NewSheet()
	a := apply.New(apply.WithBounds(maxRow), apply.WithLifecycleHooks(hooks))
	rep, err := a.Run(context.Background(), sheet, []string{"'one'@A1", "'far'@A101#B", "'two'@A2"})
	require.NoError(t, err)

	assert.Equal(t, 2, rep.Applied)
	assert.Equal(t, []apply.Skip{{Index: 1, Instruction: "'far'@A101#B", Reason: apply.ReasonOutOfGrid}}, rep.Skipped)
	require.Len(t, skipped, 1)
	assert.ErrorIs(t, skipped[0], domain.ErrOutOfGrid)
	assert.Equal(t, []string{"text A1 one", "text A2 two"}, sheet.Ops())
}

func TestRun_WriteFailureAborts(t *testing.T) {
	sheet := memory.NewSheet()
	sheet.FailOn = "bold"

	rep, err := apply.New().Run(context.Background(), sheet, []string{"'a'@A1", "@A2#B", "'c'@A3"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "instruction 1")
	assert.Equal(t, 1, rep.Applied)
	_, ok := sheet.Cell(3, 1)
	assert.False(t, ok)
}

func TestRun_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	rep, err := apply.New().Run(ctx, memory.NewSheet(), []string{"'a'@A1"})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, rep.Applied)
}
