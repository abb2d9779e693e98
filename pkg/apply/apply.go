package apply

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aretw0/excelauto/internal/logging"
	"github.com/aretw0/excelauto/pkg/address"
	"github.com/aretw0/excelauto/pkg/domain"
	"github.com/aretw0/excelauto/pkg/instruction"
	"github.com/aretw0/excelauto/pkg/ports"
)

// Skip records an instruction that was not applied.
type Skip struct {
	Index       int    `json:"index"`
	Instruction string `json:"instruction"`
	Reason      string `json:"reason"`
}

// Report summarizes a batch.
type Report struct {
	Applied int    `json:"applied"`
	Skipped []Skip `json:"skipped,omitempty"`
}

// Applier maps instruction edits onto cell writes.
type Applier struct {
	logger    *slog.Logger
	hooks     domain.LifecycleHooks
	sessionID string
	bounds    func(address.Address) error
}

// Option configures the Applier.
type Option func(*Applier)

// WithLogger configures the structured logger used for skip warnings.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Applier) {
		a.logger = logger
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(a *Applier) {
		a.hooks = hooks
	}
}

// WithSessionID tags emitted events with the caller's session.
func WithSessionID(id string) Option {
	return func(a *Applier) {
		a.sessionID = id
	}
}

// WithBounds installs a check run on every decoded address before any
// write. Instructions it rejects are skipped as out of grid.
func WithBounds(check func(address.Address) error) Option {
	return func(a *Applier) {
		a.bounds = check
	}
}

// New creates an Applier.
func New(opts ...Option) *Applier {
	a := &Applier{logger: logging.NewNop()}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Apply writes one edit. The first failing write aborts the edit; writes
// already made are not rolled back.
func (a *Applier) Apply(ctx context.Context, w ports.CellWriter, e instruction.Edit) error {
	if !e.Address.Valid() {
		return fmt.Errorf("apply: %w", instruction.ErrInvalidAddress)
	}
	row, col := e.Address.Row, e.Address.Col

	if e.Content != nil {
		if err := w.SetCellText(row, col, *e.Content); err != nil {
			return fmt.Errorf("set text %s: %w", e.Ref(), err)
		}
	}

	if e.Style.Align != instruction.AlignUnset {
		if err := w.SetCellAlignment(row, col, e.Style.Align.String(), ""); err != nil {
			return fmt.Errorf("set alignment %s: %w", e.Ref(), err)
		}
	}

	toggles := []struct {
		name string
		t    instruction.Toggle
		set  func(row, col uint32, on bool) error
	}{
		{"bold", e.Style.Bold, w.SetCellBold},
		{"italic", e.Style.Italic, w.SetCellItalic},
		{"underline", e.Style.Underline, w.SetCellUnderline},
	}
	for _, tg := range toggles {
		on, ok := tg.t.Bool()
		if !ok {
			continue
		}
		if err := tg.set(row, col, on); err != nil {
			return fmt.Errorf("set %s %s: %w", tg.name, e.Ref(), err)
		}
	}

	if c := e.Foreground; c != nil {
		if err := w.SetCellFontColor(row, col, c.R, c.G, c.B); err != nil {
			return fmt.Errorf("set font color %s: %w", e.Ref(), err)
		}
	}
	if c := e.Background; c != nil {
		if err := w.SetCellBackgroundColor(row, col, c.R, c.G, c.B); err != nil {
			return fmt.Errorf("set background color %s: %w", e.Ref(), err)
		}
	}
	return nil
}

// Run parses and applies a batch in order. Instructions that fail to parse
// or fall outside the bounds check are logged and skipped; a failing write
// aborts the batch and is returned together with the report of what was
// done so far.
func (a *Applier) Run(ctx context.Context, w ports.CellWriter, instructions []string) (Report, error) {
	var rep Report
	for i, s := range instructions {
		if err := ctx.Err(); err != nil {
			return rep, err
		}

		e, err := instruction.Parse(s)
		if err == nil {
			err = a.checkBounds(e)
		}
		if err != nil {
			a.logger.Warn("skipping cell instruction", "index", i, "instruction", s, "error", err)
			rep.Skipped = append(rep.Skipped, Skip{Index: i, Instruction: s, Reason: Reason(err)})
			a.emit(ctx, a.hooks.OnInstructionSkipped, domain.EventInstructionSkipped, i, s, "", err)
			continue
		}

		a.logger.Debug("applying cell instruction", "index", i, "cell", e.Ref(), "instruction", s)
		if err := a.Apply(ctx, w, e); err != nil {
			return rep, fmt.Errorf("instruction %d: %w", i, err)
		}
		rep.Applied++
		a.emit(ctx, a.hooks.OnInstructionApplied, domain.EventInstructionApplied, i, s, e.Ref(), nil)
	}
	return rep, nil
}

func (a *Applier) checkBounds(e instruction.Edit) error {
	if a.bounds == nil {
		return nil
	}
	if err := a.bounds(e.Address); err != nil {
		return fmt.Errorf("%w: %s: %v", domain.ErrOutOfGrid, e.Ref(), err)
	}
	return nil
}

func (a *Applier) emit(ctx context.Context, hook func(context.Context, *domain.InstructionEvent), typ domain.EventType, i int, s, cell string, err error) {
	if hook == nil {
		return
	}
	hook(ctx, &domain.InstructionEvent{
		EventBase: domain.EventBase{
			Timestamp: time.Now(),
			Type:      typ,
			SessionID: a.sessionID,
		},
		Index:       i,
		Instruction: s,
		Cell:        cell,
		Err:         err,
	})
}

// Skip reasons reported for rejected instructions.
const (
	ReasonMissingAddress = "missing_address"
	ReasonInvalidAddress = "invalid_address"
	ReasonOutOfGrid      = "out_of_grid"
	ReasonNotAString     = "not_a_string"
)

// Reason classifies a skip error as one of the Reason constants.
// Unknown errors report their message.
func Reason(err error) string {
	switch {
	case errors.Is(err, instruction.ErrMissingAddress):
		return ReasonMissingAddress
	case errors.Is(err, instruction.ErrInvalidAddress):
		return ReasonInvalidAddress
	case errors.Is(err, domain.ErrOutOfGrid):
		return ReasonOutOfGrid
	default:
		return err.Error()
	}
}
