package excelauto

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aretw0/excelauto/internal/logging"
	"github.com/aretw0/excelauto/pkg/adapters/excel"
	"github.com/aretw0/excelauto/pkg/adapters/memory"
	"github.com/aretw0/excelauto/pkg/address"
	"github.com/aretw0/excelauto/pkg/apply"
	"github.com/aretw0/excelauto/pkg/domain"
	"github.com/aretw0/excelauto/pkg/observability"
	"github.com/aretw0/excelauto/pkg/ports"
	"github.com/aretw0/excelauto/pkg/session"
)

// DefaultMaxInstructions caps a SetCells batch.
const DefaultMaxInstructions = 10000

// Service is the workbook automation entry point shared by the MCP, HTTP
// and CLI surfaces.
type Service struct {
	sessions        *session.Manager
	store           ports.SessionStore
	locker          ports.Locker
	logger          *slog.Logger
	hooks           domain.LifecycleHooks
	maxInstructions int
}

// Option defines a functional option for configuring the Service.
type Option func(*Service)

// WithStore sets where session state lives (default: in memory).
func WithStore(store ports.SessionStore) Option {
	return func(s *Service) {
		s.store = store
	}
}

// WithLocker adds a distributed workbook lock, for replicas sharing files.
func WithLocker(locker ports.Locker) Option {
	return func(s *Service) {
		s.locker = locker
	}
}

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithLifecycleHooks registers observability hooks. Repeated calls add hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(s *Service) {
		s.hooks = observability.Compose(s.hooks, hooks)
	}
}

// WithMetrics records instruction and tool metrics.
func WithMetrics(m *observability.Metrics) Option {
	return WithLifecycleHooks(m.Hooks())
}

// WithMaxInstructions overrides DefaultMaxInstructions.
func WithMaxInstructions(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxInstructions = n
		}
	}
}

// New creates a Service.
func New(opts ...Option) *Service {
	s := &Service{
		logger:          logging.NewNop(),
		maxInstructions: DefaultMaxInstructions,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.store == nil {
		s.store = memory.NewStore()
	}
	mopts := []session.Option{session.WithLogger(s.logger)}
	if s.locker != nil {
		mopts = append(mopts, session.WithLocker(s.locker))
	}
	s.sessions = session.NewManager(s.store, mopts...)
	return s
}

// Sessions exposes the session manager.
func (s *Service) Sessions() *session.Manager {
	return s.sessions
}

// Logger returns the service logger.
func (s *Service) Logger() *slog.Logger {
	return s.logger
}

// OpenWorkbook opens path, makes it the session's workbook and lists its sheets.
func (s *Service) OpenWorkbook(ctx context.Context, sessionID, path string) ([]string, error) {
	var sheets []string
	err := s.sessions.WithWorkbookLock(ctx, path, func(ctx context.Context) error {
		wb, err := excel.Open(path)
		if err != nil {
			return err
		}
		defer wb.Close()
		sheets = wb.Sheets()
		return nil
	})
	if err != nil {
		return nil, err
	}
	if _, err := s.sessions.Select(ctx, sessionID, path); err != nil {
		return nil, err
	}
	s.logger.Info("opened workbook", "session_id", sessionID, "path", path, "sheets", len(sheets))
	return sheets, nil
}

// CreateWorkbook creates an empty workbook at path and makes it the session's workbook.
func (s *Service) CreateWorkbook(ctx context.Context, sessionID, path string) error {
	err := s.sessions.WithWorkbookLock(ctx, path, func(ctx context.Context) error {
		return excel.Create(path)
	})
	if err != nil {
		return err
	}
	if _, err := s.sessions.Select(ctx, sessionID, path); err != nil {
		return err
	}
	s.logger.Info("created workbook", "session_id", sessionID, "path", path)
	return nil
}

// RangeQuery selects cells to read.
type RangeQuery struct {
	Sheet string `json:"sheet_name" mapstructure:"sheet_name"`
	domain.Range `mapstructure:",squash"`
	// WithCoord returns non-empty cells as "content@A1" strings instead of a matrix.
	WithCoord bool `json:"cell_with_coord" mapstructure:"cell_with_coord"`
}

// RangeResult holds either Values (a row-major matrix, nil for empty
// cells) or Cells (when the query set WithCoord).
type RangeResult struct {
	Values [][]any  `json:"values,omitempty"`
	Cells  []string `json:"cells,omitempty"`
	Range  string   `json:"range"`
}

// GetRange reads the cells selected by q from the session's workbook.
func (s *Service) GetRange(ctx context.Context, sessionID string, q RangeQuery) (RangeResult, error) {
	if err := excel.CheckBounds(q.Range); err != nil {
		return RangeResult{}, err
	}

	res := RangeResult{Range: q.Range.String()}
	err := s.withSheet(ctx, sessionID, q.Sheet, false, func(ctx context.Context, sh *excel.Sheet) error {
		if q.WithCoord {
			res.Cells = []string{}
		}
		for row := q.FirstRow; row <= q.LastRow; row++ {
			var line []any
			if !q.WithCoord {
				line = make([]any, 0, q.Cols())
			}
			for col := q.FirstCol; col <= q.LastCol; col++ {
				v, err := sh.Value(row, col)
				if err != nil {
					return err
				}
				if q.WithCoord {
					if v != nil {
						res.Cells = append(res.Cells, fmt.Sprint(v)+"@"+address.MustEncode(row, col))
					}
					continue
				}
				line = append(line, v)
			}
			if !q.WithCoord {
				res.Values = append(res.Values, line)
			}
		}
		return nil
	})
	if err != nil {
		return RangeResult{}, err
	}
	s.logger.Info("read range", "session_id", sessionID, "sheet", q.Sheet, "range", res.Range)
	return res, nil
}

// SetRange writes values row by row starting at (firstRow, firstCol). A nil
// value clears the cell. Nothing is saved when any value is rejected.
func (s *Service) SetRange(ctx context.Context, sessionID, sheet string, firstRow, firstCol uint32, values [][]any) error {
	r, err := valuesRange(firstRow, firstCol, values)
	if err != nil {
		return err
	}
	if err := excel.CheckBounds(r); err != nil {
		return err
	}

	err = s.withSheet(ctx, sessionID, sheet, true, func(ctx context.Context, sh *excel.Sheet) error {
		for i, line := range values {
			for j, v := range line {
				if err := sh.SetValue(firstRow+uint32(i), firstCol+uint32(j), v); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.logger.Info("wrote range", "session_id", sessionID, "sheet", sheet, "range", r.String())
	return nil
}

// valuesRange is the rectangle covered by a ragged matrix placed at (row, col).
func valuesRange(row, col uint32, values [][]any) (domain.Range, error) {
	width := 0
	for _, line := range values {
		width = max(width, len(line))
	}
	if len(values) == 0 || width == 0 {
		return domain.Range{}, fmt.Errorf("%w: no values", domain.ErrInvalidRange)
	}
	r := domain.Range{
		FirstRow: row,
		FirstCol: col,
		LastRow:  row + uint32(len(values)) - 1,
		LastCol:  col + uint32(width) - 1,
	}
	if r.LastRow < row || r.LastCol < col {
		return domain.Range{}, fmt.Errorf("%w: values overflow the grid", domain.ErrInvalidRange)
	}
	return r, nil
}

// SetCells applies cell instructions to sheet and saves the workbook.
// Instructions without a usable address, or addressing a cell outside the
// worksheet grid, are skipped and listed in the report. A failing write
// aborts the batch and leaves the file unchanged.
func (s *Service) SetCells(ctx context.Context, sessionID, sheet string, instructions []string) (apply.Report, error) {
	if len(instructions) > s.maxInstructions {
		return apply.Report{}, fmt.Errorf("%w: %d > %d", domain.ErrBatchTooLarge, len(instructions), s.maxInstructions)
	}

	applier := apply.New(
		apply.WithLogger(s.logger),
		apply.WithLifecycleHooks(s.hooks),
		apply.WithSessionID(sessionID),
		apply.WithBounds(cellBounds),
	)

	var rep apply.Report
	err := s.withSheet(ctx, sessionID, sheet, true, func(ctx context.Context, sh *excel.Sheet) error {
		var err error
		rep, err = applier.Run(ctx, sh, instructions)
		return err
	})
	if err != nil {
		return rep, err
	}
	s.logger.Info("applied cell instructions",
		"session_id", sessionID,
		"sheet", sheet,
		"applied", rep.Applied,
		"skipped", len(rep.Skipped),
	)
	return rep, nil
}

func cellBounds(a address.Address) error {
	return excel.CheckBounds(domain.Range{FirstRow: a.Row, FirstCol: a.Col, LastRow: a.Row, LastCol: a.Col})
}

// withSheet opens the session's workbook under its lock, runs fn on the
// sheet and saves when save is set and fn succeeded.
func (s *Service) withSheet(ctx context.Context, sessionID, sheet string, save bool, fn func(context.Context, *excel.Sheet) error) error {
	return s.sessions.WithSessionWorkbook(ctx, sessionID, func(ctx context.Context, path string) error {
		wb, err := excel.Open(path)
		if err != nil {
			return err
		}
		defer wb.Close()

		sh, err := wb.Sheet(sheet)
		if err != nil {
			return err
		}
		if err := fn(ctx, sh); err != nil {
			return err
		}
		if save {
			return wb.Save()
		}
		return nil
	})
}

// Track reports a tool invocation through the lifecycle hooks.
func (s *Service) Track(ctx context.Context, tool, sessionID string, fn func(context.Context) error) error {
	base := domain.EventBase{Timestamp: time.Now(), Type: domain.EventToolCall, SessionID: sessionID}
	if s.hooks.OnToolCall != nil {
		s.hooks.OnToolCall(ctx, &domain.ToolEvent{EventBase: base, ToolName: tool})
	}

	start := time.Now()
	err := fn(ctx)

	if s.hooks.OnToolReturn != nil {
		base.Timestamp = time.Now()
		base.Type = domain.EventToolReturn
		s.hooks.OnToolReturn(ctx, &domain.ToolEvent{
			EventBase: base,
			ToolName:  tool,
			Duration:  time.Since(start),
			IsError:   err != nil,
		})
	}
	return err
}
