package observability

import (
	"context"
	"errors"

	"github.com/aretw0/excelauto/pkg/domain"
	"github.com/aretw0/excelauto/pkg/instruction"
	"github.com/prometheus/client_golang/prometheus"
)

// Instruction outcomes used as the "outcome" label.
const (
	OutcomeApplied        = "applied"
	OutcomeMissingAddress = "missing_address"
	OutcomeInvalidAddress = "invalid_address"
	OutcomeOutOfGrid      = "out_of_grid"
	OutcomeRejected       = "rejected"
)

// Metrics holds the service collectors.
type Metrics struct {
	Instructions *prometheus.CounterVec
	ToolCalls    *prometheus.CounterVec
	ToolDuration *prometheus.HistogramVec
}

// NewMetrics creates the collectors and registers them on reg.
// A nil reg leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		Instructions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "excelauto_instructions_total",
				Help: "Cell instructions processed, by outcome",
			},
			[]string{"outcome"},
		),
		ToolCalls: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "excelauto_tool_calls_total",
				Help: "Tool invocations, by tool and status",
			},
			[]string{"tool", "status"},
		),
		ToolDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "excelauto_tool_duration_seconds",
				Help:    "Duration of tool executions",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"tool"},
		),
	}
	if reg == nil {
		return m, nil
	}
	for _, c := range []prometheus.Collector{m.Instructions, m.ToolCalls, m.ToolDuration} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Hooks returns lifecycle hooks that record into m.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnInstructionApplied: func(ctx context.Context, e *domain.InstructionEvent) {
			m.Instructions.WithLabelValues(OutcomeApplied).Inc()
		},
		OnInstructionSkipped: func(ctx context.Context, e *domain.InstructionEvent) {
			m.Instructions.WithLabelValues(Outcome(e.Err)).Inc()
		},
		OnToolReturn: func(ctx context.Context, e *domain.ToolEvent) {
			status := "ok"
			if e.IsError {
				status = "error"
			}
			m.ToolCalls.WithLabelValues(e.ToolName, status).Inc()
			m.ToolDuration.WithLabelValues(e.ToolName).Observe(e.Duration.Seconds())
		},
	}
}

// Outcome classifies a skipped instruction's error.
func Outcome(err error) string {
	switch {
	case err == nil:
		return OutcomeApplied
	case errors.Is(err, instruction.ErrMissingAddress):
		return OutcomeMissingAddress
	case errors.Is(err, instruction.ErrInvalidAddress):
		return OutcomeInvalidAddress
	case errors.Is(err, domain.ErrOutOfGrid):
		return OutcomeOutOfGrid
	}
	return OutcomeRejected
}
