package observability

import (
	"context"
	"log/slog"

	"github.com/aretw0/excelauto/pkg/domain"
)

// Compose merges hook sets; each event is delivered to every set in order.
func Compose(sets ...domain.LifecycleHooks) domain.LifecycleHooks {
	var out domain.LifecycleHooks
	for _, h := range sets {
		out.OnInstructionApplied = chain(out.OnInstructionApplied, h.OnInstructionApplied)
		out.OnInstructionSkipped = chain(out.OnInstructionSkipped, h.OnInstructionSkipped)
		out.OnToolCall = chain(out.OnToolCall, h.OnToolCall)
		out.OnToolReturn = chain(out.OnToolReturn, h.OnToolReturn)
	}
	return out
}

func chain[E any](a, b func(context.Context, E)) func(context.Context, E) {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	}
	return func(ctx context.Context, e E) {
		a(ctx, e)
		b(ctx, e)
	}
}

// LogHooks logs tool calls at debug level and tool failures at warn level.
func LogHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnToolCall: func(ctx context.Context, e *domain.ToolEvent) {
			logger.DebugContext(ctx, "tool_call", "tool_name", e.ToolName, "session_id", e.SessionID)
		},
		OnToolReturn: func(ctx context.Context, e *domain.ToolEvent) {
			level := slog.LevelDebug
			if e.IsError {
				level = slog.LevelWarn
			}
			logger.Log(ctx, level, "tool_return",
				"tool_name", e.ToolName,
				"session_id", e.SessionID,
				"duration", e.Duration,
				"is_error", e.IsError,
			)
		},
	}
}
