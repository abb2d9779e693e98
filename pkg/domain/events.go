package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventInstructionApplied EventType = "instruction_applied"
	EventInstructionSkipped EventType = "instruction_skipped"
	EventToolCall           EventType = "tool_call"
	EventToolReturn         EventType = "tool_return"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	SessionID string    `json:"session_id,omitempty"`
}

// InstructionEvent reports the outcome of one cell instruction.
type InstructionEvent struct {
	EventBase
	Index       int    `json:"index"`
	Instruction string `json:"instruction"`
	// Cell is the A1 reference of the target, empty when the address was rejected.
	Cell string `json:"cell,omitempty"`
	Err  error  `json:"-"`
}

// ToolEvent represents a tool execution on one of the service surfaces (MCP, HTTP, CLI).
type ToolEvent struct {
	EventBase
	ToolName string        `json:"tool_name"`
	Duration time.Duration `json:"duration,omitempty"`
	IsError  bool          `json:"is_error,omitempty"`
}

// LifecycleHooks defines callbacks for observability.
type LifecycleHooks struct {
	OnInstructionApplied func(context.Context, *InstructionEvent)
	OnInstructionSkipped func(context.Context, *InstructionEvent)
	OnToolCall           func(context.Context, *ToolEvent)
	OnToolReturn         func(context.Context, *ToolEvent)
}
