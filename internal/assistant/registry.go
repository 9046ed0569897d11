package assistant

import (
	"context"
	"fmt"
)

// Args holds decoded tool-call arguments. Malformed argument JSON decodes to
// an empty Args, never an error.
type Args map[string]any

// String returns a string argument, or "" when absent or mistyped.
func (a Args) String(key string) string {
	if v, ok := a[key].(string); ok {
		return v
	}
	return ""
}

// Int returns a numeric argument, or fallback when absent or mistyped.
// JSON numbers decode as float64.
func (a Args) Int(key string, fallback int) int {
	switch v := a[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	default:
		return fallback
	}
}

// Handler executes one tool call.
type Handler func(ctx context.Context, args Args) (any, error)

// Registry maps every declared tool name to its handler. Dispatch is a map
// lookup; the catalog and the handler set are checked against each other at
// construction so they cannot drift.
type Registry struct {
	handlers map[string]Handler
}

func NewRegistry(handlers map[string]Handler) (*Registry, error) {
	declared := make(map[string]bool, len(ToolDefinitions))
	for _, def := range ToolDefinitions {
		name := def.Function.Name
		if declared[name] {
			return nil, fmt.Errorf("tool %q declared twice in catalog", name)
		}
		declared[name] = true
		if handlers[name] == nil {
			return nil, fmt.Errorf("tool %q has no handler", name)
		}
	}
	for name := range handlers {
		if !declared[name] {
			return nil, fmt.Errorf("handler %q has no catalog entry", name)
		}
	}
	return &Registry{handlers: handlers}, nil
}

// Lookup finds the handler for a tool name.
func (r *Registry) Lookup(name string) (Handler, bool) {
	h, ok := r.handlers[name]
	return h, ok
}
