package tools

import (
	"context"
)

// ToolContext brings metadata of the call to the tool
type ToolContext struct {
	TaskID    string
	Role      string
	RequestID string
}

// Tool represents a tool agents can invoke
// input/output is a generic map to maintain flexibility.
type Tool interface {
	Name() string
	Call(ctx context.Context, tctx ToolContext, input map[string]any) (map[string]any, error)
}

// Registry indexes tools by name.
type Registry map[string]Tool

func NewRegistry(toolset ...Tool) Registry {
	r := make(Registry, len(toolset))
	for _, t := range toolset {
		if t != nil {
			r[t.Name()] = t
		}
	}
	return r
}

// Summary returns the text an agent should read from a tool output.
func Summary(out map[string]any) string {
	return getString(out, "summary")
}

// --- internal helpers --- //

func getString(m map[string]any, key string) string {
	if m == nil {
		return ""
	}
	if v, ok := m[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// getInt accepts ints and JSON numbers.
func getInt(m map[string]any, key string, def int) int {
	switch v := m[key].(type) {
	case int:
		return v
	case float64:
		return int(v)
	default:
		return def
	}
}
