package guardrails

import (
	"fmt"

	"github.com/illuzioner/chat-relay/internal/provider"
)

// Guardrails checks the shape of inbound conversation messages.
type Guardrails struct {
	required []string
}

func New() *Guardrails {
	return &Guardrails{required: []string{"role", "content"}}
}

// CheckMessage converts one decoded element of the messages array. Each
// element must be an object with string role and content fields; role values
// are not restricted to a known set and extra fields are dropped.
func (g *Guardrails) CheckMessage(index int, v any) (provider.Message, error) {
	fields, ok := v.(map[string]any)
	if !ok {
		return provider.Message{}, fmt.Errorf("Invalid message at index %d: expected an object", index)
	}

	values := make(map[string]string, len(g.required))
	for _, name := range g.required {
		raw, ok := fields[name]
		if !ok {
			return provider.Message{}, fmt.Errorf("Invalid message at index %d: missing '%s'", index, name)
		}
		s, ok := raw.(string)
		if !ok {
			return provider.Message{}, fmt.Errorf("Invalid message at index %d: '%s' must be a string", index, name)
		}
		values[name] = s
	}
	return provider.Message{Role: values["role"], Content: values["content"]}, nil
}
