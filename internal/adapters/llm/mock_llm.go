package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/PabloGalante/travelbot/internal/domain"
)

// MockLLM answers without calling any model. Used in local mode.
type MockLLM struct{}

func NewMockLLM() *MockLLM {
	return &MockLLM{}
}

func (m *MockLLM) GenerateReply(ctx context.Context, prompt string, persona domain.Persona) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	// first line of the prompt is the task description
	task, _, _ := strings.Cut(strings.TrimSpace(prompt), "\n")
	return fmt.Sprintf("[%s] %s", persona.Role, task), nil
}
