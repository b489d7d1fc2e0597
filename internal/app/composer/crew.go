package composer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/PabloGalante/travelbot/internal/app/tools"
	"github.com/PabloGalante/travelbot/internal/domain"
	"github.com/PabloGalante/travelbot/internal/observability"
)

var ErrInvalidPlan = errors.New("invalid composition plan")

// Crew runs composition tasks sequentially, each with the agent of its role.
type Crew struct {
	agents map[domain.AgentRole]*Agent
}

// NewCrew builds a crew with DefaultPersonas. Every agent may use toolset.
func NewCrew(llm domain.LLMClient, toolset ...tools.Tool) *Crew {
	return NewCrewWithPersonas(llm, DefaultPersonas, toolset...)
}

func NewCrewWithPersonas(llm domain.LLMClient, personas map[domain.AgentRole]domain.Persona, toolset ...tools.Tool) *Crew {
	registry := tools.NewRegistry(toolset...)
	agents := make(map[domain.AgentRole]*Agent, len(personas))
	for role, p := range personas {
		agents[role] = NewAgent(role, p, llm, registry)
	}
	return &Crew{agents: agents}
}

// Compose implements domain.Composer. It returns the output of the last task.
func (c *Crew) Compose(ctx context.Context, tasks []*domain.Task) (string, error) {
	if err := c.validate(tasks); err != nil {
		return "", err
	}

	log := observability.LoggerFromContext(ctx)
	log.Info("composition started", "tasks_count", len(tasks))

	outputs := make(map[*domain.Task]string, len(tasks))
	var last string

	for _, task := range tasks {
		ag := c.agents[task.Role]

		priors := make([]string, 0, len(task.Context))
		for _, dep := range task.Context {
			priors = append(priors, outputs[dep])
		}

		start := time.Now()
		log.Info("agent run start", "agent", ag.Name(), "task", task.ID)

		out, err := ag.Run(ctx, task, priors)
		if err != nil {
			log.Error("agent failed", "agent", ag.Name(), "task", task.ID, "error", err)
			return "", fmt.Errorf("agent %s failed on task %s: %w", ag.Name(), task.ID, err)
		}

		log.Info("agent run end", "agent", ag.Name(), "task", task.ID, "elapsed_ms", time.Since(start).Milliseconds())

		outputs[task] = out
		last = out
	}

	log.Info("composition end")
	return last, nil
}

// validate checks roles and that every context task runs earlier.
func (c *Crew) validate(tasks []*domain.Task) error {
	if len(tasks) == 0 {
		return fmt.Errorf("%w: no tasks", ErrInvalidPlan)
	}

	seen := make(map[*domain.Task]bool, len(tasks))
	for i, task := range tasks {
		if task == nil {
			return fmt.Errorf("%w: task %d is nil", ErrInvalidPlan, i)
		}
		if _, ok := c.agents[task.Role]; !ok {
			return fmt.Errorf("%w: no agent for role %q", ErrInvalidPlan, task.Role)
		}
		for _, dep := range task.Context {
			if !seen[dep] {
				return fmt.Errorf("%w: task %s depends on a task that does not run before it", ErrInvalidPlan, task.ID)
			}
		}
		seen[task] = true
	}
	return nil
}
