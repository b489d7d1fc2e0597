package composer

import (
	"context"
	"fmt"
	"strings"

	"github.com/PabloGalante/travelbot/internal/app/tools"
	"github.com/PabloGalante/travelbot/internal/domain"
	"github.com/PabloGalante/travelbot/internal/observability"
)

// DefaultPersonas are the crew members of a travel package composition.
var DefaultPersonas = map[domain.AgentRole]domain.Persona{
	domain.RoleFlightSpecialist: {
		Role: "Expert Recherche de Vols",
		Goal: "Trouver les meilleurs vols réels parmi les offres Amadeus",
		Backstory: "Expert vols avec accès à l'API Amadeus (400+ compagnies). " +
			"Tu compares les offres réelles avec leurs prix actuels.",
	},
	domain.RoleHotelSpecialist: {
		Role: "Conseiller Hébergement Expert",
		Goal: "Trouver des hôtels coordonnés avec les vols",
		Backstory: "Expert hôtellerie mondiale. Tu sélectionnes les hôtels selon " +
			"l'emplacement, la qualité et le prix, en coordination avec les dates des vols.",
	},
	domain.RolePackageCoordinator: {
		Role: "Organisateur de Voyage Expert",
		Goal: "Créer un voyage parfait et coordonné",
		Backstory: "Agent de voyage avec 15 ans d'expérience. Tu coordonnes vol et hôtel " +
			"pour que tout s'enchaîne et tu calcules le prix total.",
	},
}

// Agent is one crew member: a persona speaking through the LLM, with the
// tools its tasks may ask for.
type Agent struct {
	role    domain.AgentRole
	persona domain.Persona
	llm     domain.LLMClient
	tools   tools.Registry
}

func NewAgent(role domain.AgentRole, persona domain.Persona, llm domain.LLMClient, registry tools.Registry) *Agent {
	return &Agent{role: role, persona: persona, llm: llm, tools: registry}
}

func (a *Agent) Name() string {
	return string(a.role)
}

// Run performs the task. priors holds the outputs of the task's context, in order.
func (a *Agent) Run(ctx context.Context, task *domain.Task, priors []string) (string, error) {
	toolResult := a.useTool(ctx, task)

	reply, err := a.llm.GenerateReply(ctx, buildTaskPrompt(task, priors, toolResult), a.persona)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(reply) == "" {
		return "", fmt.Errorf("agent %s returned an empty answer", a.Name())
	}
	return reply, nil
}

// useTool calls the task's tool and returns its summary. Tool failures are
// logged and the agent answers without them.
func (a *Agent) useTool(ctx context.Context, task *domain.Task) string {
	if task.Tool == "" {
		return ""
	}
	log := observability.LoggerFromContext(ctx).With("agent", a.Name(), "tool", task.Tool)

	tool, ok := a.tools[task.Tool]
	if !ok {
		log.Debug("tool not available")
		return ""
	}

	tctx := tools.ToolContext{
		TaskID:    task.ID,
		Role:      string(a.role),
		RequestID: observability.RequestID(ctx),
	}
	out, err := tool.Call(ctx, tctx, task.ToolInput)
	if err != nil {
		log.Warn("tool call failed", "error", err)
		return ""
	}
	log.Info("tool call success")
	return tools.Summary(out)
}

func buildTaskPrompt(task *domain.Task, priors []string, toolResult string) string {
	var b strings.Builder
	b.WriteString(task.Description)
	b.WriteString("\n")

	if task.ExpectedOutput != "" {
		b.WriteString("\nRésultat attendu : ")
		b.WriteString(task.ExpectedOutput)
		b.WriteString("\n")
	}

	if toolResult != "" {
		fmt.Fprintf(&b, "\nRésultat de l'outil %s :\n%s\n", task.Tool, toolResult)
	}

	for i, p := range priors {
		fmt.Fprintf(&b, "\nTravail précédent de l'équipe (%d/%d) :\n%s\n", i+1, len(priors), p)
	}
	return b.String()
}
