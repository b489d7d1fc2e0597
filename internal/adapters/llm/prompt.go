package llm

import (
	"strings"

	"github.com/PabloGalante/travelbot/internal/domain"
)

const baseSystemPrompt = `
You are part of "TravelBot", a team of travel agents preparing a trip for a traveller who talks to
you over WhatsApp.

General style guidelines:
- Answer in French, the traveller's language.
- Be concise: the answer is read on a phone. Short lines, bullet points, no tables.
- Use plain text only. No Markdown headings, no HTML.
- Always give prices in euros.
- Use only the facts you are given (flight offers, previous answers). Never invent flight numbers or
  prices that are not in the input; when you estimate something, say it is an estimate.

Boundaries:
- You do not book or pay anything. You prepare a proposal the traveller books by themselves.
`

// BuildSystemPrompt combines the shared instructions with the persona.
func BuildSystemPrompt(p domain.Persona) string {
	var b strings.Builder
	b.WriteString(baseSystemPrompt)

	if p.Role != "" {
		b.WriteString("\nYour role: ")
		b.WriteString(p.Role)
		b.WriteString("\n")
	}
	if p.Goal != "" {
		b.WriteString("Your goal: ")
		b.WriteString(p.Goal)
		b.WriteString("\n")
	}
	if p.Backstory != "" {
		b.WriteString("Background: ")
		b.WriteString(p.Backstory)
		b.WriteString("\n")
	}
	return b.String()
}
