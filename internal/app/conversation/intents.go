package conversation

import (
	"strings"
	"unicode"
)

// Intent is what a user message means at a given step.
type Intent int

const (
	IntentUnknown Intent = iota
	IntentStart
	IntentRestart
	IntentRoundTrip
	IntentOneWay
	IntentYes
	IntentNo
	IntentAccept
	IntentAlternative
)

// grammar maps tokens to intents for one step.
type grammar map[string]Intent

var (
	restartGrammar = grammar{
		"nouveau":     IntentRestart,
		"restart":     IntentRestart,
		"recommencer": IntentRestart,
		"reset":       IntentRestart,
	}
	introGrammar = grammar{
		"go":        IntentStart,
		"start":     IntentStart,
		"commencer": IntentStart,
	}
	flightTypeGrammar = grammar{
		"1":      IntentRoundTrip,
		"retour": IntentRoundTrip,
		"round":  IntentRoundTrip,
		"2":      IntentOneWay,
		"simple": IntentOneWay,
		"one":    IntentOneWay,
	}
	yesNoGrammar = grammar{
		"oui": IntentYes,
		"yes": IntentYes,
		"✅":   IntentYes,
		"non": IntentNo,
		"no":  IntentNo,
		"❌":   IntentNo,
	}
	menuGrammar = grammar{
		"oui":         IntentAccept,
		"prends":      IntentAccept,
		"accept":      IntentAccept,
		"autre":       IntentAlternative,
		"alternative": IntentAlternative,
	}
)

// match returns the single intent the tokens point to. Tokens pointing to
// two different intents are ambiguous and yield IntentUnknown.
func (g grammar) match(tokens []string) Intent {
	found := IntentUnknown
	for _, tok := range tokens {
		in, ok := g[tok]
		if !ok {
			continue
		}
		if found != IntentUnknown && found != in {
			return IntentUnknown
		}
		found = in
	}
	return found
}

// symbolTokens are emoji that carry meaning on their own.
var symbolTokens = map[rune]bool{'✅': true, '❌': true}

// tokenize lower-cases text and splits it into runs of letters and digits.
// Meaningful emoji become tokens of their own; everything else separates.
func tokenize(text string) []string {
	var (
		tokens []string
		cur    strings.Builder
	)
	flush := func() {
		if cur.Len() > 0 {
			tokens = append(tokens, cur.String())
			cur.Reset()
		}
	}

	for _, r := range strings.ToLower(text) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			cur.WriteRune(r)
		case symbolTokens[r]:
			flush()
			tokens = append(tokens, string(r))
		default:
			flush()
		}
	}
	flush()
	return tokens
}
