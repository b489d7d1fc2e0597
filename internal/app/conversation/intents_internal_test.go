package conversation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTokenize(t *testing.T) {
	assert.Equal(t, []string{"aller", "retour"}, tokenize("Aller-Retour"))
	assert.Equal(t, []string{"1"}, tokenize("1️⃣"))
	assert.Equal(t, []string{"✅", "oui"}, tokenize("✅OUI!"))
	assert.Equal(t, []string{"28", "01", "30", "01"}, tokenize("28/01 - 30/01"))
	assert.Empty(t, tokenize("  ...  "))
}

func TestGrammarMatch(t *testing.T) {
	assert.Equal(t, IntentRoundTrip, flightTypeGrammar.match(tokenize("round trip")))
	assert.Equal(t, IntentOneWay, flightTypeGrammar.match(tokenize("one way")))
	assert.Equal(t, IntentUnknown, flightTypeGrammar.match(tokenize("1 ou 2")))
	assert.Equal(t, IntentYes, yesNoGrammar.match(tokenize("Oui oui")))
	assert.Equal(t, IntentNo, yesNoGrammar.match(tokenize("❌")))
	assert.Equal(t, IntentAccept, menuGrammar.match(tokenize("je prends")))
	assert.Equal(t, IntentAlternative, menuGrammar.match(tokenize("une autre")))
	assert.Equal(t, IntentUnknown, menuGrammar.match(tokenize("oui ou autre")))
	assert.Equal(t, IntentRestart, restartGrammar.match(tokenize("Nouveau voyage")))
	assert.Equal(t, IntentUnknown, introGrammar.match(tokenize("gogo")))
}

func TestCleanBudget(t *testing.T) {
	assert.Equal(t, "500", cleanBudget("500€"))
	assert.Equal(t, "1 000", cleanBudget("1 000 €"))
	assert.Equal(t, "", cleanBudget(" € "))
}

func TestTitleCase(t *testing.T) {
	assert.Equal(t, "New York", titleCase("  new   YORK "))
	assert.Equal(t, "Fès", titleCase("fès"))
}
