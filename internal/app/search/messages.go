package search

import (
	"fmt"
	"unicode/utf8"
)

const (
	FailureMessage = "❌ Erreur lors de la recherche.\n\nTape NOUVEAU pour réessayer"

	MenuMessage = "💬 QUE VEUX-TU FAIRE ?\n\n" +
		"✅ OUI - Je prends ce package\n" +
		"🔄 AUTRE - Montre autre chose\n" +
		"🆕 NOUVEAU - Autre destination"

	ResultHeader = "✅ PACKAGE TROUVÉ !"
)

func acknowledgmentMessage(wantsHotel bool) string {
	hotel := "pas d'hôtel"
	if wantsHotel {
		hotel = "les meilleurs hôtels"
	}
	return "⚙️ RECHERCHE EN COURS\n\n" +
		"✈️ Je compare 400+ compagnies aériennes\n" +
		"🏨 Je cherche " + hotel + "\n" +
		"💰 J'optimise ton budget\n\n" +
		"⏳ Patiente 2-3 minutes...\n" +
		"Je te préviens dès que c'est prêt !"
}

func resultMessage(result string, maxRunes int) string {
	return ResultHeader + "\n\n" + truncateRunes(result, maxRunes) + "\n\n📸 Photos en envoi..."
}

func photoCaption(i, n int, city string) string {
	return fmt.Sprintf("📸 Photo %d/%d - %s", i, n, city)
}

// truncateRunes cuts s to at most n runes, never inside a multi-byte character.
func truncateRunes(s string, n int) string {
	if n <= 0 || utf8.RuneCountInString(s) <= n {
		return s
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}
