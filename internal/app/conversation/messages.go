package conversation

import (
	"fmt"
	"strings"

	"github.com/PabloGalante/travelbot/internal/domain"
)

const (
	welcomeMessage = "👋 Bienvenue sur TravelBot IA !\n\n" +
		"Je peux t'organiser :\n" +
		"✈️ Vols (aller simple ou retour)\n" +
		"🏨 Hôtels\n" +
		"📦 Packages complets\n\n" +
		"💡 Je compare 400+ compagnies\n" +
		"💡 Photos HD incluses\n" +
		"💡 Meilleurs prix garantis\n\n" +
		"🚀 Tape GO pour commencer !"

	askDestinationMessage = "✈️ C'EST PARTI !\n\n" +
		"📍 Quelle est ta destination ?\n" +
		"Exemple : Paris, New York, Londres, Tokyo..."

	emptyDestinationMessage = "❌ Indique une ville de destination.\nExemple : Paris"
	emptyOriginMessage      = "❌ Indique ta ville de départ.\nExemple : Casablanca"

	flightTypeErrorMessage = "❌ Réponds 1 (aller-retour) ou 2 (aller simple)"

	roundTripSelectedMessage = "✅ Aller-retour sélectionné\n\n" +
		"📅 Dates de voyage ?\n" +
		"Format : JJ/MM - JJ/MM\n" +
		"Exemple : 28/01 - 30/01"

	oneWaySelectedMessage = "✅ Aller simple sélectionné\n\n" +
		"📅 Date de départ ?\n" +
		"Format : JJ/MM\n" +
		"Exemple : 28/01"

	datesErrorMessage = "❌ Format incorrect.\n\n" +
		"Utilise : JJ/MM - JJ/MM\n" +
		"Exemple : 28/01 - 30/01"

	dateErrorMessage = "❌ Format incorrect.\n\n" +
		"Utilise : JJ/MM\n" +
		"Exemple : 28/01"

	hotelQuestion = "🏨 BESOIN D'UN HÔTEL ?\n\n" +
		"✅ OUI - Vol + Hôtel\n" +
		"❌ NON - Juste le vol\n\n" +
		"Réponds : OUI ou NON"

	yesNoErrorMessage = "❌ Réponds OUI ou NON"

	budgetWithHotelMessage = "✅ Vol + Hôtel\n\n" +
		"💰 Quel est ton BUDGET TOTAL (en €) ?\n" +
		"Exemple : 500"

	budgetFlightOnlyMessage = "✅ Juste le vol\n\n" +
		"💰 Quel est ton BUDGET VOL (en €) ?\n" +
		"Exemple : 200"

	budgetErrorMessage = "❌ Budget invalide. Entre un nombre : 500"

	searchStartedMessage      = "🚀 Recherche lancée ! Patiente 2-3 min..."
	searchCancelledMessage    = "❌ Recherche annulée.\n\nTape NOUVEAU pour recommencer"
	alternativeStartedMessage = "🔄 Nouvelle recherche lancée..."

	busyMessage = "😕 Trop de recherches en cours.\n\n" +
		"Réessaie dans quelques minutes."

	restartMessage = "🆕 Nouvelle recherche !\n\n" +
		"🚀 Tape GO pour commencer"

	unknownMessage = "❓ Message non reconnu.\n\n" +
		"Tape NOUVEAU pour recommencer"
)

func destinationSetMessage(destination string) string {
	return fmt.Sprintf("✅ Destination : %s\n\n"+
		"✈️ D'où tu pars ?\n"+
		"Exemple : Casablanca, Fez, Marrakech...", destination)
}

func originSetMessage(origin, destination string) string {
	return fmt.Sprintf("✅ De : %s\n"+
		"✅ À : %s\n\n"+
		"✈️ TYPE DE VOL ?\n\n"+
		"1️⃣ Aller-retour\n"+
		"2️⃣ Aller simple\n\n"+
		"Réponds : 1 ou 2", origin, destination)
}

func datesSetMessage(dates domain.Dates) string {
	var b strings.Builder
	fmt.Fprintf(&b, "✅ Départ : %s\n", dates.Departure())
	if ret, ok := dates.Return(); ok {
		fmt.Fprintf(&b, "✅ Retour : %s\n", ret)
	}
	b.WriteString("\n")
	b.WriteString(hotelQuestion)
	return b.String()
}

func recapMessage(trip domain.Trip) string {
	var b strings.Builder
	b.WriteString("📋 RÉCAPITULATIF\n\n")
	fmt.Fprintf(&b, "📍 %s → %s\n", trip.Origin, trip.Destination)
	fmt.Fprintf(&b, "✈️ %s\n", trip.FlightType.Label())

	if trip.Dates != nil {
		b.WriteString("📅 ")
		b.WriteString(trip.Dates.Departure())
		if ret, ok := trip.Dates.Return(); ok {
			b.WriteString(" - ")
			b.WriteString(ret)
		}
		b.WriteString("\n")
	}

	if trip.WantsHotel {
		b.WriteString("🏨 Avec hôtel\n")
	} else {
		b.WriteString("🏨 Sans hôtel\n")
	}
	fmt.Fprintf(&b, "💰 Budget : %s€\n\n", trip.Budget)
	b.WriteString("✅ Tout est OK ?\n\n")
	b.WriteString("🚀 Tape OUI pour lancer la recherche")
	return b.String()
}

func nextStepsMessage(wantsHotel bool) string {
	var b strings.Builder
	b.WriteString("🎉 SUPER CHOIX !\n\n")
	b.WriteString("📋 PROCHAINES ÉTAPES :\n\n")
	b.WriteString("1️⃣ VOL\n")
	b.WriteString("Cherche sur Google Flights ou Skyscanner\n")
	b.WriteString("avec les infos ci-dessus\n\n")
	if wantsHotel {
		b.WriteString("2️⃣ HÔTEL\n")
		b.WriteString("Cherche sur Booking.com\n\n")
	}
	b.WriteString("✈️ Bon voyage !\n\n")
	b.WriteString("Tape NOUVEAU pour autre destination")
	return b.String()
}
