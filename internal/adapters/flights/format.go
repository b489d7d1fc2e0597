package flights

import (
	"fmt"
	"strings"
)

const maxFormattedOffers = 3

// NoFlightsText is what FormatOffers returns for an empty result.
const NoFlightsText = "❌ Aucun vol trouvé"

// FormatOffers renders up to three offers, outbound leg only.
func FormatOffers(offers []Offer) string {
	if len(offers) == 0 {
		return NoFlightsText
	}

	var b strings.Builder
	b.WriteString("✈️ VOLS TROUVÉS :\n\n")

	n := 0
	for _, offer := range offers {
		if n == maxFormattedOffers {
			break
		}
		if len(offer.Itineraries) == 0 || len(offer.Itineraries[0].Segments) == 0 {
			continue
		}
		n++

		outbound := offer.Itineraries[0]
		segments := outbound.Segments
		dep := segments[0].Departure
		arr := segments[len(segments)-1].Arrival

		fmt.Fprintf(&b, "%d. %s - %s€\n", n, segments[0].CarrierCode, offer.Price.Total)
		fmt.Fprintf(&b, "   %s %s → %s %s\n", dep.IATACode, clock(dep.At), arr.IATACode, clock(arr.At))
		fmt.Fprintf(&b, "   Durée: %s | Escales: %d\n\n", humanDuration(outbound.Duration), len(segments)-1)
	}

	if n == 0 {
		return NoFlightsText
	}
	return b.String()
}

// clock turns "2026-01-28T10:15:00" into "10:15".
func clock(at string) string {
	_, t, ok := strings.Cut(at, "T")
	if !ok {
		return at
	}
	if len(t) > 5 {
		t = t[:5]
	}
	return t
}

// humanDuration turns an ISO-8601 duration like "PT2H35M" into "2h35min".
func humanDuration(d string) string {
	d = strings.TrimPrefix(d, "PT")
	d = strings.Replace(d, "H", "h", 1)
	d = strings.Replace(d, "M", "min", 1)
	return d
}
