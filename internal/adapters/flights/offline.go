package flights

import (
	"context"
	"fmt"

	"github.com/PabloGalante/travelbot/internal/domain"
)

// OfflineSearcher returns fixed sample offers. Used in local mode when no
// Amadeus credentials are configured.
type OfflineSearcher struct{}

func NewOfflineSearcher() *OfflineSearcher {
	return &OfflineSearcher{}
}

func (OfflineSearcher) Authenticate(ctx context.Context) error {
	return ctx.Err()
}

func (OfflineSearcher) SearchFlights(ctx context.Context, q domain.FlightQuery) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	offers := []Offer{sampleOffer(q, "AT", "189.00", "PT2H55M"), sampleOffer(q, "AF", "243.50", "PT3H05M")}
	return FormatOffers(offers), nil
}

func sampleOffer(q domain.FlightQuery, carrier, price, duration string) Offer {
	var o Offer
	o.Price.Total = price
	o.Price.Currency = defaultCurrency
	o.Itineraries = []Itinerary{{
		Duration: duration,
		Segments: []Segment{{
			Departure:   Endpoint{IATACode: q.Origin, At: fmt.Sprintf("%sT08:30:00", q.Departure)},
			Arrival:     Endpoint{IATACode: q.Destination, At: fmt.Sprintf("%sT11:25:00", q.Departure)},
			CarrierCode: carrier,
		}},
	}}
	return o
}
