package flights

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/PabloGalante/travelbot/internal/domain"
)

const (
	tokenPath  = "/v1/security/oauth2/token"
	offersPath = "/v2/shopping/flight-offers"

	defaultCurrency = "EUR"
	maxErrorBody    = 4 << 10
)

type AmadeusConfig struct {
	ClientID     string
	ClientSecret string
	BaseURL      string // e.g. https://test.api.amadeus.com
	Currency     string
	// HTTPClient is used for both the token and the search calls.
	HTTPClient *http.Client
}

// AmadeusClient implements domain.FlightSearcher with the Flight Offers
// Search API. Tokens are cached and refreshed by the oauth2 token source.
type AmadeusClient struct {
	baseURL  string
	currency string
	tokens   oauth2.TokenSource
	client   *http.Client
}

func NewAmadeusClient(cfg AmadeusConfig) *AmadeusClient {
	base := cfg.HTTPClient
	if base == nil {
		base = &http.Client{Timeout: 30 * time.Second}
	}
	currency := cfg.Currency
	if currency == "" {
		currency = defaultCurrency
	}
	baseURL := strings.TrimRight(cfg.BaseURL, "/")

	cc := &clientcredentials.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		TokenURL:     baseURL + tokenPath,
		AuthStyle:    oauth2.AuthStyleInParams,
	}

	// The token source outlives any single request, so it gets its own context.
	tokenCtx := context.WithValue(context.Background(), oauth2.HTTPClient, base)
	tokens := cc.TokenSource(tokenCtx)

	return &AmadeusClient{
		baseURL:  baseURL,
		currency: currency,
		tokens:   tokens,
		client: &http.Client{
			Timeout: base.Timeout,
			Transport: &oauth2.Transport{
				Source: tokens,
				Base:   base.Transport,
			},
		},
	}
}

// Authenticate fetches (or reuses) an access token.
func (c *AmadeusClient) Authenticate(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := c.tokens.Token(); err != nil {
		return fmt.Errorf("amadeus authenticate: %w", err)
	}
	return nil
}

// SearchFlights queries flight offers and formats them for a chat message.
func (c *AmadeusClient) SearchFlights(ctx context.Context, q domain.FlightQuery) (string, error) {
	if err := c.Authenticate(ctx); err != nil {
		return "", err
	}

	adults := q.Adults
	if adults < 1 {
		adults = 1
	}
	maxResults := q.MaxResults
	if maxResults < 1 {
		maxResults = 5
	}

	params := url.Values{}
	params.Set("originLocationCode", q.Origin)
	params.Set("destinationLocationCode", q.Destination)
	params.Set("departureDate", q.Departure)
	params.Set("adults", strconv.Itoa(adults))
	params.Set("max", strconv.Itoa(maxResults))
	params.Set("currencyCode", c.currency)
	if q.Return != "" {
		params.Set("returnDate", q.Return)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+offersPath+"?"+params.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("amadeus build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("amadeus search flights: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return "", fmt.Errorf("amadeus search flights: status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var out offersResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("amadeus decode offers: %w", err)
	}

	return FormatOffers(out.Data), nil
}

// ─────────────────────────────────────────
// Amadeus response types
// ─────────────────────────────────────────

type offersResponse struct {
	Data []Offer `json:"data"`
}

type Offer struct {
	Price struct {
		Total    string `json:"total"`
		Currency string `json:"currency"`
	} `json:"price"`
	Itineraries []Itinerary `json:"itineraries"`
}

type Itinerary struct {
	Duration string    `json:"duration"`
	Segments []Segment `json:"segments"`
}

type Segment struct {
	Departure   Endpoint `json:"departure"`
	Arrival     Endpoint `json:"arrival"`
	CarrierCode string   `json:"carrierCode"`
	Number      string   `json:"number"`
}

type Endpoint struct {
	IATACode string `json:"iataCode"`
	At       string `json:"at"`
}
