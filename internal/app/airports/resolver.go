// Package airports maps free-text city names to IATA airport codes.
package airports

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// DefaultCodes covers the cities the bot is usually asked about. Keys are
// folded (lower case, no accents).
var DefaultCodes = map[string]string{
	"casablanca": "CMN",
	"paris":      "CDG",
	"marrakech":  "RAK",
	"rabat":      "RBA",
	"fes":        "FEZ",
	"fez":        "FEZ",
	"tanger":     "TNG",
	"agadir":     "AGA",
	"new york":   "JFK",
	"londres":    "LHR",
	"london":     "LHR",
	"madrid":     "MAD",
	"barcelona":  "BCN",
	"barcelone":  "BCN",
	"rome":       "FCO",
	"istanbul":   "IST",
	"dubai":      "DXB",
	"tokyo":      "HND",
	"lisbonne":   "LIS",
	"lisbon":     "LIS",
	"amsterdam":  "AMS",
	"berlin":     "BER",
	"bruxelles":  "BRU",
	"geneve":     "GVA",
	"montreal":   "YUL",
}

type Resolver struct {
	codes map[string]string
}

// NewResolver uses DefaultCodes when codes is nil.
func NewResolver(codes map[string]string) *Resolver {
	if codes == nil {
		codes = DefaultCodes
	}
	folded := make(map[string]string, len(codes))
	for k, v := range codes {
		folded[Fold(k)] = v
	}
	return &Resolver{codes: folded}
}

// Resolve never fails: unknown cities get the first three letters of their
// name, upper-cased, padded with X when the name is shorter.
func (r *Resolver) Resolve(city string) string {
	key := Fold(city)
	if code, ok := r.codes[key]; ok {
		return code
	}
	return prefixCode(key)
}

// Fold lower-cases, strips accents and collapses whitespace.
func Fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return strings.Join(strings.Fields(strings.ToLower(out)), " ")
}

// prefixCode keeps the first three letters of any script.
func prefixCode(folded string) string {
	var b strings.Builder
	n := 0
	for _, r := range folded {
		if !unicode.IsLetter(r) {
			continue
		}
		b.WriteRune(unicode.ToUpper(r))
		if n++; n == 3 {
			break
		}
	}
	for ; n < 3; n++ {
		b.WriteByte('X')
	}
	return b.String()
}
