package extraction

import (
	"regexp"
	"strconv"
	"strings"
)

const (
	originLabel      = "ciudad de origen"
	destinationLabel = "ciudad de destino"

	// maxRoomsCount bounds a declared room count; larger values are OCR noise.
	maxRoomsCount = 1000
)

var (
	originEndMarkers      = []string{destinationLabel, "cantidad de habitaciones", "fecha salida"}
	destinationEndMarkers = []string{"cantidad de habitaciones", "fecha salida", "multiorigen"}

	roomsCountPattern = regexp.MustCompile(`(?i)\b(\d+)\s*habitaciones\b`)
	hyphenDate        = regexp.MustCompile(`\b(\d{4})-(\d{2})-(\d{2})\b`)
	compactDate       = regexp.MustCompile(`\b(\d{4})(\d{2})(\d{2})\b`)
	countryCode       = regexp.MustCompile(`(?i:\(colombia\))\s*[A-Z]{2,4}`)
	cityConnectors    = regexp.MustCompile(`(?i)\s+e\s+|\s+y\s+|\s{2,}`)
)

// Fields are the booking values found outside the room blocks. A nil field
// was not found.
type Fields struct {
	Plan          *string `json:"plan"`
	FlightType    *string `json:"flight_type"`
	Origin        *string `json:"origin"`
	Destination   *string `json:"destination"`
	RoomsCount    *int    `json:"rooms_count"`
	DepartureDate *string `json:"departure_date"`
	ReturnDate    *string `json:"return_date"`
	Currency      *string `json:"currency"`
}

// StageTrace records the origin/destination pair after a city stage ran.
type StageTrace struct {
	Stage       string  `json:"stage"`
	Origin      *string `json:"origin"`
	Destination *string `json:"destination"`
}

// ExtractFields locates the general booking fields in doc.
func (p *Parser) ExtractFields(doc *Document) (Fields, []StageTrace) {
	var f Fields

	if strings.Contains(doc.Lower, "plan completo") {
		f.Plan = optional("Plan completo")
	}
	if strings.Contains(doc.Lower, "vuelo comercial") {
		f.FlightType = optional("Vuelo comercial")
	}
	if strings.Contains(doc.Lower, "vuelo onvacation") {
		f.FlightType = optional("Vuelo Onvacation")
	}

	pair, trace := p.resolveCities(doc)
	f.Origin = optional(CleanCity(pair.origin))
	f.Destination = optional(CleanCity(pair.destination))

	f.RoomsCount = roomsCount(doc)
	departure, ret := parseDates(doc.Raw)
	f.DepartureDate = optional(departure)
	f.ReturnDate = optional(ret)

	if strings.Contains(doc.Lower, "cop") {
		f.Currency = optional("COP")
	}
	return f, trace
}

// roomsCount reads the first "<n> habitaciones". A count above maxRoomsCount
// is treated as absent.
func roomsCount(doc *Document) *int {
	m := roomsCountPattern.FindStringSubmatch(doc.Collapsed)
	if m == nil {
		return nil
	}
	n, err := strconv.Atoi(m[1])
	if err != nil || n > maxRoomsCount {
		return nil
	}
	return &n
}

// parseDates returns the first two dates found. Hyphenated dates are listed
// before compact ones regardless of where they appear in the text.
func parseDates(raw string) (departure, ret string) {
	var dates []string
	for _, re := range []*regexp.Regexp{hyphenDate, compactDate} {
		for _, m := range re.FindAllStringSubmatch(raw, -1) {
			dates = append(dates, m[1]+"-"+m[2]+"-"+m[3])
		}
	}
	switch {
	case len(dates) >= 2:
		return dates[0], dates[1]
	case len(dates) == 1:
		return dates[0], ""
	}
	return "", ""
}

// extractBetween returns the raw text after label up to the nearest end
// marker, trimmed.
func extractBetween(doc *Document, label string, endMarkers []string) string {
	idx := strings.Index(doc.Lower, label)
	if idx == -1 {
		return ""
	}
	start := idx + len(label)
	end := len(doc.Lower)
	for _, marker := range endMarkers {
		if i := strings.Index(doc.Lower[start:], marker); i != -1 && start+i < end {
			end = start + i
		}
	}
	return strings.TrimSpace(doc.RawSlice(start, end))
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
