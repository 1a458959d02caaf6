// Package extraction turns OCR text of a travel-reservation screen into a
// structured booking: cities, dates, currency, plan and per-room occupancy.
//
// Extraction is best effort. Fields that cannot be located are left nil;
// only malformed configuration is reported as an error. A Parser holds no
// mutable state and is safe for concurrent use.
package extraction

// Result is the full outcome of parsing one OCR document.
type Result struct {
	Fields
	Rooms  []Room `json:"rooms"`
	Totals Totals `json:"totals"`
	Debug  Debug  `json:"debug"`
}

// Debug carries diagnostics that no business logic reads.
type Debug struct {
	RoomsParsed []RoomTrace  `json:"rooms_parsed"`
	RoomsMethod string       `json:"rooms_method"`
	CityStages  []StageTrace `json:"city_stages"`
}

// Parser extracts bookings using a pair of city dictionaries.
type Parser struct {
	origins      Dictionary
	destinations Dictionary
}

// Option configures a Parser.
type Option func(*Parser)

// WithOriginCities replaces the origin dictionary.
func WithOriginCities(d Dictionary) Option {
	return func(p *Parser) {
		p.origins = d
	}
}

// WithDestinationCities replaces the destination dictionary.
func WithDestinationCities(d Dictionary) Option {
	return func(p *Parser) {
		p.destinations = d
	}
}

// DictionaryFiles returns the options that load the origin and destination
// dictionaries from JSON files. An empty path keeps the built-in list.
func DictionaryFiles(originPath, destinationPath string) ([]Option, error) {
	var opts []Option
	if originPath != "" {
		d, err := ReadDictionary(originPath)
		if err != nil {
			return nil, err
		}
		opts = append(opts, WithOriginCities(d))
	}
	if destinationPath != "" {
		d, err := ReadDictionary(destinationPath)
		if err != nil {
			return nil, err
		}
		opts = append(opts, WithDestinationCities(d))
	}
	return opts, nil
}

// New creates a Parser with the built-in dictionaries unless overridden.
func New(opts ...Option) *Parser {
	p := &Parser{
		origins:      OriginCities,
		destinations: DestinationCities,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

var defaultParser = New()

// Parse runs the default Parser.
func Parse(text string, cfg Config) *Result {
	return defaultParser.Parse(text, cfg)
}

// ParseRaw decodes a loosely typed config and runs the default Parser.
func ParseRaw(text string, rawConfig map[string]any) (*Result, error) {
	cfg, err := DecodeConfig(rawConfig)
	if err != nil {
		return nil, err
	}
	return defaultParser.Parse(text, cfg), nil
}

// Parse extracts the booking from text. Use DefaultConfig for the standard
// occupancy limits.
func (p *Parser) Parse(text string, cfg Config) *Result {
	doc := Normalize(text)
	fields, stages := p.ExtractFields(doc)
	rooms, traces := ParseRooms(doc, fields.RoomsCount, cfg)

	return &Result{
		Fields: fields,
		Rooms:  rooms,
		Totals: ComputeTotals(rooms),
		Debug: Debug{
			RoomsParsed: traces,
			RoomsMethod: RoomsMethod,
			CityStages:  stages,
		},
	}
}
