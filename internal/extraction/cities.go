package extraction

import "strings"

// cityPair is an origin/destination candidate; "" means absent.
type cityPair struct {
	origin      string
	destination string
}

// cityStage is one correction pass over the origin/destination pair. Each
// stage may override what the previous ones produced.
type cityStage struct {
	name  string
	apply func(p *Parser, doc *Document, pair cityPair) cityPair
}

var cityStages = []cityStage{
	{"label_anchored", (*Parser).labelAnchored},
	{"structured_line", (*Parser).structuredLine},
	{"merged_token", (*Parser).mergedToken},
	{"dictionary_rescue", (*Parser).dictionaryRescue},
}

func (p *Parser) resolveCities(doc *Document) (cityPair, []StageTrace) {
	var pair cityPair
	trace := make([]StageTrace, 0, len(cityStages))
	for _, stage := range cityStages {
		pair = stage.apply(p, doc, pair)
		trace = append(trace, StageTrace{
			Stage:       stage.name,
			Origin:      optional(pair.origin),
			Destination: optional(pair.destination),
		})
	}
	return pair, trace
}

// labelAnchored reads the text that follows each "ciudad de ..." label.
func (p *Parser) labelAnchored(doc *Document, _ cityPair) cityPair {
	return cityPair{
		origin:      CleanCity(extractBetween(doc, originLabel, originEndMarkers)),
		destination: CleanCity(extractBetween(doc, destinationLabel, destinationEndMarkers)),
	}
}

// structuredLine handles the layout where both labels share a line and the
// two cities follow on the next one.
func (p *Parser) structuredLine(doc *Document, pair cityPair) cityPair {
	line := citiesLine(doc)
	if line == "" {
		return pair
	}

	if origin, destination := splitCountryCode(line); origin != "" && destination != "" {
		return cityPair{origin: origin, destination: destination}
	}

	origin, okOrigin := p.origins.FindInLine(line)
	destination, okDestination := p.destinations.FindInLine(line)
	if okOrigin && okDestination {
		return cityPair{origin: origin.Label, destination: destination.Label}
	}
	return pair
}

// mergedToken splits a value where OCR ran both cities together.
func (p *Parser) mergedToken(_ *Document, pair cityPair) cityPair {
	if pair.origin != "" && pair.destination != "" && strings.HasPrefix(pair.destination, pair.origin) {
		if o, d := splitOriginDestination(pair.destination); o != "" && d != "" {
			pair = cityPair{origin: o, destination: d}
		}
	}
	if pair.origin != "" && pair.destination == "" {
		if o, d := splitOriginDestination(pair.origin); o != "" && d != "" {
			pair = cityPair{origin: o, destination: d}
		}
	}
	if pair.origin == "" && pair.destination != "" {
		if o, d := splitOriginDestination(pair.destination); o != "" && d != "" {
			pair = cityPair{origin: o, destination: d}
		}
	}
	return pair
}

// dictionaryRescue fills a missing origin from the destination text,
// canonicalizes the destination and undoes a transposed pair.
func (p *Parser) dictionaryRescue(_ *Document, pair cityPair) cityPair {
	if pair.destination != "" && pair.origin == "" {
		if m, ok := p.origins.search(pair.destination, false); ok {
			cleaned := CleanCity(pair.destination)
			rest := strings.Join(strings.Fields(cleaned[:m.Start]+" "+cleaned[m.End:]), " ")
			if rest == "" {
				rest = pair.destination
			}
			pair = cityPair{origin: m.Label, destination: rest}
		}
	}

	if pair.destination != "" {
		if label, ok := p.destinations.Find(pair.destination); ok {
			pair.destination = label
		}
	}

	if pair.origin != "" && pair.destination != "" {
		originIsDestination := p.destinations.contains(pair.origin) && !p.origins.contains(pair.origin)
		destinationIsOrigin := p.origins.contains(pair.destination) && !p.destinations.contains(pair.destination)
		if originIsDestination && destinationIsOrigin {
			pair = cityPair{origin: pair.destination, destination: pair.origin}
		}
	}
	return pair
}

// citiesLine returns the line after the first line carrying both labels.
func citiesLine(doc *Document) string {
	lines := doc.Lines()
	for i, line := range lines {
		lower := strings.ToLower(line)
		if strings.Contains(lower, originLabel) && strings.Contains(lower, destinationLabel) {
			if i+1 < len(lines) {
				return lines[i+1]
			}
			return ""
		}
	}
	return ""
}

// splitCountryCode splits "<city> (Colombia) CODE <city> (Colombia) CODE".
func splitCountryCode(line string) (string, string) {
	var parts []string
	for _, part := range countryCode.Split(line, -1) {
		if strings.TrimSpace(part) != "" {
			parts = append(parts, part)
		}
	}
	if len(parts) < 2 {
		return "", ""
	}
	return CleanCity(parts[0]), CleanCity(parts[1])
}

// splitOriginDestination splits a value on connector words or wide gaps. A
// single two-word phrase is split into its words.
func splitOriginDestination(value string) (string, string) {
	var parts []string
	for _, part := range cityConnectors.Split(firstLine(value), -1) {
		if strings.TrimSpace(part) == "" {
			continue
		}
		if cleaned := CleanCity(part); cleaned != "" {
			parts = append(parts, cleaned)
		}
	}
	switch len(parts) {
	case 2:
		return parts[0], parts[1]
	case 1:
		if words := strings.Fields(parts[0]); len(words) == 2 {
			return words[0], words[1]
		}
	}
	return "", ""
}
