package extraction

import (
	"encoding/json"
	"fmt"
	"os"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/iancoleman/orderedmap"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	parenthetical = regexp.MustCompile(`\(.*?\)`)
	// Country, currency and code tokens that OCR leaves next to a city name.
	// They are only removed as whole words; see removeWords.
	cityQualifiers = []*regexp.Regexp{
		regexp.MustCompile(`(?i)d\.?c`),
		regexp.MustCompile(`(?i)colombia`),
		regexp.MustCompile(`(?i)pesos?`),
		regexp.MustCompile(`(?i)cop`),
		regexp.MustCompile(`[A-Z]{2,4}`),
	}
	nonLetters     = regexp.MustCompile(`[^A-Za-z\x{00C0}-\x{017F}\s]`)
	whitespaceRuns = regexp.MustCompile(`\s+`)
)

// CleanCity reduces a raw segment to a bare city phrase. It keeps the first
// line only, drops parenthetical notes and qualifier tokens, strips anything
// that is not a letter and discards one-letter words. It returns "" when
// nothing is left.
func CleanCity(segment string) string {
	if segment == "" {
		return ""
	}
	line := firstLine(segment)
	line = parenthetical.ReplaceAllString(line, "")
	for _, q := range cityQualifiers {
		line = removeWords(line, q)
	}
	line = nonLetters.ReplaceAllString(line, " ")
	line = strings.TrimSpace(whitespaceRuns.ReplaceAllString(line, " "))

	words := strings.Fields(line)
	kept := words[:0]
	for _, w := range words {
		if len([]rune(w)) > 1 {
			kept = append(kept, w)
		}
	}
	return strings.Join(kept, " ")
}

// removeWords deletes the matches of re that form whole words. Word
// boundaries follow Unicode letters and digits, so a code-like run inside
// "COVEÑAS" or "CANCÚN" is left alone.
func removeWords(s string, re *regexp.Regexp) string {
	var b strings.Builder
	last := 0
	for _, m := range re.FindAllStringIndex(s, -1) {
		if !atWordBoundary(s, m[0]) || !atWordBoundary(s, m[1]) {
			continue
		}
		b.WriteString(s[last:m[0]])
		last = m[1]
	}
	b.WriteString(s[last:])
	return b.String()
}

// atWordBoundary reports whether exactly one side of byte offset i is a
// word character.
func atWordBoundary(s string, i int) bool {
	before, after := false, false
	if i > 0 {
		r, _ := utf8.DecodeLastRuneInString(s[:i])
		before = isWordRune(r)
	}
	if i < len(s) {
		r, _ := utf8.DecodeRuneInString(s[i:])
		after = isWordRune(r)
	}
	return before != after
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsNumber(r)
}

func newAccentFolder() transform.Transformer {
	return transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
}

// fold lower-cases s and strips its diacritics.
func fold(s string) string {
	folded, _ := foldIndex(s)
	return folded
}

// foldIndex folds s rune by rune and returns, for every byte of the folded
// string, the byte offset in s it came from (plus a trailing len(s)).
func foldIndex(s string) (string, []int) {
	t := newAccentFolder()
	var b strings.Builder
	offsets := make([]int, 0, len(s)+1)
	for i, r := range s {
		out, _, err := transform.String(t, string(r))
		if err != nil {
			out = string(r)
		}
		out = strings.ToLower(out)
		b.WriteString(out)
		for j := 0; j < len(out); j++ {
			offsets = append(offsets, i)
		}
	}
	offsets = append(offsets, len(s))
	return b.String(), offsets
}

// Candidate maps a matchable key to its canonical display name.
type Candidate struct {
	Key   string
	Label string
}

// Dictionary is an ordered list of known cities. Order is priority: a key
// that contains another key must come first.
type Dictionary []Candidate

// CityMatch is a dictionary hit inside a cleaned segment. Start and End are
// byte offsets into CleanCity(segment).
type CityMatch struct {
	Label string
	Start int
	End   int
}

// OriginCities are the departure cities offered by the booking screen.
var OriginCities = Dictionary{
	{"bogota", "Bogotá"},
	{"cali", "Cali"},
	{"medellin", "Medellín"},
	{"pereira", "Pereira"},
	{"bucaramanga", "Bucaramanga"},
	{"santa marta", "Santa Marta"},
}

// DestinationCities are the package destinations offered by the booking screen.
var DestinationCities = Dictionary{
	{"san andres islas", "San Andrés Islas"},
	{"san andres", "San Andrés"},
	{"la guajira", "La Guajira"},
	{"el amazonas", "El Amazonas"},
	{"santa marta", "Santa Marta"},
	{"covenas", "Coveñas"},
	{"medellin", "Medellín"},
	{"panama", "Panamá"},
	{"cancun", "Cancún"},
	{"punta cana", "Punta Cana"},
	{"santo domingo", "Santo Domingo"},
}

// LoadDictionary reads a JSON object of key/label pairs. The order of the
// keys in the document is kept as the match priority.
func LoadDictionary(data []byte) (Dictionary, error) {
	o := orderedmap.New()
	if err := json.Unmarshal(data, o); err != nil {
		return nil, fmt.Errorf("decoding city dictionary: %w", err)
	}

	dict := make(Dictionary, 0, len(o.Keys()))
	for _, key := range o.Keys() {
		v, _ := o.Get(key)
		label, ok := v.(string)
		if !ok || strings.TrimSpace(label) == "" {
			return nil, fmt.Errorf("city %q: label must be a non-empty string", key)
		}
		k := fold(strings.TrimSpace(key))
		if k == "" {
			return nil, fmt.Errorf("city dictionary contains an empty key")
		}
		dict = append(dict, Candidate{Key: k, Label: label})
	}
	if len(dict) == 0 {
		return nil, fmt.Errorf("city dictionary is empty")
	}
	return dict, nil
}

// ReadDictionary loads a dictionary file written for LoadDictionary.
func ReadDictionary(path string) (Dictionary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading city dictionary: %w", err)
	}
	dict, err := LoadDictionary(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return dict, nil
}

// Find returns the label of the first key, in dictionary order, contained in
// the cleaned segment.
func (d Dictionary) Find(segment string) (string, bool) {
	m, ok := d.search(segment, false)
	return m.Label, ok
}

// FindInLine returns the match that starts leftmost in the cleaned line. Ties
// go to the earlier dictionary entry.
func (d Dictionary) FindInLine(line string) (CityMatch, bool) {
	return d.search(line, true)
}

func (d Dictionary) search(segment string, leftmost bool) (CityMatch, bool) {
	cleaned := CleanCity(segment)
	if cleaned == "" {
		return CityMatch{}, false
	}
	folded, offsets := foldIndex(cleaned)

	var (
		best  CityMatch
		start = -1
	)
	for _, c := range d {
		key := fold(c.Key)
		if key == "" {
			continue
		}
		idx := strings.Index(folded, key)
		if idx == -1 {
			continue
		}
		if start == -1 || idx < start {
			start = idx
			best = CityMatch{
				Label: c.Label,
				Start: offsets[idx],
				End:   offsets[idx+len(key)],
			}
		}
		if !leftmost {
			break
		}
	}
	return best, start != -1
}

// contains reports whether segment resolves to any entry of d.
func (d Dictionary) contains(segment string) bool {
	_, ok := d.Find(segment)
	return ok
}
