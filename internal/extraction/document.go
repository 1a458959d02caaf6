package extraction

import (
	"regexp"
	"strings"
	"unicode"
)

var horizontalSpace = regexp.MustCompile(`[ \t]+`)

// Document holds the OCR text together with its normalized views.
type Document struct {
	Raw       string
	Lower     string
	Collapsed string

	// offsets maps every byte of Lower to the byte in Raw it came from,
	// with one trailing entry for len(Raw).
	offsets []int
}

// Normalize replaces separator noise (em-dash, en-dash, vertical bar) with a
// single space, lower-cases the text and collapses horizontal whitespace.
func Normalize(raw string) *Document {
	var lower strings.Builder
	lower.Grow(len(raw))
	offsets := make([]int, 0, len(raw)+1)

	for i, r := range raw {
		switch r {
		case '—', '–', '|':
			r = ' '
		default:
			r = unicode.ToLower(r)
		}
		n, _ := lower.WriteRune(r)
		for j := 0; j < n; j++ {
			offsets = append(offsets, i)
		}
	}
	offsets = append(offsets, len(raw))

	l := lower.String()
	return &Document{
		Raw:       raw,
		Lower:     l,
		Collapsed: horizontalSpace.ReplaceAllString(l, " "),
		offsets:   offsets,
	}
}

// RawSlice returns the untouched text between two byte offsets of Lower.
func (d *Document) RawSlice(start, end int) string {
	if start < 0 {
		start = 0
	}
	if end > len(d.Lower) {
		end = len(d.Lower)
	}
	if start >= end {
		return ""
	}
	return d.Raw[d.offsets[start]:d.offsets[end]]
}

// Lines returns the trimmed, non-empty lines of the raw text.
func (d *Document) Lines() []string {
	var lines []string
	for _, line := range strings.Split(d.Raw, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

// firstLine returns s up to its first line break.
func firstLine(s string) string {
	if i := strings.IndexAny(s, "\r\n"); i >= 0 {
		return s[:i]
	}
	return s
}
