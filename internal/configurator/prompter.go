// Package configurator lets an agent review and correct a parse result from
// the command line before it is printed.
package configurator

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/zombor/onvacation-ocr/internal/extraction"
)

const dateLayout = "2006-01-02"

// Prompter asks for manual overrides one line at a time
type Prompter struct {
	in  *bufio.Scanner
	out io.Writer
}

// NewPrompter creates a Prompter reading answers from in and writing
// prompts to out
func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{in: bufio.NewScanner(in), out: out}
}

// Override walks through the editable fields of result and applies the
// answers. An empty answer, or the end of input, keeps the current value.
// Totals are recomputed from the rooms afterwards.
func (p *Prompter) Override(result *extraction.Result) error {
	fmt.Fprintln(p.out, "\nManual overrides (press Enter to keep current value)")
	fmt.Fprintln(p.out)

	var err error
	if result.Origin, err = p.promptText("Origin", result.Origin); err != nil {
		return err
	}
	if result.Destination, err = p.promptText("Destination", result.Destination); err != nil {
		return err
	}
	if result.DepartureDate, err = p.promptDate("Departure date (YYYY-MM-DD)", result.DepartureDate); err != nil {
		return err
	}
	if result.ReturnDate, err = p.promptDate("Return date (YYYY-MM-DD)", result.ReturnDate); err != nil {
		return err
	}

	fmt.Fprintln(p.out, "\nRooms summary:")
	for i := range result.Rooms {
		if err := p.promptRoom(&result.Rooms[i]); err != nil {
			return err
		}
	}

	result.Totals = extraction.ComputeTotals(result.Rooms)
	return nil
}

// ask prints a prompt and returns the trimmed answer; "" at end of input
func (p *Prompter) ask(label, current string) (string, error) {
	fmt.Fprintf(p.out, "%s [%s]: ", label, current)
	if !p.in.Scan() {
		if err := p.in.Err(); err != nil {
			return "", fmt.Errorf("reading answer: %w", err)
		}
		return "", nil
	}
	return strings.TrimSpace(p.in.Text()), nil
}

func (p *Prompter) promptText(label string, current *string) (*string, error) {
	answer, err := p.ask(label, deref(current))
	if err != nil || answer == "" {
		return current, err
	}
	return &answer, nil
}

func (p *Prompter) promptDate(label string, current *string) (*string, error) {
	answer, err := p.ask(label, deref(current))
	if err != nil || answer == "" {
		return current, err
	}
	if _, err := time.Parse(dateLayout, answer); err != nil {
		fmt.Fprintf(p.out, "  %q is not a YYYY-MM-DD date, keeping current value\n", answer)
		return current, nil
	}
	return &answer, nil
}

func (p *Prompter) promptRoom(room *extraction.Room) error {
	label := fmt.Sprintf("Room %d (adults, children, infants)", room.Room)
	current := fmt.Sprintf("%s,%s,%s", count(room.Adults), count(room.Children), count(room.Infants))

	answer, err := p.ask(label, current)
	if err != nil || answer == "" {
		return err
	}

	triplet, unknown, err := ParseTriplet(answer)
	if err != nil {
		fmt.Fprintf(p.out, "  %v, keeping room %d\n", err, room.Room)
		return nil
	}
	if unknown {
		room.ClearOccupancy()
		return nil
	}
	room.SetOccupancy(triplet[0], triplet[1], triplet[2])
	return nil
}

// ParseTriplet reads "adults,children,infants". Three empty parts report an
// unknown occupancy.
func ParseTriplet(answer string) (triplet [3]int, unknown bool, err error) {
	parts := strings.Split(answer, ",")
	if len(parts) != 3 {
		return triplet, false, fmt.Errorf("expected three comma-separated values, got %q", answer)
	}

	empty := 0
	for i, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			empty++
			continue
		}
		n, err := strconv.Atoi(part)
		if err != nil || n < 0 {
			return triplet, false, fmt.Errorf("%q is not a non-negative integer", part)
		}
		triplet[i] = n
	}

	switch empty {
	case 0:
		return triplet, false, nil
	case 3:
		return [3]int{}, true, nil
	}
	return [3]int{}, false, fmt.Errorf("set all three values or none, got %q", answer)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func count(n *int) string {
	if n == nil {
		return ""
	}
	return strconv.Itoa(*n)
}
