package extraction

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// RoomsMethod names the strategy used to locate room blocks.
const RoomsMethod = "block_regex"

var (
	roomLabelPattern = regexp.MustCompile(`habitaci[oó]n\s+(\d+)`)
	tokenPattern     = regexp.MustCompile(`[A-Za-z0-9]+`)

	// Connector and punctuation artifacts between the occupancy numbers.
	noiseTokens = map[string]bool{
		"e": true, "ot": true, "pt": true, "o)": true, "y": true,
		"-": true, "--": true, ".": true, ",": true,
	}
)

// Room is the occupancy of one room. Adults, Children and Infants are either
// all set or all nil.
type Room struct {
	Room     int  `json:"room"`
	Adults   *int `json:"adults"`
	Children *int `json:"children"`
	Infants  *int `json:"infants"`
}

// RoomTrace keeps the numbers read from a room block before and after digit
// correction.
type RoomTrace struct {
	Room          int   `json:"room"`
	NumbersRaw    []int `json:"numbers_raw"`
	NumbersMapped []int `json:"numbers_mapped"`
}

type roomBlock struct {
	room int
	text string
}

// findRoomBlocks splits the text on "habitación N" labels. Each block runs to
// the next label or the end of the text.
func findRoomBlocks(doc *Document) []roomBlock {
	matches := roomLabelPattern.FindAllStringSubmatchIndex(doc.Lower, -1)
	blocks := make([]roomBlock, 0, len(matches))
	for i, m := range matches {
		room, err := strconv.Atoi(doc.Lower[m[2]:m[3]])
		if err != nil {
			continue
		}
		end := len(doc.Lower)
		if i+1 < len(matches) {
			end = matches[i+1][0]
		}
		blocks = append(blocks, roomBlock{room: room, text: doc.RawSlice(m[0], end)})
	}
	return blocks
}

// tokenizeRoom reads the numbers of a room block, dropping the room label
// when OCR echoed it into the token stream.
func tokenizeRoom(block roomBlock) []int {
	numbers := []int{}
	for _, token := range tokenPattern.FindAllString(block.text, -1) {
		lower := strings.ToLower(token)
		switch {
		case noiseTokens[lower]:
		case lower == "o":
			numbers = append(numbers, 0)
		case strings.Contains(lower, "tp"):
			numbers = append(numbers, 1)
		case isDigits(lower):
			n, err := strconv.Atoi(lower)
			if err != nil {
				// Too large for an int; it keeps its place and fails the range check.
				n = math.MaxInt
			}
			numbers = append(numbers, n)
		}
	}
	if len(numbers) > 0 && numbers[0] == block.room {
		numbers = numbers[1:]
	}
	return numbers
}

// correctDigits remaps misread digits and drops values outside [0, maxValue].
func correctDigits(numbers []int, corrections map[int]int, maxValue int) []int {
	mapped := []int{}
	for _, n := range numbers {
		if to, ok := corrections[n]; ok {
			n = to
		}
		if n >= 0 && n <= maxValue {
			mapped = append(mapped, n)
		}
	}
	return mapped
}

// ChooseTriplet returns the first window of three consecutive values within
// [0, maxValue] as adults, children and infants.
func ChooseTriplet(values []int, maxValue int) ([3]int, bool) {
	valid := func(v int) bool { return v >= 0 && v <= maxValue }
	for i := 0; i+2 < len(values); i++ {
		a, b, c := values[i], values[i+1], values[i+2]
		if valid(a) && valid(b) && valid(c) {
			return [3]int{a, b, c}, true
		}
	}
	return [3]int{}, false
}

// ParseRooms extracts the occupancy of every room block. When roomsCount is
// known the result has exactly that many rooms, numbered from 1, with
// missing rooms left empty.
func ParseRooms(doc *Document, roomsCount *int, cfg Config) ([]Room, []RoomTrace) {
	corrections := cfg.corrections()
	blocks := findRoomBlocks(doc)

	rooms := make([]Room, 0, len(blocks))
	traces := make([]RoomTrace, 0, len(blocks))
	for _, block := range blocks {
		raw := tokenizeRoom(block)
		mapped := correctDigits(raw, corrections, cfg.MaxValue)
		traces = append(traces, RoomTrace{Room: block.room, NumbersRaw: raw, NumbersMapped: mapped})

		room := Room{Room: block.room}
		if t, ok := ChooseTriplet(mapped, cfg.MaxValue); ok {
			room = newRoom(block.room, t[0], t[1], t[2])
		}
		rooms = append(rooms, room)
	}

	if roomsCount == nil {
		return rooms, traces
	}

	byNumber := make(map[int]Room, len(rooms))
	for _, r := range rooms {
		byNumber[r.Room] = r
	}
	reconciled := make([]Room, 0, *roomsCount)
	for n := 1; n <= *roomsCount; n++ {
		if r, ok := byNumber[n]; ok {
			reconciled = append(reconciled, r)
			continue
		}
		reconciled = append(reconciled, Room{Room: n})
	}
	return reconciled, traces
}

func newRoom(number, adults, children, infants int) Room {
	return Room{Room: number, Adults: &adults, Children: &children, Infants: &infants}
}

// SetOccupancy replaces the room triplet.
func (r *Room) SetOccupancy(adults, children, infants int) {
	*r = newRoom(r.Room, adults, children, infants)
}

// ClearOccupancy marks the room triplet as unknown.
func (r *Room) ClearOccupancy() {
	*r = Room{Room: r.Room}
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
