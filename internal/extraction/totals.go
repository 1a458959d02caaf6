package extraction

// Totals sums the occupancy over all rooms. Unknown values count as zero.
type Totals struct {
	Adults     int `json:"adults"`
	Children   int `json:"children"`
	Infants    int `json:"infants"`
	Passengers int `json:"passengers"`
}

// ComputeTotals adds up adults, children and infants across rooms.
func ComputeTotals(rooms []Room) Totals {
	var t Totals
	for _, r := range rooms {
		t.Adults += value(r.Adults)
		t.Children += value(r.Children)
		t.Infants += value(r.Infants)
	}
	t.Passengers = t.Adults + t.Children + t.Infants
	return t
}

func value(n *int) int {
	if n == nil {
		return 0
	}
	return *n
}
