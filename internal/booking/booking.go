package booking

import (
	"time"

	"github.com/zombor/onvacation-ocr/internal/extraction"
)

// Booking is a parsed OCR transcript kept in the history
type Booking struct {
	ID        string             `json:"id"`
	Filename  string             `json:"filename"` // Stored raw OCR text
	Config    extraction.Config  `json:"config"`
	Result    *extraction.Result `json:"result"`
	CreatedAt time.Time          `json:"created_at"`
}
