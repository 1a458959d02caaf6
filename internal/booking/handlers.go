package booking

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/zombor/onvacation-ocr/internal/extraction"
)

// maxBodySize bounds a parse request; OCR transcripts are small
const maxBodySize = 1 << 20

// parseRequest is the body of both parse endpoints
type parseRequest struct {
	RawText string             `json:"raw_text"`
	Config  *extraction.Config `json:"config"`
}

// setCORSHeaders sets CORS headers on a response
func setCORSHeaders(w http.ResponseWriter) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
	w.Header().Set("Access-Control-Max-Age", "3600")
}

// writeJSON encodes v with the given status
func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Error encoding response", "error", err)
	}
}

// writeError writes a {"error": message} body
func writeError(w http.ResponseWriter, code int, message string) {
	setCORSHeaders(w)
	writeJSON(w, code, map[string]string{"error": message})
}

// decodeParseRequest reads the request body and resolves the config
func decodeParseRequest(w http.ResponseWriter, r *http.Request) (string, extraction.Config, bool) {
	var req parseRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodySize)).Decode(&req); err != nil {
		var cfgErr *extraction.ConfigError
		if errors.As(err, &cfgErr) {
			writeError(w, http.StatusBadRequest, cfgErr.Error())
			return "", extraction.Config{}, false
		}
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return "", extraction.Config{}, false
	}
	if req.RawText == "" {
		writeError(w, http.StatusBadRequest, ErrMissingInput.Error())
		return "", extraction.Config{}, false
	}

	cfg := extraction.DefaultConfig()
	if req.Config != nil {
		cfg = *req.Config
	}
	return req.RawText, cfg, true
}

// handleParseOCR parses a transcript without storing it
func (s *Server) handleParseOCR(w http.ResponseWriter, r *http.Request) {
	text, cfg, ok := decodeParseRequest(w, r)
	if !ok {
		return
	}

	result, err := s.service.ParseOCR(text, cfg)
	if err != nil {
		slog.Error("Error parsing transcript", "error", err)
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// handleRecordParse parses a transcript and stores it in the history
func (s *Server) handleRecordParse(w http.ResponseWriter, r *http.Request) {
	text, cfg, ok := decodeParseRequest(w, r)
	if !ok {
		return
	}

	booking, err := s.service.RecordParse(text, cfg)
	if err != nil {
		slog.Error("Error recording parse", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	writeJSON(w, http.StatusCreated, booking)
}

// handleListBookings returns the parse history
func (s *Server) handleListBookings(w http.ResponseWriter, r *http.Request) {
	bookings, err := s.service.ListBookings()
	if err != nil {
		slog.Error("Error listing bookings", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if bookings == nil {
		bookings = []*Booking{}
	}
	writeJSON(w, http.StatusOK, bookings)
}

// handleGetBooking returns a single booking
func (s *Server) handleGetBooking(w http.ResponseWriter, r *http.Request) {
	booking, err := s.service.GetBooking(r.PathValue("id"))
	if err != nil {
		s.writeLookupError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, booking)
}

// handleGetTranscript returns the raw OCR text of a booking
func (s *Server) handleGetTranscript(w http.ResponseWriter, r *http.Request) {
	data, err := s.service.GetTranscript(r.PathValue("id"))
	if err != nil {
		s.writeLookupError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write(data)
}

// handleDeleteBooking deletes a booking
func (s *Server) handleDeleteBooking(w http.ResponseWriter, r *http.Request) {
	if err := s.service.DeleteBooking(r.PathValue("id")); err != nil {
		s.writeLookupError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) writeLookupError(w http.ResponseWriter, err error) {
	if errors.Is(err, ErrNotFound) {
		writeError(w, http.StatusNotFound, "Booking not found")
		return
	}
	slog.Error("Error reading booking", "error", err)
	writeError(w, http.StatusInternalServerError, "Internal server error")
}

// handleIndex serves the HTML interface
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(indexHTML)
}

// handleStaticJS serves the JavaScript file
func (s *Server) handleStaticJS(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/javascript; charset=utf-8")
	w.Write(appJS)
}
