package booking

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/zombor/onvacation-ocr/internal/extraction"
)

// ErrMissingInput is returned when a request carries no OCR text
var ErrMissingInput = errors.New("raw_text requerido")

// IDGenerator generates unique IDs for bookings
type IDGenerator interface {
	Generate() string
}

// TimeSource provides the current time
type TimeSource interface {
	Now() time.Time
}

type defaultIDGenerator struct{}

func (g *defaultIDGenerator) Generate() string {
	return uuid.NewString()
}

type defaultTimeSource struct{}

func (t *defaultTimeSource) Now() time.Time {
	return time.Now()
}

// Service parses OCR transcripts and keeps a history of them
type Service struct {
	db          DB
	storage     Storage
	parser      *extraction.Parser
	cache       *ResultCache
	metrics     *Metrics
	idGenerator IDGenerator
	timeSource  TimeSource
}

// NewService creates a new Service. cache and metrics may be nil.
func NewService(db DB, storage Storage, parser *extraction.Parser, cache *ResultCache, metrics *Metrics) *Service {
	return NewServiceWithDeps(db, storage, parser, cache, metrics, &defaultIDGenerator{}, &defaultTimeSource{})
}

// NewServiceWithDeps creates a new Service with custom dependencies for testing
func NewServiceWithDeps(db DB, storage Storage, parser *extraction.Parser, cache *ResultCache, metrics *Metrics, idGen IDGenerator, timeSrc TimeSource) *Service {
	if parser == nil {
		parser = extraction.New()
	}
	return &Service{
		db:          db,
		storage:     storage,
		parser:      parser,
		cache:       cache,
		metrics:     metrics,
		idGenerator: idGen,
		timeSource:  timeSrc,
	}
}

// ParseOCR extracts a booking from text without storing it
func (s *Service) ParseOCR(text string, cfg extraction.Config) (*extraction.Result, error) {
	if text == "" {
		return nil, ErrMissingInput
	}

	if result, ok := s.cache.Get(text, cfg); ok {
		s.metrics.cacheHit()
		return result, nil
	}

	start := time.Now()
	result := s.parser.Parse(text, cfg)
	s.metrics.observe(result, time.Since(start))
	s.cache.Add(text, cfg, result)

	if result.Origin == nil || result.Destination == nil {
		slog.Debug("Cities not found in transcript", "text_length", len(text))
	}
	return result, nil
}

// RecordParse parses text, stores the transcript and saves the booking
func (s *Service) RecordParse(text string, cfg extraction.Config) (*Booking, error) {
	result, err := s.ParseOCR(text, cfg)
	if err != nil {
		return nil, err
	}

	id := s.idGenerator.Generate()
	filename, err := s.storage.Save(id+".txt", []byte(text))
	if err != nil {
		return nil, fmt.Errorf("saving transcript: %w", err)
	}

	booking := &Booking{
		ID:        id,
		Filename:  filename,
		Config:    cfg,
		Result:    result,
		CreatedAt: s.timeSource.Now(),
	}
	if err := s.db.SaveBooking(booking); err != nil {
		if delErr := s.storage.Delete(filename); delErr != nil {
			slog.Warn("Failed to delete transcript", "filename", filename, "error", delErr)
		}
		return nil, fmt.Errorf("saving booking to database: %w", err)
	}
	return booking, nil
}

// GetBooking retrieves a booking by ID
func (s *Service) GetBooking(id string) (*Booking, error) {
	booking, err := s.db.GetBooking(id)
	if err != nil {
		return nil, fmt.Errorf("getting booking: %w", err)
	}
	return booking, nil
}

// ListBookings returns all bookings
func (s *Service) ListBookings() ([]*Booking, error) {
	bookings, err := s.db.ListBookings()
	if err != nil {
		return nil, fmt.Errorf("listing bookings: %w", err)
	}
	return bookings, nil
}

// GetTranscript returns the raw OCR text of a booking
func (s *Service) GetTranscript(id string) ([]byte, error) {
	booking, err := s.db.GetBooking(id)
	if err != nil {
		return nil, fmt.Errorf("getting booking: %w", err)
	}
	data, err := s.storage.Get(booking.Filename)
	if err != nil {
		return nil, fmt.Errorf("getting transcript: %w", err)
	}
	return data, nil
}

// DeleteBooking removes a booking and its transcript
func (s *Service) DeleteBooking(id string) error {
	booking, err := s.db.GetBooking(id)
	if err != nil {
		return fmt.Errorf("getting booking for deletion: %w", err)
	}

	if err := s.storage.Delete(booking.Filename); err != nil {
		slog.Warn("Failed to delete transcript", "filename", booking.Filename, "error", err)
	}

	if err := s.db.DeleteBooking(id); err != nil {
		return fmt.Errorf("deleting booking from database: %w", err)
	}
	return nil
}

// MetricsHandler serves the parser metrics
func (s *Service) MetricsHandler() http.Handler {
	return s.metrics.Handler()
}
