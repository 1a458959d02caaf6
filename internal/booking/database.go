package booking

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"go.etcd.io/bbolt"
)

const bucketName = "bookings"

// ErrNotFound is returned when a booking id is unknown
var ErrNotFound = errors.New("booking not found")

// DB defines the interface for the parse history
type DB interface {
	// SaveBooking saves a booking
	SaveBooking(b *Booking) error

	// GetBooking retrieves a booking by ID
	GetBooking(id string) (*Booking, error)

	// ListBookings returns all bookings, newest first
	ListBookings() ([]*Booking, error)

	// DeleteBooking removes a booking
	DeleteBooking(id string) error

	// Close closes the database connection
	Close() error
}

// BoltDB implements the DB interface using BoltDB
type BoltDB struct {
	db *bbolt.DB
}

// NewBoltDB opens the database file and creates the bucket
func NewBoltDB(path string) (*BoltDB, error) {
	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("opening boltdb: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketName))
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating buckets: %w", err)
	}

	return &BoltDB{db: db}, nil
}

// SaveBooking saves a booking to the database
func (b *BoltDB) SaveBooking(booking *Booking) error {
	return b.db.Update(func(tx *bbolt.Tx) error {
		data, err := json.Marshal(booking)
		if err != nil {
			return fmt.Errorf("marshaling booking: %w", err)
		}
		return tx.Bucket([]byte(bucketName)).Put([]byte(booking.ID), data)
	})
}

// GetBooking retrieves a booking by ID
func (b *BoltDB) GetBooking(id string) (*Booking, error) {
	var booking *Booking
	err := b.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket([]byte(bucketName)).Get([]byte(id))
		if data == nil {
			return fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return json.Unmarshal(data, &booking)
	})
	if err != nil {
		return nil, err
	}
	return booking, nil
}

// ListBookings returns all bookings, newest first
func (b *BoltDB) ListBookings() ([]*Booking, error) {
	bookings := make([]*Booking, 0)
	err := b.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(bucketName)).ForEach(func(k, v []byte) error {
			var booking Booking
			if err := json.Unmarshal(v, &booking); err != nil {
				return fmt.Errorf("unmarshaling booking %s: %w", k, err)
			}
			bookings = append(bookings, &booking)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	sort.SliceStable(bookings, func(i, j int) bool {
		return bookings[i].CreatedAt.After(bookings[j].CreatedAt)
	})
	return bookings, nil
}

// DeleteBooking removes a booking from the database
func (b *BoltDB) DeleteBooking(id string) error {
	return b.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(bucketName))
		if bucket.Get([]byte(id)) == nil {
			return fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return bucket.Delete([]byte(id))
	})
}

// Close closes the database connection
func (b *BoltDB) Close() error {
	return b.db.Close()
}
