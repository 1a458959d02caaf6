package booking

import (
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/zombor/onvacation-ocr/internal/extraction"
)

var _ = Describe("BoltDB", func() {
	var db *BoltDB

	BeforeEach(func() {
		var err error
		db, err = NewBoltDB(filepath.Join(GinkgoT().TempDir(), "test.db"))
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		if db != nil {
			db.Close()
		}
	})

	newBooking := func(id string, createdAt time.Time) *Booking {
		return &Booking{
			ID:        id,
			Filename:  id + ".txt",
			Config:    extraction.Config{MaxValue: 6, DigitMap: map[int]int{8: 3}},
			Result:    extraction.Parse(sampleTranscript, extraction.DefaultConfig()),
			CreatedAt: createdAt,
		}
	}

	Describe("SaveBooking and GetBooking", func() {
		It("should round-trip the booking", func() {
			original := newBooking("b1", time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC))
			Expect(db.SaveBooking(original)).To(Succeed())

			saved, err := db.GetBooking("b1")
			Expect(err).NotTo(HaveOccurred())
			Expect(saved.Filename).To(Equal("b1.txt"))
			Expect(saved.Config).To(Equal(original.Config))
			Expect(saved.Result.Origin).To(HaveValue(Equal("Bogotá")))
			Expect(saved.Result.Rooms).To(Equal(original.Result.Rooms))
			Expect(saved.Result.Totals).To(Equal(original.Result.Totals))
		})

		It("returns ErrNotFound for an unknown id", func() {
			_, err := db.GetBooking("missing")
			Expect(err).To(MatchError(ErrNotFound))
		})
	})

	Describe("ListBookings", func() {
		When("bookings exist", func() {
			BeforeEach(func() {
				Expect(db.SaveBooking(newBooking("old", time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)))).To(Succeed())
				Expect(db.SaveBooking(newBooking("new", time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)))).To(Succeed())
			})

			It("should return them newest first", func() {
				bookings, err := db.ListBookings()
				Expect(err).NotTo(HaveOccurred())
				Expect(bookings).To(HaveLen(2))
				Expect(bookings[0].ID).To(Equal("new"))
				Expect(bookings[1].ID).To(Equal("old"))
			})
		})

		When("the database is empty", func() {
			It("should return an empty slice", func() {
				bookings, err := db.ListBookings()
				Expect(err).NotTo(HaveOccurred())
				Expect(bookings).NotTo(BeNil())
				Expect(bookings).To(BeEmpty())
			})
		})
	})

	Describe("DeleteBooking", func() {
		It("should remove the booking", func() {
			Expect(db.SaveBooking(newBooking("b1", time.Now()))).To(Succeed())
			Expect(db.DeleteBooking("b1")).To(Succeed())
			_, err := db.GetBooking("b1")
			Expect(err).To(MatchError(ErrNotFound))
		})

		It("returns ErrNotFound for an unknown id", func() {
			Expect(db.DeleteBooking("missing")).To(MatchError(ErrNotFound))
		})
	})
})
