package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/ThebeLedwaba/aurarent/models"

	"golang.org/x/exp/slices"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// blockingStatuses reserve a date range for conflict purposes.
var blockingStatuses = []string{models.BookingStatusConfirmed, models.BookingStatusPaid}

// terminalStatuses admit no further transitions.
var terminalStatuses = []string{models.BookingStatusPaid, models.BookingStatusCancelled}

// DateRange is a booked interval as shown on the listing calendar.
type DateRange struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

// BookingService owns the booking lifecycle: creation with the
// availability-conflict check and price computation, the status machine
// driven by the payment webhook, and the read surface.
//
// Interval semantics: bounds are inclusive on both ends
// (start_date <= newEnd AND end_date >= newStart), so back-to-back stays
// sharing a boundary date conflict.
type BookingService interface {
	CreateBooking(ctx context.Context, renterID, propertyID uint, start, end time.Time) (*models.Booking, error)
	UpdateBookingStatus(ctx context.Context, bookingID uint, status string, paymentReference string) (*models.Booking, error)
	ConfirmBooking(ctx context.Context, bookingID, actorID uint) (*models.Booking, error)
	CancelBooking(ctx context.Context, bookingID, actorID uint) (*models.Booking, error)
	GetBookingByID(ctx context.Context, bookingID uint) (*models.Booking, error)
	GetUserBookings(ctx context.Context, renterID uint) ([]models.Booking, error)
	ListBookedDateRanges(ctx context.Context, propertyID uint) ([]DateRange, error)
}

type bookingService struct {
	db *gorm.DB
}

func NewBookingService(db *gorm.DB) BookingService {
	return &bookingService{db: db}
}

// CreateBooking validates the range, checks for conflicts against
// CONFIRMED/PAID bookings and inserts a PENDING booking with the computed
// price. The check and the insert run in one transaction holding a lock
// on the property row, so two concurrent creates for the same property
// cannot both pass the check.
func (s *bookingService) CreateBooking(ctx context.Context, renterID, propertyID uint, start, end time.Time) (*models.Booking, error) {
	if !start.Before(end) {
		return nil, fmt.Errorf("%w: start date must precede end date", ErrValidation)
	}

	var booking *models.Booking
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		q := tx
		// SQLite (used by the tests) has no row locks and serializes
		// writers on its own; every production dialect takes the lock.
		if tx.Dialector.Name() != "sqlite" {
			q = tx.Clauses(clause.Locking{Strength: "UPDATE"})
		}

		var property models.Property
		if err := q.First(&property, propertyID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: property %d", ErrNotFound, propertyID)
			}
			return err
		}

		if property.Status != models.PropertyStatusAvailable {
			return fmt.Errorf("%w: property is not open for booking", ErrConflict)
		}

		var count int64
		if err := tx.Model(&models.Booking{}).
			Where("property_id = ? AND status IN ? AND start_date <= ? AND end_date >= ?",
				propertyID, blockingStatuses, end, start).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrConflict
		}

		// Minimum charge is one day even when the raw difference rounds
		// to zero. The price is never trusted from client input.
		days := int(math.Ceil(end.Sub(start).Hours() / 24))
		if days < 1 {
			days = 1
		}

		booking = &models.Booking{
			PropertyID: propertyID,
			RenterID:   renterID,
			StartDate:  start,
			EndDate:    end,
			TotalPrice: float64(days) * property.Price,
			Status:     models.BookingStatusPending,
		}
		return tx.Create(booking).Error
	})
	if err != nil {
		return nil, err
	}
	return booking, nil
}

// UpdateBookingStatus applies a status transition. It is the only path
// into PAID and is idempotent under at-least-once webhook delivery:
// replaying the same confirmation leaves the booking untouched; a
// different payment reference against a PAID booking is a conflict.
func (s *bookingService) UpdateBookingStatus(ctx context.Context, bookingID uint, status string, paymentReference string) (*models.Booking, error) {
	var booking models.Booking
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&booking, bookingID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: booking %d", ErrNotFound, bookingID)
			}
			return err
		}

		if slices.Contains(terminalStatuses, booking.Status) {
			if booking.Status == models.BookingStatusPaid && status == models.BookingStatusPaid &&
				booking.PaymentReference != nil && *booking.PaymentReference == paymentReference {
				// Webhook replay; nothing to do.
				return nil
			}
			return fmt.Errorf("%w: booking is already %s", ErrConflict, booking.Status)
		}

		switch status {
		case models.BookingStatusPaid:
			if booking.Status != models.BookingStatusPending {
				return fmt.Errorf("%w: only pending bookings can be paid", ErrConflict)
			}
			booking.Status = models.BookingStatusPaid
			booking.PaymentReference = &paymentReference
		case models.BookingStatusConfirmed:
			if booking.Status != models.BookingStatusPending {
				return fmt.Errorf("%w: only pending bookings can be confirmed", ErrConflict)
			}
			// Overlapping PENDING requests are allowed to coexist, so the
			// range has to be re-checked when one of them is accepted;
			// otherwise confirming two of them would leave two CONFIRMED
			// bookings on the same dates.
			var count int64
			if err := tx.Model(&models.Booking{}).
				Where("property_id = ? AND id <> ? AND status IN ? AND start_date <= ? AND end_date >= ?",
					booking.PropertyID, booking.ID, blockingStatuses, booking.EndDate, booking.StartDate).
				Count(&count).Error; err != nil {
				return err
			}
			if count > 0 {
				return ErrConflict
			}
			booking.Status = models.BookingStatusConfirmed
		case models.BookingStatusCancelled:
			booking.Status = models.BookingStatusCancelled
		default:
			return fmt.Errorf("%w: unknown booking status %q", ErrValidation, status)
		}

		return tx.Save(&booking).Error
	})
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

// ConfirmBooking is the landlord accepting a pending request.
func (s *bookingService) ConfirmBooking(ctx context.Context, bookingID, actorID uint) (*models.Booking, error) {
	booking, err := s.loadWithProperty(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.Property == nil || booking.Property.OwnerID != actorID {
		return nil, fmt.Errorf("%w: only the property owner can confirm", ErrUnauthorized)
	}
	return s.UpdateBookingStatus(ctx, bookingID, models.BookingStatusConfirmed, "")
}

// CancelBooking frees the date range. Allowed from PENDING or CONFIRMED,
// by the renter or the property owner; no price is charged.
func (s *bookingService) CancelBooking(ctx context.Context, bookingID, actorID uint) (*models.Booking, error) {
	booking, err := s.loadWithProperty(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	isRenter := booking.RenterID == actorID
	isOwner := booking.Property != nil && booking.Property.OwnerID == actorID
	if !isRenter && !isOwner {
		return nil, fmt.Errorf("%w: booking %d", ErrUnauthorized, bookingID)
	}
	if booking.Status != models.BookingStatusPending && booking.Status != models.BookingStatusConfirmed {
		return nil, fmt.Errorf("%w: booking is already %s", ErrConflict, booking.Status)
	}
	return s.UpdateBookingStatus(ctx, bookingID, models.BookingStatusCancelled, "")
}

func (s *bookingService) GetBookingByID(ctx context.Context, bookingID uint) (*models.Booking, error) {
	return s.loadWithProperty(ctx, bookingID)
}

func (s *bookingService) GetUserBookings(ctx context.Context, renterID uint) ([]models.Booking, error) {
	var bookings []models.Booking
	err := s.db.WithContext(ctx).
		Preload("Property").
		Where("renter_id = ?", renterID).
		Order("created_at DESC").
		Find(&bookings).Error
	return bookings, err
}

// ListBookedDateRanges returns the intervals shown as unavailable on the
// listing calendar. PENDING bookings are included to shrink the window in
// which two renters pick the same dates; this is display only and
// enforces nothing.
func (s *bookingService) ListBookedDateRanges(ctx context.Context, propertyID uint) ([]DateRange, error) {
	var bookings []models.Booking
	err := s.db.WithContext(ctx).
		Select("start_date", "end_date").
		Where("property_id = ? AND status IN ?", propertyID,
			[]string{models.BookingStatusPending, models.BookingStatusConfirmed, models.BookingStatusPaid}).
		Order("start_date ASC").
		Find(&bookings).Error
	if err != nil {
		return nil, err
	}

	ranges := make([]DateRange, 0, len(bookings))
	for _, b := range bookings {
		ranges = append(ranges, DateRange{From: b.StartDate, To: b.EndDate})
	}
	return ranges, nil
}

func (s *bookingService) loadWithProperty(ctx context.Context, bookingID uint) (*models.Booking, error) {
	var booking models.Booking
	err := s.db.WithContext(ctx).Preload("Property").First(&booking, bookingID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: booking %d", ErrNotFound, bookingID)
		}
		return nil, err
	}
	return &booking, nil
}
