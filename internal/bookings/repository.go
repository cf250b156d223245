package bookings

import (
	"context"
	"errors"
	"strings"

	"swiftbus/internal/reservations"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrBookingNotFound    = errors.New("booking not found")
	ErrDuplicateReference = errors.New("booking reference collision")
)

type Repository interface {
	CreateWithSeats(ctx context.Context, userID, busID uuid.UUID, entries []reservations.SeatEntry, email, paymentMethod string) ([]Booking, error)
	ListForUser(ctx context.Context, userID uuid.UUID) ([]Booking, error)
	GetByReference(ctx context.Context, userID uuid.UUID, reference string) (*Booking, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// CreateWithSeats commits the seat holds and their ledger rows in one
// transaction. If any part fails nothing is written: there is no window where
// a seat is held without a ledger row or vice versa.
func (r *repository) CreateWithSeats(ctx context.Context, userID, busID uuid.UUID, entries []reservations.SeatEntry, email, paymentMethod string) ([]Booking, error) {
	var created []Booking

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		bus, _, err := reservations.ReserveSeatsTx(tx, busID, userID, entries)
		if err != nil {
			return err
		}

		rows := make([]Booking, 0, len(entries))
		for _, e := range entries {
			rows = append(rows, Booking{
				Reference:      NewReference(),
				UserID:         userID,
				BusID:          busID,
				Seat:           e.Seat,
				PassengerName:  e.PassengerName,
				PassengerPhone: e.PassengerPhone,
				PassengerEmail: email,
				BookingStatus:  BookingConfirmed,
				PaymentStatus:  PaymentPaid,
				PaymentMethod:  paymentMethod,
				TotalAmount:    bus.Price,
			})
		}
		if err := tx.Omit("Bus").Create(&rows).Error; err != nil {
			if strings.Contains(err.Error(), "duplicate key value") {
				return ErrDuplicateReference
			}
			return err
		}

		for i := range rows {
			rows[i].Bus = *bus
		}
		created = rows
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (r *repository) ListForUser(ctx context.Context, userID uuid.UUID) ([]Booking, error) {
	var result []Booking
	err := r.db.WithContext(ctx).
		Preload("Bus").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&result).Error
	return result, err
}

// GetByReference is owner-scoped: another user's reference reads as not found
// rather than forbidden, so references cannot be probed.
func (r *repository) GetByReference(ctx context.Context, userID uuid.UUID, reference string) (*Booking, error) {
	var booking Booking
	err := r.db.WithContext(ctx).
		Preload("Bus").
		Where("reference = ? AND user_id = ?", reference, userID).
		First(&booking).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	return &booking, nil
}
