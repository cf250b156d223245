package reservations

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"swiftbus/internal/buses"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrBusNotFound    = errors.New("bus not found")
	ErrBusInactive    = errors.New("bus is not open for booking")
	ErrSeatOutOfRange = errors.New("seat number out of range")
	ErrEmptyBatch     = errors.New("no seats requested")
	ErrNoReservation  = errors.New("no reservation found for user")
)

// SeatConflictError reports which requested seats are already held. The whole
// request fails; no partial holds are left behind.
type SeatConflictError struct {
	Seats []int
}

func (e *SeatConflictError) Error() string {
	parts := make([]string, 0, len(e.Seats))
	for _, s := range e.Seats {
		parts = append(parts, fmt.Sprintf("%d", s))
	}
	return "seats already booked: " + strings.Join(parts, ", ")
}

// SeatEntry is one seat to reserve with its passenger details
type SeatEntry struct {
	Seat           int
	PassengerName  string
	PassengerPhone string
}

type Repository interface {
	ReserveSeats(ctx context.Context, busID, userID uuid.UUID, entries []SeatEntry) ([]SeatBooking, error)
	CancelUserSeats(ctx context.Context, busID, userID uuid.UUID) ([]int, error)
	ResetBus(ctx context.Context, busID uuid.UUID) (int64, error)
	GetBusWithSeats(ctx context.Context, busID uuid.UUID) (*buses.Bus, []SeatBooking, error)
	ListUserSeats(ctx context.Context, userID uuid.UUID) ([]SeatBooking, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// ReserveSeats commits a batch of seat holds atomically.
func (r *repository) ReserveSeats(ctx context.Context, busID, userID uuid.UUID, entries []SeatEntry) ([]SeatBooking, error) {
	if len(entries) == 0 {
		return nil, ErrEmptyBatch
	}

	var created []SeatBooking

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		_, rows, err := ReserveSeatsTx(tx, busID, userID, entries)
		if err != nil {
			return err
		}
		created = rows
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// ReserveSeatsTx performs the seat-hold write inside an existing transaction.
// The bus row is locked FOR UPDATE for the duration of the transaction, so
// concurrent writers for the same bus serialize: exactly one sees a contested
// seat as free. The unique (bus_id, seat) index backstops the lock in case a
// write slips through outside this path. The bookings package calls this to
// commit a ledger row and its seat holds in one transaction.
func ReserveSeatsTx(tx *gorm.DB, busID, userID uuid.UUID, entries []SeatEntry) (*buses.Bus, []SeatBooking, error) {
	if len(entries) == 0 {
		return nil, nil, ErrEmptyBatch
	}

	var bus buses.Bus
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", busID).
		First(&bus).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrBusNotFound
		}
		return nil, nil, err
	}

	if !bus.IsActive {
		return nil, nil, ErrBusInactive
	}

	seen := make(map[int]bool, len(entries))
	for _, e := range entries {
		if e.Seat < 1 || e.Seat > bus.TotalSeats {
			return nil, nil, ErrSeatOutOfRange
		}
		if seen[e.Seat] {
			return nil, nil, &SeatConflictError{Seats: []int{e.Seat}}
		}
		seen[e.Seat] = true
	}

	requested := make([]int, 0, len(entries))
	for _, e := range entries {
		requested = append(requested, e.Seat)
	}

	var taken []int
	if err := tx.Model(&SeatBooking{}).
		Where("bus_id = ? AND seat IN ?", busID, requested).
		Pluck("seat", &taken).Error; err != nil {
		return nil, nil, err
	}
	if len(taken) > 0 {
		sort.Ints(taken)
		return nil, nil, &SeatConflictError{Seats: taken}
	}

	rows := make([]SeatBooking, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, SeatBooking{
			BusID:          busID,
			UserID:         userID,
			Seat:           e.Seat,
			PassengerName:  e.PassengerName,
			PassengerPhone: e.PassengerPhone,
			Status:         StatusConfirmed,
		})
	}
	if err := tx.Omit("Bus").Create(&rows).Error; err != nil {
		if isUniqueViolation(err) {
			sort.Ints(requested)
			return nil, nil, &SeatConflictError{Seats: requested}
		}
		return nil, nil, err
	}

	if err := recomputeAvailable(tx, busID); err != nil {
		return nil, nil, err
	}

	return &bus, rows, nil
}

// CancelUserSeats releases every seat the user holds on the bus and marks the
// matching ledger rows cancelled and refunded, all in one transaction.
func (r *repository) CancelUserSeats(ctx context.Context, busID, userID uuid.UUID) ([]int, error) {
	var released []int

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var bus buses.Bus
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", busID).
			First(&bus).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrBusNotFound
			}
			return err
		}

		var seats []int
		if err := tx.Model(&SeatBooking{}).
			Where("bus_id = ? AND user_id = ?", busID, userID).
			Pluck("seat", &seats).Error; err != nil {
			return err
		}
		if len(seats) == 0 {
			return ErrNoReservation
		}

		if err := tx.Where("bus_id = ? AND user_id = ?", busID, userID).
			Delete(&SeatBooking{}).Error; err != nil {
			return err
		}

		// Ledger rows are kept for the record; updated via raw table access
		// to avoid importing the bookings package from here.
		if err := tx.Table("bookings").
			Where("bus_id = ? AND user_id = ? AND booking_status = ?", busID, userID, "CONFIRMED").
			Updates(map[string]interface{}{
				"booking_status": "CANCELLED",
				"payment_status": "REFUNDED",
			}).Error; err != nil {
			return err
		}

		if err := recomputeAvailable(tx, busID); err != nil {
			return err
		}

		sort.Ints(seats)
		released = seats
		return nil
	})
	if err != nil {
		return nil, err
	}
	return released, nil
}

// ResetBus clears every hold on the bus and restores full availability.
// Returns how many holds were cleared.
func (r *repository) ResetBus(ctx context.Context, busID uuid.UUID) (int64, error) {
	var cleared int64

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var bus buses.Bus
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", busID).
			First(&bus).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrBusNotFound
			}
			return err
		}

		result := tx.Where("bus_id = ?", busID).Delete(&SeatBooking{})
		if result.Error != nil {
			return result.Error
		}
		cleared = result.RowsAffected

		if err := tx.Table("bookings").
			Where("bus_id = ? AND booking_status = ?", busID, "CONFIRMED").
			Updates(map[string]interface{}{
				"booking_status": "CANCELLED",
				"payment_status": "REFUNDED",
			}).Error; err != nil {
			return err
		}

		return tx.Model(&buses.Bus{}).
			Where("id = ?", busID).
			Update("available_seats", gorm.Expr("total_seats")).Error
	})
	if err != nil {
		return 0, err
	}
	return cleared, nil
}

// GetBusWithSeats reads the bus and its current holds. No lock: snapshots are
// advisory and the write path revalidates everything.
func (r *repository) GetBusWithSeats(ctx context.Context, busID uuid.UUID) (*buses.Bus, []SeatBooking, error) {
	var bus buses.Bus
	err := r.db.WithContext(ctx).Where("id = ?", busID).First(&bus).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrBusNotFound
		}
		return nil, nil, err
	}

	var seats []SeatBooking
	err = r.db.WithContext(ctx).
		Where("bus_id = ?", busID).
		Order("seat ASC").
		Find(&seats).Error
	if err != nil {
		return nil, nil, err
	}

	return &bus, seats, nil
}

// ListUserSeats returns the rider's live holds across all buses, newest
// first, each joined with its trip. Cancelled holds are deleted rows and so
// never appear here; the booking ledger is where history lives.
func (r *repository) ListUserSeats(ctx context.Context, userID uuid.UUID) ([]SeatBooking, error) {
	var seats []SeatBooking
	err := r.db.WithContext(ctx).
		Preload("Bus").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&seats).Error
	return seats, err
}

// recomputeAvailable derives available_seats from the holds table inside the
// same transaction, so the counter can never drift from the rows.
func recomputeAvailable(tx *gorm.DB, busID uuid.UUID) error {
	return tx.Model(&buses.Bus{}).
		Where("id = ?", busID).
		Update("available_seats", gorm.Expr(
			"total_seats - (SELECT COUNT(*) FROM seat_bookings WHERE bus_id = ?)", busID,
		)).Error
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "duplicate key value")
}
