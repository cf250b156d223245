package buses

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrBusNotFound        = errors.New("bus not found")
	ErrDuplicateBusNumber = errors.New("bus number already exists")
	ErrSeatsInUse         = errors.New("bus has booked seats")
)

type Repository interface {
	Create(ctx context.Context, bus *Bus) error
	GetByID(ctx context.Context, id uuid.UUID) (*Bus, error)
	List(ctx context.Context, query BusListQuery) ([]Bus, int64, error)
	SearchActive(ctx context.Context, query BusSearchQuery) ([]Bus, error)
	Update(ctx context.Context, bus *Bus) error
	Delete(ctx context.Context, id uuid.UUID) error
	BusNumberExists(ctx context.Context, busNumber string) (bool, error)
	BookedSeatCount(ctx context.Context, busID uuid.UUID) (int64, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, bus *Bus) error {
	err := r.db.WithContext(ctx).Create(bus).Error
	if err != nil && isUniqueViolation(err) {
		return ErrDuplicateBusNumber
	}
	return err
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Bus, error) {
	var bus Bus
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&bus).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBusNotFound
		}
		return nil, err
	}
	return &bus, nil
}

func (r *repository) List(ctx context.Context, query BusListQuery) ([]Bus, int64, error) {
	var result []Bus
	var totalCount int64

	if query.Page <= 0 {
		query.Page = 1
	}
	if query.Limit <= 0 {
		query.Limit = 10
	}

	baseQuery := r.db.WithContext(ctx).Model(&Bus{})

	if query.Search != "" {
		pattern := "%" + query.Search + "%"
		baseQuery = baseQuery.Where(
			"name ILIKE ? OR bus_number ILIKE ? OR operator ILIKE ? OR origin ILIKE ? OR destination ILIKE ?",
			pattern, pattern, pattern, pattern, pattern,
		)
	}

	switch query.Status {
	case "active":
		baseQuery = baseQuery.Where("is_active = ?", true)
	case "inactive":
		baseQuery = baseQuery.Where("is_active = ?", false)
	}

	if err := baseQuery.Count(&totalCount).Error; err != nil {
		return nil, 0, err
	}

	offset := (query.Page - 1) * query.Limit
	err := baseQuery.
		Order("created_at DESC").
		Offset(offset).
		Limit(query.Limit).
		Find(&result).Error

	return result, totalCount, err
}

func (r *repository) SearchActive(ctx context.Context, query BusSearchQuery) ([]Bus, error) {
	var result []Bus

	q := r.db.WithContext(ctx).Model(&Bus{}).Where("is_active = ?", true)

	if query.Origin != "" {
		q = q.Where("origin ILIKE ?", "%"+query.Origin+"%")
	}
	if query.Destination != "" {
		q = q.Where("destination ILIKE ?", "%"+query.Destination+"%")
	}
	if query.Date != "" {
		if day, err := time.Parse("2006-01-02", query.Date); err == nil {
			q = q.Where("departure_time >= ? AND departure_time < ?", day, day.AddDate(0, 0, 1))
		}
	}

	err := q.Order("departure_time ASC").Find(&result).Error
	return result, err
}

func (r *repository) Update(ctx context.Context, bus *Bus) error {
	result := r.db.WithContext(ctx).Model(&Bus{}).Where("id = ?", bus.ID).Select(
		"name", "operator", "origin", "destination", "departure_time", "arrival_time",
		"duration", "price", "bus_type", "amenities", "total_seats", "available_seats",
		"is_active", "updated_at",
	).Updates(bus)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrBusNotFound
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&Bus{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrBusNotFound
	}
	return nil
}

func (r *repository) BusNumberExists(ctx context.Context, busNumber string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&Bus{}).Where("bus_number = ?", busNumber).Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// BookedSeatCount queries the seat_bookings table directly to avoid importing
// the reservations package from here.
func (r *repository) BookedSeatCount(ctx context.Context, busID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Table("seat_bookings").Where("bus_id = ?", busID).Count(&count).Error
	return count, err
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "duplicate key value")
}
