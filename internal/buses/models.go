package buses

import (
	"time"

	"github.com/google/uuid"
)

const (
	MinSeats = 1
	MaxSeats = 80
)

// Bus is a scheduled bus service. AvailableSeats is derived state:
// available_seats == total_seats - count(seat_bookings) after every committed
// mutation, maintained by the reservations package inside the same
// transaction as the seat writes.
type Bus struct {
	ID             uuid.UUID `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	Name           string    `json:"name" gorm:"not null;size:255"`
	BusNumber      string    `json:"bus_number" gorm:"uniqueIndex;not null;size:50"`
	Operator       string    `json:"operator" gorm:"not null;size:255"`
	Origin         string    `json:"origin" gorm:"not null;size:255"`
	Destination    string    `json:"destination" gorm:"not null;size:255"`
	DepartureTime  time.Time `json:"departure_time" gorm:"not null"`
	ArrivalTime    time.Time `json:"arrival_time" gorm:"not null"`
	Duration       string    `json:"duration" gorm:"size:50"`
	Price          float64   `json:"price" gorm:"not null;check:price >= 0"`
	BusType        string    `json:"bus_type" gorm:"size:50"`
	Amenities      []string  `json:"amenities" gorm:"type:jsonb;serializer:json"`
	TotalSeats     int       `json:"total_seats" gorm:"not null;check:total_seats >= 1 AND total_seats <= 80"`
	AvailableSeats int       `json:"available_seats" gorm:"not null"`
	IsActive       bool      `json:"is_active" gorm:"not null;default:true"`
	CreatedAt      time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt      time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

func (Bus) TableName() string {
	return "buses"
}

type CreateBusRequest struct {
	Name          string    `json:"name" binding:"required,min=3,max=255"`
	BusNumber     string    `json:"bus_number" binding:"required,min=2,max=50"`
	Operator      string    `json:"operator" binding:"required,min=2,max=255"`
	Origin        string    `json:"origin" binding:"required,min=2,max=255"`
	Destination   string    `json:"destination" binding:"required,min=2,max=255"`
	DepartureTime time.Time `json:"departure_time" binding:"required"`
	ArrivalTime   time.Time `json:"arrival_time" binding:"required"`
	Duration      string    `json:"duration" binding:"required,max=50"`
	Price         float64   `json:"price" binding:"required,min=0"`
	BusType       string    `json:"bus_type" binding:"omitempty,max=50"`
	Amenities     []string  `json:"amenities"`
	TotalSeats    int       `json:"total_seats" binding:"required,min=1,max=80"`
}

type UpdateBusRequest struct {
	Name          *string    `json:"name" binding:"omitempty,min=3,max=255"`
	Operator      *string    `json:"operator" binding:"omitempty,min=2,max=255"`
	Origin        *string    `json:"origin" binding:"omitempty,min=2,max=255"`
	Destination   *string    `json:"destination" binding:"omitempty,min=2,max=255"`
	DepartureTime *time.Time `json:"departure_time"`
	ArrivalTime   *time.Time `json:"arrival_time"`
	Duration      *string    `json:"duration" binding:"omitempty,max=50"`
	Price         *float64   `json:"price" binding:"omitempty,min=0"`
	BusType       *string    `json:"bus_type" binding:"omitempty,max=50"`
	Amenities     []string   `json:"amenities"`
	TotalSeats    *int       `json:"total_seats" binding:"omitempty,min=1,max=80"`
	IsActive      *bool      `json:"is_active"`
}

type BusListQuery struct {
	Page   int    `form:"page" binding:"omitempty,min=1"`
	Limit  int    `form:"limit" binding:"omitempty,min=1,max=100"`
	Search string `form:"search"`
	Status string `form:"status" binding:"omitempty,oneof=all active inactive"`
}

type BusSearchQuery struct {
	Origin      string `form:"origin"`
	Destination string `form:"destination"`
	Date        string `form:"date"` // YYYY-MM-DD
}

type BusResponse struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	BusNumber      string    `json:"bus_number"`
	Operator       string    `json:"operator"`
	Origin         string    `json:"origin"`
	Destination    string    `json:"destination"`
	DepartureTime  time.Time `json:"departure_time"`
	ArrivalTime    time.Time `json:"arrival_time"`
	Duration       string    `json:"duration"`
	Price          float64   `json:"price"`
	BusType        string    `json:"bus_type"`
	Amenities      []string  `json:"amenities"`
	TotalSeats     int       `json:"total_seats"`
	AvailableSeats int       `json:"available_seats"`
	IsActive       bool      `json:"is_active"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

type BusListResponse struct {
	Buses      []BusResponse `json:"buses"`
	Pagination Pagination    `json:"pagination"`
}

type Pagination struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
	Pages int   `json:"pages"`
}

func (b *Bus) ToResponse() BusResponse {
	amenities := b.Amenities
	if amenities == nil {
		amenities = []string{}
	}
	return BusResponse{
		ID:             b.ID.String(),
		Name:           b.Name,
		BusNumber:      b.BusNumber,
		Operator:       b.Operator,
		Origin:         b.Origin,
		Destination:    b.Destination,
		DepartureTime:  b.DepartureTime,
		ArrivalTime:    b.ArrivalTime,
		Duration:       b.Duration,
		Price:          b.Price,
		BusType:        b.BusType,
		Amenities:      amenities,
		TotalSeats:     b.TotalSeats,
		AvailableSeats: b.AvailableSeats,
		IsActive:       b.IsActive,
		CreatedAt:      b.CreatedAt,
		UpdatedAt:      b.UpdatedAt,
	}
}
