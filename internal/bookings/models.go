package bookings

import (
	"time"

	"swiftbus/internal/buses"

	"github.com/google/uuid"
)

// Booking is the durable ledger row for one booked seat. Unlike seat holds,
// ledger rows are never deleted: cancellation flips booking_status and
// payment_status in place so the record survives as history.
type Booking struct {
	ID             uuid.UUID     `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	Reference      string        `json:"reference" gorm:"size:32;uniqueIndex;not null"`
	UserID         uuid.UUID     `json:"user_id" gorm:"type:uuid;index;not null"`
	BusID          uuid.UUID     `json:"bus_id" gorm:"type:uuid;index;not null"`
	Seat           int           `json:"seat" gorm:"not null"`
	PassengerName  string        `json:"passenger_name" gorm:"size:255;not null"`
	PassengerPhone string        `json:"passenger_phone" gorm:"size:50"`
	PassengerEmail string        `json:"passenger_email" gorm:"size:255"`
	BookingStatus  BookingStatus `json:"booking_status" gorm:"type:varchar(20);not null;default:'CONFIRMED'"`
	PaymentStatus  PaymentStatus `json:"payment_status" gorm:"type:varchar(20);not null;default:'PAID'"`
	PaymentMethod  string        `json:"payment_method" gorm:"size:30"`
	TotalAmount    float64       `json:"total_amount" gorm:"not null"`
	CreatedAt      time.Time     `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt      time.Time     `json:"updated_at" gorm:"autoUpdateTime"`

	Bus buses.Bus `json:"-" gorm:"foreignKey:BusID;references:ID"`
}

func (Booking) TableName() string {
	return "bookings"
}

// BookingSeatRequest is one passenger/seat pair in a booking request
type BookingSeatRequest struct {
	Seat           int    `json:"seat" binding:"required"`
	PassengerName  string `json:"passenger_name" binding:"required,min=2,max=255"`
	PassengerPhone string `json:"passenger_phone" binding:"required,min=5,max=50"`
}

// CreateBookingRequest books one or more seats on a bus and records payment
type CreateBookingRequest struct {
	BusID          string               `json:"bus_id" binding:"required,uuid"`
	Seats          []BookingSeatRequest `json:"seats" binding:"required,min=1,dive"`
	PaymentMethod  string               `json:"payment_method" binding:"required,oneof=card upi netbanking wallet"`
	PassengerEmail string               `json:"passenger_email" binding:"omitempty,email"`
}

// BusSummary is the trip projection embedded in booking responses
type BusSummary struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	BusNumber     string    `json:"bus_number"`
	Operator      string    `json:"operator"`
	Origin        string    `json:"origin"`
	Destination   string    `json:"destination"`
	DepartureTime time.Time `json:"departure_time"`
	ArrivalTime   time.Time `json:"arrival_time"`
	Duration      string    `json:"duration"`
}

// BookingResponse is one ledger row with its trip details
type BookingResponse struct {
	ID             string      `json:"id"`
	Reference      string      `json:"reference"`
	Seat           int         `json:"seat"`
	PassengerName  string      `json:"passenger_name"`
	PassengerPhone string      `json:"passenger_phone"`
	PassengerEmail string      `json:"passenger_email,omitempty"`
	BookingStatus  string      `json:"booking_status"`
	PaymentStatus  string      `json:"payment_status"`
	PaymentMethod  string      `json:"payment_method"`
	TotalAmount    float64     `json:"total_amount"`
	CreatedAt      time.Time   `json:"created_at"`
	Bus            *BusSummary `json:"bus,omitempty"`
}

// CreateBookingResponse summarizes a committed booking request
type CreateBookingResponse struct {
	Bookings    []BookingResponse `json:"bookings"`
	TotalAmount float64           `json:"total_amount"`
}

func (b *Booking) ToResponse() BookingResponse {
	resp := BookingResponse{
		ID:             b.ID.String(),
		Reference:      b.Reference,
		Seat:           b.Seat,
		PassengerName:  b.PassengerName,
		PassengerPhone: b.PassengerPhone,
		PassengerEmail: b.PassengerEmail,
		BookingStatus:  b.BookingStatus.String(),
		PaymentStatus:  b.PaymentStatus.String(),
		PaymentMethod:  b.PaymentMethod,
		TotalAmount:    b.TotalAmount,
		CreatedAt:      b.CreatedAt,
	}
	if b.Bus.ID != uuid.Nil {
		resp.Bus = &BusSummary{
			ID:            b.Bus.ID.String(),
			Name:          b.Bus.Name,
			BusNumber:     b.Bus.BusNumber,
			Operator:      b.Bus.Operator,
			Origin:        b.Bus.Origin,
			Destination:   b.Bus.Destination,
			DepartureTime: b.Bus.DepartureTime,
			ArrivalTime:   b.Bus.ArrivalTime,
			Duration:      b.Bus.Duration,
		}
	}
	return resp
}
