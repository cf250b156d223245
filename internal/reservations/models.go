package reservations

import (
	"time"

	"swiftbus/internal/buses"

	"github.com/google/uuid"
)

// SeatBooking is one held seat on one bus. It exists only while the seat is
// held: created when a reservation commits, deleted on cancel or admin reset.
// The (bus_id, seat) unique index is what makes a double-booked seat
// unrepresentable.
type SeatBooking struct {
	ID             uuid.UUID `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	BusID          uuid.UUID `json:"bus_id" gorm:"type:uuid;not null;uniqueIndex:uniq_seat_per_bus"`
	UserID         uuid.UUID `json:"user_id" gorm:"type:uuid;index;not null"`
	Seat           int       `json:"seat" gorm:"not null;uniqueIndex:uniq_seat_per_bus"`
	PassengerName  string    `json:"passenger_name" gorm:"size:255"`
	PassengerPhone string    `json:"passenger_phone" gorm:"size:50"`
	Status         Status    `json:"status" gorm:"type:varchar(20);not null;default:'CONFIRMED'"`
	CreatedAt      time.Time `json:"created_at" gorm:"autoCreateTime"`

	Bus buses.Bus `json:"-" gorm:"foreignKey:BusID;references:ID"`
}

func (SeatBooking) TableName() string {
	return "seat_bookings"
}

// Status of a held seat. A seat row is either CONFIRMED or deleted; CANCELLED
// appears only transiently in responses describing a just-removed hold.
type Status string

const (
	StatusConfirmed Status = "CONFIRMED"
	StatusCancelled Status = "CANCELLED"
)

func (s Status) String() string {
	return string(s)
}

// ReserveRequest is the single-seat reservation payload
type ReserveRequest struct {
	Seat           int    `json:"seat" binding:"required"`
	PassengerName  string `json:"passenger_name" binding:"required,min=2,max=255"`
	PassengerPhone string `json:"passenger_phone" binding:"required,min=5,max=50"`
}

// BatchSeatRequest is one entry of a batch reservation
type BatchSeatRequest struct {
	Seat           int    `json:"seat" binding:"required"`
	PassengerName  string `json:"passenger_name" binding:"required,min=2,max=255"`
	PassengerPhone string `json:"passenger_phone" binding:"required,min=5,max=50"`
}

// BatchReserveRequest is the batch reservation payload
type BatchReserveRequest struct {
	Seats []BatchSeatRequest `json:"seats" binding:"required,dive"`
}

// SeatBookingResponse describes one committed seat hold
type SeatBookingResponse struct {
	ID             string    `json:"id"`
	BusID          string    `json:"bus_id"`
	Seat           int       `json:"seat"`
	PassengerName  string    `json:"passenger_name"`
	PassengerPhone string    `json:"passenger_phone"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"created_at"`
}

func (sb *SeatBooking) ToResponse() SeatBookingResponse {
	return SeatBookingResponse{
		ID:             sb.ID.String(),
		BusID:          sb.BusID.String(),
		Seat:           sb.Seat,
		PassengerName:  sb.PassengerName,
		PassengerPhone: sb.PassengerPhone,
		Status:         sb.Status.String(),
		CreatedAt:      sb.CreatedAt,
	}
}

// Viewer identifies who is asking for an availability snapshot
type Viewer struct {
	UserID string
	Role   string
}

// AvailabilitySnapshot is the role-scoped read of a bus's seat map.
// BookedSeats is visible to everyone; MySeats only to the authenticated
// rider it belongs to; Bookings (per-seat rider identity and timestamps)
// only to administrators.
type AvailabilitySnapshot struct {
	BusID          string          `json:"bus_id"`
	Name           string          `json:"name"`
	BusNumber      string          `json:"bus_number"`
	Operator       string          `json:"operator"`
	Origin         string          `json:"origin"`
	Destination    string          `json:"destination"`
	DepartureTime  time.Time       `json:"departure_time"`
	ArrivalTime    time.Time       `json:"arrival_time"`
	Duration       string          `json:"duration"`
	Price          float64         `json:"price"`
	TotalSeats     int             `json:"total_seats"`
	AvailableSeats int             `json:"available_seats"`
	IsActive       bool            `json:"is_active"`
	BookedSeats    []int           `json:"booked_seats"`
	MySeats        []int           `json:"my_seats,omitempty"`
	Bookings       []AdminSeatView `json:"bookings,omitempty"`
}

// AdminSeatView exposes per-seat holder identity to administrators
type AdminSeatView struct {
	Seat           int       `json:"seat"`
	UserID         string    `json:"user_id"`
	PassengerName  string    `json:"passenger_name"`
	PassengerPhone string    `json:"passenger_phone"`
	CreatedAt      time.Time `json:"created_at"`
}

// TripSummary is the trip projection embedded in a rider's live-hold listing
type TripSummary struct {
	BusID         string    `json:"bus_id"`
	Name          string    `json:"name"`
	BusNumber     string    `json:"bus_number"`
	Operator      string    `json:"operator"`
	Origin        string    `json:"origin"`
	Destination   string    `json:"destination"`
	DepartureTime time.Time `json:"departure_time"`
	ArrivalTime   time.Time `json:"arrival_time"`
	Duration      string    `json:"duration"`
	Price         float64   `json:"price"`
}

// MySeatResponse is one of the rider's current seat holds with its trip.
// Unlike ledger rows, these disappear when the hold is cancelled or reset.
type MySeatResponse struct {
	ID             string      `json:"id"`
	Seat           int         `json:"seat"`
	PassengerName  string      `json:"passenger_name"`
	PassengerPhone string      `json:"passenger_phone"`
	Status         string      `json:"status"`
	CreatedAt      time.Time   `json:"created_at"`
	Bus            TripSummary `json:"bus"`
}

func (sb *SeatBooking) ToMySeatResponse() MySeatResponse {
	return MySeatResponse{
		ID:             sb.ID.String(),
		Seat:           sb.Seat,
		PassengerName:  sb.PassengerName,
		PassengerPhone: sb.PassengerPhone,
		Status:         sb.Status.String(),
		CreatedAt:      sb.CreatedAt,
		Bus: TripSummary{
			BusID:         sb.Bus.ID.String(),
			Name:          sb.Bus.Name,
			BusNumber:     sb.Bus.BusNumber,
			Operator:      sb.Bus.Operator,
			Origin:        sb.Bus.Origin,
			Destination:   sb.Bus.Destination,
			DepartureTime: sb.Bus.DepartureTime,
			ArrivalTime:   sb.Bus.ArrivalTime,
			Duration:      sb.Bus.Duration,
			Price:         sb.Bus.Price,
		},
	}
}
