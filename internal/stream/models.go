package stream

import (
	"encoding/json"
	"time"
)

// EventType identifies a booking lifecycle event
type EventType string

const (
	EventBookingCreated       EventType = "booking.created"
	EventReservationCreated   EventType = "reservation.created"
	EventReservationCancelled EventType = "reservation.cancelled"
	EventBusReset             EventType = "bus.reset"
)

// BookingEvent is the message published to the booking-events topic for every
// committed seat mutation. Events are keyed by bus id so all events for one
// bus land on the same partition in order, which is what an external
// reconciler or auditor needs to replay the seat ledger.
type BookingEvent struct {
	ID         string    `json:"id"`
	Type       EventType `json:"type"`
	BusID      string    `json:"bus_id"`
	UserID     string    `json:"user_id,omitempty"`
	Seats      []int     `json:"seats,omitempty"`
	Reference  string    `json:"reference,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// GetPartitionKey returns the Kafka partition key for this event
func (e *BookingEvent) GetPartitionKey() string {
	return e.BusID
}

// ToJSON serializes the event for the wire
func (e *BookingEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}
