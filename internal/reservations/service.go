package reservations

import (
	"context"
	"errors"
	"fmt"
	"time"

	"swiftbus/internal/stream"
	"swiftbus/internal/users"
	"swiftbus/pkg/cache"

	"github.com/google/uuid"
)

var (
	ErrInvalidBusID  = errors.New("invalid bus id")
	ErrInvalidUserID = errors.New("invalid user id")
)

const cacheKeyAvailability = "reservations:availability:%s"

// AvailabilityCacheKey is the cache key for a bus's anonymous availability
// snapshot. Exported so the bookings package can invalidate it after writes.
func AvailabilityCacheKey(busID string) string {
	return fmt.Sprintf(cacheKeyAvailability, busID)
}

type Service interface {
	Reserve(ctx context.Context, busID, userID string, req ReserveRequest) (*SeatBookingResponse, error)
	ReserveBatch(ctx context.Context, busID, userID string, req BatchReserveRequest) ([]SeatBookingResponse, error)
	Cancel(ctx context.Context, busID, userID string) ([]int, error)
	AdminReset(ctx context.Context, busID string) (int64, error)
	GetAvailability(ctx context.Context, busID string, viewer *Viewer) (*AvailabilitySnapshot, error)
	ListMySeats(ctx context.Context, userID string) ([]MySeatResponse, error)
}

type service struct {
	repo            Repository
	cache           cache.Service
	publisher       *stream.Publisher
	availabilityTTL time.Duration
}

func NewService(repo Repository, cacheService cache.Service, publisher *stream.Publisher, availabilityTTL time.Duration) Service {
	return &service{
		repo:            repo,
		cache:           cacheService,
		publisher:       publisher,
		availabilityTTL: availabilityTTL,
	}
}

func (s *service) Reserve(ctx context.Context, busID, userID string, req ReserveRequest) (*SeatBookingResponse, error) {
	responses, err := s.reserve(ctx, busID, userID, []SeatEntry{{
		Seat:           req.Seat,
		PassengerName:  req.PassengerName,
		PassengerPhone: req.PassengerPhone,
	}})
	if err != nil {
		return nil, err
	}
	return &responses[0], nil
}

func (s *service) ReserveBatch(ctx context.Context, busID, userID string, req BatchReserveRequest) ([]SeatBookingResponse, error) {
	entries := make([]SeatEntry, 0, len(req.Seats))
	for _, seat := range req.Seats {
		entries = append(entries, SeatEntry{
			Seat:           seat.Seat,
			PassengerName:  seat.PassengerName,
			PassengerPhone: seat.PassengerPhone,
		})
	}
	return s.reserve(ctx, busID, userID, entries)
}

func (s *service) reserve(ctx context.Context, busID, userID string, entries []SeatEntry) ([]SeatBookingResponse, error) {
	bid, err := uuid.Parse(busID)
	if err != nil {
		return nil, ErrInvalidBusID
	}
	uid, err := uuid.Parse(userID)
	if err != nil {
		return nil, ErrInvalidUserID
	}
	if len(entries) == 0 {
		return nil, ErrEmptyBatch
	}

	created, err := s.repo.ReserveSeats(ctx, bid, uid, entries)
	if err != nil {
		return nil, err
	}

	s.invalidateAvailability(ctx, busID)

	seats := make([]int, 0, len(created))
	responses := make([]SeatBookingResponse, 0, len(created))
	for i := range created {
		seats = append(seats, created[i].Seat)
		responses = append(responses, created[i].ToResponse())
	}

	s.publisher.Publish(ctx, &stream.BookingEvent{
		Type:   stream.EventReservationCreated,
		BusID:  busID,
		UserID: userID,
		Seats:  seats,
	})

	return responses, nil
}

func (s *service) Cancel(ctx context.Context, busID, userID string) ([]int, error) {
	bid, err := uuid.Parse(busID)
	if err != nil {
		return nil, ErrInvalidBusID
	}
	uid, err := uuid.Parse(userID)
	if err != nil {
		return nil, ErrInvalidUserID
	}

	released, err := s.repo.CancelUserSeats(ctx, bid, uid)
	if err != nil {
		return nil, err
	}

	s.invalidateAvailability(ctx, busID)

	s.publisher.Publish(ctx, &stream.BookingEvent{
		Type:   stream.EventReservationCancelled,
		BusID:  busID,
		UserID: userID,
		Seats:  released,
	})

	return released, nil
}

func (s *service) AdminReset(ctx context.Context, busID string) (int64, error) {
	bid, err := uuid.Parse(busID)
	if err != nil {
		return 0, ErrInvalidBusID
	}

	cleared, err := s.repo.ResetBus(ctx, bid)
	if err != nil {
		return 0, err
	}

	s.invalidateAvailability(ctx, busID)

	s.publisher.Publish(ctx, &stream.BookingEvent{
		Type:  stream.EventBusReset,
		BusID: busID,
	})

	return cleared, nil
}

// GetAvailability builds the role-scoped seat map. Only the anonymous view is
// cached: rider and admin views carry viewer-specific data.
func (s *service) GetAvailability(ctx context.Context, busID string, viewer *Viewer) (*AvailabilitySnapshot, error) {
	bid, err := uuid.Parse(busID)
	if err != nil {
		return nil, ErrInvalidBusID
	}

	anonymous := viewer == nil || viewer.UserID == ""
	key := fmt.Sprintf(cacheKeyAvailability, busID)

	if anonymous && s.cache != nil {
		var cached AvailabilitySnapshot
		if err := s.cache.Get(ctx, key, &cached); err == nil {
			return &cached, nil
		}
	}

	bus, seats, err := s.repo.GetBusWithSeats(ctx, bid)
	if err != nil {
		return nil, err
	}

	snapshot := &AvailabilitySnapshot{
		BusID:          bus.ID.String(),
		Name:           bus.Name,
		BusNumber:      bus.BusNumber,
		Operator:       bus.Operator,
		Origin:         bus.Origin,
		Destination:    bus.Destination,
		DepartureTime:  bus.DepartureTime,
		ArrivalTime:    bus.ArrivalTime,
		Duration:       bus.Duration,
		Price:          bus.Price,
		TotalSeats:     bus.TotalSeats,
		AvailableSeats: bus.AvailableSeats,
		IsActive:       bus.IsActive,
		BookedSeats:    make([]int, 0, len(seats)),
	}

	for i := range seats {
		snapshot.BookedSeats = append(snapshot.BookedSeats, seats[i].Seat)
	}

	if anonymous {
		if s.cache != nil {
			_ = s.cache.Set(ctx, key, snapshot, s.availabilityTTL)
		}
		return snapshot, nil
	}

	if viewer.Role == string(users.RoleAdmin) {
		snapshot.Bookings = make([]AdminSeatView, 0, len(seats))
		for i := range seats {
			snapshot.Bookings = append(snapshot.Bookings, AdminSeatView{
				Seat:           seats[i].Seat,
				UserID:         seats[i].UserID.String(),
				PassengerName:  seats[i].PassengerName,
				PassengerPhone: seats[i].PassengerPhone,
				CreatedAt:      seats[i].CreatedAt,
			})
		}
		return snapshot, nil
	}

	snapshot.MySeats = make([]int, 0)
	for i := range seats {
		if seats[i].UserID.String() == viewer.UserID {
			snapshot.MySeats = append(snapshot.MySeats, seats[i].Seat)
		}
	}
	return snapshot, nil
}

// ListMySeats returns the rider's live holds across all buses. This is the
// "what do I hold right now" view; the booking ledger keeps the history.
func (s *service) ListMySeats(ctx context.Context, userID string) ([]MySeatResponse, error) {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return nil, ErrInvalidUserID
	}

	seats, err := s.repo.ListUserSeats(ctx, uid)
	if err != nil {
		return nil, err
	}

	responses := make([]MySeatResponse, 0, len(seats))
	for i := range seats {
		responses = append(responses, seats[i].ToMySeatResponse())
	}
	return responses, nil
}

func (s *service) invalidateAvailability(ctx context.Context, busID string) {
	if s.cache == nil {
		return
	}
	_ = s.cache.Delete(ctx, fmt.Sprintf(cacheKeyAvailability, busID))
	_ = s.cache.DeletePattern(ctx, "buses:search:*")
}
