package bookings

import (
	"context"
	"errors"

	"swiftbus/internal/reservations"
	"swiftbus/internal/stream"
	"swiftbus/pkg/cache"

	"github.com/google/uuid"
)

var ErrInvalidID = errors.New("invalid id")

type Service interface {
	CreateBooking(ctx context.Context, userID string, req CreateBookingRequest) (*CreateBookingResponse, error)
	ListBookings(ctx context.Context, userID string) ([]BookingResponse, error)
	GetBooking(ctx context.Context, userID, reference string) (*BookingResponse, error)
}

type service struct {
	repo      Repository
	cache     cache.Service
	publisher *stream.Publisher
}

func NewService(repo Repository, cacheService cache.Service, publisher *stream.Publisher) Service {
	return &service{
		repo:      repo,
		cache:     cacheService,
		publisher: publisher,
	}
}

func (s *service) CreateBooking(ctx context.Context, userID string, req CreateBookingRequest) (*CreateBookingResponse, error) {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return nil, ErrInvalidID
	}
	busID, err := uuid.Parse(req.BusID)
	if err != nil {
		return nil, reservations.ErrInvalidBusID
	}

	entries := make([]reservations.SeatEntry, 0, len(req.Seats))
	for _, seat := range req.Seats {
		entries = append(entries, reservations.SeatEntry{
			Seat:           seat.Seat,
			PassengerName:  seat.PassengerName,
			PassengerPhone: seat.PassengerPhone,
		})
	}

	created, err := s.repo.CreateWithSeats(ctx, uid, busID, entries, req.PassengerEmail, req.PaymentMethod)
	if err != nil {
		return nil, err
	}

	s.invalidateCaches(ctx, req.BusID)

	resp := &CreateBookingResponse{
		Bookings: make([]BookingResponse, 0, len(created)),
	}
	for i := range created {
		resp.Bookings = append(resp.Bookings, created[i].ToResponse())
		resp.TotalAmount += created[i].TotalAmount

		s.publisher.Publish(ctx, &stream.BookingEvent{
			Type:      stream.EventBookingCreated,
			BusID:     req.BusID,
			UserID:    userID,
			Seats:     []int{created[i].Seat},
			Reference: created[i].Reference,
		})
	}

	return resp, nil
}

func (s *service) ListBookings(ctx context.Context, userID string) ([]BookingResponse, error) {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return nil, ErrInvalidID
	}

	result, err := s.repo.ListForUser(ctx, uid)
	if err != nil {
		return nil, err
	}

	responses := make([]BookingResponse, 0, len(result))
	for i := range result {
		responses = append(responses, result[i].ToResponse())
	}
	return responses, nil
}

func (s *service) GetBooking(ctx context.Context, userID, reference string) (*BookingResponse, error) {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return nil, ErrInvalidID
	}

	booking, err := s.repo.GetByReference(ctx, uid, reference)
	if err != nil {
		return nil, err
	}

	resp := booking.ToResponse()
	return &resp, nil
}

func (s *service) invalidateCaches(ctx context.Context, busID string) {
	if s.cache == nil {
		return
	}
	_ = s.cache.Delete(ctx, reservations.AvailabilityCacheKey(busID))
	_ = s.cache.DeletePattern(ctx, "buses:search:*")
}
