package buses

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"swiftbus/pkg/cache"

	"github.com/google/uuid"
)

var ErrInvalidBusID = errors.New("invalid bus id")

const (
	cacheKeySearch = "buses:search:%s:%s:%s"
	cacheKeyBus    = "buses:detail:%s"
)

type Service interface {
	CreateBus(ctx context.Context, req CreateBusRequest) (*BusResponse, error)
	GetBus(ctx context.Context, id string) (*BusResponse, error)
	ListBuses(ctx context.Context, query BusListQuery) (*BusListResponse, error)
	SearchBuses(ctx context.Context, query BusSearchQuery) ([]BusResponse, error)
	UpdateBus(ctx context.Context, id string, req UpdateBusRequest) (*BusResponse, error)
	DeleteBus(ctx context.Context, id string) error
}

type service struct {
	repo       Repository
	cache      cache.Service
	catalogTTL time.Duration
}

func NewService(repo Repository, cacheService cache.Service, catalogTTL time.Duration) Service {
	return &service{
		repo:       repo,
		cache:      cacheService,
		catalogTTL: catalogTTL,
	}
}

func (s *service) CreateBus(ctx context.Context, req CreateBusRequest) (*BusResponse, error) {
	exists, err := s.repo.BusNumberExists(ctx, req.BusNumber)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrDuplicateBusNumber
	}

	bus := &Bus{
		Name:           req.Name,
		BusNumber:      req.BusNumber,
		Operator:       req.Operator,
		Origin:         req.Origin,
		Destination:    req.Destination,
		DepartureTime:  req.DepartureTime,
		ArrivalTime:    req.ArrivalTime,
		Duration:       req.Duration,
		Price:          req.Price,
		BusType:        req.BusType,
		Amenities:      req.Amenities,
		TotalSeats:     req.TotalSeats,
		AvailableSeats: req.TotalSeats, // no bookings yet
		IsActive:       true,
	}

	if err := s.repo.Create(ctx, bus); err != nil {
		return nil, err
	}

	s.invalidateCaches(ctx, bus.ID)

	resp := bus.ToResponse()
	return &resp, nil
}

func (s *service) GetBus(ctx context.Context, id string) (*BusResponse, error) {
	busID, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrInvalidBusID
	}

	key := fmt.Sprintf(cacheKeyBus, busID)
	if s.cache != nil {
		var cached BusResponse
		if err := s.cache.Get(ctx, key, &cached); err == nil {
			return &cached, nil
		}
	}

	bus, err := s.repo.GetByID(ctx, busID)
	if err != nil {
		return nil, err
	}

	resp := bus.ToResponse()
	if s.cache != nil {
		_ = s.cache.Set(ctx, key, resp, s.catalogTTL)
	}
	return &resp, nil
}

func (s *service) ListBuses(ctx context.Context, query BusListQuery) (*BusListResponse, error) {
	if query.Page <= 0 {
		query.Page = 1
	}
	if query.Limit <= 0 {
		query.Limit = 10
	}

	result, total, err := s.repo.List(ctx, query)
	if err != nil {
		return nil, err
	}

	responses := make([]BusResponse, 0, len(result))
	for i := range result {
		responses = append(responses, result[i].ToResponse())
	}

	return &BusListResponse{
		Buses: responses,
		Pagination: Pagination{
			Page:  query.Page,
			Limit: query.Limit,
			Total: total,
			Pages: int(math.Ceil(float64(total) / float64(query.Limit))),
		},
	}, nil
}

func (s *service) SearchBuses(ctx context.Context, query BusSearchQuery) ([]BusResponse, error) {
	key := fmt.Sprintf(cacheKeySearch, query.Origin, query.Destination, query.Date)

	var cached []BusResponse
	if s.cache != nil {
		if err := s.cache.Get(ctx, key, &cached); err == nil {
			return cached, nil
		}
	}

	result, err := s.repo.SearchActive(ctx, query)
	if err != nil {
		return nil, err
	}

	responses := make([]BusResponse, 0, len(result))
	for i := range result {
		responses = append(responses, result[i].ToResponse())
	}

	if s.cache != nil {
		_ = s.cache.Set(ctx, key, responses, s.catalogTTL)
	}

	return responses, nil
}

func (s *service) UpdateBus(ctx context.Context, id string, req UpdateBusRequest) (*BusResponse, error) {
	busID, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrInvalidBusID
	}

	bus, err := s.repo.GetByID(ctx, busID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		bus.Name = *req.Name
	}
	if req.Operator != nil {
		bus.Operator = *req.Operator
	}
	if req.Origin != nil {
		bus.Origin = *req.Origin
	}
	if req.Destination != nil {
		bus.Destination = *req.Destination
	}
	if req.DepartureTime != nil {
		bus.DepartureTime = *req.DepartureTime
	}
	if req.ArrivalTime != nil {
		bus.ArrivalTime = *req.ArrivalTime
	}
	if req.Duration != nil {
		bus.Duration = *req.Duration
	}
	if req.Price != nil {
		bus.Price = *req.Price
	}
	if req.BusType != nil {
		bus.BusType = *req.BusType
	}
	if req.Amenities != nil {
		bus.Amenities = req.Amenities
	}
	if req.IsActive != nil {
		bus.IsActive = *req.IsActive
	}

	// Seat capacity is frozen once any seat is booked; resizing under live
	// bookings would break the availability invariant.
	if req.TotalSeats != nil && *req.TotalSeats != bus.TotalSeats {
		booked, err := s.repo.BookedSeatCount(ctx, busID)
		if err != nil {
			return nil, err
		}
		if booked > 0 {
			return nil, ErrSeatsInUse
		}
		bus.TotalSeats = *req.TotalSeats
		bus.AvailableSeats = *req.TotalSeats
	}

	if err := s.repo.Update(ctx, bus); err != nil {
		return nil, err
	}

	s.invalidateCaches(ctx, busID)

	resp := bus.ToResponse()
	return &resp, nil
}

func (s *service) DeleteBus(ctx context.Context, id string) error {
	busID, err := uuid.Parse(id)
	if err != nil {
		return ErrInvalidBusID
	}

	booked, err := s.repo.BookedSeatCount(ctx, busID)
	if err != nil {
		return err
	}
	if booked > 0 {
		return ErrSeatsInUse
	}

	if err := s.repo.Delete(ctx, busID); err != nil {
		return err
	}

	s.invalidateCaches(ctx, busID)
	return nil
}

func (s *service) invalidateCaches(ctx context.Context, busID uuid.UUID) {
	if s.cache == nil {
		return
	}
	_ = s.cache.DeletePattern(ctx, "buses:search:*")
	_ = s.cache.Delete(ctx, fmt.Sprintf(cacheKeyBus, busID))
}
