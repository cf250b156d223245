package buses

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"testing"
	"time"

	"swiftbus/pkg/cache"

	"github.com/google/uuid"
)

type fakeBusRepo struct {
	buses  map[uuid.UUID]*Bus
	booked map[uuid.UUID]int64
}

func newFakeBusRepo() *fakeBusRepo {
	return &fakeBusRepo{
		buses:  make(map[uuid.UUID]*Bus),
		booked: make(map[uuid.UUID]int64),
	}
}

func (f *fakeBusRepo) Create(ctx context.Context, bus *Bus) error {
	for _, b := range f.buses {
		if b.BusNumber == bus.BusNumber {
			return ErrDuplicateBusNumber
		}
	}
	if bus.ID == uuid.Nil {
		bus.ID = uuid.New()
	}
	f.buses[bus.ID] = bus
	return nil
}

func (f *fakeBusRepo) GetByID(ctx context.Context, id uuid.UUID) (*Bus, error) {
	bus, ok := f.buses[id]
	if !ok {
		return nil, ErrBusNotFound
	}
	busCopy := *bus
	return &busCopy, nil
}

func (f *fakeBusRepo) List(ctx context.Context, query BusListQuery) ([]Bus, int64, error) {
	var result []Bus
	for _, b := range f.buses {
		result = append(result, *b)
	}
	return result, int64(len(result)), nil
}

func (f *fakeBusRepo) SearchActive(ctx context.Context, query BusSearchQuery) ([]Bus, error) {
	var result []Bus
	for _, b := range f.buses {
		if b.IsActive {
			result = append(result, *b)
		}
	}
	return result, nil
}

func (f *fakeBusRepo) Update(ctx context.Context, bus *Bus) error {
	if _, ok := f.buses[bus.ID]; !ok {
		return ErrBusNotFound
	}
	busCopy := *bus
	f.buses[bus.ID] = &busCopy
	return nil
}

func (f *fakeBusRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := f.buses[id]; !ok {
		return ErrBusNotFound
	}
	delete(f.buses, id)
	return nil
}

func (f *fakeBusRepo) BusNumberExists(ctx context.Context, busNumber string) (bool, error) {
	for _, b := range f.buses {
		if b.BusNumber == busNumber {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeBusRepo) BookedSeatCount(ctx context.Context, busID uuid.UUID) (int64, error) {
	return f.booked[busID], nil
}

// fakeCache stores marshalled JSON in a map, matching the Redis-backed
// implementation closely enough to observe keys and hits.
type fakeCache struct {
	entries map[string][]byte
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: make(map[string][]byte)}
}

func (f *fakeCache) Get(ctx context.Context, key string, dest interface{}) error {
	data, ok := f.entries[key]
	if !ok {
		return cache.ErrCacheMiss
	}
	return json.Unmarshal(data, dest)
}

func (f *fakeCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	f.entries[key] = data
	return nil
}

func (f *fakeCache) Delete(ctx context.Context, key string) error {
	delete(f.entries, key)
	return nil
}

func (f *fakeCache) DeletePattern(ctx context.Context, pattern string) error {
	prefix := strings.TrimSuffix(pattern, "*")
	for key := range f.entries {
		if strings.HasPrefix(key, prefix) {
			delete(f.entries, key)
		}
	}
	return nil
}

func (f *fakeCache) Exists(ctx context.Context, key string) bool {
	_, ok := f.entries[key]
	return ok
}

func (f *fakeCache) GetOrSet(ctx context.Context, key string, ttl time.Duration, fetcher func() (interface{}, error), dest interface{}) error {
	if err := f.Get(ctx, key, dest); err == nil {
		return nil
	}
	value, err := fetcher()
	if err != nil {
		return err
	}
	if err := f.Set(ctx, key, value, ttl); err != nil {
		return err
	}
	return f.Get(ctx, key, dest)
}

func (f *fakeCache) Ping(ctx context.Context) error { return nil }

func sampleCreateRequest() CreateBusRequest {
	return CreateBusRequest{
		Name:          "Express Deluxe",
		BusNumber:     "DL01AB1234",
		Operator:      "Delhi Transport Corp",
		Origin:        "Delhi",
		Destination:   "Mumbai",
		DepartureTime: time.Now().Add(48 * time.Hour),
		ArrivalTime:   time.Now().Add(70 * time.Hour),
		Duration:      "22h 0m",
		Price:         1200,
		BusType:       "AC",
		Amenities:     []string{"WiFi", "AC"},
		TotalSeats:    40,
	}
}

func TestCreateBusStartsFullyAvailable(t *testing.T) {
	repo := newFakeBusRepo()
	svc := NewService(repo, nil, 0)

	resp, err := svc.CreateBus(context.Background(), sampleCreateRequest())
	if err != nil {
		t.Fatalf("CreateBus failed: %v", err)
	}
	if resp.AvailableSeats != 40 {
		t.Errorf("expected 40 available seats on a new bus, got %d", resp.AvailableSeats)
	}
	if !resp.IsActive {
		t.Error("expected new bus to be active")
	}
}

func TestCreateBusRejectsDuplicateNumber(t *testing.T) {
	repo := newFakeBusRepo()
	svc := NewService(repo, nil, 0)

	if _, err := svc.CreateBus(context.Background(), sampleCreateRequest()); err != nil {
		t.Fatalf("first create failed: %v", err)
	}

	_, err := svc.CreateBus(context.Background(), sampleCreateRequest())
	if err != ErrDuplicateBusNumber {
		t.Fatalf("expected ErrDuplicateBusNumber, got %v", err)
	}
}

func TestUpdateBusCapacityBlockedWhileBooked(t *testing.T) {
	repo := newFakeBusRepo()
	svc := NewService(repo, nil, 0)

	resp, err := svc.CreateBus(context.Background(), sampleCreateRequest())
	if err != nil {
		t.Fatalf("CreateBus failed: %v", err)
	}
	busID := uuid.MustParse(resp.ID)
	repo.booked[busID] = 3

	newSeats := 50
	_, err = svc.UpdateBus(context.Background(), resp.ID, UpdateBusRequest{TotalSeats: &newSeats})
	if err != ErrSeatsInUse {
		t.Fatalf("expected ErrSeatsInUse, got %v", err)
	}

	// With no bookings the resize goes through and resets availability
	repo.booked[busID] = 0
	updated, err := svc.UpdateBus(context.Background(), resp.ID, UpdateBusRequest{TotalSeats: &newSeats})
	if err != nil {
		t.Fatalf("UpdateBus failed: %v", err)
	}
	if updated.TotalSeats != 50 || updated.AvailableSeats != 50 {
		t.Errorf("expected 50/50 after resize, got %d/%d", updated.AvailableSeats, updated.TotalSeats)
	}
}

func TestDeleteBusBlockedWhileBooked(t *testing.T) {
	repo := newFakeBusRepo()
	svc := NewService(repo, nil, 0)

	resp, err := svc.CreateBus(context.Background(), sampleCreateRequest())
	if err != nil {
		t.Fatalf("CreateBus failed: %v", err)
	}
	repo.booked[uuid.MustParse(resp.ID)] = 1

	if err := svc.DeleteBus(context.Background(), resp.ID); err != ErrSeatsInUse {
		t.Fatalf("expected ErrSeatsInUse, got %v", err)
	}
}

func TestGetBusCachesDetail(t *testing.T) {
	repo := newFakeBusRepo()
	fc := newFakeCache()
	svc := NewService(repo, fc, time.Minute)

	resp, err := svc.CreateBus(context.Background(), sampleCreateRequest())
	if err != nil {
		t.Fatalf("CreateBus failed: %v", err)
	}
	detailKey := fmt.Sprintf("buses:detail:%s", resp.ID)

	if _, err := svc.GetBus(context.Background(), resp.ID); err != nil {
		t.Fatalf("GetBus failed: %v", err)
	}
	if !fc.Exists(context.Background(), detailKey) {
		t.Fatalf("expected %s to be populated after a read", detailKey)
	}

	// A second read must come from the cache, not the repository
	repo.buses[uuid.MustParse(resp.ID)].Name = "Renamed Behind The Cache"
	cached, err := svc.GetBus(context.Background(), resp.ID)
	if err != nil {
		t.Fatalf("GetBus failed: %v", err)
	}
	if cached.Name != "Express Deluxe" {
		t.Errorf("expected cached name, got %q", cached.Name)
	}
}

func TestUpdateBusInvalidatesDetailCache(t *testing.T) {
	repo := newFakeBusRepo()
	fc := newFakeCache()
	svc := NewService(repo, fc, time.Minute)

	resp, err := svc.CreateBus(context.Background(), sampleCreateRequest())
	if err != nil {
		t.Fatalf("CreateBus failed: %v", err)
	}
	detailKey := fmt.Sprintf("buses:detail:%s", resp.ID)

	if _, err := svc.GetBus(context.Background(), resp.ID); err != nil {
		t.Fatalf("GetBus failed: %v", err)
	}

	name := "Express Deluxe Plus"
	if _, err := svc.UpdateBus(context.Background(), resp.ID, UpdateBusRequest{Name: &name}); err != nil {
		t.Fatalf("UpdateBus failed: %v", err)
	}
	if fc.Exists(context.Background(), detailKey) {
		t.Fatalf("expected %s to be invalidated by the update", detailKey)
	}

	fresh, err := svc.GetBus(context.Background(), resp.ID)
	if err != nil {
		t.Fatalf("GetBus failed: %v", err)
	}
	if fresh.Name != name {
		t.Errorf("expected fresh name %q after invalidation, got %q", name, fresh.Name)
	}
}

func TestGetBusInvalidID(t *testing.T) {
	svc := NewService(newFakeBusRepo(), nil, 0)

	if _, err := svc.GetBus(context.Background(), "nope"); err != ErrInvalidBusID {
		t.Fatalf("expected ErrInvalidBusID, got %v", err)
	}
}
