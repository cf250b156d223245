package reservations

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"swiftbus/internal/buses"
	"swiftbus/internal/users"

	"github.com/google/uuid"
)

// fakeRepo mirrors the transactional repository semantics in memory: one
// mutex plays the role of the bus row lock, so concurrent reserves serialize
// the same way they do against Postgres.
type fakeRepo struct {
	mu    sync.Mutex
	buses map[uuid.UUID]*buses.Bus
	seats map[uuid.UUID][]SeatBooking
	seq   int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		buses: make(map[uuid.UUID]*buses.Bus),
		seats: make(map[uuid.UUID][]SeatBooking),
	}
}

func (f *fakeRepo) addBus(totalSeats int, active bool) uuid.UUID {
	return f.addNamedBus("Test Express", "TS01XY0001", totalSeats, active)
}

func (f *fakeRepo) addNamedBus(name, number string, totalSeats int, active bool) uuid.UUID {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := uuid.New()
	f.buses[id] = &buses.Bus{
		ID:             id,
		Name:           name,
		BusNumber:      number,
		Origin:         "Delhi",
		Destination:    "Jaipur",
		TotalSeats:     totalSeats,
		AvailableSeats: totalSeats,
		IsActive:       active,
	}
	return id
}

func (f *fakeRepo) ReserveSeats(ctx context.Context, busID, userID uuid.UUID, entries []SeatEntry) ([]SeatBooking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	bus, ok := f.buses[busID]
	if !ok {
		return nil, ErrBusNotFound
	}
	if !bus.IsActive {
		return nil, ErrBusInactive
	}

	seen := make(map[int]bool, len(entries))
	for _, e := range entries {
		if e.Seat < 1 || e.Seat > bus.TotalSeats {
			return nil, ErrSeatOutOfRange
		}
		if seen[e.Seat] {
			return nil, &SeatConflictError{Seats: []int{e.Seat}}
		}
		seen[e.Seat] = true
	}

	var taken []int
	for _, sb := range f.seats[busID] {
		if seen[sb.Seat] {
			taken = append(taken, sb.Seat)
		}
	}
	if len(taken) > 0 {
		sort.Ints(taken)
		return nil, &SeatConflictError{Seats: taken}
	}

	created := make([]SeatBooking, 0, len(entries))
	for _, e := range entries {
		f.seq++
		created = append(created, SeatBooking{
			ID:             uuid.New(),
			BusID:          busID,
			UserID:         userID,
			Seat:           e.Seat,
			PassengerName:  e.PassengerName,
			PassengerPhone: e.PassengerPhone,
			Status:         StatusConfirmed,
			CreatedAt:      time.Unix(int64(f.seq), 0),
		})
	}
	f.seats[busID] = append(f.seats[busID], created...)
	bus.AvailableSeats = bus.TotalSeats - len(f.seats[busID])
	return created, nil
}

func (f *fakeRepo) CancelUserSeats(ctx context.Context, busID, userID uuid.UUID) ([]int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	bus, ok := f.buses[busID]
	if !ok {
		return nil, ErrBusNotFound
	}

	var kept []SeatBooking
	var released []int
	for _, sb := range f.seats[busID] {
		if sb.UserID == userID {
			released = append(released, sb.Seat)
		} else {
			kept = append(kept, sb)
		}
	}
	if len(released) == 0 {
		return nil, ErrNoReservation
	}

	f.seats[busID] = kept
	bus.AvailableSeats = bus.TotalSeats - len(kept)
	sort.Ints(released)
	return released, nil
}

func (f *fakeRepo) ResetBus(ctx context.Context, busID uuid.UUID) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	bus, ok := f.buses[busID]
	if !ok {
		return 0, ErrBusNotFound
	}

	cleared := int64(len(f.seats[busID]))
	f.seats[busID] = nil
	bus.AvailableSeats = bus.TotalSeats
	return cleared, nil
}

func (f *fakeRepo) GetBusWithSeats(ctx context.Context, busID uuid.UUID) (*buses.Bus, []SeatBooking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	bus, ok := f.buses[busID]
	if !ok {
		return nil, nil, ErrBusNotFound
	}

	busCopy := *bus
	seats := make([]SeatBooking, len(f.seats[busID]))
	copy(seats, f.seats[busID])
	sort.Slice(seats, func(i, j int) bool { return seats[i].Seat < seats[j].Seat })
	return &busCopy, seats, nil
}

func (f *fakeRepo) ListUserSeats(ctx context.Context, userID uuid.UUID) ([]SeatBooking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var mine []SeatBooking
	for busID, held := range f.seats {
		for _, sb := range held {
			if sb.UserID != userID {
				continue
			}
			sb.Bus = *f.buses[busID]
			mine = append(mine, sb)
		}
	}
	sort.Slice(mine, func(i, j int) bool { return mine[i].CreatedAt.After(mine[j].CreatedAt) })
	return mine, nil
}

// checkInvariant asserts available + held == total for the bus
func checkInvariant(t *testing.T, repo *fakeRepo, busID uuid.UUID) {
	t.Helper()
	bus, seats, err := repo.GetBusWithSeats(context.Background(), busID)
	if err != nil {
		t.Fatalf("GetBusWithSeats failed: %v", err)
	}
	if bus.AvailableSeats+len(seats) != bus.TotalSeats {
		t.Fatalf("invariant broken: available=%d held=%d total=%d",
			bus.AvailableSeats, len(seats), bus.TotalSeats)
	}
}

func newTestService(repo Repository) Service {
	return NewService(repo, nil, nil, 0)
}

func TestReserveRoundTrip(t *testing.T) {
	repo := newFakeRepo()
	busID := repo.addBus(40, true)
	svc := newTestService(repo)
	riderID := uuid.NewString()

	resp, err := svc.Reserve(context.Background(), busID.String(), riderID, ReserveRequest{
		Seat:           5,
		PassengerName:  "Asha Verma",
		PassengerPhone: "9876543210",
	})
	if err != nil {
		t.Fatalf("Reserve failed: %v", err)
	}
	if resp.Seat != 5 {
		t.Errorf("expected seat 5, got %d", resp.Seat)
	}
	if resp.Status != string(StatusConfirmed) {
		t.Errorf("expected CONFIRMED, got %s", resp.Status)
	}

	snap, err := svc.GetAvailability(context.Background(), busID.String(), &Viewer{
		UserID: riderID,
		Role:   string(users.RoleRider),
	})
	if err != nil {
		t.Fatalf("GetAvailability failed: %v", err)
	}
	if snap.AvailableSeats != 39 {
		t.Errorf("expected 39 available, got %d", snap.AvailableSeats)
	}
	if len(snap.BookedSeats) != 1 || snap.BookedSeats[0] != 5 {
		t.Errorf("expected booked seats [5], got %v", snap.BookedSeats)
	}
	if len(snap.MySeats) != 1 || snap.MySeats[0] != 5 {
		t.Errorf("expected my seats [5], got %v", snap.MySeats)
	}
	if snap.Bookings != nil {
		t.Error("rider view must not include admin seat details")
	}

	checkInvariant(t, repo, busID)
}

func TestReserveSeatOutOfRange(t *testing.T) {
	repo := newFakeRepo()
	busID := repo.addBus(40, true)
	svc := newTestService(repo)
	riderID := uuid.NewString()

	for _, seat := range []int{0, 41, -3} {
		_, err := svc.Reserve(context.Background(), busID.String(), riderID, ReserveRequest{
			Seat:           seat,
			PassengerName:  "Asha Verma",
			PassengerPhone: "9876543210",
		})
		if err != ErrSeatOutOfRange {
			t.Errorf("seat %d: expected ErrSeatOutOfRange, got %v", seat, err)
		}
	}
}

func TestReserveInactiveBus(t *testing.T) {
	repo := newFakeRepo()
	busID := repo.addBus(40, false)
	svc := newTestService(repo)

	_, err := svc.Reserve(context.Background(), busID.String(), uuid.NewString(), ReserveRequest{
		Seat:           1,
		PassengerName:  "Asha Verma",
		PassengerPhone: "9876543210",
	})
	if err != ErrBusInactive {
		t.Fatalf("expected ErrBusInactive, got %v", err)
	}
}

func TestReserveConflictNamesSeats(t *testing.T) {
	repo := newFakeRepo()
	busID := repo.addBus(40, true)
	svc := newTestService(repo)

	first := uuid.NewString()
	if _, err := svc.Reserve(context.Background(), busID.String(), first, ReserveRequest{
		Seat:           3,
		PassengerName:  "Asha Verma",
		PassengerPhone: "9876543210",
	}); err != nil {
		t.Fatalf("setup reserve failed: %v", err)
	}

	second := uuid.NewString()
	_, err := svc.ReserveBatch(context.Background(), busID.String(), second, BatchReserveRequest{
		Seats: []BatchSeatRequest{
			{Seat: 3, PassengerName: "Ravi Kumar", PassengerPhone: "9123456780"},
			{Seat: 4, PassengerName: "Ravi Kumar", PassengerPhone: "9123456780"},
		},
	})

	var conflict *SeatConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("expected SeatConflictError, got %v", err)
	}
	if len(conflict.Seats) != 1 || conflict.Seats[0] != 3 {
		t.Errorf("expected conflict on seat 3 only, got %v", conflict.Seats)
	}

	// The batch is all-or-nothing: seat 4 must still be free
	snap, err := svc.GetAvailability(context.Background(), busID.String(), nil)
	if err != nil {
		t.Fatalf("GetAvailability failed: %v", err)
	}
	if len(snap.BookedSeats) != 1 {
		t.Errorf("expected only seat 3 held after failed batch, got %v", snap.BookedSeats)
	}
	checkInvariant(t, repo, busID)
}

func TestConcurrentReserveOneWinner(t *testing.T) {
	repo := newFakeRepo()
	busID := repo.addBus(40, true)
	svc := newTestService(repo)

	const riders = 50
	var wg sync.WaitGroup
	results := make(chan error, riders)

	for i := 0; i < riders; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Reserve(context.Background(), busID.String(), uuid.NewString(), ReserveRequest{
				Seat:           17,
				PassengerName:  "Contender",
				PassengerPhone: "9000000000",
			})
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	var wins, conflicts int
	for err := range results {
		switch {
		case err == nil:
			wins++
		default:
			var conflict *SeatConflictError
			if !errors.As(err, &conflict) {
				t.Errorf("unexpected error: %v", err)
				continue
			}
			conflicts++
		}
	}

	if wins != 1 {
		t.Errorf("expected exactly 1 winner, got %d", wins)
	}
	if conflicts != riders-1 {
		t.Errorf("expected %d conflicts, got %d", riders-1, conflicts)
	}
	checkInvariant(t, repo, busID)
}

func TestCancelRestoresAvailability(t *testing.T) {
	repo := newFakeRepo()
	busID := repo.addBus(40, true)
	svc := newTestService(repo)
	riderID := uuid.NewString()

	if _, err := svc.Reserve(context.Background(), busID.String(), riderID, ReserveRequest{
		Seat:           7,
		PassengerName:  "Asha Verma",
		PassengerPhone: "9876543210",
	}); err != nil {
		t.Fatalf("setup reserve failed: %v", err)
	}

	released, err := svc.Cancel(context.Background(), busID.String(), riderID)
	if err != nil {
		t.Fatalf("Cancel failed: %v", err)
	}
	if len(released) != 1 || released[0] != 7 {
		t.Errorf("expected released [7], got %v", released)
	}

	snap, err := svc.GetAvailability(context.Background(), busID.String(), nil)
	if err != nil {
		t.Fatalf("GetAvailability failed: %v", err)
	}
	if snap.AvailableSeats != 40 {
		t.Errorf("expected full availability after cancel, got %d", snap.AvailableSeats)
	}
	if len(snap.BookedSeats) != 0 {
		t.Errorf("expected no booked seats, got %v", snap.BookedSeats)
	}
	checkInvariant(t, repo, busID)
}

func TestCancelWithoutReservation(t *testing.T) {
	repo := newFakeRepo()
	busID := repo.addBus(40, true)
	svc := newTestService(repo)

	_, err := svc.Cancel(context.Background(), busID.String(), uuid.NewString())
	if err != ErrNoReservation {
		t.Fatalf("expected ErrNoReservation, got %v", err)
	}
}

func TestAdminResetClearsEverything(t *testing.T) {
	repo := newFakeRepo()
	busID := repo.addBus(40, true)
	svc := newTestService(repo)

	for seat := 1; seat <= 12; seat++ {
		if _, err := svc.Reserve(context.Background(), busID.String(), uuid.NewString(), ReserveRequest{
			Seat:           seat,
			PassengerName:  "Rider",
			PassengerPhone: "9000000001",
		}); err != nil {
			t.Fatalf("setup reserve seat %d failed: %v", seat, err)
		}
	}

	cleared, err := svc.AdminReset(context.Background(), busID.String())
	if err != nil {
		t.Fatalf("AdminReset failed: %v", err)
	}
	if cleared != 12 {
		t.Errorf("expected 12 cleared bookings, got %d", cleared)
	}

	snap, err := svc.GetAvailability(context.Background(), busID.String(), nil)
	if err != nil {
		t.Fatalf("GetAvailability failed: %v", err)
	}
	if snap.AvailableSeats != snap.TotalSeats {
		t.Errorf("expected available == total after reset, got %d/%d",
			snap.AvailableSeats, snap.TotalSeats)
	}
	if len(snap.BookedSeats) != 0 {
		t.Errorf("expected empty seat map after reset, got %v", snap.BookedSeats)
	}
	checkInvariant(t, repo, busID)
}

func TestAvailabilityAdminView(t *testing.T) {
	repo := newFakeRepo()
	busID := repo.addBus(40, true)
	svc := newTestService(repo)
	riderID := uuid.NewString()

	if _, err := svc.Reserve(context.Background(), busID.String(), riderID, ReserveRequest{
		Seat:           9,
		PassengerName:  "Asha Verma",
		PassengerPhone: "9876543210",
	}); err != nil {
		t.Fatalf("setup reserve failed: %v", err)
	}

	snap, err := svc.GetAvailability(context.Background(), busID.String(), &Viewer{
		UserID: uuid.NewString(),
		Role:   string(users.RoleAdmin),
	})
	if err != nil {
		t.Fatalf("GetAvailability failed: %v", err)
	}
	if len(snap.Bookings) != 1 {
		t.Fatalf("expected 1 admin seat view, got %d", len(snap.Bookings))
	}
	if snap.Bookings[0].Seat != 9 || snap.Bookings[0].UserID != riderID {
		t.Errorf("admin view missing holder identity: %+v", snap.Bookings[0])
	}
	if snap.MySeats != nil {
		t.Error("admin view must not include my_seats")
	}
}

func TestListMySeatsAcrossBuses(t *testing.T) {
	repo := newFakeRepo()
	morning := repo.addNamedBus("Morning Express", "DL01AB1234", 40, true)
	night := repo.addNamedBus("Night Rider", "KA03EF9012", 30, true)
	svc := newTestService(repo)
	riderID := uuid.NewString()

	if _, err := svc.Reserve(context.Background(), morning.String(), riderID, ReserveRequest{
		Seat:           5,
		PassengerName:  "Asha Verma",
		PassengerPhone: "9876543210",
	}); err != nil {
		t.Fatalf("setup reserve failed: %v", err)
	}
	if _, err := svc.Reserve(context.Background(), night.String(), riderID, ReserveRequest{
		Seat:           12,
		PassengerName:  "Asha Verma",
		PassengerPhone: "9876543210",
	}); err != nil {
		t.Fatalf("setup reserve failed: %v", err)
	}
	// Another rider's hold must not leak into the listing
	if _, err := svc.Reserve(context.Background(), morning.String(), uuid.NewString(), ReserveRequest{
		Seat:           6,
		PassengerName:  "Ravi Kumar",
		PassengerPhone: "9123456780",
	}); err != nil {
		t.Fatalf("setup reserve failed: %v", err)
	}

	mine, err := svc.ListMySeats(context.Background(), riderID)
	if err != nil {
		t.Fatalf("ListMySeats failed: %v", err)
	}
	if len(mine) != 2 {
		t.Fatalf("expected 2 live holds, got %d", len(mine))
	}
	if mine[0].Seat != 12 || mine[0].Bus.Name != "Night Rider" {
		t.Errorf("expected newest hold first (seat 12 on Night Rider), got seat %d on %q",
			mine[0].Seat, mine[0].Bus.Name)
	}
	if mine[1].Bus.BusNumber != "DL01AB1234" || mine[1].Bus.Origin != "Delhi" {
		t.Errorf("trip fields missing from listing: %+v", mine[1].Bus)
	}
}

func TestListMySeatsDropsCancelledHolds(t *testing.T) {
	repo := newFakeRepo()
	morning := repo.addNamedBus("Morning Express", "DL01AB1234", 40, true)
	night := repo.addNamedBus("Night Rider", "KA03EF9012", 30, true)
	svc := newTestService(repo)
	riderID := uuid.NewString()

	for _, busID := range []uuid.UUID{morning, night} {
		if _, err := svc.Reserve(context.Background(), busID.String(), riderID, ReserveRequest{
			Seat:           3,
			PassengerName:  "Asha Verma",
			PassengerPhone: "9876543210",
		}); err != nil {
			t.Fatalf("setup reserve failed: %v", err)
		}
	}

	if _, err := svc.Cancel(context.Background(), morning.String(), riderID); err != nil {
		t.Fatalf("Cancel failed: %v", err)
	}

	mine, err := svc.ListMySeats(context.Background(), riderID)
	if err != nil {
		t.Fatalf("ListMySeats failed: %v", err)
	}
	if len(mine) != 1 || mine[0].Bus.BusNumber != "KA03EF9012" {
		t.Fatalf("expected only the Night Rider hold to survive, got %+v", mine)
	}
}

func TestMalformedUserID(t *testing.T) {
	repo := newFakeRepo()
	busID := repo.addBus(40, true)
	svc := newTestService(repo)

	if _, err := svc.Reserve(context.Background(), busID.String(), "not-a-uuid", ReserveRequest{
		Seat:           1,
		PassengerName:  "Asha Verma",
		PassengerPhone: "9876543210",
	}); err != ErrInvalidUserID {
		t.Errorf("Reserve: expected ErrInvalidUserID, got %v", err)
	}

	if _, err := svc.Cancel(context.Background(), busID.String(), "not-a-uuid"); err != ErrInvalidUserID {
		t.Errorf("Cancel: expected ErrInvalidUserID, got %v", err)
	}

	if _, err := svc.ListMySeats(context.Background(), "not-a-uuid"); err != ErrInvalidUserID {
		t.Errorf("ListMySeats: expected ErrInvalidUserID, got %v", err)
	}
}

func TestInvalidBusID(t *testing.T) {
	svc := newTestService(newFakeRepo())

	_, err := svc.Reserve(context.Background(), "not-a-uuid", uuid.NewString(), ReserveRequest{
		Seat:           1,
		PassengerName:  "Asha Verma",
		PassengerPhone: "9876543210",
	})
	if err != ErrInvalidBusID {
		t.Fatalf("expected ErrInvalidBusID, got %v", err)
	}

	_, err = svc.GetAvailability(context.Background(), "nope", nil)
	if err != ErrInvalidBusID {
		t.Fatalf("expected ErrInvalidBusID, got %v", err)
	}
}

func TestBusNotFound(t *testing.T) {
	svc := newTestService(newFakeRepo())

	_, err := svc.GetAvailability(context.Background(), uuid.NewString(), nil)
	if err != ErrBusNotFound {
		t.Fatalf("expected ErrBusNotFound, got %v", err)
	}
}
