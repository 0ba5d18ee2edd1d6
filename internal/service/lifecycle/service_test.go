package lifecycle

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/swiftride/backend/internal/domain/driver"
	"github.com/swiftride/backend/internal/domain/ride"
	apperrors "github.com/swiftride/backend/pkg/errors"
	"github.com/swiftride/backend/pkg/logger"
)

// fakeStore implements Store in memory with the same transactional
// semantics as the PostgreSQL implementation
type fakeStore struct {
	mu      sync.Mutex
	drivers map[uuid.UUID]*driver.Driver
	rides   map[uuid.UUID]*ride.Ride
	users   map[uuid.UUID]string
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		drivers: make(map[uuid.UUID]*driver.Driver),
		rides:   make(map[uuid.UUID]*ride.Ride),
		users:   make(map[uuid.UUID]string),
	}
}

func (f *fakeStore) addDriver(name string) uuid.UUID {
	id := uuid.New()
	f.drivers[id] = &driver.Driver{ID: id, Name: name, IsAvailable: true, IsOnline: true, Status: driver.StatusActive}
	return id
}

func (f *fakeStore) addUser(name string) uuid.UUID {
	id := uuid.New()
	f.users[id] = name
	return id
}

func (f *fakeStore) StartRide(ctx context.Context, r *ride.Ride) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	d, ok := f.drivers[r.DriverID]
	if !ok {
		return apperrors.ErrDriverNotFound
	}
	if !d.IsAvailable {
		return apperrors.ErrDriverBusy
	}
	d.IsAvailable = false

	cp := *r
	f.rides[r.ID] = &cp
	return nil
}

func (f *fakeStore) CompleteRide(ctx context.Context, rideID uuid.UUID, finalFare float64, endedAt time.Time) (*ride.Ride, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	r, ok := f.rides[rideID]
	if !ok {
		return nil, apperrors.ErrRideNotFound
	}
	if !r.CanComplete() {
		return nil, apperrors.ErrInvalidTransition
	}

	r.Status = ride.StatusCompleted
	r.FinalFare = &finalFare
	r.EndTime = &endedAt

	if d, ok := f.drivers[r.DriverID]; ok {
		d.IsAvailable = true
		d.TotalRides++
		d.TotalEarnings += finalFare
	}

	cp := *r
	return &cp, nil
}

func (f *fakeStore) CancelRide(ctx context.Context, rideID uuid.UUID, reason string, by ride.CancelActor, at time.Time) (*ride.Ride, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	r, ok := f.rides[rideID]
	if !ok {
		return nil, apperrors.ErrRideNotFound
	}
	if !r.CanCancel() {
		return nil, apperrors.ErrInvalidTransition
	}

	wasHolding := r.HoldsDriver()
	r.Status = ride.StatusCancelled
	r.CancellationReason = reason
	r.CancelledBy = by
	r.EndTime = &at

	if wasHolding {
		if d, ok := f.drivers[r.DriverID]; ok {
			d.IsAvailable = true
		}
	}

	cp := *r
	return &cp, nil
}

func (f *fakeStore) GetRideDetail(ctx context.Context, rideID uuid.UUID) (*ride.Detail, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	r, ok := f.rides[rideID]
	if !ok {
		return nil, apperrors.ErrRideNotFound
	}

	detail := &ride.Detail{Ride: *r}
	if d, ok := f.drivers[r.DriverID]; ok {
		detail.Driver = ride.DriverInfo{ID: d.ID, Name: d.Name, Rating: d.Rating, Vehicle: d.Vehicle}
	}
	if name, ok := f.users[r.PassengerID]; ok {
		detail.Passenger = ride.PassengerInfo{ID: r.PassengerID, Name: name}
	}
	return detail, nil
}

// recordingNotifier collects emitted events
type recordingNotifier struct {
	started   []uuid.UUID
	completed []uuid.UUID
	cancelled []uuid.UUID
}

func (n *recordingNotifier) RideStarted(r *ride.Ride)   { n.started = append(n.started, r.ID) }
func (n *recordingNotifier) RideCompleted(r *ride.Ride) { n.completed = append(n.completed, r.ID) }
func (n *recordingNotifier) RideCancelled(r *ride.Ride) { n.cancelled = append(n.cancelled, r.ID) }

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New(logger.Config{Level: "error", Format: "console"})
	require.NoError(t, err)
	return log
}

func validParams(driverID, passengerID uuid.UUID) StartRideParams {
	return StartRideParams{
		DriverID:      driverID,
		PassengerID:   passengerID,
		Origin:        ride.Location{Address: "Downtown", Latitude: 40.7128, Longitude: -74.0060},
		Destination:   ride.Location{Address: "Midtown", Latitude: 40.7589, Longitude: -73.9851},
		EstimatedFare: 20.50,
	}
}

// TestStartRide_MarksDriverBusy tests the availability flip on start
func TestStartRide_MarksDriverBusy(t *testing.T) {
	store := newFakeStore()
	driverID := store.addDriver("Alex")
	passengerID := store.addUser("Sam")
	svc := NewService(store, nil, testLogger(t))

	r, err := svc.StartRide(context.Background(), validParams(driverID, passengerID))
	require.NoError(t, err)

	assert.Equal(t, ride.StatusActive, r.Status)
	assert.NotNil(t, r.StartTime)
	assert.False(t, store.drivers[driverID].IsAvailable)
	assert.Equal(t, ride.PaymentCash, r.PaymentMethod)
	assert.Equal(t, ride.PaymentPending, r.PaymentStatus)
}

// TestStartRide_MissingFields tests that each absent argument is rejected
// and no ride record is created
func TestStartRide_MissingFields(t *testing.T) {
	store := newFakeStore()
	driverID := store.addDriver("Alex")
	passengerID := store.addUser("Sam")
	svc := NewService(store, nil, testLogger(t))

	tests := []struct {
		name   string
		mutate func(*StartRideParams)
	}{
		{"no driverId", func(p *StartRideParams) { p.DriverID = uuid.Nil }},
		{"no passengerId", func(p *StartRideParams) { p.PassengerID = uuid.Nil }},
		{"no origin", func(p *StartRideParams) { p.Origin = ride.Location{} }},
		{"no destination", func(p *StartRideParams) { p.Destination = ride.Location{} }},
		{"no estimatedFare", func(p *StartRideParams) { p.EstimatedFare = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validParams(driverID, passengerID)
			tt.mutate(&p)

			_, err := svc.StartRide(context.Background(), p)

			assert.True(t, apperrors.IsCode(err, apperrors.CodeMissingField))
			assert.Empty(t, store.rides, "no ride record may be created")
			assert.True(t, store.drivers[driverID].IsAvailable, "driver must stay available")
		})
	}
}

// TestStartRide_DriverBusy tests the conditional claim on a second start
func TestStartRide_DriverBusy(t *testing.T) {
	store := newFakeStore()
	driverID := store.addDriver("Alex")
	svc := NewService(store, nil, testLogger(t))

	_, err := svc.StartRide(context.Background(), validParams(driverID, store.addUser("Sam")))
	require.NoError(t, err)

	_, err = svc.StartRide(context.Background(), validParams(driverID, store.addUser("Kim")))
	assert.True(t, apperrors.IsCode(err, apperrors.CodeDriverBusy))
	assert.Len(t, store.rides, 1)
}

// TestStartRide_UnknownDriver tests the referential miss
func TestStartRide_UnknownDriver(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, nil, testLogger(t))

	_, err := svc.StartRide(context.Background(), validParams(uuid.New(), store.addUser("Sam")))
	assert.True(t, apperrors.IsCode(err, apperrors.CodeDriverNotFound))
}

// TestEndRide_CompletesAndReleasesDriver tests the full happy path
func TestEndRide_CompletesAndReleasesDriver(t *testing.T) {
	store := newFakeStore()
	driverID := store.addDriver("Alex")
	passengerID := store.addUser("Sam")
	svc := NewService(store, nil, testLogger(t))

	r, err := svc.StartRide(context.Background(), validParams(driverID, passengerID))
	require.NoError(t, err)
	require.False(t, store.drivers[driverID].IsAvailable)

	completed, err := svc.EndRide(context.Background(), r.ID, 22.75)
	require.NoError(t, err)

	assert.Equal(t, ride.StatusCompleted, completed.Status)
	require.NotNil(t, completed.FinalFare)
	assert.Equal(t, 22.75, *completed.FinalFare)
	assert.NotNil(t, completed.EndTime, "finalFare and endTime are set together")
	assert.True(t, store.drivers[driverID].IsAvailable)
	assert.Equal(t, 1, store.drivers[driverID].TotalRides)
	assert.Equal(t, 22.75, store.drivers[driverID].TotalEarnings)
}

// TestEndRide_Twice tests that the second completion is rejected
func TestEndRide_Twice(t *testing.T) {
	store := newFakeStore()
	driverID := store.addDriver("Alex")
	svc := NewService(store, nil, testLogger(t))

	r, err := svc.StartRide(context.Background(), validParams(driverID, store.addUser("Sam")))
	require.NoError(t, err)

	_, err = svc.EndRide(context.Background(), r.ID, 22.75)
	require.NoError(t, err)

	_, err = svc.EndRide(context.Background(), r.ID, 99.99)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeInvalidTransition))

	detail, err := svc.GetRideStatus(context.Background(), r.ID)
	require.NoError(t, err)
	assert.Equal(t, 22.75, *detail.FinalFare, "first final fare must be preserved")
}

// TestEndRide_NotFound tests the referential miss
func TestEndRide_NotFound(t *testing.T) {
	svc := NewService(newFakeStore(), nil, testLogger(t))

	_, err := svc.EndRide(context.Background(), uuid.New(), 10.0)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeRideNotFound))
}

// TestEndRide_MissingFinalFare tests input validation
func TestEndRide_MissingFinalFare(t *testing.T) {
	svc := NewService(newFakeStore(), nil, testLogger(t))

	_, err := svc.EndRide(context.Background(), uuid.New(), 0)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeMissingField))
}

// TestGetRideStatus_ResolvesParticipants tests display field resolution
func TestGetRideStatus_ResolvesParticipants(t *testing.T) {
	store := newFakeStore()
	driverID := store.addDriver("Alex")
	passengerID := store.addUser("Sam")
	svc := NewService(store, nil, testLogger(t))

	r, err := svc.StartRide(context.Background(), validParams(driverID, passengerID))
	require.NoError(t, err)

	_, err = svc.EndRide(context.Background(), r.ID, 21.00)
	require.NoError(t, err)

	detail, err := svc.GetRideStatus(context.Background(), r.ID)
	require.NoError(t, err)

	assert.Equal(t, ride.StatusCompleted, detail.Status)
	assert.Equal(t, 21.00, *detail.FinalFare)
	assert.Equal(t, "Alex", detail.Driver.Name)
	assert.Equal(t, "Sam", detail.Passenger.Name)
}

// TestGetRideStatus_NotFound tests the referential miss
func TestGetRideStatus_NotFound(t *testing.T) {
	svc := NewService(newFakeStore(), nil, testLogger(t))

	_, err := svc.GetRideStatus(context.Background(), uuid.New())
	assert.True(t, apperrors.IsCode(err, apperrors.CodeRideNotFound))
}

// TestCancelRide_ReleasesDriver tests active -> cancelled
func TestCancelRide_ReleasesDriver(t *testing.T) {
	store := newFakeStore()
	driverID := store.addDriver("Alex")
	svc := NewService(store, nil, testLogger(t))

	r, err := svc.StartRide(context.Background(), validParams(driverID, store.addUser("Sam")))
	require.NoError(t, err)

	cancelled, err := svc.CancelRide(context.Background(), r.ID, "passenger no-show", ride.CancelledByDriver)
	require.NoError(t, err)

	assert.Equal(t, ride.StatusCancelled, cancelled.Status)
	assert.Equal(t, "passenger no-show", cancelled.CancellationReason)
	assert.Equal(t, ride.CancelledByDriver, cancelled.CancelledBy)
	assert.NotNil(t, cancelled.EndTime)
	assert.True(t, store.drivers[driverID].IsAvailable)
}

// TestCancelRide_CompletedRideRejected tests terminal state protection
func TestCancelRide_CompletedRideRejected(t *testing.T) {
	store := newFakeStore()
	driverID := store.addDriver("Alex")
	svc := NewService(store, nil, testLogger(t))

	r, err := svc.StartRide(context.Background(), validParams(driverID, store.addUser("Sam")))
	require.NoError(t, err)
	_, err = svc.EndRide(context.Background(), r.ID, 20.00)
	require.NoError(t, err)

	_, err = svc.CancelRide(context.Background(), r.ID, "too late", ride.CancelledBySystem)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeInvalidTransition))
}

// TestCancelRide_InvalidActor tests cancelledBy validation
func TestCancelRide_InvalidActor(t *testing.T) {
	svc := NewService(newFakeStore(), nil, testLogger(t))

	_, err := svc.CancelRide(context.Background(), uuid.New(), "reason", ride.CancelActor("ghost"))
	assert.True(t, apperrors.IsCode(err, apperrors.CodeMissingField))
}

// TestNotifier_ReceivesLifecycleEvents tests event emission
func TestNotifier_ReceivesLifecycleEvents(t *testing.T) {
	store := newFakeStore()
	driverID := store.addDriver("Alex")
	notifier := &recordingNotifier{}
	svc := NewService(store, notifier, testLogger(t))

	r, err := svc.StartRide(context.Background(), validParams(driverID, store.addUser("Sam")))
	require.NoError(t, err)
	_, err = svc.EndRide(context.Background(), r.ID, 20.00)
	require.NoError(t, err)

	assert.Equal(t, []uuid.UUID{r.ID}, notifier.started)
	assert.Equal(t, []uuid.UUID{r.ID}, notifier.completed)
	assert.Empty(t, notifier.cancelled)
}

// TestConcurrentStartAndEnd_AvailabilityConsistent exercises the invariant
// that a concurrent start and end on the same driver never leave the
// availability flag disagreeing with the ride's status
func TestConcurrentStartAndEnd_AvailabilityConsistent(t *testing.T) {
	store := newFakeStore()
	driverID := store.addDriver("Alex")
	svc := NewService(store, nil, testLogger(t))

	first, err := svc.StartRide(context.Background(), validParams(driverID, store.addUser("Sam")))
	require.NoError(t, err)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		svc.EndRide(context.Background(), first.ID, 20.00)
	}()
	go func() {
		defer wg.Done()
		svc.StartRide(context.Background(), validParams(driverID, store.addUser("Kim")))
	}()
	wg.Wait()

	store.mu.Lock()
	defer store.mu.Unlock()
	active := 0
	for _, r := range store.rides {
		if r.HoldsDriver() {
			active++
		}
	}
	if active == 0 {
		assert.True(t, store.drivers[driverID].IsAvailable)
	} else {
		assert.Equal(t, 1, active, "a driver serves at most one active ride")
		assert.False(t, store.drivers[driverID].IsAvailable)
	}
}
