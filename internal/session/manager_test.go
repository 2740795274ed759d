package session_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"storefront/internal/domain/model"
	infrarepo "storefront/internal/infra/repository"
	"storefront/internal/logging"
	"storefront/internal/session"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	base    time.Time
	elapsed atomic.Int64
}

func (c *fakeClock) Now() time.Time {
	return c.base.Add(time.Duration(c.elapsed.Load()))
}

func (c *fakeClock) Advance(d time.Duration) {
	c.elapsed.Add(int64(d))
}

func TestManager_SweepEvictsOnlyIdleDevices(t *testing.T) {
	ctx := context.Background()
	clock := &fakeClock{base: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	m := session.NewManager(&AuthGatewayMock{}, &CustomerGatewayMock{}, infrarepo.NewStorageMemoryRepository(), logging.Discard(),
		session.WithIdleTTL(time.Minute), session.WithClock(clock.Now))

	_, err := m.Get(ctx, "idle")
	require.NoError(t, err)
	active := m.Open("active")

	clock.Advance(50 * time.Second)
	again, err := m.Get(ctx, "active")
	require.NoError(t, err)
	assert.Same(t, active, again)

	clock.Advance(20 * time.Second)
	assert.Equal(t, []string{"idle"}, m.Sweep())
	assert.Equal(t, 1, m.Len())

	clock.Advance(time.Minute)
	assert.Equal(t, []string{"active"}, m.Sweep())
	assert.Zero(t, m.Len())
}

func TestManager_ZeroIdleTTLNeverSweeps(t *testing.T) {
	clock := &fakeClock{base: time.Now()}
	m := session.NewManager(&AuthGatewayMock{}, &CustomerGatewayMock{}, infrarepo.NewStorageMemoryRepository(), logging.Discard(),
		session.WithClock(clock.Now))

	m.Open("a")
	clock.Advance(24 * time.Hour)
	assert.Empty(t, m.Sweep())
	assert.Equal(t, 1, m.Len())
}

func TestManager_OpenSkipsStoredSession(t *testing.T) {
	ctx := context.Background()
	storage := infrarepo.NewStorageMemoryRepository()
	storeAuth(t, storage, "dev-1", model.AuthResponse{AccessToken: "t", User: customerUser()})
	auth := &AuthGatewayMock{}
	m := session.NewManager(auth, &CustomerGatewayMock{}, storage, logging.Discard())

	s := m.Open("dev-1")
	snap := s.Snapshot(ctx)
	assert.True(t, snap.Ready)
	assert.Nil(t, snap.User)
	auth.AssertNotCalled(t, "Me", mock.Anything, mock.Anything)
}

func TestManager_EvictedDeviceIsRestoredFromStorage(t *testing.T) {
	ctx := context.Background()
	clock := &fakeClock{base: time.Now()}
	storage := infrarepo.NewStorageMemoryRepository()
	auth := &AuthGatewayMock{}
	auth.On("Login", mock.Anything, mock.Anything, mock.Anything).
		Return(model.AuthResponse{AccessToken: "t", User: customerUser()}, nil)
	auth.On("Me", mock.Anything, "t").Return(customerUser(), nil).Once()
	m := session.NewManager(auth, &CustomerGatewayMock{}, storage, logging.Discard(),
		session.WithIdleTTL(time.Minute), session.WithClock(clock.Now))

	_, err := m.Open("dev-1").Login(ctx, model.LoginRequest{Email: "c@example.com", Password: "password1"})
	require.NoError(t, err)

	clock.Advance(2 * time.Minute)
	require.Equal(t, []string{"dev-1"}, m.Sweep())

	s, err := m.Get(ctx, "dev-1")
	require.NoError(t, err)
	assert.Equal(t, "t", s.Token())
	auth.AssertExpectations(t)
}

func TestManager_RunJanitorReportsEvictedDevices(t *testing.T) {
	clock := &fakeClock{base: time.Now()}
	m := session.NewManager(&AuthGatewayMock{}, &CustomerGatewayMock{}, infrarepo.NewStorageMemoryRepository(), logging.Discard(),
		session.WithIdleTTL(time.Minute), session.WithClock(clock.Now))
	m.Open("a")
	clock.Advance(2 * time.Minute)

	var (
		mu      sync.Mutex
		evicted []string
	)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		m.RunJanitor(ctx, 5*time.Millisecond, func(devices ...string) {
			mu.Lock()
			evicted = append(evicted, devices...)
			mu.Unlock()
		})
	}()

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(evicted) == 1
	}, time.Second, 5*time.Millisecond)

	cancel()
	<-done
	assert.Equal(t, []string{"a"}, evicted)
}
