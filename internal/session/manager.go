package session

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"storefront/internal/repository"
)

// Manager は端末IDごとの Store を持つ。
// しばらく使われていない端末はメモリから外す（保存先の状態は残るので、戻ってきたら復元される）。
type Manager struct {
	mu      sync.Mutex
	entries map[string]*entry

	auth      repository.AuthGateway
	customers repository.CustomerGateway
	storage   repository.StorageRepository
	log       *slog.Logger

	idleTTL time.Duration
	now     func() time.Time
}

type entry struct {
	store *Store
	seen  time.Time
}

type Option func(*Manager)

// WithIdleTTL は最後のアクセスからこの時間を過ぎた端末を Sweep の対象にする（0 以下なら外さない）
func WithIdleTTL(d time.Duration) Option {
	return func(m *Manager) { m.idleTTL = d }
}

func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

func NewManager(
	auth repository.AuthGateway,
	customers repository.CustomerGateway,
	storage repository.StorageRepository,
	log *slog.Logger,
	opts ...Option,
) *Manager {
	m := &Manager{
		entries:   map[string]*entry{},
		auth:      auth,
		customers: customers,
		storage:   storage,
		log:       log,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Get は端末の Store を返す。初回は保存済みセッションの復元まで終わらせる。
func (m *Manager) Get(ctx context.Context, device string) (*Store, error) {
	s := m.touch(device, false)

	// 同じ端末の並行リクエストは Store のロックで待つ
	if err := s.Init(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// Open はいま発行したばかりの端末IDの Store を返す。保存先は読まない。
func (m *Manager) Open(device string) *Store {
	return m.touch(device, true)
}

func (m *Manager) touch(device string, fresh bool) *Store {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[device]
	if !ok {
		s := NewStore(device, m.auth, m.customers, m.storage, m.log)
		if fresh {
			s.ready = true
		}
		e = &entry{store: s}
		m.entries[device] = e
	}
	e.seen = m.now()
	return e.store
}

// Sweep は idleTTL を過ぎた端末を外し、その端末IDを返す。
func (m *Manager) Sweep() []string {
	if m.idleTTL <= 0 {
		return nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	cutoff := m.now().Add(-m.idleTTL)
	var evicted []string
	for device, e := range m.entries {
		if e.seen.Before(cutoff) {
			delete(m.entries, device)
			evicted = append(evicted, device)
		}
	}
	return evicted
}

func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return len(m.entries)
}

// RunJanitor は ctx が終わるまで interval ごとに Sweep する。
// 外した端末IDは onEvict に渡す（端末ごとの画面状態の後始末用）。
func (m *Manager) RunJanitor(ctx context.Context, interval time.Duration, onEvict func(devices ...string)) {
	if m.idleTTL <= 0 || interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			evicted := m.Sweep()
			if len(evicted) == 0 {
				continue
			}
			if onEvict != nil {
				onEvict(evicted...)
			}
			m.log.Debug("idle devices evicted", "count", len(evicted))
		}
	}
}
