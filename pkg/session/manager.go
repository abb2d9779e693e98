package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/aretw0/excelauto/internal/logging"
	"github.com/aretw0/excelauto/pkg/domain"
	"github.com/aretw0/excelauto/pkg/ports"
)

// DefaultLockTTL bounds how long a crashed replica can hold a distributed lock.
const DefaultLockTTL = 30 * time.Second

// lockEntry holds the mutex and the reference count.
type lockEntry struct {
	mu   sync.Mutex
	refs int
}

// Manager maps session IDs to workbooks and serializes workbook access.
type Manager struct {
	store ports.SessionStore

	mu    sync.Mutex            // guards locks
	locks map[string]*lockEntry // keyed by cleaned workbook path

	locker  ports.Locker // optional distributed locker
	lockTTL time.Duration
	logger  *slog.Logger
}

// Option configures the Manager.
type Option func(*Manager)

// WithLocker enables distributed locking.
func WithLocker(locker ports.Locker) Option {
	return func(m *Manager) {
		m.locker = locker
	}
}

// WithLockTTL overrides DefaultLockTTL for the distributed locker.
func WithLockTTL(ttl time.Duration) Option {
	return func(m *Manager) {
		if ttl > 0 {
			m.lockTTL = ttl
		}
	}
}

// WithLogger configures a logger for the Manager.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// NewManager creates a Manager on top of the given store.
func NewManager(store ports.SessionStore, opts ...Option) *Manager {
	m := &Manager{
		store:   store,
		locks:   make(map[string]*lockEntry),
		lockTTL: DefaultLockTTL,
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// acquire gets or creates a lock entry and increments its reference count.
// The caller must lock entry.mu and call release(key) after unlocking.
func (m *Manager) acquire(key string) *lockEntry {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[key]
	if !exists {
		entry = &lockEntry{}
		m.locks[key] = entry
	}
	entry.refs++
	return entry
}

// release decrements the reference count and deletes the entry at zero.
func (m *Manager) release(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[key]
	if !exists {
		return
	}
	entry.refs--
	if entry.refs <= 0 {
		delete(m.locks, key)
	}
}

// Select makes path the current workbook of the session.
func (m *Manager) Select(ctx context.Context, sessionID, path string) (*domain.Session, error) {
	s := domain.NewSession(sessionID, path)
	if err := m.store.Save(ctx, s); err != nil {
		return nil, fmt.Errorf("failed to save session %q: %w", sessionID, err)
	}
	m.logger.Debug("workbook selected", "session_id", sessionID, "path", path)
	return s, nil
}

// Current returns the workbook path selected by the session.
// Returns domain.ErrNoWorkbook if the session never selected one.
func (m *Manager) Current(ctx context.Context, sessionID string) (string, error) {
	s, err := m.store.Load(ctx, sessionID)
	if errors.Is(err, domain.ErrSessionNotFound) {
		return "", domain.ErrNoWorkbook
	}
	if err != nil {
		return "", fmt.Errorf("failed to load session %q: %w", sessionID, err)
	}
	if s.WorkbookPath == "" {
		return "", domain.ErrNoWorkbook
	}
	return s.WorkbookPath, nil
}

// Forget drops the session.
func (m *Manager) Forget(ctx context.Context, sessionID string) error {
	return m.store.Delete(ctx, sessionID)
}

// List delegates to the store.
func (m *Manager) List(ctx context.Context) ([]string, error) {
	return m.store.List(ctx)
}

// Store returns the underlying session store.
func (m *Manager) Store() ports.SessionStore {
	return m.store
}

// WithWorkbookLock runs fn while holding the lock for the workbook file.
func (m *Manager) WithWorkbookLock(ctx context.Context, path string, fn func(context.Context) error) error {
	key := filepath.Clean(path)

	entry := m.acquire(key)
	entry.mu.Lock()
	defer func() {
		entry.mu.Unlock()
		m.release(key)
	}()

	if m.locker != nil {
		unlock, err := m.locker.Lock(ctx, key, m.lockTTL)
		if err != nil {
			return fmt.Errorf("failed to acquire distributed lock: %w", err)
		}
		defer func() {
			if err := unlock(context.WithoutCancel(ctx)); err != nil {
				m.logger.Warn("failed to release distributed lock (will expire via TTL)",
					"path", key,
					"err", err,
				)
			}
		}()
	}

	return fn(ctx)
}

// WithSessionWorkbook resolves the session's workbook and runs fn under its lock.
func (m *Manager) WithSessionWorkbook(ctx context.Context, sessionID string, fn func(ctx context.Context, path string) error) error {
	path, err := m.Current(ctx, sessionID)
	if err != nil {
		return err
	}
	return m.WithWorkbookLock(ctx, path, func(ctx context.Context) error {
		return fn(ctx, path)
	})
}
