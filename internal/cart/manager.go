package cart

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/granizoapp/granizo-backend/internal/catalog"
	pkgerrors "github.com/granizoapp/granizo-backend/pkg/errors"
	"github.com/granizoapp/granizo-backend/pkg/logger"
	goredis "github.com/redis/go-redis/v9"
)

// SnapshotStore persists serialized terminal sessions.
type SnapshotStore interface {
	StoreSessionSnapshot(ctx context.Context, terminalID, payload string, ttl time.Duration) error
	GetSessionSnapshot(ctx context.Context, terminalID string) (string, error)
	DeleteSessionSnapshot(ctx context.Context, terminalID string) error
}

// Manager hands out one cart engine per terminal. Engines are single-session
// state; the manager only guards its own map because handlers run on
// separate goroutines.
type Manager struct {
	mu      sync.Mutex
	engines map[string]*Engine

	catalog   catalog.Provider
	snapshots SnapshotStore
	ttl       time.Duration
	logg      *logger.Logger
}

// NewManager builds a session manager. The snapshot store is optional; when
// nil, sessions live in memory only.
func NewManager(cat catalog.Provider, snapshots SnapshotStore, ttl time.Duration, logg *logger.Logger) (*Manager, error) {
	if cat == nil {
		return nil, fmt.Errorf("catalog provider required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &Manager{
		engines:   make(map[string]*Engine),
		catalog:   cat,
		snapshots: snapshots,
		ttl:       ttl,
		logg:      logg,
	}, nil
}

// Engine returns the cart engine for the terminal, restoring a persisted
// snapshot on first access so a terminal refresh resumes its sale.
func (m *Manager) Engine(ctx context.Context, terminalID string) (*Engine, error) {
	if terminalID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "terminal id is required")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if engine, ok := m.engines[terminalID]; ok {
		return engine, nil
	}

	engine, err := NewEngine(m.catalog)
	if err != nil {
		return nil, err
	}
	m.restore(ctx, terminalID, engine)
	m.engines[terminalID] = engine
	return engine, nil
}

// Persist writes the engine's snapshot for the terminal. Best-effort: the
// session store being down never blocks a sale.
func (m *Manager) Persist(ctx context.Context, terminalID string, engine *Engine) {
	if m.snapshots == nil || engine == nil {
		return
	}
	payload, err := engine.EncodeSnapshot()
	if err != nil {
		m.logg.Warn(m.logg.WithField(ctx, "error", err.Error()), "encoding session snapshot failed")
		return
	}
	if err := m.snapshots.StoreSessionSnapshot(ctx, terminalID, payload, m.ttl); err != nil {
		m.logg.Warn(m.logg.WithField(ctx, "error", err.Error()), "persisting session snapshot failed")
	}
}

// Catalog returns the provider every engine prices against.
func (m *Manager) Catalog() catalog.Provider {
	return m.catalog
}

// Drop forgets the terminal session and deletes its snapshot.
func (m *Manager) Drop(ctx context.Context, terminalID string) {
	m.mu.Lock()
	delete(m.engines, terminalID)
	m.mu.Unlock()

	if m.snapshots == nil {
		return
	}
	if err := m.snapshots.DeleteSessionSnapshot(ctx, terminalID); err != nil {
		m.logg.Warn(m.logg.WithField(ctx, "error", err.Error()), "deleting session snapshot failed")
	}
}

func (m *Manager) restore(ctx context.Context, terminalID string, engine *Engine) {
	if m.snapshots == nil {
		return
	}
	payload, err := m.snapshots.GetSessionSnapshot(ctx, terminalID)
	if err != nil {
		if !errors.Is(err, goredis.Nil) {
			m.logg.Warn(m.logg.WithField(ctx, "error", err.Error()), "loading session snapshot failed")
		}
		return
	}
	if err := engine.RestoreSnapshot(payload); err != nil {
		m.logg.Warn(m.logg.WithField(ctx, "error", err.Error()), "restoring session snapshot failed")
	}
}
