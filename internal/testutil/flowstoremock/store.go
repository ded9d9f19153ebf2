package flowstoremock

import (
	"context"
	"sync"

	domain "credit-preapproval/internal/domain/preapproval"
)

type entry struct {
	sessionID string
	snap      domain.Snapshot
}

// Store is an in-memory domain.FlowStore. SaveFn, when set, replaces Save.
type Store struct {
	SaveFn func(ctx context.Context, sessionID string, s domain.Snapshot) error

	mu     sync.Mutex
	flows  map[string]entry
	held   map[string]bool
	Writes []domain.Snapshot
}

func New() *Store {
	return &Store{flows: map[string]entry{}, held: map[string]bool{}}
}

func (m *Store) Save(ctx context.Context, sessionID string, s domain.Snapshot) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, sessionID, s)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.flows[s.ID] = entry{sessionID: sessionID, snap: s}
	m.Writes = append(m.Writes, s)
	return nil
}

func (m *Store) Load(_ context.Context, sessionID, flowID string) (*domain.Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.flows[flowID]
	if !ok || e.sessionID != sessionID {
		return nil, domain.ErrFlowNotFound
	}
	s := e.snap
	return &s, nil
}

func (m *Store) Acquire(_ context.Context, flowID string) (func(), error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.held[flowID] {
		return nil, domain.ErrFlowBusy
	}
	m.held[flowID] = true
	return func() {
		m.mu.Lock()
		delete(m.held, flowID)
		m.mu.Unlock()
	}, nil
}

// Hold takes the lock on flowID as a competing request would.
func (m *Store) Hold(flowID string) (release func()) {
	release, _ = m.Acquire(context.Background(), flowID)
	return release
}
