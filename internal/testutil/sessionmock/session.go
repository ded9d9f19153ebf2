package sessionmock

import (
	"context"
	"sync"

	domain "credit-preapproval/internal/domain/preapproval"
)

// Session is a function-backed mock of domain.Session.
// With no funcs set it behaves like an empty session and remembers saved applications.
type Session struct {
	TokenFn   func(ctx context.Context) (string, error)
	ProfileFn func(ctx context.Context) (*domain.Profile, error)
	SaveFn    func(ctx context.Context, app domain.CurrentApplication) error

	mu    sync.Mutex
	Saved []domain.CurrentApplication
}

// WithToken returns a session that yields token and profile.
func WithToken(token string, profile *domain.Profile) *Session {
	return &Session{
		TokenFn:   func(context.Context) (string, error) { return token, nil },
		ProfileFn: func(context.Context) (*domain.Profile, error) { return profile, nil },
	}
}

func (m *Session) Token(ctx context.Context) (string, error) {
	if m.TokenFn != nil {
		return m.TokenFn(ctx)
	}
	return "", nil
}

func (m *Session) Profile(ctx context.Context) (*domain.Profile, error) {
	if m.ProfileFn != nil {
		return m.ProfileFn(ctx)
	}
	return nil, nil
}

func (m *Session) SaveCurrentApplication(ctx context.Context, app domain.CurrentApplication) error {
	m.mu.Lock()
	m.Saved = append(m.Saved, app)
	m.mu.Unlock()
	if m.SaveFn != nil {
		return m.SaveFn(ctx, app)
	}
	return nil
}

// Last returns the most recently saved application, or nil.
func (m *Session) Last() *domain.CurrentApplication {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.Saved) == 0 {
		return nil
	}
	app := m.Saved[len(m.Saved)-1]
	return &app
}

// Source maps session ids to mocks. Unknown ids get an empty session.
type Source map[string]*Session

func (s Source) Session(sessionID string) domain.Session {
	if m, ok := s[sessionID]; ok {
		return m
	}
	return &Session{}
}
