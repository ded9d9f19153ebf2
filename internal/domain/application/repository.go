package application

import "context"

type Repository interface {
	Create(ctx context.Context, a *Application) error

	// ListBySession returns newest first; limit <= 0 means no limit
	ListBySession(ctx context.Context, sessionID string, limit int) ([]Application, error)
}
