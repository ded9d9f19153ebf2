package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"credit-preapproval/internal/domain/preapproval"

	"github.com/redis/go-redis/v9"
)

// Session keys mirror what sign-in writes: one string per item under session:{id}.
func tokenKey(sessionID string) string   { return "session:" + sessionID + ":token" }
func profileKey(sessionID string) string { return "session:" + sessionID + ":userData" }
func currentKey(sessionID string) string { return "session:" + sessionID + ":currentLoanApplication" }

type SessionStore struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewSessionStore keeps every session item for ttl after its last write; ttl 0 keeps them forever.
func NewSessionStore(rdb *redis.Client, ttl time.Duration) *SessionStore {
	return &SessionStore{rdb: rdb, ttl: ttl}
}

func (s *SessionStore) Put(ctx context.Context, sessionID, token string, profile *preapproval.Profile) error {
	_, err := s.rdb.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Set(ctx, tokenKey(sessionID), token, s.ttl)
		if profile == nil {
			p.Del(ctx, profileKey(sessionID))
			return nil
		}
		raw, err := json.Marshal(profile)
		if err != nil {
			return err
		}
		p.Set(ctx, profileKey(sessionID), raw, s.ttl)
		return nil
	})
	return err
}

func (s *SessionStore) CurrentApplication(ctx context.Context, sessionID string) (*preapproval.CurrentApplication, error) {
	raw, err := s.rdb.Get(ctx, currentKey(sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, preapproval.ErrNoCurrentApplication
	}
	if err != nil {
		return nil, err
	}
	var app preapproval.CurrentApplication
	if err := json.Unmarshal(raw, &app); err != nil {
		return nil, fmt.Errorf("decode current application: %w", err)
	}
	return &app, nil
}

// Session binds the store to one session id.
func (s *SessionStore) Session(sessionID string) preapproval.Session {
	return &session{store: s, id: sessionID}
}

type session struct {
	store *SessionStore
	id    string
}

func (b *session) Token(ctx context.Context) (string, error) {
	tok, err := b.store.rdb.Get(ctx, tokenKey(b.id)).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	return tok, err
}

// Profile returns nil for an absent record and an error for one that does not parse.
func (b *session) Profile(ctx context.Context) (*preapproval.Profile, error) {
	raw, err := b.store.rdb.Get(ctx, profileKey(b.id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var p preapproval.Profile
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("decode userData: %w", err)
	}
	return &p, nil
}

func (b *session) SaveCurrentApplication(ctx context.Context, app preapproval.CurrentApplication) error {
	raw, err := json.Marshal(app)
	if err != nil {
		return err
	}
	return b.store.rdb.Set(ctx, currentKey(b.id), raw, b.store.ttl).Err()
}
