package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"credit-preapproval/internal/domain/preapproval"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

func flowKey(flowID string) string { return "flow:" + flowID }
func lockKey(flowID string) string { return "flow:" + flowID + ":lock" }

// releaseLock deletes the lock only while it still carries the holder's token.
var releaseLock = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

type flowEnvelope struct {
	SessionID string               `json:"session_id"`
	Snapshot  preapproval.Snapshot `json:"snapshot"`
}

type FlowStore struct {
	rdb     *redis.Client
	ttl     time.Duration
	lockTTL time.Duration
}

// NewFlowStore keeps snapshots for ttl after their last write. lockTTL bounds
// how long a crashed holder can block a flow and must exceed the longest event,
// a submission included.
func NewFlowStore(rdb *redis.Client, ttl, lockTTL time.Duration) *FlowStore {
	return &FlowStore{rdb: rdb, ttl: ttl, lockTTL: lockTTL}
}

func (s *FlowStore) Save(ctx context.Context, sessionID string, snap preapproval.Snapshot) error {
	raw, err := json.Marshal(flowEnvelope{SessionID: sessionID, Snapshot: snap})
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, flowKey(snap.ID), raw, s.ttl).Err()
}

func (s *FlowStore) Load(ctx context.Context, sessionID, flowID string) (*preapproval.Snapshot, error) {
	raw, err := s.rdb.Get(ctx, flowKey(flowID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, preapproval.ErrFlowNotFound
	}
	if err != nil {
		return nil, err
	}
	var env flowEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("decode flow %s: %w", flowID, err)
	}
	if env.SessionID != sessionID {
		return nil, preapproval.ErrFlowNotFound
	}
	return &env.Snapshot, nil
}

func (s *FlowStore) Acquire(ctx context.Context, flowID string) (func(), error) {
	token := uuid.NewString()
	ok, err := s.rdb.SetNX(ctx, lockKey(flowID), token, s.lockTTL).Result()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, preapproval.ErrFlowBusy
	}
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = releaseLock.Run(ctx, s.rdb, []string{lockKey(flowID)}, token).Err()
	}, nil
}
