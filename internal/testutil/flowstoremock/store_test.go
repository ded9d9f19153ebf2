package flowstoremock

import (
	"context"
	"errors"
	"testing"

	domain "credit-preapproval/internal/domain/preapproval"
)

func TestStore_ScopedToSession(t *testing.T) {
	ctx := context.Background()
	s := New()
	snap := domain.Snapshot{ID: "f1", State: domain.State{Kind: domain.KindBasicInfo}}
	if err := s.Save(ctx, "sess-a", snap); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if _, err := s.Load(ctx, "sess-b", "f1"); !errors.Is(err, domain.ErrFlowNotFound) {
		t.Fatalf("other session: want ErrFlowNotFound, got %v", err)
	}
	got, err := s.Load(ctx, "sess-a", "f1")
	if err != nil || got.ID != "f1" {
		t.Fatalf("Load: %+v %v", got, err)
	}
}

func TestStore_Acquire(t *testing.T) {
	ctx := context.Background()
	s := New()
	release, err := s.Acquire(ctx, "f1")
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	if _, err := s.Acquire(ctx, "f1"); !errors.Is(err, domain.ErrFlowBusy) {
		t.Fatalf("second Acquire: want ErrFlowBusy, got %v", err)
	}
	release()
	if _, err := s.Acquire(ctx, "f1"); err != nil {
		t.Fatalf("Acquire after release: %v", err)
	}
}
