package idempotency

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
)

type stubStore struct {
	keys    map[string]string
	lastTTL time.Duration
	err     error
}

func newStubStore() *stubStore {
	return &stubStore{keys: map[string]string{}}
}

func (s *stubStore) Get(_ context.Context, key string) (string, error) {
	return s.keys[key], nil
}

func (s *stubStore) SetNX(_ context.Context, key string, value any, ttl time.Duration) (bool, error) {
	if s.err != nil {
		return false, s.err
	}
	s.lastTTL = ttl
	if _, exists := s.keys[key]; exists {
		return false, nil
	}
	s.keys[key] = fmt.Sprint(value)
	return true, nil
}

func (s *stubStore) IdempotencyKey(scope, id string) string {
	return "fh:idempotency:" + scope + ":" + id
}

func (s *stubStore) Del(_ context.Context, keys ...string) error {
	for _, key := range keys {
		delete(s.keys, key)
	}
	return nil
}

func TestCheckAndMarkProcessed(t *testing.T) {
	store := newStubStore()
	manager, err := NewManager(store, time.Hour)
	if err != nil {
		t.Fatalf("new manager: %v", err)
	}

	eventID := uuid.New()
	ctx := context.Background()

	processed, err := manager.CheckAndMarkProcessed(ctx, "notify-worker", eventID)
	if err != nil {
		t.Fatalf("first check: %v", err)
	}
	if processed {
		t.Fatal("first check must report unprocessed")
	}
	if store.lastTTL != time.Hour {
		t.Fatalf("expected TTL to pass through, got %s", store.lastTTL)
	}

	processed, err = manager.CheckAndMarkProcessed(ctx, "notify-worker", eventID)
	if err != nil {
		t.Fatalf("second check: %v", err)
	}
	if !processed {
		t.Fatal("second check must report processed")
	}

	// Distinct consumers track the same event independently.
	processed, err = manager.CheckAndMarkProcessed(ctx, "other-consumer", eventID)
	if err != nil {
		t.Fatalf("other consumer: %v", err)
	}
	if processed {
		t.Fatal("consumers must not share processed state")
	}
}

func TestCheckAndMarkKeyFormat(t *testing.T) {
	store := newStubStore()
	manager, _ := NewManager(store, time.Minute)

	eventID := uuid.New()
	if _, err := manager.CheckAndMarkProcessed(context.Background(), "notify-worker", eventID); err != nil {
		t.Fatalf("check: %v", err)
	}

	want := "fh:idempotency:evt:processed:notify-worker:" + eventID.String()
	if _, ok := store.keys[want]; !ok {
		t.Fatalf("expected key %s, got %v", want, store.keys)
	}
}

func TestDeleteClearsProcessed(t *testing.T) {
	store := newStubStore()
	manager, _ := NewManager(store, time.Minute)
	ctx := context.Background()
	eventID := uuid.New()

	if _, err := manager.CheckAndMarkProcessed(ctx, "notify-worker", eventID); err != nil {
		t.Fatalf("check: %v", err)
	}
	if err := manager.Delete(ctx, "notify-worker", eventID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	processed, err := manager.CheckAndMarkProcessed(ctx, "notify-worker", eventID)
	if err != nil {
		t.Fatalf("recheck: %v", err)
	}
	if processed {
		t.Fatal("deleted event must be processable again")
	}
}

func TestManagerValidation(t *testing.T) {
	if _, err := NewManager(nil, time.Minute); err == nil {
		t.Fatal("expected error for nil store")
	}
	if _, err := NewManager(newStubStore(), -time.Second); err == nil {
		t.Fatal("expected error for negative ttl")
	}

	manager, _ := NewManager(newStubStore(), time.Minute)
	if _, err := manager.CheckAndMarkProcessed(context.Background(), "", uuid.New()); err == nil {
		t.Fatal("expected error for empty consumer")
	}
	if _, err := manager.CheckAndMarkProcessed(context.Background(), "worker", uuid.Nil); err == nil {
		t.Fatal("expected error for nil event id")
	}
}
