package store

import (
	"testing"

	"github.com/fennwick/choreboard/internal/model"
)

func TestPushStoreCreateAndList(t *testing.T) {
	s := NewPushStore(setupTestDB(t))

	sub := &model.PushSubscription{
		User:      "ash",
		Endpoint:  "https://push.example/ep1",
		P256dhKey: "p256dh",
		AuthKey:   "auth",
	}
	if err := s.Create(sub); err != nil {
		t.Fatalf("create: %v", err)
	}
	if sub.ID == 0 {
		t.Error("create should set the id")
	}

	s.Create(&model.PushSubscription{
		User: "vast", Endpoint: "https://push.example/ep2",
		P256dhKey: "k", AuthKey: "a",
	})

	all, err := s.List()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 subscriptions, got %d", len(all))
	}

	mine, err := s.ListByUser("ash")
	if err != nil {
		t.Fatalf("list by user: %v", err)
	}
	if len(mine) != 1 || mine[0].Endpoint != "https://push.example/ep1" {
		t.Errorf("unexpected subscriptions for ash: %v", mine)
	}
}

func TestPushStoreEndpointIsIdentity(t *testing.T) {
	s := NewPushStore(setupTestDB(t))

	s.Create(&model.PushSubscription{
		User: "ash", Endpoint: "https://push.example/ep",
		P256dhKey: "old", AuthKey: "old",
	})
	// Re-registration with the same endpoint replaces, not duplicates.
	s.Create(&model.PushSubscription{
		User: "hope", Endpoint: "https://push.example/ep",
		P256dhKey: "new", AuthKey: "new",
	})

	all, _ := s.List()
	if len(all) != 1 {
		t.Fatalf("expected 1 subscription, got %d", len(all))
	}
	if all[0].User != "hope" || all[0].P256dhKey != "new" {
		t.Errorf("subscription not replaced: %+v", all[0])
	}
}

func TestPushStoreDelete(t *testing.T) {
	s := NewPushStore(setupTestDB(t))

	sub := &model.PushSubscription{
		User: "ash", Endpoint: "https://push.example/ep",
		P256dhKey: "k", AuthKey: "a",
	}
	s.Create(sub)

	if err := s.Delete(sub.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	all, _ := s.List()
	if len(all) != 0 {
		t.Error("subscription should be deleted by id")
	}

	s.Create(sub)
	if err := s.DeleteByEndpoint(sub.Endpoint); err != nil {
		t.Fatalf("delete by endpoint: %v", err)
	}
	all, _ = s.List()
	if len(all) != 0 {
		t.Error("subscription should be deleted by endpoint")
	}
}
