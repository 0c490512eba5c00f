package session_test

import (
	"context"
	"testing"
	"time"

	"github.com/dropDatabas3/socialgate/internal/cache"
	"github.com/dropDatabas3/socialgate/internal/oauth"
	"github.com/dropDatabas3/socialgate/internal/session"
)

func newStore(t *testing.T) session.Store {
	t.Helper()
	return session.NewStore(cache.NewMemory("", time.Minute), time.Minute)
}

func TestStoreSetGetUnset(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	sid, err := s.Start(ctx)
	if err != nil {
		t.Fatalf("start: %v", err)
	}

	if err := s.Set(ctx, sid, "k", "v"); err != nil {
		t.Fatalf("set: %v", err)
	}
	v, ok, err := s.Get(ctx, sid, "k")
	if err != nil || !ok || v != "v" {
		t.Fatalf("get: v=%q ok=%v err=%v", v, ok, err)
	}

	if err := s.Unset(ctx, sid, "k"); err != nil {
		t.Fatalf("unset: %v", err)
	}
	if _, ok, _ := s.Get(ctx, sid, "k"); ok {
		t.Fatal("key should be gone")
	}
}

func TestStoreConsume(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	sid, _ := s.Start(ctx)
	if err := s.Set(ctx, sid, "k", "v"); err != nil {
		t.Fatalf("set: %v", err)
	}

	v, ok, err := s.Consume(ctx, sid, "k")
	if err != nil || !ok || v != "v" {
		t.Fatalf("consume: v=%q ok=%v err=%v", v, ok, err)
	}
	if _, ok, _ := s.Consume(ctx, sid, "k"); ok {
		t.Fatal("second consume must miss")
	}
}

func TestRegenerateIDKeepsLoginKeys(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	sid, _ := s.Start(ctx)
	_ = s.Set(ctx, sid, session.KeyCustomerID, "acct-1")
	_ = s.Set(ctx, sid, session.KeyFlash, "hola")
	_ = s.Set(ctx, sid, "otra", "se-pierde")

	newSID, err := s.RegenerateID(ctx, sid)
	if err != nil {
		t.Fatalf("regenerate: %v", err)
	}
	if newSID == sid {
		t.Fatal("sid must rotate")
	}

	if v, ok, _ := s.Get(ctx, newSID, session.KeyCustomerID); !ok || v != "acct-1" {
		t.Fatalf("customer_id lost: v=%q ok=%v", v, ok)
	}
	if v, ok, _ := s.Get(ctx, newSID, session.KeyFlash); !ok || v != "hola" {
		t.Fatalf("flash lost: v=%q ok=%v", v, ok)
	}
	// La sesión vieja no conserva las claves de login.
	if _, ok, _ := s.Get(ctx, sid, session.KeyCustomerID); ok {
		t.Fatal("old session must not keep login keys")
	}
}

func TestPendingTakeOnce(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	sid, _ := s.Start(ctx)
	data := session.PendingData{
		Identity: oauth.ExternalIdentity{
			Provider:   "facebook",
			ExternalID: "fb-123",
			Email:      "ana@example.com",
			FirstName:  "Ana",
			LastName:   "Gomez",
		},
		WebsiteID: 2,
	}
	if err := session.PutPending(ctx, s, sid, data); err != nil {
		t.Fatalf("put: %v", err)
	}

	got, ok, err := session.TakePending(ctx, s, sid)
	if err != nil || !ok {
		t.Fatalf("take: ok=%v err=%v", ok, err)
	}
	if got.Identity.ExternalID != "fb-123" || got.WebsiteID != 2 {
		t.Fatalf("unexpected pending: %+v", got)
	}

	if _, ok, _ := session.TakePending(ctx, s, sid); ok {
		t.Fatal("pending data must be consumed")
	}
}
