package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/dropDatabas3/socialgate/internal/cache"
)

func TestMemorySetGetDelete(t *testing.T) {
	ctx := context.Background()
	c := cache.NewMemory("", time.Minute)

	if err := c.Set(ctx, "k", []byte("v"), 0); err != nil {
		t.Fatalf("Set: %v", err)
	}
	b, ok, err := c.Get(ctx, "k")
	if err != nil || !ok {
		t.Fatalf("Get: ok=%v err=%v", ok, err)
	}
	if string(b) != "v" {
		t.Fatalf("Get = %q", b)
	}

	if err := c.Delete(ctx, "k"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, ok, _ := c.Get(ctx, "k"); ok {
		t.Fatal("la clave sobrevivió al Delete")
	}
}

func TestMemoryGetDelConsumesOnce(t *testing.T) {
	ctx := context.Background()
	c := cache.NewMemory("", time.Minute)

	if err := c.Set(ctx, "k", []byte("v"), 0); err != nil {
		t.Fatalf("Set: %v", err)
	}
	b, ok, err := c.GetDel(ctx, "k")
	if err != nil || !ok || string(b) != "v" {
		t.Fatalf("GetDel = %q ok=%v err=%v", b, ok, err)
	}
	if _, ok, _ := c.GetDel(ctx, "k"); ok {
		t.Fatal("GetDel entregó la misma clave dos veces")
	}
}

func TestMemoryGetDelMissingKey(t *testing.T) {
	c := cache.NewMemory("", time.Minute)
	_, ok, err := c.GetDel(context.Background(), "nope")
	if err != nil {
		t.Fatalf("GetDel: %v", err)
	}
	if ok {
		t.Fatal("GetDel inventó un valor")
	}
}

func TestMemoryTTLExpires(t *testing.T) {
	ctx := context.Background()
	c := cache.NewMemory("", time.Minute)

	if err := c.Set(ctx, "k", []byte("v"), 20*time.Millisecond); err != nil {
		t.Fatalf("Set: %v", err)
	}
	time.Sleep(50 * time.Millisecond)
	if _, ok, _ := c.Get(ctx, "k"); ok {
		t.Fatal("la clave no expiró")
	}
}
