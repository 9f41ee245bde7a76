package bolt

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func TestBoltCache_PersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "answers.db")
	ctx := context.Background()

	c, err := New(path, 0)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if _, ok, err := c.Get(ctx, "k"); ok || err != nil {
		t.Fatalf("Expected miss, got ok=%v err=%v", ok, err)
	}
	if err := c.Set(ctx, "k", "Quedan 5 unidades."); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := c.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	c, err = New(path, 0)
	if err != nil {
		t.Fatalf("Reopen failed: %v", err)
	}
	defer c.Close()

	got, ok, err := c.Get(ctx, "k")
	if err != nil || !ok || got != "Quedan 5 unidades." {
		t.Errorf("Expected persisted answer, got %q ok=%v err=%v", got, ok, err)
	}
}

func TestBoltCache_Expiry(t *testing.T) {
	c, err := New(filepath.Join(t.TempDir(), "answers.db"), time.Minute)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer c.Close()

	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }
	ctx := context.Background()

	_ = c.Set(ctx, "k", "answer")

	now = now.Add(30 * time.Second)
	if _, ok, _ := c.Get(ctx, "k"); !ok {
		t.Error("Expected hit before ttl")
	}

	now = now.Add(time.Minute)
	if _, ok, _ := c.Get(ctx, "k"); ok {
		t.Error("Expected miss after ttl")
	}
}
