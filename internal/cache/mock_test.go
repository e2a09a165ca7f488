package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bilgisen/croft/internal/config"
)

func TestMockClient(t *testing.T) {
	ctx := context.Background()
	c := NewMockClient()

	if _, err := c.Get(ctx, "missing"); !errors.Is(err, ErrMiss) {
		t.Fatalf("Get(missing) error = %v, want ErrMiss", err)
	}

	value := []byte("hello")
	if err := c.Set(ctx, "k", value, time.Minute); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	value[0] = 'j' // stored copy must not alias the caller's slice

	got, err := c.Get(ctx, "k")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if string(got) != "hello" {
		t.Errorf("Get() = %q, want hello", got)
	}
	if c.TTL("k") != time.Minute {
		t.Errorf("TTL() = %v, want 1m", c.TTL("k"))
	}

	n, err := c.Purge(ctx)
	if err != nil || n != 1 {
		t.Fatalf("Purge() = %d, %v; want 1, nil", n, err)
	}
	if c.Len() != 0 {
		t.Errorf("Len() after purge = %d", c.Len())
	}
}

func TestNewRedisClientRejectsBadURL(t *testing.T) {
	_, err := NewRedisClient(&config.Config{RedisURL: "not a url"})
	if err == nil {
		t.Fatal("expected error for invalid Redis URL")
	}
}
