package assets

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bilgisen/croft/internal/cache"
	"github.com/bilgisen/croft/internal/models"
	"github.com/bilgisen/croft/internal/utils"
)

type countingStore struct {
	assets map[string]string
	calls  int
}

func (c *countingStore) Open(ctx context.Context, name string) (*models.Asset, error) {
	c.calls++
	body, ok := c.assets[name]
	if !ok {
		return nil, ErrNotFound
	}
	return &models.Asset{Name: name, ContentType: "text/plain", Body: []byte(body), Size: int64(len(body))}, nil
}

type brokenCache struct{}

func (brokenCache) Get(ctx context.Context, key string) ([]byte, error) {
	return nil, errors.New("redis down")
}

func (brokenCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return errors.New("redis down")
}

func (brokenCache) Purge(ctx context.Context) (int, error) { return 0, nil }
func (brokenCache) Close() error                         { return nil }

func TestCachedStoreReadsThrough(t *testing.T) {
	inner := &countingStore{assets: map[string]string{"js/game.js": "game", "big.bin": "0123456789"}}
	mem := cache.NewMockClient()
	store := NewCachedStore(inner, mem, time.Minute, 5)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		asset, err := store.Open(ctx, "js/game.js")
		if err != nil {
			t.Fatalf("Open() error = %v", err)
		}
		if string(asset.Body) != "game" {
			t.Fatalf("Body = %q", asset.Body)
		}
	}
	if inner.calls != 1 {
		t.Errorf("inner store called %d times, want 1", inner.calls)
	}
	if mem.Len() != 1 {
		t.Errorf("cache holds %d entries, want 1", mem.Len())
	}

	// larger than maxSize: served but never cached
	for i := 0; i < 2; i++ {
		if _, err := store.Open(ctx, "big.bin"); err != nil {
			t.Fatalf("Open(big) error = %v", err)
		}
	}
	if inner.calls != 3 {
		t.Errorf("inner store called %d times, want 3", inner.calls)
	}
	if mem.Len() != 1 {
		t.Errorf("oversized asset was cached")
	}
}

func TestCachedStoreErrors(t *testing.T) {
	inner := &countingStore{assets: map[string]string{}}
	store := NewCachedStore(inner, cache.NewMockClient(), time.Minute, 0)
	ctx := context.Background()

	if _, err := store.Open(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
	if _, err := store.Open(ctx, "../x"); !errors.Is(err, ErrInvalidPath) {
		t.Errorf("error = %v, want ErrInvalidPath", err)
	}
	if inner.calls != 1 {
		t.Errorf("invalid path reached the inner store")
	}
}

func TestCachedStoreBypassesBrokenCache(t *testing.T) {
	inner := &countingStore{assets: map[string]string{"a.txt": "a"}}
	store := NewCachedStore(inner, brokenCache{}, time.Minute, 0)

	asset, err := store.Open(context.Background(), "a.txt")
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if string(asset.Body) != "a" {
		t.Errorf("Body = %q", asset.Body)
	}
}

func TestCachedStoreDiscardsCorruptEntry(t *testing.T) {
	inner := &countingStore{assets: map[string]string{"a.txt": "a"}}
	mem := cache.NewMockClient()
	store := NewCachedStore(inner, mem, time.Minute, 0)
	ctx := context.Background()

	if _, err := store.Open(ctx, "a.txt"); err != nil {
		t.Fatal(err)
	}
	if _, err := mem.Purge(ctx); err != nil {
		t.Fatal(err)
	}
	_ = mem.Set(ctx, utils.Hash("a.txt"), []byte("{not json"), time.Minute)

	asset, err := store.Open(ctx, "a.txt")
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if string(asset.Body) != "a" || inner.calls != 2 {
		t.Errorf("corrupt entry not refreshed: body=%q calls=%d", asset.Body, inner.calls)
	}
}
