package assets

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/bilgisen/croft/internal/cache"
	"github.com/bilgisen/croft/internal/logger"
	"github.com/bilgisen/croft/internal/models"
	"github.com/bilgisen/croft/internal/utils"
)

// CachedStore reads through a cache in front of another Store.
// Cache failures are logged and never fail the read.
type CachedStore struct {
	inner   Store
	cache   cache.Cache
	ttl     time.Duration
	maxSize int64
}

// NewCachedStore wraps inner. Assets larger than maxSize bytes are not
// cached; maxSize 0 caches everything.
func NewCachedStore(inner Store, c cache.Cache, ttl time.Duration, maxSize int64) *CachedStore {
	return &CachedStore{
		inner:   inner,
		cache:   c,
		ttl:     ttl,
		maxSize: maxSize,
	}
}

func (s *CachedStore) Open(ctx context.Context, name string) (*models.Asset, error) {
	clean, err := CleanName(name)
	if err != nil {
		return nil, err
	}
	key := utils.Hash(clean)
	log := logger.Get()

	data, err := s.cache.Get(ctx, key)
	switch {
	case err == nil:
		var asset models.Asset
		jsonErr := json.Unmarshal(data, &asset)
		if jsonErr == nil {
			return &asset, nil
		}
		log.Warn().Err(jsonErr).Str("asset", clean).Msg("Discarding corrupt cache entry")
	case !errors.Is(err, cache.ErrMiss):
		log.Warn().Err(err).Str("asset", clean).Msg("Asset cache read failed")
	}

	asset, err := s.inner.Open(ctx, clean)
	if err != nil {
		return nil, err
	}

	if s.maxSize > 0 && asset.Size > s.maxSize {
		return asset, nil
	}

	encoded, err := json.Marshal(asset)
	if err != nil {
		log.Warn().Err(err).Str("asset", clean).Msg("Failed to encode asset for cache")
		return asset, nil
	}
	if err := s.cache.Set(ctx, key, encoded, s.ttl); err != nil {
		log.Warn().Err(err).Str("asset", clean).Msg("Asset cache write failed")
	}

	return asset, nil
}
