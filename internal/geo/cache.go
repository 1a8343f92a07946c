package geo

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/foodshare/foodshare/internal/models"
)

// Geocoder turns an address into coordinates.
type Geocoder interface {
	Geocode(ctx context.Context, addr models.Address) (*models.Coordinates, error)
}

// CachedGeocoder remembers lookups in Redis. Cache failures are logged and
// fall through to the wrapped geocoder.
type CachedGeocoder struct {
	next   Geocoder
	redis  *redis.Client
	ttl    time.Duration
	logger *logrus.Logger
}

// NewCachedGeocoder wraps next with a Redis cache.
func NewCachedGeocoder(next Geocoder, client *redis.Client, ttl time.Duration, logger *logrus.Logger) *CachedGeocoder {
	return &CachedGeocoder{next: next, redis: client, ttl: ttl, logger: logger}
}

func (g *CachedGeocoder) Geocode(ctx context.Context, addr models.Address) (*models.Coordinates, error) {
	key := cacheKey(addr)

	if raw, err := g.redis.Get(ctx, key).Bytes(); err == nil {
		var c models.Coordinates
		if err := json.Unmarshal(raw, &c); err == nil {
			return &c, nil
		}
	} else if err != redis.Nil {
		g.logger.WithError(err).Warn("geocode cache read failed")
	}

	c, err := g.next.Geocode(ctx, addr)
	if err != nil {
		return nil, err
	}

	if raw, err := json.Marshal(c); err == nil {
		if err := g.redis.Set(ctx, key, raw, g.ttl).Err(); err != nil {
			g.logger.WithError(err).Warn("geocode cache write failed")
		}
	}
	return c, nil
}

func cacheKey(addr models.Address) string {
	return "geocode:" + strings.ToLower(addr.String())
}
