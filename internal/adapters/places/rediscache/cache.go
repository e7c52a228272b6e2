package rediscache

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"doggo-community/internal/platform/logger"
	"doggo-community/internal/ports/places"

	"github.com/redis/go-redis/v9"
)

const DefaultTTL = 5 * time.Minute

// Cache decora un places.Searcher con cache en redis. Un fallo de redis
// nunca rompe la búsqueda; se degrada a pegarle siempre al proveedor.
type Cache struct {
	next places.Searcher
	rdb  *redis.Client
	ttl  time.Duration
	log  logger.Logger
}

func New(next places.Searcher, rdb *redis.Client, ttl time.Duration, log logger.Logger) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{next: next, rdb: rdb, ttl: ttl, log: log}
}

func (c *Cache) SearchNearby(ctx context.Context, q places.Query) ([]places.Place, error) {
	key := cacheKey(q)

	if raw, err := c.rdb.Get(ctx, key).Result(); err == nil {
		var cached []places.Place
		if err := json.Unmarshal([]byte(raw), &cached); err == nil {
			return cached, nil
		}
		// Entrada corrupta; seguimos al proveedor y la pisamos.
	} else if err != redis.Nil && c.log != nil {
		c.log.Warn("places cache read failed", map[string]any{"err": err.Error()})
	}

	out, err := c.next.SearchNearby(ctx, q)
	if err != nil {
		return nil, err
	}

	if raw, err := json.Marshal(out); err == nil {
		if err := c.rdb.Set(ctx, key, raw, c.ttl).Err(); err != nil && c.log != nil {
			c.log.Warn("places cache write failed", map[string]any{"err": err.Error()})
		}
	}
	return out, nil
}

// cacheKey redondea las coordenadas a ~100m para que búsquedas cercanas
// compartan entrada.
func cacheKey(q places.Query) string {
	return fmt.Sprintf("doggo:places:%.3f:%.3f:%d:%s:%d",
		q.Location.Lat, q.Location.Lng, q.RadiusM, strings.ToLower(q.Category), q.Limit)
}
