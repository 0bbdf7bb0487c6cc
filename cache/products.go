package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog"

	"github.com/senara-eco/senara-api/models"
)

var logger = zerolog.New(os.Stdout).With().Timestamp().Logger()

var rdb *redis.Client

const productTTL = 10 * time.Minute

// InitRedis connects the product cache. Caching is disabled when REDIS_ADDR
// is unset; every helper below degrades to a no-op in that case.
func InitRedis() {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		logger.Info().Msg("REDIS_ADDR not set, product cache disabled")
		return
	}
	rdb = redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: os.Getenv("REDIS_PASSWORD"),
	})
}

func productKey(id uint) string {
	return fmt.Sprintf("product:%d", id)
}

// GetProduct returns the cached product, or nil on miss or when disabled.
func GetProduct(ctx context.Context, id uint) *models.Product {
	if rdb == nil {
		return nil
	}
	val, err := rdb.Get(ctx, productKey(id)).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			logger.Error().Err(err).Msgf("Error reading product %d from cache", id)
		}
		return nil
	}
	var product models.Product
	if err := json.Unmarshal([]byte(val), &product); err != nil {
		logger.Error().Err(err).Msgf("Error unmarshalling cached product %d", id)
		return nil
	}
	return &product
}

// SetProduct stores the product with a short TTL.
func SetProduct(ctx context.Context, product *models.Product) {
	if rdb == nil {
		return
	}
	data, err := json.Marshal(product)
	if err != nil {
		return
	}
	if err := rdb.Set(ctx, productKey(product.ID), data, productTTL).Err(); err != nil {
		logger.Error().Err(err).Msgf("Error caching product %d", product.ID)
	}
}

// InvalidateProduct drops the cache entry after any write that touches the
// product row, including stock changes from order placement and cancellation.
func InvalidateProduct(ctx context.Context, id uint) {
	if rdb == nil {
		return
	}
	if err := rdb.Del(ctx, productKey(id)).Err(); err != nil {
		logger.Error().Err(err).Msgf("Error invalidating product %d", id)
	}
}
