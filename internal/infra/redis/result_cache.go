package redis

import (
	"context"
	"encoding/json"
	"math/rand"
	"sync"
	"time"

	"neuroscent-quiz/internal/domain"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

// ResultLoader fetches a computed result from the scoring service.
type ResultLoader interface {
	FetchResult(ctx context.Context, testID string) (domain.Result, error)
}

// ResultCache caches results in Redis (one JSON value per test id) and
// falls back to the loader on cache miss. Stored as:
// SET quiz:result:{testID} {json} EX ttl
type ResultCache struct {
	client *redis.Client
	loader ResultLoader
	ttl    time.Duration
	sf     singleflight.Group

	// rnd is shared between the load path and Put, so every use goes
	// through rndMu.
	rndMu sync.Mutex
	rnd   *rand.Rand
}

func NewResultCache(client *redis.Client, loader ResultLoader, ttl time.Duration) *ResultCache {
	return &ResultCache{
		client: client,
		loader: loader,
		ttl:    ttl,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (r *ResultCache) GetResult(ctx context.Context, testID string) (domain.Result, error) {
	key := r.key(testID)

	if cached, err := r.client.Get(ctx, key).Bytes(); err == nil {
		var result domain.Result
		if err := json.Unmarshal(cached, &result); err == nil {
			return result, nil
		}
		// Unreadable entry: drop it and fall through to the loader.
		_ = r.client.Del(ctx, key).Err()
	}

	result, err, _ := r.sf.Do(testID, func() (interface{}, error) {
		// Re-check cache in case another goroutine filled it.
		if cached, err := r.client.Get(ctx, key).Bytes(); err == nil {
			var result domain.Result
			if err := json.Unmarshal(cached, &result); err == nil {
				return result, nil
			}
		}

		fetched, err := r.loader.FetchResult(ctx, testID)
		if err != nil {
			return domain.Result{}, err
		}
		r.store(ctx, fetched)
		return fetched, nil
	})
	if err != nil {
		return domain.Result{}, err
	}
	return result.(domain.Result), nil
}

// Put seeds the cache with a freshly calculated result.
func (r *ResultCache) Put(result domain.Result) {
	r.store(context.Background(), result)
}

func (r *ResultCache) store(ctx context.Context, result domain.Result) {
	data, err := json.Marshal(result)
	if err != nil {
		return
	}
	_ = r.client.Set(ctx, r.key(result.TestID), data, r.ttlWithJitter()).Err()
}

func (r *ResultCache) key(testID string) string {
	return "quiz:result:" + testID
}

// ttlWithJitter spreads expirations by up to 10%. A non-positive ttl
// yields 0, which redis treats as no expiry.
func (r *ResultCache) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	jitterMax := int64(r.ttl) / 10
	r.rndMu.Lock()
	defer r.rndMu.Unlock()
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}
