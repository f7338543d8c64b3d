package memory

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"neuroscent-quiz/internal/domain"

	"golang.org/x/sync/singleflight"
)

// ResultLoader fetches a computed result from the scoring service.
type ResultLoader interface {
	FetchResult(ctx context.Context, testID string) (domain.Result, error)
}

// ResultCache caches fetched results with TTL so shared-link reads avoid
// repeated remote round trips. Lookup failures are not cached.
type ResultCache struct {
	loader ResultLoader
	ttl    time.Duration
	clock  func() time.Time
	sf     singleflight.Group
	rnd    *rand.Rand

	mu    sync.RWMutex
	cache map[string]cachedResult
}

type cachedResult struct {
	result    domain.Result
	expiresAt time.Time
}

// live treats a zero expiresAt as never expiring, mirroring a redis SET
// without EX.
func (c cachedResult) live(now time.Time) bool {
	return c.expiresAt.IsZero() || c.expiresAt.After(now)
}

func NewResultCache(loader ResultLoader, ttl time.Duration) *ResultCache {
	return &ResultCache{
		loader: loader,
		ttl:    ttl,
		clock:  time.Now,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
		cache:  make(map[string]cachedResult),
	}
}

func (r *ResultCache) GetResult(ctx context.Context, testID string) (domain.Result, error) {
	now := r.clock()

	r.mu.RLock()
	if entry, ok := r.cache[testID]; ok && entry.live(now) {
		r.mu.RUnlock()
		return entry.result, nil
	}
	r.mu.RUnlock()

	result, err, _ := r.sf.Do(testID, func() (interface{}, error) {
		now := r.clock()
		r.mu.RLock()
		if entry, ok := r.cache[testID]; ok && entry.live(now) {
			r.mu.RUnlock()
			return entry.result, nil
		}
		r.mu.RUnlock()

		fetched, err := r.loader.FetchResult(ctx, testID)
		if err != nil {
			return domain.Result{}, err
		}

		r.mu.Lock()
		r.cache[testID] = cachedResult{
			result:    fetched,
			expiresAt: r.expiry(now),
		}
		r.mu.Unlock()
		return fetched, nil
	})
	if err != nil {
		return domain.Result{}, err
	}
	return result.(domain.Result), nil
}

// Put seeds the cache with a freshly calculated result so the immediate
// results screen (and its share link) never re-fetches.
func (r *ResultCache) Put(result domain.Result) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cache[result.TestID] = cachedResult{
		result:    result,
		expiresAt: r.expiry(r.clock()),
	}
}

// expiry is zero for non-positive TTLs, meaning the entry never expires.
// Callers must hold mu for the rnd access inside ttlWithJitter.
func (r *ResultCache) expiry(now time.Time) time.Time {
	d := r.ttlWithJitter()
	if d <= 0 {
		return time.Time{}
	}
	return now.Add(d)
}

func (r *ResultCache) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	// add up to 10% jitter to spread expirations
	jitterMax := int64(r.ttl) / 10
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}
