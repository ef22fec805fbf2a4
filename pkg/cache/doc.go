// Package cache provides Redis-backed caching for eCourts hierarchy data.
//
// Dropdown lookups (states, districts, court complexes, courts) change
// rarely but are expensive to scrape, so the scraper consults this cache
// before touching the portal. Entries are JSON payloads stored with a
// fixed TTL; expiry is delegated to Redis.
//
// # Basic Usage
//
//	redisClient := redis.NewClient(&redis.Options{
//		Addr: "localhost:6379",
//	})
//
//	manager := cache.NewManager(redisClient, time.Hour)
//
//	key := cache.Key{Level: cache.LevelCourts, Params: []string{"CDCC"}}
//
//	var courts []models.Court
//	err := manager.Get(ctx, key, &courts)
//	if err == cache.ErrCacheMiss {
//		// fetch from the portal, then:
//		_ = manager.Set(ctx, key, courts)
//	}
//
// # Metrics
//
// The cache manager exports Prometheus metrics:
//
//   - ecourts_cache_hits_total{level} - Cache hits by hierarchy level
//   - ecourts_cache_misses_total - Cache misses
//   - ecourts_cache_errors_total{operation} - Cache operation errors
package cache
