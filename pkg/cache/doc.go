// Package cache provides an optional Redis-backed page cache for the Omeda
// get-matches-since endpoint.
//
// A backfill run always regenerates every window from the configured first
// epoch, so consecutive runs refetch mostly identical history pages. The
// cache stores each page's raw JSON body keyed by its request epoch, letting
// a rerun serve those pages locally instead of hitting the API again. It is
// purely a bandwidth optimization: engine semantics (window walk, cursor
// advancement, exhaustion detection) are unchanged whether the cache is
// enabled or not.
//
// Example usage:
//
//	redisClient := redis.NewClient(&redis.Options{Addr: "localhost:6379"})
//	manager := cache.NewManager(redisClient, 24*time.Hour)
//
//	entry, err := manager.Get(ctx, cache.Key{Epoch: 1669882894})
//	if errors.Is(err, cache.ErrCacheMiss) {
//	    // fetch from API, then:
//	    manager.Set(ctx, cache.Key{Epoch: 1669882894}, &cache.Entry{Body: body, FetchedAt: time.Now()})
//	}
package cache
