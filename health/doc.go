// Package health surfaces the cache layer's condition to the terminal
// plugin's settings panel and the `cache stats` CLI command.
//
// A Checker reports one component's Status (healthy, degraded, or
// unhealthy). CacheChecker watches the cache manager: a hit rate stuck
// below a floor after warm-up means the TTL table is mis-tuned, and a
// key count over the cap means eviction is not keeping up. Aggregator
// combines checkers with a shared timeout, and the HTTP handlers expose
// the results:
//
//	agg := health.NewAggregator()
//	agg.Register("cache", health.NewCacheChecker(health.CacheCheckerConfig{
//	    Manager:    manager,
//	    MinHitRate: 0.2,
//	}))
//
//	mux := http.NewServeMux()
//	health.RegisterHandlers(mux, agg, manager)
//	// GET /healthz      -> overall status JSON
//	// GET /cache/stats  -> per-namespace hit/miss/eviction counters
package health
