// Package config loads the cache layer's settings from YAML.
//
// The terminal plugin ships a single config file covering the cache
// (default TTL, per-category overrides, capacity), the observability
// stack, and the provider-call guard. String values may reference
// environment variables as ${VAR}; a referenced variable that is missing
// from the environment is an error rather than an empty string, so a
// typo'd variable name fails at startup instead of at 3am.
//
//	cfg, err := config.Load("kubeinsights.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	manager := cache.NewManager(cfg.CacheConfig())
//	guard := cfg.GuardExecutor()
package config
