package cache

type CacheConfig struct {
	// MaxEntries bounds how many scanned files are kept. The least
	// recently used entry goes first.
	MaxEntries int `json:"max_entries"`
}

func DefaultCacheConfig() CacheConfig {
	return CacheConfig{MaxEntries: 4096}
}

type CacheMetrics struct {
	Hits          int64 `json:"hits"`
	Misses        int64 `json:"misses"`
	Invalidations int64 `json:"invalidations"`
	Evictions     int64 `json:"evictions"`
	TotalEntries  int   `json:"total_entries"`
}

// HitRate is the share of lookups served from the cache, in percent.
func (m CacheMetrics) HitRate() float64 {
	total := m.Hits + m.Misses
	if total == 0 {
		return 0
	}
	return float64(m.Hits) / float64(total) * 100
}
