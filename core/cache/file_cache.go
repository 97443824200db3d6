// Package cache keeps scanned source files between runs so watch mode only
// rescans what changed.
package cache

import (
	"fmt"
	"sync"

	"github.com/tristendillon/httpskin/core/logger"
	"github.com/tristendillon/httpskin/core/models"
)

type slot struct {
	entry   *models.CacheEntry
	lastUse uint64
}

// FileCache maps absolute source paths to their last scan. An entry is
// served only while the file has the content it was scanned with.
type FileCache struct {
	mu      sync.Mutex
	config  CacheConfig
	slots   map[string]*slot
	tick    uint64
	metrics CacheMetrics
}

// NewFileCache creates a cache; a nil config means DefaultCacheConfig.
func NewFileCache(config *CacheConfig) *FileCache {
	cfg := DefaultCacheConfig()
	if config != nil && config.MaxEntries > 0 {
		cfg = *config
	}
	logger.Debug("Created file cache holding up to %d scans", cfg.MaxEntries)
	return &FileCache{config: cfg, slots: make(map[string]*slot)}
}

// Lookup returns the cached scan of path if the file is unchanged.
func (fc *FileCache) Lookup(path string) (*models.ParsedFile, bool) {
	fc.mu.Lock()
	defer fc.mu.Unlock()

	s, ok := fc.slots[path]
	if !ok {
		fc.metrics.Misses++
		return nil, false
	}

	valid, err := s.entry.IsValid()
	if err != nil || !valid {
		if err != nil {
			logger.Debug("Cache validation error for %s: %v", path, err)
		} else {
			logger.Debug("Cache miss for %s - file modified", path)
		}
		fc.dropLocked(path)
		fc.metrics.Misses++
		return nil, false
	}

	fc.tick++
	s.lastUse = fc.tick
	fc.metrics.Hits++
	return s.entry.ParsedFile, true
}

// Store records the scan of path together with the file's current hash.
func (fc *FileCache) Store(path string, pf *models.ParsedFile) error {
	entry, err := models.NewCacheEntry(path, pf)
	if err != nil {
		return fmt.Errorf("failed to create cache entry: %w", err)
	}

	fc.mu.Lock()
	defer fc.mu.Unlock()

	if _, ok := fc.slots[path]; !ok && len(fc.slots) >= fc.config.MaxEntries {
		fc.evictLocked()
	}
	fc.tick++
	fc.slots[path] = &slot{entry: entry, lastUse: fc.tick}
	return nil
}

// GetOrScan serves path from the cache or calls scan and stores its
// result. The boolean reports a cache hit. A result that cannot be cached
// is still returned.
func (fc *FileCache) GetOrScan(path string, scan func() (*models.ParsedFile, error)) (*models.ParsedFile, bool, error) {
	if pf, ok := fc.Lookup(path); ok {
		return pf, true, nil
	}
	pf, err := scan()
	if err != nil {
		return nil, false, err
	}
	if err := fc.Store(path, pf); err != nil {
		logger.Debug("Not caching %s: %v", path, err)
	}
	return pf, false, nil
}

func (fc *FileCache) InvalidateFile(path string) {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	fc.dropLocked(path)
}

// Prune drops every entry whose path is not in live and returns how many
// went. Deleted or newly excluded sources leave the cache this way.
func (fc *FileCache) Prune(live []string) int {
	keep := make(map[string]struct{}, len(live))
	for _, p := range live {
		keep[p] = struct{}{}
	}

	fc.mu.Lock()
	defer fc.mu.Unlock()
	n := 0
	for path := range fc.slots {
		if _, ok := keep[path]; !ok {
			fc.dropLocked(path)
			n++
		}
	}
	return n
}

func (fc *FileCache) Clear() {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	fc.metrics.Invalidations += int64(len(fc.slots))
	fc.slots = make(map[string]*slot)
}

func (fc *FileCache) GetMetrics() CacheMetrics {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	m := fc.metrics
	m.TotalEntries = len(fc.slots)
	return m
}

func (fc *FileCache) LogStats() {
	m := fc.GetMetrics()
	logger.Debug("Cache stats: Hits=%d, Misses=%d, Hit Rate=%.1f%%, Entries=%d, Invalidations=%d, Evictions=%d",
		m.Hits, m.Misses, m.HitRate(), m.TotalEntries, m.Invalidations, m.Evictions)
}

func (fc *FileCache) dropLocked(path string) {
	if _, ok := fc.slots[path]; ok {
		delete(fc.slots, path)
		fc.metrics.Invalidations++
		logger.Debug("Invalidated cache entry for %s", path)
	}
}

func (fc *FileCache) evictLocked() {
	var victim string
	var oldest uint64
	for path, s := range fc.slots {
		if victim == "" || s.lastUse < oldest {
			victim, oldest = path, s.lastUse
		}
	}
	if victim != "" {
		delete(fc.slots, victim)
		fc.metrics.Evictions++
		logger.Debug("Evicted least recently used cache entry: %s", victim)
	}
}
