// Package dedup remembers which job URLs already have a submitted
// application so the engine refuses to apply to the same posting twice.
package dedup

import (
	"encoding/json"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"
)

type appliedEntry struct {
	URL       string `json:"url"`
	Timestamp int64  `json:"timestamp"`
}

// AppliedCache is a file-backed set of applied job URLs. Entries older
// than the retention window are dropped on load so re-applying after a
// month is allowed.
type AppliedCache struct {
	mu       sync.Mutex
	filePath string
	applied  map[string]int64
}

const retentionMs = int64(30 * 24 * 60 * 60 * 1000)

// NewAppliedCache creates or loads the applied-jobs cache under cacheDir.
func NewAppliedCache(cacheDir string) *AppliedCache {
	if err := os.MkdirAll(cacheDir, 0755); err != nil {
		log.Printf("⚠️ Failed to create cache directory: %v", err)
	}
	c := &AppliedCache{
		filePath: filepath.Join(cacheDir, "applied_jobs.json"),
		applied:  make(map[string]int64),
	}
	c.load()
	return c
}

// AlreadyApplied reports whether an application for url was submitted
// within the retention window.
func (c *AppliedCache) AlreadyApplied(url string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, exists := c.applied[url]
	return exists
}

// MarkApplied records a successful submission for url and persists.
func (c *AppliedCache) MarkApplied(url string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.applied[url]; exists {
		return
	}
	c.applied[url] = time.Now().UnixMilli()
	c.save()
}

func (c *AppliedCache) load() {
	data, err := os.ReadFile(c.filePath)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Printf("⚠️ Failed to read applied_jobs.json: %v", err)
		}
		return
	}

	var entries []appliedEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		log.Printf("⚠️ Failed to parse applied_jobs.json: %v", err)
		return
	}

	cutoff := time.Now().UnixMilli() - retentionMs
	kept := 0
	for _, e := range entries {
		if e.Timestamp > cutoff {
			c.applied[e.URL] = e.Timestamp
			kept++
		}
	}
	log.Printf("📋 Loaded %d applied jobs (%d expired and removed)", kept, len(entries)-kept)
}

func (c *AppliedCache) save() {
	entries := make([]appliedEntry, 0, len(c.applied))
	for url, ts := range c.applied {
		entries = append(entries, appliedEntry{URL: url, Timestamp: ts})
	}
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		log.Printf("⚠️ Failed to marshal applied jobs: %v", err)
		return
	}
	if err := os.WriteFile(c.filePath, data, 0644); err != nil {
		log.Printf("⚠️ Failed to write applied_jobs.json: %v", err)
	}
}
