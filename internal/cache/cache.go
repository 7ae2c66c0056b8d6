// Package cache implements the hybrid two-level font cache: a bounded
// in-memory LRU in front of an on-disk content store, with pinning,
// auto-promotion on disk hit, and quota-bounded eviction.
//
// Concurrency shape is grounded on internal/pdf/fontregistry.go's
// CustomFontRegistry: one mutex-guarded map as the source of truth. Each
// Cache built by New is an isolated instance; the package keeps no
// process-wide default. Here the single map becomes three
// independently-locked containers per spec.md §5: an exclusive lock on the
// LRU, and RWMutexes on the pinned set and access-count map, so that
// Stats() can use TryLock without contending with normal Get/Put traffic.
package cache

import (
	"encoding/json"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/chinmay-sawant/fontresolve/internal/fontcore"
)

const (
	diskEntrySizeKBProxy = 100 // disk-use estimate per memory-resident entry, never touches the filesystem
	maxStatsEntries       = 1000
	maxWalkFiles          = 5000
	maxWalkLevels         = 3
)

// Options configures a Cache instance, sourced from internal/config.Config.
type Options struct {
	Dir               string
	MemoryLimitMB     int
	DiskLimitMB       int
	AutoPinThreshold  int // 0 disables auto-pin
}

// Cache is the hybrid two-level store described in spec.md §4.3.
type Cache struct {
	opts Options

	memMu sync.Mutex
	mem   *memoryLRU

	pinMu  sync.RWMutex
	pinned map[string]struct{}

	accessMu sync.RWMutex
	access   map[string]uint32
}

// New constructs an isolated Cache instance rooted at opts.Dir, creating the
// directory if needed and loading the persisted pinned set / access counts.
func New(opts Options) (*Cache, error) {
	if opts.Dir != "" {
		if err := os.MkdirAll(opts.Dir, 0o755); err != nil {
			return nil, fontcore.NewError(fontcore.KindIO, "create cache dir", err)
		}
	}
	c := &Cache{
		opts:   opts,
		mem:    newMemoryLRU(),
		pinned: map[string]struct{}{},
		access: map[string]uint32{},
	}
	c.loadPinned()
	c.loadAccessCounts()
	return c, nil
}

func (c *Cache) pinnedPath() string  { return filepath.Join(c.opts.Dir, "pinned.json") }
func (c *Cache) accessPath() string  { return filepath.Join(c.opts.Dir, "access_counts.json") }
func (c *Cache) entryPath(name string) string {
	return filepath.Join(c.opts.Dir, sanitizeFileName(name)+".bin")
}

func sanitizeFileName(name string) string {
	replacer := strings.NewReplacer("/", "_", "\\", "_", ":", "_")
	return replacer.Replace(name)
}

func (c *Cache) loadPinned() {
	data, err := os.ReadFile(c.pinnedPath())
	if err != nil {
		return
	}
	var names []string
	if json.Unmarshal(data, &names) == nil {
		c.pinMu.Lock()
		for _, n := range names {
			c.pinned[n] = struct{}{}
		}
		c.pinMu.Unlock()
	}
}

func (c *Cache) savePinnedLocked() error {
	names := make([]string, 0, len(c.pinned))
	for n := range c.pinned {
		names = append(names, n)
	}
	data, err := json.Marshal(names)
	if err != nil {
		return fontcore.NewError(fontcore.KindParse, "marshal pinned set", err)
	}
	if c.opts.Dir == "" {
		return nil
	}
	tmp := c.pinnedPath() + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fontcore.NewError(fontcore.KindIO, "persist pinned set", err)
	}
	if err := os.Rename(tmp, c.pinnedPath()); err != nil {
		return fontcore.NewError(fontcore.KindIO, "persist pinned set", err)
	}
	return nil
}

func (c *Cache) loadAccessCounts() {
	data, err := os.ReadFile(c.accessPath())
	if err != nil {
		return
	}
	counts := map[string]uint32{}
	if json.Unmarshal(data, &counts) == nil {
		c.accessMu.Lock()
		c.access = counts
		c.accessMu.Unlock()
	}
}

func (c *Cache) saveAccessCountsLocked() error {
	data, err := json.Marshal(c.access)
	if err != nil {
		return fontcore.NewError(fontcore.KindParse, "marshal access counts", err)
	}
	if c.opts.Dir == "" {
		return nil
	}
	if err := os.WriteFile(c.accessPath(), data, 0o644); err != nil {
		return fontcore.NewError(fontcore.KindIO, "persist access counts", err)
	}
	return nil
}

// Get implements spec.md §4.3's get(name): bumps the access count (possibly
// auto-pinning), returns from memory if resident, else attempts a disk load
// and promotes into memory when the memory quota allows.
func (c *Cache) Get(name string) (fontcore.FontDescriptor, bool) {
	c.bumpAccess(name)

	c.memMu.Lock()
	if entry, ok := c.mem.get(name); ok {
		entry.LastAccessed = time.Now()
		entry.AccessCount = c.currentAccessCount(name)
		c.mem.put(name, entry)
		c.memMu.Unlock()
		return entry.Descriptor, true
	}
	c.memMu.Unlock()

	desc, ok := c.loadFromDisk(name)
	if !ok {
		return fontcore.FontDescriptor{}, false
	}

	entry := fontcore.CacheEntry{
		Descriptor:      desc,
		AccessCount:     c.currentAccessCount(name),
		LastAccessed:    time.Now(),
		CreatedAt:       time.Now(),
		IsPinned:        c.IsPinned(name),
		EstimatedSizeKB: fontcore.EstimateSizeKB(desc),
	}

	c.memMu.Lock()
	if c.memoryUsageKB()+entry.EstimatedSizeKB <= c.opts.MemoryLimitMB*1024 {
		c.mem.put(name, entry)
	}
	c.memMu.Unlock()

	return desc, true
}

func (c *Cache) bumpAccess(name string) {
	c.accessMu.Lock()
	c.access[name]++
	count := c.access[name]
	c.saveAccessCountsLocked()
	c.accessMu.Unlock()

	if c.opts.AutoPinThreshold > 0 && int(count) >= c.opts.AutoPinThreshold && !c.IsPinned(name) {
		_ = c.Pin(name)
	}
}

func (c *Cache) currentAccessCount(name string) uint32 {
	c.accessMu.RLock()
	defer c.accessMu.RUnlock()
	return c.access[name]
}

func (c *Cache) loadFromDisk(name string) (fontcore.FontDescriptor, bool) {
	if c.opts.Dir == "" {
		return fontcore.FontDescriptor{}, false
	}
	data, err := os.ReadFile(c.entryPath(name))
	if err != nil {
		return fontcore.FontDescriptor{}, false
	}
	var desc fontcore.FontDescriptor
	if json.Unmarshal(data, &desc) != nil {
		return fontcore.FontDescriptor{}, false
	}
	return desc, true
}

// Put implements spec.md §4.3's put(name, descriptor).
func (c *Cache) Put(name string, desc fontcore.FontDescriptor) error {
	estimate := fontcore.EstimateSizeKB(desc)

	c.memMu.Lock()
	projected := c.memoryUsageKB() + estimate
	if projected > c.opts.MemoryLimitMB*1024 {
		c.memMu.Unlock()
		return fontcore.MemoryLimitExceeded(projected/1024, c.opts.MemoryLimitMB)
	}
	projectedDiskKB := (c.mem.len() + 1) * diskEntrySizeKBProxy
	if projectedDiskKB > c.opts.DiskLimitMB*1024 {
		c.memMu.Unlock()
		return fontcore.DiskLimitExceeded(projectedDiskKB/1024, c.opts.DiskLimitMB)
	}

	entry := fontcore.CacheEntry{
		Descriptor:      desc,
		AccessCount:     c.currentAccessCount(name),
		LastAccessed:    time.Now(),
		CreatedAt:       time.Now(),
		IsPinned:        c.IsPinned(name),
		EstimatedSizeKB: estimate,
	}
	c.mem.put(name, entry)
	c.memMu.Unlock()

	if c.opts.Dir != "" {
		data, err := json.Marshal(desc)
		if err != nil {
			return fontcore.NewError(fontcore.KindParse, "marshal cache entry", err)
		}
		if err := os.WriteFile(c.entryPath(name), data, 0o644); err != nil {
			return fontcore.NewError(fontcore.KindIO, "persist cache entry", err)
		}
	}
	return nil
}

func (c *Cache) memoryUsageKB() int {
	total := 0
	for _, entry := range c.mem.all() {
		total += entry.EstimatedSizeKB
	}
	return total
}

// Pin marks name as pinned, persisting the set atomically (write-to-temp +
// rename) and updating the resident entry's flag if present.
func (c *Cache) Pin(name string) error {
	c.pinMu.Lock()
	c.pinned[name] = struct{}{}
	err := c.savePinnedLocked()
	c.pinMu.Unlock()

	c.memMu.Lock()
	if entry, ok := c.mem.peek(name); ok {
		entry.IsPinned = true
		c.mem.put(name, entry)
	}
	c.memMu.Unlock()
	return err
}

// Unpin clears the pin flag for name.
func (c *Cache) Unpin(name string) error {
	c.pinMu.Lock()
	delete(c.pinned, name)
	err := c.savePinnedLocked()
	c.pinMu.Unlock()

	c.memMu.Lock()
	if entry, ok := c.mem.peek(name); ok {
		entry.IsPinned = false
		c.mem.put(name, entry)
	}
	c.memMu.Unlock()
	return err
}

// IsPinned reports whether name is currently pinned.
func (c *Cache) IsPinned(name string) bool {
	c.pinMu.RLock()
	defer c.pinMu.RUnlock()
	_, ok := c.pinned[name]
	return ok
}

// ListPinned returns all currently pinned names.
func (c *Cache) ListPinned() []string {
	c.pinMu.RLock()
	defer c.pinMu.RUnlock()
	names := make([]string, 0, len(c.pinned))
	for n := range c.pinned {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Remove drops name from memory, disk, and the access-count map.
func (c *Cache) Remove(name string) bool {
	c.memMu.Lock()
	removedMem := c.mem.remove(name)
	c.memMu.Unlock()

	removedDisk := false
	if c.opts.Dir != "" {
		if err := os.Remove(c.entryPath(name)); err == nil {
			removedDisk = true
		}
	}

	c.accessMu.Lock()
	_, hadAccess := c.access[name]
	delete(c.access, name)
	c.saveAccessCountsLocked()
	c.accessMu.Unlock()

	return removedMem || removedDisk || hadAccess
}

// RemoveMany removes each name, returning the count actually removed.
func (c *Cache) RemoveMany(names []string) int {
	count := 0
	for _, n := range names {
		if c.Remove(n) {
			count++
		}
	}
	return count
}

// Cleanup implements spec.md §4.3's cleanup(aggressive): evicts unpinned
// memory entries per the aggressive/non-aggressive rule, then walks the
// disk directory (bounded per §5) deleting unpinned stale files. Returns
// the total count removed.
func (c *Cache) Cleanup(aggressive bool) int {
	removed := 0

	c.memMu.Lock()
	now := time.Now()
	for name, entry := range c.mem.all() {
		if entry.IsPinned {
			continue
		}
		stale := aggressive && entry.AccessCount == 1
		stale = stale || (!aggressive && now.Sub(entry.LastAccessed) > 30*24*time.Hour)
		if stale {
			c.mem.remove(name)
			removed++
		}
	}
	c.memMu.Unlock()

	if c.opts.Dir != "" {
		cutoff := 30 * 24 * time.Hour
		if aggressive {
			cutoff = 7 * 24 * time.Hour
		}
		removed += c.walkAndRemoveStale(cutoff)
	}

	c.accessMu.Lock()
	c.saveAccessCountsLocked()
	c.accessMu.Unlock()

	return removed
}

func (c *Cache) walkAndRemoveStale(cutoff time.Duration) int {
	removed := 0
	visited := 0
	now := time.Now()

	_ = filepath.WalkDir(c.opts.Dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // scanner/directory-walk failures are swallowed, per spec.md §7
		}
		if visited >= maxWalkFiles {
			return filepath.SkipAll
		}
		rel, _ := filepath.Rel(c.opts.Dir, path)
		if strings.Count(rel, string(filepath.Separator)) > maxWalkLevels {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return nil
		}
		if info.Mode()&os.ModeSymlink != 0 {
			return nil
		}
		if d.IsDir() || !strings.HasSuffix(path, ".bin") {
			return nil
		}
		visited++

		name := strings.TrimSuffix(filepath.Base(path), ".bin")
		if c.IsPinned(name) {
			return nil
		}
		if now.Sub(info.ModTime()) > cutoff {
			if os.Remove(path) == nil {
				removed++
			}
		}
		return nil
	})
	return removed
}

// Stats is the result of Stats(); all zero when lock contention prevents an
// immediate read, per spec.md §4.3's wait-free requirement.
type Stats struct {
	MemoryEntries  int
	MemoryUsageKB  int
	DiskEntries    int // always 0: deliberately understated, never scans disk
	PinnedCount    int
}

// Stats must never block: it uses TryLock and returns zeros on contention.
// Memory size is summed over at most the first maxStatsEntries entries.
func (c *Cache) Stats() Stats {
	var s Stats
	if c.memMu.TryLock() {
		entries := c.mem.all()
		s.MemoryEntries = len(entries)
		count := 0
		for _, e := range entries {
			if count >= maxStatsEntries {
				break
			}
			s.MemoryUsageKB += e.EstimatedSizeKB
			count++
		}
		c.memMu.Unlock()
	}
	if c.pinMu.TryRLock() {
		s.PinnedCount = len(c.pinned)
		c.pinMu.RUnlock()
	}
	return s
}

// SuggestCleanup walks memory (single-use or >=7 days idle entries) and disk
// (unpinned files >=30 days old, bounded walk) and returns candidate names.
func (c *Cache) SuggestCleanup() []string {
	var suggestions []string
	now := time.Now()

	c.memMu.Lock()
	for name, entry := range c.mem.all() {
		if entry.IsPinned {
			continue
		}
		if entry.AccessCount <= 1 || now.Sub(entry.LastAccessed) >= 7*24*time.Hour {
			suggestions = append(suggestions, name)
		}
	}
	c.memMu.Unlock()

	if c.opts.Dir != "" {
		visited := 0
		_ = filepath.WalkDir(c.opts.Dir, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return nil
			}
			if visited >= maxWalkFiles {
				return filepath.SkipAll
			}
			rel, _ := filepath.Rel(c.opts.Dir, path)
			if strings.Count(rel, string(filepath.Separator)) > maxWalkLevels {
				if d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
			info, err := d.Info()
			if err != nil || info.Mode()&os.ModeSymlink != 0 || d.IsDir() || !strings.HasSuffix(path, ".bin") {
				return nil
			}
			visited++
			name := strings.TrimSuffix(filepath.Base(path), ".bin")
			if c.IsPinned(name) {
				return nil
			}
			if now.Sub(info.ModTime()) >= 30*24*time.Hour {
				suggestions = append(suggestions, name)
			}
			return nil
		})
	}
	return suggestions
}
