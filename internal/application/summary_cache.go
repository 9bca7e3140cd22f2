package application

import (
	"sync"
	"time"
)

// summaryCache keeps recently built dashboard summaries until the next
// mutation or until they expire.
type summaryCache struct {
	mu         sync.RWMutex
	now        func() time.Time
	ttl        time.Duration
	maxEntries int
	generation uint64
	entries    map[string]summaryCacheEntry
}

type summaryCacheEntry struct {
	summary   Summary
	expiresAt time.Time
}

func newSummaryCache(ttl time.Duration, maxEntries int, now func() time.Time) *summaryCache {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	if maxEntries <= 0 {
		maxEntries = 128
	}
	if now == nil {
		now = time.Now
	}
	return &summaryCache{
		now:        now,
		ttl:        ttl,
		maxEntries: maxEntries,
		entries:    make(map[string]summaryCacheEntry),
	}
}

func (c *summaryCache) Get(key string) (Summary, bool) {
	if c == nil {
		return Summary{}, false
	}
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return Summary{}, false
	}
	if c.now().After(entry.expiresAt) {
		c.mu.Lock()
		delete(c.entries, key)
		c.mu.Unlock()
		return Summary{}, false
	}
	return cloneSummary(entry.summary), true
}

// Generation changes on every invalidation.
func (c *summaryCache) Generation() uint64 {
	if c == nil {
		return 0
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.generation
}

// Store caches summary unless an invalidation happened after generation was
// read, in which case the summary may already be stale.
func (c *summaryCache) Store(key string, summary Summary, generation uint64) {
	if c == nil {
		return
	}
	cloned := cloneSummary(summary)
	expiry := c.now().Add(c.ttl)

	c.mu.Lock()
	defer c.mu.Unlock()

	if generation != c.generation {
		return
	}

	c.cleanupLocked()
	if len(c.entries) >= c.maxEntries {
		c.evictOneLocked()
	}
	c.entries[key] = summaryCacheEntry{summary: cloned, expiresAt: expiry}
}

func (c *summaryCache) Invalidate() {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.generation++
	c.entries = make(map[string]summaryCacheEntry)
	c.mu.Unlock()
}

func (c *summaryCache) cleanupLocked() {
	now := c.now()
	for key, entry := range c.entries {
		if now.After(entry.expiresAt) {
			delete(c.entries, key)
		}
	}
}

func (c *summaryCache) evictOneLocked() {
	for key := range c.entries {
		delete(c.entries, key)
		return
	}
}

// summaryCacheKey identifies a summary by viewer and day. Students see their
// own records, so their id is part of the key.
func summaryCacheKey(viewer Identity, date string) string {
	key := string(viewer.Role) + "|" + date
	if viewer.Role == RoleStudent {
		key += "|" + viewer.ID
	}
	return key
}

func cloneSummary(summary Summary) Summary {
	out := summary
	if summary.Student != nil {
		student := *summary.Student
		student.Outpasses = make(map[OutpassStatus]int, len(summary.Student.Outpasses))
		for status, n := range summary.Student.Outpasses {
			student.Outpasses[status] = n
		}
		student.Complaints = make(map[ComplaintStatus]int, len(summary.Student.Complaints))
		for status, n := range summary.Student.Complaints {
			student.Complaints[status] = n
		}
		student.TodayMenu = cloneMenuPointer(summary.Student.TodayMenu)
		out.Student = &student
	}
	if summary.Mess != nil {
		mess := *summary.Mess
		mess.Attendance = append([]MealCount(nil), summary.Mess.Attendance...)
		mess.TodayMenu = cloneMenuPointer(summary.Mess.TodayMenu)
		out.Mess = &mess
	}
	if summary.Office != nil {
		office := *summary.Office
		office.LatestAnnouncements = append([]Announcement(nil), summary.Office.LatestAnnouncements...)
		out.Office = &office
	}
	return out
}

func cloneMenuPointer(item *MenuItem) *MenuItem {
	if item == nil {
		return nil
	}
	cloned := cloneMenuItem(*item)
	return &cloned
}
