package validation

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/kongdonovan/anarchy-and-associates-sub004/internal/domain"
)

// resultCache holds recent successful aggregates for a short TTL so rapid
// re-validation of the same command (e.g. slash-command autocompletion
// followed by submit) does not re-run every strategy. Expiry is lazy: entries
// are checked against the injected clock on read, never by a timer.
type resultCache struct {
	mu         sync.Mutex
	entries    map[string]cacheEntry
	ttl        time.Duration
	maxEntries int
	evictBatch int
}

type cacheEntry struct {
	result    *AggregateResult
	storedAt  time.Time
	expiresAt time.Time
}

func newResultCache(ttl time.Duration, maxEntries, evictBatch int) *resultCache {
	if maxEntries <= 0 {
		maxEntries = 100
	}
	if evictBatch <= 0 {
		evictBatch = 20
	}
	return &resultCache{
		entries:    make(map[string]cacheEntry),
		ttl:        ttl,
		maxEntries: maxEntries,
		evictBatch: evictBatch,
	}
}

// cacheKey builds the lookup key from the command identity, the actor and the
// sorted command options, so the same actor re-issuing identical arguments
// hits the cache and nothing else does.
func cacheKey(vc *domain.ValidationContext) string {
	options := make([]string, 0, len(vc.Data))
	for k, v := range vc.Data {
		options = append(options, fmt.Sprintf("%s=%v", k, v))
	}
	sort.Strings(options)
	return strings.Join([]string{
		vc.CommandName,
		vc.SubcommandName,
		vc.Permission.UserID,
		strings.Join(options, ","),
	}, "|")
}

func (c *resultCache) get(key string, now time.Time) (*AggregateResult, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if now.After(entry.expiresAt) {
		delete(c.entries, key)
		return nil, false
	}
	return entry.result, true
}

func (c *resultCache) put(key string, result *AggregateResult, now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = cacheEntry{
		result:    result,
		storedAt:  now,
		expiresAt: now.Add(c.ttl),
	}
	if len(c.entries) > c.maxEntries {
		c.evictOldest()
	}
}

// evictOldest drops the oldest entries by insertion time. Callers hold the lock.
func (c *resultCache) evictOldest() {
	type aged struct {
		key      string
		storedAt time.Time
	}
	all := make([]aged, 0, len(c.entries))
	for k, e := range c.entries {
		all = append(all, aged{key: k, storedAt: e.storedAt})
	}
	sort.Slice(all, func(i, j int) bool {
		return all[i].storedAt.Before(all[j].storedAt)
	})
	for i := 0; i < c.evictBatch && i < len(all); i++ {
		delete(c.entries, all[i].key)
	}
}

func (c *resultCache) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
