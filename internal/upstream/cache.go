package upstream

import (
	"strings"
	"sync"
	"time"
)

// ttlCache хранит короткоживущий кеш GET-ответов.
// Кешу после мутации доверять нельзя, поэтому успешная мутация
// инвалидирует все записи затронутого билета.
type ttlCache struct {
	mu      sync.RWMutex
	ttl     time.Duration
	entries map[string]cacheEntry
}

type cacheEntry struct {
	body    []byte
	expires time.Time
}

func newTTLCache(ttl time.Duration) *ttlCache {
	return &ttlCache{
		ttl:     ttl,
		entries: make(map[string]cacheEntry),
	}
}

// Get возвращает свежий ответ или false
func (c *ttlCache) Get(key string) ([]byte, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.entries[key]
	if !ok || time.Now().After(entry.expires) {
		return nil, false
	}
	return entry.body, true
}

// Set сохраняет ответ на время ttl
func (c *ttlCache) Set(key string, body []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = cacheEntry{
		body:    body,
		expires: time.Now().Add(c.ttl),
	}
}

// InvalidatePrefix удаляет все записи с данным префиксом ключа
func (c *ttlCache) InvalidatePrefix(prefix string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for key := range c.entries {
		if strings.HasPrefix(key, prefix) {
			delete(c.entries, key)
		}
	}
}

// Purge очищает кеш целиком
func (c *ttlCache) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]cacheEntry)
}
