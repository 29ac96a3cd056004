package cache

import (
	"context"
	"sync"
	"time"

	"github.com/jcastellanos/registros-api/internal/application/billing"
)

var _ billing.ViewCache = (*MemoryViewCache)(nil)

type memoryEntry struct {
	payload   []byte
	expiresAt time.Time
}

// MemoryViewCache es el respaldo en memoria cuando Redis está deshabilitado.
// Apto para desarrollo local y tests; no comparte estado entre instancias.
type MemoryViewCache struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	ttl     time.Duration
}

// NewMemoryViewCache construye el cache con el TTL dado.
func NewMemoryViewCache(ttl time.Duration) *MemoryViewCache {
	return &MemoryViewCache{
		entries: make(map[string]memoryEntry),
		ttl:     ttl,
	}
}

// Get devuelve el payload cacheado de la vista, si existe y no expiró.
func (c *MemoryViewCache) Get(_ context.Context, view string) ([]byte, bool) {
	c.mu.RLock()
	entry, ok := c.entries[view]
	c.mu.RUnlock()
	if !ok || time.Now().After(entry.expiresAt) {
		return nil, false
	}
	return entry.payload, true
}

// Set guarda el payload de la vista.
func (c *MemoryViewCache) Set(_ context.Context, view string, payload []byte) {
	c.mu.Lock()
	c.entries[view] = memoryEntry{payload: payload, expiresAt: time.Now().Add(c.ttl)}
	c.mu.Unlock()
}

// Invalidate borra la entrada de la vista.
func (c *MemoryViewCache) Invalidate(_ context.Context, view string) {
	c.mu.Lock()
	delete(c.entries, view)
	c.mu.Unlock()
}
