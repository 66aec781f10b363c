package middleware

import (
	"net/http"
	"sync"
	"time"

	"tesoreria/internal/apierror"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// ── API rate limiter ──────────────────────────────────────────────────────────

// rateEntry tracks request counts per client within a fixed window.
type rateEntry struct {
	count     int
	windowEnd time.Time
	mu        sync.Mutex
}

type rateLimiter struct {
	limit     int
	window    time.Duration
	mu        sync.Mutex
	entries   map[string]*rateEntry
	lastPurge time.Time
}

// purgeInterval bounds how often expired entries are swept from the map.
const purgeInterval = 5 * time.Minute

// RateLimiter limits each client IP to limit requests per window. A limit of
// zero or less disables it. Each call owns its own counters.
func RateLimiter(limit int, window time.Duration) gin.HandlerFunc {
	if limit <= 0 {
		return func(c *gin.Context) { c.Next() }
	}
	rl := &rateLimiter{
		limit:     limit,
		window:    window,
		entries:   make(map[string]*rateEntry),
		lastPurge: time.Now(),
	}
	return rl.handle
}

func (rl *rateLimiter) handle(c *gin.Context) {
	now := time.Now()
	entry := rl.entry(c.ClientIP(), now)

	entry.mu.Lock()
	if now.After(entry.windowEnd) {
		entry.count = 0
		entry.windowEnd = now.Add(rl.window)
	}
	entry.count++
	excedido := entry.count > rl.limit
	windowEnd := entry.windowEnd
	entry.mu.Unlock()

	if excedido {
		c.Header("Retry-After", windowEnd.UTC().Format(http.TimeFormat))
		c.AbortWithStatusJSON(http.StatusTooManyRequests,
			apierror.WithCodigo(apierror.CodigoLimite, "Demasiadas solicitudes. Intente nuevamente en un momento."))
		return
	}
	c.Next()
}

func (rl *rateLimiter) entry(ip string, now time.Time) *rateEntry {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	if now.Sub(rl.lastPurge) >= purgeInterval {
		rl.purge(now)
	}
	e, ok := rl.entries[ip]
	if !ok {
		e = &rateEntry{}
		rl.entries[ip] = e
	}
	return e
}

// purge removes expired entries so IPs that never return do not accumulate.
// Caller holds rl.mu.
func (rl *rateLimiter) purge(now time.Time) {
	purged := 0
	for ip, e := range rl.entries {
		e.mu.Lock()
		if now.After(e.windowEnd) {
			delete(rl.entries, ip)
			purged++
		}
		e.mu.Unlock()
	}
	rl.lastPurge = now
	if purged > 0 {
		log.Debug().
			Int("entries_purged", purged).
			Int("entries_remaining", len(rl.entries)).
			Msg("rate limiter map purged")
	}
}
