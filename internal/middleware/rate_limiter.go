package middleware

import (
	"net/http"
	"sync"
	"time"

	"empleadosauth/internal/apierror"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// loginLimit and loginWindow bound login attempts per client IP.
const (
	loginLimit  = 20
	loginWindow = time.Minute
)

// purgeEvery is how often lapsed IPs are swept out of an in-memory window.
const purgeEvery = 5 * time.Minute

// ── In-memory sliding window ──────────────────────────────────────────────────

type windowEntry struct {
	count     int
	windowEnd time.Time
	mu        sync.Mutex
}

// ipWindow counts events per IP within a fixed-size window. Stale IPs are
// purged opportunistically on the hit path, so the map cannot grow without
// bound and no background goroutine is needed.
type ipWindow struct {
	entries   map[string]*windowEntry
	mu        sync.Mutex
	window    time.Duration
	lastPurge time.Time
}

func newIPWindow(window time.Duration) *ipWindow {
	return &ipWindow{
		entries:   make(map[string]*windowEntry),
		window:    window,
		lastPurge: time.Now(),
	}
}

// hit registers one event for ip and returns the count within the current window.
func (w *ipWindow) hit(ip string) int {
	now := time.Now()

	w.mu.Lock()
	if now.Sub(w.lastPurge) >= purgeEvery {
		w.purgeLocked(now)
	}
	entry, ok := w.entries[ip]
	if !ok {
		entry = &windowEntry{}
		w.entries[ip] = entry
	}
	w.mu.Unlock()

	entry.mu.Lock()
	defer entry.mu.Unlock()

	if now.After(entry.windowEnd) {
		entry.count = 0
		entry.windowEnd = now.Add(w.window)
	}
	entry.count++
	return entry.count
}

// purgeLocked drops IPs whose window has lapsed. Caller holds w.mu.
func (w *ipWindow) purgeLocked(now time.Time) {
	purged := 0
	for ip, entry := range w.entries {
		entry.mu.Lock()
		if now.After(entry.windowEnd) {
			delete(w.entries, ip)
			purged++
		}
		entry.mu.Unlock()
	}
	w.lastPurge = now
	if purged > 0 {
		log.Debug().Int("purged", purged).Int("remaining", len(w.entries)).
			Msg("rate limiter window purged")
	}
}

// ── Middleware ────────────────────────────────────────────────────────────────

// RateLimiter is the general per-IP limiter applied to the whole API.
func RateLimiter(limit int, window time.Duration) gin.HandlerFunc {
	w := newIPWindow(window)
	return func(c *gin.Context) {
		if w.hit(c.ClientIP()) > limit {
			c.AbortWithStatusJSON(http.StatusTooManyRequests,
				apierror.New("Demasiadas solicitudes, intenta de nuevo más tarde"))
			return
		}
		c.Next()
	}
}

// LoginRateLimiter limits login attempts to 20 per minute per IP. With a
// Redis client the window is shared across instances; without one it degrades
// to the in-process window. A Redis outage fails open — the limiter must
// never take logins down with it.
func LoginRateLimiter(rdb *redis.Client) gin.HandlerFunc {
	if rdb == nil {
		w := newIPWindow(loginWindow)
		return func(c *gin.Context) {
			if w.hit(c.ClientIP()) > loginLimit {
				abortTooManyLogins(c)
				return
			}
			c.Next()
		}
	}

	return func(c *gin.Context) {
		ctx := c.Request.Context()
		key := "login_rl:" + c.ClientIP()

		// INCR and EXPIRE travel in one pipeline, and NX re-arms a missing
		// TTL on every attempt — a counter can never survive without expiry
		// and lock an IP out of login forever.
		pipe := rdb.TxPipeline()
		incr := pipe.Incr(ctx, key)
		pipe.ExpireNX(ctx, key, loginWindow)
		if _, err := pipe.Exec(ctx); err != nil {
			log.Warn().Err(err).Msg("login rate limiter: redis unavailable, failing open")
			c.Next()
			return
		}
		if incr.Val() > loginLimit {
			abortTooManyLogins(c)
			return
		}
		c.Next()
	}
}

func abortTooManyLogins(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusTooManyRequests,
		apierror.New("Demasiados intentos de login. Intente en 1 minuto."))
}
