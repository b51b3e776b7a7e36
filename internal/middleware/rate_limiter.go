package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/KayzenRoot/lanchonete-pdv-sub002/internal/apierror"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// window tracks requests from one IP inside a sliding window.
type window struct {
	count int
	until time.Time
	mu    sync.Mutex
}

// limiter is a per-IP sliding-window counter shared by the login and
// general API limiters.
type limiter struct {
	limit   int
	period  time.Duration
	detail  string
	windows map[string]*window
	mu      sync.Mutex
}

func newLimiter(limit int, period time.Duration, detail string) *limiter {
	l := &limiter{
		limit:   limit,
		period:  period,
		detail:  detail,
		windows: make(map[string]*window),
	}
	go l.purge()
	return l
}

func (l *limiter) middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()

		l.mu.Lock()
		w, ok := l.windows[ip]
		if !ok {
			w = &window{}
			l.windows[ip] = w
		}
		l.mu.Unlock()

		w.mu.Lock()
		defer w.mu.Unlock()

		now := time.Now()
		if now.After(w.until) {
			w.count = 0
			w.until = now.Add(l.period)
		}

		w.count++
		if w.count > l.limit {
			c.Header("Retry-After", w.until.Format(time.RFC1123))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, apierror.NewRateLimited(l.detail))
			return
		}
		c.Next()
	}
}

const purgeInterval = 5 * time.Minute

// purge drops expired windows so IPs that never return do not
// accumulate forever.
func (l *limiter) purge() {
	ticker := time.NewTicker(purgeInterval)
	defer ticker.Stop()

	for range ticker.C {
		now := time.Now()

		l.mu.Lock()
		purged := 0
		for ip, w := range l.windows {
			w.mu.Lock()
			if now.After(w.until) {
				delete(l.windows, ip)
				purged++
			}
			w.mu.Unlock()
		}
		remaining := len(l.windows)
		l.mu.Unlock()

		if purged > 0 {
			log.Debug().
				Int("purged", purged).
				Int("remaining", remaining).
				Msg("rate limiter windows purged")
		}
	}
}

// LoginRateLimiter limits login attempts to 20 per minute per IP.
func LoginRateLimiter() gin.HandlerFunc {
	return newLimiter(20, time.Minute, "Muitas tentativas de login. Tente novamente em 1 minuto.").middleware()
}

// RateLimiter returns a general-purpose sliding-window limiter for the
// whole API surface.
func RateLimiter(limit int, period time.Duration) gin.HandlerFunc {
	return newLimiter(limit, period, "Muitas solicitacoes. Tente novamente em instantes.").middleware()
}
