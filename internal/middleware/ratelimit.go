package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/NIKHIL-58/AI-ML/internal/pkg/errcode"
	"github.com/NIKHIL-58/AI-ML/internal/pkg/response"
)

const defaultSweepInterval = time.Minute

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// rateLimiter keeps one token bucket per client ip and route.
type rateLimiter struct {
	mu            sync.Mutex
	limit         rate.Limit
	burst         int
	visitors      map[string]*visitor
	idleTTL       time.Duration
	sweepInterval time.Duration
	lastSweep     time.Time
	now           func() time.Time
}

// RateLimit allows rps requests per second with the given burst per client.
// A non-positive rps disables limiting.
func RateLimit(rps float64, burst int) gin.HandlerFunc {
	if rps <= 0 {
		return func(c *gin.Context) { c.Next() }
	}
	if burst <= 0 {
		burst = 1
	}
	return newRateLimiter(rate.Limit(rps), burst).handle
}

func newRateLimiter(limit rate.Limit, burst int) *rateLimiter {
	return &rateLimiter{
		limit:         limit,
		burst:         burst,
		visitors:      make(map[string]*visitor),
		idleTTL:       10 * time.Minute,
		sweepInterval: defaultSweepInterval,
		now:           time.Now,
	}
}

func (l *rateLimiter) handle(c *gin.Context) {
	ip := c.ClientIP()
	path := c.FullPath()
	if path == "" {
		path = c.Request.URL.Path
	}
	key := ip + "|" + path

	now := l.now()
	l.mu.Lock()
	if now.Sub(l.lastSweep) >= l.sweepInterval {
		l.cleanupExpiredLocked(now)
	}
	v, ok := l.visitors[key]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.visitors[key] = v
	}
	v.lastSeen = now
	allowed := v.limiter.AllowN(now, 1)
	l.mu.Unlock()

	if !allowed {
		logutil.GetLogger(c.Request.Context()).Warn("rate limit hit",
			zap.String("ip", ip),
			zap.String("path", path),
		)
		response.Error(c, http.StatusTooManyRequests, errcode.TooMany, http.StatusText(http.StatusTooManyRequests))
		return
	}
	c.Next()
}

func (l *rateLimiter) cleanupExpiredLocked(now time.Time) {
	for key, v := range l.visitors {
		if now.Sub(v.lastSeen) > l.idleTTL {
			delete(l.visitors, key)
		}
	}
	l.lastSweep = now
}
