package middleware

import (
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/dayflow-hr/dayflow-backend/internal/handler/http/response"
)

// Limiters idle for longer than this are dropped once the table grows.
const (
	limiterIdleTTL   = 10 * time.Minute
	limiterSweepSize = 10000
)

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

type IPRateLimiter struct {
	ips map[string]*visitor
	mu  sync.Mutex
	r   rate.Limit // requests per second
	b   int        // burst
}

func NewIPRateLimiter(r rate.Limit, b int) *IPRateLimiter {
	return &IPRateLimiter{
		ips: make(map[string]*visitor),
		r:   r,
		b:   b,
	}
}

func (i *IPRateLimiter) GetLimiter(key string) *rate.Limiter {
	i.mu.Lock()
	defer i.mu.Unlock()

	now := time.Now()
	if len(i.ips) >= limiterSweepSize {
		for k, v := range i.ips {
			if now.Sub(v.lastSeen) > limiterIdleTTL {
				delete(i.ips, k)
			}
		}
	}

	v, exists := i.ips[key]
	if !exists {
		v = &visitor{limiter: rate.NewLimiter(i.r, i.b)}
		i.ips[key] = v
	}
	v.lastSeen = now

	return v.limiter
}

// RateLimitByIP throttles per client address. Run it after chi's RealIP.
func RateLimitByIP(r rate.Limit, b int) func(http.Handler) http.Handler {
	limiter := NewIPRateLimiter(r, b)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			reservation := limiter.GetLimiter(clientIP(req)).Reserve()
			if delay := reservation.Delay(); delay > 0 {
				reservation.Cancel()
				response.TooManyRequests(w, delay)
				return
			}
			next.ServeHTTP(w, req)
		})
	}
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
