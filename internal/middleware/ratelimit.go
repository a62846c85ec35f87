package middleware

import (
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// idleTTL is how long a client may stay quiet before its limiter is dropped.
// A dropped client starts over with a full bucket, so idleTTL must exceed the
// time a bucket needs to refill.
const idleTTL = 3 * time.Minute

type client struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

type ipLimiter struct {
	mu        sync.Mutex
	clients   map[string]*client
	rate      rate.Limit
	burst     int
	lastSweep time.Time
	now       func() time.Time
}

func newIPLimiter(r rate.Limit, burst int) *ipLimiter {
	return &ipLimiter{
		clients: make(map[string]*client),
		rate:    r,
		burst:   burst,
		now:     time.Now,
	}
}

func (ipl *ipLimiter) get(ip string) *rate.Limiter {
	ipl.mu.Lock()
	defer ipl.mu.Unlock()

	now := ipl.now()
	if now.Sub(ipl.lastSweep) >= idleTTL {
		ipl.sweep(now)
	}

	c, ok := ipl.clients[ip]
	if !ok {
		c = &client{limiter: rate.NewLimiter(ipl.rate, ipl.burst)}
		ipl.clients[ip] = c
	}
	c.lastSeen = now
	return c.limiter
}

// sweep drops clients idle for longer than idleTTL. Callers hold mu.
func (ipl *ipLimiter) sweep(now time.Time) {
	for ip, c := range ipl.clients {
		if now.Sub(c.lastSeen) > idleTTL {
			delete(ipl.clients, ip)
		}
	}
	ipl.lastSweep = now
}

// RateLimit allows each client IP perMinute requests per minute. It guards
// this service's callers; it does not pace outbound mail.
func RateLimit(perMinute int) func(http.Handler) http.Handler {
	il := newIPLimiter(rate.Every(time.Minute/time.Duration(perMinute)), perMinute)
	return func(h http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !il.get(clientIP(r)).Allow() {
				w.Header().Set("Content-Type", "application/json")
				w.Header().Set("Retry-After", "60")
				w.WriteHeader(http.StatusTooManyRequests)
				_, _ = w.Write([]byte(`{"message":"Too many requests, please try again later."}`))
				return
			}
			h.ServeHTTP(w, r)
		})
	}
}

func clientIP(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
