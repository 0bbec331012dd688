package middleware

import (
	"log/slog"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	apierrors "github.com/pribylovaa/go-local-news/internal/http/errors"
	"github.com/pribylovaa/go-local-news/internal/pkg/log"
)

// clientIdleTTL: через сколько простоя лимитер клиента забывается.
const clientIdleTTL = 5 * time.Minute

type client struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// limiterSet: token bucket на каждый IP клиента.
// Устаревшие записи вычищаются при обращении, без фоновой горутины.
type limiterSet struct {
	rps   rate.Limit
	burst int
	now   func() time.Time

	mu        sync.Mutex
	clients   map[string]*client
	lastSweep time.Time
}

func newLimiterSet(rps float64, burst int, now func() time.Time) *limiterSet {
	return &limiterSet{
		rps:       rate.Limit(rps),
		burst:     burst,
		now:       now,
		clients:   make(map[string]*client),
		lastSweep: now(),
	}
}

func (s *limiterSet) allow(ip string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if now.Sub(s.lastSweep) > clientIdleTTL {
		for k, c := range s.clients {
			if now.Sub(c.lastSeen) > clientIdleTTL {
				delete(s.clients, k)
			}
		}
		s.lastSweep = now
	}

	c, ok := s.clients[ip]
	if !ok {
		c = &client{limiter: rate.NewLimiter(s.rps, s.burst)}
		s.clients[ip] = c
	}
	c.lastSeen = now

	return c.limiter.AllowN(now, 1)
}

func (s *limiterSet) size() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.clients)
}

// RateLimit ограничивает частоту запросов с одного IP (rps, burst).
// rps <= 0 делает мидлвар no-op. При превышении: 429 в едином формате ошибок.
// IP берётся из RemoteAddr; X-Forwarded-For учитывается только при trustForwarded.
func RateLimit(rps float64, burst int, trustForwarded bool) Middleware {
	return rateLimit(rps, burst, trustForwarded, time.Now)
}

func rateLimit(rps float64, burst int, trustForwarded bool, now func() time.Time) Middleware {
	return func(next http.Handler) http.Handler {
		if rps <= 0 {
			return next
		}
		set := newLimiterSet(rps, burst, now)

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := clientIP(r, trustForwarded)
			if !set.allow(ip) {
				log.From(r.Context()).Warn("rate_limited",
					slog.String("ip", ip),
					slog.String("path", r.URL.Path),
				)
				w.Header().Set("Retry-After", "1")
				apierrors.WriteError(w, r, apierrors.ErrRateLimited)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// clientIP: хост из RemoteAddr. За доверенным прокси (trustForwarded)
// первый разбираемый адрес из X-Forwarded-For.
func clientIP(r *http.Request, trustForwarded bool) string {
	if trustForwarded {
		if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
			first, _, _ := strings.Cut(fwd, ",")
			if ip := net.ParseIP(strings.TrimSpace(first)); ip != nil {
				return ip.String()
			}
		}
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
