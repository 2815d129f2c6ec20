package middleware

import (
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// LoginLimiterConfig holds the rate-limit settings for login attempts.
type LoginLimiterConfig struct {
	// Rate is the sustained attempts allowed per second per email.
	Rate rate.Limit
	// Burst is the burst size per email.
	Burst int
	// CleanupInterval is how often idle limiter entries are dropped.
	CleanupInterval time.Duration
	// IdleTTL is how long an entry may be unused before cleanup.
	IdleTTL time.Duration
}

// DefaultLoginLimiterConfig allows 10 login attempts per minute per email.
func DefaultLoginLimiterConfig() LoginLimiterConfig {
	return LoginLimiterConfig{
		Rate:            rate.Limit(10.0 / 60.0),
		Burst:           10,
		CleanupInterval: 5 * time.Minute,
		IdleTTL:         15 * time.Minute,
	}
}

type emailLimiter struct {
	limiter    *rate.Limiter
	lastAccess time.Time
}

// LoginLimiter throttles login attempts per email address. Repeated
// password guessing against one account is slowed without affecting
// other accounts.
type LoginLimiter struct {
	config LoginLimiterConfig
	logger *zap.Logger

	mu       sync.Mutex
	limiters map[string]*emailLimiter

	stopCh chan struct{}
}

// NewLoginLimiter creates a LoginLimiter and starts its background cleanup.
func NewLoginLimiter(config LoginLimiterConfig, logger *zap.Logger) *LoginLimiter {
	ll := &LoginLimiter{
		config:   config,
		logger:   logger,
		limiters: make(map[string]*emailLimiter),
		stopCh:   make(chan struct{}),
	}
	go ll.cleanupLoop()
	return ll
}

// Stop terminates the background cleanup goroutine.
func (ll *LoginLimiter) Stop() {
	close(ll.stopCh)
}

// Middleware returns the login rate-limit middleware. It peeks at the
// request body for the email field and restores the body for the handler.
func (ll *LoginLimiter) Middleware() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var body struct {
				Email string `json:"email"`
			}
			buf, err := readAndRestoreBody(r)
			if err != nil {
				http.Error(w, "invalid body", http.StatusBadRequest)
				return
			}
			_ = json.Unmarshal(buf, &body)

			email := strings.ToLower(strings.TrimSpace(body.Email))
			if email == "" {
				next.ServeHTTP(w, r)
				return
			}

			if !ll.getOrCreate(email).Allow() {
				ll.logger.Warn("login rate limit exceeded", zap.String("email", email))
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				_ = json.NewEncoder(w).Encode(map[string]string{
					"error": "too many login attempts, try again later",
				})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func (ll *LoginLimiter) getOrCreate(email string) *rate.Limiter {
	ll.mu.Lock()
	defer ll.mu.Unlock()
	entry, ok := ll.limiters[email]
	if !ok {
		entry = &emailLimiter{limiter: rate.NewLimiter(ll.config.Rate, ll.config.Burst)}
		ll.limiters[email] = entry
	}
	entry.lastAccess = time.Now()
	return entry.limiter
}

func (ll *LoginLimiter) cleanupLoop() {
	ticker := time.NewTicker(ll.config.CleanupInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ll.stopCh:
			return
		case <-ticker.C:
			cutoff := time.Now().Add(-ll.config.IdleTTL)
			ll.mu.Lock()
			for email, entry := range ll.limiters {
				if entry.lastAccess.Before(cutoff) {
					delete(ll.limiters, email)
				}
			}
			ll.mu.Unlock()
		}
	}
}
