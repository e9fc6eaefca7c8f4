package middleware

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/anandkrishnan/mealdash-backend/api/responses"
	pkgerrors "github.com/anandkrishnan/mealdash-backend/pkg/errors"
	"github.com/anandkrishnan/mealdash-backend/pkg/logger"
)

type rateLimiterStore interface {
	IncrWithTTL(context.Context, string, time.Duration) (int64, error)
}

// AuthRateLimitPolicy holds the window and per-dimension limits for one auth
// surface (login, register, ...). A zero limit disables that dimension.
type AuthRateLimitPolicy struct {
	name       string
	window     time.Duration
	ipLimit    int
	emailLimit int
}

// NewAuthRateLimitPolicy builds a policy named after the surface it guards.
func NewAuthRateLimitPolicy(name string, window time.Duration, ipLimit, emailLimit int) AuthRateLimitPolicy {
	return AuthRateLimitPolicy{
		name:       strings.ToLower(strings.TrimSpace(name)),
		window:     window,
		ipLimit:    ipLimit,
		emailLimit: emailLimit,
	}
}

func (p AuthRateLimitPolicy) enabled() bool {
	return p.window > 0 && (p.ipLimit > 0 || p.emailLimit > 0)
}

func (p AuthRateLimitPolicy) surface() string {
	if p.name == "" {
		return "auth"
	}
	return p.name
}

// authLimiter evaluates one request against a policy. It exists so the
// middleware closure stays readable.
type authLimiter struct {
	policy AuthRateLimitPolicy
	store  rateLimiterStore
	logg   *logger.Logger
}

// AuthRateLimit throttles auth endpoints on two dimensions: the caller's IP
// and a hash of the submitted email. Email counters survive IP rotation,
// which is what credential-stuffing tooling actually does.
func AuthRateLimit(policy AuthRateLimitPolicy, store rateLimiterStore, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if !policy.enabled() || store == nil {
			return next
		}
		lim := &authLimiter{policy: policy, store: store, logg: logg}

		fn := func(w http.ResponseWriter, r *http.Request) {
			if lim.checkIP(w, r) && lim.checkEmail(w, r) {
				next.ServeHTTP(w, r)
			}
		}
		return http.HandlerFunc(fn)
	}
}

// checkIP counts the request against the per-IP bucket. It returns false
// after writing a response, either a 429 or a dependency error.
func (l *authLimiter) checkIP(w http.ResponseWriter, r *http.Request) bool {
	if l.policy.ipLimit <= 0 {
		return true
	}
	ip := clientIP(r)
	if ip == "" {
		return true
	}

	key := fmt.Sprintf("rl:ip:%s:%s", l.policy.surface(), ip)
	count, err := l.store.IncrWithTTL(r.Context(), key, l.policy.window)
	if err != nil {
		responses.WriteError(r.Context(), nil, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "rate limiting"))
		return false
	}
	if count > int64(l.policy.ipLimit) {
		l.block(w, r, "ip", map[string]any{"ip": ip}, count, l.policy.ipLimit)
		return false
	}
	return true
}

// checkEmail reads (and restores) the body to count the request against the
// per-email bucket. Requests without a parseable email pass through.
func (l *authLimiter) checkEmail(w http.ResponseWriter, r *http.Request) bool {
	if l.policy.emailLimit <= 0 {
		return true
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		responses.WriteError(r.Context(), nil, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read request"))
		return false
	}
	r.Body = io.NopCloser(bytes.NewReader(body))

	email := emailFromPayload(body)
	if email == "" {
		return true
	}
	sum := sha256.Sum256([]byte(email))
	hash := hex.EncodeToString(sum[:])

	key := fmt.Sprintf("rl:email:%s:%s", l.policy.surface(), hash)
	count, err := l.store.IncrWithTTL(r.Context(), key, l.policy.window)
	if err != nil {
		responses.WriteError(r.Context(), nil, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "rate limiting"))
		return false
	}
	if count > int64(l.policy.emailLimit) {
		l.block(w, r, "email", map[string]any{"email_hash": hash}, count, l.policy.emailLimit)
		return false
	}
	return true
}

func (l *authLimiter) block(w http.ResponseWriter, r *http.Request, scope string, extra map[string]any, count int64, limit int) {
	ctx := r.Context()
	if l.logg != nil {
		fields := map[string]any{
			"scope":          scope,
			"policy":         l.policy.surface(),
			"attempts":       count,
			"limit":          limit,
			"window_seconds": int(l.policy.window.Seconds()),
		}
		for k, v := range extra {
			fields[k] = v
		}
		l.logg.Warn(l.logg.WithFields(ctx, fields), "auth.rate_limit.blocked")
	}
	responses.WriteError(ctx, nil, w, pkgerrors.New(pkgerrors.CodeRateLimit, "rate limit exceeded"))
}

// clientIP prefers proxy headers over RemoteAddr so limits apply to the real
// caller when the service sits behind a load balancer.
func clientIP(r *http.Request) string {
	if r == nil {
		return ""
	}
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		for _, hop := range strings.Split(forwarded, ",") {
			if ip := strings.TrimSpace(hop); ip != "" {
				return ip
			}
		}
	}
	if ip := strings.TrimSpace(r.Header.Get("X-Real-IP")); ip != "" {
		return ip
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil && host != "" {
		return host
	}
	return r.RemoteAddr
}

func emailFromPayload(payload []byte) string {
	var body struct {
		Email string `json:"email"`
	}
	if err := json.Unmarshal(payload, &body); err != nil {
		return ""
	}
	return strings.ToLower(strings.TrimSpace(body.Email))
}
