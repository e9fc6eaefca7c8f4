package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/anandkrishnan/mealdash-backend/api/responses"
	pkgauth "github.com/anandkrishnan/mealdash-backend/pkg/auth"
	"github.com/anandkrishnan/mealdash-backend/pkg/auth/session"
	"github.com/anandkrishnan/mealdash-backend/pkg/config"
	pkgerrors "github.com/anandkrishnan/mealdash-backend/pkg/errors"
	"github.com/anandkrishnan/mealdash-backend/pkg/logger"
)

// Auth validates the bearer token, checks the session is still live in
// Redis, and seeds the request context with the caller's identity.
func Auth(cfg config.JWTConfig, verifier session.AccessSessionChecker, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		fn := func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			claims, err := pkgauth.ParseAccessToken(cfg, token)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid token"))
				return
			}
			if claims.ID == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing session id"))
				return
			}

			// A valid token is not enough; logout and premium revocation kill
			// the server-side session and take effect immediately.
			if verifier != nil {
				live, err := verifier.HasSession(r.Context(), claims.ID)
				if err != nil {
					responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "validate session"))
					return
				}
				if !live {
					responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "session unavailable"))
					return
				}
			}

			next.ServeHTTP(w, r.WithContext(identityContext(r.Context(), claims, logg)))
		}
		return http.HandlerFunc(fn)
	}
}

// bearerToken extracts the credential from the Authorization header. A bare
// token without the Bearer prefix is accepted.
func bearerToken(r *http.Request) string {
	raw := strings.TrimSpace(r.Header.Get("Authorization"))
	if strings.HasPrefix(strings.ToLower(raw), "bearer ") {
		return strings.TrimSpace(raw[len("bearer "):])
	}
	return raw
}

func identityContext(ctx context.Context, claims *pkgauth.AccessTokenClaims, logg *logger.Logger) context.Context {
	ctx = context.WithValue(ctx, ctxUserID, claims.UserID.String())
	ctx = context.WithValue(ctx, ctxRole, string(claims.Role))
	ctx = context.WithValue(ctx, ctxAuthJTI, claims.ID)
	if claims.HotelID != nil {
		ctx = context.WithValue(ctx, ctxHotelID, claims.HotelID.String())
	}

	if logg != nil {
		fields := map[string]any{
			"user_id":    claims.UserID.String(),
			"actor_role": string(claims.Role),
		}
		if claims.HotelID != nil {
			fields["hotel_id"] = claims.HotelID.String()
		}
		ctx = logg.WithFields(ctx, fields)
	}
	return ctx
}
