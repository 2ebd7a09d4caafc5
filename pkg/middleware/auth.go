package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/julienschmidt/httprouter"

	"hangarhub/pkg/logger"
)

const identityKey contextKey = "identity"

// Identity is the authenticated caller, extracted from the JWT claims.
type Identity struct {
	UserID string
	Role   string
}

func IdentityFromContext(ctx context.Context) (Identity, bool) {
	v := ctx.Value(identityKey)
	id, ok := v.(Identity)
	return id, ok
}

// Authenticator validates HS256 bearer tokens and injects the caller's
// identity into the request context. Routes wrap their handlers with
// Required (or RequireRole) instead of a global middleware, since part of
// the API surface is public.
type Authenticator struct {
	secret string
	log    *logger.Logger
}

func NewAuthenticator(secret string, log *logger.Logger) *Authenticator {
	return &Authenticator{secret: secret, log: log}
}

func (a *Authenticator) Required(next httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		identity, err := a.authenticate(r)
		if err != "" {
			writeUnauthorized(w, err)
			return
		}

		ctx := context.WithValue(r.Context(), identityKey, identity)
		next(w, r.WithContext(ctx), ps)
	}
}

func (a *Authenticator) RequireRole(roles ...string) func(httprouter.Handle) httprouter.Handle {
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}

	return func(next httprouter.Handle) httprouter.Handle {
		return a.Required(func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
			identity, _ := IdentityFromContext(r.Context())
			if !allowed[identity.Role] {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusForbidden)
				_, _ = w.Write([]byte(`{"error":"forbidden"}`))
				return
			}
			next(w, r, ps)
		})
	}
}

// authenticate returns the identity or a short error message for the 401 body.
func (a *Authenticator) authenticate(r *http.Request) (Identity, string) {
	header := r.Header.Get("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return Identity{}, "missing bearer token"
	}
	raw := strings.TrimPrefix(header, "Bearer ")

	tok, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(a.secret), nil
	})
	if err != nil || !tok.Valid {
		return Identity{}, "invalid token"
	}

	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return Identity{}, "invalid claims"
	}

	sub, _ := claims["sub"].(string)
	role, _ := claims["role"].(string)
	if sub == "" || role == "" {
		return Identity{}, "invalid claims"
	}

	return Identity{UserID: sub, Role: role}, ""
}

func writeUnauthorized(w http.ResponseWriter, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error":"` + msg + `"}`))
}
