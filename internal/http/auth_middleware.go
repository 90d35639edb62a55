package httpx

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/Adnan2-a11y/LearnCraft/internal/apperror"
	"github.com/Adnan2-a11y/LearnCraft/internal/domain"
	"github.com/Adnan2-a11y/LearnCraft/internal/service/access"
)

type authContextKey string

const contextKeyPrincipal authContextKey = "learncraft-principal"

type contextSetter interface {
	SetContext(context.Context)
}

// requireAuth resolves the session token and attaches the principal before
// invoking the handler.
func (r *Router) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		ctx, _, ok := r.ensureAuth(w, req)
		if !ok {
			return
		}
		if setter, ok := w.(contextSetter); ok {
			setter.SetContext(ctx)
		}
		next.ServeHTTP(w, req.WithContext(ctx))
	})
}

// ensureAuth validates the session token and enriches the context.
func (r *Router) ensureAuth(w http.ResponseWriter, req *http.Request) (context.Context, *domain.Principal, bool) {
	token, err := sessionToken(req)
	if err != nil {
		r.logger.Warn("session token missing", "error", err, "path", req.URL.Path)
		writeError(w, http.StatusUnauthorized, "access denied, no token provided")
		return req.Context(), nil, false
	}
	principal, err := r.auth.Authorize(req.Context(), token)
	if err != nil {
		kind := apperror.KindOf(err)
		if kind == apperror.KindServer {
			r.writeAppError(w, req, err)
			return req.Context(), nil, false
		}
		r.logger.Warn("token validation failed", "error", err, "kind", kind.String(), "path", req.URL.Path)
		msg := "token is not valid"
		if kind == apperror.KindExpiredToken {
			msg = "token has expired"
		}
		writeError(w, http.StatusUnauthorized, msg)
		return req.Context(), nil, false
	}
	ctx := context.WithValue(req.Context(), contextKeyPrincipal, principal)
	return ctx, principal, true
}

// requireRole rejects principals without role. It must run after requireAuth.
func (r *Router) requireRole(role domain.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			principal, _ := principalFromContext(req.Context())
			if err := access.RequireRole(principal, role); err != nil {
				writeError(w, http.StatusForbidden, "access denied, "+string(role)+"s only")
				return
			}
			next.ServeHTTP(w, req)
		})
	}
}

// principalFromContext extracts the authenticated principal from context.
func principalFromContext(ctx context.Context) (*domain.Principal, bool) {
	principal, ok := ctx.Value(contextKeyPrincipal).(*domain.Principal)
	return principal, ok && principal != nil
}

// sessionToken reads the session cookie, falling back to a bearer header.
func sessionToken(req *http.Request) (string, error) {
	if cookie, err := req.Cookie(sessionCookieName); err == nil {
		if token := strings.TrimSpace(cookie.Value); token != "" {
			return token, nil
		}
	}
	return bearerToken(req.Header.Get("Authorization"))
}

func bearerToken(header string) (string, error) {
	if strings.TrimSpace(header) == "" {
		return "", errors.New("missing authorization header")
	}
	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", errors.New("invalid authorization header format")
	}
	token := strings.TrimSpace(parts[1])
	if token == "" {
		return "", errors.New("empty bearer token")
	}
	return token, nil
}
