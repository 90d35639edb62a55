package httpx

import (
	"net/http"

	"github.com/Adnan2-a11y/LearnCraft/internal/domain"
	"github.com/Adnan2-a11y/LearnCraft/internal/service/auth"
)

func (r *Router) handleRegister(w http.ResponseWriter, req *http.Request) {
	var payload auth.RegisterInput
	if err := decodeJSON(w, req, &payload); err != nil {
		r.writeAppError(w, req, err)
		return
	}
	session, err := r.auth.Register(req.Context(), payload)
	r.metrics.recordAuth("register", err)
	if err != nil {
		r.writeAppError(w, req, err)
		return
	}
	r.setSessionCookie(w, session.Token.Value)
	kind := session.User.Role.ProfileKind()
	writeSuccess(w, http.StatusCreated, string(kind)+" registered successfully", map[string]any{
		"user":    marshalUser(session.User),
		"profile": marshalProfile(session.Profile),
	})
}

func (r *Router) handleLogin(w http.ResponseWriter, req *http.Request) {
	var payload auth.LoginInput
	if err := decodeJSON(w, req, &payload); err != nil {
		r.writeAppError(w, req, err)
		return
	}
	session, err := r.auth.Login(req.Context(), payload)
	r.metrics.recordAuth("login", err)
	if err != nil {
		r.writeAppError(w, req, err)
		return
	}
	r.setSessionCookie(w, session.Token.Value)
	writeSuccess(w, http.StatusOK, "login successful", map[string]any{
		"user":    marshalUser(session.User),
		"profile": marshalProfile(session.Profile),
	})
}

func (r *Router) handleLogout(w http.ResponseWriter, _ *http.Request) {
	r.clearSessionCookie(w)
	writeSuccess(w, http.StatusOK, "logged out successfully", nil)
}

func (r *Router) handleMe(w http.ResponseWriter, req *http.Request) {
	principal, ok := r.principal(w, req)
	if !ok {
		return
	}
	account, err := r.auth.Me(req.Context(), principal.ID)
	if err != nil {
		r.writeAppError(w, req, err)
		return
	}
	writeSuccess(w, http.StatusOK, "current user", map[string]any{
		"user":    marshalUser(account.User),
		"profile": marshalProfile(account.Profile),
	})
}

// principal returns the authenticated principal or answers 500 when the
// route was mounted without requireAuth.
func (r *Router) principal(w http.ResponseWriter, req *http.Request) (*domain.Principal, bool) {
	principal, ok := principalFromContext(req.Context())
	if !ok {
		r.logger.Error("auth context missing", "path", req.URL.Path)
		writeError(w, http.StatusInternalServerError, "authorization context missing")
		return nil, false
	}
	return principal, true
}
