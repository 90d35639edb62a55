package httpx

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/Adnan2-a11y/LearnCraft/internal/apperror"
)

const maxBodyBytes = 1 << 20

// envelope is the shape of every JSON response.
type envelope struct {
	Success bool                  `json:"success"`
	Message string                `json:"message"`
	Data    any                   `json:"data,omitempty"`
	Errors  []apperror.FieldError `json:"errors,omitempty"`
}

// writeJSON writes JSON response with status code.
func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// writeSuccess sends a successful envelope.
func writeSuccess(w http.ResponseWriter, status int, msg string, data any) {
	writeJSON(w, status, envelope{Success: true, Message: msg, Data: data})
}

// writeError sends an error message.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, envelope{Success: false, Message: msg})
}

// writeAppError maps a service error onto the envelope. Causes of server
// errors are logged, never returned.
func (r *Router) writeAppError(w http.ResponseWriter, req *http.Request, err error) {
	appErr := apperror.From(err)
	status := appErr.Kind.StatusCode()
	msg := appErr.Message
	if appErr.Kind == apperror.KindServer {
		r.logger.Error("request failed", "path", req.URL.Path, "error", err)
		if msg == "" {
			msg = "internal server error"
		}
	}
	if msg == "" {
		msg = appErr.Kind.String()
	}
	writeJSON(w, status, envelope{Success: false, Message: msg, Errors: appErr.Fields})
}

// decodeJSON reads a single JSON object from the request body.
func decodeJSON(w http.ResponseWriter, req *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, req.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return apperror.Validation("request body is required")
		}
		return apperror.Validation("invalid JSON body")
	}
	return nil
}
