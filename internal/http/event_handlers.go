package httpx

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Adnan2-a11y/LearnCraft/internal/service/event"
)

func (r *Router) handleListEvents(w http.ResponseWriter, req *http.Request) {
	events, err := r.events.List(req.Context(), req.URL.Query().Get("search"))
	if err != nil {
		r.writeAppError(w, req, err)
		return
	}
	writeSuccess(w, http.StatusOK, "events fetched", map[string]any{"events": marshalEvents(events)})
}

func (r *Router) handleGetEvent(w http.ResponseWriter, req *http.Request) {
	e, err := r.events.Get(req.Context(), chi.URLParam(req, "id"))
	if err != nil {
		r.writeAppError(w, req, err)
		return
	}
	writeSuccess(w, http.StatusOK, "event fetched", map[string]any{"event": marshalEvent(*e)})
}

func (r *Router) handleCreateEvent(w http.ResponseWriter, req *http.Request) {
	principal, ok := r.principal(w, req)
	if !ok {
		return
	}
	var payload event.CreateInput
	if err := decodeJSON(w, req, &payload); err != nil {
		r.writeAppError(w, req, err)
		return
	}
	e, err := r.events.Create(req.Context(), principal, payload)
	if err != nil {
		r.writeAppError(w, req, err)
		return
	}
	writeSuccess(w, http.StatusCreated, "event created successfully", map[string]any{"event": marshalEvent(*e)})
}

func (r *Router) handleUpdateEvent(w http.ResponseWriter, req *http.Request) {
	principal, ok := r.principal(w, req)
	if !ok {
		return
	}
	var payload event.UpdateInput
	if err := decodeJSON(w, req, &payload); err != nil {
		r.writeAppError(w, req, err)
		return
	}
	e, err := r.events.Update(req.Context(), principal, chi.URLParam(req, "id"), payload)
	if err != nil {
		r.writeAppError(w, req, err)
		return
	}
	writeSuccess(w, http.StatusOK, "event updated successfully", map[string]any{"event": marshalEvent(*e)})
}

func (r *Router) handleDeleteEvent(w http.ResponseWriter, req *http.Request) {
	principal, ok := r.principal(w, req)
	if !ok {
		return
	}
	if err := r.events.Delete(req.Context(), principal, chi.URLParam(req, "id")); err != nil {
		r.writeAppError(w, req, err)
		return
	}
	writeSuccess(w, http.StatusOK, "event deleted successfully", nil)
}
