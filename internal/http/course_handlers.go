package httpx

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Adnan2-a11y/LearnCraft/internal/service/course"
)

func (r *Router) handleListCourses(w http.ResponseWriter, req *http.Request) {
	courses, err := r.courses.List(req.Context(), req.URL.Query().Get("search"))
	if err != nil {
		r.writeAppError(w, req, err)
		return
	}
	writeSuccess(w, http.StatusOK, "courses fetched", map[string]any{"courses": marshalCourses(courses)})
}

func (r *Router) handleGetCourse(w http.ResponseWriter, req *http.Request) {
	c, err := r.courses.Get(req.Context(), chi.URLParam(req, "id"))
	if err != nil {
		r.writeAppError(w, req, err)
		return
	}
	writeSuccess(w, http.StatusOK, "course fetched", map[string]any{"course": marshalCourse(*c)})
}

func (r *Router) handleCreateCourse(w http.ResponseWriter, req *http.Request) {
	principal, ok := r.principal(w, req)
	if !ok {
		return
	}
	var payload course.CreateInput
	if err := decodeJSON(w, req, &payload); err != nil {
		r.writeAppError(w, req, err)
		return
	}
	c, err := r.courses.Create(req.Context(), principal, payload)
	if err != nil {
		r.writeAppError(w, req, err)
		return
	}
	writeSuccess(w, http.StatusCreated, "course added successfully", map[string]any{"course": marshalCourse(*c)})
}

func (r *Router) handleUpdateCourse(w http.ResponseWriter, req *http.Request) {
	principal, ok := r.principal(w, req)
	if !ok {
		return
	}
	var payload course.UpdateInput
	if err := decodeJSON(w, req, &payload); err != nil {
		r.writeAppError(w, req, err)
		return
	}
	c, err := r.courses.Update(req.Context(), principal, chi.URLParam(req, "id"), payload)
	if err != nil {
		r.writeAppError(w, req, err)
		return
	}
	writeSuccess(w, http.StatusOK, "course updated successfully", map[string]any{"course": marshalCourse(*c)})
}

func (r *Router) handleDeleteCourse(w http.ResponseWriter, req *http.Request) {
	principal, ok := r.principal(w, req)
	if !ok {
		return
	}
	if err := r.courses.Delete(req.Context(), principal, chi.URLParam(req, "id")); err != nil {
		r.writeAppError(w, req, err)
		return
	}
	writeSuccess(w, http.StatusOK, "course deleted successfully", nil)
}
