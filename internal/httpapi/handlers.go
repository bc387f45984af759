package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mesh-intelligence/coinage/internal/catalog"
	"github.com/mesh-intelligence/coinage/internal/logger"
	"github.com/mesh-intelligence/coinage/pkg/types"
)

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 1 << 20

type handlers struct {
	cat types.Catalog
	log *logger.Logger
}

// listNeologisms applies the optional q, category and status parameters
// in that order.
func (h *handlers) listNeologisms(w http.ResponseWriter, r *http.Request) {
	list, err := h.cat.Neologisms(r.Context())
	if err != nil {
		h.fail(w, err)
		return
	}
	q := r.URL.Query()
	if v := q.Get("q"); v != "" {
		list = catalog.Search(list, v)
	}
	if v := q.Get("category"); v != "" {
		list = catalog.FilterByCategory(list, v)
	}
	if v := q.Get("status"); v != "" {
		list = catalog.FilterByStatus(list, v)
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *handlers) getNeologism(w http.ResponseWriter, r *http.Request) {
	n, err := h.cat.Neologism(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, n)
}

func (h *handlers) createNeologism(w http.ResponseWriter, r *http.Request) {
	var d types.Draft
	if !decode(w, r, &d) {
		return
	}
	n, err := h.cat.AddNeologism(r.Context(), d)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, n)
}

// updateNeologism replaces the neologism named by the path; the id in
// the body is ignored.
func (h *handlers) updateNeologism(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := h.cat.Neologism(r.Context(), id); err != nil {
		h.fail(w, err)
		return
	}
	var n types.Neologism
	if !decode(w, r, &n) {
		return
	}
	n.ID = id
	if err := h.cat.UpdateNeologism(r.Context(), n); err != nil {
		h.fail(w, err)
		return
	}
	h.respondNeologism(w, r, id)
}

type statusBody struct {
	Status types.Status `json:"status"`
}

func (h *handlers) patchNeologism(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := h.cat.Neologism(r.Context(), id); err != nil {
		h.fail(w, err)
		return
	}
	var body statusBody
	if !decode(w, r, &body) {
		return
	}
	if err := h.cat.UpdateNeologismStatus(r.Context(), id, body.Status); err != nil {
		h.fail(w, err)
		return
	}
	h.respondNeologism(w, r, id)
}

func (h *handlers) respondNeologism(w http.ResponseWriter, r *http.Request, id string) {
	n, err := h.cat.Neologism(r.Context(), id)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, n)
}

func (h *handlers) listCategories(w http.ResponseWriter, r *http.Request) {
	list, err := h.cat.Categories(r.Context())
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

type categoryBody struct {
	Name string `json:"name"`
}

func (h *handlers) createCategory(w http.ResponseWriter, r *http.Request) {
	var body categoryBody
	if !decode(w, r, &body) {
		return
	}
	c, err := h.cat.AddCategory(r.Context(), body.Name)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

// fail maps a catalog error to a status code.
func (h *handlers) fail(w http.ResponseWriter, err error) {
	switch {
	case types.IsValidation(err):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, types.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, types.ErrCatalogClosed):
		writeError(w, http.StatusServiceUnavailable, err.Error())
	default:
		h.log.Error("catalog operation failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

// decode reads a JSON body into v, answering 400 itself on failure.
func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		msg := fmt.Sprintf("invalid JSON body: %v", err)
		if errors.Is(err, io.EOF) {
			msg = "request body is empty"
		}
		writeError(w, http.StatusBadRequest, msg)
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
