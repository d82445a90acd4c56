package book

import (
	"net/http"

	"booksbackend/internal/httpx"
)

type HTTPHandler struct {
	service *Service
}

func NewHTTPHandler(service *Service) *HTTPHandler {
	return &HTTPHandler{service: service}
}

// RegisterRoutes mounts the book endpoints under prefix.
func (h *HTTPHandler) RegisterRoutes(mux *http.ServeMux, prefix string) {
	mux.HandleFunc("GET "+prefix+"/books", h.List)
	mux.HandleFunc("GET "+prefix+"/books/{id}", h.GetByID)
	mux.HandleFunc("POST "+prefix+"/books", h.Create)
	mux.HandleFunc("PUT "+prefix+"/books/{id}", h.Update)
	mux.HandleFunc("DELETE "+prefix+"/books/{id}", h.Delete)
}

// List handles GET /v1/books
func (h *HTTPHandler) List(w http.ResponseWriter, r *http.Request) {
	env, status := h.service.List(r.Context())
	httpx.WriteEnvelope(w, env, status)
}

// GetByID handles GET /v1/books/{id}
func (h *HTTPHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := bookID(w, r)
	if !ok {
		return
	}
	env, status := h.service.GetByID(r.Context(), id)
	httpx.WriteEnvelope(w, env, status)
}

// Create handles POST /v1/books
func (h *HTTPHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req Request
	if !decodeRequest(w, r, &req) {
		return
	}
	env, status := h.service.Create(r.Context(), req.ToBook())
	httpx.WriteEnvelope(w, env, status)
}

// Update handles PUT /v1/books/{id}
func (h *HTTPHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := bookID(w, r)
	if !ok {
		return
	}
	var req Request
	if !decodeRequest(w, r, &req) {
		return
	}
	env, status := h.service.Update(r.Context(), req.ToBook(), id)
	httpx.WriteEnvelope(w, env, status)
}

// Delete handles DELETE /v1/books/{id}
func (h *HTTPHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := bookID(w, r)
	if !ok {
		return
	}
	env, status := h.service.Delete(r.Context(), id)
	httpx.WriteEnvelope(w, env, status)
}

func bookID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := httpx.PathID(r, "id")
	if err != nil {
		httpx.WriteFailure(w, http.StatusBadRequest, PayloadKey, "Invalid book id")
		return 0, false
	}
	return id, true
}

func decodeRequest(w http.ResponseWriter, r *http.Request, req *Request) bool {
	if err := httpx.DecodeJSON(r, req); err != nil {
		httpx.WriteDecodeFailure(w, PayloadKey, err)
		return false
	}
	if errs := httpx.ValidateStruct(req); len(errs) > 0 {
		httpx.WriteFailure(w, http.StatusBadRequest, PayloadKey, httpx.JoinValidationErrors(errs))
		return false
	}
	return true
}
