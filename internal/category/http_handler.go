package category

import (
	"net/http"

	"booksbackend/internal/httpx"
)

type HTTPHandler struct {
	svc *Service
}

func NewHTTPHandler(svc *Service) *HTTPHandler {
	return &HTTPHandler{svc: svc}
}

// RegisterRoutes mounts the category endpoints under prefix.
func (h *HTTPHandler) RegisterRoutes(mux *http.ServeMux, prefix string) {
	mux.HandleFunc("GET "+prefix+"/categories", h.List)
	mux.HandleFunc("GET "+prefix+"/categories/{id}", h.GetByID)
	mux.HandleFunc("POST "+prefix+"/categories", h.Create)
	mux.HandleFunc("PUT "+prefix+"/categories/{id}", h.Update)
	mux.HandleFunc("DELETE "+prefix+"/categories/{id}", h.Delete)
}

// List handles GET /v1/categories
// @Summary List categories
// @Tags categories
// @Produce json
// @Success 200 {object} response.Envelope[Category]
// @Failure 500 {object} response.Envelope[Category]
// @Router /v1/categories [get]
func (h *HTTPHandler) List(w http.ResponseWriter, r *http.Request) {
	env, status := h.svc.List(r.Context())
	httpx.WriteEnvelope(w, env, status)
}

// GetByID handles GET /v1/categories/{id}
// @Summary Get category by id
// @Tags categories
// @Produce json
// @Param id path int true "Category ID"
// @Success 200 {object} response.Envelope[Category]
// @Failure 400 {object} response.Envelope[Category]
// @Failure 404 {object} response.Envelope[Category]
// @Router /v1/categories/{id} [get]
func (h *HTTPHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathID(r, "id")
	if err != nil {
		httpx.WriteFailure(w, http.StatusBadRequest, PayloadKey, "Invalid category id")
		return
	}
	env, status := h.svc.GetByID(r.Context(), id)
	httpx.WriteEnvelope(w, env, status)
}

// Create handles POST /v1/categories
// @Summary Create category
// @Tags categories
// @Accept json
// @Produce json
// @Param body body Request true "Category"
// @Success 200 {object} response.Envelope[Category]
// @Failure 400 {object} response.Envelope[Category]
// @Router /v1/categories [post]
func (h *HTTPHandler) Create(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeRequest(w, r)
	if !ok {
		return
	}
	env, status := h.svc.Create(r.Context(), req.ToCategory())
	httpx.WriteEnvelope(w, env, status)
}

// Update handles PUT /v1/categories/{id}
// @Summary Update category
// @Tags categories
// @Accept json
// @Produce json
// @Param id path int true "Category ID"
// @Param body body Request true "Category"
// @Success 200 {object} response.Envelope[Category]
// @Failure 404 {object} response.Envelope[Category]
// @Router /v1/categories/{id} [put]
func (h *HTTPHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathID(r, "id")
	if err != nil {
		httpx.WriteFailure(w, http.StatusBadRequest, PayloadKey, "Invalid category id")
		return
	}
	req, ok := decodeRequest(w, r)
	if !ok {
		return
	}
	env, status := h.svc.Update(r.Context(), req.ToCategory(), id)
	httpx.WriteEnvelope(w, env, status)
}

// Delete handles DELETE /v1/categories/{id}
// @Summary Delete category
// @Tags categories
// @Produce json
// @Param id path int true "Category ID"
// @Success 200 {object} response.Envelope[Category]
// @Router /v1/categories/{id} [delete]
func (h *HTTPHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathID(r, "id")
	if err != nil {
		httpx.WriteFailure(w, http.StatusBadRequest, PayloadKey, "Invalid category id")
		return
	}
	env, status := h.svc.Delete(r.Context(), id)
	httpx.WriteEnvelope(w, env, status)
}

func decodeRequest(w http.ResponseWriter, r *http.Request) (Request, bool) {
	var req Request
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteDecodeFailure(w, PayloadKey, err)
		return req, false
	}
	if errs := httpx.ValidateStruct(req); len(errs) > 0 {
		httpx.WriteFailure(w, http.StatusBadRequest, PayloadKey, httpx.JoinValidationErrors(errs))
		return req, false
	}
	return req, true
}
