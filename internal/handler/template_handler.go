package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"hierarchy-api/internal/service"
)

type TemplateHandler struct {
	service *service.TemplateService
}

func NewTemplateHandler(service *service.TemplateService) *TemplateHandler {
	return &TemplateHandler{service: service}
}

// Get returns the configuration record matching the template label. No match
// is a success with null data; callers treat absent as a common case.
func (h *TemplateHandler) Get(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "template")

	record, err := h.service.GetTemplate(r.Context(), name)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, record, nil)
}
