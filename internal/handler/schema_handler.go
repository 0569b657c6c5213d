package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"hierarchy-api/internal/model"
	"hierarchy-api/internal/schema"
)

// SchemaHandler exposes the startup-resolved field registry read-only, so the
// UI can offer type and field pickers without its own introspection.
type SchemaHandler struct {
	registry *schema.Registry
}

func NewSchemaHandler(registry *schema.Registry) *SchemaHandler {
	return &SchemaHandler{registry: registry}
}

func (h *SchemaHandler) Types(w http.ResponseWriter, r *http.Request) {
	names := h.registry.TypeNames()
	writeSuccess(w, http.StatusOK, names, &model.Meta{Total: len(names)})
}

func (h *SchemaHandler) Fields(w http.ResponseWriter, r *http.Request) {
	rt, err := h.registry.Type(chi.URLParam(r, "type"))
	if err != nil {
		writeError(w, err)
		return
	}

	fields := rt.Fields()
	writeSuccess(w, http.StatusOK, fields, &model.Meta{Total: len(fields)})
}
