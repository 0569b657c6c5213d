package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"hierarchy-api/internal/model"
	"hierarchy-api/internal/service"
	"hierarchy-api/pkg/apierror"
)

type HierarchyHandler struct {
	service *service.HierarchyService
}

func NewHierarchyHandler(service *service.HierarchyService) *HierarchyHandler {
	return &HierarchyHandler{service: service}
}

// Build serves the composite fetch-and-regroup operation.
func (h *HierarchyHandler) Build(w http.ResponseWriter, r *http.Request) {
	var params model.QueryParameters
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		writeError(w, apierror.New("BAD_REQUEST", "request body must be valid JSON", err.Error(), http.StatusBadRequest))
		return
	}

	result, err := h.service.BuildHierarchy(r.Context(), params)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, result, &model.Meta{Total: result.TotalCount})
}

// Assemble regroups a caller-supplied record set without touching the store.
func (h *HierarchyHandler) Assemble(w http.ResponseWriter, r *http.Request) {
	var req model.AssembleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apierror.New("BAD_REQUEST", "request body must be valid JSON", err.Error(), http.StatusBadRequest))
		return
	}

	if strings.TrimSpace(req.ParentField) == "" {
		writeError(w, apierror.New("BAD_REQUEST", "parent_field is required", "", http.StatusBadRequest))
		return
	}

	result := h.service.Assemble(req.Records, strings.TrimSpace(req.ParentField))
	writeSuccess(w, http.StatusOK, result, &model.Meta{Total: result.TotalCount})
}
