package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/vaultkeeper/vaultkeeper/internal/server/models"
)

func (s *Server) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name        string  `json:"name"`
		Description *string `json:"description"`
		Color       *string `json:"color"`
		VaultID     int64   `json:"vault_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if req.Name == "" || req.VaultID == 0 {
		writeError(w, http.StatusBadRequest, "name and vault_id are required")
		return
	}

	category := &models.Category{
		Name:        req.Name,
		Description: req.Description,
		Color:       req.Color,
		VaultID:     req.VaultID,
	}
	created, err := s.categories.Create(r.Context(), category, callerID(r))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toCategoryResponse(created))
}

func (s *Server) handleGetCategory(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid category id")
		return
	}

	category, err := s.categories.GetByID(r.Context(), id, callerID(r))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toCategoryResponse(category))
}

func (s *Server) handleListVaultCategories(w http.ResponseWriter, r *http.Request) {
	vaultID, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid vault id")
		return
	}

	list, err := s.categories.ListByVault(r.Context(), vaultID, callerID(r))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	out := make([]categoryResponse, 0, len(list))
	for _, c := range list {
		out = append(out, toCategoryResponse(c))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleUpdateCategory(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid category id")
		return
	}

	raw, err := decodePatch(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var patch models.CategoryPatch
	name, present, err := raw.stringField("name")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if present {
		if name == nil || *name == "" {
			writeError(w, http.StatusBadRequest, "name cannot be empty")
			return
		}
		patch.Name = name
	}
	patch.Description, patch.DescriptionSet, err = raw.stringField("description")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	patch.Color, patch.ColorSet, err = raw.stringField("color")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	category, err := s.categories.Update(r.Context(), id, patch, callerID(r))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toCategoryResponse(category))
}

func (s *Server) handleDeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid category id")
		return
	}

	if err := s.categories.Delete(r.Context(), id, callerID(r)); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
