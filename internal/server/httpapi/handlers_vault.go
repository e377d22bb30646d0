package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/vaultkeeper/vaultkeeper/internal/server/models"
)

func (s *Server) handleCreateVault(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name        string  `json:"name"`
		Description *string `json:"description"`
		IsShared    bool    `json:"is_shared"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	vault, err := s.vaults.Create(r.Context(), req.Name, req.Description, req.IsShared, callerID(r))
	if err != nil {
		s.logger.Error(r.Context(), "vault creation failed", "error", err)
		writeServiceError(w, err)
		return
	}

	s.logger.Info(r.Context(), "vault created", "vault_id", vault.ID, "owner_id", vault.OwnerID)
	writeJSON(w, http.StatusCreated, toVaultResponse(vault, models.PermissionOwner))
}

func (s *Server) handleGetUserVaults(w http.ResponseWriter, r *http.Request) {
	list, err := s.vaults.ListForUser(r.Context(), callerID(r))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	out := make([]vaultResponse, 0, len(list))
	for _, v := range list {
		out = append(out, toVaultResponse(&v.Vault, v.Permission))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetVault(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid vault id")
		return
	}

	vault, err := s.vaults.GetByID(r.Context(), id, callerID(r))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toVaultResponse(&vault.Vault, vault.Permission))
}

func (s *Server) handleUpdateVault(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid vault id")
		return
	}

	raw, err := decodePatch(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var patch models.VaultPatch
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
	isShared, present, err := raw.boolField("is_shared")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if present && isShared != nil {
		patch.IsShared = isShared
	}

	vault, err := s.vaults.Update(r.Context(), id, patch, callerID(r))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toVaultResponse(vault, ""))
}

func (s *Server) handleDeleteVault(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid vault id")
		return
	}

	if err := s.vaults.Delete(r.Context(), id, callerID(r)); err != nil {
		writeServiceError(w, err)
		return
	}

	s.logger.Info(r.Context(), "vault deleted", "vault_id", id)
	w.WriteHeader(http.StatusNoContent)
}
