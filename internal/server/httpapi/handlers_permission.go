package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/vaultkeeper/vaultkeeper/internal/server/models"
)

func (s *Server) handleCreatePermission(w http.ResponseWriter, r *http.Request) {
	var req struct {
		VaultID    int64  `json:"vault_id"`
		UserID     int64  `json:"user_id"`
		Permission string `json:"permission"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if req.VaultID == 0 || req.UserID == 0 {
		writeError(w, http.StatusBadRequest, "vault_id and user_id are required")
		return
	}
	level, err := models.ParsePermission(req.Permission)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	grant, err := s.permissions.Grant(r.Context(), req.VaultID, req.UserID, level, callerID(r))
	if err != nil {
		s.logger.Error(r.Context(), "permission grant failed", "error", err)
		writeServiceError(w, err)
		return
	}

	s.logger.Info(r.Context(), "permission granted",
		"vault_id", grant.VaultID, "user_id", grant.UserID, "permission", grant.Permission)
	writeJSON(w, http.StatusCreated, toGrantResponse(grant))
}

func (s *Server) handleUpdatePermission(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid grant id")
		return
	}

	var req struct {
		Permission string `json:"permission"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	level, err := models.ParsePermission(req.Permission)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	grant, err := s.permissions.Update(r.Context(), id, level, callerID(r))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toGrantResponse(grant))
}

func (s *Server) handleRevokePermission(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid grant id")
		return
	}

	if err := s.permissions.Revoke(r.Context(), id, callerID(r)); err != nil {
		writeServiceError(w, err)
		return
	}

	s.logger.Info(r.Context(), "permission revoked", "grant_id", id)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleGetVaultPermissions(w http.ResponseWriter, r *http.Request) {
	vaultID, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid vault id")
		return
	}

	grants, err := s.permissions.ListForVault(r.Context(), vaultID, callerID(r))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	out := make([]grantResponse, 0, len(grants))
	for _, g := range grants {
		out = append(out, toGrantResponse(g))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetOwnPermission(w http.ResponseWriter, r *http.Request) {
	vaultID, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid vault id")
		return
	}

	level, err := s.permissions.PermissionFor(r.Context(), vaultID, callerID(r))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"permission": string(level)})
}
