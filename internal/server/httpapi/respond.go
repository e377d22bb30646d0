package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/vaultkeeper/vaultkeeper/internal/common"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// writeServiceError maps service error kinds to HTTP status codes. Not-found
// and permission failures pass their reason through; anything unrecognized is
// an internal error and the detail stays out of the response.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, common.ErrorNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, common.ErrorInsufficientPermission):
		writeError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, common.ErrorDuplicateGrant),
		errors.Is(err, common.ErrorTargetInactive),
		errors.Is(err, common.ErrorSelfModification),
		errors.Is(err, common.ErrorOwnerGrantProtected),
		errors.Is(err, common.ErrorAlreadyExists):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, common.ErrorUnauthorized),
		errors.Is(err, common.ErrInvalidToken),
		errors.Is(err, common.ErrTokenExpired),
		errors.Is(err, common.ErrRefreshTokenExpired):
		writeError(w, http.StatusUnauthorized, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
