package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/vaultkeeper/vaultkeeper/internal/common"
)

func TestWriteServiceError_StatusMapping(t *testing.T) {
	tests := []struct {
		err        error
		wantStatus int
	}{
		{common.ErrorNotFound, http.StatusNotFound},
		{fmt.Errorf("target user: %w", common.ErrorNotFound), http.StatusNotFound},
		{common.ErrorInsufficientPermission, http.StatusForbidden},
		{common.ErrorDuplicateGrant, http.StatusConflict},
		{common.ErrorTargetInactive, http.StatusConflict},
		{common.ErrorSelfModification, http.StatusConflict},
		{common.ErrorOwnerGrantProtected, http.StatusConflict},
		{common.ErrorAlreadyExists, http.StatusConflict},
		{common.ErrorUnauthorized, http.StatusUnauthorized},
		{common.ErrInvalidToken, http.StatusUnauthorized},
		{common.ErrRefreshTokenExpired, http.StatusUnauthorized},
		{errors.New("pq: connection reset"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			rec := httptest.NewRecorder()
			writeServiceError(rec, tt.err)

			if rec.Code != tt.wantStatus {
				t.Fatalf("status: want %d, got %d", tt.wantStatus, rec.Code)
			}

			var body errorResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("body: %v", err)
			}
			if body.Error == "" {
				t.Fatal("empty error message")
			}
		})
	}
}

// Storage-level details must never leak through an internal error response.
func TestWriteServiceError_HidesInternalDetail(t *testing.T) {
	rec := httptest.NewRecorder()
	writeServiceError(rec, errors.New("dial tcp 10.0.0.5:5432: connection refused"))

	var body errorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("body: %v", err)
	}
	if body.Error != "internal error" {
		t.Fatalf("leaked detail: %q", body.Error)
	}
}
