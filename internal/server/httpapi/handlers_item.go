package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/vaultkeeper/vaultkeeper/internal/server/models"
	"github.com/vaultkeeper/vaultkeeper/internal/server/services"
)

func (s *Server) handleCreateItem(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title      string `json:"title"`
		Type       string `json:"type"`
		VaultID    int64  `json:"vault_id"`
		CategoryID *int64 `json:"category_id"`

		Password   *string `json:"password"`
		Notes      *string `json:"notes"`
		CardNumber *string `json:"card_number"`
		CardCVV    *string `json:"card_cvv"`
		LicenseKey *string `json:"license_key"`

		WebsiteURL     *string `json:"website_url"`
		Username       *string `json:"username"`
		CardHolderName *string `json:"card_holder_name"`
		CardExpiryDate *string `json:"card_expiry_date"`
		LicenseEmail   *string `json:"license_email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if req.Title == "" || req.VaultID == 0 {
		writeError(w, http.StatusBadRequest, "title and vault_id are required")
		return
	}
	itemType, err := models.ParseItemType(req.Type)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	item := &models.CredentialItem{
		Title:          req.Title,
		Type:           itemType,
		VaultID:        req.VaultID,
		CategoryID:     req.CategoryID,
		Password:       req.Password,
		Notes:          req.Notes,
		CardNumber:     req.CardNumber,
		CardCVV:        req.CardCVV,
		LicenseKey:     req.LicenseKey,
		WebsiteURL:     req.WebsiteURL,
		Username:       req.Username,
		CardHolderName: req.CardHolderName,
		CardExpiryDate: req.CardExpiryDate,
		LicenseEmail:   req.LicenseEmail,
	}
	created, err := s.items.Create(r.Context(), item, callerID(r))
	if err != nil {
		s.logger.Error(r.Context(), "item creation failed", "error", err)
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toItemResponse(created))
}

func (s *Server) handleGetItem(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	item, err := s.items.GetByID(r.Context(), id, callerID(r))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toItemResponse(item))
}

func (s *Server) handleListVaultItems(w http.ResponseWriter, r *http.Request) {
	vaultID, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid vault id")
		return
	}

	items, err := s.items.ListByVault(r.Context(), vaultID, callerID(r))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toItemResponses(items))
}

// handleSearchItems serves GET /api/items. Query parameters: vault_id,
// category_id (the literal "null" selects items with no category), type and q.
func (s *Server) handleSearchItems(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	input := services.SearchInput{Query: q.Get("q")}

	if raw := q.Get("vault_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid vault_id")
			return
		}
		input.VaultID = &id
	}
	if raw := q.Get("category_id"); raw != "" {
		input.CategorySet = true
		if raw != "null" {
			id, err := strconv.ParseInt(raw, 10, 64)
			if err != nil {
				writeError(w, http.StatusBadRequest, "invalid category_id")
				return
			}
			input.CategoryID = &id
		}
	}
	if raw := q.Get("type"); raw != "" {
		itemType, err := models.ParseItemType(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		input.Type = &itemType
	}

	items, err := s.items.Search(r.Context(), input, callerID(r))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toItemResponses(items))
}

func (s *Server) handleUpdateItem(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	raw, err := decodePatch(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var patch models.ItemPatch
	title, present, err := raw.stringField("title")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if present {
		if title == nil || *title == "" {
			writeError(w, http.StatusBadRequest, "title cannot be empty")
			return
		}
		patch.Title = title
	}
	patch.CategoryID, patch.CategoryIDSet, err = raw.int64Field("category_id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	fields := []struct {
		key   string
		value **string
		set   *bool
	}{
		{"password", &patch.Password, &patch.PasswordSet},
		{"notes", &patch.Notes, &patch.NotesSet},
		{"card_number", &patch.CardNumber, &patch.CardNumberSet},
		{"card_cvv", &patch.CardCVV, &patch.CardCVVSet},
		{"license_key", &patch.LicenseKey, &patch.LicenseKeySet},
		{"website_url", &patch.WebsiteURL, &patch.WebsiteURLSet},
		{"username", &patch.Username, &patch.UsernameSet},
		{"card_holder_name", &patch.CardHolderName, &patch.CardHolderNameSet},
		{"card_expiry_date", &patch.CardExpiryDate, &patch.CardExpiryDateSet},
		{"license_email", &patch.LicenseEmail, &patch.LicenseEmailSet},
	}
	for _, f := range fields {
		*f.value, *f.set, err = raw.stringField(f.key)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	item, err := s.items.Update(r.Context(), id, patch, callerID(r))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toItemResponse(item))
}

func (s *Server) handleDeleteItem(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	if err := s.items.Delete(r.Context(), id, callerID(r)); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
