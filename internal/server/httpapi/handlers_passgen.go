package httpapi

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/vaultkeeper/vaultkeeper/internal/passgen"
)

// handleGeneratePassword serves GET /api/passgen. Query parameters: length
// and the four character-class toggles; omitted toggles default to true.
func (s *Server) handleGeneratePassword(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	opts := passgen.Options{
		Length:    16,
		Uppercase: true,
		Lowercase: true,
		Digits:    true,
		Symbols:   true,
	}
	if raw := q.Get("length"); raw != "" {
		length, err := strconv.Atoi(raw)
		if err != nil || length < 1 || length > 256 {
			writeError(w, http.StatusBadRequest, "invalid length")
			return
		}
		opts.Length = length
	}
	var err error
	if opts.Uppercase, err = boolParam(q.Get("uppercase"), true); err != nil {
		writeError(w, http.StatusBadRequest, "invalid uppercase")
		return
	}
	if opts.Lowercase, err = boolParam(q.Get("lowercase"), true); err != nil {
		writeError(w, http.StatusBadRequest, "invalid lowercase")
		return
	}
	if opts.Digits, err = boolParam(q.Get("digits"), true); err != nil {
		writeError(w, http.StatusBadRequest, "invalid digits")
		return
	}
	if opts.Symbols, err = boolParam(q.Get("symbols"), true); err != nil {
		writeError(w, http.StatusBadRequest, "invalid symbols")
		return
	}

	password, err := passgen.Generate(opts)
	if err != nil {
		if errors.Is(err, passgen.ErrNoCharacterSets) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"password": password,
		"strength": passgen.Strength(password),
	})
}

func boolParam(raw string, fallback bool) (bool, error) {
	if raw == "" {
		return fallback, nil
	}
	return strconv.ParseBool(raw)
}
