package httpapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
)

// rawPatch is a decoded JSON object that still distinguishes absent keys
// from keys explicitly set to null: absent fields stay untouched, null
// fields clear the stored value.
type rawPatch map[string]json.RawMessage

func decodePatch(r *http.Request) (rawPatch, error) {
	var p rawPatch
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	return p, nil
}

// stringField returns (value, present). A null value yields (nil, true).
func (p rawPatch) stringField(key string) (*string, bool, error) {
	raw, ok := p[key]
	if !ok {
		return nil, false, nil
	}
	if string(raw) == "null" {
		return nil, true, nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, true, fmt.Errorf("field %q: %w", key, err)
	}
	return &s, true, nil
}

func (p rawPatch) int64Field(key string) (*int64, bool, error) {
	raw, ok := p[key]
	if !ok {
		return nil, false, nil
	}
	if string(raw) == "null" {
		return nil, true, nil
	}
	var n int64
	if err := json.Unmarshal(raw, &n); err != nil {
		return nil, true, fmt.Errorf("field %q: %w", key, err)
	}
	return &n, true, nil
}

func (p rawPatch) boolField(key string) (*bool, bool, error) {
	raw, ok := p[key]
	if !ok {
		return nil, false, nil
	}
	if string(raw) == "null" {
		return nil, true, nil
	}
	var b bool
	if err := json.Unmarshal(raw, &b); err != nil {
		return nil, true, fmt.Errorf("field %q: %w", key, err)
	}
	return &b, true, nil
}

// pathID extracts the numeric {id} path variable.
func pathID(r *http.Request) (int64, error) {
	return strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
}
