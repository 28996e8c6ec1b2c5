package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
)

const (
	defaultPageLimit = 10
	maxPageLimit     = 100
)

func decodeJSONBody(r *http.Request, dst any) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		return fmt.Errorf("decode request body: %w", err)
	}
	return nil
}

// pageParams reads page/limit query parameters, clamping them to sane
// bounds so a caller cannot request an unbounded result set.
func pageParams(r *http.Request) (page, limit int) {
	page = positiveQueryInt(r, "page", 1)
	limit = positiveQueryInt(r, "limit", defaultPageLimit)
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	return page, limit
}

func positiveQueryInt(r *http.Request, key string, fallback int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 1 {
		return fallback
	}
	return value
}

func requirePathID(r *http.Request, name string) (string, error) {
	id := r.PathValue(name)
	if id == "" {
		return "", errors.New("missing " + name + " path parameter")
	}
	return id, nil
}
