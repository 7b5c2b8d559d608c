package httpx

import (
	"net/http"
	"strconv"
	"strings"
)

// parseIntQuery returns the integer value of a query param or a default.
// It is tolerant of missing/invalid values.
func parseIntQuery(r *http.Request, key string, def int) int {
	if v := r.URL.Query().Get(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

// parseBoolQuery reports whether a query param is set to a true value ("1", "true", ...).
func parseBoolQuery(r *http.Request, key string) bool {
	v, err := strconv.ParseBool(r.URL.Query().Get(key))
	return err == nil && v
}

// parseListQuery collects a repeated and/or comma-separated query param, dropping blanks.
func parseListQuery(r *http.Request, key string) []string {
	var out []string
	for _, raw := range r.URL.Query()[key] {
		for _, part := range strings.Split(raw, ",") {
			if p := strings.TrimSpace(part); p != "" {
				out = append(out, p)
			}
		}
	}
	return out
}

// ParseLimit parses the limit query param and clamps it to [1, maxLimit].
func ParseLimit(r *http.Request, defLimit, maxLimit int) int {
	if maxLimit < 1 {
		maxLimit = 1
	}
	lim := parseIntQuery(r, "limit", defLimit)
	if lim < 1 {
		lim = 1
	}
	if lim > maxLimit {
		lim = maxLimit
	}
	return lim
}
