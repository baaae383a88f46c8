package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"lescombis/internal/service"
)

func pathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: identifiant invalide", service.ErrInvalidInput)
	}
	return id, nil
}

func queryInt(r *http.Request, name, fallback string) int {
	value := r.URL.Query().Get(name)
	if value == "" {
		value = fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0
	}
	return n
}

func queryInt64(r *http.Request, name string) int64 {
	n, err := strconv.ParseInt(r.URL.Query().Get(name), 10, 64)
	if err != nil {
		return 0
	}
	return n
}

// pageParams reads page and limit query values with sane bounds
func pageParams(r *http.Request) (page, limit int) {
	page = queryInt(r, "page", "1")
	if page < 1 {
		page = 1
	}
	limit = queryInt(r, "limit", "20")
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return page, limit
}
