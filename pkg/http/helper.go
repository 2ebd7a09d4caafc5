package http

import (
	"net/http"
	"strconv"

	"hangarhub/pkg/config"
	apperrors "hangarhub/pkg/errors"
)

// ExtractPageLimit reads the page/limit query parameters, normalizing them
// to sane bounds. Page starts at 1.
func ExtractPageLimit(r *http.Request) (int, int, error) {
	query := r.URL.Query()

	page := 1
	if s := query.Get("page"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil {
			return 0, 0, apperrors.InvalidInput("invalid page parameter: " + s)
		}
		page = v
	}

	limit := 0
	if s := query.Get("limit"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil {
			return 0, 0, apperrors.InvalidInput("invalid limit parameter: " + s)
		}
		limit = v
	}

	page = config.NormalizePage(page)
	limit = config.NormalizePaginationLimit(limit)

	return page, limit, nil
}

// Offset converts a 1-based page into a skip count for the repository layer.
func Offset(page, limit int) int64 {
	return int64(page-1) * int64(limit)
}
