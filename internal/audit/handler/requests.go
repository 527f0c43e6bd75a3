package handler

import (
	"net/http"
	"strconv"

	"github.com/maddiralayashwanth5/filmgrid-admin-sub001/internal/audit"
	dErrors "github.com/maddiralayashwanth5/filmgrid-admin-sub001/pkg/domain-errors"
)

const (
	defaultPageSize = 20
	maxPageSize     = 200

	defaultFeedLimit = 50
)

// parseSearchCriteria reads q, action, page, and page_size query parameters.
// Absent pagination parameters fall back to the first page of a default-size
// window; present-but-malformed ones are rejected.
func parseSearchCriteria(r *http.Request) (audit.Criteria, error) {
	criteria := audit.Criteria{
		FreeText:  r.URL.Query().Get("q"),
		Action:    r.URL.Query().Get("action"),
		PageIndex: 1,
		PageSize:  defaultPageSize,
	}

	if raw := r.URL.Query().Get("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil || page < 1 {
			return audit.Criteria{}, dErrors.New(dErrors.CodeBadRequest, "page must be a positive integer")
		}
		criteria.PageIndex = page
	}

	if raw := r.URL.Query().Get("page_size"); raw != "" {
		size, err := strconv.Atoi(raw)
		if err != nil || size < 1 {
			return audit.Criteria{}, dErrors.New(dErrors.CodeBadRequest, "page_size must be a positive integer")
		}
		if size > maxPageSize {
			size = maxPageSize
		}
		criteria.PageSize = size
	}

	return criteria, nil
}

// parseFeedLimit reads the optional limit parameter of a feed subscription.
func parseFeedLimit(r *http.Request) (int, error) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return defaultFeedLimit, nil
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 1 {
		return 0, dErrors.New(dErrors.CodeBadRequest, "limit must be a positive integer")
	}
	return limit, nil
}
