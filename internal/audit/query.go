package audit

import (
	"sort"
	"strings"

	dErrors "github.com/maddiralayashwanth5/filmgrid-admin-sub001/pkg/domain-errors"
)

// Criteria selects and windows a snapshot of audit records.
type Criteria struct {
	// FreeText matches case-insensitively against actor label, target
	// label, and action. Empty matches everything.
	FreeText string

	// Action filters on exact tag equality; ActionAll (or empty) passes all.
	Action string

	PageIndex int // 1-based
	PageSize  int
}

// Page is one window of matching records.
type Page struct {
	Rows       []Record
	TotalCount int
	PageCount  int
}

// Query filters and paginates records. It is a pure function of its inputs:
// no I/O, no hidden state, deterministic for identical snapshots and
// criteria. A page index past the last page yields an empty page, not an
// error; malformed pagination is rejected before any work.
func Query(records []Record, criteria Criteria) (Page, error) {
	if criteria.PageIndex < 1 {
		return Page{}, dErrors.New(dErrors.CodeBadRequest, "page index must be at least 1")
	}
	if criteria.PageSize < 1 {
		return Page{}, dErrors.New(dErrors.CodeBadRequest, "page size must be positive")
	}

	needle := strings.ToLower(strings.TrimSpace(criteria.FreeText))
	action := criteria.Action

	var matching []Record
	for _, record := range records {
		if !matchesText(record, needle) {
			continue
		}
		if action != "" && action != ActionAll && string(record.Action) != action {
			continue
		}
		matching = append(matching, record)
	}

	total := len(matching)
	pageCount := (total + criteria.PageSize - 1) / criteria.PageSize

	start := (criteria.PageIndex - 1) * criteria.PageSize
	if start >= total {
		return Page{TotalCount: total, PageCount: pageCount}, nil
	}
	end := start + criteria.PageSize
	if end > total {
		end = total
	}

	return Page{
		Rows:       append([]Record(nil), matching[start:end]...),
		TotalCount: total,
		PageCount:  pageCount,
	}, nil
}

func matchesText(record Record, needle string) bool {
	if needle == "" {
		return true
	}
	return strings.Contains(strings.ToLower(record.ActorLabel), needle) ||
		strings.Contains(strings.ToLower(record.TargetLabel), needle) ||
		strings.Contains(strings.ToLower(string(record.Action)), needle)
}

// ActionOptions derives the filter vocabulary for a snapshot: ActionAll
// followed by the distinct actions present, sorted, with no duplicates. It
// is derived data and must be recomputed whenever the snapshot changes.
func ActionOptions(records []Record) []string {
	seen := make(map[string]struct{}, len(records))
	var distinct []string
	for _, record := range records {
		tag := string(record.Action)
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		distinct = append(distinct, tag)
	}
	sort.Strings(distinct)
	return append([]string{ActionAll}, distinct...)
}
