package handler

import "github.com/maddiralayashwanth5/filmgrid-admin-sub001/internal/audit"

// searchResponse is the query endpoint payload. Actions is the filter
// vocabulary derived from the same snapshot the rows came from, so the
// console can render its dropdown without a second round trip.
type searchResponse struct {
	Rows       []audit.Record `json:"rows"`
	TotalCount int            `json:"totalCount"`
	PageCount  int            `json:"pageCount"`
	Actions    []string       `json:"actions"`
}
