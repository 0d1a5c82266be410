package http

import (
	"net/http"
	"strconv"

	"critica/internal/dto"
)

type pageParams struct {
	limit  int
	offset int
}

// parsePage reads limit/offset, with page-number sugar: ?page=N is
// translated to an offset of (N-1)*limit. Bad values fall back to the
// defaults rather than erroring.
func (h *Handler) parsePage(r *http.Request) pageParams {
	p := pageParams{limit: h.defaultPageSize}

	q := r.URL.Query()
	if raw := q.Get("limit"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			p.limit = v
		}
	}
	if p.limit > h.maxPageSize {
		p.limit = h.maxPageSize
	}
	if raw := q.Get("offset"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v >= 0 {
			p.offset = v
		}
	}
	if raw := q.Get("page"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			p.offset = (v - 1) * p.limit
		}
	}
	return p
}

// newPage builds the list envelope with next/previous links derived
// from the request URL.
func newPage(r *http.Request, count int64, p pageParams, results any) dto.Page {
	page := dto.Page{Count: count, Results: results}

	if int64(p.offset+p.limit) < count {
		page.Next = pageLink(r, p.limit, p.offset+p.limit)
	}
	if p.offset > 0 {
		prev := p.offset - p.limit
		if prev < 0 {
			prev = 0
		}
		page.Previous = pageLink(r, p.limit, prev)
	}
	return page
}

func pageLink(r *http.Request, limit, offset int) *string {
	u := *r.URL
	q := u.Query()
	q.Set("limit", strconv.Itoa(limit))
	q.Set("offset", strconv.Itoa(offset))
	q.Del("page")
	u.RawQuery = q.Encode()
	s := u.String()
	return &s
}
