// Package pagination implements limit/offset paging for list endpoints.
//
// Responses use the envelope {count, next, previous, results}, where next and
// previous are absolute URLs (or null) pointing at the neighbouring pages.
package pagination

import (
	"net/http"
	"net/url"
	"strconv"
)

const (
	limitParam  = "limit"
	offsetParam = "offset"
)

// Params is the parsed window of a list request.
type Params struct {
	Limit  int
	Offset int
}

// FromRequest reads "limit" and "offset". A missing or invalid limit falls
// back to defaultLimit; limits above maxLimit are clamped. Negative or
// unparsable offsets become 0.
func FromRequest(r *http.Request, defaultLimit, maxLimit int) Params {
	q := r.URL.Query()

	limit := parseInt(q.Get(limitParam), defaultLimit)
	if limit < 1 {
		limit = defaultLimit
	}
	if maxLimit > 0 && limit > maxLimit {
		limit = maxLimit
	}

	offset := parseInt(q.Get(offsetParam), 0)
	if offset < 0 {
		offset = 0
	}

	return Params{Limit: limit, Offset: offset}
}

// Page is one window of a list.
type Page[T any] struct {
	Count    int64   `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  []T     `json:"results"`
}

// NewPage builds the envelope for results. r is the request the page answers;
// its other query parameters (filters, search) are carried into the links.
func NewPage[T any](r *http.Request, p Params, count int64, results []T) Page[T] {
	if results == nil {
		results = []T{}
	}
	page := Page[T]{Count: count, Results: results}

	if int64(p.Offset+p.Limit) < count {
		next := pageURL(r, p.Limit, p.Offset+p.Limit)
		page.Next = &next
	}
	if p.Offset > 0 {
		prevOffset := p.Offset - p.Limit
		if prevOffset < 0 {
			prevOffset = 0
		}
		prev := pageURL(r, p.Limit, prevOffset)
		page.Previous = &prev
	}
	return page
}

// Map converts the results of a page, keeping its links. fn receives a
// pointer into the page's results.
func Map[T, U any](p Page[T], fn func(*T) U) Page[U] {
	out := make([]U, 0, len(p.Results))
	for i := range p.Results {
		out = append(out, fn(&p.Results[i]))
	}
	return Page[U]{Count: p.Count, Next: p.Next, Previous: p.Previous, Results: out}
}

func pageURL(r *http.Request, limit, offset int) string {
	u := url.URL{
		Scheme: scheme(r),
		Host:   r.Host,
		Path:   r.URL.Path,
	}
	q := r.URL.Query()
	q.Set(limitParam, strconv.Itoa(limit))
	if offset > 0 {
		q.Set(offsetParam, strconv.Itoa(offset))
	} else {
		q.Del(offsetParam)
	}
	u.RawQuery = q.Encode()
	return u.String()
}

func scheme(r *http.Request) string {
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		return proto
	}
	if r.TLS != nil {
		return "https"
	}
	return "http"
}

func parseInt(raw string, fallback int) int {
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return n
}
