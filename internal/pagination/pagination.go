// Package pagination resolves page/limit query parameters into a LIMIT/OFFSET window.
//
// Two modes exist. Offset mode (the default) pages through rows with
// offset = (page-1)*limit and a fixed default limit. Legacy mode reproduces the
// behaviour older clients were built against: when limit is absent it grows with
// the page (page*DefaultLimit, up to MaxLimit) and the offset is always zero, so every page starts
// at the first row.
package pagination

import (
	"math"
	"strconv"
	"strings"
)

const (
	// DefaultLimit is the page size used when a limit is not provided.
	DefaultLimit = 8
	// MaxLimit caps how many rows a single list request can return.
	MaxLimit = 100
	// MaxPage keeps (page-1)*MaxLimit inside the int range.
	MaxPage = math.MaxInt/MaxLimit + 1
)

// Params is a resolved page request.
type Params struct {
	Page   int
	Limit  int
	Offset int
}

// Meta is the pagination block returned next to list results.
type Meta struct {
	CurrentPage  int   `json:"currentPage"`
	TotalPages   int   `json:"totalPages"`
	TotalItems   int64 `json:"totalItems"`
	ItemsPerPage int   `json:"itemsPerPage"`
}

// Parse resolves raw page and limit query values. Missing, non-numeric or
// non-positive values fall back to their defaults. Limits are capped at
// MaxLimit and pages at MaxPage.
func Parse(rawPage, rawLimit string, legacy bool) Params {
	page := positiveInt(rawPage)
	if page == 0 {
		page = 1
	}
	if page > MaxPage {
		page = MaxPage
	}

	limit := positiveInt(rawLimit)
	if limit == 0 {
		limit = DefaultLimit
		if legacy {
			limit = legacyLimit(page)
		}
	}
	limit = NormalizeLimit(limit)

	offset := (page - 1) * limit
	if legacy {
		offset = 0
	}

	return Params{Page: page, Limit: limit, Offset: offset}
}

// NormalizeLimit enforces the default and maximum limits.
func NormalizeLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}

// legacyLimit is page*DefaultLimit without overflowing past MaxLimit.
func legacyLimit(page int) int {
	if page > MaxLimit/DefaultLimit {
		return MaxLimit
	}
	return page * DefaultLimit
}

// NewMeta builds the pagination block for a result set of total rows.
func NewMeta(p Params, total int64) Meta {
	return Meta{
		CurrentPage:  p.Page,
		TotalPages:   TotalPages(total, p.Limit),
		TotalItems:   total,
		ItemsPerPage: p.Limit,
	}
}

// TotalPages returns ceil(total/limit).
func TotalPages(total int64, limit int) int {
	if limit <= 0 {
		return 0
	}
	return int(math.Ceil(float64(total) / float64(limit)))
}

func positiveInt(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 1 {
		return 0
	}
	return n
}
