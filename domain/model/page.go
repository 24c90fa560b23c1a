package model

import (
	"fmt"
	"slices"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 500
)

// PageRequest carries the paging and sort parameters common to every search.
type PageRequest struct {
	Current int    `json:"current"`       // 1-based page number
	Size    int    `json:"size"`          // records per page
	OrderBy string `json:"orderByColumn"` // sort field, empty for the default order
	IsAsc   bool   `json:"isAsc"`         // ascending when OrderBy is set
}

// Normalize fills defaults and clamps the page size.
func (p PageRequest) Normalize() PageRequest {
	if p.Current <= 0 {
		p.Current = 1
	}
	if p.Size <= 0 {
		p.Size = DefaultPageSize
	}
	if p.Size > MaxPageSize {
		p.Size = MaxPageSize
	}
	return p
}

// Offset returns the number of records skipped before the requested page.
func (p PageRequest) Offset() int {
	p = p.Normalize()
	return (p.Current - 1) * p.Size
}

// CheckOrderBy verifies OrderBy is empty or one of allowed.
func (p PageRequest) CheckOrderBy(allowed ...string) error {
	if p.OrderBy == "" || slices.Contains(allowed, p.OrderBy) {
		return nil
	}
	return fmt.Errorf("%w: unsupported orderByColumn %q", ErrPageRequestInvalid, p.OrderBy)
}

// Page is the pagination envelope shared by all resources.
type Page[T any] struct {
	Records []T   `json:"records"`
	Current int   `json:"current"`
	Size    int   `json:"size"`
	Total   int64 `json:"total"`
}

// NewPage wraps one page of records. A nil slice becomes empty so the JSON
// form is always an array.
func NewPage[T any](records []T, req PageRequest, total int64) *Page[T] {
	req = req.Normalize()
	if records == nil {
		records = []T{}
	}
	return &Page[T]{Records: records, Current: req.Current, Size: req.Size, Total: total}
}

// Paginate returns the requested page of an already filtered and ordered slice.
func Paginate[T any](all []T, req PageRequest) *Page[T] {
	req = req.Normalize()
	total := int64(len(all))
	start := req.Offset()
	if start >= len(all) {
		return NewPage[T](nil, req, total)
	}
	end := min(start+req.Size, len(all))
	return NewPage(slices.Clone(all[start:end]), req, total)
}

// SortStable orders items with cmp, reversing it when asc is false.
func SortStable[T any](items []T, cmp func(a, b T) int, asc bool) {
	slices.SortStableFunc(items, func(a, b T) int {
		if asc {
			return cmp(a, b)
		}
		return -cmp(a, b)
	})
}
