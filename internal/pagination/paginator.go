// Package pagination slices ordered collections into fixed-size pages.
//
// Page numbers arrive from query strings, so they are parsed leniently: a
// missing or malformed number selects the first page, a number below one
// selects the first page and a number past the end selects the last page.
package pagination

import (
	"errors"
	"math"
	"strconv"
	"strings"
)

// DefaultPageSize is the number of posts shown per feed page.
const DefaultPageSize = 10

// Window describes the slice of a collection that a page covers.
type Window struct {
	Number     int
	PageSize   int
	TotalItems int
	TotalPages int
}

// NewWindow resolves the requested page against a collection of total items.
// An empty collection still has one (empty) page.
func NewWindow(total, pageSize int, pageNumber string) Window {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if total < 0 {
		total = 0
	}
	pages := (total + pageSize - 1) / pageSize
	if pages == 0 {
		pages = 1
	}
	return Window{
		Number:     clamp(ParseNumber(pageNumber), 1, pages),
		PageSize:   pageSize,
		TotalItems: total,
		TotalPages: pages,
	}
}

// Offset is the index of the first item on the page.
func (w Window) Offset() int {
	return (w.Number - 1) * w.PageSize
}

// Limit is the maximum number of items on the page.
func (w Window) Limit() int {
	return w.PageSize
}

func (w Window) HasNext() bool {
	return w.Number < w.TotalPages
}

func (w Window) HasPrevious() bool {
	return w.Number > 1
}

// Page is one page of items plus the navigation state around it.
type Page[T any] struct {
	Items              []T  `json:"items"`
	Number             int  `json:"number"`
	PageSize           int  `json:"page_size"`
	TotalItems         int  `json:"total_items"`
	TotalPages         int  `json:"total_pages"`
	HasNext            bool `json:"has_next"`
	HasPrevious        bool `json:"has_previous"`
	NextPageNumber     int  `json:"next_page_number,omitempty"`
	PreviousPageNumber int  `json:"previous_page_number,omitempty"`
}

// NewPage wraps items already cut to w.
func NewPage[T any](items []T, w Window) Page[T] {
	if items == nil {
		items = []T{}
	}
	p := Page[T]{
		Items:       items,
		Number:      w.Number,
		PageSize:    w.PageSize,
		TotalItems:  w.TotalItems,
		TotalPages:  w.TotalPages,
		HasNext:     w.HasNext(),
		HasPrevious: w.HasPrevious(),
	}
	if p.HasNext {
		p.NextPageNumber = w.Number + 1
	}
	if p.HasPrevious {
		p.PreviousPageNumber = w.Number - 1
	}
	return p
}

// Paginate returns the requested page of an in-memory, already ordered slice.
func Paginate[T any](items []T, pageSize int, pageNumber string) Page[T] {
	w := NewWindow(len(items), pageSize, pageNumber)
	start := w.Offset()
	end := start + w.Limit()
	if end > len(items) {
		end = len(items)
	}
	return NewPage(items[start:end], w)
}

// ParseNumber converts a raw page parameter to a number, returning 1 when it
// is missing or not an integer. "last" selects the final page.
func ParseNumber(raw string) int {
	raw = strings.TrimSpace(raw)
	if raw == "last" {
		return math.MaxInt
	}
	n, err := strconv.Atoi(raw)
	if errors.Is(err, strconv.ErrRange) {
		// Too large for an int: clamp to whichever end it overflowed.
		if strings.HasPrefix(raw, "-") {
			return math.MinInt
		}
		return math.MaxInt
	}
	if err != nil {
		return 1
	}
	return n
}

func clamp(n, lo, hi int) int {
	if n < lo {
		return lo
	}
	if n > hi {
		return hi
	}
	return n
}
