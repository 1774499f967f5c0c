// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

// Pagination carries page navigation state for list templates.
type Pagination struct {
	Page       int
	PerPage    int
	Total      int
	TotalPages int
	baseURL    string
	query      url.Values
}

// NewPagination builds pagination state. Page is clamped to [1, TotalPages].
func NewPagination(page, perPage, total int) Pagination {
	totalPages := (total + perPage - 1) / perPage
	if totalPages < 1 {
		totalPages = 1
	}
	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}
	return Pagination{
		Page:       page,
		PerPage:    perPage,
		Total:      total,
		TotalPages: totalPages,
	}
}

// pageParam reads the ?page query parameter, defaulting to 1.
func pageParam(r *http.Request) int {
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 1 {
		return 1
	}
	return page
}

// WithURL attaches the request URL so PageURL preserves other query
// parameters, like the category filter.
func (p Pagination) WithURL(r *http.Request) Pagination {
	p.baseURL = r.URL.Path
	p.query = r.URL.Query()
	return p
}

// Offset returns the row offset of the current page.
func (p Pagination) Offset() int {
	return (p.Page - 1) * p.PerPage
}

// HasPrev reports whether a previous page exists.
func (p Pagination) HasPrev() bool { return p.Page > 1 }

// HasNext reports whether a next page exists.
func (p Pagination) HasNext() bool { return p.Page < p.TotalPages }

// PrevPage returns the previous page number.
func (p Pagination) PrevPage() int { return p.Page - 1 }

// NextPage returns the next page number.
func (p Pagination) NextPage() int { return p.Page + 1 }

// Pages returns the page numbers to show: a window of two around the current
// page plus the first and last, with 0 marking an ellipsis.
func (p Pagination) Pages() []int {
	if p.TotalPages <= 7 {
		pages := make([]int, p.TotalPages)
		for i := range pages {
			pages[i] = i + 1
		}
		return pages
	}

	var pages []int
	pages = append(pages, 1)
	if p.Page > 4 {
		pages = append(pages, 0)
	}
	for n := p.Page - 2; n <= p.Page+2; n++ {
		if n > 1 && n < p.TotalPages {
			pages = append(pages, n)
		}
	}
	if p.Page < p.TotalPages-3 {
		pages = append(pages, 0)
	}
	pages = append(pages, p.TotalPages)
	return pages
}

// PageURL returns the URL of the given page, keeping other query parameters.
func (p Pagination) PageURL(page int) string {
	if p.baseURL == "" {
		return fmt.Sprintf("?page=%d", page)
	}
	q := url.Values{}
	for k, v := range p.query {
		q[k] = v
	}
	q.Set("page", strconv.Itoa(page))
	return p.baseURL + "?" + q.Encode()
}
