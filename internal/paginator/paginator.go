package paginator

import (
	"strconv"
	"strings"
)

// PageSize is the number of items on every listing page.
const PageSize = 10

type Metadata struct {
	Number       int  `json:"number"`
	TotalPages   int  `json:"totalPages"`
	TotalItems   int  `json:"totalItems"`
	HasNext      bool `json:"hasNext"`
	HasPrevious  bool `json:"hasPrevious"`
	NextPage     int  `json:"nextPage,omitempty"`
	PreviousPage int  `json:"previousPage,omitempty"`
}

type Page[T any] struct {
	Items []T `json:"items"`
	Metadata
}

// ParsePage reads a 1-based page number. Blank or non-numeric input means page 1.
func ParsePage(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 1
	}
	return n
}

// Paginate returns the requested page of items. Page numbers outside
// [1, TotalPages] resolve to the last page; an empty input has one empty page.
func Paginate[T any](items []T, number, size int) Page[T] {
	if size <= 0 {
		size = PageSize
	}

	total := len(items)
	totalPages := (total + size - 1) / size
	if totalPages == 0 {
		totalPages = 1
	}

	if number < 1 || number > totalPages {
		number = totalPages
	}

	start := (number - 1) * size
	end := min(start+size, total)

	pageItems := make([]T, 0, end-start)
	pageItems = append(pageItems, items[start:end]...)

	meta := Metadata{
		Number:      number,
		TotalPages:  totalPages,
		TotalItems:  total,
		HasNext:     number < totalPages,
		HasPrevious: number > 1,
	}
	if meta.HasNext {
		meta.NextPage = number + 1
	}
	if meta.HasPrevious {
		meta.PreviousPage = number - 1
	}

	return Page[T]{Items: pageItems, Metadata: meta}
}
