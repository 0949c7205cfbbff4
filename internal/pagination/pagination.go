// Package pagination computes the bounded page-number window shown
// under every list screen. The calculation is pure: a fresh Window is
// derived on each render from the current page, the item count and the
// page size, and nothing is persisted.
package pagination

// MaxVisiblePages is the fixed upper bound on numbered page controls.
// The window is centered on the current page except near the range
// ends, where it clamps to [1, totalPages] while keeping full width.
const MaxVisiblePages = 5

// DefaultPerPage is applied when a list request carries no page size.
const DefaultPerPage = 10

// Window is the set of pagination controls for one render.
type Window struct {
	CurrentPage      int   `json:"current_page"`
	TotalPages       int   `json:"total_pages"`
	Pages            []int `json:"pages"`
	HasPrevious      bool  `json:"has_previous"`
	HasNext          bool  `json:"has_next"`
	ShowFirst        bool  `json:"show_first"`
	LeadingEllipsis  bool  `json:"leading_ellipsis"`
	ShowLast         bool  `json:"show_last"`
	TrailingEllipsis bool  `json:"trailing_ellipsis"`
}

// TotalPages returns ceil(totalItems / itemsPerPage). A non-positive
// page size counts as the default so the division is always defined.
func TotalPages(totalItems, itemsPerPage int) int {
	if itemsPerPage <= 0 {
		itemsPerPage = DefaultPerPage
	}
	if totalItems <= 0 {
		return 0
	}
	return (totalItems + itemsPerPage - 1) / itemsPerPage
}

// ClampPage forces page into [1, totalPages] for the given item count
// and page size. It must be applied whenever totalItems or
// itemsPerPage changes, otherwise an out-of-range page silently
// renders an empty list.
func ClampPage(page, totalItems, itemsPerPage int) int {
	total := TotalPages(totalItems, itemsPerPage)
	if total < 1 {
		total = 1
	}
	if page < 1 {
		return 1
	}
	if page > total {
		return total
	}
	return page
}

// Calculate derives the window for one render. The second return value
// is false when totalPages <= 1, meaning no pagination controls should
// be rendered at all.
func Calculate(currentPage, totalItems, itemsPerPage int) (Window, bool) {
	totalPages := TotalPages(totalItems, itemsPerPage)
	if totalPages <= 1 {
		return Window{}, false
	}
	currentPage = ClampPage(currentPage, totalItems, itemsPerPage)

	start := currentPage - MaxVisiblePages/2
	if start < 1 {
		start = 1
	}
	end := start + MaxVisiblePages - 1
	if end > totalPages {
		end = totalPages
	}
	// Re-clamp near the tail so the window keeps full width instead of
	// shrinking.
	if end-start+1 < MaxVisiblePages {
		start = end - MaxVisiblePages + 1
		if start < 1 {
			start = 1
		}
	}

	pages := make([]int, 0, end-start+1)
	for p := start; p <= end; p++ {
		pages = append(pages, p)
	}

	return Window{
		CurrentPage:      currentPage,
		TotalPages:       totalPages,
		Pages:            pages,
		HasPrevious:      currentPage > 1,
		HasNext:          currentPage < totalPages,
		ShowFirst:        start > 1,
		LeadingEllipsis:  start > 2,
		ShowLast:         end < totalPages,
		TrailingEllipsis: end < totalPages-1,
	}, true
}

// Offset returns the zero-based row offset for a clamped page, for use
// in LIMIT/OFFSET queries.
func Offset(page, itemsPerPage int) int {
	if itemsPerPage <= 0 {
		itemsPerPage = DefaultPerPage
	}
	if page < 1 {
		page = 1
	}
	return (page - 1) * itemsPerPage
}
