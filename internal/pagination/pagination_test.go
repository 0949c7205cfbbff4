package pagination

import "testing"

func TestTotalPages(t *testing.T) {
	tests := []struct {
		name         string
		totalItems   int
		itemsPerPage int
		want         int
	}{
		{name: "exact division", totalItems: 100, itemsPerPage: 10, want: 10},
		{name: "rounds up", totalItems: 47, itemsPerPage: 10, want: 5},
		{name: "single partial page", totalItems: 3, itemsPerPage: 10, want: 1},
		{name: "zero items", totalItems: 0, itemsPerPage: 10, want: 0},
		{name: "page size one", totalItems: 7, itemsPerPage: 1, want: 7},
		{name: "invalid page size falls back to default", totalItems: 25, itemsPerPage: 0, want: 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TotalPages(tt.totalItems, tt.itemsPerPage); got != tt.want {
				t.Fatalf("TotalPages(%d, %d) = %d, want %d", tt.totalItems, tt.itemsPerPage, got, tt.want)
			}
		})
	}
}

func TestCalculateNoPaginationNeeded(t *testing.T) {
	if _, ok := Calculate(1, 0, 10); ok {
		t.Fatal("expected no window for zero items")
	}
	if _, ok := Calculate(1, 10, 10); ok {
		t.Fatal("expected no window for a single page")
	}
	if _, ok := Calculate(1, 11, 10); !ok {
		t.Fatal("expected a window once a second page exists")
	}
}

func TestCalculateWindow(t *testing.T) {
	tests := []struct {
		name             string
		currentPage      int
		totalItems       int
		itemsPerPage     int
		wantPages        []int
		wantShowFirst    bool
		wantLeadingDots  bool
		wantShowLast     bool
		wantTrailingDots bool
		wantHasPrevious  bool
		wantHasNext      bool
	}{
		{
			name:        "first page of five",
			currentPage: 1, totalItems: 47, itemsPerPage: 10,
			wantPages:   []int{1, 2, 3, 4, 5},
			wantHasNext: true,
		},
		{
			name:        "last page of ten keeps full window",
			currentPage: 10, totalItems: 100, itemsPerPage: 10,
			wantPages:       []int{6, 7, 8, 9, 10},
			wantShowFirst:   true,
			wantLeadingDots: true,
			wantHasPrevious: true,
		},
		{
			name:        "centered in the middle",
			currentPage: 5, totalItems: 100, itemsPerPage: 10,
			wantPages:        []int{3, 4, 5, 6, 7},
			wantShowFirst:    true,
			wantLeadingDots:  false,
			wantShowLast:     true,
			wantTrailingDots: true,
			wantHasPrevious:  true,
			wantHasNext:      true,
		},
		{
			name:        "second page near the head",
			currentPage: 2, totalItems: 100, itemsPerPage: 10,
			wantPages:        []int{1, 2, 3, 4, 5},
			wantShowLast:     true,
			wantTrailingDots: true,
			wantHasPrevious:  true,
			wantHasNext:      true,
		},
		{
			name:        "fewer pages than the window",
			currentPage: 2, totalItems: 25, itemsPerPage: 10,
			wantPages:       []int{1, 2, 3},
			wantHasPrevious: true,
			wantHasNext:     true,
		},
		{
			name:        "out of range page clamps to tail",
			currentPage: 99, totalItems: 100, itemsPerPage: 10,
			wantPages:       []int{6, 7, 8, 9, 10},
			wantShowFirst:   true,
			wantLeadingDots: true,
			wantHasPrevious: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, ok := Calculate(tt.currentPage, tt.totalItems, tt.itemsPerPage)
			if !ok {
				t.Fatal("expected a window")
			}
			if len(w.Pages) != len(tt.wantPages) {
				t.Fatalf("pages = %v, want %v", w.Pages, tt.wantPages)
			}
			for i := range w.Pages {
				if w.Pages[i] != tt.wantPages[i] {
					t.Fatalf("pages = %v, want %v", w.Pages, tt.wantPages)
				}
			}
			if w.ShowFirst != tt.wantShowFirst || w.LeadingEllipsis != tt.wantLeadingDots {
				t.Fatalf("head controls = (%v, %v), want (%v, %v)", w.ShowFirst, w.LeadingEllipsis, tt.wantShowFirst, tt.wantLeadingDots)
			}
			if w.ShowLast != tt.wantShowLast || w.TrailingEllipsis != tt.wantTrailingDots {
				t.Fatalf("tail controls = (%v, %v), want (%v, %v)", w.ShowLast, w.TrailingEllipsis, tt.wantShowLast, tt.wantTrailingDots)
			}
			if w.HasPrevious != tt.wantHasPrevious || w.HasNext != tt.wantHasNext {
				t.Fatalf("prev/next = (%v, %v), want (%v, %v)", w.HasPrevious, w.HasNext, tt.wantHasPrevious, tt.wantHasNext)
			}
		})
	}
}

// The visible window always has length min(5, totalPages) and contains
// the current page.
func TestCalculateWindowInvariants(t *testing.T) {
	const itemsPerPage = 10
	for totalItems := 11; totalItems <= 200; totalItems += 13 {
		totalPages := TotalPages(totalItems, itemsPerPage)
		for page := 1; page <= totalPages; page++ {
			w, ok := Calculate(page, totalItems, itemsPerPage)
			if !ok {
				t.Fatalf("expected window for totalItems=%d page=%d", totalItems, page)
			}
			wantLen := MaxVisiblePages
			if totalPages < wantLen {
				wantLen = totalPages
			}
			if len(w.Pages) != wantLen {
				t.Fatalf("totalItems=%d page=%d: window length %d, want %d", totalItems, page, len(w.Pages), wantLen)
			}
			found := false
			for _, p := range w.Pages {
				if p == page {
					found = true
				}
			}
			if !found {
				t.Fatalf("totalItems=%d page=%d: window %v misses current page", totalItems, page, w.Pages)
			}
		}
	}
}

func TestClampPage(t *testing.T) {
	tests := []struct {
		name         string
		page         int
		totalItems   int
		itemsPerPage int
		want         int
	}{
		{name: "in range", page: 3, totalItems: 100, itemsPerPage: 10, want: 3},
		{name: "below range", page: 0, totalItems: 100, itemsPerPage: 10, want: 1},
		{name: "above range", page: 12, totalItems: 100, itemsPerPage: 10, want: 10},
		{name: "page size change shrinks range", page: 5, totalItems: 47, itemsPerPage: 25, want: 2},
		{name: "empty list pins to one", page: 4, totalItems: 0, itemsPerPage: 10, want: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClampPage(tt.page, tt.totalItems, tt.itemsPerPage); got != tt.want {
				t.Fatalf("ClampPage(%d, %d, %d) = %d, want %d", tt.page, tt.totalItems, tt.itemsPerPage, got, tt.want)
			}
		})
	}
}

func TestOffset(t *testing.T) {
	if got := Offset(1, 10); got != 0 {
		t.Fatalf("Offset(1, 10) = %d, want 0", got)
	}
	if got := Offset(3, 25); got != 50 {
		t.Fatalf("Offset(3, 25) = %d, want 50", got)
	}
	if got := Offset(0, 10); got != 0 {
		t.Fatalf("Offset(0, 10) = %d, want 0", got)
	}
}
