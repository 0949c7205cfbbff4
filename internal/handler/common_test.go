package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func testContext(t *testing.T, target string) echo.Context {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	return e.NewContext(req, httptest.NewRecorder())
}

func TestPageParams(t *testing.T) {
	cases := []struct {
		name        string
		target      string
		wantPage    int
		wantPerPage int
	}{
		{"defaults", "/", 1, 10},
		{"explicit", "/?page=3&per_page=25", 3, 25},
		{"zero page falls back", "/?page=0", 1, 10},
		{"negative per_page falls back", "/?per_page=-5", 1, 10},
		{"per_page capped", "/?per_page=5000", 1, maxPerPage},
		{"garbage ignored", "/?page=abc&per_page=xyz", 1, 10},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			page, perPage := pageParams(testContext(t, tc.target))
			if page != tc.wantPage || perPage != tc.wantPerPage {
				t.Fatalf("pageParams = (%d, %d), want (%d, %d)", page, perPage, tc.wantPage, tc.wantPerPage)
			}
		})
	}
}

func TestListResponseWindow(t *testing.T) {
	// A single page of results must not render pagination controls.
	env := listResponse([]int{1, 2, 3}, 3, 1, 10)
	if env.PageWindow != nil {
		t.Fatalf("PageWindow = %+v, want nil for a single page", env.PageWindow)
	}
	if env.Total != 3 {
		t.Fatalf("Total = %d, want 3", env.Total)
	}

	env = listResponse([]int{1}, 42, 2, 10)
	if env.PageWindow == nil {
		t.Fatal("PageWindow = nil, want a window for 5 pages")
	}
	if env.PageWindow.CurrentPage != 2 || env.PageWindow.TotalPages != 5 {
		t.Fatalf("window = %+v, want current 2 of 5", env.PageWindow)
	}
}

func TestGetUserID(t *testing.T) {
	c := testContext(t, "/")
	if _, err := getUserID(c); err == nil {
		t.Fatal("expected error with no user_id in context")
	}

	c.Set("user_id", "17")
	id, err := getUserID(c)
	if err != nil || id != 17 {
		t.Fatalf("getUserID = (%d, %v), want (17, nil)", id, err)
	}

	c.Set("user_id", float64(9))
	id, err = getUserID(c)
	if err != nil || id != 9 {
		t.Fatalf("getUserID = (%d, %v), want (9, nil)", id, err)
	}
}
