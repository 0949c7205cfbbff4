package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/eztransport/logistics-api/internal/policy"
)

func TestRequireRole(t *testing.T) {
	cases := []struct {
		name     string
		claim    string
		setClaim bool
		allowed  []policy.Role
		want     int
	}{
		{"admin on admin route", "admin", true, []policy.Role{policy.RoleAdmin}, http.StatusOK},
		{"driver on admin route", "driver", true, []policy.Role{policy.RoleAdmin}, http.StatusForbidden},
		{"customer on staff route", "customer", true, []policy.Role{policy.RoleAdmin, policy.RoleDriver}, http.StatusForbidden},
		{"missing claim", "", false, []policy.Role{policy.RoleAdmin}, http.StatusUnauthorized},
		{"empty claim", "", true, []policy.Role{policy.RoleAdmin}, http.StatusUnauthorized},
		{"unknown role string", "superuser", true, []policy.Role{policy.RoleAdmin}, http.StatusUnauthorized},
		{"no roles means any authenticated", "customer", true, nil, http.StatusOK},
	}

	e := echo.New()
	ok := func(c echo.Context) error { return c.NoContent(http.StatusOK) }

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)
			if tc.setClaim {
				c.Set("role", tc.claim)
			}

			h := RequireRole(tc.allowed...)(ok)
			if err := h(c); err != nil {
				t.Fatalf("handler returned error: %v", err)
			}
			if rec.Code != tc.want {
				t.Fatalf("status = %d, want %d", rec.Code, tc.want)
			}
		})
	}
}
