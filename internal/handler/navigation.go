package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/eztransport/logistics-api/internal/policy"
)

// Navigation returns the sidebar entries visible to the caller's role,
// in catalogue order. The client renders these verbatim; an unknown
// role receives an empty list rather than an error.
func Navigation(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"items": policy.ItemsFor(getRole(c)),
	})
}
