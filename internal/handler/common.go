package handler // handler defines the HTTP handlers of the API

import (
	"errors"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/eztransport/logistics-api/internal/pagination"
	"github.com/eztransport/logistics-api/internal/policy"
)

// maxPerPage caps the per_page query parameter so a single request
// cannot drag an entire table through one page.
const maxPerPage = 100

// getUserID extracts the user_id placed in context by the JWT
// middleware and converts it to uint64.
func getUserID(c echo.Context) (uint64, error) {
	switch t := c.Get("user_id").(type) {
	case uint64:
		return t, nil
	case int:
		return uint64(t), nil
	case int64:
		return uint64(t), nil
	case float64:
		return uint64(t), nil
	case string:
		if n, err := strconv.ParseUint(t, 10, 64); err == nil {
			return n, nil
		}
	}
	return 0, errors.New("invalid user_id in context")
}

// getRole parses the role claim from context into the closed role set.
func getRole(c echo.Context) policy.Role {
	claim, _ := c.Get("role").(string)
	return policy.ParseRole(claim)
}

// pageParams reads the page and per_page query parameters, applying
// the defaults and the upper cap.
func pageParams(c echo.Context) (page, perPage int) {
	page = 1
	if n, err := strconv.Atoi(c.QueryParam("page")); err == nil && n > 0 {
		page = n
	}
	perPage = pagination.DefaultPerPage
	if n, err := strconv.Atoi(c.QueryParam("per_page")); err == nil && n > 0 {
		perPage = n
	}
	if perPage > maxPerPage {
		perPage = maxPerPage
	}
	return page, perPage
}

// listEnvelope is the uniform list response shape. PageWindow is null
// when everything fits on a single page.
type listEnvelope struct {
	Items      interface{}        `json:"items"`
	Total      int                `json:"total"`
	PageWindow *pagination.Window `json:"page_window"`
}

// listResponse wraps one page of items in the uniform envelope.
func listResponse(items interface{}, total, page, perPage int) listEnvelope {
	env := listEnvelope{Items: items, Total: total}
	if w, ok := pagination.Calculate(page, total, perPage); ok {
		env.PageWindow = &w
	}
	return env
}

// pathID parses the :id route parameter.
func pathID(c echo.Context) (uint64, error) {
	return strconv.ParseUint(c.Param("id"), 10, 64)
}
