package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/eztransport/logistics-api/internal/model"
	"github.com/eztransport/logistics-api/internal/repository"
)

type locationResp struct {
	ID           uint64   `json:"id"`
	Address      string   `json:"address"`
	City         string   `json:"city"`
	State        string   `json:"state"`
	Country      string   `json:"country"`
	PostalCode   string   `json:"postal_code"`
	Latitude     *float64 `json:"latitude"`
	Longitude    *float64 `json:"longitude"`
	LocationType string   `json:"location_type"`
	Label        string   `json:"label"`
}

func toLocationResp(l *model.Location) locationResp {
	return locationResp{
		ID:           l.ID,
		Address:      l.Address,
		City:         l.City,
		State:        l.State,
		Country:      l.Country,
		PostalCode:   l.PostalCode,
		Latitude:     l.Latitude,
		Longitude:    l.Longitude,
		LocationType: l.LocationType,
		Label:        l.Label(),
	}
}

type locationReq struct {
	Address      *string  `json:"address"`
	City         *string  `json:"city"`
	State        *string  `json:"state"`
	Country      *string  `json:"country"`
	PostalCode   *string  `json:"postal_code"`
	Latitude     *float64 `json:"latitude"`
	Longitude    *float64 `json:"longitude"`
	LocationType *string  `json:"location_type"`
}

// CreateLocation adds a location.
func (h *AdminHandler) CreateLocation(c echo.Context) error {
	var req locationReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.City == nil || strings.TrimSpace(*req.City) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "city is required"})
	}

	l := &model.Location{City: strings.TrimSpace(*req.City)}
	if req.Address != nil {
		l.Address = strings.TrimSpace(*req.Address)
	}
	if req.State != nil {
		l.State = strings.TrimSpace(*req.State)
	}
	if req.Country != nil {
		l.Country = strings.TrimSpace(*req.Country)
	}
	if req.PostalCode != nil {
		l.PostalCode = strings.TrimSpace(*req.PostalCode)
	}
	l.Latitude = req.Latitude
	l.Longitude = req.Longitude
	if req.LocationType != nil {
		l.LocationType = strings.TrimSpace(*req.LocationType)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Locations.Create(ctx, l); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create location failed"})
	}
	return c.JSON(http.StatusCreated, toLocationResp(l))
}

// ListLocations returns one page of locations, or the full catalogue
// with ?all=true for origin and destination pickers.
func (h *AdminHandler) ListLocations(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if c.QueryParam("all") == "true" {
		rows, err := h.Locations.ListAll(ctx)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
		}
		items := make([]locationResp, 0, len(rows))
		for _, l := range rows {
			items = append(items, toLocationResp(l))
		}
		return c.JSON(http.StatusOK, listResponse(items, len(items), 1, len(items)))
	}

	page, perPage := pageParams(c)
	rows, total, err := h.Locations.List(ctx, page, perPage)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	items := make([]locationResp, 0, len(rows))
	for _, l := range rows {
		items = append(items, toLocationResp(l))
	}
	return c.JSON(http.StatusOK, listResponse(items, total, page, perPage))
}

// GetLocation returns one location.
func (h *AdminHandler) GetLocation(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	l, err := h.Locations.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrLocationNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "location not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, toLocationResp(l))
}

// UpdateLocation applies a partial update to a location.
func (h *AdminHandler) UpdateLocation(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req locationReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	l, err := h.Locations.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrLocationNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "location not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}

	if req.Address != nil {
		l.Address = strings.TrimSpace(*req.Address)
	}
	if req.City != nil && strings.TrimSpace(*req.City) != "" {
		l.City = strings.TrimSpace(*req.City)
	}
	if req.State != nil {
		l.State = strings.TrimSpace(*req.State)
	}
	if req.Country != nil {
		l.Country = strings.TrimSpace(*req.Country)
	}
	if req.PostalCode != nil {
		l.PostalCode = strings.TrimSpace(*req.PostalCode)
	}
	if req.Latitude != nil {
		l.Latitude = req.Latitude
	}
	if req.Longitude != nil {
		l.Longitude = req.Longitude
	}
	if req.LocationType != nil {
		l.LocationType = strings.TrimSpace(*req.LocationType)
	}

	if err := h.Locations.Update(ctx, l); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.JSON(http.StatusOK, toLocationResp(l))
}

// DeleteLocation removes a location. Locations referenced by
// shipments, routes, warehouses or tracking events cannot be deleted.
func (h *AdminHandler) DeleteLocation(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	switch err := h.Locations.Delete(ctx, id); {
	case err == nil:
		return c.NoContent(http.StatusNoContent)
	case errors.Is(err, repository.ErrConflict):
		return c.JSON(http.StatusConflict, echo.Map{"error": "location is still referenced"})
	case errors.Is(err, repository.ErrLocationNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "location not found"})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
}
