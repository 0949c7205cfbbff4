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

type routeResp struct {
	ID                   uint64  `json:"id"`
	RouteName            string  `json:"route_name"`
	OriginID             uint64  `json:"origin_id"`
	DestinationID        uint64  `json:"destination_id"`
	OriginLabel          string  `json:"origin_label"`
	DestinationLabel     string  `json:"destination_label"`
	DistanceKm           float64 `json:"distance_km"`
	EstimatedDurationMin uint32  `json:"estimated_duration_min"`
	Status               string  `json:"status"`
	HazardLevel          string  `json:"hazard_level"`
}

func toRouteResp(r *repository.RouteRow) routeResp {
	return routeResp{
		ID:                   r.ID,
		RouteName:            r.RouteName,
		OriginID:             r.OriginID,
		DestinationID:        r.DestinationID,
		OriginLabel:          (model.Location{City: r.OriginCity, State: r.OriginState}).Label(),
		DestinationLabel:     (model.Location{City: r.DestinationCity, State: r.DestinationState}).Label(),
		DistanceKm:           r.DistanceKm,
		EstimatedDurationMin: r.EstimatedDurationMin,
		Status:               r.Status,
		HazardLevel:          r.HazardLevel,
	}
}

type routeReq struct {
	RouteName            *string  `json:"route_name"`
	OriginID             *uint64  `json:"origin_id"`
	DestinationID        *uint64  `json:"destination_id"`
	DistanceKm           *float64 `json:"distance_km"`
	EstimatedDurationMin *uint32  `json:"estimated_duration_min"`
	Status               *string  `json:"status"`
	HazardLevel          *string  `json:"hazard_level"`
}

// CreateRoute adds a route between two existing locations.
func (h *AdminHandler) CreateRoute(c echo.Context) error {
	var req routeReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.RouteName == nil || strings.TrimSpace(*req.RouteName) == "" ||
		req.OriginID == nil || req.DestinationID == nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "route_name, origin_id and destination_id are required"})
	}
	if *req.OriginID == *req.DestinationID {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "origin and destination must differ"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	for _, locID := range []uint64{*req.OriginID, *req.DestinationID} {
		if _, err := h.Locations.GetByID(ctx, locID); err != nil {
			if errors.Is(err, repository.ErrLocationNotFound) {
				return c.JSON(http.StatusNotFound, echo.Map{"error": "location not found"})
			}
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
		}
	}

	rt := &model.Route{
		RouteName:     strings.TrimSpace(*req.RouteName),
		OriginID:      *req.OriginID,
		DestinationID: *req.DestinationID,
		Status:        "active",
		HazardLevel:   "low",
	}
	if req.DistanceKm != nil {
		rt.DistanceKm = *req.DistanceKm
	}
	if req.EstimatedDurationMin != nil {
		rt.EstimatedDurationMin = *req.EstimatedDurationMin
	}
	if req.Status != nil {
		rt.Status = *req.Status
	}
	if req.HazardLevel != nil {
		rt.HazardLevel = *req.HazardLevel
	}

	if err := h.Routes.Create(ctx, rt); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create route failed"})
	}
	row, err := h.Routes.GetByID(ctx, rt.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load route failed"})
	}
	return c.JSON(http.StatusCreated, toRouteResp(row))
}

// ListRoutes returns one page of routes.
func (h *AdminHandler) ListRoutes(c echo.Context) error {
	page, perPage := pageParams(c)
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	rows, total, err := h.Routes.List(ctx, page, perPage)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	items := make([]routeResp, 0, len(rows))
	for _, r := range rows {
		items = append(items, toRouteResp(r))
	}
	return c.JSON(http.StatusOK, listResponse(items, total, page, perPage))
}

// GetRoute returns one route.
func (h *AdminHandler) GetRoute(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	row, err := h.Routes.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrRouteNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "route not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, toRouteResp(row))
}

// UpdateRoute applies a partial update to a route.
func (h *AdminHandler) UpdateRoute(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req routeReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	cur, err := h.Routes.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrRouteNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "route not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}

	upd := cur.Route
	if req.RouteName != nil && strings.TrimSpace(*req.RouteName) != "" {
		upd.RouteName = strings.TrimSpace(*req.RouteName)
	}
	if req.OriginID != nil {
		upd.OriginID = *req.OriginID
	}
	if req.DestinationID != nil {
		upd.DestinationID = *req.DestinationID
	}
	if upd.OriginID == upd.DestinationID {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "origin and destination must differ"})
	}
	if req.DistanceKm != nil {
		upd.DistanceKm = *req.DistanceKm
	}
	if req.EstimatedDurationMin != nil {
		upd.EstimatedDurationMin = *req.EstimatedDurationMin
	}
	if req.Status != nil {
		upd.Status = *req.Status
	}
	if req.HazardLevel != nil {
		upd.HazardLevel = *req.HazardLevel
	}

	if err := h.Routes.Update(ctx, &upd); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	row, err := h.Routes.GetByID(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load route failed"})
	}
	return c.JSON(http.StatusOK, toRouteResp(row))
}

// DeleteRoute removes a route. Routes referenced by shipments cannot
// be deleted.
func (h *AdminHandler) DeleteRoute(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	switch err := h.Routes.Delete(ctx, id); {
	case err == nil:
		return c.NoContent(http.StatusNoContent)
	case errors.Is(err, repository.ErrConflict):
		return c.JSON(http.StatusConflict, echo.Map{"error": "route has shipments"})
	case errors.Is(err, repository.ErrRouteNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "route not found"})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
}
