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

type warehouseResp struct {
	ID               uint64  `json:"id"`
	LocationID       uint64  `json:"location_id"`
	WarehouseName    string  `json:"warehouse_name"`
	Capacity         float64 `json:"capacity"`
	CurrentOccupancy float64 `json:"current_occupancy"`
	ManagerID        *uint64 `json:"manager_id"`
	ManagerName      *string `json:"manager_name"`
	OperatingHours   *string `json:"operating_hours"`
	Label            string  `json:"location_label"`
}

func toWarehouseResp(w *repository.WarehouseRow) warehouseResp {
	return warehouseResp{
		ID:               w.ID,
		LocationID:       w.LocationID,
		WarehouseName:    w.WarehouseName,
		Capacity:         w.Capacity,
		CurrentOccupancy: w.CurrentOccupancy,
		ManagerID:        w.ManagerID,
		ManagerName:      w.ManagerName,
		OperatingHours:   w.OperatingHours,
		Label:            (model.Location{City: w.City, State: w.State}).Label(),
	}
}

type warehouseReq struct {
	LocationID       *uint64  `json:"location_id"`
	WarehouseName    *string  `json:"warehouse_name"`
	Capacity         *float64 `json:"capacity"`
	CurrentOccupancy *float64 `json:"current_occupancy"`
	ManagerID        *uint64  `json:"manager_id"`
	OperatingHours   *string  `json:"operating_hours"`
}

// CreateWarehouse adds a warehouse and promotes its location's type to
// "warehouse".
func (h *AdminHandler) CreateWarehouse(c echo.Context) error {
	var req warehouseReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.LocationID == nil || req.WarehouseName == nil || strings.TrimSpace(*req.WarehouseName) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "location_id and warehouse_name are required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if _, err := h.Locations.GetByID(ctx, *req.LocationID); err != nil {
		if errors.Is(err, repository.ErrLocationNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "location not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}

	w := &model.Warehouse{
		LocationID:     *req.LocationID,
		WarehouseName:  strings.TrimSpace(*req.WarehouseName),
		ManagerID:      req.ManagerID,
		OperatingHours: req.OperatingHours,
	}
	if req.Capacity != nil {
		w.Capacity = *req.Capacity
	}
	if req.CurrentOccupancy != nil {
		w.CurrentOccupancy = *req.CurrentOccupancy
	}
	if err := h.Warehouses.Create(ctx, w); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create warehouse failed"})
	}
	if err := h.Locations.SetType(ctx, w.LocationID, "warehouse"); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update location failed"})
	}

	row, err := h.Warehouses.GetByID(ctx, w.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load warehouse failed"})
	}
	return c.JSON(http.StatusCreated, toWarehouseResp(row))
}

// ListWarehouses returns one page of warehouses.
func (h *AdminHandler) ListWarehouses(c echo.Context) error {
	page, perPage := pageParams(c)
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	rows, total, err := h.Warehouses.List(ctx, page, perPage)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	items := make([]warehouseResp, 0, len(rows))
	for _, w := range rows {
		items = append(items, toWarehouseResp(w))
	}
	return c.JSON(http.StatusOK, listResponse(items, total, page, perPage))
}

// GetWarehouse returns one warehouse.
func (h *AdminHandler) GetWarehouse(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	row, err := h.Warehouses.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrWarehouseNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "warehouse not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, toWarehouseResp(row))
}

// UpdateWarehouse applies a partial update to a warehouse. Moving it
// to a new location promotes that location's type as well.
func (h *AdminHandler) UpdateWarehouse(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req warehouseReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	cur, err := h.Warehouses.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrWarehouseNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "warehouse not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}

	upd := cur.Warehouse
	movedTo := uint64(0)
	if req.LocationID != nil && *req.LocationID != upd.LocationID {
		if _, err := h.Locations.GetByID(ctx, *req.LocationID); err != nil {
			if errors.Is(err, repository.ErrLocationNotFound) {
				return c.JSON(http.StatusNotFound, echo.Map{"error": "location not found"})
			}
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
		}
		upd.LocationID = *req.LocationID
		movedTo = *req.LocationID
	}
	if req.WarehouseName != nil && strings.TrimSpace(*req.WarehouseName) != "" {
		upd.WarehouseName = strings.TrimSpace(*req.WarehouseName)
	}
	if req.Capacity != nil {
		upd.Capacity = *req.Capacity
	}
	if req.CurrentOccupancy != nil {
		upd.CurrentOccupancy = *req.CurrentOccupancy
	}
	if req.ManagerID != nil {
		upd.ManagerID = req.ManagerID
	}
	if req.OperatingHours != nil {
		upd.OperatingHours = req.OperatingHours
	}

	if err := h.Warehouses.Update(ctx, &upd); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	if movedTo != 0 {
		if err := h.Locations.SetType(ctx, movedTo, "warehouse"); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update location failed"})
		}
	}

	row, err := h.Warehouses.GetByID(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load warehouse failed"})
	}
	return c.JSON(http.StatusOK, toWarehouseResp(row))
}

// DeleteWarehouse removes a warehouse.
func (h *AdminHandler) DeleteWarehouse(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	switch err := h.Warehouses.Delete(ctx, id); {
	case err == nil:
		return c.NoContent(http.StatusNoContent)
	case errors.Is(err, repository.ErrWarehouseNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "warehouse not found"})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
}
