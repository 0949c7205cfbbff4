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

type vehicleResp struct {
	ID                 uint64  `json:"id"`
	LicensePlate       string  `json:"license_plate"`
	Make               string  `json:"make"`
	Model              string  `json:"model"`
	Year               uint16  `json:"year"`
	VehicleType        string  `json:"vehicle_type"`
	Status             string  `json:"status"`
	CapacityKg         float64 `json:"capacity_kg"`
	CurrentLocationID  *uint64 `json:"current_location_id"`
	LastInspectionDate *string `json:"last_inspection_date"`
}

func toVehicleResp(v *model.Vehicle) vehicleResp {
	return vehicleResp{
		ID:                 v.ID,
		LicensePlate:       v.LicensePlate,
		Make:               v.Make,
		Model:              v.Model,
		Year:               v.Year,
		VehicleType:        v.VehicleType,
		Status:             v.Status,
		CapacityKg:         v.CapacityKg,
		CurrentLocationID:  v.CurrentLocationID,
		LastInspectionDate: v.LastInspectionDate,
	}
}

type vehicleReq struct {
	LicensePlate       *string  `json:"license_plate"`
	Make               *string  `json:"make"`
	Model              *string  `json:"model"`
	Year               *uint16  `json:"year"`
	VehicleType        *string  `json:"vehicle_type"`
	Status             *string  `json:"status"`
	CapacityKg         *float64 `json:"capacity_kg"`
	CurrentLocationID  *uint64  `json:"current_location_id"`
	LastInspectionDate *string  `json:"last_inspection_date"`
}

func validVehicleStatus(s string) bool {
	switch s {
	case model.VehicleAvailable, model.VehicleInUse, model.VehicleMaintenance:
		return true
	}
	return false
}

// CreateVehicle adds a vehicle to the fleet.
func (h *AdminHandler) CreateVehicle(c echo.Context) error {
	var req vehicleReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.LicensePlate == nil || strings.TrimSpace(*req.LicensePlate) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "license_plate is required"})
	}
	if req.Status != nil && !validVehicleStatus(*req.Status) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid status"})
	}

	v := &model.Vehicle{LicensePlate: strings.TrimSpace(*req.LicensePlate)}
	if req.Make != nil {
		v.Make = strings.TrimSpace(*req.Make)
	}
	if req.Model != nil {
		v.Model = strings.TrimSpace(*req.Model)
	}
	if req.Year != nil {
		v.Year = *req.Year
	}
	if req.VehicleType != nil {
		v.VehicleType = strings.TrimSpace(*req.VehicleType)
	}
	if req.Status != nil {
		v.Status = *req.Status
	}
	if req.CapacityKg != nil {
		v.CapacityKg = *req.CapacityKg
	}
	v.CurrentLocationID = req.CurrentLocationID
	v.LastInspectionDate = req.LastInspectionDate

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Vehicles.Create(ctx, v); err != nil {
		if errors.Is(err, repository.ErrPlateExists) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "license plate already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create vehicle failed"})
	}
	return c.JSON(http.StatusCreated, toVehicleResp(v))
}

// ListVehicles returns one page of vehicles, optionally filtered by
// status (e.g. ?status=available for the assignment picker).
func (h *AdminHandler) ListVehicles(c echo.Context) error {
	status := c.QueryParam("status")
	if status != "" && !validVehicleStatus(status) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid status"})
	}
	page, perPage := pageParams(c)

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	rows, total, err := h.Vehicles.List(ctx, page, perPage, status)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	items := make([]vehicleResp, 0, len(rows))
	for _, v := range rows {
		items = append(items, toVehicleResp(v))
	}
	return c.JSON(http.StatusOK, listResponse(items, total, page, perPage))
}

// GetVehicle returns one vehicle.
func (h *AdminHandler) GetVehicle(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	v, err := h.Vehicles.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrVehicleNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "vehicle not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, toVehicleResp(v))
}

// UpdateVehicle applies a partial update to a vehicle.
func (h *AdminHandler) UpdateVehicle(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req vehicleReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Status != nil && !validVehicleStatus(*req.Status) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid status"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	v, err := h.Vehicles.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrVehicleNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "vehicle not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}

	if req.LicensePlate != nil && strings.TrimSpace(*req.LicensePlate) != "" {
		v.LicensePlate = strings.TrimSpace(*req.LicensePlate)
	}
	if req.Make != nil {
		v.Make = strings.TrimSpace(*req.Make)
	}
	if req.Model != nil {
		v.Model = strings.TrimSpace(*req.Model)
	}
	if req.Year != nil {
		v.Year = *req.Year
	}
	if req.VehicleType != nil {
		v.VehicleType = strings.TrimSpace(*req.VehicleType)
	}
	if req.Status != nil {
		v.Status = *req.Status
	}
	if req.CapacityKg != nil {
		v.CapacityKg = *req.CapacityKg
	}
	if req.CurrentLocationID != nil {
		v.CurrentLocationID = req.CurrentLocationID
	}
	if req.LastInspectionDate != nil {
		v.LastInspectionDate = req.LastInspectionDate
	}

	if err := h.Vehicles.Update(ctx, v); err != nil {
		if errors.Is(err, repository.ErrPlateExists) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "license plate already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.JSON(http.StatusOK, toVehicleResp(v))
}

// DeleteVehicle removes a vehicle. Vehicles referenced by shipments
// cannot be deleted.
func (h *AdminHandler) DeleteVehicle(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	switch err := h.Vehicles.Delete(ctx, id); {
	case err == nil:
		return c.NoContent(http.StatusNoContent)
	case errors.Is(err, repository.ErrConflict):
		return c.JSON(http.StatusConflict, echo.Map{"error": "vehicle has shipments"})
	case errors.Is(err, repository.ErrVehicleNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "vehicle not found"})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
}
