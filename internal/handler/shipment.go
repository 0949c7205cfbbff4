package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/eztransport/logistics-api/internal/model"
	"github.com/eztransport/logistics-api/internal/policy"
	"github.com/eztransport/logistics-api/internal/repository"
	"github.com/eztransport/logistics-api/internal/utils"
)

// ShipmentHandler serves the shipment screens. Admins see every
// shipment; drivers and customers are scoped to their own.
type ShipmentHandler struct {
	Shipments *repository.ShipmentRepo
	Customers *repository.CustomerRepo
	Drivers   *repository.DriverRepo
}

func NewShipmentHandler(shipments *repository.ShipmentRepo, customers *repository.CustomerRepo,
	drivers *repository.DriverRepo) *ShipmentHandler {
	if shipments == nil || customers == nil || drivers == nil {
		panic("nil repository passed to NewShipmentHandler")
	}
	return &ShipmentHandler{Shipments: shipments, Customers: customers, Drivers: drivers}
}

type shipmentResp struct {
	ID                  uint64     `json:"id"`
	TrackingNumber      string     `json:"tracking_number"`
	CustomerID          uint64     `json:"customer_id"`
	CompanyName         string     `json:"company_name"`
	OriginID            uint64     `json:"origin_id"`
	OriginLabel         string     `json:"origin_label"`
	DestinationID       uint64     `json:"destination_id"`
	DestinationLabel    string     `json:"destination_label"`
	RouteID             *uint64    `json:"route_id"`
	VehicleID           *uint64    `json:"vehicle_id"`
	VehiclePlate        *string    `json:"vehicle_plate"`
	DriverID            *uint64    `json:"driver_id"`
	DriverName          *string    `json:"driver_name"`
	Status              string     `json:"status"`
	TotalWeight         float64    `json:"total_weight"`
	TotalVolume         float64    `json:"total_volume"`
	ShipmentValue       float64    `json:"shipment_value"`
	InsuranceRequired   bool       `json:"insurance_required"`
	SpecialInstructions *string    `json:"special_instructions"`
	PickupDate          *time.Time `json:"pickup_date"`
	EstimatedDelivery   *time.Time `json:"estimated_delivery"`
	ActualDelivery      *time.Time `json:"actual_delivery"`
	CreatedAt           time.Time  `json:"created_at"`
}

func toShipmentResp(s *repository.ShipmentRow) shipmentResp {
	return shipmentResp{
		ID:                  s.ID,
		TrackingNumber:      s.TrackingNumber,
		CustomerID:          s.CustomerID,
		CompanyName:         s.CompanyName,
		OriginID:            s.OriginID,
		OriginLabel:         (model.Location{City: s.OriginCity, State: s.OriginState}).Label(),
		DestinationID:       s.DestinationID,
		DestinationLabel:    (model.Location{City: s.DestinationCity, State: s.DestinationState}).Label(),
		RouteID:             s.RouteID,
		VehicleID:           s.VehicleID,
		VehiclePlate:        s.VehiclePlate,
		DriverID:            s.DriverID,
		DriverName:          s.DriverName,
		Status:              s.Status,
		TotalWeight:         s.TotalWeight,
		TotalVolume:         s.TotalVolume,
		ShipmentValue:       s.ShipmentValue,
		InsuranceRequired:   s.InsuranceRequired,
		SpecialInstructions: s.SpecialInstructions,
		PickupDate:          s.PickupDate,
		EstimatedDelivery:   s.EstimatedDelivery,
		ActualDelivery:      s.ActualDelivery,
		CreatedAt:           s.CreatedAt,
	}
}

func validShipmentStatus(s string) bool {
	switch s {
	case model.ShipmentPending, model.ShipmentPickedUp, model.ShipmentInTransit,
		model.ShipmentDelivered, model.ShipmentReturned:
		return true
	}
	return false
}

// scopeFilter narrows a shipment filter to the caller's own shipments.
// Admins pass through unscoped; drivers and customers are pinned to
// their profile ids regardless of any query parameters.
func (h *ShipmentHandler) scopeFilter(c echo.Context, ctx context.Context, f *repository.ShipmentFilter) error {
	switch getRole(c) {
	case policy.RoleAdmin:
		return nil
	case policy.RoleDriver:
		uid, err := getUserID(c)
		if err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
		}
		d, err := h.Drivers.GetByUserID(ctx, uid)
		if err != nil {
			return echo.NewHTTPError(http.StatusForbidden, "no driver profile")
		}
		f.DriverID = &d.ID
		f.CustomerID = nil
		return nil
	case policy.RoleCustomer:
		uid, err := getUserID(c)
		if err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
		}
		cu, err := h.Customers.GetByUserID(ctx, uid)
		if err != nil {
			return echo.NewHTTPError(http.StatusForbidden, "no customer profile")
		}
		f.CustomerID = &cu.ID
		f.DriverID = nil
		return nil
	}
	return echo.NewHTTPError(http.StatusForbidden, "forbidden")
}

// canSee reports whether the caller may read the given shipment.
func (h *ShipmentHandler) canSee(c echo.Context, ctx context.Context, s *model.Shipment) bool {
	switch getRole(c) {
	case policy.RoleAdmin:
		return true
	case policy.RoleDriver:
		uid, err := getUserID(c)
		if err != nil {
			return false
		}
		d, err := h.Drivers.GetByUserID(ctx, uid)
		if err != nil {
			return false
		}
		return s.DriverID != nil && *s.DriverID == d.ID
	case policy.RoleCustomer:
		uid, err := getUserID(c)
		if err != nil {
			return false
		}
		cu, err := h.Customers.GetByUserID(ctx, uid)
		if err != nil {
			return false
		}
		return s.CustomerID == cu.ID
	}
	return false
}

// List returns one page of shipments. Admins may filter by status,
// customer_id and driver_id; drivers and customers only ever see their
// own shipments.
func (h *ShipmentHandler) List(c echo.Context) error {
	var f repository.ShipmentFilter
	if s := c.QueryParam("status"); s != "" {
		if !validShipmentStatus(s) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid status"})
		}
		f.Status = s
	}
	if v := c.QueryParam("customer_id"); v != "" {
		n, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid customer_id"})
		}
		f.CustomerID = &n
	}
	if v := c.QueryParam("driver_id"); v != "" {
		n, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid driver_id"})
		}
		f.DriverID = &n
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.scopeFilter(c, ctx, &f); err != nil {
		return err
	}

	page, perPage := pageParams(c)
	rows, total, err := h.Shipments.List(ctx, page, perPage, f)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	items := make([]shipmentResp, 0, len(rows))
	for _, s := range rows {
		items = append(items, toShipmentResp(s))
	}
	return c.JSON(http.StatusOK, listResponse(items, total, page, perPage))
}

// ListForDriver returns one page of the shipments assigned to one
// driver. Admins may read any driver's list; a driver only their own.
func (h *ShipmentHandler) ListForDriver(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if getRole(c) == policy.RoleDriver {
		uid, err := getUserID(c)
		if err != nil {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
		}
		d, err := h.Drivers.GetByUserID(ctx, uid)
		if err != nil || d.ID != id {
			return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
		}
	}
	return h.listScoped(c, ctx, repository.ShipmentFilter{DriverID: &id})
}

// ListForCustomer returns one page of one customer's shipments. Admins
// may read any customer's list; a customer only their own.
func (h *ShipmentHandler) ListForCustomer(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if getRole(c) == policy.RoleCustomer {
		uid, err := getUserID(c)
		if err != nil {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
		}
		cu, err := h.Customers.GetByUserID(ctx, uid)
		if err != nil || cu.ID != id {
			return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
		}
	}
	return h.listScoped(c, ctx, repository.ShipmentFilter{CustomerID: &id})
}

func (h *ShipmentHandler) listScoped(c echo.Context, ctx context.Context, f repository.ShipmentFilter) error {
	if s := c.QueryParam("status"); s != "" {
		if !validShipmentStatus(s) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid status"})
		}
		f.Status = s
	}
	page, perPage := pageParams(c)
	rows, total, err := h.Shipments.List(ctx, page, perPage, f)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	items := make([]shipmentResp, 0, len(rows))
	for _, s := range rows {
		items = append(items, toShipmentResp(s))
	}
	return c.JSON(http.StatusOK, listResponse(items, total, page, perPage))
}

type shipmentReq struct {
	CustomerID          *uint64    `json:"customer_id"`
	OriginID            *uint64    `json:"origin_id"`
	DestinationID       *uint64    `json:"destination_id"`
	RouteID             *uint64    `json:"route_id"`
	VehicleID           *uint64    `json:"vehicle_id"`
	DriverID            *uint64    `json:"driver_id"`
	Status              *string    `json:"status"`
	InsuranceRequired   *bool      `json:"insurance_required"`
	SpecialInstructions *string    `json:"special_instructions"`
	PickupDate          *time.Time `json:"pickup_date"`
	EstimatedDelivery   *time.Time `json:"estimated_delivery"`
	ActualDelivery      *time.Time `json:"actual_delivery"`
}

// Create registers a shipment. The tracking number is generated server
// side; assigning a driver or vehicle at creation flips their statuses.
func (h *ShipmentHandler) Create(c echo.Context) error {
	var req shipmentReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.CustomerID == nil || req.OriginID == nil || req.DestinationID == nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "customer_id, origin_id and destination_id are required"})
	}
	if *req.OriginID == *req.DestinationID {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "origin and destination must differ"})
	}
	if req.Status != nil && !validShipmentStatus(*req.Status) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid status"})
	}

	s := &model.Shipment{
		TrackingNumber:      utils.NewTrackingNumber(),
		CustomerID:          *req.CustomerID,
		OriginID:            *req.OriginID,
		DestinationID:       *req.DestinationID,
		RouteID:             req.RouteID,
		VehicleID:           req.VehicleID,
		DriverID:            req.DriverID,
		SpecialInstructions: req.SpecialInstructions,
		PickupDate:          req.PickupDate,
		EstimatedDelivery:   req.EstimatedDelivery,
	}
	if req.Status != nil {
		s.Status = *req.Status
	}
	if req.InsuranceRequired != nil {
		s.InsuranceRequired = *req.InsuranceRequired
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Shipments.Create(ctx, s); err != nil {
		if errors.Is(err, repository.ErrTrackingNumberExists) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "tracking number collision, retry"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create shipment failed"})
	}
	row, err := h.Shipments.GetRow(ctx, s.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load shipment failed"})
	}
	return c.JSON(http.StatusCreated, toShipmentResp(row))
}

// Get returns one shipment. Drivers and customers may only read their
// own; the miss is reported as not found to avoid leaking existence.
func (h *ShipmentHandler) Get(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	row, err := h.Shipments.GetRow(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrShipmentNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "shipment not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	if !h.canSee(c, ctx, &row.Shipment) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "shipment not found"})
	}
	return c.JSON(http.StatusOK, toShipmentResp(row))
}

// Update applies a partial update; changing the assigned driver or
// vehicle reconciles both statuses in the repository's transaction.
func (h *ShipmentHandler) Update(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req shipmentReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Status != nil && !validShipmentStatus(*req.Status) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid status"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	prev, err := h.Shipments.ByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrShipmentNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "shipment not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}

	next := *prev
	if req.CustomerID != nil {
		next.CustomerID = *req.CustomerID
	}
	if req.OriginID != nil {
		next.OriginID = *req.OriginID
	}
	if req.DestinationID != nil {
		next.DestinationID = *req.DestinationID
	}
	if next.OriginID == next.DestinationID {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "origin and destination must differ"})
	}
	if req.RouteID != nil {
		next.RouteID = req.RouteID
	}
	if req.VehicleID != nil {
		next.VehicleID = req.VehicleID
	}
	if req.DriverID != nil {
		next.DriverID = req.DriverID
	}
	if req.Status != nil {
		next.Status = *req.Status
	}
	if req.InsuranceRequired != nil {
		next.InsuranceRequired = *req.InsuranceRequired
	}
	if req.SpecialInstructions != nil {
		next.SpecialInstructions = req.SpecialInstructions
	}
	if req.PickupDate != nil {
		next.PickupDate = req.PickupDate
	}
	if req.EstimatedDelivery != nil {
		next.EstimatedDelivery = req.EstimatedDelivery
	}
	if req.ActualDelivery != nil {
		next.ActualDelivery = req.ActualDelivery
	}

	if err := h.Shipments.Update(ctx, prev, &next); err != nil {
		if errors.Is(err, repository.ErrShipmentNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "shipment not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	row, err := h.Shipments.GetRow(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load shipment failed"})
	}
	return c.JSON(http.StatusOK, toShipmentResp(row))
}

// Delete removes a shipment with its items and events and releases the
// assigned driver and vehicle.
func (h *ShipmentHandler) Delete(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	switch err := h.Shipments.Delete(ctx, id); {
	case err == nil:
		return c.NoContent(http.StatusNoContent)
	case errors.Is(err, repository.ErrShipmentNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "shipment not found"})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
}
