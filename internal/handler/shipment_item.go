package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/eztransport/logistics-api/internal/model"
	"github.com/eztransport/logistics-api/internal/repository"
)

// ItemHandler serves the shipment item screens. Item mutations keep
// the parent shipment's totals in sync through the repository.
type ItemHandler struct {
	Items     *repository.ItemRepo
	Shipments *repository.ShipmentRepo
}

func NewItemHandler(items *repository.ItemRepo, shipments *repository.ShipmentRepo) *ItemHandler {
	if items == nil || shipments == nil {
		panic("nil repository passed to NewItemHandler")
	}
	return &ItemHandler{Items: items, Shipments: shipments}
}

type itemResp struct {
	ID             uint64  `json:"id"`
	ShipmentID     uint64  `json:"shipment_id"`
	TrackingNumber string  `json:"tracking_number"`
	Description    string  `json:"description"`
	Quantity       uint32  `json:"quantity"`
	Weight         float64 `json:"weight"`
	Volume         float64 `json:"volume"`
	ItemValue      float64 `json:"item_value"`
	IsHazardous    bool    `json:"is_hazardous"`
	IsFragile      bool    `json:"is_fragile"`
}

func toItemResp(it *repository.ItemRow) itemResp {
	return itemResp{
		ID:             it.ID,
		ShipmentID:     it.ShipmentID,
		TrackingNumber: it.TrackingNumber,
		Description:    it.Description,
		Quantity:       it.Quantity,
		Weight:         it.Weight,
		Volume:         it.Volume,
		ItemValue:      it.ItemValue,
		IsHazardous:    it.IsHazardous,
		IsFragile:      it.IsFragile,
	}
}

type itemReq struct {
	ShipmentID  *uint64  `json:"shipment_id"`
	Description *string  `json:"description"`
	Quantity    *uint32  `json:"quantity"`
	Weight      *float64 `json:"weight"`
	Volume      *float64 `json:"volume"`
	ItemValue   *float64 `json:"item_value"`
	IsHazardous *bool    `json:"is_hazardous"`
	IsFragile   *bool    `json:"is_fragile"`
}

// Create adds an item to a shipment and refreshes the shipment totals.
func (h *ItemHandler) Create(c echo.Context) error {
	var req itemReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.ShipmentID == nil || req.Description == nil || strings.TrimSpace(*req.Description) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "shipment_id and description are required"})
	}
	if req.Quantity != nil && *req.Quantity == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "quantity must be positive"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if _, err := h.Shipments.ByID(ctx, *req.ShipmentID); err != nil {
		if errors.Is(err, repository.ErrShipmentNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "shipment not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}

	it := &model.ShipmentItem{
		ShipmentID:  *req.ShipmentID,
		Description: strings.TrimSpace(*req.Description),
		Quantity:    1,
	}
	if req.Quantity != nil {
		it.Quantity = *req.Quantity
	}
	if req.Weight != nil {
		it.Weight = *req.Weight
	}
	if req.Volume != nil {
		it.Volume = *req.Volume
	}
	if req.ItemValue != nil {
		it.ItemValue = *req.ItemValue
	}
	if req.IsHazardous != nil {
		it.IsHazardous = *req.IsHazardous
	}
	if req.IsFragile != nil {
		it.IsFragile = *req.IsFragile
	}

	if err := h.Items.Create(ctx, it); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create item failed"})
	}
	row, err := h.Items.GetByID(ctx, it.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load item failed"})
	}
	return c.JSON(http.StatusCreated, toItemResp(row))
}

// List returns one page of items, optionally narrowed to a single
// shipment with ?shipment_id=.
func (h *ItemHandler) List(c echo.Context) error {
	var shipmentID *uint64
	if v := c.QueryParam("shipment_id"); v != "" {
		n, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid shipment_id"})
		}
		shipmentID = &n
	}
	page, perPage := pageParams(c)

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	rows, total, err := h.Items.List(ctx, page, perPage, shipmentID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	items := make([]itemResp, 0, len(rows))
	for _, it := range rows {
		items = append(items, toItemResp(it))
	}
	return c.JSON(http.StatusOK, listResponse(items, total, page, perPage))
}

// Get returns one item.
func (h *ItemHandler) Get(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	row, err := h.Items.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrItemNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "item not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, toItemResp(row))
}

// Update applies a partial update and refreshes the shipment totals.
// Items cannot be moved between shipments.
func (h *ItemHandler) Update(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req itemReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Quantity != nil && *req.Quantity == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "quantity must be positive"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	cur, err := h.Items.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrItemNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "item not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	if req.ShipmentID != nil && *req.ShipmentID != cur.ShipmentID {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "item cannot change shipment"})
	}

	upd := cur.ShipmentItem
	if req.Description != nil && strings.TrimSpace(*req.Description) != "" {
		upd.Description = strings.TrimSpace(*req.Description)
	}
	if req.Quantity != nil {
		upd.Quantity = *req.Quantity
	}
	if req.Weight != nil {
		upd.Weight = *req.Weight
	}
	if req.Volume != nil {
		upd.Volume = *req.Volume
	}
	if req.ItemValue != nil {
		upd.ItemValue = *req.ItemValue
	}
	if req.IsHazardous != nil {
		upd.IsHazardous = *req.IsHazardous
	}
	if req.IsFragile != nil {
		upd.IsFragile = *req.IsFragile
	}

	if err := h.Items.Update(ctx, &upd); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	row, err := h.Items.GetByID(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load item failed"})
	}
	return c.JSON(http.StatusOK, toItemResp(row))
}

// Delete removes an item and refreshes the shipment totals.
func (h *ItemHandler) Delete(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	switch err := h.Items.Delete(ctx, id); {
	case err == nil:
		return c.NoContent(http.StatusNoContent)
	case errors.Is(err, repository.ErrItemNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "item not found"})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
}
