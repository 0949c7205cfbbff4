package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/eztransport/logistics-api/internal/model"
	"github.com/eztransport/logistics-api/internal/queue"
	"github.com/eztransport/logistics-api/internal/repository"
	queue_publisher "github.com/eztransport/logistics-api/internal/service"
	"github.com/eztransport/logistics-api/internal/tracking"
)

// TrackingHandler serves the tracking timeline lookups and event
// recording. The public tracking-number lookup is the only
// unauthenticated read in the API.
type TrackingHandler struct {
	Assembler *tracking.Assembler
	Events    *repository.EventRepo
	Shipments *repository.ShipmentRepo
	Locations *repository.LocationRepo
	Users     *repository.UserRepo
}

func NewTrackingHandler(assembler *tracking.Assembler, events *repository.EventRepo,
	shipments *repository.ShipmentRepo, locations *repository.LocationRepo,
	users *repository.UserRepo) *TrackingHandler {
	if assembler == nil || events == nil || shipments == nil || locations == nil || users == nil {
		panic("nil dependency passed to NewTrackingHandler")
	}
	return &TrackingHandler{
		Assembler: assembler,
		Events:    events,
		Shipments: shipments,
		Locations: locations,
		Users:     users,
	}
}

// Lookup assembles the timeline for a public tracking-number lookup.
func (h *TrackingHandler) Lookup(c echo.Context) error {
	number := c.Param("number")
	if number == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "tracking number is required"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	tl, err := h.Assembler.ByTrackingNumber(ctx, number)
	if err != nil {
		if errors.Is(err, repository.ErrShipmentNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "tracking number not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "lookup failed"})
	}
	return c.JSON(http.StatusOK, tl)
}

// Timeline assembles the timeline for an internal shipment lookup.
func (h *TrackingHandler) Timeline(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	tl, err := h.Assembler.ByShipmentID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrShipmentNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "shipment not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "lookup failed"})
	}
	return c.JSON(http.StatusOK, tl)
}

type eventResp struct {
	ID             uint64    `json:"id"`
	ShipmentID     uint64    `json:"shipment_id"`
	EventType      string    `json:"event_type"`
	LocationID     *uint64   `json:"location_id"`
	EventTimestamp time.Time `json:"event_timestamp"`
	RecordedBy     *uint64   `json:"recorded_by"`
	Notes          string    `json:"notes"`
}

func toEventResp(ev *model.TrackingEvent) eventResp {
	return eventResp{
		ID:             ev.ID,
		ShipmentID:     ev.ShipmentID,
		EventType:      ev.EventType,
		LocationID:     ev.LocationID,
		EventTimestamp: ev.EventTimestamp,
		RecordedBy:     ev.RecordedBy,
		Notes:          ev.Notes,
	}
}

type recordEventReq struct {
	ShipmentID     *uint64    `json:"shipment_id"`
	EventType      string     `json:"event_type"`
	LocationID     *uint64    `json:"location_id"`
	EventTimestamp *time.Time `json:"event_timestamp"`
	Notes          string     `json:"notes"`
}

// RecordEvent records a tracking event against a shipment. The
// repository applies the status side effects; the handler then
// publishes a broker message, ignoring broker failures.
func (h *TrackingHandler) RecordEvent(c echo.Context) error {
	var req recordEventReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.ShipmentID == nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "shipment_id is required"})
	}
	if !model.ValidEventType(req.EventType) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid event_type"})
	}

	ev := &model.TrackingEvent{
		ShipmentID: *req.ShipmentID,
		EventType:  req.EventType,
		LocationID: req.LocationID,
		Notes:      req.Notes,
	}
	if req.EventTimestamp != nil {
		ev.EventTimestamp = *req.EventTimestamp
	} else {
		ev.EventTimestamp = time.Now().UTC()
	}
	if uid, err := getUserID(c); err == nil {
		ev.RecordedBy = &uid
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Events.Create(ctx, ev); err != nil {
		if errors.Is(err, repository.ErrShipmentNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "shipment not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "record event failed"})
	}

	// The message is best effort; a dead broker never fails the request.
	_ = queue_publisher.PublishTrackingEventRecorded(ctx, h.buildEventMessage(ctx, ev))

	return c.JSON(http.StatusCreated, toEventResp(ev))
}

// buildEventMessage resolves the display fields for the broker
// payload. Lookups that fail leave their field empty.
func (h *TrackingHandler) buildEventMessage(ctx context.Context, ev *model.TrackingEvent) queue.TrackingEventRecordedEvent {
	msg := queue.TrackingEventRecordedEvent{
		EventID:    ev.ID,
		ShipmentID: ev.ShipmentID,
		EventType:  ev.EventType,
		Status:     model.EventStatus(ev.EventType),
		Notes:      ev.Notes,
		OccurredAt: ev.EventTimestamp.UTC().Format(time.RFC3339),
	}
	if s, err := h.Shipments.ByID(ctx, ev.ShipmentID); err == nil {
		msg.TrackingNumber = s.TrackingNumber
	}
	if ev.LocationID != nil {
		if l, err := h.Locations.GetByID(ctx, *ev.LocationID); err == nil {
			msg.Location = l.Label()
		}
	}
	if ev.RecordedBy != nil {
		if u, err := h.Users.GetByID(ctx, *ev.RecordedBy); err == nil {
			msg.RecordedBy = u.FullName
		}
	}
	return msg
}

// ListEvents returns a shipment's events oldest first.
func (h *TrackingHandler) ListEvents(c echo.Context) error {
	shipmentID, err := strconv.ParseUint(c.QueryParam("shipment_id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "shipment_id is required"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if _, err := h.Shipments.ByID(ctx, shipmentID); err != nil {
		if errors.Is(err, repository.ErrShipmentNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "shipment not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}

	records, err := h.Events.ListForShipment(ctx, shipmentID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	items := make([]eventResp, 0, len(records))
	for i := range records {
		items = append(items, toEventResp(&records[i].Event))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items, "total": len(items)})
}

// DeleteEvent removes a recorded event; the repository rolls the
// shipment status back to whatever the remaining events imply.
func (h *TrackingHandler) DeleteEvent(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	switch err := h.Events.Delete(ctx, id); {
	case err == nil:
		return c.NoContent(http.StatusNoContent)
	case errors.Is(err, repository.ErrEventNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "event not found"})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
}
