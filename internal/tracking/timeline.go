// Package tracking assembles the chronological timeline shown on the
// tracking lookup screen. It merges a shipment with its recorded
// events and derives the display category and label for each entry.
package tracking

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/eztransport/logistics-api/internal/model"
)

// EventRecord is one tracking event enriched with the joined display
// names its repository query resolves (location and recorder), which
// are not part of the event row itself.
type EventRecord struct {
	Event          model.TrackingEvent
	LocationName   string
	RecordedByName string
}

// ShipmentSource resolves shipments for timeline assembly. Lookups
// that miss return repository not-found errors, which the assembler
// passes through untouched.
type ShipmentSource interface {
	ByID(ctx context.Context, id uint64) (*model.Shipment, error)
	ByTrackingNumber(ctx context.Context, trackingNumber string) (*model.Shipment, error)
}

// EventSource lists the recorded events of one shipment.
type EventSource interface {
	ListForShipment(ctx context.Context, shipmentID uint64) ([]EventRecord, error)
}

// Entry is one rendered timeline row.
type Entry struct {
	EventID    uint64    `json:"event_id"`
	EventType  string    `json:"event_type"`
	Category   string    `json:"category"`
	Icon       string    `json:"icon"`
	Label      string    `json:"label"`
	Location   string    `json:"location,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
	RecordedBy string    `json:"recorded_by,omitempty"`
	Notes      string    `json:"notes,omitempty"`
}

// Timeline is the assembled lookup result: the shipment summary plus
// its entries in chronological order. A shipment with no events yields
// an empty, non-nil Entries slice.
type Timeline struct {
	ShipmentID     uint64     `json:"shipment_id"`
	TrackingNumber string     `json:"tracking_number"`
	Status         string     `json:"status"`
	Entries        []Entry    `json:"entries"`
	EstimatedAt    *time.Time `json:"estimated_delivery,omitempty"`
	DeliveredAt    *time.Time `json:"actual_delivery,omitempty"`
}

// Assembler builds timelines from its two lookup collaborators.
type Assembler struct {
	shipments ShipmentSource
	events    EventSource
}

func NewAssembler(shipments ShipmentSource, events EventSource) *Assembler {
	return &Assembler{shipments: shipments, events: events}
}

// ByTrackingNumber assembles the timeline for a public tracking-number
// lookup. A miss surfaces the shipment source's not-found error.
func (a *Assembler) ByTrackingNumber(ctx context.Context, trackingNumber string) (*Timeline, error) {
	s, err := a.shipments.ByTrackingNumber(ctx, strings.TrimSpace(trackingNumber))
	if err != nil {
		return nil, err
	}
	return a.assemble(ctx, s)
}

// ByShipmentID assembles the timeline for an internal shipment lookup.
func (a *Assembler) ByShipmentID(ctx context.Context, id uint64) (*Timeline, error) {
	s, err := a.shipments.ByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return a.assemble(ctx, s)
}

func (a *Assembler) assemble(ctx context.Context, s *model.Shipment) (*Timeline, error) {
	records, err := a.events.ListForShipment(ctx, s.ID)
	if err != nil {
		return nil, err
	}
	// Sort here instead of trusting collaborator order; an unordered
	// event feed would otherwise render a scrambled timeline.
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Event.EventTimestamp.Before(records[j].Event.EventTimestamp)
	})

	entries := make([]Entry, 0, len(records))
	for _, rec := range records {
		entries = append(entries, Entry{
			EventID:    rec.Event.ID,
			EventType:  rec.Event.EventType,
			Category:   Category(rec.Event.EventType),
			Icon:       Icon(rec.Event.EventType),
			Label:      Label(rec.Event.EventType, rec.LocationName),
			Location:   rec.LocationName,
			Timestamp:  rec.Event.EventTimestamp,
			RecordedBy: rec.RecordedByName,
			Notes:      rec.Event.Notes,
		})
	}

	return &Timeline{
		ShipmentID:     s.ID,
		TrackingNumber: s.TrackingNumber,
		Status:         s.Status,
		Entries:        entries,
		EstimatedAt:    s.EstimatedDelivery,
		DeliveredAt:    s.ActualDelivery,
	}, nil
}

// Category maps an event type to the badge tone the UI renders it
// with.
func Category(eventType string) string {
	switch eventType {
	case model.EventPickup:
		return "success"
	case model.EventDeparture:
		return "info"
	case model.EventArrival:
		return "progress"
	case model.EventDelivery:
		return "success"
	case model.EventIssue:
		return "danger"
	case model.EventDelay:
		return "warning"
	}
	return "neutral"
}

// Icon maps an event type to its Font Awesome icon name.
func Icon(eventType string) string {
	switch eventType {
	case model.EventPickup:
		return "fa-box-open"
	case model.EventDeparture:
		return "fa-truck"
	case model.EventArrival:
		return "fa-warehouse"
	case model.EventDelivery:
		return "fa-check-circle"
	case model.EventIssue:
		return "fa-exclamation-triangle"
	case model.EventDelay:
		return "fa-clock"
	}
	return "fa-circle"
}

// Label builds the human form of an event type: capitalized,
// underscores replaced with spaces, suffixed with the location name
// when one is known.
func Label(eventType, locationName string) string {
	label := strings.ReplaceAll(eventType, "_", " ")
	if label != "" {
		label = strings.ToUpper(label[:1]) + label[1:]
	}
	if locationName != "" {
		label += " at " + locationName
	}
	return label
}
