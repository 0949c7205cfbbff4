package tracking

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/eztransport/logistics-api/internal/model"
)

var errShipmentNotFound = errors.New("shipment not found")

type stubShipments struct {
	byTracking map[string]*model.Shipment
	byID       map[uint64]*model.Shipment
}

func (s *stubShipments) ByID(_ context.Context, id uint64) (*model.Shipment, error) {
	if sh, ok := s.byID[id]; ok {
		return sh, nil
	}
	return nil, errShipmentNotFound
}

func (s *stubShipments) ByTrackingNumber(_ context.Context, tn string) (*model.Shipment, error) {
	if sh, ok := s.byTracking[tn]; ok {
		return sh, nil
	}
	return nil, errShipmentNotFound
}

type stubEvents struct {
	records []EventRecord
	err     error
}

func (s *stubEvents) ListForShipment(_ context.Context, _ uint64) ([]EventRecord, error) {
	return s.records, s.err
}

func at(h int) time.Time {
	return time.Date(2025, 6, 1, h, 0, 0, 0, time.UTC)
}

func testShipment() *model.Shipment {
	return &model.Shipment{ID: 7, TrackingNumber: "EZT-1A2B3C4D", Status: model.ShipmentInTransit}
}

func TestTimelineOrdersEventsAscending(t *testing.T) {
	shipments := &stubShipments{byTracking: map[string]*model.Shipment{"EZT-1A2B3C4D": testShipment()}}
	// Records arrive newest-first, as the original events feed did.
	events := &stubEvents{records: []EventRecord{
		{Event: model.TrackingEvent{ID: 3, EventType: model.EventArrival, EventTimestamp: at(12)}, LocationName: "Pune, MH"},
		{Event: model.TrackingEvent{ID: 2, EventType: model.EventDeparture, EventTimestamp: at(10)}, LocationName: "Mumbai, MH"},
		{Event: model.TrackingEvent{ID: 1, EventType: model.EventPickup, EventTimestamp: at(8)}, LocationName: "Mumbai, MH"},
	}}

	tl, err := NewAssembler(shipments, events).ByTrackingNumber(context.Background(), "EZT-1A2B3C4D")
	if err != nil {
		t.Fatalf("ByTrackingNumber: %v", err)
	}
	if tl.TrackingNumber != "EZT-1A2B3C4D" || tl.Status != model.ShipmentInTransit {
		t.Fatalf("timeline header = %+v", tl)
	}
	wantOrder := []uint64{1, 2, 3}
	if len(tl.Entries) != len(wantOrder) {
		t.Fatalf("got %d entries, want %d", len(tl.Entries), len(wantOrder))
	}
	for i, id := range wantOrder {
		if tl.Entries[i].EventID != id {
			t.Fatalf("entry %d has event %d, want %d", i, tl.Entries[i].EventID, id)
		}
	}
	for i := 1; i < len(tl.Entries); i++ {
		if tl.Entries[i].Timestamp.Before(tl.Entries[i-1].Timestamp) {
			t.Fatal("entries are not in ascending timestamp order")
		}
	}
}

func TestTimelineZeroEventsIsEmptyNotError(t *testing.T) {
	shipments := &stubShipments{byID: map[uint64]*model.Shipment{7: testShipment()}}
	tl, err := NewAssembler(shipments, &stubEvents{}).ByShipmentID(context.Background(), 7)
	if err != nil {
		t.Fatalf("ByShipmentID: %v", err)
	}
	if tl.Entries == nil {
		t.Fatal("entries should be an empty slice, not nil")
	}
	if len(tl.Entries) != 0 {
		t.Fatalf("got %d entries, want 0", len(tl.Entries))
	}
}

func TestTimelineUnknownTrackingNumberIsNotFound(t *testing.T) {
	a := NewAssembler(&stubShipments{}, &stubEvents{})
	if _, err := a.ByTrackingNumber(context.Background(), "EZT-MISSING"); !errors.Is(err, errShipmentNotFound) {
		t.Fatalf("err = %v, want shipment-not-found passthrough", err)
	}
}

func TestTimelineTrimsLookupInput(t *testing.T) {
	shipments := &stubShipments{byTracking: map[string]*model.Shipment{"EZT-1A2B3C4D": testShipment()}}
	if _, err := NewAssembler(shipments, &stubEvents{}).ByTrackingNumber(context.Background(), "  EZT-1A2B3C4D "); err != nil {
		t.Fatalf("trimmed lookup failed: %v", err)
	}
}

func TestLabel(t *testing.T) {
	tests := []struct {
		name      string
		eventType string
		location  string
		want      string
	}{
		{name: "simple type", eventType: "pickup", location: "", want: "Pickup"},
		{name: "with location", eventType: "delivery", location: "Delhi, DL", want: "Delivery at Delhi, DL"},
		{name: "underscores become spaces", eventType: "out_for_delivery", location: "", want: "Out for delivery"},
		{name: "empty type stays empty", eventType: "", location: "", want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Label(tt.eventType, tt.location); got != tt.want {
				t.Fatalf("Label(%q, %q) = %q, want %q", tt.eventType, tt.location, got, tt.want)
			}
		})
	}
}

func TestCategoryAndIconCoverAllEventTypes(t *testing.T) {
	for _, et := range []string{
		model.EventPickup, model.EventDeparture, model.EventArrival,
		model.EventDelivery, model.EventDelay, model.EventIssue,
	} {
		if Category(et) == "neutral" {
			t.Fatalf("no category for event type %q", et)
		}
		if Icon(et) == "fa-circle" {
			t.Fatalf("no icon for event type %q", et)
		}
	}
	if Category("bogus") != "neutral" || Icon("bogus") != "fa-circle" {
		t.Fatal("unknown event types should fall back to neutral defaults")
	}
}
