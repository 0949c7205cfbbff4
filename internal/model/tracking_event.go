package model

import "time"

// Tracking event types as stored in tracking_events.event_type.
const (
	EventPickup    = "pickup"
	EventDeparture = "departure"
	EventArrival   = "arrival"
	EventDelivery  = "delivery"
	EventDelay     = "delay"
	EventIssue     = "issue"
)

// TrackingEvent mirrors the `tracking_events` table. Events are
// immutable once recorded and ordered by EventTimestamp for timeline
// display.
//
// Fields:
//  ID             – primary key identifier.
//  ShipmentID     – shipment the event belongs to.
//  EventType      – one of the Event* constants.
//  LocationID     – where the event happened, nullable.
//  EventTimestamp – when the event happened.
//  RecordedBy     – user who recorded the event, nullable.
//  Notes          – free-form notes.
type TrackingEvent struct {
	ID             uint64    // tracking_events.event_id
	ShipmentID     uint64    // tracking_events.shipment_id
	EventType      string    // tracking_events.event_type
	LocationID     *uint64   // tracking_events.location_id (nullable)
	EventTimestamp time.Time // tracking_events.event_timestamp
	RecordedBy     *uint64   // tracking_events.recorded_by (nullable)
	Notes          string    // tracking_events.notes
}

// EventStatus maps a tracking event type to the shipment status it
// advances the shipment to. Unknown event types map to "" and leave
// the status untouched.
func EventStatus(eventType string) string {
	switch eventType {
	case EventPickup:
		return ShipmentPickedUp
	case EventDeparture, EventArrival, EventDelay, EventIssue:
		return ShipmentInTransit
	case EventDelivery:
		return ShipmentDelivered
	}
	return ""
}

// ValidEventType reports whether t is one of the recognized tracking
// event types.
func ValidEventType(t string) bool {
	switch t {
	case EventPickup, EventDeparture, EventArrival, EventDelivery, EventDelay, EventIssue:
		return true
	}
	return false
}
