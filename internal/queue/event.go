// Package queue defines message payloads exchanged over the message broker.
package queue

// TrackingEventRecordedEvent is published when a tracking event is
// recorded against a shipment. It carries enough context for
// downstream consumers to log, notify, or trigger analytics without
// querying the primary database.
type TrackingEventRecordedEvent struct {
	EventID        uint64 `json:"event_id"`
	ShipmentID     uint64 `json:"shipment_id"`
	TrackingNumber string `json:"tracking_number"`
	EventType      string `json:"event_type"`
	Status         string `json:"status"`
	Location       string `json:"location"`
	RecordedBy     string `json:"recorded_by"`
	Notes          string `json:"notes"`
	OccurredAt     string `json:"occurred_at"`
}
