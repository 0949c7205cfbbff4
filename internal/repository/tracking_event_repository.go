package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/eztransport/logistics-api/internal/model"
	"github.com/eztransport/logistics-api/internal/tracking"
)

// ErrEventNotFound is returned when a tracking event lookup misses.
var ErrEventNotFound = errors.New("tracking event not found")

// EventRepo provides access to the tracking_events table. Recording an
// event advances the owning shipment's status in the same transaction;
// deleting one rolls the status back to whatever the latest remaining
// event implies. Its ListForShipment method doubles as the timeline
// assembler's event source.
type EventRepo struct{ DB *sql.DB }

func NewEventRepo(db *sql.DB) *EventRepo { return &EventRepo{DB: db} }

// Create inserts a tracking event and applies its side effects: the
// shipment status advances per the event type, a delivery event stamps
// actual_delivery and releases the assigned driver and vehicle.
func (r *EventRepo) Create(ctx context.Context, ev *model.TrackingEvent) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		} else {
			_ = tx.Commit()
		}
	}()

	var s *model.Shipment
	s, err = scanShipment(tx.QueryRowContext(ctx,
		"SELECT "+shipmentColumns+" FROM shipments WHERE shipment_id=?", ev.ShipmentID))
	if errors.Is(err, sql.ErrNoRows) {
		err = ErrShipmentNotFound
		return err
	}
	if err != nil {
		return err
	}

	var res sql.Result
	res, err = tx.ExecContext(ctx,
		"INSERT INTO tracking_events (shipment_id, event_type, location_id, event_timestamp, recorded_by, notes) VALUES (?,?,?,?,?,?)",
		ev.ShipmentID, ev.EventType, ev.LocationID, ev.EventTimestamp, ev.RecordedBy, ev.Notes)
	if err != nil {
		return err
	}
	var id int64
	if id, err = res.LastInsertId(); err != nil {
		return err
	}
	ev.ID = uint64(id)

	status := model.EventStatus(ev.EventType)
	if status == "" {
		return nil
	}
	if status == model.ShipmentDelivered {
		if _, err = tx.ExecContext(ctx,
			"UPDATE shipments SET status=?, actual_delivery=? WHERE shipment_id=?",
			status, ev.EventTimestamp, ev.ShipmentID); err != nil {
			return err
		}
		// A delivered shipment frees its crew for the next run.
		if s.DriverID != nil {
			if _, err = tx.ExecContext(ctx,
				"UPDATE drivers SET status=? WHERE driver_id=?", model.DriverAvailable, *s.DriverID); err != nil {
				return err
			}
		}
		if s.VehicleID != nil {
			if _, err = tx.ExecContext(ctx,
				"UPDATE vehicles SET status=? WHERE vehicle_id=?", model.VehicleAvailable, *s.VehicleID); err != nil {
				return err
			}
		}
		return nil
	}
	_, err = tx.ExecContext(ctx,
		"UPDATE shipments SET status=? WHERE shipment_id=?", status, ev.ShipmentID)
	return err
}

// GetByID fetches a single tracking event.
func (r *EventRepo) GetByID(ctx context.Context, id uint64) (*model.TrackingEvent, error) {
	var ev model.TrackingEvent
	err := r.DB.QueryRowContext(ctx,
		"SELECT event_id, shipment_id, event_type, location_id, event_timestamp, recorded_by, COALESCE(notes,'') FROM tracking_events WHERE event_id=?",
		id).Scan(&ev.ID, &ev.ShipmentID, &ev.EventType, &ev.LocationID, &ev.EventTimestamp, &ev.RecordedBy, &ev.Notes)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrEventNotFound
	}
	if err != nil {
		return nil, err
	}
	return &ev, nil
}

// ListForShipment returns a shipment's events oldest first, enriched
// with the location label and the recorder's name for timeline display.
func (r *EventRepo) ListForShipment(ctx context.Context, shipmentID uint64) ([]tracking.EventRecord, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT e.event_id, e.shipment_id, e.event_type, e.location_id, e.event_timestamp, e.recorded_by,
       COALESCE(e.notes,''), l.city, l.state, u.full_name
FROM tracking_events e
LEFT JOIN locations l ON l.location_id = e.location_id
LEFT JOIN users u ON u.user_id = e.recorded_by
WHERE e.shipment_id = ?
ORDER BY e.event_timestamp, e.event_id`, shipmentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]tracking.EventRecord, 0, 8)
	for rows.Next() {
		var (
			rec         tracking.EventRecord
			city, state sql.NullString
			recorder    sql.NullString
		)
		if err := rows.Scan(&rec.Event.ID, &rec.Event.ShipmentID, &rec.Event.EventType,
			&rec.Event.LocationID, &rec.Event.EventTimestamp, &rec.Event.RecordedBy,
			&rec.Event.Notes, &city, &state, &recorder); err != nil {
			return nil, err
		}
		if city.Valid {
			rec.LocationName = (model.Location{City: city.String, State: state.String}).Label()
		}
		if recorder.Valid {
			rec.RecordedByName = recorder.String
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// Delete removes an event and re-derives the shipment's status from
// the latest remaining event; with no events left the shipment drops
// back to pending. actual_delivery only survives when the latest
// remaining event is still a delivery.
func (r *EventRepo) Delete(ctx context.Context, id uint64) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		} else {
			_ = tx.Commit()
		}
	}()

	var shipmentID uint64
	err = tx.QueryRowContext(ctx,
		"SELECT shipment_id FROM tracking_events WHERE event_id=?", id).Scan(&shipmentID)
	if errors.Is(err, sql.ErrNoRows) {
		err = ErrEventNotFound
		return err
	}
	if err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx, "DELETE FROM tracking_events WHERE event_id=?", id); err != nil {
		return err
	}

	var (
		latestType sql.NullString
		latestTS   sql.NullTime
	)
	err = tx.QueryRowContext(ctx,
		`SELECT event_type, event_timestamp FROM tracking_events
WHERE shipment_id=? ORDER BY event_timestamp DESC, event_id DESC LIMIT 1`, shipmentID).
		Scan(&latestType, &latestTS)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return err
	}
	err = nil

	status := model.ShipmentPending
	if latestType.Valid {
		if derived := model.EventStatus(latestType.String); derived != "" {
			status = derived
		}
	}
	if status == model.ShipmentDelivered && latestTS.Valid {
		_, err = tx.ExecContext(ctx,
			"UPDATE shipments SET status=?, actual_delivery=? WHERE shipment_id=?",
			status, latestTS.Time, shipmentID)
		return err
	}
	_, err = tx.ExecContext(ctx,
		"UPDATE shipments SET status=?, actual_delivery=NULL WHERE shipment_id=?", status, shipmentID)
	return err
}
