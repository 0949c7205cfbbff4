package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/eztransport/logistics-api/internal/model"
	"github.com/eztransport/logistics-api/internal/pagination"
)

// ErrShipmentNotFound is returned when a shipment lookup misses.
var ErrShipmentNotFound = errors.New("shipment not found")

// ErrTrackingNumberExists is returned when an insert hits the unique
// tracking number index.
var ErrTrackingNumberExists = errors.New("tracking number already exists")

// ShipmentRow is a shipment joined with the display labels its list
// and detail screens render: customer company, endpoint cities, the
// assigned driver's name and the assigned vehicle's plate.
type ShipmentRow struct {
	model.Shipment
	CompanyName      string
	OriginCity       string
	OriginState      string
	DestinationCity  string
	DestinationState string
	DriverName       *string
	VehiclePlate     *string
}

// ShipmentFilter narrows List. Zero values mean "no filter"; the
// driver and customer pointers scope the list for role-restricted
// screens.
type ShipmentFilter struct {
	Status     string
	CustomerID *uint64
	DriverID   *uint64
}

// ShipmentRepo provides access to the shipments table. Its ByID and
// ByTrackingNumber methods double as the timeline assembler's shipment
// source.
type ShipmentRepo struct{ DB *sql.DB }

func NewShipmentRepo(db *sql.DB) *ShipmentRepo { return &ShipmentRepo{DB: db} }

const shipmentColumns = `shipment_id, tracking_number, customer_id, origin_id, destination_id, route_id,
vehicle_id, driver_id, status, total_weight, total_volume, shipment_value, insurance_required,
special_instructions, pickup_date, estimated_delivery, actual_delivery, created_at`

const shipmentSelect = `SELECT s.shipment_id, s.tracking_number, s.customer_id, s.origin_id, s.destination_id,
       s.route_id, s.vehicle_id, s.driver_id, s.status, s.total_weight, s.total_volume, s.shipment_value,
       s.insurance_required, s.special_instructions, s.pickup_date, s.estimated_delivery, s.actual_delivery,
       s.created_at, c.company_name, o.city, o.state, d.city, d.state, du.full_name, v.license_plate
FROM shipments s
JOIN customers c ON c.customer_id = s.customer_id
JOIN locations o ON o.location_id = s.origin_id
JOIN locations d ON d.location_id = s.destination_id
LEFT JOIN drivers dr ON dr.driver_id = s.driver_id
LEFT JOIN users du ON du.user_id = dr.user_id
LEFT JOIN vehicles v ON v.vehicle_id = s.vehicle_id`

func scanShipment(row interface{ Scan(...interface{}) error }) (*model.Shipment, error) {
	var s model.Shipment
	err := row.Scan(&s.ID, &s.TrackingNumber, &s.CustomerID, &s.OriginID, &s.DestinationID, &s.RouteID,
		&s.VehicleID, &s.DriverID, &s.Status, &s.TotalWeight, &s.TotalVolume, &s.ShipmentValue,
		&s.InsuranceRequired, &s.SpecialInstructions, &s.PickupDate, &s.EstimatedDelivery,
		&s.ActualDelivery, &s.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func scanShipmentRow(row interface{ Scan(...interface{}) error }) (*ShipmentRow, error) {
	var s ShipmentRow
	err := row.Scan(&s.ID, &s.TrackingNumber, &s.CustomerID, &s.OriginID, &s.DestinationID, &s.RouteID,
		&s.VehicleID, &s.DriverID, &s.Status, &s.TotalWeight, &s.TotalVolume, &s.ShipmentValue,
		&s.InsuranceRequired, &s.SpecialInstructions, &s.PickupDate, &s.EstimatedDelivery,
		&s.ActualDelivery, &s.CreatedAt,
		&s.CompanyName, &s.OriginCity, &s.OriginState, &s.DestinationCity, &s.DestinationState,
		&s.DriverName, &s.VehiclePlate)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// Create inserts a shipment and flips the status of any driver and
// vehicle assigned at creation time, all inside one transaction.
func (r *ShipmentRepo) Create(ctx context.Context, s *model.Shipment) error {
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

	if s.Status == "" {
		s.Status = model.ShipmentPending
	}
	var res sql.Result
	res, err = tx.ExecContext(ctx,
		`INSERT INTO shipments (tracking_number, customer_id, origin_id, destination_id, route_id, vehicle_id,
driver_id, status, total_weight, total_volume, shipment_value, insurance_required, special_instructions,
pickup_date, estimated_delivery) VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		s.TrackingNumber, s.CustomerID, s.OriginID, s.DestinationID, s.RouteID, s.VehicleID,
		s.DriverID, s.Status, s.TotalWeight, s.TotalVolume, s.ShipmentValue, s.InsuranceRequired,
		s.SpecialInstructions, s.PickupDate, s.EstimatedDelivery)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			err = ErrTrackingNumberExists
		}
		return err
	}
	var id int64
	if id, err = res.LastInsertId(); err != nil {
		return err
	}
	s.ID = uint64(id)

	if s.DriverID != nil {
		if _, err = tx.ExecContext(ctx,
			"UPDATE drivers SET status=? WHERE driver_id=?", model.DriverAssigned, *s.DriverID); err != nil {
			return err
		}
	}
	if s.VehicleID != nil {
		if _, err = tx.ExecContext(ctx,
			"UPDATE vehicles SET status=? WHERE vehicle_id=?", model.VehicleInUse, *s.VehicleID); err != nil {
			return err
		}
	}
	return nil
}

// ByID fetches a shipment by id.
func (r *ShipmentRepo) ByID(ctx context.Context, id uint64) (*model.Shipment, error) {
	s, err := scanShipment(r.DB.QueryRowContext(ctx,
		"SELECT "+shipmentColumns+" FROM shipments WHERE shipment_id=?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrShipmentNotFound
	}
	return s, err
}

// ByTrackingNumber fetches a shipment by its public tracking handle.
func (r *ShipmentRepo) ByTrackingNumber(ctx context.Context, trackingNumber string) (*model.Shipment, error) {
	s, err := scanShipment(r.DB.QueryRowContext(ctx,
		"SELECT "+shipmentColumns+" FROM shipments WHERE tracking_number=?", trackingNumber))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrShipmentNotFound
	}
	return s, err
}

// GetRow fetches a shipment with its joined display labels.
func (r *ShipmentRepo) GetRow(ctx context.Context, id uint64) (*ShipmentRow, error) {
	s, err := scanShipmentRow(r.DB.QueryRowContext(ctx, shipmentSelect+" WHERE s.shipment_id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrShipmentNotFound
	}
	return s, err
}

// List returns one page of shipments newest first plus the total count
// under the same filter, so the pagination window matches the list.
func (r *ShipmentRepo) List(ctx context.Context, page, perPage int, f ShipmentFilter) ([]*ShipmentRow, int, error) {
	var conds []string
	var args []interface{}
	if f.Status != "" {
		conds = append(conds, "s.status = ?")
		args = append(args, f.Status)
	}
	if f.CustomerID != nil {
		conds = append(conds, "s.customer_id = ?")
		args = append(args, *f.CustomerID)
	}
	if f.DriverID != nil {
		conds = append(conds, "s.driver_id = ?")
		args = append(args, *f.DriverID)
	}
	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	var total int
	if err := r.DB.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM shipments s"+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}
	page = pagination.ClampPage(page, total, perPage)
	args = append(args, perPage, pagination.Offset(page, perPage))
	rows, err := r.DB.QueryContext(ctx,
		shipmentSelect+where+" ORDER BY s.created_at DESC, s.shipment_id DESC LIMIT ? OFFSET ?", args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := make([]*ShipmentRow, 0, perPage)
	for rows.Next() {
		s, err := scanShipmentRow(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// Update rewrites the mutable shipment fields and reconciles driver
// and vehicle statuses when the assignment changed. prev must be the
// shipment as currently stored; the whole reconciliation runs in one
// transaction.
func (r *ShipmentRepo) Update(ctx context.Context, prev, next *model.Shipment) error {
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

	var res sql.Result
	res, err = tx.ExecContext(ctx,
		`UPDATE shipments SET customer_id=?, origin_id=?, destination_id=?, route_id=?, vehicle_id=?, driver_id=?,
status=?, insurance_required=?, special_instructions=?, pickup_date=?, estimated_delivery=?, actual_delivery=?
WHERE shipment_id=?`,
		next.CustomerID, next.OriginID, next.DestinationID, next.RouteID, next.VehicleID, next.DriverID,
		next.Status, next.InsuranceRequired, next.SpecialInstructions, next.PickupDate,
		next.EstimatedDelivery, next.ActualDelivery, next.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		// The row may match exactly; verify existence before failing.
		var exists int
		if err = tx.QueryRowContext(ctx,
			"SELECT COUNT(*) FROM shipments WHERE shipment_id=?", next.ID).Scan(&exists); err != nil {
			return err
		}
		if exists == 0 {
			err = ErrShipmentNotFound
			return err
		}
	}

	err = reconcileAssignments(ctx, tx, prev, next)
	return err
}

// reconcileAssignments releases previously assigned drivers and
// vehicles and claims newly assigned ones.
func reconcileAssignments(ctx context.Context, tx *sql.Tx, prev, next *model.Shipment) error {
	if !sameRef(prev.DriverID, next.DriverID) {
		if prev.DriverID != nil {
			if _, err := tx.ExecContext(ctx,
				"UPDATE drivers SET status=? WHERE driver_id=?", model.DriverAvailable, *prev.DriverID); err != nil {
				return err
			}
		}
		if next.DriverID != nil {
			if _, err := tx.ExecContext(ctx,
				"UPDATE drivers SET status=? WHERE driver_id=?", model.DriverAssigned, *next.DriverID); err != nil {
				return err
			}
		}
	}
	if !sameRef(prev.VehicleID, next.VehicleID) {
		if prev.VehicleID != nil {
			if _, err := tx.ExecContext(ctx,
				"UPDATE vehicles SET status=? WHERE vehicle_id=?", model.VehicleAvailable, *prev.VehicleID); err != nil {
				return err
			}
		}
		if next.VehicleID != nil {
			if _, err := tx.ExecContext(ctx,
				"UPDATE vehicles SET status=? WHERE vehicle_id=?", model.VehicleInUse, *next.VehicleID); err != nil {
				return err
			}
		}
	}
	return nil
}

func sameRef(a, b *uint64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// Delete removes a shipment together with its items and tracking
// events, and releases its assigned driver and vehicle.
func (r *ShipmentRepo) Delete(ctx context.Context, id uint64) error {
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
		"SELECT "+shipmentColumns+" FROM shipments WHERE shipment_id=?", id))
	if errors.Is(err, sql.ErrNoRows) {
		err = ErrShipmentNotFound
		return err
	}
	if err != nil {
		return err
	}

	if _, err = tx.ExecContext(ctx, "DELETE FROM tracking_events WHERE shipment_id=?", id); err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx, "DELETE FROM shipment_items WHERE shipment_id=?", id); err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx, "DELETE FROM shipments WHERE shipment_id=?", id); err != nil {
		return err
	}

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

// RecomputeTotals re-derives a shipment's weight, volume and declared
// value from its items. Item quantity multiplies each per-unit figure.
func (r *ShipmentRepo) RecomputeTotals(ctx context.Context, shipmentID uint64) error {
	_, err := r.DB.ExecContext(ctx,
		`UPDATE shipments SET
    total_weight   = COALESCE((SELECT SUM(weight * quantity) FROM shipment_items WHERE shipment_id=?), 0),
    total_volume   = COALESCE((SELECT SUM(volume * quantity) FROM shipment_items WHERE shipment_id=?), 0),
    shipment_value = COALESCE((SELECT SUM(item_value * quantity) FROM shipment_items WHERE shipment_id=?), 0)
WHERE shipment_id=?`,
		shipmentID, shipmentID, shipmentID, shipmentID)
	return err
}

// ListOverdue returns moving shipments whose estimated delivery has
// passed. The overdue monitor records delay events for them.
func (r *ShipmentRepo) ListOverdue(ctx context.Context) ([]*model.Shipment, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+shipmentColumns+` FROM shipments
WHERE status IN (?, ?) AND estimated_delivery IS NOT NULL AND estimated_delivery < NOW()`,
		model.ShipmentPickedUp, model.ShipmentInTransit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Shipment
	for rows.Next() {
		s, err := scanShipment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
