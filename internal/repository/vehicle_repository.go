package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/eztransport/logistics-api/internal/model"
	"github.com/eztransport/logistics-api/internal/pagination"
)

// ErrVehicleNotFound is returned when a vehicle lookup misses.
var ErrVehicleNotFound = errors.New("vehicle not found")

// ErrPlateExists is returned when an insert or update hits the unique
// license plate index.
var ErrPlateExists = errors.New("license plate already exists")

// VehicleRepo provides access to the vehicles table.
type VehicleRepo struct{ DB *sql.DB }

func NewVehicleRepo(db *sql.DB) *VehicleRepo { return &VehicleRepo{DB: db} }

const vehicleColumns = "vehicle_id, license_plate, make, model, year, vehicle_type, status, capacity_kg, current_location_id, last_inspection_date"

func scanVehicle(row interface{ Scan(...interface{}) error }) (*model.Vehicle, error) {
	var v model.Vehicle
	err := row.Scan(&v.ID, &v.LicensePlate, &v.Make, &v.Model, &v.Year, &v.VehicleType,
		&v.Status, &v.CapacityKg, &v.CurrentLocationID, &v.LastInspectionDate)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// Create inserts a vehicle. New vehicles start out available.
func (r *VehicleRepo) Create(ctx context.Context, v *model.Vehicle) error {
	if v.Status == "" {
		v.Status = model.VehicleAvailable
	}
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO vehicles (license_plate, make, model, year, vehicle_type, status, capacity_kg, current_location_id, last_inspection_date) VALUES (?,?,?,?,?,?,?,?,?)",
		v.LicensePlate, v.Make, v.Model, v.Year, v.VehicleType, v.Status, v.CapacityKg, v.CurrentLocationID, v.LastInspectionDate)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return ErrPlateExists
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	v.ID = uint64(id)
	return nil
}

// GetByID fetches a vehicle by id.
func (r *VehicleRepo) GetByID(ctx context.Context, id uint64) (*model.Vehicle, error) {
	v, err := scanVehicle(r.DB.QueryRowContext(ctx,
		"SELECT "+vehicleColumns+" FROM vehicles WHERE vehicle_id=?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrVehicleNotFound
	}
	return v, err
}

// List returns one page of vehicles ordered by id plus the total count.
// An optional status filter narrows the page and the count together so
// the pagination window matches the filtered list.
func (r *VehicleRepo) List(ctx context.Context, page, perPage int, status string) ([]*model.Vehicle, int, error) {
	where := ""
	countArgs := []interface{}{}
	if status != "" {
		where = " WHERE status = ?"
		countArgs = append(countArgs, status)
	}

	var total int
	if err := r.DB.QueryRowContext(ctx, "SELECT COUNT(*) FROM vehicles"+where, countArgs...).Scan(&total); err != nil {
		return nil, 0, err
	}
	page = pagination.ClampPage(page, total, perPage)
	args := append(countArgs, perPage, pagination.Offset(page, perPage))
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+vehicleColumns+" FROM vehicles"+where+" ORDER BY vehicle_id LIMIT ? OFFSET ?", args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := make([]*model.Vehicle, 0, perPage)
	for rows.Next() {
		v, err := scanVehicle(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// Update modifies a vehicle's descriptive fields.
func (r *VehicleRepo) Update(ctx context.Context, v *model.Vehicle) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE vehicles SET license_plate=?, make=?, model=?, year=?, vehicle_type=?, status=?, capacity_kg=?, current_location_id=?, last_inspection_date=? WHERE vehicle_id=?",
		v.LicensePlate, v.Make, v.Model, v.Year, v.VehicleType, v.Status, v.CapacityKg, v.CurrentLocationID, v.LastInspectionDate, v.ID)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return ErrPlateExists
		}
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrVehicleNotFound
	}
	return nil
}

// SetStatus flips a vehicle's status, used by shipment assignment.
func (r *VehicleRepo) SetStatus(ctx context.Context, id uint64, status string) error {
	res, err := r.DB.ExecContext(ctx, "UPDATE vehicles SET status=? WHERE vehicle_id=?", status, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrVehicleNotFound
	}
	return nil
}

// Delete removes a vehicle unless shipments still reference it.
func (r *VehicleRepo) Delete(ctx context.Context, id uint64) error {
	var refs int
	if err := r.DB.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM shipments WHERE vehicle_id=?", id).Scan(&refs); err != nil {
		return err
	}
	if refs > 0 {
		return ErrConflict
	}
	res, err := r.DB.ExecContext(ctx, "DELETE FROM vehicles WHERE vehicle_id=?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrVehicleNotFound
	}
	return nil
}
