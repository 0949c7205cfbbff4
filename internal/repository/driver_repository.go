package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/eztransport/logistics-api/internal/model"
	"github.com/eztransport/logistics-api/internal/pagination"
)

// ErrDriverNotFound is returned when a driver lookup misses.
var ErrDriverNotFound = errors.New("driver not found")

// DriverRow is a driver joined with its backing user's contact fields.
type DriverRow struct {
	model.Driver
	FullName string
	Email    string
	Phone    string
}

// DriverRepo provides access to the drivers table.
type DriverRepo struct{ DB *sql.DB }

func NewDriverRepo(db *sql.DB) *DriverRepo { return &DriverRepo{DB: db} }

const driverSelect = `SELECT d.driver_id, d.user_id, d.license_number, d.license_expiry, d.medical_check_date,
       d.training_certification, d.status, u.full_name, u.email, u.phone
FROM drivers d JOIN users u ON u.user_id = d.user_id`

func scanDriver(row interface{ Scan(...interface{}) error }) (*DriverRow, error) {
	var d DriverRow
	err := row.Scan(&d.ID, &d.UserID, &d.LicenseNumber, &d.LicenseExpiry, &d.MedicalCheckDate,
		&d.TrainingCertification, &d.Status, &d.FullName, &d.Email, &d.Phone)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// Create inserts a driver profile for an existing user. New drivers
// start out available.
func (r *DriverRepo) Create(ctx context.Context, d *model.Driver) error {
	if d.Status == "" {
		d.Status = model.DriverAvailable
	}
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO drivers (user_id, license_number, license_expiry, medical_check_date, training_certification, status) VALUES (?,?,?,?,?,?)",
		d.UserID, d.LicenseNumber, d.LicenseExpiry, d.MedicalCheckDate, d.TrainingCertification, d.Status)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	d.ID = uint64(id)
	return nil
}

// GetByID fetches a driver with its user contact fields.
func (r *DriverRepo) GetByID(ctx context.Context, id uint64) (*DriverRow, error) {
	d, err := scanDriver(r.DB.QueryRowContext(ctx, driverSelect+" WHERE d.driver_id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrDriverNotFound
	}
	return d, err
}

// GetByUserID resolves the driver profile behind a user account. Used
// at login to scope the driver role to its assigned shipments.
func (r *DriverRepo) GetByUserID(ctx context.Context, userID uint64) (*DriverRow, error) {
	d, err := scanDriver(r.DB.QueryRowContext(ctx, driverSelect+" WHERE d.user_id = ?", userID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrDriverNotFound
	}
	return d, err
}

// List returns one page of drivers ordered by id plus the total count.
func (r *DriverRepo) List(ctx context.Context, page, perPage int) ([]*DriverRow, int, error) {
	var total int
	if err := r.DB.QueryRowContext(ctx, "SELECT COUNT(*) FROM drivers").Scan(&total); err != nil {
		return nil, 0, err
	}
	page = pagination.ClampPage(page, total, perPage)
	rows, err := r.DB.QueryContext(ctx, driverSelect+" ORDER BY d.driver_id LIMIT ? OFFSET ?",
		perPage, pagination.Offset(page, perPage))
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := make([]*DriverRow, 0, perPage)
	for rows.Next() {
		d, err := scanDriver(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// ListAvailable returns drivers currently free for assignment.
func (r *DriverRepo) ListAvailable(ctx context.Context) ([]*DriverRow, error) {
	rows, err := r.DB.QueryContext(ctx, driverSelect+" WHERE d.status = ? ORDER BY d.driver_id", model.DriverAvailable)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*DriverRow
	for rows.Next() {
		d, err := scanDriver(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// Update modifies the license and certification fields of a driver.
func (r *DriverRepo) Update(ctx context.Context, d *model.Driver) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE drivers SET license_number=?, license_expiry=?, medical_check_date=?, training_certification=?, status=? WHERE driver_id=?",
		d.LicenseNumber, d.LicenseExpiry, d.MedicalCheckDate, d.TrainingCertification, d.Status, d.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrDriverNotFound
	}
	return nil
}

// SetStatus flips a driver's status, used by shipment assignment.
func (r *DriverRepo) SetStatus(ctx context.Context, id uint64, status string) error {
	res, err := r.DB.ExecContext(ctx, "UPDATE drivers SET status=? WHERE driver_id=?", status, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrDriverNotFound
	}
	return nil
}

// Delete removes a driver unless shipments still reference it.
func (r *DriverRepo) Delete(ctx context.Context, id uint64) error {
	var refs int
	if err := r.DB.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM shipments WHERE driver_id=?", id).Scan(&refs); err != nil {
		return err
	}
	if refs > 0 {
		return ErrConflict
	}
	res, err := r.DB.ExecContext(ctx, "DELETE FROM drivers WHERE driver_id=?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrDriverNotFound
	}
	return nil
}
