package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/eztransport/logistics-api/internal/model"
	"github.com/eztransport/logistics-api/internal/pagination"
)

// ErrLocationNotFound is returned when a location lookup misses.
var ErrLocationNotFound = errors.New("location not found")

// LocationRepo provides access to the locations table. Locations are
// referenced from shipments, routes, warehouses and tracking events, so
// Delete checks all four before removing a row.
type LocationRepo struct{ DB *sql.DB }

func NewLocationRepo(db *sql.DB) *LocationRepo { return &LocationRepo{DB: db} }

const locationColumns = "location_id, address, city, state, country, postal_code, latitude, longitude, location_type"

func scanLocation(row interface{ Scan(...interface{}) error }) (*model.Location, error) {
	var l model.Location
	err := row.Scan(&l.ID, &l.Address, &l.City, &l.State, &l.Country, &l.PostalCode,
		&l.Latitude, &l.Longitude, &l.LocationType)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

// Create inserts a location.
func (r *LocationRepo) Create(ctx context.Context, l *model.Location) error {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO locations (address, city, state, country, postal_code, latitude, longitude, location_type) VALUES (?,?,?,?,?,?,?,?)",
		l.Address, l.City, l.State, l.Country, l.PostalCode, l.Latitude, l.Longitude, l.LocationType)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	l.ID = uint64(id)
	return nil
}

// GetByID fetches a location by id.
func (r *LocationRepo) GetByID(ctx context.Context, id uint64) (*model.Location, error) {
	l, err := scanLocation(r.DB.QueryRowContext(ctx,
		"SELECT "+locationColumns+" FROM locations WHERE location_id=?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrLocationNotFound
	}
	return l, err
}

// List returns one page of locations ordered by id plus the total count.
func (r *LocationRepo) List(ctx context.Context, page, perPage int) ([]*model.Location, int, error) {
	var total int
	if err := r.DB.QueryRowContext(ctx, "SELECT COUNT(*) FROM locations").Scan(&total); err != nil {
		return nil, 0, err
	}
	page = pagination.ClampPage(page, total, perPage)
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+locationColumns+" FROM locations ORDER BY location_id LIMIT ? OFFSET ?",
		perPage, pagination.Offset(page, perPage))
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := make([]*model.Location, 0, perPage)
	for rows.Next() {
		l, err := scanLocation(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, l)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// ListAll returns every location ordered by city, for origin and
// destination pickers that need the full set.
func (r *LocationRepo) ListAll(ctx context.Context) ([]*model.Location, error) {
	rows, err := r.DB.QueryContext(ctx, "SELECT "+locationColumns+" FROM locations ORDER BY city, state")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Location
	for rows.Next() {
		l, err := scanLocation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

// Update modifies a location.
func (r *LocationRepo) Update(ctx context.Context, l *model.Location) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE locations SET address=?, city=?, state=?, country=?, postal_code=?, latitude=?, longitude=?, location_type=? WHERE location_id=?",
		l.Address, l.City, l.State, l.Country, l.PostalCode, l.Latitude, l.Longitude, l.LocationType, l.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrLocationNotFound
	}
	return nil
}

// SetType updates only the location_type column. Warehouse creation
// uses this to promote the chosen site to type "warehouse".
func (r *LocationRepo) SetType(ctx context.Context, id uint64, locationType string) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE locations SET location_type=? WHERE location_id=?", locationType, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrLocationNotFound
	}
	return nil
}

// Delete removes a location unless shipments, routes, warehouses or
// tracking events still reference it.
func (r *LocationRepo) Delete(ctx context.Context, id uint64) error {
	const refQuery = `SELECT
    (SELECT COUNT(*) FROM shipments WHERE origin_id=? OR destination_id=?) +
    (SELECT COUNT(*) FROM routes WHERE origin_id=? OR destination_id=?) +
    (SELECT COUNT(*) FROM warehouses WHERE location_id=?) +
    (SELECT COUNT(*) FROM tracking_events WHERE location_id=?)`
	var refs int
	if err := r.DB.QueryRowContext(ctx, refQuery, id, id, id, id, id, id).Scan(&refs); err != nil {
		return err
	}
	if refs > 0 {
		return ErrConflict
	}
	res, err := r.DB.ExecContext(ctx, "DELETE FROM locations WHERE location_id=?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrLocationNotFound
	}
	return nil
}
