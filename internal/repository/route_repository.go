package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/eztransport/logistics-api/internal/model"
	"github.com/eztransport/logistics-api/internal/pagination"
)

// ErrRouteNotFound is returned when a route lookup misses.
var ErrRouteNotFound = errors.New("route not found")

// RouteRow is a route joined with its endpoint display labels.
type RouteRow struct {
	model.Route
	OriginCity       string
	OriginState      string
	DestinationCity  string
	DestinationState string
}

// RouteRepo provides access to the routes table.
type RouteRepo struct{ DB *sql.DB }

func NewRouteRepo(db *sql.DB) *RouteRepo { return &RouteRepo{DB: db} }

const routeSelect = `SELECT r.route_id, r.route_name, r.origin_id, r.destination_id, r.distance_km,
       r.estimated_duration_min, r.status, r.hazard_level,
       o.city, o.state, d.city, d.state
FROM routes r
JOIN locations o ON o.location_id = r.origin_id
JOIN locations d ON d.location_id = r.destination_id`

func scanRoute(row interface{ Scan(...interface{}) error }) (*RouteRow, error) {
	var rt RouteRow
	err := row.Scan(&rt.ID, &rt.RouteName, &rt.OriginID, &rt.DestinationID, &rt.DistanceKm,
		&rt.EstimatedDurationMin, &rt.Status, &rt.HazardLevel,
		&rt.OriginCity, &rt.OriginState, &rt.DestinationCity, &rt.DestinationState)
	if err != nil {
		return nil, err
	}
	return &rt, nil
}

// Create inserts a route.
func (r *RouteRepo) Create(ctx context.Context, rt *model.Route) error {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO routes (route_name, origin_id, destination_id, distance_km, estimated_duration_min, status, hazard_level) VALUES (?,?,?,?,?,?,?)",
		rt.RouteName, rt.OriginID, rt.DestinationID, rt.DistanceKm, rt.EstimatedDurationMin, rt.Status, rt.HazardLevel)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	rt.ID = uint64(id)
	return nil
}

// GetByID fetches a route with its endpoint labels.
func (r *RouteRepo) GetByID(ctx context.Context, id uint64) (*RouteRow, error) {
	rt, err := scanRoute(r.DB.QueryRowContext(ctx, routeSelect+" WHERE r.route_id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRouteNotFound
	}
	return rt, err
}

// List returns one page of routes ordered by id plus the total count.
func (r *RouteRepo) List(ctx context.Context, page, perPage int) ([]*RouteRow, int, error) {
	var total int
	if err := r.DB.QueryRowContext(ctx, "SELECT COUNT(*) FROM routes").Scan(&total); err != nil {
		return nil, 0, err
	}
	page = pagination.ClampPage(page, total, perPage)
	rows, err := r.DB.QueryContext(ctx, routeSelect+" ORDER BY r.route_id LIMIT ? OFFSET ?",
		perPage, pagination.Offset(page, perPage))
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := make([]*RouteRow, 0, perPage)
	for rows.Next() {
		rt, err := scanRoute(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, rt)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// Update modifies a route.
func (r *RouteRepo) Update(ctx context.Context, rt *model.Route) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE routes SET route_name=?, origin_id=?, destination_id=?, distance_km=?, estimated_duration_min=?, status=?, hazard_level=? WHERE route_id=?",
		rt.RouteName, rt.OriginID, rt.DestinationID, rt.DistanceKm, rt.EstimatedDurationMin, rt.Status, rt.HazardLevel, rt.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrRouteNotFound
	}
	return nil
}

// Delete removes a route unless shipments still reference it.
func (r *RouteRepo) Delete(ctx context.Context, id uint64) error {
	var refs int
	if err := r.DB.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM shipments WHERE route_id=?", id).Scan(&refs); err != nil {
		return err
	}
	if refs > 0 {
		return ErrConflict
	}
	res, err := r.DB.ExecContext(ctx, "DELETE FROM routes WHERE route_id=?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrRouteNotFound
	}
	return nil
}
