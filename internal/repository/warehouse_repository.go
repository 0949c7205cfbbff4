package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/eztransport/logistics-api/internal/model"
	"github.com/eztransport/logistics-api/internal/pagination"
)

// ErrWarehouseNotFound is returned when a warehouse lookup misses.
var ErrWarehouseNotFound = errors.New("warehouse not found")

// WarehouseRow is a warehouse joined with its location's display
// fields and optional manager name.
type WarehouseRow struct {
	model.Warehouse
	City        string
	State       string
	ManagerName *string
}

// WarehouseRepo provides access to the warehouses table.
type WarehouseRepo struct{ DB *sql.DB }

func NewWarehouseRepo(db *sql.DB) *WarehouseRepo { return &WarehouseRepo{DB: db} }

const warehouseSelect = `SELECT w.warehouse_id, w.location_id, w.warehouse_name, w.capacity, w.current_occupancy,
       w.manager_id, w.operating_hours, l.city, l.state, u.full_name
FROM warehouses w
JOIN locations l ON l.location_id = w.location_id
LEFT JOIN users u ON u.user_id = w.manager_id`

func scanWarehouse(row interface{ Scan(...interface{}) error }) (*WarehouseRow, error) {
	var w WarehouseRow
	err := row.Scan(&w.ID, &w.LocationID, &w.WarehouseName, &w.Capacity, &w.CurrentOccupancy,
		&w.ManagerID, &w.OperatingHours, &w.City, &w.State, &w.ManagerName)
	if err != nil {
		return nil, err
	}
	return &w, nil
}

// Create inserts a warehouse.
func (r *WarehouseRepo) Create(ctx context.Context, w *model.Warehouse) error {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO warehouses (location_id, warehouse_name, capacity, current_occupancy, manager_id, operating_hours) VALUES (?,?,?,?,?,?)",
		w.LocationID, w.WarehouseName, w.Capacity, w.CurrentOccupancy, w.ManagerID, w.OperatingHours)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	w.ID = uint64(id)
	return nil
}

// GetByID fetches a warehouse with its joined display fields.
func (r *WarehouseRepo) GetByID(ctx context.Context, id uint64) (*WarehouseRow, error) {
	w, err := scanWarehouse(r.DB.QueryRowContext(ctx, warehouseSelect+" WHERE w.warehouse_id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrWarehouseNotFound
	}
	return w, err
}

// List returns one page of warehouses ordered by id plus the total count.
func (r *WarehouseRepo) List(ctx context.Context, page, perPage int) ([]*WarehouseRow, int, error) {
	var total int
	if err := r.DB.QueryRowContext(ctx, "SELECT COUNT(*) FROM warehouses").Scan(&total); err != nil {
		return nil, 0, err
	}
	page = pagination.ClampPage(page, total, perPage)
	rows, err := r.DB.QueryContext(ctx, warehouseSelect+" ORDER BY w.warehouse_id LIMIT ? OFFSET ?",
		perPage, pagination.Offset(page, perPage))
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := make([]*WarehouseRow, 0, perPage)
	for rows.Next() {
		w, err := scanWarehouse(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, w)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// Update modifies a warehouse.
func (r *WarehouseRepo) Update(ctx context.Context, w *model.Warehouse) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE warehouses SET location_id=?, warehouse_name=?, capacity=?, current_occupancy=?, manager_id=?, operating_hours=? WHERE warehouse_id=?",
		w.LocationID, w.WarehouseName, w.Capacity, w.CurrentOccupancy, w.ManagerID, w.OperatingHours, w.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrWarehouseNotFound
	}
	return nil
}

// Delete removes a warehouse. Warehouses are leaves in the schema, so
// no reference checks are needed.
func (r *WarehouseRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM warehouses WHERE warehouse_id=?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrWarehouseNotFound
	}
	return nil
}
