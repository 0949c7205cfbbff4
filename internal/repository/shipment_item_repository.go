package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/eztransport/logistics-api/internal/model"
	"github.com/eztransport/logistics-api/internal/pagination"
)

// ErrItemNotFound is returned when a shipment item lookup misses.
var ErrItemNotFound = errors.New("shipment item not found")

// ItemRow is a shipment item joined with its parent's tracking number
// for the item list screen.
type ItemRow struct {
	model.ShipmentItem
	TrackingNumber string
}

// ItemRepo provides access to the shipment_items table. Every mutation
// recomputes the parent shipment's totals in the same transaction so
// the stored aggregates never drift from the items.
type ItemRepo struct{ DB *sql.DB }

func NewItemRepo(db *sql.DB) *ItemRepo { return &ItemRepo{DB: db} }

const itemSelect = `SELECT i.item_id, i.shipment_id, i.description, i.quantity, i.weight, i.volume,
       i.item_value, i.is_hazardous, i.is_fragile, s.tracking_number
FROM shipment_items i JOIN shipments s ON s.shipment_id = i.shipment_id`

func scanItem(row interface{ Scan(...interface{}) error }) (*ItemRow, error) {
	var it ItemRow
	err := row.Scan(&it.ID, &it.ShipmentID, &it.Description, &it.Quantity, &it.Weight, &it.Volume,
		&it.ItemValue, &it.IsHazardous, &it.IsFragile, &it.TrackingNumber)
	if err != nil {
		return nil, err
	}
	return &it, nil
}

// refreshTotals re-derives the parent shipment's aggregates inside the
// mutation's transaction.
func refreshTotals(ctx context.Context, tx *sql.Tx, shipmentID uint64) error {
	_, err := tx.ExecContext(ctx,
		`UPDATE shipments SET
    total_weight   = COALESCE((SELECT SUM(weight * quantity) FROM shipment_items WHERE shipment_id=?), 0),
    total_volume   = COALESCE((SELECT SUM(volume * quantity) FROM shipment_items WHERE shipment_id=?), 0),
    shipment_value = COALESCE((SELECT SUM(item_value * quantity) FROM shipment_items WHERE shipment_id=?), 0)
WHERE shipment_id=?`,
		shipmentID, shipmentID, shipmentID, shipmentID)
	return err
}

// Create inserts an item and refreshes its shipment's totals.
func (r *ItemRepo) Create(ctx context.Context, it *model.ShipmentItem) error {
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
		"INSERT INTO shipment_items (shipment_id, description, quantity, weight, volume, item_value, is_hazardous, is_fragile) VALUES (?,?,?,?,?,?,?,?)",
		it.ShipmentID, it.Description, it.Quantity, it.Weight, it.Volume, it.ItemValue, it.IsHazardous, it.IsFragile)
	if err != nil {
		return err
	}
	var id int64
	if id, err = res.LastInsertId(); err != nil {
		return err
	}
	it.ID = uint64(id)
	err = refreshTotals(ctx, tx, it.ShipmentID)
	return err
}

// GetByID fetches an item with its parent's tracking number.
func (r *ItemRepo) GetByID(ctx context.Context, id uint64) (*ItemRow, error) {
	it, err := scanItem(r.DB.QueryRowContext(ctx, itemSelect+" WHERE i.item_id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrItemNotFound
	}
	return it, err
}

// List returns one page of items plus the total count. A non-nil
// shipmentID narrows the list to one shipment.
func (r *ItemRepo) List(ctx context.Context, page, perPage int, shipmentID *uint64) ([]*ItemRow, int, error) {
	where := ""
	countArgs := []interface{}{}
	if shipmentID != nil {
		where = " WHERE i.shipment_id = ?"
		countArgs = append(countArgs, *shipmentID)
	}

	var total int
	if err := r.DB.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM shipment_items i"+where, countArgs...).Scan(&total); err != nil {
		return nil, 0, err
	}
	page = pagination.ClampPage(page, total, perPage)
	args := append(countArgs, perPage, pagination.Offset(page, perPage))
	rows, err := r.DB.QueryContext(ctx, itemSelect+where+" ORDER BY i.item_id LIMIT ? OFFSET ?", args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := make([]*ItemRow, 0, perPage)
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, it)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// Update rewrites an item and refreshes its shipment's totals.
func (r *ItemRepo) Update(ctx context.Context, it *model.ShipmentItem) error {
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

	_, err = tx.ExecContext(ctx,
		"UPDATE shipment_items SET description=?, quantity=?, weight=?, volume=?, item_value=?, is_hazardous=?, is_fragile=? WHERE item_id=?",
		it.Description, it.Quantity, it.Weight, it.Volume, it.ItemValue, it.IsHazardous, it.IsFragile, it.ID)
	if err != nil {
		return err
	}
	err = refreshTotals(ctx, tx, it.ShipmentID)
	return err
}

// Delete removes an item and refreshes its shipment's totals.
func (r *ItemRepo) Delete(ctx context.Context, id uint64) error {
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
		"SELECT shipment_id FROM shipment_items WHERE item_id=?", id).Scan(&shipmentID)
	if errors.Is(err, sql.ErrNoRows) {
		err = ErrItemNotFound
		return err
	}
	if err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx, "DELETE FROM shipment_items WHERE item_id=?", id); err != nil {
		return err
	}
	err = refreshTotals(ctx, tx, shipmentID)
	return err
}
