package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/eztransport/logistics-api/internal/model"
	"github.com/eztransport/logistics-api/internal/pagination"
)

// ErrCustomerNotFound is returned when a customer lookup misses.
var ErrCustomerNotFound = errors.New("customer not found")

// CustomerRow is a customer joined with its backing user's contact
// fields, as rendered on the customer list and detail screens.
type CustomerRow struct {
	model.Customer
	FullName string
	Email    string
	Phone    string
}

// CustomerRepo provides access to the customers table.
type CustomerRepo struct{ DB *sql.DB }

func NewCustomerRepo(db *sql.DB) *CustomerRepo { return &CustomerRepo{DB: db} }

const customerSelect = `SELECT c.customer_id, c.user_id, c.company_name, c.tax_id, c.credit_limit, c.payment_terms,
       u.full_name, u.email, u.phone
FROM customers c JOIN users u ON u.user_id = c.user_id`

func scanCustomer(row interface{ Scan(...interface{}) error }) (*CustomerRow, error) {
	var c CustomerRow
	err := row.Scan(&c.ID, &c.UserID, &c.CompanyName, &c.TaxID, &c.CreditLimit, &c.PaymentTerms,
		&c.FullName, &c.Email, &c.Phone)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// Create inserts a customer profile for an existing user.
func (r *CustomerRepo) Create(ctx context.Context, c *model.Customer) error {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO customers (user_id, company_name, tax_id, credit_limit, payment_terms) VALUES (?,?,?,?,?)",
		c.UserID, c.CompanyName, c.TaxID, c.CreditLimit, c.PaymentTerms)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	c.ID = uint64(id)
	return nil
}

// GetByID fetches a customer with its user contact fields.
func (r *CustomerRepo) GetByID(ctx context.Context, id uint64) (*CustomerRow, error) {
	c, err := scanCustomer(r.DB.QueryRowContext(ctx, customerSelect+" WHERE c.customer_id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrCustomerNotFound
	}
	return c, err
}

// GetByUserID resolves the customer profile behind a user account. Used
// at login to scope the customer role to its own shipments.
func (r *CustomerRepo) GetByUserID(ctx context.Context, userID uint64) (*CustomerRow, error) {
	c, err := scanCustomer(r.DB.QueryRowContext(ctx, customerSelect+" WHERE c.user_id = ?", userID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrCustomerNotFound
	}
	return c, err
}

// List returns one page of customers ordered by id together with the
// total row count for the pagination window.
func (r *CustomerRepo) List(ctx context.Context, page, perPage int) ([]*CustomerRow, int, error) {
	var total int
	if err := r.DB.QueryRowContext(ctx, "SELECT COUNT(*) FROM customers").Scan(&total); err != nil {
		return nil, 0, err
	}
	page = pagination.ClampPage(page, total, perPage)
	rows, err := r.DB.QueryContext(ctx, customerSelect+" ORDER BY c.customer_id LIMIT ? OFFSET ?",
		perPage, pagination.Offset(page, perPage))
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := make([]*CustomerRow, 0, perPage)
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// Update modifies the billing fields of a customer.
func (r *CustomerRepo) Update(ctx context.Context, c *model.Customer) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE customers SET company_name=?, tax_id=?, credit_limit=?, payment_terms=? WHERE customer_id=?",
		c.CompanyName, c.TaxID, c.CreditLimit, c.PaymentTerms, c.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrCustomerNotFound
	}
	return nil
}

// Delete removes a customer unless shipments still reference it, in
// which case ErrConflict is returned.
func (r *CustomerRepo) Delete(ctx context.Context, id uint64) error {
	var refs int
	if err := r.DB.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM shipments WHERE customer_id=?", id).Scan(&refs); err != nil {
		return err
	}
	if refs > 0 {
		return ErrConflict
	}
	res, err := r.DB.ExecContext(ctx, "DELETE FROM customers WHERE customer_id=?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrCustomerNotFound
	}
	return nil
}
