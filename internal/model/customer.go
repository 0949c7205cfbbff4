package model

// Customer links a user account to its billing profile in the
// `customers` table. A customer owns shipments and is the actor
// behind the customer role.
//
// Fields:
//  ID           – primary key identifier.
//  UserID       – reference to the backing users row.
//  CompanyName  – registered company name.
//  TaxID        – tax identifier used on invoices.
//  CreditLimit  – maximum open credit in the account currency.
//  PaymentTerms – free-form terms (e.g. "net 30"), nullable.
type Customer struct {
	ID           uint64  // customers.customer_id
	UserID       uint64  // customers.user_id
	CompanyName  string  // customers.company_name
	TaxID        string  // customers.tax_id
	CreditLimit  float64 // customers.credit_limit
	PaymentTerms *string // customers.payment_terms (nullable)
}
