package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/eztransport/logistics-api/internal/model"
	"github.com/eztransport/logistics-api/internal/policy"
	"github.com/eztransport/logistics-api/internal/repository"
)

type customerResp struct {
	ID           uint64  `json:"id"`
	UserID       uint64  `json:"user_id"`
	FullName     string  `json:"full_name"`
	Email        string  `json:"email"`
	Phone        string  `json:"phone"`
	CompanyName  string  `json:"company_name"`
	TaxID        string  `json:"tax_id"`
	CreditLimit  float64 `json:"credit_limit"`
	PaymentTerms *string `json:"payment_terms"`
}

func toCustomerResp(c *repository.CustomerRow) customerResp {
	return customerResp{
		ID:           c.ID,
		UserID:       c.UserID,
		FullName:     c.FullName,
		Email:        c.Email,
		Phone:        c.Phone,
		CompanyName:  c.CompanyName,
		TaxID:        c.TaxID,
		CreditLimit:  c.CreditLimit,
		PaymentTerms: c.PaymentTerms,
	}
}

type createCustomerReq struct {
	Username     string  `json:"username"`
	Password     string  `json:"password"`
	FullName     string  `json:"full_name"`
	Email        string  `json:"email"`
	Phone        string  `json:"phone"`
	CompanyName  string  `json:"company_name"`
	TaxID        string  `json:"tax_id"`
	CreditLimit  float64 `json:"credit_limit"`
	PaymentTerms *string `json:"payment_terms"`
}

// CreateCustomer creates a customer account: the backing user row with
// the customer role plus the billing profile.
func (h *AdminHandler) CreateCustomer(c echo.Context) error {
	var req createCustomerReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if strings.TrimSpace(req.Username) == "" || req.Password == "" || strings.TrimSpace(req.CompanyName) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "username, password and company_name are required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u := &model.User{
		Username: req.Username,
		FullName: strings.TrimSpace(req.FullName),
		Email:    strings.TrimSpace(req.Email),
		Phone:    strings.TrimSpace(req.Phone),
		Role:     policy.RoleCustomer.String(),
	}
	uid, err := h.Users.Create(ctx, u, req.Password, h.Cfg.BcryptCost)
	if err != nil {
		if errors.Is(err, repository.ErrUsernameExists) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "username already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create user failed"})
	}

	cust := &model.Customer{
		UserID:       uid,
		CompanyName:  strings.TrimSpace(req.CompanyName),
		TaxID:        strings.TrimSpace(req.TaxID),
		CreditLimit:  req.CreditLimit,
		PaymentTerms: req.PaymentTerms,
	}
	if err := h.Customers.Create(ctx, cust); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create customer failed"})
	}
	row, err := h.Customers.GetByID(ctx, cust.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load customer failed"})
	}
	return c.JSON(http.StatusCreated, toCustomerResp(row))
}

// ListCustomers returns one page of customers in the uniform envelope.
func (h *AdminHandler) ListCustomers(c echo.Context) error {
	page, perPage := pageParams(c)
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	rows, total, err := h.Customers.List(ctx, page, perPage)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	items := make([]customerResp, 0, len(rows))
	for _, r := range rows {
		items = append(items, toCustomerResp(r))
	}
	return c.JSON(http.StatusOK, listResponse(items, total, page, perPage))
}

// GetCustomer returns one customer.
func (h *AdminHandler) GetCustomer(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	row, err := h.Customers.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrCustomerNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "customer not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, toCustomerResp(row))
}

type updateCustomerReq struct {
	FullName     *string  `json:"full_name"`
	Email        *string  `json:"email"`
	Phone        *string  `json:"phone"`
	CompanyName  *string  `json:"company_name"`
	TaxID        *string  `json:"tax_id"`
	CreditLimit  *float64 `json:"credit_limit"`
	PaymentTerms *string  `json:"payment_terms"`
}

// UpdateCustomer applies a partial update to a customer and its
// backing user contact fields. Omitted fields keep their values.
func (h *AdminHandler) UpdateCustomer(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req updateCustomerReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	cur, err := h.Customers.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrCustomerNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "customer not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}

	fullName, email, phone := cur.FullName, cur.Email, cur.Phone
	if req.FullName != nil {
		fullName = strings.TrimSpace(*req.FullName)
	}
	if req.Email != nil {
		email = strings.TrimSpace(*req.Email)
	}
	if req.Phone != nil {
		phone = strings.TrimSpace(*req.Phone)
	}
	if fullName != cur.FullName || email != cur.Email || phone != cur.Phone {
		if err := h.Users.UpdateProfile(ctx, cur.UserID, fullName, email, phone); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update user failed"})
		}
	}

	upd := cur.Customer
	if req.CompanyName != nil {
		upd.CompanyName = strings.TrimSpace(*req.CompanyName)
	}
	if req.TaxID != nil {
		upd.TaxID = strings.TrimSpace(*req.TaxID)
	}
	if req.CreditLimit != nil {
		upd.CreditLimit = *req.CreditLimit
	}
	if req.PaymentTerms != nil {
		upd.PaymentTerms = req.PaymentTerms
	}
	if err := h.Customers.Update(ctx, &upd); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}

	row, err := h.Customers.GetByID(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load customer failed"})
	}
	return c.JSON(http.StatusOK, toCustomerResp(row))
}

// DeleteCustomer removes a customer. Customers with shipments cannot
// be deleted.
func (h *AdminHandler) DeleteCustomer(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	switch err := h.Customers.Delete(ctx, id); {
	case err == nil:
		return c.NoContent(http.StatusNoContent)
	case errors.Is(err, repository.ErrConflict):
		return c.JSON(http.StatusConflict, echo.Map{"error": "customer has shipments"})
	case errors.Is(err, repository.ErrCustomerNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "customer not found"})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
}
