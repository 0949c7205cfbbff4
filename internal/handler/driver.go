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

type driverResp struct {
	ID                    uint64  `json:"id"`
	UserID                uint64  `json:"user_id"`
	FullName              string  `json:"full_name"`
	Email                 string  `json:"email"`
	Phone                 string  `json:"phone"`
	LicenseNumber         string  `json:"license_number"`
	LicenseExpiry         string  `json:"license_expiry"`
	MedicalCheckDate      *string `json:"medical_check_date"`
	TrainingCertification string  `json:"training_certification"`
	Status                string  `json:"status"`
}

func toDriverResp(d *repository.DriverRow) driverResp {
	return driverResp{
		ID:                    d.ID,
		UserID:                d.UserID,
		FullName:              d.FullName,
		Email:                 d.Email,
		Phone:                 d.Phone,
		LicenseNumber:         d.LicenseNumber,
		LicenseExpiry:         d.LicenseExpiry,
		MedicalCheckDate:      d.MedicalCheckDate,
		TrainingCertification: d.TrainingCertification,
		Status:                d.Status,
	}
}

type createDriverReq struct {
	Username              string  `json:"username"`
	Password              string  `json:"password"`
	FullName              string  `json:"full_name"`
	Email                 string  `json:"email"`
	Phone                 string  `json:"phone"`
	LicenseNumber         string  `json:"license_number"`
	LicenseExpiry         string  `json:"license_expiry"`
	MedicalCheckDate      *string `json:"medical_check_date"`
	TrainingCertification string  `json:"training_certification"`
}

// CreateDriver creates a driver account: the backing user row with the
// driver role plus the license profile.
func (h *AdminHandler) CreateDriver(c echo.Context) error {
	var req createDriverReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if strings.TrimSpace(req.Username) == "" || req.Password == "" || strings.TrimSpace(req.LicenseNumber) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "username, password and license_number are required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u := &model.User{
		Username: req.Username,
		FullName: strings.TrimSpace(req.FullName),
		Email:    strings.TrimSpace(req.Email),
		Phone:    strings.TrimSpace(req.Phone),
		Role:     policy.RoleDriver.String(),
	}
	uid, err := h.Users.Create(ctx, u, req.Password, h.Cfg.BcryptCost)
	if err != nil {
		if errors.Is(err, repository.ErrUsernameExists) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "username already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create user failed"})
	}

	d := &model.Driver{
		UserID:                uid,
		LicenseNumber:         strings.TrimSpace(req.LicenseNumber),
		LicenseExpiry:         strings.TrimSpace(req.LicenseExpiry),
		MedicalCheckDate:      req.MedicalCheckDate,
		TrainingCertification: strings.TrimSpace(req.TrainingCertification),
	}
	if err := h.Drivers.Create(ctx, d); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create driver failed"})
	}
	row, err := h.Drivers.GetByID(ctx, d.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load driver failed"})
	}
	return c.JSON(http.StatusCreated, toDriverResp(row))
}

// ListDrivers returns one page of drivers in the uniform envelope. An
// available=true query narrows the page to drivers free for
// assignment; that variant is unpaginated because it feeds a picker.
func (h *AdminHandler) ListDrivers(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if c.QueryParam("available") == "true" {
		rows, err := h.Drivers.ListAvailable(ctx)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
		}
		items := make([]driverResp, 0, len(rows))
		for _, r := range rows {
			items = append(items, toDriverResp(r))
		}
		return c.JSON(http.StatusOK, listResponse(items, len(items), 1, len(items)))
	}

	page, perPage := pageParams(c)
	rows, total, err := h.Drivers.List(ctx, page, perPage)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	items := make([]driverResp, 0, len(rows))
	for _, r := range rows {
		items = append(items, toDriverResp(r))
	}
	return c.JSON(http.StatusOK, listResponse(items, total, page, perPage))
}

// GetDriver returns one driver.
func (h *AdminHandler) GetDriver(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	row, err := h.Drivers.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrDriverNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "driver not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, toDriverResp(row))
}

type updateDriverReq struct {
	FullName              *string `json:"full_name"`
	Email                 *string `json:"email"`
	Phone                 *string `json:"phone"`
	LicenseNumber         *string `json:"license_number"`
	LicenseExpiry         *string `json:"license_expiry"`
	MedicalCheckDate      *string `json:"medical_check_date"`
	TrainingCertification *string `json:"training_certification"`
	Status                *string `json:"status"`
}

// UpdateDriver applies a partial update to a driver and its backing
// user contact fields.
func (h *AdminHandler) UpdateDriver(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req updateDriverReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Status != nil {
		switch *req.Status {
		case model.DriverAvailable, model.DriverAssigned, model.DriverInactive:
		default:
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid status"})
		}
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	cur, err := h.Drivers.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrDriverNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "driver not found"})
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

	upd := cur.Driver
	if req.LicenseNumber != nil {
		upd.LicenseNumber = strings.TrimSpace(*req.LicenseNumber)
	}
	if req.LicenseExpiry != nil {
		upd.LicenseExpiry = strings.TrimSpace(*req.LicenseExpiry)
	}
	if req.MedicalCheckDate != nil {
		upd.MedicalCheckDate = req.MedicalCheckDate
	}
	if req.TrainingCertification != nil {
		upd.TrainingCertification = strings.TrimSpace(*req.TrainingCertification)
	}
	if req.Status != nil {
		upd.Status = *req.Status
	}
	if err := h.Drivers.Update(ctx, &upd); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}

	row, err := h.Drivers.GetByID(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load driver failed"})
	}
	return c.JSON(http.StatusOK, toDriverResp(row))
}

// DeleteDriver removes a driver. Drivers referenced by shipments
// cannot be deleted.
func (h *AdminHandler) DeleteDriver(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	switch err := h.Drivers.Delete(ctx, id); {
	case err == nil:
		return c.NoContent(http.StatusNoContent)
	case errors.Is(err, repository.ErrConflict):
		return c.JSON(http.StatusConflict, echo.Map{"error": "driver has shipments"})
	case errors.Is(err, repository.ErrDriverNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "driver not found"})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
}
