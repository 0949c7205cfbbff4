package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/eztransport/logistics-api/internal/config"
	"github.com/eztransport/logistics-api/internal/model"
	"github.com/eztransport/logistics-api/internal/policy"
	"github.com/eztransport/logistics-api/internal/repository"
	"github.com/eztransport/logistics-api/internal/session"
	"github.com/eztransport/logistics-api/internal/utils"
)

// AuthHandler bundles dependencies for the auth endpoints. The
// Authenticator performs the credential check; Sessions persists the
// resolved principal so it survives server restarts and is available
// to /v1/me without a user query.
type AuthHandler struct {
	Cfg           config.Config
	Users         *repository.UserRepo
	Tokens        *repository.TokenRepo
	Authenticator session.Authenticator
	Sessions      session.Backend
}

func NewAuthHandler(cfg config.Config, users *repository.UserRepo, tokens *repository.TokenRepo,
	auth session.Authenticator, sessions session.Backend) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Users: users, Tokens: tokens, Authenticator: auth, Sessions: sessions}
}

// DBAuthenticator checks credentials against the users table and
// resolves the role-specific profile key for the principal.
type DBAuthenticator struct {
	Users     *repository.UserRepo
	Drivers   *repository.DriverRepo
	Customers *repository.CustomerRepo
}

// Authenticate implements session.Authenticator. Unknown users and
// wrong passwords both map to the same rejection message so the login
// form cannot be used to probe for accounts.
func (a *DBAuthenticator) Authenticate(ctx context.Context, username, password string) (*session.Principal, error) {
	u, err := a.Users.GetByUsername(ctx, username)
	if errors.Is(err, repository.ErrUserNotFound) {
		return nil, &session.AuthenticationError{Message: "invalid username or password"}
	}
	if err != nil {
		return nil, err
	}
	if !utils.VerifyPassword(u.PasswordHash, password) {
		return nil, &session.AuthenticationError{Message: "invalid username or password"}
	}

	p := &session.Principal{
		ID:       u.ID,
		Username: u.Username,
		FullName: u.FullName,
		Role:     policy.ParseRole(u.Role),
	}
	switch p.Role {
	case policy.RoleDriver:
		if d, err := a.Drivers.GetByUserID(ctx, u.ID); err == nil {
			p.DriverID = &d.ID
		}
	case policy.RoleCustomer:
		if cu, err := a.Customers.GetByUserID(ctx, u.ID); err == nil {
			p.CustomerID = &cu.ID
		}
	}
	return p, nil
}

// principalKey is the session-backend key the principal blob of one
// user is stored under.
func principalKey(userID uint64) string {
	return fmt.Sprintf("principal:%d", userID)
}

// ----- DTOs -----

type registerReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Role     string `json:"role"` // admin | driver | customer
}
type loginReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
}
type refreshReq struct {
	RefreshToken string `json:"refresh_token"`
}

type tokenPart struct {
	Token   string    `json:"token"`
	Expires time.Time `json:"expires"`
}
type authResp struct {
	User    *session.Principal `json:"user"`
	Access  tokenPart          `json:"access"`
	Refresh tokenPart          `json:"refresh"`
}

// Register creates a user account and returns a token pair immediately.
// Registration only creates the base account; driver and customer
// profiles are attached through their admin screens.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Username = strings.ToLower(strings.TrimSpace(req.Username))
	if req.Username == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "username/password required"})
	}
	role := policy.ParseRole(req.Role)
	if role == policy.RoleUnknown {
		role = policy.RoleCustomer
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u := &model.User{
		Username: req.Username,
		FullName: strings.TrimSpace(req.FullName),
		Email:    strings.TrimSpace(req.Email),
		Phone:    strings.TrimSpace(req.Phone),
		Role:     role.String(),
	}
	uid, err := h.Users.Create(ctx, u, req.Password, h.Cfg.BcryptCost)
	if err != nil {
		if errors.Is(err, repository.ErrUsernameExists) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "username already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create user failed"})
	}

	p := &session.Principal{ID: uid, Username: u.Username, FullName: u.FullName, Role: role}
	return h.issueTokens(c, ctx, p, http.StatusCreated)
}

// Login verifies the credentials and returns a fresh token pair.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if strings.TrimSpace(req.Username) == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "username/password required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	p, err := h.Authenticator.Authenticate(ctx, req.Username, req.Password)
	if err != nil {
		var authErr *session.AuthenticationError
		if errors.As(err, &authErr) || errors.Is(err, session.ErrAuthenticationFailed) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return h.issueTokens(c, ctx, p, http.StatusOK)
}

// issueTokens signs an access token, stores a refresh token hash,
// persists the principal blob and writes the auth response.
func (h *AuthHandler) issueTokens(c echo.Context, ctx context.Context, p *session.Principal, status int) error {
	access, err := utils.NewAccessToken(h.Cfg.JWTSecret, p.ID, p.Role.String(), h.Cfg.AccessTTLMin)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue access failed"})
	}
	refresh, err := utils.NewRefreshToken(h.Cfg.RefreshTTLDays)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue refresh failed"})
	}
	if err := h.Tokens.StoreRefresh(ctx, p.ID, utils.HashRefreshRaw(refresh.Raw), refresh.Exp); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "save refresh failed"})
	}
	if h.Sessions != nil {
		if raw, err := json.Marshal(p); err == nil {
			_ = h.Sessions.Set(ctx, principalKey(p.ID), raw)
		}
	}

	return c.JSON(status, authResp{
		User:    p,
		Access:  tokenPart{Token: access.Token, Expires: access.Exp},
		Refresh: tokenPart{Token: refresh.Raw, Expires: refresh.Exp}, // raw back to client
	})
}

// Refresh validates a refresh token by hash, revokes it and issues a
// new pair (token rotation).
func (h *AuthHandler) Refresh(c echo.Context) error {
	var req refreshReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.RefreshToken) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "refresh_token required"})
	}
	hash := utils.HashRefreshRaw(strings.TrimSpace(req.RefreshToken))

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	userID, err := h.Tokens.ValidateRefresh(ctx, hash)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid refresh"})
	}
	_ = h.Tokens.RevokeByHash(ctx, hash)

	p, err := h.loadPrincipal(ctx, userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load user failed"})
	}
	return h.issueTokens(c, ctx, p, http.StatusOK)
}

// Logout revokes the presented refresh token, or all of the caller's
// tokens when called with a bearer token and no body, and clears the
// persisted principal blob.
func (h *AuthHandler) Logout(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	var req refreshReq
	_ = c.Bind(&req)
	refreshToken := strings.TrimSpace(req.RefreshToken)

	if refreshToken != "" {
		hash := utils.HashRefreshRaw(refreshToken)
		userID, err := h.Tokens.ValidateRefresh(ctx, hash)
		if err != nil {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid refresh token"})
		}
		if err := h.Tokens.RevokeByHash(ctx, hash); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "logout failed"})
		}
		h.clearPrincipal(ctx, userID)
		return c.NoContent(http.StatusNoContent)
	}

	// No refresh token in the body; fall back to the bearer identity
	// and revoke every session of that user.
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "provide Authorization header or refresh_token"})
	}
	if err := h.Tokens.RevokeAllForUser(ctx, uid); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "logout failed"})
	}
	h.clearPrincipal(ctx, uid)
	return c.NoContent(http.StatusNoContent)
}

// Me returns the caller's principal. The persisted session blob is
// preferred; a cold cache falls back to the database.
func (h *AuthHandler) Me(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	p, err := h.loadPrincipal(ctx, uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load user failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"user": p})
}

type updateProfileReq struct {
	FullName *string `json:"full_name"`
	Email    *string `json:"email"`
	Phone    *string `json:"phone"`
}

// UpdateProfile updates the caller's contact fields and refreshes the
// persisted principal blob so /v1/me reflects the change immediately.
func (h *AuthHandler) UpdateProfile(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req updateProfileReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetByID(ctx, uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load user failed"})
	}
	fullName, email, phone := u.FullName, u.Email, u.Phone
	if req.FullName != nil {
		fullName = strings.TrimSpace(*req.FullName)
	}
	if req.Email != nil {
		email = strings.TrimSpace(*req.Email)
	}
	if req.Phone != nil {
		phone = strings.TrimSpace(*req.Phone)
	}
	if err := h.Users.UpdateProfile(ctx, uid, fullName, email, phone); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}

	p, err := h.loadPrincipal(ctx, uid)
	if err == nil {
		p.FullName = fullName
		if h.Sessions != nil {
			if raw, err := json.Marshal(p); err == nil {
				_ = h.Sessions.Set(ctx, principalKey(uid), raw)
			}
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"user": p})
}

type changePasswordReq struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// ChangePassword verifies the current password, stores the new hash
// and revokes every outstanding refresh token of the caller.
func (h *AuthHandler) ChangePassword(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req changePasswordReq
	if err := c.Bind(&req); err != nil || req.CurrentPassword == "" || req.NewPassword == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "current_password and new_password required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetByID(ctx, uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load user failed"})
	}
	if !utils.VerifyPassword(u.PasswordHash, req.CurrentPassword) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "current password is wrong"})
	}
	if err := h.Users.UpdatePassword(ctx, uid, req.NewPassword, h.Cfg.BcryptCost); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	// Old sessions die with the old password.
	_ = h.Tokens.RevokeAllForUser(ctx, uid)
	return c.NoContent(http.StatusNoContent)
}

// loadPrincipal restores a principal from the persisted session blob,
// which carries the role-specific profile key, and falls back to the
// users table when the blob is gone.
func (h *AuthHandler) loadPrincipal(ctx context.Context, userID uint64) (*session.Principal, error) {
	if h.Sessions != nil {
		if raw, err := h.Sessions.Get(ctx, principalKey(userID)); err == nil && len(raw) > 0 {
			var p session.Principal
			if err := json.Unmarshal(raw, &p); err == nil {
				return &p, nil
			}
		}
	}
	u, err := h.Users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &session.Principal{
		ID:       u.ID,
		Username: u.Username,
		FullName: u.FullName,
		Role:     policy.ParseRole(u.Role),
	}, nil
}

func (h *AuthHandler) clearPrincipal(ctx context.Context, userID uint64) {
	if h.Sessions != nil {
		_ = h.Sessions.Delete(ctx, principalKey(userID))
	}
}
