package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/moham3d/clinic-records/internal/logging"
	"github.com/moham3d/clinic-records/internal/middleware"
	"github.com/moham3d/clinic-records/internal/service"
	"github.com/moham3d/clinic-records/internal/transport"
)

type AuthHTTP struct {
	Svc *service.AuthService
}

func (h *AuthHTTP) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_login")

	var req transport.LoginRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("login_error", "status", 400, "error", err)
		return respondError(c, http.StatusBadRequest, "INVALID_BODY", "invalid body")
	}
	if err := req.Validate(); err != nil {
		l.Warn("login_error", "status", 400, "error", err)
		return respondValidation(c, validationDetails(err))
	}

	res, err := h.Svc.Login(ctx, req.Username, req.Password)
	if err != nil {
		return mapAuthError(c, err)
	}

	return c.JSON(http.StatusOK, transport.LoginResponse{
		User: res.User,
		TokenPairResponse: transport.TokenPairResponse{
			AccessToken:  res.AccessToken,
			RefreshToken: res.RefreshToken,
			ExpiresIn:    res.ExpiresIn,
		},
	})
}

func (h *AuthHTTP) Refresh(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_refresh")

	var req transport.RefreshRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, http.StatusBadRequest, "INVALID_BODY", "invalid body")
	}
	if req.RefreshToken == "" {
		l.Warn("refresh_error", "status", 400, "reason", "missing token")
		return respondError(c, http.StatusBadRequest, "MISSING_REFRESH_TOKEN", "refresh token is required")
	}

	res, err := h.Svc.Refresh(ctx, req.RefreshToken)
	if err != nil {
		return mapAuthError(c, err)
	}

	return c.JSON(http.StatusOK, transport.TokenPairResponse{
		AccessToken:  res.AccessToken,
		RefreshToken: res.RefreshToken,
		ExpiresIn:    res.ExpiresIn,
	})
}

func (h *AuthHTTP) Logout(c echo.Context) error {
	ctx := c.Request().Context()

	var req transport.LogoutRequest
	// The body is optional; an empty one means "this session only".
	_ = c.Bind(&req)

	userID := middleware.UserIDFrom(c)
	sessionID := middleware.SessionIDFrom(c)

	if err := h.Svc.Logout(ctx, userID, sessionID, req.AllSessions); err != nil {
		return mapAuthError(c, err)
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "logged out"})
}

func (h *AuthHTTP) Register(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_register")

	var req transport.RegisterRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("register_error", "status", 400, "error", err)
		return respondError(c, http.StatusBadRequest, "INVALID_BODY", "invalid body")
	}
	if err := req.Validate(); err != nil {
		l.Warn("register_error", "status", 400, "error", err)
		return respondValidation(c, validationDetails(err))
	}

	user, err := h.Svc.Register(ctx, req)
	if err != nil {
		return mapAuthError(c, err)
	}

	return c.JSON(http.StatusCreated, user)
}

func (h *AuthHTTP) Profile(c echo.Context) error {
	ctx := c.Request().Context()

	user, err := h.Svc.Profile(ctx, middleware.UserIDFrom(c))
	if err != nil {
		return mapAuthError(c, err)
	}

	return c.JSON(http.StatusOK, user)
}

func (h *AuthHTTP) UpdateProfile(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_update_profile")

	var req transport.UpdateProfileRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, http.StatusBadRequest, "INVALID_BODY", "invalid body")
	}
	if err := req.Validate(); err != nil {
		l.Warn("update_profile_error", "status", 400, "error", err)
		return respondValidation(c, validationDetails(err))
	}

	user, err := h.Svc.UpdateProfile(ctx, middleware.UserIDFrom(c), req)
	if err != nil {
		return mapAuthError(c, err)
	}

	return c.JSON(http.StatusOK, user)
}

func (h *AuthHTTP) ChangePassword(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_change_password")

	var req transport.ChangePasswordRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, http.StatusBadRequest, "INVALID_BODY", "invalid body")
	}
	if err := req.Validate(); err != nil {
		l.Warn("change_password_error", "status", 400, "error", err)
		return respondValidation(c, validationDetails(err))
	}

	if err := h.Svc.ChangePassword(ctx, middleware.UserIDFrom(c), req); err != nil {
		return mapAuthError(c, err)
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "password changed"})
}
