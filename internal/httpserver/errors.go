package httpserver

import (
	"errors"
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/labstack/echo/v4"

	"github.com/moham3d/clinic-records/internal/repo"
	"github.com/moham3d/clinic-records/internal/service"
)

type errorBody struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Details map[string]string `json:"details,omitempty"`
	Rules   []string          `json:"rules,omitempty"`
}

func respondError(c echo.Context, status int, code, message string) error {
	return c.JSON(status, echo.Map{"error": errorBody{Code: code, Message: message}})
}

func respondValidation(c echo.Context, details map[string]string) error {
	return c.JSON(http.StatusBadRequest, echo.Map{"error": errorBody{
		Code:    "VALIDATION_ERROR",
		Message: "validation failed",
		Details: details,
	}})
}

// validationDetails flattens ozzo's per-field errors into plain
// strings for the response body.
func validationDetails(err error) map[string]string {
	var ve validation.Errors
	if !errors.As(err, &ve) {
		return map[string]string{"body": err.Error()}
	}
	details := make(map[string]string, len(ve))
	for field, ferr := range ve {
		details[field] = ferr.Error()
	}
	return details
}

// mapAuthError translates the service error taxonomy into the HTTP
// contract. Unknown errors become opaque 500s; internals never leak.
func mapAuthError(c echo.Context, err error) error {
	var ve *service.ValidationError
	if errors.As(err, &ve) {
		return respondValidation(c, ve.Fields)
	}

	var weak *service.WeakPasswordError
	if errors.As(err, &weak) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": errorBody{
			Code:    "WEAK_PASSWORD",
			Message: "password does not meet strength requirements",
			Rules:   weak.Violations,
		}})
	}

	switch {
	case errors.Is(err, service.ErrInvalidCredentials):
		return respondError(c, http.StatusUnauthorized, "INVALID_CREDENTIALS", "invalid username or password")
	case errors.Is(err, service.ErrAccountInactive):
		return respondError(c, http.StatusUnauthorized, "ACCOUNT_INACTIVE", "account is inactive")
	case errors.Is(err, service.ErrInvalidRefresh):
		return respondError(c, http.StatusUnauthorized, "INVALID_REFRESH_TOKEN", "invalid or expired refresh token")
	case errors.Is(err, service.ErrTokenReuse):
		return respondError(c, http.StatusUnauthorized, "TOKEN_REUSE_DETECTED", "refresh token already used")
	case errors.Is(err, service.ErrPasswordMismatch):
		return respondError(c, http.StatusBadRequest, "PASSWORD_MISMATCH", "password confirmation does not match")
	case errors.Is(err, service.ErrInvalidCurrentPassword):
		return respondError(c, http.StatusBadRequest, "INVALID_CURRENT_PASSWORD", "current password is incorrect")
	case errors.Is(err, service.ErrPasswordReuse):
		return respondError(c, http.StatusBadRequest, "PASSWORD_REUSE", "new password must differ from the current one")
	case errors.Is(err, repo.ErrDuplicateUsername):
		return respondError(c, http.StatusConflict, "DUPLICATE_USERNAME", "username already taken")
	case errors.Is(err, repo.ErrDuplicateEmail):
		return respondError(c, http.StatusConflict, "DUPLICATE_EMAIL", "email already taken")
	case errors.Is(err, service.ErrNotFound), errors.Is(err, repo.ErrUserNotFound):
		return respondError(c, http.StatusNotFound, "NOT_FOUND", "resource not found")
	default:
		return respondError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
	}
}

func mapRecordError(c echo.Context, err error) error {
	var ve *service.ValidationError
	if errors.As(err, &ve) {
		return respondValidation(c, ve.Fields)
	}

	switch {
	case errors.Is(err, repo.ErrPatientNotFound),
		errors.Is(err, repo.ErrVisitNotFound),
		errors.Is(err, repo.ErrTemplateNotFound):
		return respondError(c, http.StatusNotFound, "NOT_FOUND", "resource not found")
	case errors.Is(err, repo.ErrDuplicateMRN):
		return respondError(c, http.StatusConflict, "DUPLICATE_MRN", "mrn already registered")
	case errors.Is(err, repo.ErrDuplicateTemplateName):
		return respondError(c, http.StatusConflict, "DUPLICATE_TEMPLATE", "template name already taken")
	default:
		return respondError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
	}
}
