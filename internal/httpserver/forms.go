package httpserver

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/moham3d/clinic-records/internal/logging"
	"github.com/moham3d/clinic-records/internal/middleware"
	"github.com/moham3d/clinic-records/internal/service"
	"github.com/moham3d/clinic-records/internal/transport"
)

type FormHTTP struct {
	Svc *service.FormService
}

func (h *FormHTTP) CreateTemplate(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "form_template_create")

	var req transport.CreateFormTemplateRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, http.StatusBadRequest, "INVALID_BODY", "invalid body")
	}
	if err := req.Validate(); err != nil {
		l.Warn("form_template_create_error", "status", 400, "error", err)
		return respondValidation(c, validationDetails(err))
	}

	template, err := h.Svc.CreateTemplate(ctx, req)
	if err != nil {
		return mapRecordError(c, err)
	}

	return c.JSON(http.StatusCreated, template)
}

func (h *FormHTTP) GetTemplate(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return respondError(c, http.StatusBadRequest, "INVALID_ID", "id must be a UUID")
	}

	template, err := h.Svc.GetTemplate(ctx, id)
	if err != nil {
		return mapRecordError(c, err)
	}

	return c.JSON(http.StatusOK, template)
}

func (h *FormHTTP) ListTemplates(c echo.Context) error {
	ctx := c.Request().Context()

	templates, err := h.Svc.ListTemplates(ctx)
	if err != nil {
		return mapRecordError(c, err)
	}

	return c.JSON(http.StatusOK, templates)
}

func (h *FormHTTP) Submit(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "form_submit")

	var req transport.SubmitFormRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, http.StatusBadRequest, "INVALID_BODY", "invalid body")
	}
	if err := req.Validate(); err != nil {
		l.Warn("form_submit_error", "status", 400, "error", err)
		return respondValidation(c, validationDetails(err))
	}

	submission, err := h.Svc.Submit(ctx, middleware.UserIDFrom(c), req)
	if err != nil {
		return mapRecordError(c, err)
	}

	return c.JSON(http.StatusCreated, submission)
}

func (h *FormHTTP) ListSubmissionsByPatient(c echo.Context) error {
	ctx := c.Request().Context()

	patientID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return respondError(c, http.StatusBadRequest, "INVALID_ID", "id must be a UUID")
	}

	submissions, err := h.Svc.ListSubmissionsByPatient(ctx, patientID)
	if err != nil {
		return mapRecordError(c, err)
	}

	return c.JSON(http.StatusOK, submissions)
}
