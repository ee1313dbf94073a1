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

type PatientHTTP struct {
	Svc *service.PatientService
}

func (h *PatientHTTP) Create(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "patient_create")

	var req transport.CreatePatientRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, http.StatusBadRequest, "INVALID_BODY", "invalid body")
	}
	if err := req.Validate(); err != nil {
		l.Warn("patient_create_error", "status", 400, "error", err)
		return respondValidation(c, validationDetails(err))
	}

	patient, err := h.Svc.Create(ctx, middleware.UserIDFrom(c), req)
	if err != nil {
		return mapRecordError(c, err)
	}

	return c.JSON(http.StatusCreated, patient)
}

func (h *PatientHTTP) Get(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return respondError(c, http.StatusBadRequest, "INVALID_ID", "id must be a UUID")
	}

	patient, err := h.Svc.Get(ctx, id)
	if err != nil {
		return mapRecordError(c, err)
	}

	return c.JSON(http.StatusOK, patient)
}

func (h *PatientHTTP) List(c echo.Context) error {
	ctx := c.Request().Context()

	page := parseIntDefault(c.QueryParam("page"), 1)
	size := parseIntDefault(c.QueryParam("size"), defaultPageSize)
	offset, limit := paginate(page, size)

	total, items, err := h.Svc.List(ctx, offset, limit)
	if err != nil {
		return mapRecordError(c, err)
	}

	return c.JSON(http.StatusOK, pagedResponse(items, page, limit, offset, total))
}

func (h *PatientHTTP) Search(c echo.Context) error {
	ctx := c.Request().Context()

	query := c.QueryParam("q")
	if query == "" {
		return respondError(c, http.StatusBadRequest, "MISSING_QUERY", "q is required")
	}

	page := parseIntDefault(c.QueryParam("page"), 1)
	size := parseIntDefault(c.QueryParam("size"), defaultPageSize)
	offset, limit := paginate(page, size)

	total, items, err := h.Svc.Search(ctx, query, offset, limit)
	if err != nil {
		logging.FromContext(ctx).Error("patient_search_error", "error", err)
		return respondError(c, http.StatusInternalServerError, "SEARCH_ERROR", "search unavailable")
	}

	return c.JSON(http.StatusOK, pagedResponse(items, page, limit, offset, total))
}

func (h *PatientHTTP) Update(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "patient_update")

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return respondError(c, http.StatusBadRequest, "INVALID_ID", "id must be a UUID")
	}

	var req transport.UpdatePatientRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, http.StatusBadRequest, "INVALID_BODY", "invalid body")
	}
	if err := req.Validate(); err != nil {
		l.Warn("patient_update_error", "status", 400, "error", err)
		return respondValidation(c, validationDetails(err))
	}

	patient, err := h.Svc.Update(ctx, middleware.UserIDFrom(c), id, req)
	if err != nil {
		return mapRecordError(c, err)
	}

	return c.JSON(http.StatusOK, patient)
}

func (h *PatientHTTP) Delete(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return respondError(c, http.StatusBadRequest, "INVALID_ID", "id must be a UUID")
	}

	if err := h.Svc.Delete(ctx, middleware.UserIDFrom(c), id); err != nil {
		return mapRecordError(c, err)
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "patient deleted"})
}
