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

type VisitHTTP struct {
	Svc *service.VisitService
}

func (h *VisitHTTP) Create(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "visit_create")

	var req transport.CreateVisitRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, http.StatusBadRequest, "INVALID_BODY", "invalid body")
	}
	if err := req.Validate(); err != nil {
		l.Warn("visit_create_error", "status", 400, "error", err)
		return respondValidation(c, validationDetails(err))
	}

	visit, err := h.Svc.Create(ctx, middleware.UserIDFrom(c), req)
	if err != nil {
		return mapRecordError(c, err)
	}

	return c.JSON(http.StatusCreated, visit)
}

func (h *VisitHTTP) Get(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return respondError(c, http.StatusBadRequest, "INVALID_ID", "id must be a UUID")
	}

	visit, err := h.Svc.Get(ctx, id)
	if err != nil {
		return mapRecordError(c, err)
	}

	return c.JSON(http.StatusOK, visit)
}

func (h *VisitHTTP) ListByPatient(c echo.Context) error {
	ctx := c.Request().Context()

	patientID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return respondError(c, http.StatusBadRequest, "INVALID_ID", "id must be a UUID")
	}

	page := parseIntDefault(c.QueryParam("page"), 1)
	size := parseIntDefault(c.QueryParam("size"), defaultPageSize)
	offset, limit := paginate(page, size)

	total, items, err := h.Svc.ListByPatient(ctx, patientID, offset, limit)
	if err != nil {
		return mapRecordError(c, err)
	}

	return c.JSON(http.StatusOK, pagedResponse(items, page, limit, offset, total))
}

func (h *VisitHTTP) Update(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "visit_update")

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return respondError(c, http.StatusBadRequest, "INVALID_ID", "id must be a UUID")
	}

	var req transport.UpdateVisitRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, http.StatusBadRequest, "INVALID_BODY", "invalid body")
	}
	if err := req.Validate(); err != nil {
		l.Warn("visit_update_error", "status", 400, "error", err)
		return respondValidation(c, validationDetails(err))
	}

	visit, err := h.Svc.Update(ctx, id, req)
	if err != nil {
		return mapRecordError(c, err)
	}

	return c.JSON(http.StatusOK, visit)
}
