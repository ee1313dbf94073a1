package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/moham3d/clinic-records/internal/middleware"
	"github.com/moham3d/clinic-records/internal/models"
	"github.com/moham3d/clinic-records/internal/service"
)

// Deps carries everything the router needs; main builds it once.
type Deps struct {
	Auth     *service.AuthService
	Patients *service.PatientService
	Visits   *service.VisitService
	Forms    *service.FormService
	Guard    *middleware.AuthMiddleware
	Limiter  *RateLimiter
}

func Register(e *echo.Echo, d Deps) {
	e.Use(SecureHeaders)

	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
	})
	e.GET("/readyz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{"status": "ready"})
	})

	authH := &AuthHTTP{Svc: d.Auth}
	patientH := &PatientHTTP{Svc: d.Patients}
	visitH := &VisitHTTP{Svc: d.Visits}
	formH := &FormHTTP{Svc: d.Forms}

	api := e.Group("/api")

	// Credential endpoints sit behind the per-IP limiter; everything
	// after RequireAuth is already gated by a valid session.
	auth := api.Group("/auth")
	limited := auth.Group("", d.Limiter.Middleware())
	limited.POST("/login", authH.Login)
	limited.POST("/refresh", authH.Refresh)
	limited.POST("/register", authH.Register)

	auth.POST("/change-password", authH.ChangePassword,
		d.Limiter.Middleware(), d.Guard.RequireAuth)
	auth.POST("/logout", authH.Logout, d.Guard.RequireAuth)
	auth.GET("/profile", authH.Profile, d.Guard.RequireAuth)
	auth.PUT("/profile", authH.UpdateProfile, d.Guard.RequireAuth)

	patients := api.Group("/patients", d.Guard.RequireAuth)
	patients.POST("", patientH.Create, d.Guard.RequirePermission("patients:write"))
	patients.GET("", patientH.List, d.Guard.RequirePermission("patients:read"))
	patients.GET("/search", patientH.Search, d.Guard.RequirePermission("patients:read"))
	patients.GET("/:id", patientH.Get, d.Guard.RequirePermission("patients:read"))
	patients.PUT("/:id", patientH.Update, d.Guard.RequirePermission("patients:write"))
	patients.DELETE("/:id", patientH.Delete, d.Guard.RequireRoles(models.RoleAdmin))
	patients.GET("/:id/visits", visitH.ListByPatient, d.Guard.RequirePermission("visits:read"))
	patients.GET("/:id/forms", formH.ListSubmissionsByPatient, d.Guard.RequirePermission("forms:read"))

	visits := api.Group("/visits", d.Guard.RequireAuth)
	visits.POST("", visitH.Create, d.Guard.RequirePermission("visits:write"))
	visits.GET("/:id", visitH.Get, d.Guard.RequirePermission("visits:read"))
	visits.PUT("/:id", visitH.Update, d.Guard.RequirePermission("visits:write"))

	forms := api.Group("/forms", d.Guard.RequireAuth)
	forms.POST("/templates", formH.CreateTemplate,
		d.Guard.RequireRoles(models.RoleAdmin, models.RoleDoctor))
	forms.GET("/templates", formH.ListTemplates, d.Guard.RequirePermission("forms:read"))
	forms.GET("/templates/:id", formH.GetTemplate, d.Guard.RequirePermission("forms:read"))
	forms.POST("/submissions", formH.Submit, d.Guard.RequirePermission("forms:write"))
}
