package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/moham3d/clinic-records/internal/audit"
	"github.com/moham3d/clinic-records/internal/hash"
	"github.com/moham3d/clinic-records/internal/middleware"
	"github.com/moham3d/clinic-records/internal/models"
	"github.com/moham3d/clinic-records/internal/repo"
	"github.com/moham3d/clinic-records/internal/search"
	"github.com/moham3d/clinic-records/internal/service"
	"github.com/moham3d/clinic-records/internal/tokens"
)

type testApp struct {
	e  *echo.Echo
	db *gorm.DB
}

func newTestApp(t *testing.T, ratePerMinute, burst int) *testApp {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Session{},
		&models.Patient{},
		&models.Visit{},
		&models.FormTemplate{},
		&models.FormSubmission{},
	))

	gormRepo := repo.GormRepo{DB: db}
	codec := tokens.NewCodec([]byte("test-access"), []byte("test-refresh"), 15*time.Minute, 7*24*time.Hour)
	producer := audit.NewProducer(nil, "")
	index := search.NewPatientIndex(nil, "")

	e := echo.New()
	Register(e, Deps{
		Auth:     &service.AuthService{Repo: gormRepo, Codec: codec, Audit: producer},
		Patients: &service.PatientService{Repo: gormRepo, Index: index, Audit: producer},
		Visits:   &service.VisitService{Repo: gormRepo},
		Forms:    &service.FormService{Repo: gormRepo},
		Guard:    middleware.NewAuthMiddleware(codec, &gormRepo),
		Limiter:  NewRateLimiter(ratePerMinute, burst),
	})

	return &testApp{e: e, db: db}
}

func (app *testApp) seedUser(t *testing.T, username, password, role string) *models.User {
	t.Helper()

	passwordHash, err := hash.HashPassword(password)
	require.NoError(t, err)

	user := &models.User{
		Username:     username,
		Email:        username + "@clinic.test",
		PasswordHash: passwordHash,
		Role:         role,
		FirstName:    "Test",
		LastName:     "User",
		IsActive:     true,
	}
	r := repo.GormRepo{DB: app.db}
	require.NoError(t, r.CreateUser(context.Background(), user))
	return user
}

func (app *testApp) request(method, path, token string, body any) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		b, _ := json.Marshal(body)
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	app.e.ServeHTTP(rec, req)
	return rec
}

func (app *testApp) login(t *testing.T, username, password string) (access, refresh string) {
	t.Helper()

	rec := app.request(http.MethodPost, "/api/auth/login", "", map[string]string{
		"username": username,
		"password": password,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		AccessToken  string `json:"access_token"`
		RefreshToken string `json:"refresh_token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.AccessToken)
	require.NotEmpty(t, resp.RefreshToken)
	return resp.AccessToken, resp.RefreshToken
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()

	var resp struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp.Error.Code
}

func TestLoginEndpoint_Success_WithSecurityHeaders(t *testing.T) {
	t.Parallel()

	app := newTestApp(t, 600, 100)
	app.seedUser(t, "drsmith", "Secret123!", models.RoleDoctor)

	rec := app.request(http.MethodPost, "/api/auth/login", "", map[string]string{
		"username": "drsmith",
		"password": "Secret123!",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
	assert.NotEmpty(t, rec.Header().Get("Strict-Transport-Security"))
	assert.NotEmpty(t, rec.Header().Get("Content-Security-Policy"))

	var resp struct {
		User struct {
			Username string `json:"username"`
			Role     string `json:"role"`
		} `json:"user"`
		ExpiresIn int `json:"expires_in"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "drsmith", resp.User.Username)
	assert.Equal(t, models.RoleDoctor, resp.User.Role)
	assert.Equal(t, 900, resp.ExpiresIn)

	// The digest never appears in any response.
	assert.NotContains(t, rec.Body.String(), "password_hash")
}

func TestLoginEndpoint_BadCredentials(t *testing.T) {
	t.Parallel()

	app := newTestApp(t, 600, 100)
	app.seedUser(t, "drsmith", "Secret123!", models.RoleDoctor)

	rec := app.request(http.MethodPost, "/api/auth/login", "", map[string]string{
		"username": "drsmith",
		"password": "WrongPass1!",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "INVALID_CREDENTIALS", errorCode(t, rec))

	rec = app.request(http.MethodPost, "/api/auth/login", "", map[string]string{
		"username": "nobody",
		"password": "WrongPass1!",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "INVALID_CREDENTIALS", errorCode(t, rec))
}

func TestLoginEndpoint_MissingFields(t *testing.T) {
	t.Parallel()

	app := newTestApp(t, 600, 100)

	rec := app.request(http.MethodPost, "/api/auth/login", "", map[string]string{"username": "drsmith"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "VALIDATION_ERROR", errorCode(t, rec))
}

func TestRefreshEndpoint_MissingToken(t *testing.T) {
	t.Parallel()

	app := newTestApp(t, 600, 100)

	rec := app.request(http.MethodPost, "/api/auth/refresh", "", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "MISSING_REFRESH_TOKEN", errorCode(t, rec))
}

func TestRefreshEndpoint_RotationAndReuse(t *testing.T) {
	t.Parallel()

	app := newTestApp(t, 600, 100)
	app.seedUser(t, "drsmith", "Secret123!", models.RoleDoctor)
	_, refresh := app.login(t, "drsmith", "Secret123!")

	rec := app.request(http.MethodPost, "/api/auth/refresh", "", map[string]string{"refresh_token": refresh})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var rotated struct {
		RefreshToken string `json:"refresh_token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rotated))
	assert.NotEqual(t, refresh, rotated.RefreshToken)

	// Replaying the consumed token trips reuse detection.
	rec = app.request(http.MethodPost, "/api/auth/refresh", "", map[string]string{"refresh_token": refresh})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "TOKEN_REUSE_DETECTED", errorCode(t, rec))

	// The rotated descendant died with the session.
	rec = app.request(http.MethodPost, "/api/auth/refresh", "", map[string]string{"refresh_token": rotated.RefreshToken})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "INVALID_REFRESH_TOKEN", errorCode(t, rec))
}

func TestLogoutEndpoint_InvalidatesAccessImmediately(t *testing.T) {
	t.Parallel()

	app := newTestApp(t, 600, 100)
	app.seedUser(t, "drsmith", "Secret123!", models.RoleDoctor)
	access, _ := app.login(t, "drsmith", "Secret123!")

	rec := app.request(http.MethodGet, "/api/auth/profile", access, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = app.request(http.MethodPost, "/api/auth/logout", access, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	// The unexpired access token is dead the moment the session is.
	rec = app.request(http.MethodGet, "/api/auth/profile", access, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRegisterEndpoint_Contract(t *testing.T) {
	t.Parallel()

	app := newTestApp(t, 600, 100)

	payload := map[string]string{
		"username":         "newnurse",
		"email":            "newnurse@clinic.test",
		"password":         "Secret123!",
		"confirm_password": "Secret123!",
		"role":             "nurse",
		"first_name":       "New",
		"last_name":        "Nurse",
	}

	rec := app.request(http.MethodPost, "/api/auth/register", "", payload)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.NotContains(t, rec.Body.String(), "password_hash")

	// Same username again conflicts.
	rec = app.request(http.MethodPost, "/api/auth/register", "", payload)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "DUPLICATE_USERNAME", errorCode(t, rec))

	// Same address with different casing is still taken.
	payload["username"] = "newnurse2"
	payload["email"] = "NewNurse@Clinic.Test"
	rec = app.request(http.MethodPost, "/api/auth/register", "", payload)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "DUPLICATE_EMAIL", errorCode(t, rec))

	// Unknown roles never pass validation.
	payload["username"] = "newnurse3"
	payload["email"] = "newnurse3@clinic.test"
	payload["role"] = "superuser"
	rec = app.request(http.MethodPost, "/api/auth/register", "", payload)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "VALIDATION_ERROR", errorCode(t, rec))
}

func TestChangePasswordEndpoint_ForcesRelogin(t *testing.T) {
	t.Parallel()

	app := newTestApp(t, 600, 100)
	app.seedUser(t, "drsmith", "Secret123!", models.RoleDoctor)
	access, _ := app.login(t, "drsmith", "Secret123!")

	rec := app.request(http.MethodPost, "/api/auth/change-password", access, map[string]string{
		"current_password":     "Secret123!",
		"new_password":         "Brand.New1",
		"confirm_new_password": "Brand.New1",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = app.request(http.MethodGet, "/api/auth/profile", access, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	app.login(t, "drsmith", "Brand.New1")
}

func TestChangePasswordEndpoint_WeakPasswordListsRules(t *testing.T) {
	t.Parallel()

	app := newTestApp(t, 600, 100)
	app.seedUser(t, "drsmith", "Secret123!", models.RoleDoctor)
	access, _ := app.login(t, "drsmith", "Secret123!")

	rec := app.request(http.MethodPost, "/api/auth/change-password", access, map[string]string{
		"current_password":     "Secret123!",
		"new_password":         "weak",
		"confirm_new_password": "weak",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var resp struct {
		Error struct {
			Code  string   `json:"code"`
			Rules []string `json:"rules"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "WEAK_PASSWORD", resp.Error.Code)
	assert.NotEmpty(t, resp.Error.Rules)
}

func TestPatientEndpoints_RoleGuards(t *testing.T) {
	t.Parallel()

	app := newTestApp(t, 600, 100)
	app.seedUser(t, "admin", "Secret123!", models.RoleAdmin)
	app.seedUser(t, "tech", "Secret123!", models.RoleTechnician)

	adminAccess, _ := app.login(t, "admin", "Secret123!")
	techAccess, _ := app.login(t, "tech", "Secret123!")

	rec := app.request(http.MethodPost, "/api/patients", adminAccess, map[string]string{
		"mrn":        "MRN-0001",
		"first_name": "Pat",
		"last_name":  "Doe",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var patient struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &patient))

	// Technicians read but never write patients.
	rec = app.request(http.MethodGet, "/api/patients/"+patient.ID, techAccess, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = app.request(http.MethodPost, "/api/patients", techAccess, map[string]string{
		"mrn":        "MRN-0002",
		"first_name": "Other",
		"last_name":  "Doe",
	})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// Deletion is admin-only.
	rec = app.request(http.MethodDelete, "/api/patients/"+patient.ID, techAccess, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	rec = app.request(http.MethodDelete, "/api/patients/"+patient.ID, adminAccess, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestLoginEndpoint_RateLimited(t *testing.T) {
	t.Parallel()

	app := newTestApp(t, 1, 2)

	var last *httptest.ResponseRecorder
	for range [5]struct{}{} {
		last = app.request(http.MethodPost, "/api/auth/login", "", map[string]string{
			"username": "drsmith",
			"password": "WrongPass1!",
		})
		if last.Code == http.StatusTooManyRequests {
			break
		}
	}

	require.Equal(t, http.StatusTooManyRequests, last.Code)
	assert.NotEmpty(t, last.Header().Get("Retry-After"))
	assert.Equal(t, "0", last.Header().Get("X-RateLimit-Remaining"))
}
