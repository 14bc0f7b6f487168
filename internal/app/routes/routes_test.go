package routes

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/juniu86/rr-guanabara/internal/domain/models"
	"github.com/juniu86/rr-guanabara/internal/domain/services"
	"github.com/juniu86/rr-guanabara/internal/domain/services/container"
	"github.com/juniu86/rr-guanabara/internal/infrastructure/config"
	"github.com/juniu86/rr-guanabara/internal/infrastructure/database"
	"github.com/juniu86/rr-guanabara/internal/test/testdb"
	"github.com/juniu86/rr-guanabara/pkg/logger"
)

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Error   string          `json:"error"`
	Data    json.RawMessage `json:"data"`
}

type testServer struct {
	t      *testing.T
	router *gin.Engine
	db     *gorm.DB
	fx     *testdb.Fixture
	tokens map[models.Role]string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)
	logger.SetOutput(io.Discard)

	db := testdb.New(t)
	fx := testdb.Seed(t, db)
	cfg := &config.Config{
		DeletePassword:    "apagar123",
		MaxPhotoBytes:     1 << 20,
		JWTSecretKey:      "route-test-secret",
		JWTExpiry:         time.Hour,
		SessionCookieName: "rr_session",
		CORSAllowedOrigin: "http://localhost:3000",
		ReportTimezone:    "America/Sao_Paulo",
	}
	c, err := container.NewServiceContainer(container.Dependencies{Pool: database.NewPoolFromDB(db), Config: cfg})
	require.NoError(t, err)

	auth := c.GetService("auth").(services.InterfaceAuthService)
	tokens := map[models.Role]string{}
	for _, u := range []*models.User{&fx.Admin, &fx.RRAdmin, &fx.Tecnico, &fx.Guanabara} {
		token, err := auth.GenerateToken(u)
		require.NoError(t, err)
		tokens[u.Role] = token
	}

	return &testServer{t: t, router: SetupRouter(c), db: db, fx: fx, tokens: tokens}
}

// do sends a request as role; an empty role sends it anonymously.
func (s *testServer) do(method, path string, role models.Role, body interface{}) (*httptest.ResponseRecorder, envelope) {
	s.t.Helper()
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(s.t, err)
		reader = bytes.NewReader(payload)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if role != "" {
		req.Header.Set("Authorization", "Bearer "+s.tokens[role])
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	var env envelope
	if strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") {
		require.NoError(s.t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	}
	return w, env
}

func TestPingAndMetrics(t *testing.T) {
	s := newTestServer(t)

	w, env := s.do(http.MethodGet, "/api/ping", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 100000, env.Code)

	w, _ = s.do(http.MethodGet, "/api/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w, _ = s.do(http.MethodGet, "/metrics", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `rr_http_requests_total{method="GET",route="/api/ping",status="200"} 1`)
}

func TestAuthRequired(t *testing.T) {
	s := newTestServer(t)

	w, env := s.do(http.MethodGet, "/api/stations", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "UNAUTHORIZED", env.Error)

	w, env = s.do(http.MethodGet, "/api/auth/me", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, env.Data)

	w, env = s.do(http.MethodGet, "/api/stations", models.RoleGuanabara, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	var stations []models.Station
	require.NoError(t, json.Unmarshal(env.Data, &stations))
	require.Len(t, stations, 1)
	assert.Equal(t, "Padre Miguel", stations[0].Name)

	w, env = s.do(http.MethodGet, "/api/stations/999", models.RoleGuanabara, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "NOT_FOUND", env.Error)
}

func TestLoginCookieAndLogout(t *testing.T) {
	s := newTestServer(t)
	hash, err := bcryptHash("s3nha")
	require.NoError(t, err)
	require.NoError(t, s.db.Create(&models.User{Username: "maria", Name: "Maria", Role: models.RoleTecnico, PasswordHash: hash}).Error)

	w, env := s.do(http.MethodPost, "/api/auth/login", "", map[string]string{"username": "maria", "password": "errada"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "UNAUTHORIZED", env.Error)

	w, _ = s.do(http.MethodPost, "/api/auth/login", "", map[string]string{"username": "maria", "password": "s3nha"})
	require.Equal(t, http.StatusOK, w.Code)
	var session *http.Cookie
	for _, c := range w.Result().Cookies() {
		if c.Name == "rr_session" {
			session = c
		}
	}
	require.NotNil(t, session)
	assert.True(t, session.HttpOnly)

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.AddCookie(session)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"username":"maria"`)

	w, _ = s.do(http.MethodPost, "/api/auth/logout", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Set-Cookie"), "rr_session=;")
}

func createMaintenance(t *testing.T, s *testServer, role models.Role) uint {
	t.Helper()
	w, env := s.do(http.MethodPost, "/api/maintenances", role, map[string]interface{}{
		"stationId":        s.fx.Station.ID,
		"preventiveNumber": "PM-2026-07",
		"date":             "2026-01-27",
	})
	require.Equal(t, http.StatusCreated, w.Code, string(env.Data))
	var created struct {
		ID uint `json:"id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &created))
	require.Positive(t, created.ID)
	return created.ID
}

func TestMaintenanceFlow(t *testing.T) {
	s := newTestServer(t)

	w, env := s.do(http.MethodPost, "/api/maintenances", models.RoleGuanabara, map[string]interface{}{
		"stationId": s.fx.Station.ID, "preventiveNumber": "PM-1", "date": "2026-01-27",
	})
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "FORBIDDEN", env.Error)

	id := createMaintenance(t, s, models.RoleTecnico)

	w, _ = s.do(http.MethodPost, fmt.Sprintf("/api/maintenances/%d/checklist-items", id), models.RoleTecnico, map[string]interface{}{
		"items": []map[string]interface{}{
			{"itemNumber": 1, "equipmentName": "Canaleta", "status": "confere"},
			{"itemNumber": 2, "equipmentName": "Bico de abastecimento", "status": "realizar_troca", "correctiveAction": "Trocar bico"},
		},
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w, env = s.do(http.MethodGet, fmt.Sprintf("/api/maintenances/%d/checklist-items", id), models.RoleGuanabara, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var items []models.ChecklistItem
	require.NoError(t, json.Unmarshal(env.Data, &items))
	require.Len(t, items, 2)

	png := base64.StdEncoding.EncodeToString([]byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x02\x00\x00\x00"))
	w, _ = s.do(http.MethodPost, "/api/photos", models.RoleTecnico, map[string]interface{}{
		"checklistItemId": items[1].ID, "fileData": png, "fileName": "bico.png",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w, env = s.do(http.MethodGet, fmt.Sprintf("/api/maintenances/%d", id), models.RoleGuanabara, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var m models.Maintenance
	require.NoError(t, json.Unmarshal(env.Data, &m))
	require.Len(t, m.ChecklistItems, 2)
	assert.Len(t, m.ChecklistItems[1].Photos, 1)
	assert.Equal(t, models.MaintenanceDraft, m.Status)

	w, env = s.do(http.MethodPost, fmt.Sprintf("/api/maintenances/%d/pdf", id), models.RoleGuanabara, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(env.Data), `"fileKey":`)

	w, _ = s.do(http.MethodGet, fmt.Sprintf("/api/maintenances/%d/pdf", id), models.RoleGuanabara, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("%PDF-")))

	w, env = s.do(http.MethodGet, "/api/dashboard/quest-log", models.RoleGuanabara, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(env.Data), `"title":"Troca: Bico de abastecimento"`)
}

func TestStatusTransitions(t *testing.T) {
	s := newTestServer(t)
	id := createMaintenance(t, s, models.RoleTecnico)
	path := fmt.Sprintf("/api/maintenances/%d/status", id)

	w, env := s.do(http.MethodPut, path, models.RoleTecnico, map[string]string{"status": "completed"})
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "FORBIDDEN", env.Error)

	w, _ = s.do(http.MethodPut, path, models.RoleGuanabara, map[string]string{"status": "completed"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, _ = s.do(http.MethodPut, path, models.RoleRRAdmin, map[string]string{"status": "approved"})
	assert.Equal(t, http.StatusOK, w.Code)

	w, _ = s.do(http.MethodPut, path, models.RoleRRAdmin, map[string]string{"status": "draft"})
	assert.Equal(t, http.StatusOK, w.Code)

	w, _ = s.do(http.MethodPut, path, models.RoleAdmin, map[string]string{"status": "completed"})
	assert.Equal(t, http.StatusOK, w.Code)

	w, env = s.do(http.MethodPut, path, models.RoleAdmin, map[string]string{"status": "archived"})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "CONFLICT", env.Error)
}

func TestDeleteWithPassword(t *testing.T) {
	s := newTestServer(t)
	id := createMaintenance(t, s, models.RoleTecnico)
	path := fmt.Sprintf("/api/maintenances/%d", id)

	w, env := s.do(http.MethodDelete, path, models.RoleTecnico, map[string]string{"password": "errada"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "UNAUTHORIZED", env.Error)

	w, _ = s.do(http.MethodDelete, path, models.RoleTecnico, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = s.do(http.MethodDelete, path, models.RoleGuanabara, map[string]string{"password": "apagar123"})
	assert.Equal(t, http.StatusOK, w.Code)

	w, env = s.do(http.MethodGet, path, models.RoleTecnico, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "NOT_FOUND", env.Error)
}

func TestDashboardAndCatalog(t *testing.T) {
	s := newTestServer(t)

	w, env := s.do(http.MethodGet, "/api/dashboard/radar", models.RoleGuanabara, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var radar []map[string]interface{}
	require.NoError(t, json.Unmarshal(env.Data, &radar))
	assert.Len(t, radar, 5)

	w, _ = s.do(http.MethodGet, "/api/dashboard/stats?stationId=abc", models.RoleGuanabara, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, env = s.do(http.MethodGet, fmt.Sprintf("/api/dashboard/stats?stationId=%d", s.fx.Station.ID), models.RoleGuanabara, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(env.Data), `"totalMaintenances":0`)

	w, env = s.do(http.MethodGet, "/api/catalog/equipment", models.RoleTecnico, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var equipment []map[string]interface{}
	require.NoError(t, json.Unmarshal(env.Data, &equipment))
	assert.Len(t, equipment, 64)

	w, _ = s.do(http.MethodGet, "/api/catalog/equipment", models.RoleTecnico, nil)
	assert.Equal(t, "HIT", w.Header().Get("X-Cache"))
}

func TestDraftsWithoutRedis(t *testing.T) {
	s := newTestServer(t)

	w, env := s.do(http.MethodPut, "/api/drafts/new", models.RoleTecnico, map[string]interface{}{"preventiveNumber": "PM-9"})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "INTERNAL_SERVER_ERROR", env.Error)

	w, env = s.do(http.MethodGet, "/api/drafts/whatever", models.RoleTecnico, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "BAD_REQUEST", env.Error)
}

func bcryptHash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	return string(hash), err
}
