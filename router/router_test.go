package router

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"erp-project/backend/auth"
	"erp-project/backend/config"
	"erp-project/backend/models"
	"erp-project/backend/services"
	"erp-project/backend/store"
	"erp-project/backend/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testSecret = "router-secret"
	rootEmail  = "root@example.com"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
}

type testServer struct {
	t       *testing.T
	handler http.Handler
	svc     *services.Services
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	cfg := &config.Config{
		StoreDriver:    config.DriverMemory,
		CORSOrigin:     "http://localhost:5173",
		MaxBodyBytes:   64 << 10,
		SuperuserEmail: rootEmail,
		ClerkJWTSecret: testSecret,
		Dashboard:      config.DefaultDashboard(),
	}
	stores := store.NewMemoryStores()
	svc := services.New(stores, cfg.Dashboard)

	keys, err := utils.NewTokenKeys("", testSecret)
	require.NoError(t, err)
	resolver := auth.NewResolver(auth.NewClerkClient(keys, "", "", nil), stores.Users, cfg.SuperuserEmail)

	return &testServer{t: t, handler: New(cfg, resolver, svc), svc: svc}
}

func (s *testServer) token(email string) string {
	s.t.Helper()
	token, err := utils.GenerateSessionToken([]byte(testSecret), "user_"+email, email, time.Hour)
	require.NoError(s.t, err)
	return token
}

func (s *testServer) grant(email string, role models.Role) string {
	s.t.Helper()
	_, err := s.svc.Users.Grant(context.Background(), email, role)
	require.NoError(s.t, err)
	return s.token(email)
}

func (s *testServer) do(method, path, token, body string) (*httptest.ResponseRecorder, envelope) {
	s.t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)

	var env envelope
	if rec.Body.Len() > 0 {
		require.NoError(s.t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	}
	return rec, env
}

var entityRoutes = []string{
	"/api/projects",
	"/api/tasks",
	"/api/sales-orders",
	"/api/purchase-orders",
	"/api/invoices",
	"/api/vendor-bills",
	"/api/expenses",
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	rec, env := s.do(http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, env.Success)
}

func TestDeleteUnknownIdIsNotFoundOnEveryRoute(t *testing.T) {
	s := newTestServer(t)
	root := s.token(rootEmail)

	for _, route := range entityRoutes {
		for _, id := range []string{"65f1c0ffee0000000000beef", "nope"} {
			rec, env := s.do(http.MethodDelete, route+"/"+id, root, "")
			assert.Equal(t, http.StatusNotFound, rec.Code, route)
			assert.False(t, env.Success, route)
			assert.NotEmpty(t, env.Message, route)
		}
	}
}

func TestCreateThenFetchRoundTrip(t *testing.T) {
	s := newTestServer(t)
	pm := s.grant("pm@example.com", models.RoleProjectManager)
	image := "data:image/jpeg;base64,/9j/4AAQSkZJRgABAQAAAQABAAD/2wBDAAgGBgcGBQgHBwcJCQgKDBQNDAsLDBkSEw8UHRofHh0aHBwgJC4nICIsIxwcKDcpLDAxNDQ0Hyc5PTgyPC4zNDL/wAALCAABAAEBAREA/8QAFAABAAAAAAAAAAAAAAAAAAAACf/EABQQAQAAAAAAAAAAAAAAAAAAAAD/2gAIAQEAAD8AKp//2Q=="

	body := `{"name":"Apollo","tags":["space","nasa"],"projectManager":"Ana","deadline":"2025-12-31","priority":"High","rating":3,"image":"` + image + `","assigneeImage":"` + image + `","description":"Moon"}`
	rec, env := s.do(http.MethodPost, "/api/projects", pm, body)
	require.Equal(t, http.StatusCreated, rec.Code, env.Message)
	require.True(t, env.Success)

	var created models.Project
	require.NoError(t, json.Unmarshal(env.Data, &created))

	rec, env = s.do(http.MethodGet, "/api/projects/"+created.ID.Hex(), pm, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var fetched map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &fetched))
	var submitted map[string]any
	require.NoError(t, json.Unmarshal([]byte(body), &submitted))
	for key, value := range submitted {
		assert.Equal(t, value, fetched[key], key)
	}
	assert.Equal(t, created.ID.Hex(), fetched["_id"])
	assert.NotContains(t, fetched, "id")
}

func TestAuthorizationFailures(t *testing.T) {
	s := newTestServer(t)
	viewer := s.grant("viewer@example.com", models.RoleUser)
	stranger := s.token("stranger@example.com")

	rec, env := s.do(http.MethodGet, "/api/projects", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, env.Success)

	rec, _ = s.do(http.MethodGet, "/api/projects", "not-a-jwt", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, env = s.do(http.MethodPost, "/api/projects", stranger, `{"name":"X"}`)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, env.Message, "not found in system")

	rec, env = s.do(http.MethodGet, "/api/tasks", stranger, "")
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, env.Message, "not found in system")

	rec, env = s.do(http.MethodPost, "/api/projects", viewer, `{"name":"X"}`)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.False(t, env.Success)

	rec, _ = s.do(http.MethodGet, "/api/projects", viewer, "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, _ = s.do(http.MethodGet, "/api/dashboard", viewer, "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, _ = s.do(http.MethodGet, "/api/admin/stats", viewer, "")
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestSuperuserPassesEveryGate(t *testing.T) {
	s := newTestServer(t)
	root := s.token(rootEmail)

	for _, route := range entityRoutes {
		rec, _ := s.do(http.MethodGet, route, root, "")
		assert.Equal(t, http.StatusOK, rec.Code, route)
	}
	for _, path := range []string{"/api/admin/stats", "/api/admin/all-data", "/api/admin/users", "/api/dashboard", "/api/users/me"} {
		rec, _ := s.do(http.MethodGet, path, root, "")
		assert.Equal(t, http.StatusOK, rec.Code, path)
	}
}

func TestOrderNumbering(t *testing.T) {
	s := newTestServer(t)
	sales := s.grant("sales@example.com", models.RoleSalesFinance)

	rec, env := s.do(http.MethodGet, "/api/sales-orders/next-number", sales, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"orderNumber":"1"}`, string(env.Data))

	rec, _ = s.do(http.MethodPost, "/api/sales-orders", sales, `{"orderNumber":"SO007","customer":"Acme"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	rec, _ = s.do(http.MethodPost, "/api/sales-orders", sales, `{"orderNumber":"3","customer":"Acme"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	_, env = s.do(http.MethodGet, "/api/sales-orders/next-number", sales, "")
	assert.JSONEq(t, `{"orderNumber":"8"}`, string(env.Data))

	rec, env = s.do(http.MethodPost, "/api/sales-orders", sales, `{"orderNumber":"SO007","customer":"Other"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.False(t, env.Success)
	assert.Equal(t, "Order number already exists", env.Message)
}

func TestValidationErrorsAreBadRequest(t *testing.T) {
	s := newTestServer(t)
	member := s.grant("member@example.com", models.RoleTeamMember)

	rec, env := s.do(http.MethodPost, "/api/tasks", member, `{"name":"","status":"New"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "name is required", env.Message)

	rec, _ = s.do(http.MethodPost, "/api/tasks", member, `{not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, env = s.do(http.MethodPost, "/api/tasks", member, `{"name":"big","description":"`+strings.Repeat("x", 70<<10)+`"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Request body too large", env.Message)
}

func TestTaskListFilters(t *testing.T) {
	s := newTestServer(t)
	member := s.grant("member@example.com", models.RoleTeamMember)

	for _, body := range []string{
		`{"name":"a","project":"Apollo","status":"Done"}`,
		`{"name":"b","project":"Apollo","status":"New"}`,
		`{"name":"c","project":"Gemini","status":"Done"}`,
	} {
		rec, env := s.do(http.MethodPost, "/api/tasks", member, body)
		require.Equal(t, http.StatusCreated, rec.Code, env.Message)
	}

	count := func(query string) int {
		_, env := s.do(http.MethodGet, "/api/tasks"+query, member, "")
		var tasks []models.Task
		require.NoError(t, json.Unmarshal(env.Data, &tasks))
		return len(tasks)
	}
	assert.Equal(t, 3, count(""))
	assert.Equal(t, 2, count("?project=Apollo"))
	assert.Equal(t, 2, count("?status=Done"))
	assert.Equal(t, 1, count("?project=Apollo&status=Done"))
	assert.Equal(t, 0, count("?project=Nope"))
}

func TestUserSyncAndRoleChange(t *testing.T) {
	s := newTestServer(t)
	newcomer := s.token("new@example.com")

	rec, _ := s.do(http.MethodGet, "/api/users/me", newcomer, "")
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, env := s.do(http.MethodPost, "/api/users/sync", newcomer, "")
	require.Equal(t, http.StatusOK, rec.Code, env.Message)
	var user models.User
	require.NoError(t, json.Unmarshal(env.Data, &user))
	assert.Equal(t, models.RoleUser, user.Role)

	rec, env = s.do(http.MethodGet, "/api/users/me", newcomer, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var profile services.Profile
	require.NoError(t, json.Unmarshal(env.Data, &profile))
	assert.Equal(t, "new@example.com", profile.Email)
	assert.False(t, profile.Superuser)
	assert.True(t, profile.Permissions.CanViewDashboard)

	rec, _ = s.do(http.MethodPost, "/api/invoices", newcomer, `{"customerInvoice":"INV-1"}`)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	root := s.token(rootEmail)
	rec, env = s.do(http.MethodPut, "/api/admin/users/"+user.ID.Hex()+"/role", root, `{"role":"sales_finance"}`)
	require.Equal(t, http.StatusOK, rec.Code, env.Message)

	rec, _ = s.do(http.MethodPost, "/api/invoices", newcomer, `{"customerInvoice":"INV-1"}`)
	assert.Equal(t, http.StatusCreated, rec.Code)

	rec, env = s.do(http.MethodDelete, "/api/admin/delete/unicorn/"+user.ID.Hex(), root, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.False(t, env.Success)
}

func TestCORSPreflight(t *testing.T) {
	s := newTestServer(t)
	req := httptest.NewRequest(http.MethodOptions, "/api/projects", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	req.Header.Set("Access-Control-Request-Headers", "Authorization, Content-Type")
	rec := httptest.NewRecorder()

	s.handler.ServeHTTP(rec, req)

	assert.Equal(t, "http://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Less(t, rec.Code, 300)
}

func TestTasksWithoutViewAllAreLimitedToAssignments(t *testing.T) {
	s := newTestServer(t)
	member := s.grant("member@example.com", models.RoleTeamMember)
	viewer := s.grant("viewer@example.com", models.RoleUser)

	ids := map[string]string{}
	for name, body := range map[string]string{
		"secret": `{"name":"secret","assignees":["bob"]}`,
		"mine":   `{"name":"mine","assignees":["bob","Viewer@example.com"]}`,
	} {
		rec, env := s.do(http.MethodPost, "/api/tasks", member, body)
		require.Equal(t, http.StatusCreated, rec.Code, env.Message)
		var task models.Task
		require.NoError(t, json.Unmarshal(env.Data, &task))
		ids[name] = task.ID.Hex()
	}

	names := func(token string) []string {
		rec, env := s.do(http.MethodGet, "/api/tasks", token, "")
		require.Equal(t, http.StatusOK, rec.Code)
		var tasks []models.Task
		require.NoError(t, json.Unmarshal(env.Data, &tasks))
		out := []string{}
		for _, task := range tasks {
			out = append(out, task.Name)
		}
		return out
	}

	assert.Equal(t, []string{"mine"}, names(viewer))
	assert.ElementsMatch(t, []string{"secret", "mine"}, names(member))

	rec, env := s.do(http.MethodGet, "/api/tasks/"+ids["secret"], viewer, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Task not found", env.Message)

	rec, _ = s.do(http.MethodGet, "/api/tasks/"+ids["mine"], viewer, "")
	assert.Equal(t, http.StatusOK, rec.Code)

	viewerRecord, err := s.svc.Users.FindByEmail(context.Background(), "viewer@example.com")
	require.NoError(t, err)
	root := s.token(rootEmail)
	rec, env = s.do(http.MethodPut, "/api/admin/users/"+viewerRecord.ID.Hex()+"/role", root, `{"role":"user","permissions":{"canViewAllTasks":true}}`)
	require.Equal(t, http.StatusOK, rec.Code, env.Message)

	assert.ElementsMatch(t, []string{"secret", "mine"}, names(viewer))

	rec, env = s.do(http.MethodPut, "/api/admin/users/"+viewerRecord.ID.Hex()+"/role", root, `{"role":"team_member","permissions":{"canViewAllTasks":false}}`)
	require.Equal(t, http.StatusOK, rec.Code, env.Message)

	assert.Equal(t, []string{"mine"}, names(viewer))
}

func TestProjectsWithTheSameNameCanBeCreated(t *testing.T) {
	s := newTestServer(t)
	pm := s.grant("pm@example.com", models.RoleProjectManager)

	for i := 0; i < 2; i++ {
		rec, env := s.do(http.MethodPost, "/api/projects", pm, `{"name":"Apollo"}`)
		assert.Equal(t, http.StatusCreated, rec.Code, env.Message)
	}

	_, env := s.do(http.MethodGet, "/api/projects", pm, "")
	var projects []models.Project
	require.NoError(t, json.Unmarshal(env.Data, &projects))
	assert.Len(t, projects, 2)
}

func TestUnknownRoutesUseTheEnvelope(t *testing.T) {
	s := newTestServer(t)
	root := s.token(rootEmail)

	tests := []struct {
		method string
		path   string
		status int
	}{
		{http.MethodGet, "/nowhere", http.StatusNotFound},
		{http.MethodGet, "/api/unicorns", http.StatusNotFound},
		{http.MethodPatch, "/api/projects", http.StatusMethodNotAllowed},
		{http.MethodPost, "/health", http.StatusMethodNotAllowed},
	}
	for _, tt := range tests {
		rec, env := s.do(tt.method, tt.path, root, "")
		assert.Equal(t, tt.status, rec.Code, tt.path)
		assert.False(t, env.Success, tt.path)
		assert.NotEmpty(t, env.Message, tt.path)
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"), tt.path)
	}
}

func TestSuperuserProfileReportsEveryPermission(t *testing.T) {
	s := newTestServer(t)
	root := s.token(rootEmail)

	check := func() services.Profile {
		rec, env := s.do(http.MethodGet, "/api/users/me", root, "")
		require.Equal(t, http.StatusOK, rec.Code, env.Message)
		var profile services.Profile
		require.NoError(t, json.Unmarshal(env.Data, &profile))
		assert.True(t, profile.Superuser)
		assert.Equal(t, models.RoleAdmin, profile.Role)
		for _, c := range models.Capabilities {
			assert.True(t, profile.Permissions.Has(c), c)
		}
		return profile
	}

	assert.Empty(t, check().ID)

	s.grant(rootEmail, models.RoleUser)
	assert.NotEmpty(t, check().ID)
}
