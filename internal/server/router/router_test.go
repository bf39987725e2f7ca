package router

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mamadbah2/herdbook/internal/config"
	"github.com/mamadbah2/herdbook/internal/domain/models"
	"github.com/mamadbah2/herdbook/internal/repository/session"
	"github.com/mamadbah2/herdbook/internal/server/handlers"
	"github.com/mamadbah2/herdbook/internal/service/auth"
	"github.com/mamadbah2/herdbook/internal/service/dashboard"
	"github.com/mamadbah2/herdbook/internal/service/feed"
	"github.com/mamadbah2/herdbook/internal/service/health"
	"github.com/mamadbah2/herdbook/internal/service/herd"
	"github.com/mamadbah2/herdbook/internal/service/milk"
	"github.com/mamadbah2/herdbook/internal/service/reporting"
	"github.com/mamadbah2/herdbook/internal/service/users"
	"github.com/mamadbah2/herdbook/internal/testutil"
)

const cookieName = "herdbook_session"

type fixture struct {
	engine *gin.Engine
	users  *users.Service
}

func newFixture(t *testing.T, required bool) *fixture {
	t.Helper()
	stores := testutil.NewStores(t)
	authCfg := config.AuthConfig{Required: required, CookieName: cookieName, SessionTTL: time.Hour}

	authSvc := auth.NewService(stores.Users, session.NewMemoryStore(), authCfg.SessionTTL, nil)
	userSvc := users.NewService(stores.Users, nil)
	h := Handlers{
		Auth:    handlers.NewAuthHandler(authSvc, authCfg, nil),
		Cattle:  handlers.NewCattleHandler(herd.NewService(stores, time.UTC, nil), nil),
		Milk:    handlers.NewMilkHandler(milk.NewService(stores, time.UTC, nil), nil),
		Health:  handlers.NewHealthHandler(health.NewService(stores, time.UTC, nil), nil),
		Feed:    handlers.NewFeedHandler(feed.NewService(stores, time.UTC, nil), nil),
		Users:   handlers.NewUserHandler(userSvc, nil),
		Reports: handlers.NewReportHandler(dashboard.NewService(stores, time.UTC, nil), reporting.NewService(stores, time.UTC, nil), nil),
	}
	engine := New(Options{AuthRequired: required, CookieName: cookieName}, h, authSvc, nil)
	return &fixture{engine: engine, users: userSvc}
}

func (f *fixture) account(t *testing.T, email string, role models.Role) {
	t.Helper()
	if _, err := f.users.Create(context.Background(), users.CreateInput{Email: email, Password: "secret-pass", Name: "Test", Role: role}); err != nil {
		t.Fatalf("create user: %v", err)
	}
}

// login returns the session cookie issued for email.
func (f *fixture) login(t *testing.T, email string) *http.Cookie {
	t.Helper()
	rec := f.do(t, http.MethodPost, "/api/auth/login", map[string]any{"email": email, "password": "secret-pass"}, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("login status %d: %s", rec.Code, rec.Body.String())
	}
	for _, c := range rec.Result().Cookies() {
		if c.Name == cookieName {
			if !c.HttpOnly {
				t.Fatalf("session cookie must be HttpOnly")
			}
			return c
		}
	}
	t.Fatalf("login did not set %s", cookieName)
	return nil
}

func (f *fixture) do(t *testing.T, method, path string, body any, cookie *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	f.engine.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return out
}

func TestHealthzIsPublic(t *testing.T) {
	f := newFixture(t, true)
	rec := f.do(t, http.MethodGet, "/healthz", nil, nil)
	if rec.Code != http.StatusOK || decode(t, rec)["status"] != "ok" {
		t.Fatalf("unexpected healthz response %d %s", rec.Code, rec.Body.String())
	}
}

func TestAuthRequired(t *testing.T) {
	f := newFixture(t, true)

	rec := f.do(t, http.MethodGet, "/api/cattle", nil, nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if decode(t, rec)["error"] != "Unauthorized" {
		t.Fatalf("unexpected body %s", rec.Body.String())
	}

	f.account(t, "worker@farm.test", models.RoleWorker)
	cookie := f.login(t, "worker@farm.test")
	if rec := f.do(t, http.MethodGet, "/api/cattle", nil, cookie); rec.Code != http.StatusOK {
		t.Fatalf("expected 200 with session, got %d", rec.Code)
	}

	me := decode(t, f.do(t, http.MethodGet, "/api/auth/me", nil, cookie))
	user, _ := me["user"].(map[string]any)
	if user["email"] != "worker@farm.test" {
		t.Fatalf("unexpected me payload %v", me)
	}

	if rec := f.do(t, http.MethodPost, "/api/auth/logout", nil, cookie); rec.Code != http.StatusOK {
		t.Fatalf("logout status %d", rec.Code)
	}
	if rec := f.do(t, http.MethodGet, "/api/cattle", nil, cookie); rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 after logout, got %d", rec.Code)
	}
}

func TestBadCredentials(t *testing.T) {
	f := newFixture(t, true)
	f.account(t, "admin@farm.test", models.RoleAdmin)

	rec := f.do(t, http.MethodPost, "/api/auth/login", map[string]any{"email": "admin@farm.test", "password": "nope"}, nil)
	if rec.Code != http.StatusUnauthorized || decode(t, rec)["error"] != "Invalid credentials" {
		t.Fatalf("unexpected response %d %s", rec.Code, rec.Body.String())
	}
}

func TestUsersRequireAdmin(t *testing.T) {
	f := newFixture(t, true)
	f.account(t, "admin@farm.test", models.RoleAdmin)
	f.account(t, "vet@farm.test", models.RoleVeterinarian)

	vet := f.login(t, "vet@farm.test")
	if rec := f.do(t, http.MethodGet, "/api/users", nil, vet); rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for non-admin, got %d", rec.Code)
	}

	admin := f.login(t, "admin@farm.test")
	rec := f.do(t, http.MethodGet, "/api/users", nil, admin)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for admin, got %d", rec.Code)
	}
	var list []map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &list); err != nil {
		t.Fatalf("decode users: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 users, got %d", len(list))
	}
	for _, u := range list {
		if _, leaked := u["password"]; leaked {
			t.Fatalf("password leaked in %v", u)
		}
	}
}

func TestCattleLifecycle(t *testing.T) {
	f := newFixture(t, false)
	body := map[string]any{
		"tagNumber":   "TAG-001",
		"gender":      "FEMALE",
		"breed":       "Holstein",
		"dateOfBirth": "2021-04-02",
		"category":    "COW",
	}

	rec := f.do(t, http.MethodPost, "/api/cattle", body, nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status %d: %s", rec.Code, rec.Body.String())
	}
	created := decode(t, rec)
	if created["status"] != "ACTIVE" {
		t.Fatalf("expected default ACTIVE status, got %v", created["status"])
	}

	rec = f.do(t, http.MethodPost, "/api/cattle", body, nil)
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 on duplicate tag, got %d: %s", rec.Code, rec.Body.String())
	}

	id, _ := created["id"].(string)
	if rec := f.do(t, http.MethodDelete, "/api/cattle/"+id, nil, nil); rec.Code != http.StatusOK {
		t.Fatalf("delete status %d", rec.Code)
	}
	if rec := f.do(t, http.MethodGet, "/api/cattle/"+id, nil, nil); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %d", rec.Code)
	}
}

func TestMilkWithoutCattle(t *testing.T) {
	f := newFixture(t, false)

	rec := f.do(t, http.MethodPost, "/api/milk", map[string]any{"date": "2024-05-01", "liters": 42.5, "session": "MORNING"}, nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status %d: %s", rec.Code, rec.Body.String())
	}
	got := decode(t, rec)
	if got["cattleId"] != nil || got["quality"] != "GOOD" {
		t.Fatalf("unexpected milk record %v", got)
	}

	rec = f.do(t, http.MethodPost, "/api/milk", map[string]any{"date": "2024-05-01", "liters": 0, "session": "MORNING"}, nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for zero liters, got %d", rec.Code)
	}

	rec = f.do(t, http.MethodPost, "/api/milk", map[string]any{"date": "2024-05-01", "liters": "18.5", "session": "EVENING"}, nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected numeric string liters to be accepted, got %d: %s", rec.Code, rec.Body.String())
	}
	if got := decode(t, rec); got["liters"] != 18.5 {
		t.Fatalf("unexpected liters %v", got["liters"])
	}

	if rec := f.do(t, http.MethodGet, "/api/milk/stats?view=daily", nil, nil); rec.Code != http.StatusOK {
		t.Fatalf("stats status %d: %s", rec.Code, rec.Body.String())
	}
}

func TestFeedUsageInsufficient(t *testing.T) {
	f := newFixture(t, false)

	rec := f.do(t, http.MethodPost, "/api/feed", map[string]any{"feedType": "HAY", "quantity": 5, "minThreshold": 10}, nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create feed status %d: %s", rec.Code, rec.Body.String())
	}
	inv := decode(t, rec)

	rec = f.do(t, http.MethodPost, "/api/feed/usage", map[string]any{"inventoryId": inv["id"], "date": "2024-05-01", "quantityUsed": 9}, nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	body := decode(t, rec)
	if body["error"] != "Insufficient inventory" || body["available"] != 5.0 || body["requested"] != 9.0 {
		t.Fatalf("unexpected body %v", body)
	}

	rec = f.do(t, http.MethodPost, "/api/feed/usage", map[string]any{"inventoryId": inv["id"], "date": "2024-05-01", "quantityUsed": 2}, nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("usage status %d: %s", rec.Code, rec.Body.String())
	}

	rec = f.do(t, http.MethodPost, "/api/feed/usage", map[string]any{"inventoryId": inv["id"], "date": "2024-05-01", "quantityUsed": "1.5"}, nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected numeric string quantity to be accepted, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestInvalidJSON(t *testing.T) {
	f := newFixture(t, false)
	req := httptest.NewRequest(http.MethodPost, "/api/cattle", bytes.NewBufferString("{"))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	f.engine.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestDashboardAndExport(t *testing.T) {
	f := newFixture(t, false)

	if rec := f.do(t, http.MethodGet, "/api/dashboard/stats?milkView=monthly", nil, nil); rec.Code != http.StatusOK {
		t.Fatalf("dashboard status %d: %s", rec.Code, rec.Body.String())
	}

	rec := f.do(t, http.MethodGet, "/api/reports/export?resource=cattle", nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("export status %d: %s", rec.Code, rec.Body.String())
	}
	if got := rec.Header().Get("Content-Type"); got != reporting.XLSXContentType {
		t.Fatalf("unexpected content type %q", got)
	}

	if rec := f.do(t, http.MethodGet, "/api/reports/export?resource=goats", nil, nil); rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown resource, got %d", rec.Code)
	}
}

func TestFeedRestock(t *testing.T) {
	f := newFixture(t, false)

	rec := f.do(t, http.MethodPost, "/api/feed", map[string]any{"feedType": "HAY", "quantity": 5, "minThreshold": 10}, nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create feed status %d: %s", rec.Code, rec.Body.String())
	}
	inv := decode(t, rec)

	rec = f.do(t, http.MethodPost, "/api/feed/restock", map[string]any{"inventoryId": inv["id"], "quantityAdded": 40, "supplier": "Agro Co"}, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("restock status %d: %s", rec.Code, rec.Body.String())
	}
	got := decode(t, rec)
	if got["quantity"] != 45.0 || got["supplier"] != "Agro Co" || got["lastRestocked"] == nil {
		t.Fatalf("unexpected restocked item %v", got)
	}

	rec = f.do(t, http.MethodPost, "/api/feed/restock", map[string]any{"inventoryId": "missing", "quantityAdded": 1}, nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown item, got %d", rec.Code)
	}
	rec = f.do(t, http.MethodPost, "/api/feed/restock", map[string]any{"inventoryId": inv["id"], "quantityAdded": 0}, nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for zero quantity, got %d", rec.Code)
	}
}

func TestUpdateUserDuplicateEmail(t *testing.T) {
	f := newFixture(t, true)
	f.account(t, "admin@farm.test", models.RoleAdmin)
	f.account(t, "vet@farm.test", models.RoleVeterinarian)
	admin := f.login(t, "admin@farm.test")

	rec := f.do(t, http.MethodGet, "/api/users", nil, admin)
	if rec.Code != http.StatusOK {
		t.Fatalf("list status %d", rec.Code)
	}
	var list []map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &list); err != nil {
		t.Fatalf("decode users: %v", err)
	}
	var vetID string
	for _, u := range list {
		if u["email"] == "vet@farm.test" {
			vetID, _ = u["id"].(string)
		}
	}
	if vetID == "" {
		t.Fatalf("vet account missing from %v", list)
	}

	rec = f.do(t, http.MethodPatch, "/api/users/"+vetID, map[string]any{"email": "admin@farm.test"}, admin)
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 on duplicate email, got %d: %s", rec.Code, rec.Body.String())
	}
	if body := decode(t, rec); body["error"] != "User already exists" {
		t.Fatalf("unexpected body %v", body)
	}

	rec = f.do(t, http.MethodPatch, "/api/users/"+vetID, map[string]any{"name": "Dr Vet"}, admin)
	if rec.Code != http.StatusOK {
		t.Fatalf("update status %d: %s", rec.Code, rec.Body.String())
	}
	if body := decode(t, rec); body["name"] != "Dr Vet" || body["email"] != "vet@farm.test" {
		t.Fatalf("unexpected updated user %v", body)
	}
}
