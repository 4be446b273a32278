package integration_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/geocoder89/coursehub/internal/catalog"
	"github.com/geocoder89/coursehub/internal/clock"
	"github.com/geocoder89/coursehub/internal/config"
	"github.com/geocoder89/coursehub/internal/domain/user"
	apphttp "github.com/geocoder89/coursehub/internal/http"
	"github.com/geocoder89/coursehub/internal/notifications"
	"github.com/geocoder89/coursehub/internal/observability"
	"github.com/geocoder89/coursehub/internal/repo/memory"
	"github.com/geocoder89/coursehub/internal/security"
	"github.com/geocoder89/coursehub/internal/session"
	"github.com/geocoder89/coursehub/internal/storage"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/crypto/bcrypt"
)

func testConfig() config.Config {
	return config.Config{
		Env:             "test",
		AuthDelay:       time.Second,
		RegisterSignups: true,
		CatalogCacheTTL: time.Minute,
		AuthRateLimit:   100,
		AuthRateWindow:  time.Minute,
		MaxBodyBytes:    1 << 20,
		ServiceName:     "coursehub-test",
	}
}

type app struct {
	router  *gin.Engine
	kv      *memory.KV
	session *session.Store
	catalog *catalog.Store
	clock   *clock.Manual
}

func setupApp(t *testing.T) app {
	t.Helper()
	gin.SetMode(gin.TestMode)
	security.Cost = bcrypt.MinCost

	ctx := context.Background()
	cfg := testConfig()
	logger := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelDebug}))

	reg := prometheus.NewRegistry()
	prom := observability.NewProm(reg)

	kv := memory.NewKV()
	store := storage.Instrument(kv, prom)
	clk := clock.NewManual(time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC))
	notifier := notifications.NewLogNotifier(logger)

	creds, err := user.NewCredentialTable(user.DefaultCredentials())
	if err != nil {
		t.Fatalf("credential table: %v", err)
	}

	sess := session.New(session.Options{
		Storage:         store,
		Credentials:     creds,
		Clock:           clk,
		Notifier:        notifier,
		Prom:            prom,
		Logger:          logger,
		Delay:           cfg.AuthDelay,
		RegisterSignups: cfg.RegisterSignups,
	})
	if err := sess.Restore(ctx); err != nil {
		t.Fatalf("restore: %v", err)
	}

	cat := catalog.New(catalog.Options{
		Storage:  store,
		Session:  sess,
		Clock:    clk,
		Notifier: notifier,
		Prom:     prom,
		Logger:   logger,
	})
	if err := cat.Load(ctx); err != nil {
		t.Fatalf("load catalog: %v", err)
	}
	sess.Subscribe(cat.OnSession)

	router := apphttp.NewRouter(apphttp.Deps{
		Log:      logger,
		Cfg:      cfg,
		Session:  sess,
		Catalog:  cat,
		Prom:     prom,
		Gatherer: reg,
		Ping:     func(ctx context.Context) error { return storage.Ping(ctx, kv) },
	})

	return app{router: router, kv: kv, session: sess, catalog: cat, clock: clk}
}

func doRequest(router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))

	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	return w
}

func mustReadJSON[T any](t *testing.T, w *httptest.ResponseRecorder, out *T) {
	t.Helper()
	err := json.Unmarshal(w.Body.Bytes(), out)
	if err != nil {
		t.Fatalf("failed to unmarshal json: %v, body=%s", err, w.Body.String())
	}
}

func expectStatus(t *testing.T, w *httptest.ResponseRecorder, want int) {
	t.Helper()
	if w.Code != want {
		t.Fatalf("got status %d, want %d body=%s", w.Code, want, w.Body.String())
	}
}

func login(t *testing.T, a app, email, password string) {
	t.Helper()
	body := `{"email":"` + email + `","password":"` + password + `"}`
	expectStatus(t, doRequest(a.router, http.MethodPost, "/login", body), http.StatusOK)
}

func TestGuardedRoutesRedirect(t *testing.T) {
	a := setupApp(t)

	w := doRequest(a.router, http.MethodGet, "/my-courses", "")
	expectStatus(t, w, http.StatusUnauthorized)
	if !strings.Contains(w.Body.String(), `"redirect":"/login"`) {
		t.Fatalf("expected login redirect, body=%s", w.Body.String())
	}

	login(t, a, "user@example.com", "password123")

	w = doRequest(a.router, http.MethodGet, "/admin", "")
	expectStatus(t, w, http.StatusForbidden)
	if !strings.Contains(w.Body.String(), `"redirect":"/"`) {
		t.Fatalf("expected home redirect, body=%s", w.Body.String())
	}
}

func TestEnrollmentLifecycle(t *testing.T) {
	a := setupApp(t)

	login(t, a, "user@example.com", "password123")

	// the simulated round trip ran on the manual clock
	if got := a.clock.Sleeps(); len(got) != 1 || got[0] != time.Second {
		t.Fatalf("expected one 1s delay, got %v", got)
	}

	w := doRequest(a.router, http.MethodPost, "/my-courses", `{"courseId":"3"}`)
	expectStatus(t, w, http.StatusCreated)

	var enrolled struct {
		Notices []notifications.Notice `json:"notices"`
	}
	mustReadJSON(t, w, &enrolled)
	if len(enrolled.Notices) != 1 || enrolled.Notices[0].Message != "Enrolled in Advanced Python Programming" {
		t.Fatalf("unexpected notices: %+v", enrolled.Notices)
	}

	expectStatus(t, doRequest(a.router, http.MethodPost, "/my-courses", `{"courseId":"3"}`), http.StatusConflict)
	expectStatus(t, doRequest(a.router, http.MethodPost, "/my-courses", `{"courseId":"404"}`), http.StatusNotFound)

	expectStatus(t, doRequest(a.router, http.MethodPatch, "/my-courses/3", `{"progress":50}`), http.StatusOK)

	var list struct {
		Count  int `json:"count"`
		Groups struct {
			InProgress []struct {
				ID       string `json:"id"`
				Progress int    `json:"progress"`
			} `json:"inProgress"`
		} `json:"groups"`
	}
	mustReadJSON(t, doRequest(a.router, http.MethodGet, "/my-courses", ""), &list)
	if list.Count != 1 || len(list.Groups.InProgress) != 1 || list.Groups.InProgress[0].Progress != 50 {
		t.Fatalf("unexpected list: %+v", list)
	}

	expectStatus(t, doRequest(a.router, http.MethodPost, "/logout", ""), http.StatusOK)

	if _, ok, _ := a.kv.Get(context.Background(), storage.KeyCurrentUser); ok {
		t.Fatalf("currentUser should be removed on logout")
	}
	if len(a.catalog.MyCourses()) != 0 {
		t.Fatalf("enrollments should be cleared on logout")
	}
	expectStatus(t, doRequest(a.router, http.MethodGet, "/my-courses", ""), http.StatusUnauthorized)

	// logout also dropped the persisted list
	login(t, a, "user@example.com", "password123")
	mustReadJSON(t, doRequest(a.router, http.MethodGet, "/my-courses", ""), &list)
	if list.Count != 0 {
		t.Fatalf("expected empty list after re-login, got %d", list.Count)
	}
}

func TestAdminCreatesCourse(t *testing.T) {
	a := setupApp(t)

	var before struct {
		Count int `json:"count"`
	}
	mustReadJSON(t, doRequest(a.router, http.MethodGet, "/courses", ""), &before)

	login(t, a, "admin@iiit.ac.in", "iiitadmin123")

	body := `{"title":"Go Services","description":"Build HTTP services in Go.","instructor":"Rob","price":0,"category":"Programming","duration":"4 weeks"}`
	expectStatus(t, doRequest(a.router, http.MethodPost, "/admin/courses", body), http.StatusCreated)

	var after struct {
		Count int `json:"count"`
	}
	mustReadJSON(t, doRequest(a.router, http.MethodGet, "/courses", ""), &after)
	if after.Count != before.Count+1 {
		t.Fatalf("catalog listing should grow by one: before=%d after=%d", before.Count, after.Count)
	}

	var filtered struct {
		Count int `json:"count"`
	}
	mustReadJSON(t, doRequest(a.router, http.MethodGet, "/courses?category=Programming&q=python", ""), &filtered)
	if filtered.Count != 1 {
		t.Fatalf("expected one python course, got %d", filtered.Count)
	}
}

func TestLoginFailureLeavesSessionUnchanged(t *testing.T) {
	a := setupApp(t)

	w := doRequest(a.router, http.MethodPost, "/login", `{"email":"admin@iiit.ac.in","password":"wrong"}`)
	expectStatus(t, w, http.StatusUnauthorized)

	var got struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
		Notices []notifications.Notice `json:"notices"`
	}
	mustReadJSON(t, w, &got)
	if got.Error.Code != "invalid_credentials" {
		t.Fatalf("unexpected code %q", got.Error.Code)
	}
	if len(got.Notices) != 1 || got.Notices[0].Level != notifications.LevelError {
		t.Fatalf("expected an error notice, got %+v", got.Notices)
	}
	if a.session.IsAuthenticated() {
		t.Fatalf("session should stay anonymous")
	}
}

func TestSignUpThenLogBackIn(t *testing.T) {
	a := setupApp(t)

	body := `{"email":"learner@example.com","password":"secret1","name":"New Learner"}`
	expectStatus(t, doRequest(a.router, http.MethodPost, "/signup", body), http.StatusCreated)
	expectStatus(t, doRequest(a.router, http.MethodPost, "/signup", body), http.StatusConflict)

	expectStatus(t, doRequest(a.router, http.MethodPost, "/logout", ""), http.StatusOK)
	login(t, a, "learner@example.com", "secret1")
}

func TestOpsRoutes(t *testing.T) {
	a := setupApp(t)

	expectStatus(t, doRequest(a.router, http.MethodGet, "/healthz", ""), http.StatusOK)
	expectStatus(t, doRequest(a.router, http.MethodGet, "/readyz", ""), http.StatusOK)

	doRequest(a.router, http.MethodGet, "/courses", "")
	w := doRequest(a.router, http.MethodGet, "/metrics", "")
	expectStatus(t, w, http.StatusOK)
	if !strings.Contains(w.Body.String(), "coursehub_http_requests_total") {
		t.Fatalf("metrics output missing request counter")
	}

	w = doRequest(a.router, http.MethodGet, "/nowhere", "")
	expectStatus(t, w, http.StatusNotFound)
	if !strings.Contains(w.Body.String(), `"not_found"`) {
		t.Fatalf("unexpected 404 body: %s", w.Body.String())
	}
}
