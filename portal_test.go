package portal

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/participa/citizen-portal/internal/core/domain"
	"github.com/participa/citizen-portal/internal/core/ports"
	"github.com/participa/citizen-portal/internal/infrastructure/store"
	"github.com/participa/citizen-portal/internal/pkg/config"
)

// newStubBackend runs a minimal portal backend: auth endpoints, the
// occurrences listing, and deliberately no /notifications route so the feed
// exercises its fallback derivation.
func newStubBackend(t *testing.T) *httptest.Server {
	t.Helper()
	e := echo.New()

	adminUser := &domain.User{ID: 7, Name: "Maria Souza", Email: "maria@example.com", UserType: domain.TypeAdmin}

	e.POST("/auth/login", func(c echo.Context) error {
		var in struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		if err := c.Bind(&in); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "bad request"})
		}
		if in.Email != "maria@example.com" || in.Password != "secret1" {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Invalid credentials"})
		}
		return c.JSON(http.StatusOK, map[string]any{
			"access_token": "tok-live",
			"user":         adminUser,
		})
	})

	e.GET("/auth/profile", func(c echo.Context) error {
		if c.Request().Header.Get("Authorization") != "Bearer tok-live" {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid token"})
		}
		return c.JSON(http.StatusOK, map[string]any{"user": adminUser})
	})

	e.GET("/occurrences", func(c echo.Context) error {
		if c.QueryParam("citizen_id") != "7" {
			return c.JSON(http.StatusOK, map[string]any{"occurrences": []any{}})
		}
		return c.JSON(http.StatusOK, map[string]any{
			"occurrences": []domain.OccurrenceSummary{
				{ID: 1, Title: "Pothole on Main St", Status: domain.StatusResolved, UpdatedAt: time.Now().UTC()},
				{ID: 2, Title: "Broken streetlight", Status: domain.StatusInProgress, UpdatedAt: time.Now().UTC()},
			},
		})
	})

	e.GET("/private", func(c echo.Context) error {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "token expired"})
	})

	srv := httptest.NewServer(e)
	t.Cleanup(srv.Close)
	return srv
}

func testConfig(baseURL string) *config.Config {
	return &config.Config{
		APIBaseURL:       baseURL,
		LogLevel:         "error",
		HTTPTimeout:      5 * time.Second,
		NotificationPoll: 40 * time.Millisecond,
		ChatPoll:         40 * time.Millisecond,
	}
}

func TestRuntime_SignInFlow(t *testing.T) {
	srv := newStubBackend(t)
	rt := NewWithStore(testConfig(srv.URL), store.NewMemoryStore())
	sess := rt.Session()

	if d := sess.GuardRoute(false); d != domain.RoutePending {
		t.Fatalf("before Initialize: expected pending, got %s", d)
	}
	sess.Initialize(context.Background())
	if d := sess.GuardRoute(false); d != domain.RouteDeniedNoIdentity {
		t.Fatalf("fresh runtime: expected denied, got %s", d)
	}

	res := sess.Login(context.Background(), LoginInput{Email: "maria@example.com", Password: "wrong"})
	if res.Success || res.Message != "Invalid credentials" {
		t.Fatalf("expected server rejection, got %+v", res)
	}

	res = sess.Login(context.Background(), LoginInput{Email: "maria@example.com", Password: "secret1"})
	if !res.Success {
		t.Fatalf("login failed: %q", res.Message)
	}
	if r := sess.LandingRoute(); r != domain.RouteAdmin {
		t.Fatalf("admin must land on %s, got %s", domain.RouteAdmin, r)
	}
	if d := sess.GuardRoute(true); d != domain.RouteGranted {
		t.Fatalf("admin on admin view: expected granted, got %s", d)
	}
}

func TestRuntime_SessionRestoreAcrossRuntimes(t *testing.T) {
	srv := newStubBackend(t)
	creds := store.NewMemoryStore()

	first := NewWithStore(testConfig(srv.URL), creds)
	first.Session().Initialize(context.Background())
	res := first.Session().Login(context.Background(), LoginInput{Email: "maria@example.com", Password: "secret1"})
	if !res.Success {
		t.Fatalf("login failed: %q", res.Message)
	}

	// A second runtime over the same store plays the role of the next app
	// start: the session comes back without a fresh login.
	second := NewWithStore(testConfig(srv.URL), creds)
	second.Session().Initialize(context.Background())
	user := second.Session().CurrentUser()
	if user == nil || user.Email != "maria@example.com" {
		t.Fatalf("expected restored identity, got %+v", user)
	}
	if d := second.Session().GuardRoute(true); d != domain.RouteGranted {
		t.Fatalf("restored admin: expected granted, got %s", d)
	}
}

func TestRuntime_NotificationFeedPollsAndDegrades(t *testing.T) {
	srv := newStubBackend(t)
	rt := NewWithStore(testConfig(srv.URL), store.NewMemoryStore())
	rt.Session().Initialize(context.Background())
	if res := rt.Session().Login(context.Background(), LoginInput{Email: "maria@example.com", Password: "secret1"}); !res.Success {
		t.Fatalf("login failed: %q", res.Message)
	}

	feed := rt.Notifications()
	feed.Start(context.Background())
	defer feed.Stop()

	deadline := time.After(2 * time.Second)
	for len(feed.Items()) == 0 {
		select {
		case <-deadline:
			t.Fatal("feed never populated")
		case <-time.After(10 * time.Millisecond):
		}
	}

	// The backend has no /notifications route, so the items are derived
	// from the user's own occurrences.
	if !feed.Degraded() {
		t.Fatal("expected degraded feed")
	}
	items := feed.Items()
	if len(items) != 2 {
		t.Fatalf("expected 2 derived items, got %+v", items)
	}
	if items[0].Title != "Resolved!" || items[0].Kind != domain.KindSuccess {
		t.Fatalf("unexpected derived item: %+v", items[0])
	}
	if feed.UnreadCount() != 2 {
		t.Fatalf("expected 2 unread, got %d", feed.UnreadCount())
	}
}

func TestRuntime_401RevokesSession(t *testing.T) {
	srv := newStubBackend(t)
	rt := NewWithStore(testConfig(srv.URL), store.NewMemoryStore())
	sess := rt.Session()
	sess.Initialize(context.Background())
	if res := sess.Login(context.Background(), LoginInput{Email: "maria@example.com", Password: "secret1"}); !res.Success {
		t.Fatalf("login failed: %q", res.Message)
	}

	// Any consumer hitting a 401 makes the shared transport drop the
	// credential; the error still reaches that consumer.
	err := rt.Client().Get(context.Background(), "/private", nil)
	if !ports.IsUnauthorized(err) {
		t.Fatalf("expected 401 to propagate, got %v", err)
	}

	if d := sess.GuardRoute(false); d != domain.RouteDeniedNoIdentity {
		t.Fatalf("expected guard to deny after revocation, got %s", d)
	}
	if r := sess.LandingRoute(); r != domain.RouteLogin {
		t.Fatalf("expected login landing after revocation, got %s", r)
	}
}
