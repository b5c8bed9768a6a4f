package http

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func newGateRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(SessionMiddleware(zap.NewNop(), SessionOptions{EntryRoute: "/", TTL: time.Hour}))
	r.GET("/protected", SessionGate(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return r
}

func expiryCookie(t time.Time) *http.Cookie {
	return &http.Cookie{Name: "expiry", Value: strconv.FormatInt(t.UnixMilli(), 10)}
}

func clearedCookies(rec *httptest.ResponseRecorder) map[string]bool {
	cleared := map[string]bool{}
	for _, ck := range rec.Result().Cookies() {
		if ck.MaxAge < 0 && ck.Value == "" {
			cleared[ck.Name] = true
		}
	}
	return cleared
}

func TestSessionGate_AllowsValidSession(t *testing.T) {
	r := newGateRouter()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.AddCookie(&http.Cookie{Name: "token", Value: "abc"})
	req.AddCookie(expiryCookie(time.Now().Add(time.Hour)))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if len(rec.Result().Cookies()) != 0 {
		t.Fatalf("expected no cookie changes, got %+v", rec.Result().Cookies())
	}
}

func TestSessionGate_AllowsTokenWithoutExpiry(t *testing.T) {
	r := newGateRouter()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.AddCookie(&http.Cookie{Name: "token", Value: "abc"})
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestSessionGate_RedirectsAndClears(t *testing.T) {
	cases := []struct {
		name    string
		cookies []*http.Cookie
	}{
		{"no session", nil},
		{"expired", []*http.Cookie{{Name: "token", Value: "abc"}, expiryCookie(time.Now().Add(-time.Minute))}},
		{"expiry without token", []*http.Cookie{expiryCookie(time.Now().Add(time.Hour))}},
		{"garbage expiry", []*http.Cookie{{Name: "token", Value: "abc"}, {Name: "expiry", Value: "manana"}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := newGateRouter()
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			for _, ck := range tc.cookies {
				req.AddCookie(ck)
			}
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)

			if rec.Code != http.StatusFound {
				t.Fatalf("expected 302, got %d", rec.Code)
			}
			if loc := rec.Header().Get("Location"); loc != "/" {
				t.Fatalf("expected redirect to /, got %q", loc)
			}
			cleared := clearedCookies(rec)
			if !cleared["token"] || !cleared["expiry"] {
				t.Fatalf("expected token and expiry cleared, got %v", rec.Header().Values("Set-Cookie"))
			}
		})
	}
}

func TestSessionGate_CustomEntryRoute(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(SessionMiddleware(zap.NewNop(), SessionOptions{EntryRoute: "/welcome"}))
	r.GET("/protected", SessionGate(), func(c *gin.Context) { c.Status(http.StatusOK) })

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/protected", nil))
	if loc := rec.Header().Get("Location"); loc != "/welcome" {
		t.Fatalf("expected redirect to /welcome, got %q", loc)
	}
}

func TestSessionGate_WithoutMiddlewareFails(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/protected", SessionGate(), func(c *gin.Context) { c.Status(http.StatusOK) })

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/protected", nil))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
}

func TestCookieSessionStore_SetWritesBoundedCookies(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	store := newCookieSessionStore(c, true)

	if err := store.Set(map[string]string{"token": "abc", "expiry": "42"}, time.Hour); err != nil {
		t.Fatalf("set: %v", err)
	}
	if val, ok, _ := store.Get("token"); !ok || val != "abc" {
		t.Fatalf("expected overlay read, got %q,%v", val, ok)
	}

	headers := rec.Header().Values("Set-Cookie")
	if len(headers) != 2 {
		t.Fatalf("expected 2 cookies, got %v", headers)
	}
	for _, h := range headers {
		for _, part := range []string{"Max-Age=3600", "Path=/", "HttpOnly", "Secure", "SameSite=Lax"} {
			if !strings.Contains(h, part) {
				t.Fatalf("expected %q in %q", part, h)
			}
		}
	}

	if err := store.Clear("token", "expiry"); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if _, ok, _ := store.Get("token"); ok {
		t.Fatalf("expected token absent after clear")
	}
}
