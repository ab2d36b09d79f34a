package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func TestRateLimiter_RejectsAfterBurst(t *testing.T) {
	store := NewRateLimiterStore(3, time.Minute)

	for i := 0; i < 3; i++ {
		if !store.Allow("10.0.0.1") {
			t.Fatalf("Expected request %d to be allowed", i+1)
		}
	}
	if store.Allow("10.0.0.1") {
		t.Error("Expected the request after the burst to be rejected")
	}
	if !store.Allow("10.0.0.2") {
		t.Error("Expected another IP to have its own bucket")
	}
}

func TestRateLimiter_SweepForgetsIdleIPs(t *testing.T) {
	store := NewRateLimiterStore(10, 5*time.Minute)
	clock := time.Date(2030, 1, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return clock }

	store.Allow("10.0.0.1")
	clock = clock.Add(4 * time.Minute)
	store.Allow("10.0.0.2")

	if removed := store.Sweep(); removed != 0 {
		t.Errorf("Expected nothing swept yet, got %d", removed)
	}

	clock = clock.Add(2 * time.Minute)
	if removed := store.Sweep(); removed != 1 {
		t.Errorf("Expected 1 idle IP swept, got %d", removed)
	}
	if store.Len() != 1 {
		t.Errorf("Expected 1 tracked IP, got %d", store.Len())
	}
}

func TestRateLimitMiddleware_Returns429(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RateLimitMiddleware(NewRateLimiterStore(1, time.Minute)))
	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })

	first := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
	r.ServeHTTP(first, req)
	if first.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", first.Code)
	}

	second := httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("X-Forwarded-For", "203.0.113.7")
	r.ServeHTTP(second, req)
	if second.Code != http.StatusTooManyRequests {
		t.Errorf("Expected 429, got %d", second.Code)
	}
	if second.Header().Get("Retry-After") == "" {
		t.Error("Expected a Retry-After header")
	}
}

func TestGetClientIP(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cases := []struct {
		name    string
		headers map[string]string
		remote  string
		want    string
	}{
		{"forwarded", map[string]string{"X-Forwarded-For": "198.51.100.4, 10.0.0.1"}, "10.0.0.1:4000", "198.51.100.4"},
		{"real ip", map[string]string{"X-Real-IP": "198.51.100.5"}, "10.0.0.1:4000", "198.51.100.5"},
		{"garbage header", map[string]string{"X-Forwarded-For": "not-an-ip"}, "192.0.2.1:5000", "192.0.2.1"},
		{"remote", nil, "192.0.2.9:5000", "192.0.2.9"},
	}
	for _, tc := range cases {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
		c.Request.RemoteAddr = tc.remote
		for k, v := range tc.headers {
			c.Request.Header.Set(k, v)
		}
		if got := getClientIP(c); got != tc.want {
			t.Errorf("%s: expected %s, got %s", tc.name, tc.want, got)
		}
	}
}
