package geocoding

import (
	"context"
	"math"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"havenly/utils"
)

// ============================================
// Fake upstream
// ============================================

type upstream struct {
	server    *httptest.Server
	hits      atomic.Int32
	userAgent atomic.Value
	status    int
	body      string
}

func newUpstream(t *testing.T, status int, body string) *upstream {
	t.Helper()
	u := &upstream{status: status, body: body}
	u.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u.hits.Add(1)
		u.userAgent.Store(r.Header.Get("User-Agent"))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(u.status)
		_, _ = w.Write([]byte(u.body))
	}))
	t.Cleanup(u.server.Close)
	return u
}

func newService(t *testing.T, baseURL string) *NominatimService {
	t.Helper()
	s := NewNominatimService(baseURL, "havenly-test/1.0", nil)
	t.Cleanup(s.Stop)
	return s
}

const lisbon = `[{"lat":"38.7223","lon":"-9.1393","display_name":"Lisboa, Portugal"}]`

// ============================================
// Tests
// ============================================

func TestSearch_CachesRepeatedQueries(t *testing.T) {
	up := newUpstream(t, http.StatusOK, lisbon)
	s := newService(t, up.server.URL)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		raw, err := s.Search(ctx, "Lisbon")
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if string(raw) != lisbon {
			t.Errorf("Expected the upstream body, got %s", raw)
		}
	}
	if got := up.hits.Load(); got != 1 {
		t.Errorf("Expected 1 upstream request, got %d", got)
	}
	if got := up.userAgent.Load(); got != "havenly-test/1.0" {
		t.Errorf("Expected the configured User-Agent, got %v", got)
	}

	if _, err := s.Search(ctx, "Porto"); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if got := up.hits.Load(); got != 2 {
		t.Errorf("Expected a new query to reach upstream, got %d requests", got)
	}
}

func TestSearch_EmptyQuery(t *testing.T) {
	up := newUpstream(t, http.StatusOK, lisbon)
	s := newService(t, up.server.URL)

	if _, err := s.Search(context.Background(), "   "); utils.StatusOf(err) != http.StatusBadRequest {
		t.Errorf("Expected 400, got %v", err)
	}
	if up.hits.Load() != 0 {
		t.Errorf("Expected no upstream request")
	}
}

func TestSearch_UpstreamFailures(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"server error", http.StatusInternalServerError, `{"error":"boom"}`},
		{"rate limited", http.StatusTooManyRequests, `[]`},
		{"not json", http.StatusOK, `<html></html>`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			up := newUpstream(t, tt.status, tt.body)
			s := newService(t, up.server.URL)
			ctx := context.Background()

			if _, err := s.Search(ctx, "Lisbon"); utils.StatusOf(err) != http.StatusBadGateway {
				t.Errorf("Expected 502, got %v", err)
			}
			// Failures are not cached.
			_, _ = s.Search(ctx, "Lisbon")
			if got := up.hits.Load(); got != 2 {
				t.Errorf("Expected 2 upstream requests, got %d", got)
			}
		})
	}
}

func TestSearch_Unreachable(t *testing.T) {
	up := newUpstream(t, http.StatusOK, lisbon)
	url := up.server.URL
	up.server.Close()

	s := newService(t, url)
	if _, err := s.Search(context.Background(), "Lisbon"); utils.StatusOf(err) != http.StatusBadGateway {
		t.Errorf("Expected 502, got %v", err)
	}
}

func TestLocate(t *testing.T) {
	up := newUpstream(t, http.StatusOK, lisbon)
	s := newService(t, up.server.URL)

	point, err := s.Locate(context.Background(), "Rua Augusta, Lisboa")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if point == nil || point.Coordinates[0] != -9.1393 || point.Coordinates[1] != 38.7223 {
		t.Errorf("Expected [-9.1393 38.7223], got %+v", point)
	}
}

func TestLocate_NoMatch(t *testing.T) {
	up := newUpstream(t, http.StatusOK, `[]`)
	s := newService(t, up.server.URL)

	point, err := s.Locate(context.Background(), "Nowhere at all")
	if err != nil || point != nil {
		t.Errorf("Expected nil without error, got %+v (%v)", point, err)
	}
}

func TestLocate_BadCoordinates(t *testing.T) {
	up := newUpstream(t, http.StatusOK, `[{"lat":"north","lon":"-9.1"}]`)
	s := newService(t, up.server.URL)

	if _, err := s.Locate(context.Background(), "Lisbon"); utils.StatusOf(err) != http.StatusBadGateway {
		t.Errorf("Expected 502, got %v", err)
	}
}

func TestReverse_RejectsInvalidCoordinates(t *testing.T) {
	up := newUpstream(t, http.StatusOK, `{"display_name":"Lisboa"}`)
	s := newService(t, up.server.URL)
	ctx := context.Background()

	tests := []struct {
		name     string
		lat, lng float64
	}{
		{"lat too large", 91, 0},
		{"lng too small", 0, -181},
		{"nan lat", math.NaN(), 0},
		{"nan lng", 0, math.NaN()},
		{"infinite lng", 0, math.Inf(1)},
	}
	for _, tt := range tests {
		if _, err := s.Reverse(ctx, tt.lat, tt.lng); utils.StatusOf(err) != http.StatusBadRequest {
			t.Errorf("%s: expected 400, got %v", tt.name, err)
		}
	}
	if up.hits.Load() != 0 {
		t.Errorf("Expected no upstream request, got %d", up.hits.Load())
	}

	raw, err := s.Reverse(ctx, 38.7223, -9.1393)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if string(raw) != `{"display_name":"Lisboa"}` {
		t.Errorf("Expected the upstream body, got %s", raw)
	}
}
