package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"havenly/database/repository/memory"
	"havenly/models"
	"havenly/services/availability"
	"havenly/services/events"
	"havenly/services/property"
	"havenly/services/user"
	"havenly/utils"

	"github.com/gin-gonic/gin"
)

// ============================================
// Fakes
// ============================================

type nopNotifier struct{}

func (nopNotifier) SendEmail(context.Context, models.EmailPayload) error { return nil }
func (nopNotifier) ScheduleCheckInReminder(context.Context, string, time.Time) error {
	return nil
}

type nopTokens struct{}

func (nopTokens) Revoke(context.Context, string, time.Duration) error { return nil }
func (nopTokens) IsRevoked(context.Context, string) (bool, error)   { return false, nil }

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func setupRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)

	users := memory.NewUserRepo()
	properties := memory.NewPropertyRepo()
	bookings := memory.NewBookingRepo()
	blocked := memory.NewBlockedDateRepo()
	_ = properties.Create(context.Background(), &models.Property{
		ID: "draft", Title: "Draft", Price: 80, PriceUnit: models.PriceUnitNight,
		Currency: "EUR", MaxGuests: 2, HostID: "host-9",
	})

	auth := &AuthHandler{UserService: user.NewUserService(users, properties, nopTokens{}, nopNotifier{}, time.Hour)}
	props := &PropertyHandler{PropertyService: &property.DefaultPropertyService{
		Repo:         properties,
		Blocked:      blocked,
		Reviews:      memory.NewReviewRepo(),
		Users:        users,
		Availability: availability.NewChecker(bookings, blocked),
		Events:       events.NoopPublisher{},
	}}

	r := gin.New()
	r.POST("/auth/register", auth.RegisterHandler)
	r.POST("/auth/login", auth.LoginHandler)
	r.GET("/properties", props.SearchPropertiesHandler)
	r.GET("/properties/:id/blocked-dates", props.ListBlockedDatesHandler)
	r.GET("/properties/:id/quote", props.QuoteHandler)
	return r
}

func do(r *gin.Engine, method, path string, body any) (*httptest.ResponseRecorder, envelope) {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env envelope
	_ = json.Unmarshal(w.Body.Bytes(), &env)
	return w, env
}

// ============================================
// Auth
// ============================================

func TestRegister_ValidationMessage(t *testing.T) {
	r := setupRouter()

	w, env := do(r, http.MethodPost, "/auth/register", map[string]string{"name": "Ana", "email": "not-an-email", "password": "Secret123"})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400, got %d", w.Code)
	}
	if env.Success || env.Message != "email must be a valid email" {
		t.Errorf("Expected the email validation message, got %+v", env)
	}

	_, env = do(r, http.MethodPost, "/auth/register", map[string]string{"email": "ana@example.com", "password": "Secret123"})
	if env.Message != "name is required" {
		t.Errorf("Expected the name to be required, got %q", env.Message)
	}
}

func TestRegisterAndLogin(t *testing.T) {
	r := setupRouter()

	w, env := do(r, http.MethodPost, "/auth/register", map[string]string{"name": "Ana", "email": "ana@example.com", "password": "Secret123", "role": "host"})
	if w.Code != http.StatusCreated || !env.Success {
		t.Fatalf("Expected 201, got %d: %s", w.Code, w.Body.String())
	}
	var resp models.AuthResponse
	if err := json.Unmarshal(env.Data, &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Token == "" || resp.User == nil || resp.User.Role != models.RoleHost {
		t.Errorf("Expected a token for a host, got %+v", resp)
	}
	if strings.Contains(w.Body.String(), "passwordHash") {
		t.Error("Expected the password hash to stay private")
	}

	w, _ = do(r, http.MethodPost, "/auth/login", map[string]string{"email": "ana@example.com", "password": "Wrong1234"})
	if w.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401, got %d", w.Code)
	}
	w, _ = do(r, http.MethodPost, "/auth/login", map[string]string{"email": "ana@example.com", "password": "Secret123"})
	if w.Code != http.StatusOK {
		t.Errorf("Expected 200, got %d", w.Code)
	}
}

// ============================================
// Properties
// ============================================

func TestSearchProperties_QueryErrors(t *testing.T) {
	r := setupRouter()

	for _, q := range []string{
		"minPrice=cheap",
		"guests=-2",
		"lat=41.3",
		"checkIn=2031-13-01&checkOut=2031-12-02",
		"checkIn=2031-06-01",
		"minPrice=300&maxPrice=100",
	} {
		w, env := do(r, http.MethodGet, "/properties?"+q, nil)
		if w.Code != http.StatusBadRequest || env.Success {
			t.Errorf("Expected 400 for %q, got %d", q, w.Code)
		}
	}

	w, env := do(r, http.MethodGet, "/properties?city=Lisbon", nil)
	if w.Code != http.StatusOK || !env.Success {
		t.Errorf("Expected 200, got %d", w.Code)
	}
}

func TestParseSearchFilter(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet,
		"/properties?city=%20Porto%20&amenities=wifi,,%20pool&lat=41.15&lng=-8.61&radius=5&guests=3&page=2", nil)

	f, err := parseSearchFilter(c)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if f.City != "Porto" || f.Guests != 3 || f.RadiusKm != 5 || f.Page != 2 || f.Limit != 20 {
		t.Errorf("Unexpected filter %+v", f)
	}
	if len(f.Amenities) != 2 || f.Amenities[1] != "pool" {
		t.Errorf("Expected [wifi pool], got %v", f.Amenities)
	}
	if f.Near == nil || f.Near.Coordinates[0] != -8.61 || f.Near.Coordinates[1] != 41.15 {
		t.Errorf("Expected a [lng, lat] point, got %+v", f.Near)
	}
}

func TestDateWindow(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/x?from=2031-01-01", nil)

	from, to, err := dateWindow(c)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if utils.FormatDate(from) != "2031-01-01" || utils.NightsBetween(from, to) != 90 {
		t.Errorf("Expected a 90 day window from 2031-01-01, got %s to %s", from, to)
	}

	c.Request = httptest.NewRequest(http.MethodGet, "/x?to=someday", nil)
	if _, _, err := dateWindow(c); utils.StatusOf(err) != http.StatusBadRequest {
		t.Errorf("Expected 400, got %v", err)
	}
}

func TestListBlockedDates_UnknownProperty(t *testing.T) {
	r := setupRouter()
	w, _ := do(r, http.MethodGet, "/properties/missing/blocked-dates", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected 404, got %d", w.Code)
	}
}

func TestQuote_UnapprovedPropertyIsHidden(t *testing.T) {
	r := setupRouter()
	w, env := do(r, http.MethodGet, "/properties/draft/quote?checkIn=2031-01-01&checkOut=2031-01-03", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected 404, got %d", w.Code)
	}
	if env.Success || len(env.Data) != 0 {
		t.Errorf("Expected an error envelope without data, got %+v", env)
	}
}
