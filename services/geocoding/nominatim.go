package geocoding

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"havenly/models"
	"havenly/utils"

	"github.com/jellydator/ttlcache/v3"
	"go.uber.org/zap"
)

const cacheTTL = 24 * time.Hour

// GeocodingService proxies forward and reverse lookups to Nominatim.
type GeocodingService interface {
	// Search returns the raw Nominatim result list for a free-text query.
	Search(ctx context.Context, query string) (json.RawMessage, error)
	// Reverse returns the raw Nominatim place for a coordinate.
	Reverse(ctx context.Context, lat, lng float64) (json.RawMessage, error)
	// Locate resolves an address to a point, or nil when nothing matched.
	Locate(ctx context.Context, address string) (*models.GeoPoint, error)
}

// NominatimService implements GeocodingService with an in-process cache.
type NominatimService struct {
	baseURL   string
	userAgent string
	client    *http.Client
	cache     *ttlcache.Cache[string, json.RawMessage]
}

func NewNominatimService(baseURL, userAgent string, client *http.Client) *NominatimService {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	cache := ttlcache.New(
		ttlcache.WithTTL[string, json.RawMessage](cacheTTL),
		ttlcache.WithCapacity[string, json.RawMessage](5000),
		ttlcache.WithDisableTouchOnHit[string, json.RawMessage](),
	)
	go cache.Start()

	return &NominatimService{
		baseURL:   strings.TrimRight(baseURL, "/"),
		userAgent: userAgent,
		client:    client,
		cache:     cache,
	}
}

// Stop ends the cache's expiry loop.
func (s *NominatimService) Stop() {
	s.cache.Stop()
}

func (s *NominatimService) Search(ctx context.Context, query string) (json.RawMessage, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, utils.NewBadRequest("query parameter q is required")
	}
	params := url.Values{}
	params.Set("q", query)
	params.Set("format", "json")
	params.Set("addressdetails", "1")
	params.Set("limit", "5")
	return s.fetch(ctx, "/search", params)
}

func (s *NominatimService) Reverse(ctx context.Context, lat, lng float64) (json.RawMessage, error) {
	if math.IsNaN(lat) || math.IsNaN(lng) || lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		return nil, utils.NewBadRequest("coordinates out of range")
	}
	params := url.Values{}
	params.Set("lat", strconv.FormatFloat(lat, 'f', 6, 64))
	params.Set("lon", strconv.FormatFloat(lng, 'f', 6, 64))
	params.Set("format", "json")
	params.Set("addressdetails", "1")
	return s.fetch(ctx, "/reverse", params)
}

func (s *NominatimService) Locate(ctx context.Context, address string) (*models.GeoPoint, error) {
	raw, err := s.Search(ctx, address)
	if err != nil {
		return nil, err
	}
	var places []struct {
		Lat string `json:"lat"`
		Lon string `json:"lon"`
	}
	if err := json.Unmarshal(raw, &places); err != nil {
		return nil, utils.NewBadGateway("unexpected geocoding response", err)
	}
	if len(places) == 0 {
		return nil, nil
	}
	lat, errLat := strconv.ParseFloat(places[0].Lat, 64)
	lng, errLng := strconv.ParseFloat(places[0].Lon, 64)
	if errLat != nil || errLng != nil {
		return nil, utils.NewBadGateway("unexpected geocoding response", fmt.Errorf("lat=%q lon=%q", places[0].Lat, places[0].Lon))
	}
	point := models.NewGeoPoint(lat, lng)
	return &point, nil
}

func (s *NominatimService) fetch(ctx context.Context, path string, params url.Values) (json.RawMessage, error) {
	endpoint := s.baseURL + path + "?" + params.Encode()
	if item := s.cache.Get(endpoint); item != nil {
		return item.Value(), nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, utils.NewInternal("failed to build geocoding request", err)
	}
	req.Header.Set("User-Agent", s.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, utils.NewBadGateway("geocoding service unreachable", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, utils.NewBadGateway("failed to read geocoding response", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, utils.NewBadGateway("geocoding service error", fmt.Errorf("status %d", resp.StatusCode))
	}
	if !json.Valid(body) {
		return nil, utils.NewBadGateway("unexpected geocoding response", fmt.Errorf("invalid json"))
	}

	s.cache.Set(endpoint, json.RawMessage(body), ttlcache.DefaultTTL)
	utils.GetLogger().Debug("Geocoding cache miss", zap.String("path", path))
	return body, nil
}
