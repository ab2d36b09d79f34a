package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"havenly/services/geocoding"
	"havenly/utils"

	"github.com/gin-gonic/gin"
)

// GeocodeHandler proxies address lookups so clients never call Nominatim directly.
type GeocodeHandler struct {
	Geocoder geocoding.GeocodingService
}

// SearchHandler handles GET /api/geocode/search?q=.
func (h *GeocodeHandler) SearchHandler(c *gin.Context) {
	q := strings.TrimSpace(c.Query("q"))
	if q == "" {
		utils.JSONError(c, http.StatusBadRequest, "Missing required query parameter: q")
		return
	}
	raw, err := h.Geocoder.Search(c.Request.Context(), q)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondOK(c, "", raw)
}

// ReverseHandler handles GET /api/geocode/reverse?lat=&lng=.
func (h *GeocodeHandler) ReverseHandler(c *gin.Context) {
	lat, errLat := strconv.ParseFloat(c.Query("lat"), 64)
	lng, errLng := strconv.ParseFloat(c.Query("lng"), 64)
	if errLat != nil || errLng != nil {
		utils.JSONError(c, http.StatusBadRequest, "Missing required query parameters: lat, lng")
		return
	}
	raw, err := h.Geocoder.Reverse(c.Request.Context(), lat, lng)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondOK(c, "", raw)
}
