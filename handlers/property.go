package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"havenly/models"
	"havenly/services/property"
	"havenly/services/review"
	"havenly/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const maxUploadMemory = 32 << 20

type PropertyHandler struct {
	PropertyService property.PropertyService
	ReviewService   review.ReviewService
}

func (h *PropertyHandler) CreatePropertyHandler(c *gin.Context) {
	var input models.PropertyInput
	if !bindJSON(c, &input) {
		return
	}
	p, err := h.PropertyService.CreateProperty(c.Request.Context(), actorFrom(c), input)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondCreated(c, "Property created", p)
}

func (h *PropertyHandler) UpdatePropertyHandler(c *gin.Context) {
	var input models.PropertyInput
	if !bindJSON(c, &input) {
		return
	}
	p, err := h.PropertyService.UpdateProperty(c.Request.Context(), actorFrom(c), c.Param("id"), input)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondOK(c, "Property updated", p)
}

func (h *PropertyHandler) DeletePropertyHandler(c *gin.Context) {
	if err := h.PropertyService.DeleteProperty(c.Request.Context(), actorFrom(c), c.Param("id")); err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondOK(c, "Property deleted", nil)
}

func (h *PropertyHandler) GetPropertyHandler(c *gin.Context) {
	p, err := h.PropertyService.GetProperty(c.Request.Context(), optionalActor(c), c.Param("id"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondOK(c, "", p)
}

// SearchPropertiesHandler handles GET /api/properties.
func (h *PropertyHandler) SearchPropertiesHandler(c *gin.Context) {
	filter, err := parseSearchFilter(c)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	properties, page, err := h.PropertyService.SearchProperties(c.Request.Context(), filter)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondOK(c, "", listResponse{Items: properties, Pagination: page})
}

func parseSearchFilter(c *gin.Context) (models.PropertyFilter, error) {
	filter := models.PropertyFilter{
		City:    strings.TrimSpace(c.Query("city")),
		Country: strings.TrimSpace(c.Query("country")),
		Type:    strings.TrimSpace(c.Query("type")),
		Sort:    c.Query("sort"),
	}
	filter.Page, filter.Limit = pageParams(c)

	var err error
	if filter.MinPrice, err = floatQuery(c, "minPrice"); err != nil {
		return filter, err
	}
	if filter.MaxPrice, err = floatQuery(c, "maxPrice"); err != nil {
		return filter, err
	}
	if filter.RadiusKm, err = floatQuery(c, "radius"); err != nil {
		return filter, err
	}
	if raw := c.Query("guests"); raw != "" {
		if filter.Guests, err = strconv.Atoi(raw); err != nil || filter.Guests < 0 {
			return filter, utils.NewBadRequest("guests must be a positive number")
		}
	}
	if raw := c.Query("amenities"); raw != "" {
		for _, a := range strings.Split(raw, ",") {
			if a = strings.TrimSpace(a); a != "" {
				filter.Amenities = append(filter.Amenities, a)
			}
		}
	}

	lat, lng := c.Query("lat"), c.Query("lng")
	if lat != "" || lng != "" {
		latV, errLat := strconv.ParseFloat(lat, 64)
		lngV, errLng := strconv.ParseFloat(lng, 64)
		if errLat != nil || errLng != nil {
			return filter, utils.NewBadRequest("lat and lng must both be numbers")
		}
		point := models.NewGeoPoint(latV, lngV)
		filter.Near = &point
	}

	if raw := c.Query("checkIn"); raw != "" {
		d, err := utils.ParseDate(raw)
		if err != nil {
			return filter, utils.NewBadRequest("checkIn: " + err.Error())
		}
		filter.CheckIn = &d
	}
	if raw := c.Query("checkOut"); raw != "" {
		d, err := utils.ParseDate(raw)
		if err != nil {
			return filter, utils.NewBadRequest("checkOut: " + err.Error())
		}
		filter.CheckOut = &d
	}
	return filter, nil
}

func floatQuery(c *gin.Context, key string) (float64, error) {
	raw := c.Query(key)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || v < 0 {
		return 0, utils.NewBadRequest(key + " must be a positive number")
	}
	return v, nil
}

func (h *PropertyHandler) ListMyPropertiesHandler(c *gin.Context) {
	page, limit := pageParams(c)
	properties, p, err := h.PropertyService.ListHostProperties(c.Request.Context(), c.GetString(utils.CtxUserID), page, limit)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondOK(c, "", listResponse{Items: properties, Pagination: p})
}

func (h *PropertyHandler) AvailabilityHandler(c *gin.Context) {
	from, to, err := dateWindow(c)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	calendar, err := h.PropertyService.GetCalendar(c.Request.Context(), optionalActor(c), c.Param("id"), from, to)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondOK(c, "", calendar)
}

func (h *PropertyHandler) QuoteHandler(c *gin.Context) {
	quote, err := h.PropertyService.GetQuote(c.Request.Context(), optionalActor(c), c.Param("id"), c.Query("checkIn"), c.Query("checkOut"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondOK(c, "", quote)
}

func (h *PropertyHandler) ListReviewsHandler(c *gin.Context) {
	page, limit := pageParams(c)
	reviews, p, err := h.ReviewService.ListPropertyReviews(c.Request.Context(), optionalActor(c), c.Param("id"), page, limit)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondOK(c, "", listResponse{Items: reviews, Pagination: p})
}

// UploadImagesHandler accepts multipart files under the "images" field.
func (h *PropertyHandler) UploadImagesHandler(c *gin.Context) {
	if err := c.Request.ParseMultipartForm(maxUploadMemory); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "expected multipart form data")
		return
	}
	headers := c.Request.MultipartForm.File["images"]
	if len(headers) == 0 {
		utils.JSONError(c, http.StatusBadRequest, "no images provided")
		return
	}

	files := make([]property.ImageUpload, 0, len(headers))
	for _, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			utils.GetLogger().Warn("Failed to open upload", zap.String("filename", fh.Filename), zap.Error(err))
			utils.JSONError(c, http.StatusBadRequest, "could not read "+fh.Filename)
			return
		}
		defer f.Close()
		files = append(files, property.ImageUpload{
			Reader:      f,
			Filename:    fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Size:        fh.Size,
		})
	}

	p, err := h.PropertyService.UploadImages(c.Request.Context(), actorFrom(c), c.Param("id"), files)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondOK(c, "Images uploaded", p)
}

// DeleteImageHandler serves DELETE /:id/images/*publicId; public ids may contain slashes.
func (h *PropertyHandler) DeleteImageHandler(c *gin.Context) {
	publicID := strings.TrimPrefix(c.Param("publicId"), "/")
	if publicID == "" {
		utils.JSONError(c, http.StatusBadRequest, "image id is required")
		return
	}
	p, err := h.PropertyService.DeleteImage(c.Request.Context(), actorFrom(c), c.Param("id"), publicID)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondOK(c, "Image removed", p)
}

func (h *PropertyHandler) ListBlockedDatesHandler(c *gin.Context) {
	from, to, err := dateWindow(c)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	dates, err := h.PropertyService.ListBlockedDates(c.Request.Context(), optionalActor(c), c.Param("id"), from, to)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondOK(c, "", dates)
}

func (h *PropertyHandler) BlockDatesHandler(c *gin.Context) {
	var req models.BlockDatesRequest
	if !bindJSON(c, &req) {
		return
	}
	dates, err := h.PropertyService.BlockDates(c.Request.Context(), actorFrom(c), c.Param("id"), req)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondCreated(c, "Dates blocked", dates)
}

func (h *PropertyHandler) UnblockDatesHandler(c *gin.Context) {
	var req models.UnblockDatesRequest
	if !bindJSON(c, &req) {
		return
	}
	removed, err := h.PropertyService.UnblockDates(c.Request.Context(), actorFrom(c), c.Param("id"), req)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondOK(c, "Dates unblocked", gin.H{"removed": removed})
}
