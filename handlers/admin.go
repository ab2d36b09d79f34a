package handlers

import (
	"net/http"

	"havenly/models"
	"havenly/services/admin"
	"havenly/services/booking"
	"havenly/services/review"
	"havenly/utils"

	"github.com/gin-gonic/gin"
)

type AdminHandler struct {
	AdminService   admin.AdminService
	BookingService booking.BookingService
	ReviewService  review.ReviewService
}

// Users

func (h *AdminHandler) ListUsersHandler(c *gin.Context) {
	page, limit := pageParams(c)
	users, p, err := h.AdminService.ListUsers(c.Request.Context(), c.Query("role"), c.Query("email"), page, limit)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondOK(c, "", listResponse{Items: users, Pagination: p})
}

func (h *AdminHandler) UpdateRoleHandler(c *gin.Context) {
	var req models.RoleUpdateRequest
	if !bindJSON(c, &req) {
		return
	}
	u, err := h.AdminService.UpdateUserRole(c.Request.Context(), actorFrom(c), c.Param("id"), req.Role)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondOK(c, "Role updated", u)
}

func (h *AdminHandler) UpdateStatusHandler(c *gin.Context) {
	var req models.StatusUpdateRequest
	if !bindJSON(c, &req) {
		return
	}
	if req.Active == nil {
		utils.JSONError(c, http.StatusBadRequest, "active is required")
		return
	}
	u, err := h.AdminService.SetUserActive(c.Request.Context(), actorFrom(c), c.Param("id"), *req.Active)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondOK(c, "Status updated", u)
}

func (h *AdminHandler) DeleteUserHandler(c *gin.Context) {
	if err := h.AdminService.DeleteUser(c.Request.Context(), actorFrom(c), c.Param("id")); err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondOK(c, "User deleted", nil)
}

// Properties

func (h *AdminHandler) PendingPropertiesHandler(c *gin.Context) {
	page, limit := pageParams(c)
	properties, p, err := h.AdminService.ListPendingProperties(c.Request.Context(), page, limit)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondOK(c, "", listResponse{Items: properties, Pagination: p})
}

func (h *AdminHandler) ApprovePropertyHandler(c *gin.Context) {
	p, err := h.AdminService.ApproveProperty(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondOK(c, "Property approved", p)
}

func (h *AdminHandler) RejectPropertyHandler(c *gin.Context) {
	var req models.RejectRequest
	if !bindJSON(c, &req) {
		return
	}
	p, err := h.AdminService.RejectProperty(c.Request.Context(), c.Param("id"), req.Reason)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondOK(c, "Property rejected", p)
}

// Bookings and stats

func (h *AdminHandler) ListBookingsHandler(c *gin.Context) {
	page, limit := pageParams(c)
	bookings, p, err := h.BookingService.ListAllBookings(c.Request.Context(), c.Query("status"), page, limit)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondOK(c, "", listResponse{Items: bookings, Pagination: p})
}

func (h *AdminHandler) StatsHandler(c *gin.Context) {
	stats, err := h.AdminService.Stats(c.Request.Context())
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondOK(c, "", stats)
}

// Review moderation

func (h *AdminHandler) ReportedReviewsHandler(c *gin.Context) {
	page, limit := pageParams(c)
	reviews, p, err := h.ReviewService.ListReportedReviews(c.Request.Context(), page, limit)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondOK(c, "", listResponse{Items: reviews, Pagination: p})
}

func (h *AdminHandler) HideReviewHandler(c *gin.Context) {
	var req models.HideRequest
	if !bindJSON(c, &req) {
		return
	}
	r, err := h.ReviewService.SetHidden(c.Request.Context(), c.Param("id"), *req.Hidden)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondOK(c, "Review updated", r)
}

func (h *AdminHandler) DismissReportsHandler(c *gin.Context) {
	r, err := h.ReviewService.DismissReports(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondOK(c, "Reports dismissed", r)
}

// LegalHandler serves the policy documents. ?audience=host|guest narrows
// them; otherwise the caller's role decides, and anonymous callers get all.
func (h *AdminHandler) LegalHandler(c *gin.Context) {
	audience := c.Query("audience")
	if audience == "" {
		audience = c.GetString(utils.CtxRole)
	}
	utils.RespondOK(c, "", h.AdminService.GetLegalSectionsFor(audience))
}
