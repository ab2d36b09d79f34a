package handlers

import (
	"havenly/models"
	"havenly/services/review"
	"havenly/utils"

	"github.com/gin-gonic/gin"
)

type ReviewHandler struct {
	ReviewService review.ReviewService
}

func (h *ReviewHandler) CreateReviewHandler(c *gin.Context) {
	var req models.ReviewRequest
	if !bindJSON(c, &req) {
		return
	}
	r, err := h.ReviewService.CreateReview(c.Request.Context(), actorFrom(c), req)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondCreated(c, "Review posted", r)
}

func (h *ReviewHandler) RespondHandler(c *gin.Context) {
	var req models.HostResponseRequest
	if !bindJSON(c, &req) {
		return
	}
	r, err := h.ReviewService.RespondToReview(c.Request.Context(), actorFrom(c), c.Param("id"), req.Comment)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondOK(c, "Response saved", r)
}

func (h *ReviewHandler) ReportHandler(c *gin.Context) {
	var req models.ReportRequest
	if !bindJSON(c, &req) {
		return
	}
	if _, err := h.ReviewService.ReportReview(c.Request.Context(), actorFrom(c), c.Param("id"), req.Reason); err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondOK(c, "Review reported", nil)
}

func (h *ReviewHandler) DeleteReviewHandler(c *gin.Context) {
	if err := h.ReviewService.DeleteReview(c.Request.Context(), actorFrom(c), c.Param("id")); err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondOK(c, "Review deleted", nil)
}
