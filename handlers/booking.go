package handlers

import (
	"havenly/models"
	"havenly/services/booking"
	"havenly/utils"

	"github.com/gin-gonic/gin"
)

type BookingHandler struct {
	BookingService booking.BookingService
}

func (h *BookingHandler) CreateBookingHandler(c *gin.Context) {
	var req models.BookingRequest
	if !bindJSON(c, &req) {
		return
	}
	b, err := h.BookingService.CreateBooking(c.Request.Context(), actorFrom(c), req)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondCreated(c, "Booking requested", b)
}

func (h *BookingHandler) GetBookingHandler(c *gin.Context) {
	b, err := h.BookingService.GetBooking(c.Request.Context(), actorFrom(c), c.Param("id"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondOK(c, "", b)
}

// MyBookingsHandler lists the caller's stays as a guest.
func (h *BookingHandler) MyBookingsHandler(c *gin.Context) {
	page, limit := pageParams(c)
	bookings, p, err := h.BookingService.ListGuestBookings(c.Request.Context(), c.GetString(utils.CtxUserID), c.Query("status"), page, limit)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondOK(c, "", listResponse{Items: bookings, Pagination: p})
}

// HostBookingsHandler lists bookings on the caller's properties.
func (h *BookingHandler) HostBookingsHandler(c *gin.Context) {
	page, limit := pageParams(c)
	bookings, p, err := h.BookingService.ListHostBookings(c.Request.Context(), c.GetString(utils.CtxUserID), c.Query("status"), page, limit)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondOK(c, "", listResponse{Items: bookings, Pagination: p})
}

func (h *BookingHandler) ConfirmBookingHandler(c *gin.Context) {
	b, err := h.BookingService.ConfirmBooking(c.Request.Context(), actorFrom(c), c.Param("id"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondOK(c, "Booking confirmed", b)
}

func (h *BookingHandler) CancelBookingHandler(c *gin.Context) {
	var req models.CancelRequest
	if c.Request.ContentLength > 0 && !bindJSON(c, &req) {
		return
	}
	b, err := h.BookingService.CancelBooking(c.Request.Context(), actorFrom(c), c.Param("id"), req.Reason)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondOK(c, "Booking cancelled", b)
}

func (h *BookingHandler) CompleteBookingHandler(c *gin.Context) {
	b, err := h.BookingService.CompleteBooking(c.Request.Context(), actorFrom(c), c.Param("id"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondOK(c, "Booking completed", b)
}

func (h *BookingHandler) PaymentIntentHandler(c *gin.Context) {
	resp, err := h.BookingService.CreatePaymentIntent(c.Request.Context(), actorFrom(c), c.Param("id"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondOK(c, "", resp)
}

func (h *BookingHandler) ConfirmPaymentHandler(c *gin.Context) {
	b, err := h.BookingService.ConfirmPayment(c.Request.Context(), actorFrom(c), c.Param("id"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondOK(c, "Payment recorded", b)
}
