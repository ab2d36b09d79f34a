package handlers

import (
	"time"

	"havenly/models"
	"havenly/services/user"
	"havenly/utils"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	UserService user.UserService
}

// RegisterHandler handles POST /api/auth/register.
func (h *AuthHandler) RegisterHandler(c *gin.Context) {
	var req models.RegisterRequest
	if !bindJSON(c, &req) {
		return
	}
	resp, err := h.UserService.Register(c.Request.Context(), req)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondCreated(c, "Account created", resp)
}

// LoginHandler handles POST /api/auth/login.
func (h *AuthHandler) LoginHandler(c *gin.Context) {
	var req models.LoginRequest
	if !bindJSON(c, &req) {
		return
	}
	resp, err := h.UserService.Login(c.Request.Context(), req)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondOK(c, "Signed in", resp)
}

func (h *AuthHandler) MeHandler(c *gin.Context) {
	u, err := h.UserService.GetUserByID(c.Request.Context(), c.GetString(utils.CtxUserID))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondOK(c, "", u)
}

func (h *AuthHandler) LogoutHandler(c *gin.Context) {
	expiry, _ := c.Get(utils.CtxTokenExpiry)
	expiresAt, _ := expiry.(time.Time)
	if err := h.UserService.Logout(c.Request.Context(), c.GetString(utils.CtxToken), expiresAt); err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondOK(c, "Signed out", nil)
}

func (h *AuthHandler) UpdateProfileHandler(c *gin.Context) {
	var req models.UserUpdateRequest
	if !bindJSON(c, &req) {
		return
	}
	u, err := h.UserService.UpdateProfile(c.Request.Context(), c.GetString(utils.CtxUserID), req)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondOK(c, "Profile updated", u)
}

func (h *AuthHandler) ChangePasswordHandler(c *gin.Context) {
	var req models.ChangePasswordRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := h.UserService.ChangePassword(c.Request.Context(), c.GetString(utils.CtxUserID), req); err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondOK(c, "Password updated", nil)
}

// Favorites

func (h *AuthHandler) ListFavoritesHandler(c *gin.Context) {
	properties, err := h.UserService.ListFavorites(c.Request.Context(), actorFrom(c))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondOK(c, "", properties)
}

func (h *AuthHandler) AddFavoriteHandler(c *gin.Context) {
	ids, err := h.UserService.AddFavorite(c.Request.Context(), actorFrom(c), c.Param("propertyId"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondOK(c, "Added to favorites", gin.H{"favorites": ids})
}

func (h *AuthHandler) RemoveFavoriteHandler(c *gin.Context) {
	ids, err := h.UserService.RemoveFavorite(c.Request.Context(), c.GetString(utils.CtxUserID), c.Param("propertyId"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondOK(c, "Removed from favorites", gin.H{"favorites": ids})
}
