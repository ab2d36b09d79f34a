package middleware

import (
	"context"
	"net/http"
	"strings"

	"havenly/models"
	"havenly/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// UserLookup resolves the account behind a token.
type UserLookup interface {
	GetByID(ctx context.Context, id string) (*models.User, error)
}

func bearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
}

// authenticate validates the token and loads its user. It writes the error
// response itself and returns nil when the request must stop.
func authenticate(c *gin.Context, users UserLookup, tokens utils.TokenStore, tokenString string) (*models.User, *utils.TokenClaims) {
	claims, err := utils.ParseToken(tokenString)
	if err != nil {
		utils.JSONError(c, http.StatusUnauthorized, "Invalid or expired token")
		return nil, nil
	}

	ctx := c.Request.Context()
	revoked, err := tokens.IsRevoked(ctx, utils.HashToken(tokenString))
	if err != nil {
		// Without the deny-list a signed-out token could pass; fail closed.
		utils.GetLogger().Error("Token deny-list unavailable", zap.Error(err))
		utils.JSONError(c, http.StatusServiceUnavailable, "Authentication is temporarily unavailable")
		return nil, nil
	}
	if revoked {
		utils.JSONError(c, http.StatusUnauthorized, "Token has been revoked")
		return nil, nil
	}

	user, err := users.GetByID(ctx, claims.Subject)
	if err != nil {
		utils.JSONError(c, http.StatusUnauthorized, "Insufficient authorization")
		return nil, nil
	}
	if !user.Active {
		utils.JSONError(c, http.StatusForbidden, "This account has been deactivated")
		return nil, nil
	}
	return user, claims
}

func setIdentity(c *gin.Context, user *models.User, claims *utils.TokenClaims, token string) {
	c.Set(utils.CtxUserID, user.ID)
	// The stored role wins over the token so role changes apply at once.
	c.Set(utils.CtxRole, user.Role)
	c.Set(utils.CtxUser, user)
	c.Set(utils.CtxToken, token)
	c.Set(utils.CtxTokenExpiry, claims.ExpiresAt)
}

// JWTAuthMiddleware requires a valid bearer token.
func JWTAuthMiddleware(users UserLookup, tokens utils.TokenStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			utils.JSONError(c, http.StatusUnauthorized, "Insufficient authorization")
			return
		}
		user, claims := authenticate(c, users, tokens, token)
		if user == nil {
			return
		}
		setIdentity(c, user, claims, token)
		c.Next()
	}
}

// OptionalAuthMiddleware identifies the caller when a token is present and
// lets anonymous requests through. A bad token is still rejected.
func OptionalAuthMiddleware(users UserLookup, tokens utils.TokenStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			c.Next()
			return
		}
		user, claims := authenticate(c, users, tokens, token)
		if user == nil {
			return
		}
		setIdentity(c, user, claims, token)
		c.Next()
	}
}

// RequireRoles lets through callers whose role is one of roles.
func RequireRoles(roles ...string) gin.HandlerFunc {
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}
	return func(c *gin.Context) {
		role := c.GetString(utils.CtxRole)
		if !allowed[role] {
			utils.JSONError(c, http.StatusForbidden, "You do not have permission to perform this action")
			return
		}
		c.Next()
	}
}
