package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"valoratbot-casino/internal/middleware"
)

// GetCurrentUser handles GET /api/me: echoes the authenticated identity
// so the dashboard can render who is logged in.
func (h *CasinoHandler) GetCurrentUser(c *gin.Context) {
	userID := c.GetString("user_id")
	username := c.GetString("username")

	c.JSON(http.StatusOK, gin.H{
		"user": gin.H{
			"id":       userID,
			"username": username,
		},
	})
}

// Logout handles POST /api/logout by dropping the identity cookie.
func (h *CasinoHandler) Logout(c *gin.Context) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(middleware.IdentityCookie, "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"message": "Successfully logged out"})
}
