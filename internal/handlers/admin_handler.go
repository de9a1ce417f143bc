package handlers

import (
	"crypto/subtle"
	"net/http"

	"cmcount/internal/auth"
	"cmcount/internal/subscribers"

	"github.com/gin-gonic/gin"
)

// LoginRequest represents the login request payload
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse represents the login response
type LoginResponse struct {
	Token    string `json:"token"`
	Username string `json:"username"`
}

type AdminHandler struct {
	gate         *subscribers.Gate
	refresher    subscribers.RefreshRunner
	issuer       *auth.Issuer
	username     string
	passwordHash string
}

func NewAdminHandler(gate *subscribers.Gate, refresher subscribers.RefreshRunner, issuer *auth.Issuer, username, passwordHash string) *AdminHandler {
	return &AdminHandler{
		gate:         gate,
		refresher:    refresher,
		issuer:       issuer,
		username:     username,
		passwordHash: passwordHash,
	}
}

// Login handles POST /api/admin/login
func (h *AdminHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request. Username and password are required.",
		})
		return
	}

	userOK := subtle.ConstantTimeCompare([]byte(req.Username), []byte(h.username)) == 1
	if err := auth.CheckPassword(h.passwordHash, req.Password); err != nil || !userOK {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "Invalid username or password",
		})
		return
	}

	token, err := h.issuer.GenerateToken(h.username)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to generate token",
		})
		return
	}

	c.JSON(http.StatusOK, LoginResponse{Token: token, Username: h.username})
}

// Status handles GET /api/admin/status
func (h *AdminHandler) Status(c *gin.Context) {
	st, err := h.gate.Status(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to read subscriber options",
		})
		return
	}
	c.JSON(http.StatusOK, st)
}

// Refresh handles POST /api/admin/refresh
// Polls upstream now, regardless of the TTL, and reports what happened.
func (h *AdminHandler) Refresh(c *gin.Context) {
	out := h.refresher.Refresh(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{
		"outcome": out,
		"count":   h.gate.Count(c.Request.Context(), 0),
	})
}
