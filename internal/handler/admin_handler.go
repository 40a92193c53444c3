package handler

import (
	"net/http"
	"strconv"

	"deuda_tracker/internal/service"

	"github.com/gin-gonic/gin"
)

// AdminHandler handles admin-only user management requests
type AdminHandler struct {
	service service.AdminService
}

// NewAdminHandler creates a new AdminHandler
func NewAdminHandler(s service.AdminService) *AdminHandler {
	return &AdminHandler{service: s}
}

func (h *AdminHandler) ListUsers(c *gin.Context) {
	users, err := h.service.ListUsers(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users})
}

// CreateUser registers a user and returns the generated temp password. The
// admin is expected to hand the password to the new user out of band.
func (h *AdminHandler) CreateUser(c *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required,min=3,max=40"`
		Role     string `json:"role" binding:"omitempty,oneof=USER ADMIN"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	user, tempPassword, err := h.service.CreateUser(c.Request.Context(), req.Username, req.Role)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"created":       true,
		"user":          user,
		"temp_password": tempPassword,
	})
}

func (h *AdminHandler) ResetPassword(c *gin.Context) {
	userID, err := strconv.Atoi(c.Param("id"))
	if err != nil || userID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	tempPassword, err := h.service.ResetPassword(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reset": true, "temp_password": tempPassword})
}

// RegisterAdminRoutes registers admin routes behind the session and admin
// middlewares.
func (h *AdminHandler) RegisterAdminRoutes(rg *gin.RouterGroup, authMW, adminMW gin.HandlerFunc) {
	adminGroup := rg.Group("/admin")
	adminGroup.Use(authMW, adminMW)
	{
		adminGroup.GET("/users", h.ListUsers)
		adminGroup.POST("/users", h.CreateUser)
		adminGroup.POST("/users/:id/reset-password", h.ResetPassword)
	}
}
