package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"backend/models"
	"backend/services"
)

type AdminController struct {
	users *services.Users
}

func NewAdminController(users *services.Users) *AdminController {
	return &AdminController{users: users}
}

func (a *AdminController) ListUsers(c *gin.Context) {
	users, err := a.users.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

// CreateUser provisions staff and admin accounts.
func (a *AdminController) CreateUser(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := a.users.Register(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": user.ID, "name": user.Name, "email": user.Email, "role": user.Role})
}

func (a *AdminController) DeleteUser(c *gin.Context) {
	if c.Param("id") == c.GetString("userID") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot delete your own account"})
		return
	}
	if err := a.users.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "User deleted"})
}
