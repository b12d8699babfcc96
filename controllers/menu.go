package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"backend/models"
	"backend/services"
)

type MenuController struct {
	catalog *services.Catalog
	photos  *PhotoStorage
}

func NewMenuController(catalog *services.Catalog, photos *PhotoStorage) *MenuController {
	return &MenuController{catalog: catalog, photos: photos}
}

func (m *MenuController) List(c *gin.Context) {
	items, err := m.catalog.ListWithAvailability(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

func (m *MenuController) Addons(c *gin.Context) {
	c.JSON(http.StatusOK, m.catalog.Addons())
}

func (m *MenuController) Create(c *gin.Context) {
	var req models.CreateMenuItem
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	item, err := m.catalog.CreateMenuItem(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, item)
}

// UploadPhoto stores a menu image plus a preview thumbnail and records both
// urls on the item.
func (m *MenuController) UploadPhoto(c *gin.Context) {
	id := c.Param("id")
	if _, err := m.catalog.ReadMenuItem(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}

	file, err := c.FormFile("photo")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "photo file is required"})
		return
	}

	photoURL, thumbURL, err := m.photos.Save(c.Request.Context(), file, id)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := m.catalog.SetPhoto(c.Request.Context(), id, photoURL, thumbURL); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"photourl": photoURL, "thumburl": thumbURL})
}
