package catalog

import (
	"net/http"
	"strconv"

	custom_error "github.com/ja12as/Proyecto-sena-banco-herramienta/pkg/errors"
	"github.com/ja12as/Proyecto-sena-banco-herramienta/pkg/models"
	"github.com/ja12as/Proyecto-sena-banco-herramienta/pkg/roles"
	"github.com/ja12as/Proyecto-sena-banco-herramienta/pkg/security"

	"github.com/gin-gonic/gin"
)

type CatalogHandler struct {
	Repository CatalogRepository
}

func NewHandler(r CatalogRepository) *CatalogHandler {
	return &CatalogHandler{Repository: r}
}

func (h *CatalogHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/subcategorias", security.Authorize(roles.Instructor), h.GetSubcategories)
	router.POST("/subcategorias", security.Authorize(roles.Almacen), h.CreateSubcategory)
	router.PUT("/subcategorias/:id", security.Authorize(roles.Almacen), h.UpdateSubcategory)
	router.GET("/unidades", security.Authorize(roles.Instructor), h.GetUnits)
	router.POST("/unidades", security.Authorize(roles.Almacen), h.CreateUnit)
}

func (h *CatalogHandler) CreateSubcategory(c *gin.Context) {
	var req models.SubcategoryRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Cuerpo de la petición inválido", "details": err.Error()})
		return
	}

	subcategory, err := h.Repository.PersistSubcategory(req)
	if err != nil {
		if _, ok := err.(*custom_error.UniqueViolationError); ok {
			c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "No se pudo crear la subcategoría", "details": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, subcategory)
}

func (h *CatalogHandler) GetSubcategories(c *gin.Context) {
	subcategories, err := h.Repository.GetSubcategories()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "No se pudo obtener la lista de subcategorías", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, subcategories)
}

func (h *CatalogHandler) UpdateSubcategory(c *gin.Context) {
	subcategoryID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID de subcategoría inválido"})
		return
	}

	var req models.SubcategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cuerpo de la petición inválido", "details": err.Error()})
		return
	}

	if err := h.Repository.UpdateSubcategory(subcategoryID, req); err != nil {
		if _, ok := err.(*custom_error.NotFoundError); ok {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "No se pudo actualizar la subcategoría", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Subcategoría actualizada correctamente"})
}

func (h *CatalogHandler) CreateUnit(c *gin.Context) {
	var req models.UnitRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Cuerpo de la petición inválido", "details": err.Error()})
		return
	}

	unit, err := h.Repository.PersistUnit(req)
	if err != nil {
		if _, ok := err.(*custom_error.UniqueViolationError); ok {
			c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "No se pudo crear la unidad de medida", "details": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, unit)
}

func (h *CatalogHandler) GetUnits(c *gin.Context) {
	units, err := h.Repository.GetUnits()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "No se pudo obtener la lista de unidades", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, units)
}
