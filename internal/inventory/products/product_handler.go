package products

import (
	"net/http"
	"strconv"

	"github.com/ja12as/Proyecto-sena-banco-herramienta/pkg/auditlog"
	custom_error "github.com/ja12as/Proyecto-sena-banco-herramienta/pkg/errors"
	"github.com/ja12as/Proyecto-sena-banco-herramienta/pkg/models"
	"github.com/ja12as/Proyecto-sena-banco-herramienta/pkg/roles"
	"github.com/ja12as/Proyecto-sena-banco-herramienta/pkg/security"

	"github.com/doug-martin/goqu/v9"
	"github.com/gin-gonic/gin"
)

type ProductHandler struct {
	Repository ProductRepository
	AuditLog   *auditlog.Auditlog
}

func NewHandler(r ProductRepository, a *auditlog.Auditlog) *ProductHandler {
	return &ProductHandler{
		Repository: r,
		AuditLog:   a,
	}
}

func (h *ProductHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/productos", security.Authorize(roles.Instructor), h.GetProducts)
	router.GET("/productos/busqueda", security.Authorize(roles.Instructor), h.SearchProducts)
	router.GET("/productos/:id", security.Authorize(roles.Instructor), h.GetProduct)
	router.POST("/productos", security.Authorize(roles.Almacen), h.CreateProduct)
	router.PUT("/productos/:id", security.Authorize(roles.Almacen), h.UpdateProduct)
	router.PUT("/productos/:id/cantidad", security.Authorize(roles.Almacen), h.RecordInbound)
}

func (h *ProductHandler) CreateProduct(c *gin.Context) {
	var req models.ProductRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Cuerpo de la petición inválido", "details": err.Error()})
		return
	}

	ownerID := authenticatedUserID(c)

	product, err := h.Repository.PersistProduct(req, ownerID)
	if err != nil {
		switch err.(type) {
		case *custom_error.ValidationError:
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case *custom_error.NotFoundError:
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case *custom_error.UniqueViolationError:
			c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": err.Error()})
		case *custom_error.ForeignKeyViolationError:
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "No se pudo crear el producto", "details": err.Error()})
		}
		return
	}

	go h.AuditLog.Log(
		auditlog.ActionCreate,
		"Registró el producto "+product.Name,
		&ownerID,
		map[string]interface{}{
			"codigo":           product.Code,
			"cantidad_entrada": product.QuantityIn,
			"estado":           product.Status,
		},
		product,
	)

	c.JSON(http.StatusCreated, product)
}

func (h *ProductHandler) GetProducts(c *gin.Context) {
	products, err := h.Repository.GetProducts()
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "No se pudo obtener la lista de productos", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, products)
}

func (h *ProductHandler) GetProduct(c *gin.Context) {
	productID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID de producto inválido"})
		return
	}

	product, err := h.Repository.GetProduct(productID)
	if err != nil {
		if _, ok := err.(*custom_error.NotFoundError); ok {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "No se pudo obtener el producto", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, product)
}

func (h *ProductHandler) SearchProducts(c *gin.Context) {
	name := c.Query("nombre")
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "El parámetro nombre es obligatorio"})
		return
	}

	products, err := h.Repository.SearchProducts(name)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "No se pudo buscar productos", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, products)
}

func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	productID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID de producto inválido"})
		return
	}

	var req models.PatchProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cuerpo de la petición inválido", "details": err.Error()})
		return
	}

	changes := goqu.Record{}
	if req.Name != nil {
		changes["nombre"] = *req.Name
	}
	if req.Code != nil {
		changes["codigo"] = *req.Code
	}
	if req.Description != nil {
		changes["descripcion"] = *req.Description
	}
	if req.Brand != nil {
		changes["marca"] = *req.Brand
	}
	if req.UnitID != nil {
		changes["unidad_medida_id"] = *req.UnitID
	}
	if req.SubcategoryID != nil {
		changes["subcategoria_id"] = *req.SubcategoryID
	}

	if len(changes) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No hay cambios para aplicar"})
		return
	}

	if err := h.Repository.UpdateProduct(productID, changes); err != nil {
		switch err.(type) {
		case *custom_error.NotFoundError:
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case *custom_error.UniqueViolationError:
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "No se pudo actualizar el producto", "details": err.Error()})
		}
		return
	}

	product, err := h.Repository.GetProduct(productID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "No se pudo obtener el producto actualizado", "details": err.Error()})
		return
	}

	userID := authenticatedUserID(c)
	go h.AuditLog.Log(
		auditlog.ActionUpdate,
		"Actualizó el producto "+product.Name,
		&userID,
		req,
		product,
	)

	c.JSON(http.StatusOK, product)
}

func (h *ProductHandler) RecordInbound(c *gin.Context) {
	productID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID de producto inválido"})
		return
	}

	var req struct {
		Quantity int `json:"cantidad_entrada" binding:"required,gt=0"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "La cantidad de entrada debe ser mayor que cero"})
		return
	}

	if err := h.Repository.RecordInbound(productID, req.Quantity); err != nil {
		if _, ok := err.(*custom_error.NotFoundError); ok {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "No se pudo registrar la entrada", "details": err.Error()})
		return
	}

	product, err := h.Repository.GetProduct(productID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "No se pudo obtener el producto actualizado", "details": err.Error()})
		return
	}

	userID := authenticatedUserID(c)
	go h.AuditLog.Log(
		auditlog.ActionUpdate,
		"Registró una entrada de inventario para "+product.Name,
		&userID,
		map[string]interface{}{
			"cantidad_entrada": req.Quantity,
			"cantidad_actual":  product.QuantityCurrent,
			"estado":           product.Status,
		},
		product,
	)

	c.JSON(http.StatusOK, product)
}

func authenticatedUserID(c *gin.Context) int {
	raw, err := security.GetUserIDFromToken(c)
	if err != nil {
		return 0
	}
	id, err := strconv.Atoi(raw)
	if err != nil {
		return 0
	}
	return id
}
