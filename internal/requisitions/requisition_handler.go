package requisitions

import (
	"net/http"
	"strconv"

	"github.com/ja12as/Proyecto-sena-banco-herramienta/internal/uploads"
	custom_error "github.com/ja12as/Proyecto-sena-banco-herramienta/pkg/errors"
	"github.com/ja12as/Proyecto-sena-banco-herramienta/pkg/models"
	"github.com/ja12as/Proyecto-sena-banco-herramienta/pkg/roles"
	"github.com/ja12as/Proyecto-sena-banco-herramienta/pkg/security"

	"github.com/gin-gonic/gin"
)

type RequisitionHandler struct {
	Service    *RequisitionService
	Repository RequisitionRepository
	Storage    *uploads.Storage
}

func NewHandler(s *RequisitionService, r RequisitionRepository, storage *uploads.Storage) *RequisitionHandler {
	return &RequisitionHandler{
		Service:    s,
		Repository: r,
		Storage:    storage,
	}
}

func (h *RequisitionHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/pedidos", security.Authorize(roles.Instructor), h.CreateRequisition)
	router.GET("/pedidos", security.Authorize(roles.Almacen), h.GetRequisitions)
	router.GET("/pedidos/coordinador", security.Authorize(roles.Coordinador), h.GetRequisitionsByCoordinator)
	router.GET("/pedidos/:id", security.Authorize(roles.Instructor), h.GetRequisition)
	router.PUT("/pedidos/:id", security.Authorize(roles.Coordinador), h.AuthorizeRequisition)
	router.PUT("/pedidos/:id/salida", security.Authorize(roles.Almacen), h.FulfillRequisition)
}

func (h *RequisitionHandler) CreateRequisition(c *gin.Context) {
	var req models.RequisitionRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Cuerpo de la petición inválido", "details": err.Error()})
		return
	}

	requisition, err := h.Service.CreateRequisition(req, authenticatedUserID(c))
	if err != nil {
		switch err.(type) {
		case *custom_error.ValidationError, *custom_error.ForeignKeyViolationError:
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "No se pudo crear el pedido", "details": err.Error()})
		}
		return
	}

	c.JSON(http.StatusCreated, requisition)
}

func (h *RequisitionHandler) GetRequisitions(c *gin.Context) {
	requisitions, err := h.Repository.GetRequisitions()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "No se pudo obtener la lista de pedidos", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, requisitions)
}

func (h *RequisitionHandler) GetRequisitionsByCoordinator(c *gin.Context) {
	coordinatorID := authenticatedUserID(c)
	if coordinatorID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Token inválido"})
		return
	}

	requisitions, err := h.Repository.GetRequisitionsByCoordinator(coordinatorID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "No se pudo obtener la lista de pedidos", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, requisitions)
}

func (h *RequisitionHandler) GetRequisition(c *gin.Context) {
	requisitionID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID de pedido inválido"})
		return
	}

	requisition, err := h.Repository.GetRequisition(requisitionID)
	if err != nil {
		if _, ok := err.(*custom_error.NotFoundError); ok {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "No se pudo obtener el pedido", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, requisition)
}

// AuthorizeRequisition receives the coordinator's signature as a multipart
// file under the "firma" field.
func (h *RequisitionHandler) AuthorizeRequisition(c *gin.Context) {
	requisitionID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID de pedido inválido"})
		return
	}

	file, err := c.FormFile("firma")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "La firma es obligatoria para autorizar el pedido"})
		return
	}

	signaturePath, err := h.Storage.SaveSignature(c, file)
	if err != nil {
		if _, ok := err.(*custom_error.ValidationError); ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "No se pudo guardar la firma", "details": err.Error()})
		return
	}

	requisition, err := h.Service.Authorize(requisitionID, signaturePath, authenticatedUserID(c))
	if err != nil {
		// The record did not change, so the stored file has no owner.
		_ = h.Storage.Remove(signaturePath)

		switch err.(type) {
		case *custom_error.NotFoundError:
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case *custom_error.ConflictError:
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "No se pudo autorizar el pedido", "details": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, requisition)
}

func (h *RequisitionHandler) FulfillRequisition(c *gin.Context) {
	requisitionID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID de pedido inválido"})
		return
	}

	var req models.DispatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cuerpo de la petición inválido", "details": err.Error()})
		return
	}

	requisition, err := h.Service.Fulfill(requisitionID, req, authenticatedUserID(c))
	if err != nil {
		switch err.(type) {
		case *custom_error.NotFoundError:
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case *custom_error.ConflictError:
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		case *custom_error.ValidationError:
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case *custom_error.InsufficientStockError:
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "No se pudo registrar la salida", "details": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, requisition)
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
