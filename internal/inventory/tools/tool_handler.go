package tools

import (
	"net/http"
	"strconv"

	"github.com/ja12as/Proyecto-sena-banco-herramienta/pkg/auditlog"
	custom_error "github.com/ja12as/Proyecto-sena-banco-herramienta/pkg/errors"
	"github.com/ja12as/Proyecto-sena-banco-herramienta/pkg/metadata"
	"github.com/ja12as/Proyecto-sena-banco-herramienta/pkg/models"
	"github.com/ja12as/Proyecto-sena-banco-herramienta/pkg/roles"
	"github.com/ja12as/Proyecto-sena-banco-herramienta/pkg/security"

	"github.com/doug-martin/goqu/v9"
	"github.com/gin-gonic/gin"
)

type ToolHandler struct {
	Repository ToolRepository
	AuditLog   *auditlog.Auditlog
}

func NewHandler(r ToolRepository, a *auditlog.Auditlog) *ToolHandler {
	return &ToolHandler{
		Repository: r,
		AuditLog:   a,
	}
}

func (h *ToolHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/herramientas", security.Authorize(roles.Instructor), h.GetTools)
	router.GET("/herramientas/busqueda", security.Authorize(roles.Instructor), h.SearchTools)
	router.GET("/herramientas/:id", security.Authorize(roles.Instructor), h.GetTool)
	router.POST("/herramientas", security.Authorize(roles.Almacen), h.CreateTool)
	router.PUT("/herramientas/:id", security.Authorize(roles.Almacen), h.UpdateTool)
}

func (h *ToolHandler) CreateTool(c *gin.Context) {
	var req models.ToolRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Cuerpo de la petición inválido", "details": err.Error()})
		return
	}

	ownerID := authenticatedUserID(c)

	tool, err := h.Repository.PersistTool(req, ownerID)
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
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "No se pudo crear la herramienta", "details": err.Error()})
		}
		return
	}

	go h.AuditLog.Log(
		auditlog.ActionCreate,
		"Registró la herramienta "+tool.Name,
		&ownerID,
		map[string]interface{}{
			"codigo":    tool.Code,
			"condicion": tool.Condition,
			"estado":    tool.Status,
		},
		tool,
	)

	c.JSON(http.StatusCreated, tool)
}

func (h *ToolHandler) GetTools(c *gin.Context) {
	tools, err := h.Repository.GetTools()
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "No se pudo obtener la lista de herramientas", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, tools)
}

func (h *ToolHandler) GetTool(c *gin.Context) {
	toolID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID de herramienta inválido"})
		return
	}

	tool, err := h.Repository.GetTool(toolID)
	if err != nil {
		if _, ok := err.(*custom_error.NotFoundError); ok {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "No se pudo obtener la herramienta", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, tool)
}

func (h *ToolHandler) SearchTools(c *gin.Context) {
	name := c.Query("nombre")
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "El parámetro nombre es obligatorio"})
		return
	}

	tools, err := h.Repository.SearchTools(name)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "No se pudo buscar herramientas", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, tools)
}

func (h *ToolHandler) UpdateTool(c *gin.Context) {
	toolID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID de herramienta inválido"})
		return
	}

	var req models.PatchToolRequest
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
	if req.Brand != nil {
		changes["marca"] = *req.Brand
	}
	if req.Notes != nil {
		changes["observaciones"] = *req.Notes
	}
	if req.SubcategoryID != nil {
		changes["subcategoria_id"] = *req.SubcategoryID
	}
	if req.Condition != nil {
		condition, err := metadata.NewToolCondition(*req.Condition)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		changes["condicion"] = string(condition)
		changes["estado"] = metadata.ToolStatusForCondition(condition).String()
	}

	if len(changes) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No hay cambios para aplicar"})
		return
	}

	if err := h.Repository.UpdateTool(toolID, changes); err != nil {
		switch err.(type) {
		case *custom_error.NotFoundError:
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case *custom_error.UniqueViolationError:
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "No se pudo actualizar la herramienta", "details": err.Error()})
		}
		return
	}

	tool, err := h.Repository.GetTool(toolID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "No se pudo obtener la herramienta actualizada", "details": err.Error()})
		return
	}

	userID := authenticatedUserID(c)
	go h.AuditLog.Log(
		auditlog.ActionUpdate,
		"Actualizó la herramienta "+tool.Name,
		&userID,
		req,
		tool,
	)

	c.JSON(http.StatusOK, tool)
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
