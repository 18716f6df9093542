package fichas

import (
	"net/http"
	"strconv"

	"github.com/ja12as/Proyecto-sena-banco-herramienta/pkg/auditlog"
	custom_error "github.com/ja12as/Proyecto-sena-banco-herramienta/pkg/errors"
	"github.com/ja12as/Proyecto-sena-banco-herramienta/pkg/models"
	"github.com/ja12as/Proyecto-sena-banco-herramienta/pkg/roles"
	"github.com/ja12as/Proyecto-sena-banco-herramienta/pkg/security"

	"github.com/gin-gonic/gin"
)

type FichaHandler struct {
	Repository FichaRepository
	AuditLog   *auditlog.Auditlog
}

func NewHandler(r FichaRepository, a *auditlog.Auditlog) *FichaHandler {
	return &FichaHandler{
		Repository: r,
		AuditLog:   a,
	}
}

func (h *FichaHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/fichas", security.Authorize(roles.Instructor), h.GetFichas)
	router.GET("/fichas/:id", security.Authorize(roles.Instructor), h.GetFicha)
	router.POST("/fichas", security.Authorize(roles.Coordinador), h.CreateFicha)
	router.PUT("/fichas/:id", security.Authorize(roles.Coordinador), h.UpdateFicha)
	router.GET("/fichas/:id/instructores", security.Authorize(roles.Instructor), h.GetInstructors)
	router.POST("/fichas/:id/instructores", security.Authorize(roles.Coordinador), h.AssignInstructor)
}

func (h *FichaHandler) CreateFicha(c *gin.Context) {
	var req models.FichaRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Cuerpo de la petición inválido", "details": err.Error()})
		return
	}

	ownerID := authenticatedUserID(c)

	ficha, err := h.Repository.PersistFicha(req, ownerID)
	if err != nil {
		if _, ok := err.(*custom_error.UniqueViolationError); ok {
			c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "No se pudo crear la ficha", "details": err.Error()})
		return
	}

	go h.AuditLog.Log(
		auditlog.ActionCreate,
		"Creó la ficha "+ficha.Number+" del programa "+ficha.Program,
		&ownerID,
		req,
		ficha,
	)

	c.JSON(http.StatusCreated, ficha)
}

func (h *FichaHandler) GetFichas(c *gin.Context) {
	fichas, err := h.Repository.GetFichas()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "No se pudo obtener la lista de fichas", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, fichas)
}

func (h *FichaHandler) GetFicha(c *gin.Context) {
	fichaID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID de ficha inválido"})
		return
	}

	ficha, err := h.Repository.GetFicha(fichaID)
	if err != nil {
		if _, ok := err.(*custom_error.NotFoundError); ok {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "No se pudo obtener la ficha", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, ficha)
}

func (h *FichaHandler) UpdateFicha(c *gin.Context) {
	fichaID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID de ficha inválido"})
		return
	}

	var req models.FichaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cuerpo de la petición inválido", "details": err.Error()})
		return
	}

	actorID := authenticatedUserID(c)

	if err := h.Repository.UpdateFicha(fichaID, req, actorID); err != nil {
		switch err.(type) {
		case *custom_error.NotFoundError:
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case *custom_error.UniqueViolationError:
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "No se pudo actualizar la ficha", "details": err.Error()})
		}
		return
	}

	ficha, err := h.Repository.GetFicha(fichaID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "No se pudo obtener la ficha actualizada", "details": err.Error()})
		return
	}

	go h.AuditLog.Log(
		auditlog.ActionUpdate,
		"Actualizó la ficha "+ficha.Number,
		&actorID,
		req,
		ficha,
	)

	c.JSON(http.StatusOK, ficha)
}

func (h *FichaHandler) AssignInstructor(c *gin.Context) {
	fichaID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID de ficha inválido"})
		return
	}

	var req models.AssignInstructorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cuerpo de la petición inválido", "details": err.Error()})
		return
	}

	ficha, err := h.Repository.GetFicha(fichaID)
	if err != nil {
		if _, ok := err.(*custom_error.NotFoundError); ok {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "No se pudo obtener la ficha", "details": err.Error()})
		return
	}

	if err := h.Repository.AssignInstructor(fichaID, req.InstructorID, req.Semester); err != nil {
		switch err.(type) {
		case *custom_error.NotFoundError, *custom_error.ValidationError, *custom_error.ForeignKeyViolationError:
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case *custom_error.UniqueViolationError:
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "No se pudo asignar el instructor", "details": err.Error()})
		}
		return
	}

	actorID := authenticatedUserID(c)
	go h.AuditLog.Log(
		auditlog.ActionUpdate,
		"Asignó un instructor a la ficha "+ficha.Number,
		&actorID,
		req,
		ficha,
	)

	c.JSON(http.StatusCreated, gin.H{"message": "Instructor asignado correctamente"})
}

func (h *FichaHandler) GetInstructors(c *gin.Context) {
	fichaID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID de ficha inválido"})
		return
	}

	instructors, err := h.Repository.GetInstructors(fichaID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "No se pudo obtener los instructores de la ficha", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, instructors)
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
