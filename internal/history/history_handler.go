package history

import (
	"net/http"
	"strconv"

	"github.com/ja12as/Proyecto-sena-banco-herramienta/pkg/roles"
	"github.com/ja12as/Proyecto-sena-banco-herramienta/pkg/security"

	"github.com/gin-gonic/gin"
)

type HistoryHandler struct {
	Repository HistoryRepository
}

func NewHandler(r HistoryRepository) *HistoryHandler {
	return &HistoryHandler{Repository: r}
}

func (h *HistoryHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/historial", security.Authorize(roles.Almacen), h.GetEntries)
}

func (h *HistoryHandler) GetEntries(c *gin.Context) {
	filter := Filter{
		ResourceType: c.Query("recurso_tipo"),
		Action:       c.Query("tipo_accion"),
	}
	if raw := c.Query("usuario_id"); raw != "" {
		userID, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "usuario_id inválido"})
			return
		}
		filter.UserID = userID
	}

	entries, err := h.Repository.GetEntries(filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "No se pudo obtener el historial", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, entries)
}
