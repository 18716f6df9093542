package notifications

import (
	"net/http"
	"strconv"

	"github.com/ja12as/Proyecto-sena-banco-herramienta/pkg/roles"
	"github.com/ja12as/Proyecto-sena-banco-herramienta/pkg/security"

	"github.com/gin-gonic/gin"
)

type NotificationHandler struct {
	Repository NotificationRepository
}

func NewHandler(r NotificationRepository) *NotificationHandler {
	return &NotificationHandler{Repository: r}
}

func (h *NotificationHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/notificaciones", security.Authorize(roles.Instructor), h.GetNotifications)
	router.GET("/notificaciones/usuario/:id", security.Authorize(roles.Instructor), h.GetNotificationsForUser)
	router.PUT("/notificaciones/:id/leida", security.Authorize(roles.Instructor), h.MarkRead)
}

func (h *NotificationHandler) GetNotifications(c *gin.Context) {
	notifications, err := h.Repository.GetNotifications()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "No se pudo obtener las notificaciones", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, notifications)
}

func (h *NotificationHandler) GetNotificationsForUser(c *gin.Context) {
	userID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID de usuario inválido"})
		return
	}

	notifications, err := h.Repository.GetNotificationsForUser(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "No se pudo obtener las notificaciones", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, notifications)
}

func (h *NotificationHandler) MarkRead(c *gin.Context) {
	notificationID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID de notificación inválido"})
		return
	}

	raw, err := security.GetUserIDFromToken(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Token inválido"})
		return
	}
	userID, err := strconv.Atoi(raw)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Token inválido"})
		return
	}

	if err := h.Repository.MarkRead(notificationID, userID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "No se pudo marcar la notificación", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Notificación marcada como leída"})
}
