package users

import (
	"net/http"
	"strconv"

	"github.com/ja12as/Proyecto-sena-banco-herramienta/pkg/auditlog"
	custom_error "github.com/ja12as/Proyecto-sena-banco-herramienta/pkg/errors"
	"github.com/ja12as/Proyecto-sena-banco-herramienta/pkg/models"
	"github.com/ja12as/Proyecto-sena-banco-herramienta/pkg/roles"
	"github.com/ja12as/Proyecto-sena-banco-herramienta/pkg/security"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

type UsersHandler struct {
	Repository UserRepository
	AuditLog   *auditlog.Auditlog
}

func NewHandler(r UserRepository, a *auditlog.Auditlog) *UsersHandler {
	return &UsersHandler{
		Repository: r,
		AuditLog:   a,
	}
}

func (h *UsersHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/usuarios", security.Authorize(roles.Admin), h.RegisterUser)
	router.GET("/usuarios", security.Authorize(roles.Almacen), h.GetUserList)
	router.GET("/usuarios/:id", security.Authorize(roles.Almacen), h.GetUser)
	router.PUT("/usuarios/:id", security.Authorize(roles.Admin), h.UpdateUser)
	router.GET("/roles", security.Authorize(roles.Admin), h.ListRoles)
}

// ListRoles expone el catálogo de roles; la jerarquía vive en el código, no
// en la base de datos, así que la lista es fija.
func (h *UsersHandler) ListRoles(c *gin.Context) {
	available := roles.All()
	list := make([]gin.H, 0, len(available))
	for _, role := range available {
		list = append(list, gin.H{
			"nombre": role.String(),
			"nivel":  int(role.GetHierarchyLevel()),
		})
	}

	c.JSON(http.StatusOK, list)
}

func (h *UsersHandler) RegisterUser(c *gin.Context) {
	var req models.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Cuerpo de la petición inválido", "details": err.Error()})
		return
	}

	if !roles.Role(req.Role).IsValid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Rol inválido: " + req.Role})
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "No se pudo procesar la contraseña"})
		return
	}

	user, err := h.Repository.PersistUser(req, hashedPassword)
	if err != nil {
		switch err.(type) {
		case *custom_error.UniqueViolationError:
			c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "No se pudo crear el usuario", "details": err.Error()})
		}
		return
	}

	actorID := authenticatedUserID(c)
	go h.AuditLog.Log(
		auditlog.ActionCreate,
		"Registró el usuario "+user.Name,
		&actorID,
		map[string]interface{}{
			"correo": user.Email,
			"rol":    user.Role,
		},
		user,
	)

	c.JSON(http.StatusCreated, user)
}

func (h *UsersHandler) GetUserList(c *gin.Context) {
	users, err := h.Repository.GetUsers()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "No se pudo obtener la lista de usuarios", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, users)
}

func (h *UsersHandler) GetUser(c *gin.Context) {
	userID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID de usuario inválido"})
		return
	}

	user, err := h.Repository.GetUser(userID)
	if err != nil {
		switch err.(type) {
		case *custom_error.NotFoundError:
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "No se pudo obtener el usuario", "details": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, user)
}

func (h *UsersHandler) UpdateUser(c *gin.Context) {
	userID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID de usuario inválido"})
		return
	}

	var req models.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Cuerpo de la petición inválido", "details": err.Error()})
		return
	}

	user, err := h.Repository.GetUser(userID)
	if err != nil {
		switch err.(type) {
		case *custom_error.NotFoundError:
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "No se pudo obtener el usuario", "details": err.Error()})
		}
		return
	}

	changes, err := buildChanges(&req, user)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if !changes.HasChanges() {
		c.JSON(http.StatusOK, user)
		return
	}

	if err := h.Repository.UpdateUser(userID, changes); err != nil {
		switch err.(type) {
		case *custom_error.UniqueViolationError:
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "No se pudo actualizar el usuario", "details": err.Error()})
		}
		return
	}

	updatedUser, err := h.Repository.GetUser(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "No se pudo obtener el usuario actualizado", "details": err.Error()})
		return
	}

	actorID := authenticatedUserID(c)
	go h.AuditLog.Log(
		auditlog.ActionUpdate,
		"Actualizó el usuario "+updatedUser.Name,
		&actorID,
		map[string]interface{}{
			"rol":    updatedUser.Role,
			"estado": updatedUser.Status,
		},
		updatedUser,
	)

	c.JSON(http.StatusOK, updatedUser)
}

func buildChanges(req *models.UpdateUserRequest, user *models.User) (*models.UserChanges, error) {
	changes := &models.UserChanges{}

	if req.Name != nil && *req.Name != user.Name {
		changes.Name = req.Name
	}

	if req.Email != nil && *req.Email != user.Email {
		changes.Email = req.Email
	}

	if req.Password != nil && *req.Password != "" {
		if len(*req.Password) < 6 {
			return nil, custom_error.NewValidation("la contraseña debe tener al menos 6 caracteres")
		}
		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		passwordHash := string(hashedPassword)
		changes.PasswordHash = &passwordHash
	}

	if req.Role != nil && *req.Role != user.Role {
		if !roles.Role(*req.Role).IsValid() {
			return nil, custom_error.NewValidation("rol inválido: %s", *req.Role)
		}
		changes.Role = req.Role
	}

	if req.Status != nil && *req.Status != user.Status {
		if *req.Status != "ACTIVO" && *req.Status != "INACTIVO" {
			return nil, custom_error.NewValidation("estado inválido: %s", *req.Status)
		}
		changes.Status = req.Status
	}

	return changes, nil
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
