package loans

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

type LoanHandler struct {
	Service    *LoanService
	Repository LoanRepository
	Storage    *uploads.Storage
}

func NewHandler(s *LoanService, r LoanRepository, storage *uploads.Storage) *LoanHandler {
	return &LoanHandler{
		Service:    s,
		Repository: r,
		Storage:    storage,
	}
}

func (h *LoanHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/prestamos", security.Authorize(roles.Instructor), h.CreateLoan)
	router.GET("/prestamos", security.Authorize(roles.Almacen), h.GetLoans)
	router.GET("/prestamos/coordinador", security.Authorize(roles.Coordinador), h.GetLoansByCoordinator)
	router.GET("/prestamos/:id", security.Authorize(roles.Instructor), h.GetLoan)
	router.PUT("/prestamos/:id", security.Authorize(roles.Coordinador), h.AuthorizeLoan)
	router.PUT("/prestamos/:id/entrega", security.Authorize(roles.Almacen), h.HandOutLoan)
	router.PUT("/prestamos/:id/devolucion", security.Authorize(roles.Almacen), h.ReturnLoan)
}

func (h *LoanHandler) CreateLoan(c *gin.Context) {
	var req models.LoanRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Cuerpo de la petición inválido", "details": err.Error()})
		return
	}

	loan, err := h.Service.CreateLoan(req, authenticatedUserID(c))
	if err != nil {
		switch err.(type) {
		case *custom_error.ValidationError, *custom_error.ForeignKeyViolationError:
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case *custom_error.ConflictError:
			c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "No se pudo crear el préstamo", "details": err.Error()})
		}
		return
	}

	c.JSON(http.StatusCreated, loan)
}

func (h *LoanHandler) GetLoans(c *gin.Context) {
	loans, err := h.Repository.GetLoans()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "No se pudo obtener la lista de préstamos", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, loans)
}

func (h *LoanHandler) GetLoansByCoordinator(c *gin.Context) {
	coordinatorID := authenticatedUserID(c)
	if coordinatorID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Token inválido"})
		return
	}

	loans, err := h.Repository.GetLoansByCoordinator(coordinatorID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "No se pudo obtener la lista de préstamos", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, loans)
}

func (h *LoanHandler) GetLoan(c *gin.Context) {
	loanID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID de préstamo inválido"})
		return
	}

	loan, err := h.Repository.GetLoan(loanID)
	if err != nil {
		if _, ok := err.(*custom_error.NotFoundError); ok {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "No se pudo obtener el préstamo", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, loan)
}

func (h *LoanHandler) AuthorizeLoan(c *gin.Context) {
	loanID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID de préstamo inválido"})
		return
	}

	file, err := c.FormFile("firma")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "La firma es obligatoria para autorizar el préstamo"})
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

	loan, err := h.Service.Authorize(loanID, signaturePath, authenticatedUserID(c))
	if err != nil {
		_ = h.Storage.Remove(signaturePath)

		switch err.(type) {
		case *custom_error.NotFoundError:
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case *custom_error.ConflictError:
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "No se pudo autorizar el préstamo", "details": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, loan)
}

func (h *LoanHandler) HandOutLoan(c *gin.Context) {
	loanID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID de préstamo inválido"})
		return
	}

	loan, err := h.Service.HandOut(loanID, authenticatedUserID(c))
	if err != nil {
		switch err.(type) {
		case *custom_error.NotFoundError:
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case *custom_error.ConflictError:
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "No se pudo registrar la entrega", "details": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, loan)
}

func (h *LoanHandler) ReturnLoan(c *gin.Context) {
	loanID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID de préstamo inválido"})
		return
	}

	// The notes body is optional: a return without observations is valid.
	var req models.ReturnRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Cuerpo de la petición inválido", "details": err.Error()})
			return
		}
	}

	loan, err := h.Service.Return(loanID, req, authenticatedUserID(c))
	if err != nil {
		switch err.(type) {
		case *custom_error.NotFoundError:
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case *custom_error.ConflictError:
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		case *custom_error.ValidationError:
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "No se pudo registrar la devolución", "details": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, loan)
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
