package reports

import (
	"fmt"
	"net/http"
	"time"

	"github.com/ja12as/Proyecto-sena-banco-herramienta/pkg/roles"
	"github.com/ja12as/Proyecto-sena-banco-herramienta/pkg/security"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
)

const (
	topRequestedLimit = 10
	recentProductDays = 30
)

type ReportHandler struct {
	Repository ReportRepository
}

func NewHandler(r ReportRepository) *ReportHandler {
	return &ReportHandler{Repository: r}
}

func (h *ReportHandler) RegisterRoutes(router *gin.RouterGroup) {
	reports := router.Group("/reportes", security.Authorize(roles.Almacen))
	reports.GET("/productos-mas-solicitados", h.MostRequestedProducts)
	reports.GET("/herramientas-mas-solicitadas", h.MostRequestedTools)
	reports.GET("/productos-agotados", h.DepletedProducts)
	reports.GET("/herramientas-mal-estado", h.BadConditionTools)
	reports.GET("/pedidos-por-coordinador", h.RequisitionsPerCoordinator)
	reports.GET("/productos-nuevos", h.RecentProducts)
	reports.GET("/productos-por-ficha", h.DispatchesByFicha)
	reports.GET("/productos-por-instructor", h.DispatchesByAssignee)
}

func (h *ReportHandler) MostRequestedProducts(c *gin.Context) {
	rows, err := h.Repository.MostRequestedProducts(topRequestedLimit)
	if err != nil {
		reportError(c, err)
		return
	}

	if wantsExcel(c) {
		sheet := newSheet("Productos Más Solicitados", []string{"Nombre del Producto", "Total Solicitado"})
		for _, row := range rows {
			sheet.addRow(row.ProductName, row.Total)
		}
		sheet.write(c, "productos_mas_solicitados.xlsx")
		return
	}

	c.JSON(http.StatusOK, rows)
}

func (h *ReportHandler) MostRequestedTools(c *gin.Context) {
	rows, err := h.Repository.MostRequestedTools(topRequestedLimit)
	if err != nil {
		reportError(c, err)
		return
	}

	if wantsExcel(c) {
		sheet := newSheet("Herramientas Más Solicitadas", []string{"Nombre de la Herramienta", "Total Solicitada"})
		for _, row := range rows {
			sheet.addRow(row.ToolName, row.Total)
		}
		sheet.write(c, "herramientas_mas_solicitadas.xlsx")
		return
	}

	c.JSON(http.StatusOK, rows)
}

func (h *ReportHandler) DepletedProducts(c *gin.Context) {
	rows, err := h.Repository.DepletedProducts()
	if err != nil {
		reportError(c, err)
		return
	}

	if wantsExcel(c) {
		sheet := newSheet("Productos Agotados", []string{"Nombre del Producto", "Código", "Cantidad Actual"})
		for _, row := range rows {
			sheet.addRow(row.ProductName, row.Code, row.QuantityCurrent)
		}
		sheet.write(c, "productos_agotados.xlsx")
		return
	}

	c.JSON(http.StatusOK, rows)
}

func (h *ReportHandler) BadConditionTools(c *gin.Context) {
	rows, err := h.Repository.BadConditionTools()
	if err != nil {
		reportError(c, err)
		return
	}

	if wantsExcel(c) {
		sheet := newSheet("Herramientas en Mal Estado", []string{"Nombre", "Código", "Condición", "Estado"})
		for _, row := range rows {
			sheet.addRow(row.ToolName, row.Code, row.Condition, row.Status)
		}
		sheet.write(c, "herramientas_en_mal_estado.xlsx")
		return
	}

	c.JSON(http.StatusOK, rows)
}

func (h *ReportHandler) RequisitionsPerCoordinator(c *gin.Context) {
	rows, err := h.Repository.RequisitionsPerCoordinator()
	if err != nil {
		reportError(c, err)
		return
	}

	if wantsExcel(c) {
		sheet := newSheet("Pedidos por Coordinador", []string{"Coordinador", "Total Pedidos Aprobados"})
		for _, row := range rows {
			sheet.addRow(row.CoordinatorName, row.Total)
		}
		sheet.write(c, "pedidos_aprobados_por_coordinador.xlsx")
		return
	}

	c.JSON(http.StatusOK, rows)
}

func (h *ReportHandler) RecentProducts(c *gin.Context) {
	since := time.Now().AddDate(0, 0, -recentProductDays)

	rows, err := h.Repository.RecentProducts(since)
	if err != nil {
		reportError(c, err)
		return
	}

	if wantsExcel(c) {
		sheet := newSheet("Productos Nuevos", []string{
			"Nombre", "Código", "Descripción", "Cantidad Actual", "Cantidad Entrada", "Fecha de Creación",
		})
		for _, row := range rows {
			sheet.addRow(row.ProductName, row.Code, row.Description, row.QuantityCurrent, row.QuantityIn, formatDate(row.CreatedAt))
		}
		sheet.write(c, "productos_nuevos.xlsx")
		return
	}

	c.JSON(http.StatusOK, rows)
}

func (h *ReportHandler) DispatchesByFicha(c *gin.Context) {
	rows, err := h.Repository.DispatchesByFicha()
	if err != nil {
		reportError(c, err)
		return
	}

	if wantsExcel(c) {
		sheet := newSheet("Productos Solicitados", []string{"Fecha", "Código Ficha", "Nombre del Producto", "Cantidad Salida"})
		for _, row := range rows {
			sheet.addRow(formatDate(row.Date), row.FichaCode, row.ProductName, row.Dispatched)
		}
		sheet.write(c, "productos_solicitados_por_ficha.xlsx")
		return
	}

	c.JSON(http.StatusOK, rows)
}

func (h *ReportHandler) DispatchesByAssignee(c *gin.Context) {
	rows, err := h.Repository.DispatchesByAssignee()
	if err != nil {
		reportError(c, err)
		return
	}

	if wantsExcel(c) {
		sheet := newSheet("Productos Solicitados", []string{"Fecha", "Servidor Asignado", "Nombre del Producto", "Cantidad Salida"})
		for _, row := range rows {
			sheet.addRow(formatDate(row.Date), row.AssigneeName, row.ProductName, row.Dispatched)
		}
		sheet.write(c, "productos_solicitados_por_instructor.xlsx")
		return
	}

	c.JSON(http.StatusOK, rows)
}

func wantsExcel(c *gin.Context) bool {
	return c.Query("formato") == "excel"
}

func formatDate(t time.Time) string {
	return t.Format("02/01/2006")
}

func reportError(c *gin.Context, err error) {
	c.JSON(http.StatusInternalServerError, gin.H{"error": "No se pudo generar el reporte", "details": err.Error()})
}

// sheet collects report rows and streams them as a single-worksheet
// xlsx attachment.
type sheet struct {
	file    *excelize.File
	name    string
	nextRow int
}

func newSheet(name string, headers []string) *sheet {
	f := excelize.NewFile()
	f.SetSheetName("Sheet1", name)

	s := &sheet{file: f, name: name, nextRow: 1}
	cells := make([]interface{}, len(headers))
	for i, header := range headers {
		cells[i] = header
	}
	s.setRow(cells)

	return s
}

func (s *sheet) addRow(values ...interface{}) {
	s.setRow(values)
}

func (s *sheet) setRow(values []interface{}) {
	cell, _ := excelize.CoordinatesToCellName(1, s.nextRow)
	_ = s.file.SetSheetRow(s.name, cell, &values)
	s.nextRow++
}

func (s *sheet) write(c *gin.Context, filename string) {
	defer s.file.Close()

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))

	if err := s.file.Write(c.Writer); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "No se pudo generar el reporte"})
	}
}
