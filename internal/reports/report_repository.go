package reports

import (
	"fmt"
	"time"

	"github.com/ja12as/Proyecto-sena-banco-herramienta/internal/repository"
	"github.com/ja12as/Proyecto-sena-banco-herramienta/pkg/metadata"

	"github.com/doug-martin/goqu/v9"
)

type ReportRepository interface {
	MostRequestedProducts(limit int) ([]ProductUsageRow, error)
	MostRequestedTools(limit int) ([]ToolUsageRow, error)
	DepletedProducts() ([]DepletedProductRow, error)
	BadConditionTools() ([]BadToolRow, error)
	RequisitionsPerCoordinator() ([]CoordinatorRow, error)
	RecentProducts(since time.Time) ([]RecentProductRow, error)
	DispatchesByFicha() ([]FichaDispatchRow, error)
	DispatchesByAssignee() ([]AssigneeDispatchRow, error)
}

// ProductUsageRow aggregates how many units of a product left the
// inventory across every requisition.
type ProductUsageRow struct {
	ProductName string `db:"nombre" json:"nombre"`
	Total       int    `db:"total_solicitado" json:"total_solicitado"`
}

type ToolUsageRow struct {
	ToolName string `db:"nombre" json:"nombre"`
	Total    int    `db:"total_solicitado" json:"total_solicitado"`
}

type DepletedProductRow struct {
	ProductName     string `db:"nombre" json:"nombre"`
	Code            string `db:"codigo" json:"codigo"`
	QuantityCurrent int    `db:"cantidad_actual" json:"cantidad_actual"`
}

type BadToolRow struct {
	ToolName  string `db:"nombre" json:"nombre"`
	Code      string `db:"codigo" json:"codigo"`
	Condition string `db:"condicion" json:"condicion"`
	Status    string `db:"estado" json:"estado"`
}

type CoordinatorRow struct {
	CoordinatorName string `db:"jefe_oficina" json:"jefe_oficina"`
	Total           int    `db:"total_pedidos" json:"total_pedidos"`
}

type RecentProductRow struct {
	ProductName     string    `db:"nombre" json:"nombre"`
	Code            string    `db:"codigo" json:"codigo"`
	Description     string    `db:"descripcion" json:"descripcion"`
	QuantityCurrent int       `db:"cantidad_actual" json:"cantidad_actual"`
	QuantityIn      int       `db:"cantidad_entrada" json:"cantidad_entrada"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
}

type FichaDispatchRow struct {
	Date        time.Time `db:"created_at" json:"fecha"`
	FichaCode   string    `db:"codigo_ficha" json:"codigo_ficha"`
	ProductName string    `db:"producto_nombre" json:"producto_nombre"`
	Dispatched  int       `db:"cantidad_salida" json:"cantidad_salida"`
}

type AssigneeDispatchRow struct {
	Date         time.Time `db:"created_at" json:"fecha"`
	AssigneeName string    `db:"servidor_asignado" json:"servidor_asignado"`
	ProductName  string    `db:"producto_nombre" json:"producto_nombre"`
	Dispatched   int       `db:"cantidad_salida" json:"cantidad_salida"`
}

type reportRepositoryImpl struct {
	repository *repository.Repository
}

func NewRepository(r *repository.Repository) ReportRepository {
	return &reportRepositoryImpl{repository: r}
}

func (r *reportRepositoryImpl) MostRequestedProducts(limit int) ([]ProductUsageRow, error) {
	query := r.repository.GoquDBWrapper.
		Select(
			goqu.I("p.nombre").As("nombre"),
			goqu.SUM(goqu.I("pp.cantidad_salida")).As("total_solicitado"),
		).
		From(goqu.T("pedidos_productos").As("pp")).
		Join(goqu.T("productos").As("p"), goqu.On(goqu.Ex{"p.id": goqu.I("pp.producto_id")})).
		GroupBy(goqu.I("p.nombre")).
		Order(goqu.I("total_solicitado").Desc()).
		Limit(uint(limit))

	var rows []ProductUsageRow
	if err := query.Executor().ScanStructs(&rows); err != nil {
		return nil, fmt.Errorf("error executing SQL statement: %w", err)
	}

	return rows, nil
}

func (r *reportRepositoryImpl) MostRequestedTools(limit int) ([]ToolUsageRow, error) {
	query := r.repository.GoquDBWrapper.
		Select(
			goqu.I("h.nombre").As("nombre"),
			goqu.COUNT(goqu.I("ph.herramienta_id")).As("total_solicitado"),
		).
		From(goqu.T("prestamos_herramientas").As("ph")).
		Join(goqu.T("herramientas").As("h"), goqu.On(goqu.Ex{"h.id": goqu.I("ph.herramienta_id")})).
		GroupBy(goqu.I("h.nombre")).
		Order(goqu.I("total_solicitado").Desc()).
		Limit(uint(limit))

	var rows []ToolUsageRow
	if err := query.Executor().ScanStructs(&rows); err != nil {
		return nil, fmt.Errorf("error executing SQL statement: %w", err)
	}

	return rows, nil
}

func (r *reportRepositoryImpl) DepletedProducts() ([]DepletedProductRow, error) {
	query := r.repository.GoquDBWrapper.
		Select(
			goqu.C("nombre"),
			goqu.C("codigo"),
			goqu.C("cantidad_actual"),
		).
		From("productos").
		Where(goqu.C("cantidad_actual").Lte(metadata.DepletionThreshold)).
		Order(goqu.C("cantidad_actual").Asc())

	var rows []DepletedProductRow
	if err := query.Executor().ScanStructs(&rows); err != nil {
		return nil, fmt.Errorf("error executing SQL statement: %w", err)
	}

	return rows, nil
}

func (r *reportRepositoryImpl) BadConditionTools() ([]BadToolRow, error) {
	query := r.repository.GoquDBWrapper.
		Select(
			goqu.C("nombre"),
			goqu.C("codigo"),
			goqu.C("condicion"),
			goqu.C("estado"),
		).
		From("herramientas").
		Where(goqu.C("condicion").Eq(string(metadata.ConditionBad))).
		Order(goqu.C("nombre").Asc())

	var rows []BadToolRow
	if err := query.Executor().ScanStructs(&rows); err != nil {
		return nil, fmt.Errorf("error executing SQL statement: %w", err)
	}

	return rows, nil
}

func (r *reportRepositoryImpl) RequisitionsPerCoordinator() ([]CoordinatorRow, error) {
	// Only requisitions the coordinator already signed count, a pending
	// one was not approved yet.
	query := r.repository.GoquDBWrapper.
		Select(
			goqu.I("u.nombre").As("jefe_oficina"),
			goqu.COUNT(goqu.I("p.id")).As("total_pedidos"),
		).
		From(goqu.T("pedidos").As("p")).
		Join(goqu.T("usuarios").As("u"), goqu.On(goqu.Ex{"u.id": goqu.I("p.jefe_oficina")})).
		Where(goqu.I("p.estado").Neq(metadata.OrderPending.String())).
		GroupBy(goqu.I("u.nombre")).
		Order(goqu.I("total_pedidos").Desc())

	var rows []CoordinatorRow
	if err := query.Executor().ScanStructs(&rows); err != nil {
		return nil, fmt.Errorf("error executing SQL statement: %w", err)
	}

	return rows, nil
}

func (r *reportRepositoryImpl) RecentProducts(since time.Time) ([]RecentProductRow, error) {
	query := r.repository.GoquDBWrapper.
		Select(
			goqu.C("nombre"),
			goqu.C("codigo"),
			goqu.C("descripcion"),
			goqu.C("cantidad_actual"),
			goqu.C("cantidad_entrada"),
			goqu.C("created_at"),
		).
		From("productos").
		Where(goqu.C("created_at").Gte(since)).
		Order(goqu.C("created_at").Desc())

	var rows []RecentProductRow
	if err := query.Executor().ScanStructs(&rows); err != nil {
		return nil, fmt.Errorf("error executing SQL statement: %w", err)
	}

	return rows, nil
}

func (r *reportRepositoryImpl) DispatchesByFicha() ([]FichaDispatchRow, error) {
	query := r.dispatchSelect(goqu.I("p.codigo_ficha").As("codigo_ficha"))

	var rows []FichaDispatchRow
	if err := query.Executor().ScanStructs(&rows); err != nil {
		return nil, fmt.Errorf("error executing SQL statement: %w", err)
	}

	return rows, nil
}

func (r *reportRepositoryImpl) DispatchesByAssignee() ([]AssigneeDispatchRow, error) {
	query := r.dispatchSelect(goqu.I("p.servidor_asignado").As("servidor_asignado"))

	var rows []AssigneeDispatchRow
	if err := query.Executor().ScanStructs(&rows); err != nil {
		return nil, fmt.Errorf("error executing SQL statement: %w", err)
	}

	return rows, nil
}

func (r *reportRepositoryImpl) dispatchSelect(groupColumn interface{}) *goqu.SelectDataset {
	return r.repository.GoquDBWrapper.
		Select(
			goqu.I("p.created_at").As("created_at"),
			groupColumn,
			goqu.I("pr.nombre").As("producto_nombre"),
			goqu.I("pp.cantidad_salida").As("cantidad_salida"),
		).
		From(goqu.T("pedidos").As("p")).
		Join(goqu.T("pedidos_productos").As("pp"), goqu.On(goqu.Ex{"pp.pedido_id": goqu.I("p.id")})).
		Join(goqu.T("productos").As("pr"), goqu.On(goqu.Ex{"pr.id": goqu.I("pp.producto_id")})).
		Order(goqu.I("p.created_at").Desc())
}
