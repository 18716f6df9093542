package catalog

import (
	"fmt"

	"github.com/ja12as/Proyecto-sena-banco-herramienta/internal/repository"
	custom_error "github.com/ja12as/Proyecto-sena-banco-herramienta/pkg/errors"
	"github.com/ja12as/Proyecto-sena-banco-herramienta/pkg/models"

	"github.com/doug-martin/goqu/v9"
	"github.com/lib/pq"
)

type CatalogRepository interface {
	PersistSubcategory(req models.SubcategoryRequest) (*models.Subcategory, error)
	GetSubcategories() ([]models.Subcategory, error)
	UpdateSubcategory(id int, req models.SubcategoryRequest) error
	PersistUnit(req models.UnitRequest) (*models.Unit, error)
	GetUnits() ([]models.Unit, error)
}

type catalogRepositoryImpl struct {
	repository *repository.Repository
}

func NewRepository(r *repository.Repository) CatalogRepository {
	return &catalogRepositoryImpl{repository: r}
}

func (r *catalogRepositoryImpl) PersistSubcategory(req models.SubcategoryRequest) (*models.Subcategory, error) {
	status := req.Status
	if status == "" {
		status = "ACTIVO"
	}

	query := r.repository.GoquDBWrapper.Insert("subcategorias").
		Rows(goqu.Record{
			"nombre": req.Name,
			"estado": status,
		}).
		Returning("id")

	subcategory := models.Subcategory{Name: req.Name, Status: status}

	if _, err := query.Executor().ScanVal(&subcategory.ID); err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return nil, custom_error.WrapDBError("Ya existe una subcategoría con ese nombre", string(pqErr.Code))
		}
		return nil, fmt.Errorf("failed to insert subcategory record: %w", err)
	}

	return &subcategory, nil
}

func (r *catalogRepositoryImpl) GetSubcategories() ([]models.Subcategory, error) {
	var subcategories []models.Subcategory

	query := r.repository.GoquDBWrapper.
		Select("id", "nombre", "estado").
		From("subcategorias").
		Order(goqu.I("nombre").Asc())

	if err := query.Executor().ScanStructs(&subcategories); err != nil {
		return nil, fmt.Errorf("error executing SQL statement: %w", err)
	}

	return subcategories, nil
}

func (r *catalogRepositoryImpl) UpdateSubcategory(id int, req models.SubcategoryRequest) error {
	changes := goqu.Record{"nombre": req.Name}
	if req.Status != "" {
		changes["estado"] = req.Status
	}

	result, err := r.repository.GoquDBWrapper.Update("subcategorias").
		Set(changes).
		Where(goqu.Ex{"id": id}).
		Executor().Exec()
	if err != nil {
		return fmt.Errorf("failed to update subcategory: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return custom_error.NewNotFound("subcategoria", id)
	}

	return nil
}

func (r *catalogRepositoryImpl) PersistUnit(req models.UnitRequest) (*models.Unit, error) {
	query := r.repository.GoquDBWrapper.Insert("unidades_medida").
		Rows(goqu.Record{
			"nombre": req.Name,
			"sigla":  req.Symbol,
		}).
		Returning("id")

	unit := models.Unit{Name: req.Name, Symbol: req.Symbol}

	if _, err := query.Executor().ScanVal(&unit.ID); err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return nil, custom_error.WrapDBError("Ya existe una unidad de medida con ese nombre", string(pqErr.Code))
		}
		return nil, fmt.Errorf("failed to insert unit record: %w", err)
	}

	return &unit, nil
}

func (r *catalogRepositoryImpl) GetUnits() ([]models.Unit, error) {
	var units []models.Unit

	query := r.repository.GoquDBWrapper.
		Select("id", "nombre", "sigla").
		From("unidades_medida").
		Order(goqu.I("nombre").Asc())

	if err := query.Executor().ScanStructs(&units); err != nil {
		return nil, fmt.Errorf("error executing SQL statement: %w", err)
	}

	return units, nil
}
