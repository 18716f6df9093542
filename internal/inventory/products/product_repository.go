package products

import (
	"fmt"

	"github.com/ja12as/Proyecto-sena-banco-herramienta/internal/repository"
	custom_error "github.com/ja12as/Proyecto-sena-banco-herramienta/pkg/errors"
	"github.com/ja12as/Proyecto-sena-banco-herramienta/pkg/metadata"
	"github.com/ja12as/Proyecto-sena-banco-herramienta/pkg/models"

	"github.com/doug-martin/goqu/v9"
	"github.com/lib/pq"
)

type ProductRepository interface {
	PersistProduct(req models.ProductRequest, ownerID int) (*models.Product, error)
	GetProducts() ([]models.Product, error)
	GetProduct(id int) (*models.Product, error)
	SearchProducts(name string) ([]models.Product, error)
	UpdateProduct(id int, changes goqu.Record) error
	RecordInbound(id int, quantity int) error
	Withdraw(tx *goqu.TxDatabase, productID int, quantity int) error
}

type productRepositoryImpl struct {
	repository *repository.Repository
}

func NewRepository(r *repository.Repository) ProductRepository {
	return &productRepositoryImpl{repository: r}
}

func (r *productRepositoryImpl) PersistProduct(req models.ProductRequest, ownerID int) (*models.Product, error) {
	if err := r.subcategoryActive(req.SubcategoryID); err != nil {
		return nil, err
	}

	status := metadata.ProductStatusFor(req.QuantityIn)

	query := r.repository.GoquDBWrapper.Insert("productos").
		Rows(goqu.Record{
			"nombre":           req.Name,
			"codigo":           req.Code,
			"descripcion":      req.Description,
			"marca":            req.Brand,
			"cantidad_entrada": req.QuantityIn,
			"cantidad_salida":  0,
			"cantidad_actual":  req.QuantityIn,
			"estado":           status.String(),
			"unidad_medida_id": req.UnitID,
			"subcategoria_id":  req.SubcategoryID,
			"usuario_id":       ownerID,
		}).
		Returning("id")

	product := models.Product{
		Name:            req.Name,
		Code:            req.Code,
		Description:     req.Description,
		Brand:           req.Brand,
		QuantityIn:      req.QuantityIn,
		QuantityCurrent: req.QuantityIn,
		Status:          status.String(),
		Unit:            models.Unit{ID: req.UnitID},
		Subcategory:     models.Subcategory{ID: req.SubcategoryID},
		OwnerID:         ownerID,
	}

	if _, err := query.Executor().ScanVal(&product.ID); err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			if pqErr.Code == "23505" {
				return nil, custom_error.WrapDBError("Ya existe un producto con ese código", string(pqErr.Code))
			}
			if pqErr.Code == "23503" {
				return nil, custom_error.WrapDBError("La subcategoría o unidad de medida no existe", string(pqErr.Code))
			}
		}
		return nil, fmt.Errorf("failed to insert product record: %w", err)
	}

	return &product, nil
}

// subcategoryActive rejects references to retired subcategories.
func (r *productRepositoryImpl) subcategoryActive(id int) error {
	var status string
	found, err := r.repository.GoquDBWrapper.
		Select("estado").
		From("subcategorias").
		Where(goqu.Ex{"id": id}).
		Executor().ScanVal(&status)
	if err != nil {
		return fmt.Errorf("failed to check subcategory: %w", err)
	}
	if !found {
		return custom_error.NewNotFound("subcategoría", id)
	}
	if status != "ACTIVO" {
		return custom_error.NewValidation("la subcategoría %d no está activa", id)
	}
	return nil
}

func (r *productRepositoryImpl) baseSelect() *goqu.SelectDataset {
	return r.repository.GoquDBWrapper.
		Select(
			goqu.I("p.id").As("product_id"),
			goqu.I("p.nombre").As("nombre"),
			goqu.I("p.codigo").As("codigo"),
			goqu.I("p.descripcion").As("descripcion"),
			goqu.I("p.marca").As("marca"),
			goqu.I("p.cantidad_entrada").As("cantidad_entrada"),
			goqu.I("p.cantidad_salida").As("cantidad_salida"),
			goqu.I("p.cantidad_actual").As("cantidad_actual"),
			goqu.I("p.estado").As("estado"),
			goqu.I("p.created_at").As("created_at"),
			goqu.I("u.id").As("unit_id"),
			goqu.I("u.nombre").As("unit_name"),
			goqu.I("u.sigla").As("unit_symbol"),
			goqu.I("s.id").As("subcategory_id"),
			goqu.I("s.nombre").As("subcategory_name"),
			goqu.I("us.id").As("owner_id"),
			goqu.I("us.nombre").As("owner_name"),
		).
		From(goqu.T("productos").As("p")).
		LeftJoin(goqu.T("unidades_medida").As("u"), goqu.On(goqu.Ex{"u.id": goqu.I("p.unidad_medida_id")})).
		LeftJoin(goqu.T("subcategorias").As("s"), goqu.On(goqu.Ex{"s.id": goqu.I("p.subcategoria_id")})).
		LeftJoin(goqu.T("usuarios").As("us"), goqu.On(goqu.Ex{"us.id": goqu.I("p.usuario_id")}))
}

func (r *productRepositoryImpl) GetProducts() ([]models.Product, error) {
	var flatProducts []models.FlatProductRecord

	query := r.baseSelect().Order(goqu.I("p.id").Asc())

	if err := query.Executor().ScanStructs(&flatProducts); err != nil {
		return nil, fmt.Errorf("error executing SQL statement: %w", err)
	}

	products := make([]models.Product, 0, len(flatProducts))
	for _, flat := range flatProducts {
		products = append(products, flat.TransformToProduct())
	}

	return products, nil
}

func (r *productRepositoryImpl) GetProduct(id int) (*models.Product, error) {
	var flat models.FlatProductRecord

	query := r.baseSelect().Where(goqu.Ex{"p.id": id})

	found, err := query.Executor().ScanStruct(&flat)
	if err != nil {
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	if !found {
		return nil, custom_error.NewNotFound("producto", id)
	}

	product := flat.TransformToProduct()
	return &product, nil
}

func (r *productRepositoryImpl) SearchProducts(name string) ([]models.Product, error) {
	var flatProducts []models.FlatProductRecord

	query := r.baseSelect().
		Where(goqu.I("p.nombre").ILike("%" + name + "%")).
		Order(goqu.I("p.nombre").Asc())

	if err := query.Executor().ScanStructs(&flatProducts); err != nil {
		return nil, fmt.Errorf("error executing SQL statement: %w", err)
	}

	products := make([]models.Product, 0, len(flatProducts))
	for _, flat := range flatProducts {
		products = append(products, flat.TransformToProduct())
	}

	return products, nil
}

func (r *productRepositoryImpl) UpdateProduct(id int, changes goqu.Record) error {
	changes["updated_at"] = goqu.L("now()")

	query := r.repository.GoquDBWrapper.Update("productos").
		Set(changes).
		Where(goqu.Ex{"id": id})

	result, err := query.Executor().Exec()
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return custom_error.WrapDBError("Ya existe un producto con ese código", string(pqErr.Code))
		}
		return fmt.Errorf("failed to update product: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return custom_error.NewNotFound("producto", id)
	}

	return nil
}

// inboundRecord builds the column set for a registered inbound event. An
// inbound edit restarts the counters: the new amount becomes both the recorded
// entry and the on-hand quantity, and the outbound counter goes back to zero.
func inboundRecord(quantity int) goqu.Record {
	return goqu.Record{
		"cantidad_entrada": quantity,
		"cantidad_actual":  quantity,
		"cantidad_salida":  0,
		"estado":           metadata.ProductStatusFor(quantity).String(),
		"updated_at":       goqu.L("now()"),
	}
}

// RecordInbound replaces the product counters with a fresh inbound event.
func (r *productRepositoryImpl) RecordInbound(id int, quantity int) error {
	query := r.repository.GoquDBWrapper.Update("productos").
		Set(inboundRecord(quantity)).
		Where(goqu.Ex{"id": id})

	result, err := query.Executor().Exec()
	if err != nil {
		return fmt.Errorf("failed to record product inbound: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return custom_error.NewNotFound("producto", id)
	}

	return nil
}

// Withdraw decrements the on-hand quantity inside the caller's transaction.
// The guard on cantidad_actual keeps the quantity from going below zero; the
// status is recomputed in the same statement.
func (r *productRepositoryImpl) Withdraw(tx *goqu.TxDatabase, productID int, quantity int) error {
	query := tx.Update("productos").
		Set(goqu.Record{
			"cantidad_actual": goqu.L("cantidad_actual - ?", quantity),
			"cantidad_salida": goqu.L("cantidad_salida + ?", quantity),
			"estado": goqu.L(
				"CASE WHEN cantidad_actual - ? <= ? THEN ? ELSE ? END",
				quantity, metadata.DepletionThreshold,
				metadata.ProductDepleted.String(), metadata.ProductActive.String(),
			),
			"updated_at": goqu.L("now()"),
		}).
		Where(goqu.Ex{"id": productID}).
		Where(goqu.C("cantidad_actual").Gte(quantity))

	result, err := query.Executor().Exec()
	if err != nil {
		return fmt.Errorf("failed to withdraw product %d: %w", productID, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected for product %d: %w", productID, err)
	}

	if rowsAffected == 0 {
		var available int
		found, err := tx.Select("cantidad_actual").
			From("productos").
			Where(goqu.Ex{"id": productID}).
			Executor().ScanVal(&available)
		if err != nil {
			return fmt.Errorf("failed to check available quantity for product %d: %w", productID, err)
		}
		if !found {
			return custom_error.NewNotFound("producto", productID)
		}
		return &custom_error.InsufficientStockError{
			ProductID: productID,
			Requested: quantity,
			Available: available,
		}
	}

	return nil
}
