package requisitions

import (
	"fmt"
	"time"

	"github.com/ja12as/Proyecto-sena-banco-herramienta/internal/repository"
	custom_error "github.com/ja12as/Proyecto-sena-banco-herramienta/pkg/errors"
	"github.com/ja12as/Proyecto-sena-banco-herramienta/pkg/metadata"
	"github.com/ja12as/Proyecto-sena-banco-herramienta/pkg/models"

	"github.com/doug-martin/goqu/v9"
	"github.com/doug-martin/goqu/v9/exp"
	"github.com/lib/pq"
)

type RequisitionRepository interface {
	InsertRequisition(tx *goqu.TxDatabase, req models.RequisitionRequest) (int, error)
	InsertRequisitionLines(tx *goqu.TxDatabase, requisitionID int, lines []models.RequisitionLineRequest) error
	GetRequisitions() ([]models.Requisition, error)
	GetRequisitionsByCoordinator(coordinatorID int) ([]models.Requisition, error)
	GetRequisition(id int) (*models.Requisition, error)
	GetRequisitionInTx(tx *goqu.TxDatabase, id int) (*models.Requisition, error)
	SetAuthorized(id int, signaturePath string) error
	AccumulateDispatched(tx *goqu.TxDatabase, requisitionID int, productID int, quantity int) error
	SetDelivered(tx *goqu.TxDatabase, id int, deliveredAt time.Time) error
	DeleteUnsigned(tx *goqu.TxDatabase, olderThan time.Time) (int64, error)
}

type requisitionRepositoryImpl struct {
	repository *repository.Repository
}

func NewRepository(r *repository.Repository) RequisitionRepository {
	return &requisitionRepositoryImpl{repository: r}
}

func (r *requisitionRepositoryImpl) InsertRequisition(tx *goqu.TxDatabase, req models.RequisitionRequest) (int, error) {
	var requisitionID int

	query := tx.Insert("pedidos").
		Rows(goqu.Record{
			"codigo_ficha":        req.FichaCode,
			"area":                req.Area,
			"correo":              req.Email,
			"jefe_oficina":        req.CoordinatorID,
			"cedula_jefe_oficina": req.CoordinatorDocument,
			"servidor_asignado":   req.AssigneeName,
			"cedula_servidor":     req.AssigneeDocument,
			"estado":              metadata.OrderPending.String(),
		}).
		Returning("id")

	if _, err := query.Executor().ScanVal(&requisitionID); err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23503" {
			return 0, custom_error.WrapDBError("El jefe de oficina no existe", string(pqErr.Code))
		}
		return 0, fmt.Errorf("failed to insert requisition record: %w", err)
	}

	return requisitionID, nil
}

func (r *requisitionRepositoryImpl) InsertRequisitionLines(tx *goqu.TxDatabase, requisitionID int, lines []models.RequisitionLineRequest) error {
	rows := make([]interface{}, 0, len(lines))
	for _, line := range lines {
		rows = append(rows, goqu.Record{
			"pedido_id":          requisitionID,
			"producto_id":        line.ProductID,
			"cantidad_solicitar": line.Requested,
			"cantidad_salida":    0,
			"observaciones":      line.Notes,
		})
	}

	query := tx.Insert("pedidos_productos").Rows(rows...)

	if _, err := query.Executor().Exec(); err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23503" {
			return custom_error.WrapDBError("Uno de los productos solicitados no existe", string(pqErr.Code))
		}
		return fmt.Errorf("failed to insert requisition lines: %w", err)
	}

	return nil
}

func (r *requisitionRepositoryImpl) headerSelect() *goqu.SelectDataset {
	return r.repository.GoquDBWrapper.
		Select(
			goqu.I("p.id").As("requisition_id"),
			goqu.I("p.codigo_ficha").As("codigo_ficha"),
			goqu.I("p.area").As("area"),
			goqu.I("p.correo").As("correo"),
			goqu.I("p.jefe_oficina").As("jefe_oficina"),
			goqu.I("u.nombre").As("coordinator_name"),
			goqu.I("p.cedula_jefe_oficina").As("cedula_jefe_oficina"),
			goqu.I("p.servidor_asignado").As("servidor_asignado"),
			goqu.I("p.cedula_servidor").As("cedula_servidor"),
			goqu.I("p.firma").As("firma"),
			goqu.I("p.estado").As("estado"),
			goqu.I("p.fecha_entrega").As("fecha_entrega"),
			goqu.I("p.created_at").As("created_at"),
			goqu.I("p.updated_at").As("updated_at"),
		).
		From(goqu.T("pedidos").As("p")).
		LeftJoin(goqu.T("usuarios").As("u"), goqu.On(goqu.Ex{"u.id": goqu.I("p.jefe_oficina")}))
}

func (r *requisitionRepositoryImpl) getLines(requisitionID int) ([]models.RequisitionLine, error) {
	var lines []models.RequisitionLine

	query := r.repository.GoquDBWrapper.
		Select(
			goqu.I("pp.producto_id").As("producto_id"),
			goqu.I("pr.nombre").As("producto_nombre"),
			goqu.I("pp.cantidad_solicitar").As("cantidad_solicitar"),
			goqu.I("pp.cantidad_salida").As("cantidad_salida"),
			goqu.I("pp.observaciones").As("observaciones"),
		).
		From(goqu.T("pedidos_productos").As("pp")).
		LeftJoin(goqu.T("productos").As("pr"), goqu.On(goqu.Ex{"pr.id": goqu.I("pp.producto_id")})).
		Where(goqu.Ex{"pp.pedido_id": requisitionID}).
		Order(goqu.I("pp.producto_id").Asc())

	if err := query.Executor().ScanStructs(&lines); err != nil {
		return nil, fmt.Errorf("error executing SQL statement for requisition lines: %w", err)
	}

	return lines, nil
}

func (r *requisitionRepositoryImpl) scanList(query *goqu.SelectDataset) ([]models.Requisition, error) {
	var flatRecords []models.FlatRequisitionRecord

	if err := query.Executor().ScanStructs(&flatRecords); err != nil {
		return nil, fmt.Errorf("error executing SQL statement: %w", err)
	}

	requisitions := make([]models.Requisition, 0, len(flatRecords))
	for _, flat := range flatRecords {
		requisition := flat.TransformToRequisition()

		lines, err := r.getLines(requisition.ID)
		if err != nil {
			return nil, err
		}
		requisition.Lines = lines

		requisitions = append(requisitions, *requisition)
	}

	return requisitions, nil
}

func (r *requisitionRepositoryImpl) GetRequisitions() ([]models.Requisition, error) {
	return r.scanList(r.headerSelect().Order(goqu.I("p.created_at").Desc()))
}

func (r *requisitionRepositoryImpl) GetRequisitionsByCoordinator(coordinatorID int) ([]models.Requisition, error) {
	return r.scanList(
		r.headerSelect().
			Where(goqu.Ex{"p.jefe_oficina": coordinatorID}).
			Order(goqu.I("p.created_at").Desc()),
	)
}

func (r *requisitionRepositoryImpl) GetRequisition(id int) (*models.Requisition, error) {
	var flat models.FlatRequisitionRecord

	found, err := r.headerSelect().Where(goqu.Ex{"p.id": id}).Executor().ScanStruct(&flat)
	if err != nil {
		return nil, fmt.Errorf("failed to get requisition: %w", err)
	}
	if !found {
		return nil, custom_error.NewNotFound("pedido", id)
	}

	requisition := flat.TransformToRequisition()

	lines, err := r.getLines(id)
	if err != nil {
		return nil, err
	}
	requisition.Lines = lines

	return requisition, nil
}

// GetRequisitionInTx loads the header and lines inside the fulfillment
// transaction so the dispatched amounts cannot move under it.
func (r *requisitionRepositoryImpl) GetRequisitionInTx(tx *goqu.TxDatabase, id int) (*models.Requisition, error) {
	var flat models.FlatRequisitionRecord

	headerQuery := tx.Select(
		goqu.I("id").As("requisition_id"),
		"codigo_ficha", "area", "correo",
		"jefe_oficina", "cedula_jefe_oficina",
		"servidor_asignado", "cedula_servidor",
		"firma", "estado", "fecha_entrega",
		"created_at", "updated_at",
	).
		From("pedidos").
		Where(goqu.Ex{"id": id}).
		ForUpdate(exp.Wait)

	found, err := headerQuery.Executor().ScanStruct(&flat)
	if err != nil {
		return nil, fmt.Errorf("failed to get requisition: %w", err)
	}
	if !found {
		return nil, custom_error.NewNotFound("pedido", id)
	}

	requisition := flat.TransformToRequisition()

	var lines []models.RequisitionLine
	linesQuery := tx.Select(
		goqu.I("pp.producto_id").As("producto_id"),
		goqu.I("pr.nombre").As("producto_nombre"),
		goqu.I("pp.cantidad_solicitar").As("cantidad_solicitar"),
		goqu.I("pp.cantidad_salida").As("cantidad_salida"),
		goqu.I("pp.observaciones").As("observaciones"),
	).
		From(goqu.T("pedidos_productos").As("pp")).
		LeftJoin(goqu.T("productos").As("pr"), goqu.On(goqu.Ex{"pr.id": goqu.I("pp.producto_id")})).
		Where(goqu.Ex{"pp.pedido_id": id})

	if err := linesQuery.Executor().ScanStructs(&lines); err != nil {
		return nil, fmt.Errorf("error executing SQL statement for requisition lines: %w", err)
	}
	requisition.Lines = lines

	return requisition, nil
}

func (r *requisitionRepositoryImpl) SetAuthorized(id int, signaturePath string) error {
	query := r.repository.GoquDBWrapper.Update("pedidos").
		Set(goqu.Record{
			"firma":      signaturePath,
			"estado":     metadata.OrderInProcess.String(),
			"updated_at": goqu.L("now()"),
		}).
		Where(goqu.Ex{"id": id})

	result, err := query.Executor().Exec()
	if err != nil {
		return fmt.Errorf("failed to authorize requisition: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return custom_error.NewNotFound("pedido", id)
	}

	return nil
}

func (r *requisitionRepositoryImpl) AccumulateDispatched(tx *goqu.TxDatabase, requisitionID int, productID int, quantity int) error {
	query := tx.Update("pedidos_productos").
		Set(goqu.Record{
			"cantidad_salida": goqu.L("cantidad_salida + ?", quantity),
		}).
		Where(goqu.Ex{
			"pedido_id":   requisitionID,
			"producto_id": productID,
		})

	result, err := query.Executor().Exec()
	if err != nil {
		return fmt.Errorf("failed to accumulate dispatched quantity: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return custom_error.NewValidation("el producto %d no pertenece al pedido %d", productID, requisitionID)
	}

	return nil
}

func (r *requisitionRepositoryImpl) SetDelivered(tx *goqu.TxDatabase, id int, deliveredAt time.Time) error {
	query := tx.Update("pedidos").
		Set(goqu.Record{
			"estado":        metadata.OrderDelivered.String(),
			"fecha_entrega": deliveredAt,
			"updated_at":    goqu.L("now()"),
		}).
		Where(goqu.Ex{"id": id})

	if _, err := query.Executor().Exec(); err != nil {
		return fmt.Errorf("failed to mark requisition as delivered: %w", err)
	}

	return nil
}

// DeleteUnsigned removes stale requisitions that never got a signature. The
// firma check is part of the DELETE itself so a requisition authorized
// between scan and delete survives.
func (r *requisitionRepositoryImpl) DeleteUnsigned(tx *goqu.TxDatabase, olderThan time.Time) (int64, error) {
	result, err := tx.Delete("pedidos").
		Where(goqu.C("firma").IsNull()).
		Where(goqu.C("created_at").Lt(olderThan)).
		Executor().Exec()
	if err != nil {
		return 0, fmt.Errorf("failed to delete unsigned requisitions: %w", err)
	}

	return result.RowsAffected()
}
