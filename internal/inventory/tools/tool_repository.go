package tools

import (
	"fmt"

	"github.com/ja12as/Proyecto-sena-banco-herramienta/internal/repository"
	custom_error "github.com/ja12as/Proyecto-sena-banco-herramienta/pkg/errors"
	"github.com/ja12as/Proyecto-sena-banco-herramienta/pkg/metadata"
	"github.com/ja12as/Proyecto-sena-banco-herramienta/pkg/models"

	"github.com/doug-martin/goqu/v9"
	"github.com/doug-martin/goqu/v9/exp"
	"github.com/lib/pq"
)

type ToolRepository interface {
	PersistTool(req models.ToolRequest, ownerID int) (*models.Tool, error)
	GetTools() ([]models.Tool, error)
	GetTool(id int) (*models.Tool, error)
	SearchTools(name string) ([]models.Tool, error)
	UpdateTool(id int, changes goqu.Record) error
	GetToolsByIDs(tx *goqu.TxDatabase, ids []int) ([]models.Tool, error)
	UpdateToolStatus(tx *goqu.TxDatabase, ids []int, status metadata.ToolStatus) error
}

type toolRepositoryImpl struct {
	repository *repository.Repository
}

func NewRepository(r *repository.Repository) ToolRepository {
	return &toolRepositoryImpl{repository: r}
}

func (r *toolRepositoryImpl) PersistTool(req models.ToolRequest, ownerID int) (*models.Tool, error) {
	condition, err := metadata.NewToolCondition(req.Condition)
	if err != nil {
		return nil, custom_error.NewValidation("%s", err.Error())
	}
	status := metadata.ToolStatusForCondition(condition)

	if err := r.subcategoryActive(req.SubcategoryID); err != nil {
		return nil, err
	}

	query := r.repository.GoquDBWrapper.Insert("herramientas").
		Rows(goqu.Record{
			"nombre":          req.Name,
			"codigo":          req.Code,
			"marca":           req.Brand,
			"condicion":       string(condition),
			"observaciones":   req.Notes,
			"estado":          status.String(),
			"subcategoria_id": req.SubcategoryID,
			"usuario_id":      ownerID,
		}).
		Returning("id")

	tool := models.Tool{
		Name:        req.Name,
		Code:        req.Code,
		Brand:       req.Brand,
		Condition:   string(condition),
		Notes:       req.Notes,
		Status:      status.String(),
		Subcategory: models.Subcategory{ID: req.SubcategoryID},
		OwnerID:     ownerID,
	}

	if _, err := query.Executor().ScanVal(&tool.ID); err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			if pqErr.Code == "23505" {
				return nil, custom_error.WrapDBError("Ya existe una herramienta con ese código", string(pqErr.Code))
			}
			if pqErr.Code == "23503" {
				return nil, custom_error.WrapDBError("La subcategoría no existe", string(pqErr.Code))
			}
		}
		return nil, fmt.Errorf("failed to insert tool record: %w", err)
	}

	return &tool, nil
}

// subcategoryActive rejects references to retired subcategories.
func (r *toolRepositoryImpl) subcategoryActive(id int) error {
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

func (r *toolRepositoryImpl) baseSelect() *goqu.SelectDataset {
	return r.repository.GoquDBWrapper.
		Select(
			goqu.I("h.id").As("tool_id"),
			goqu.I("h.nombre").As("nombre"),
			goqu.I("h.codigo").As("codigo"),
			goqu.I("h.marca").As("marca"),
			goqu.I("h.condicion").As("condicion"),
			goqu.I("h.observaciones").As("observaciones"),
			goqu.I("h.estado").As("estado"),
			goqu.I("h.created_at").As("created_at"),
			goqu.I("s.id").As("subcategory_id"),
			goqu.I("s.nombre").As("subcategory_name"),
			goqu.I("us.id").As("owner_id"),
			goqu.I("us.nombre").As("owner_name"),
		).
		From(goqu.T("herramientas").As("h")).
		LeftJoin(goqu.T("subcategorias").As("s"), goqu.On(goqu.Ex{"s.id": goqu.I("h.subcategoria_id")})).
		LeftJoin(goqu.T("usuarios").As("us"), goqu.On(goqu.Ex{"us.id": goqu.I("h.usuario_id")}))
}

func (r *toolRepositoryImpl) GetTools() ([]models.Tool, error) {
	var flatTools []models.FlatToolRecord

	query := r.baseSelect().Order(goqu.I("h.id").Asc())

	if err := query.Executor().ScanStructs(&flatTools); err != nil {
		return nil, fmt.Errorf("error executing SQL statement: %w", err)
	}

	tools := make([]models.Tool, 0, len(flatTools))
	for _, flat := range flatTools {
		tools = append(tools, flat.TransformToTool())
	}

	return tools, nil
}

func (r *toolRepositoryImpl) GetTool(id int) (*models.Tool, error) {
	var flat models.FlatToolRecord

	query := r.baseSelect().Where(goqu.Ex{"h.id": id})

	found, err := query.Executor().ScanStruct(&flat)
	if err != nil {
		return nil, fmt.Errorf("failed to get tool: %w", err)
	}
	if !found {
		return nil, custom_error.NewNotFound("herramienta", id)
	}

	tool := flat.TransformToTool()
	return &tool, nil
}

func (r *toolRepositoryImpl) SearchTools(name string) ([]models.Tool, error) {
	var flatTools []models.FlatToolRecord

	query := r.baseSelect().
		Where(goqu.I("h.nombre").ILike("%" + name + "%")).
		Order(goqu.I("h.nombre").Asc())

	if err := query.Executor().ScanStructs(&flatTools); err != nil {
		return nil, fmt.Errorf("error executing SQL statement: %w", err)
	}

	tools := make([]models.Tool, 0, len(flatTools))
	for _, flat := range flatTools {
		tools = append(tools, flat.TransformToTool())
	}

	return tools, nil
}

func (r *toolRepositoryImpl) UpdateTool(id int, changes goqu.Record) error {
	changes["updated_at"] = goqu.L("now()")

	query := r.repository.GoquDBWrapper.Update("herramientas").
		Set(changes).
		Where(goqu.Ex{"id": id})

	result, err := query.Executor().Exec()
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return custom_error.WrapDBError("Ya existe una herramienta con ese código", string(pqErr.Code))
		}
		return fmt.Errorf("failed to update tool: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return custom_error.NewNotFound("herramienta", id)
	}

	return nil
}

// lockToolsByIDs selects the tool rows FOR UPDATE so two concurrent handouts
// cannot both read the same tool as available before either flips its status.
func lockToolsByIDs(tx *goqu.TxDatabase, ids []int) *goqu.SelectDataset {
	return tx.Select(
		goqu.I("h.id").As("tool_id"),
		goqu.I("h.nombre").As("nombre"),
		goqu.I("h.codigo").As("codigo"),
		goqu.I("h.marca").As("marca"),
		goqu.I("h.condicion").As("condicion"),
		goqu.I("h.estado").As("estado"),
	).
		From(goqu.T("herramientas").As("h")).
		Where(goqu.Ex{"h.id": ids}).
		ForUpdate(exp.Wait)
}

// GetToolsByIDs loads tools inside the caller's transaction so a loan can
// check their status before flipping it. The rows stay locked until the
// transaction ends.
func (r *toolRepositoryImpl) GetToolsByIDs(tx *goqu.TxDatabase, ids []int) ([]models.Tool, error) {
	var flatTools []models.FlatToolRecord

	if err := lockToolsByIDs(tx, ids).Executor().ScanStructs(&flatTools); err != nil {
		return nil, fmt.Errorf("error executing SQL statement: %w", err)
	}

	tools := make([]models.Tool, 0, len(flatTools))
	for _, flat := range flatTools {
		tools = append(tools, flat.TransformToTool())
	}

	return tools, nil
}

func (r *toolRepositoryImpl) UpdateToolStatus(tx *goqu.TxDatabase, ids []int, status metadata.ToolStatus) error {
	query := tx.Update("herramientas").
		Set(goqu.Record{
			"estado":     status.String(),
			"updated_at": goqu.L("now()"),
		}).
		Where(goqu.Ex{"id": ids})

	if _, err := query.Executor().Exec(); err != nil {
		return fmt.Errorf("failed to update tool status: %w", err)
	}

	return nil
}
