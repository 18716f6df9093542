package history

import (
	"fmt"

	"github.com/ja12as/Proyecto-sena-banco-herramienta/internal/repository"
	"github.com/ja12as/Proyecto-sena-banco-herramienta/pkg/models"

	"github.com/doug-martin/goqu/v9"
)

type HistoryRepository interface {
	GetEntries(filter Filter) ([]models.AuditLog, error)
}

// Filter narrows the trail listing. Zero values mean "no filter".
type Filter struct {
	ResourceType string
	Action       string
	UserID       int
}

type historyRepositoryImpl struct {
	repository *repository.Repository
}

func NewRepository(r *repository.Repository) HistoryRepository {
	return &historyRepositoryImpl{repository: r}
}

func (r *historyRepositoryImpl) GetEntries(filter Filter) ([]models.AuditLog, error) {
	query := r.repository.GoquDBWrapper.
		Select(
			goqu.I("h.id").As("id"),
			goqu.I("h.recurso_id").As("recurso_id"),
			goqu.I("h.recurso_tipo").As("recurso_tipo"),
			goqu.I("h.tipo_accion").As("tipo_accion"),
			goqu.I("h.descripcion").As("descripcion"),
			goqu.I("h.data").As("data"),
			goqu.I("h.usuario_id").As("usuario_id"),
			goqu.I("u.nombre").As("usuario"),
			goqu.I("h.created_at").As("created_at"),
		).
		From(goqu.T("historial").As("h")).
		LeftJoin(goqu.T("usuarios").As("u"), goqu.On(goqu.Ex{"u.id": goqu.I("h.usuario_id")})).
		Order(goqu.I("h.created_at").Desc())

	builder := repository.NewQueryBuilder()
	if filter.ResourceType != "" {
		builder.AddCondition("recurso_tipo", filter.ResourceType)
	}
	if filter.Action != "" {
		builder.AddCondition("tipo_accion", filter.Action)
	}
	if filter.UserID != 0 {
		builder.AddCondition("usuario_id", filter.UserID)
	}

	conditions := builder.BuildConditions(map[string]string{
		"recurso_tipo": "h.recurso_tipo",
		"tipo_accion":  "h.tipo_accion",
		"usuario_id":   "h.usuario_id",
	})
	if len(conditions) > 0 {
		query = query.Where(conditions)
	}

	var entries []models.AuditLog
	if err := query.Executor().ScanStructs(&entries); err != nil {
		return nil, fmt.Errorf("error executing SQL statement: %w", err)
	}

	for i := range entries {
		entries[i].LoadFromDB()
	}

	return entries, nil
}
