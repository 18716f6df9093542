package repository

import (
	"encoding/json"
	"fmt"

	"github.com/ja12as/Proyecto-sena-banco-herramienta/pkg/models"

	"github.com/doug-martin/goqu/v9"
)

func (r *Repository) PersistLog(auditlog models.AuditLog, auditLogData interface{}) error {
	dataJSON, err := json.Marshal(auditLogData)
	if err != nil {
		return fmt.Errorf("failed to marshal audit log data: %w", err)
	}

	query := r.GoquDBWrapper.Insert("historial").
		Rows(goqu.Record{
			"recurso_id":  auditlog.ResourceID,
			"recurso_tipo": auditlog.ResourceType,
			"tipo_accion": auditlog.Action,
			"descripcion": auditlog.Description,
			"usuario_id":  auditlog.UserID,
			"data":        dataJSON,
		})

	_, err = query.Executor().Exec()
	if err != nil {
		return fmt.Errorf("failed to insert audit log: %w", err)
	}

	return nil
}
