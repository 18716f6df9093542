package models

import (
	"encoding/json"
	"time"
)

// AuditLog is a row of the "historial" trail. Action is one of the metadata
// action types (CREAR, ACTUALIZAR, AUTORIZAR, ENTREGAR, DEVOLVER).
type AuditLog struct {
	ID           int                    `json:"id" db:"id"`
	ResourceID   int                    `json:"recurso_id" db:"recurso_id"`
	ResourceType string                 `json:"recurso_tipo" db:"recurso_tipo"`
	Action       string                 `json:"tipo_accion" db:"tipo_accion"`
	Description  string                 `json:"descripcion" db:"descripcion"`
	DataRaw      string                 `json:"-" db:"data"` // JSON as string
	Data         map[string]interface{} `json:"data" db:"-"`
	UserID       *int                   `json:"usuario_id,omitempty" db:"usuario_id"`
	UserName     *string                `json:"usuario,omitempty" db:"usuario"`
	CreatedAt    time.Time              `json:"created_at" db:"created_at"`
}

func (a *AuditLog) LoadFromDB() {
	if a.DataRaw != "" {
		_ = json.Unmarshal([]byte(a.DataRaw), &a.Data)
	}
}
