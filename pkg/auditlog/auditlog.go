package auditlog

import (
	"log"

	"github.com/ja12as/Proyecto-sena-banco-herramienta/internal/repository"
	"github.com/ja12as/Proyecto-sena-banco-herramienta/pkg/models"
)

// Action types recorded in the trail.
const (
	ActionCreate    = "CREAR"
	ActionUpdate    = "ACTUALIZAR"
	ActionAuthorize = "AUTORIZAR"
	ActionHandout   = "ENTREGAR"
	ActionReturn    = "DEVOLVER"
)

type Auditlog struct {
	r *repository.Repository
}

type Auditable interface {
	CreateLogView() models.AuditLog
}

// Log persists a trail entry. Callers usually fire this in a goroutine so a
// trail failure never blocks the request.
func (a *Auditlog) Log(action string, description string, userID *int, data interface{}, item Auditable) {
	auditLog := item.CreateLogView()
	auditLog.Action = action
	auditLog.Description = description
	auditLog.UserID = userID

	err := a.r.PersistLog(auditLog, data)

	if err != nil {
		log.Println("Unable to create AuditLog entry for id ", auditLog.ResourceID)
		return
	}
}

func NewAuditLog(repository *repository.Repository) *Auditlog {
	a := Auditlog{r: repository}

	return &a
}
