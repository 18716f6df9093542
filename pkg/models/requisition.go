package models

import "time"

// Requisition is a "pedido": a request for consumable products dispatched
// from inventory to a training cohort (ficha).
type Requisition struct {
	ID                  int               `json:"id"`
	FichaCode           string            `json:"codigo_ficha"`
	Area                string            `json:"area"`
	Email               string            `json:"correo"`
	CoordinatorID       int               `json:"jefe_oficina_id"`
	CoordinatorName     string            `json:"jefe_oficina,omitempty"`
	CoordinatorDocument string            `json:"cedula_jefe_oficina"`
	AssigneeName        string            `json:"servidor_asignado"`
	AssigneeDocument    string            `json:"cedula_servidor"`
	Signature           *string           `json:"firma"`
	Status              string            `json:"estado"`
	HandoutDate         *time.Time        `json:"fecha_entrega"`
	Lines               []RequisitionLine `json:"productos"`
	CreatedAt           time.Time         `json:"created_at"`
	UpdatedAt           time.Time         `json:"updated_at"`
}

type RequisitionLine struct {
	ProductID   int     `json:"producto_id" db:"producto_id"`
	ProductName string  `json:"producto_nombre" db:"producto_nombre"`
	Requested   int     `json:"cantidad_solicitar" db:"cantidad_solicitar"`
	Dispatched  int     `json:"cantidad_salida" db:"cantidad_salida"`
	Notes       *string `json:"observaciones" db:"observaciones"`
}

// Remaining is how much of the line can still be dispatched.
func (l *RequisitionLine) Remaining() int {
	return l.Requested - l.Dispatched
}

func (r *Requisition) CreateLogView() AuditLog {
	return AuditLog{
		ResourceID:   r.ID,
		ResourceType: "pedido",
	}
}

type FlatRequisitionRecord struct {
	ID                  int        `db:"requisition_id"`
	FichaCode           string     `db:"codigo_ficha"`
	Area                string     `db:"area"`
	Email               string     `db:"correo"`
	CoordinatorID       int        `db:"jefe_oficina"`
	CoordinatorName     *string    `db:"coordinator_name"`
	CoordinatorDocument string     `db:"cedula_jefe_oficina"`
	AssigneeName        string     `db:"servidor_asignado"`
	AssigneeDocument    string     `db:"cedula_servidor"`
	Signature           *string    `db:"firma"`
	Status              string     `db:"estado"`
	CreatedAt           time.Time  `db:"created_at"`
	UpdatedAt           time.Time  `db:"updated_at"`
	HandoutDate         *time.Time `db:"fecha_entrega"`
	ReturnDate          *time.Time `db:"fecha_devolucion"`
}

func (f FlatRequisitionRecord) TransformToRequisition() *Requisition {
	req := &Requisition{
		ID:                  f.ID,
		FichaCode:           f.FichaCode,
		Area:                f.Area,
		Email:               f.Email,
		CoordinatorID:       f.CoordinatorID,
		CoordinatorDocument: f.CoordinatorDocument,
		AssigneeName:        f.AssigneeName,
		AssigneeDocument:    f.AssigneeDocument,
		Signature:           f.Signature,
		Status:              f.Status,
		HandoutDate:         f.HandoutDate,
		CreatedAt:           f.CreatedAt,
		UpdatedAt:           f.UpdatedAt,
	}
	if f.CoordinatorName != nil {
		req.CoordinatorName = *f.CoordinatorName
	}
	return req
}

type RequisitionRequest struct {
	FichaCode           string                   `json:"codigo_ficha" binding:"required"`
	Area                string                   `json:"area" binding:"required"`
	Email               string                   `json:"correo" binding:"required,email"`
	CoordinatorID       int                      `json:"jefe_oficina_id" binding:"required"`
	CoordinatorDocument string                   `json:"cedula_jefe_oficina" binding:"required"`
	AssigneeName        string                   `json:"servidor_asignado" binding:"required"`
	AssigneeDocument    string                   `json:"cedula_servidor" binding:"required"`
	Lines               []RequisitionLineRequest `json:"productos" binding:"required,min=1"`
}

type RequisitionLineRequest struct {
	ProductID int     `json:"producto_id" binding:"required"`
	Requested int     `json:"cantidad_solicitar"`
	Notes     *string `json:"observaciones"`
}

// DispatchRequest carries the per-line quantities handed over during
// fulfillment.
type DispatchRequest struct {
	Lines []DispatchLineRequest `json:"productos" binding:"required,min=1"`
}

type DispatchLineRequest struct {
	ProductID  int `json:"producto_id" binding:"required"`
	Dispatched int `json:"cantidad_salida"`
}
