package models

import "time"

// Loan is a "prestamo": a tool borrow tracked from request until every tool
// comes back to the bank.
type Loan struct {
	ID                  int        `json:"id"`
	FichaCode           string     `json:"codigo_ficha"`
	Area                string     `json:"area"`
	Email               string     `json:"correo"`
	CoordinatorID       int        `json:"jefe_oficina_id"`
	CoordinatorName     string     `json:"jefe_oficina,omitempty"`
	CoordinatorDocument string     `json:"cedula_jefe_oficina"`
	AssigneeName        string     `json:"servidor_asignado"`
	AssigneeDocument    string     `json:"cedula_servidor"`
	Signature           *string    `json:"firma"`
	Status              string     `json:"estado"`
	HandoutDate         *time.Time `json:"fecha_entrega"`
	ReturnDate          *time.Time `json:"fecha_devolucion"`
	Lines               []LoanLine `json:"herramientas"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at"`
}

type LoanLine struct {
	ToolID     int     `json:"herramienta_id" db:"herramienta_id"`
	ToolName   string  `json:"herramienta_nombre" db:"herramienta_nombre"`
	ToolCode   string  `json:"herramienta_codigo" db:"herramienta_codigo"`
	ToolStatus string  `json:"herramienta_estado" db:"herramienta_estado"`
	Notes      *string `json:"observaciones" db:"observaciones"`
}

func (l *Loan) CreateLogView() AuditLog {
	return AuditLog{
		ResourceID:   l.ID,
		ResourceType: "prestamo",
	}
}

type FlatLoanRecord struct {
	ID                  int        `db:"loan_id"`
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
	HandoutDate         *time.Time `db:"fecha_entrega"`
	ReturnDate          *time.Time `db:"fecha_devolucion"`
	CreatedAt           time.Time  `db:"created_at"`
	UpdatedAt           time.Time  `db:"updated_at"`
}

func (f FlatLoanRecord) TransformToLoan() *Loan {
	loan := &Loan{
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
		ReturnDate:          f.ReturnDate,
		CreatedAt:           f.CreatedAt,
		UpdatedAt:           f.UpdatedAt,
	}
	if f.CoordinatorName != nil {
		loan.CoordinatorName = *f.CoordinatorName
	}
	return loan
}

type LoanRequest struct {
	FichaCode           string            `json:"codigo_ficha" binding:"required"`
	Area                string            `json:"area" binding:"required"`
	Email               string            `json:"correo" binding:"required,email"`
	CoordinatorID       int               `json:"jefe_oficina_id" binding:"required"`
	CoordinatorDocument string            `json:"cedula_jefe_oficina" binding:"required"`
	AssigneeName        string            `json:"servidor_asignado" binding:"required"`
	AssigneeDocument    string            `json:"cedula_servidor" binding:"required"`
	Lines               []LoanLineRequest `json:"herramientas" binding:"required,min=1"`
}

type LoanLineRequest struct {
	ToolID int     `json:"herramienta_id" binding:"required"`
	Notes  *string `json:"observaciones"`
}

// ReturnRequest carries the optional per-tool notes recorded when a loan
// comes back.
type ReturnRequest struct {
	Notes []ReturnNoteRequest `json:"observaciones"`
}

type ReturnNoteRequest struct {
	ToolID int    `json:"herramienta_id" binding:"required"`
	Note   string `json:"observacion"`
}
