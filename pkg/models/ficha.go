package models

// Ficha es un grupo de formación: el número de ficha que los pedidos y
// préstamos referencian, junto con su programa y jornada.
type Ficha struct {
	ID        int    `json:"id" db:"id"`
	Number    string `json:"numero_ficha" db:"numero_ficha"`
	Program   string `json:"programa" db:"programa"`
	Shift     string `json:"jornada" db:"jornada"`
	Status    string `json:"estado" db:"estado"`
	OwnerID   int    `json:"usuario_id" db:"usuario_id"`
	CreatedAt string `json:"created_at,omitempty" db:"created_at"`
}

type FichaRequest struct {
	Number  string `json:"numero_ficha" binding:"required"`
	Program string `json:"programa" binding:"required"`
	Shift   string `json:"jornada" binding:"required"`
	Status  string `json:"estado"`
}

// FichaInstructor es un instructor asignado a una ficha para un semestre.
type FichaInstructor struct {
	FichaID      int    `json:"ficha_id" db:"ficha_id"`
	InstructorID int    `json:"instructor_id" db:"instructor_id"`
	Name         string `json:"nombre" db:"nombre"`
	Email        string `json:"correo" db:"correo"`
	Semester     string `json:"semestre" db:"semestre"`
}

type AssignInstructorRequest struct {
	InstructorID int    `json:"instructor_id" binding:"required"`
	Semester     string `json:"semestre" binding:"required"`
}

func (f *Ficha) CreateLogView() AuditLog {
	return AuditLog{
		ResourceID:   f.ID,
		ResourceType: "ficha",
	}
}
