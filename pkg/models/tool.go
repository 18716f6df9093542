package models

type Tool struct {
	ID          int         `json:"id" db:"tool_id"`
	Name        string      `json:"nombre" db:"nombre"`
	Code        string      `json:"codigo" db:"codigo"`
	Brand       string      `json:"marca" db:"marca"`
	Condition   string      `json:"condicion" db:"condicion"`
	Notes       *string     `json:"observaciones" db:"observaciones"`
	Status      string      `json:"estado" db:"estado"`
	Subcategory Subcategory `json:"subcategoria"`
	OwnerID     int         `json:"usuario_id"`
	OwnerName   string      `json:"usuario_nombre,omitempty"`
	CreatedAt   string      `json:"created_at,omitempty"`
}

type FlatToolRecord struct {
	ID              int     `db:"tool_id"`
	Name            string  `db:"nombre"`
	Code            string  `db:"codigo"`
	Brand           string  `db:"marca"`
	Condition       string  `db:"condicion"`
	Notes           *string `db:"observaciones"`
	Status          string  `db:"estado"`
	SubcategoryID   int     `db:"subcategory_id"`
	SubcategoryName string  `db:"subcategory_name"`
	OwnerID         int     `db:"owner_id"`
	OwnerName       string  `db:"owner_name"`
	CreatedAt       string  `db:"created_at"`
}

func (ft *FlatToolRecord) TransformToTool() Tool {
	return Tool{
		ID:        ft.ID,
		Name:      ft.Name,
		Code:      ft.Code,
		Brand:     ft.Brand,
		Condition: ft.Condition,
		Notes:     ft.Notes,
		Status:    ft.Status,
		Subcategory: Subcategory{
			ID:   ft.SubcategoryID,
			Name: ft.SubcategoryName,
		},
		OwnerID:   ft.OwnerID,
		OwnerName: ft.OwnerName,
		CreatedAt: ft.CreatedAt,
	}
}

func (t *Tool) CreateLogView() AuditLog {
	return AuditLog{
		ResourceID:   t.ID,
		ResourceType: "herramienta",
	}
}

type ToolRequest struct {
	Name          string  `json:"nombre" binding:"required"`
	Code          string  `json:"codigo" binding:"required"`
	Brand         string  `json:"marca"`
	Condition     string  `json:"condicion" binding:"required"`
	Notes         *string `json:"observaciones"`
	SubcategoryID int     `json:"subcategoria_id" binding:"required"`
}

type PatchToolRequest struct {
	Name          *string `json:"nombre"`
	Code          *string `json:"codigo"`
	Brand         *string `json:"marca"`
	Condition     *string `json:"condicion"`
	Notes         *string `json:"observaciones"`
	SubcategoryID *int    `json:"subcategoria_id"`
}
