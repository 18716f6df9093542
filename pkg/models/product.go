package models

type Product struct {
	ID              int         `json:"id" db:"product_id"`
	Name            string      `json:"nombre" db:"nombre"`
	Code            string      `json:"codigo" db:"codigo"`
	Description     string      `json:"descripcion" db:"descripcion"`
	Brand           string      `json:"marca" db:"marca"`
	QuantityIn      int         `json:"cantidad_entrada" db:"cantidad_entrada"`
	QuantityOut     int         `json:"cantidad_salida" db:"cantidad_salida"`
	QuantityCurrent int         `json:"cantidad_actual" db:"cantidad_actual"`
	Status          string      `json:"estado" db:"estado"`
	Unit            Unit        `json:"unidad_medida"`
	Subcategory     Subcategory `json:"subcategoria"`
	OwnerID         int         `json:"usuario_id"`
	OwnerName       string      `json:"usuario_nombre,omitempty"`
	CreatedAt       string      `json:"created_at,omitempty"`
}

type FlatProductRecord struct {
	ID              int    `db:"product_id"`
	Name            string `db:"nombre"`
	Code            string `db:"codigo"`
	Description     string `db:"descripcion"`
	Brand           string `db:"marca"`
	QuantityIn      int    `db:"cantidad_entrada"`
	QuantityOut     int    `db:"cantidad_salida"`
	QuantityCurrent int    `db:"cantidad_actual"`
	Status          string `db:"estado"`
	UnitID          int    `db:"unit_id"`
	UnitName        string `db:"unit_name"`
	UnitSymbol      string `db:"unit_symbol"`
	SubcategoryID   int    `db:"subcategory_id"`
	SubcategoryName string `db:"subcategory_name"`
	OwnerID         int    `db:"owner_id"`
	OwnerName       string `db:"owner_name"`
	CreatedAt       string `db:"created_at"`
}

func (fp *FlatProductRecord) TransformToProduct() Product {
	return Product{
		ID:              fp.ID,
		Name:            fp.Name,
		Code:            fp.Code,
		Description:     fp.Description,
		Brand:           fp.Brand,
		QuantityIn:      fp.QuantityIn,
		QuantityOut:     fp.QuantityOut,
		QuantityCurrent: fp.QuantityCurrent,
		Status:          fp.Status,
		Unit: Unit{
			ID:     fp.UnitID,
			Name:   fp.UnitName,
			Symbol: fp.UnitSymbol,
		},
		Subcategory: Subcategory{
			ID:   fp.SubcategoryID,
			Name: fp.SubcategoryName,
		},
		OwnerID:   fp.OwnerID,
		OwnerName: fp.OwnerName,
		CreatedAt: fp.CreatedAt,
	}
}

func (p *Product) CreateLogView() AuditLog {
	return AuditLog{
		ResourceID:   p.ID,
		ResourceType: "producto",
	}
}

type ProductRequest struct {
	Name          string `json:"nombre" binding:"required"`
	Code          string `json:"codigo" binding:"required"`
	Description   string `json:"descripcion"`
	Brand         string `json:"marca"`
	QuantityIn    int    `json:"cantidad_entrada" binding:"required,gte=0"`
	UnitID        int    `json:"unidad_medida_id" binding:"required"`
	SubcategoryID int    `json:"subcategoria_id" binding:"required"`
}

type PatchProductRequest struct {
	Name          *string `json:"nombre"`
	Code          *string `json:"codigo"`
	Description   *string `json:"descripcion"`
	Brand         *string `json:"marca"`
	UnitID        *int    `json:"unidad_medida_id"`
	SubcategoryID *int    `json:"subcategoria_id"`
}
