package models

type Subcategory struct {
	ID     int    `json:"id" db:"id"`
	Name   string `json:"nombre" db:"nombre"`
	Status string `json:"estado" db:"estado"`
}

type Unit struct {
	ID     int    `json:"id" db:"id"`
	Name   string `json:"nombre" db:"nombre"`
	Symbol string `json:"sigla" db:"sigla"`
}

type SubcategoryRequest struct {
	Name   string `json:"nombre" binding:"required"`
	Status string `json:"estado"`
}

type UnitRequest struct {
	Name   string `json:"nombre" binding:"required"`
	Symbol string `json:"sigla" binding:"required"`
}
