package models

type User struct {
	ID           int    `json:"id" db:"id"`
	Name         string `json:"nombre" db:"nombre"`
	Document     string `json:"cedula" db:"cedula"`
	Email        string `json:"correo" db:"correo"`
	PasswordHash string `json:"-" db:"password_hash"`
	Role         string `json:"rol" db:"rol"`
	Status       string `json:"estado" db:"estado"`
}

func (u *User) CreateLogView() AuditLog {
	return AuditLog{
		ResourceID:   u.ID,
		ResourceType: "usuario",
	}
}

type CreateUserRequest struct {
	Name     string `json:"nombre" binding:"required"`
	Document string `json:"cedula" binding:"required"`
	Email    string `json:"correo" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Role     string `json:"rol" binding:"required"`
}

type UpdateUserRequest struct {
	Name     *string `json:"nombre"`
	Email    *string `json:"correo" binding:"omitempty,email"`
	Password *string `json:"password"`
	Role     *string `json:"rol"`
	Status   *string `json:"estado"`
}

// UserChanges holds only the columns that actually changed during an update.
type UserChanges struct {
	Name         *string
	Email        *string
	PasswordHash *string
	Role         *string
	Status       *string
}

func (c *UserChanges) HasChanges() bool {
	return c.Name != nil || c.Email != nil || c.PasswordHash != nil || c.Role != nil || c.Status != nil
}

type LoginRequest struct {
	Email    string `json:"correo" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}
