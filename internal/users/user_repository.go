package users

import (
	"fmt"

	"github.com/ja12as/Proyecto-sena-banco-herramienta/internal/repository"
	custom_error "github.com/ja12as/Proyecto-sena-banco-herramienta/pkg/errors"
	"github.com/ja12as/Proyecto-sena-banco-herramienta/pkg/models"

	"github.com/doug-martin/goqu/v9"
	"github.com/lib/pq"
)

type UserRepository interface {
	PersistUser(req models.CreateUserRequest, hashedPassword []byte) (*models.User, error)
	GetUser(id int) (*models.User, error)
	GetUsers() ([]models.User, error)
	UpdateUser(id int, changes *models.UserChanges) error
}

type userRepositoryImpl struct {
	repository *repository.Repository
}

func NewRepository(r *repository.Repository) UserRepository {
	return &userRepositoryImpl{repository: r}
}

func (r *userRepositoryImpl) PersistUser(req models.CreateUserRequest, hashedPassword []byte) (*models.User, error) {
	user := models.User{
		Name:     req.Name,
		Document: req.Document,
		Email:    req.Email,
		Role:     req.Role,
		Status:   "ACTIVO",
	}

	query := r.repository.GoquDBWrapper.Insert("usuarios").
		Rows(goqu.Record{
			"nombre":        req.Name,
			"cedula":        req.Document,
			"correo":        req.Email,
			"password_hash": string(hashedPassword),
			"rol":           req.Role,
			"estado":        user.Status,
		}).
		Returning("id")

	if _, err := query.Executor().ScanVal(&user.ID); err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return nil, custom_error.WrapDBError("Ya existe un usuario con ese correo o cédula", string(pqErr.Code))
		}
		return nil, fmt.Errorf("failed to insert user record: %w", err)
	}

	return &user, nil
}

func (r *userRepositoryImpl) GetUsers() ([]models.User, error) {
	query := r.repository.GoquDBWrapper.
		Select("id", "nombre", "cedula", "correo", "rol", "estado").
		From("usuarios").
		Order(goqu.C("nombre").Asc())

	var users []models.User
	if err := query.Executor().ScanStructs(&users); err != nil {
		return nil, fmt.Errorf("error executing SQL statement: %w", err)
	}

	return users, nil
}

func (r *userRepositoryImpl) GetUser(id int) (*models.User, error) {
	query := r.repository.GoquDBWrapper.
		Select("id", "nombre", "cedula", "correo", "password_hash", "rol", "estado").
		From("usuarios").
		Where(goqu.Ex{"id": id})

	var user models.User
	found, err := query.Executor().ScanStruct(&user)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if !found {
		return nil, custom_error.NewNotFound("usuario", id)
	}

	return &user, nil
}

func (r *userRepositoryImpl) UpdateUser(id int, changes *models.UserChanges) error {
	record := goqu.Record{}
	if changes.Name != nil {
		record["nombre"] = *changes.Name
	}
	if changes.Email != nil {
		record["correo"] = *changes.Email
	}
	if changes.PasswordHash != nil {
		record["password_hash"] = *changes.PasswordHash
	}
	if changes.Role != nil {
		record["rol"] = *changes.Role
	}
	if changes.Status != nil {
		record["estado"] = *changes.Status
	}

	query := r.repository.GoquDBWrapper.Update("usuarios").
		Set(record).
		Where(goqu.Ex{"id": id})

	result, err := query.Executor().Exec()
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return custom_error.WrapDBError("Ya existe un usuario con ese correo o cédula", string(pqErr.Code))
		}
		return fmt.Errorf("failed to update user record: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if rowsAffected == 0 {
		return custom_error.NewNotFound("usuario", id)
	}

	return nil
}
