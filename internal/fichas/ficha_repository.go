package fichas

import (
	"fmt"

	"github.com/ja12as/Proyecto-sena-banco-herramienta/internal/repository"
	custom_error "github.com/ja12as/Proyecto-sena-banco-herramienta/pkg/errors"
	"github.com/ja12as/Proyecto-sena-banco-herramienta/pkg/models"
	"github.com/ja12as/Proyecto-sena-banco-herramienta/pkg/roles"

	"github.com/doug-martin/goqu/v9"
	"github.com/lib/pq"
)

type FichaRepository interface {
	PersistFicha(req models.FichaRequest, ownerID int) (*models.Ficha, error)
	GetFichas() ([]models.Ficha, error)
	GetFicha(id int) (*models.Ficha, error)
	UpdateFicha(id int, req models.FichaRequest, ownerID int) error
	AssignInstructor(fichaID int, instructorID int, semester string) error
	GetInstructors(fichaID int) ([]models.FichaInstructor, error)
}

type fichaRepositoryImpl struct {
	repository *repository.Repository
}

func NewRepository(r *repository.Repository) FichaRepository {
	return &fichaRepositoryImpl{repository: r}
}

func (r *fichaRepositoryImpl) PersistFicha(req models.FichaRequest, ownerID int) (*models.Ficha, error) {
	status := req.Status
	if status == "" {
		status = "ACTIVO"
	}

	query := r.repository.GoquDBWrapper.Insert("fichas").
		Rows(goqu.Record{
			"numero_ficha": req.Number,
			"programa":     req.Program,
			"jornada":      req.Shift,
			"estado":       status,
			"usuario_id":   ownerID,
		}).
		Returning("id")

	ficha := models.Ficha{
		Number:  req.Number,
		Program: req.Program,
		Shift:   req.Shift,
		Status:  status,
		OwnerID: ownerID,
	}

	if _, err := query.Executor().ScanVal(&ficha.ID); err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return nil, custom_error.WrapDBError("Ya existe una ficha con ese número", string(pqErr.Code))
		}
		return nil, fmt.Errorf("failed to insert ficha record: %w", err)
	}

	return &ficha, nil
}

func (r *fichaRepositoryImpl) GetFichas() ([]models.Ficha, error) {
	var fichas []models.Ficha

	query := r.repository.GoquDBWrapper.
		Select("id", "numero_ficha", "programa", "jornada", "estado", "usuario_id", "created_at").
		From("fichas").
		Order(goqu.I("numero_ficha").Asc())

	if err := query.Executor().ScanStructs(&fichas); err != nil {
		return nil, fmt.Errorf("error executing SQL statement: %w", err)
	}

	return fichas, nil
}

func (r *fichaRepositoryImpl) GetFicha(id int) (*models.Ficha, error) {
	var ficha models.Ficha

	query := r.repository.GoquDBWrapper.
		Select("id", "numero_ficha", "programa", "jornada", "estado", "usuario_id", "created_at").
		From("fichas").
		Where(goqu.Ex{"id": id})

	found, err := query.Executor().ScanStruct(&ficha)
	if err != nil {
		return nil, fmt.Errorf("error executing SQL statement: %w", err)
	}
	if !found {
		return nil, custom_error.NewNotFound("ficha", id)
	}

	return &ficha, nil
}

func (r *fichaRepositoryImpl) UpdateFicha(id int, req models.FichaRequest, ownerID int) error {
	changes := goqu.Record{
		"numero_ficha": req.Number,
		"programa":     req.Program,
		"jornada":      req.Shift,
		"usuario_id":   ownerID,
		"updated_at":   goqu.L("now()"),
	}
	if req.Status != "" {
		changes["estado"] = req.Status
	}

	result, err := r.repository.GoquDBWrapper.Update("fichas").
		Set(changes).
		Where(goqu.Ex{"id": id}).
		Executor().Exec()
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return custom_error.WrapDBError("Ya existe una ficha con ese número", string(pqErr.Code))
		}
		return fmt.Errorf("failed to update ficha: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return custom_error.NewNotFound("ficha", id)
	}

	return nil
}

// AssignInstructor links a user to a ficha for a semester. Only users
// holding the instructor role can be assigned.
func (r *fichaRepositoryImpl) AssignInstructor(fichaID int, instructorID int, semester string) error {
	var role string

	found, err := r.repository.GoquDBWrapper.
		Select("rol").
		From("usuarios").
		Where(goqu.Ex{"id": instructorID}).
		Executor().ScanVal(&role)
	if err != nil {
		return fmt.Errorf("error executing SQL statement: %w", err)
	}
	if !found {
		return custom_error.NewNotFound("usuario", instructorID)
	}
	if roles.Role(role) != roles.Instructor {
		return custom_error.NewValidation("el usuario %d no tiene rol de instructor", instructorID)
	}

	query := r.repository.GoquDBWrapper.Insert("fichas_instructores").
		Rows(goqu.Record{
			"ficha_id":      fichaID,
			"instructor_id": instructorID,
			"semestre":      semester,
		})

	if _, err := query.Executor().Exec(); err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			switch pqErr.Code {
			case "23505":
				return custom_error.WrapDBError("El instructor ya está asignado a esa ficha para ese semestre", string(pqErr.Code))
			case "23503":
				return custom_error.WrapDBError("La ficha indicada no existe", string(pqErr.Code))
			}
		}
		return fmt.Errorf("failed to insert ficha-instructor record: %w", err)
	}

	return nil
}

func (r *fichaRepositoryImpl) GetInstructors(fichaID int) ([]models.FichaInstructor, error) {
	var instructors []models.FichaInstructor

	query := r.repository.GoquDBWrapper.
		Select(
			goqu.I("fi.ficha_id").As("ficha_id"),
			goqu.I("fi.instructor_id").As("instructor_id"),
			goqu.I("u.nombre").As("nombre"),
			goqu.I("u.correo").As("correo"),
			goqu.I("fi.semestre").As("semestre"),
		).
		From(goqu.T("fichas_instructores").As("fi")).
		Join(goqu.T("usuarios").As("u"), goqu.On(goqu.Ex{"u.id": goqu.I("fi.instructor_id")})).
		Where(goqu.Ex{"fi.ficha_id": fichaID}).
		Order(goqu.I("u.nombre").Asc())

	if err := query.Executor().ScanStructs(&instructors); err != nil {
		return nil, fmt.Errorf("error executing SQL statement: %w", err)
	}

	return instructors, nil
}
