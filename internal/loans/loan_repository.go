package loans

import (
	"fmt"
	"time"

	"github.com/ja12as/Proyecto-sena-banco-herramienta/internal/repository"
	custom_error "github.com/ja12as/Proyecto-sena-banco-herramienta/pkg/errors"
	"github.com/ja12as/Proyecto-sena-banco-herramienta/pkg/metadata"
	"github.com/ja12as/Proyecto-sena-banco-herramienta/pkg/models"

	"github.com/doug-martin/goqu/v9"
	"github.com/doug-martin/goqu/v9/exp"
	"github.com/lib/pq"
)

type LoanRepository interface {
	InsertLoan(tx *goqu.TxDatabase, req models.LoanRequest) (int, error)
	InsertLoanLines(tx *goqu.TxDatabase, loanID int, lines []models.LoanLineRequest) error
	GetLoans() ([]models.Loan, error)
	GetLoansByCoordinator(coordinatorID int) ([]models.Loan, error)
	GetLoan(id int) (*models.Loan, error)
	GetLoanInTx(tx *goqu.TxDatabase, id int) (*models.Loan, error)
	SetAuthorized(id int, signaturePath string) error
	SetHandedOut(tx *goqu.TxDatabase, id int, at time.Time) error
	SetReturned(tx *goqu.TxDatabase, id int, at time.Time) error
	UpdateLineNotes(tx *goqu.TxDatabase, loanID int, toolID int, note string) error
	DeleteUnsigned(tx *goqu.TxDatabase, olderThan time.Time) (int64, error)
}

type loanRepositoryImpl struct {
	repository *repository.Repository
}

func NewRepository(r *repository.Repository) LoanRepository {
	return &loanRepositoryImpl{repository: r}
}

func (r *loanRepositoryImpl) InsertLoan(tx *goqu.TxDatabase, req models.LoanRequest) (int, error) {
	var loanID int

	query := tx.Insert("prestamos").
		Rows(goqu.Record{
			"codigo_ficha":        req.FichaCode,
			"area":                req.Area,
			"correo":              req.Email,
			"jefe_oficina":        req.CoordinatorID,
			"cedula_jefe_oficina": req.CoordinatorDocument,
			"servidor_asignado":   req.AssigneeName,
			"cedula_servidor":     req.AssigneeDocument,
			"estado":              metadata.OrderPending.String(),
		}).
		Returning("id")

	if _, err := query.Executor().ScanVal(&loanID); err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23503" {
			return 0, custom_error.WrapDBError("El jefe de oficina no existe", string(pqErr.Code))
		}
		return 0, fmt.Errorf("failed to insert loan record: %w", err)
	}

	return loanID, nil
}

func (r *loanRepositoryImpl) InsertLoanLines(tx *goqu.TxDatabase, loanID int, lines []models.LoanLineRequest) error {
	rows := make([]interface{}, 0, len(lines))
	for _, line := range lines {
		rows = append(rows, goqu.Record{
			"prestamo_id":    loanID,
			"herramienta_id": line.ToolID,
			"observaciones":  line.Notes,
		})
	}

	query := tx.Insert("prestamos_herramientas").Rows(rows...)

	if _, err := query.Executor().Exec(); err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23503" {
			return custom_error.WrapDBError("Una de las herramientas solicitadas no existe", string(pqErr.Code))
		}
		return fmt.Errorf("failed to insert loan lines: %w", err)
	}

	return nil
}

func (r *loanRepositoryImpl) headerSelect() *goqu.SelectDataset {
	return r.repository.GoquDBWrapper.
		Select(
			goqu.I("p.id").As("loan_id"),
			goqu.I("p.codigo_ficha").As("codigo_ficha"),
			goqu.I("p.area").As("area"),
			goqu.I("p.correo").As("correo"),
			goqu.I("p.jefe_oficina").As("jefe_oficina"),
			goqu.I("u.nombre").As("coordinator_name"),
			goqu.I("p.cedula_jefe_oficina").As("cedula_jefe_oficina"),
			goqu.I("p.servidor_asignado").As("servidor_asignado"),
			goqu.I("p.cedula_servidor").As("cedula_servidor"),
			goqu.I("p.firma").As("firma"),
			goqu.I("p.estado").As("estado"),
			goqu.I("p.fecha_entrega").As("fecha_entrega"),
			goqu.I("p.fecha_devolucion").As("fecha_devolucion"),
			goqu.I("p.created_at").As("created_at"),
			goqu.I("p.updated_at").As("updated_at"),
		).
		From(goqu.T("prestamos").As("p")).
		LeftJoin(goqu.T("usuarios").As("u"), goqu.On(goqu.Ex{"u.id": goqu.I("p.jefe_oficina")}))
}

func (r *loanRepositoryImpl) getLines(loanID int) ([]models.LoanLine, error) {
	var lines []models.LoanLine

	query := r.repository.GoquDBWrapper.
		Select(
			goqu.I("ph.herramienta_id").As("herramienta_id"),
			goqu.I("h.nombre").As("herramienta_nombre"),
			goqu.I("h.codigo").As("herramienta_codigo"),
			goqu.I("h.estado").As("herramienta_estado"),
			goqu.I("ph.observaciones").As("observaciones"),
		).
		From(goqu.T("prestamos_herramientas").As("ph")).
		LeftJoin(goqu.T("herramientas").As("h"), goqu.On(goqu.Ex{"h.id": goqu.I("ph.herramienta_id")})).
		Where(goqu.Ex{"ph.prestamo_id": loanID}).
		Order(goqu.I("ph.herramienta_id").Asc())

	if err := query.Executor().ScanStructs(&lines); err != nil {
		return nil, fmt.Errorf("error executing SQL statement for loan lines: %w", err)
	}

	return lines, nil
}

func (r *loanRepositoryImpl) scanList(query *goqu.SelectDataset) ([]models.Loan, error) {
	var flatRecords []models.FlatLoanRecord

	if err := query.Executor().ScanStructs(&flatRecords); err != nil {
		return nil, fmt.Errorf("error executing SQL statement: %w", err)
	}

	loans := make([]models.Loan, 0, len(flatRecords))
	for _, flat := range flatRecords {
		loan := flat.TransformToLoan()

		lines, err := r.getLines(loan.ID)
		if err != nil {
			return nil, err
		}
		loan.Lines = lines

		loans = append(loans, *loan)
	}

	return loans, nil
}

func (r *loanRepositoryImpl) GetLoans() ([]models.Loan, error) {
	return r.scanList(r.headerSelect().Order(goqu.I("p.created_at").Desc()))
}

func (r *loanRepositoryImpl) GetLoansByCoordinator(coordinatorID int) ([]models.Loan, error) {
	return r.scanList(
		r.headerSelect().
			Where(goqu.Ex{"p.jefe_oficina": coordinatorID}).
			Order(goqu.I("p.created_at").Desc()),
	)
}

func (r *loanRepositoryImpl) GetLoan(id int) (*models.Loan, error) {
	var flat models.FlatLoanRecord

	found, err := r.headerSelect().Where(goqu.Ex{"p.id": id}).Executor().ScanStruct(&flat)
	if err != nil {
		return nil, fmt.Errorf("failed to get loan: %w", err)
	}
	if !found {
		return nil, custom_error.NewNotFound("prestamo", id)
	}

	loan := flat.TransformToLoan()

	lines, err := r.getLines(id)
	if err != nil {
		return nil, err
	}
	loan.Lines = lines

	return loan, nil
}

func (r *loanRepositoryImpl) GetLoanInTx(tx *goqu.TxDatabase, id int) (*models.Loan, error) {
	var flat models.FlatLoanRecord

	headerQuery := tx.Select(
		goqu.I("id").As("loan_id"),
		"codigo_ficha", "area", "correo",
		"jefe_oficina", "cedula_jefe_oficina",
		"servidor_asignado", "cedula_servidor",
		"firma", "estado", "fecha_entrega", "fecha_devolucion",
		"created_at", "updated_at",
	).
		From("prestamos").
		Where(goqu.Ex{"id": id}).
		ForUpdate(exp.Wait)

	found, err := headerQuery.Executor().ScanStruct(&flat)
	if err != nil {
		return nil, fmt.Errorf("failed to get loan: %w", err)
	}
	if !found {
		return nil, custom_error.NewNotFound("prestamo", id)
	}

	loan := flat.TransformToLoan()

	var lines []models.LoanLine
	linesQuery := tx.Select(
		goqu.I("ph.herramienta_id").As("herramienta_id"),
		goqu.I("h.nombre").As("herramienta_nombre"),
		goqu.I("h.codigo").As("herramienta_codigo"),
		goqu.I("h.estado").As("herramienta_estado"),
		goqu.I("ph.observaciones").As("observaciones"),
	).
		From(goqu.T("prestamos_herramientas").As("ph")).
		LeftJoin(goqu.T("herramientas").As("h"), goqu.On(goqu.Ex{"h.id": goqu.I("ph.herramienta_id")})).
		Where(goqu.Ex{"ph.prestamo_id": id})

	if err := linesQuery.Executor().ScanStructs(&lines); err != nil {
		return nil, fmt.Errorf("error executing SQL statement for loan lines: %w", err)
	}
	loan.Lines = lines

	return loan, nil
}

func (r *loanRepositoryImpl) SetAuthorized(id int, signaturePath string) error {
	query := r.repository.GoquDBWrapper.Update("prestamos").
		Set(goqu.Record{
			"firma":      signaturePath,
			"estado":     metadata.OrderInProcess.String(),
			"updated_at": goqu.L("now()"),
		}).
		Where(goqu.Ex{"id": id})

	result, err := query.Executor().Exec()
	if err != nil {
		return fmt.Errorf("failed to authorize loan: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return custom_error.NewNotFound("prestamo", id)
	}

	return nil
}

func (r *loanRepositoryImpl) SetHandedOut(tx *goqu.TxDatabase, id int, at time.Time) error {
	query := tx.Update("prestamos").
		Set(goqu.Record{
			"estado":        metadata.OrderDelivered.String(),
			"fecha_entrega": at,
			"updated_at":    goqu.L("now()"),
		}).
		Where(goqu.Ex{"id": id})

	if _, err := query.Executor().Exec(); err != nil {
		return fmt.Errorf("failed to mark loan as handed out: %w", err)
	}

	return nil
}

func (r *loanRepositoryImpl) SetReturned(tx *goqu.TxDatabase, id int, at time.Time) error {
	query := tx.Update("prestamos").
		Set(goqu.Record{
			"estado":           metadata.OrderReturned.String(),
			"fecha_devolucion": at,
			"updated_at":       goqu.L("now()"),
		}).
		Where(goqu.Ex{"id": id})

	if _, err := query.Executor().Exec(); err != nil {
		return fmt.Errorf("failed to mark loan as returned: %w", err)
	}

	return nil
}

func (r *loanRepositoryImpl) UpdateLineNotes(tx *goqu.TxDatabase, loanID int, toolID int, note string) error {
	query := tx.Update("prestamos_herramientas").
		Set(goqu.Record{"observaciones": note}).
		Where(goqu.Ex{
			"prestamo_id":    loanID,
			"herramienta_id": toolID,
		})

	result, err := query.Executor().Exec()
	if err != nil {
		return fmt.Errorf("failed to update loan line notes: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return custom_error.NewValidation("la herramienta %d no pertenece al préstamo %d", toolID, loanID)
	}

	return nil
}

// DeleteUnsigned removes stale loans without a signature, re-checking firma
// inside the DELETE itself.
func (r *loanRepositoryImpl) DeleteUnsigned(tx *goqu.TxDatabase, olderThan time.Time) (int64, error) {
	result, err := tx.Delete("prestamos").
		Where(goqu.C("firma").IsNull()).
		Where(goqu.C("created_at").Lt(olderThan)).
		Executor().Exec()
	if err != nil {
		return 0, fmt.Errorf("failed to delete unsigned loans: %w", err)
	}

	return result.RowsAffected()
}
