package loans

import (
	"fmt"
	"time"

	"github.com/ja12as/Proyecto-sena-banco-herramienta/internal/repository"
	"github.com/ja12as/Proyecto-sena-banco-herramienta/pkg/auditlog"
	custom_error "github.com/ja12as/Proyecto-sena-banco-herramienta/pkg/errors"
	"github.com/ja12as/Proyecto-sena-banco-herramienta/pkg/metadata"
	"github.com/ja12as/Proyecto-sena-banco-herramienta/pkg/models"

	"github.com/doug-martin/goqu/v9"
)

type Notifier interface {
	Broadcast(actorID *int, action string, message string)
}

type MailSender interface {
	SendLoanHandout(loan *models.Loan)
	SendLoanReturn(loan *models.Loan)
}

type AuditLogger interface {
	Log(action string, description string, userID *int, data interface{}, item auditlog.Auditable)
}

// ToolStateStore is the slice of the tool repository the loan lifecycle
// needs.
type ToolStateStore interface {
	GetToolsByIDs(tx *goqu.TxDatabase, ids []int) ([]models.Tool, error)
	UpdateToolStatus(tx *goqu.TxDatabase, ids []int, status metadata.ToolStatus) error
}

type txRunner func(fn func(tx *goqu.TxDatabase) error) error

type LoanService struct {
	runInTx  txRunner
	lr       LoanRepository
	toolRepo ToolStateStore
	notifier Notifier
	mailer   MailSender
	auditLog AuditLogger
}

func NewService(
	r *repository.Repository,
	lr LoanRepository,
	toolRepo ToolStateStore,
	notifier Notifier,
	mailer MailSender,
	auditLog AuditLogger,
) *LoanService {
	return &LoanService{
		runInTx: func(fn func(tx *goqu.TxDatabase) error) error {
			return repository.WithTransaction(r.GoquDBWrapper, fn)
		},
		lr:       lr,
		toolRepo: toolRepo,
		notifier: notifier,
		mailer:   mailer,
		auditLog: auditLog,
	}
}

// CreateLoan inserts the header and tool lines in one transaction. Tools in
// bad shape or already lent out cannot be requested.
func (s *LoanService) CreateLoan(req models.LoanRequest, actorID int) (*models.Loan, error) {
	toolIDs := make([]int, 0, len(req.Lines))
	seen := make(map[int]bool, len(req.Lines))
	for _, line := range req.Lines {
		if seen[line.ToolID] {
			return nil, custom_error.NewValidation("la herramienta %d está repetida en el préstamo", line.ToolID)
		}
		seen[line.ToolID] = true
		toolIDs = append(toolIDs, line.ToolID)
	}

	var loanID int

	err := s.runInTx(func(tx *goqu.TxDatabase) error {
		tools, err := s.toolRepo.GetToolsByIDs(tx, toolIDs)
		if err != nil {
			return err
		}
		if len(tools) != len(toolIDs) {
			return custom_error.NewValidation("una de las herramientas solicitadas no existe")
		}
		for _, tool := range tools {
			if tool.Status != metadata.ToolAvailable.String() {
				return custom_error.NewConflict(
					"la herramienta %s (%s) no está disponible", tool.Name, tool.Code,
				)
			}
		}

		if loanID, err = s.lr.InsertLoan(tx, req); err != nil {
			return err
		}

		return s.lr.InsertLoanLines(tx, loanID, req.Lines)
	})
	if err != nil {
		return nil, err
	}

	loan, err := s.lr.GetLoan(loanID)
	if err != nil {
		return nil, err
	}

	s.notifier.Broadcast(
		&actorID,
		auditlog.ActionCreate,
		fmt.Sprintf("Se creó el préstamo %d para la ficha %s", loanID, req.FichaCode),
	)
	go s.auditLog.Log(
		auditlog.ActionCreate,
		fmt.Sprintf("Creó el préstamo para la ficha %s", req.FichaCode),
		&actorID,
		req,
		loan,
	)

	return loan, nil
}

// Authorize stores the signature and moves the loan to EN PROCESO.
func (s *LoanService) Authorize(id int, signaturePath string, actorID int) (*models.Loan, error) {
	loan, err := s.lr.GetLoan(id)
	if err != nil {
		return nil, err
	}

	if loan.Status != metadata.OrderPending.String() {
		return nil, custom_error.NewConflict("el préstamo %d ya fue autorizado", id)
	}

	if err := s.lr.SetAuthorized(id, signaturePath); err != nil {
		return nil, err
	}

	loan, err = s.lr.GetLoan(id)
	if err != nil {
		return nil, err
	}

	s.notifier.Broadcast(
		&actorID,
		auditlog.ActionAuthorize,
		fmt.Sprintf("Se autorizó el préstamo %d de la ficha %s", id, loan.FichaCode),
	)
	go s.auditLog.Log(
		auditlog.ActionAuthorize,
		fmt.Sprintf("Autorizó el préstamo de la ficha %s", loan.FichaCode),
		&actorID,
		map[string]interface{}{"firma": signaturePath},
		loan,
	)

	return loan, nil
}

// HandOut gives the tools to the requester: every tool flips to EN USO and
// the handout date is stamped, all in one transaction.
func (s *LoanService) HandOut(id int, actorID int) (*models.Loan, error) {
	err := s.runInTx(func(tx *goqu.TxDatabase) error {
		loan, err := s.lr.GetLoanInTx(tx, id)
		if err != nil {
			return err
		}

		if loan.Status == metadata.OrderPending.String() {
			return custom_error.NewConflict("el préstamo %d aún no ha sido autorizado", id)
		}
		if loan.Status != metadata.OrderInProcess.String() {
			return custom_error.NewConflict("el préstamo %d ya fue entregado", id)
		}

		toolIDs := make([]int, 0, len(loan.Lines))
		for _, line := range loan.Lines {
			toolIDs = append(toolIDs, line.ToolID)
		}

		tools, err := s.toolRepo.GetToolsByIDs(tx, toolIDs)
		if err != nil {
			return err
		}
		for _, tool := range tools {
			if tool.Status != metadata.ToolAvailable.String() {
				return custom_error.NewConflict(
					"la herramienta %s (%s) no está disponible", tool.Name, tool.Code,
				)
			}
		}

		if err := s.toolRepo.UpdateToolStatus(tx, toolIDs, metadata.ToolInUse); err != nil {
			return err
		}

		return s.lr.SetHandedOut(tx, id, time.Now())
	})
	if err != nil {
		return nil, err
	}

	loan, err := s.lr.GetLoan(id)
	if err != nil {
		return nil, err
	}

	s.notifier.Broadcast(
		&actorID,
		auditlog.ActionHandout,
		fmt.Sprintf("Se entregaron las herramientas del préstamo %d", id),
	)
	go s.auditLog.Log(
		auditlog.ActionHandout,
		fmt.Sprintf("Entregó las herramientas del préstamo de la ficha %s", loan.FichaCode),
		&actorID,
		nil,
		loan,
	)
	go s.mailer.SendLoanHandout(loan)

	return loan, nil
}

// Return takes the tools back: they flip to ACTIVO, per-tool notes are
// recorded and the return date is stamped.
func (s *LoanService) Return(id int, req models.ReturnRequest, actorID int) (*models.Loan, error) {
	err := s.runInTx(func(tx *goqu.TxDatabase) error {
		loan, err := s.lr.GetLoanInTx(tx, id)
		if err != nil {
			return err
		}

		if loan.Status != metadata.OrderDelivered.String() {
			return custom_error.NewConflict("el préstamo %d no está entregado", id)
		}

		toolIDs := make([]int, 0, len(loan.Lines))
		for _, line := range loan.Lines {
			toolIDs = append(toolIDs, line.ToolID)
		}

		tools, err := s.toolRepo.GetToolsByIDs(tx, toolIDs)
		if err != nil {
			return err
		}
		for _, tool := range tools {
			if tool.Status != metadata.ToolInUse.String() {
				return custom_error.NewConflict(
					"la herramienta %s (%s) no figura en uso", tool.Name, tool.Code,
				)
			}
		}

		for _, note := range req.Notes {
			if err := s.lr.UpdateLineNotes(tx, id, note.ToolID, note.Note); err != nil {
				return err
			}
		}

		if err := s.toolRepo.UpdateToolStatus(tx, toolIDs, metadata.ToolAvailable); err != nil {
			return err
		}

		return s.lr.SetReturned(tx, id, time.Now())
	})
	if err != nil {
		return nil, err
	}

	loan, err := s.lr.GetLoan(id)
	if err != nil {
		return nil, err
	}

	s.notifier.Broadcast(
		&actorID,
		auditlog.ActionReturn,
		fmt.Sprintf("Se registró la devolución del préstamo %d", id),
	)
	go s.auditLog.Log(
		auditlog.ActionReturn,
		fmt.Sprintf("Registró la devolución del préstamo de la ficha %s", loan.FichaCode),
		&actorID,
		req,
		loan,
	)
	go s.mailer.SendLoanReturn(loan)

	return loan, nil
}
