package requisitions

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
	SendRequisitionAuthorized(req *models.Requisition)
	SendRequisitionDelivered(req *models.Requisition)
}

// StockWithdrawer is the slice of the product repository the fulfillment
// needs.
type StockWithdrawer interface {
	Withdraw(tx *goqu.TxDatabase, productID int, quantity int) error
}

type AuditLogger interface {
	Log(action string, description string, userID *int, data interface{}, item auditlog.Auditable)
}

type txRunner func(fn func(tx *goqu.TxDatabase) error) error

type RequisitionService struct {
	runInTx     txRunner
	rr          RequisitionRepository
	productRepo StockWithdrawer
	notifier    Notifier
	mailer      MailSender
	auditLog    AuditLogger
}

func NewService(
	r *repository.Repository,
	rr RequisitionRepository,
	productRepo StockWithdrawer,
	notifier Notifier,
	mailer MailSender,
	auditLog AuditLogger,
) *RequisitionService {
	return &RequisitionService{
		runInTx: func(fn func(tx *goqu.TxDatabase) error) error {
			return repository.WithTransaction(r.GoquDBWrapper, fn)
		},
		rr:          rr,
		productRepo: productRepo,
		notifier:    notifier,
		mailer:      mailer,
		auditLog:    auditLog,
	}
}

// CreateRequisition inserts the header and every line in one transaction.
func (s *RequisitionService) CreateRequisition(req models.RequisitionRequest, actorID int) (*models.Requisition, error) {
	for _, line := range req.Lines {
		if line.Requested <= 0 {
			return nil, custom_error.NewValidation(
				"la cantidad solicitada para el producto %d debe ser mayor que cero", line.ProductID,
			)
		}
	}

	var requisitionID int

	err := s.runInTx(func(tx *goqu.TxDatabase) error {
		var err error
		if requisitionID, err = s.rr.InsertRequisition(tx, req); err != nil {
			return err
		}

		return s.rr.InsertRequisitionLines(tx, requisitionID, req.Lines)
	})
	if err != nil {
		return nil, err
	}

	requisition, err := s.rr.GetRequisition(requisitionID)
	if err != nil {
		return nil, err
	}

	s.notifier.Broadcast(
		&actorID,
		auditlog.ActionCreate,
		fmt.Sprintf("Se creó el pedido %d para la ficha %s", requisitionID, req.FichaCode),
	)
	go s.auditLog.Log(
		auditlog.ActionCreate,
		fmt.Sprintf("Creó el pedido para la ficha %s", req.FichaCode),
		&actorID,
		req,
		requisition,
	)

	return requisition, nil
}

// Authorize stores the signature and moves the requisition to EN PROCESO.
func (s *RequisitionService) Authorize(id int, signaturePath string, actorID int) (*models.Requisition, error) {
	requisition, err := s.rr.GetRequisition(id)
	if err != nil {
		return nil, err
	}

	if requisition.Status != metadata.OrderPending.String() {
		return nil, custom_error.NewConflict("el pedido %d ya fue autorizado", id)
	}

	if err := s.rr.SetAuthorized(id, signaturePath); err != nil {
		return nil, err
	}

	requisition, err = s.rr.GetRequisition(id)
	if err != nil {
		return nil, err
	}

	s.notifier.Broadcast(
		&actorID,
		auditlog.ActionAuthorize,
		fmt.Sprintf("Se autorizó el pedido %d de la ficha %s", id, requisition.FichaCode),
	)
	go s.auditLog.Log(
		auditlog.ActionAuthorize,
		fmt.Sprintf("Autorizó el pedido de la ficha %s", requisition.FichaCode),
		&actorID,
		map[string]interface{}{"firma": signaturePath},
		requisition,
	)
	go s.mailer.SendRequisitionAuthorized(requisition)

	return requisition, nil
}

// Fulfill dispatches product quantities against an authorized requisition.
// Everything runs in one transaction: if any line fails, no stock moves.
// The header flips to ENTREGADO only once every line is fully dispatched.
func (s *RequisitionService) Fulfill(id int, dispatch models.DispatchRequest, actorID int) (*models.Requisition, error) {
	err := s.runInTx(func(tx *goqu.TxDatabase) error {
		requisition, err := s.rr.GetRequisitionInTx(tx, id)
		if err != nil {
			return err
		}

		if requisition.Status == metadata.OrderPending.String() {
			return custom_error.NewConflict("el pedido %d aún no ha sido autorizado", id)
		}
		if requisition.Status == metadata.OrderDelivered.String() {
			return custom_error.NewConflict("el pedido %d ya fue entregado", id)
		}

		linesByProduct := make(map[int]*models.RequisitionLine, len(requisition.Lines))
		for i := range requisition.Lines {
			linesByProduct[requisition.Lines[i].ProductID] = &requisition.Lines[i]
		}

		for _, dispatchLine := range dispatch.Lines {
			line, ok := linesByProduct[dispatchLine.ProductID]
			if !ok {
				return custom_error.NewValidation(
					"el producto %d no pertenece al pedido %d", dispatchLine.ProductID, id,
				)
			}

			if dispatchLine.Dispatched <= 0 {
				return custom_error.NewValidation(
					"la cantidad de salida para el producto %d debe ser mayor que cero", dispatchLine.ProductID,
				)
			}

			if dispatchLine.Dispatched > line.Remaining() {
				return custom_error.NewValidation(
					"la cantidad de salida para el producto %d supera lo pendiente del pedido (%d)",
					dispatchLine.ProductID, line.Remaining(),
				)
			}

			if err := s.productRepo.Withdraw(tx, dispatchLine.ProductID, dispatchLine.Dispatched); err != nil {
				return err
			}

			if err := s.rr.AccumulateDispatched(tx, id, dispatchLine.ProductID, dispatchLine.Dispatched); err != nil {
				return err
			}

			line.Dispatched += dispatchLine.Dispatched
		}

		complete := true
		for _, line := range requisition.Lines {
			if line.Remaining() > 0 {
				complete = false
				break
			}
		}

		if complete {
			return s.rr.SetDelivered(tx, id, time.Now())
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	requisition, err := s.rr.GetRequisition(id)
	if err != nil {
		return nil, err
	}

	s.notifier.Broadcast(
		&actorID,
		auditlog.ActionHandout,
		fmt.Sprintf("Se registró una salida de inventario para el pedido %d", id),
	)
	go s.auditLog.Log(
		auditlog.ActionHandout,
		fmt.Sprintf("Registró una salida de inventario para la ficha %s", requisition.FichaCode),
		&actorID,
		dispatch,
		requisition,
	)
	go s.mailer.SendRequisitionDelivered(requisition)

	return requisition, nil
}
