package notifications

import (
	"fmt"
	"time"

	"github.com/ja12as/Proyecto-sena-banco-herramienta/internal/repository"
	"github.com/ja12as/Proyecto-sena-banco-herramienta/pkg/models"

	"github.com/doug-martin/goqu/v9"
)

type NotificationRepository interface {
	PersistNotification(actorID *int, action string, message string, expiresAt time.Time) error
	GetNotifications() ([]models.Notification, error)
	GetNotificationsForUser(userID int) ([]models.Notification, error)
	MarkRead(notificationID int, userID int) error
	DeleteExpired(tx *goqu.TxDatabase, now time.Time) (int64, error)
}

type notificationRepositoryImpl struct {
	repository *repository.Repository
}

func NewRepository(r *repository.Repository) NotificationRepository {
	return &notificationRepositoryImpl{repository: r}
}

func (r *notificationRepositoryImpl) PersistNotification(actorID *int, action string, message string, expiresAt time.Time) error {
	query := r.repository.GoquDBWrapper.Insert("notificaciones").
		Rows(goqu.Record{
			"actor_id":    actorID,
			"tipo_accion": action,
			"mensaje":     message,
			"expira_en":   expiresAt,
		})

	if _, err := query.Executor().Exec(); err != nil {
		return fmt.Errorf("failed to insert notification: %w", err)
	}

	return nil
}

func (r *notificationRepositoryImpl) GetNotifications() ([]models.Notification, error) {
	var notifications []models.Notification

	query := r.repository.GoquDBWrapper.
		Select(
			goqu.I("n.id").As("id"),
			goqu.I("n.actor_id").As("actor_id"),
			goqu.I("u.nombre").As("actor"),
			goqu.I("n.tipo_accion").As("tipo_accion"),
			goqu.I("n.mensaje").As("mensaje"),
			goqu.I("n.expira_en").As("expira_en"),
			goqu.I("n.created_at").As("created_at"),
		).
		From(goqu.T("notificaciones").As("n")).
		LeftJoin(goqu.T("usuarios").As("u"), goqu.On(goqu.Ex{"u.id": goqu.I("n.actor_id")})).
		Where(goqu.I("n.expira_en").Gt(goqu.L("now()"))).
		Order(goqu.I("n.created_at").Desc())

	if err := query.Executor().ScanStructs(&notifications); err != nil {
		return nil, fmt.Errorf("error executing SQL statement: %w", err)
	}

	return notifications, nil
}

// GetNotificationsForUser joins the per-user read marks onto the shared
// notification rows. Read state lives only in notificaciones_leidas, one row
// per user who actually opened the notification.
func (r *notificationRepositoryImpl) GetNotificationsForUser(userID int) ([]models.Notification, error) {
	var notifications []models.Notification

	query := r.repository.GoquDBWrapper.
		Select(
			goqu.I("n.id").As("id"),
			goqu.I("n.actor_id").As("actor_id"),
			goqu.I("u.nombre").As("actor"),
			goqu.I("n.tipo_accion").As("tipo_accion"),
			goqu.I("n.mensaje").As("mensaje"),
			goqu.I("n.expira_en").As("expira_en"),
			goqu.I("n.created_at").As("created_at"),
			goqu.L("nl.notificacion_id IS NOT NULL").As("leida"),
		).
		From(goqu.T("notificaciones").As("n")).
		LeftJoin(goqu.T("usuarios").As("u"), goqu.On(goqu.Ex{"u.id": goqu.I("n.actor_id")})).
		LeftJoin(
			goqu.T("notificaciones_leidas").As("nl"),
			goqu.On(goqu.Ex{
				"nl.notificacion_id": goqu.I("n.id"),
				"nl.usuario_id":      userID,
			}),
		).
		Where(goqu.I("n.expira_en").Gt(goqu.L("now()"))).
		Order(goqu.I("n.created_at").Desc())

	if err := query.Executor().ScanStructs(&notifications); err != nil {
		return nil, fmt.Errorf("error executing SQL statement: %w", err)
	}

	return notifications, nil
}

func (r *notificationRepositoryImpl) MarkRead(notificationID int, userID int) error {
	query := r.repository.GoquDBWrapper.Insert("notificaciones_leidas").
		Rows(goqu.Record{
			"notificacion_id": notificationID,
			"usuario_id":      userID,
		}).
		OnConflict(goqu.DoNothing())

	if _, err := query.Executor().Exec(); err != nil {
		return fmt.Errorf("failed to mark notification as read: %w", err)
	}

	return nil
}

func (r *notificationRepositoryImpl) DeleteExpired(tx *goqu.TxDatabase, now time.Time) (int64, error) {
	result, err := tx.Delete("notificaciones").
		Where(goqu.C("expira_en").Lte(now)).
		Executor().Exec()
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired notifications: %w", err)
	}

	return result.RowsAffected()
}
