package sweeper

import (
	"log"
	"time"

	"github.com/ja12as/Proyecto-sena-banco-herramienta/internal/repository"

	"github.com/doug-martin/goqu/v9"
	"github.com/robfig/cron/v3"
)

// staleAfterDays is how long an unsigned requisition or loan survives
// before the nightly sweep removes it.
const staleAfterDays = 3

type UnsignedDeleter interface {
	DeleteUnsigned(tx *goqu.TxDatabase, olderThan time.Time) (int64, error)
}

type ExpiredNotificationDeleter interface {
	DeleteExpired(tx *goqu.TxDatabase, now time.Time) (int64, error)
}

// Sweeper deletes stale unsigned paperwork and expired notifications on a
// nightly schedule.
type Sweeper struct {
	runInTx          func(fn func(tx *goqu.TxDatabase) error) error
	requisitionRepo  UnsignedDeleter
	loanRepo         UnsignedDeleter
	notificationRepo ExpiredNotificationDeleter
	cron             *cron.Cron
	now              func() time.Time
}

func New(
	r *repository.Repository,
	requisitionRepo UnsignedDeleter,
	loanRepo UnsignedDeleter,
	notificationRepo ExpiredNotificationDeleter,
) *Sweeper {
	return &Sweeper{
		runInTx: func(fn func(tx *goqu.TxDatabase) error) error {
			return repository.WithTransaction(r.GoquDBWrapper, fn)
		},
		requisitionRepo:  requisitionRepo,
		loanRepo:         loanRepo,
		notificationRepo: notificationRepo,
		cron:             cron.New(),
		now:              time.Now,
	}
}

// Start schedules the sweep daily at midnight. An error in one run is logged
// and does not cancel the next.
func (s *Sweeper) Start() error {
	_, err := s.cron.AddFunc("0 0 * * *", func() {
		s.RunOnce()
	})
	if err != nil {
		return err
	}

	s.cron.Start()
	return nil
}

func (s *Sweeper) Stop() {
	s.cron.Stop()
}

// RunOnce performs a single sweep. It is also wired to a manual trigger so
// the warehouse can force a cleanup without waiting for midnight.
func (s *Sweeper) RunOnce() {
	cutoff := s.now().AddDate(0, 0, -staleAfterDays)

	s.sweepUnsigned("pedidos", s.requisitionRepo, cutoff)
	s.sweepUnsigned("prestamos", s.loanRepo, cutoff)
	s.sweepNotifications()
}

func (s *Sweeper) sweepUnsigned(label string, repo UnsignedDeleter, cutoff time.Time) {
	err := s.runInTx(func(tx *goqu.TxDatabase) error {
		deleted, err := repo.DeleteUnsigned(tx, cutoff)
		if err != nil {
			return err
		}
		if deleted > 0 {
			log.Printf("Depuración de %s sin firma: %d eliminados", label, deleted)
		}
		return nil
	})
	if err != nil {
		log.Printf("Error en la depuración de %s: %v", label, err)
	}
}

func (s *Sweeper) sweepNotifications() {
	err := s.runInTx(func(tx *goqu.TxDatabase) error {
		deleted, err := s.notificationRepo.DeleteExpired(tx, s.now())
		if err != nil {
			return err
		}
		if deleted > 0 {
			log.Printf("Depuración de notificaciones vencidas: %d eliminadas", deleted)
		}
		return nil
	})
	if err != nil {
		log.Printf("Error en la depuración de notificaciones: %v", err)
	}
}
