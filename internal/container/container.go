package container

import (
	"database/sql"
	"os"

	"github.com/ja12as/Proyecto-sena-banco-herramienta/internal/catalog"
	"github.com/ja12as/Proyecto-sena-banco-herramienta/internal/fichas"
	"github.com/ja12as/Proyecto-sena-banco-herramienta/internal/history"
	"github.com/ja12as/Proyecto-sena-banco-herramienta/internal/inventory/products"
	"github.com/ja12as/Proyecto-sena-banco-herramienta/internal/inventory/tools"
	"github.com/ja12as/Proyecto-sena-banco-herramienta/internal/loans"
	"github.com/ja12as/Proyecto-sena-banco-herramienta/internal/mailer"
	"github.com/ja12as/Proyecto-sena-banco-herramienta/internal/notifications"
	"github.com/ja12as/Proyecto-sena-banco-herramienta/internal/reports"
	"github.com/ja12as/Proyecto-sena-banco-herramienta/internal/repository"
	"github.com/ja12as/Proyecto-sena-banco-herramienta/internal/requisitions"
	"github.com/ja12as/Proyecto-sena-banco-herramienta/internal/sweeper"
	"github.com/ja12as/Proyecto-sena-banco-herramienta/internal/uploads"
	"github.com/ja12as/Proyecto-sena-banco-herramienta/internal/users"
	"github.com/ja12as/Proyecto-sena-banco-herramienta/pkg/auditlog"
	"github.com/ja12as/Proyecto-sena-banco-herramienta/pkg/security"
)

type Container struct {
	Repository          *repository.Repository
	AuditLog            *auditlog.Auditlog
	LoginHandler        *security.LoginHandler
	ProductHandler      *products.ProductHandler
	ToolHandler         *tools.ToolHandler
	CatalogHandler      *catalog.CatalogHandler
	FichaHandler        *fichas.FichaHandler
	RequisitionHandler  *requisitions.RequisitionHandler
	LoanHandler         *loans.LoanHandler
	NotificationHandler *notifications.NotificationHandler
	HistoryHandler      *history.HistoryHandler
	ReportHandler       *reports.ReportHandler
	UserHandler         *users.UsersHandler
	Sweeper             *sweeper.Sweeper
}

func NewAppContainer(db *sql.DB) (*Container, error) {
	repo := repository.NewRepository(db)
	auditLog := auditlog.NewAuditLog(repo)

	storage, err := uploads.NewStorage(signaturesDir())
	if err != nil {
		return nil, err
	}

	notificationRepo := notifications.NewRepository(repo)
	broadcaster := notifications.NewBroadcaster(notificationRepo)
	mail := mailer.NewFromEnv()

	productRepo := products.NewRepository(repo)
	toolRepo := tools.NewRepository(repo)
	catalogRepo := catalog.NewRepository(repo)
	fichaRepo := fichas.NewRepository(repo)
	userRepo := users.NewRepository(repo)
	historyRepo := history.NewRepository(repo)
	reportRepo := reports.NewRepository(repo)

	requisitionRepo := requisitions.NewRepository(repo)
	requisitionService := requisitions.NewService(repo, requisitionRepo, productRepo, broadcaster, mail, auditLog)

	loanRepo := loans.NewRepository(repo)
	loanService := loans.NewService(repo, loanRepo, toolRepo, broadcaster, mail, auditLog)

	return &Container{
		Repository:          repo,
		AuditLog:            auditLog,
		LoginHandler:        security.NewLoginHandler(repo),
		ProductHandler:      products.NewHandler(productRepo, auditLog),
		ToolHandler:         tools.NewHandler(toolRepo, auditLog),
		CatalogHandler:      catalog.NewHandler(catalogRepo),
		FichaHandler:        fichas.NewHandler(fichaRepo, auditLog),
		RequisitionHandler:  requisitions.NewHandler(requisitionService, requisitionRepo, storage),
		LoanHandler:         loans.NewHandler(loanService, loanRepo, storage),
		NotificationHandler: notifications.NewHandler(notificationRepo),
		HistoryHandler:      history.NewHandler(historyRepo),
		ReportHandler:       reports.NewHandler(reportRepo),
		UserHandler:         users.NewHandler(userRepo, auditLog),
		Sweeper:             sweeper.New(repo, requisitionRepo, loanRepo, notificationRepo),
	}, nil
}

func signaturesDir() string {
	if dir := os.Getenv("SIGNATURES_DIR"); dir != "" {
		return dir
	}
	return "uploads/firmas"
}
