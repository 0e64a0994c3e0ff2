package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/assetbase/backend/internal/adapter/postgres"
	assetrepo "github.com/assetbase/backend/internal/adapter/postgres/asset"
	auditrepo "github.com/assetbase/backend/internal/adapter/postgres/audit"
	documentrepo "github.com/assetbase/backend/internal/adapter/postgres/document"
	"github.com/assetbase/backend/internal/adapter/postgres/sequence"
	staffrepo "github.com/assetbase/backend/internal/adapter/postgres/staff"
	workflowrepo "github.com/assetbase/backend/internal/adapter/postgres/workflow"
	workorderrepo "github.com/assetbase/backend/internal/adapter/postgres/workorder"
	"github.com/assetbase/backend/internal/auth"
	"github.com/assetbase/backend/internal/config"
	assetsvc "github.com/assetbase/backend/internal/service/asset"
	auditsvc "github.com/assetbase/backend/internal/service/audit"
	documentsvc "github.com/assetbase/backend/internal/service/document"
	searchsvc "github.com/assetbase/backend/internal/service/search"
	staffsvc "github.com/assetbase/backend/internal/service/staff"
	workflowsvc "github.com/assetbase/backend/internal/service/workflow"
	workordersvc "github.com/assetbase/backend/internal/service/workorder"
	"github.com/assetbase/backend/internal/transport/middleware"
	"github.com/assetbase/backend/internal/transport/rest"
)

const requestsPerMinute = 300

// Run is the application entry point. It loads configuration, connects to
// the database, assembles the services and serves HTTP until ctx is
// cancelled.
func Run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := NewLogger(cfg.Log)

	logger.Info("starting application",
		slog.String("version", BuildVersion()),
		slog.String("log_level", cfg.Log.Level),
	)

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer pool.Close()

	assets := assetrepo.New(pool)
	staff := staffrepo.New(pool)
	documents := documentrepo.New(pool)
	workOrders := workorderrepo.New(pool)
	workflows := workflowrepo.New(pool)
	auditLogs := auditrepo.New(pool)
	sequences := sequence.New(pool)
	txManager := postgres.NewTxManager(pool)

	assetService := assetsvc.NewService(logger, assets, sequences, auditLogs, txManager, cfg.Spatial.MaxRadiusMeters)
	staffService := staffsvc.NewService(logger, staff, auditLogs, txManager, cfg.Spatial.MaxRadiusMeters)
	documentService := documentsvc.NewService(logger, documents, sequences, auditLogs, txManager)
	workOrderService := workordersvc.NewService(logger, workOrders, sequences, auditLogs, txManager, cfg.Spatial.MaxRadiusMeters)
	workflowService := workflowsvc.NewService(logger, workflows, sequences, auditLogs, txManager)
	auditService := auditsvc.NewService(logger, auditLogs, cfg.Audit)
	searchService := searchsvc.NewService(logger, assets, staff, documents, workOrders, workflows)

	router := rest.NewRouter(rest.Handlers{
		Health:     rest.NewHealthHandler(pool, BuildVersion()),
		Assets:     rest.NewAssetHandler(assetService, logger),
		Staff:      rest.NewStaffHandler(staffService, logger),
		Documents:  rest.NewDocumentHandler(documentService, logger),
		WorkOrders: rest.NewWorkOrderHandler(workOrderService, logger),
		Workflows:  rest.NewWorkflowHandler(workflowService, logger),
		Spatial:    rest.NewSpatialHandler(assetService, staffService, workOrderService, logger),
		Audit:      rest.NewAuditHandler(auditService, logger),
		Search:     rest.NewSearchHandler(searchService, logger),
	})

	limiter := middleware.NewRateLimiter(time.Minute)
	defer limiter.Stop()

	validator := auth.NewTokenValidator(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer)

	handler := middleware.Chain(
		middleware.RequestID,
		middleware.Logger(logger),
		middleware.Recovery(logger),
		middleware.CORS(cfg.CORS),
		limiter.Limit(requestsPerMinute),
		middleware.Origin(),
		middleware.Auth(validator),
	)(router)

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", slog.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
