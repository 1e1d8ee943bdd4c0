// Package app wires the store, session manager, and HTTP surface together.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/amberstream/webportal/internal/config"
	"github.com/amberstream/webportal/internal/db"
	"github.com/amberstream/webportal/internal/http/api"
	"github.com/amberstream/webportal/internal/http/web"
	"github.com/amberstream/webportal/internal/session"
	"github.com/amberstream/webportal/internal/webui"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// shutdownGrace bounds how long in-flight requests may finish on shutdown.
const shutdownGrace = 10 * time.Second

// NewEngine builds the gin engine with all routes registered.
func NewEngine(conn *gorm.DB, sessions *session.Manager) (*gin.Engine, error) {
	templates, errTemplates := webui.Templates()
	if errTemplates != nil {
		return nil, errTemplates
	}
	staticFS, errStatic := webui.StaticFS()
	if errStatic != nil {
		return nil, errStatic
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.SetHTMLTemplate(templates)
	engine.StaticFS("/static", http.FS(staticFS))

	web.RegisterWebRoutes(engine, conn, sessions)

	planHandler := api.NewPlanHandler(conn)
	engine.GET("/api/plans", planHandler.List)

	healthHandler := api.NewHealthHandler(conn)
	engine.GET("/healthz", healthHandler.Healthz)

	return engine, nil
}

// RunServer opens the store, seeds it, and serves the site until ctx ends.
// Initialization order: store connection, migrate and seed, session manager,
// route handlers.
func RunServer(ctx context.Context, cfg config.AppConfig, port int) error {
	configPath := config.ResolveConfigPath(cfg.ConfigPath)

	dsn, errDSN := config.LoadDatabaseDSN(configPath)
	if errDSN != nil {
		return errDSN
	}
	conn, errOpen := db.Open(dsn)
	if errOpen != nil {
		return errOpen
	}
	if errMigrate := db.Migrate(conn); errMigrate != nil {
		return errMigrate
	}

	sessionCfg, errSession := config.LoadSessionConfig(configPath)
	if errSession != nil {
		return errSession
	}
	if sessionCfg.IsFallback() {
		log.Warn("SECRET_KEY not set, signing sessions with the insecure built-in secret")
	}
	sessions := session.NewManager(sessionCfg.Secret)

	gin.SetMode(gin.ReleaseMode)
	engine, errEngine := NewEngine(conn, sessions)
	if errEngine != nil {
		return errEngine
	}

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: engine,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()
	log.Infof("serving on :%d (store: %s)", port, db.DialectName(conn))

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		if errShutdown := server.Shutdown(shutdownCtx); errShutdown != nil {
			return fmt.Errorf("app: shutdown: %w", errShutdown)
		}
		return nil
	case errServe := <-errCh:
		if errServe != nil && !errors.Is(errServe, http.ErrServerClosed) {
			return fmt.Errorf("app: serve: %w", errServe)
		}
		return nil
	}
}
