package cli

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"med-diagnosis-api/apiv1"
	"med-diagnosis-api/diagnosis"
	"med-diagnosis-api/internal"
	"med-diagnosis-api/internal/config"
	"med-diagnosis-api/internal/logger"
)

// shutdownTimeout bounds how long in-flight requests may drain.
const shutdownTimeout = 5 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the diagnosis API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		log := logger.New(cfg.LogLevel)

		db, err := openDatabase(cfg)
		if err != nil {
			return err
		}

		router, err := BuildRouter(db, log)
		if err != nil {
			return err
		}

		srv := &http.Server{
			Addr:    cfg.Port,
			Handler: router,
		}

		go func() {
			log.Info("starting server", "addr", cfg.Port)
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Error("server failed", "error", err)
				os.Exit(1)
			}
		}()

		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit

		log.Info("shutting down server")
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			return err
		}

		log.Info("server exiting")
		return nil
	},
}

// BuildRouter assembles the full gin engine: public diagnosis routes
// plus the basic-auth admin CRUD surface. Resource tables are migrated
// on the way.
func BuildRouter(db *gorm.DB, log logger.Logger) (*gin.Engine, error) {
	// The engine reads the tables on startup, so migrate before it.
	if err := db.AutoMigrate(&apiv1.Disease{}, &apiv1.Symptom{}, &apiv1.Account{}); err != nil {
		return nil, err
	}

	engine, err := diagnosis.NewEngine(db)
	if err != nil {
		return nil, err
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(gin.Logger())

	diagnosis.NewHandler(db, engine, log).Register(router)

	reload := func() {
		if err := engine.Reload(); err != nil {
			log.Error("engine reload failed", "error", err)
		}
	}

	admin := router.Group("/api/v1/admin", internal.BasicAuth(db))
	internal.RegisterResource[apiv1.Disease](admin, db, "/diseases", reload)
	internal.RegisterResource[apiv1.Symptom](admin, db, "/symptoms", reload)
	internal.RegisterResource[apiv1.Account](admin, db, "/accounts", nil)

	return router, nil
}
