package entrypoint

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/robfig/cron/v3"

	"github.com/opdshelf/opdshelf/internal/config"
	"github.com/opdshelf/opdshelf/internal/database"
	http_controllers "github.com/opdshelf/opdshelf/internal/http"
	"github.com/opdshelf/opdshelf/internal/library"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

func Serve(router *gin.Engine, cfg *config.Config, onShutdown ShutdownFunc) {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler: router,
	}

	go func() {
		fmt.Printf("Starting server at %s:%d\n", cfg.HTTP.Host, cfg.HTTP.Port)
		// service connections
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	log.Printf("OPDS catalog at http://%s:%d/opds", cfg.HTTP.Host, cfg.HTTP.Port)
	log.Printf("KOReader sync at http://%s:%d/koreader/sync", cfg.HTTP.Host, cfg.HTTP.Port)

	// Graceful shutdown on SIGINT/SIGTERM
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Printf("Shutdown Server, waiting %v before killing\n", timeout)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	// Call shutdown callback first (e.g., to stop the rescan scheduler)
	if onShutdown != nil {
		onShutdown(ctx)
	}

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server Shutdown:", err)
	}

	log.Println("Server exiting")
}

func Run(cfg *config.Config, version string) {
	log.Printf("Starting opdshelf v%s", version)

	// Create the content root on first start so the catalog comes up
	// empty rather than erroring.
	if err := os.MkdirAll(cfg.Library.Dir, 0o755); err != nil {
		log.Fatalf("Failed to create library directory %s: %v", cfg.Library.Dir, err)
	}
	log.Printf("Serving library from %s", cfg.Library.Dir)

	// Initialize the sync database
	db, err := database.NewDatabase(cfg.Sync.DatabasePath)
	if err != nil {
		log.Fatalf("Failed to initialize sync database: %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("Error closing sync database: %v", err)
		}
	}()

	// Build the library index. Caches fill lazily on the first query.
	index, err := library.NewIndex(cfg.Library.Dir, cfg.Library.RecentLimit, cfg.Library.RecentCacheTTL)
	if err != nil {
		log.Fatalf("Failed to initialize library index: %v", err)
	}

	// Optional scheduled rescan. Queries still rebuild lazily; the
	// schedule only bounds how long a stale snapshot can live.
	var scheduler *cron.Cron
	if cfg.Library.RescanEnabled {
		scheduler = cron.New()
		if _, err := scheduler.AddFunc(cfg.Library.RescanSchedule, func() {
			log.Printf("Scheduled rescan: invalidating library caches")
			index.Invalidate()
		}); err != nil {
			log.Fatalf("Invalid rescan schedule %q: %v", cfg.Library.RescanSchedule, err)
		}
		scheduler.Start()
		log.Printf("Library rescan scheduled: %s", cfg.Library.RescanSchedule)
	}

	// Build router configuration with all dependencies
	routerCfg := http_controllers.RouterConfig{
		Index:       index,
		Database:    db,
		PageSize:    cfg.Library.PageSize,
		MaxPage:     cfg.Library.MaxPage,
		RecentLimit: cfg.Library.RecentLimit,
		BcryptCost:  cfg.Sync.BcryptCost,
		Version:     version,
	}

	router := http_controllers.NewRouter(routerCfg)

	onShutdown := func(ctx context.Context) {
		if scheduler != nil {
			scheduler.Stop()
		}
	}

	Serve(router, cfg, onShutdown)
}
