package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"

	"github.com/gin-gonic/gin"

	"github.com/vrushalikudande/portfolio/internal/config"
	"github.com/vrushalikudande/portfolio/internal/content"
	"github.com/vrushalikudande/portfolio/internal/store"
	"github.com/vrushalikudande/portfolio/internal/view"
	"github.com/vrushalikudande/portfolio/internal/web"
)

const (
	sweepInterval   = time.Minute
	cleanupInterval = 24 * time.Hour
	shutdownTimeout = 10 * time.Second
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config: ", err)
	}
	gin.SetMode(cfg.GinMode)

	loc, err := cfg.Location()
	if err != nil {
		log.Fatal(err)
	}

	site, err := content.Default()
	if err != nil {
		log.Fatal("Failed to load content: ", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var metrics *store.Store
	if cfg.TrackVisitors {
		metrics, err = store.Open(cfg.DBPath)
		if err != nil {
			log.Fatal("Failed to open metrics database: ", err)
		}
		defer metrics.Close()
		log.Println("Privacy: Visitor tracking enabled with hashed IP addresses")
		go cleanupOldVisits(ctx, metrics, cfg.VisitRetention)
	}

	views := view.NewRegistry(view.Options{
		LoadingDelay:  cfg.LoadingDelay,
		ClockInterval: cfg.ClockInterval,
		MountGrace:    cfg.ViewMountGrace,
		Skills:        site.SkillLevels(),
		Location:      loc,
	}, cfg.ViewIdleTimeout)
	go views.Run(ctx, sweepInterval)

	srv, err := web.New(web.Options{
		Content:        site,
		Views:          views,
		Store:          metrics,
		ParticleCount:  cfg.ParticleCount,
		FrameInterval:  cfg.FrameInterval,
		VisitRetention: cfg.VisitRetention,
		AdminUsername:  cfg.AdminUsername,
		AdminPassword:  cfg.AdminPassword,
	})
	if err != nil {
		log.Fatal("Failed to build server: ", err)
	}

	httpServer := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: srv.Router(),
	}
	go func() {
		log.Printf("Portfolio listening on :%s", cfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Server error: ", err)
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("Error during shutdown: %v", err)
	}
	views.Close()
}

// cleanupOldVisits deletes visits past the retention period once at start
// and then daily.
func cleanupOldVisits(ctx context.Context, s *store.Store, retention time.Duration) {
	t := time.NewTicker(cleanupInterval)
	defer t.Stop()
	for {
		n, err := s.Cleanup(ctx, retention)
		if err != nil {
			log.Printf("Error cleaning up old visitor data: %v", err)
		} else if n > 0 {
			log.Printf("Privacy cleanup: Removed %d visitor records older than %s", n, retention)
		}
		select {
		case <-ctx.Done():
			return
		case <-t.C:
		}
	}
}
