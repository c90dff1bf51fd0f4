package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/weiwei-tsao/airbnb-dashboard/internal/business/dashboard"
	"github.com/weiwei-tsao/airbnb-dashboard/internal/platform/config"
	apirouter "github.com/weiwei-tsao/airbnb-dashboard/internal/platform/http"
	"github.com/weiwei-tsao/airbnb-dashboard/internal/platform/loader"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	_ = godotenv.Load(".env.local", ".env")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config load: %v", err)
	}

	gin.SetMode(cfg.GinMode)

	ds, err := loader.Load(ctx, cfg)
	if err != nil {
		log.Fatalf("dataset load: %v", err)
	}
	log.Printf("loaded %d listings from %s source", ds.Len(), cfg.DatasetSource)

	catalog, err := dashboard.LoadCatalog(cfg.CatalogPath)
	if err != nil {
		log.Fatalf("catalog load: %v", err)
	}

	dash, err := dashboard.New(ds, catalog)
	if err != nil {
		log.Fatalf("dashboard init: %v", err)
	}

	router := apirouter.NewRouter(dash, cfg.Origins())

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()
	log.Printf("server listening on :%s", cfg.Port)

	<-ctx.Done()
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("server shutdown error: %v", err)
	}
	log.Println("server exited")
}
