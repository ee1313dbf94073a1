package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/moham3d/clinic-records/internal/audit"
	"github.com/moham3d/clinic-records/internal/config"
	"github.com/moham3d/clinic-records/internal/db"
	"github.com/moham3d/clinic-records/internal/httpserver"
	"github.com/moham3d/clinic-records/internal/logging"
	"github.com/moham3d/clinic-records/internal/middleware"
	"github.com/moham3d/clinic-records/internal/repo"
	"github.com/moham3d/clinic-records/internal/search"
	"github.com/moham3d/clinic-records/internal/service"
	"github.com/moham3d/clinic-records/internal/tokens"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	config.MustNonEmpty(cfg.DatabaseURL, "DATABASE_URL")
	config.MustNonEmptyBytes(cfg.AccessSecret, "JWT_ACCESS_SECRET")
	config.MustNonEmptyBytes(cfg.RefreshSecret, "JWT_REFRESH_SECRET")

	logger := logging.New(cfg.LogLevel).With("service", cfg.ServiceName)

	initCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	database, err := db.Open(initCtx, cfg.DatabaseURL)
	cancel()
	if err != nil {
		log.Fatalf("db init error: %v", err)
	}
	if err := db.Migrate(database); err != nil {
		log.Fatalf("db migrate error: %v", err)
	}

	producer := audit.NewProducer(cfg.KafkaBrokers, cfg.AuditTopic)
	defer producer.Close()
	if len(cfg.KafkaBrokers) == 0 {
		logger.Warn("kafka brokers not configured, audit events disabled")
	}

	var patientIndex *search.PatientIndex
	if cfg.ESURL != "" {
		es, err := search.NewClient(cfg.ESURL, cfg.ESUser, cfg.ESPassword)
		if err != nil {
			log.Fatalf("elasticsearch init error: %v", err)
		}
		patientIndex = search.NewPatientIndex(es, search.DefaultPatientIndex)
	} else {
		logger.Warn("elasticsearch not configured, patient search disabled")
		patientIndex = search.NewPatientIndex(nil, search.DefaultPatientIndex)
	}

	gormRepo := repo.GormRepo{DB: database}
	codec := tokens.NewCodec(cfg.AccessSecret, cfg.RefreshSecret, cfg.AccessTTL, cfg.RefreshTTL)

	e := echo.New()
	e.HideBanner = true
	e.Server.ReadTimeout = 10 * time.Second
	e.Server.WriteTimeout = 15 * time.Second
	e.Server.ReadHeaderTimeout = 3 * time.Second
	e.Use(echomw.RequestID())
	e.Use(echomw.Recover())
	e.Use(middleware.RequestLogger(logger))

	httpserver.Register(e, httpserver.Deps{
		Auth: &service.AuthService{
			Repo:  gormRepo,
			Codec: codec,
			Audit: producer,
		},
		Patients: &service.PatientService{
			Repo:  gormRepo,
			Index: patientIndex,
			Audit: producer,
		},
		Visits:  &service.VisitService{Repo: gormRepo},
		Forms:   &service.FormService{Repo: gormRepo},
		Guard:   middleware.NewAuthMiddleware(codec, &gormRepo),
		Limiter: httpserver.NewRateLimiter(cfg.AuthRateLimit, cfg.AuthRateBurst),
	})

	go func() {
		addr := fmt.Sprintf(":%d", cfg.ServerPort)
		logger.Info("server starting", "addr", addr)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("echo start: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("echo shutdown", "error", err)
	}
}
