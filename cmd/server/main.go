package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/G1-LevelUp/levelup-backend/internal/config"
	"github.com/G1-LevelUp/levelup-backend/internal/es"
	"github.com/G1-LevelUp/levelup-backend/internal/handlers"
	"github.com/G1-LevelUp/levelup-backend/internal/logging"
	loggingmw "github.com/G1-LevelUp/levelup-backend/internal/middleware/logging"
	"github.com/G1-LevelUp/levelup-backend/internal/mykafka"
	"github.com/G1-LevelUp/levelup-backend/internal/repo"
	"github.com/G1-LevelUp/levelup-backend/internal/schema"
	"github.com/G1-LevelUp/levelup-backend/internal/service"
	httpserver "github.com/G1-LevelUp/levelup-backend/internal/transport/http"
)

func main() {
	configuration, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}

	logger := logging.New(configuration.LOG_LEVEL)

	initCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	db, err := config.InitDB(initCtx, configuration)
	cancel()
	if err != nil {
		log.Fatalf("db init error: %v", err)
	}

	migrator := &schema.Migrator{DB: db}
	if err := migrator.Migrate(context.Background()); err != nil {
		if errors.Is(err, schema.ErrVersionAhead) {
			logger.Warn("schema ahead of binary, resetting store", "error", err)
			if err := migrator.Reset(context.Background()); err != nil {
				log.Fatalf("schema reset error: %v", err)
			}
		} else {
			log.Fatalf("schema migrate error: %v", err)
		}
	}

	jwtSecret := []byte(configuration.JWT_SECRET)
	refreshSecret := []byte(configuration.REFRESH_SECRET)

	var producer *mykafka.Producer
	if configuration.KAFKA_ADDRESS != "" {
		producer, err = mykafka.NewProducer([]string{configuration.KAFKA_ADDRESS})
		if err != nil {
			log.Fatal(err)
		}
	}

	esClient, err := es.NewClient(configuration)
	if err != nil {
		log.Fatal(err)
	}

	gormRepo := &repo.GormRepo{DB: db}

	authService := &service.AuthService{
		Repo:          gormRepo,
		JWTSecret:     jwtSecret,
		RefreshSecret: refreshSecret,
		Producer:      producer,
	}
	catalogService := &service.CatalogService{
		Repo:     gormRepo,
		Producer: producer,
		ES:       esClient,
		Index:    "productos",
	}
	cartService := &service.CartService{
		Repo:     gormRepo,
		Producer: producer,
	}

	e := echo.New()
	e.HideBanner = true
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover(), middleware.RequestID(), middleware.CORS())
	e.Use(loggingmw.RequestLogger(logger))

	httpserver.Register(e, &httpserver.Deps{
		AuthHandler:    &handlers.AuthHandler{Svc: authService},
		ProductHandler: &handlers.ProductHandler{Svc: catalogService},
		CartHandler:    &handlers.CartHandler{Svc: cartService},
		JWTSecret:      jwtSecret,
	})

	port := configuration.SERVER_PORT
	if port == "" {
		port = "8080"
	}

	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("http server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("server shutdown error: %v", err)
	}

	if sqlDB, err := db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			log.Printf("db close error: %v", err)
		}
	} else {
		log.Printf("db() error: %v", err)
	}

	if err := producer.Close(); err != nil {
		log.Printf("kafka close error: %v", err)
	}

	log.Println("shutdown complete")
}
