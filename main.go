package main

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/mavidal/fintrack-be/internal/api"
	"github.com/mavidal/fintrack-be/internal/auth"
	"github.com/mavidal/fintrack-be/internal/config"
	"github.com/mavidal/fintrack-be/internal/database"
	"github.com/mavidal/fintrack-be/internal/export"
	"github.com/mavidal/fintrack-be/internal/logger"
	"github.com/mavidal/fintrack-be/internal/mailer"
	"github.com/mavidal/fintrack-be/internal/maintenance"
	"github.com/mavidal/fintrack-be/internal/objectstore"
	"github.com/mavidal/fintrack-be/internal/payment"
	"github.com/mavidal/fintrack-be/internal/services"
)

func main() {
	logger.Init()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	auth.Init(cfg.JWTSecret)

	// Set up database
	db, err := database.New(cfg.DatabasePath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("Failed to apply database migrations")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Set up external collaborators
	store, err := objectstore.NewS3(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize object store")
	}
	mail := mailer.NewSMTP(cfg)
	gateway := payment.NewRazorpay(cfg)

	// Set up services
	userService := services.NewUserService(db, mail, cfg.PublicBaseURL)
	exportService := services.NewExportService(db, store)
	premiumService := services.NewPremiumService(db, gateway, cfg.PremiumPricePaise)

	// Set up and run the background export projector
	projector := export.NewProjector(exportService, 64)
	go projector.Run()

	expenseService := services.NewExpenseService(db, projector)

	// Set up and run the background reset-token sweeper
	sweeper, err := maintenance.NewSweeper(db, cfg.TokenSweepSpec)
	if err != nil {
		log.Fatal().Err(err).Str("spec", cfg.TokenSweepSpec).Msg("Invalid token sweep spec")
	}
	go sweeper.Run()

	// Set up router and server
	router := api.NewRouter(userService, expenseService, premiumService, store)
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.ServerPort),
		Handler: router,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info().Int("port", cfg.ServerPort).Msg("Server starting")
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("Shutting down server...")

		projector.Stop()
		sweeper.Stop()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Fatal().Err(err).Msg("Server exited with error")
	}
	log.Info().Msg("Server exiting")
}
