package main // Entry point package

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/iliyamo/auth-service/internal/auth"
	"github.com/iliyamo/auth-service/internal/cleanup"
	"github.com/iliyamo/auth-service/internal/config"
	"github.com/iliyamo/auth-service/internal/database"
	"github.com/iliyamo/auth-service/internal/handler"
	"github.com/iliyamo/auth-service/internal/notifier"
	"github.com/iliyamo/auth-service/internal/queue"
	"github.com/iliyamo/auth-service/internal/repository"
	"github.com/iliyamo/auth-service/internal/router"
	"github.com/iliyamo/auth-service/internal/token"
)

func main() {
	cfg := config.Load() // Load environment config

	// Root context cancelled on SIGINT/SIGTERM; background workers hang
	// off it and stop cleanly on shutdown.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database open failed: %v", err)
	}
	defer db.Close()

	if err := database.Migrate(ctx, db); err != nil {
		log.Fatalf("migrations failed: %v", err)
	}

	// Redis is optional: a nil client just means every blacklist check
	// goes to the database.
	cache := config.NewRedisClient()
	if cache == nil {
		log.Printf("redis unavailable, blacklist cache disabled")
	}

	codec := token.NewCodec(cfg.JWTSecret, cfg.AccessTTLMin, cfg.RefreshTTLDays)
	users := repository.NewUserRepo(db)
	settings := repository.NewSettingsRepo(db)
	resets := repository.NewResetTokenRepo(db)
	ledger := repository.NewTokenLedger(db, cache,
		time.Duration(cfg.AccessTTLMin)*time.Minute,
		time.Duration(cfg.RefreshTTLDays)*24*time.Hour)

	// Deliver auth emails through the broker when one is configured;
	// otherwise fall back to logging them.
	var mail auth.Notifier = notifier.LogNotifier{}
	if os.Getenv("RABBITMQ_URL") != "" || os.Getenv("AMQP_URL") != "" {
		mail = notifier.NewAMQPNotifier(queue.BrokerURL())
		go func() {
			if err := queue.StartEmailConsumer(); err != nil {
				log.Printf("email consumer stopped: %v", err)
			}
		}()
	}

	svc := auth.New(auth.Deps{
		Users:    users,
		Settings: settings,
		Ledger:   ledger,
		Resets:   resets,
		Hasher:   auth.BcryptHasher{Cost: cfg.BcryptCost},
		Notifier: mail,
		Codec:    codec,
		BaseURL:  cfg.BaseURL,
		ResetTTL: cfg.ResetTTL,
	})

	// Periodic sweep of expired ledger entries.
	go cleanup.NewSweeper(ledger, cfg.SweepInterval).Run(ctx)

	e := echo.New()
	router.RegisterRoutes(e)
	router.RegisterAuth(e, handler.NewAuthHandler(cfg, svc), handler.NewSettingsHandler(settings),
		handler.NewAdminHandler(users), codec, ledger, users)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env) // Print startup info

	go func() {
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Printf("server stopped: %v", err)
			cancel()
		}
	}()

	select {
	case <-sigs:
		log.Printf("shutdown signal received")
	case <-ctx.Done():
	}
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Printf("server shutdown: %v", err)
	}
}
