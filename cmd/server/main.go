package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/LeandroDBechara/VerdeandoBack/internal/auth"
	"github.com/LeandroDBechara/VerdeandoBack/internal/config"
	"github.com/LeandroDBechara/VerdeandoBack/internal/db"
	api "github.com/LeandroDBechara/VerdeandoBack/internal/http"
	"github.com/LeandroDBechara/VerdeandoBack/internal/mailer"
	"github.com/LeandroDBechara/VerdeandoBack/internal/repo"
	"github.com/LeandroDBechara/VerdeandoBack/internal/scheduler"
	"github.com/LeandroDBechara/VerdeandoBack/internal/service"
	"github.com/LeandroDBechara/VerdeandoBack/internal/storage"
)

func main() {
	log := zerolog.New(os.Stdout).With().Timestamp().Logger()
	cfg := config.Load()
	ctx := context.Background()

	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a la base de datos")
	}
	defer pool.Close()

	if err := db.RunMigrations(ctx, pool, cfg.MigrationsDir); err != nil {
		log.Fatal().Err(err).Msg("migraciones")
	}

	authManager := auth.NewManager(cfg.JWTSecret)
	repository := repo.New(pool)
	svc := service.New(repository, authManager)
	svc.ResetPasswordURL = cfg.ResetPasswordURL

	if cfg.StorageEnabled() {
		svc.Storage = storage.NewClient(cfg.SupabaseURL, cfg.SupabaseKey)
	} else {
		log.Warn().Msg("almacenamiento de imágenes deshabilitado")
	}
	if cfg.EmailEnabled() {
		svc.Mailer = mailer.New(cfg.MailjetAPIKey, cfg.MailjetSecretKey, cfg.EmailSender)
	} else {
		log.Warn().Msg("correo transaccional deshabilitado")
	}

	sched, err := scheduler.New(svc, log)
	if err != nil {
		log.Fatal().Err(err).Msg("tareas programadas")
	}
	sched.Start()
	defer sched.Stop()

	handler := &api.API{
		Service: svc,
		Auth:    authManager,
		Log:     log,
		Origins: strings.Split(cfg.CORSOrigin, ","),
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Msg("servidor escuchando")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("servidor http")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctxShutdown); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}
}
