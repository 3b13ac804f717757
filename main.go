package main

import (
	"net/http"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/serroba/docshare/internal/api"
	"github.com/serroba/docshare/internal/collab"
	"github.com/serroba/docshare/internal/config"
	"github.com/serroba/docshare/internal/export"
	"github.com/serroba/docshare/internal/mailer"
	"github.com/serroba/docshare/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fallback := zerolog.New(os.Stderr)
		fallback.Fatal().Err(err).Msg("failed to load configuration")
	}

	logger := newLogger(cfg.App.LogLevel)

	// Initialize store and sharing manager
	memStore := store.NewMemoryStore()
	manager := collab.NewManager(collab.ManagerConfig{Store: memStore})

	// Optional share notification mail
	var mail mailer.Mailer
	if cfg.MailEnabled() {
		mail = &mailer.SMTP{
			Server:   cfg.SMTP.Server,
			Port:     cfg.SMTP.Port,
			User:     cfg.SMTP.User,
			Password: cfg.SMTP.Password,
		}
	}

	// Initialize API server
	server := api.NewServer(api.ServerConfig{
		Manager:  manager,
		Store:    memStore,
		Exporter: export.NewExporter(),
		Mailer:   mail,
		Logger:   logger,
	})

	// Configure HTTP server with timeouts
	httpServer := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           server.Handler(),
		ReadHeaderTimeout: time.Duration(cfg.Server.ReadHeaderTimeout) * time.Second,
	}

	logger.Info().Str("addr", cfg.Addr()).Msg("starting server")

	if err := httpServer.ListenAndServe(); err != nil {
		logger.Fatal().Err(err).Msg("server error")
	}
}

func newLogger(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}

	return zerolog.New(os.Stdout).Level(lvl).With().Timestamp().Logger()
}
