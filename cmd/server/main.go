package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/o-kravets/plateful/internal/auth"
	"github.com/o-kravets/plateful/internal/config"
	httpserver "github.com/o-kravets/plateful/internal/http"
	"github.com/o-kravets/plateful/internal/logging"
	"github.com/o-kravets/plateful/internal/mail"
	"github.com/o-kravets/plateful/internal/repository"
	"github.com/o-kravets/plateful/internal/store"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		bootLogger := logging.New("info", "console")
		bootLogger.Fatal().Err(err).Msg("config error")
	}

	logger := logging.New(cfg.LogLevel, cfg.LogFormat)

	dbCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	storeOpts := store.Options{
		MaxConns:               int32(cfg.DBMaxConns),
		MinConns:               int32(cfg.DBMinConns),
		MaxConnIdleTime:        time.Duration(cfg.DBMaxIdleSecs) * time.Second,
		MaxConnLifetime:        time.Duration(cfg.DBMaxLifeSecs) * time.Second,
		ConnTimeout:            time.Duration(cfg.DBConnTimeoutSecs) * time.Second,
		StatementCacheCapacity: cfg.DBStatementCache,
		Logger:                 logger,
	}

	st, err := store.New(dbCtx, cfg.DBURL, storeOpts)
	if err != nil {
		logger.Fatal().Err(err).Msg("connect database")
	}
	defer st.Close()

	mailer, err := mail.NewRelayClient(cfg.MailRelayURL, cfg.MailRelayAPIKey, time.Duration(cfg.MailTimeoutSecs)*time.Second, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("init mail relay client")
	}

	verifier := auth.NewVerifier(cfg.JWTSecret)
	repo := repository.New(st)
	server := httpserver.New(cfg, st, repo, mailer, verifier, logger)

	serverErrCh := make(chan error, 1)
	go func() {
		if err := server.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			serverErrCh <- err
			return
		}
		serverErrCh <- nil
	}()

	select {
	case err := <-serverErrCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) && !errors.Is(err, context.Canceled) {
			logger.Error().Err(err).Msg("server error")
		}
	case <-ctx.Done():
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error().Err(err).Msg("graceful shutdown error")
	}
}
