package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/filmstack/filmstack/internal/auth"
	"github.com/filmstack/filmstack/internal/comments"
	"github.com/filmstack/filmstack/internal/config"
	"github.com/filmstack/filmstack/internal/docstore"
	httpserver "github.com/filmstack/filmstack/internal/http"
	"github.com/filmstack/filmstack/internal/ledger"
	"github.com/filmstack/filmstack/internal/logging"
	"github.com/filmstack/filmstack/internal/messages"
	"github.com/filmstack/filmstack/internal/rating"
	"github.com/filmstack/filmstack/internal/repository"
	"github.com/filmstack/filmstack/internal/store"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		fallback := logging.New(logging.Config{})
		fallback.Fatal().Err(err).Msg("config error")
	}

	logger := logging.New(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	dbCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	st, err := store.New(dbCtx, cfg.DBURL, store.Options{
		MaxConns:               int32(cfg.DBMaxConns),
		MinConns:               int32(cfg.DBMinConns),
		MaxConnIdleTime:        cfg.DBMaxConnIdle,
		MaxConnLifetime:        cfg.DBMaxConnLifetime,
		ConnTimeout:            cfg.DBConnTimeout,
		StatementCacheCapacity: cfg.DBStatementCache,
		Logger:                 logger,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("connect database")
	}
	defer st.Close()

	docs, err := docstore.Open(docstore.Options{
		Path:     cfg.DocstorePath,
		InMemory: cfg.DocstoreInMemory,
		Logger:   logger,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("open docstore")
	}
	defer func() {
		if err := docs.Close(); err != nil {
			logger.Error().Err(err).Msg("close docstore")
		}
	}()

	jwtMgr, err := auth.NewJWTManager(cfg.JWTSecret, cfg.TokenTTL)
	if err != nil {
		logger.Fatal().Err(err).Msg("init jwt manager")
	}

	repo := repository.New(st)
	ratingLedger := ledger.New(docs.DB())
	ratingService := rating.NewService(ratingLedger, repo.Movies, logger)

	server := httpserver.New(cfg, httpserver.Deps{
		Store:    st,
		Docstore: docs,
		Movies:   repo.Movies,
		Users:    repo.Users,
		Ratings:  ratingService,
		Comments: comments.New(docs.DB()),
		Messages: messages.New(docs.DB()),
		Sessions: auth.NewSessionStore(docs.DB(), cfg.SessionTTL),
		JWT:      jwtMgr,
		Logger:   logger,
	})

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
