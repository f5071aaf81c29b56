package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/granohq/accessd/internal/api"
	"github.com/granohq/accessd/internal/authz"
	"github.com/granohq/accessd/internal/clients/directory"
	"github.com/granohq/accessd/internal/repository"
	"github.com/granohq/accessd/internal/service"
	"github.com/granohq/accessd/internal/token"
	"github.com/granohq/accessd/pkg/broker"
	"github.com/granohq/accessd/pkg/config"
	"github.com/granohq/accessd/pkg/logger"
	"github.com/granohq/accessd/pkg/postgres"
)

const (
	ReadTimeout       = 3 * time.Second
	WriteTimeout      = 2 * time.Second
	IdleTimeout       = 60 * time.Second
	ReadHeaderTimeout = 1 * time.Second
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.New(".env")
	panicOnErr("load config", err)

	l := logger.New(logger.ParseLevel(cfg.LogLevel))
	slog.SetDefault(l)

	pool, err := postgres.ConnectToPostgres(ctx, cfg.PostgresDSN, cfg.PostgresMaxConns)
	panicOnErr("connect to postgres", err)

	defer pool.Close()

	err = postgres.UpMigrations(cfg.PostgresDSN)
	panicOnErr("up migrations", err)

	signer, err := token.NewSigner(cfg.JWT)
	panicOnErr("create signer", err)

	userRepo := repository.NewUserRepository(pool)

	var reader authz.DirectoryReader
	if cfg.Directory.ServiceURL != "" {
		reader = directory.NewClient(cfg.Directory)
		l.Info("using remote directory", "url", cfg.Directory.ServiceURL)
	} else {
		reader = repository.NewDirectoryRepository(pool)
	}

	producer := broker.NewProducer(l, cfg.KafkaBrokers, cfg.KafkaSecurityTopic)
	defer producer.Close()

	engine := authz.NewEngine(signer, reader)
	s := service.NewService(userRepo, signer, producer)

	h := api.NewHandler(s)
	mw := api.NewMiddleware(engine, producer)
	router := api.NewRouter(h, mw)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadTimeout:       ReadTimeout,
		WriteTimeout:      WriteTimeout,
		IdleTimeout:       IdleTimeout,
		ReadHeaderTimeout: ReadHeaderTimeout,
	}

	var wg sync.WaitGroup

	wg.Add(1)

	go func() {
		defer wg.Done()

		l.Info("http server started", "port", cfg.HTTPPort, "tls", cfg.ServerCert != "")

		var err error
		if cfg.ServerCert != "" && cfg.ServerKey != "" {
			err = server.ListenAndServeTLS(cfg.ServerCert, cfg.ServerKey)
		} else {
			err = server.ListenAndServe()
		}

		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Panicf("listen and serve: %s", err)
		}

		l.Debug("http server stopped")
	}()

	waitSignal(l, cancel, server)
	wg.Wait()
}

func waitSignal(l *slog.Logger, cancel context.CancelFunc, server *http.Server) {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGTERM, syscall.SIGINT, syscall.SIGQUIT)
	sig := <-ch

	l.Info("got OS signal", "signal", sig.String())

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), time.Second)
	defer shutdownCancel()

	err := server.Shutdown(shutdownCtx)
	if err != nil {
		l.Error("server shutdown", "error", err)
	}
}

func panicOnErr(msg string, err error) {
	if err != nil {
		log.Panicf("%s: %s", msg, err)
	}
}
