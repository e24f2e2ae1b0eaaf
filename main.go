package main

import (
	"bitwise74/health-portal/app"
	"bitwise74/health-portal/config"
	"bitwise74/health-portal/internal"
	"bitwise74/health-portal/internal/service"
	"bitwise74/health-portal/pkg/logger"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	gin.SetMode(gin.ReleaseMode)

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load .env file, %w", err)
	}

	cfg, err := config.Setup(pflag.CommandLine, os.Args[1:])
	if err != nil {
		return err
	}

	if err := logger.Setup(cfg.LogLevel); err != nil {
		return err
	}
	defer zap.L().Sync()

	d, err := internal.NewDeps(cfg)
	if err != nil {
		return err
	}
	defer d.Close()

	cleanup, err := service.StartCleanup(cfg.Session.CleanupSchedule, d.SessionStore, d.Limiter)
	if err != nil {
		return err
	}
	defer cleanup.Stop()

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           app.NewRouter(d),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		zap.L().Info("Server starting", zap.Int("port", cfg.Port), zap.Bool("ssl", cfg.SSL.Enabled))

		var err error
		if cfg.SSL.Enabled {
			err = srv.ListenAndServeTLS(cfg.SSL.CertificatePath, cfg.SSL.CertificateKeyPath)
		} else {
			err = srv.ListenAndServe()
		}

		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server stopped, %w", err)
		}
	case <-quit:
		zap.L().Info("Shutting down server")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shut down gracefully, %w", err)
	}

	return nil
}
