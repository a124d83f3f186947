package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ricky2013dev/smithpjt-verify/internal/config"
	"github.com/ricky2013dev/smithpjt-verify/internal/httpserver"
	"github.com/ricky2013dev/smithpjt-verify/pkg/log"
)

func main() {
	logger := log.NewLogger()

	cfg := config.Load()
	srv := httpserver.New(cfg)

	server := &http.Server{
		Addr:              cfg.HTTPAddress,
		Handler:           srv.Echo,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.WithField("addr", cfg.HTTPAddress).Info("server listening")
		serverErrors <- server.ListenAndServe()
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && err != http.ErrServerClosed {
			logger.WithError(err).Fatal("server error")
		}
	case sig := <-sigChan:
		logger.WithField("signal", sig.String()).Info("shutdown signal received")
	}

	srv.Manager.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.WithError(err).Warn("graceful shutdown failed")
		_ = server.Close()
	}
}
