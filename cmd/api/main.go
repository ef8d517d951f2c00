package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/awslabs/aws-lambda-go-api-proxy/httpadapter"

	"github.com/saulo-duarte/quizzical/internal/config"
	"github.com/saulo-duarte/quizzical/internal/container"
	"github.com/saulo-duarte/quizzical/internal/router"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	c, err := container.New(ctx)
	if err != nil {
		config.Log.WithError(err).Fatal("Failed to initialize application")
	}
	defer c.Close()

	handler := router.New(c.RouterConfig())

	if os.Getenv("AWS_LAMBDA_FUNCTION_NAME") != "" {
		config.Log.Info("Starting Lambda handler")
		lambda.StartWithOptions(httpadapter.NewV2(handler).ProxyWithContext, lambda.WithContext(ctx))
		return
	}

	srv := &http.Server{
		Addr:              c.Config.HTTPAddr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		config.Log.WithField("addr", srv.Addr).Info("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			config.Log.WithError(err).Fatal("HTTP server failed")
		}
	}()

	<-ctx.Done()
	config.Log.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		config.Log.WithError(err).Error("Graceful shutdown failed")
	}
}
