package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/eion/userconsole/internal/config"
	"github.com/eion/userconsole/internal/console"
)

const shutdownTimeout = 30 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the users page",
	Long:  "Fetches the user list in the background and serves a page that shows it and accepts new users.",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	as, err := newAppState()
	if err != nil {
		return err
	}
	defer as.Logger.Sync() //nolint:errcheck

	cs, err := console.NewConsoleService(as.Controller, as.Logger, as.Config)
	if err != nil {
		return err
	}

	// in-flight users requests are cancelled on shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go as.Controller.Initialize(ctx)

	router := setupRouter(cs)
	addr := config.Http().Addr()

	server := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	done := setupSignalHandler(server, cancel, as.Logger)

	as.Logger.Info("Starting user console", zap.String("address", addr))

	err = server.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		as.Logger.Error("Failed to start server", zap.Error(err))
		return err
	}

	<-done
	as.Logger.Info("Server shutdown complete")
	return nil
}

func setupRouter(cs *console.ConsoleService) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	router.Use(cors.Default())
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	cs.SetupRoutes(router)
	return router
}

func setupSignalHandler(server *http.Server, cancel context.CancelFunc, logger *zap.Logger) chan struct{} {
	done := make(chan struct{}, 1)

	signalCh := make(chan os.Signal, 1)
	signal.Notify(signalCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-signalCh

		logger.Info("Shutting down server...")

		ctx, stop := context.WithTimeout(context.Background(), shutdownTimeout)
		defer stop()

		if err := server.Shutdown(ctx); err != nil {
			logger.Error("Error during server shutdown", zap.Error(err))
		}
		cancel()

		done <- struct{}{}
	}()

	return done
}
