package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/joseph-ayodele/poster-outreach/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API and the gRPC health endpoint",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate(); err != nil {
			return err
		}
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		a, err := buildApp(ctx, cfg, logger)
		if err != nil {
			return err
		}
		defer a.Close()

		router := server.NewRouter(server.Options{
			Processor:      a.processor,
			Templates:      a.registry,
			Sender:         a.sender,
			Records:        a.recorder,
			Provider:       a.completer.Name(),
			MaxUploadBytes: cfg.Server.MaxUploadBytes,
			Logger:         logger,
		})
		httpSrv := &http.Server{
			Addr:         cfg.Server.HTTPAddr,
			Handler:      router,
			ReadTimeout:  cfg.Server.ReadTimeout,
			WriteTimeout: cfg.Server.WriteTimeout,
			IdleTimeout:  cfg.Server.IdleTimeout,
		}

		grpcSrv, hs := server.NewGRPCServer(logger)
		lis, err := net.Listen("tcp", cfg.Server.GRPCAddr)
		if err != nil {
			return err
		}

		errCh := make(chan error, 2)
		go func() {
			logger.Info("posterd.http.listening", "addr", cfg.Server.HTTPAddr, "store", a.backend.Name(), "provider", a.completer.Name())
			if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
		}()
		go func() {
			logger.Info("posterd.grpc.listening", "addr", cfg.Server.GRPCAddr)
			if err := grpcSrv.Serve(lis); err != nil {
				errCh <- err
			}
		}()

		select {
		case <-ctx.Done():
			logger.Info("posterd.shutdown")
		case err = <-errCh:
			logger.Error("posterd.serve.failed", "error", err)
		}

		hs.SetServingStatus("", healthpb.HealthCheckResponse_NOT_SERVING)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if serr := httpSrv.Shutdown(shutdownCtx); serr != nil {
			logger.Warn("posterd.http.shutdown_failed", "error", serr)
		}
		grpcSrv.GracefulStop()
		return err
	},
}
