package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/citizenwallet/brussels-pay-wallet/internal/app/background"
	"github.com/citizenwallet/brussels-pay-wallet/internal/app/setup"
	"github.com/citizenwallet/brussels-pay-wallet/internal/config"
	"github.com/citizenwallet/brussels-pay-wallet/internal/delivery/grpcapi"
	"github.com/citizenwallet/brussels-pay-wallet/internal/delivery/http/handlers"
	"github.com/citizenwallet/brussels-pay-wallet/internal/delivery/ws"
	"github.com/citizenwallet/brussels-pay-wallet/internal/infrastructure/logger"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/automaxprocs/maxprocs"
	"golang.org/x/sync/errgroup"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("failed to load .env")
	}
	// Reading config
	cfg := config.MustLoad()

	l := logger.New(cfg.LogConfig, os.Stdout)
	slog.SetDefault(l)
	if _, err := maxprocs.Set(maxprocs.Logger(func(format string, args ...any) {
		l.Info(fmt.Sprintf(format, args...))
	})); err != nil {
		l.Error("failed to set GOMAXPROCS", "error", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	deps, err := setup.InitializeDependencies(ctx, cfg, reg, l)
	if err != nil {
		log.Fatalf("failed to init dependencies: %v", err)
	}
	defer deps.Close()

	uc, err := setup.InitializeUseCases(ctx, deps, l)
	if err != nil {
		log.Fatalf("failed to init usecases: %v", err)
	}
	defer uc.Sessions.CloseAll()

	// HTTP
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(l))
	handlers.NewHandler(uc.Sessions, uc.AccountUsecase, uc.PreferenceUsecase, uc.OrderLookup, uc.TransactionLookup, l).RegisterRoutes(router)
	ws.NewStreamHandler(uc.Sessions, l).RegisterRoutes(router)
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	httpServer := &http.Server{
		Addr:              net.JoinHostPort(cfg.HTTPServer.Host, cfg.HTTPServer.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// gRPC health
	grpcServer := grpcapi.NewServer(l)
	lis, err := net.Listen("tcp", net.JoinHostPort(cfg.GRPCServer.Host, cfg.GRPCServer.Port))
	if err != nil {
		log.Fatalf("failed to listen: %v", err)
	}

	tasks := background.NewBackgroundTasks(uc.Sessions, cfg.Sync.JanitorPeriod, l)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		l.Info("HTTP server started", "addr", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http serve: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		return grpcServer.Serve(lis)
	})
	g.Go(func() error {
		return tasks.Run(gctx)
	})
	g.Go(func() error {
		<-gctx.Done()
		grpcServer.SetServing(false)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		err := httpServer.Shutdown(shutdownCtx)
		grpcServer.Stop()
		return err
	})
	grpcServer.SetServing(true)

	if err := g.Wait(); err != nil {
		l.Error("wallet service stopped", "error", err)
		return
	}
	l.Info("wallet service stopped")
}

func requestLogger(l *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		l.Debug("request",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"duration", time.Since(start))
	}
}
