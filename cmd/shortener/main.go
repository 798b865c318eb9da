package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/acme/autocert"
	"golang.org/x/sync/errgroup"

	"github.com/atinyakov/url-resolver/internal/app/server"
	grpcserver "github.com/atinyakov/url-resolver/internal/app/server/grpc"
	"github.com/atinyakov/url-resolver/internal/app/service"
	"github.com/atinyakov/url-resolver/internal/cache"
	"github.com/atinyakov/url-resolver/internal/config"
	"github.com/atinyakov/url-resolver/internal/logger"
	"github.com/atinyakov/url-resolver/internal/repository"
	"github.com/atinyakov/url-resolver/internal/shortcode"
	"github.com/atinyakov/url-resolver/internal/storage"

	_ "net/http/pprof"
)

var buildVersion string
var buildDate string
var buildCommit string

const shutdownTimeout = 10 * time.Second

func main() {
	options, err := config.Parse()
	if err != nil {
		panic(err)
	}

	fmt.Printf("Build version: %s\n", orNA(buildVersion))
	fmt.Printf("Build date: %s\n", orNA(buildDate))
	fmt.Printf("Build commit: %s\n", orNA(buildCommit))

	log := logger.New()
	if err := log.Init(options.LogLevel); err != nil {
		panic(err)
	}
	defer func() {
		_ = log.Sync()
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, options, log.Log); err != nil {
		stop()
		log.Log.Fatal("server stopped with error", zap.Error(err))
	}
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

// newStorage picks the mapping store: PostgreSQL when a DSN is set, then the
// file journal, then plain memory. The returned func releases the store.
func newStorage(ctx context.Context, options *config.Options, zapLogger *zap.Logger) (service.Storage, func() error, error) {
	switch {
	case options.DatabaseDSN != "":
		zapLogger.Info("using db")
		db, err := repository.InitDB(ctx, options.DatabaseDSN, zapLogger)
		if err != nil {
			return nil, nil, err
		}
		zapLogger.Info("Database connected and tables ready.")
		return repository.CreateURLRepository(db, zapLogger), db.Close, nil
	case options.FilePath != "":
		zapLogger.Info("using file", zap.String("filePath", options.FilePath))
		fs, err := storage.NewFileStorage(options.FilePath, zapLogger)
		if err != nil {
			return nil, nil, err
		}
		return fs, fs.Close, nil
	default:
		zapLogger.Info("using in memory storage")
		ms, err := storage.CreateMemoryStorage()
		if err != nil {
			return nil, nil, err
		}
		return ms, func() error { return nil }, nil
	}
}

// newService assembles the resolution service, attaching the Redis cache
// when configured.
func newService(ctx context.Context, options *config.Options, s service.Storage, zapLogger *zap.Logger) (*service.URLService, func() error, error) {
	var opts []service.Option
	closeCache := func() error { return nil }

	if options.RedisAddr != "" {
		c, err := cache.NewRedisCache(ctx, options.RedisAddr, cache.DefaultTTL)
		if err != nil {
			return nil, nil, err
		}
		zapLogger.Info("using redis cache", zap.String("addr", options.RedisAddr))
		opts = append(opts, service.WithCache(c))
		closeCache = c.Close
	}

	return service.NewURL(s, shortcode.NewGenerator(), zapLogger, opts...), closeCache, nil
}

func run(ctx context.Context, options *config.Options, zapLogger *zap.Logger) error {
	if options.EnablePprof {
		go func() {
			zapLogger.Info("Starting pprof server", zap.String("addr", "localhost:6060"))
			if err := http.ListenAndServe("localhost:6060", nil); err != nil {
				zapLogger.Error("pprof server error", zap.Error(err))
			}
		}()
	}

	s, closeStorage, err := newStorage(ctx, options, zapLogger)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeStorage(); err != nil {
			zapLogger.Error("close storage", zap.Error(err))
		}
	}()

	urlService, closeCache, err := newService(ctx, options, s, zapLogger)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeCache(); err != nil {
			zapLogger.Error("close cache", zap.Error(err))
		}
	}()

	r := server.Init(zapLogger, urlService)
	srv := &http.Server{
		Addr:    options.Port,
		Handler: r,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		if options.EnableHTTPS {
			manager := &autocert.Manager{
				Cache:      autocert.DirCache("cache-dir"),
				Prompt:     autocert.AcceptTOS,
				HostPolicy: autocert.HostWhitelist(options.TLSHosts...),
			}
			srv.Addr = ":443"
			srv.TLSConfig = manager.TLSConfig()
			zapLogger.Info("Server is running with TLS", zap.Strings("hosts", options.TLSHosts))
			err = srv.ListenAndServeTLS("", "")
		} else {
			zapLogger.Info("Server is running", zap.String("hostname", options.Port))
			err = srv.ListenAndServe()
		}
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	})

	var grpcSrv *grpcserver.Server
	if options.GRPCPort != 0 {
		grpcSrv = grpcserver.New(zapLogger, urlService, options.GRPCPort)
		g.Go(grpcSrv.Start)
	}

	g.Go(func() error {
		<-gctx.Done()
		zapLogger.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if grpcSrv != nil {
			grpcSrv.GracefulStop()
		}
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
