// Package main boots the storefront HTTP server.
package main

import (
	"context"
	"errors"
	"fmt"
	stdslog "log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/unkn0wn-root/storefront"
	"github.com/unkn0wn-root/storefront/catalog"
	"github.com/unkn0wn-root/storefront/catalog/memory"
	"github.com/unkn0wn-root/storefront/catalog/postgres"
	"github.com/unkn0wn-root/storefront/codec"
	"github.com/unkn0wn-root/storefront/genstore"
	asynchook "github.com/unkn0wn-root/storefront/hooks/async"
	"github.com/unkn0wn-root/storefront/internal/config"
	"github.com/unkn0wn-root/storefront/internal/httpapi"
	logruslog "github.com/unkn0wn-root/storefront/log/logrus"
	sloglog "github.com/unkn0wn-root/storefront/log/slog"
	zaplog "github.com/unkn0wn-root/storefront/log/zap"
	"github.com/unkn0wn-root/storefront/provider"
	bcprov "github.com/unkn0wn-root/storefront/provider/bigcache"
	redisprov "github.com/unkn0wn-root/storefront/provider/redis"
	rprov "github.com/unkn0wn-root/storefront/provider/ristretto"
	"github.com/unkn0wn-root/storefront/sloghooks"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "storefront:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	zl, err := newZap(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer func() { _ = zl.Sync() }()
	sl := newSlog(cfg.LogLevel)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cat, err := openCatalog(ctx, cfg)
	if err != nil {
		return err
	}
	defer cat.Close()

	prov, err := openProvider(ctx, cfg)
	if err != nil {
		return err
	}

	var gs genstore.GenStore
	if cfg.GenStore == "redis" {
		// Validate guarantees the provider is redis here
		gs = genstore.NewRedisGenStore(prov.(*redisprov.Redis).Client(), cfg.CacheNamespace, cfg.GenStoreTTL)
	}

	hooks := asynchook.New(sloghooks.New(sl, sloghooks.Options{SelfHealEvery: 10, ReadFailEvery: 10}), 1, 1000)
	defer hooks.Close()

	featured, err := storefront.New(storefront.Options{
		Namespace:        cfg.CacheNamespace,
		Catalog:          cat,
		Provider:         prov,
		Codec:            snapshotCodec(cfg.CacheCodec),
		Logger:           coreLogger(cfg, zl, sl),
		Hooks:            hooks,
		GenStore:         gs,
		TTL:              cfg.CacheTTL,
		MaxSnapshotBytes: cfg.MaxSnapshotBytes,
		Disabled:         cfg.CacheDisabled,
		RefreshOnDelete:  cfg.RefreshOnDelete,
	})
	if err != nil {
		_ = prov.Close(ctx)
		return err
	}
	defer func() { _ = featured.Close(context.Background()) }()

	if cfg.WarmOnStart {
		if err := featured.Refresh(ctx); err != nil {
			zl.Warn("featured warm-up failed", zap.Error(err))
		}
	}

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           httpapi.NewRouter(httpapi.NewHandler(cat, featured, zl)),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		zl.Info("http_listen",
			zap.String("addr", cfg.HTTPAddr),
			zap.String("catalog", cfg.CatalogDriver),
			zap.String("cache", cfg.CacheProvider),
			zap.String("codec", cfg.CacheCodec),
			zap.Bool("cache_enabled", featured.Enabled()),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	select {
	case s := <-sigc:
		zl.Info("shutdown_signal", zap.String("signal", s.String()))
	case err := <-errc:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
	}

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancelShutdown()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zl.Error("http_shutdown_error", zap.Error(err))
	}
	zl.Info("shutdown_complete", zap.Uint64("hooks_dropped", hooks.Dropped()))
	return nil
}

func openCatalog(ctx context.Context, cfg config.Config) (catalog.Store, error) {
	if cfg.CatalogDriver == "memory" {
		return memory.New(), nil
	}
	st, err := postgres.Open(ctx, postgres.Config{
		DSN:             cfg.DatabaseURL,
		MaxOpenConns:    cfg.DBMaxOpenConns,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		ConnMaxLifetime: 30 * time.Minute,
	})
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	if err := st.Migrate(ctx); err != nil {
		_ = st.Close()
		return nil, fmt.Errorf("migrate catalog: %w", err)
	}
	return st, nil
}

func openProvider(ctx context.Context, cfg config.Config) (provider.Provider, error) {
	switch cfg.CacheProvider {
	case "redis":
		return redisprov.Dial(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	case "bigcache":
		life := cfg.CacheTTL
		if life <= 0 {
			life = 24 * time.Hour
		}
		return bcprov.New(ctx, bcprov.SnapshotConfig(life))
	default:
		return rprov.New(rprov.DefaultConfig())
	}
}

func snapshotCodec(name string) codec.Codec[[]catalog.Product] {
	switch name {
	case "msgpack":
		return codec.Msgpack[[]catalog.Product]{}
	case "cbor":
		return codec.MustCBOR[[]catalog.Product](true)
	case "proto":
		return codec.ProductsProto{}
	default:
		return codec.JSON[[]catalog.Product]{}
	}
}

func coreLogger(cfg config.Config, zl *zap.Logger, sl *stdslog.Logger) storefront.Logger {
	switch cfg.LogBackend {
	case "logrus":
		lg := logrus.New()
		if lvl, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
			lg.SetLevel(lvl)
		}
		lg.SetFormatter(&logrus.JSONFormatter{})
		return logruslog.LogrusLogger{E: logrus.NewEntry(lg).WithField("component", "featured")}
	case "slog":
		return sloglog.Logger{L: sl.With("component", "featured")}
	default:
		return zaplog.ZapLogger{L: zl.Named("featured")}
	}
}

func newZap(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}
	zc := zap.NewProductionConfig()
	zc.Level = zap.NewAtomicLevelAt(lvl)
	return zc.Build()
}

func newSlog(level string) *stdslog.Logger {
	var lvl stdslog.Level
	_ = lvl.UnmarshalText([]byte(level))
	return stdslog.New(stdslog.NewJSONHandler(os.Stdout, &stdslog.HandlerOptions{Level: lvl}))
}
