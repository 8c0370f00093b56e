package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ougirez/bloodbank/internal/api"
	"github.com/ougirez/bloodbank/internal/pkg/config"
	"github.com/ougirez/bloodbank/internal/pkg/constants"
	"github.com/ougirez/bloodbank/internal/pkg/logger"
	"github.com/ougirez/bloodbank/internal/pkg/metrics"
	"github.com/ougirez/bloodbank/internal/pkg/store"
	"github.com/ougirez/bloodbank/internal/pkg/store/memstore"
	"github.com/ougirez/bloodbank/internal/pkg/store/migrations"
	"github.com/ougirez/bloodbank/internal/pkg/store/xpgx"
	"github.com/ougirez/bloodbank/internal/pkg/tokens"
	"github.com/ougirez/bloodbank/internal/service/auth"
	"github.com/ougirez/bloodbank/internal/service/inventory"
	"github.com/ougirez/bloodbank/internal/service/request"
	"github.com/ougirez/bloodbank/internal/service/stats"
	"github.com/ougirez/bloodbank/internal/service/user"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/viper"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	if err := config.Init(*configPath); err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	if err := logger.Init(viper.GetString(constants.ViperLogLevel)); err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	st, closeStore, err := openStore(ctx)
	if err != nil {
		logger.Fatal(ctx, err)
	}
	defer closeStore()

	blacklist, closeBlacklist, err := openBlacklist(ctx)
	if err != nil {
		logger.Fatal(ctx, err)
	}
	defer closeBlacklist()

	m := metrics.New(prometheus.DefaultRegisterer)

	inventoryService := inventory.NewInventoryService(st, m)
	userService := user.NewUserService(st)
	services := api.Services{
		Auth: auth.NewService(st, blacklist,
			viper.GetDuration(constants.ViperAccessTokenTTL),
			viper.GetDuration(constants.ViperRefreshTokenTTL),
		),
		User:      userService,
		Inventory: inventoryService,
		Request:   request.NewRequestService(st, inventoryService, m),
		Stats:     stats.NewStatsService(st),
	}

	err = userService.EnsureAdmin(ctx,
		viper.GetString(constants.ViperAdminUsername),
		viper.GetString(constants.ViperAdminPassword),
		viper.GetString(constants.ViperAdminEmail),
	)
	if err != nil {
		logger.Fatal(ctx, err)
	}

	apiService, err := api.NewAPIService(services, prometheus.DefaultGatherer)
	if err != nil {
		logger.Fatal(ctx, err)
	}

	go apiService.Serve(viper.GetString(constants.ViperServerAddr))
	logger.Infof(ctx, "listening on %s", viper.GetString(constants.ViperServerAddr))

	<-ctx.Done()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err = apiService.Shutdown(shutdownCtx); err != nil {
		logger.Errorf(shutdownCtx, "shutdown: %v", err)
	}
}

func openStore(ctx context.Context) (store.Store, func(), error) {
	switch driver := viper.GetString(constants.ViperStorageDriver); driver {
	case constants.StorageDriverMemory:
		logger.Warnf(ctx, "using in-memory storage, data is lost on restart")
		return memstore.New(), func() {}, nil
	case constants.StorageDriverPostgres:
		dsn := viper.GetString(constants.ViperPostgresDSN)

		pool, err := xpgx.Connect(ctx, dsn)
		if err != nil {
			return nil, nil, err
		}
		if err = migrations.Up(dsn); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("migrations: %w", err)
		}

		return store.NewStore(xpgx.New(pool)), pool.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown storage driver %q", driver)
	}
}

func openBlacklist(ctx context.Context) (tokens.Blacklist, func(), error) {
	addr := viper.GetString(constants.ViperRedisAddr)
	if addr == "" {
		return tokens.NewMemory(), func() {}, nil
	}

	blacklist, err := tokens.NewRedis(ctx, addr,
		viper.GetString(constants.ViperRedisPassword),
		viper.GetInt(constants.ViperRedisDB),
	)
	if err != nil {
		return nil, nil, err
	}

	return blacklist, func() { _ = blacklist.Close() }, nil
}
