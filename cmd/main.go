package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	"agrisense/internal/config"
	"agrisense/internal/logger"
	"agrisense/internal/repository"
	"agrisense/internal/repository/db"
	"agrisense/internal/service"
	"agrisense/internal/weather"

	"github.com/spf13/cobra"
)

// @title        AgriSense Irrigation API
// @version      1.0
// @description  Smart irrigation dashboard: sensor telemetry, pump control, schedule, advisory, weather and farming assistant.
// @BasePath     /

var configPath string

var rootCmd = &cobra.Command{
	Use:   "agrisense",
	Short: "AgriSense - smart irrigation dashboard",
	Long: `AgriSense mirrors a field irrigation controller through a realtime store,
drives its pump relay, and serves the dashboard API, advisory and assistant.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file (default configs/config.yml)")
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig reads the config selected by --config.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("error reading config: %w", err)
	}
	return cfg, nil
}

// openStore builds the store backend named by store.driver. The returned
// function releases it.
func openStore(cfg *config.Config, log *logger.Logger) (repository.Store, func(), error) {
	switch cfg.Store.Driver {
	case config.DriverFirebase:
		store := repository.NewFirebaseStore(repository.FirebaseConfig{
			URL:  cfg.Store.FirebaseURL,
			Auth: cfg.Store.FirebaseAuth,
		}, log.Named("firebase"))
		return store, func() { _ = store.Close() }, nil
	default:
		sqlDB, err := openDB(cfg, log)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to init sqlite: %w", err)
		}
		store := repository.NewSQLiteStore(sqlDB)
		closeFn := func() {
			_ = store.Close()
			if cerr := sqlDB.Close(); cerr != nil {
				log.Errorw("failed to close sqlite", "err", cerr)
			}
		}
		return store, closeFn, nil
	}
}

// openRepository opens the store and binds it to the device root.
func openRepository(cfg *config.Config, log *logger.Logger) (*repository.Repository, func(), error) {
	store, closeFn, err := openStore(cfg, log)
	if err != nil {
		return nil, nil, err
	}
	return repository.NewRepository(store, cfg.Store.Root, log.Named("state")), closeFn, nil
}

// newWeatherClient builds the forecast client from config.
func newWeatherClient(cfg *config.Config) *weather.Client {
	return weather.NewClient(weather.Config{
		BaseURL: cfg.Weather.BaseURL,
		APIKey:  cfg.Weather.APIKey,
		Lat:     cfg.Weather.Lat,
		Lon:     cfg.Weather.Lon,
		Timeout: cfg.Weather.Timeout,
	})
}

// withServices runs fn against a service graph without its background loops,
// for one-shot commands.
func withServices(cmd *cobra.Command, fn func(ctx context.Context, cfg *config.Config, services *service.Service) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log := logger.Nop()

	repos, closeFn, err := openRepository(cfg, log)
	if err != nil {
		return err
	}
	defer closeFn()

	services := service.NewService(repos, service.Deps{
		Forecaster:  newWeatherClient(cfg),
		SettleDelay: cfg.Relay.SettleDelay,
	}, log)
	defer services.Close()

	ctx := cmd.Context()
	if err := services.Prime(ctx); err != nil {
		return err
	}
	return fn(ctx, cfg, services)
}

// openDB initializes the SQLite database using configuration.
func openDB(cfg *config.Config, log *logger.Logger) (*sql.DB, error) {
	path := cfg.Store.SQLitePath
	if path == "" {
		log.Infow("store.sqlite.path not set in config; using default file", "default", "agrisense.db")
		path = "agrisense.db"
	}
	return db.InitDB(path)
}
