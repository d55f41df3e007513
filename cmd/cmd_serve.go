package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"agrisense/internal/config"
	"agrisense/internal/genai"
	"agrisense/internal/handlers"
	"agrisense/internal/logger"
	"agrisense/internal/notify"
	"agrisense/internal/server"
	"agrisense/internal/service"

	_ "agrisense/docs"

	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the dashboard server",
	Long: `Start the HTTP/WebSocket dashboard server, the store subscriptions,
the weather poller and, on the SQLite backend, the bench device simulator.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	// init logger
	log := logger.Get(cfg.LogLevel)

	repos, closeStore, err := openRepository(cfg, log)
	if err != nil {
		return err
	}
	defer closeStore()

	// wire dependencies
	deps := service.Deps{
		Forecaster: newWeatherClient(cfg),
		Generator: genai.NewClient(genai.Config{
			BaseURL:         cfg.Assistant.BaseURL,
			APIKey:          cfg.Assistant.APIKey,
			Model:           cfg.Assistant.Model,
			MaxOutputTokens: cfg.Assistant.MaxOutputTokens,
			Timeout:         cfg.Assistant.Timeout,
		}),
		Speaker:     service.LookupSpeaker(cfg.Speech.Command),
		SettleDelay: cfg.Relay.SettleDelay,
	}
	if deps.Speaker == nil {
		log.Infow("speech synthesis unavailable", "command", cfg.Speech.Command)
	}

	if cfg.MQTT.Enabled {
		publisher, closeMQTT, err := notify.Connect(notify.Config{
			Broker:   cfg.MQTT.Broker,
			ClientID: cfg.MQTT.ClientID,
			Topic:    cfg.MQTT.Topic,
		}, log.Named("mqtt"))
		if err != nil {
			log.Errorw("mqtt disabled", "err", err)
		} else {
			defer closeMQTT()
			deps.Sinks = append(deps.Sinks, publisher)
		}
	}

	services := service.NewService(repos, deps, log)
	apiHandler := handlers.NewHandler(services, log.Named("http"))
	apiHandler.SetPushInterval(cfg.Dashboard.PushInterval)

	// context for background goroutines
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	wait := services.Start(ctx, cfg.Weather.Interval)
	if _, err := services.Scheduling.Load(ctx); err != nil {
		log.Warnw("initial schedule load failed", "err", err)
	}

	// start simulator (via composed service)
	if cfg.Simulator.Enabled {
		if cfg.Store.Driver == config.DriverSQLite {
			go services.Simulator.Run(ctx, cfg.Simulator.Tick)
		} else {
			log.Warnw("simulator runs only on the sqlite store; skipping", "driver", cfg.Store.Driver)
		}
	}

	// start HTTP server
	srv := &server.Server{}
	if err := runHTTPServer(srv, cfg.Port, apiHandler, log); err != nil {
		cancel()
		wait()
		return err
	}
	log.Infow("agrisense started", "addr", srv.Addr(), "store", cfg.Store.Driver, "root", cfg.Store.Root)

	// graceful shutdown
	waitForShutdown(cancel, srv, log)
	wait()
	return nil
}

// runHTTPServer binds the port, then serves in a separate goroutine.
func runHTTPServer(srv *server.Server, port string, handler *handlers.Handler, log *logger.Logger) error {
	if err := srv.Listen(port, handler.InitRoutes()); err != nil {
		return err
	}
	go func() {
		if err := srv.Serve(); err != nil {
			log.Fatalw("error serving http", "err", err)
		}
	}()
	return nil
}

// waitForShutdown listens for termination signals and performs graceful shutdown.
func waitForShutdown(cancel context.CancelFunc, srv *server.Server, log *logger.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Infow("shutting down server...")

	// stop background goroutines
	cancel()

	// allow in-flight requests to complete
	ctx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Errorw("server forced to shutdown", "err", err)
	}
}
