package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/jessevdk/go-flags"

	"github.com/appellation/chess/clients"
	amqpsource "github.com/appellation/chess/clients/amqp"
	discordclient "github.com/appellation/chess/clients/discord"
	gameclient "github.com/appellation/chess/clients/game"
	"github.com/appellation/chess/clients/redisstream"
	"github.com/appellation/chess/config"
	"github.com/appellation/chess/core/log"
	"github.com/appellation/chess/handlers"
	"github.com/appellation/chess/middleware"
	"github.com/appellation/chess/services/commands"
	"github.com/appellation/chess/services/formatter"
	"github.com/appellation/chess/services/replies"
	discordusecase "github.com/appellation/chess/usecases/discord"
)

const shutdownTimeout = 5 * time.Second

type Options struct {
	EnvFile  string `long:"env-file" default:".env" description:"Path to a .env file loaded before reading the environment"`
	LogLevel string `long:"log-level" description:"Override LOG_LEVEL (debug, info, warn, error)"`
}

func main() {
	var opts Options
	parser := flags.NewParser(&opts, flags.Default)

	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := run(opts); err != nil {
		log.Error("❌ Fatal error: %v", err)
		os.Exit(1)
	}
}

func run(opts Options) error {
	cfg, err := config.LoadConfig(opts.EnvFile)
	if err != nil {
		return err
	}

	logLevel := cfg.LogLevel
	if opts.LogLevel != "" {
		logLevel = opts.LogLevel
	}
	if err := log.Setup(cfg.Environment, logLevel); err != nil {
		return err
	}

	// Initialize error alert middleware
	alertMiddleware := middleware.NewErrorAlertMiddleware(middleware.SlackAlertConfig{
		WebhookURL:  cfg.AlertWebhookURL,
		Environment: cfg.Environment,
		AppName:     "chess-bot",
		LogsURL:     cfg.ServerLogsURL,
	})

	eventSource, err := newEventSource(cfg.BrokerConfig)
	if err != nil {
		return err
	}

	httpClient := &http.Client{Timeout: 30 * time.Second}
	discordClient, err := discordclient.NewDiscordClient(httpClient, cfg.DiscordConfig.BotToken)
	if err != nil {
		return err
	}
	gameClient := gameclient.NewClient(httpClient, cfg.GameConfig.APIURL)

	router := commands.NewRouter()
	commands.RegisterDefaults(router, commands.NewGameCommands(
		gameClient,
		formatter.NewFormatter(cfg.GameConfig.BoardsURL),
		cfg.GameConfig.CommandPrefix,
	))
	discordUseCase := discordusecase.NewDiscordUseCase(
		router,
		replies.NewDispatcher(discordClient),
		cfg.GameConfig.CommandPrefix,
	)
	eventsHandler := handlers.NewDiscordEventsHandler(
		cfg.BrokerConfig,
		cfg.WorkerPoolSize,
		discordUseCase,
		alertMiddleware,
	)

	statusRouter := mux.NewRouter()
	handlers.SetupStatusEndpoints(statusRouter)
	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           alertMiddleware.HTTPMiddleware(statusRouter),
		ReadHeaderTimeout: 30 * time.Second,
	}

	return serve(cfg.BrokerConfig, eventSource, eventsHandler, server, alertMiddleware)
}

func newEventSource(brokerConfig config.BrokerConfig) (clients.EventSource, error) {
	if brokerConfig.IsRedis() {
		return redisstream.NewEventSource(brokerConfig.URL, brokerConfig.Group, brokerConfig.ReconnectInterval)
	}
	return amqpsource.NewEventSource(brokerConfig.URL, brokerConfig.Group, brokerConfig.ReconnectInterval), nil
}

// serve consumes events until SIGINT/SIGTERM, then stops consuming, drains queued events and
// shuts the status server down
func serve(
	brokerConfig config.BrokerConfig,
	eventSource clients.EventSource,
	eventsHandler *handlers.DiscordEventsHandler,
	server *http.Server,
	alertMiddleware *middleware.ErrorAlertMiddleware,
) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Info("✅ Listening on http://localhost%s", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("❌ Server error: %v", err)
		}
	}()

	subscribeErr := make(chan error, 1)
	go func() {
		subscribeErr <- eventSource.Subscribe(ctx, brokerConfig.Events(), eventsHandler.HandleEvent)
	}()
	log.Info("🤖 Chess bot is ready and consuming %v", brokerConfig.Events())

	var runErr error
	select {
	case <-ctx.Done():
		log.Info("🛑 Shutdown signal received, cleaning up...")
		runErr = <-subscribeErr
	case runErr = <-subscribeErr:
		log.Error("❌ Event source stopped: %v", runErr)
		stop()
	}

	if err := eventSource.Close(); err != nil {
		log.Warn("⚠️ Failed to close event source: %v", err)
	}
	eventsHandler.Stop()
	alertMiddleware.Wait()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("❌ Server shutdown error: %v", err)
		return err
	}

	log.Info("✅ Chess bot stopped gracefully")
	return runErr
}
