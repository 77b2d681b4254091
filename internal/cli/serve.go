package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/voyago/voyago/internal/config"
	"github.com/voyago/voyago/internal/logger"
	"github.com/voyago/voyago/internal/metrics"
	"github.com/voyago/voyago/pkg/chat"
	"github.com/voyago/voyago/pkg/gateway"
	"github.com/voyago/voyago/pkg/ledger"
	"github.com/voyago/voyago/pkg/session"
	"github.com/voyago/voyago/pkg/tools"
	"github.com/voyago/voyago/pkg/travel"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the chat gateway",
	Long: `Start the WebSocket chat gateway. The process runs until it receives
SIGINT or SIGTERM, then shuts down gracefully.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	loader := config.NewLoader(cfgFile)
	cfg, err := loader.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	appLogger, err := logger.New(logger.Config{
		Level:     cfg.Logging.Level,
		File:      cfg.Logging.File,
		Console:   cfg.Logging.Console,
		Pretty:    cfg.Logging.Pretty,
		Redaction: cfg.Logging.Redaction,
	})
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer appLogger.Close()
	log := appLogger.GetZerolog()

	log.Info().Str("version", version).Msg("Starting voyago")

	m := metrics.New()

	travelClient, err := travel.NewClient(travel.Config{
		ClientID:     cfg.Amadeus.ClientID,
		ClientSecret: cfg.Amadeus.ClientSecret,
		BaseURL:      cfg.Amadeus.BaseURL,
		Timeout:      cfg.Amadeus.TimeoutDuration(),
		Logger:       log.With().Str("component", "travel").Logger(),
	})
	if err != nil {
		return fmt.Errorf("init travel client: %w", err)
	}

	var recorder tools.BookingRecorder
	if cfg.Ledger.Enabled {
		book, err := ledger.Open(cfg.Ledger.Path, log.With().Str("component", "ledger").Logger())
		if err != nil {
			return fmt.Errorf("open booking ledger: %w", err)
		}
		defer book.Close()
		recorder = book
	}

	registry, err := tools.NewRegistry(tools.Config{
		API: travelClient,
		Payment: travel.Payment{
			Method:     cfg.Payment.Method,
			VendorCode: cfg.Payment.VendorCode,
			CardNumber: cfg.Payment.CardNumber,
			Expiry:     cfg.Payment.Expiry,
			HolderName: cfg.Payment.HolderName,
		},
		Recorder: recorder,
		Metrics:  m,
		Logger:   log.With().Str("component", "tools").Logger(),
	})
	if err != nil {
		return fmt.Errorf("init tool registry: %w", err)
	}

	provider, err := chat.NewProvider(cfg.Chat.Provider, providerAPIKey(cfg.Chat.Provider))
	if err != nil {
		return fmt.Errorf("init model provider: %w", err)
	}

	engine, err := chat.NewEngine(chat.EngineConfig{
		Provider:     provider,
		Model:        cfg.Chat.Model,
		Temperature:  cfg.Chat.Temperature,
		MaxTokens:    cfg.Chat.MaxTokens,
		SystemPrompt: cfg.Chat.SystemPrompt,
		MaxRounds:    cfg.Chat.MaxRounds,
		Logger:       log.With().Str("component", "chat").Logger(),
	})
	if err != nil {
		return fmt.Errorf("init chat engine: %w", err)
	}

	sessions := session.NewManager(session.ManagerConfig{
		HotelBatchSize: cfg.Hotels.BatchSize,
		Metrics:        m,
		Logger:         log.With().Str("component", "session").Logger(),
	})

	reaper := session.NewReaper(sessions, cfg.Sessions.MaxIdle(), log.With().Str("component", "reaper").Logger())
	if err := reaper.Start(); err != nil {
		return fmt.Errorf("start session reaper: %w", err)
	}
	defer reaper.Stop()

	server, err := gateway.NewServer(gateway.Config{
		Port:     cfg.Server.Port,
		Engine:   engine,
		Registry: registry,
		Sessions: sessions,
		Metrics:  m,
		Logger:   log.With().Str("component", "gateway").Logger(),
	})
	if err != nil {
		return fmt.Errorf("init gateway: %w", err)
	}

	if err := server.Start(); err != nil {
		return fmt.Errorf("start gateway: %w", err)
	}

	// Watch the config file so logging tweaks apply without a restart.
	// Structural settings (port, provider, credentials) need a restart.
	watcher, err := config.Watch(loader, log.With().Str("component", "config").Logger(), func(next *config.Config) {
		log.Info().Str("level", next.Logging.Level).Msg("Applying reloaded logging level")
	})
	if err != nil {
		log.Warn().Err(err).Msg("Config watching disabled")
	} else {
		defer watcher.Close()
	}

	waitForShutdown := make(chan os.Signal, 1)
	signal.Notify(waitForShutdown, syscall.SIGINT, syscall.SIGTERM)
	sig := <-waitForShutdown

	log.Info().Str("signal", sig.String()).Msg("Shutting down")
	return server.Stop()
}

// providerAPIKey returns the conventional environment credential for a
// model provider.
func providerAPIKey(provider string) string {
	switch provider {
	case "anthropic":
		return os.Getenv("ANTHROPIC_API_KEY")
	default:
		return os.Getenv("OPENAI_API_KEY")
	}
}
