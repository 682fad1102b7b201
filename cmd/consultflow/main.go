package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/consultflow/consultflow/internal/api"
	"github.com/consultflow/consultflow/internal/flow"
	"github.com/consultflow/consultflow/internal/genai"
	"github.com/consultflow/consultflow/internal/knowledge"
	"github.com/consultflow/consultflow/internal/notify"
	"github.com/consultflow/consultflow/internal/store"
	"github.com/consultflow/consultflow/internal/util"
)

// Default configuration constants
const (
	// DefaultKnowledgeDir is the default directory for the clinic knowledge sources
	DefaultKnowledgeDir = "/var/lib/consultflow/knowledge"
	// DefaultDBPath is the default SQLite database path for the consultation archive
	DefaultDBPath = "/var/lib/consultflow/consultflow.db"
)

func main() {
	initializeLogger()

	config := loadEnvironmentConfig()
	flags := parseCommandLineFlags(config)

	apiOpts := []api.Option{api.WithAddr(*flags.apiAddr)}
	flowOpts := buildFlowOptions(flags, &apiOpts)

	orchestrator := buildOrchestrator(flags, flowOpts)

	slog.Info("Bootstrapping ConsultFlow",
		"addr", *flags.apiAddr,
		"knowledgeDir", *flags.knowledgeDir,
		"archiveEnabled", *flags.dbDSN != "",
		"configured", orchestrator != nil)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// A nil *Orchestrator must stay a nil interface so the server detects
	// configuration-error mode.
	var completer api.Completer
	if orchestrator != nil {
		completer = orchestrator
	}
	server := api.NewServer(completer, apiOpts...)
	if err := server.Run(ctx); err != nil {
		slog.Error("ConsultFlow failed to run", "error", err)
		os.Exit(1)
	}
	slog.Info("ConsultFlow exited successfully")
}

// Config holds environment configuration
type Config struct {
	OpenAIKey    string
	DatabaseDSN  string
	KnowledgeDir string
	APIAddr      string
	ClinicPhone  string
	BookingURL   string
	ClinicNotify string
}

// Flags holds command line flag values
type Flags struct {
	openaiKey    *string
	dbDSN        *string
	knowledgeDir *string
	apiAddr      *string
	clinicPhone  *string
	bookingURL   *string
	clinicNotify *string
	debug        *bool
}

// initializeLogger sets up structured logging; CONSULTFLOW_DEBUG raises the level
func initializeLogger() {
	level := slog.LevelInfo
	if util.ParseBoolEnv("CONSULTFLOW_DEBUG", false) {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
}

// loadEnvironmentConfig loads configuration from environment variables and .env file
func loadEnvironmentConfig() Config {
	if err := godotenv.Load(); err != nil {
		slog.Debug("failed to load .env file", "error", err)
	} else {
		slog.Debug("successfully loaded .env file")
	}

	return Config{
		OpenAIKey:    os.Getenv("OPENAI_API_KEY"),
		DatabaseDSN:  os.Getenv("DATABASE_DSN"),
		KnowledgeDir: util.EnvOrDefault("KNOWLEDGE_DIR", DefaultKnowledgeDir),
		APIAddr:      util.EnvOrDefault("API_ADDR", api.DefaultAddr),
		ClinicPhone:  util.EnvOrDefault("CLINIC_PHONE", flow.DefaultClinicPhone),
		BookingURL:   util.EnvOrDefault("BOOKING_URL", flow.DefaultBookingURL),
		ClinicNotify: os.Getenv("CLINIC_NOTIFY_NUMBER"),
	}
}

// parseCommandLineFlags parses flags, using environment values as defaults
func parseCommandLineFlags(config Config) Flags {
	flags := Flags{
		openaiKey:    flag.String("openai-key", config.OpenAIKey, "OpenAI API key"),
		dbDSN:        flag.String("db", config.DatabaseDSN, "consultation archive DSN (SQLite path or postgres:// URL, empty disables archiving)"),
		knowledgeDir: flag.String("knowledge-dir", config.KnowledgeDir, "directory holding the clinic knowledge sources"),
		apiAddr:      flag.String("addr", config.APIAddr, "API listen address"),
		clinicPhone:  flag.String("clinic-phone", config.ClinicPhone, "clinic phone appended on contact requests"),
		bookingURL:   flag.String("booking-url", config.BookingURL, "booking URL appended on contact requests"),
		clinicNotify: flag.String("clinic-notify", config.ClinicNotify, "clinic number for consultation alerts (empty disables notifications)"),
		debug:        flag.Bool("debug", false, "enable debug logging"),
	}
	flag.Parse()

	if *flags.debug {
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}
	return flags
}

// buildFlowOptions assembles the orchestrator options: contact details, the
// archive store, and the clinic notifier. The archive is also handed to the
// API for the listing endpoint.
func buildFlowOptions(flags Flags, apiOpts *[]api.Option) []flow.Option {
	opts := []flow.Option{flow.WithContactInfo(*flags.clinicPhone, *flags.bookingURL)}

	if *flags.dbDSN != "" {
		archive, err := store.NewStore(store.WithDSN(*flags.dbDSN))
		if err != nil {
			slog.Error("Failed to open consultation archive, continuing without it", "error", err)
		} else {
			opts = append(opts, flow.WithArchiver(archive))
			*apiOpts = append(*apiOpts, api.WithArchive(archive))
		}
	} else {
		slog.Info("No database DSN provided, consultation archiving disabled")
	}

	if *flags.clinicNotify != "" {
		sender, err := notify.NewTwilioSender()
		if err != nil {
			slog.Error("Failed to configure Twilio sender, notifications disabled", "error", err)
		} else {
			notifier, err := notify.NewClinicNotifier(sender, notify.WithClinicNumber(*flags.clinicNotify))
			if err != nil {
				slog.Error("Failed to configure clinic notifier, notifications disabled", "error", err)
			} else {
				opts = append(opts, flow.WithNotifier(notifier))
			}
		}
	}
	return opts
}

// buildOrchestrator wires the model client and knowledge loader. A missing
// API key returns nil: the server then serves the fixed configuration error
// instead of failing health checks.
func buildOrchestrator(flags Flags, flowOpts []flow.Option) *flow.Orchestrator {
	client, err := genai.NewClient(genai.WithAPIKey(*flags.openaiKey))
	if err != nil {
		if errors.Is(err, genai.ErrNoAPIKey) {
			slog.Error("OPENAI_API_KEY not set; serving configuration error responses")
			return nil
		}
		slog.Error("Failed to create model client", "error", err)
		os.Exit(1)
	}
	loader := knowledge.NewLoader(*flags.knowledgeDir)
	return flow.NewOrchestrator(client, loader, flowOpts...)
}
