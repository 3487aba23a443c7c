package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/eion/userconsole/internal/config"
	"github.com/eion/userconsole/internal/console"
	"github.com/eion/userconsole/internal/users"
)

var (
	flagConfig  string
	flagFormat  string
	flagProfile string
)

// errorHandled is set when a command already reported its failure to the user.
var errorHandled bool

// AppState holds the services a command works with
type AppState struct {
	Logger     *zap.Logger
	Config     *config.Config
	Client     *users.Client
	Controller *console.Controller
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		if !errorHandled {
			fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		}
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "userconsole",
	Short:         "Browse and add users of a remote users service",
	Long:          "userconsole loads the user list from a users service, renders it, and appends new users through a form or the command line.",
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return validateFormat(flagFormat)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "config file (default: $USERCONSOLE_CONFIG_FILE or userconsole.yaml)")
	rootCmd.PersistentFlags().StringVar(&flagFormat, "format", "text", "output format: json|text")
	rootCmd.PersistentFlags().StringVar(&flagProfile, "profile", "", "submit profile: confirmed|silent (overrides config)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(addCmd)
}

// newAppState loads configuration and wires the client and controller
func newAppState() (*AppState, error) {
	if err := config.Load(flagConfig); err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if flagProfile != "" {
		if err := config.SetProfile(flagProfile); err != nil {
			return nil, err
		}
	}

	logger := initLogger()

	profile, err := console.ParseProfile(config.Submit().Profile)
	if err != nil {
		return nil, err
	}

	client := users.NewClient(config.API().BaseURL, logger)
	controller := console.NewController(client, profile, logger)

	logger.Info("Configuration loaded",
		zap.String("api", client.Endpoint()),
		zap.String("profile", string(profile)))

	return &AppState{
		Logger:     logger,
		Config:     config.Get(),
		Client:     client,
		Controller: controller,
	}, nil
}

func initLogger() *zap.Logger {
	logConfig := config.Logger()

	var config zap.Config
	if logConfig.Format == "json" {
		config = zap.NewProductionConfig()
	} else {
		config = zap.NewDevelopmentConfig()
	}

	config.Level = zap.NewAtomicLevelAt(parseLevel(logConfig.Level))

	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	logger, err := config.Build()
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}

	return logger
}

func parseLevel(level string) zapcore.Level {
	switch level {
	case "debug":
		return zap.DebugLevel
	case "info":
		return zap.InfoLevel
	case "warn":
		return zap.WarnLevel
	case "error":
		return zap.ErrorLevel
	default:
		return zap.InfoLevel
	}
}
