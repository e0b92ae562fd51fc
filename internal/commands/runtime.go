package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/diogo/webchat/internal/api"
	"github.com/diogo/webchat/internal/config"
	"github.com/diogo/webchat/internal/render"
)

// globalFlags are shared by every command
type globalFlags struct {
	server    string
	transport string
	verbose   bool
}

func (f *globalFlags) register(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVarP(&f.server, "server", "s", "", "Chat server URL (overrides config and "+config.EnvServerURL+")")
	cmd.PersistentFlags().StringVarP(&f.transport, "transport", "t", "", "Transport: json, stream or sse")
	cmd.PersistentFlags().BoolVar(&f.verbose, "verbose", false, "Log debug output to the log file")
}

// runtime is the resolved configuration and the resources built from it
type runtime struct {
	cfg    config.Config
	log    *zap.Logger
	client api.ChatClientInterface
	close  func()
}

// loadConfig resolves config file, .env, environment and flags, in that order
func (f *globalFlags) loadConfig() (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return cfg, err
	}
	if f.server != "" {
		cfg.ServerURL = strings.TrimRight(f.server, "/")
	}
	if f.transport != "" {
		cfg.Transport = strings.ToLower(f.transport)
	}
	if f.verbose {
		cfg.Verbose = true
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// setup builds the logger and client for a command
func (f *globalFlags) setup(deps *Dependencies) (*runtime, error) {
	cfg, err := f.loadConfig()
	if err != nil {
		return nil, err
	}

	if cfg.TUITheme != "" {
		render.SetTUITheme(cfg.TUITheme)
	}

	log, closeLog, err := deps.NewLogger(cfg)
	if err != nil {
		return nil, err
	}

	client, err := deps.NewClient(cfg, log)
	if err != nil {
		closeLog()
		return nil, fmt.Errorf("failed to create client: %w", err)
	}

	log.Debug("session configured",
		zap.String("server", cfg.ServerURL),
		zap.String("transport", cfg.Transport))

	return &runtime{
		cfg:    cfg,
		log:    log,
		client: client,
		close: func() {
			client.Close()
			closeLog()
		},
	}, nil
}
