package cli

import (
	"fmt"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/GriffinCanCode/forestclient/internal/http/client"
	"github.com/GriffinCanCode/forestclient/internal/infrastructure/config"
	"github.com/GriffinCanCode/forestclient/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/forestclient/internal/logging"
)

// Version information (set by build flags)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// Execute runs the forest command with os.Args
func Execute() error {
	return NewRootCommand().Execute()
}

// NewRootCommand builds the command tree
func NewRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "forest",
		Short: "Declarative HTTP client with normalized responses",
		Long: `forest - send HTTP requests through interchangeable backends

Responses from every backend are normalized: headers keep their order,
text bodies are decoded with the resolved charset, and binary bodies are
summarized instead of printed.`,
		SilenceUsage: true,
	}

	root.PersistentFlags().String("config", "", "Config file (.toml, .yaml, .yml or .json)")
	root.PersistentFlags().StringP("backend", "b", "", "Backend (nethttp, resty, retryablehttp)")
	root.PersistentFlags().Bool("dev", false, "Development logging on stderr")
	root.PersistentFlags().Bool("metrics", false, "Print collected metrics to stderr on exit")

	root.AddCommand(newFetchCommand(), newDownloadCommand(), newBackendsCommand(), newVersionCommand())
	return root
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "forest %s (commit: %s, built: %s)\n", version, commit, date)
		},
	}
}

func newBackendsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "backends",
		Short: "List available backends",
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := setup(cmd)
			if err != nil {
				return err
			}
			defer env.close()

			for _, name := range env.client.Backends() {
				marker := " "
				if name == env.client.DefaultBackend() {
					marker = "*"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", marker, name)
			}
			return nil
		},
	}
}

// environment is what every command needs to send requests
type environment struct {
	cmd      *cobra.Command
	client   *client.Client
	logger   *logging.Logger
	registry *prometheus.Registry
	metrics  bool
}

func setup(cmd *cobra.Command) (*environment, error) {
	path, _ := cmd.Flags().GetString("config")
	dev, _ := cmd.Flags().GetBool("dev")
	backendName, _ := cmd.Flags().GetString("backend")
	showMetrics, _ := cmd.Flags().GetBool("metrics")

	var (
		cfg *config.Config
		err error
	)
	if path != "" {
		cfg, err = config.LoadFile(path)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}
	if dev {
		cfg.Logging.Development = true
	}
	if backendName != "" {
		cfg.Client.Backend = strings.ToLower(backendName)
	}

	logger, err := logging.New(cfg.Logging.Logger())
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	registry := prometheus.NewRegistry()
	c, err := client.New(cfg, logger, monitoring.NewMetrics(registry))
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}

	return &environment{
		cmd:      cmd,
		client:   c,
		logger:   logger,
		registry: registry,
		metrics:  showMetrics,
	}, nil
}

func (e *environment) close() {
	if e.metrics {
		if err := monitoring.WriteText(e.cmd.ErrOrStderr(), e.registry); err != nil {
			fmt.Fprintf(e.cmd.ErrOrStderr(), "metrics: %v\n", err)
		}
	}
	_ = e.logger.Sync()
}
