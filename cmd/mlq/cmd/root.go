// Package cmd provides the CLI commands for mlq.
package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/joemfb/ml-common-ng/internal/config"
	logpkg "github.com/joemfb/ml-common-ng/internal/logger"
	"github.com/joemfb/ml-common-ng/internal/version"
	"github.com/joemfb/ml-common-ng/pkg/mlrest"
)

// globalOptions holds the persistent flags shared by every subcommand.
type globalOptions struct {
	configPath string
	server     string
	user       string
	password   string
	logLevel   string
}

// NewRootCmd creates the root command for the mlq CLI.
func NewRootCmd() *cobra.Command {
	opts := &globalOptions{}

	cmd := &cobra.Command{
		Use:   "mlq",
		Short: "Build structured queries and talk to the MarkLogic REST API",
		Long: `mlq builds MarkLogic structured and combined queries from YAML query
documents and sends them, or any other REST call, to a MarkLogic server.

Connection settings come from the upstream section of a config file
(--config) and can be overridden with --server, --user and --password.

Examples:
  mlq build -f query.yaml
  mlq search -f query.yaml --options all
  mlq doc get /docs/1.json
  mlq sparql 'SELECT * WHERE { ?s ?p ?o } LIMIT 10'`,
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	cmd.SetVersionTemplate("mlq version {{.Version}}\n")

	cmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "Config file (YAML, upstream section)")
	cmd.PersistentFlags().StringVarP(&opts.server, "server", "s", "", "MarkLogic REST server URL (overrides config)")
	cmd.PersistentFlags().StringVarP(&opts.user, "user", "u", "", "MarkLogic user (overrides config)")
	cmd.PersistentFlags().StringVarP(&opts.password, "password", "p", "", "MarkLogic password (overrides config)")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "Log level: debug, info, warn, error")

	cmd.AddCommand(newBuildCmd())
	cmd.AddCommand(newSearchCmd(opts))
	cmd.AddCommand(newDocCmd(opts))
	cmd.AddCommand(newSparqlCmd(opts))
	cmd.AddCommand(newSuggestCmd(opts))
	cmd.AddCommand(newValuesCmd(opts))
	cmd.AddCommand(newConfigCmd(opts))
	cmd.AddCommand(newExtensionCmd(opts))
	cmd.AddCommand(newVersionCmd())

	return cmd
}

// Execute runs the root command, canceling in-flight requests on SIGINT/SIGTERM.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return NewRootCmd().ExecuteContext(ctx)
}

// loadConfig reads the config file, if any, and applies flag overrides.
func (o *globalOptions) loadConfig() (config.Config, error) {
	var cfg config.Config
	if o.configPath != "" {
		loaded, err := config.LoadFile(o.configPath)
		if err != nil {
			return config.Config{}, err
		}
		cfg = loaded
	}
	if o.server != "" {
		cfg.Upstream.URL = o.server
	}
	if o.user != "" {
		cfg.Upstream.User = o.user
	}
	if o.password != "" {
		cfg.Upstream.Password = o.password
	}
	if o.logLevel != "" {
		cfg.Logging.Level = o.logLevel
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return config.Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// client builds a REST client from the config file and flags.
func (o *globalOptions) client() (*mlrest.Client, error) {
	cfg, err := o.loadConfig()
	if err != nil {
		return nil, err
	}
	logger, err := logpkg.NewLogger("cli", cfg.Logging.Level)
	if err != nil {
		return nil, err
	}

	clientOpts := []mlrest.Option{
		mlrest.WithAPIVersion(cfg.Upstream.APIVersion),
		mlrest.WithHTTPClient(&http.Client{Timeout: time.Duration(cfg.Upstream.TimeoutSec) * time.Second}),
		mlrest.WithLogger(logger.Named("mlrest")),
	}
	if cfg.Upstream.User != "" {
		clientOpts = append(clientOpts, mlrest.WithBasicAuth(cfg.Upstream.User, cfg.Upstream.Password))
	}
	c, err := mlrest.New(cfg.Upstream.URL, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("create client: %w", err)
	}
	logger.Debug("client ready", zap.String("server", cfg.Upstream.URL))
	return c, nil
}

// printResponse writes the response body to the command output, indenting
// JSON bodies.
func printResponse(cmd *cobra.Command, resp *mlrest.Response) error {
	out := cmd.OutOrStdout()
	body := resp.Body
	if json.Valid(body) {
		var buf bytes.Buffer
		if err := json.Indent(&buf, body, "", "  "); err == nil {
			body = buf.Bytes()
		}
	}
	if _, err := out.Write(body); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	if len(body) > 0 && body[len(body)-1] != '\n' {
		_, _ = fmt.Fprintln(out)
	}
	return nil
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}
