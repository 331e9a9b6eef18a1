package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/apimgr/catalog/src/client/api"
	"github.com/apimgr/catalog/src/common/terminal"
	"github.com/apimgr/catalog/src/common/version"
	"github.com/apimgr/catalog/src/logging"
	"github.com/apimgr/catalog/src/presenter"
	"github.com/apimgr/catalog/src/tracing"
)

var (
	cfgFile string

	// errFailed reports a failure that has already been printed
	errFailed = errors.New("command failed")
)

var rootCmd = &cobra.Command{
	Use:   getBinaryName() + " <METHOD> <path> [args...]",
	Short: "CLI client for the product catalog API",
	Long: `Translates terminal arguments into calls against a remote product catalog
and prints the result.

Examples:
  ` + getBinaryName() + ` GET products
  ` + getBinaryName() + ` GET products/1
  ` + getBinaryName() + ` POST products "T-Shirt" 25.99 "Clothing" soft cotton tee
  ` + getBinaryName() + ` DELETE products/1

Flags must come before METHOD.`,
	Args:          cobra.ArbitraryArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCatalog(cmd.Context(), cmd.OutOrStdout(), args)
	},
}

// Execute runs the root command
func Execute() error {
	return ExecuteContext(context.Background())
}

// ExecuteContext runs the root command with ctx
func ExecuteContext(ctx context.Context) error {
	err := rootCmd.ExecuteContext(ctx)
	if err != nil && !errors.Is(err, errFailed) {
		fmt.Fprintf(rootCmd.OutOrStdout(), "Error: %v\n", err)
	}
	return err
}

func init() {
	cobra.OnInitialize(initConfig)

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&cfgFile, "config", "c", "", "config file path (read only when given)")
	flags.StringP("base-url", "u", api.DefaultBaseURL, "catalog API base URL")
	flags.StringP("output", "o", presenter.FormatTable, "output format: table, json")
	flags.Bool("no-color", false, "disable colored output")
	flags.Int("timeout", 0, "request timeout in seconds (0 = transport default)")
	flags.String("log-level", "warn", "log level: debug, info, warn, error")
	flags.String("log-file", "", "write JSON logs to this rotating file")
	flags.Bool("trace", false, "print an OpenTelemetry span for each request")

	// Everything after METHOD is positional, so "-5" or "--x" stay tokens.
	rootCmd.Flags().SetInterspersed(false)
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(tuiCmd)
}

// flagKeys maps persistent flags to viper keys
var flagKeys = map[string]string{
	"base-url":  "server.address",
	"timeout":   "server.timeout",
	"output":    "output.format",
	"no-color":  "output.no_color",
	"log-level": "logging.level",
	"log-file":  "logging.file",
	"trace":     "tracing.enabled",
}

func initConfig() {
	for flag, key := range flagKeys {
		viper.BindPFlag(key, rootCmd.PersistentFlags().Lookup(flag))
	}

	// Defaults
	viper.SetDefault("server.address", api.DefaultBaseURL)
	viper.SetDefault("server.timeout", 0)
	viper.SetDefault("output.format", presenter.FormatTable)
	viper.SetDefault("output.color", "auto")
	viper.SetDefault("logging.level", "warn")
	viper.SetDefault("logging.max_size", 10)
	viper.SetDefault("logging.max_files", 5)
	viper.SetDefault("tracing.enabled", false)

	// No search path and no environment: a config file is only read when
	// one is named explicitly.
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
		if err := viper.ReadInConfig(); err != nil {
			fmt.Fprintf(rootCmd.OutOrStdout(), "Warning: could not read config %s: %v\n", cfgFile, err)
		}
	}
}

// session holds everything one invocation builds from configuration
type session struct {
	logger    *slog.Logger
	tracer    tracing.Tracer
	client    *api.Client
	presenter *presenter.Presenter
	closer    io.Closer
}

func newSession(out io.Writer) (*session, error) {
	baseURL := viper.GetString("server.address")
	if baseURL == "" {
		return nil, fmt.Errorf("base URL not configured. Use --base-url or set server.address")
	}

	format, err := presenter.ParseFormat(getOutputFormat())
	if err != nil {
		return nil, err
	}

	logger, closer := logging.New(logging.ConfigFromViper(), out)

	tracer := tracing.Noop()
	if viper.GetBool("tracing.enabled") {
		t, err := tracing.NewWriterTracer(version.ProjectName, out)
		if err != nil {
			closer.Close()
			return nil, fmt.Errorf("init tracing: %w", err)
		}
		tracer = t
	}

	client := api.NewClient(baseURL, viper.GetInt("server.timeout"))
	client.Tracer = tracer
	client.Logger = logger

	p := presenter.New(out, presenter.Options{
		Format:    format,
		Color:     terminal.ColorEnabled(out, getColorMode()),
		Program:   getBinaryName(),
		RuleWidth: terminal.Width(out, presenter.DefaultRuleWidth),
	})

	return &session{
		logger:    logger,
		tracer:    tracer,
		client:    client,
		presenter: p,
		closer:    closer,
	}, nil
}

// Close flushes pending spans and closes the log file
func (s *session) Close() error {
	if err := s.tracer.Shutdown(); err != nil {
		s.logger.Warn("flush traces", "error", err)
	}
	return s.closer.Close()
}

func runCatalog(ctx context.Context, out io.Writer, args []string) error {
	s, err := newSession(out)
	if err != nil {
		return err
	}
	defer s.Close()

	d := presenter.NewDispatcher(s.client, s.presenter, s.logger)
	if code := d.Run(ctx, args); code != presenter.ExitOK {
		return errFailed
	}
	return nil
}

func getBinaryName() string {
	return filepath.Base(os.Args[0])
}

func getOutputFormat() string {
	return viper.GetString("output.format")
}

func getColorMode() string {
	if viper.GetBool("output.no_color") {
		return "never"
	}
	return viper.GetString("output.color")
}
