// Package cli implements the checkmango command-line tool on top of the
// client library.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	checkmango "github.com/checkmango/checkmango-go"
)

// app carries the state shared by all commands of one invocation.
type app struct {
	v      *viper.Viper
	out    io.Writer
	errOut io.Writer

	configFile string
	cfg        *Config
	printer    *printer
	logger     *zap.Logger
}

// NewRootCommand builds the checkmango command tree writing to out and errOut.
func NewRootCommand(out, errOut io.Writer) *cobra.Command {
	a := &app{v: viper.New(), out: out, errOut: errOut}

	cmd := &cobra.Command{
		Use:   "checkmango",
		Short: "Manage Checkmango experiments from the command line",
		Long: `checkmango talks to the Checkmango A/B-testing API: it manages teams,
experiments, variants, participants and events, and ingests exposures.

Settings are read from flags, CHECKMANGO_* environment variables and
~/.checkmango/config.yaml, in that order of precedence.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.load(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}
	cmd.SetOut(out)
	cmd.SetErr(errOut)

	flags := cmd.PersistentFlags()
	flags.StringVar(&a.configFile, "config", "", "Config file (default $HOME/.checkmango/config.yaml)")
	flags.String("api-key", "", "API key (env CHECKMANGO_API_KEY)")
	flags.Int("team", 0, "Team ID used for team-scoped commands (env CHECKMANGO_TEAM)")
	flags.String("base-url", checkmango.DefaultBaseURL, "API base URL (env CHECKMANGO_BASE_URL)")
	flags.StringP("output", "o", formatTable, "Output format: table, json")
	flags.Bool("verbose", false, "Log every request to stderr")
	flags.Duration("timeout", 30*time.Second, "Request timeout")

	cmd.AddCommand(
		a.userCommand(),
		a.teamsCommand(),
		a.experimentsCommand(),
		a.variantsCommand(),
		a.participantsCommand(),
		a.eventsCommand(),
		a.ingestCommand(),
		a.healthCommand(),
		a.versionCommand(),
	)

	return cmd
}

// Execute runs the CLI with args and returns the process exit code.
func Execute(ctx context.Context, args []string, out, errOut io.Writer) int {
	cmd := NewRootCommand(out, errOut)
	cmd.SetArgs(args)

	if err := cmd.ExecuteContext(ctx); err != nil {
		printError(errOut, err)
		return 1
	}
	return 0
}

func (a *app) load(cmd *cobra.Command) error {
	cfg, err := LoadConfig(a.v, cmd.Flags(), a.configFile)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.printer = &printer{format: cfg.Output, out: a.out}

	if cfg.Verbose {
		core := zapcore.NewCore(
			zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig()),
			zapcore.AddSync(a.errOut),
			zap.DebugLevel,
		)
		a.logger = zap.New(core)
		if cfg.ConfigFile != "" {
			a.logger.Debug("Loaded config file", zap.String("path", cfg.ConfigFile))
		}
	}
	return nil
}

// client builds an API client from the loaded configuration. teamScoped
// commands additionally require a team.
func (a *app) client(teamScoped bool) (*checkmango.Client, error) {
	if a.cfg.APIKey == "" {
		return nil, errors.New("an API key is required: set --api-key or CHECKMANGO_API_KEY")
	}
	if teamScoped && a.cfg.TeamID == 0 {
		return nil, errors.New("a team is required: set --team or CHECKMANGO_TEAM")
	}

	options := []checkmango.Option{
		checkmango.WithBaseURL(a.cfg.BaseURL),
		checkmango.WithTimeout(a.cfg.Timeout),
		checkmango.WithUserAgent(checkmango.UserAgent("checkmango-cli")),
	}
	if a.logger != nil {
		options = append(options,
			checkmango.WithLogger(checkmango.NewZapLogger(a.logger)),
			checkmango.WithDebug(),
		)
	}

	return checkmango.New(a.cfg.APIKey, a.cfg.TeamID, options...)
}

// printError writes err to w, listing API error details one per line.
func printError(w io.Writer, err error) {
	var apiErr *checkmango.APIError
	if !errors.As(err, &apiErr) {
		fmt.Fprintf(w, "Error: %v\n", err)
		return
	}

	fmt.Fprintf(w, "Error: %d %s\n", apiErr.StatusCode, apiErr.Message)
	for _, detail := range apiErr.Details() {
		message := detail.Detail
		if message == "" {
			message = detail.Title
		}
		if detail.Source != nil && detail.Source.Pointer != "" {
			fmt.Fprintf(w, "  %s: %s\n", detail.Source.Pointer, message)
			continue
		}
		fmt.Fprintf(w, "  %s\n", message)
	}
}

func (a *app) versionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			info := checkmango.GetBuildInfo()
			return a.printer.message(info, "%s", info)
		},
	}
}

func (a *app) healthCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check that the API is reachable",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := a.client(false)
			if err != nil {
				return err
			}
			if err := client.Health(cmd.Context()); err != nil {
				return err
			}
			return a.printer.message(map[string]any{"status": "ok"}, "API is healthy")
		},
	}
}

// pageFlags registers --page and --per-page bound to p.
func pageFlags(cmd *cobra.Command, p *checkmango.Pagination) {
	cmd.Flags().IntVar(&p.Page, "page", 0, "Page number")
	cmd.Flags().IntVar(&p.PerPage, "per-page", 0, "Results per page")
}

// includes converts --include values to a typed include list.
func includes[T ~string](values []string) []T {
	if len(values) == 0 {
		return nil
	}
	out := make([]T, len(values))
	for i, value := range values {
		out[i] = T(value)
	}
	return out
}
