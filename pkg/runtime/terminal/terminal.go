package terminal

import (
	"context"
	"io"
	"os"

	"github.com/rps-tools/report-atlas/pkg/runtime/bootstrap"
	"github.com/rps-tools/report-atlas/pkg/runtime/terminal/commands"
	"github.com/rps-tools/report-atlas/pkg/services/config"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// CLI represents the command-line interface
type CLI struct {
	configPath string
	load       commands.Loader
	reporter   *Reporter
	logger     zerolog.Logger
	rootCmd    *cobra.Command
}

// Options contain configuration for the CLI
type Options struct {
	Output io.Writer
	// Logs defaults to stderr so that it never mixes with command output.
	Logs io.Writer
	// Loader overrides how the report services are built from the --config file.
	Loader func(ctx context.Context, configPath string) (*commands.Services, error)
}

// NewCLI creates a new CLI instance
func NewCLI(opts Options) *CLI {
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.Logs == nil {
		opts.Logs = os.Stderr
	}
	if opts.Loader == nil {
		opts.Loader = LoadServices
	}

	cli := &CLI{
		reporter: NewReporter(opts.Output),
		logger:   zerolog.New(opts.Logs).With().Timestamp().Logger().Level(zerolog.WarnLevel),
	}
	cli.load = func(ctx context.Context) (*commands.Services, error) {
		return opts.Loader(ctx, cli.configPath)
	}

	cli.rootCmd = cli.newRootCmd()
	cli.rootCmd.SetOut(opts.Output)
	return cli
}

func (cli *CLI) Execute() error {
	return cli.ExecuteArgs(os.Args[1:])
}

func (cli *CLI) ExecuteArgs(args []string) error {
	cli.rootCmd.SetArgs(args)
	return cli.rootCmd.ExecuteContext(cli.logger.WithContext(context.Background()))
}

func (cli *CLI) newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "reports",
		Short:         "Financial report generator",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVarP(&cli.configPath, "config", "c", "", "Path to the config file")

	cmd.AddCommand(commands.NewCompaniesCmd(cli.load, cli.reporter))
	cmd.AddCommand(commands.NewRenderCmd(cli.load, cli.reporter))
	cmd.AddCommand(commands.NewBatchCmd(cli.load, cli.reporter))

	return cmd
}

// LoadServices reads the config file and wires the report stack.
func LoadServices(ctx context.Context, configPath string) (*commands.Services, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	app, err := bootstrap.New(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return &commands.Services{
		Reports:   app.Assembler,
		Documents: app.Exporter,
		Pages:     app.HTML,
		Close:     app.Close,
	}, nil
}
