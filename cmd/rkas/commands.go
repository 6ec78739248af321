package main

import (
	"context"
	"fmt"
	"io"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"rkas-ledger/internal/config"
	"rkas-ledger/internal/console"
	"rkas-ledger/internal/gateway"
	"rkas-ledger/internal/logger"
	"rkas-ledger/internal/usecase"
)

// app holds state shared by all subcommands.
type app struct {
	out io.Writer

	configFile   string
	verbose      bool
	sources      []string
	strictHeader bool

	cfg    *config.Config
	logger *zap.Logger
}

func newRootCmd(out io.Writer) *cobra.Command {
	a := &app{out: out}

	rootCmd := &cobra.Command{
		Use:               "rkas",
		Short:             "R-KAS school budget ledger summaries",
		Version:           version,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}
	rootCmd.SetOut(out)
	rootCmd.SetVersionTemplate(`{{printf "R-KAS Ledger CLI version: %s\n" .Version}}`)

	rootCmd.PersistentFlags().StringVarP(&a.configFile, "config", "C", "", "Path to a TOML, YAML, or JSON configuration file")
	rootCmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringSliceVarP(&a.sources, "source", "s", nil, "Ledger sources: file path, s3://bucket/key, or - for stdin (repeatable)")
	rootCmd.PersistentFlags().BoolVar(&a.strictHeader, "strict-header", false, "Fail when a ledger header does not match the expected columns")

	rootCmd.AddCommand(a.newSummaryCmd(), a.newExportCmd(), a.newValidateCmd())
	return rootCmd
}

// setup loads configuration and builds the logger before any subcommand runs.
func (a *app) setup(cmd *cobra.Command, args []string) error {
	// Load .env for local development; absence is not an error
	_ = godotenv.Load()

	cfg, err := config.Load(a.configFile)
	if err != nil {
		return err
	}
	if len(a.sources) > 0 {
		cfg.Sources = a.sources
	}
	if cmd.Flags().Changed("strict-header") {
		cfg.StrictHeader = a.strictHeader
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	log, err := logger.New(cfg.LogLevel, a.verbose)
	if err != nil {
		return err
	}

	a.cfg = cfg
	a.logger = log
	return nil
}

// newUseCase wires the sources, exporter and logger into the usecase.
func (a *app) newUseCase(ctx context.Context) (*usecase.LedgerUseCase, error) {
	factory := &gateway.SourceFactory{
		AWSRegion:  a.cfg.AWSRegion,
		AWSProfile: a.cfg.AWSProfile,
	}

	sources := make([]usecase.LedgerSource, 0, len(a.cfg.Sources))
	for _, location := range a.cfg.Sources {
		src, err := factory.New(ctx, location)
		if err != nil {
			return nil, fmt.Errorf("could not open source %s: %w", location, err)
		}
		sources = append(sources, src)
	}

	return usecase.NewLedgerUseCase(
		sources,
		gateway.NewFileExporter(),
		a.logger,
		usecase.WithStrictHeader(a.cfg.StrictHeader),
	), nil
}

type reportFlags struct {
	level      string
	category   string
	funding    string
	search     string
	overBudget bool
}

func (f *reportFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.level, "level", "l", "category", "Grouping level: category, standard, activity, funding, account")
	cmd.Flags().StringVar(&f.category, "category", "", "Only include records with this category code")
	cmd.Flags().StringVar(&f.funding, "funding", "", "Only include records with this funding code")
	cmd.Flags().StringVar(&f.search, "search", "", "Only include records whose component or activity name contains this text")
	cmd.Flags().BoolVar(&f.overBudget, "over-budget", false, "Only include over-realized records")
}

func (f *reportFlags) filter() usecase.Filter {
	return usecase.Filter{
		CategoryCode:   f.category,
		FundingCode:    f.funding,
		Search:         f.search,
		OverBudgetOnly: f.overBudget,
	}
}

func (a *app) newSummaryCmd() *cobra.Command {
	var flags reportFlags
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Print budget vs. realization grouped by a ledger level",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			level, err := usecase.ParseLevel(flags.level)
			if err != nil {
				return err
			}
			uc, err := a.newUseCase(cmd.Context())
			if err != nil {
				return err
			}
			report, _, err := uc.BuildReport(cmd.Context(), level, flags.filter())
			if err != nil {
				return err
			}

			fmt.Fprintln(a.out, console.Banner(version))
			return console.NewPresenter(a.out).PrintReport(report)
		},
	}
	flags.register(cmd)
	return cmd
}

func (a *app) newExportCmd() *cobra.Command {
	var (
		flags   reportFlags
		formats []string
		dir     string
		name    string
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the ledger and its summary to csv, json, or pdf files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			level, err := usecase.ParseLevel(flags.level)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("format") {
				a.cfg.ReportFormats = formats
			}
			if dir != "" {
				a.cfg.ReportDir = dir
			}
			if name != "" {
				a.cfg.ReportName = name
			}
			if err := a.cfg.Validate(); err != nil {
				return err
			}

			uc, err := a.newUseCase(cmd.Context())
			if err != nil {
				return err
			}
			report, records, err := uc.BuildReport(cmd.Context(), level, flags.filter())
			if err != nil {
				return err
			}
			paths, err := uc.Export(report, records, a.cfg.ReportFormats, a.cfg.ReportDir, a.cfg.ReportName)
			if err != nil {
				return err
			}
			console.NewPresenter(a.out).PrintPaths(paths)
			return nil
		},
	}
	flags.register(cmd)
	cmd.Flags().StringSliceVarP(&formats, "format", "f", nil, "Report formats: csv, json, pdf (default from config)")
	cmd.Flags().StringVarP(&dir, "dir", "d", "", "Directory to save the report files (default: current directory)")
	cmd.Flags().StringVarP(&name, "name", "n", "", "Base name for the report files")
	return cmd
}

func (a *app) newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Report per-source record counts, skipped rows and header checks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			uc, err := a.newUseCase(cmd.Context())
			if err != nil {
				return err
			}
			ledger, err := uc.Load(cmd.Context())
			if err != nil {
				return err
			}
			console.NewPresenter(a.out).PrintSourceStats(ledger.Sources)
			return nil
		},
	}
}
