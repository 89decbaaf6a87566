package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/frederic-klein/demver/internal/config"
	"github.com/frederic-klein/demver/internal/report"
	"github.com/frederic-klein/demver/internal/resolve"
	"github.com/frederic-klein/demver/internal/scanner"
)

// errFailed is returned when at least one file or tag could not be handled.
// The details have already been printed.
var errFailed = errors.New("some files or tags failed")

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run executes the command line and returns the process exit code.
func run(args []string, stdout, stderr io.Writer) int {
	cmd := newRootCmd()
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetArgs(args)
	if err := cmd.Execute(); err != nil {
		if !errors.Is(err, errFailed) {
			fmt.Fprintln(stderr, "Error:", err)
		}
		return 1
	}
	return 0
}

func newRootCmd() *cobra.Command {
	var configPath string

	rootCmd := &cobra.Command{
		Use:     "demver",
		Short:   "Deterministic Version Manager for reproducible builds and deployments",
		Long:    "demver finds [demver(...)] tags in text files and resolves their version constraints against co-located version catalogs.",
		Version: "0.1.0",

		// run prints errors; tag and file failures are already in the report.
		SilenceErrors: true,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configPath, "config", "", "Config file (default ./.demver.yaml)")
	pf.BoolP("verbose", "v", false, "Verbose output")
	pf.Int("max-tags", 0, "Maximum tags read per file (0 = unlimited)")
	pf.StringP("format", "o", "text", "Output format: text or yaml")
	pf.Bool("color", true, "Colored text output")

	checkCmd := &cobra.Command{
		Use:          "check FILE...",
		Short:        "Check files containing demver tags",
		Args:         cobra.MinimumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := setup(cmd, configPath)
			if err != nil {
				return err
			}
			results := env.scanner.Scan(args)
			if err := env.emitter.EmitCheck(results); err != nil {
				return fmt.Errorf("writing report: %w", err)
			}
			for _, r := range results {
				if r.Failed() {
					return errFailed
				}
			}
			return nil
		},
	}

	resolveCmd := &cobra.Command{
		Use:          "resolve FILE...",
		Short:        "Resolve demver tags against their version catalogs",
		Args:         cobra.MinimumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := setup(cmd, configPath)
			if err != nil {
				return err
			}
			results := env.resolver.ResolveFiles(env.scanner.Scan(args))
			if err := env.emitter.EmitResolve(results); err != nil {
				return fmt.Errorf("writing report: %w", err)
			}
			for _, r := range results {
				if r.Failed() {
					return errFailed
				}
			}
			return nil
		},
	}

	rootCmd.AddCommand(checkCmd, resolveCmd)
	return rootCmd
}

type cmdEnv struct {
	scanner  *scanner.Scanner
	resolver *resolve.Resolver
	emitter  *report.Emitter
}

func setup(cmd *cobra.Command, configPath string) (*cmdEnv, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("getting working directory: %w", err)
	}
	cfg, err := config.Load(configPath, wd, cmd.Flags())
	if err != nil {
		return nil, err
	}
	format, err := report.ParseFormat(cfg.Format)
	if err != nil {
		return nil, err
	}

	logger := log.NewWithOptions(cmd.ErrOrStderr(), log.Options{Prefix: "demver"})
	if cfg.Verbose {
		logger.SetLevel(log.DebugLevel)
	}
	logger.Debug("config loaded", "max_tags", cfg.MaxTags, "format", cfg.Format)

	return &cmdEnv{
		scanner:  scanner.NewScanner(scanner.WithMaxTags(cfg.MaxTags), scanner.WithLogger(logger)),
		resolver: resolve.NewResolver(logger),
		emitter:  report.NewEmitter(cmd.OutOrStdout(), format, cfg.Color),
	}, nil
}
