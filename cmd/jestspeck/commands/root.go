// SPDX-License-Identifier: AGPL-3.0-or-later

/*
jestspeck - generates and incrementally extends Jest test shells from the
interactions declared in a source file's speck documentation comment.

Copyright (C) 2025  Bartek Kus

This program is free software licensed under the terms of the GNU AGPL v3 or later.

See https://www.gnu.org/licenses/ for license details.

*/

package commands

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/bartekus/jestspeck/cmd/jestspeck/internal/clierr"
	"github.com/bartekus/jestspeck/internal/config"
	"github.com/bartekus/jestspeck/internal/logging"
	"github.com/bartekus/jestspeck/internal/projectroot"
	"github.com/bartekus/jestspeck/internal/shell"
)

// rootOptions holds the persistent flags shared by every subcommand.
type rootOptions struct {
	verbose    bool
	quiet      bool
	logFormat  string
	configPath string
	location   string
	rootHint   string
	templates  string
	stateDir   string
	noGit      bool

	logger *zap.Logger
}

// NewRootCmd constructs the jestspeck root Cobra command.
func NewRootCmd() *cobra.Command {
	version := os.Getenv("JESTSPECK_VERSION")
	if version == "" {
		version = "0.0.0-dev"
	}

	opts := &rootOptions{logger: zap.NewNop()}

	cmd := &cobra.Command{
		Use:           "jestspeck",
		Short:         "Generate Jest test shells from speck documentation comments",
		Long:          "jestspeck reads the interactions documented in each source file and keeps a companion .spec.jsx shell with one pending test per interaction.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.initLogger()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = opts.logger.Sync()
		},
	}

	pf := cmd.PersistentFlags()
	pf.BoolVarP(&opts.verbose, "verbose", "v", false, "enable debug logging")
	pf.BoolVarP(&opts.quiet, "quiet", "q", false, "suppress progress output")
	pf.StringVar(&opts.logFormat, "log-format", "text", "progress output format: text or json")
	pf.StringVar(&opts.configPath, "config", "", "path to a configuration file (default <root>/"+config.FileName+")")
	pf.StringVar(&opts.location, "location", "", `where shells are written: "base" to co-locate with sources, or a directory`)
	pf.StringVar(&opts.rootHint, "root-hint", "", "directory name the header's lib path climbs to")
	pf.StringVar(&opts.templates, "templates", "", "directory with .stub template overrides")
	pf.StringVar(&opts.stateDir, "state-dir", "", "directory storing sweep results")
	pf.BoolVar(&opts.noGit, "no-git", false, "walk the filesystem instead of listing git-tracked files")

	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version number of jestspeck",
		Run: func(cmd *cobra.Command, args []string) {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "jestspeck version %s\n", version)
		},
	})

	cmd.AddCommand(newGenerateCommand(opts))
	cmd.AddCommand(newNormalizeCommand())
	cmd.AddCommand(newWatchCommand(opts))
	cmd.AddCommand(newReportCommand(opts))
	cmd.AddCommand(newResumeCommand(opts))
	cmd.AddCommand(newResetCommand(opts))

	return cmd
}

func (o *rootOptions) initLogger() error {
	switch o.logFormat {
	case "text", "json":
	default:
		return clierr.Usagef("unknown --log-format %q", o.logFormat)
	}

	zc := zap.NewProductionConfig()
	if o.verbose {
		zc.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	logger, err := zc.Build()
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	o.logger = logger
	return nil
}

// progress returns the engine's progress logger for the selected output mode.
func (o *rootOptions) progress(out io.Writer) logging.Logger {
	switch {
	case o.quiet:
		return logging.Nop{}
	case o.logFormat == "json":
		return logging.NewZap(o.logger)
	default:
		return logging.Console{Out: out}
	}
}

// project resolves the project root and the effective configuration.
func (o *rootOptions) project(cmd *cobra.Command) (string, config.Config, error) {
	wd, err := os.Getwd()
	if err != nil {
		return "", config.Config{}, err
	}
	root, err := projectroot.Find(wd)
	if err != nil {
		return "", config.Config{}, fmt.Errorf("finding project root: %w", err)
	}

	var cfg config.Config
	if o.configPath != "" {
		cfg, err = config.LoadFile(o.configPath)
	} else {
		cfg, err = config.Load(root)
	}
	if err != nil {
		return "", config.Config{}, clierr.Usage("loading configuration", err)
	}

	// Path flags are relative to the working directory, not the project root.
	flags := cmd.Flags()
	if flags.Changed("location") {
		cfg.Location = o.location
		if cfg.Location != shell.CoLocate && cfg.Location != "" {
			cfg.Location = fromWD(wd, cfg.Location)
		}
	}
	if flags.Changed("root-hint") {
		cfg.RootHint = o.rootHint
	}
	if flags.Changed("templates") {
		cfg.TemplatesDir = fromWD(wd, o.templates)
	}
	if flags.Changed("state-dir") {
		cfg.StateDir = fromWD(wd, o.stateDir)
	}
	return root, cfg, nil
}

func fromWD(wd, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(wd, p)
}
