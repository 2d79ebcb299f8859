// SPDX-License-Identifier: AGPL-3.0-or-later
package commands

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bartekus/jestspeck/cmd/jestspeck/internal/clierr"
	"github.com/bartekus/jestspeck/internal/sweep"
)

func newReportCommand(opts *rootOptions) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Show the result of the last generate run",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			root, cfg, err := opts.project(cmd)
			if err != nil {
				return err
			}
			last, err := sweep.NewStateStore(cfg.StatePath(root)).ReadLastRun()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(last)
			}
			if last == nil {
				_, _ = fmt.Fprintln(out, "No run state found.")
				return nil
			}
			_, _ = fmt.Fprint(out, sweep.Report(last))
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the raw run state as JSON")
	return cmd
}

func newResumeCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "resume",
		Short: "Re-run generate for the files that failed last time",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			root, cfg, err := opts.project(cmd)
			if err != nil {
				return err
			}
			engine, err := cfg.Engine(root)
			if err != nil {
				return clierr.Usage("configuring engine", err)
			}
			r := sweep.NewRunner(root, engine, sweep.NewStateStore(cfg.StatePath(root)),
				sweep.WithProgress(opts.progress(cmd.OutOrStdout())),
				sweep.WithZap(opts.logger))

			last, runErr := r.Resume(cmd.Context())
			if last == nil && runErr == nil {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "No failed files to resume.")
				return nil
			}
			if last != nil {
				if err := printRun(cmd.OutOrStdout(), last, false); err != nil {
					return err
				}
			}
			if errors.Is(runErr, sweep.ErrFilesFailed) {
				return clierr.FilesFailed("resume", runErr)
			}
			return runErr
		},
	}
}

func newResetCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Clear stored run state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			root, cfg, err := opts.project(cmd)
			if err != nil {
				return err
			}
			return sweep.NewStateStore(cfg.StatePath(root)).Reset()
		},
	}
}
