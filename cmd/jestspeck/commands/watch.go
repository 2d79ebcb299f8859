// SPDX-License-Identifier: AGPL-3.0-or-later
package commands

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/bartekus/jestspeck/cmd/jestspeck/internal/clierr"
	"github.com/bartekus/jestspeck/internal/sweep"
	"github.com/bartekus/jestspeck/internal/watch"
)

func newWatchCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Regenerate test shells whenever a source file changes",
		Long:  "Watches the project tree and runs generate for each changed source file until interrupted.",
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

			// Watch-triggered runs are not persisted; last-run.json belongs to full sweeps.
			r := sweep.NewRunner(root, engine, nil,
				sweep.WithProgress(opts.progress(cmd.OutOrStdout())),
				sweep.WithZap(opts.logger))

			handle := func(ctx context.Context, rel string) {
				last, err := r.Run(ctx, []string{rel})
				if err != nil && !errors.Is(err, sweep.ErrFilesFailed) {
					opts.logger.Warn("regenerating shell", zap.String("file", rel), zap.Error(err))
					return
				}
				for _, f := range last.Files {
					if f.Status == sweep.StatusFailed {
						_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "FAIL: %s: %s\n", f.File, f.Note)
					}
				}
			}

			w, err := watch.New(root, filterOptions(cfg), handle, opts.logger)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Watching %s (Ctrl+C to stop)\n", root)
			return w.Run(ctx)
		},
	}
}
