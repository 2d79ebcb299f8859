// SPDX-License-Identifier: AGPL-3.0-or-later
package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bartekus/jestspeck/cmd/jestspeck/internal/clierr"
	"github.com/bartekus/jestspeck/internal/config"
	"github.com/bartekus/jestspeck/internal/projection"
	"github.com/bartekus/jestspeck/internal/scanner"
	"github.com/bartekus/jestspeck/internal/speck"
	"github.com/bartekus/jestspeck/internal/sweep"
)

func newGenerateCommand(opts *rootOptions) *cobra.Command {
	var (
		docPath string
		asJSON  bool
	)

	cmd := &cobra.Command{
		Use:   "generate [paths...]",
		Short: "Create or extend test shells for source files",
		Long: `Creates a .spec.jsx shell for every source file carrying a speck comment,
or appends stubs for interactions not yet present in an existing shell.
Without arguments the whole project is scanned; directories are scanned recursively.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			root, cfg, err := opts.project(cmd)
			if err != nil {
				return err
			}

			if docPath != "" {
				if len(args) != 1 {
					return clierr.Usagef("--doc requires exactly one source path")
				}
				return generateFromDoc(cmd, opts, root, cfg, args[0], docPath)
			}

			files, err := collectSources(cmd, opts, root, cfg, args)
			if err != nil {
				return err
			}

			engine, err := cfg.Engine(root)
			if err != nil {
				return clierr.Usage("configuring engine", err)
			}
			progressOut := cmd.OutOrStdout()
			if asJSON {
				progressOut = cmd.ErrOrStderr()
			}
			r := sweep.NewRunner(root, engine, sweep.NewStateStore(cfg.StatePath(root)),
				sweep.WithProgress(opts.progress(progressOut)),
				sweep.WithZap(opts.logger))

			last, runErr := r.Run(cmd.Context(), files)
			if last != nil {
				if err := printRun(cmd.OutOrStdout(), last, asJSON); err != nil {
					return err
				}
			}
			if errors.Is(runErr, sweep.ErrFilesFailed) {
				return clierr.FilesFailed("generate", runErr)
			}
			return runErr
		},
	}

	cmd.Flags().StringVar(&docPath, "doc", "", "use a pre-parsed JSON doc ({name, interactions}) for the single source path")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the run summary as JSON")
	return cmd
}

func filterOptions(cfg config.Config) scanner.FilterOptions {
	return scanner.FilterOptions{
		ExcludeDirs:       cfg.ExcludeDirs,
		IncludeExtensions: cfg.Extensions,
		ExcludeSuffixes:   scanner.DefaultExcludeSuffixes(),
	}
}

// collectSources expands args into root-relative (or absolute, outside root) source paths.
func collectSources(cmd *cobra.Command, opts *rootOptions, root string, cfg config.Config, args []string) ([]string, error) {
	fopts := filterOptions(cfg)
	if len(args) == 0 {
		args = []string{root}
	}

	var files []string
	for _, arg := range args {
		abs, err := filepath.Abs(arg)
		if err != nil {
			return nil, err
		}
		info, err := os.Stat(abs)
		if err != nil {
			return nil, clierr.Usage("reading source path", err)
		}
		if !info.IsDir() {
			files = append(files, relTo(root, abs))
			continue
		}

		found, err := scanner.New(abs).Sources(cmd.Context(), fopts, !opts.noGit)
		if err != nil {
			return nil, err
		}
		for _, f := range found {
			files = append(files, relTo(root, filepath.Join(abs, filepath.FromSlash(f))))
		}
	}
	return files, nil
}

func relTo(root, abs string) string {
	rel, err := filepath.Rel(root, abs)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return abs
	}
	return filepath.ToSlash(rel)
}

func generateFromDoc(cmd *cobra.Command, opts *rootOptions, root string, cfg config.Config, source, docPath string) error {
	data, err := os.ReadFile(docPath)
	if err != nil {
		return clierr.Usage("reading --doc", err)
	}
	var doc speck.Doc
	if err := json.Unmarshal(data, &doc); err != nil {
		return clierr.Usage("decoding --doc", err)
	}

	engine, err := cfg.Engine(root)
	if err != nil {
		return clierr.Usage("configuring engine", err)
	}
	res, err := engine.Generate(opts.progress(cmd.OutOrStdout()), source, doc)
	if err != nil {
		return err
	}
	if res.Path != "" {
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", res.Mode, res.Path)
	} else {
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\n", res.Mode)
	}
	return nil
}

func printRun(w io.Writer, last *sweep.LastRun, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(last)
	}

	counts := last.Counts()
	_, _ = fmt.Fprintf(w, "Processed %d files:", len(last.Files))
	for _, k := range projection.SortedKeys(counts) {
		_, _ = fmt.Fprintf(w, " %s=%d", k, counts[k])
	}
	_, _ = fmt.Fprintln(w)
	for _, f := range last.Failed {
		_, _ = fmt.Fprintf(w, "FAIL: %s\n", f)
	}
	return nil
}
