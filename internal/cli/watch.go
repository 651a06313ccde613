package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"fnscan/internal/adapter/fs"
	"fnscan/internal/adapter/watch"
)

var watchCmd = &cobra.Command{
	Use:   "watch [path]",
	Short: "Re-extract files as they change",
	Long: `Index the directory, then watch it and re-extract changed source files.
After each batch of changes the combined document is rewritten.

Examples:
  fnscan watch .
  fnscan watch src -o -`,
	Args: cobra.MaximumNArgs(1),
	RunE: runWatch,
}

var watchOutput string

func init() {
	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().StringVarP(&watchOutput, "output", "o", "", "output path, - for stdout (default from config)")
}

func runWatch(cmd *cobra.Command, args []string) error {
	root, err := resolveDir(args)
	if err != nil {
		return err
	}

	cfg := GetConfig()
	log := GetLogger()

	st, err := openStore(root, cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	indexUC, err := newIndexUseCase(st, cfg)
	if err != nil {
		return err
	}
	extractUC, err := newExtractUseCase(cfg)
	if err != nil {
		return err
	}

	dest := resolveOutput(root, cfg.Emit.Output, watchOutput)

	writeAll := func() {
		records, err := st.AllRecords()
		if err != nil {
			log.Error("failed to read records", "error", err)
			return
		}
		if err := extractUC.WriteDocument(records, dest); err != nil {
			log.Error("failed to write document", "path", dest, "error", err)
			return
		}
		log.Info("document updated", "path", dest, "functions", len(records))
	}

	result, err := indexUC.Index(root, nil)
	if err != nil {
		return fmt.Errorf("initial indexing failed: %w", err)
	}
	log.Info("initial index complete", "indexed", result.FilesIndexed, "skipped", result.FilesSkipped, "rejected", result.FilesFailed)
	writeAll()

	walker := fs.NewWalker(cfg.Scan.Includes, cfg.Scan.Excludes)
	rel := func(p string) string {
		r, err := filepath.Rel(root, p)
		if err != nil {
			return p
		}
		return filepath.ToSlash(r)
	}

	w, err := watch.NewWatcher(watch.Config{
		Match:   func(p string) bool { return walker.Match(rel(p)) },
		SkipDir: func(p string) bool { return walker.ExcludesDir(rel(p)) },
		OnChange: func(paths []string) {
			if _, err := indexUC.Sync(paths); err != nil {
				log.Error("failed to update records", "error", err)
			}
			writeAll()
		},
		Debounce: time.Duration(cfg.Watch.DebounceMs) * time.Millisecond,
		Log:      log,
	})
	if err != nil {
		return fmt.Errorf("failed to start watcher: %w", err)
	}
	defer w.Stop()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Fprintf(cmd.OutOrStdout(), "Watching %s (Ctrl+C to stop)\n", root)
	if err := w.Watch(ctx, []string{root}); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
