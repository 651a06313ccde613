package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"fnscan/config"
	"fnscan/internal/adapter/fs"
	"fnscan/internal/adapter/store"
	"fnscan/internal/usecase"
)

var indexCmd = &cobra.Command{
	Use:   "index [path]",
	Short: "Extract every source file under a directory",
	Long: `Extract function records from all matching files in the specified
directory. Records are stored in .fnscan/records.db within the target directory
and only changed files are re-scanned on later runs.

Examples:
  fnscan index .                 # Index current directory
  fnscan index /path/to/project  # Index specific directory`,
	Args: cobra.MaximumNArgs(1),
	RunE: runIndex,
}

func init() {
	rootCmd.AddCommand(indexCmd)
}

func runIndex(cmd *cobra.Command, args []string) error {
	path, err := resolveDir(args)
	if err != nil {
		return err
	}

	cfg := GetConfig()
	out := cmd.OutOrStdout()

	st, err := openStore(path, cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	uc, err := newIndexUseCase(st, cfg)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Scanning %s...\n", path)

	var bar *progressbar.ProgressBar
	var startTime time.Time

	progressCallback := func(processed, total int, currentFile string) {
		if bar == nil {
			startTime = time.Now()
			bar = progressbar.NewOptions(total,
				progressbar.OptionSetWriter(cmd.ErrOrStderr()),
				progressbar.OptionEnableColorCodes(true),
				progressbar.OptionShowBytes(false),
				progressbar.OptionSetWidth(40),
				progressbar.OptionShowCount(),
				progressbar.OptionSetDescription("[cyan]Extracting[reset]"),
				progressbar.OptionSetTheme(progressbar.Theme{
					Saucer:        "[green]=[reset]",
					SaucerHead:    "[green]>[reset]",
					SaucerPadding: " ",
					BarStart:      "[",
					BarEnd:        "]",
				}),
				progressbar.OptionOnCompletion(func() {
					fmt.Fprintln(cmd.ErrOrStderr())
				}),
			)
		}

		bar.Set(processed)

		if processed > 0 && processed < total {
			rate := float64(processed) / time.Since(startTime).Seconds()
			if rate > 0 {
				eta := time.Duration(float64(total-processed)/rate) * time.Second
				bar.Describe(fmt.Sprintf("[cyan]Extracting[reset] ETA: %s", formatDuration(eta)))
			}
		}
	}

	result, err := uc.Index(path, progressCallback)
	if err != nil {
		return fmt.Errorf("indexing failed: %w", err)
	}

	if err := st.Migrate(cfg); err != nil {
		return fmt.Errorf("failed to update schema info: %w", err)
	}

	fmt.Fprintf(out, "\nIndexing complete:\n")
	fmt.Fprintf(out, "  Files indexed:    %d\n", result.FilesIndexed)
	fmt.Fprintf(out, "  Files skipped:    %d (unchanged)\n", result.FilesSkipped)
	fmt.Fprintf(out, "  Files deleted:    %d (removed)\n", result.FilesDeleted)
	fmt.Fprintf(out, "  Files rejected:   %d\n", result.FilesFailed)
	fmt.Fprintf(out, "  Functions stored: %d\n", result.RecordsCreated)

	if len(result.Errors) > 0 {
		fmt.Fprintf(out, "\nWarnings:\n")
		for _, e := range result.Errors {
			fmt.Fprintf(out, "  - %s\n", e)
		}
	}

	fmt.Fprintf(out, "\nRecords stored at: %s\n", config.IndexDBPath(path))
	return nil
}

// resolveDir returns the directory named by args, or the root directory.
func resolveDir(args []string) (string, error) {
	path := GetRootDir()
	if len(args) > 0 {
		var err error
		path, err = filepath.Abs(args[0])
		if err != nil {
			return "", fmt.Errorf("invalid path: %w", err)
		}
	}

	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("path does not exist: %w", err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("path is not a directory: %s", path)
	}
	return path, nil
}

// openStore opens the record store under dir, clearing it when the scan
// configuration changed since it was written.
func openStore(dir string, cfg *config.Config) (*store.BoltStore, error) {
	if err := config.EnsureDataDir(dir); err != nil {
		return nil, fmt.Errorf("failed to create .fnscan directory: %w", err)
	}

	st, err := store.NewBoltStore(config.IndexDBPath(dir))
	if err != nil {
		return nil, fmt.Errorf("failed to open record store: %w", err)
	}

	migration, err := st.CheckMigration(cfg)
	if err != nil {
		st.Close()
		return nil, fmt.Errorf("failed to check migration: %w", err)
	}

	log := GetLogger()
	if migration.NeedsRebuild {
		log.Info("rebuilding record store", "reason", migration.Reason)
		if err := st.Clear(); err != nil {
			st.Close()
			return nil, fmt.Errorf("failed to clear records: %w", err)
		}
	}
	if migration.NeedsRebuild || migration.NeedsMigration {
		if migration.NeedsMigration {
			log.Info("running schema migration", "reason", migration.Reason)
		}
		if err := st.Migrate(cfg); err != nil {
			st.Close()
			return nil, fmt.Errorf("migration failed: %w", err)
		}
	}

	return st, nil
}

func newIndexUseCase(st *store.BoltStore, cfg *config.Config) (*usecase.IndexUseCase, error) {
	extract, err := newExtractUseCase(cfg)
	if err != nil {
		return nil, err
	}
	walker := fs.NewWalker(cfg.Scan.Includes, cfg.Scan.Excludes)
	return usecase.NewIndexUseCase(st, walker, extract, GetLogger()), nil
}

// formatDuration formats a duration in a human-readable way.
func formatDuration(d time.Duration) string {
	if d < time.Second {
		return "<1s"
	}
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}
	if d < time.Hour {
		m := int(d.Minutes())
		s := int(d.Seconds()) % 60
		return fmt.Sprintf("%dm%ds", m, s)
	}
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	return fmt.Sprintf("%dh%dm", h, m)
}
