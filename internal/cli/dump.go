package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"fnscan/config"
	"fnscan/internal/adapter/store"
)

var (
	dumpOutput string
	dumpStats  bool
)

var dumpCmd = &cobra.Command{
	Use:   "dump",
	Short: "Write the combined document for all indexed files",
	Long: `Write one JSON document with the functions of every indexed file,
files in path order and functions in source order.

Examples:
  fnscan dump                  # Writes output.json
  fnscan dump -o - --stats     # Prints the document and store statistics`,
	Args: cobra.NoArgs,
	RunE: runDump,
}

func init() {
	rootCmd.AddCommand(dumpCmd)
	dumpCmd.Flags().StringVarP(&dumpOutput, "output", "o", "", "output path, - for stdout (default from config)")
	dumpCmd.Flags().BoolVar(&dumpStats, "stats", false, "print store statistics to stderr")
}

func runDump(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()
	rootDir := GetRootDir()

	dbPath := config.IndexDBPath(rootDir)
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		return fmt.Errorf("no records found. Run 'fnscan index' first")
	}

	st, err := store.NewBoltStore(dbPath)
	if err != nil {
		return fmt.Errorf("failed to open record store: %w", err)
	}
	defer st.Close()

	records, err := st.AllRecords()
	if err != nil {
		return fmt.Errorf("failed to read records: %w", err)
	}

	uc, err := newExtractUseCase(cfg)
	if err != nil {
		return err
	}

	dest := resolveOutput(rootDir, cfg.Emit.Output, dumpOutput)
	if err := uc.WriteDocument(records, dest); err != nil {
		return fmt.Errorf("failed to write document: %w", err)
	}

	if dumpStats {
		stats, err := st.GetStats()
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Documents: %d  Functions: %d  Rejected: %d\n",
			stats.TotalDocs, stats.TotalRecords, stats.FailedDocs)
	}
	return nil
}

// resolveOutput picks the flag value over the configured output and places
// a relative configured path under root. An explicit flag is used as given.
func resolveOutput(root, configured, flag string) string {
	if flag != "" {
		return flag
	}
	if configured == "" || configured == "-" || filepath.IsAbs(configured) {
		return configured
	}
	return filepath.Join(root, configured)
}
