package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"fnscan/config"
	"fnscan/internal/adapter/emitter"
	"fnscan/internal/adapter/fs"
	"fnscan/internal/adapter/scanner"
	"fnscan/internal/usecase"
)

var (
	extractOutput string
	extractIndent string
)

var extractCmd = &cobra.Command{
	Use:   "extract <file>",
	Short: "Extract function signatures from one file",
	Long: `Scan a single source file and write its functions as JSON.
Nothing is written when an argument list is malformed.

Examples:
  fnscan extract main.c                 # Writes output.json
  fnscan extract main.c -o -            # Prints to stdout
  fnscan extract main.c --indent "  "   # Pretty-printed`,
	Args: cobra.ExactArgs(1),
	RunE: runExtract,
}

func init() {
	rootCmd.AddCommand(extractCmd)
	extractCmd.Flags().StringVarP(&extractOutput, "output", "o", "", "output path, - for stdout (default from config)")
	extractCmd.Flags().StringVar(&extractIndent, "indent", "", "indent string for pretty output (default from config)")
}

func runExtract(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()
	if extractIndent != "" {
		cfg.Emit.Indent = extractIndent
	}

	uc, err := newExtractUseCase(cfg)
	if err != nil {
		return err
	}

	dest := cfg.Emit.Output
	if extractOutput != "" {
		dest = extractOutput
	}

	n, err := uc.Run(args[0], dest)
	if err != nil {
		return fmt.Errorf("extraction failed: %w", err)
	}

	if dest != "-" {
		fmt.Fprintf(cmd.OutOrStdout(), "Extracted %d functions from %s into %s\n", n, args[0], dest)
	}
	return nil
}

func newExtractUseCase(cfg *config.Config) (*usecase.ExtractUseCase, error) {
	reader, err := fs.NewSourceReader(cfg.Scan.Encoding)
	if err != nil {
		return nil, err
	}
	return usecase.NewExtractUseCase(reader, scanner.New(), emitter.New(), cfg.Emit.Indent, GetLogger()), nil
}
