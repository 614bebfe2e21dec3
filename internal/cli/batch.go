package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/claimforge/claimforge/internal/model"
	"github.com/claimforge/claimforge/internal/pipeline"
	"github.com/spf13/cobra"
)

var (
	namesFile    string
	outputDir    string
	zipPath      string
	batchTimeout time.Duration
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch [patient name]...",
	Short: "Build UB-04 claim PDFs for multiple patients",
	Long: `Batch builds one claim PDF per patient, strictly in order:
- Patients come from arguments or from a file (one name per line)
- Patients are processed sequentially; the form filler writes to a single
  shared path before each result is copied to its per-patient file
- A failed patient is recorded and the batch continues

Example:
  claimforge batch "Patel Nicholas" "Gonzalez Maria"
  claimforge batch --file patients.txt --output-dir ./claims
  claimforge batch --file patients.txt --zip claims.zip`,
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().StringVar(&namesFile, "file", "", "file with patient names, one per line")
	batchCmd.Flags().StringVar(&outputDir, "output-dir", "", "directory for per-patient PDFs")
	batchCmd.Flags().StringVar(&zipPath, "zip", "", "write successful PDFs into this zip archive")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 30*time.Minute, "total timeout for batch processing")

	// Shared with build
	batchCmd.Flags().StringVar(&csvPath, "csv", "", "patient claims CSV path")
	batchCmd.Flags().StringVar(&indexDir, "index-dir", "", "persistent vector index directory")
	batchCmd.Flags().StringVar(&templatePath, "template", "", "UB-04 PDF template path")
	batchCmd.Flags().StringVar(&embeddingModel, "embedding-model", "", "embedding model name")
	batchCmd.Flags().StringVar(&llmModel, "llm-model", "", "chat model for claim normalization")
	batchCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the embedding cache")
}

func runBatch(cmd *cobra.Command, args []string) error {
	names := args
	if namesFile != "" {
		fromFile, err := pipeline.ReadNamesFromFile(namesFile)
		if err != nil {
			return fmt.Errorf("read names: %w", err)
		}
		names = append(names, fromFile...)
	}
	if len(names) == 0 {
		return fmt.Errorf("no patients given: pass names as arguments or use --file")
	}

	ctx, cancel := context.WithTimeout(context.Background(), batchTimeout)
	defer cancel()

	cfg := model.DefaultConfig()
	applyFlags(cfg)
	if outputDir != "" {
		cfg.Form.OutputDir = outputDir
	}
	if err := loadAPIKey(cfg); err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "Processing %d patients sequentially into %s\n\n", len(names), cfg.Form.OutputDir)

	p, _, err := newPipeline(ctx, cfg, milestoneSink())
	if err != nil {
		return err
	}

	processor := pipeline.NewBatchProcessor(p, cfg.Form.OutputDir)
	results := processor.Process(ctx, names)

	succeeded := 0
	for i, result := range results {
		if result.Success {
			succeeded++
			fmt.Printf("✓ [%d/%d] %s → %s\n", i+1, len(results), result.Patient, result.Path)
		} else {
			fmt.Printf("✗ [%d/%d] %s: %s\n", i+1, len(results), result.Patient, result.Err)
		}
	}
	fmt.Printf("\n%d/%d patients succeeded\n", succeeded, len(results))

	if zipPath != "" && succeeded > 0 {
		if err := pipeline.WriteArchive(zipPath, results); err != nil {
			return fmt.Errorf("write archive: %w", err)
		}
		fmt.Printf("✓ Wrote archive %s\n", zipPath)
	}

	if succeeded == 0 {
		return fmt.Errorf("all %d patients failed", len(results))
	}
	return nil
}
