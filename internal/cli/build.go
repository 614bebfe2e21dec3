package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/claimforge/claimforge/internal/model"
	"github.com/spf13/cobra"
)

var (
	csvPath        string
	indexDir       string
	templatePath   string
	outputPath     string
	embeddingModel string
	llmModel       string
	buildTimeout   time.Duration
	noCache        bool
)

// buildCmd represents the build command
var buildCmd = &cobra.Command{
	Use:   "build <patient name>",
	Short: "Build a UB-04 claim PDF for one patient",
	Long: `Build looks the patient up in the claims CSV by semantic name match,
normalizes the matched record into a validated UB-04 claim, and fills the
PDF template with it.

The first run embeds every CSV row into a persistent index; later runs
reuse the index as-is. Edit the CSV and the index will NOT refresh itself:
delete the index directory to force a rebuild.

Example:
  claimforge build "Patel Nicholas"
  claimforge build "Patel Nicholas" --output claims/patel.pdf -v`,
	Args: cobra.ExactArgs(1),
	RunE: runBuild,
}

func init() {
	rootCmd.AddCommand(buildCmd)

	buildCmd.Flags().StringVar(&csvPath, "csv", "", "patient claims CSV path")
	buildCmd.Flags().StringVar(&indexDir, "index-dir", "", "persistent vector index directory")
	buildCmd.Flags().StringVar(&templatePath, "template", "", "UB-04 PDF template path")
	buildCmd.Flags().StringVar(&outputPath, "output", "", "filled PDF output path")
	buildCmd.Flags().StringVar(&embeddingModel, "embedding-model", "", "embedding model name")
	buildCmd.Flags().StringVar(&llmModel, "llm-model", "", "chat model for claim normalization")
	buildCmd.Flags().DurationVar(&buildTimeout, "timeout", 5*time.Minute, "overall run timeout")
	buildCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the embedding cache")
}

// applyFlags overlays the non-empty command flags onto cfg.
func applyFlags(cfg *model.Config) {
	if csvPath != "" {
		cfg.Data.CSVPath = csvPath
	}
	if indexDir != "" {
		cfg.Index.Dir = indexDir
	}
	if templatePath != "" {
		cfg.Form.TemplatePath = templatePath
	}
	if outputPath != "" {
		cfg.Form.OutputPath = outputPath
	}
	if embeddingModel != "" {
		cfg.Embedding.Model = embeddingModel
	}
	if llmModel != "" {
		cfg.LLM.Model = llmModel
	}
	cfg.Cache.Enabled = !noCache
	cfg.Output.Verbose = verbose
}

func runBuild(cmd *cobra.Command, args []string) error {
	patientName := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), buildTimeout)
	defer cancel()

	cfg := model.DefaultConfig()
	applyFlags(cfg)
	if err := loadAPIKey(cfg); err != nil {
		return err
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "Patient:  %s\n", patientName)
		fmt.Fprintf(os.Stderr, "CSV:      %s\n", cfg.Data.CSVPath)
		fmt.Fprintf(os.Stderr, "Template: %s\n", cfg.Form.TemplatePath)
		fmt.Fprintln(os.Stderr)
	}

	p, _, err := newPipeline(ctx, cfg, milestoneSink())
	if err != nil {
		return err
	}

	result, err := p.BuildClaim(ctx, patientName)
	if err != nil {
		return fmt.Errorf("build claim: %w", err)
	}

	fmt.Printf("✓ Wrote %s (%d fields updated)\n", result.Report.OutputPath, result.Report.UpdatedFields)
	if len(result.Report.UnmatchedKeys) > 0 {
		fmt.Fprintf(os.Stderr, "Warning: %d mapped keys had no template widget: %v\n",
			len(result.Report.UnmatchedKeys), result.Report.UnmatchedKeys)
	}

	return nil
}
