package pipeline

import (
	"archive/zip"
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/claimforge/claimforge/internal/model"
	"github.com/claimforge/claimforge/internal/util"
)

// ClaimBuilder builds one patient's claim PDF.
type ClaimBuilder interface {
	BuildClaim(ctx context.Context, patientName string) (*RunResult, error)
}

// BatchProcessor processes multiple patients strictly sequentially. The
// form filler writes to a single shared output path before each result is
// copied aside, so running patients in parallel would corrupt the PDFs;
// sequencing here is a correctness requirement, not a tuning choice.
type BatchProcessor struct {
	builder   ClaimBuilder
	outputDir string
}

// NewBatchProcessor creates a batch processor copying per-patient PDFs
// into outputDir.
func NewBatchProcessor(builder ClaimBuilder, outputDir string) *BatchProcessor {
	return &BatchProcessor{
		builder:   builder,
		outputDir: outputDir,
	}
}

// Process builds a claim for every name in order. One patient's failure is
// recorded and never aborts the rest; the result slice always has one
// entry per input name, in input order.
func (b *BatchProcessor) Process(ctx context.Context, names []string) []model.PatientResult {
	results := make([]model.PatientResult, 0, len(names))

	for _, name := range names {
		result, err := b.builder.BuildClaim(ctx, name)
		if err != nil {
			results = append(results, model.PatientResult{
				Patient: name,
				Success: false,
				Err:     err.Error(),
			})
			continue
		}

		// BuildClaim returns after the PDF is closed, so the copy can
		// happen immediately.
		copyPath := filepath.Join(b.outputDir, fmt.Sprintf("ub04_claim_%s.pdf", util.Slugify(name)))
		if err := copyFile(result.Report.OutputPath, copyPath); err != nil {
			results = append(results, model.PatientResult{
				Patient: name,
				Success: false,
				Err:     fmt.Sprintf("copy pdf: %v", err),
			})
			continue
		}

		results = append(results, model.PatientResult{
			Patient: name,
			Path:    copyPath,
			Success: true,
		})
	}

	return results
}

// ReadNamesFromFile reads patient names from a file, one per line. Blank
// lines and #-comments are skipped; duplicates are dropped.
func ReadNamesFromFile(filePath string) ([]string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var names []string
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if !seen[line] {
			seen[line] = true
			names = append(names, line)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}

	return names, nil
}

// WriteArchive zips every successful result's PDF into zipPath, for
// single-download delivery of a batch.
func WriteArchive(zipPath string, results []model.PatientResult) error {
	if dir := filepath.Dir(zipPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create archive dir: %w", err)
		}
	}

	out, err := os.Create(zipPath)
	if err != nil {
		return fmt.Errorf("create archive: %w", err)
	}
	defer func() { _ = out.Close() }()

	w := zip.NewWriter(out)
	for _, result := range results {
		if !result.Success || result.Path == "" {
			continue
		}

		src, err := os.Open(result.Path)
		if err != nil {
			return fmt.Errorf("open %s: %w", result.Path, err)
		}

		entry, err := w.Create(filepath.Base(result.Path))
		if err != nil {
			_ = src.Close()
			return fmt.Errorf("archive entry %s: %w", result.Path, err)
		}
		if _, err := io.Copy(entry, src); err != nil {
			_ = src.Close()
			return fmt.Errorf("archive %s: %w", result.Path, err)
		}
		_ = src.Close()
	}

	if err := w.Close(); err != nil {
		return fmt.Errorf("finalize archive: %w", err)
	}
	return out.Close()
}

func copyFile(src, dst string) error {
	if dir := filepath.Dir(dst); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create dir: %w", err)
		}
	}

	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open %s: %w", src, err)
	}
	defer func() { _ = in.Close() }()

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("create %s: %w", dst, err)
	}

	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return fmt.Errorf("copy to %s: %w", dst, err)
	}
	return out.Close()
}
