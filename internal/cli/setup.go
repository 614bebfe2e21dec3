package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/claimforge/claimforge/internal/cache"
	"github.com/claimforge/claimforge/internal/embed"
	"github.com/claimforge/claimforge/internal/extract"
	"github.com/claimforge/claimforge/internal/form"
	"github.com/claimforge/claimforge/internal/index"
	"github.com/claimforge/claimforge/internal/lookup"
	"github.com/claimforge/claimforge/internal/model"
	"github.com/claimforge/claimforge/internal/pipeline"
	"github.com/claimforge/claimforge/internal/progress"
	"github.com/claimforge/claimforge/internal/ratelimit"
	"github.com/claimforge/claimforge/internal/store"
)

// loadAPIKey injects the OpenAI credential into both model configs. A
// missing key aborts here, before any patient work starts.
func loadAPIKey(cfg *model.Config) error {
	key := os.Getenv("OPENAI_API_KEY")
	if key == "" {
		return fmt.Errorf("OPENAI_API_KEY environment variable not set")
	}
	cfg.Embedding.APIKey = key
	cfg.LLM.APIKey = key
	return nil
}

// newPipeline wires the full claim-building pipeline from configuration:
// table, embedder (cached), index (built on first use), lookup service,
// extractor and form filler.
func newPipeline(ctx context.Context, cfg *model.Config, sink progress.Sink) (*pipeline.Pipeline, *store.Table, error) {
	table, err := store.Load(cfg.Data.CSVPath)
	if err != nil {
		return nil, nil, fmt.Errorf("load records: %w", err)
	}

	limiter := ratelimit.NewLimiter(cfg.Embedding.RPM, 2)
	limiter.SetOperationRate(extract.Operation, cfg.LLM.RPM, 2)

	var embedder embed.Embedder
	embedder, err = embed.NewOpenAIEmbedder(cfg.Embedding, limiter)
	if err != nil {
		return nil, nil, fmt.Errorf("embedder: %w", err)
	}
	if cfg.Cache.Enabled {
		embedder = embed.NewCachedEmbedder(embedder,
			cache.NewLayeredCache(cfg.Cache.MemoryTTL, cfg.Cache.Dir, cfg.Cache.DiskTTL))
	}

	idx, err := index.Open(cfg.Index.Dir, embedder)
	if err != nil {
		return nil, nil, fmt.Errorf("open index: %w", err)
	}

	if idx.Len() == 0 && verbose {
		fmt.Fprintf(os.Stderr, "⚙️  Index is empty, embedding %d patient records...\n", table.Len())
	}
	if err := idx.EnsureBuilt(ctx, table); err != nil {
		return nil, nil, fmt.Errorf("build index: %w", err)
	}

	extractor, err := extract.NewOpenAIExtractor(cfg.LLM, limiter)
	if err != nil {
		return nil, nil, fmt.Errorf("extractor: %w", err)
	}

	filler := form.NewFiller(cfg.Form.TemplatePath)
	svc := lookup.NewService(table, idx)

	return pipeline.New(cfg, svc, extractor, filler, sink), table, nil
}

// milestoneSink prints one line per pipeline stage to stderr when verbose
// output is on, mirroring the milestone stream a UI would subscribe to.
func milestoneSink() progress.Sink {
	if !verbose {
		return progress.Discard{}
	}

	emoji := map[progress.Stage]string{
		progress.StageLookup:  "🔎",
		progress.StageExtract: "📊",
		progress.StageMap:     "🗂",
		progress.StageFill:    "📝",
		progress.StageDone:    "✅",
		progress.StageFailed:  "❌",
	}

	seen := make(map[string]bool)
	return progress.Func(func(e progress.Event) {
		key := e.RunID + ":" + string(e.Stage)
		if seen[key] {
			return
		}
		seen[key] = true
		fmt.Fprintf(os.Stderr, "%s %s\n", emoji[e.Stage], e.Message)
	})
}
