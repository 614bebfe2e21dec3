package index

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"strconv"
	"strings"

	"github.com/claimforge/claimforge/internal/embed"
	"github.com/claimforge/claimforge/internal/model"
	"github.com/claimforge/claimforge/internal/store"
	"github.com/philippgille/chromem-go"
)

// ErrEmptyIndex indicates a query against an index that was never built.
var ErrEmptyIndex = errors.New("patient index has not been built")

const collectionPrefix = "ub04_claims_"

// Index is the persistent semantic patient index. Each indexed document is
// a textual rendering of one table row; document IDs are row positions.
type Index struct {
	collection *chromem.Collection
	modelName  string
}

// Match is one nearest-neighbor result.
type Match struct {
	Row   int
	Score float32
}

// CollectionName derives the collection name from the embedding model, so
// switching models never mixes incompatible vector spaces under one name.
func CollectionName(modelName string) string {
	safe := strings.NewReplacer("/", "_", "-", "_").Replace(modelName)
	return collectionPrefix + safe
}

// Open opens (or creates) the persistent index at dir for the embedder's
// model. The same dir holds one collection per embedding model.
func Open(dir string, embedder embed.Embedder) (*Index, error) {
	db, err := chromem.NewPersistentDB(dir, false)
	if err != nil {
		return nil, fmt.Errorf("open vector db: %w", err)
	}

	name := CollectionName(embedder.ModelName())
	collection, err := db.GetOrCreateCollection(name, nil, chromem.EmbeddingFunc(embedder.Embed))
	if err != nil {
		return nil, fmt.Errorf("open collection %s: %w", name, err)
	}

	return &Index{
		collection: collection,
		modelName:  embedder.ModelName(),
	}, nil
}

// Len returns the number of indexed documents.
func (i *Index) Len() int {
	return i.collection.Count()
}

// RenderDocument produces the denormalized text stored in the index for a
// record. The format is fixed; changing it requires rebuilding the index.
func RenderDocument(rec model.PatientRecord) string {
	return fmt.Sprintf(
		"Patient Name: %s %s. Medical Record Number: %s. Payer: %s. Admission Date: %s.",
		rec.FirstName(), rec.LastName(), rec.MRN(), rec.PayerName(), rec.AdmissionDate(),
	)
}

// EnsureBuilt populates the index from the table if it is empty. A
// non-empty index is left untouched; this is one-time indexing, not a
// refresh mechanism.
func (i *Index) EnsureBuilt(ctx context.Context, table *store.Table) error {
	if i.collection.Count() > 0 {
		return nil
	}
	if table.Len() == 0 {
		return nil
	}

	docs := make([]chromem.Document, 0, table.Len())
	for row := 0; row < table.Len(); row++ {
		rec, err := table.Row(row)
		if err != nil {
			return fmt.Errorf("read row %d: %w", row, err)
		}
		docs = append(docs, chromem.Document{
			ID:      strconv.Itoa(row),
			Content: RenderDocument(rec),
		})
	}

	if err := i.collection.AddDocuments(ctx, docs, runtime.NumCPU()); err != nil {
		return fmt.Errorf("index %d rows: %w", len(docs), err)
	}
	return nil
}

// Query embeds text and returns the k nearest indexed documents. It fails
// with ErrEmptyIndex if the index was never built.
func (i *Index) Query(ctx context.Context, text string, k int) ([]Match, error) {
	count := i.collection.Count()
	if count == 0 {
		return nil, ErrEmptyIndex
	}
	if k < 1 {
		k = 1
	}
	if k > count {
		k = count
	}

	results, err := i.collection.Query(ctx, text, k, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("query index: %w", err)
	}

	matches := make([]Match, 0, len(results))
	for _, res := range results {
		row, err := strconv.Atoi(res.ID)
		if err != nil {
			return nil, fmt.Errorf("malformed document id %q: %w", res.ID, err)
		}
		matches = append(matches, Match{Row: row, Score: res.Similarity})
	}
	return matches, nil
}
