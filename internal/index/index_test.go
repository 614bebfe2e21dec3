package index

import (
	"context"
	"crypto/sha256"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/claimforge/claimforge/internal/model"
	"github.com/claimforge/claimforge/internal/store"
)

// hashEmbedder maps text deterministically to a normalized vector, so equal
// texts always embed identically without any API calls.
type hashEmbedder struct {
	model string
	calls int
}

func (h *hashEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	h.calls++
	sum := sha256.Sum256([]byte(text))
	vec := make([]float32, 8)
	var norm float64
	for i := range vec {
		vec[i] = float32(sum[i]) + 1
		norm += float64(vec[i]) * float64(vec[i])
	}
	norm = math.Sqrt(norm)
	for i := range vec {
		vec[i] = float32(float64(vec[i]) / norm)
	}
	return vec, nil
}

func (h *hashEmbedder) ModelName() string {
	return h.model
}

func testTable(t *testing.T) *store.Table {
	t.Helper()
	path := filepath.Join(t.TempDir(), "claims.csv")
	content := "PatientFirstName,PatientLastName,MedicalRecordNumber,PrimaryPayerName,AdmissionDate\n" +
		"Nicholas,Patel,MRN123,Acme Health,01/02/2024\n" +
		"Maria,Gonzalez,MRN456,Beacon Mutual,02/11/2024\n" +
		"James,Okafor,MRN789,Lakeside Care,03/05/2024\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write csv: %v", err)
	}
	table, err := store.Load(path)
	if err != nil {
		t.Fatalf("load table: %v", err)
	}
	return table
}

func TestCollectionName(t *testing.T) {
	got := CollectionName("text-embedding-3-large")
	want := "ub04_claims_text_embedding_3_large"
	if got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}
}

func TestRenderDocument(t *testing.T) {
	rec := model.PatientRecord{
		Row: 0,
		Fields: map[string]string{
			model.ColFirstName:     "Nicholas",
			model.ColLastName:      "Patel",
			model.ColMRN:           "MRN123",
			model.ColPayerName:     "Acme Health",
			model.ColAdmissionDate: "01/02/2024",
		},
	}

	want := "Patient Name: Nicholas Patel. Medical Record Number: MRN123. Payer: Acme Health. Admission Date: 01/02/2024."
	if got := RenderDocument(rec); got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}
}

func TestIndex_QueryBeforeBuild(t *testing.T) {
	idx, err := Open(t.TempDir(), &hashEmbedder{model: "test-model"})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	_, err = idx.Query(context.Background(), "Patel", 1)
	if err != ErrEmptyIndex {
		t.Errorf("Expected ErrEmptyIndex, got %v", err)
	}
}

func TestIndex_EnsureBuilt_Idempotent(t *testing.T) {
	table := testTable(t)
	embedder := &hashEmbedder{model: "test-model"}

	idx, err := Open(t.TempDir(), embedder)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	ctx := context.Background()
	if err := idx.EnsureBuilt(ctx, table); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if idx.Len() != table.Len() {
		t.Fatalf("Expected %d indexed documents, got %d", table.Len(), idx.Len())
	}

	callsAfterBuild := embedder.calls

	// Second build must be a no-op: same size, no new embeddings.
	if err := idx.EnsureBuilt(ctx, table); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if idx.Len() != table.Len() {
		t.Errorf("Expected index size unchanged at %d, got %d", table.Len(), idx.Len())
	}
	if embedder.calls != callsAfterBuild {
		t.Errorf("Expected no additional embedding calls, got %d new", embedder.calls-callsAfterBuild)
	}
}

func TestIndex_ExactTextReturnsOwnRow(t *testing.T) {
	table := testTable(t)
	idx, err := Open(t.TempDir(), &hashEmbedder{model: "test-model"})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	ctx := context.Background()
	if err := idx.EnsureBuilt(ctx, table); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	for row := 0; row < table.Len(); row++ {
		rec, err := table.Row(row)
		if err != nil {
			t.Fatalf("row %d: %v", row, err)
		}

		matches, err := idx.Query(ctx, RenderDocument(rec), 1)
		if err != nil {
			t.Fatalf("query row %d: %v", row, err)
		}
		if len(matches) != 1 {
			t.Fatalf("Expected 1 match, got %d", len(matches))
		}
		if matches[0].Row != row {
			t.Errorf("Expected top match for row %d's own text to be row %d, got %d", row, row, matches[0].Row)
		}
	}
}

func TestIndex_NamespaceIsolation(t *testing.T) {
	table := testTable(t)
	dir := t.TempDir()

	idxA, err := Open(dir, &hashEmbedder{model: "model-a"})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if err := idxA.EnsureBuilt(context.Background(), table); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	// A second model over the same dir sees its own empty collection, not
	// the documents inserted under model-a.
	idxB, err := Open(dir, &hashEmbedder{model: "model-b"})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if idxB.Len() != 0 {
		t.Errorf("Expected model-b collection to be empty, got %d documents", idxB.Len())
	}
	if _, err := idxB.Query(context.Background(), "Patel", 1); err != ErrEmptyIndex {
		t.Errorf("Expected ErrEmptyIndex for unbuilt namespace, got %v", err)
	}
}

func TestIndex_PersistsAcrossReopen(t *testing.T) {
	table := testTable(t)
	dir := t.TempDir()
	embedder := &hashEmbedder{model: "test-model"}

	idx, err := Open(dir, embedder)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if err := idx.EnsureBuilt(context.Background(), table); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	reopened, err := Open(dir, &hashEmbedder{model: "test-model"})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if reopened.Len() != table.Len() {
		t.Errorf("Expected %d documents after reopen, got %d", table.Len(), reopened.Len())
	}
}
