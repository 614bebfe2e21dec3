package lookup

import (
	"context"
	"errors"
	"fmt"

	"github.com/claimforge/claimforge/internal/index"
	"github.com/claimforge/claimforge/internal/model"
	"github.com/claimforge/claimforge/internal/store"
)

// ErrNotFound indicates no patient matched the queried name.
var ErrNotFound = errors.New("patient not found")

// Service resolves free-text patient names to table rows through the
// semantic index.
type Service struct {
	table *store.Table
	index *index.Index
}

// NewService creates a lookup service over the given table and index.
func NewService(table *store.Table, idx *index.Index) *Service {
	return &Service{table: table, index: idx}
}

// FindPatient returns the best-matching row for name. The result is the
// best semantic match, not an exact one: similar names may resolve to the
// same row. ErrNotFound is recoverable and reported per patient.
func (s *Service) FindPatient(ctx context.Context, name string) (model.PatientRecord, error) {
	matches, err := s.index.Query(ctx, name, 1)
	if err != nil {
		return model.PatientRecord{}, fmt.Errorf("query patient index: %w", err)
	}
	if len(matches) == 0 {
		return model.PatientRecord{}, fmt.Errorf("no patient found matching %q: %w", name, ErrNotFound)
	}

	rec, err := s.table.Row(matches[0].Row)
	if err != nil {
		return model.PatientRecord{}, fmt.Errorf("resolve row %d: %w", matches[0].Row, err)
	}
	return rec, nil
}
