package store

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/claimforge/claimforge/internal/model"
)

// requiredColumns are the CSV columns the pipeline depends on. Any other
// column is carried through verbatim.
var requiredColumns = []string{
	model.ColFirstName,
	model.ColLastName,
	model.ColMRN,
	model.ColPayerName,
	model.ColAdmissionDate,
}

// Table is the in-memory tabular record store. It is read-only after load;
// records are keyed by row position.
type Table struct {
	headers []string
	rows    [][]string
	colIdx  map[string]int
}

// Load reads the patient claims CSV at path into a Table. It fails if the
// file does not exist or if any required column is absent from the header.
func Load(path string) (*Table, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open csv: %w", err)
	}
	defer func() { _ = file.Close() }()

	// Buffered reading with UTF-8 BOM tolerance, since exported claim
	// files frequently carry one.
	bufReader := bufio.NewReaderSize(file, 64*1024)
	if bom, err := bufReader.Peek(3); err == nil && len(bom) >= 3 && bom[0] == 0xEF && bom[1] == 0xBB && bom[2] == 0xBF {
		_, _ = bufReader.Discard(3)
	}

	reader := csv.NewReader(bufReader)
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	headers, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	if len(headers) > 0 {
		headers[0] = strings.TrimPrefix(headers[0], "\uFEFF")
	}

	colIdx := make(map[string]int, len(headers))
	for i, h := range headers {
		colIdx[strings.TrimSpace(h)] = i
	}

	var missing []string
	for _, col := range requiredColumns {
		if _, ok := colIdx[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("csv %s: missing required columns: %s", path, strings.Join(missing, ", "))
	}

	var rows [][]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", len(rows)+2, err)
		}
		rows = append(rows, record)
	}

	return &Table{
		headers: headers,
		colIdx:  colIdx,
		rows:    rows,
	}, nil
}

// Len returns the number of data rows.
func (t *Table) Len() int {
	return len(t.rows)
}

// Row returns the record at the given row position.
func (t *Table) Row(i int) (model.PatientRecord, error) {
	if i < 0 || i >= len(t.rows) {
		return model.PatientRecord{}, fmt.Errorf("row %d out of range (table has %d rows)", i, len(t.rows))
	}

	fields := make(map[string]string, len(t.headers))
	for col, idx := range t.colIdx {
		if idx < len(t.rows[i]) {
			fields[col] = strings.TrimSpace(t.rows[i][idx])
		} else {
			fields[col] = ""
		}
	}

	return model.PatientRecord{Row: i, Fields: fields}, nil
}

// FullNames returns every patient's "First Last" name in row order. The
// presentation layer uses this to populate selection lists.
func (t *Table) FullNames() []string {
	names := make([]string, 0, len(t.rows))
	for i := range t.rows {
		rec, err := t.Row(i)
		if err != nil {
			continue
		}
		names = append(names, rec.FullName())
	}
	return names
}
