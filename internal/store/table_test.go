package store

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "claims.csv")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write csv: %v", err)
	}
	return path
}

const sampleCSV = `PatientFirstName,PatientLastName,MedicalRecordNumber,PrimaryPayerName,AdmissionDate,FacilityName
Nicholas,Patel,MRN123,Acme Health,01/02/2024,Sunrise Nursing Home
Maria,Gonzalez,MRN456,Beacon Mutual,02/11/2024,Sunrise Nursing Home
`

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.csv"))
	if err == nil {
		t.Fatal("Expected error for missing file")
	}
}

func TestLoad_MissingColumns(t *testing.T) {
	path := writeCSV(t, "PatientFirstName,PatientLastName\nNick,Patel\n")

	_, err := Load(path)
	if err == nil {
		t.Fatal("Expected error for missing required columns")
	}
	for _, col := range []string{"MedicalRecordNumber", "PrimaryPayerName", "AdmissionDate"} {
		if !strings.Contains(err.Error(), col) {
			t.Errorf("Expected error to name missing column %s, got %q", col, err.Error())
		}
	}
}

func TestLoad_RowAccess(t *testing.T) {
	path := writeCSV(t, sampleCSV)

	table, err := Load(path)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if table.Len() != 2 {
		t.Fatalf("Expected 2 rows, got %d", table.Len())
	}

	rec, err := table.Row(0)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.FirstName() != "Nicholas" || rec.LastName() != "Patel" {
		t.Errorf("Unexpected name: %q %q", rec.FirstName(), rec.LastName())
	}
	if rec.MRN() != "MRN123" {
		t.Errorf("Expected MRN123, got %q", rec.MRN())
	}
	if rec.PayerName() != "Acme Health" {
		t.Errorf("Expected Acme Health, got %q", rec.PayerName())
	}
	if rec.AdmissionDate() != "01/02/2024" {
		t.Errorf("Expected 01/02/2024, got %q", rec.AdmissionDate())
	}

	// Unspecified columns pass through verbatim.
	if rec.Fields["FacilityName"] != "Sunrise Nursing Home" {
		t.Errorf("Expected extra column to pass through, got %q", rec.Fields["FacilityName"])
	}
}

func TestLoad_BOM(t *testing.T) {
	path := writeCSV(t, "\xEF\xBB\xBF"+sampleCSV)

	table, err := Load(path)
	if err != nil {
		t.Fatalf("Expected BOM to be skipped, got %v", err)
	}
	rec, err := table.Row(0)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.FirstName() != "Nicholas" {
		t.Errorf("Expected first column readable after BOM, got %q", rec.FirstName())
	}
}

func TestTable_RowOutOfRange(t *testing.T) {
	table, err := Load(writeCSV(t, sampleCSV))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if _, err := table.Row(5); err == nil {
		t.Error("Expected error for out-of-range row")
	}
	if _, err := table.Row(-1); err == nil {
		t.Error("Expected error for negative row")
	}
}

func TestTable_FullNames(t *testing.T) {
	table, err := Load(writeCSV(t, sampleCSV))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	names := table.FullNames()
	if len(names) != 2 {
		t.Fatalf("Expected 2 names, got %d", len(names))
	}
	if names[0] != "Nicholas Patel" || names[1] != "Maria Gonzalez" {
		t.Errorf("Unexpected names: %v", names)
	}
}
