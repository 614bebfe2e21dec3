package model

// Column names required in the source CSV.
const (
	ColFirstName     = "PatientFirstName"
	ColLastName      = "PatientLastName"
	ColMRN           = "MedicalRecordNumber"
	ColPayerName     = "PrimaryPayerName"
	ColAdmissionDate = "AdmissionDate"
)

// PatientRecord is one row of the tabular record store. Fields holds every
// CSV column verbatim; Row is the record's position in the loaded table and
// is only stable for the lifetime of that table.
type PatientRecord struct {
	Row    int               `json:"row"`
	Fields map[string]string `json:"fields"`
}

// FirstName returns the patient's first name column.
func (r PatientRecord) FirstName() string { return r.Fields[ColFirstName] }

// LastName returns the patient's last name column.
func (r PatientRecord) LastName() string { return r.Fields[ColLastName] }

// MRN returns the medical record number column.
func (r PatientRecord) MRN() string { return r.Fields[ColMRN] }

// PayerName returns the primary payer name column.
func (r PatientRecord) PayerName() string { return r.Fields[ColPayerName] }

// AdmissionDate returns the admission date column.
func (r PatientRecord) AdmissionDate() string { return r.Fields[ColAdmissionDate] }

// FullName returns "First Last", the form shown in patient selection lists.
func (r PatientRecord) FullName() string {
	return r.FirstName() + " " + r.LastName()
}
