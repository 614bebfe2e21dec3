package model

// FillReport describes the outcome of filling the form template.
// UnmatchedKeys records mapping keys with no corresponding widget; a report
// with zero updated fields is a warning, not a failure.
type FillReport struct {
	UpdatedFields int      `json:"updated_fields"`
	UnmatchedKeys []string `json:"unmatched_keys,omitempty"`
	OutputPath    string   `json:"output_path"`
}

// PatientResult is one entry in a batch outcome. A failed patient never
// aborts the rest of the batch.
type PatientResult struct {
	Patient string `json:"patient"`
	Path    string `json:"path,omitempty"`
	Success bool   `json:"success"`
	Err     string `json:"error,omitempty"`
}
