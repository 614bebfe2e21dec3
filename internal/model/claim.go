package model

import (
	"fmt"
	"strings"
)

// UB04Claim is the validated representation of a complete UB-04
// institutional claim, as produced by the extraction stage.
type UB04Claim struct {
	Facility     Facility      `json:"facility"`
	Patient      Patient       `json:"patient"`
	Visit        Visit         `json:"visit"`
	Payer        Payer         `json:"payer"`
	BillType     string        `json:"bill_type"`
	Diagnoses    Diagnoses     `json:"diagnoses"`
	Physicians   Physicians    `json:"physicians"`
	RevenueLines []RevenueLine `json:"revenue_lines"`
	TotalCharge  float64       `json:"total_charge"`
}

// Facility identifies the billing institution.
type Facility struct {
	Name    string `json:"name"`
	Address string `json:"address"`
}

// Patient carries the patient demographics for the claim.
type Patient struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	DOB       string `json:"dob"`
	Sex       string `json:"sex"`
	MRN       string `json:"mrn"`
}

// Visit covers the admission being billed.
type Visit struct {
	AdmissionDate        string `json:"admission_date"`
	DischargeDate        string `json:"discharge_date"`
	PatientControlNumber string `json:"patient_control_number"`
}

// Payer identifies the primary payer.
type Payer struct {
	Name string `json:"name"`
	ID   string `json:"id"`
}

// Diagnoses holds the diagnosis codes. Secondary is optional.
type Diagnoses struct {
	Primary   string `json:"primary"`
	Secondary string `json:"secondary,omitempty"`
}

// Physicians holds the physicians referenced on the form.
type Physicians struct {
	Attending AttendingPhysician `json:"attending"`
}

// AttendingPhysician identifies the attending physician by NPI.
type AttendingPhysician struct {
	NPI string `json:"npi"`
}

// RevenueLine is one billed service line. HCPCSCode is optional.
type RevenueLine struct {
	RevenueCode string  `json:"revenue_code"`
	HCPCSCode   string  `json:"hcpcs_code,omitempty"`
	Units       int     `json:"units"`
	Charge      float64 `json:"charge"`
}

// ValidationError reports every violation found in a claim, so a failed
// extraction can be diagnosed in one pass.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid claim: %s", strings.Join(e.Problems, "; "))
}

// Validate checks that every required field is present and that revenue
// lines are well-formed. Secondary diagnosis and HCPCS codes may be empty.
func (c *UB04Claim) Validate() error {
	var problems []string

	required := []struct {
		name  string
		value string
	}{
		{"facility.name", c.Facility.Name},
		{"facility.address", c.Facility.Address},
		{"patient.first_name", c.Patient.FirstName},
		{"patient.last_name", c.Patient.LastName},
		{"patient.dob", c.Patient.DOB},
		{"patient.sex", c.Patient.Sex},
		{"patient.mrn", c.Patient.MRN},
		{"visit.admission_date", c.Visit.AdmissionDate},
		{"visit.discharge_date", c.Visit.DischargeDate},
		{"visit.patient_control_number", c.Visit.PatientControlNumber},
		{"payer.name", c.Payer.Name},
		{"payer.id", c.Payer.ID},
		{"bill_type", c.BillType},
		{"diagnoses.primary", c.Diagnoses.Primary},
		{"physicians.attending.npi", c.Physicians.Attending.NPI},
	}

	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			problems = append(problems, fmt.Sprintf("missing required field %s", f.name))
		}
	}

	for i, line := range c.RevenueLines {
		if strings.TrimSpace(line.RevenueCode) == "" {
			problems = append(problems, fmt.Sprintf("revenue_lines[%d]: missing revenue_code", i))
		}
		if line.Units < 0 {
			problems = append(problems, fmt.Sprintf("revenue_lines[%d]: units must be >= 0, got %d", i, line.Units))
		}
	}

	if len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}
	return nil
}
