// Package mapper derives the form field values for a UB-04 template from a
// validated claim. The mapping is pure: same claim in, same fields out.
package mapper

import (
	"strconv"

	"github.com/claimforge/claimforge/internal/model"
)

// The template carries two fixed revenue line slots. Additional claim
// lines are dropped; this mirrors the template, not a mapper defect.
const maxRevenueLines = 2

// MapFields computes the template field values for claim. Optional fields
// map to empty strings; numbers keep their natural decimal representation.
func MapFields(claim *model.UB04Claim) map[string]string {
	fields := map[string]string{
		"FacilityName":          claim.Facility.Name,
		"FacilityAddress":       claim.Facility.Address,
		"PatientFirstName":      claim.Patient.FirstName,
		"PatientLastName":       claim.Patient.LastName,
		"PatientDOB":            claim.Patient.DOB,
		"PatientSex":            claim.Patient.Sex,
		"MedicalRecordNumber":   claim.Patient.MRN,
		"PatientControlNumber":  claim.Visit.PatientControlNumber,
		"AdmissionDate":         claim.Visit.AdmissionDate,
		"DischargeDate":         claim.Visit.DischargeDate,
		"PrimaryPayerName":      claim.Payer.Name,
		"PrimaryPayerID":        claim.Payer.ID,
		"BillType":              claim.BillType,
		"PrimaryDiagnosisCode":  claim.Diagnoses.Primary,
		"SecondaryDiagnosisCode1": claim.Diagnoses.Secondary,
		"AttendingPhysicianNPI": claim.Physicians.Attending.NPI,
		"TotalCharge":           formatAmount(claim.TotalCharge),
	}

	for i := 0; i < maxRevenueLines && i < len(claim.RevenueLines); i++ {
		line := claim.RevenueLines[i]
		slot := strconv.Itoa(i + 1)
		fields["RevenueCode"+slot] = line.RevenueCode
		fields["HCPCSCode"+slot] = line.HCPCSCode
		fields["Units"+slot] = strconv.Itoa(line.Units)
		fields["Charges"+slot] = formatAmount(line.Charge)
	}

	return fields
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
