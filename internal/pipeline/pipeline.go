// Package pipeline orchestrates the two-stage claim build: semantic
// patient lookup plus LLM normalization, then deterministic form filling.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/claimforge/claimforge/internal/extract"
	"github.com/claimforge/claimforge/internal/mapper"
	"github.com/claimforge/claimforge/internal/model"
	"github.com/claimforge/claimforge/internal/progress"
	"github.com/google/uuid"
)

// Finder resolves a patient name to a record.
type Finder interface {
	FindPatient(ctx context.Context, name string) (model.PatientRecord, error)
}

// Filler fills the form template to outputPath.
type Filler interface {
	Fill(outputPath string, mapping map[string]string) (*model.FillReport, error)
}

// Pipeline runs one patient end to end. A single pipeline run is active
// per process; the output path is shared, so callers must not run
// BuildClaim concurrently.
type Pipeline struct {
	cfg       *model.Config
	finder    Finder
	extractor extract.Extractor
	filler    Filler
	sink      progress.Sink
}

// New creates a pipeline. Pass progress.Discard{} as sink when no one is
// watching.
func New(cfg *model.Config, finder Finder, extractor extract.Extractor, filler Filler, sink progress.Sink) *Pipeline {
	if sink == nil {
		sink = progress.Discard{}
	}
	return &Pipeline{
		cfg:       cfg,
		finder:    finder,
		extractor: extractor,
		filler:    filler,
		sink:      sink,
	}
}

// RunResult is the outcome of one successful pipeline run.
type RunResult struct {
	RunID   string
	Patient string
	Record  model.PatientRecord
	Claim   *model.UB04Claim
	Report  *model.FillReport
}

// BuildClaim looks up patientName, normalizes the record into a claim,
// maps it onto the template fields and writes the filled PDF to the
// configured output path. The returned result's report points at a fully
// written, closed file.
func (p *Pipeline) BuildClaim(ctx context.Context, patientName string) (*RunResult, error) {
	runID := uuid.NewString()

	p.emit(runID, patientName, progress.StageLookup, fmt.Sprintf("searching for patient %q", patientName))
	rec, err := p.finder.FindPatient(ctx, patientName)
	if err != nil {
		p.emit(runID, patientName, progress.StageFailed, err.Error())
		return nil, fmt.Errorf("lookup: %w", err)
	}

	p.emit(runID, patientName, progress.StageExtract, fmt.Sprintf("normalizing record for %s", rec.FullName()))
	claim, err := p.extractor.Extract(ctx, rec)
	if err != nil {
		p.emit(runID, patientName, progress.StageFailed, err.Error())
		return nil, fmt.Errorf("extract claim: %w", err)
	}

	p.emit(runID, patientName, progress.StageMap, "mapping claim onto template fields")
	fields := mapper.MapFields(claim)

	p.emit(runID, patientName, progress.StageFill, "filling UB-04 form")
	report, err := p.filler.Fill(p.cfg.Form.OutputPath, fields)
	if err != nil {
		p.emit(runID, patientName, progress.StageFailed, err.Error())
		return nil, fmt.Errorf("fill form: %w", err)
	}

	p.emit(runID, patientName, progress.StageDone,
		fmt.Sprintf("wrote %s (%d fields updated)", report.OutputPath, report.UpdatedFields))

	return &RunResult{
		RunID:   runID,
		Patient: patientName,
		Record:  rec,
		Claim:   claim,
		Report:  report,
	}, nil
}

func (p *Pipeline) emit(runID, patient string, stage progress.Stage, message string) {
	p.sink.Publish(progress.Event{
		RunID:   runID,
		Patient: patient,
		Stage:   stage,
		Message: message,
		At:      time.Now().UTC(),
	})
}
