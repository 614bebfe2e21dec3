// Package form fills the fixed UB-04 AcroForm template from a field
// mapping and writes the result as a new PDF.
package form

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/claimforge/claimforge/internal/model"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	pdfmodel "github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

var (
	// ErrTemplateNotFound indicates the template PDF is missing.
	ErrTemplateNotFound = errors.New("form template not found")

	// ErrWrite indicates the filled form could not be written.
	ErrWrite = errors.New("cannot write filled form")
)

// Filler fills copies of a fixed PDF template. The template itself is
// only ever opened read-only.
type Filler struct {
	templatePath string
	conf         *pdfmodel.Configuration
}

// NewFiller creates a Filler for the template at templatePath.
func NewFiller(templatePath string) *Filler {
	conf := pdfmodel.NewDefaultConfiguration()
	conf.ValidationMode = pdfmodel.ValidationRelaxed

	return &Filler{
		templatePath: templatePath,
		conf:         conf,
	}
}

// Fill sets every template widget named in mapping to its value and writes
// the result to outputPath, creating parent directories and overwriting any
// existing file. Mapping keys with no matching widget are collected in the
// report, not treated as failures; zero matched fields is success with a
// warning-level report. Fill returns only after the output file is closed,
// so callers may read or copy it immediately.
func (f *Filler) Fill(outputPath string, mapping map[string]string) (*model.FillReport, error) {
	if _, err := os.Stat(f.templatePath); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrTemplateNotFound, f.templatePath)
		}
		return nil, fmt.Errorf("stat template: %w", err)
	}

	widgets, err := f.widgetNames()
	if err != nil {
		return nil, fmt.Errorf("read template form: %w", err)
	}

	matched, unmatched := partitionKeys(mapping, widgets)

	if dir := filepath.Dir(outputPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("%w: create output dir: %v", ErrWrite, err)
		}
	}

	if len(matched) == 0 {
		// Nothing to set; the output is a verbatim copy of the template.
		if err := copyFile(f.templatePath, outputPath); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrWrite, err)
		}
		return &model.FillReport{
			UpdatedFields: 0,
			UnmatchedKeys: unmatched,
			OutputPath:    outputPath,
		}, nil
	}

	data, err := buildFormJSON(matched)
	if err != nil {
		return nil, fmt.Errorf("build form data: %w", err)
	}

	tmp, err := os.CreateTemp("", "claimforge-form-*.json")
	if err != nil {
		return nil, fmt.Errorf("%w: create temp form data: %v", ErrWrite, err)
	}
	tmpPath := tmp.Name()
	defer func() { _ = os.Remove(tmpPath) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return nil, fmt.Errorf("%w: write temp form data: %v", ErrWrite, err)
	}
	if err := tmp.Close(); err != nil {
		return nil, fmt.Errorf("%w: close temp form data: %v", ErrWrite, err)
	}

	if err := api.FillFormFile(f.templatePath, tmpPath, outputPath, f.conf); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrWrite, err)
	}

	return &model.FillReport{
		UpdatedFields: len(matched),
		UnmatchedKeys: unmatched,
		OutputPath:    outputPath,
	}, nil
}

// widgetNames returns the names of every form field in the template.
func (f *Filler) widgetNames() (map[string]bool, error) {
	tmp, err := os.CreateTemp("", "claimforge-export-*.json")
	if err != nil {
		return nil, fmt.Errorf("create temp export: %w", err)
	}
	tmpPath := tmp.Name()
	_ = tmp.Close()
	defer func() { _ = os.Remove(tmpPath) }()

	if err := api.ExportFormFile(f.templatePath, tmpPath, f.conf); err != nil {
		return nil, fmt.Errorf("export form: %w", err)
	}

	data, err := os.ReadFile(tmpPath)
	if err != nil {
		return nil, fmt.Errorf("read form export: %w", err)
	}

	return parseWidgetNames(data)
}

// formData is the pdfcpu form import/export JSON shape, reduced to the
// parts this filler touches.
type formData struct {
	Forms []formEntry `json:"forms"`
}

type formEntry struct {
	TextFields        []namedField `json:"textfield,omitempty"`
	DateFields        []namedField `json:"datefield,omitempty"`
	CheckBoxes        []namedField `json:"checkbox,omitempty"`
	RadioButtonGroups []namedField `json:"radiobuttongroup,omitempty"`
	ComboBoxes        []namedField `json:"combobox,omitempty"`
	ListBoxes         []namedField `json:"listbox,omitempty"`
}

type namedField struct {
	Name   string `json:"name"`
	Value  string `json:"value,omitempty"`
	Locked bool   `json:"locked"`
}

// parseWidgetNames extracts all field names from a pdfcpu form export.
func parseWidgetNames(exportJSON []byte) (map[string]bool, error) {
	var export formData
	if err := json.Unmarshal(exportJSON, &export); err != nil {
		return nil, fmt.Errorf("parse form export: %w", err)
	}

	names := make(map[string]bool)
	for _, form := range export.Forms {
		for _, group := range [][]namedField{
			form.TextFields, form.DateFields, form.CheckBoxes,
			form.RadioButtonGroups, form.ComboBoxes, form.ListBoxes,
		} {
			for _, field := range group {
				names[field.Name] = true
			}
		}
	}
	return names, nil
}

// partitionKeys splits mapping into entries with a matching widget and the
// sorted list of keys without one.
func partitionKeys(mapping map[string]string, widgets map[string]bool) (map[string]string, []string) {
	matched := make(map[string]string)
	var unmatched []string

	for key, value := range mapping {
		if widgets[key] {
			matched[key] = value
		} else {
			unmatched = append(unmatched, key)
		}
	}
	sort.Strings(unmatched)

	return matched, unmatched
}

// buildFormJSON renders the pdfcpu fill payload for the matched fields.
// The UB-04 template uses text widgets exclusively.
func buildFormJSON(matched map[string]string) ([]byte, error) {
	keys := make([]string, 0, len(matched))
	for key := range matched {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	entry := formEntry{}
	for _, key := range keys {
		entry.TextFields = append(entry.TextFields, namedField{
			Name:  key,
			Value: matched[key],
		})
	}

	return json.MarshalIndent(formData{Forms: []formEntry{entry}}, "", "  ")
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open %s: %w", src, err)
	}
	defer func() { _ = in.Close() }()

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("create %s: %w", dst, err)
	}

	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return fmt.Errorf("copy to %s: %w", dst, err)
	}
	return out.Close()
}
