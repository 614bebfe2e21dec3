package form

import (
	"fmt"
	"os"
	"sort"
)

// ListFields returns the sorted names of every form widget in the
// template, for diagnosing name drift between mapper and template.
func (f *Filler) ListFields() ([]string, error) {
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

	names := make([]string, 0, len(widgets))
	for name := range widgets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}
