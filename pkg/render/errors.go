package render

import (
	"errors"
	"fmt"
)

// ErrTemplateMissing is matched by every *TemplateMissingError.
var ErrTemplateMissing = errors.New("render: template missing")

// TemplateMissingError reports a template that is absent or lacks one of the
// slots a card needs. It is a configuration defect: nothing is rendered.
type TemplateMissingError struct {
	Name string
	Slot string
}

func (e *TemplateMissingError) Error() string {
	if e.Slot != "" {
		return fmt.Sprintf("render: template %q has no {{.%s}} slot", e.Name, e.Slot)
	}
	return fmt.Sprintf("render: template %q not found", e.Name)
}

func (e *TemplateMissingError) Is(target error) bool {
	return target == ErrTemplateMissing
}
