// README: Step definitions and the field-keyed validation error map shared by both wizards.
package wizard

import "strings"

type StepID string

type StepDefinition struct {
	ID    StepID `json:"id"`
	Title string `json:"title"`
	Icon  string `json:"icon"`
}

// FieldErrors maps a dotted field path (e.g. "package.description") to a
// user-facing message.
type FieldErrors map[string]string

func (e FieldErrors) Empty() bool { return len(e) == 0 }

// Clear removes the error for path, if any.
func (e FieldErrors) Clear(path string) {
	delete(e, path)
}

// ClearField removes the error for section.field; an empty section clears the
// top-level key.
func (e FieldErrors) ClearField(section, field string) {
	if section == "" {
		delete(e, field)
		return
	}
	delete(e, section+"."+field)
}

// ClearPrefix removes every error under section (e.g. "pickup").
func (e FieldErrors) ClearPrefix(section string) {
	p := section + "."
	for k := range e {
		if k == section || strings.HasPrefix(k, p) {
			delete(e, k)
		}
	}
}

func (e FieldErrors) Merge(o FieldErrors) {
	for k, v := range o {
		e[k] = v
	}
}

func (e FieldErrors) Clone() FieldErrors {
	out := make(FieldErrors, len(e))
	for k, v := range e {
		out[k] = v
	}
	return out
}
