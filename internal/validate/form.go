package validate

import "strings"

// RequiredNote is the inline note attached to a field that failed a check.
const RequiredNote = "هذا الحقل مطلوب"

// Field is the server-side view of one input: its value plus the visual
// state last rendered for it.
type Field struct {
	ID       string
	Value    string
	Required bool
	Invalid  bool
	Note     string
}

// MarkInvalid flags the field and attaches an inline note. Calling it again
// keeps the existing note so a field never carries more than one.
func (f *Field) MarkInvalid(note string) {
	f.Invalid = true
	if f.Note != "" {
		return
	}
	if note == "" {
		note = RequiredNote
	}
	f.Note = note
}

func (f *Field) MarkValid() {
	f.Invalid = false
	f.Note = ""
}

// Form holds the fields of one rendered form in markup order, plus any
// checkbox groups.
type Form struct {
	ID     string
	fields []*Field
	index  map[string]*Field
	groups map[string][]string
}

func NewForm(id string) *Form {
	return &Form{
		ID:     id,
		index:  make(map[string]*Field),
		groups: make(map[string][]string),
	}
}

// Add registers a field, or updates value and required flag of an existing
// one while keeping its visual state.
func (f *Form) Add(id, value string, required bool) *Field {
	if fld, ok := f.index[id]; ok {
		fld.Value = value
		fld.Required = required
		return fld
	}
	fld := &Field{ID: id, Value: value, Required: required}
	f.fields = append(f.fields, fld)
	f.index[id] = fld
	return fld
}

// Field looks up an input by id. Absent inputs are reported, not created.
func (f *Form) Field(id string) (*Field, bool) {
	fld, ok := f.index[id]
	return fld, ok
}

// Value returns the field value or "" when the field is absent.
func (f *Form) Value(id string) string {
	if fld, ok := f.index[id]; ok {
		return fld.Value
	}
	return ""
}

func (f *Form) Fields() []*Field {
	out := make([]*Field, len(f.fields))
	copy(out, f.fields)
	return out
}

// SetChecked replaces the checked values of a checkbox group.
func (f *Form) SetChecked(group string, values []string) {
	kept := make([]string, 0, len(values))
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			kept = append(kept, v)
		}
	}
	f.groups[group] = kept
}

func (f *Form) Checked(group string) []string {
	return f.groups[group]
}

func (f *Form) IsChecked(group, value string) bool {
	for _, v := range f.groups[group] {
		if v == value {
			return true
		}
	}
	return false
}

// ValidateRequired checks presence of every required field, marking each one
// valid or invalid, and reports whether all of them passed.
func (f *Form) ValidateRequired() bool {
	ok := true
	for _, fld := range f.fields {
		if !fld.Required {
			continue
		}
		if Required(fld.Value) {
			fld.MarkValid()
			continue
		}
		ok = false
		fld.MarkInvalid(RequiredNote)
	}
	return ok
}

// Snapshot returns every field value keyed by id, with checkbox groups joined
// by commas.
func (f *Form) Snapshot() map[string]string {
	out := make(map[string]string, len(f.fields)+len(f.groups))
	for _, fld := range f.fields {
		out[fld.ID] = fld.Value
	}
	for g, vals := range f.groups {
		if len(vals) > 0 {
			out[g] = strings.Join(vals, ",")
		}
	}
	return out
}

// Reset clears values, checkbox groups and any invalid markers.
func (f *Form) Reset() {
	for _, fld := range f.fields {
		fld.Value = ""
		fld.MarkValid()
	}
	f.groups = make(map[string][]string)
}
