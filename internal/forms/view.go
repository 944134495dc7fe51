package forms

import "givingbank/internal/session"

// FieldView is a copy of one field's render state.
type FieldView struct {
	Spec    FieldSpec
	Value   string
	Invalid bool
	Note    string
	Checked []string
}

func (f FieldView) IsChecked(value string) bool {
	for _, v := range f.Checked {
		if v == value {
			return true
		}
	}
	return false
}

// FormView is everything needed to render a form without holding the page.
type FormView struct {
	Schema  Schema
	Fields  []FieldView
	Summary *Summary
}

// View copies the current state of a form out of the page.
func View(p *session.Page, formID string) (FormView, bool) {
	schema, ok := Lookup(formID)
	if !ok {
		return FormView{}, false
	}
	var v FormView
	p.Dispatch(func() {
		form := p.Form(formID)
		schema.Prepare(form)

		v.Schema = schema
		v.Fields = make([]FieldView, 0, len(schema.Fields))
		for _, spec := range schema.Fields {
			fv := FieldView{Spec: spec}
			switch spec.Kind {
			case Checkbox:
				fv.Checked = append([]string(nil), form.Checked(spec.ID)...)
			case File:
			default:
				if fld, ok := form.Field(spec.ID); ok {
					fv.Value = fld.Value
					fv.Invalid = fld.Invalid
					fv.Note = fld.Note
				}
			}
			v.Fields = append(v.Fields, fv)
		}
		if sum, ok := SummaryFor(p, formID); ok {
			cp := *sum
			v.Summary = &cp
		}
	})
	return v, true
}
