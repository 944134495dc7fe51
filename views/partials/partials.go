// Package partials holds the HTML fragments swapped in by htmx: the toast,
// form fields and the level summary.
package partials

import (
	"context"
	"fmt"
	"io"
	"strings"

	"givingbank/internal/forms"
	"givingbank/internal/notify"

	"github.com/a-h/templ"
)

var esc = templ.EscapeString[string]

// Toast renders the notification slot. It polls itself so delayed
// notifications show up without a page action.
func Toast(n notify.Notification, visible bool) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if !visible {
			_, err := io.WriteString(w, `<div id="toast" hx-get="/notifications" hx-trigger="every 1s" hx-swap="outerHTML"></div>`)
			return err
		}
		_, err := fmt.Fprintf(w,
			`<div id="toast" hx-get="/notifications" hx-trigger="every 1s" hx-swap="outerHTML">`+
				`<div class="notification notification-%s" role="alert" data-id="%s" style="background-color:%s">`+
				`<span>%s</span>`+
				`<button type="button" class="notification-close" hx-delete="/notifications" hx-target="#toast" hx-swap="outerHTML" aria-label="إغلاق">&times;</button>`+
				`</div></div>`,
			esc(string(n.Severity)), esc(n.ID), n.Severity.Color(), esc(n.Message))
		return err
	})
}

func inputClass(f forms.FieldView) string {
	if f.Invalid {
		return "form-control is-invalid"
	}
	return "form-control"
}

func requiredAttr(spec forms.FieldSpec) string {
	if spec.Required {
		return " required"
	}
	return ""
}

// Field renders one labelled input with its inline error note.
func Field(formID string, f forms.FieldView) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		spec := f.Spec
		id := esc(spec.ID)

		b.WriteString(`<div class="form-group">`)
		if spec.Kind != forms.Checkbox {
			fmt.Fprintf(&b, `<label for="%s">%s</label>`, id, esc(spec.Label))
		}

		switch spec.Kind {
		case forms.Select:
			fmt.Fprintf(&b, `<select id="%s" name="%s" class="%s"%s><option value="">اختر...</option>`,
				id, id, inputClass(f), requiredAttr(spec))
			for _, o := range spec.Options {
				sel := ""
				if o.Value == f.Value {
					sel = " selected"
				}
				fmt.Fprintf(&b, `<option value="%s"%s>%s</option>`, esc(o.Value), sel, esc(o.Label))
			}
			b.WriteString(`</select>`)
		case forms.TextArea:
			fmt.Fprintf(&b, `<textarea id="%s" name="%s" class="%s"%s>%s</textarea>`,
				id, id, inputClass(f), requiredAttr(spec), esc(f.Value))
		case forms.Checkbox:
			fmt.Fprintf(&b, `<fieldset><legend>%s</legend>`, esc(spec.Label))
			for _, o := range spec.Options {
				chk := ""
				if f.IsChecked(o.Value) {
					chk = " checked"
				}
				fmt.Fprintf(&b, `<label class="checkbox"><input type="checkbox" name="%s" value="%s"%s> %s</label>`,
					id, esc(o.Value), chk, esc(o.Label))
			}
			b.WriteString(`</fieldset>`)
		case forms.File:
			fmt.Fprintf(&b, `<input type="file" id="%s" name="%s" class="%s">`, id, id, inputClass(f))
		default:
			blur := ""
			if formID == forms.VolunteerForm && isBlurField(spec.ID) {
				blur = fmt.Sprintf(` hx-post="/volunteer/check/%s" hx-trigger="blur" hx-target="#toast" hx-swap="outerHTML"`, id)
			}
			fmt.Fprintf(&b, `<input type="%s" id="%s" name="%s" value="%s" class="%s"%s%s>`,
				esc(string(spec.Kind)), id, id, esc(f.Value), inputClass(f), requiredAttr(spec), blur)
		}

		if f.Invalid && f.Note != "" {
			fmt.Fprintf(&b, `<small class="error-message">%s</small>`, esc(f.Note))
		}
		b.WriteString(`</div>`)

		_, err := io.WriteString(w, b.String())
		return err
	})
}

func isBlurField(id string) bool {
	for _, f := range forms.BlurFields {
		if f == id {
			return true
		}
	}
	return false
}

// LevelSummary renders the calculator result block, or nothing.
func LevelSummary(sum *forms.Summary) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if sum == nil {
			_, err := io.WriteString(w, `<div id="level-summary"></div>`)
			return err
		}
		_, err := fmt.Fprintf(w,
			`<div id="level-summary" class="level-summary level-%d">`+
				`<h3>%s</h3>`+
				`<p class="level-label">%s</p>`+
				`<p class="level-hours">%s ساعة</p>`+
				`<p class="level-description">%s</p>`+
				`</div>`,
			sum.Tier.Rank, esc(sum.Title), esc(sum.Tier.Label), esc(sum.HoursText), esc(sum.Tier.Description))
		return err
	})
}

// Button is an extra submit button posting the form to another route.
type Button struct {
	Label  string
	Action string
	Class  string
}

// Form renders a whole form. Submits go through htmx and swap the form
// itself; the toast is updated out of band.
func Form(v forms.FormView, action string, buttons ...Button) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		schema := v.Schema
		enctype := ""
		for _, f := range schema.Fields {
			if f.Kind == forms.File {
				enctype = ` enctype="multipart/form-data" hx-encoding="multipart/form-data"`
				break
			}
		}

		if _, err := fmt.Fprintf(w,
			`<form id="%s" action="%s" method="post" novalidate hx-post="%s" hx-target="this" hx-swap="outerHTML"%s><h2>%s</h2>`,
			esc(schema.ID), esc(action), esc(action), enctype, esc(schema.Title)); err != nil {
			return err
		}
		for _, f := range v.Fields {
			if err := Field(schema.ID, f).Render(ctx, w); err != nil {
				return err
			}
		}
		if err := LevelSummary(v.Summary).Render(ctx, w); err != nil {
			return err
		}

		if _, err := io.WriteString(w, `<div class="form-actions"><button type="submit" class="btn btn-primary">إرسال</button>`); err != nil {
			return err
		}
		for _, btn := range buttons {
			class := btn.Class
			if class == "" {
				class = "btn btn-secondary"
			}
			if _, err := fmt.Fprintf(w, `<button type="submit" class="%s" formaction="%s" hx-post="%s">%s</button>`,
				esc(class), esc(btn.Action), esc(btn.Action), esc(btn.Label)); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, `</div></form>`)
		return err
	})
}

// OOB wraps a component so htmx swaps it by id outside the request target.
func OOB(c templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		if err := c.Render(ctx, &b); err != nil {
			return err
		}
		html := b.String()
		if i := strings.Index(html, ">"); i > 0 && strings.HasPrefix(html, "<div") {
			html = html[:i] + ` hx-swap-oob="true"` + html[i:]
		}
		_, err := io.WriteString(w, html)
		return err
	})
}
