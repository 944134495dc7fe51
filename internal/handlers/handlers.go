package handlers

import (
	"mime/multipart"
	"strings"

	"givingbank/internal/forms"
	"givingbank/internal/metrics"
	"givingbank/internal/notify"
	"givingbank/internal/session"
	"givingbank/internal/visitor"
	"givingbank/views/pages"
	"givingbank/views/partials"

	"github.com/a-h/templ"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"go.uber.org/zap"
)

// Env carries what every handler needs.
type Env struct {
	Sessions *session.Registry
	Forms    *forms.Service
	Metrics  *metrics.Collector
	Log      *zap.Logger
}

func (e *Env) page(c *fiber.Ctx) *session.Page {
	return e.Sessions.Page(visitor.ID(c))
}

type formRoute struct {
	action  string
	buttons []partials.Button
}

var formRoutes = map[string]formRoute{
	forms.VolunteerForm:   {action: "/volunteer"},
	forms.SearchForm:      {action: "/search"},
	forms.QuickSearchForm: {action: "/search/quick"},
	forms.CalculatorForm:  {action: "/calculator"},
	forms.HoursForm: {
		action: "/hours",
		buttons: []partials.Button{
			{Label: "احسب المستوى", Action: "/calculator/level"},
			{Label: "حفظ وحساب", Action: "/hours/save"},
			{Label: "حفظ النتائج", Action: "/calculator/results"},
		},
	},
	forms.OpportunityForm: {
		action:  "/opportunities/publish",
		buttons: []partials.Button{{Label: "حفظ كمسودة", Action: "/opportunities/draft"}},
	},
}

func render(c *fiber.Ctx, comp templ.Component) error {
	c.Set("Content-Type", "text/html; charset=utf-8")
	return comp.Render(c.Context(), c.Response().BodyWriter())
}

func toast(p *session.Page) templ.Component {
	n, ok := p.Notifier.Current()
	return partials.Toast(n, ok)
}

func isHTMX(c *fiber.Ctx) bool {
	return c.Get("HX-Request") != ""
}

func wantsJSON(c *fiber.Ctx) bool {
	return c.Accepts(fiber.MIMETextHTML, fiber.MIMEApplicationJSON) == fiber.MIMEApplicationJSON
}

// readInput collects the submitted values for every field of schema from a
// urlencoded or multipart body. Values are copied out of the request buffer
// because they are kept on the visitor page after the request ends.
func readInput(c *fiber.Ctx, schema forms.Schema) (forms.Input, error) {
	in := forms.Input{
		Values:  make(map[string]string),
		Checked: make(map[string][]string),
		Uploads: make(map[string]int64),
	}

	var mf *multipart.Form
	if strings.HasPrefix(string(c.Request().Header.ContentType()), fiber.MIMEMultipartForm) {
		var err error
		if mf, err = c.MultipartForm(); err != nil {
			return in, err
		}
	}

	for _, f := range schema.Fields {
		switch f.Kind {
		case forms.Checkbox:
			if mf != nil {
				in.Checked[f.ID] = mf.Value[f.ID]
				continue
			}
			for _, v := range c.Request().PostArgs().PeekMulti(f.ID) {
				in.Checked[f.ID] = append(in.Checked[f.ID], string(v))
			}
		case forms.File:
			if mf != nil && len(mf.File[f.ID]) > 0 {
				in.Uploads[f.ID] = mf.File[f.ID][0].Size
			}
		default:
			in.Values[f.ID] = utils.CopyString(c.FormValue(f.ID))
		}
	}
	return in, nil
}

type summaryJSON struct {
	Profile     string `json:"profile"`
	Title       string `json:"title"`
	Level       string `json:"level"`
	Description string `json:"description"`
	Hours       int    `json:"hours"`
}

type resultJSON struct {
	OK           bool                 `json:"ok"`
	Notification *notify.Notification `json:"notification,omitempty"`
	Field        string               `json:"field,omitempty"`
	Summary      *summaryJSON         `json:"summary,omitempty"`
}

func toJSON(res forms.Result) resultJSON {
	out := resultJSON{OK: res.OK, Field: res.Field}
	if res.Notice.ID != "" {
		n := res.Notice
		out.Notification = &n
	}
	if s := res.Summary; s != nil {
		out.Summary = &summaryJSON{
			Profile:     s.Profile,
			Title:       s.Title,
			Level:       s.Tier.Label,
			Description: s.Tier.Description,
			Hours:       s.Hours,
		}
	}
	return out
}

// statusFor is the JSON status of a submit. HTML clients always get 200 on
// rejected input so htmx swaps the re-rendered form.
func statusFor(res forms.Result) int {
	switch {
	case res.Err != nil:
		return fiber.StatusInternalServerError
	case !res.OK:
		return fiber.StatusUnprocessableEntity
	}
	return fiber.StatusOK
}

// respond answers a submit: JSON for API clients, the re-rendered form plus
// an out-of-band toast for htmx, or the whole page otherwise.
func (e *Env) respond(c *fiber.Ctx, p *session.Page, formID string, res forms.Result) error {
	if wantsJSON(c) {
		return c.Status(statusFor(res)).JSON(toJSON(res))
	}
	if res.Err != nil {
		c.Status(fiber.StatusInternalServerError)
	}

	view, ok := forms.View(p, formID)
	if !ok {
		return fiber.ErrNotFound
	}
	route := formRoutes[formID]

	if isHTMX(c) {
		return render(c, templ.Join(
			partials.Form(view, route.action, route.buttons...),
			partials.OOB(toast(p)),
		))
	}
	if formID == forms.QuickSearchForm {
		return render(c, pages.Home(view, toast(p)))
	}
	return render(c, pages.FormPage(view, route.action, toast(p), route.buttons...))
}
