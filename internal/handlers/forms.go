package handlers

import (
	"givingbank/internal/forms"
	"givingbank/internal/session"
	"givingbank/views/pages"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"go.uber.org/zap"
)

// Controller runs one submit against a visitor page.
type Controller func(c *fiber.Ctx, p *session.Page, in forms.Input) forms.Result

func Home(env *Env) fiber.Handler {
	return func(c *fiber.Ctx) error {
		p := env.page(c)
		env.Forms.Welcome(p)
		view, _ := forms.View(p, forms.QuickSearchForm)
		return render(c, pages.Home(view, toast(p)))
	}
}

// ShowForm renders the page of one form.
func ShowForm(env *Env, formID string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		p := env.page(c)
		env.Forms.Welcome(p)
		view, ok := forms.View(p, formID)
		if !ok {
			return fiber.ErrNotFound
		}
		route := formRoutes[formID]
		return render(c, pages.FormPage(view, route.action, toast(p), route.buttons...))
	}
}

// Submit binds the request body to formID's schema and runs ctrl.
func Submit(env *Env, formID string, ctrl Controller) fiber.Handler {
	return func(c *fiber.Ctx) error {
		schema, ok := forms.Lookup(formID)
		if !ok {
			return fiber.ErrNotFound
		}
		in, err := readInput(c, schema)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid form body")
		}

		p := env.page(c)
		res := ctrl(c, p, in)
		if res.Err != nil {
			env.Log.Error("submit failed",
				zap.String("form", formID),
				zap.String("visitor", p.VisitorID),
				zap.Error(res.Err))
		}
		return env.respond(c, p, formID, res)
	}
}

// Volunteer and the methods below adapt the service controllers to Controller.
func (e *Env) Volunteer(_ *fiber.Ctx, p *session.Page, in forms.Input) forms.Result {
	return e.Forms.Volunteer(p, in)
}

func (e *Env) Search(_ *fiber.Ctx, p *session.Page, in forms.Input) forms.Result {
	return e.Forms.Search(p, in)
}

func (e *Env) QuickSearch(_ *fiber.Ctx, p *session.Page, in forms.Input) forms.Result {
	return e.Forms.QuickSearch(p, in)
}

func (e *Env) Calculator(_ *fiber.Ctx, p *session.Page, in forms.Input) forms.Result {
	return e.Forms.Calculator(p, in)
}

func (e *Env) CalculateLevel(_ *fiber.Ctx, p *session.Page, in forms.Input) forms.Result {
	return e.Forms.CalculateLevel(p, in)
}

func (e *Env) SaveResults(_ *fiber.Ctx, p *session.Page, in forms.Input) forms.Result {
	return e.Forms.SaveResults(p, in)
}

func (e *Env) RegisterHours(_ *fiber.Ctx, p *session.Page, in forms.Input) forms.Result {
	return e.Forms.RegisterHours(p, in)
}

func (e *Env) SaveHours(c *fiber.Ctx, p *session.Page, in forms.Input) forms.Result {
	res := e.Forms.SaveHours(c.UserContext(), p, in)
	if res.OK && e.Metrics != nil {
		e.Metrics.DraftSaves.Add(1)
	}
	return res
}

func (e *Env) PublishOpportunity(_ *fiber.Ctx, p *session.Page, in forms.Input) forms.Result {
	return e.Forms.PublishOpportunity(p, in)
}

func (e *Env) SaveOpportunityDraft(_ *fiber.Ctx, p *session.Page, in forms.Input) forms.Result {
	return e.Forms.SaveOpportunityDraft(p, in)
}

// GenericSubmit applies the required-field check to any known form id.
func GenericSubmit(env *Env) fiber.Handler {
	return func(c *fiber.Ctx) error {
		formID := utils.CopyString(c.Params("id"))
		schema, ok := forms.Lookup(formID)
		if !ok {
			return fiber.ErrNotFound
		}
		in, err := readInput(c, schema)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid form body")
		}
		p := env.page(c)
		res, _ := env.Forms.Generic(p, formID, in)
		return env.respond(c, p, formID, res)
	}
}

// VolunteerCheck validates one registration field on blur and answers with
// the toast.
func VolunteerCheck(env *Env) fiber.Handler {
	return func(c *fiber.Ctx) error {
		field := utils.CopyString(c.Params("field"))
		p := env.page(c)
		res := env.Forms.VolunteerBlur(p, field, utils.CopyString(c.FormValue(field)))
		if wantsJSON(c) {
			return c.Status(statusFor(res)).JSON(toJSON(res))
		}
		return render(c, toast(p))
	}
}
