package handlers

import (
	"givingbank/internal/forms"

	"github.com/gofiber/fiber/v2"
)

// Register mounts every page and submit route on r.
func Register(r fiber.Router, env *Env) {
	r.Get("/", Home(env))

	r.Get("/volunteer", ShowForm(env, forms.VolunteerForm))
	r.Post("/volunteer", Submit(env, forms.VolunteerForm, env.Volunteer))
	r.Post("/volunteer/check/:field", VolunteerCheck(env))

	r.Get("/search", ShowForm(env, forms.SearchForm))
	r.Post("/search", Submit(env, forms.SearchForm, env.Search))
	r.Post("/search/quick", Submit(env, forms.QuickSearchForm, env.QuickSearch))

	r.Get("/calculator", ShowForm(env, forms.CalculatorForm))
	r.Post("/calculator", Submit(env, forms.CalculatorForm, env.Calculator))
	r.Post("/calculator/level", Submit(env, forms.HoursForm, env.CalculateLevel))
	r.Post("/calculator/results", Submit(env, forms.HoursForm, env.SaveResults))

	r.Get("/hours", ShowForm(env, forms.HoursForm))
	r.Post("/hours", Submit(env, forms.HoursForm, env.RegisterHours))
	r.Post("/hours/save", Submit(env, forms.HoursForm, env.SaveHours))
	r.Get("/hours/draft", HoursDraft(env))

	r.Get("/opportunities/new", ShowForm(env, forms.OpportunityForm))
	r.Post("/opportunities/publish", Submit(env, forms.OpportunityForm, env.PublishOpportunity))
	r.Post("/opportunities/draft", Submit(env, forms.OpportunityForm, env.SaveOpportunityDraft))

	r.Post("/forms/:id", GenericSubmit(env))

	r.Get("/notifications", Notifications(env))
	r.Delete("/notifications", DismissNotification(env))
}
