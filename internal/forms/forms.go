// Package forms holds the submit controllers for each form on the site.
//
// Every controller follows the same shape: bind the submitted values, check
// required fields, run the form's shape checks in a fixed order and stop at
// the first failure, then notify and perform the success side effect. Only
// the first failing check is reported per submit.
package forms

import (
	"context"
	"errors"
	"fmt"
	"time"

	"givingbank/internal/drafts"
	"givingbank/internal/format"
	"givingbank/internal/notify"
	"givingbank/internal/schedule"
	"givingbank/internal/session"
	"givingbank/internal/tiers"
	"givingbank/internal/validate"

	"go.uber.org/zap"
)

type Config struct {
	ResetDelay   time.Duration
	SearchDelay  time.Duration
	WelcomeDelay time.Duration
	ProgressTTL  time.Duration
	MinAge       int
	MaxUploadMB  float64
}

func DefaultConfig() Config {
	return Config{
		ResetDelay:   2 * time.Second,
		SearchDelay:  1500 * time.Millisecond,
		WelcomeDelay: time.Second,
		ProgressTTL:  notify.ProgressTTL,
		MinAge:       validate.MinVolunteerAge,
		MaxUploadMB:  5,
	}
}

// Summary is the level block rendered after a calculator submit.
type Summary struct {
	Profile   string
	Title     string
	Tier      tiers.Tier
	Hours     int
	HoursText string
}

// Result describes what a submit did. Field names the input that failed,
// if a single one did. Err is set only for infrastructure failures; bad
// input is never an error.
type Result struct {
	OK      bool
	Notice  notify.Notification
	Field   string
	Summary *Summary
	Err     error
}

// RejectFunc is told about every rejected submit.
type RejectFunc func(form, field string)

type Service struct {
	cfg      Config
	profiles tiers.Registry
	drafts   drafts.Store
	now      func() time.Time
	log      *zap.Logger
	onReject RejectFunc
}

type Option func(*Service)

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func WithLogger(l *zap.Logger) Option {
	return func(s *Service) { s.log = l }
}

func OnReject(fn RejectFunc) Option {
	return func(s *Service) { s.onReject = fn }
}

func NewService(cfg Config, profiles tiers.Registry, store drafts.Store, opts ...Option) *Service {
	s := &Service{
		cfg:      cfg,
		profiles: profiles,
		drafts:   store,
		now:      time.Now,
		log:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Page data keys.
const (
	welcomedKey = "welcomed"
	summaryKey  = "summary:"
	resetKey    = "reset:"
	pendingKey  = "pending:"
)

// SummaryFor returns the last level summary rendered for a form. Call it from
// inside Page.Dispatch.
func SummaryFor(p *session.Page, formID string) (*Summary, bool) {
	v, ok := p.Get(summaryKey + formID)
	if !ok {
		return nil, false
	}
	sum, ok := v.(*Summary)
	return sum, ok
}

func (s *Service) reject(p *session.Page, formID, field, message string, sev notify.Severity) Result {
	if s.onReject != nil {
		s.onReject(formID, field)
	}
	return Result{Notice: p.Notifier.Notify(message, sev), Field: field}
}

func (s *Service) succeed(p *session.Page, message string, sev notify.Severity) Result {
	return Result{OK: true, Notice: p.Notifier.Notify(message, sev)}
}

// replaceTask cancels the task previously stored under key and stores t.
func replaceTask(p *session.Page, key string, t *schedule.Task) {
	if v, ok := p.Get(key); ok {
		if prev, ok := v.(*schedule.Task); ok {
			prev.Cancel()
		}
	}
	p.Set(key, t)
}

// scheduleReset clears the form after the configured delay.
func (s *Service) scheduleReset(p *session.Page, form *validate.Form) {
	t := p.After(s.cfg.ResetDelay, form.Reset)
	replaceTask(p, resetKey+form.ID, t)
}

type shapeCheck struct {
	field   string
	valid   func(string) bool
	message string
}

// runShapeChecks validates present fields in order, marking each, and
// returns the first failing check.
func runShapeChecks(form *validate.Form, checks []shapeCheck) (shapeCheck, bool) {
	for _, c := range checks {
		fld, ok := form.Field(c.field)
		if !ok {
			continue
		}
		if !c.valid(fld.Value) {
			fld.MarkInvalid(c.message)
			return c, false
		}
		fld.MarkValid()
	}
	return shapeCheck{}, true
}

func (s *Service) run(p *session.Page, fn func() Result) Result {
	var r Result
	p.Dispatch(func() { r = fn() })
	return r
}

func (s *Service) bind(p *session.Page, formID string, in Input) *validate.Form {
	form := p.Form(formID)
	schema, _ := Lookup(formID)
	schema.Bind(form, in)
	return form
}

// Volunteer handles the registration form.
func (s *Service) Volunteer(p *session.Page, in Input) Result {
	return s.run(p, func() Result {
		form := s.bind(p, VolunteerForm, in)

		if !form.ValidateRequired() {
			return s.reject(p, VolunteerForm, "", msgFillRequired, notify.Error)
		}

		now := s.now()
		checks := []shapeCheck{
			{"email", validate.Email, msgBadEmail},
			{"phone", validate.LocalPhone, msgBadPhone},
			{"nationalId", validate.NationalID, msgBadNationalID},
			{"birthDate", func(v string) bool { return validate.MinAge(v, now, s.cfg.MinAge) }, fmt.Sprintf(msgTooYoung, s.cfg.MinAge)},
		}
		if failed, ok := runShapeChecks(form, checks); !ok {
			return s.reject(p, VolunteerForm, failed.field, failed.message, notify.Error)
		}

		if len(form.Checked("interests")) == 0 {
			return s.reject(p, VolunteerForm, "interests", msgNoInterest, notify.Error)
		}

		if !validate.FileSize(in.Uploads["attachment"], s.cfg.MaxUploadMB) {
			return s.reject(p, VolunteerForm, "attachment", fmt.Sprintf(msgFileTooLarge, s.cfg.MaxUploadMB), notify.Error)
		}

		res := s.succeed(p, msgVolunteerSaved, notify.Success)
		s.scheduleReset(p, form)
		return res
	})
}

// BlurFields are the registration inputs checked as soon as they lose focus.
var BlurFields = []string{"email", "phone", "nationalId", "birthDate"}

// VolunteerBlur checks one registration field as soon as it is left. Empty
// values are ignored; failures raise a warning rather than an error.
func (s *Service) VolunteerBlur(p *session.Page, fieldID, value string) Result {
	return s.run(p, func() Result {
		form := p.Form(VolunteerForm)
		schema, _ := Lookup(VolunteerForm)
		schema.Prepare(form)

		fld, ok := form.Field(fieldID)
		if !ok {
			return Result{Field: fieldID}
		}
		fld.Value = value
		if !validate.Required(value) {
			return Result{OK: true, Field: fieldID}
		}

		message, known := CheckField(fieldID, value, s.now(), s.cfg.MinAge)
		if !known {
			return Result{OK: true, Field: fieldID}
		}
		fld.MarkValid()
		if message == "" {
			return Result{OK: true, Field: fieldID}
		}
		fld.MarkInvalid(message)
		return s.reject(p, VolunteerForm, fieldID, message, notify.Warning)
	})
}

// searchFlow shows a short progress banner and replaces it with the result
// banner once the simulated lookup delay has passed.
func (s *Service) searchFlow(p *session.Page, formID, progress, found string) Result {
	note := p.Notifier.NotifyFor(progress, notify.Info, s.cfg.ProgressTTL)
	t := p.After(s.cfg.SearchDelay, func() {
		p.Notifier.Notify(found, notify.Success)
	})
	replaceTask(p, pendingKey+formID, t)
	return Result{OK: true, Notice: note}
}

// Search handles the full search form: any one criterion is enough.
func (s *Service) Search(p *session.Page, in Input) Result {
	return s.run(p, func() Result {
		form := s.bind(p, SearchForm, in)
		term := form.Value("searchTerm")
		category := form.Value("category")
		city := form.Value("city")

		// Any submitted value counts as a criterion; markup only matters
		// for the echo.
		if term == "" && category == "" && city == "" {
			return s.reject(p, SearchForm, "", msgSearchCriteria, notify.Warning)
		}

		what := format.PlainText(term)
		if what == "" {
			what = msgAllOpportunity
		}
		where := msgAllCities
		if city != "" {
			schema, _ := Lookup(SearchForm)
			spec, _ := schema.Field("city")
			where = spec.OptionLabel(city)
		}

		return s.searchFlow(p, SearchForm,
			fmt.Sprintf(msgSearching, what, where),
			fmt.Sprintf(msgSearchFound, format.Number(searchMatches)))
	})
}

// QuickSearch handles the header search box: keyword or category.
func (s *Service) QuickSearch(p *session.Page, in Input) Result {
	return s.run(p, func() Result {
		form := s.bind(p, QuickSearchForm, in)
		if form.Value("searchKeyword") == "" && form.Value("searchCategory") == "" {
			return s.reject(p, QuickSearchForm, "", msgQuickCriteria, notify.Warning)
		}
		return s.searchFlow(p, QuickSearchForm, msgQuickSearching,
			fmt.Sprintf(msgQuickFound, format.Number(quickSearchMatches)))
	})
}

func (s *Service) summarize(p *session.Page, formID, profile string, hours int) (*Summary, error) {
	prof, err := s.profiles.Get(profile)
	if err != nil {
		return nil, err
	}
	sum := &Summary{
		Profile:   prof.Name,
		Title:     prof.Title,
		Tier:      prof.Lookup(hours),
		Hours:     hours,
		HoursText: format.Number(hours),
	}
	p.Set(summaryKey+formID, sum)
	return sum, nil
}

// Calculator handles the standalone calculator page with the classic profile.
func (s *Service) Calculator(p *session.Page, in Input) Result {
	return s.run(p, func() Result {
		form := s.bind(p, CalculatorForm, in)
		fld, _ := form.Field("totalHours")

		hours := validate.Hours(form.Value("totalHours"))
		if hours <= 0 {
			if fld != nil {
				fld.MarkInvalid(msgBadHours)
			}
			return s.reject(p, CalculatorForm, "totalHours", msgBadHours, notify.Error)
		}
		if fld != nil {
			fld.MarkValid()
		}

		sum, err := s.summarize(p, CalculatorForm, tiers.Classic, hours)
		if err != nil {
			s.log.Error("tier lookup failed", zap.String("profile", tiers.Classic), zap.Error(err))
			res := s.reject(p, CalculatorForm, "", msgSaveFailed, notify.Error)
			res.Err = err
			return res
		}
		res := s.succeed(p, msgLevelComputed, notify.Success)
		res.Summary = sum
		return res
	})
}

func (s *Service) hoursValue(p *session.Page, in Input) (*validate.Form, int) {
	form := s.bind(p, HoursForm, in)
	return form, validate.Hours(form.Value("totalHours"))
}

// CalculateLevel computes the level on the hours page with the stars profile.
func (s *Service) CalculateLevel(p *session.Page, in Input) Result {
	return s.run(p, func() Result {
		form, hours := s.hoursValue(p, in)
		if hours <= 0 {
			if fld, ok := form.Field("totalHours"); ok {
				fld.MarkInvalid(msgHoursMissing)
			}
			return s.reject(p, HoursForm, "totalHours", msgHoursMissing, notify.Error)
		}
		if fld, ok := form.Field("totalHours"); ok {
			fld.MarkValid()
		}

		sum, err := s.summarize(p, HoursForm, tiers.Stars, hours)
		if err != nil {
			s.log.Error("tier lookup failed", zap.String("profile", tiers.Stars), zap.Error(err))
			res := s.reject(p, HoursForm, "", msgSaveFailed, notify.Error)
			res.Err = err
			return res
		}
		res := s.succeed(p, fmt.Sprintf(msgLevelIs, sum.Tier.Label), notify.Success)
		res.Summary = sum
		return res
	})
}

// RegisterHours logs a block of volunteered hours.
func (s *Service) RegisterHours(p *session.Page, in Input) Result {
	return s.run(p, func() Result {
		form := s.bind(p, HoursForm, in)
		if !form.ValidateRequired() {
			return s.reject(p, HoursForm, "", msgHoursRequired, notify.Error)
		}
		res := s.succeed(p, msgHoursRegistered, notify.Success)
		s.scheduleReset(p, form)
		return res
	})
}

// SaveHours stores the whole hours form as the visitor's draft.
func (s *Service) SaveHours(ctx context.Context, p *session.Page, in Input) Result {
	return s.run(p, func() Result {
		form, hours := s.hoursValue(p, in)
		if hours <= 0 {
			return s.reject(p, HoursForm, "totalHours", msgHoursFirst, notify.Warning)
		}

		snap := drafts.Snapshot{}
		for k, v := range form.Snapshot() {
			snap[k] = format.PlainText(v)
		}
		if err := s.drafts.Save(ctx, p.VisitorID, drafts.HoursKey, snap); err != nil {
			s.log.Error("failed to save hours draft", zap.String("visitor", p.VisitorID), zap.Error(err))
			res := s.reject(p, HoursForm, "", msgSaveFailed, notify.Error)
			res.Err = fmt.Errorf("save hours draft: %w", err)
			return res
		}
		return s.succeed(p, fmt.Sprintf(msgHoursSaved, format.Number(hours)), notify.Info)
	})
}

// LoadHoursDraft returns the visitor's saved hours snapshot.
func (s *Service) LoadHoursDraft(ctx context.Context, visitorID string) (*drafts.Draft, error) {
	d, err := s.drafts.Load(ctx, visitorID, drafts.HoursKey)
	if err != nil && !errors.Is(err, drafts.ErrNotFound) {
		s.log.Error("failed to load hours draft", zap.String("visitor", visitorID), zap.Error(err))
	}
	return d, err
}

// SaveResults confirms the level results of the hours page.
func (s *Service) SaveResults(p *session.Page, in Input) Result {
	return s.run(p, func() Result {
		_, hours := s.hoursValue(p, in)
		if hours <= 0 {
			return s.reject(p, HoursForm, "totalHours", msgNoResults, notify.Warning)
		}
		return s.succeed(p, msgResultsSaved, notify.Success)
	})
}

// PublishOpportunity validates the new-opportunity form.
func (s *Service) PublishOpportunity(p *session.Page, in Input) Result {
	return s.run(p, func() Result {
		form := s.bind(p, OpportunityForm, in)
		if !form.ValidateRequired() {
			return s.reject(p, OpportunityForm, "", msgFillRequired, notify.Error)
		}

		days, ok := format.DaysBetween(form.Value("startDate"), form.Value("endDate"))
		if ok && days < 0 {
			if fld, found := form.Field("endDate"); found {
				fld.MarkInvalid(msgEndBeforeStart)
			}
			return s.reject(p, OpportunityForm, "endDate", msgEndBeforeStart, notify.Error)
		}
		if fld, found := form.Field("endDate"); found {
			fld.MarkValid()
		}

		if ok {
			return s.succeed(p, fmt.Sprintf(msgPublishedFor, format.Number(days)), notify.Success)
		}
		return s.succeed(p, msgPublished, notify.Success)
	})
}

// SaveOpportunityDraft acknowledges a draft save of the opportunity form.
func (s *Service) SaveOpportunityDraft(p *session.Page, in Input) Result {
	return s.run(p, func() Result {
		s.bind(p, OpportunityForm, in)
		return s.succeed(p, msgDraftSaved, notify.Info)
	})
}

// Generic applies the required-field check to any registered form that has
// no dedicated controller.
func (s *Service) Generic(p *session.Page, formID string, in Input) (Result, bool) {
	if _, ok := Lookup(formID); !ok {
		return Result{}, false
	}
	return s.run(p, func() Result {
		form := s.bind(p, formID, in)
		if !form.ValidateRequired() {
			return s.reject(p, formID, "", msgFillRequired, notify.Error)
		}
		return Result{OK: true}
	}), true
}

// Welcome greets a visitor once, shortly after their first page view.
func (s *Service) Welcome(p *session.Page) {
	p.Dispatch(func() {
		if _, done := p.Get(welcomedKey); done {
			return
		}
		p.Set(welcomedKey, true)
		p.After(s.cfg.WelcomeDelay, func() {
			p.Notifier.Notify(msgWelcome, notify.Info)
		})
	})
}
