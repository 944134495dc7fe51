package forms

import (
	"strings"

	"givingbank/internal/validate"
)

// Form identifiers, as used in markup and routes.
const (
	VolunteerForm   = "volunteerForm"
	SearchForm      = "searchForm"
	QuickSearchForm = "quickSearchForm"
	CalculatorForm  = "calculatorForm"
	HoursForm       = "hoursForm"
	OpportunityForm = "opportunityForm"
)

type Kind string

const (
	Text     Kind = "text"
	Email    Kind = "email"
	Tel      Kind = "tel"
	Date     Kind = "date"
	Number   Kind = "number"
	Select   Kind = "select"
	TextArea Kind = "textarea"
	Checkbox Kind = "checkbox"
	File     Kind = "file"
)

type Choice struct {
	Value string
	Label string
}

// FieldSpec describes one input as it appears in the markup. Required marks
// the inputs that carry the required attribute.
type FieldSpec struct {
	ID       string
	Label    string
	Kind     Kind
	Required bool
	Options  []Choice
}

type Schema struct {
	ID     string
	Title  string
	Fields []FieldSpec
}

func (s Schema) Field(id string) (FieldSpec, bool) {
	for _, f := range s.Fields {
		if f.ID == id {
			return f, true
		}
	}
	return FieldSpec{}, false
}

// Input is what a submit carries: text values by field id, checked values by
// checkbox group and upload sizes by file field.
type Input struct {
	Values  map[string]string
	Checked map[string][]string
	Uploads map[string]int64
}

func (in Input) Value(id string) string {
	return in.Values[id]
}

// Bind copies the submitted values for every field of the schema into form.
// Fields the submit did not carry are set to "".
func (s Schema) Bind(form *validate.Form, in Input) {
	for _, f := range s.Fields {
		switch f.Kind {
		case Checkbox:
			form.SetChecked(f.ID, in.Checked[f.ID])
		case File:
		default:
			form.Add(f.ID, in.Values[f.ID], f.Required)
		}
	}
}

// Prepare registers the schema's fields on form without touching values that
// are already there, so a fresh page renders every input.
func (s Schema) Prepare(form *validate.Form) {
	for _, f := range s.Fields {
		if f.Kind == Checkbox || f.Kind == File {
			continue
		}
		form.Add(f.ID, form.Value(f.ID), f.Required)
	}
}

var cities = []Choice{
	{"riyadh", "الرياض"},
	{"jeddah", "جدة"},
	{"makkah", "مكة المكرمة"},
	{"madinah", "المدينة المنورة"},
	{"dammam", "الدمام"},
	{"abha", "أبها"},
}

var categories = []Choice{
	{"education", "التعليم"},
	{"health", "الصحة"},
	{"environment", "البيئة"},
	{"social", "الخدمات الاجتماعية"},
	{"events", "الفعاليات"},
	{"tech", "التقنية"},
}

var schemas = map[string]Schema{
	VolunteerForm: {
		ID:    VolunteerForm,
		Title: "تسجيل متطوع جديد",
		Fields: []FieldSpec{
			{ID: "fullName", Label: "الاسم الكامل", Kind: Text, Required: true},
			{ID: "email", Label: "البريد الإلكتروني", Kind: Email, Required: true},
			{ID: "phone", Label: "رقم الجوال", Kind: Tel, Required: true},
			{ID: "nationalId", Label: "رقم الهوية", Kind: Text, Required: true},
			{ID: "birthDate", Label: "تاريخ الميلاد", Kind: Date, Required: true},
			{ID: "city", Label: "المدينة", Kind: Select, Required: true, Options: cities},
			{ID: "interests", Label: "مجالات الاهتمام", Kind: Checkbox, Options: categories},
			{ID: "notes", Label: "ملاحظات", Kind: TextArea},
			{ID: "attachment", Label: "السيرة الذاتية", Kind: File},
		},
	},
	SearchForm: {
		ID:    SearchForm,
		Title: "البحث عن فرص تطوع",
		Fields: []FieldSpec{
			{ID: "searchTerm", Label: "كلمة البحث", Kind: Text},
			{ID: "category", Label: "التصنيف", Kind: Select, Options: categories},
			{ID: "city", Label: "المدينة", Kind: Select, Options: cities},
		},
	},
	QuickSearchForm: {
		ID:    QuickSearchForm,
		Title: "بحث سريع",
		Fields: []FieldSpec{
			{ID: "searchKeyword", Label: "كلمة البحث", Kind: Text},
			{ID: "searchCategory", Label: "التصنيف", Kind: Select, Options: categories},
		},
	},
	CalculatorForm: {
		ID:    CalculatorForm,
		Title: "حاسبة مستوى التطوع",
		Fields: []FieldSpec{
			{ID: "totalHours", Label: "إجمالي الساعات", Kind: Number, Required: true},
		},
	},
	HoursForm: {
		ID:    HoursForm,
		Title: "تسجيل الساعات التطوعية",
		Fields: []FieldSpec{
			{ID: "volunteerSelect", Label: "المتطوع", Kind: Text, Required: true},
			{ID: "opportunitySelect", Label: "الفرصة التطوعية", Kind: Text, Required: true},
			{ID: "workDate", Label: "تاريخ العمل", Kind: Date, Required: true},
			{ID: "totalHours", Label: "عدد الساعات", Kind: Number, Required: true},
			{ID: "workDescription", Label: "وصف العمل", Kind: TextArea, Required: true},
		},
	},
	OpportunityForm: {
		ID:    OpportunityForm,
		Title: "إضافة فرصة تطوعية",
		Fields: []FieldSpec{
			{ID: "title", Label: "عنوان الفرصة", Kind: Text, Required: true},
			{ID: "organization", Label: "الجهة", Kind: Text, Required: true},
			{ID: "category", Label: "التصنيف", Kind: Select, Required: true, Options: categories},
			{ID: "city", Label: "المدينة", Kind: Select, Required: true, Options: cities},
			{ID: "startDate", Label: "تاريخ البدء", Kind: Date, Required: true},
			{ID: "endDate", Label: "تاريخ الانتهاء", Kind: Date, Required: true},
			{ID: "seats", Label: "عدد المقاعد", Kind: Number},
			{ID: "description", Label: "الوصف", Kind: TextArea, Required: true},
		},
	},
}

// Lookup returns the schema registered for a form id.
func Lookup(id string) (Schema, bool) {
	s, ok := schemas[id]
	return s, ok
}

// OptionLabel returns the display label for a select value, or the value
// itself when it is not one of the options.
func (f FieldSpec) OptionLabel(value string) string {
	for _, o := range f.Options {
		if o.Value == value {
			return o.Label
		}
	}
	return strings.TrimSpace(value)
}
