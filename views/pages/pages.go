// Package pages holds full HTML documents.
package pages

import (
	"context"
	"fmt"
	"io"

	"givingbank/internal/forms"
	"givingbank/views/partials"

	"github.com/a-h/templ"
)

type navLink struct {
	href, label string
}

var nav = []navLink{
	{"/", "الرئيسية"},
	{"/volunteer", "سجل كمتطوع"},
	{"/search", "ابحث عن فرصة"},
	{"/calculator", "حاسبة المستوى"},
	{"/hours", "الساعات التطوعية"},
	{"/opportunities/new", "أضف فرصة"},
}

// Layout wraps body in the site chrome. The toast slot is rendered last so
// it sits above the content.
func Layout(title string, toast, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := fmt.Fprintf(w, `<!DOCTYPE html>
<html lang="ar" dir="rtl">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>%s | بنك العطاء</title>
<link rel="stylesheet" href="/static/site.css">
<script src="https://unpkg.com/htmx.org@1.9.12" defer></script>
<script>
document.addEventListener("htmx:configRequest", function (e) {
  var m = document.cookie.match(/(?:^|; )csrf_token=([^;]*)/);
  if (m) { e.detail.headers["X-CSRF-Token"] = decodeURIComponent(m[1]); }
});
</script>
</head>
<body>
<header class="site-header"><a class="brand" href="/">بنك العطاء</a><nav>`, templ.EscapeString(title)); err != nil {
			return err
		}
		for _, l := range nav {
			if _, err := fmt.Fprintf(w, `<a href="%s">%s</a>`, l.href, templ.EscapeString(l.label)); err != nil {
				return err
			}
		}
		if _, err := io.WriteString(w, `</nav></header><main class="container">`); err != nil {
			return err
		}
		if err := body.Render(ctx, w); err != nil {
			return err
		}
		if _, err := io.WriteString(w, `</main>`); err != nil {
			return err
		}
		if err := toast.Render(ctx, w); err != nil {
			return err
		}
		_, err := io.WriteString(w, `</body></html>`)
		return err
	})
}

// Home is the landing page with the header quick search.
func Home(quick forms.FormView, toast templ.Component) templ.Component {
	body := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, `<section class="hero"><h1>بنك العطاء</h1><p>منصة تربط المتطوعين بفرص العطاء في مدينتهم.</p></section>`); err != nil {
			return err
		}
		return partials.Form(quick, "/search/quick").Render(ctx, w)
	})
	return Layout("الرئيسية", toast, body)
}

// FormPage renders a single form as a full page.
func FormPage(v forms.FormView, action string, toast templ.Component, buttons ...partials.Button) templ.Component {
	return Layout(v.Schema.Title, toast, partials.Form(v, action, buttons...))
}
