// Package format holds the small presentation helpers shared by the form
// controllers and views.
package format

import (
	"html"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Locale is the language numbers are rendered in.
var Locale = language.MustParse("ar-SA")

// Number renders n with the locale's digits and grouping.
func Number(n int) string {
	return NumberIn(Locale, n)
}

func NumberIn(tag language.Tag, n int) string {
	return message.NewPrinter(tag).Sprintf("%d", n)
}

// DaysBetween returns the number of days from start to end, rounded up.
// Both dates use the date-input layout; ok is false if either is invalid.
func DaysBetween(start, end string) (int, bool) {
	s, err := time.Parse("2006-01-02", strings.TrimSpace(start))
	if err != nil {
		return 0, false
	}
	e, err := time.Parse("2006-01-02", strings.TrimSpace(end))
	if err != nil {
		return 0, false
	}
	return int(math.Ceil(e.Sub(s).Hours() / 24)), true
}

var (
	policyOnce sync.Once
	policy     *bluemonday.Policy
)

// PlainText strips any markup from user input before it is echoed back in a
// notification or stored in a draft. The result is unescaped text; views
// escape it again on output.
func PlainText(s string) string {
	policyOnce.Do(func() {
		policy = bluemonday.StrictPolicy()
	})
	return strings.TrimSpace(html.UnescapeString(policy.Sanitize(s)))
}
