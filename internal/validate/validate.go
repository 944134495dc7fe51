package validate

import (
	"regexp"
	"strings"
	"time"
)

const (
	// DateLayout is the value format of <input type="date">.
	DateLayout = "2006-01-02"

	// MinVolunteerAge is the youngest age accepted on the registration form.
	MinVolunteerAge = 16
)

var (
	emailRegex      = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	localPhoneRegex = regexp.MustCompile(`^05[503649187][0-9]{7}$`)
	nationalIDRegex = regexp.MustCompile(`^[0-9]{10,15}$`)
)

func Required(value string) bool {
	return strings.TrimSpace(value) != ""
}

// Email accepts anything shaped like local@domain.tld without whitespace.
// It is deliberately looser than RFC 5322.
func Email(email string) bool {
	return emailRegex.MatchString(email)
}

// LocalPhone accepts ten-digit Saudi mobile numbers: 05 followed by an
// allowed operator digit and seven more digits.
func LocalPhone(phone string) bool {
	return localPhoneRegex.MatchString(phone)
}

func NationalID(id string) bool {
	return nationalIDRegex.MatchString(id)
}

// Age returns the number of whole years between birth and now. The second
// return value is false when birth is not a valid date.
func Age(birth string, now time.Time) (int, bool) {
	b, err := time.ParseInLocation(DateLayout, strings.TrimSpace(birth), now.Location())
	if err != nil {
		return 0, false
	}

	age := now.Year() - b.Year()
	if now.Month() < b.Month() || (now.Month() == b.Month() && now.Day() < b.Day()) {
		age--
	}
	return age, true
}

func MinAge(birth string, now time.Time, years int) bool {
	age, ok := Age(birth, now)
	return ok && age >= years
}

// Adult reports whether the birth date belongs to someone old enough to register.
func Adult(birth string, now time.Time) bool {
	return MinAge(birth, now, MinVolunteerAge)
}

// Hours parses an hours field leniently: leading whitespace, an optional sign
// and the leading run of digits are read, everything after is ignored. A value
// without leading digits yields 0.
func Hours(value string) int {
	s := strings.TrimSpace(value)
	neg := false
	if s != "" && (s[0] == '-' || s[0] == '+') {
		neg = s[0] == '-'
		s = s[1:]
	}

	n := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c < '0' || c > '9' {
			break
		}
		if n > (1<<31-1)/10 {
			break
		}
		n = n*10 + int(c-'0')
	}
	if neg {
		return -n
	}
	return n
}

// FileSize reports whether size bytes fits within maxMB megabytes. A missing
// upload (size 0) is always acceptable.
func FileSize(size int64, maxMB float64) bool {
	if size <= 0 {
		return true
	}
	return float64(size)/1024/1024 <= maxMB
}
