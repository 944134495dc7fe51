package forms

import "testing"

func TestCheckField(t *testing.T) {
	cases := []struct {
		field, value string
		want         string
		known        bool
	}{
		{"email", "", "", true},
		{"email", "a@b.co", "", true},
		{"email", "a@b", msgBlurEmail, true},
		{"phone", "0501234567", "", true},
		{"phone", "0601234567", msgBlurPhone, true},
		{"nationalId", "12345678901", "", true},
		{"nationalId", "12-34", msgBlurNationalID, true},
		{"birthDate", "2010-10-19", "", true},
		{"birthDate", "2010-10-20", "يجب أن يكون عمرك 16 سنة على الأقل", true},
		{"totalHours", "12abc", "", true},
		{"totalHours", "-3", msgBadHours, true},
		{"fullName", "x", "", false},
	}
	for _, tc := range cases {
		got, known := CheckField(tc.field, tc.value, today, 16)
		if got != tc.want || known != tc.known {
			t.Errorf("CheckField(%q, %q) = %q, %v; want %q, %v", tc.field, tc.value, got, known, tc.want, tc.known)
		}
	}
}
