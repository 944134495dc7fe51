package forms

import (
	"fmt"
	"time"

	"givingbank/internal/validate"
)

// CheckField runs the shape check for a single field id outside of any form
// and returns the warning message, or "" if the value passes. Empty values
// always pass. known is false for ids without a shape check.
func CheckField(fieldID, value string, now time.Time, minAge int) (message string, known bool) {
	empty := !validate.Required(value)
	switch fieldID {
	case "email":
		if !empty && !validate.Email(value) {
			message = msgBlurEmail
		}
	case "phone":
		if !empty && !validate.LocalPhone(value) {
			message = msgBlurPhone
		}
	case "nationalId":
		if !empty && !validate.NationalID(value) {
			message = msgBlurNationalID
		}
	case "birthDate":
		if !empty && !validate.MinAge(value, now, minAge) {
			message = fmt.Sprintf(msgBlurTooYoung, minAge)
		}
	case "totalHours":
		if !empty && validate.Hours(value) <= 0 {
			message = msgBadHours
		}
	default:
		return "", false
	}
	return message, true
}
