package sanitizer

import (
	"regexp"
	"strings"

	"github.com/nyaruka/phonenumbers"
)

var (
	supportedRegions = []string{
		"PH",
		"US",
	}

	reValidPhone = regexp.MustCompile(`^[+(]?[0-9][0-9\s\-()]{6,18}$`)
)

// SanitizePhone normalizes a customer phone number to E.164. Input that does
// not look like a phone number at all is returned unchanged so the validator
// can reject it with a field-level message; input that looks like a phone
// number but parses in no supported region yields "".
func SanitizePhone(phone string) string {
	phone = strings.TrimSpace(phone)

	if phone == "" || !reValidPhone.MatchString(phone) {
		return phone
	}

	for _, region := range supportedRegions {
		parsed, err := phonenumbers.Parse(phone, region)
		if err != nil {
			continue
		}
		if phonenumbers.IsValidNumber(parsed) {
			return phonenumbers.Format(parsed, phonenumbers.E164)
		}
	}
	return ""
}
