// internal/phone/phone.go
package phone

import "strings"

// DefaultCountryCode is the national calling code used when nothing else is
// configured. The service was built for Indonesian numbers.
const DefaultCountryCode = "62"

// Normalize turns a user-entered phone number into the canonical form the
// gateway can address. The rule is total and idempotent:
//
//   - everything except digits (and a leading +) is stripped
//   - a national trunk prefix "0" is replaced with the country code
//   - a number already carrying "+" or the country code is left alone
//   - anything else gets the country code prepended
//
// Empty or fully non-numeric input is returned unchanged; callers validate
// non-emptiness upstream.
func Normalize(raw, countryCode string) string {
	if countryCode == "" {
		countryCode = DefaultCountryCode
	}

	var b strings.Builder
	for i, r := range strings.TrimSpace(raw) {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '+' && i == 0:
			b.WriteByte('+')
		}
	}
	cleaned := b.String()

	if cleaned == "" || cleaned == "+" {
		return raw
	}

	switch {
	case strings.HasPrefix(cleaned, "+"):
		return cleaned
	case strings.HasPrefix(cleaned, "0"):
		return countryCode + cleaned[1:]
	case strings.HasPrefix(cleaned, countryCode):
		return cleaned
	default:
		return countryCode + cleaned
	}
}
