// Package rut validates and formats Chilean national identification
// numbers (RUT). The check digit is a weighted mod-11 checksum over the
// body digits, with multipliers cycling 2..7 from the least significant
// digit; remainder 11 maps to '0' and 10 to 'K'.
package rut

import "strings"

// Clean strips dots and hyphens and uppercases the check digit.
func Clean(rut string) string {
	if rut == "" {
		return ""
	}
	r := strings.ToUpper(rut)
	r = strings.ReplaceAll(r, ".", "")
	r = strings.ReplaceAll(r, "-", "")
	return r
}

// Validate reports whether rut carries a correct check digit.
// The empty string is valid: the field is optional at the data-model
// level and presence is enforced elsewhere. Never panics on any input.
func Validate(rut string) bool {
	if rut == "" {
		return true
	}

	r := Clean(rut)
	if len(r) < 2 {
		return false
	}

	body := r[:len(r)-1]
	dv := r[len(r)-1]

	sum := 0
	mult := 2
	for i := len(body) - 1; i >= 0; i-- {
		d := body[i]
		if d < '0' || d > '9' {
			return false
		}
		sum += int(d-'0') * mult
		if mult < 7 {
			mult++
		} else {
			mult = 2
		}
	}

	return dv == checkDigit(sum)
}

// checkDigit maps the weighted sum to the expected verifier byte.
func checkDigit(sum int) byte {
	switch v := 11 - (sum % 11); v {
	case 11:
		return '0'
	case 10:
		return 'K'
	default:
		return byte('0' + v)
	}
}

// Format renders a RUT with thousands separators: 12345678-9 becomes
// 12.345.678-9. It assumes an already valid RUT; malformed input is
// returned cleaned but otherwise untouched.
func Format(rut string) string {
	if rut == "" {
		return ""
	}

	r := Clean(rut)
	if len(r) < 2 {
		return r
	}

	body := r[:len(r)-1]
	dv := r[len(r)-1]

	var b strings.Builder
	for i, d := range body {
		if i > 0 && (len(body)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(d)
	}
	b.WriteByte('-')
	b.WriteByte(dv)
	return b.String()
}
