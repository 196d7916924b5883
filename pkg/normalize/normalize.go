// pkg/normalize/normalize.go
package normalize

import (
	"math"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Field normalizers convert one raw textual value into one validated, typed
// value or report absence. Invalid input is data, not a programming error:
// no normalizer ever returns an error, it returns ok=false instead.

// sentinels are the raw values that mean "no data" across every normalizer.
// Comparison happens after trimming surrounding whitespace and is
// case-sensitive as listed.
var sentinels = map[string]struct{}{
	"":     {},
	"N/A":  {},
	"n/a":  {},
	"NA":   {},
	"null": {},
	"None": {},
}

// dateLayouts are tried in order; the first layout that parses and yields a
// year in [1900,2030] wins. The ordering makes MM/DD/YYYY beat DD/MM/YYYY for
// ambiguous strings, which downstream consumers depend on.
// The non-padded forms accept both "08/10/2025" and "8/10/2025".
var dateLayouts = []string{
	"2006-1-2", // 2025-01-15
	"1/2/2006", // 8/10/2025
	"2/1/2006", // 15/08/2025
	"2006/1/2", // 2025/08/10
	"1-2-2006", // 08-10-2025
	"2-1-2006", // 10-08-2025
}

// ageWords maps English number words to integers, including the compound
// forms used in the student dataset. Lookup is case-insensitive with internal
// whitespace collapsed.
var ageWords = map[string]int{
	"one": 1, "two": 2, "three": 3, "four": 4, "five": 5,
	"six": 6, "seven": 7, "eight": 8, "nine": 9, "ten": 10,
	"eleven": 11, "twelve": 12, "thirteen": 13, "fourteen": 14, "fifteen": 15,
	"sixteen": 16, "seventeen": 17, "eighteen": 18, "nineteen": 19, "twenty": 20,
	"twenty one": 21, "twenty two": 22, "twenty three": 23, "twenty four": 24,
	"twenty five": 25, "twenty six": 26, "twenty seven": 27, "twenty eight": 28,
	"twenty nine": 29, "thirty": 30,
}

const (
	minYear = 1900
	maxYear = 2030
	minAge  = 1
	maxAge  = 120
)

// IsSentinel reports whether the trimmed value denotes "absent".
func IsSentinel(value string) bool {
	_, ok := sentinels[strings.TrimSpace(value)]
	return ok
}

// ParseInt converts a raw value to an integer. Decimal-looking strings are
// accepted and truncated toward zero. Negative results are rejected unless
// allowNegative is set.
func ParseInt(value string, allowNegative bool) (int, bool) {
	if IsSentinel(value) {
		return 0, false
	}

	f, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}

	n := int(math.Trunc(f))
	if !allowNegative && n < 0 {
		return 0, false
	}
	return n, true
}

// ParseDecimal converts a raw value to a float. When stripNegative is set, a
// leading minus sign is removed before parsing: the sign is treated as a
// data-entry artifact rather than a true negative. That repair is applied to
// price cleaning specifically, not universally.
func ParseDecimal(value string, allowNegative, stripNegative bool) (float64, bool) {
	if IsSentinel(value) {
		return 0, false
	}

	v := strings.TrimSpace(value)
	if stripNegative && strings.HasPrefix(v, "-") {
		v = v[1:]
	}

	f, err := strconv.ParseFloat(v, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}

	if !allowNegative && f < 0 {
		return 0, false
	}
	return f, true
}

// ParseDate parses a calendar date by trying the fixed layout candidates in
// order. A layout that parses but yields a year outside [1900,2030] does not
// win; later layouts are still tried. The result is a UTC midnight date.
func ParseDate(value string) (time.Time, bool) {
	if IsSentinel(value) {
		return time.Time{}, false
	}

	v := strings.TrimSpace(value)
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, v)
		if err != nil {
			continue
		}
		if t.Year() < minYear || t.Year() > maxYear {
			continue
		}
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), true
	}

	return time.Time{}, false
}

// CleanText collapses internal whitespace runs to single spaces, trims, and
// title-cases the result. Sentinel or whitespace-only input is absent.
func CleanText(value string) (string, bool) {
	if IsSentinel(value) {
		return "", false
	}

	cleaned := strings.Join(strings.Fields(value), " ")
	if cleaned == "" {
		return "", false
	}
	return cases.Title(language.English).String(cleaned), true
}

// ParseAge converts an age value, accepting the word vocabulary first and
// falling back to a numeric parse restricted to [1,120].
func ParseAge(value string) (int, bool) {
	if IsSentinel(value) {
		return 0, false
	}

	key := strings.ToLower(strings.Join(strings.Fields(value), " "))
	if n, ok := ageWords[key]; ok {
		return n, true
	}

	f, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	n := int(math.Trunc(f))
	if n < minAge || n > maxAge {
		return 0, false
	}
	return n, true
}

// StandardizeGender maps raw gender values onto M/F/Other. Any non-sentinel
// value that matches neither vocabulary becomes "Other", so the result is
// never absent once a real value was supplied.
func StandardizeGender(value string) (string, bool) {
	if IsSentinel(value) {
		return "", false
	}

	switch strings.ToUpper(strings.TrimSpace(value)) {
	case "M", "MALE", "MAN", "BOY":
		return "M", true
	case "F", "FEMALE", "WOMAN", "GIRL":
		return "F", true
	default:
		return "Other", true
	}
}

// StandardizeGrade uppercases a letter grade and preserves +/- suffixes.
// A first character outside A..D,F collapses the whole grade to "F".
func StandardizeGrade(value string) (string, bool) {
	if IsSentinel(value) {
		return "", false
	}

	grade := strings.ToUpper(strings.TrimSpace(value))
	switch r, _ := utf8.DecodeRuneInString(grade); r {
	case 'A', 'B', 'C', 'D', 'F':
		return grade, true
	default:
		return "F", true
	}
}

// CleanSupplier behaves like CleanText except that absent input yields the
// literal "Unknown": suppliers are never missing in the cleaned output.
func CleanSupplier(value string) string {
	if IsSentinel(value) {
		return "Unknown"
	}
	if cleaned, ok := CleanText(value); ok {
		return cleaned
	}
	return "Unknown"
}

// CombineNameParts title-cases and joins whichever of the two parts are
// non-empty with a single space.
func CombineNameParts(first, last string) (string, bool) {
	caser := cases.Title(language.English)

	parts := make([]string, 0, 2)
	if s := strings.TrimSpace(first); s != "" {
		parts = append(parts, caser.String(s))
	}
	if s := strings.TrimSpace(last); s != "" {
		parts = append(parts, caser.String(s))
	}

	if len(parts) == 0 {
		return "", false
	}
	return strings.Join(parts, " "), true
}
