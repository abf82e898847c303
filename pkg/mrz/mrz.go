// Package mrz encodes identity records into ICAO 9303-style machine-readable
// zone lines. It supports the TD1 (3 lines of 30 characters) and TD3 (2 lines
// of 44 characters) layouts with standard 7-3-1 check digits.
package mrz

import (
	"fmt"
	"strings"
	"time"
)

// Format selects the physical MRZ layout.
type Format string

const (
	// TD1 is the 3-line, 30-character layout used by card-sized documents.
	TD1 Format = "TD1"
	// TD3 is the 2-line, 44-character layout used by passport-sized documents.
	TD3 Format = "TD3"
)

// LineWidth returns the fixed character width of each line for the format.
func (f Format) LineWidth() int {
	if f == TD1 {
		return 30
	}
	return 44
}

// LineCount returns the number of physical lines for the format.
func (f Format) LineCount() int {
	if f == TD1 {
		return 3
	}
	return 2
}

// Valid reports whether the format is a known layout.
func (f Format) Valid() bool {
	return f == TD1 || f == TD3
}

// Sex is the document holder's sex marker. X encodes as the filler character.
type Sex string

const (
	SexMale        Sex = "M"
	SexFemale      Sex = "F"
	SexUnspecified Sex = "X"
)

// Record is a normalized identity record. Callers are expected to supply
// trimmed, upper-cased values; lower case is normalized rather than rejected.
// Diacritic transliteration is the caller's concern; characters outside
// [A-Z0-9] map to the filler character.
type Record struct {
	Surname        string
	GivenNames     string
	DocumentNumber string
	IssuingState   string
	Nationality    string
	DateOfBirth    time.Time
	Sex            Sex
	DateOfExpiry   time.Time
	PersonalNumber string

	// DocumentCode overrides the first character pair of line 1.
	// Defaults to "P" for TD3 and "I" for TD1 when empty.
	DocumentCode string
}

// Result holds the encoded MRZ lines for one document.
// Every line has exactly the format's width and contains only [A-Z0-9<].
// Truncated lists fields that exceeded their field width and were silently
// cut; callers that want observability log these, encoding never fails on
// overflow.
type Result struct {
	Format    Format   `json:"format"`
	Lines     []string `json:"lines"`
	Truncated []string `json:"truncated,omitempty"`
}

const filler = "<"

const (
	td3NameWidth     = 39
	td3PersonalWidth = 14
	td1NameWidth     = 30
	td1OptionalWidth = 15
	td1Optional2     = "<<<<<<<<<<<"
	numberWidth      = 9
)

// Encode converts a record into fixed-width MRZ lines for the given format.
// It returns ErrInvalidRecord when a required field is missing and
// ErrUnknownFormat for formats other than TD1 and TD3. Field overflow is not
// an error; overlong values are truncated and reported via Result.Truncated.
func Encode(r Record, format Format) (*Result, error) {
	if !format.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
	if err := r.validate(); err != nil {
		return nil, err
	}

	switch format {
	case TD1:
		return encodeTD1(r), nil
	default:
		return encodeTD3(r), nil
	}
}

// CheckDigit computes the ICAO 9303 check digit for an encoded field:
// weights 7, 3, 1 cycled across positions, letters valued A=10 through Z=35,
// filler valued 0, summed modulo 10.
func CheckDigit(field string) int {
	weights := [3]int{7, 3, 1}
	sum := 0
	for i, c := range field {
		sum += charValue(byte(c)) * weights[i%3]
	}
	return sum % 10
}

func (r Record) validate() error {
	required := []struct {
		name    string
		missing bool
	}{
		{"surname", strings.TrimSpace(r.Surname) == ""},
		{"documentNumber", strings.TrimSpace(r.DocumentNumber) == ""},
		{"issuingStateCode", strings.TrimSpace(r.IssuingState) == ""},
		{"nationalityCode", strings.TrimSpace(r.Nationality) == ""},
		{"sex", r.Sex == ""},
		{"dateOfBirth", r.DateOfBirth.IsZero()},
		{"dateOfExpiry", r.DateOfExpiry.IsZero()},
	}

	for _, f := range required {
		if f.missing {
			return fmt.Errorf("%w: missing %s", ErrInvalidRecord, f.name)
		}
	}
	return nil
}

func encodeTD3(r Record) *Result {
	var truncated []string

	number, cut := fitField(normalize(r.DocumentNumber), numberWidth)
	if cut {
		truncated = append(truncated, "documentNumber")
	}
	personal, cut := fitField(normalize(r.PersonalNumber), td3PersonalWidth)
	if cut {
		truncated = append(truncated, "personalNumber")
	}

	birth := encodeDate(r.DateOfBirth)
	expiry := encodeDate(r.DateOfExpiry)

	numberCD := CheckDigit(number)
	birthCD := CheckDigit(birth)
	expiryCD := CheckDigit(expiry)
	personalCD := CheckDigit(personal)

	composite := CheckDigit(fmt.Sprintf(
		"%s%d%s%d%s%d%s%d",
		number, numberCD,
		birth, birthCD,
		expiry, expiryCD,
		personal, personalCD,
	))

	line1 := documentCode(r.DocumentCode, "P") +
		countryCode(r.IssuingState) +
		nameField(r.Surname, r.GivenNames, td3NameWidth)

	line2 := fmt.Sprintf(
		"%s%d%s%s%d%s%s%d%s%d%d",
		number, numberCD,
		countryCode(r.Nationality),
		birth, birthCD,
		sexChar(r.Sex),
		expiry, expiryCD,
		personal, personalCD,
		composite,
	)

	return &Result{
		Format:    TD3,
		Lines:     []string{line1, line2},
		Truncated: truncated,
	}
}

func encodeTD1(r Record) *Result {
	var truncated []string

	number, cut := fitField(normalize(r.DocumentNumber), numberWidth)
	if cut {
		truncated = append(truncated, "documentNumber")
	}

	// TD1 carries the personal number in the line 1 optional data field.
	optional1, cut := fitField(normalize(r.PersonalNumber), td1OptionalWidth)
	if cut {
		truncated = append(truncated, "personalNumber")
	}

	birth := encodeDate(r.DateOfBirth)
	expiry := encodeDate(r.DateOfExpiry)

	numberCD := CheckDigit(number)
	birthCD := CheckDigit(birth)
	expiryCD := CheckDigit(expiry)

	composite := CheckDigit(fmt.Sprintf(
		"%s%d%s%s%d%s%d%s",
		number, numberCD, optional1,
		birth, birthCD,
		expiry, expiryCD,
		td1Optional2,
	))

	line1 := documentCode(r.DocumentCode, "I") +
		countryCode(r.IssuingState) +
		fmt.Sprintf("%s%d%s", number, numberCD, optional1)

	line2 := fmt.Sprintf(
		"%s%d%s%s%d%s%s%d",
		birth, birthCD,
		sexChar(r.Sex),
		expiry, expiryCD,
		countryCode(r.Nationality),
		td1Optional2,
		composite,
	)

	line3 := nameField(r.Surname, r.GivenNames, td1NameWidth)

	return &Result{
		Format:    TD1,
		Lines:     []string{line1, line2, line3},
		Truncated: truncated,
	}
}

// nameField builds "SURNAME<<GIVEN<NAMES" padded or truncated to width.
func nameField(surname, given string, width int) string {
	name := normalize(surname)
	if g := normalize(given); g != "" {
		name += filler + filler + g
	}
	fitted, _ := fitField(name, width)
	return fitted
}

// normalize upper-cases the value and replaces spaces and any character
// outside [A-Z0-9] with the filler character.
func normalize(s string) string {
	s = strings.ToUpper(strings.TrimSpace(s))

	var b strings.Builder
	b.Grow(len(s))
	for i := range len(s) {
		c := s[i]
		switch {
		case c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
			b.WriteByte(c)
		default:
			b.WriteByte('<')
		}
	}
	return b.String()
}

func validChar(c byte) bool {
	return (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') || c == '<'
}

// charValue maps an encoded character to its check-digit value: digits keep
// their numeric value, letters run A=10 through Z=35, filler counts as 0.
func charValue(c byte) int {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0')
	case c >= 'A' && c <= 'Z':
		return int(c-'A') + 10
	default:
		return 0
	}
}

// fitField pads the value with filler to width, truncating first when it is
// too long. The second return reports whether truncation occurred.
func fitField(s string, width int) (string, bool) {
	if len(s) > width {
		return s[:width], true
	}
	return s + strings.Repeat(filler, width-len(s)), false
}

// encodeDate renders a date as YYMMDD. Two-digit years carry no century
// disambiguation; readers resolve the century from document context.
func encodeDate(t time.Time) string {
	return t.Format("060102")
}

func sexChar(s Sex) string {
	switch s {
	case SexMale:
		return "M"
	case SexFemale:
		return "F"
	default:
		return filler
	}
}

func documentCode(code, fallback string) string {
	code = normalize(code)
	if code == "" {
		code = fallback
	}
	fitted, _ := fitField(code, 2)
	return fitted
}

func countryCode(code string) string {
	fitted, _ := fitField(normalize(code), 3)
	return fitted
}
