package mrz

import "fmt"

// CheckFailure describes a single check digit that did not match during
// verification.
type CheckFailure struct {
	Field    string `json:"field"`
	Expected string `json:"expected"`
	Actual   string `json:"actual"`
}

// VerifyResult reports the outcome of verifying presented MRZ lines.
// Valid is true only when every structural and check digit test passed.
type VerifyResult struct {
	Valid    bool           `json:"valid"`
	Failures []CheckFailure `json:"failures,omitempty"`
}

// Verify validates presented MRZ lines against the given format: line count,
// line width, charset, and every check digit including the composite. It
// never returns an error for lines that merely fail verification; errors
// indicate an unusable request such as an unknown format.
func Verify(lines []string, format Format) (*VerifyResult, error) {
	if !format.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}

	result := &VerifyResult{}

	if len(lines) != format.LineCount() {
		result.fail("lineCount", fmt.Sprint(format.LineCount()), fmt.Sprint(len(lines)))
		return result.finish(), nil
	}

	for i, line := range lines {
		if len(line) != format.LineWidth() {
			result.fail(
				fmt.Sprintf("line%dWidth", i+1),
				fmt.Sprint(format.LineWidth()),
				fmt.Sprint(len(line)),
			)
			return result.finish(), nil
		}
		for j := 0; j < len(line); j++ {
			if !validChar(line[j]) {
				result.fail(fmt.Sprintf("line%dCharset", i+1), "[A-Z0-9<]", string(line[j]))
				return result.finish(), nil
			}
		}
	}

	switch format {
	case TD3:
		verifyTD3(lines, result)
	case TD1:
		verifyTD1(lines, result)
	}

	return result.finish(), nil
}

func verifyTD3(lines []string, result *VerifyResult) {
	l2 := lines[1]

	result.check("documentNumber", l2[0:9], l2[9])
	result.check("dateOfBirth", l2[13:19], l2[19])
	result.check("dateOfExpiry", l2[21:27], l2[27])
	result.check("personalNumber", l2[28:42], l2[42])
	result.check("composite", l2[0:10]+l2[13:20]+l2[21:43], l2[43])
}

func verifyTD1(lines []string, result *VerifyResult) {
	l1, l2 := lines[0], lines[1]

	result.check("documentNumber", l1[5:14], l1[14])
	result.check("dateOfBirth", l2[0:6], l2[6])
	result.check("dateOfExpiry", l2[8:14], l2[14])
	result.check("composite", l1[5:30]+l2[0:7]+l2[8:15]+l2[18:29], l2[29])
}

func (r *VerifyResult) check(field, data string, digit byte) {
	expected := byte('0' + CheckDigit(data))
	if digit != expected {
		r.fail(field, string(expected), string(digit))
	}
}

func (r *VerifyResult) fail(field, expected, actual string) {
	r.Failures = append(r.Failures, CheckFailure{
		Field:    field,
		Expected: expected,
		Actual:   actual,
	})
}

func (r *VerifyResult) finish() *VerifyResult {
	r.Valid = len(r.Failures) == 0
	return r
}
