package mrz_test

import (
	"errors"
	"testing"
	"time"

	"github.com/cividoc/cividoc/pkg/mrz"
)

func TestVerifyEncodedLines(t *testing.T) {
	record := mrz.Record{
		Surname:        "ERIKSSON",
		GivenNames:     "ANNA MARIA",
		DocumentNumber: "L898902C3",
		IssuingState:   "UTO",
		Nationality:    "UTO",
		DateOfBirth:    time.Date(1974, 8, 12, 0, 0, 0, 0, time.UTC),
		Sex:            mrz.SexFemale,
		DateOfExpiry:   time.Date(2012, 4, 15, 0, 0, 0, 0, time.UTC),
		PersonalNumber: "ZE184226B",
	}

	for _, format := range []mrz.Format{mrz.TD3, mrz.TD1} {
		t.Run(string(format), func(t *testing.T) {
			encoded, err := mrz.Encode(record, format)
			if err != nil {
				t.Fatalf("Encode: %v", err)
			}

			result, err := mrz.Verify(encoded.Lines, format)
			if err != nil {
				t.Fatalf("Verify: %v", err)
			}
			if !result.Valid {
				t.Errorf("encoded lines failed verification: %+v", result.Failures)
			}
		})
	}
}

func TestVerifyDetectsTamperedDigit(t *testing.T) {
	lines := []string{
		"P<UTOERIKSSON<<ANNA<MARIA<<<<<<<<<<<<<<<<<<<",
		"L898902C36UTO7408122F1204159ZE184226B<<<<<10",
	}

	// flip the document number check digit from 6 to 7
	tampered := []string{
		lines[0],
		lines[1][:9] + "7" + lines[1][10:],
	}

	result, err := mrz.Verify(tampered, mrz.TD3)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if result.Valid {
		t.Fatal("tampered lines verified as valid")
	}

	found := false
	for _, f := range result.Failures {
		if f.Field == "documentNumber" {
			found = true
			if f.Expected != "6" || f.Actual != "7" {
				t.Errorf("failure = %+v, want expected 6 actual 7", f)
			}
		}
	}
	if !found {
		t.Errorf("documentNumber failure not reported: %+v", result.Failures)
	}
}

func TestVerifyStructuralFailures(t *testing.T) {
	t.Run("wrong line count", func(t *testing.T) {
		result, err := mrz.Verify([]string{"ONLY<ONE<LINE"}, mrz.TD3)
		if err != nil {
			t.Fatalf("Verify: %v", err)
		}
		if result.Valid || len(result.Failures) == 0 {
			t.Error("expected lineCount failure")
		}
	})

	t.Run("wrong line width", func(t *testing.T) {
		result, err := mrz.Verify([]string{"SHORT", "SHORT"}, mrz.TD3)
		if err != nil {
			t.Fatalf("Verify: %v", err)
		}
		if result.Valid {
			t.Error("expected width failure")
		}
	})

	t.Run("invalid character", func(t *testing.T) {
		bad := "p<UTOERIKSSON<<ANNA<MARIA<<<<<<<<<<<<<<<<<<<"
		result, err := mrz.Verify([]string{bad, bad}, mrz.TD3)
		if err != nil {
			t.Fatalf("Verify: %v", err)
		}
		if result.Valid {
			t.Error("expected charset failure")
		}
	})

	t.Run("multibyte character", func(t *testing.T) {
		// U+0141 truncates to 'A' as a rune value; its UTF-8 bytes keep the
		// line at 44 bytes, so only byte-level scanning catches it.
		bad := "Ł98902C36UTO7408122F1204159ZE184226B<<<<<10"
		good := "P<UTOERIKSSON<<ANNA<MARIA<<<<<<<<<<<<<<<<<<<"
		result, err := mrz.Verify([]string{good, bad}, mrz.TD3)
		if err != nil {
			t.Fatalf("Verify: %v", err)
		}
		if result.Valid {
			t.Error("expected charset failure")
		}
		if len(result.Failures) == 0 || result.Failures[0].Field != "line2Charset" {
			t.Errorf("failures = %+v, want line2Charset", result.Failures)
		}
	})

	t.Run("unknown format", func(t *testing.T) {
		if _, err := mrz.Verify(nil, mrz.Format("td2")); !errors.Is(err, mrz.ErrUnknownFormat) {
			t.Errorf("expected ErrUnknownFormat, got %v", err)
		}
	})
}
