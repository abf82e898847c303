package security_test

import (
	"testing"

	"github.com/cividoc/cividoc/pkg/mrz"
	"github.com/cividoc/cividoc/pkg/security"
)

func TestResolveDeterministic(t *testing.T) {
	for _, dt := range security.Types() {
		first := security.Resolve(dt)
		second := security.Resolve(dt)
		if first != second {
			t.Errorf("Resolve(%s) not deterministic", dt)
		}
	}
}

func TestResolveTotality(t *testing.T) {
	inputs := []security.DocumentType{
		"",
		"unknown_document",
		"ORDINARY_PASSPORT",
		security.DocumentType("passport "),
	}

	for _, dt := range inputs {
		fs := security.Resolve(dt)
		if !fs.Watermarks {
			t.Errorf("Resolve(%q).Watermarks = false, want true", dt)
		}
		if !fs.QRCode {
			t.Errorf("Resolve(%q).QRCode = false, want true", dt)
		}
		if fs.MRZ || fs.BiometricChip {
			t.Errorf("Resolve(%q) enabled machine-readable tier for unknown type", dt)
		}
	}
}

func TestResolvePassportTier(t *testing.T) {
	fs := security.Resolve(security.OrdinaryPassport)

	if !fs.MRZ {
		t.Error("passport MRZ = false, want true")
	}
	if !fs.BiometricChip {
		t.Error("passport BiometricChip = false, want true")
	}
	if !fs.Holographic || !fs.UVFeatures || !fs.Watermarks {
		t.Error("passport missing visible tier features")
	}
	if !fs.Microprinting || !fs.SecurityThread {
		t.Error("passport missing forensic tier features")
	}
}

func TestResolveCivilCertificates(t *testing.T) {
	types := []security.DocumentType{
		security.BirthCertificate,
		security.DeathCertificate,
		security.MarriageCertificate,
	}

	for _, dt := range types {
		fs := security.Resolve(dt)
		if fs.MRZ {
			t.Errorf("Resolve(%s).MRZ = true, want false", dt)
		}
		if fs.BiometricChip {
			t.Errorf("Resolve(%s).BiometricChip = true, want false", dt)
		}
		if !fs.Watermarks || !fs.UVFeatures {
			t.Errorf("Resolve(%s) missing visible tier", dt)
		}
		if !fs.Microprinting || !fs.InvisibleFibers {
			t.Errorf("Resolve(%s) missing forensic tier", dt)
		}
	}
}

func TestFormatFor(t *testing.T) {
	tests := []struct {
		dt   security.DocumentType
		want mrz.Format
	}{
		{security.OrdinaryPassport, mrz.TD3},
		{security.DiplomaticPassport, mrz.TD3},
		{security.VisitorVisa, mrz.TD3},
		{security.SmartIDCard, mrz.TD1},
		{security.RefugeeStatusPermit, mrz.TD1},
		{"unknown_document", mrz.TD3},
	}

	for _, tt := range tests {
		if got := security.FormatFor(tt.dt); got != tt.want {
			t.Errorf("FormatFor(%s) = %s, want %s", tt.dt, got, tt.want)
		}
	}
}

func TestDocumentCodeFor(t *testing.T) {
	tests := []struct {
		dt   security.DocumentType
		want string
	}{
		{security.OrdinaryPassport, "P"},
		{security.DiplomaticPassport, "PD"},
		{security.SmartIDCard, "I"},
		{security.StudyVisa, "V"},
	}

	for _, tt := range tests {
		if got := security.DocumentCodeFor(tt.dt); got != tt.want {
			t.Errorf("DocumentCodeFor(%s) = %q, want %q", tt.dt, got, tt.want)
		}
	}
}

func TestKnown(t *testing.T) {
	if !security.Known(security.OrdinaryPassport) {
		t.Error("Known(ordinary_passport) = false, want true")
	}
	if security.Known("fishing_licence") {
		t.Error("Known(fishing_licence) = true, want false")
	}
}
