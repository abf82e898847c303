// Package security resolves the anti-counterfeiting feature configuration for
// each document type. Features span four tiers: visible, tactile,
// machine-readable, and forensic. Resolution is a pure function of the
// document type: the renderer consults the resolved set to decide what to
// draw, so unknown types degrade to a minimal default instead of failing.
package security

import "github.com/cividoc/cividoc/pkg/mrz"

// DocumentType identifies a document category in the issuance catalog.
type DocumentType string

// Travel and identity documents (machine-readable credentials).
const (
	OrdinaryPassport        DocumentType = "ordinary_passport"
	DiplomaticPassport      DocumentType = "diplomatic_passport"
	OfficialPassport        DocumentType = "official_passport"
	MaxiPassport            DocumentType = "maxi_passport"
	ChildPassport           DocumentType = "child_passport"
	EmergencyTravelDocument DocumentType = "emergency_travel_document"
	RefugeeTravelDocument   DocumentType = "refugee_travel_document"
	SmartIDCard             DocumentType = "smart_id_card"
	GreenBarcodedID         DocumentType = "green_barcoded_id"
	TemporaryIDCertificate  DocumentType = "temporary_id_certificate"
)

// Civil registration certificates (not carried as machine-readable documents).
const (
	BirthCertificate    DocumentType = "birth_certificate"
	DeathCertificate    DocumentType = "death_certificate"
	MarriageCertificate DocumentType = "marriage_certificate"
	DivorceDecree       DocumentType = "divorce_decree"
)

// Residence permits and visas.
const (
	PermanentResidencePermit DocumentType = "permanent_residence_permit"
	TemporaryResidenceVisa   DocumentType = "temporary_residence_visa"
	GeneralWorkVisa          DocumentType = "general_work_visa"
	CriticalSkillsVisa       DocumentType = "critical_skills_visa"
	IntraCompanyTransferVisa DocumentType = "intra_company_transfer_visa"
	BusinessVisa             DocumentType = "business_visa"
	StudyVisa                DocumentType = "study_visa"
	VisitorVisa              DocumentType = "visitor_visa"
	RelativesVisa            DocumentType = "relatives_visa"
	MedicalTreatmentVisa     DocumentType = "medical_treatment_visa"
	RetiredPersonVisa        DocumentType = "retired_person_visa"
	ExchangeVisa             DocumentType = "exchange_visa"
	TreatyVisa               DocumentType = "treaty_visa"
	AsylumSeekerPermit       DocumentType = "asylum_seeker_permit"
	RefugeeStatusPermit      DocumentType = "refugee_status_permit"
)

// FeatureSet enumerates the security features a renderer should apply,
// grouped by detection tier.
type FeatureSet struct {
	// Tier 1: visible.
	UVFeatures      bool `json:"uvFeatures"`
	Holographic     bool `json:"holographic"`
	Watermarks      bool `json:"watermarks"`
	RainbowPrinting bool `json:"rainbowPrinting"`

	// Tier 2: tactile.
	Braille        bool `json:"braille"`
	Intaglio       bool `json:"intaglio"`
	LaserEngraving bool `json:"laserEngraving"`

	// Tier 3: machine-readable.
	MRZ           bool `json:"mrz"`
	BiometricChip bool `json:"biometricChip"`
	PDF417Barcode bool `json:"pdf417Barcode"`
	RFID          bool `json:"rfid"`
	QRCode        bool `json:"qrCode"`

	// Tier 4: forensic.
	Microprinting   bool `json:"microprinting"`
	SecurityThread  bool `json:"securityThread"`
	InvisibleFibers bool `json:"invisibleFibers"`
	VoidPantograph  bool `json:"voidPantograph"`
}

// Resolve returns the feature configuration for a document type. It is total
// and deterministic: unknown types receive the minimal default configuration
// (watermarks and QR code only) rather than an error.
func Resolve(documentType DocumentType) FeatureSet {
	if fs, ok := catalog[documentType]; ok {
		return fs
	}
	return defaultFeatures
}

// Known reports whether the document type is part of the issuance catalog.
func Known(documentType DocumentType) bool {
	_, ok := catalog[documentType]
	return ok
}

// Types returns every document type in the issuance catalog.
func Types() []DocumentType {
	types := make([]DocumentType, 0, len(catalog))
	for t := range catalog {
		types = append(types, t)
	}
	return types
}

// FormatFor selects the MRZ layout for a document type: TD1 for card-sized
// identity documents, TD3 for passport- and visa-sized documents.
func FormatFor(documentType DocumentType) mrz.Format {
	switch documentType {
	case SmartIDCard, GreenBarcodedID, TemporaryIDCertificate,
		AsylumSeekerPermit, RefugeeStatusPermit:
		return mrz.TD1
	default:
		return mrz.TD3
	}
}

// DocumentCodeFor returns the two-character MRZ document code prefix.
func DocumentCodeFor(documentType DocumentType) string {
	switch documentType {
	case OrdinaryPassport, MaxiPassport, ChildPassport:
		return "P"
	case DiplomaticPassport:
		return "PD"
	case OfficialPassport:
		return "PO"
	case EmergencyTravelDocument, RefugeeTravelDocument:
		return "PT"
	case SmartIDCard, GreenBarcodedID, TemporaryIDCertificate:
		return "I"
	case AsylumSeekerPermit, RefugeeStatusPermit:
		return "IR"
	default:
		return "V"
	}
}

// defaultFeatures is the advisory fallback for unrecognized document types.
var defaultFeatures = FeatureSet{
	Watermarks: true,
	QRCode:     true,
}

// passportFeatures covers the highest-value travel documents: every tier.
var passportFeatures = FeatureSet{
	UVFeatures:      true,
	Holographic:     true,
	Watermarks:      true,
	RainbowPrinting: true,
	Intaglio:        true,
	LaserEngraving:  true,
	MRZ:             true,
	BiometricChip:   true,
	PDF417Barcode:   true,
	RFID:            true,
	QRCode:          true,
	Microprinting:   true,
	SecurityThread:  true,
	InvisibleFibers: true,
	VoidPantograph:  true,
}

// idCardFeatures covers polycarbonate identity cards: laser personalization
// instead of intaglio, tactile braille cell, no security thread.
var idCardFeatures = FeatureSet{
	UVFeatures:      true,
	Holographic:     true,
	Watermarks:      true,
	RainbowPrinting: true,
	Braille:         true,
	LaserEngraving:  true,
	MRZ:             true,
	BiometricChip:   true,
	PDF417Barcode:   true,
	RFID:            true,
	QRCode:          true,
	Microprinting:   true,
	InvisibleFibers: true,
	VoidPantograph:  true,
}

// civilFeatures covers paper civil-registration certificates: visible and
// forensic tiers only, as these are not carried as machine-readable credentials.
var civilFeatures = FeatureSet{
	UVFeatures:      true,
	Watermarks:      true,
	RainbowPrinting: true,
	QRCode:          true,
	Microprinting:   true,
	SecurityThread:  true,
	InvisibleFibers: true,
	VoidPantograph:  true,
}

// visaFeatures covers visa and permit vignettes: machine-readable but no
// embedded chip, forensic print features on the label stock.
var visaFeatures = FeatureSet{
	UVFeatures:      true,
	Holographic:     true,
	Watermarks:      true,
	RainbowPrinting: true,
	MRZ:             true,
	PDF417Barcode:   true,
	QRCode:          true,
	Microprinting:   true,
	InvisibleFibers: true,
	VoidPantograph:  true,
}

// permitCardFeatures covers card-format protection permits: TD1 layout with
// a barcode but no chip.
var permitCardFeatures = FeatureSet{
	UVFeatures:     true,
	Watermarks:     true,
	Braille:        true,
	LaserEngraving: true,
	MRZ:            true,
	PDF417Barcode:  true,
	QRCode:         true,
	Microprinting:  true,
	VoidPantograph: true,
}

// temporaryFeatures covers short-lived paper documents: minimal visible set
// plus machine verification through the barcode payload.
var temporaryFeatures = FeatureSet{
	UVFeatures:     true,
	Watermarks:     true,
	MRZ:            true,
	PDF417Barcode:  true,
	QRCode:         true,
	Microprinting:  true,
	VoidPantograph: true,
}

var catalog = map[DocumentType]FeatureSet{
	OrdinaryPassport:        passportFeatures,
	DiplomaticPassport:      passportFeatures,
	OfficialPassport:        passportFeatures,
	MaxiPassport:            passportFeatures,
	ChildPassport:           passportFeatures,
	EmergencyTravelDocument: temporaryFeatures,
	RefugeeTravelDocument:   visaFeatures,

	SmartIDCard:            idCardFeatures,
	GreenBarcodedID:        temporaryFeatures,
	TemporaryIDCertificate: temporaryFeatures,

	BirthCertificate:    civilFeatures,
	DeathCertificate:    civilFeatures,
	MarriageCertificate: civilFeatures,
	DivorceDecree:       civilFeatures,

	PermanentResidencePermit: idCardFeatures,
	TemporaryResidenceVisa:   visaFeatures,
	GeneralWorkVisa:          visaFeatures,
	CriticalSkillsVisa:       visaFeatures,
	IntraCompanyTransferVisa: visaFeatures,
	BusinessVisa:             visaFeatures,
	StudyVisa:                visaFeatures,
	VisitorVisa:              visaFeatures,
	RelativesVisa:            visaFeatures,
	MedicalTreatmentVisa:     visaFeatures,
	RetiredPersonVisa:        visaFeatures,
	ExchangeVisa:             visaFeatures,
	TreatyVisa:               visaFeatures,
	AsylumSeekerPermit:       permitCardFeatures,
	RefugeeStatusPermit:      permitCardFeatures,
}
