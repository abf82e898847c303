// Package assembly composes the MRZ encoder, security feature resolver, and
// auxiliary payload encoder into the single result an external renderer needs
// to stamp a document page.
package assembly

import (
	"github.com/cividoc/cividoc/pkg/mrz"
	"github.com/cividoc/cividoc/pkg/payload"
	"github.com/cividoc/cividoc/pkg/security"
	"github.com/cividoc/cividoc/pkg/signing"
)

// DocumentSecurity is the full security specification for one document:
// the machine-readable zone to print, the feature set the renderer should
// apply, and the signed payload to encode into the 2D barcode symbol.
// It is transient: computed per request and handed straight to the renderer.
type DocumentSecurity struct {
	MRZ      *mrz.Result         `json:"mrz"`
	Features security.FeatureSet `json:"securityConfig"`
	Payload  *payload.Payload    `json:"auxiliaryPayload"`
}

// Assembler orchestrates the three encoders. It holds no state beyond the
// injected signer and is safe for concurrent use whenever the signer is.
type Assembler struct {
	signer signing.Signer
}

// New creates an Assembler with the given signing collaborator.
func New(signer signing.Signer) *Assembler {
	return &Assembler{signer: signer}
}

// Options carries the optional inputs to an assembly call.
type Options struct {
	// BiometricRef is an opaque biometric template handle for the barcode
	// payload. Never raw biometric data.
	BiometricRef string
}

// Assemble computes the document's full security specification. The MRZ is
// always computed, even when the resolved feature set disables it; the
// renderer consults the mrz flag, which keeps assembly total and the result
// shape uniform across document types. Encoder errors propagate unchanged;
// there is nothing transient to retry.
func (a *Assembler) Assemble(
	record mrz.Record,
	documentType security.DocumentType,
	format mrz.Format,
	documentID string,
	opts Options,
) (*DocumentSecurity, error) {
	features := security.Resolve(documentType)

	if record.DocumentCode == "" {
		record.DocumentCode = security.DocumentCodeFor(documentType)
	}

	zone, err := mrz.Encode(record, format)
	if err != nil {
		return nil, err
	}

	aux, err := payload.Encode(documentID, string(documentType), opts.BiometricRef, a.signer)
	if err != nil {
		return nil, err
	}

	return &DocumentSecurity{
		MRZ:      zone,
		Features: features,
		Payload:  aux,
	}, nil
}
