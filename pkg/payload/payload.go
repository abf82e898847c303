// Package payload builds the structured verification payload embedded in a
// document's 2D barcode. The payload carries the document identity plus an
// integrity signature from an injected signer; barcode symbol generation is
// the renderer's concern.
package payload

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/cividoc/cividoc/pkg/signing"
)

// Format identifies the payload schema carried in the barcode.
const Format = "pdf417.v1"

// ErrInvalidPayload indicates missing required payload inputs.
var ErrInvalidPayload = errors.New("invalid payload")

// Metadata carries the integrity stamp for a payload.
type Metadata struct {
	EncryptionAlgorithm string `json:"encryptionAlgorithm"`
	Signature           string `json:"signature"`
}

// Payload is the barcode-embedded verification record. BiometricRef is an
// opaque template handle; raw biometric data never enters the payload.
// Field order is the canonical key order for serialization and signing.
type Payload struct {
	Format       string   `json:"format"`
	DocumentID   string   `json:"documentId"`
	DocumentType string   `json:"documentType"`
	BiometricRef string   `json:"biometricRef,omitempty"`
	Metadata     Metadata `json:"metadata"`
}

// Encode constructs a signed payload. It fails only when documentID or
// documentType is empty; biometricRef is optional and omitted when blank.
func Encode(documentID, documentType, biometricRef string, signer signing.Signer) (*Payload, error) {
	if documentID == "" {
		return nil, fmt.Errorf("%w: missing documentId", ErrInvalidPayload)
	}
	if documentType == "" {
		return nil, fmt.Errorf("%w: missing documentType", ErrInvalidPayload)
	}

	p := &Payload{
		Format:       Format,
		DocumentID:   documentID,
		DocumentType: documentType,
		BiometricRef: biometricRef,
		Metadata: Metadata{
			EncryptionAlgorithm: signer.Algorithm(),
		},
	}

	data, err := p.signingBytes()
	if err != nil {
		return nil, fmt.Errorf("serialize payload: %w", err)
	}

	signature, err := signer.Sign(data)
	if err != nil {
		return nil, fmt.Errorf("sign payload: %w", err)
	}

	p.Metadata.Signature = signature
	return p, nil
}

// Decode parses canonical payload JSON, typically scanned back from a
// barcode symbol.
func Decode(data []byte) (*Payload, error) {
	var p Payload
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	if p.DocumentID == "" || p.DocumentType == "" {
		return nil, fmt.Errorf("%w: missing identity fields", ErrInvalidPayload)
	}
	return &p, nil
}

// Canonical returns the payload's canonical JSON for barcode embedding.
func (p *Payload) Canonical() ([]byte, error) {
	return json.Marshal(p)
}

// Verify recomputes the signature over the payload's canonical form and
// reports whether it matches the embedded signature.
func (p *Payload) Verify(signer signing.Signer) (bool, error) {
	data, err := p.signingBytes()
	if err != nil {
		return false, fmt.Errorf("serialize payload: %w", err)
	}
	return signing.Verify(signer, data, p.Metadata.Signature)
}

// signingBytes serializes the payload with an empty signature field, giving a
// stable byte form for both signing and verification.
func (p *Payload) signingBytes() ([]byte, error) {
	unsigned := *p
	unsigned.Metadata.Signature = ""
	return json.Marshal(&unsigned)
}
