// Package signing provides the payload signing capability injected into the
// auxiliary payload encoder. Key management, rotation, and algorithm policy
// belong to the deployment; this package only wraps the keyed primitive.
package signing

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Signer produces an integrity signature over canonical payload bytes.
// Implementations must be safe for concurrent use.
type Signer interface {
	// Sign returns the signature for the given bytes.
	Sign(data []byte) (string, error)
	// Algorithm names the signing algorithm for inclusion in payload metadata.
	Algorithm() string
}

type hmacSigner struct {
	key []byte
}

// NewHMAC creates an HMAC-SHA256 signer with the given key material.
// Signatures are hex-encoded. Returns an error for empty key material.
func NewHMAC(key []byte) (Signer, error) {
	if len(key) == 0 {
		return nil, fmt.Errorf("signing key required")
	}
	k := make([]byte, len(key))
	copy(k, key)
	return &hmacSigner{key: k}, nil
}

func (s *hmacSigner) Sign(data []byte) (string, error) {
	mac := hmac.New(sha256.New, s.key)
	mac.Write(data)
	return hex.EncodeToString(mac.Sum(nil)), nil
}

func (s *hmacSigner) Algorithm() string {
	return "HMAC-SHA256"
}

// Verify recomputes the signature for data and compares it to expected in
// constant time.
func Verify(signer Signer, data []byte, expected string) (bool, error) {
	computed, err := signer.Sign(data)
	if err != nil {
		return false, err
	}
	return hmac.Equal([]byte(computed), []byte(expected)), nil
}
