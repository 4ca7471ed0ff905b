package assessment

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// DomainAssessment separates assessment fingerprints from any other hash
// computed over the same bytes. The version suffix allows a future change of
// canonical form.
const DomainAssessment = "quotedraft/assessment/v1"

// hashWithDomain computes SHA256(domain + 0x00 + data).
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// Fingerprint returns a content hash of the assessment payload. Two payloads
// have equal fingerprints iff their canonical JSON is equal.
func Fingerprint(d Data) (string, error) {
	canonical, err := MarshalCanonical(d)
	if err != nil {
		return "", fmt.Errorf("fingerprint: %w", err)
	}
	return hashWithDomain(DomainAssessment, canonical), nil
}

// ShortFingerprint returns the first 12 hex characters of Fingerprint, or
// "-" if the payload cannot be serialized.
func ShortFingerprint(d Data) string {
	fp, err := Fingerprint(d)
	if err != nil {
		return "-"
	}
	return fp[:12]
}
