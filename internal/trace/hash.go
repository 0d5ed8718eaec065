package trace

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/google/uuid"
)

// Domain prefixes for content-addressed ids. The version suffix leaves room
// for changing the hashed content later.
const (
	DomainStep = "transposon/step/v1"
	DomainRun  = "transposon/run/v1"
)

// runNamespace scopes run UUIDs so they cannot collide with other v5 UUIDs
// derived from the same bytes.
var runNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte(DomainRun))

// hashWithDomain computes SHA256(domain + 0x00 + data).
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// RunID derives a stable UUID for running scenario against kind.
func RunID(scenario, kind string, size int, shiftAtStart bool) (string, error) {
	canonical, err := MarshalCanonical(map[string]any{
		"scenario":       scenario,
		"kind":           kind,
		"size":           size,
		"shift_at_start": shiftAtStart,
	})
	if err != nil {
		return "", fmt.Errorf("RunID: failed to marshal: %w", err)
	}
	return uuid.NewSHA1(runNamespace, canonical).String(), nil
}

// StepID computes the content-addressed id of s. The ID field itself is not
// part of the hashed content.
func StepID(s Step) (string, error) {
	canonical, err := MarshalCanonical(s.canonicalMap())
	if err != nil {
		return "", fmt.Errorf("StepID: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainStep, canonical), nil
}

// CanonicalContent returns the canonical JSON of s.Content().
func CanonicalContent(s Step) ([]byte, error) {
	return MarshalCanonical(s.Content())
}
