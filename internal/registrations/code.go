package registrations

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"regexp"
	"strings"

	"github.com/gandaki-ict/backend/internal/models"
)

// codeAlphabet excludes visually confusable characters (0/O, 1/I) so codes
// survive being read aloud or retyped from a badge.
const codeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

var (
	// codePattern matches a registration code: EVT-2025-00042-AB3Z.
	codePattern = regexp.MustCompile(`^(EVT|PRG)-\d{4}-\d{5}-[A-Z0-9]{4}$`)
	// verifyURLPattern extracts a code from a decoded verification URL.
	verifyURLPattern = regexp.MustCompile(`/verify/((?:EVT|PRG)-\d{4}-\d{5}-[A-Z0-9]{4})`)
)

// NewCode generates a registration code PREFIX-YYYY-NNNNN-XXXX. The random
// segments give ~3.3M combinations per prefix-year; collisions are retried
// against the unique index rather than checked up front.
func NewCode(entityType models.EntityType, year int) (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(100000))
	if err != nil {
		return "", fmt.Errorf("random number: %w", err)
	}
	var suffix strings.Builder
	for i := 0; i < 4; i++ {
		idx, err := rand.Int(rand.Reader, big.NewInt(int64(len(codeAlphabet))))
		if err != nil {
			return "", fmt.Errorf("random suffix: %w", err)
		}
		suffix.WriteByte(codeAlphabet[idx.Int64()])
	}
	return fmt.Sprintf("%s-%d-%05d-%s", entityType.CodePrefix(), year, n.Int64(), suffix.String()), nil
}

// ValidCode reports whether s is a well-formed registration code.
func ValidCode(s string) bool {
	return codePattern.MatchString(s)
}

// ExtractCode pulls a registration code out of a scanner payload: either a
// full verification URL containing /verify/<CODE> or the bare code itself.
// Unrecognized payloads pass through unchanged so verification can still
// report them as invalid.
func ExtractCode(payload string) string {
	payload = strings.TrimSpace(payload)
	if m := verifyURLPattern.FindStringSubmatch(payload); m != nil {
		return m[1]
	}
	if upper := strings.ToUpper(payload); codePattern.MatchString(upper) {
		return upper
	}
	return payload
}
