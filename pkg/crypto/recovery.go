package crypto

import (
	"encoding/base32"
	"errors"
	"strings"
)

// RecoveryKeySize is the raw length of a recovery key.
const RecoveryKeySize = 32

const recoveryGroupLen = 4

// ErrMalformedRecoveryKey is returned when a pasted recovery key does not
// decode to exactly RecoveryKeySize bytes.
var ErrMalformedRecoveryKey = errors.New("crypto: malformed recovery key")

var recoveryEncoding = base32.StdEncoding.WithPadding(base32.NoPadding)

// FormatRecoveryKey renders 32 random bytes as a human-copyable string:
// uppercase base32 in groups of four, e.g.
//
//	JBSW-Y3DP-EHPK-3PXP-...
//
// ParseRecoveryKey(FormatRecoveryKey(b)) == b for every 32-byte input.
func FormatRecoveryKey(raw []byte) string {
	encoded := recoveryEncoding.EncodeToString(raw)
	var b strings.Builder
	for i := 0; i < len(encoded); i += recoveryGroupLen {
		if i > 0 {
			b.WriteByte('-')
		}
		end := i + recoveryGroupLen
		if end > len(encoded) {
			end = len(encoded)
		}
		b.WriteString(encoded[i:end])
	}
	return b.String()
}

// ParseRecoveryKey accepts a recovery key as typed or pasted by a user:
// any case, with or without separators or surrounding whitespace.
func ParseRecoveryKey(s string) ([]byte, error) {
	var b strings.Builder
	for _, r := range strings.ToUpper(s) {
		if (r >= 'A' && r <= 'Z') || (r >= '2' && r <= '7') {
			b.WriteRune(r)
		}
	}
	raw, err := recoveryEncoding.DecodeString(b.String())
	if err != nil {
		return nil, ErrMalformedRecoveryKey
	}
	if len(raw) != RecoveryKeySize {
		return nil, ErrMalformedRecoveryKey
	}
	return raw, nil
}
