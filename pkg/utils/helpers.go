package utils

import (
	"crypto/rand"
	"encoding/hex"
)

// RandomHex returns a hex string encoding n random bytes.
// It is used for session identifiers.
func RandomHex(n int) string {
	b := make([]byte, n)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}
