package util

import (
	"math/rand"
	"strings"
)

// GenerateRandomHex generates a random hexadecimal string of the specified
// length. Non-cryptographic; identifiers only.
func GenerateRandomHex(length int) string {
	if length <= 0 {
		return ""
	}

	const hexChars = "0123456789abcdef"
	var builder strings.Builder
	builder.Grow(length)

	for i := 0; i < length; i++ {
		builder.WriteByte(hexChars[rand.Intn(16)])
	}

	return builder.String()
}

// GenerateRecordID generates a unique consultation record ID with "c_" prefix.
func GenerateRecordID() string {
	return "c_" + GenerateRandomHex(32)
}
