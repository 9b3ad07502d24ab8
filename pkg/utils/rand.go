package utils

import (
	"crypto/rand"
	"encoding/base64"
)

// RandText returns a URL-safe random string of length n.
func RandText(n int) string {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		panic(err)
	}
	return base64.RawURLEncoding.EncodeToString(buf)[:n]
}
