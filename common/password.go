package common

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
)

// GeneratePasswordFromUserId generates a deterministic shorter password from
// a user id using HMAC-SHA256. The storefront auto-provisions a chat account
// for every web account and needs to re-derive the same credential on each
// login, so the password must be a pure function of the user id and secret.
//
// Parameters:
//   - userId: the chat user id (e.g. "cu__42" or "ad__7")
//   - secret: a secret key from configuration
//   - nBytes: number of bytes to keep from the HMAC (e.g. 12 or 16)
func GeneratePasswordFromUserId(userId, secret string, nBytes int) string {
	mac := hmac.New(sha256.New, []byte(secret))
	_, _ = mac.Write([]byte(userId))
	sum := mac.Sum(nil) // 32 bytes
	if nBytes <= 0 || nBytes > len(sum) {
		nBytes = 16
	}
	short := sum[:nBytes]
	// base64url without padding, safe for most systems
	return base64.RawURLEncoding.EncodeToString(short)
}
