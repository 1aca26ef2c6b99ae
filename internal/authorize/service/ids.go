package service

import (
	"crypto/sha256"
	"encoding/base64"
	"time"

	"github.com/google/uuid"
)

// newTransactionID derives an unguessable url-safe transaction identifier.
// The nonce and timestamp bind the identifier to its originating request;
// the UUID supplies the randomness.
func newTransactionID(nonce string, now time.Time) string {
	sum := sha256.Sum256([]byte(nonce + now.UTC().Format(time.RFC3339Nano) + uuid.NewString()))
	return base64.RawURLEncoding.EncodeToString(sum[:])
}

// newAuthCode derives a url-safe authorization code from fresh randomness.
func newAuthCode() string {
	sum := sha256.Sum256([]byte(uuid.NewString()))
	return base64.RawURLEncoding.EncodeToString(sum[:])
}
