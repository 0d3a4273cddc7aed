package utils

import (
	"crypto/sha256"
	"encoding/hex"
)

// TextFingerprint returns a stable hex digest of a text, used as the cache
// key for its embedding. The model name is part of the digest so a model
// change never serves stale vectors.
func TextFingerprint(model, text string) string {
	h := sha256.New()
	h.Write([]byte(model))
	h.Write([]byte{0})
	h.Write([]byte(text))
	return hex.EncodeToString(h.Sum(nil))
}
