package ppttranslator

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// HashText computes the SHA-256 hash of the trimmed text.
func HashText(text string) string {
	trimmed := strings.TrimSpace(text)
	hash := sha256.Sum256([]byte(trimmed))
	return hex.EncodeToString(hash[:])
}

// CacheKey builds a cache key from a text hash, the target language and the
// model identifier. The same source text translated to a different language
// or by a different model never collides.
func CacheKey(hash, targetLang, model string) string {
	return hash + ":" + targetLang + ":" + model
}
