// Package cache provides translation caches. Keys are produced by the main
// package's CacheKey (text hash, target language and model), so identical
// strings repeated across a deck, or across decks, are translated once.
package cache

// TranslationCache is the interface for translation caching.
type TranslationCache interface {
	// Get retrieves a cached translation. Returns empty string and false if not found or expired.
	Get(key string) (string, bool)

	// Set stores a translation in the cache.
	Set(key string, value string) error
}
