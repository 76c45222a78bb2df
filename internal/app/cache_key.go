package app

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
)

const cacheKeyPrefix = "rag_cache:"

// CacheKey derives the cache fingerprint for a (question, topK) pair.
// The key is byte-for-byte reproducible across calls and processes, so
// repeated identical questions are guaranteed cache hits. Question text is
// taken as-is: case and whitespace are significant.
func CacheKey(question string, topK int) string {
	sum := md5.Sum([]byte(fmt.Sprintf("%s:%d", question, topK)))
	return cacheKeyPrefix + hex.EncodeToString(sum[:])
}
