package model

// CachedAnswer is the value stored in the answer cache under a
// "rag_cache:<hex>" key. The entry is advisory: absence or staleness
// only causes recomputation, never incorrect behavior.
type CachedAnswer struct {
	Answer          string   `json:"answer"`
	TokensUsed      int      `json:"tokens_used"`
	DurationSeconds float64  `json:"duration_seconds"`
	Sources         []string `json:"sources"`
}
