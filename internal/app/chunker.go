package app

import "strings"

// Fragments shorter than this after trimming carry no retrievable signal.
const minChunkRunes = 50

// SplitText cuts text into overlapping windows of chunkSize runes, advancing
// by chunkSize-overlap each step. Windows are trimmed and short fragments are
// dropped. Returns nil when the stride would be zero or negative, so a bad
// size/overlap pair can never loop forever.
func SplitText(text string, chunkSize, overlap int) []string {
	if chunkSize <= 0 || overlap < 0 || chunkSize <= overlap {
		return nil
	}

	stride := chunkSize - overlap
	runes := []rune(text)

	var chunks []string
	for start := 0; start < len(runes); start += stride {
		end := start + chunkSize
		if end > len(runes) {
			end = len(runes)
		}
		chunk := strings.TrimSpace(string(runes[start:end]))
		if len([]rune(chunk)) > minChunkRunes {
			chunks = append(chunks, chunk)
		}
	}
	return chunks
}
