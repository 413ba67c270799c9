package textutil

// CosineSimilarity scores two fingerprints from 0 (no shared tokens) to 1
// (same token distribution). Nil or empty fingerprints score 0.
func CosineSimilarity(a, b *Fingerprint) float64 {
	if a == nil || b == nil || a.norm == 0 || b.norm == 0 {
		return 0
	}
	small, large := a.tokens, b.tokens
	if len(small) > len(large) {
		small, large = large, small
	}
	var dot float64
	for token, count := range small {
		dot += count * large[token]
	}
	return min(dot/(a.norm*b.norm), 1)
}

// Similar reports whether two fingerprints reach threshold similarity.
// Fingerprints with fewer than minTokens distinct tokens never match.
func Similar(a, b *Fingerprint, minTokens int, threshold float64) (float64, bool) {
	if a.TokenCount() < minTokens || b.TokenCount() < minTokens {
		return 0, false
	}
	score := CosineSimilarity(a, b)
	return score, score >= threshold
}
