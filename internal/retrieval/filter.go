package retrieval

// FilterMatches post-processes raw nearest-neighbor results: it keeps
// candidates in ascending-distance order while their distance is below
// threshold, capped at k. If nothing passes the threshold, the top k raw
// candidates are returned instead, so a non-empty input never filters down
// to an empty result.
//
// Callers should oversample (query the index for 2*k) so the filter has
// candidates to discard. k <= 0 or an empty candidate list yields nil.
func FilterMatches(raw []Match, k int, threshold float64) []Match {
	if k <= 0 || len(raw) == 0 {
		return nil
	}

	kept := make([]Match, 0, k)
	for _, m := range raw {
		// Input is ascending, so the first miss ends the scan.
		if m.Distance >= threshold {
			break
		}
		kept = append(kept, m)
		if len(kept) == k {
			break
		}
	}
	if len(kept) > 0 {
		return kept
	}

	if k > len(raw) {
		k = len(raw)
	}
	return append([]Match(nil), raw[:k]...)
}
