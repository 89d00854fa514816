// Cropwise - Crop Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cropwise

package recommend

import (
	"sort"
)

// DefaultTopK is the number of ranked crops returned by default.
const DefaultTopK = 3

// Ranking is the ranker output.
type Ranking struct {
	Top               []Candidate
	BestBySuitability Candidate
	MostProfitable    *Candidate // nil when no candidate is priced
}

// Rank orders blended candidates. Ties on combined score keep class order.
// k <= 0 means DefaultTopK.
func Rank(cands []Candidate, k int) (Ranking, error) {
	if len(cands) == 0 {
		return Ranking{}, ErrEmptyCandidateSet
	}
	if k <= 0 {
		k = DefaultTopK
	}

	sorted := append([]Candidate(nil), cands...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Combined > sorted[j].Combined
	})
	if len(sorted) > k {
		sorted = sorted[:k]
	}

	best := cands[0]
	var profitable *Candidate
	for i := range cands {
		c := cands[i]
		if c.Suitability > best.Suitability {
			best = c
		}
		if c.Priced && (profitable == nil || c.Combined > profitable.Combined) {
			profitable = &c
		}
	}

	return Ranking{Top: sorted, BestBySuitability: best, MostProfitable: profitable}, nil
}
