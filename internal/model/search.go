// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"sort"
	"strings"
	"unicode"
)

// =============================================================================
// FUZZY SEARCH
// =============================================================================

// Match scores query against target. Every query rune must appear in target
// in order, case-insensitively. Runs of adjacent matches, matches at the
// start and matches after a separator score higher; long targets score
// slightly lower.
//
//	Match("gpt4o", "GPT-4o")     // matches
//	Match("sonnet", "Claude 3 Sonnet")
//	Match("xyz", "GPT-4")        // no match
func Match(query, target string) (score int, ok bool) {
	q := []rune(strings.ToLower(strings.TrimSpace(query)))
	if len(q) == 0 {
		return 0, true
	}
	t := []rune(strings.ToLower(target))
	if len(q) > len(t) {
		return 0, false
	}

	qi, last := 0, -2
	for ti := 0; ti < len(t) && qi < len(q); ti++ {
		if t[ti] != q[qi] {
			continue
		}
		points := 1
		if last == ti-1 {
			points += 5
		}
		if ti == 0 {
			points += 10
		} else if isSeparator(t[ti-1]) {
			points += 7
		}
		score += points
		last = ti
		qi++
	}

	if qi < len(q) {
		return 0, false
	}
	return score - len(t)/4, true
}

func isSeparator(r rune) bool {
	return r == ' ' || r == '-' || r == '.' || r == '/' || r == '_' || unicode.IsPunct(r)
}

// Search returns the catalog entries whose name or ID fuzzy-matches query,
// best first. Ties keep catalog order. An empty query returns the catalog.
func Search(query string) []ModelInfo {
	if strings.TrimSpace(query) == "" {
		out := make([]ModelInfo, len(Catalog))
		copy(out, Catalog)
		return out
	}

	type scored struct {
		info  ModelInfo
		score int
	}
	var hits []scored
	for _, m := range Catalog {
		best, found := 0, false
		for _, target := range []string{m.Name, m.ID} {
			if s, ok := Match(query, target); ok && (!found || s > best) {
				best, found = s, true
			}
		}
		if found {
			hits = append(hits, scored{info: m, score: best})
		}
	}

	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].score > hits[j].score
	})

	out := make([]ModelInfo, len(hits))
	for i, h := range hits {
		out[i] = h.info
	}
	return out
}

// Suggest returns the best fuzzy match for an unknown model ID.
func Suggest(query string) (ModelInfo, bool) {
	hits := Search(query)
	if strings.TrimSpace(query) == "" || len(hits) == 0 {
		return ModelInfo{}, false
	}
	return hits[0], true
}
