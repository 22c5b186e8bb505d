// Package fuzzy scores how well a candidate identifier or keyword matches
// a typed prefix. It is the analyzer's single fuzzy-matching primitive,
// shared by catalog child enumeration (search-inside-names), keyword
// assist sorting, and structure-assistant mask scoring.
package fuzzy

import (
	"unicode"

	"github.com/bastiangx/sqlassist/internal/util"
)

const (
	firstCharMatchBonus            = 15
	adjacentMatchBonus             = 10
	separatorMatchBonus            = 12
	camelCaseMatchBonus            = 12
	unmatchedLeadingCharPenalty    = -3
	maxUnmatchedLeadingCharPenalty = -9
)

// Score reports how well candidate matches pattern. A positive score
// means a match; 0 means no match. Higher is better. An empty pattern
// always scores 1 (matches everything, weakly).
func Score(candidate, pattern string) int {
	if pattern == "" {
		return 1
	}
	patternRunes := []rune(pattern)
	candidateRunes := []rune(candidate)
	if len(candidateRunes) == 0 {
		return 0
	}

	matched, score := runMatch(patternRunes, candidateRunes)
	if !matched {
		return 0
	}
	if score <= 0 {
		return 1
	}
	return score
}

// runMatch walks candidate looking for an in-order, case-insensitive
// occurrence of every rune in pattern, rewarding first-character hits,
// camelCase transitions, separator-adjacent hits, and runs of adjacent
// matches. Returns whether the whole pattern matched and the accumulated
// score.
func runMatch(pattern, candidate []rune) (bool, int) {
	var (
		last                   rune
		lastIndex              int
		currAdjacentMatchBonus int
		patternIndex           int
		bestScore              = -1
		matchedIndex           = -1
		matchedIndexes         []int
		total                  int
	)

	for i := 0; i < len(candidate); i++ {
		curr := candidate[i]
		if patternIndex >= len(pattern) {
			break
		}
		if util.EqualFold(curr, pattern[patternIndex]) {
			score := 0
			if i == 0 {
				score += firstCharMatchBonus
			}
			if i > 0 && unicode.IsLower(last) && unicode.IsUpper(curr) {
				score += camelCaseMatchBonus
			}
			if i > 0 && isSeparator(last) {
				score += separatorMatchBonus
			}
			if len(matchedIndexes) > 0 {
				lastMatch := matchedIndexes[len(matchedIndexes)-1]
				bonus := 0
				if lastIndex == lastMatch {
					bonus = currAdjacentMatchBonus*2 + adjacentMatchBonus
					currAdjacentMatchBonus = bonus
				} else {
					currAdjacentMatchBonus = 0
				}
				score += bonus
			}
			if score > bestScore {
				bestScore = score
				matchedIndex = i
			}
		}

		var nextPatternRune rune
		if patternIndex < len(pattern)-1 {
			nextPatternRune = pattern[patternIndex+1]
		}
		var nextCandidateRune rune
		if i < len(candidate)-1 {
			nextCandidateRune = candidate[i+1]
		}
		if (nextPatternRune != 0 && nextCandidateRune != 0 && util.EqualFold(nextPatternRune, nextCandidateRune)) || nextCandidateRune == 0 {
			if matchedIndex > -1 {
				if len(matchedIndexes) == 0 {
					penalty := matchedIndex * unmatchedLeadingCharPenalty
					bestScore += max(penalty, maxUnmatchedLeadingCharPenalty)
				}
				total += bestScore
				matchedIndexes = append(matchedIndexes, matchedIndex)
				bestScore = -1
				matchedIndex = -1
				patternIndex++
			}
		}
		last = curr
		lastIndex = i
	}

	return patternIndex >= len(pattern), total
}

func isSeparator(r rune) bool {
	return r == ' ' || r == '_' || r == '-' || r == '.' || r == '/'
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
