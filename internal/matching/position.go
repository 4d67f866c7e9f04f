// Package matching scores extracted job titles against a course's accepted titles.
package matching

import (
	"strings"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/jonathan/experience-validator/internal/types"
)

// ContainmentFloor is the minimum similarity when one normalized title contains the other.
const ContainmentFloor = 0.85

// Normalize lower-cases a title and trims its outer whitespace. Inner spacing is kept.
func Normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Similarity returns the sequence-alignment ratio of two titles after normalization,
// raised to ContainmentFloor when either contains the other. Empty input scores 0.
func Similarity(a, b string) float64 {
	return similarity(Normalize(a), Normalize(b))
}

func similarity(a, b string) float64 {
	if a == "" || b == "" {
		return 0
	}
	ratio := difflib.NewMatcher(runes(a), runes(b)).Ratio()
	if strings.Contains(a, b) || strings.Contains(b, a) {
		ratio = max(ratio, ContainmentFloor)
	}
	return ratio
}

// MatchPosition picks the accepted title most similar to position.
// It returns nil when position is absent or blank, or when nothing scores above 0.
// Ties go to the earliest title in accepted.
func MatchPosition(position *string, accepted []string) *types.PositionMatch {
	if position == nil || len(accepted) == 0 {
		return nil
	}
	p := Normalize(*position)
	if p == "" {
		return nil
	}

	var best *types.PositionMatch
	for _, title := range accepted {
		score := similarity(p, Normalize(title))
		if score <= 0 {
			continue
		}
		if best == nil || score > best.Similarity {
			best = &types.PositionMatch{MatchedPosition: title, Similarity: score}
		}
	}
	return best
}

// runes splits s into one element per code point for difflib.
func runes(s string) []string {
	out := make([]string, 0, len(s))
	for _, r := range s {
		out = append(out, string(r))
	}
	return out
}
