package usecase

import "strings"

// Similarity sub-scores for the non-metric cases
const (
	exactTitleScore       = 1.0
	containmentTitleScore = 0.95
)

// TitleSimilarity scores how alike two product titles are, in [0,1].
// It returns the maximum of five sub-scores: case-insensitive equality,
// containment, token-level Dice, character-bigram Dice and normalized
// edit-distance similarity. No single metric survives every vendor title
// convention (appended SKUs, trailing size/color tokens, punctuation), so
// the layers back each other up.
func TitleSimilarity(a, b string) float64 {
	na := strings.ToLower(strings.TrimSpace(a))
	nb := strings.ToLower(strings.TrimSpace(b))

	if na == "" || nb == "" {
		return 0
	}
	if na == nb {
		return exactTitleScore
	}
	if strings.Contains(na, nb) || strings.Contains(nb, na) {
		return containmentTitleScore
	}

	score := tokenDice(na, nb)
	if s := bigramDice(na, nb); s > score {
		score = s
	}
	if s := editDistanceSimilarity(na, nb); s > score {
		score = s
	}

	return score
}

// tokenDice computes the Dice coefficient over whitespace-split tokens.
func tokenDice(a, b string) float64 {
	tokensA := stringSet(strings.Fields(a))
	tokensB := stringSet(strings.Fields(b))
	return diceCoefficient(tokensA, tokensB)
}

// bigramDice computes the Dice coefficient over character bigrams.
func bigramDice(a, b string) float64 {
	return diceCoefficient(bigrams(a), bigrams(b))
}

func bigrams(s string) map[string]bool {
	runes := []rune(s)
	set := make(map[string]bool, len(runes))
	for i := 0; i+1 < len(runes); i++ {
		set[string(runes[i:i+2])] = true
	}
	return set
}

func stringSet(values []string) map[string]bool {
	set := make(map[string]bool, len(values))
	for _, v := range values {
		set[v] = true
	}
	return set
}

func diceCoefficient(a, b map[string]bool) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}

	common := 0
	for v := range a {
		if b[v] {
			common++
		}
	}

	return 2 * float64(common) / float64(len(a)+len(b))
}

// editDistanceSimilarity converts Levenshtein distance into a similarity
// score: 1 - distance/max(len a, len b).
func editDistanceSimilarity(a, b string) float64 {
	ra := []rune(a)
	rb := []rune(b)

	longest := len(ra)
	if len(rb) > longest {
		longest = len(rb)
	}
	if longest == 0 {
		return 0
	}

	return 1 - float64(levenshteinDistance(ra, rb))/float64(longest)
}

// levenshteinDistance calculates the edit distance between two rune slices
func levenshteinDistance(r1, r2 []rune) int {
	if len(r1) == 0 {
		return len(r2)
	}
	if len(r2) == 0 {
		return len(r1)
	}

	m := len(r1)
	n := len(r2)

	// Use two rows instead of the full matrix for space efficiency
	prev := make([]int, n+1)
	curr := make([]int, n+1)

	for j := 0; j <= n; j++ {
		prev[j] = j
	}

	for i := 1; i <= m; i++ {
		curr[0] = i
		for j := 1; j <= n; j++ {
			cost := 0
			if r1[i-1] != r2[j-1] {
				cost = 1
			}
			curr[j] = min(
				prev[j]+1,      // deletion
				curr[j-1]+1,    // insertion
				prev[j-1]+cost, // substitution
			)
		}
		prev, curr = curr, prev
	}

	return prev[n]
}
