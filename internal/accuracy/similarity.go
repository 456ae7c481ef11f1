package accuracy

import "strings"

// normalize lower-cases s and collapses runs of whitespace.
func normalize(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// sameName reports whether two names are equal after normalization.
// Empty names never match.
func sameName(a, b string) bool {
	na := normalize(a)
	return na != "" && na == normalize(b)
}

// WordOverlap is the Jaccard similarity of the lower-cased,
// whitespace-split token sets of a and b.
func WordOverlap(a, b string) float64 {
	setA := tokenSet(a)
	setB := tokenSet(b)
	if len(setA) == 0 && len(setB) == 0 {
		return 0
	}

	intersection := 0
	for tok := range setA {
		if _, ok := setB[tok]; ok {
			intersection++
		}
	}
	union := len(setA) + len(setB) - intersection
	return float64(intersection) / float64(union)
}

func tokenSet(s string) map[string]struct{} {
	fields := strings.Fields(strings.ToLower(s))
	set := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		set[f] = struct{}{}
	}
	return set
}

// NameSimilarity is 1 - levenshtein/maxLen over normalized names.
func NameSimilarity(a, b string) float64 {
	na, nb := []rune(normalize(a)), []rune(normalize(b))
	maxLen := max(len(na), len(nb))
	if maxLen == 0 {
		return 0
	}
	if string(na) == string(nb) {
		return 1
	}
	return 1 - float64(levenshtein(na, nb))/float64(maxLen)
}

func levenshtein(a, b []rune) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	prev := make([]int, len(a)+1)
	curr := make([]int, len(a)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(b); i++ {
		curr[0] = i
		for j := 1; j <= len(a); j++ {
			if b[i-1] == a[j-1] {
				curr[j] = prev[j-1]
				continue
			}
			curr[j] = 1 + min(prev[j-1], prev[j], curr[j-1])
		}
		prev, curr = curr, prev
	}
	return prev[len(a)]
}

// withinTolerance reports whether got is within tol relative distance of want.
func withinTolerance(want float64, got *float64, tol float64) bool {
	if got == nil {
		return false
	}
	if want == 0 {
		return *got == 0
	}
	diff := *got - want
	if diff < 0 {
		diff = -diff
	}
	if want < 0 {
		want = -want
	}
	return diff/want <= tol
}
