package main

// levenshtein returns the edit distance between two rune slices using the
// two-row dynamic programming form.
func levenshtein(a, b []rune) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := 0; j <= len(b); j++ {
		prev[j] = j
	}

	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = min3(curr[j-1]+1, prev[j]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}

	return prev[len(b)]
}

func min3(a, b, c int) int {
	if b < a {
		a = b
	}
	if c < a {
		a = c
	}

	return a
}

// closest returns the candidate with the smallest edit distance to name.
// Ties keep the earliest candidate; an empty candidate list returns "".
func closest(name string, candidates []string) string {
	var (
		best         string
		bestDistance = -1
	)

	target := []rune(name)
	for _, candidate := range candidates {
		distance := levenshtein(target, []rune(candidate))
		if bestDistance < 0 || distance < bestDistance {
			best = candidate
			bestDistance = distance
		}
	}

	return best
}
