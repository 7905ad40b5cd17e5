package game

import (
	constants "definegame/internal/constants"
)

// isFuzzyMatch reports whether a wrong guess is close enough to the target
// to earn the scoring bonus. A guess qualifies when it is a couple of edits
// away, an anagram, or shares most of its letters with the target.
func isFuzzyMatch(guess, target string) bool {
	if guess == "" || target == "" {
		return false
	}
	if levenshtein(guess, target) <= constants.FuzzyMaxEditDistance {
		return true
	}
	if isAnagram(guess, target) {
		return true
	}
	return letterDice(guess, target) >= constants.FuzzyMinDiceSimilarity
}

func levenshtein(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}

	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, min(curr[j-1]+1, prev[j-1]+cost))
		}
		prev, curr = curr, prev
	}
	return prev[len(rb)]
}

func isAnagram(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	counts := letterCounts(a)
	for _, ch := range b {
		counts[ch]--
		if counts[ch] < 0 {
			return false
		}
	}
	return true
}

// letterDice is the Sorensen-Dice coefficient over letter multisets.
func letterDice(a, b string) float64 {
	ca, cb := letterCounts(a), letterCounts(b)
	common := 0
	for ch, n := range ca {
		common += min(n, cb[ch])
	}
	return float64(2*common) / float64(len([]rune(a))+len([]rune(b)))
}

func letterCounts(s string) map[rune]int {
	counts := make(map[rune]int, len(s))
	for _, ch := range s {
		counts[ch]++
	}
	return counts
}
