package game

import (
	"math/rand"
	"strings"
)

// MaskWord renders the word with unrevealed positions as underscores,
// characters joined by single spaces.
func MaskWord(word string, revealed []int) string {
	shown := make(map[int]bool, len(revealed))
	for _, i := range revealed {
		shown[i] = true
	}

	runes := []rune(word)
	parts := make([]string, len(runes))
	for i, r := range runes {
		if shown[i] {
			parts[i] = string(r)
		} else {
			parts[i] = "_"
		}
	}
	return strings.Join(parts, " ")
}

// revealDue reports whether a hint letter should be uncovered at the
// given remaining time. The first reveal fires when the remaining time
// falls to half the draw time while still above 15 seconds; the second
// at 15 seconds. Rooms too short for the half-time window get their
// first reveal at the 15-second mark instead.
func revealDue(drawTime, timeLeft, revealedCount int) bool {
	switch revealedCount {
	case 0:
		half := drawTime / 2
		if half > 15 && timeLeft <= half && timeLeft > 15 {
			return true
		}
		return timeLeft <= 15 && timeLeft > 0
	case 1:
		return timeLeft <= 15 && timeLeft > 0
	default:
		return false
	}
}

// randomHiddenIndex picks a uniformly random unrevealed index of the
// word. Returns -1 when every position is already revealed.
func randomHiddenIndex(word string, revealed []int) int {
	shown := make(map[int]bool, len(revealed))
	for _, i := range revealed {
		shown[i] = true
	}

	hidden := make([]int, 0, len(word))
	for i := range []rune(word) {
		if !shown[i] {
			hidden = append(hidden, i)
		}
	}
	if len(hidden) == 0 {
		return -1
	}
	return hidden[rand.Intn(len(hidden))]
}
