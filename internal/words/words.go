package words

import (
	"encoding/json"
	"fmt"
	"log"
	"math/rand"
	"os"
	"strings"
)

// Difficulty selects one of the three dictionary tiers
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Difficulty weights used when sampling without an explicit tier:
// 20% easy, 40% medium, 40% hard.
const (
	easyWeight   = 20
	mediumWeight = 40
)

// Bank holds the word dictionary grouped by difficulty.
type Bank struct {
	easy   []string
	medium []string
	hard   []string
}

// NewBank loads words from a JSON file of the shape
// {"easy": [...], "medium": [...], "hard": [...]}. A missing or
// unreadable file falls back to the built-in dictionary.
func NewBank(path string) (*Bank, error) {
	b := &Bank{}
	if path != "" {
		if err := b.loadFile(path); err != nil {
			log.Printf("Word bank: could not load %s, using built-in dictionary: %v", path, err)
		}
	}
	if len(b.easy) == 0 {
		b.easy = defaultEasyWords
	}
	if len(b.medium) == 0 {
		b.medium = defaultMediumWords
	}
	if len(b.hard) == 0 {
		b.hard = defaultHardWords
	}
	log.Printf("Word bank ready: %d easy, %d medium, %d hard", len(b.easy), len(b.medium), len(b.hard))
	return b, nil
}

func (b *Bank) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var lists struct {
		Easy   []string `json:"easy"`
		Medium []string `json:"medium"`
		Hard   []string `json:"hard"`
	}
	if err := json.Unmarshal(data, &lists); err != nil {
		return fmt.Errorf("parse word file: %w", err)
	}
	b.easy = normalize(lists.Easy)
	b.medium = normalize(lists.Medium)
	b.hard = normalize(lists.Hard)
	return nil
}

func normalize(in []string) []string {
	out := make([]string, 0, len(in))
	for _, w := range in {
		w = strings.ToLower(strings.TrimSpace(w))
		if w != "" {
			out = append(out, w)
		}
	}
	return out
}

// SampleWord returns a uniformly random word of the given difficulty.
func (b *Bank) SampleWord(d Difficulty) string {
	var pool []string
	switch d {
	case DifficultyEasy:
		pool = b.easy
	case DifficultyMedium:
		pool = b.medium
	case DifficultyHard:
		pool = b.hard
	default:
		pool = b.medium
	}
	return pool[rand.Intn(len(pool))]
}

// SampleWeighted returns a dictionary word using the 20/40/40
// difficulty weights.
func (b *Bank) SampleWeighted() string {
	switch n := rand.Intn(100); {
	case n < easyWeight:
		return b.SampleWord(DifficultyEasy)
	case n < easyWeight+mediumWeight:
		return b.SampleWord(DifficultyMedium)
	default:
		return b.SampleWord(DifficultyHard)
	}
}

// SampleCustom returns a uniformly random word from the given list.
// Empty lists return "".
func SampleCustom(list []string) string {
	if len(list) == 0 {
		return ""
	}
	return list[rand.Intn(len(list))]
}

// Candidates produces count candidate words for the drawer to choose
// from. Each candidate independently comes from the custom list with
// probability customProbability/100, otherwise from the weighted
// dictionary. Duplicates are re-rolled a few times, then accepted.
func (b *Bank) Candidates(count int, customWords []string, customProbability int) []string {
	seen := make(map[string]bool, count)
	out := make([]string, 0, count)
	for len(out) < count {
		word := b.pick(customWords, customProbability)
		if seen[word] {
			// small dictionaries can exhaust; accept after retries
			retried := false
			for i := 0; i < 5; i++ {
				word = b.pick(customWords, customProbability)
				if !seen[word] {
					retried = true
					break
				}
			}
			if !retried {
				out = append(out, word)
				continue
			}
		}
		seen[word] = true
		out = append(out, word)
	}
	return out
}

func (b *Bank) pick(customWords []string, customProbability int) string {
	if len(customWords) > 0 && rand.Intn(100) < customProbability {
		return SampleCustom(customWords)
	}
	return b.SampleWeighted()
}
