package words

import (
	"os"
	"path/filepath"
	"testing"
)

func testBank(t *testing.T) *Bank {
	t.Helper()
	b, err := NewBank("")
	if err != nil {
		t.Fatalf("NewBank: %v", err)
	}
	return b
}

func TestNewBankFallsBackToBuiltin(t *testing.T) {
	b, err := NewBank("does/not/exist.json")
	if err != nil {
		t.Fatalf("NewBank: %v", err)
	}
	if len(b.easy) == 0 || len(b.medium) == 0 || len(b.hard) == 0 {
		t.Error("built-in dictionary not loaded")
	}
}

func TestNewBankLoadsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "words.json")
	content := `{"easy": [" Cat ", "DOG", ""], "medium": ["guitar"], "hard": ["lighthouse"]}`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	b, err := NewBank(path)
	if err != nil {
		t.Fatalf("NewBank: %v", err)
	}
	if len(b.easy) != 2 || b.easy[0] != "cat" || b.easy[1] != "dog" {
		t.Errorf("easy words = %v, want normalized [cat dog]", b.easy)
	}
	if len(b.medium) != 1 || len(b.hard) != 1 {
		t.Errorf("medium/hard = %v / %v", b.medium, b.hard)
	}
}

func TestCandidatesCount(t *testing.T) {
	b := testBank(t)
	for _, count := range []int{3, 4, 5} {
		got := b.Candidates(count, nil, 0)
		if len(got) != count {
			t.Errorf("Candidates(%d) returned %d words", count, len(got))
		}
		for _, w := range got {
			if w == "" {
				t.Error("empty candidate")
			}
		}
	}
}

func TestCandidatesUsesCustomWords(t *testing.T) {
	b := testBank(t)
	custom := []string{"zebra", "xylophone", "quasar"}

	// Probability 100 must draw only from the custom list.
	got := b.Candidates(3, custom, 100)
	for _, w := range got {
		found := false
		for _, c := range custom {
			if w == c {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("candidate %q not from custom list", w)
		}
	}

	// Probability 0 must never touch the custom list.
	for i := 0; i < 20; i++ {
		for _, w := range b.Candidates(3, custom, 0) {
			for _, c := range custom {
				if w == c {
					t.Fatalf("candidate %q came from custom list at probability 0", w)
				}
			}
		}
	}
}

func TestSampleCustomEmpty(t *testing.T) {
	if got := SampleCustom(nil); got != "" {
		t.Errorf("SampleCustom(nil) = %q, want empty", got)
	}
}

func TestSampleWordByDifficulty(t *testing.T) {
	b := testBank(t)
	for _, d := range []Difficulty{DifficultyEasy, DifficultyMedium, DifficultyHard} {
		if w := b.SampleWord(d); w == "" {
			t.Errorf("SampleWord(%s) returned empty", d)
		}
	}
}
