package game

import "testing"

func TestGuessPoints(t *testing.T) {
	tests := []struct {
		name     string
		timeLeft int
		want     int
	}{
		{"full time", 60, 500},
		{"inside first plateau", 58, 458},
		{"plateau boundary", 55, 458},
		{"next plateau", 54, 416},
		{"half time", 30, 250},
		{"fifteen left", 15, 125},
		{"floor kicks in", 6, 50},
		{"near zero", 4, 50},
		{"zero", 0, 50},
		{"negative clamps", -3, 50},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GuessPoints(tt.timeLeft); got != tt.want {
				t.Errorf("GuessPoints(%d) = %d, want %d", tt.timeLeft, got, tt.want)
			}
		})
	}
}

func TestGuessPointsPlateau(t *testing.T) {
	// Every second inside one 5-second window scores the same.
	for _, base := range []int{55, 50, 45, 30, 20} {
		want := GuessPoints(base)
		for offset := 0; offset < 5; offset++ {
			if got := GuessPoints(base + offset); got != want {
				t.Errorf("GuessPoints(%d) = %d, want plateau value %d", base+offset, got, want)
			}
		}
	}
}

func TestDrawerBonus(t *testing.T) {
	tests := []struct {
		guessers int
		want     int
	}{
		{0, 0},
		{1, 50},
		{3, 150},
		{7, 350},
	}
	for _, tt := range tests {
		if got := DrawerBonus(tt.guessers); got != tt.want {
			t.Errorf("DrawerBonus(%d) = %d, want %d", tt.guessers, got, tt.want)
		}
	}
}
