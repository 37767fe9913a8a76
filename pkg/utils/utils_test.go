package utils

import (
	"errors"
	"testing"
)

func TestGenerateRoomID(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := GenerateRoomID()
		if !ValidateRoomID(id) {
			t.Fatalf("generated invalid room ID %q", id)
		}
		seen[id] = true
	}
	if len(seen) < 95 {
		t.Errorf("only %d distinct IDs out of 100", len(seen))
	}
}

func TestValidateRoomID(t *testing.T) {
	tests := []struct {
		id   string
		want bool
	}{
		{"ABC123", true},
		{"ZZZZZZ", true},
		{"abc123", false},
		{"ABC12", false},
		{"ABC1234", false},
		{"ABC-12", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := ValidateRoomID(tt.id); got != tt.want {
			t.Errorf("ValidateRoomID(%q) = %v, want %v", tt.id, got, tt.want)
		}
	}
}

func TestNormalizeRoomID(t *testing.T) {
	if got := NormalizeRoomID("  abc123 "); got != "ABC123" {
		t.Errorf("NormalizeRoomID = %q, want ABC123", got)
	}
}

func TestGenerateSessionID(t *testing.T) {
	a := GenerateSessionID()
	b := GenerateSessionID()
	if !ValidateSessionID(a) || !ValidateSessionID(b) {
		t.Fatalf("generated invalid session IDs %q %q", a, b)
	}
	if a == b {
		t.Error("two session IDs collided")
	}
}

func TestValidateSessionID(t *testing.T) {
	tests := []struct {
		id   string
		want bool
	}{
		{"session_abc123def456xyz", true},
		{"session_short", false},
		{"sess_abc123def456xyz", false},
		{"session_ABC123DEF456XYZ", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := ValidateSessionID(tt.id); got != tt.want {
			t.Errorf("ValidateSessionID(%q) = %v, want %v", tt.id, got, tt.want)
		}
	}
}

func TestCleanName(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    string
		wantErr error
	}{
		{"plain", "alice", "alice", nil},
		{"trims and collapses", "  bob   jones ", "bob jones", nil},
		{"strips control chars", "ca\x00ra", "cara", nil},
		{"empty", "   ", "", ErrEmptyInput},
		{"impersonation", "site ADMIN", "", ErrBlockedContent},
		{"blocked substring", "moderator99", "", ErrBlockedContent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CleanName(tt.in)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("CleanName(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}

	long := make([]byte, 50)
	for i := range long {
		long[i] = 'a'
	}
	got, err := CleanName(string(long))
	if err != nil {
		t.Fatalf("long name: %v", err)
	}
	if len(got) > 20 {
		t.Errorf("long name kept %d chars, want at most 20", len(got))
	}
}

func TestCleanMessage(t *testing.T) {
	if _, err := CleanMessage("  \t "); !errors.Is(err, ErrEmptyInput) {
		t.Errorf("blank message err = %v, want ErrEmptyInput", err)
	}

	got, err := CleanMessage("  hello   there ")
	if err != nil || got != "hello there" {
		t.Errorf("CleanMessage = (%q, %v)", got, err)
	}

	long := make([]byte, 300)
	for i := range long {
		long[i] = 'x'
	}
	got, err = CleanMessage(string(long))
	if err != nil {
		t.Fatalf("long message: %v", err)
	}
	if len(got) > 200 {
		t.Errorf("long message kept %d chars, want at most 200", len(got))
	}
}

func TestNormalizeGuess(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"House", "house"},
		{"  ICE  CREAM ", "icecream"},
		{"hot\tdog", "hotdog"},
		{"", ""},
		{"   ", ""},
	}
	for _, tt := range tests {
		if got := NormalizeGuess(tt.in); got != tt.want {
			t.Errorf("NormalizeGuess(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
