package utils

import (
	"crypto/rand"
	"strconv"
	"strings"
	"time"
)

const (
	// Room IDs are 6 uppercase base-36 characters
	roomIDChars  = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	roomIDLength = 6

	sessionIDPrefix    = "session_"
	sessionIDRandomLen = 9
	sessionIDRandChars = "abcdefghijklmnopqrstuvwxyz0123456789"
)

// GenerateRoomID generates a 6-character uppercase base-36 room ID.
// Uniqueness is enforced by the store at creation time.
func GenerateRoomID() string {
	code := make([]byte, roomIDLength)
	if _, err := rand.Read(code); err != nil {
		return timeBasedRoomID()
	}
	for i := range code {
		code[i] = roomIDChars[int(code[i])%len(roomIDChars)]
	}
	return string(code)
}

// timeBasedRoomID is the fallback when crypto/rand is unavailable.
func timeBasedRoomID() string {
	ts := time.Now().UnixNano()
	code := make([]byte, roomIDLength)
	for i := range code {
		code[i] = roomIDChars[int(ts>>(i*5))%len(roomIDChars)]
	}
	return string(code)
}

// ValidateRoomID reports whether the string has the room ID shape.
func ValidateRoomID(id string) bool {
	if len(id) != roomIDLength {
		return false
	}
	for _, c := range id {
		if !strings.ContainsRune(roomIDChars, c) {
			return false
		}
	}
	return true
}

// NormalizeRoomID uppercases and trims a client-supplied room ID.
func NormalizeRoomID(id string) string {
	return strings.ToUpper(strings.TrimSpace(id))
}

// GenerateSessionID generates a durable session identity of the form
// "session_" + random base-36 + base-36 unix-millis timestamp.
func GenerateSessionID() string {
	random := make([]byte, sessionIDRandomLen)
	if _, err := rand.Read(random); err != nil {
		for i := range random {
			random[i] = sessionIDRandChars[int(time.Now().UnixNano()>>(i*4))%len(sessionIDRandChars)]
		}
	} else {
		for i := range random {
			random[i] = sessionIDRandChars[int(random[i])%len(sessionIDRandChars)]
		}
	}
	ts := strconv.FormatInt(time.Now().UnixMilli(), 36)
	return sessionIDPrefix + string(random) + ts
}

// ValidateSessionID reports whether the string has the session ID shape.
func ValidateSessionID(id string) bool {
	if !strings.HasPrefix(id, sessionIDPrefix) {
		return false
	}
	rest := id[len(sessionIDPrefix):]
	if len(rest) <= sessionIDRandomLen {
		return false
	}
	for _, c := range rest {
		if !strings.ContainsRune(sessionIDRandChars, c) {
			return false
		}
	}
	return true
}
