package ratelimit

import (
	"testing"
	"time"
)

func TestAllowBurst(t *testing.T) {
	tests := []struct {
		name  string
		kind  Kind
		burst int
	}{
		{"draw burst of 50", KindDraw, 50},
		{"chat burst of 10", KindChat, 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := NewLimiter()
			for i := 0; i < tt.burst; i++ {
				if !l.Allow("sock-1", tt.kind) {
					t.Fatalf("event %d denied inside burst", i)
				}
			}
			if l.Allow("sock-1", tt.kind) {
				t.Error("event allowed past burst")
			}
		})
	}
}

func TestBucketsAreIndependent(t *testing.T) {
	l := NewLimiter()

	// Exhaust one socket's chat bucket.
	for i := 0; i < 10; i++ {
		l.Allow("sock-1", KindChat)
	}
	if l.Allow("sock-1", KindChat) {
		t.Fatal("exhausted bucket allowed")
	}

	// Another socket and another kind are unaffected.
	if !l.Allow("sock-2", KindChat) {
		t.Error("other socket shares the bucket")
	}
	if !l.Allow("sock-1", KindDraw) {
		t.Error("other kind shares the bucket")
	}
}

func TestForget(t *testing.T) {
	l := NewLimiter()
	for i := 0; i < 10; i++ {
		l.Allow("sock-1", KindChat)
	}
	if l.Allow("sock-1", KindChat) {
		t.Fatal("exhausted bucket allowed")
	}

	l.Forget("sock-1")

	// A fresh bucket comes back with a full burst.
	if !l.Allow("sock-1", KindChat) {
		t.Error("bucket not reset after Forget")
	}
	if l.Size() != 1 {
		t.Errorf("size = %d, want 1", l.Size())
	}
}

func TestGCCollectsIdleBuckets(t *testing.T) {
	l := NewLimiter()
	l.Allow("sock-1", KindChat)
	l.Allow("sock-2", KindDraw)

	if n := l.GC(time.Minute); n != 0 {
		t.Errorf("GC collected %d fresh buckets", n)
	}

	// Zero max idle expires everything seen before now.
	time.Sleep(time.Millisecond)
	if n := l.GC(0); n != 2 {
		t.Errorf("GC collected %d, want 2", n)
	}
	if l.Size() != 0 {
		t.Errorf("size after GC = %d, want 0", l.Size())
	}
}
