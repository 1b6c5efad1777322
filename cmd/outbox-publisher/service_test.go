package main

import (
	"testing"
	"time"
)

func TestNextBackoff(t *testing.T) {
	base := 500 * time.Millisecond

	cases := []struct {
		current, want time.Duration
	}{
		{0, time.Second},
		{base, time.Second},
		{time.Second, 2 * time.Second},
		{8 * time.Second, maxBackoff},
		{maxBackoff, maxBackoff},
	}
	for _, tc := range cases {
		if got := nextBackoff(tc.current, base, maxBackoff); got != tc.want {
			t.Errorf("nextBackoff(%s): expected %s, got %s", tc.current, tc.want, got)
		}
	}
}

func TestWithJitter(t *testing.T) {
	if withJitter(0) != 0 {
		t.Fatal("non-positive durations must stay zero")
	}

	base := time.Second
	for i := 0; i < 50; i++ {
		got := withJitter(base)
		if got < base || got >= base+jitterWindow {
			t.Fatalf("jittered value %s outside [%s, %s)", got, base, base+jitterWindow)
		}
	}
}
