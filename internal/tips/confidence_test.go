package tips

import (
	"strings"
	"testing"
)

func TestScoreConfidence_Bounds(t *testing.T) {
	cases := []struct {
		name     string
		response string
		roll     float64
		want     int
	}{
		{"short answer floors at 60", "rest and drink water", 0, 60},
		{"long answer caps at 95", strings.Repeat("a", 2000), 0.99, 95},
		{"mid-length answer scores in band", strings.Repeat("b", 700), 0, 70},
		{"roll adds up to 20 points", strings.Repeat("b", 700), 0.5, 80},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := scoreConfidence(tc.response, tc.roll); got != tc.want {
				t.Fatalf("scoreConfidence(%d chars, %.2f) = %d, want %d", len(tc.response), tc.roll, got, tc.want)
			}
		})
	}
}

func TestConfidenceFor_AlwaysInBand(t *testing.T) {
	for i := 0; i < 100; i++ {
		got := ConfidenceFor(strings.Repeat("x", i*40))
		if got < 60 || got > 95 {
			t.Fatalf("confidence %d outside 60..95 band", got)
		}
	}
}
