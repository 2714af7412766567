package ai

import (
	"context"
	"testing"

	"github.com/spigell/lead-scorer/internal/leads"
)

func TestStaticScore(t *testing.T) {
	assessment, err := Static{}.Score(context.Background(), &leads.Lead{}, &leads.Offer{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if assessment.Intent != "High" || assessment.Points != 50 {
		t.Fatalf("unexpected assessment: %+v", assessment)
	}
	if assessment.Reasoning != "AI scoring skipped for testing." {
		t.Fatalf("unexpected reasoning: %q", assessment.Reasoning)
	}
}

func TestClampPoints(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in, want int
	}{
		{-5, 0},
		{0, 0},
		{25, 25},
		{50, 50},
		{90, 50},
	}

	for _, tt := range tests {
		if got := ClampPoints(tt.in); got != tt.want {
			t.Fatalf("ClampPoints(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestIntentMapping(t *testing.T) {
	t.Parallel()

	if p, ok := PointsForIntent(" medium "); !ok || p != 30 {
		t.Fatalf("unexpected medium mapping: %d %v", p, ok)
	}
	if _, ok := PointsForIntent("unknown"); ok {
		t.Fatalf("expected unknown intent to be rejected")
	}
	if got := NormalizeIntent("LOW"); got != IntentLow {
		t.Fatalf("unexpected normalized intent: %q", got)
	}
	if got := IntentForPoints(45); got != IntentHigh {
		t.Fatalf("unexpected intent for 45: %q", got)
	}
	if got := IntentForPoints(20); got != IntentMedium {
		t.Fatalf("unexpected intent for 20: %q", got)
	}
	if got := IntentForPoints(5); got != IntentLow {
		t.Fatalf("unexpected intent for 5: %q", got)
	}
}
