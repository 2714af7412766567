package scoring

import (
	"context"
	"errors"
	"reflect"
	"sync/atomic"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spigell/lead-scorer/internal/ai"
	"github.com/spigell/lead-scorer/internal/leads"
)

type funcIntent func(ctx context.Context, lead *leads.Lead) (*ai.IntentAssessment, error)

func (f funcIntent) Score(ctx context.Context, lead *leads.Lead, _ *leads.Offer) (*ai.IntentAssessment, error) {
	return f(ctx, lead)
}

func sampleLeads() []*leads.Lead {
	return []*leads.Lead{
		{Name: "Ava Patel", Role: "Head of Growth", Company: "FlowMetrics", Industry: "SaaS", Location: "NY", LinkedInBio: "B2B"},
		{Name: "John Doe", Role: "Manager", Industry: "Software", Location: "CA"},
		{Role: "Intern", Industry: "Healthcare", Extra: map[string]string{"email": "intern@example.com"}},
	}
}

func TestScorerDefaultIntent(t *testing.T) {
	scorer := New(nil, 2, nil)

	results, err := scorer.Score(context.Background(), testOffer(), sampleLeads())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	wantScores := []int{100, 70, 60}
	wantReasoning := []string{
		"Rule score: 50. AI: AI scoring skipped for testing.",
		"Rule score: 20. AI: AI scoring skipped for testing.",
		"Rule score: 10. AI: AI scoring skipped for testing.",
	}

	if len(results) != len(wantScores) {
		t.Fatalf("expected %d results, got %d", len(wantScores), len(results))
	}

	for i, r := range results {
		if r.Score != wantScores[i] {
			t.Fatalf("result %d: expected score %d, got %d", i, wantScores[i], r.Score)
		}
		if r.Intent != "High" {
			t.Fatalf("result %d: expected High intent, got %q", i, r.Intent)
		}
		if r.Reasoning != wantReasoning[i] {
			t.Fatalf("result %d: unexpected reasoning %q", i, r.Reasoning)
		}
	}

	if results[2].Extra["email"] != "intern@example.com" {
		t.Fatalf("expected extra columns to be carried over")
	}
}

func TestScorerIsIdempotent(t *testing.T) {
	scorer := New(ai.Static{}, 3, nil)
	input := sampleLeads()

	first, err := scorer.Score(context.Background(), testOffer(), input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := scorer.Score(context.Background(), testOffer(), input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !reflect.DeepEqual(first, second) {
		t.Fatalf("expected identical results:\n%+v\n%+v", first, second)
	}
}

func TestScorerPreservesOrderWithVariableIntent(t *testing.T) {
	input := make([]*leads.Lead, 0, 20)
	for i := range 20 {
		input = append(input, &leads.Lead{Name: string(rune('a' + i)), Role: "Intern"})
	}

	intent := funcIntent(func(_ context.Context, lead *leads.Lead) (*ai.IntentAssessment, error) {
		points := int(lead.Name[0]-'a') * 3
		return &ai.IntentAssessment{Intent: ai.IntentForPoints(points), Points: points, Reasoning: lead.Name}, nil
	})

	results, err := New(intent, 5, nil).Score(context.Background(), testOffer(), input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for i, r := range results {
		if r.Name != input[i].Name {
			t.Fatalf("order not preserved at %d: %q != %q", i, r.Name, input[i].Name)
		}
		wantPoints := min(i*3, ai.MaxPoints)
		if r.Score != 10+wantPoints {
			t.Fatalf("lead %q: expected score %d, got %d", r.Name, 10+wantPoints, r.Score)
		}
	}
}

func TestScorerPreconditions(t *testing.T) {
	scorer := New(nil, 1, nil)

	if _, err := scorer.Score(context.Background(), nil, sampleLeads()); !errors.Is(err, ErrNoOffer) {
		t.Fatalf("expected ErrNoOffer, got %v", err)
	}
	if _, err := scorer.Score(context.Background(), testOffer(), nil); !errors.Is(err, ErrNoLeads) {
		t.Fatalf("expected ErrNoLeads, got %v", err)
	}
}

func TestScorerStopsOnIntentFailure(t *testing.T) {
	boom := errors.New("provider unavailable")
	var calls atomic.Int32

	intent := funcIntent(func(ctx context.Context, lead *leads.Lead) (*ai.IntentAssessment, error) {
		calls.Add(1)
		if lead.Name == "John Doe" {
			return nil, boom
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return &ai.IntentAssessment{Intent: ai.IntentLow, Points: 5, Reasoning: "ok"}, nil
	})

	results, err := New(intent, 1, nil).Score(context.Background(), testOffer(), sampleLeads())
	if !errors.Is(err, boom) {
		t.Fatalf("expected provider error, got %v", err)
	}
	if results != nil {
		t.Fatalf("expected no partial results, got %+v", results)
	}
	if calls.Load() > int32(len(sampleLeads())) {
		t.Fatalf("unexpected number of calls: %d", calls.Load())
	}
}

func TestScorerClampsIntentPoints(t *testing.T) {
	intent := funcIntent(func(context.Context, *leads.Lead) (*ai.IntentAssessment, error) {
		return &ai.IntentAssessment{Intent: ai.IntentHigh, Points: 500, Reasoning: "overflow"}, nil
	})

	results, err := New(intent, 1, nil).Score(context.Background(), testOffer(), sampleLeads()[:1])
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if results[0].Score != 100 {
		t.Fatalf("expected clamped score 100, got %d", results[0].Score)
	}
}

func TestScorerDescribe(t *testing.T) {
	layers := New(nil, 2, nil).Describe()
	if len(layers) != 2 {
		t.Fatalf("expected 2 layers, got %d", len(layers))
	}
	if layers[0].Name != "rule" || layers[0].Details["max_score"] != "50" {
		t.Fatalf("unexpected rule layer: %+v", layers[0])
	}
	if layers[1].Details["provider"] != "static" || layers[1].Details["workers"] != "2" {
		t.Fatalf("unexpected intent layer: %+v", layers[1])
	}
}

func TestScorerLogsEachLead(t *testing.T) {
	core, observed := observer.New(zapcore.DebugLevel)
	scorer := New(nil, 1, zap.New(core))

	if _, err := scorer.Score(context.Background(), testOffer(), sampleLeads()[:1]); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	entries := observed.FilterMessage("lead scored").All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 lead entry, got %d", len(entries))
	}

	fields := entries[0].ContextMap()
	if fields["lead"] != "Ava Patel" || fields["company"] != "FlowMetrics" {
		t.Fatalf("unexpected lead fields: %+v", fields)
	}
	if fields["rule_score"] != int64(50) || fields["score"] != int64(100) {
		t.Fatalf("unexpected score fields: %+v", fields)
	}
}
