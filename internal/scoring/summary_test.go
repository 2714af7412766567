package scoring

import (
	"strings"
	"testing"

	"github.com/spigell/lead-scorer/internal/leads"
)

func scored(name string, score int) leads.ScoredLead {
	return leads.ScoredLead{
		Lead:   leads.Lead{Name: name, Role: "Role " + name, Company: "Co " + name},
		Intent: "High",
		Score:  score,
	}
}

func TestTopOrdersByScore(t *testing.T) {
	results := []leads.ScoredLead{
		scored("a", 90), scored("b", 10), scored("c", 50), scored("d", 70), scored("e", 30),
	}

	top := Top(results, DefaultTop)

	got := (&leads.Results{Items: top}).Names()
	want := []string{"a", "d", "c"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Fatalf("expected %v, got %v", want, got)
	}

	if results[1].Name != "b" {
		t.Fatalf("input slice must not be reordered")
	}
}

func TestTopKeepsInsertionOrderOnTies(t *testing.T) {
	results := []leads.ScoredLead{
		scored("first", 60), scored("second", 80), scored("third", 60), scored("fourth", 60),
	}

	got := (&leads.Results{Items: Top(results, 3)}).Names()
	want := []string{"second", "first", "third"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestTopWithFewerResults(t *testing.T) {
	top := Top([]leads.ScoredLead{scored("only", 42)}, DefaultTop)
	if len(top) != 1 {
		t.Fatalf("expected 1 result, got %d", len(top))
	}
}

func TestSummaryFormats(t *testing.T) {
	top := []leads.ScoredLead{scored("Ava", 100), scored("John", 70)}

	summary := Summary(top)
	wantSummary := "Top Leads Summary:\n" +
		"1. Ava (Role Ava, Co Ava) → Score: 100, Intent: High\n" +
		"2. John (Role John, Co John) → Score: 70, Intent: High"
	if summary != wantSummary {
		t.Fatalf("unexpected summary:\n%s", summary)
	}

	announcement := Announcement(top)
	wantAnnouncement := "🚀 Top Leads from Scoring:\n" +
		"1. Ava (Role Ava, Co Ava) → High intent (Score: 100)\n" +
		"2. John (Role John, Co John) → High intent (Score: 70)"
	if announcement != wantAnnouncement {
		t.Fatalf("unexpected announcement:\n%s", announcement)
	}
}
