package leads

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestOfferValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		offer   *Offer
		wantErr string
	}{
		{
			name:  "complete",
			offer: &Offer{Name: "Outreach", ValueProps: []string{"24/7"}, IdealUseCases: []string{"SaaS"}},
		},
		{
			name:  "empty lists are present",
			offer: &Offer{Name: "Outreach", ValueProps: []string{}, IdealUseCases: []string{}},
		},
		{
			name:    "missing everything",
			offer:   &Offer{},
			wantErr: "missing required fields: name, value_props, ideal_use_cases",
		},
		{
			name:    "blank name",
			offer:   &Offer{Name: "  ", ValueProps: []string{}, IdealUseCases: []string{}},
			wantErr: "missing required fields: name",
		},
		{
			name:    "nil offer",
			wantErr: "offer is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := tt.offer.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || err.Error() != tt.wantErr {
				t.Fatalf("expected error %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestOfferCloneIsIndependent(t *testing.T) {
	offer := &Offer{Name: "Outreach", ValueProps: []string{"a"}, IdealUseCases: []string{"SaaS"}}
	clone := offer.Clone()
	clone.IdealUseCases[0] = "Retail"

	if offer.IdealUseCases[0] != "SaaS" {
		t.Fatalf("clone shares backing array with original")
	}
}

func TestLoadOffer(t *testing.T) {
	dir := t.TempDir()

	yamlPath := filepath.Join(dir, "offer.yaml")
	yamlBody := "name: AI Outreach Automation\nvalue_props:\n  - 24/7 outreach\nideal_use_cases:\n  - SaaS\n  - B2B SaaS mid-market\n"
	if err := os.WriteFile(yamlPath, []byte(yamlBody), 0o600); err != nil {
		t.Fatal(err)
	}

	offer, err := LoadOffer(yamlPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if offer.Name != "AI Outreach Automation" || len(offer.IdealUseCases) != 2 {
		t.Fatalf("unexpected offer: %+v", offer)
	}

	jsonPath := filepath.Join(dir, "offer.json")
	jsonBody := `{"name":"Outreach","value_props":["x"],"ideal_use_cases":["SaaS"]}`
	if err := os.WriteFile(jsonPath, []byte(jsonBody), 0o600); err != nil {
		t.Fatal(err)
	}

	offer, err = LoadOffer(jsonPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if offer.IdealUseCases[0] != "SaaS" {
		t.Fatalf("unexpected offer: %+v", offer)
	}

	badPath := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(badPath, []byte("name: Only name\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadOffer(badPath); err == nil || !strings.Contains(err.Error(), "value_props") {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestFromRow(t *testing.T) {
	lead, err := FromRow(map[string]string{
		"name":         "Ava Patel",
		"role":         "Head of Growth",
		"company":      "FlowMetrics",
		"industry":     "SaaS",
		"location":     "NY",
		"linkedin_bio": "B2B SaaS",
		"email":        "ava@example.com",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if lead.Name != "Ava Patel" || lead.LinkedInBio != "B2B SaaS" {
		t.Fatalf("unexpected lead: %+v", lead)
	}
	if lead.Extra["email"] != "ava@example.com" {
		t.Fatalf("expected extra column to be kept, got %+v", lead.Extra)
	}
	if !lead.Complete() {
		t.Fatalf("expected lead to be complete")
	}

	partial, err := FromRow(map[string]string{"role": "Intern"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if partial.Complete() {
		t.Fatalf("expected partial lead to be incomplete")
	}
	if partial.Extra != nil {
		t.Fatalf("expected nil extra, got %+v", partial.Extra)
	}
}

func TestFromRowMatchesColumnsExactly(t *testing.T) {
	lead, err := FromRow(map[string]string{
		"ROLE":     "CEO",
		"Industry": "SaaS",
		"name":     "Ava Patel",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if lead.Role != "" || lead.Industry != "" {
		t.Fatalf("expected differently cased columns to be ignored, got %+v", lead)
	}
	if lead.Name != "Ava Patel" {
		t.Fatalf("unexpected name: %q", lead.Name)
	}
	if lead.Extra["ROLE"] != "CEO" || lead.Extra["Industry"] != "SaaS" {
		t.Fatalf("expected unmatched columns in extra, got %+v", lead.Extra)
	}
}
