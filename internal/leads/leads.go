package leads

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// Offer describes what is being sold and who it is for.
type Offer struct {
	Name          string   `json:"name" yaml:"name"`
	ValueProps    []string `json:"value_props" yaml:"value_props"`
	IdealUseCases []string `json:"ideal_use_cases" yaml:"ideal_use_cases"`
}

// Validate reports missing offer fields. Empty lists are accepted, absent ones are not.
func (o *Offer) Validate() error {
	if o == nil {
		return errors.New("offer is required")
	}

	var missing []string
	if strings.TrimSpace(o.Name) == "" {
		missing = append(missing, "name")
	}
	if o.ValueProps == nil {
		missing = append(missing, "value_props")
	}
	if o.IdealUseCases == nil {
		missing = append(missing, "ideal_use_cases")
	}

	if len(missing) > 0 {
		return fmt.Errorf("missing required fields: %s", strings.Join(missing, ", "))
	}

	return nil
}

// Clone returns a deep copy so callers can't mutate a stored offer.
func (o *Offer) Clone() *Offer {
	if o == nil {
		return nil
	}
	return &Offer{
		Name:          o.Name,
		ValueProps:    append([]string(nil), o.ValueProps...),
		IdealUseCases: append([]string(nil), o.IdealUseCases...),
	}
}

// LoadOffer reads an offer from a YAML or JSON file.
func LoadOffer(path string) (*Offer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading offer file %q: %w", path, err)
	}

	var offer Offer
	if err := yaml.Unmarshal(data, &offer); err != nil {
		return nil, fmt.Errorf("parsing offer file %q: %w", path, err)
	}

	if err := offer.Validate(); err != nil {
		return nil, fmt.Errorf("offer file %q: %w", path, err)
	}

	return &offer, nil
}

// Lead is a single prospect record. Columns without a dedicated field land in Extra.
type Lead struct {
	Name        string            `json:"name" mapstructure:"name"`
	Role        string            `json:"role" mapstructure:"role"`
	Company     string            `json:"company" mapstructure:"company"`
	Industry    string            `json:"industry" mapstructure:"industry"`
	Location    string            `json:"location" mapstructure:"location"`
	LinkedInBio string            `json:"linkedin_bio" mapstructure:"linkedin_bio"`
	Extra       map[string]string `json:"extra,omitempty" mapstructure:",remain"`
}

// Complete reports whether every profile field is filled in.
func (l *Lead) Complete() bool {
	for _, v := range []string{l.Name, l.Role, l.Company, l.Industry, l.Location, l.LinkedInBio} {
		if v == "" {
			return false
		}
	}
	return true
}

// FromRow maps a decoded CSV row onto a lead by exact column name.
func FromRow(row map[string]string) (*Lead, error) {
	var lead Lead

	cfg := &mapstructure.DecoderConfig{
		Result:  &lead,
		TagName: "mapstructure",
		// Column names must match exactly; "ROLE" is an extra column, not Role.
		MatchName: func(mapKey, fieldName string) bool { return mapKey == fieldName },
	}
	decoder, err := mapstructure.NewDecoder(cfg)
	if err != nil {
		return nil, err
	}

	if err := decoder.Decode(row); err != nil {
		return nil, fmt.Errorf("decoding lead row: %w", err)
	}

	if len(lead.Extra) == 0 {
		lead.Extra = nil
	}

	return &lead, nil
}

// ScoredLead is a lead together with its scoring outcome.
type ScoredLead struct {
	Lead
	Intent    string `json:"intent"`
	Score     int    `json:"score"`
	Reasoning string `json:"reasoning"`
}

// Leads is an ordered lead collection.
type Leads struct {
	Items []*Lead
}

func (l *Leads) Len() int {
	if l == nil {
		return 0
	}
	return len(l.Items)
}

// Results is an ordered collection of scored leads.
type Results struct {
	Items []ScoredLead
}

func (r *Results) Len() int {
	if r == nil {
		return 0
	}
	return len(r.Items)
}

// Names returns the lead names in collection order.
func (r *Results) Names() []string {
	names := make([]string, 0, r.Len())
	if r == nil {
		return names
	}
	for _, item := range r.Items {
		names = append(names, item.Name)
	}
	return names
}
