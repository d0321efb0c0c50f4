package models

// FieldMapping records one attempted fill: which canonical field, which
// selector finally matched, what was written and whether the read-back
// confirmed it. Ephemeral; lives only inside the fill report.
type FieldMapping struct {
	Field     string `json:"field"`
	Selector  string `json:"selector,omitempty"`
	Strategy  string `json:"strategy,omitempty"`
	Value     string `json:"value,omitempty"`
	Confirmed bool   `json:"confirmed"`
}

// FillReport summarizes one fill operation over a form.
type FillReport struct {
	Mappings []FieldMapping `json:"mappings"`
	// Filled counts confirmed fills only.
	Filled int `json:"filled"`
	// Skipped lists canonical fields that matched no candidate element.
	Skipped []string `json:"skipped,omitempty"`
}

// MatchedFields returns the canonical fields that were confirmed.
func (r FillReport) MatchedFields() []string {
	var out []string
	for _, m := range r.Mappings {
		if m.Confirmed {
			out = append(out, m.Field)
		}
	}
	return out
}
