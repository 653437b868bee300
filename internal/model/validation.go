package model

// ValidationStatus is the three-way outcome of entity validation.
type ValidationStatus string

const (
	ValidationValid     ValidationStatus = "VALID"
	ValidationMissing   ValidationStatus = "MISSING"
	ValidationAmbiguous ValidationStatus = "AMBIGUOUS"
)

// MissingField records one unmatched or absent required field together with
// the valid alternatives the user can be offered.
type MissingField struct {
	// Field names what is missing: "property", "tenant", "period", "periods".
	Field string `json:"field"`
	// Mention is the unmatched raw mention, empty when the field was absent
	// entirely rather than unmatched.
	Mention     string   `json:"mention,omitempty"`
	Suggestions []string `json:"suggestions,omitempty"`
}

// Candidate is one ranked disambiguation candidate.
type Candidate struct {
	Name  string  `json:"name"`
	Score float64 `json:"score"`
}

// AmbiguousMention maps one fuzzy mention to its candidate matches.
type AmbiguousMention struct {
	Field      string      `json:"field"`
	Mention    string      `json:"mention"`
	Candidates []Candidate `json:"candidates"`
}

// ValidationResult is the tagged outcome of entity validation. Exactly one
// status applies; when both missing and ambiguous conditions exist, MISSING
// wins unless every missing condition is itself resolvable by
// disambiguation.
type ValidationResult struct {
	Status    ValidationStatus   `json:"status"`
	Missing   []MissingField     `json:"missing,omitempty"`
	Ambiguous []AmbiguousMention `json:"ambiguous,omitempty"`
	// Entities carries the validated (exact and auto-resolved) entities when
	// Status is VALID, with mentions replaced by canonical dataset names.
	Entities ExtractedEntities `json:"entities"`
}
