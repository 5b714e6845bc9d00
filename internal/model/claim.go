package model

// Span is a named region of the source text, as produced by the section splitter
type Span struct {
	ID    string `json:"id" yaml:"id"`
	Start int    `json:"start" yaml:"start"`
	End   int    `json:"end" yaml:"end"`
}

// ClaimKind separates event assertions from monetary assertions
type ClaimKind string

const (
	ClaimKindFact   ClaimKind = "fact"   // An event happened (or did not happen)
	ClaimKindAmount ClaimKind = "amount" // A sum of money attached to an event
)

// Claim is a structured assertion extracted from a single sentence
type Claim struct {
	ID        string       `json:"id"`
	Kind      ClaimKind    `json:"type"`
	TopicKey  string       `json:"topicKey"`
	Subject   string       `json:"subject"`
	Predicate string       `json:"predicate"`
	Object    string       `json:"object,omitempty"`
	Polarity  bool         `json:"polarity"`         // false when the sentence negates the event
	Time      *ClaimTime   `json:"time,omitempty"`   // First resolved date in the sentence
	Amount    *ClaimAmount `json:"amount,omitempty"` // First resolved amount in the sentence
	Scope     string       `json:"scope,omitempty"`  // Concept the amount refers to (e.g. "moral_damages")
	SectionID string       `json:"sectionId"`
	Start     int          `json:"start"`
	End       int          `json:"end"`
	RawText   string       `json:"rawText"`
}

// ClaimTime holds a normalized calendar date
type ClaimTime struct {
	Date string `json:"date"` // ISO 8601 calendar date (YYYY-MM-DD)
}

// ClaimAmount holds a normalized monetary amount
type ClaimAmount struct {
	Value    float64 `json:"value"`
	Currency string  `json:"currency"`
}

// Signature identifies the event a claim is about, independent of where it was said
func (c Claim) Signature() string {
	return c.Subject + "__" + c.Predicate + "__" + c.Object
}

// GroupKey returns the topic key, falling back to the event signature
func (c Claim) GroupKey() string {
	if c.TopicKey != "" {
		return c.TopicKey
	}
	return c.Signature()
}

// TopicGroup holds claims that are comparable with each other
type TopicGroup struct {
	TopicKey string  `json:"topicKey"`
	Items    []Claim `json:"items"`
}
