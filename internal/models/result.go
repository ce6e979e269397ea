// Package models defines the canonical data structures produced by the
// Web4 resolver: normalized decode results, walk steps, and scores.
package models

// Sentinels used when a backend payload is missing a field across its whole
// fallback chain. Missing data is never an error in this domain.
const (
	UnknownType = "unknown"
	NoValue     = "N/A"
	NoSummary   = "No summary provided."
)

// StatusSuccess and StatusError tag the two DecodeResult variants.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Meta holds the normalized metadata of a decoded coordinate.
type Meta struct {
	Namespace string         `json:"namespace" yaml:"namespace"`
	Type      string         `json:"type" yaml:"type"`
	Coherence Score          `json:"coherence" yaml:"coherence"`
	Mediator  string         `json:"mediator" yaml:"mediator"`
	Timestamp string         `json:"timestamp" yaml:"timestamp"`
	Raw       map[string]any `json:"raw,omitempty" yaml:"-"`
}

// Content holds the normalized knowledge content of a decoded coordinate.
// Claims are ordered; they render as a ranked list of prime nodes.
type Content struct {
	Summary string         `json:"summary" yaml:"summary"`
	Claims  []string       `json:"claims" yaml:"claims"`
	Context string         `json:"context" yaml:"context"`
	Raw     map[string]any `json:"raw,omitempty" yaml:"-"`
}

// DecodeResult is the canonical representation of a backend decode response.
// It is a tagged union: Status is either StatusSuccess (Meta/Content/Primes
// populated, missing fields resolved to sentinels) or StatusError (Detail
// populated).
type DecodeResult struct {
	Status  string         `json:"status" yaml:"status"`
	Meta    Meta           `json:"meta,omitempty" yaml:"meta"`
	Content Content        `json:"content,omitempty" yaml:"content"`
	Primes  []int64        `json:"primes" yaml:"primes"`
	Raw     map[string]any `json:"raw,omitempty" yaml:"-"`
	Detail  string         `json:"detail,omitempty" yaml:"detail,omitempty"`
}

// OK reports whether the result is the success variant.
func (r DecodeResult) OK() bool {
	return r.Status == StatusSuccess
}

// ErrorResult builds the error variant of DecodeResult.
func ErrorResult(detail string) DecodeResult {
	return DecodeResult{Status: StatusError, Detail: detail}
}
