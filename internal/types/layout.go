package types

// LayoutDirective is the stage-3 output for one content-type: the layout
// technique its unit should use and the constraints generation must honor.
//
// Invariants enforced by the orchestrator before the strategy is accepted:
// no technique appears more than twice across the deck, and adjacent
// content-types never share a technique.
type LayoutDirective struct {
	ContentType string   `json:"content_type"`
	Technique   string   `json:"technique"`
	Description string   `json:"description,omitempty"`
	Constraints []string `json:"constraints,omitempty"`
}
