package types

// Severity grades a validation issue.
type Severity string

// Severities, strongest first. Only critical issues make a unit invalid.
const (
	SeverityCritical   Severity = "critical"
	SeverityWarning    Severity = "warning"
	SeveritySuggestion Severity = "suggestion"
)

// Issue categories produced by the quality scorer.
const (
	IssueContrast   = "contrast"
	IssueDensity    = "density"
	IssueWhitespace = "whitespace"
	IssueSafeZone   = "safe-zone"
	IssueScale      = "scale-contrast"
	IssueHierarchy  = "hierarchy"
	IssueBalance    = "balance"
)

// Issue is one finding against a unit.
type Issue struct {
	Severity    Severity `json:"severity"`
	Category    string   `json:"category"`
	Message     string   `json:"message"`
	ElementID   string   `json:"element_id,omitempty"`
	AutoFixable bool     `json:"auto_fixable"`
}

// ValidationResult is the scorer's verdict on one unit. Score starts at 100
// and penalties are subtracted, floored at 0. Valid means no critical issue
// remains.
type ValidationResult struct {
	Valid  bool    `json:"valid"`
	Score  float64 `json:"score"`
	Issues []Issue `json:"issues,omitempty"`
}

// CriticalFixable returns the critical issues that carry a known repair.
func (r *ValidationResult) CriticalFixable() []Issue {
	var out []Issue
	for _, is := range r.Issues {
		if is.Severity == SeverityCritical && is.AutoFixable {
			out = append(out, is)
		}
	}
	return out
}

// Fixable returns every issue that carries a known repair.
func (r *ValidationResult) Fixable() []Issue {
	var out []Issue
	for _, is := range r.Issues {
		if is.AutoFixable {
			out = append(out, is)
		}
	}
	return out
}
