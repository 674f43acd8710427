package types

import "time"

// PipelineVersion is stamped into every artifact's metadata.
const PipelineVersion = "2.0"

// ArtifactMetadata summarizes how the artifact was produced.
type ArtifactMetadata struct {
	QualityScore    float64   `json:"quality_score"`
	CreatedAt       time.Time `json:"created_at"`
	PipelineVersion string    `json:"pipeline_version"`
	DurationSeconds float64   `json:"duration_seconds"`
	ChosenMetaphor  string    `json:"chosen_metaphor,omitempty"`
}

// Artifact is the pipeline's sole output contract with the downstream
// renderer: the frozen design system plus the ordered units.
type Artifact struct {
	ID           string           `json:"id"`
	Title        string           `json:"title"`
	DesignSystem DesignSystem     `json:"design_system"`
	Units        []Unit           `json:"units"`
	Metadata     ArtifactMetadata `json:"metadata"`
}

// BatchContext is threaded between sequential content-generation batches.
// It is passed by ownership from one batch to the next and never shared
// concurrently.
type BatchContext struct {
	PriorUnitsSummary string
	UnitIndex         int
	TotalUnits        int
	Direction         *CreativeDirection
}
