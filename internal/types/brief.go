// Package types defines the shared data structures exchanged between pipeline stages.
package types

// ContentSection describes one planned unit of the deck: its semantic
// content-type plus the raw material the generation stage should work from.
type ContentSection struct {
	ContentType string   `json:"content_type" validate:"required"`
	Headline    string   `json:"headline,omitempty"`
	Body        string   `json:"body,omitempty"`
	KeyPoints   []string `json:"key_points,omitempty"`
}

// ContentBrief is the immutable input to the pipeline. It is never mutated
// after the pipeline starts; stages read from it only.
type ContentBrief struct {
	BrandName       string           `json:"brand_name" validate:"required"`
	BrandAttributes []string         `json:"brand_attributes,omitempty"`
	Audience        string           `json:"audience,omitempty"`
	Goals           []string         `json:"goals,omitempty"`
	BasePalette     []string         `json:"base_palette,omitempty"` // hex colors, e.g. "#1a1a2e"
	Sections        []ContentSection `json:"sections" validate:"required,min=1,dive"`
}

// ContentTypes returns the ordered content-type ids of the planned units.
func (b *ContentBrief) ContentTypes() []string {
	out := make([]string, 0, len(b.Sections))
	for _, s := range b.Sections {
		out = append(out, s.ContentType)
	}
	return out
}

// Section returns the section for a content-type, or nil if not planned.
func (b *ContentBrief) Section(contentType string) *ContentSection {
	for i := range b.Sections {
		if b.Sections[i].ContentType == contentType {
			return &b.Sections[i]
		}
	}
	return nil
}
