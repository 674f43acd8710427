package types

// Canvas dimensions shared by every unit, in abstract pixels. The safe
// margin is the band near each edge that non-decorative text must stay out
// of.
const (
	CanvasWidth  = 1280.0
	CanvasHeight = 720.0
	SafeMargin   = 48.0
)

// ElementType tags the Element union.
type ElementType string

// Element kinds.
const (
	ElementShape ElementType = "shape"
	ElementText  ElementType = "text"
	ElementImage ElementType = "image"
)

// ElementRole is the semantic role of an element within its unit.
type ElementRole string

// Element roles.
const (
	RoleTitle      ElementRole = "title"
	RoleSubtitle   ElementRole = "subtitle"
	RoleBody       ElementRole = "body"
	RoleCaption    ElementRole = "caption"
	RoleDecorative ElementRole = "decorative"
)

// Element is one positioned item on a unit's canvas. It is a tagged union:
// Type selects which of the style fields are meaningful.
type Element struct {
	ID       string      `json:"id"`
	Type     ElementType `json:"type"`
	Role     ElementRole `json:"role,omitempty"`
	X        float64     `json:"x"`
	Y        float64     `json:"y"`
	Width    float64     `json:"width"`
	Height   float64     `json:"height"`
	ZIndex   int         `json:"z_index,omitempty"`
	Opacity  float64     `json:"opacity,omitempty"`
	Rotation float64     `json:"rotation,omitempty"`

	// Text style (Type == ElementText)
	Text          string  `json:"text,omitempty"`
	FontSize      float64 `json:"font_size,omitempty"`
	FontWeight    int     `json:"font_weight,omitempty"`
	Color         string  `json:"color,omitempty"`
	LetterSpacing string  `json:"letter_spacing,omitempty"`
	LineHeight    float64 `json:"line_height,omitempty"`
	Align         string  `json:"align,omitempty"`

	// Shape style (Type == ElementShape)
	Shape        string  `json:"shape,omitempty"` // "rect" | "line" | "circle"
	Fill         string  `json:"fill,omitempty"`
	Stroke       string  `json:"stroke,omitempty"`
	StrokeWidth  float64 `json:"stroke_width,omitempty"`
	CornerRadius float64 `json:"corner_radius,omitempty"`

	// Image style (Type == ElementImage)
	ImagePrompt string `json:"image_prompt,omitempty"`
	ImageURL    string `json:"image_url,omitempty"`
}

// IsDecorative reports whether the element is purely decorative.
func (e *Element) IsDecorative() bool {
	return e.Role == RoleDecorative
}

// EffectiveOpacity treats the zero value as fully opaque, matching how the
// oracle omits the field for solid elements.
func (e *Element) EffectiveOpacity() float64 {
	if e.Opacity == 0 {
		return 1
	}
	return e.Opacity
}

// Unit is one produced page of the deck: a background plus an ordered set
// of positioned elements. Units are created by generation, adjusted by the
// auto-fixer and the consistency pass, and immutable after the pipeline
// returns.
type Unit struct {
	ID          string    `json:"id"`
	ContentType string    `json:"content_type"`
	Background  string    `json:"background"` // hex color or gradient stop list
	Elements    []Element `json:"elements"`
}

// TextElements returns the non-decorative text elements of the unit.
func (u *Unit) TextElements() []*Element {
	var out []*Element
	for i := range u.Elements {
		e := &u.Elements[i]
		if e.Type == ElementText && !e.IsDecorative() {
			out = append(out, e)
		}
	}
	return out
}

// ElementsByRole returns the elements carrying the given role.
func (u *Unit) ElementsByRole(role ElementRole) []*Element {
	var out []*Element
	for i := range u.Elements {
		if u.Elements[i].Role == role {
			out = append(out, &u.Elements[i])
		}
	}
	return out
}

// Clone returns a deep copy of the unit. Fix passes operate on clones so
// that callers never observe partial mutation.
func (u *Unit) Clone() *Unit {
	cp := *u
	cp.Elements = make([]Element, len(u.Elements))
	copy(cp.Elements, u.Elements)
	return &cp
}
