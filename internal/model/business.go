package model

import "slices"

// ColorSwatch is one palette entry: a hex value and a note on where to use it.
type ColorSwatch struct {
	Hex   string `json:"hex"`
	Usage string `json:"usage"`
}

// Palette is a business's brand color set.
type Palette struct {
	Primary    ColorSwatch `json:"primary"`
	Secondary  ColorSwatch `json:"secondary"`
	Accent     ColorSwatch `json:"accent"`
	Background ColorSwatch `json:"background"`
}

// Business is a company or brand that concepts may belong to.
type Business struct {
	ID           string  `json:"id"`
	UserID       string  `json:"userId"`
	BusinessName string  `json:"businessName"`
	Description  string  `json:"description"`
	Palette      Palette `json:"palette"`

	BrandVoice     string   `json:"brandVoice"`
	ToneKeywords   []string `json:"toneKeywords"`
	TargetAudience string   `json:"targetAudience"`
	Mission        string   `json:"mission"`

	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`

	// Name and Color are display aliases filled in by the normalizer.
	Name  string `json:"name"`
	Color string `json:"color,omitempty"`
}

// Clone returns a copy of b that shares no slices with it.
func (b Business) Clone() Business {
	b.ToneKeywords = slices.Clone(b.ToneKeywords)
	return b
}
