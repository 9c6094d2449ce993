package normalize

import "github.com/nhle/content-hub/internal/model"

// Business builds a typed business record from a raw document.
func (n Normalizer) Business(id string, raw model.Document) model.Business {
	palette := asMap(raw["palette"])

	b := model.Business{
		ID:           id,
		UserID:       asString(raw[model.FieldUserID]),
		BusinessName: asString(raw["businessName"]),
		Description:  asString(raw[model.FieldDescription]),
		Palette: model.Palette{
			Primary:    swatch(palette["primary"]),
			Secondary:  swatch(palette["secondary"]),
			Accent:     swatch(palette["accent"]),
			Background: swatch(palette["background"]),
		},
		BrandVoice:     asString(raw["brandVoice"]),
		ToneKeywords:   asStrings(raw["toneKeywords"]),
		TargetAudience: asString(raw["targetAudience"]),
		Mission:        asString(raw["mission"]),
		CreatedAt:      timestamp(raw[model.FieldCreatedAt], n.now),
		UpdatedAt:      timestamp(raw[model.FieldUpdatedAt], n.now),
	}

	b.Name = b.BusinessName
	b.Color = b.Palette.Primary.Hex
	return b
}

// Business normalizes with the wall clock.
func Business(id string, raw model.Document) model.Business {
	return Normalizer{}.Business(id, raw)
}

func swatch(v any) model.ColorSwatch {
	m := asMap(v)
	return model.ColorSwatch{
		Hex:   asString(m["hex"]),
		Usage: asString(m["usage"]),
	}
}
