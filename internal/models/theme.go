package models

// Palette is the colour set the UI renders with.
type Palette struct {
	Background string `json:"background"`
	Card       string `json:"card"`
	Text       string `json:"text"`
	Subtext    string `json:"subtext"`
	Primary    string `json:"primary"`
	Accent     string `json:"accent"`
	Danger     string `json:"danger"`
	Border     string `json:"border"`
	InputBg    string `json:"inputBg"`
}

var (
	LightPalette = Palette{
		Background: "#FFF9E6",
		Card:       "#FFFFFF",
		Text:       "#333333",
		Subtext:    "#888888",
		Primary:    "#FFC72C",
		Accent:     "#FF8B2B",
		Danger:     "#FF6B6B",
		Border:     "#E0E0E0",
		InputBg:    "#F5F5F5",
	}
	DarkPalette = Palette{
		Background: "#0F172A",
		Card:       "#1E293B",
		Text:       "#F8FAFC",
		Subtext:    "#94A3B8",
		Primary:    "#2B44FF",
		Accent:     "#9C2BFF",
		Danger:     "#FF6B6B",
		Border:     "#334155",
		InputBg:    "#1E293B",
	}
)

// PaletteFor picks the palette for the dark-mode flag.
func PaletteFor(dark bool) Palette {
	if dark {
		return DarkPalette
	}
	return LightPalette
}
