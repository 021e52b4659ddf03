package theme

// Centralized theming and styling initialization for the annotator UI.
// Provides palette constants and InitStyles to activate a base theme and
// configure the semantic label styles used by the legend and status bar.

import (
	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders.
	. "modernc.org/tk9.0"
)

// Palette defines core semantic colors used across widgets.
const (
	ColorBg        = "#f7f9fb" // app background
	ColorSurface   = "#ffffff" // panels
	ColorPrimary   = "#2563eb" // active label
	ColorAccent    = "#10b981" // legend headers
	ColorText      = "#1e293b"
	ColorTextMuted = "#64748b"
)

// PaletteSnapshot represents resolved colors for the active mode.
type PaletteSnapshot struct {
	AppBg     string
	Surface   string
	Primary   string
	Accent    string
	Text      string
	TextMuted string
}

// CurrentPalette returns colors for the current dark/light mode.
func CurrentPalette() PaletteSnapshot {
	if darkMode {
		return PaletteSnapshot{
			AppBg:     "#0f172a",
			Surface:   "#1e293b",
			Primary:   "#3b82f6",
			Accent:    "#10b981",
			Text:      "#f1f5f9",
			TextMuted: "#94a3b8",
		}
	}
	return PaletteSnapshot{
		AppBg:     ColorBg,
		Surface:   ColorSurface,
		Primary:   ColorPrimary,
		Accent:    ColorAccent,
		Text:      ColorText,
		TextMuted: ColorTextMuted,
	}
}

// style names used with Style("active.TLabel") etc.
const (
	StyleHeaderLabel = "header.TLabel"
	StyleLegendLabel = "legend.TLabel"
	StyleActiveLabel = "active.TLabel"
	StyleKeyLabel    = "key.TLabel"
	StyleStatusLabel = "status.TLabel"
)

// internal flag for current mode
var darkMode bool

// InitStyles (re)applies styles for the current darkMode value.
func InitStyles() { applyStyles(CurrentPalette()) }

// SetDark toggles dark mode and reapplies styles. Returns new mode value.
func SetDark(dark bool) bool {
	darkMode = dark
	InitStyles()
	return darkMode
}

// IsDark reports current mode.
func IsDark() bool { return darkMode }

func applyStyles(p PaletteSnapshot) {
	_ = ActivateTheme("azure light") // baseline metrics
	App.Configure(Background(p.AppBg))

	StyleConfigure(StyleHeaderLabel,
		Foreground("white"),
		Background(p.Accent),
		Padding("4p 2p"),
	)
	StyleConfigure(StyleLegendLabel,
		Foreground(p.Text),
		Background(p.Surface),
		Padding("2p 1p"),
	)
	StyleConfigure(StyleActiveLabel,
		Foreground("white"),
		Background(p.Primary),
		Padding("2p 1p"),
		Borderwidth(1),
		Relief("ridge"),
	)
	StyleConfigure(StyleKeyLabel,
		Foreground(p.Primary),
		Background(p.Surface),
		Padding("2p 0p"),
	)
	StyleConfigure(StyleStatusLabel,
		Foreground(p.TextMuted),
		Background(p.AppBg),
		Padding("4p 2p"),
	)
}
