// Package ui provides the CircleCut desktop viewer.
//
// This file defines a compact Fyne theme with a selectable light/dark variant.

package ui

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
)

// Theme names stored in AppConfig.Theme.
const (
	ThemeSystem = "system"
	ThemeLight  = "light"
	ThemeDark   = "dark"
)

// CircleCutTheme wraps the default Fyne theme with compact sizing and a
// fixed variant chosen by the user.
type CircleCutTheme struct {
	base    fyne.Theme
	variant fyne.ThemeVariant
}

// NewCircleCutTheme creates a theme that renders in the given variant.
func NewCircleCutTheme(variant fyne.ThemeVariant) *CircleCutTheme {
	return &CircleCutTheme{
		base:    theme.DefaultTheme(),
		variant: variant,
	}
}

// SetVariant updates the theme variant.
func (t *CircleCutTheme) SetVariant(variant fyne.ThemeVariant) {
	t.variant = variant
}

// ThemeVariantFor resolves a configured theme name. Unknown names and
// "system" fall back to the platform variant.
func ThemeVariantFor(name string, system fyne.ThemeVariant) fyne.ThemeVariant {
	switch name {
	case ThemeLight:
		return theme.VariantLight
	case ThemeDark:
		return theme.VariantDark
	default:
		return system
	}
}

// Color delegates to the base theme with the stored variant.
func (t *CircleCutTheme) Color(name fyne.ThemeColorName, _ fyne.ThemeVariant) color.Color {
	return t.base.Color(name, t.variant)
}

func (t *CircleCutTheme) Font(style fyne.TextStyle) fyne.Resource {
	return t.base.Font(style)
}

func (t *CircleCutTheme) Icon(name fyne.ThemeIconName) fyne.Resource {
	return t.base.Icon(name)
}

// Size returns compact sizing overrides.
func (t *CircleCutTheme) Size(name fyne.ThemeSizeName) float32 {
	switch name {
	case theme.SizeNameText:
		return 12
	case theme.SizeNameCaptionText:
		return 9
	case theme.SizeNameHeadingText:
		return 20
	case theme.SizeNameSubHeadingText:
		return 15
	case theme.SizeNamePadding:
		return 3
	case theme.SizeNameInnerPadding:
		return 6
	default:
		return t.base.Size(name)
	}
}
