package domain

import "strings"

// Theme is a closed taxonomy value controlling the document accent color.
type Theme string

const (
	ThemeFinance Theme = "finance"
	ThemeHealth  Theme = "health"
	ThemeTech    Theme = "tech"
	ThemeTravel  Theme = "travel"
	ThemeFood    Theme = "food"
	ThemeDefault Theme = "default"
)

var themeColors = map[Theme]string{
	ThemeFinance: "#28a745",
	ThemeHealth:  "#e83e8c",
	ThemeTech:    "#007bff",
	ThemeTravel:  "#17a2b8",
	ThemeFood:    "#fd7e14",
	ThemeDefault: "#6c757d",
}

// Themes lists the taxonomy in a stable order.
func Themes() []Theme {
	return []Theme{ThemeFinance, ThemeHealth, ThemeTech, ThemeTravel, ThemeFood, ThemeDefault}
}

// ParseTheme accepts only an exact taxonomy word after lowercasing and trimming.
func ParseTheme(value string) (Theme, bool) {
	t := Theme(strings.ToLower(strings.TrimSpace(value)))
	if _, ok := themeColors[t]; !ok {
		return ThemeDefault, false
	}
	return t, true
}

// Color returns the hex accent color; unknown themes use the default color.
func (t Theme) Color() string {
	if c, ok := themeColors[t]; ok {
		return c
	}
	return themeColors[ThemeDefault]
}
