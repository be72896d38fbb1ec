package viz

import "github.com/charmbracelet/lipgloss"

// Theme colours the live view: Primary for the body, Secondary for headings,
// Accent for charts.
type Theme struct {
	Name      string
	Primary   lipgloss.Color
	Secondary lipgloss.Color
	Accent    lipgloss.Color
	Muted     lipgloss.Color
}

var (
	ThemeJelly = Theme{
		Name:      "jelly",
		Primary:   lipgloss.Color("#ff5fd7"),
		Secondary: lipgloss.Color("#00ffff"),
		Accent:    lipgloss.Color("#ffff00"),
		Muted:     lipgloss.Color("#666666"),
	}

	ThemeRetroGreen = Theme{
		Name:      "retro",
		Primary:   lipgloss.Color("#00ff00"),
		Secondary: lipgloss.Color("#00cc00"),
		Accent:    lipgloss.Color("#88ff88"),
		Muted:     lipgloss.Color("#005500"),
	}

	ThemeChalk = Theme{
		Name:      "chalk",
		Primary:   lipgloss.Color("#ffffff"),
		Secondary: lipgloss.Color("#cccccc"),
		Accent:    lipgloss.Color("#0088ff"),
		Muted:     lipgloss.Color("#888888"),
	}

	ThemeBlueprint = Theme{
		Name:      "blueprint",
		Primary:   lipgloss.Color("#e0f0ff"),
		Secondary: lipgloss.Color("#00a8cc"),
		Accent:    lipgloss.Color("#ffd700"),
		Muted:     lipgloss.Color("#4488aa"),
	}

	ThemeSunset = Theme{
		Name:      "sunset",
		Primary:   lipgloss.Color("#ff6b6b"),
		Secondary: lipgloss.Color("#feca57"),
		Accent:    lipgloss.Color("#ff9ff3"),
		Muted:     lipgloss.Color("#8b6b8c"),
	}

	CurrentTheme = ThemeJelly

	Themes = []Theme{
		ThemeJelly,
		ThemeRetroGreen,
		ThemeChalk,
		ThemeBlueprint,
		ThemeSunset,
	}
)

// GetTheme returns the named theme, or the default one.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return ThemeJelly
}

func SetTheme(name string) {
	CurrentTheme = GetTheme(name)
}

// NextTheme switches to the theme after the current one.
func NextTheme() {
	for i, t := range Themes {
		if t.Name == CurrentTheme.Name {
			CurrentTheme = Themes[(i+1)%len(Themes)]
			return
		}
	}
	CurrentTheme = ThemeJelly
}

func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}
