package render

import (
	"sort"

	"github.com/charmbracelet/lipgloss"
)

// TUITheme is the color scheme for the chat interface
type TUITheme struct {
	Name        string
	Description string

	Border lipgloss.Color

	// One accent per message role
	User   lipgloss.Color
	AI     lipgloss.Color
	System lipgloss.Color

	Accent lipgloss.Color
	Error  lipgloss.Color

	Text     lipgloss.Color
	TextDim  lipgloss.Color
	TextMute lipgloss.Color
}

var tuiThemes = map[string]TUITheme{
	"tokyonight": {
		Name:        "tokyonight",
		Description: "Tokyo Night - dark with blue accents",
		Border:      "#414868",
		User:        "#9ece6a",
		AI:          "#7aa2f7",
		System:      "#e0af68",
		Accent:      "#bb9af7",
		Error:       "#f7768e",
		Text:        "#c0caf5",
		TextDim:     "#565f89",
		TextMute:    "#3b4261",
	},
	"nord": {
		Name:        "nord",
		Description: "Nord - arctic, cool tones",
		Border:      "#4c566a",
		User:        "#a3be8c",
		AI:          "#88c0d0",
		System:      "#ebcb8b",
		Accent:      "#b48ead",
		Error:       "#bf616a",
		Text:        "#eceff4",
		TextDim:     "#7b88a1",
		TextMute:    "#4c566a",
	},
	"paper": {
		Name:        "paper",
		Description: "Paper - light background",
		Border:      "#c8c8c8",
		User:        "#2e7d32",
		AI:          "#1565c0",
		System:      "#ef6c00",
		Accent:      "#6a1b9a",
		Error:       "#c62828",
		Text:        "#212121",
		TextDim:     "#616161",
		TextMute:    "#9e9e9e",
	},
}

// DefaultTUITheme is used when no theme or an unknown theme is configured
const DefaultTUITheme = "tokyonight"

var currentTUITheme = tuiThemes[DefaultTUITheme]

// GetTUITheme returns the active theme
func GetTUITheme() TUITheme {
	return currentTUITheme
}

// SetTUITheme activates a theme by name; unknown names leave the theme unchanged.
func SetTUITheme(name string) bool {
	theme, ok := tuiThemes[name]
	if ok {
		currentTUITheme = theme
	}
	return ok
}

// TUIThemeNames returns the available theme names, sorted
func TUIThemeNames() []string {
	names := make([]string, 0, len(tuiThemes))
	for name := range tuiThemes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
