package highlight

import (
	"regexp"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/charmbracelet/lipgloss"
	"github.com/julien-sobczak/the-notewriter-live/internal/config"
	"github.com/julien-sobczak/the-notewriter-live/internal/logger"
)

// Palette entries (also the keys accepted in .nt/theme)
const (
	ColorText           = "text"
	ColorSyntax         = "syntax"
	ColorHeading        = "heading"
	ColorLink           = "link"
	ColorReference      = "reference"
	ColorCode           = "code"
	ColorCodeBackground = "codeBackground"
	ColorQuote          = "quote"
	ColorList           = "list"
	ColorHTML           = "html"
	ColorEmoji          = "emoji"
	ColorSearch         = "search"
	ColorCompleted      = "completed"
)

var defaultPalette = map[string]lipgloss.AdaptiveColor{
	ColorText:           {Light: "#1F2328", Dark: "#E6EDF3"},
	ColorSyntax:         {Light: "#8C959F", Dark: "#6E7681"},
	ColorHeading:        {Light: "#0550AE", Dark: "#79C0FF"},
	ColorLink:           {Light: "#0969DA", Dark: "#58A6FF"},
	ColorReference:      {Light: "#8250DF", Dark: "#D2A8FF"},
	ColorCode:           {Light: "#CF222E", Dark: "#FF7B72"},
	ColorCodeBackground: {Light: "#F6F8FA", Dark: "#161B22"},
	ColorQuote:          {Light: "#57606A", Dark: "#8B949E"},
	ColorList:           {Light: "#953800", Dark: "#FFA657"},
	ColorHTML:           {Light: "#116329", Dark: "#7EE787"},
	ColorEmoji:          {Light: "#9A6700", Dark: "#E3B341"},
	ColorSearch:         {Light: "#FFF8C5", Dark: "#5A4A00"},
	ColorCompleted:      {Light: "#8C959F", Dark: "#6E7681"},
}

var regexHexColor = regexp.MustCompile(`^#(?:[0-9a-fA-F]{6}|[0-9a-fA-F]{8})$`)

// Theme resolves palette entries and code token colors for one appearance.
type Theme struct {
	Dark   bool
	colors map[string]lipgloss.Color
	code   *chroma.Style
}

// NewTheme selects the light or dark palette and applies the overrides of .nt/theme.
func NewTheme(cfg *config.Config) *Theme {
	dark := cfg.Dark()
	t := &Theme{
		Dark:   dark,
		colors: make(map[string]lipgloss.Color),
		code:   styles.Get("github"),
	}
	overrides := cfg.ThemeFile.Light
	if dark {
		t.code = styles.Get("monokai")
		overrides = cfg.ThemeFile.Dark
	}

	for name, color := range defaultPalette {
		if dark {
			t.colors[name] = lipgloss.Color(color.Dark)
		} else {
			t.colors[name] = lipgloss.Color(color.Light)
		}
	}
	for name, value := range overrides {
		if _, ok := defaultPalette[name]; !ok {
			logger.Warnf("Ignoring unknown theme color %q", name)
			continue
		}
		if !regexHexColor.MatchString(value) {
			logger.Warnf("Ignoring invalid theme color %s=%q", name, value)
			continue
		}
		t.colors[name] = lipgloss.Color(value)
	}
	return t
}

// Color returns a palette entry.
func (t *Theme) Color(name string) lipgloss.Color {
	return t.colors[name]
}

// Token returns the style of a code token.
func (t *Theme) Token(tokenType chroma.TokenType) (color lipgloss.Color, bold bool, italic bool) {
	entry := t.code.Get(tokenType)
	if entry.Colour.IsSet() {
		color = lipgloss.Color(entry.Colour.String())
	}
	return color, entry.Bold == chroma.Yes, entry.Italic == chroma.Yes
}
