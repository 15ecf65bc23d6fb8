package output

import "github.com/charmbracelet/lipgloss"

// Palette colors.
var (
	colorRed    = lipgloss.AdaptiveColor{Light: "#C62828", Dark: "#EF5350"}
	colorYellow = lipgloss.AdaptiveColor{Light: "#B26A00", Dark: "#FFCA28"}
	colorBlue   = lipgloss.AdaptiveColor{Light: "#1565C0", Dark: "#42A5F5"}
	colorGreen  = lipgloss.AdaptiveColor{Light: "#2E7D32", Dark: "#66BB6A"}
	colorGray   = lipgloss.AdaptiveColor{Light: "#757575", Dark: "#9E9E9E"}
	colorAccent = lipgloss.AdaptiveColor{Light: "#6D4C41", Dark: "#BCAAA4"}
)

// Styles holds the lipgloss styles used by commands.
type Styles struct {
	Header1       lipgloss.Style
	Header2       lipgloss.Style
	Bold          lipgloss.Style
	Muted         lipgloss.Style
	Error         lipgloss.Style
	Warning       lipgloss.Style
	Info          lipgloss.Style
	Success       lipgloss.Style
	FilePath      lipgloss.Style
	StatusSuccess lipgloss.Style
	StatusFailed  lipgloss.Style
}

// NewStyles builds styles bound to a lipgloss renderer.
func NewStyles(r *lipgloss.Renderer) *Styles {
	return &Styles{
		Header1:       r.NewStyle().Bold(true).Underline(true).Foreground(colorAccent),
		Header2:       r.NewStyle().Bold(true).Foreground(colorAccent),
		Bold:          r.NewStyle().Bold(true),
		Muted:         r.NewStyle().Foreground(colorGray),
		Error:         r.NewStyle().Bold(true).Foreground(colorRed),
		Warning:       r.NewStyle().Foreground(colorYellow),
		Info:          r.NewStyle().Foreground(colorBlue),
		Success:       r.NewStyle().Foreground(colorGreen),
		FilePath:      r.NewStyle().Bold(true).Underline(true),
		StatusSuccess: r.NewStyle().Bold(true).Foreground(colorGreen),
		StatusFailed:  r.NewStyle().Bold(true).Foreground(colorRed),
	}
}
