package styles

import "github.com/charmbracelet/lipgloss"

// Palette shared by every view
var (
	CBg      = lipgloss.Color("#0D1117")
	CPanel   = lipgloss.Color("#161B22")
	CBorder  = lipgloss.Color("#8957E5")
	CMuted   = lipgloss.Color("#8AA0B6")
	CText    = lipgloss.Color("#D6E2F0")
	CAccent  = lipgloss.Color("#7EE787") // green-ish
	CAccent2 = lipgloss.Color("#79C0FF") // blue-ish
	CWarn    = lipgloss.Color("#FFA657") // orange
	CError   = lipgloss.Color("#F85149")
)

// Layout
var (
	AppStyle = lipgloss.NewStyle().
			Background(CBg).
			Foreground(CText)

	PanelStyle = lipgloss.NewStyle().
			Background(CPanel).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(CBorder).
			Padding(1, 2)

	NavStyle = lipgloss.NewStyle().
			Background(CPanel).
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(CBorder).
			Padding(0, 1)
)

// Text
var (
	TitleStyle = lipgloss.NewStyle().
			Foreground(CAccent2).
			Bold(true)

	LabelStyle = lipgloss.NewStyle().
			Foreground(CAccent2).
			Bold(true)

	ValueStyle = lipgloss.NewStyle().
			Foreground(CMuted)

	HotkeyKeyStyle = lipgloss.NewStyle().
			Foreground(CAccent).
			Bold(true)
)

// Controls
var (
	ButtonStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFF7DB")).
			Background(lipgloss.Color("#F25D94")).
			Padding(0, 3)

	DisabledButtonStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#FFF7DB")).
				Background(lipgloss.Color("#888B7E")).
				Padding(0, 3)

	BannerStyle = lipgloss.NewStyle().
			Foreground(CError).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(CError).
			Padding(0, 1)
)

// Key renders a key with accent styling
func Key(s string) string {
	return HotkeyKeyStyle.Render(s)
}
