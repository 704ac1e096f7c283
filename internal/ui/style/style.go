// Package style provides shared UI styling primitives including brand colors
// and icons for consistent presentation across the CLI and log output.
package style

import "github.com/charmbracelet/lipgloss"

// Brand Colors.
var (
	Amber = lipgloss.Color("#F59E0B")
	Slate = lipgloss.Color("#667085")
	Ink   = lipgloss.Color("#0B0F19")
	Green = lipgloss.Color("#22A06B")
	Red   = lipgloss.Color("#D93025")
	// Yellow is kept as an alias of Amber for warnings.
	Yellow = Amber
)

// Icons.
const (
	Check   = "✓"
	Cross   = "✗"
	Warning = "!"
	Dot     = "●"
	Circle  = "○"
	Arrow   = "→"
)

// Text styles.
var (
	Heading = lipgloss.NewStyle().Bold(true).Foreground(Amber)
	Muted   = lipgloss.NewStyle().Foreground(Slate)
	Good    = lipgloss.NewStyle().Foreground(Green)
	Bad     = lipgloss.NewStyle().Foreground(Red)
)

// Connectivity renders the online/offline badge used by the CLI.
func Connectivity(online bool) string {
	if online {
		return Good.Render(Dot + " online")
	}
	return Bad.Render(Circle + " offline")
}
