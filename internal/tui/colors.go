package tui

// Color constants for the rangelog TUI theme
const (
	// Base Colors
	ColorBorder = "#4A4E3A" // Olive grey

	// Text Colors
	ColorPrimaryText   = "#ECE8DC" // Primary text (labels, values, titles)
	ColorSecondaryText = "#B8B29E" // Secondary text, warm grey
	ColorDisabledText  = "#6F6B5E" // Disabled/muted text
	ColorPlaceholder   = "#B8B29E" // Same as secondary
	ColorHelpText      = "240"     // Dark grey for help text

	// Accent Colors (brass theme)
	ColorAccentMain   = "#C8962E" // Logo, accent elements, active borders
	ColorAccentBright = "#F2C14E" // Clock, highlights

	// State Colors
	ColorError   = "#EF4444" // Errors, malfunctions
	ColorSuccess = "#22C55E" // Running, confirmations
	ColorWarning = "#F59E0B" // Paused
)
