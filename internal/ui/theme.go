package ui

import "strings"

// Theme bundles palette + symbols + box borders.
type Theme struct {
	Title, Muted, Accent, Success, Error, Pending string
	BoxUnchecked, BoxChecked                      string
	CornerTL, CornerTR, CornerBL, CornerBR        string
	H, V                                          string
	SymDone, SymPending                           string
	NoColor                                       bool
}

// ThemeByName returns one of classic, neon or mono. Unknown names get classic.
func ThemeByName(name string) Theme {
	switch strings.ToLower(name) {
	case "neon":
		return Theme{
			Title: "\033[95m", // bright magenta
			Muted: fgGray, Accent: "\033[96m",
			Success: fgGreen, Error: fgRed, Pending: "\033[93m",
			BoxUnchecked: "◻", BoxChecked: "◼",
			CornerTL: "╭", CornerTR: "╮", CornerBL: "╰", CornerBR: "╯",
			H: "─", V: "│",
			SymDone: "✔", SymPending: "•",
		}
	case "mono":
		return Theme{
			BoxUnchecked: "[ ]", BoxChecked: "[x]",
			CornerTL: "+", CornerTR: "+", CornerBL: "+", CornerBR: "+",
			H: "-", V: "|",
			SymDone: "x", SymPending: "-",
			NoColor: true,
		}
	default: // classic
		return Theme{
			Title: bold, Muted: fgGray, Accent: fgBlue,
			Success: fgGreen, Error: fgRed, Pending: fgYellow,
			BoxUnchecked: "☐", BoxChecked: "☑",
			CornerTL: "┌", CornerTR: "┐", CornerBL: "└", CornerBR: "┘",
			H: "─", V: "│",
			SymDone: "✔", SymPending: "•",
		}
	}
}

// Dim is the faint style used for indexes and ids.
func (t Theme) Dim() string {
	if t.NoColor {
		return ""
	}
	return dim
}
