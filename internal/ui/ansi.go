package ui

import (
	"fmt"
	"io"
	"os"
)

var (
	reset = "\033[0m"
	bold  = "\033[1m"
	dim   = "\033[2m"

	fgGray   = "\033[90m"
	fgGreen  = "\033[32m"
	fgYellow = "\033[33m"
	fgBlue   = "\033[34m"
	fgRed    = "\033[31m"

	symCheck = "✔"
	symCross = "✖"
)

// Printer writes themed, non-interactive output for the command line.
type Printer struct {
	Out   io.Writer
	Err   io.Writer
	Theme Theme

	color bool
}

// NewPrinter picks colors when out is a terminal (or force is set) and the
// theme allows them.
func NewPrinter(out, errw io.Writer, theme string, force bool) *Printer {
	t := ThemeByName(theme)
	return &Printer{
		Out:   out,
		Err:   errw,
		Theme: t,
		color: !t.NoColor && (force || isTTY(out)),
	}
}

func isTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	fi, err := f.Stat()
	if err != nil {
		return false
	}
	return (fi.Mode() & os.ModeCharDevice) != 0
}

// C wraps s in color when coloring is on.
func (p *Printer) C(color, s string) string {
	if !p.color || color == "" {
		return s
	}
	return color + s + reset
}

func (p *Printer) OK(msg string)   { fmt.Fprintln(p.Out, p.C(p.Theme.Success, symCheck+" "+msg)) }
func (p *Printer) Fail(msg string) { fmt.Fprintln(p.Err, p.C(p.Theme.Error, symCross+" "+msg)) }
func (p *Printer) Hint(msg string) { fmt.Fprintln(p.Err, p.C(p.Theme.Muted, msg)) }

func (p *Printer) Println(a ...any)               { fmt.Fprintln(p.Out, a...) }
func (p *Printer) Printf(format string, a ...any) { fmt.Fprintf(p.Out, format, a...) }
