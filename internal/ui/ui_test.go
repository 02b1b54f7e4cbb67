package ui

import (
	"bytes"
	"strings"
	"testing"
)

func TestProgressBar(t *testing.T) {
	tt := []struct {
		Done, Total, Width int
		Want               string
	}{
		{0, 0, 10, "░░░░░░░░░░   0%"},
		{1, 2, 10, "█████░░░░░  50%"},
		{3, 3, 4, "█████ 100%"},
		{5, 4, 5, "█████ 125%"},
	}
	for _, tc := range tt {
		if got := ProgressBar(tc.Done, tc.Total, tc.Width); got != tc.Want {
			t.Errorf("ProgressBar(%d, %d, %d) = %q, want %q", tc.Done, tc.Total, tc.Width, got, tc.Want)
		}
	}
}

func TestPanelAlignsColoredLines(t *testing.T) {
	var out bytes.Buffer
	p := NewPrinter(&out, &out, "mono", false)
	p.Panel([]string{"ab", fgGreen + "abcd" + reset})

	lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("want 4 lines got %q", lines)
	}
	if lines[0] != "+------+" {
		t.Errorf("unexpected top border %q", lines[0])
	}
	if lines[1] != "| ab   |" {
		t.Errorf("want padded line got %q", lines[1])
	}
	if w := visibleWidth(lines[2]); w != len(lines[0]) {
		t.Errorf("colored line width %d, want %d", w, len(lines[0]))
	}
}

func TestPrinterColor(t *testing.T) {
	var out, errw bytes.Buffer
	NewPrinter(&out, &errw, "classic", false).OK("saved")
	if strings.Contains(out.String(), "\033[") {
		t.Errorf("non-tty output must not be colored: %q", out.String())
	}

	out.Reset()
	forced := NewPrinter(&out, &errw, "classic", true)
	forced.OK("saved")
	if !strings.HasPrefix(out.String(), fgGreen) {
		t.Errorf("want forced color got %q", out.String())
	}

	mono := NewPrinter(&out, &errw, "mono", true)
	mono.Fail("nope")
	if got := errw.String(); got != "✖ nope\n" {
		t.Errorf("mono theme must not color, got %q", got)
	}
}
