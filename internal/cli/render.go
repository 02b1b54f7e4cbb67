package cli

import (
	"fmt"

	"github.com/idilsaglam/todolists/internal/model"
	"github.com/idilsaglam/todolists/internal/ui"
)

func truncate(s string, n int) string {
	if r := []rune(s); len(r) > n {
		return string(r[:n-3]) + "..."
	}
	return s
}

// listPanel renders one list with its header, progress and items.
func listPanel(p *ui.Printer, l *model.List, group bool) []string {
	t := p.Theme
	d, pn := l.Stats()
	title := l.Name
	if l.Completed {
		title += " " + p.C(t.Success, t.SymDone)
	}
	header := fmt.Sprintf("%s  %s %d  %s %d  %s %d",
		p.C(t.Title, title),
		p.C(t.Success, t.SymDone), d,
		p.C(t.Pending, t.SymPending), pn,
		p.C(t.Accent, "Total"), len(l.Items),
	)

	lines := []string{
		header,
		p.C(t.Muted, ui.ProgressBar(d, d+pn, 28)),
		"",
	}
	if group {
		lines = append(lines, groupLines(p, l.Items)...)
	} else {
		lines = append(lines, flatLines(p, l.Items)...)
	}
	lines = append(lines, "", p.C(t.Muted, fmt.Sprintf("Tip: add with `todo item add %d \"Buy milk\"`", l.ID)))
	return lines
}

func flatLines(p *ui.Printer, items []*model.Item) []string {
	t := p.Theme
	if len(items) == 0 {
		return []string{p.C(t.Muted, "no items")}
	}
	out := make([]string, 0, len(items))
	for _, it := range items {
		box, color := t.BoxUnchecked, t.Muted
		if it.Completed {
			box, color = t.BoxChecked, t.Success
		}
		out = append(out, fmt.Sprintf("%s %s %s",
			p.C(t.Dim(), fmt.Sprintf("%4d.", it.ID)), p.C(color, box), truncate(it.Name, 80)))
	}
	return out
}

func groupLines(p *ui.Printer, items []*model.Item) []string {
	t := p.Theme
	var pend, done []*model.Item
	for _, it := range items {
		if it.Completed {
			done = append(done, it)
		} else {
			pend = append(pend, it)
		}
	}
	section := func(name string, items []*model.Item) []string {
		lines := []string{p.C(t.Accent, name)}
		if len(items) == 0 {
			return append(lines, p.C(t.Muted, "(none)"))
		}
		return append(lines, flatLines(p, items)...)
	}
	lines := section("Pending", pend)
	lines = append(lines, "")
	return append(lines, section("Done", done)...)
}

// listsPanel renders the overview of every list.
func listsPanel(p *ui.Printer, lists []*model.List) []string {
	t := p.Theme
	lines := []string{
		fmt.Sprintf("%s  %s %d", p.C(t.Title, "Lists"), p.C(t.Accent, "Total"), len(lists)),
		"",
	}
	if len(lists) == 0 {
		lines = append(lines, p.C(t.Muted, "no lists"))
	}
	for _, l := range lists {
		d, pn := l.Stats()
		name := truncate(l.Name, 40)
		if l.Completed || l.AllCompleted() {
			name = p.C(t.Success, name)
		}
		lines = append(lines, fmt.Sprintf("%s %-40s %s",
			p.C(t.Dim(), fmt.Sprintf("%4d.", l.ID)),
			name,
			p.C(t.Muted, ui.ProgressBar(d, d+pn, 12)),
		))
	}
	lines = append(lines, "", p.C(t.Muted, "Tip: show one with `todo list show <id>`"))
	return lines
}
