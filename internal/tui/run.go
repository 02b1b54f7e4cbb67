package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/pkg/errors"
)

// Run starts the full-screen UI and blocks until the user quits or ctx ends.
func Run(ctx context.Context, b Backend, opts Options) error {
	p := tea.NewProgram(New(ctx, b, opts), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return errors.Wrap(err, "run ui")
	}
	return nil
}
