package cli

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/idilsaglam/todolists/internal/logging"
	"github.com/idilsaglam/todolists/internal/model"
	"github.com/idilsaglam/todolists/internal/session"
	"github.com/idilsaglam/todolists/internal/tui"
)

func newUICmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "ui",
		Short: "Open the interactive client",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			// the alternate screen owns the terminal, so logs go to a file
			path := a.cfg.Log.File
			if path == "" {
				path = filepath.Join(a.cfg.DataDir, "todo.log")
			}
			log, closer, err := logging.NewFile(a.cfg.Log.Level, path)
			if err != nil {
				return err
			}
			a.closers = append(a.closers, closer)
			a.log = log
			a.client.Logger = log

			opts := tui.Options{
				Theme:      a.cfg.Theme,
				FlashDelay: a.cfg.FlashDelay,
				Logger:     log,
				OnLogin: func(u *model.User) error {
					return a.saveSession(u, "")
				},
				OnLogout: func() error {
					a.sess = nil
					return session.Delete(a.cfg.SessionFile())
				},
			}
			if a.tokenOverride() {
				opts.LogoutBlocked = tokenOverrideMsg
			}
			return tui.Run(cmd.Context(), a.client, opts)
		},
	}
}
