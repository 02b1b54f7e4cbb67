package cli

import (
	"github.com/spf13/cobra"
)

func newVersionCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print client and server versions",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			a.out.Printf("client: %s\n", Version)
			b, err := a.client.Build(cmd.Context())
			if err != nil {
				a.log.WithError(err).Debug("build info")
				a.out.Hint("server: unreachable at " + a.cfg.Server)
				return nil
			}
			a.out.Printf("server: %s (commit %s, built %s)\n", b.Version, b.Commit, b.Date)
			return nil
		},
	}
}
