// Package cli is the non-interactive command line of the todo client.
package cli

import (
	"context"
	"io"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/time/rate"

	"github.com/idilsaglam/todolists/internal/api"
	"github.com/idilsaglam/todolists/internal/config"
	"github.com/idilsaglam/todolists/internal/logging"
	"github.com/idilsaglam/todolists/internal/session"
	"github.com/idilsaglam/todolists/internal/ui"
)

// Version is stamped at build time with -ldflags "-X .../internal/cli.Version=...".
var Version = "dev"

// usageError marks a mistake on the command line (exit code 2).
type usageError struct{ error }

func usagef(format string, args ...interface{}) error {
	return usageError{errors.Errorf(format, args...)}
}

// app is what every command shares once the root has loaded config.
type app struct {
	v       *viper.Viper
	cfgFile string
	group   bool

	stdin          io.Reader
	stdout, stderr io.Writer

	cfg    *config.Config
	log    *logrus.Logger
	out    *ui.Printer
	sess   *session.Session
	jar    *session.Jar
	client *api.Client

	closers []io.Closer
}

// Run executes the command line in args (without the program name) and
// returns an exit code: 0 ok, 1 error, 2 usage.
func Run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	a := &app{
		v:      config.New(),
		stdin:  stdin,
		stdout: stdout,
		stderr: stderr,
		out:    ui.NewPrinter(stdout, stderr, "classic", false),
		log:    logging.Discard(),
	}
	defer a.close()

	root := newRootCmd(a)
	if args == nil {
		// cobra falls back to os.Args for a nil slice
		args = []string{}
	}
	root.SetArgs(args)
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.ExecuteContext(ctx)
	if err == nil {
		return 0
	}
	var ue usageError
	if errors.As(err, &ue) {
		a.out.Fail(ue.Error())
		a.out.Hint("Run `todo --help` for usage")
		return 2
	}
	a.log.WithError(err).Debug("command failed")
	a.out.Fail(api.Describe(err))
	return 1
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "todo",
		Short:         "todo - lists and items on a todo server",
		Version:       Version,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
		RunE: groupRunE,
	}

	pf := root.PersistentFlags()
	pf.String("server", "", "todo server base url (default http://localhost:8058)")
	pf.StringVar(&a.cfgFile, "config", "", "config file (default $HOME/.todo/config.yaml)")
	pf.String("theme", "", "output theme: classic, neon or mono")
	pf.String("log-level", "", "log level (debug, info, warn, error)")
	pf.BoolVar(&a.group, "group", false, "group items by pending/done")
	for key, flag := range map[string]string{"server": "server", "theme": "theme", "log.level": "log-level"} {
		if err := a.v.BindPFlag(key, pf.Lookup(flag)); err != nil {
			panic(err)
		}
	}
	root.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return usageError{err}
	})

	root.AddCommand(
		newAuthCmd(a),
		newListsCmd(a),
		newListCmd(a),
		newItemCmd(a),
		newUICmd(a),
		newVersionCmd(a),
	)
	return root
}

// groupRunE handles a command that only groups subcommands.
func groupRunE(cmd *cobra.Command, args []string) error {
	if len(args) > 0 {
		return usagef("unknown command %q for %q", args[0], cmd.CommandPath())
	}
	cmd.Help()
	return usagef("%s needs a subcommand", cmd.CommandPath())
}

func exactArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := cobra.ExactArgs(n)(cmd, args); err != nil {
			return usageError{errors.Errorf("usage: %s", cmd.UseLine())}
		}
		return nil
	}
}

func minArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := cobra.MinimumNArgs(n)(cmd, args); err != nil {
			return usageError{errors.Errorf("usage: %s", cmd.UseLine())}
		}
		return nil
	}
}

// setup loads configuration and builds the logger, printer, session and client.
func (a *app) setup() error {
	if err := config.LoadDotEnv(".env"); err != nil {
		return err
	}
	cfg, err := config.Load(a.v, a.cfgFile)
	if err != nil {
		return usageError{err}
	}
	a.cfg = cfg
	a.out = ui.NewPrinter(a.stdout, a.stderr, cfg.Theme, false)

	if cfg.Log.File != "" {
		l, c, err := logging.NewFile(cfg.Log.Level, cfg.Log.File)
		if err != nil {
			return err
		}
		a.log, a.closers = l, append(a.closers, c)
	} else if a.log, err = logging.New(cfg.Log.Level, a.stderr); err != nil {
		return usageError{err}
	}

	if a.sess, err = session.Load(cfg.SessionFile(), cfg.Server, cfg.Token); err != nil {
		return err
	}
	if a.jar, err = session.NewJar(cfg.Server, a.sess); err != nil {
		return err
	}
	c := api.NewClient(cfg.Server, a.jar)
	c.Timeout = cfg.Timeout
	c.Limiter = rate.NewLimiter(rate.Limit(cfg.Rate.PerSecond), cfg.Rate.Burst)
	c.Logger = a.log
	if a.sess != nil {
		c.Token = a.sess.Token
	}
	a.client = c

	a.log.WithFields(logrus.Fields{
		"server":        cfg.Server,
		"authenticated": a.sess.Authenticated(),
	}).Debug("client ready")
	return nil
}

func (a *app) close() {
	for _, c := range a.closers {
		c.Close()
	}
}

// requireSession fails early for commands that need a logged-in user.
func (a *app) requireSession() error {
	if !a.sess.Authenticated() {
		return usagef("not logged in. Run: todo auth login <name>")
	}
	return nil
}
