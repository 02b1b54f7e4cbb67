package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/x/term"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/idilsaglam/todolists/internal/model"
	"github.com/idilsaglam/todolists/internal/session"
)

func newAuthCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Log in, register and inspect the current session",
		Args:  cobra.ArbitraryArgs,
		RunE:  groupRunE,
	}

	var password, email string
	login := &cobra.Command{
		Use:   "login <name>",
		Short: "Log in and keep the session for later commands",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pw, err := a.password(password)
			if err != nil {
				return err
			}
			if err := a.fresh(); err != nil {
				return err
			}
			u, err := a.client.Login(cmd.Context(), args[0], pw)
			if err != nil {
				return err
			}
			if err := a.saveSession(u, ""); err != nil {
				return err
			}
			a.log.WithField("user", u.Name).Info("logged in")
			a.out.OK("logged in as " + u.Name)
			return nil
		},
	}
	login.Flags().StringVarP(&password, "password", "p", "", "password (read from stdin when empty)")

	register := &cobra.Command{
		Use:   "register <name>",
		Short: "Create an account",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pw, err := a.password(password)
			if err != nil {
				return err
			}
			if err := a.fresh(); err != nil {
				return err
			}
			u, err := a.client.Register(cmd.Context(), args[0], email, pw)
			if err != nil {
				return err
			}
			a.out.OK("registered " + u.Name)
			a.out.Hint("Run: todo auth login " + u.Name)
			return nil
		},
	}
	register.Flags().StringVarP(&password, "password", "p", "", "password (read from stdin when empty)")
	register.Flags().StringVarP(&email, "email", "e", "", "email address (optional)")

	logout := &cobra.Command{
		Use:   "logout",
		Short: "End the session on the server and forget it locally",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.tokenOverride() {
				a.out.OK(tokenOverrideMsg)
				return nil
			}
			if !a.sess.Authenticated() {
				a.out.OK("not logged in")
				return nil
			}
			if err := a.client.Logout(cmd.Context()); err != nil && !errors.Is(err, model.Unauthorized) {
				return err
			}
			if err := session.Delete(a.cfg.SessionFile()); err != nil {
				return err
			}
			a.out.OK("logged out")
			return nil
		},
	}

	status := &cobra.Command{
		Use:   "status",
		Short: "Show where the session comes from and whether it is still valid",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			a.out.Printf("server: %s\n", a.cfg.Server)
			if !a.sess.Authenticated() {
				a.out.Println(a.out.C(a.out.Theme.Muted, "not logged in"))
				a.out.Println("Run: todo auth login <name>")
				return nil
			}
			a.out.Printf("source: %s\n", a.sess.Source)
			if a.sess.User != "" {
				a.out.Printf("user: %s\n", a.sess.User)
			}
			a.out.Printf("since: %s\n", a.sess.CreatedAt.UTC().Format(time.RFC3339))
			if _, err := a.client.Me(cmd.Context()); errors.Is(err, model.Unauthorized) {
				a.out.Println(a.out.C(a.out.Theme.Error, "session: expired"))
			} else if err != nil {
				a.out.Println(a.out.C(a.out.Theme.Pending, "session: unknown ("+err.Error()+")"))
			} else {
				a.out.Println(a.out.C(a.out.Theme.Success, "session: valid"))
			}
			a.out.Println("env override: TODO_TOKEN")
			return nil
		},
	}

	whoami := &cobra.Command{
		Use:   "whoami",
		Short: "Print the logged in user",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireSession(); err != nil {
				return err
			}
			u, err := a.client.Me(cmd.Context())
			if err != nil {
				return err
			}
			a.out.Printf("%s (id %d)\n", u.Name, u.ID)
			if u.Email != nil {
				a.out.Printf("email: %s\n", *u.Email)
			}
			for _, ln := range tokenLines(a.client.Token) {
				a.out.Println(ln)
			}
			return nil
		},
	}

	var save bool
	key := &cobra.Command{
		Use:   "key",
		Short: "Print an API key for scripts (sent as a bearer token)",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireSession(); err != nil {
				return err
			}
			k, err := a.client.APIKey(cmd.Context())
			if err != nil {
				return err
			}
			a.out.Println(k)
			if !save {
				return nil
			}
			u, err := a.client.Me(cmd.Context())
			if err != nil {
				return err
			}
			if err := a.saveSession(u, k); err != nil {
				return err
			}
			a.out.OK("api key saved")
			return nil
		},
	}
	key.Flags().BoolVar(&save, "save", false, "use the key for later commands instead of the session cookie")

	cmd.AddCommand(login, register, logout, status, whoami, key)
	return cmd
}

// tokenLines describes the bearer token in use. JWTs from an identity
// provider are decoded locally; the backend's own API keys are opaque.
func tokenLines(token string) []string {
	if token == "" {
		return []string{"credential: session cookie"}
	}
	claims, ok := session.Claims(token)
	if !ok {
		return []string{"credential: opaque API key"}
	}
	lines := []string{"credential: JWT"}
	if sub, err := claims.GetSubject(); err == nil && sub != "" {
		lines = append(lines, "token subject: "+sub)
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		lines = append(lines, "token expires: "+exp.UTC().Format(time.RFC3339))
	}
	return lines
}

const tokenOverrideMsg = "token is provided by TODO_TOKEN (nothing to delete)"

// tokenOverride reports whether the only credential is a configured token,
// which logging out cannot remove.
func (a *app) tokenOverride() bool {
	return a.sess != nil && a.sess.Source == session.SourceOverride && len(a.sess.Cookies) == 0
}

// fresh drops any stored credentials so login and register reach the
// backend anonymously.
func (a *app) fresh() error {
	jar, err := session.NewJar(a.cfg.Server, nil)
	if err != nil {
		return err
	}
	a.jar = jar
	a.client.HTTPClient.Jar = jar
	a.client.Token = ""
	return nil
}

// saveSession persists the current cookies (and token, if any) for u.
func (a *app) saveSession(u *model.User, token string) error {
	s := &session.Session{
		Server:    a.cfg.Server,
		UserID:    u.ID,
		User:      u.Name,
		Token:     token,
		Source:    session.SourceFile,
		CreatedAt: time.Now(),
	}
	if token == "" {
		s.Cookies = a.jar.Export()
	}
	a.sess = s
	return s.Save(a.cfg.SessionFile())
}

// password returns flag, or reads one from stdin when flag is empty. A
// terminal gets a prompt without echo; piped input is read as one line.
func (a *app) password(flag string) (string, error) {
	if flag != "" {
		return flag, nil
	}
	fmt.Fprint(a.stderr, "Password: ")

	var line string
	if f, ok := a.stdin.(*os.File); ok && term.IsTerminal(f.Fd()) {
		b, err := term.ReadPassword(f.Fd())
		fmt.Fprintln(a.stderr)
		if err != nil {
			return "", errors.Wrap(err, "read password")
		}
		line = string(b)
	} else {
		var err error
		line, err = bufio.NewReader(a.stdin).ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return "", errors.Wrap(err, "read password")
		}
	}

	line = strings.TrimRight(line, "\r\n")
	if line == "" {
		return "", usagef("password required")
	}
	return line, nil
}
