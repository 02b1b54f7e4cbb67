package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/idilsaglam/todolists/internal/apitest"
	"github.com/idilsaglam/todolists/internal/model"
	"github.com/idilsaglam/todolists/internal/session"
)

type env struct {
	srv  *apitest.Server
	user *model.User
	dir  string
}

func newEnv(t *testing.T) *env {
	t.Helper()
	srv := apitest.NewServer()
	t.Cleanup(srv.Close)

	dir := t.TempDir()
	t.Setenv("TODO_DATA_DIR", dir)
	t.Setenv("TODO_SERVER", srv.URL)
	t.Setenv("TODO_TOKEN", "")
	t.Setenv("TODO_THEME", "")
	t.Setenv("TODO_LOG_LEVEL", "error")
	t.Setenv("TODO_RATE_PER_SECOND", "1000")
	return &env{srv: srv, user: srv.CreateUser("alice", "secret"), dir: dir}
}

type result struct {
	code           int
	stdout, stderr string
}

func (e *env) run(t *testing.T, stdin string, args ...string) result {
	t.Helper()
	var out, errw bytes.Buffer
	code := Run(context.Background(), args, strings.NewReader(stdin), &out, &errw)
	return result{code, out.String(), errw.String()}
}

func (e *env) login(t *testing.T) {
	t.Helper()
	if r := e.run(t, "", "auth", "login", "alice", "-p", "secret"); r.code != 0 {
		t.Fatalf("login failed: %d %s", r.code, r.stderr)
	}
}

func (e *env) list(t *testing.T, name string) model.List {
	t.Helper()
	for _, l := range e.srv.Lists(e.user.ID) {
		if l.Name == name {
			return l
		}
	}
	t.Fatalf("no list named %q", name)
	return model.List{}
}

func TestUsage(t *testing.T) {
	e := newEnv(t)

	tt := []struct {
		Name string
		Args []string
		Code int
	}{
		{"NoArgs", nil, 2},
		{"Help", []string{"help"}, 0},
		{"UnknownCommand", []string{"frobnicate"}, 2},
		{"UnknownSubcommand", []string{"list", "frobnicate"}, 2},
		{"MissingSubcommand", []string{"auth"}, 2},
		{"BadFlag", []string{"lists", "--nope"}, 2},
		{"BadID", []string{"list", "show", "abc"}, 2},
		{"ZeroID", []string{"item", "rm", "1", "0"}, 2},
		{"MissingName", []string{"item", "add", "1"}, 2},
		{"BadTheme", []string{"--theme", "pink", "version"}, 2},
		{"NotLoggedIn", []string{"lists"}, 2},
	}
	for _, tc := range tt {
		t.Run(tc.Name, func(t *testing.T) {
			if r := e.run(t, "", tc.Args...); r.code != tc.Code {
				t.Fatalf("want exit %d got %d (stderr %q)", tc.Code, r.code, r.stderr)
			}
		})
	}
}

func TestAuth(t *testing.T) {
	t.Run("LoginWhoamiLogout", func(t *testing.T) {
		e := newEnv(t)
		r := e.run(t, "secret\n", "auth", "login", "alice")
		if r.code != 0 {
			t.Fatalf("login: %d %s", r.code, r.stderr)
		} else if !strings.Contains(r.stdout, "logged in as alice") {
			t.Fatalf("unexpected output %q", r.stdout)
		}

		s, err := session.Load(filepath.Join(e.dir, "session.json"), e.srv.URL, "")
		if err != nil {
			t.Fatal(err)
		} else if s == nil || len(s.Cookies) == 0 || s.User != "alice" {
			t.Fatalf("session not saved: %+v", s)
		}

		r = e.run(t, "", "auth", "whoami")
		if r.code != 0 || !strings.Contains(r.stdout, "alice (id "+strconv.Itoa(e.user.ID)+")") {
			t.Fatalf("whoami: %d %q %q", r.code, r.stdout, r.stderr)
		} else if !strings.Contains(r.stdout, "credential: session cookie") {
			t.Fatalf("whoami credential: %q", r.stdout)
		}

		r = e.run(t, "", "auth", "status")
		if r.code != 0 || !strings.Contains(r.stdout, "session: valid") {
			t.Fatalf("status: %d %q", r.code, r.stdout)
		}

		if r = e.run(t, "", "auth", "logout"); r.code != 0 {
			t.Fatalf("logout: %d %s", r.code, r.stderr)
		}
		if _, err := os.Stat(filepath.Join(e.dir, "session.json")); !os.IsNotExist(err) {
			t.Fatalf("session file left behind: %v", err)
		}
		if r = e.run(t, "", "auth", "whoami"); r.code != 2 {
			t.Fatalf("whoami after logout: want 2 got %d", r.code)
		}
	})

	t.Run("BadPassword", func(t *testing.T) {
		e := newEnv(t)
		r := e.run(t, "", "auth", "login", "alice", "-p", "wrong")
		if r.code != 1 {
			t.Fatalf("want exit 1 got %d", r.code)
		} else if !strings.Contains(r.stderr, "invalid credentials") {
			t.Fatalf("unexpected stderr %q", r.stderr)
		}
	})

	t.Run("EmptyPassword", func(t *testing.T) {
		e := newEnv(t)
		if r := e.run(t, "\n", "auth", "login", "alice"); r.code != 2 {
			t.Fatalf("want exit 2 got %d", r.code)
		}
	})

	t.Run("Register", func(t *testing.T) {
		e := newEnv(t)
		r := e.run(t, "hunter2\n", "auth", "register", "bob", "-e", "bob@example.com")
		if r.code != 0 || !strings.Contains(r.stdout, "registered bob") {
			t.Fatalf("register: %d %q %q", r.code, r.stdout, r.stderr)
		}
		if r = e.run(t, "", "auth", "register", "bob", "-p", "x"); r.code != 1 {
			t.Fatalf("duplicate register: want 1 got %d", r.code)
		}
		if r = e.run(t, "", "auth", "login", "bob", "-p", "hunter2"); r.code != 0 {
			t.Fatalf("login after register: %d %s", r.code, r.stderr)
		}
	})

	t.Run("APIKey", func(t *testing.T) {
		e := newEnv(t)
		e.login(t)

		r := e.run(t, "", "auth", "key", "--save")
		key := e.srv.APIKey("alice")
		if r.code != 0 || !strings.Contains(r.stdout, key) {
			t.Fatalf("key: %d %q", r.code, r.stdout)
		}
		if r = e.run(t, "", "lists"); r.code != 0 {
			t.Fatalf("lists with key: %d %s", r.code, r.stderr)
		}
		seen := e.srv.Seen()
		if last := seen[len(seen)-1]; last.Bearer != key {
			t.Fatalf("want bearer %q got %q", key, last.Bearer)
		}
		if r = e.run(t, "", "auth", "whoami"); r.code != 0 || !strings.Contains(r.stdout, "credential: opaque API key") {
			t.Fatalf("whoami with key: %d %q", r.code, r.stdout)
		}
	})

	t.Run("PasswordFromFile", func(t *testing.T) {
		newEnv(t)
		path := filepath.Join(t.TempDir(), "stdin")
		if err := os.WriteFile(path, []byte("secret\r\n"), 0o600); err != nil {
			t.Fatal(err)
		}
		f, err := os.Open(path)
		if err != nil {
			t.Fatal(err)
		}
		defer f.Close()

		var out, errw bytes.Buffer
		if code := Run(context.Background(), []string{"auth", "login", "alice"}, f, &out, &errw); code != 0 {
			t.Fatalf("login with file stdin: %d %s", code, errw.String())
		} else if !strings.Contains(errw.String(), "Password: ") {
			t.Fatalf("no prompt on stderr: %q", errw.String())
		}
	})

	t.Run("TokenFromEnv", func(t *testing.T) {
		e := newEnv(t)
		t.Setenv("TODO_TOKEN", "Bearer "+e.srv.APIKey("alice"))
		if r := e.run(t, "", "lists"); r.code != 0 {
			t.Fatalf("lists with env token: %d %s", r.code, r.stderr)
		}
		if r := e.run(t, "", "auth", "logout"); r.code != 0 || !strings.Contains(r.stdout, "nothing to delete") {
			t.Fatalf("logout with env token: %d %q", r.code, r.stdout)
		}
	})
}

func TestTokenLines(t *testing.T) {
	exp := time.Date(2030, 1, 2, 3, 4, 5, 0, time.UTC)
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "alice",
		"exp": exp.Unix(),
	}).SignedString([]byte("k"))
	if err != nil {
		t.Fatal(err)
	}

	tt := []struct {
		Name  string
		Token string
		Want  []string
	}{
		{"Cookie", "", []string{"credential: session cookie"}},
		{"Opaque", "0f3c9a7d21b84e55a6c0d9e8f7b6a5c4", []string{"credential: opaque API key"}},
		{"JWT", signed, []string{"credential: JWT", "token subject: alice", "token expires: 2030-01-02T03:04:05Z"}},
	}
	for _, tc := range tt {
		t.Run(tc.Name, func(t *testing.T) {
			got := tokenLines(tc.Token)
			if strings.Join(got, "\n") != strings.Join(tc.Want, "\n") {
				t.Fatalf("want %q got %q", tc.Want, got)
			}
		})
	}
}

func TestListsAndItems(t *testing.T) {
	e := newEnv(t)
	e.login(t)

	r := e.run(t, "", "lists")
	if r.code != 0 || !strings.Contains(r.stdout, "My first list") {
		t.Fatalf("lists: %d %q", r.code, r.stdout)
	}

	if r = e.run(t, "", "list", "add", "Groceries", "for", "sunday"); r.code != 0 {
		t.Fatalf("list add: %d %s", r.code, r.stderr)
	}
	l := e.list(t, "Groceries for sunday")
	lid := strconv.Itoa(l.ID)

	if r = e.run(t, "", "item", "add", lid, "oat", "milk"); r.code != 0 {
		t.Fatalf("item add: %d %s", r.code, r.stderr)
	}
	if r = e.run(t, "", "item", "add", lid, "bread"); r.code != 0 {
		t.Fatalf("item add: %d %s", r.code, r.stderr)
	}
	l = e.list(t, "Groceries for sunday")
	if len(l.Items) != 2 {
		t.Fatalf("want 2 items got %d", len(l.Items))
	}
	milk := strconv.Itoa(l.Items[0].ID)

	if r = e.run(t, "", "item", "done", lid, milk); r.code != 0 {
		t.Fatalf("item done: %d %s", r.code, r.stderr)
	} else if !e.list(t, "Groceries for sunday").Items[0].Completed {
		t.Fatal("item not completed")
	}

	r = e.run(t, "", "list", "show", lid)
	if r.code != 0 {
		t.Fatalf("list show: %d %s", r.code, r.stderr)
	}
	for _, want := range []string{"Groceries for sunday", "oat milk", "bread", " 50%"} {
		if !strings.Contains(r.stdout, want) {
			t.Errorf("show output missing %q:\n%s", want, r.stdout)
		}
	}

	r = e.run(t, "", "--group", "list", "show", lid)
	pending, done := strings.Index(r.stdout, "Pending"), strings.Index(r.stdout, "Done")
	if pending < 0 || done < pending || strings.Index(r.stdout, "oat milk") < done {
		t.Fatalf("grouped output out of order:\n%s", r.stdout)
	}

	if r = e.run(t, "", "item", "undone", lid, milk); r.code != 0 {
		t.Fatalf("item undone: %d", r.code)
	}
	if r = e.run(t, "", "item", "rename", lid, milk, "soy", "milk"); r.code != 0 {
		t.Fatalf("item rename: %d", r.code)
	}
	if it := e.list(t, "Groceries for sunday").Items[0]; it.Completed || it.Name != "soy milk" {
		t.Fatalf("unexpected item %+v", it)
	}
	if r = e.run(t, "", "item", "rm", lid, milk); r.code != 0 {
		t.Fatalf("item rm: %d", r.code)
	}

	if r = e.run(t, "", "list", "done", lid); r.code != 0 || !e.list(t, "Groceries for sunday").Completed {
		t.Fatalf("list done: %d", r.code)
	}
	if r = e.run(t, "", "list", "rename", lid, "Food"); r.code != 0 {
		t.Fatalf("list rename: %d", r.code)
	}
	if r = e.run(t, "", "list", "rm", lid); r.code != 0 {
		t.Fatalf("list rm: %d", r.code)
	} else if n := len(e.srv.Lists(e.user.ID)); n != 1 {
		t.Fatalf("want 1 list left got %d", n)
	}

	r = e.run(t, "", "list", "show", lid)
	if r.code != 1 || !strings.Contains(r.stderr, "could not find list") {
		t.Fatalf("show removed list: %d %q", r.code, r.stderr)
	}
}

func TestVersion(t *testing.T) {
	e := newEnv(t)
	r := e.run(t, "", "version")
	if r.code != 0 {
		t.Fatalf("version: %d %s", r.code, r.stderr)
	}
	if !strings.Contains(r.stdout, "client: dev") || !strings.Contains(r.stdout, "server: test") {
		t.Fatalf("unexpected output %q", r.stdout)
	}

	e.srv.Close()
	if r = e.run(t, "", "version"); r.code != 0 || !strings.Contains(r.stderr, "unreachable") {
		t.Fatalf("version without server: %d %q", r.code, r.stderr)
	}
}
