package session

import (
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"

	"github.com/idilsaglam/todolists/internal/store/jsonstore"
)

const (
	SourceFile     = "file"
	SourceOverride = "override"
)

// Session is what survives between invocations: the backend's session cookie
// and/or an API token, plus who they belong to.
type Session struct {
	Server    string    `json:"server"`
	UserID    int       `json:"user_id,omitempty"`
	User      string    `json:"user,omitempty"`
	Token     string    `json:"token,omitempty"`
	Source    string    `json:"source"`
	Cookies   []Cookie  `json:"cookies,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type Cookie struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Authenticated reports whether s carries anything that can identify a user.
func (s *Session) Authenticated() bool {
	return s != nil && (s.Token != "" || len(s.Cookies) > 0)
}

// Load reads the session at path. A missing file yields nil, nil unless token
// is set, in which case token overrides whatever was stored.
func Load(path, server, token string) (*Session, error) {
	s, err := jsonstore.Load[*Session](path, nil)
	if err != nil {
		return nil, errors.Wrap(err, "load session")
	}
	// a session saved for another backend is not ours
	if s != nil && s.Server != server {
		s = nil
	}

	if token = stripBearer(strings.TrimSpace(token)); token != "" {
		if s == nil {
			s = &Session{Server: server, CreatedAt: time.Now()}
		}
		s.Token = token
		s.Source = SourceOverride
	}
	return s, nil
}

// Save writes s to path with owner-only permissions.
func (s *Session) Save(path string) error {
	if s.Source == "" {
		s.Source = SourceFile
	}
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now()
	}
	return errors.Wrap(jsonstore.Save(path, s, 0o600), "save session")
}

func Delete(path string) error {
	return errors.Wrap(jsonstore.Remove(path), "delete session")
}

// Jar is a cookie jar for one backend whose cookies can be exported into a Session.
type Jar struct {
	*cookiejar.Jar
	u *url.URL
}

// NewJar returns a jar for server seeded with the cookies of s (which may be nil).
func NewJar(server string, s *Session) (*Jar, error) {
	u, err := url.Parse(server)
	if err != nil {
		return nil, errors.Wrap(err, "parse server url")
	}
	inner, err := cookiejar.New(nil)
	if err != nil {
		return nil, errors.Wrap(err, "cookie jar")
	}
	j := &Jar{Jar: inner, u: u}
	if s != nil && len(s.Cookies) > 0 {
		cookies := make([]*http.Cookie, 0, len(s.Cookies))
		for _, c := range s.Cookies {
			cookies = append(cookies, &http.Cookie{Name: c.Name, Value: c.Value, Path: "/"})
		}
		j.SetCookies(u, cookies)
	}
	return j, nil
}

// Export returns the cookies the jar would send to the backend.
func (j *Jar) Export() []Cookie {
	var out []Cookie
	for _, c := range j.Cookies(j.u) {
		out = append(out, Cookie{Name: c.Name, Value: c.Value})
	}
	return out
}

// Claims decodes a JWT-shaped token without verifying it. ok is false for
// opaque tokens such as the backend's API keys.
func Claims(token string) (claims jwt.MapClaims, ok bool) {
	claims = jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(stripBearer(token), claims); err != nil {
		return nil, false
	}
	return claims, true
}

func stripBearer(s string) string {
	if strings.HasPrefix(strings.ToLower(s), "bearer ") {
		return strings.TrimSpace(s[7:])
	}
	return s
}
