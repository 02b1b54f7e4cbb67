// Package apitest provides an in-memory todo backend for tests. It speaks the
// same routes, status codes and {"error": msg} bodies as the real service.
package apitest

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"golang.org/x/crypto/bcrypt"

	"github.com/idilsaglam/todolists/internal/model"
)

const SessionCookie = "session"

type account struct {
	user   model.User
	hash   []byte
	apiKey string
}

// Seen is a request as observed by the server.
type Seen struct {
	Method      string
	Path        string
	RequestID   string
	ContentType string
	Bearer      string
}

type Server struct {
	*httptest.Server

	mu       sync.Mutex
	nextID   int
	accounts map[int]*account
	sessions map[string]int
	lists    map[int]*model.List
	fail     *failure
	seen     []Seen

	Build model.Build
}

type failure struct {
	status int
	msg    string
}

type ctxKey int

const userKey ctxKey = iota

func NewServer() *Server {
	s := &Server{
		accounts: make(map[int]*account),
		sessions: make(map[string]int),
		lists:    make(map[int]*model.List),
		Build:    model.Build{Version: "test", Commit: "NA", Date: "NA"},
	}
	s.Server = httptest.NewServer(s.handler())
	return s
}

func (s *Server) handler() http.Handler {
	r := mux.NewRouter()
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, model.Err(model.ENOTFOUND, "not found"))
	})

	api := r.PathPrefix("/api").Subrouter()
	api.Use(s.record, s.session)

	api.HandleFunc("/build", s.handleBuild).Methods(http.MethodGet)
	api.Handle("/user", s.requireAuth(s.handleMe)).Methods(http.MethodGet)
	api.Handle("/user/key", s.requireAuth(s.handleAPIKey)).Methods(http.MethodGet)
	api.Handle("/user/login", s.requireNoAuth(s.handleLogin)).Methods(http.MethodPost)
	api.Handle("/user/logout", s.requireAuth(s.handleLogout)).Methods(http.MethodDelete)
	api.Handle("/users", s.requireNoAuth(s.handleUserCreate)).Methods(http.MethodPost)
	api.Handle("/users/{id:[0-9]+}", s.requireAuth(s.handleUserUpdate)).Methods(http.MethodPatch)

	api.Handle("/todos", s.requireAuth(s.handleListIndex)).Methods(http.MethodGet)
	api.Handle("/todos", s.requireAuth(s.handleListCreate)).Methods(http.MethodPost)
	api.Handle("/todos/{id:[0-9]+}", s.requireAuth(s.handleListGet)).Methods(http.MethodGet)
	api.Handle("/todos/{id:[0-9]+}", s.requireAuth(s.handleListEdit)).Methods(http.MethodPatch)
	api.Handle("/todos/{id:[0-9]+}", s.requireAuth(s.handleListDelete)).Methods(http.MethodDelete)
	api.Handle("/todos/{id:[0-9]+}", s.requireAuth(s.handleItemCreate)).Methods(http.MethodPost)
	api.Handle("/todos/{id:[0-9]+}/{itemID:[0-9]+}", s.requireAuth(s.handleItemGet)).Methods(http.MethodGet)
	api.Handle("/todos/{id:[0-9]+}/{itemID:[0-9]+}", s.requireAuth(s.handleItemEdit)).Methods(http.MethodPatch)
	api.Handle("/todos/{id:[0-9]+}/{itemID:[0-9]+}", s.requireAuth(s.handleItemDelete)).Methods(http.MethodDelete)

	return stripSlashes(r)
}

// stripSlashes lets /api/todos/ and /api/todos/1/ reach the same routes as their
// slash-less forms without a redirect.
func stripSlashes(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if p := r.URL.Path; len(p) > 1 && strings.HasSuffix(p, "/") {
			r.URL.Path = strings.TrimRight(p, "/")
		}
		next.ServeHTTP(w, r)
	})
}

// CreateUser seeds an account together with its default list.
func (s *Server) CreateUser(name, password string) *model.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, err := s.createAccount(name, nil, password)
	if err != nil {
		panic(err)
	}
	u := a.user
	return &u
}

// APIKey returns the bearer key of the named user.
func (s *Server) APIKey(name string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if a := s.accountByName(name); a != nil {
		return a.apiKey
	}
	return ""
}

// FailNext makes the next /api request fail with status and message.
func (s *Server) FailNext(status int, msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fail = &failure{status: status, msg: msg}
}

// Seen returns the requests handled so far.
func (s *Server) Seen() []Seen {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Seen(nil), s.seen...)
}

// Lists returns a snapshot of the lists owned by userID.
func (s *Server) Lists(userID int) []model.List {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.List
	for _, l := range s.ownedLists(userID) {
		cp := *l
		cp.Items = append([]*model.Item(nil), l.Items...)
		out = append(out, cp)
	}
	return out
}

func (s *Server) id() int {
	s.nextID++
	return s.nextID
}

func (s *Server) createAccount(name string, email *string, password string) (*account, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, model.Err(model.EINVALID, "name is required")
	} else if password == "" {
		return nil, model.Err(model.EINVALID, "password is required")
	} else if s.accountByName(name) != nil {
		return nil, model.Err(model.ECONFLICT, "name %q is taken", name)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		return nil, model.Err(model.EINTERNAL, "failed to hash password: %v", err)
	}

	now := time.Now().UTC().Round(time.Microsecond)
	a := &account{
		user:   model.User{ID: s.id(), Name: name, Email: email, CreatedAt: now, UpdatedAt: now},
		hash:   hash,
		apiKey: strings.ReplaceAll(uuid.NewString(), "-", ""),
	}
	s.accounts[a.user.ID] = a

	l := &model.List{ID: s.id(), UserID: a.user.ID, Name: "My first list", Items: []*model.Item{}, CreatedAt: now, UpdatedAt: now}
	s.lists[l.ID] = l
	return a, nil
}

func (s *Server) accountByName(name string) *account {
	for _, a := range s.accounts {
		if strings.EqualFold(a.user.Name, name) {
			return a
		}
	}
	return nil
}

func (s *Server) ownedLists(userID int) []*model.List {
	out := make([]*model.List, 0)
	for _, l := range s.lists {
		if l.UserID == userID {
			out = append(out, l)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// ---------------------------------------------------
// middleware
// ---------------------------------------------------

func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.seen = append(s.seen, Seen{
			Method:      r.Method,
			Path:        r.URL.Path,
			RequestID:   r.Header.Get("X-Request-Id"),
			ContentType: r.Header.Get("Content-Type"),
			Bearer:      strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer "),
		})
		f := s.fail
		s.fail = nil
		s.mu.Unlock()

		if f != nil {
			writeJSON(w, f.status, map[string]string{"error": f.msg})
			return
		}
		next.ServeHTTP(w, r)
	})
}

// session resolves the caller from the session cookie or a bearer API key.
func (s *Server) session(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		var uid int
		if c, err := r.Cookie(SessionCookie); err == nil {
			uid = s.sessions[c.Value]
		}
		if h := r.Header.Get("Authorization"); uid == 0 && h != "" {
			token := strings.TrimPrefix(h, "Bearer ")
			for _, a := range s.accounts {
				if a.apiKey == token {
					uid = a.user.ID
				}
			}
			if uid == 0 {
				s.mu.Unlock()
				writeError(w, model.Err(model.EUNAUTHORIZED, "invalid credentials"))
				return
			}
		}
		s.mu.Unlock()

		if uid != 0 {
			r = r.WithContext(context.WithValue(r.Context(), userKey, uid))
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) requireAuth(h func(http.ResponseWriter, *http.Request, *account)) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		defer s.mu.Unlock()
		uid, _ := r.Context().Value(userKey).(int)
		a := s.accounts[uid]
		if a == nil {
			writeError(w, model.Unauthorized)
			return
		}
		h(w, r, a)
	})
}

func (s *Server) requireNoAuth(h http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if uid, _ := r.Context().Value(userKey).(int); uid != 0 {
			writeError(w, model.Unauthorized)
			return
		}
		s.mu.Lock()
		defer s.mu.Unlock()
		h(w, r)
	})
}

// ---------------------------------------------------
// user handlers
// ---------------------------------------------------

func (s *Server) handleBuild(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, http.StatusOK, s.Build)
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request, a *account) {
	writeJSON(w, http.StatusOK, a.user)
}

func (s *Server) handleAPIKey(w http.ResponseWriter, r *http.Request, a *account) {
	writeJSON(w, http.StatusOK, a.apiKey)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var creds model.Credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		writeError(w, model.Err(model.EINVALID, "invalid body"))
		return
	}

	a := s.accountByName(creds.Name)
	if a == nil || bcrypt.CompareHashAndPassword(a.hash, []byte(creds.Password)) != nil {
		writeError(w, model.Err(model.EUNAUTHORIZED, "invalid credentials"))
		return
	}

	token := uuid.NewString()
	s.sessions[token] = a.user.ID
	http.SetCookie(w, &http.Cookie{Name: SessionCookie, Value: token, Path: "/", HttpOnly: true})
	writeJSON(w, http.StatusOK, a.user)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request, a *account) {
	if c, err := r.Cookie(SessionCookie); err == nil {
		delete(s.sessions, c.Value)
	}
	http.SetCookie(w, &http.Cookie{Name: SessionCookie, Value: "", Path: "/", MaxAge: -1})
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleUserCreate(w http.ResponseWriter, r *http.Request) {
	var creds model.Credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		writeError(w, model.Err(model.EINVALID, "invalid body"))
		return
	}
	a, err := s.createAccount(creds.Name, creds.Email, creds.Password)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, a.user)
}

func (s *Server) handleUserUpdate(w http.ResponseWriter, r *http.Request, a *account) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])
	if id != a.user.ID {
		writeError(w, model.Unauthorized)
		return
	}
	var upd model.UserUpdate
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		writeError(w, model.Err(model.EINVALID, "invalid body"))
		return
	} else if err := upd.Validate(); err != nil {
		writeError(w, err)
		return
	}
	if upd.Name != nil {
		if other := s.accountByName(*upd.Name); other != nil && other != a {
			writeError(w, model.Err(model.ECONFLICT, "name %q is taken", *upd.Name))
			return
		}
		a.user.Name = *upd.Name
	}
	if upd.Email != nil {
		a.user.Email = upd.Email
	}
	a.user.UpdatedAt = time.Now().UTC().Round(time.Microsecond)
	writeJSON(w, http.StatusOK, a.user)
}

// ---------------------------------------------------
// list and item handlers
// ---------------------------------------------------

func (s *Server) list(r *http.Request, a *account) (*model.List, error) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])
	l := s.lists[id]
	if l == nil || l.UserID != a.user.ID {
		return nil, model.Err(model.ENOTFOUND, "could not find list with id %d", id)
	}
	return l, nil
}

func (s *Server) item(r *http.Request, a *account) (*model.List, *model.Item, error) {
	l, err := s.list(r, a)
	if err != nil {
		return nil, nil, err
	}
	id, _ := strconv.Atoi(mux.Vars(r)["itemID"])
	it := l.Item(id)
	if it == nil {
		return nil, nil, model.Err(model.ENOTFOUND, "could not find item with id %d", id)
	}
	return l, it, nil
}

func (s *Server) handleListIndex(w http.ResponseWriter, r *http.Request, a *account) {
	writeJSON(w, http.StatusOK, s.ownedLists(a.user.ID))
}

func (s *Server) handleListCreate(w http.ResponseWriter, r *http.Request, a *account) {
	var l model.List
	if err := json.NewDecoder(r.Body).Decode(&l); err != nil {
		writeError(w, model.Err(model.EINVALID, "invalid body"))
		return
	} else if err := l.Validate(); err != nil {
		writeError(w, err)
		return
	}
	now := time.Now().UTC().Round(time.Microsecond)
	l.ID, l.UserID, l.Items, l.CreatedAt, l.UpdatedAt = s.id(), a.user.ID, []*model.Item{}, now, now
	s.lists[l.ID] = &l
	writeJSON(w, http.StatusCreated, &l)
}

func (s *Server) handleListGet(w http.ResponseWriter, r *http.Request, a *account) {
	l, err := s.list(r, a)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, l)
}

func (s *Server) handleListEdit(w http.ResponseWriter, r *http.Request, a *account) {
	l, err := s.list(r, a)
	if err != nil {
		writeError(w, err)
		return
	}
	var upd model.ListUpdate
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		writeError(w, model.Err(model.EINVALID, "invalid body"))
		return
	} else if err := upd.Validate(); err != nil {
		writeError(w, err)
		return
	}
	if upd.Name != nil {
		l.Name = *upd.Name
	}
	if upd.Completed != nil {
		l.Completed = *upd.Completed
	}
	l.UpdatedAt = time.Now().UTC().Round(time.Microsecond)
	writeJSON(w, http.StatusOK, l)
}

func (s *Server) handleListDelete(w http.ResponseWriter, r *http.Request, a *account) {
	l, err := s.list(r, a)
	if err != nil {
		writeError(w, err)
		return
	}
	delete(s.lists, l.ID)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleItemCreate(w http.ResponseWriter, r *http.Request, a *account) {
	l, err := s.list(r, a)
	if err != nil {
		writeError(w, err)
		return
	}
	var it model.Item
	if err := json.NewDecoder(r.Body).Decode(&it); err != nil {
		writeError(w, model.Err(model.EINVALID, "invalid body"))
		return
	}
	it.ListID = l.ID
	if err := it.Validate(); err != nil {
		writeError(w, err)
		return
	}
	now := time.Now().UTC().Round(time.Microsecond)
	it.ID, it.UserID, it.CreatedAt, it.UpdatedAt = s.id(), a.user.ID, now, now
	l.Items = append(l.Items, &it)
	writeJSON(w, http.StatusCreated, &it)
}

func (s *Server) handleItemGet(w http.ResponseWriter, r *http.Request, a *account) {
	_, it, err := s.item(r, a)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, it)
}

func (s *Server) handleItemEdit(w http.ResponseWriter, r *http.Request, a *account) {
	_, it, err := s.item(r, a)
	if err != nil {
		writeError(w, err)
		return
	}
	var upd model.ItemUpdate
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		writeError(w, model.Err(model.EINVALID, "invalid body"))
		return
	} else if err := upd.Validate(); err != nil {
		writeError(w, err)
		return
	}
	if upd.Name != nil {
		it.Name = *upd.Name
	}
	if upd.Completed != nil {
		it.Completed = *upd.Completed
	}
	it.UpdatedAt = time.Now().UTC().Round(time.Microsecond)
	writeJSON(w, http.StatusOK, it)
}

func (s *Server) handleItemDelete(w http.ResponseWriter, r *http.Request, a *account) {
	l, it, err := s.item(r, a)
	if err != nil {
		writeError(w, err)
		return
	}
	l.RemoveItem(it.ID)
	w.WriteHeader(http.StatusNoContent)
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, model.StatusCode(err), map[string]string{"error": model.ErrMessage(err)})
}

func writeJSON(w http.ResponseWriter, code int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(body)
}
