// Package backendtest runs an in-memory imitation of the store REST backend
// for tests: envelope responses, paging, search, filters, the valid-id
// handshake, uploads, failure injection and call recording.
package backendtest

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
)

// Call is one recorded request.
type Call struct {
	Method string
	Path   string
	Query  url.Values
	Body   []byte
	Form   map[string][]string
	Files  map[string][]string
	Auth   string
}

// JSON decodes the recorded body into a generic map.
func (c Call) JSON() map[string]any {
	var m map[string]any
	_ = json.Unmarshal(c.Body, &m)
	return m
}

type failure struct {
	method, prefix string
	status, code   int
	message        string
}

// Server is a fake backend. The zero value is not usable; call New.
type Server struct {
	*httptest.Server

	mu       sync.Mutex
	items    map[string][]map[string]any
	fixed    map[string]any
	nextID   int64
	calls    []Call
	failures []failure
	delays   map[string]time.Duration

	users        map[string]string
	roles        map[string]string
	requireToken string
}

// New starts a fake backend that is closed when t finishes.
func New(t testing.TB) *Server {
	s := &Server{
		items:  map[string][]map[string]any{},
		fixed:  map[string]any{},
		nextID: 100,
		delays: map[string]time.Duration{},
		users:  map[string]string{},
		roles:  map[string]string{},
	}
	r := chi.NewRouter()
	r.Use(s.record)
	r.Post("/Auth/Login", s.login)
	r.Get("/{resource}/List", s.list)
	r.Get("/{resource}/Get/{id}", s.get)
	r.Get("/{resource}/GetValidId", s.validID)
	r.Post("/{resource}/Create", s.create)
	r.Put("/{resource}/Update", s.update)
	r.Delete("/{resource}/Delete/{id}", s.remove)
	r.HandleFunc("/*", s.fallback)
	s.Server = httptest.NewServer(r)
	t.Cleanup(s.Close)
	return s
}

// Token signs a test JWT carrying the given identity.
func Token(subject, name, role string, expires time.Time) string {
	claims := jwt.MapClaims{"sub": subject, "unique_name": name, "role": role}
	if !expires.IsZero() {
		claims["exp"] = expires.Unix()
	}
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("backendtest"))
	if err != nil {
		panic(err)
	}
	return s
}

// AddUser registers login credentials and the role placed in the issued token.
func (s *Server) AddUser(userName, password, role string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[userName] = password
	s.roles[userName] = role
}

// RequireToken makes every non-login call demand "Bearer token".
func (s *Server) RequireToken(token string) {
	s.mu.Lock()
	s.requireToken = token
	s.mu.Unlock()
}

// Seed stores items under resource, assigning ids where missing, and returns the ids.
func (s *Server) Seed(resource string, items ...map[string]any) []int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]int64, 0, len(items))
	for _, it := range items {
		cp := clone(it)
		id := toInt(cp["id"])
		if id == 0 {
			s.nextID++
			id = s.nextID
		}
		cp["id"] = id
		s.items[resource] = append(s.items[resource], cp)
		ids = append(ids, id)
	}
	return ids
}

// Items returns a copy of the stored items for resource ordered by id.
func (s *Server) Items(resource string) []map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]map[string]any, 0, len(s.items[resource]))
	for _, it := range s.sorted(resource) {
		out = append(out, clone(it))
	}
	return out
}

// SetData makes "METHOD path" answer with data inside a success envelope.
func (s *Server) SetData(method, path string, data any) {
	s.mu.Lock()
	s.fixed[method+" "+path] = data
	s.mu.Unlock()
}

// Fail makes the next call matching method and path prefix answer HTTP 200
// with a failure envelope carrying code and message.
func (s *Server) Fail(method, pathPrefix string, code int, message string) {
	s.mu.Lock()
	s.failures = append(s.failures, failure{method: method, prefix: pathPrefix, status: http.StatusOK, code: code, message: message})
	s.mu.Unlock()
}

// FailStatus makes the next matching call answer with the HTTP status.
func (s *Server) FailStatus(method, pathPrefix string, status int, message string) {
	s.mu.Lock()
	s.failures = append(s.failures, failure{method: method, prefix: pathPrefix, status: status, code: status, message: message})
	s.mu.Unlock()
}

// Delay holds every call under pathPrefix for d, or until the caller gives up.
func (s *Server) Delay(pathPrefix string, d time.Duration) {
	s.mu.Lock()
	s.delays[pathPrefix] = d
	s.mu.Unlock()
}

// Calls returns recorded calls matching method ("" for any) and path prefix.
func (s *Server) Calls(method, pathPrefix string) []Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []Call
	for _, c := range s.calls {
		if (method == "" || c.Method == method) && strings.HasPrefix(c.Path, pathPrefix) {
			out = append(out, c)
		}
	}
	return out
}

// CountCalls is len(Calls(method, pathPrefix)).
func (s *Server) CountCalls(method, pathPrefix string) int {
	return len(s.Calls(method, pathPrefix))
}

func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c := Call{Method: r.Method, Path: r.URL.Path, Query: r.URL.Query(), Auth: r.Header.Get("Authorization")}
		if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
			if err := r.ParseMultipartForm(32 << 20); err == nil {
				c.Form = map[string][]string(r.MultipartForm.Value)
				c.Files = map[string][]string{}
				for field, fhs := range r.MultipartForm.File {
					for _, fh := range fhs {
						c.Files[field] = append(c.Files[field], fh.Filename)
					}
				}
			}
		} else if r.Body != nil {
			body, _ := io.ReadAll(r.Body)
			c.Body = body
			r.Body = io.NopCloser(strings.NewReader(string(body)))
		}

		s.mu.Lock()
		s.calls = append(s.calls, c)
		var delay time.Duration
		for prefix, d := range s.delays {
			if strings.HasPrefix(r.URL.Path, prefix) {
				delay = d
			}
		}
		var fail *failure
		for i, f := range s.failures {
			if (f.method == "" || f.method == r.Method) && strings.HasPrefix(r.URL.Path, f.prefix) {
				ff := f
				fail = &ff
				s.failures = append(s.failures[:i], s.failures[i+1:]...)
				break
			}
		}
		token := s.requireToken
		s.mu.Unlock()

		if delay > 0 {
			select {
			case <-time.After(delay):
			case <-r.Context().Done():
				return
			}
		}
		if token != "" && r.URL.Path != "/Auth/Login" && r.Header.Get("Authorization") != "Bearer "+token {
			writeEnvelope(w, http.StatusUnauthorized, http.StatusUnauthorized, "Unauthorized", nil, nil)
			return
		}
		if fail != nil {
			writeEnvelope(w, fail.status, fail.code, fail.message, nil, nil)
			return
		}
		next.ServeHTTP(w, r)
	})
}

type paging struct {
	total, size, page int
}

func writeEnvelope(w http.ResponseWriter, status, code int, message string, data any, p *paging) {
	body := map[string]any{
		"result": map[string]any{"code": code, "message": message},
		"data":   data,
	}
	if p != nil {
		body["totalCount"] = p.total
		body["pageSize"] = p.size
		body["currentPage"] = p.page
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func ok(w http.ResponseWriter, message string, data any) {
	writeEnvelope(w, http.StatusOK, 200, message, data, nil)
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var in struct {
		UserName string `json:"userName"`
		Password string `json:"password"`
	}
	_ = json.NewDecoder(r.Body).Decode(&in)
	s.mu.Lock()
	pw, known := s.users[in.UserName]
	role := s.roles[in.UserName]
	token := s.requireToken
	s.mu.Unlock()
	if !known || pw != in.Password {
		writeEnvelope(w, http.StatusOK, http.StatusUnauthorized, "Invalid credentials", nil, nil)
		return
	}
	if token == "" {
		token = Token(in.UserName, in.UserName, role, time.Now().Add(time.Hour))
	}
	ok(w, "Welcome", map[string]any{"token": token, "userName": in.UserName, "role": role})
}

func (s *Server) list(w http.ResponseWriter, r *http.Request) {
	resource := chi.URLParam(r, "resource")
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("PageNumber"))
	if page < 1 {
		page = 1
	}
	size, _ := strconv.Atoi(q.Get("PageSize"))
	if size < 1 {
		size = 10
	}
	search := strings.ToLower(q.Get("Search"))

	s.mu.Lock()
	all := s.sorted(resource)
	var matched []map[string]any
	for _, it := range all {
		if search != "" && !matchesSearch(it, search) {
			continue
		}
		if !matchesFilters(it, q) {
			continue
		}
		matched = append(matched, clone(it))
	}
	s.mu.Unlock()

	start := (page - 1) * size
	end := start + size
	if start > len(matched) {
		start = len(matched)
	}
	if end > len(matched) {
		end = len(matched)
	}
	data := matched[start:end]
	if data == nil {
		data = []map[string]any{}
	}
	writeEnvelope(w, http.StatusOK, 200, "", data, &paging{total: len(matched), size: size, page: page})
}

func (s *Server) get(w http.ResponseWriter, r *http.Request) {
	resource := chi.URLParam(r, "resource")
	id, _ := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	s.mu.Lock()
	it := s.find(resource, id)
	var data map[string]any
	if it != nil {
		data = clone(it)
	}
	s.mu.Unlock()
	if data == nil {
		writeEnvelope(w, http.StatusOK, http.StatusNotFound, "Not found", nil, nil)
		return
	}
	ok(w, "", data)
}

func (s *Server) validID(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	s.nextID++
	id := s.nextID
	s.mu.Unlock()
	ok(w, "", id)
}

func (s *Server) create(w http.ResponseWriter, r *http.Request) {
	resource := chi.URLParam(r, "resource")
	var in map[string]any
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil || in == nil {
		writeEnvelope(w, http.StatusBadRequest, http.StatusBadRequest, "Invalid body", nil, nil)
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	id := toInt(in["id"])
	if id == 0 {
		s.nextID++
		id = s.nextID
	} else if s.find(resource, id) != nil {
		writeEnvelope(w, http.StatusOK, http.StatusConflict, "Duplicate id", nil, nil)
		return
	}
	in["id"] = id
	in["createdDate"] = "2026-01-02T10:00:00"
	s.items[resource] = append(s.items[resource], in)
	ok(w, "Created successfully", clone(in))
}

func (s *Server) update(w http.ResponseWriter, r *http.Request) {
	resource := chi.URLParam(r, "resource")
	var in map[string]any
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil || in == nil {
		writeEnvelope(w, http.StatusBadRequest, http.StatusBadRequest, "Invalid body", nil, nil)
		return
	}
	id := toInt(in["id"])
	s.mu.Lock()
	defer s.mu.Unlock()
	list := s.items[resource]
	for i, it := range list {
		if toInt(it["id"]) == id {
			in["id"] = id
			in["createdDate"] = it["createdDate"]
			in["modifiedDate"] = "2026-01-03T10:00:00"
			list[i] = in
			ok(w, "Updated successfully", clone(in))
			return
		}
	}
	// singletons such as settings are backed by SetData on their Get path
	single := http.MethodGet + " /" + resource + "/Get"
	if _, found := s.fixed[single]; found {
		s.fixed[single] = clone(in)
		ok(w, "Updated successfully", clone(in))
		return
	}
	writeEnvelope(w, http.StatusOK, http.StatusNotFound, "Not found", nil, nil)
}

func (s *Server) remove(w http.ResponseWriter, r *http.Request) {
	resource := chi.URLParam(r, "resource")
	id, _ := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	s.mu.Lock()
	defer s.mu.Unlock()
	list := s.items[resource]
	for i, it := range list {
		if toInt(it["id"]) == id {
			s.items[resource] = append(list[:i], list[i+1:]...)
			ok(w, "Deleted successfully", nil)
			return
		}
	}
	writeEnvelope(w, http.StatusOK, http.StatusNotFound, "Not found", nil, nil)
}

// fallback answers fixed data, merges PUT bodies carrying an id into the
// resource named by the first path segment, and acknowledges everything else.
func (s *Server) fallback(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	data, fixed := s.fixed[r.Method+" "+r.URL.Path]
	s.mu.Unlock()
	if fixed {
		ok(w, "", data)
		return
	}
	if r.Method == http.MethodPut || r.Method == http.MethodPost {
		var in map[string]any
		if err := json.NewDecoder(r.Body).Decode(&in); err == nil && in != nil {
			if id := toInt(in["id"]); id > 0 {
				resource := strings.SplitN(strings.Trim(r.URL.Path, "/"), "/", 2)[0]
				s.mu.Lock()
				it := s.find(resource, id)
				if it != nil {
					for k, v := range in {
						it[k] = v
					}
				}
				s.mu.Unlock()
			}
		}
	}
	ok(w, "Done", nil)
}

func (s *Server) sorted(resource string) []map[string]any {
	list := append([]map[string]any(nil), s.items[resource]...)
	sort.SliceStable(list, func(i, j int) bool { return toInt(list[i]["id"]) < toInt(list[j]["id"]) })
	return list
}

func (s *Server) find(resource string, id int64) map[string]any {
	for _, it := range s.items[resource] {
		if toInt(it["id"]) == id {
			return it
		}
	}
	return nil
}

func matchesSearch(it map[string]any, term string) bool {
	for _, v := range it {
		if str, ok := v.(string); ok && strings.Contains(strings.ToLower(str), term) {
			return true
		}
	}
	return false
}

// matchesFilters compares each non-paging parameter with the item field of
// the same name (first letter lowered). Parameters naming absent fields are ignored.
func matchesFilters(it map[string]any, q url.Values) bool {
	for key, vals := range q {
		switch key {
		case "PageNumber", "PageSize", "Search":
			continue
		}
		if len(vals) == 0 || vals[0] == "" {
			continue
		}
		field := strings.ToLower(key[:1]) + key[1:]
		v, present := it[field]
		if !present {
			continue
		}
		if fmt.Sprint(normalize(v)) != vals[0] {
			return false
		}
	}
	return true
}

func normalize(v any) any {
	if f, ok := v.(float64); ok && f == float64(int64(f)) {
		return int64(f)
	}
	return v
}

func toInt(v any) int64 {
	switch n := v.(type) {
	case int:
		return int64(n)
	case int64:
		return n
	case float64:
		return int64(n)
	case json.Number:
		i, _ := n.Int64()
		return i
	case string:
		i, _ := strconv.ParseInt(n, 10, 64)
		return i
	}
	return 0
}

func clone(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
