// Package backend is the typed HTTP client for the remote store REST API.
// Every response is wrapped in an Envelope; a non-2xx status or a non-200
// result code is returned as *Error carrying the server message.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
)

const maxResponseBytes = 16 << 20

// Observer receives one sample per backend call. The metrics package implements it.
type Observer interface {
	ObserveBackendCall(resource, op, outcome string, d time.Duration)
}

// Options configures a Client.
type Options struct {
	BaseURL    string
	Timeout    time.Duration
	LoginPath  string
	HTTPClient *http.Client
	Logger     *zap.Logger
	Observer   Observer
}

// Client talks to the backend. It holds no credentials; use For to obtain a
// Conn bound to an operator's AuthContext.
type Client struct {
	base      *url.URL
	http      *http.Client
	log       *zap.Logger
	obs       Observer
	loginPath string
}

// New validates opts and returns a Client.
func New(opts Options) (*Client, error) {
	if strings.TrimSpace(opts.BaseURL) == "" {
		return nil, errors.New("backend: base url is required")
	}
	u, err := url.Parse(strings.TrimRight(opts.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("backend: parse base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("backend: unsupported scheme %q", u.Scheme)
	}
	hc := opts.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: opts.Timeout}
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	lp := opts.LoginPath
	if lp == "" {
		lp = "/Auth/Login"
	}
	return &Client{base: u, http: hc, log: log, obs: opts.Observer, loginPath: lp}, nil
}

// Conn is a Client bound to one AuthContext.
type Conn struct {
	c    *Client
	auth *AuthContext
}

// For binds the client to auth. A nil auth yields anonymous requests.
func (c *Client) For(auth *AuthContext) *Conn {
	return &Conn{c: c, auth: auth}
}

// LoginResult is the token issued by the backend plus the claims read from it.
type LoginResult struct {
	Token  string
	Claims Claims
}

type loginRequest struct {
	UserName string `json:"userName"`
	Password string `json:"password"`
}

type loginData struct {
	Token    string `json:"token"`
	UserName string `json:"userName"`
	Role     string `json:"role"`
}

// Login exchanges credentials for a bearer token.
func (c *Client) Login(ctx context.Context, userName, password string) (LoginResult, error) {
	body, err := json.Marshal(loginRequest{UserName: userName, Password: password})
	if err != nil {
		return LoginResult{}, err
	}
	env, err := call[loginData](ctx, c.For(nil), "login", http.MethodPost, c.loginPath, nil, bytes.NewReader(body), "application/json")
	if err != nil {
		return LoginResult{}, err
	}
	if env.Data.Token == "" {
		return LoginResult{}, &Error{Op: "login", Status: http.StatusOK, Code: env.Result.Code, Message: env.Result.Message}
	}
	claims, _ := ParseClaims(env.Data.Token)
	if claims.Name == "" {
		claims.Name = env.Data.UserName
	}
	if claims.Role == "" {
		claims.Role = env.Data.Role
	}
	if claims.Subject == "" {
		claims.Subject = env.Data.UserName
	}
	return LoginResult{Token: env.Data.Token, Claims: claims}, nil
}

// Ping checks that the backend answers at all.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base.String(), nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: ping: %v", ErrTransport, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBytes))
	if resp.StatusCode >= 500 {
		return &Error{Op: "ping", Status: resp.StatusCode}
	}
	return nil
}

// List fetches one page from a list endpoint.
func List[T any](ctx context.Context, conn *Conn, path string, q ListQuery) (Page[T], error) {
	vals, err := q.Values()
	if err != nil {
		return Page[T]{}, err
	}
	env, err := call[[]T](ctx, conn, "list", http.MethodGet, path, vals, nil, "")
	if err != nil {
		return Page[T]{}, err
	}
	items := env.Data
	if items == nil {
		items = []T{}
	}
	return Page[T]{
		Items:       items,
		TotalCount:  env.TotalCount,
		PageSize:    env.PageSize,
		CurrentPage: env.CurrentPage,
	}, nil
}

// Get fetches one entity by id from path/{id}.
func Get[T any](ctx context.Context, conn *Conn, path string, id int64) (T, error) {
	var zero T
	env, err := call[*T](ctx, conn, "get", http.MethodGet, withID(path, id), nil, nil, "")
	if err != nil {
		return zero, err
	}
	if env.Data == nil {
		return zero, fmt.Errorf("%w: %s", ErrNotFound, withID(path, id))
	}
	return *env.Data, nil
}

// Fetch decodes the data of an arbitrary GET endpoint (singletons, details).
func Fetch[T any](ctx context.Context, conn *Conn, path string, q url.Values) (T, error) {
	env, err := call[T](ctx, conn, "get", http.MethodGet, path, q, nil, "")
	if err != nil {
		var zero T
		return zero, err
	}
	return env.Data, nil
}

// Create POSTs payload as JSON.
func (conn *Conn) Create(ctx context.Context, path string, payload any) (Outcome, error) {
	return conn.Send(ctx, "create", http.MethodPost, path, payload)
}

// Update PUTs the full object; the backend has no partial update.
func (conn *Conn) Update(ctx context.Context, path string, payload any) (Outcome, error) {
	return conn.Send(ctx, "update", http.MethodPut, path, payload)
}

// Delete removes the entity at path/{id}.
func (conn *Conn) Delete(ctx context.Context, path string, id int64) (Outcome, error) {
	env, err := call[json.RawMessage](ctx, conn, "delete", http.MethodDelete, withID(path, id), nil, nil, "")
	if err != nil {
		return Outcome{}, err
	}
	return Outcome{ID: id, Message: env.Result.Message}, nil
}

// ValidID asks the backend for the identifier the next create must carry.
func (conn *Conn) ValidID(ctx context.Context, path string) (int64, error) {
	env, err := call[json.RawMessage](ctx, conn, "valid_id", http.MethodGet, path, nil, nil, "")
	if err != nil {
		return 0, err
	}
	id := extractID(env.Data)
	if id <= 0 {
		return 0, &Error{Op: "valid_id", Status: http.StatusOK, Code: env.Result.Code, Message: "backend returned no id"}
	}
	return id, nil
}

// CreateWithValidID performs the two-step create: fetch a valid id, then POST
// the payload built around it. The returned Outcome always carries that id.
func (conn *Conn) CreateWithValidID(ctx context.Context, validPath, createPath string, build func(id int64) any) (Outcome, error) {
	id, err := conn.ValidID(ctx, validPath)
	if err != nil {
		return Outcome{}, err
	}
	out, err := conn.Create(ctx, createPath, build(id))
	if err != nil {
		return Outcome{}, err
	}
	out.ID = id
	return out, nil
}

// Send issues a JSON mutation with an arbitrary method and decodes the id, if any.
func (conn *Conn) Send(ctx context.Context, op, method, path string, payload any) (Outcome, error) {
	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return Outcome{}, fmt.Errorf("encode %s payload: %w", op, err)
		}
		body = bytes.NewReader(b)
	}
	env, err := call[json.RawMessage](ctx, conn, op, method, path, nil, body, "application/json")
	if err != nil {
		return Outcome{}, err
	}
	return Outcome{ID: extractID(env.Data), Message: env.Result.Message}, nil
}

// File is one file part of a multipart upload.
type File struct {
	Field       string
	Name        string
	ContentType string
	Body        io.Reader
}

// Multipart is an upload request: plain fields (ItemId, CompanyId, FlavourId)
// plus files (Image, BannerImages).
type Multipart struct {
	Fields map[string]string
	Files  []File
}

// Upload POSTs form as multipart/form-data in a single request.
func (conn *Conn) Upload(ctx context.Context, path string, form Multipart) (Outcome, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	keys := make([]string, 0, len(form.Fields))
	for k := range form.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if err := mw.WriteField(k, form.Fields[k]); err != nil {
			return Outcome{}, err
		}
	}
	for _, f := range form.Files {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, f.Field, f.Name))
		ct := f.ContentType
		if ct == "" {
			ct = "application/octet-stream"
		}
		h.Set("Content-Type", ct)
		part, err := mw.CreatePart(h)
		if err != nil {
			return Outcome{}, err
		}
		if _, err := io.Copy(part, f.Body); err != nil {
			return Outcome{}, fmt.Errorf("copy %s: %w", f.Name, err)
		}
	}
	if err := mw.Close(); err != nil {
		return Outcome{}, err
	}
	env, err := call[json.RawMessage](ctx, conn, "upload", http.MethodPost, path, nil, &buf, mw.FormDataContentType())
	if err != nil {
		return Outcome{}, err
	}
	return Outcome{ID: extractID(env.Data), Message: env.Result.Message}, nil
}

func call[T any](ctx context.Context, conn *Conn, op, method, path string, q url.Values, body io.Reader, contentType string) (Envelope[T], error) {
	var env Envelope[T]
	c := conn.c
	u := c.base.JoinPath(path)
	if len(q) > 0 {
		u.RawQuery = q.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return env, err
	}
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if tok := conn.auth.Token(); tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	resource := resourceOf(path)
	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.observe(resource, op, "transport_error", start)
		if ctxErr := ctx.Err(); ctxErr != nil {
			return env, ctxErr
		}
		c.log.Warn("backend call failed", zap.String("op", op), zap.String("path", path), zap.Error(err))
		return env, fmt.Errorf("%w: %s %s: %v", ErrTransport, method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		c.observe(resource, op, "transport_error", start)
		return env, fmt.Errorf("%w: read %s: %v", ErrTransport, path, err)
	}
	decodeErr := json.Unmarshal(raw, &env)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.observe(resource, op, "http_error", start)
		be := &Error{Op: op, Status: resp.StatusCode}
		if decodeErr == nil {
			be.Code = env.Result.Code
			be.Message = env.Result.Message
		}
		c.log.Warn("backend call rejected", zap.String("op", op), zap.String("path", path), zap.Int("status", resp.StatusCode), zap.String("message", be.Message))
		return env, be
	}
	if decodeErr != nil {
		c.observe(resource, op, "decode_error", start)
		return env, fmt.Errorf("%w: decode %s: %v", ErrTransport, path, decodeErr)
	}
	if !env.Result.OK() {
		c.observe(resource, op, "result_error", start)
		c.log.Warn("backend call failed", zap.String("op", op), zap.String("path", path), zap.Int("code", env.Result.Code), zap.String("message", env.Result.Message))
		return env, &Error{Op: op, Status: resp.StatusCode, Code: env.Result.Code, Message: env.Result.Message}
	}
	c.observe(resource, op, "ok", start)
	c.log.Debug("backend call", zap.String("op", op), zap.String("path", path), zap.Duration("took", time.Since(start)))
	return env, nil
}

func (c *Client) observe(resource, op, outcome string, start time.Time) {
	if c.obs != nil {
		c.obs.ObserveBackendCall(resource, op, outcome, time.Since(start))
	}
}

func withID(path string, id int64) string {
	return strings.TrimRight(path, "/") + "/" + strconv.FormatInt(id, 10)
}

// resourceOf returns the first path segment, used as a low-cardinality metrics label.
func resourceOf(path string) string {
	p := strings.Trim(path, "/")
	if i := strings.IndexByte(p, '/'); i >= 0 {
		return p[:i]
	}
	return p
}

// extractID accepts data shaped as a bare number, a numeric string or an
// object with an "id" field.
func extractID(data json.RawMessage) int64 {
	if len(data) == 0 {
		return 0
	}
	var n int64
	if err := json.Unmarshal(data, &n); err == nil {
		return n
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if v, err := strconv.ParseInt(s, 10, 64); err == nil {
			return v
		}
	}
	var obj struct {
		ID int64 `json:"id"`
	}
	if err := json.Unmarshal(data, &obj); err == nil {
		return obj.ID
	}
	return 0
}
