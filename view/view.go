// Package view renders the html/template pages and fragments. Templates are
// embedded; in DEV mode they are read from disk on every request.
package view

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/diewo77/store-admin/auth"
	"github.com/diewo77/store-admin/i18n"
)

//go:embed templates
var embedded embed.FS

//go:embed static
var static embed.FS

var (
	mu       sync.RWMutex
	source   fs.FS
	devMode  bool
	tplCache = map[string]*template.Template{}

	langResolver  = func(r *http.Request) string { return i18n.LangFromContext(r.Context()) }
	themeResolver = func(_ *http.Request) string { return "system" }
	// permission resolvers are set by the host app so templates can hide actions
	canProfileResolver func(*http.Request, string, string) bool
	isAdminResolver    func(*http.Request) bool
	flashResolver      func(http.ResponseWriter, *http.Request) any
)

func init() {
	sub, err := fs.Sub(embedded, "templates")
	if err != nil {
		panic(err)
	}
	source = sub
}

// SetDir reads templates from dir instead of the embedded copy and disables caching.
func SetDir(dir string) {
	mu.Lock()
	defer mu.Unlock()
	if dir == "" {
		return
	}
	source = os.DirFS(dir)
	devMode = true
	tplCache = map[string]*template.Template{}
}

// SetLangResolver allows the host app to provide a custom language resolver.
func SetLangResolver(f func(*http.Request) string) {
	if f != nil {
		langResolver = f
	}
}

// SetThemeResolver allows the host app to provide a custom theme resolver.
func SetThemeResolver(f func(*http.Request) string) {
	if f != nil {
		themeResolver = f
	}
}

// SetCanProfileResolver sets a callback used by templates to check profile-level permissions.
func SetCanProfileResolver(f func(*http.Request, string, string) bool) {
	if f != nil {
		canProfileResolver = f
	}
}

// SetIsAdminResolver sets a callback used by templates to determine superadmin users.
func SetIsAdminResolver(f func(*http.Request) bool) {
	if f != nil {
		isAdminResolver = f
	}
}

// SetFlashResolver sets the callback that pops the pending notification.
func SetFlashResolver(f func(http.ResponseWriter, *http.Request) any) {
	if f != nil {
		flashResolver = f
	}
}

// Funcs returns the standard func map including i18n and simple helpers.
func Funcs(r *http.Request) template.FuncMap {
	lang := i18n.DefaultLang
	theme := "system"
	if r != nil {
		lang = langResolver(r)
		theme = themeResolver(r)
	}
	return template.FuncMap{
		"t":     func(code string) string { return i18n.T(lang, code) },
		"tf":    func(code string, args ...any) string { return i18n.Tf(lang, code, args...) },
		"lang":  func() string { return lang },
		"dir":   func() string { return i18n.Dir(lang) },
		"theme": func() string { return theme },
		// pick returns en or ar depending on the request language
		"pick": func(en, ar string) string {
			if lang == i18n.LangAR && ar != "" {
				return ar
			}
			return en
		},
		"can": func(resource string, action string) bool {
			if canProfileResolver == nil || r == nil {
				return false
			}
			return canProfileResolver(r, resource, action)
		},
		"isAdmin": func() bool {
			if isAdminResolver == nil || r == nil {
				return false
			}
			return isAdminResolver(r)
		},
		"year": func() int { return time.Now().Year() },
		"add":  func(a, b int) int { return a + b },
		"sub":  func(a, b int) int { return a - b },
		"date": func(t time.Time) string {
			if t.IsZero() {
				return ""
			}
			return t.Format("2006-01-02 15:04")
		},
		"money": func(v float64) string { return fmt.Sprintf("%.2f", v) },
		"json": func(v any) (template.JS, error) {
			b, err := json.Marshal(v)
			return template.JS(b), err
		},
		// dict creates a map from key-value pairs for passing to sub-templates.
		// Usage: {{ template "partial" (dict "Key1" val1 "Key2" val2) }}
		"dict": func(values ...any) map[string]any {
			if len(values)%2 != 0 {
				return nil
			}
			m := make(map[string]any, len(values)/2)
			for i := 0; i < len(values); i += 2 {
				key, ok := values[i].(string)
				if !ok {
					continue
				}
				m[key] = values[i+1]
			}
			return m
		},
		"contains": func(list []string, v string) bool {
			for _, s := range list {
				if s == v {
					return true
				}
			}
			return false
		},
		"upper": strings.ToUpper,
		"list":  func(items ...string) []string { return items },
		// code turns a route segment into its translation code
		"code": func(s string) string { return strings.ReplaceAll(s, "-", "_") },
	}
}

func parse(key string, pages ...string) (*template.Template, error) {
	mu.RLock()
	t, ok := tplCache[key]
	src, dev := source, devMode
	mu.RUnlock()
	if ok {
		return t, nil
	}
	t = template.New("layout.html").Funcs(Funcs(nil))
	var err error
	if t, err = t.ParseFS(src, "layout.html", "partials/*.html"); err != nil {
		return nil, err
	}
	for _, p := range pages {
		if t, err = t.ParseFS(src, p); err != nil {
			return nil, err
		}
	}
	if !dev {
		mu.Lock()
		tplCache[key] = t
		mu.Unlock()
	}
	return t, nil
}

func execute(w http.ResponseWriter, r *http.Request, status int, t *template.Template, name string, data any) error {
	clone, err := t.Clone()
	if err != nil {
		return err
	}
	clone.Funcs(Funcs(r))
	var buf bytes.Buffer
	if err := clone.ExecuteTemplate(&buf, name, data); err != nil {
		return err
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err = buf.WriteTo(w)
	return err
}

// Render executes pages/<name> inside the layout with status 200.
func Render(w http.ResponseWriter, r *http.Request, name string, data map[string]any) error {
	return RenderStatus(w, r, http.StatusOK, name, data)
}

// RenderStatus is Render with an explicit status code.
func RenderStatus(w http.ResponseWriter, r *http.Request, status int, name string, data map[string]any) error {
	// Ensure data map exists and inject common defaults to avoid template errors.
	if data == nil {
		data = map[string]any{}
	}
	if _, exists := data["Year"]; !exists {
		data["Year"] = time.Now().Year()
	}
	id, loggedIn := auth.IdentityFrom(r.Context())
	data["IsLoggedIn"] = loggedIn
	data["User"] = id
	data["Path"] = r.URL.Path
	if _, exists := data["Flash"]; !exists && flashResolver != nil {
		data["Flash"] = flashResolver(w, r)
	}
	t, err := parse("page:"+name, "pages/"+name)
	if err != nil {
		return err
	}
	return execute(w, r, status, t, "layout.html", data)
}

// Static serves the embedded stylesheet and scripts under /static/.
func Static() http.Handler {
	sub, err := fs.Sub(static, "static")
	if err != nil {
		panic(err)
	}
	return http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
}

// RenderFragment executes a template defined in the partials without the layout.
func RenderFragment(w http.ResponseWriter, r *http.Request, status int, name string, data any) error {
	t, err := parse("partials")
	if err != nil {
		return err
	}
	return execute(w, r, status, t, name, data)
}
