package crud

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"net/url"
	"slices"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/diewo77/store-admin/internal/backend"
	"github.com/diewo77/store-admin/validation"
)

// Hidden inputs carried by every dialog.
const (
	BaselineField = "_baseline"
)

// Lookup loads the options of a select. parent is the value of the field the
// select depends on, or "" for independent selects.
type Lookup func(ctx context.Context, conn *backend.Conn, parent string) ([]Option, error)

// FieldView is the render model of one input.
type FieldView struct {
	Field
	ID         string
	Value      string
	Values     []string
	Checked    bool
	Options    []Option
	Error      string
	OptionsURL string
	// Child is the id of the select that must reload when this one changes.
	Child string
}

// DialogView is the render model of the create/edit dialog.
type DialogView struct {
	Title    string
	Action   string
	Cancel   string
	ListHref string
	Editing  bool
	Fields   []FieldView
	Errors   validation.Violations
	// Notice holds the backend failure message of the last submit.
	Notice       string
	Baseline     string
	ConfirmLeave bool
	Signals      map[string]any
}

// Baseline fingerprints form values so a cancel can tell whether anything changed.
func Baseline(vals url.Values) string {
	clean := url.Values{}
	for k, v := range vals {
		if strings.HasPrefix(k, "_") {
			continue
		}
		vs := slices.Clone(v)
		slices.Sort(vs)
		clean[k] = vs
	}
	sum := sha256.Sum256([]byte(clean.Encode()))
	return hex.EncodeToString(sum[:])
}

// Dirty reports whether posted values differ from the baseline they were opened with.
func Dirty(f Form, baseline string) bool {
	return Baseline(f.Values()) != baseline
}

// ReconcileSelection keeps selected only while it is still offered.
func ReconcileSelection(selected string, opts []Option) string {
	for _, o := range opts {
		if o.Value == selected {
			return selected
		}
	}
	return ""
}

// FieldID is the DOM id of an input.
func FieldID(name string) string { return "field-" + name }

// LoadOptions resolves every lookup a form needs in parallel. Dependent
// selects with an empty parent get no options.
func LoadOptions(ctx context.Context, conn *backend.Conn, fields []Field, vals url.Values, lookups map[string]Lookup) (map[string][]Option, error) {
	out := make(map[string][]Option, len(fields))
	results := make([][]Option, len(fields))
	g, gctx := errgroup.WithContext(ctx)
	for i, f := range fields {
		if f.Lookup == "" {
			continue
		}
		lookup, ok := lookups[f.Lookup]
		if !ok {
			continue
		}
		parent := ""
		if f.DependsOn != "" {
			parent = vals.Get(f.DependsOn)
			if parent == "" {
				continue
			}
		}
		g.Go(func() error {
			opts, err := lookup(gctx, conn, parent)
			if err != nil {
				return err
			}
			results[i] = opts
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	for i, f := range fields {
		if f.Lookup != "" {
			out[f.Name] = results[i]
		}
	}
	return out, nil
}

// NewDialog builds the render model for f. options come from LoadOptions;
// optionsBase is the URL prefix of the dependent select endpoint.
func NewDialog(f Form, options map[string][]Option, errs validation.Violations, optionsBase string) DialogView {
	vals := f.Values()
	fields := f.Fields()
	children := map[string]string{}
	for _, fd := range fields {
		if fd.DependsOn != "" {
			children[fd.DependsOn] = fd.Name
		}
	}
	d := DialogView{
		Errors:  errs,
		Signals: map[string]any{},
	}
	// the baseline fingerprints what is rendered, after reconciling selects
	shown := url.Values{}
	for k, v := range vals {
		shown[k] = v
	}
	for _, fd := range fields {
		if fd.ShowIf != "" {
			d.Signals[fd.ShowIf] = vals.Get(fd.ShowIf) != ""
		}
	}
	for _, fd := range fields {
		fv := FieldView{
			Field:   fd,
			ID:      FieldID(fd.Name),
			Value:   vals.Get(fd.Name),
			Values:  vals[fd.Name],
			Checked: fd.Kind == KindCheckbox && vals.Get(fd.Name) != "",
			Options: fd.Options,
			Error:   errs[fd.Name],
		}
		if fd.Lookup != "" {
			fv.Options = options[fd.Name]
		}
		if fd.DependsOn != "" && fd.Kind == KindSelect {
			fv.Value = ReconcileSelection(fv.Value, fv.Options)
			shown.Set(fd.Name, fv.Value)
		}
		if child, ok := children[fd.Name]; ok {
			fv.Child = FieldID(child)
			fv.OptionsURL = optionsBase + child
		}
		d.Fields = append(d.Fields, fv)
	}
	d.Baseline = Baseline(shown)
	return d
}
