package crud

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/diewo77/store-admin/auth"
	"github.com/diewo77/store-admin/gate"
	"github.com/diewo77/store-admin/internal/backend"
	"github.com/diewo77/store-admin/internal/store"
)

// Endpoints are the backend paths of one resource.
type Endpoints struct {
	List    string
	Get     string
	Create  string
	Update  string
	Delete  string
	ValidID string
}

// Standard returns the conventional /{Name}/{Op} endpoint set.
func Standard(name string) Endpoints {
	p := "/" + name + "/"
	return Endpoints{
		List:    p + "List",
		Get:     p + "Get",
		Create:  p + "Create",
		Update:  p + "Update",
		Delete:  p + "Delete",
		ValidID: p + "GetValidId",
	}
}

// Filter is one list filter, sent to the backend under Param.
type Filter struct {
	Param   string
	Label   string
	Kind    Kind
	Options []Option
	Lookup  string
}

// ToolbarLink is an extra list action such as an export.
type ToolbarLink struct {
	Href   string
	Label  string
	Action gate.Action
}

// Resource declares one CRUD screen. Everything resource specific lives
// here; the Handler provides the behaviour.
type Resource[T any] struct {
	// Name is the URL segment and the permission resource.
	Name      string
	Title     string
	Endpoints Endpoints
	// TwoStepCreate fetches a valid id before the create call.
	TwoStepCreate bool
	Columns       []Column[T]
	ItemID        func(T) int64
	Filters       []Filter
	NewForm       func() Form
	EditForm      func(T) Form
	Lookups       map[string]Lookup
	// ReadOnly resources have no create or edit dialog.
	ReadOnly bool
	NoDelete bool
	// DeleteWarning is the translation code shown in the confirm dialog.
	DeleteWarning string
	// Debounce delays search requests by 500ms.
	Debounce bool
	Toolbar  []ToolbarLink
	// Extra mounts additional routes under the resource base.
	Extra func(r chi.Router, require Guard)
}

// AuditRecorder stores an entry per attempted mutation.
type AuditRecorder interface {
	RecordAudit(ctx context.Context, entry store.AuditLog) error
}

// Deps are the collaborators every Handler shares.
type Deps struct {
	Client          *backend.Client
	Inflight        *Inflight
	Intents         IntentStore
	Audit           AuditRecorder
	Can             func(r *http.Request, resource string, action gate.Action) bool
	Log             *zap.Logger
	DefaultPageSize int
}

// Conn binds the backend client to the operator of r.
func (d Deps) Conn(r *http.Request) *backend.Conn {
	id, _ := auth.IdentityFrom(r.Context())
	return d.Client.For(id.Auth)
}

func (d Deps) can(r *http.Request, resource string, action gate.Action) bool {
	if d.Can == nil {
		return true
	}
	return d.Can(r, resource, action)
}

// Record writes an audit entry, logging rather than failing on store errors.
func (d Deps) Record(r *http.Request, resource string, id int64, action string, err error, message string) {
	if d.Audit == nil {
		return
	}
	who, _ := auth.IdentityFrom(r.Context())
	entry := store.AuditLog{
		SessionID: who.SessionID,
		Actor:     who.Name,
		Resource:  resource,
		EntityID:  id,
		Action:    action,
		Outcome:   "ok",
		Message:   message,
	}
	if err != nil {
		entry.Outcome = "failed"
		entry.Message = backend.Message(err, err.Error())
	}
	if aerr := d.Audit.RecordAudit(context.WithoutCancel(r.Context()), entry); aerr != nil && d.Log != nil {
		d.Log.Warn("audit write failed", zap.String("resource", resource), zap.Error(aerr))
	}
}
