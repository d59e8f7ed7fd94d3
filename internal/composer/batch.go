package composer

import (
	"context"

	"github.com/diewo77/store-admin/internal/backend"
)

// Target describes where the lines of one parent kind are created.
type Target struct {
	// Name is the draft target and metrics label ("offer", "spotlight").
	Name string
	// Route is the list URL segment of the parent ("offers").
	Route string
	// Resource is the permission resource of the parent.
	Resource  string
	Title     string
	ParentGet string
	// ItemsList lists existing items, filtered by ParentParam.
	ItemsList   string
	ItemCreate  string
	ParentParam string
	// ParentKey is the JSON field carrying the parent id in the create payload.
	ParentKey string
}

// BatchObserver counts per-item outcomes.
type BatchObserver interface {
	ObserveBatchItem(target, outcome string)
}

// ItemResult is the outcome of one line.
type ItemResult struct {
	Line Line
	Err  error
}

// Report summarises one batch submit.
type Report struct {
	Added   int
	Total   int
	Results []ItemResult
}

// Failed reports whether at least one line was not created.
func (r Report) Failed() bool { return r.Added < r.Total }

func (t Target) payload(parentID int64, l Line) map[string]any {
	return map[string]any{
		"id":           0,
		t.ParentKey:    parentID,
		"productId":    l.ProductID,
		"unitId":       l.UnitID,
		"basicPrice":   l.BasicPrice,
		"specialPrice": l.SpecialPrice,
	}
}

// Submit creates every line with its own call, in order, continuing past
// failures. Created lines leave c; failed ones stay with their error. A
// cancelled context stops the batch and keeps the remaining lines untouched.
func Submit(ctx context.Context, conn *backend.Conn, t Target, parentID int64, c *Composer, obs BatchObserver) Report {
	rep := Report{Total: len(c.Lines)}
	kept := make([]Line, 0, len(c.Lines))
	for i, l := range c.Lines {
		if ctx.Err() != nil {
			kept = append(kept, c.Lines[i:]...)
			break
		}
		l.Error = ""
		_, err := conn.Create(ctx, t.ItemCreate, t.payload(parentID, l))
		outcome := "ok"
		if err != nil {
			outcome = "failed"
			l.Error = backend.Message(err, err.Error())
			kept = append(kept, l)
		} else {
			rep.Added++
		}
		if obs != nil {
			obs.ObserveBatchItem(t.Name, outcome)
		}
		rep.Results = append(rep.Results, ItemResult{Line: l, Err: err})
	}
	c.Lines = kept
	if len(kept) == 0 {
		c.clearPick()
		c.State = StateEmpty
	}
	return rep
}
