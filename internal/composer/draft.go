package composer

import (
	"context"
	"encoding/json"
	"fmt"
)

// DraftStore persists composer state per operator session and parent record.
type DraftStore interface {
	SaveDraft(ctx context.Context, sessionID, target string, parentID int64, payload []byte) error
	LoadDraft(ctx context.Context, sessionID, target string, parentID int64) ([]byte, error)
	DeleteDraft(ctx context.Context, sessionID, target string, parentID int64) error
}

// Drafts loads and saves Composer values through a DraftStore.
type Drafts struct {
	Store DraftStore
}

// Load returns the stored composer, or an empty one.
func (d Drafts) Load(ctx context.Context, sessionID, target string, parentID int64) (*Composer, error) {
	raw, err := d.Store.LoadDraft(ctx, sessionID, target, parentID)
	if err != nil {
		return nil, fmt.Errorf("load draft: %w", err)
	}
	c := New()
	if len(raw) == 0 {
		return c, nil
	}
	if err := json.Unmarshal(raw, c); err != nil {
		return nil, fmt.Errorf("decode draft: %w", err)
	}
	if c.Lines == nil {
		c.Lines = []Line{}
	}
	return c, nil
}

// Save stores c. An empty composer deletes the draft instead.
func (d Drafts) Save(ctx context.Context, sessionID, target string, parentID int64, c *Composer) error {
	if c.State == StateEmpty && len(c.Lines) == 0 {
		return d.Store.DeleteDraft(ctx, sessionID, target, parentID)
	}
	raw, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("encode draft: %w", err)
	}
	return d.Store.SaveDraft(ctx, sessionID, target, parentID, raw)
}

// Discard deletes the draft.
func (d Drafts) Discard(ctx context.Context, sessionID, target string, parentID int64) error {
	return d.Store.DeleteDraft(ctx, sessionID, target, parentID)
}
