package crud

import (
	"context"
	"errors"
	"fmt"

	"github.com/diewo77/store-admin/internal/store"
)

// IntentStore persists single-use delete confirmations.
type IntentStore interface {
	CreateDeleteIntent(ctx context.Context, sessionID, resource string, id int64) (string, error)
	ClaimDeleteIntent(ctx context.Context, nonce, sessionID string) (*store.DeleteIntent, error)
	FinishDeleteIntent(ctx context.Context, nonce string, ok bool) error
}

// Delete guard errors.
var (
	ErrIntentUsed    = errors.New("crud: delete already submitted")
	ErrIntentInvalid = errors.New("crud: delete confirmation invalid")
)

// DeleteGuard turns a confirmation into exactly one delete call: the nonce
// handed to the confirm dialog can be claimed once, and a second submit while
// the first is in flight is refused.
type DeleteGuard struct {
	Intents IntentStore
}

// Open issues the nonce for one confirm dialog.
func (g DeleteGuard) Open(ctx context.Context, sessionID, resource string, id int64) (string, error) {
	return g.Intents.CreateDeleteIntent(ctx, sessionID, resource, id)
}

// Confirm claims nonce for resource/id and runs del. A failed del releases the
// nonce so the operator can retry from the same dialog.
func (g DeleteGuard) Confirm(ctx context.Context, sessionID, nonce, resource string, id int64, del func(context.Context) error) error {
	intent, err := g.Intents.ClaimDeleteIntent(ctx, nonce, sessionID)
	switch {
	case errors.Is(err, store.ErrIntentUsed):
		return ErrIntentUsed
	case errors.Is(err, store.ErrNotFound):
		return ErrIntentInvalid
	case err != nil:
		return err
	}
	if intent.Resource != resource || intent.EntityID != id {
		_ = g.Intents.FinishDeleteIntent(ctx, nonce, false)
		return ErrIntentInvalid
	}
	derr := del(ctx)
	if ferr := g.Intents.FinishDeleteIntent(context.WithoutCancel(ctx), nonce, derr == nil); ferr != nil && derr == nil {
		return fmt.Errorf("finish delete intent: %w", ferr)
	}
	return derr
}
