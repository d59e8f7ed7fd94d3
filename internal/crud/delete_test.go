package crud

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/diewo77/store-admin/internal/config"
	"github.com/diewo77/store-admin/internal/db"
	"github.com/diewo77/store-admin/internal/store"
)

func newStore(t *testing.T) *store.Store {
	t.Helper()
	cfg := config.DatabaseConfig{Driver: "sqlite", Path: "file:" + t.Name() + "?mode=memory&cache=shared"}
	conn, err := db.Open(cfg, nil)
	require.NoError(t, err)
	require.NoError(t, db.Migrate(conn, cfg, false, nil))
	t.Cleanup(func() {
		if sqlDB, err := conn.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return store.New(conn, "test-secret")
}

func TestDeleteGuardRunsOnce(t *testing.T) {
	g := DeleteGuard{Intents: newStore(t)}
	ctx := context.Background()
	nonce, err := g.Open(ctx, "sid", "categories", 5)
	require.NoError(t, err)

	var calls atomic.Int32
	release := make(chan struct{})
	del := func(context.Context) error {
		calls.Add(1)
		<-release
		return nil
	}

	var wg sync.WaitGroup
	errs := make([]error, 2)
	wg.Add(1)
	go func() {
		defer wg.Done()
		errs[0] = g.Confirm(ctx, "sid", nonce, "categories", 5, del)
	}()
	require.Eventually(t, func() bool { return calls.Load() == 1 }, time.Second, 5*time.Millisecond)

	errs[1] = g.Confirm(ctx, "sid", nonce, "categories", 5, del)
	close(release)
	wg.Wait()

	assert.NoError(t, errs[0])
	assert.ErrorIs(t, errs[1], ErrIntentUsed)
	assert.Equal(t, int32(1), calls.Load())

	err = g.Confirm(ctx, "sid", nonce, "categories", 5, del)
	assert.ErrorIs(t, err, ErrIntentUsed, "a finished intent cannot be replayed")
}

func TestDeleteGuardRejectsForeignOrMismatchedNonce(t *testing.T) {
	g := DeleteGuard{Intents: newStore(t)}
	ctx := context.Background()
	nonce, err := g.Open(ctx, "sid", "categories", 5)
	require.NoError(t, err)
	never := func(context.Context) error { t.Fatal("delete must not run"); return nil }

	assert.ErrorIs(t, g.Confirm(ctx, "other", nonce, "categories", 5, never), ErrIntentInvalid)
	assert.ErrorIs(t, g.Confirm(ctx, "sid", "missing", "categories", 5, never), ErrIntentInvalid)
	assert.ErrorIs(t, g.Confirm(ctx, "sid", nonce, "categories", 6, never), ErrIntentInvalid)
	assert.ErrorIs(t, g.Confirm(ctx, "sid", nonce, "companies", 5, never), ErrIntentInvalid)
}

func TestDeleteGuardFailureAllowsRetry(t *testing.T) {
	g := DeleteGuard{Intents: newStore(t)}
	ctx := context.Background()
	nonce, err := g.Open(ctx, "sid", "units", 9)
	require.NoError(t, err)

	boom := errors.New("backend down")
	err = g.Confirm(ctx, "sid", nonce, "units", 9, func(context.Context) error { return boom })
	assert.ErrorIs(t, err, boom)

	ran := false
	err = g.Confirm(ctx, "sid", nonce, "units", 9, func(context.Context) error { ran = true; return nil })
	assert.NoError(t, err)
	assert.True(t, ran)
}
