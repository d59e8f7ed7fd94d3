// Package store is the dashboard's own small database: operator sessions,
// the audit log, delete confirmations and composer drafts. Resource data is
// never stored here; it belongs to the remote backend.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/diewo77/store-admin/auth"
	"github.com/diewo77/store-admin/internal/backend"
)

var (
	ErrNotFound   = errors.New("store: not found")
	ErrIntentUsed = errors.New("store: delete already confirmed")
)

// Store wraps a gorm connection.
type Store struct {
	db     *gorm.DB
	sealer *Sealer
	now    func() time.Time
}

// New returns a Store sealing tokens with a key derived from secret.
func New(db *gorm.DB, secret string) *Store {
	return &Store{db: db, sealer: NewSealer(secret), now: utcNow}
}

func utcNow() time.Time { return time.Now().UTC() }

// DB exposes the connection for health checks.
func (s *Store) DB() *gorm.DB { return s.db }

// Ping checks the connection.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.WithContext(ctx).Exec("SELECT 1").Error
}

// NewSessionInput is what a successful backend login yields.
type NewSessionInput struct {
	Token  string
	Claims backend.Claims
	TTL    time.Duration
}

// CreateSession stores a session for the token. The session never outlives
// the token's own expiry.
func (s *Store) CreateSession(ctx context.Context, in NewSessionInput) (*Session, error) {
	sealed, err := s.sealer.Seal(in.Token)
	if err != nil {
		return nil, fmt.Errorf("seal token: %w", err)
	}
	now := s.now()
	exp := now.Add(in.TTL)
	if !in.Claims.ExpiresAt.IsZero() && in.Claims.ExpiresAt.Before(exp) {
		exp = in.Claims.ExpiresAt
	}
	sess := &Session{
		ID:          uuid.NewString(),
		Subject:     in.Claims.Subject,
		Name:        in.Claims.Name,
		Role:        in.Claims.Role,
		SealedToken: sealed,
		ExpiresAt:   exp,
	}
	if err := s.db.WithContext(ctx).Create(sess).Error; err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	return sess, nil
}

// LoadIdentity implements auth.Loader. Expired or unknown sessions yield ErrNotFound.
func (s *Store) LoadIdentity(ctx context.Context, sessionID string) (auth.Identity, error) {
	var sess Session
	err := s.db.WithContext(ctx).Where("id = ? AND expires_at > ?", sessionID, s.now()).First(&sess).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return auth.Identity{}, ErrNotFound
	}
	if err != nil {
		return auth.Identity{}, err
	}
	token, err := s.sealer.Open(sess.SealedToken)
	if err != nil {
		return auth.Identity{}, err
	}
	return auth.Identity{
		SessionID: sess.ID,
		Subject:   sess.Subject,
		Name:      sess.Name,
		Role:      sess.Role,
		ExpiresAt: sess.ExpiresAt,
		Auth:      backend.NewAuthContext(token),
	}, nil
}

// SessionRole returns the role of a live session. It backs the permission resolver.
func (s *Store) SessionRole(ctx context.Context, sessionID string) (string, error) {
	var sess Session
	err := s.db.WithContext(ctx).Select("role").Where("id = ? AND expires_at > ?", sessionID, s.now()).First(&sess).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", ErrNotFound
	}
	return sess.Role, err
}

// DeleteSession removes the session together with its drafts and pending intents.
func (s *Store) DeleteSession(ctx context.Context, sessionID string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("session_id = ?", sessionID).Delete(&Draft{}).Error; err != nil {
			return err
		}
		if err := tx.Where("session_id = ?", sessionID).Delete(&DeleteIntent{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", sessionID).Delete(&Session{}).Error
	})
}

// RecordAudit appends an entry.
func (s *Store) RecordAudit(ctx context.Context, entry AuditLog) error {
	if entry.Outcome == "" {
		entry.Outcome = "ok"
	}
	return s.db.WithContext(ctx).Create(&entry).Error
}

// AuditQuery filters the audit listing.
type AuditQuery struct {
	Resource string
	Page     int
	PageSize int
}

// ListAudit returns one page of entries, newest first, and the total count.
func (s *Store) ListAudit(ctx context.Context, q AuditQuery) ([]AuditLog, int64, error) {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PageSize < 1 {
		q.PageSize = 20
	}
	base := s.db.WithContext(ctx).Model(&AuditLog{})
	if q.Resource != "" {
		base = base.Where("resource = ?", q.Resource)
	}
	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var out []AuditLog
	err := base.Order("created_at DESC, id DESC").
		Offset((q.Page - 1) * q.PageSize).Limit(q.PageSize).
		Find(&out).Error
	return out, total, err
}

// CreateDeleteIntent issues a single-use nonce for deleting resource/id.
func (s *Store) CreateDeleteIntent(ctx context.Context, sessionID, resource string, id int64) (string, error) {
	in := DeleteIntent{
		Nonce:     uuid.NewString(),
		SessionID: sessionID,
		Resource:  resource,
		EntityID:  id,
		State:     IntentPending,
	}
	if err := s.db.WithContext(ctx).Create(&in).Error; err != nil {
		return "", fmt.Errorf("create delete intent: %w", err)
	}
	return in.Nonce, nil
}

// ClaimDeleteIntent moves the intent from pending to inflight. Only one
// caller can win; any later or concurrent claim gets ErrIntentUsed.
func (s *Store) ClaimDeleteIntent(ctx context.Context, nonce, sessionID string) (*DeleteIntent, error) {
	res := s.db.WithContext(ctx).Model(&DeleteIntent{}).
		Where("nonce = ? AND session_id = ? AND state = ?", nonce, sessionID, IntentPending).
		Updates(map[string]any{"state": IntentInflight, "updated_at": s.now()})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected != 1 {
		var count int64
		s.db.WithContext(ctx).Model(&DeleteIntent{}).Where("nonce = ? AND session_id = ?", nonce, sessionID).Count(&count)
		if count == 0 {
			return nil, ErrNotFound
		}
		return nil, ErrIntentUsed
	}
	var in DeleteIntent
	if err := s.db.WithContext(ctx).First(&in, "nonce = ?", nonce).Error; err != nil {
		return nil, err
	}
	return &in, nil
}

// FinishDeleteIntent records the outcome of a claimed intent. A failed delete
// returns the intent to pending so the operator can confirm again.
func (s *Store) FinishDeleteIntent(ctx context.Context, nonce string, ok bool) error {
	state := IntentDone
	if !ok {
		state = IntentPending
	}
	return s.db.WithContext(ctx).Model(&DeleteIntent{}).
		Where("nonce = ? AND state = ?", nonce, IntentInflight).
		Updates(map[string]any{"state": state, "updated_at": s.now()}).Error
}

// SaveDraft upserts the payload for (session, target, parent).
func (s *Store) SaveDraft(ctx context.Context, sessionID, target string, parentID int64, payload []byte) error {
	d := Draft{
		ID:        uuid.NewString(),
		SessionID: sessionID,
		Target:    target,
		ParentID:  parentID,
		Payload:   string(payload),
	}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "session_id"}, {Name: "target"}, {Name: "parent_id"}},
		DoUpdates: clause.Assignments(map[string]any{"payload": d.Payload, "updated_at": s.now()}),
	}).Create(&d).Error
}

// LoadDraft returns the stored payload, or nil when there is none.
func (s *Store) LoadDraft(ctx context.Context, sessionID, target string, parentID int64) ([]byte, error) {
	var d Draft
	err := s.db.WithContext(ctx).
		Where("session_id = ? AND target = ? AND parent_id = ?", sessionID, target, parentID).
		First(&d).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return []byte(d.Payload), nil
}

// DeleteDraft discards the draft, if any.
func (s *Store) DeleteDraft(ctx context.Context, sessionID, target string, parentID int64) error {
	return s.db.WithContext(ctx).
		Where("session_id = ? AND target = ? AND parent_id = ?", sessionID, target, parentID).
		Delete(&Draft{}).Error
}

// PurgeStats counts what a purge removed.
type PurgeStats struct {
	Sessions int64
	Intents  int64
	Drafts   int64
}

// Purge drops expired sessions, intents older than intentTTL and drafts
// untouched for draftTTL.
func (s *Store) Purge(ctx context.Context, intentTTL, draftTTL time.Duration) (PurgeStats, error) {
	now := s.now()
	var st PurgeStats
	db := s.db.WithContext(ctx)
	res := db.Where("expires_at <= ?", now).Delete(&Session{})
	if res.Error != nil {
		return st, res.Error
	}
	st.Sessions = res.RowsAffected
	res = db.Where("updated_at < ?", now.Add(-intentTTL)).Delete(&DeleteIntent{})
	if res.Error != nil {
		return st, res.Error
	}
	st.Intents = res.RowsAffected
	res = db.Where("updated_at < ?", now.Add(-draftTTL)).Delete(&Draft{})
	if res.Error != nil {
		return st, res.Error
	}
	st.Drafts = res.RowsAffected
	return st, nil
}
