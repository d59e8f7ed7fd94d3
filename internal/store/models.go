package store

import "time"

// Session is one signed-in operator. The backend bearer token is kept sealed;
// the browser cookie only carries the session id.
type Session struct {
	ID          string    `gorm:"primaryKey;size:36"`
	Subject     string    `gorm:"size:255;not null"`
	Name        string    `gorm:"size:255"`
	Role        string    `gorm:"size:64"`
	SealedToken []byte    `gorm:"not null"`
	ExpiresAt   time.Time `gorm:"index;not null"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// AuditLog records a mutation attempted through the dashboard.
type AuditLog struct {
	ID        uint      `gorm:"primaryKey"`
	SessionID string    `gorm:"size:36;index"`
	Actor     string    `gorm:"size:255"` // operator name
	Resource  string    `gorm:"size:64;index"`
	EntityID  int64     // 0 when the backend did not report one
	Action    string    `gorm:"size:32"` // create, update, delete, upload, status...
	Outcome   string    `gorm:"size:16"` // ok | failed
	Message   string    `gorm:"size:1024"`
	CreatedAt time.Time `gorm:"index"`
}

// Delete intent states.
const (
	IntentPending  = "pending"
	IntentInflight = "inflight"
	IntentDone     = "done"
	IntentFailed   = "failed"
)

// DeleteIntent is the single-use token behind a delete confirmation. Claiming
// it moves it from pending to inflight exactly once.
type DeleteIntent struct {
	Nonce     string `gorm:"primaryKey;size:36"`
	SessionID string `gorm:"size:36;index;not null"`
	Resource  string `gorm:"size:64;not null"`
	EntityID  int64  `gorm:"not null"`
	State     string `gorm:"size:16;index;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Draft is the composer line list of one operator for one parent record.
type Draft struct {
	ID        string `gorm:"primaryKey;size:36"`
	SessionID string `gorm:"size:36;not null;uniqueIndex:idx_draft_owner"`
	Target    string `gorm:"size:32;not null;uniqueIndex:idx_draft_owner"` // offer | spotlight
	ParentID  int64  `gorm:"not null;uniqueIndex:idx_draft_owner"`
	Payload   string `gorm:"type:text;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time `gorm:"index"`
}

// Models lists every table for AutoMigrate.
func Models() []any {
	return []any{&Session{}, &AuditLog{}, &DeleteIntent{}, &Draft{}}
}
