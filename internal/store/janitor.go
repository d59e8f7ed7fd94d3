package store

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

const (
	DefaultIntentTTL = 30 * time.Minute
	DefaultDraftTTL  = 7 * 24 * time.Hour
)

// Janitor runs Purge on a cron schedule.
type Janitor struct {
	cron      *cron.Cron
	store     *Store
	log       *zap.Logger
	intentTTL time.Duration
	draftTTL  time.Duration
}

// NewJanitor schedules the purge; schedule is a standard cron expression or a
// descriptor such as "@hourly".
func NewJanitor(s *Store, schedule string, log *zap.Logger) (*Janitor, error) {
	if log == nil {
		log = zap.NewNop()
	}
	j := &Janitor{
		cron:      cron.New(),
		store:     s,
		log:       log,
		intentTTL: DefaultIntentTTL,
		draftTTL:  DefaultDraftTTL,
	}
	if _, err := j.cron.AddFunc(schedule, j.RunOnce); err != nil {
		return nil, fmt.Errorf("janitor schedule %q: %w", schedule, err)
	}
	return j, nil
}

// RunOnce performs one purge and logs what it removed.
func (j *Janitor) RunOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	st, err := j.store.Purge(ctx, j.intentTTL, j.draftTTL)
	if err != nil {
		j.log.Error("janitor purge failed", zap.Error(err))
		return
	}
	j.log.Info("janitor purge",
		zap.Int64("sessions", st.Sessions),
		zap.Int64("intents", st.Intents),
		zap.Int64("drafts", st.Drafts))
}

// Start begins the schedule in the background.
func (j *Janitor) Start() { j.cron.Start() }

// Stop halts the schedule and waits for a running purge to finish.
func (j *Janitor) Stop() {
	<-j.cron.Stop().Done()
}
