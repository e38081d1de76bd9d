package usecase

import (
	"context"
	"time"

	"github.com/xavierca1/ligue-prospect/internal/entity"
)

// LeadEvents receives domain notifications, typically to feed metrics.
type LeadEvents interface {
	StageChanged(from, to entity.Stage)
	LeadsImported(channel string, count int)
	OrphansMigrated(count int)
	OutreachSent(ok bool)
}

type OutreachSender interface {
	SendOutreach(ctx context.Context, to, subject, body string) error
}

// ProgressFunc receives the cumulative import percentage after each group.
type ProgressFunc func(percent int)

type noopEvents struct{}

func (noopEvents) StageChanged(entity.Stage, entity.Stage) {}
func (noopEvents) LeadsImported(string, int)               {}
func (noopEvents) OrphansMigrated(int)                     {}
func (noopEvents) OutreachSent(bool)                       {}

func eventsOrNoop(e LeadEvents) LeadEvents {
	if e == nil {
		return noopEvents{}
	}
	return e
}

func clockOrNow(now func() time.Time) func() time.Time {
	if now == nil {
		return time.Now
	}
	return now
}

func requirePrincipal(p entity.Principal) error {
	if !p.Authenticated() {
		return ErrUnauthenticated
	}
	return nil
}
