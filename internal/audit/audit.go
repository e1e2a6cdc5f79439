// Package audit records admin actions to durable storage and the
// structured log. Recording failures never propagate to the workflow.
package audit

import (
	"context"
	"time"

	"seriesbot/internal/storage"
	"seriesbot/pkg/logx"
)

// Recorder is the audit surface handlers depend on.
type Recorder interface {
	Success(actorID int64, actorLabel, action, detail string)
	Failure(actorID int64, actorLabel, action, errDetail string)
}

type Service struct {
	store *storage.Store
	log   logx.Logger
}

func New(store *storage.Store, log logx.Logger) *Service {
	if log.IsZero() {
		log = logx.Nop()
	}
	return &Service{store: store, log: log}
}

func (s *Service) Success(actorID int64, actorLabel, action, detail string) {
	s.record(storage.AuditEntry{
		ActorID:    actorID,
		ActorLabel: actorLabel,
		Action:     action,
		OK:         true,
		Detail:     detail,
	})
	s.log.Info("audit",
		logx.Int64("actor", actorID),
		logx.String("action", action),
		logx.String("detail", detail),
	)
}

func (s *Service) Failure(actorID int64, actorLabel, action, errDetail string) {
	s.record(storage.AuditEntry{
		ActorID:    actorID,
		ActorLabel: actorLabel,
		Action:     action,
		OK:         false,
		Detail:     errDetail,
	})
	s.log.Warn("audit failure",
		logx.Int64("actor", actorID),
		logx.String("action", action),
		logx.String("detail", errDetail),
	)
}

func (s *Service) record(e storage.AuditEntry) {
	if s.store == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := s.store.AppendAudit(ctx, e); err != nil {
		s.log.Warn("audit append failed", logx.Err(err))
	}
}
