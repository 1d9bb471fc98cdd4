package main

import (
	"context"

	"github.com/escrowdesk/escrowdesk/internal/audit"
	auditsqlite "github.com/escrowdesk/escrowdesk/internal/audit/sqlite"
)

// openAudit opens the local action trail. Callers must Close it.
func openAudit() (audit.Recorder, error) {
	rec, err := auditsqlite.New(cfg.AuditDBPath)
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// recordAudit appends to the trail best-effort; a broken local database
// must never block an operator action.
func recordAudit(ctx context.Context, rec audit.Recorder, action audit.Action, subject, detail string) {
	if rec == nil {
		return
	}
	if err := rec.Record(ctx, action, subject, detail); err != nil {
		logger.Warn().Err(err).Str("action", string(action)).Msg("failed to record audit entry")
	}
}
