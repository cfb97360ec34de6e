// filepath: internal/audit/auditor.go
// Package audit records security-relevant events to the application log.
package audit

import (
	"context"

	"ranktrack/internal/logging"
	"ranktrack/internal/services"

	"github.com/sirupsen/logrus"
)

var _ services.Auditor = (*LogrusAuditor)(nil)

// LogrusAuditor writes audit events as structured log entries. When disabled
// it drops events silently.
type LogrusAuditor struct {
	enabled bool
}

// NewLogrusAuditor creates an auditor. enabled usually comes from the
// logging.audit_enabled config switch.
func NewLogrusAuditor(enabled bool) *LogrusAuditor {
	return &LogrusAuditor{enabled: enabled}
}

// Log records one audit event.
func (a *LogrusAuditor) Log(ctx context.Context, action, actor, resource string, details map[string]interface{}) {
	if !a.enabled {
		return
	}
	fields := logrus.Fields{
		"audit":    true,
		"action":   action,
		"actor":    actor,
		"resource": resource,
	}
	for k, v := range details {
		fields["detail_"+k] = v
	}
	logging.Log.WithFields(fields).Info("audit event")
}
