package event

import (
	"context"

	"go.uber.org/zap"

	"github.com/opsboard/backend/internal/domain/inventory"
	"github.com/opsboard/backend/internal/domain/shared"
)

// AuditLogHandler writes one structured log line per stock count lifecycle
// event, giving operators a queryable audit trail of every status change and
// batch depletion.
type AuditLogHandler struct {
	logger *zap.Logger
}

// NewAuditLogHandler creates a new AuditLogHandler
func NewAuditLogHandler(logger *zap.Logger) *AuditLogHandler {
	return &AuditLogHandler{logger: logger}
}

// Handle logs the event with its identifying fields
func (h *AuditLogHandler) Handle(_ context.Context, e shared.DomainEvent) error {
	h.logger.Info("audit event",
		zap.String("event_type", e.EventType()),
		zap.String("event_id", e.EventID().String()),
		zap.String("aggregate_type", e.AggregateType()),
		zap.String("aggregate_id", e.AggregateID().String()),
		zap.String("company_id", e.CompanyID().String()),
		zap.Time("occurred_at", e.OccurredAt()),
	)
	return nil
}

// EventTypes returns the events the audit trail records
func (h *AuditLogHandler) EventTypes() []string {
	return []string{
		inventory.EventTypeStockCountCreated,
		inventory.EventTypeStockCountSubmitted,
		inventory.EventTypeStockCountApproved,
		inventory.EventTypeStockCountFinalized,
		inventory.EventTypeStockCountLocked,
		inventory.EventTypeStockBatchDepleted,
	}
}

var _ shared.EventHandler = (*AuditLogHandler)(nil)
