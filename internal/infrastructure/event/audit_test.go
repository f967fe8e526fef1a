package event

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/opsboard/backend/internal/domain/inventory"
)

func TestAuditLogHandler(t *testing.T) {
	ctx := context.Background()

	t.Run("logs every lifecycle event it receives", func(t *testing.T) {
		core, logs := observer.New(zapcore.InfoLevel)
		bus := NewInMemoryEventBus(zap.NewNop())
		bus.Subscribe(NewAuditLogHandler(zap.New(core)))

		event := makeEvent(inventory.EventTypeStockCountFinalized)
		require.NoError(t, bus.Publish(ctx, event))

		entries := logs.All()
		require.Len(t, entries, 1)
		assert.Equal(t, "audit event", entries[0].Message)

		fields := entries[0].ContextMap()
		assert.Equal(t, inventory.EventTypeStockCountFinalized, fields["event_type"])
		assert.Equal(t, event.AggregateID().String(), fields["aggregate_id"])
		assert.Equal(t, event.CompanyID().String(), fields["company_id"])
	})

	t.Run("ignores event types outside the audit trail", func(t *testing.T) {
		core, logs := observer.New(zapcore.InfoLevel)
		bus := NewInMemoryEventBus(zap.NewNop())
		bus.Subscribe(NewAuditLogHandler(zap.New(core)))

		require.NoError(t, bus.Publish(ctx, makeEvent("SomethingUnrelated")))

		assert.Empty(t, logs.All())
	})

	t.Run("covers the full count lifecycle and batch depletion", func(t *testing.T) {
		types := NewAuditLogHandler(zap.NewNop()).EventTypes()

		assert.ElementsMatch(t, types, []string{
			inventory.EventTypeStockCountCreated,
			inventory.EventTypeStockCountSubmitted,
			inventory.EventTypeStockCountApproved,
			inventory.EventTypeStockCountFinalized,
			inventory.EventTypeStockCountLocked,
			inventory.EventTypeStockBatchDepleted,
		})
	})
}
