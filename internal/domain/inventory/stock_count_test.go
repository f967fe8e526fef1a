package inventory

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDraftCount(t *testing.T) *StockCount {
	t.Helper()
	sc, err := NewStockCount(uuid.New(), uuid.New(), "Central Kitchen", "SC-20260829-0001", time.Now(), uuid.New(), "Ada Fox")
	require.NoError(t, err)
	return sc
}

func addLine(t *testing.T, sc *StockCount, name string, expected float64) uuid.UUID {
	t.Helper()
	err := sc.AddItem(uuid.New(), nil, name, "SKU-"+name, "kg", decimal.NewFromFloat(expected), decimal.NewFromFloat(2))
	require.NoError(t, err)
	return sc.Items[len(sc.Items)-1].ID
}

func TestNewStockCount(t *testing.T) {
	companyID := uuid.New()
	siteID := uuid.New()
	creatorID := uuid.New()

	t.Run("creates count in draft with valid inputs", func(t *testing.T) {
		sc, err := NewStockCount(companyID, siteID, "Central Kitchen", "SC-20260829-0001", time.Now(), creatorID, "Ada Fox")

		require.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, sc.ID)
		assert.Equal(t, companyID, sc.CompanyID)
		assert.Equal(t, siteID, sc.SiteID)
		assert.Equal(t, StockCountStatusDraft, sc.Status)
		assert.Equal(t, creatorID, sc.CreatedByID)
		assert.True(t, sc.TotalVarianceValue.IsZero())
		assert.Len(t, sc.GetDomainEvents(), 1)
	})

	t.Run("fails with empty site ID", func(t *testing.T) {
		_, err := NewStockCount(companyID, uuid.Nil, "Central Kitchen", "SC-001", time.Now(), creatorID, "Ada")

		require.Error(t, err)
		assert.Contains(t, err.Error(), "Site ID cannot be empty")
	})

	t.Run("fails with empty site name", func(t *testing.T) {
		_, err := NewStockCount(companyID, siteID, "", "SC-001", time.Now(), creatorID, "Ada")

		require.Error(t, err)
	})

	t.Run("fails with empty count number", func(t *testing.T) {
		_, err := NewStockCount(companyID, siteID, "Central Kitchen", "", time.Now(), creatorID, "Ada")

		require.Error(t, err)
	})

	t.Run("fails with empty creator ID", func(t *testing.T) {
		_, err := NewStockCount(companyID, siteID, "Central Kitchen", "SC-001", time.Now(), uuid.Nil, "Ada")

		require.Error(t, err)
	})
}

func TestStockCountStatusTransitions(t *testing.T) {
	ordered := []StockCountStatus{
		StockCountStatusDraft,
		StockCountStatusInProgress,
		StockCountStatusCompleted,
		StockCountStatusReadyForApproval,
		StockCountStatusApproved,
		StockCountStatusFinalized,
		StockCountStatusLocked,
	}

	t.Run("only single forward steps are legal", func(t *testing.T) {
		for i, from := range ordered {
			for j, to := range ordered {
				expected := j == i+1
				assert.Equal(t, expected, from.CanTransitionTo(to), "%s -> %s", from, to)
			}
		}
	})

	t.Run("rank is strictly increasing", func(t *testing.T) {
		for i := 1; i < len(ordered); i++ {
			assert.Greater(t, ordered[i].Rank(), ordered[i-1].Rank())
		}
	})

	t.Run("unknown status is invalid", func(t *testing.T) {
		assert.False(t, StockCountStatus("cancelled").IsValid())
		assert.False(t, StockCountStatusDraft.CanTransitionTo(StockCountStatus("cancelled")))
	})

	t.Run("only locked is terminal", func(t *testing.T) {
		for _, s := range ordered[:len(ordered)-1] {
			assert.False(t, s.IsTerminal(), s)
		}
		assert.True(t, StockCountStatusLocked.IsTerminal())
	})
}

func TestStockCountAddItem(t *testing.T) {
	t.Run("adds pending line in draft", func(t *testing.T) {
		sc := newDraftCount(t)
		addLine(t, sc, "Flour", 10)

		require.Len(t, sc.Items, 1)
		assert.Equal(t, StockCountItemStatusPending, sc.Items[0].Status)
		assert.Nil(t, sc.Items[0].CountedQuantity)
	})

	t.Run("rejects duplicate stock item", func(t *testing.T) {
		sc := newDraftCount(t)
		itemID := uuid.New()
		require.NoError(t, sc.AddItem(itemID, nil, "Flour", "SKU-1", "kg", decimal.NewFromInt(10), decimal.NewFromInt(2)))

		err := sc.AddItem(itemID, nil, "Flour", "SKU-1", "kg", decimal.NewFromInt(10), decimal.NewFromInt(2))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "already exists")
	})

	t.Run("allows same stock item under distinct batches", func(t *testing.T) {
		sc := newDraftCount(t)
		itemID := uuid.New()
		batchA := uuid.New()
		batchB := uuid.New()
		require.NoError(t, sc.AddItem(itemID, &batchA, "Milk", "SKU-2", "l", decimal.NewFromInt(6), decimal.NewFromInt(1)))
		require.NoError(t, sc.AddItem(itemID, &batchB, "Milk", "SKU-2", "l", decimal.NewFromInt(4), decimal.NewFromInt(1)))

		assert.Len(t, sc.Items, 2)
	})

	t.Run("rejects items once counting has started", func(t *testing.T) {
		sc := newDraftCount(t)
		addLine(t, sc, "Flour", 10)
		require.NoError(t, sc.Start())

		err := sc.AddItem(uuid.New(), nil, "Butter", "SKU-3", "kg", decimal.NewFromInt(1), decimal.NewFromInt(5))
		require.Error(t, err)

		var precondition *PreconditionFailedError
		require.ErrorAs(t, err, &precondition)
		assert.Equal(t, StockCountStatusDraft, precondition.Required)
		assert.Equal(t, StockCountStatusInProgress, precondition.Actual)
	})
}

func TestStockCountStart(t *testing.T) {
	t.Run("advances draft to in_progress", func(t *testing.T) {
		sc := newDraftCount(t)
		addLine(t, sc, "Flour", 10)

		require.NoError(t, sc.Start())
		assert.Equal(t, StockCountStatusInProgress, sc.Status)
	})

	t.Run("rejects empty count", func(t *testing.T) {
		sc := newDraftCount(t)

		err := sc.Start()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no items")
	})

	t.Run("rejects a second start", func(t *testing.T) {
		sc := newDraftCount(t)
		addLine(t, sc, "Flour", 10)
		require.NoError(t, sc.Start())

		var precondition *PreconditionFailedError
		require.ErrorAs(t, sc.Start(), &precondition)
	})
}

func TestStockCountRecordItemCount(t *testing.T) {
	t.Run("records quantity and tracks progress", func(t *testing.T) {
		sc := newDraftCount(t)
		flourID := addLine(t, sc, "Flour", 10)
		addLine(t, sc, "Butter", 5)
		require.NoError(t, sc.Start())

		require.NoError(t, sc.RecordItemCount(flourID, decimal.NewFromInt(7)))

		assert.Equal(t, 1, sc.ItemsCounted)
		assert.Equal(t, 1, sc.PendingItems())
		assert.Equal(t, StockCountStatusInProgress, sc.Status)
		assert.InDelta(t, 50.0, sc.Progress(), 0.001)
	})

	t.Run("counting the last pending line completes the count", func(t *testing.T) {
		sc := newDraftCount(t)
		flourID := addLine(t, sc, "Flour", 10)
		butterID := addLine(t, sc, "Butter", 5)
		require.NoError(t, sc.Start())

		require.NoError(t, sc.RecordItemCount(flourID, decimal.NewFromInt(7)))
		require.NoError(t, sc.RecordItemCount(butterID, decimal.NewFromInt(5)))

		assert.Equal(t, StockCountStatusCompleted, sc.Status)
		assert.Equal(t, 0, sc.PendingItems())
	})

	t.Run("recount overwrites without inflating the counted total", func(t *testing.T) {
		sc := newDraftCount(t)
		flourID := addLine(t, sc, "Flour", 10)
		addLine(t, sc, "Butter", 5)
		require.NoError(t, sc.Start())

		require.NoError(t, sc.RecordItemCount(flourID, decimal.NewFromInt(7)))
		require.NoError(t, sc.RecordItemCount(flourID, decimal.NewFromInt(9)))

		assert.Equal(t, 1, sc.ItemsCounted)
		assert.True(t, sc.Items[0].CountedQuantity.Equal(decimal.NewFromInt(9)))
	})

	t.Run("zero is a legal counted quantity", func(t *testing.T) {
		sc := newDraftCount(t)
		flourID := addLine(t, sc, "Flour", 10)
		require.NoError(t, sc.Start())

		require.NoError(t, sc.RecordItemCount(flourID, decimal.Zero))
		assert.True(t, sc.Items[0].IsCounted())
	})

	t.Run("rejects negative quantity", func(t *testing.T) {
		sc := newDraftCount(t)
		flourID := addLine(t, sc, "Flour", 10)
		require.NoError(t, sc.Start())

		err := sc.RecordItemCount(flourID, decimal.NewFromInt(-1))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "negative")
	})

	t.Run("rejects unknown line", func(t *testing.T) {
		sc := newDraftCount(t)
		addLine(t, sc, "Flour", 10)
		require.NoError(t, sc.Start())

		err := sc.RecordItemCount(uuid.New(), decimal.NewFromInt(1))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "not found")
	})

	t.Run("rejects recording before start", func(t *testing.T) {
		sc := newDraftCount(t)
		flourID := addLine(t, sc, "Flour", 10)

		var precondition *PreconditionFailedError
		require.ErrorAs(t, sc.RecordItemCount(flourID, decimal.NewFromInt(1)), &precondition)
		assert.Equal(t, StockCountStatusInProgress, precondition.Required)
		assert.Contains(t, precondition.Hint, "start the count")
	})

	t.Run("a completed count accepts corrections", func(t *testing.T) {
		sc := newDraftCount(t)
		flourID := addLine(t, sc, "Flour", 10)
		require.NoError(t, sc.Start())
		require.NoError(t, sc.RecordItemCount(flourID, decimal.NewFromInt(7)))
		require.Equal(t, StockCountStatusCompleted, sc.Status)

		require.NoError(t, sc.RecordItemCount(flourID, decimal.NewFromInt(9)))

		assert.Equal(t, StockCountStatusCompleted, sc.Status)
		assert.Equal(t, 1, sc.ItemsCounted)
		assert.True(t, sc.Items[0].CountedQuantity.Equal(decimal.NewFromInt(9)))
		assert.True(t, sc.TotalVarianceValue.Equal(decimal.NewFromInt(-2)))
	})

	t.Run("rejects recording after submission", func(t *testing.T) {
		sc := newDraftCount(t)
		flourID := addLine(t, sc, "Flour", 10)
		require.NoError(t, sc.Start())
		require.NoError(t, sc.RecordItemCount(flourID, decimal.NewFromInt(7)))
		require.NoError(t, sc.SubmitForApproval())

		var precondition *PreconditionFailedError
		require.ErrorAs(t, sc.RecordItemCount(flourID, decimal.NewFromInt(8)), &precondition)
		assert.Equal(t, StockCountStatusReadyForApproval, precondition.Actual)
		assert.Contains(t, precondition.Hint, "no longer be amended")
	})
}

func TestStockCountVariance(t *testing.T) {
	sc := newDraftCount(t)
	flourID := addLine(t, sc, "Flour", 10)
	butterID := addLine(t, sc, "Butter", 5)
	require.NoError(t, sc.Start())

	require.NoError(t, sc.RecordItemCount(flourID, decimal.NewFromInt(7)))
	require.NoError(t, sc.RecordItemCount(butterID, decimal.NewFromInt(5)))

	// Flour short by 3 at cost 2; butter exact.
	assert.Equal(t, 1, sc.VarianceCount)
	assert.True(t, sc.TotalVarianceValue.Equal(decimal.NewFromInt(-6)), sc.TotalVarianceValue.String())
	assert.True(t, sc.Items[0].HasVariance())
	assert.False(t, sc.Items[1].HasVariance())
	assert.True(t, sc.Items[0].VarianceQuantity().Equal(decimal.NewFromInt(-3)))
}

func fullyCountedCount(t *testing.T) *StockCount {
	t.Helper()
	sc := newDraftCount(t)
	flourID := addLine(t, sc, "Flour", 10)
	require.NoError(t, sc.Start())
	require.NoError(t, sc.RecordItemCount(flourID, decimal.NewFromInt(7)))
	return sc
}

func TestStockCountSubmitForApproval(t *testing.T) {
	t.Run("advances completed to ready_for_approval", func(t *testing.T) {
		sc := fullyCountedCount(t)

		require.NoError(t, sc.SubmitForApproval())
		assert.Equal(t, StockCountStatusReadyForApproval, sc.Status)
	})

	t.Run("rejects submit while still counting", func(t *testing.T) {
		sc := newDraftCount(t)
		addLine(t, sc, "Flour", 10)
		addLine(t, sc, "Butter", 5)
		require.NoError(t, sc.Start())

		var precondition *PreconditionFailedError
		require.ErrorAs(t, sc.SubmitForApproval(), &precondition)
		assert.Equal(t, StockCountStatusCompleted, precondition.Required)
	})
}

func TestStockCountApprove(t *testing.T) {
	t.Run("records approver and advances to approved", func(t *testing.T) {
		sc := fullyCountedCount(t)
		require.NoError(t, sc.SubmitForApproval())

		approverID := uuid.New()
		require.NoError(t, sc.Approve(approverID, "Maya Quinn"))

		assert.Equal(t, StockCountStatusApproved, sc.Status)
		require.NotNil(t, sc.ApprovedBy)
		assert.Equal(t, approverID, *sc.ApprovedBy)
		assert.Equal(t, "Maya Quinn", sc.ApprovedByName)
		assert.NotNil(t, sc.ApprovedAt)
	})

	t.Run("rejects approval before submission", func(t *testing.T) {
		sc := fullyCountedCount(t)

		var precondition *PreconditionFailedError
		require.ErrorAs(t, sc.Approve(uuid.New(), "Maya"), &precondition)
		assert.Equal(t, StockCountStatusReadyForApproval, precondition.Required)
	})

	t.Run("rejects empty approver ID", func(t *testing.T) {
		sc := fullyCountedCount(t)
		require.NoError(t, sc.SubmitForApproval())

		require.Error(t, sc.Approve(uuid.Nil, "Maya"))
	})
}

func TestStockCountFinalize(t *testing.T) {
	approvedCount := func(t *testing.T) *StockCount {
		sc := fullyCountedCount(t)
		require.NoError(t, sc.SubmitForApproval())
		require.NoError(t, sc.Approve(uuid.New(), "Maya Quinn"))
		return sc
	}

	t.Run("records finalizer and variance total", func(t *testing.T) {
		sc := approvedCount(t)
		actorID := uuid.New()

		require.NoError(t, sc.Finalize(actorID, decimal.NewFromInt(-6)))

		assert.Equal(t, StockCountStatusFinalized, sc.Status)
		require.NotNil(t, sc.FinalizedBy)
		assert.Equal(t, actorID, *sc.FinalizedBy)
		assert.True(t, sc.TotalVarianceValue.Equal(decimal.NewFromInt(-6)))
		assert.True(t, sc.IsImmutable())
	})

	t.Run("hint names the missing step per status", func(t *testing.T) {
		cases := map[StockCountStatus]string{
			StockCountStatusInProgress:       "finish counting",
			StockCountStatusCompleted:        "ready for approval",
			StockCountStatusReadyForApproval: "awaiting approval",
			StockCountStatusLocked:           "already been finalized",
		}
		for status, fragment := range cases {
			sc := fullyCountedCount(t)
			sc.Status = status

			err := sc.Finalize(uuid.New(), decimal.Zero)
			var precondition *PreconditionFailedError
			require.ErrorAs(t, err, &precondition, status)
			assert.Contains(t, precondition.Hint, fragment, status)
		}
	})

	t.Run("rejects empty actor", func(t *testing.T) {
		sc := approvedCount(t)
		require.Error(t, sc.Finalize(uuid.Nil, decimal.Zero))
	})
}

func TestStockCountLock(t *testing.T) {
	finalizedCount := func(t *testing.T) *StockCount {
		sc := fullyCountedCount(t)
		require.NoError(t, sc.SubmitForApproval())
		require.NoError(t, sc.Approve(uuid.New(), "Maya Quinn"))
		require.NoError(t, sc.Finalize(uuid.New(), decimal.NewFromInt(-6)))
		return sc
	}

	t.Run("advances finalized to locked", func(t *testing.T) {
		sc := finalizedCount(t)

		require.NoError(t, sc.Lock())
		assert.Equal(t, StockCountStatusLocked, sc.Status)
		assert.NotNil(t, sc.LockedAt)
	})

	t.Run("locking twice is a no-op", func(t *testing.T) {
		sc := finalizedCount(t)
		require.NoError(t, sc.Lock())
		lockedAt := sc.LockedAt
		version := sc.GetVersion()

		require.NoError(t, sc.Lock())
		assert.Equal(t, lockedAt, sc.LockedAt)
		assert.Equal(t, version, sc.GetVersion())
	})

	t.Run("rejects locking before finalize", func(t *testing.T) {
		sc := fullyCountedCount(t)

		var precondition *PreconditionFailedError
		require.ErrorAs(t, sc.Lock(), &precondition)
		assert.Equal(t, StockCountStatusFinalized, precondition.Required)
	})
}
