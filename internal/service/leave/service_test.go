package leave

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cmlabs-hris/attendance-payroll-go/internal/domain/leave"
	"github.com/cmlabs-hris/attendance-payroll-go/internal/domain/store"
	"github.com/cmlabs-hris/attendance-payroll-go/internal/domain/user"
	"github.com/cmlabs-hris/attendance-payroll-go/internal/pkg/validator"
	"github.com/cmlabs-hris/attendance-payroll-go/internal/repository/memory"
)

func newID() string { return uuid.Must(uuid.NewV7()).String() }

type fixture struct {
	svc     leave.LeaveService
	repo    leave.LeaveRequestRepository
	storeID string
	staff   context.Context
	admin   context.Context
}

func setup(t *testing.T) *fixture {
	t.Helper()

	db := memory.NewDB()
	st := db.PutStore(store.Store{ID: newID(), Name: "Indiranagar", Timezone: "Asia/Kolkata"})
	staffID := newID()

	// 20:00 UTC on 9 March is already 10 March in Kolkata
	now := time.Date(2026, 3, 9, 20, 0, 0, 0, time.UTC)
	repo := memory.NewLeaveRequestRepository(db)

	return &fixture{
		svc:     NewLeaveService(repo, memory.NewStoreRepository(db), store.DefaultPolicy(), func() time.Time { return now }),
		repo:    repo,
		storeID: st.ID,
		staff:   user.WithPrincipal(context.Background(), user.Staff{ID: staffID, StoreID: st.ID}),
		admin:   user.WithPrincipal(context.Background(), user.Admin{ID: newID(), StoreIDs: []string{st.ID}}),
	}
}

func TestApply(t *testing.T) {
	f := setup(t)

	resp, err := f.svc.Apply(f.staff, leave.ApplyLeaveRequest{LeaveDate: "2026-03-11", Reason: "  exam  "})
	require.NoError(t, err)
	assert.Equal(t, "pending", resp.Status)
	assert.Equal(t, "paid", resp.Type)
	assert.Equal(t, "exam", resp.Reason)
	assert.Equal(t, f.storeID, resp.StoreID)

	_, err = f.svc.Apply(f.staff, leave.ApplyLeaveRequest{LeaveDate: "2026-03-11", Reason: "again"})
	assert.ErrorIs(t, err, leave.ErrDuplicateRequest)

	_, err = f.svc.Apply(f.staff, leave.ApplyLeaveRequest{LeaveDate: "2026-03-10", Reason: "today in store time"})
	assert.ErrorIs(t, err, leave.ErrInvalidDate)

	_, err = f.svc.Apply(f.staff, leave.ApplyLeaveRequest{LeaveDate: "tomorrow", Reason: "x"})
	var validationErrs validator.ValidationErrors
	assert.ErrorAs(t, err, &validationErrs)

	_, err = f.svc.Apply(f.admin, leave.ApplyLeaveRequest{LeaveDate: "2026-03-11", Reason: "x"})
	assert.ErrorIs(t, err, user.ErrForbidden)
}

func TestQuotaCountsOnlyApproved(t *testing.T) {
	f := setup(t)

	first, err := f.svc.Apply(f.staff, leave.ApplyLeaveRequest{LeaveDate: "2026-03-12", Reason: "a"})
	require.NoError(t, err)
	second, err := f.svc.Apply(f.staff, leave.ApplyLeaveRequest{LeaveDate: "2026-03-13", Reason: "b"})
	require.NoError(t, err)

	// two pending requests do not block a third
	third, err := f.svc.Apply(f.staff, leave.ApplyLeaveRequest{LeaveDate: "2026-03-14", Reason: "c"})
	require.NoError(t, err)

	_, err = f.svc.Approve(f.admin, first.ID)
	require.NoError(t, err)
	_, err = f.svc.Approve(f.admin, second.ID)
	require.NoError(t, err)

	_, err = f.svc.Apply(f.staff, leave.ApplyLeaveRequest{LeaveDate: "2026-03-20", Reason: "d"})
	assert.ErrorIs(t, err, leave.ErrQuotaExceeded)

	// the pending third request can still be decided
	_, err = f.svc.Reject(f.admin, leave.RejectLeaveRequest{ID: third.ID, Reason: "quota used"})
	require.NoError(t, err)

	_, err = f.svc.Apply(f.staff, leave.ApplyLeaveRequest{LeaveDate: "2026-04-02", Reason: "next month"})
	assert.NoError(t, err)
}

func TestDecisions(t *testing.T) {
	f := setup(t)

	applied, err := f.svc.Apply(f.staff, leave.ApplyLeaveRequest{LeaveDate: "2026-03-12", Reason: "a"})
	require.NoError(t, err)

	t.Run("only managers of the store decide", func(t *testing.T) {
		outsider := user.WithPrincipal(context.Background(), user.Admin{ID: newID(), StoreIDs: []string{newID()}})
		_, err := f.svc.Approve(outsider, applied.ID)
		assert.ErrorIs(t, err, user.ErrForbidden)

		_, err = f.svc.Approve(f.staff, applied.ID)
		assert.ErrorIs(t, err, user.ErrForbidden)
	})

	t.Run("rejection is final", func(t *testing.T) {
		rejected, err := f.svc.Reject(f.admin, leave.RejectLeaveRequest{ID: applied.ID, Reason: "busy week"})
		require.NoError(t, err)
		assert.Equal(t, "rejected", rejected.Status)
		require.NotNil(t, rejected.RejectionReason)
		assert.Equal(t, "busy week", *rejected.RejectionReason)

		_, err = f.svc.Approve(f.admin, applied.ID)
		assert.ErrorIs(t, err, leave.ErrLeaveAlreadyProcessed)
	})

	t.Run("unknown request", func(t *testing.T) {
		_, err := f.svc.Approve(f.admin, newID())
		assert.ErrorIs(t, err, leave.ErrLeaveRequestNotFound)
	})

	t.Run("store listing with status filter", func(t *testing.T) {
		rejected := "rejected"
		list, err := f.svc.ListStoreRequests(f.admin, leave.StoreLeaveFilter{StoreID: f.storeID, Status: &rejected})
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, applied.ID, list[0].ID)

		pending := "pending"
		list, err = f.svc.ListStoreRequests(f.admin, leave.StoreLeaveFilter{StoreID: f.storeID, Status: &pending})
		require.NoError(t, err)
		assert.Empty(t, list)
	})

	t.Run("own requests", func(t *testing.T) {
		mine, err := f.svc.GetMyRequests(f.staff)
		require.NoError(t, err)
		assert.Len(t, mine, 1)
	})
}
