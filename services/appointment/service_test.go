package appointment

import (
	"context"
	"testing"

	"mothernatural-backend/services/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	db := testutil.NewTestDB(t, &Appointment{}, &EmergencyRequest{})
	return NewService(ServiceParams{DB: db})
}

func TestBookAndDoubleBook(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	req := &BookRequest{
		CustomerEmail: "a@example.com",
		CustomerName:  "A",
		ServiceID:     "svc-1",
		ServiceName:   "Reiki",
		Date:          "2026-09-14",
		TimeSlot:      "10:00",
	}

	row, err := svc.Book(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, StatusConfirmed, row.Status)

	_, err = svc.Book(ctx, req)
	require.Error(t, err, "same service, date, and slot cannot book twice")

	// A different slot on the same day is fine.
	req.TimeSlot = "11:00"
	_, err = svc.Book(ctx, req)
	require.NoError(t, err)
}

func TestCancelFreesSlot(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	req := &BookRequest{
		CustomerEmail: "a@example.com",
		CustomerName:  "A",
		ServiceID:     "svc-1",
		ServiceName:   "Reiki",
		Date:          "2026-09-14",
		TimeSlot:      "10:00",
	}

	row, err := svc.Book(ctx, req)
	require.NoError(t, err)
	require.NoError(t, svc.Cancel(ctx, row.ID))

	_, err = svc.Book(ctx, req)
	require.NoError(t, err, "cancelled slot is bookable again")
}

func TestListFiltersByEmail(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.Book(ctx, &BookRequest{CustomerEmail: "a@example.com", CustomerName: "A", ServiceName: "Reiki", Date: "2026-09-14", TimeSlot: "10:00"})
	require.NoError(t, err)
	_, err = svc.Book(ctx, &BookRequest{CustomerEmail: "b@example.com", CustomerName: "B", ServiceName: "Massage", Date: "2026-09-14", TimeSlot: "12:00"})
	require.NoError(t, err)

	mine, err := svc.List(ctx, "A@example.com")
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "Reiki", mine[0].ServiceName)

	all, err := svc.List(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestEmergencyLifecycle(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	row, err := svc.SubmitEmergency(ctx, &EmergencyRequestInput{
		Name:    "Caller",
		Email:   "caller@example.com",
		Message: "need help",
	})
	require.NoError(t, err)
	assert.Equal(t, "normal", row.Urgency)
	assert.False(t, row.Resolved)

	resolved, err := svc.ResolveEmergency(ctx, row.ID)
	require.NoError(t, err)
	assert.True(t, resolved.Resolved)
	require.NotNil(t, resolved.ResolvedAt)

	// Resolving twice is a no-op, not an error.
	again, err := svc.ResolveEmergency(ctx, row.ID)
	require.NoError(t, err)
	assert.True(t, again.Resolved)
}
