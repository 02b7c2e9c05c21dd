package mail

import (
	"context"
	"errors"
	"testing"

	"mothernatural-backend/services/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSender struct {
	sent []string
	fail bool
}

func (f *fakeSender) Send(_ context.Context, to, _, _ string) (string, error) {
	if f.fail {
		return "", errors.New("provider unavailable")
	}
	f.sent = append(f.sent, to)
	return "msg_123", nil
}

func TestSendLogsSuccess(t *testing.T) {
	db := testutil.NewTestDB(t, &EmailLog{})
	sender := &fakeSender{}
	svc := NewService(ServiceParams{DB: db, Sender: sender})

	err := svc.Send(context.Background(), "a@example.com", "Hello", "<p>hi</p>", CategoryManual)
	require.NoError(t, err)
	assert.Equal(t, []string{"a@example.com"}, sender.sent)

	logs, err := svc.Logs(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, StatusSent, logs[0].Status)
	assert.Equal(t, "msg_123", logs[0].ProviderID)
}

func TestSendLogsFailure(t *testing.T) {
	db := testutil.NewTestDB(t, &EmailLog{})
	svc := NewService(ServiceParams{DB: db, Sender: &fakeSender{fail: true}})

	err := svc.Send(context.Background(), "a@example.com", "Hello", "<p>hi</p>", CategoryReceipt)
	require.Error(t, err)

	logs, err := svc.Logs(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, StatusFailed, logs[0].Status)
	assert.Contains(t, logs[0].Error, "provider unavailable")
}

func TestBulkWithoutQueue(t *testing.T) {
	db := testutil.NewTestDB(t, &EmailLog{})
	svc := NewService(ServiceParams{DB: db, Sender: &fakeSender{}})

	_, err := svc.Bulk(context.Background(), &BulkRequest{
		Recipients: []string{"a@example.com"},
		Subject:    "Hi",
		HTML:       "<p>hi</p>",
	})
	require.Error(t, err)
}
