package contract

import (
	"context"
	"testing"

	"mothernatural-backend/services/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	return NewService(ServiceParams{DB: testutil.NewTestDB(t, &Template{}, &SignedContract{})})
}

func TestTemplateUpsert(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	empty, err := svc.GetTemplate(ctx, "appointment")
	require.NoError(t, err)
	assert.Empty(t, empty.Content)

	_, err = svc.UpdateTemplate(ctx, "appointment", &UpdateTemplateRequest{Content: "v1"})
	require.NoError(t, err)
	_, err = svc.UpdateTemplate(ctx, "appointment", &UpdateTemplateRequest{Content: "v2"})
	require.NoError(t, err)

	row, err := svc.GetTemplate(ctx, "appointment")
	require.NoError(t, err)
	assert.Equal(t, "v2", row.Content)

	rows, err := svc.ListTemplates(ctx)
	require.NoError(t, err)
	assert.Len(t, rows, 1, "updates must not duplicate the template")
}

func TestTemplateTypeValidation(t *testing.T) {
	svc := newTestService(t)
	_, err := svc.GetTemplate(context.Background(), "lease")
	require.Error(t, err)
}

func TestSignSnapshotsContent(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.UpdateTemplate(ctx, "retreat", &UpdateTemplateRequest{Content: "original terms"})
	require.NoError(t, err)

	signed, err := svc.Sign(ctx, &SignRequest{
		TemplateType:  "retreat",
		CustomerName:  "Maya",
		CustomerEmail: "maya@example.com",
		Signature:     "Maya G.",
	})
	require.NoError(t, err)
	assert.Equal(t, "original terms", signed.Content)

	_, err = svc.UpdateTemplate(ctx, "retreat", &UpdateTemplateRequest{Content: "revised terms"})
	require.NoError(t, err)

	rows, err := svc.ListSigned(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "original terms", rows[0].Content, "signature keeps the text as signed")
}

func TestSignRequiresPublishedTemplate(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Sign(context.Background(), &SignRequest{
		TemplateType:  "appointment",
		CustomerName:  "Maya",
		CustomerEmail: "maya@example.com",
		Signature:     "Maya G.",
	})
	require.Error(t, err)
}
