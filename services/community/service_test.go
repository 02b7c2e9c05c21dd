package community

import (
	"context"
	"encoding/json"
	"testing"

	"mothernatural-backend/pkg/db/pagination"
	"mothernatural-backend/services/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	return NewService(ServiceParams{DB: testutil.NewTestDB(t, &Post{})})
}

func TestCreateAndList(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, "u1", "maya@example.com", &CreatePostRequest{Content: "first!"})
	require.NoError(t, err)

	rows, info, err := svc.List(ctx, &pagination.Pagination{})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "first!", rows[0].Content)
	assert.False(t, info.HasMore)
}

func TestListPaginates(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, err := svc.Create(ctx, "u1", "maya@example.com", &CreatePostRequest{Content: "post"})
		require.NoError(t, err)
	}

	first, info, err := svc.List(ctx, &pagination.Pagination{Limit: 2})
	require.NoError(t, err)
	require.Len(t, first, 2)
	require.True(t, info.HasMore)
	require.NotEmpty(t, info.NextCursor)

	seen := map[string]bool{first[0].ID: true, first[1].ID: true}
	cursor := info.NextCursor
	total := 2
	for cursor != "" {
		rows, next, err := svc.List(ctx, &pagination.Pagination{Limit: 2, Cursor: cursor})
		require.NoError(t, err)
		for _, row := range rows {
			assert.False(t, seen[row.ID], "no post repeats across pages")
			seen[row.ID] = true
		}
		total += len(rows)
		cursor = next.NextCursor
	}
	assert.Equal(t, 5, total)
}

func TestListRejectsBadCursor(t *testing.T) {
	svc := newTestService(t)
	_, _, err := svc.List(context.Background(), &pagination.Pagination{Cursor: "not-a-cursor"})
	require.Error(t, err)
}

func TestLikeIncrements(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	post, err := svc.Create(ctx, "u1", "maya@example.com", &CreatePostRequest{Content: "hello"})
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		_, err = svc.Like(ctx, post.ID)
		require.NoError(t, err)
	}

	fresh, err := svc.Get(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, fresh.Likes)
}

func TestCommentsAppend(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	post, err := svc.Create(ctx, "u1", "maya@example.com", &CreatePostRequest{Content: "hello"})
	require.NoError(t, err)

	_, err = svc.Comment(ctx, post.ID, "a@example.com", &CommentRequest{Content: "nice"})
	require.NoError(t, err)
	updated, err := svc.Comment(ctx, post.ID, "b@example.com", &CommentRequest{Content: "agreed"})
	require.NoError(t, err)

	var comments []Comment
	require.NoError(t, json.Unmarshal(updated.Comments, &comments))
	require.Len(t, comments, 2)
	assert.Equal(t, "nice", comments[0].Content)
	assert.Equal(t, "agreed", comments[1].Content)
}

func TestDeleteMissingPost(t *testing.T) {
	svc := newTestService(t)
	err := svc.Delete(context.Background(), "nope")
	require.Error(t, err)
}
