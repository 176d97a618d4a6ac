package controllers

import (
	"net/http"
	"testing"

	"modboard/app/models"
	"modboard/app/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestModerationController(t *testing.T) {
	env := setupTestEnv(t)
	for i := 0; i < 7; i++ {
		env.mustPost(t, "pending", models.PostPending)
	}
	approved := env.mustPost(t, "approved", models.PostApproved)
	env.mustPost(t, "rejected", models.PostRejected)
	_, err := env.reports.CreateReport(env.other.ID, models.ReasonOther, "", services.ReportTarget{PostID: &approved.ID})
	require.NoError(t, err)

	t.Run("post queue", func(t *testing.T) {
		w := env.do(http.MethodGet, "/moderation/posts?status=pending&page=2", "", &env.moderator)
		require.Equal(t, http.StatusOK, w.Code)

		var queue services.PostQueue
		decode(t, w, &queue)
		assert.Equal(t, "pending", queue.Status)
		assert.Equal(t, 2, queue.Page.Page)
		assert.Equal(t, 7, queue.Total)
		assert.Equal(t, 2, queue.TotalPages)
		assert.Len(t, queue.Items, 2)
		assert.Equal(t, models.PostCounts{All: 9, Pending: 7, Approved: 1, Rejected: 1}, queue.Counts)
	})

	t.Run("past the last page", func(t *testing.T) {
		w := env.do(http.MethodGet, "/moderation/posts?page=9", "", &env.moderator)
		require.Equal(t, http.StatusOK, w.Code)
		var queue services.PostQueue
		decode(t, w, &queue)
		assert.Empty(t, queue.Items)
		assert.Equal(t, 9, queue.Total)
	})

	t.Run("report queue", func(t *testing.T) {
		w := env.do(http.MethodGet, "/moderation/reports", "", &env.admin)
		require.Equal(t, http.StatusOK, w.Code)
		var queue services.ReportQueue
		decode(t, w, &queue)
		assert.Len(t, queue.Items, 1)
		assert.Equal(t, models.ReportCounts{All: 1, Pending: 1}, queue.Counts)
	})

	t.Run("counts", func(t *testing.T) {
		w := env.do(http.MethodGet, "/moderation/counts", "", &env.moderator)
		require.Equal(t, http.StatusOK, w.Code)
		var body countsResponse
		decode(t, w, &body)
		assert.Equal(t, 9, body.Posts.All)
		assert.Equal(t, 1, body.Reports.Pending)
	})

	t.Run("forbidden and invalid", func(t *testing.T) {
		for _, path := range []string{"/moderation/posts", "/moderation/reports", "/moderation/counts"} {
			assert.Equal(t, http.StatusForbidden, env.do(http.MethodGet, path, "", &env.author).Code, path)
			assert.Equal(t, http.StatusUnauthorized, env.do(http.MethodGet, path, "", nil).Code, path)
		}
		assert.Equal(t, http.StatusBadRequest, env.do(http.MethodGet, "/moderation/posts?status=draft", "", &env.moderator).Code)
	})
}
