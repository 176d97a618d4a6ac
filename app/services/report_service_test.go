package services

import (
	"testing"

	"modboard/app/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateReport(t *testing.T) {
	f := newFixture(t)
	post := f.mustPost(t, "suspicious")
	comment := f.mustComment(t, post.ID, f.author)

	r, err := f.reports.CreateReport(f.other.ID, models.ReasonHarassment, " <i>rude</i> ", onComment(comment.ID))
	require.NoError(t, err)
	assert.Equal(t, models.ReportPending, r.Status)
	assert.Equal(t, "rude", r.Description)
	assert.Nil(t, r.PostID)
	require.NotNil(t, r.CommentID)
	assert.Equal(t, comment.ID, *r.CommentID)

	postID, commentID := post.ID, comment.ID
	tests := []struct {
		name    string
		reason  models.ReportReason
		target  ReportTarget
		wantErr error
	}{
		{"neither target", models.ReasonSpam, ReportTarget{}, ErrValidation},
		{"both targets", models.ReasonSpam, ReportTarget{PostID: &postID, CommentID: &commentID}, ErrValidation},
		{"missing post", models.ReasonSpam, onPost(999), ErrValidation},
		{"missing comment", models.ReasonSpam, onComment(999), ErrValidation},
		{"unknown reason", "boring", onPost(post.ID), ErrValidation},
		{"empty reason", "", onPost(post.ID), ErrValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.reports.CreateReport(f.other.ID, tt.reason, "", tt.target)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	_, err = f.reports.CreateReport(999, models.ReasonOther, "", onPost(post.ID))
	assert.ErrorIs(t, err, ErrNotFound)

	pending, err := f.reports.ListPendingReports()
	require.NoError(t, err)
	assert.Len(t, pending, 1)
}

func TestUpdateReportStatus(t *testing.T) {
	f := newFixture(t)
	post := f.mustPost(t, "reported")
	resolveMe := f.mustReport(t, onPost(post.ID))
	dismissMe := f.mustReport(t, onPost(post.ID))

	tests := []struct {
		name    string
		id      int
		status  models.ReportStatus
		actor   models.Actor
		want    models.ReportStatus
		wantErr error
	}{
		{"pending is not a target", resolveMe.ID, models.ReportPending, actorOf(f.moderator), "", ErrValidation},
		{"unknown status", resolveMe.ID, "closed", actorOf(f.moderator), "", ErrValidation},
		{"unknown report", 999, models.ReportResolved, actorOf(f.moderator), "", ErrNotFound},
		{"user cannot resolve", resolveMe.ID, models.ReportResolved, actorOf(f.other), "", ErrForbidden},
		{"moderator resolves", resolveMe.ID, models.ReportResolved, actorOf(f.moderator), models.ReportResolved, nil},
		{"resolving again is idempotent", resolveMe.ID, models.ReportResolved, actorOf(f.admin), models.ReportResolved, nil},
		{"resolved cannot become dismissed", resolveMe.ID, models.ReportDismissed, actorOf(f.admin), "", ErrValidation},
		{"admin dismisses", dismissMe.ID, models.ReportDismissed, actorOf(f.admin), models.ReportDismissed, nil},
		{"dismissed cannot become resolved", dismissMe.ID, models.ReportResolved, actorOf(f.moderator), "", ErrValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := f.reports.UpdateReportStatus(tt.id, tt.status, tt.actor)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Status)
		})
	}

	r, err := f.reports.GetReport(resolveMe.ID, actorOf(f.moderator))
	require.NoError(t, err)
	assert.Equal(t, models.ReportResolved, r.Status)
}

func TestListPendingReportsOldestFirst(t *testing.T) {
	f := newFixture(t)
	post := f.mustPost(t, "popular target")
	var ids []int
	for i := 0; i < 4; i++ {
		ids = append(ids, f.mustReport(t, onPost(post.ID)).ID)
	}
	_, err := f.reports.UpdateReportStatus(ids[1], models.ReportDismissed, actorOf(f.moderator))
	require.NoError(t, err)

	pending, err := f.reports.ListPendingReports()
	require.NoError(t, err)
	var got []int
	for _, r := range pending {
		assert.Equal(t, models.ReportPending, r.Status)
		got = append(got, r.ID)
	}
	assert.Equal(t, []int{ids[0], ids[2], ids[3]}, got)
}

func TestListAndGetReports(t *testing.T) {
	f := newFixture(t)
	post := f.mustPost(t, "target")
	a := f.mustReport(t, onPost(post.ID))
	b := f.mustReport(t, onPost(post.ID))
	_, err := f.reports.UpdateReportStatus(b.ID, models.ReportResolved, actorOf(f.moderator))
	require.NoError(t, err)

	all, err := f.reports.ListReports("all", actorOf(f.moderator))
	require.NoError(t, err)
	assert.Len(t, all, 2)

	resolved, err := f.reports.ListReports("resolved", actorOf(f.admin))
	require.NoError(t, err)
	require.Len(t, resolved, 1)
	assert.Equal(t, b.ID, resolved[0].ID)

	_, err = f.reports.ListReports("all", actorOf(f.author))
	assert.ErrorIs(t, err, ErrForbidden)
	_, err = f.reports.ListReports("closed", actorOf(f.moderator))
	assert.ErrorIs(t, err, ErrValidation)

	_, err = f.reports.GetReport(a.ID, actorOf(f.other))
	assert.ErrorIs(t, err, ErrForbidden)
	_, err = f.reports.GetReport(999, actorOf(f.moderator))
	assert.ErrorIs(t, err, ErrNotFound)
}
