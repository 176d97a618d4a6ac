package services

import (
	"strings"
	"testing"

	"modboard/app/models"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreatePost(t *testing.T) {
	f := newFixture(t)

	first, err := f.posts.CreatePost(f.author.ID, "<b>Fish</b> & chips", "# Markdown *body*")
	require.NoError(t, err)
	assert.Equal(t, "Fish & chips", first.Title)
	assert.Equal(t, "# Markdown *body*", first.Content)
	assert.Equal(t, models.PostPending, first.Status)
	assert.Zero(t, first.Likes)
	assert.False(t, first.Date.IsZero())

	second := f.mustPost(t, "second")
	assert.NotEqual(t, first.ID, second.ID)

	got, err := f.posts.GetPost(first.ID)
	require.NoError(t, err)
	assert.Equal(t, first, got)
}

func TestCreatePostErrors(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name     string
		authorID int
		title    string
		content  string
		wantErr  error
	}{
		{"empty title", f.author.ID, "", "body", ErrValidation},
		{"whitespace title", f.author.ID, "   ", "body", ErrValidation},
		{"markup-only title", f.author.ID, "<p> </p>", "body", ErrValidation},
		{"empty content", f.author.ID, "title", "", ErrValidation},
		{"whitespace content", f.author.ID, "title", "\n\t ", ErrValidation},
		{"unknown author", 999, "title", "body", ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.posts.CreatePost(tt.authorID, tt.title, tt.content)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	posts, err := f.posts.ListPosts("all")
	require.NoError(t, err)
	assert.Empty(t, posts)
}

func TestGetPostNotFound(t *testing.T) {
	f := newFixture(t)
	_, err := f.posts.GetPost(42)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSetPostStatus(t *testing.T) {
	f := newFixture(t)
	post := f.mustPost(t, "moderate me")

	tests := []struct {
		name    string
		id      int
		status  models.PostStatus
		actor   models.Actor
		want    models.PostStatus
		wantErr error
	}{
		{"back to pending is invalid", post.ID, models.PostPending, actorOf(f.moderator), "", ErrValidation},
		{"unknown status", post.ID, "published", actorOf(f.moderator), "", ErrValidation},
		{"invalid status beats unknown id", 999, "published", actorOf(f.author), "", ErrValidation},
		{"unknown post", 999, models.PostApproved, actorOf(f.moderator), "", ErrNotFound},
		{"author cannot approve", post.ID, models.PostApproved, actorOf(f.author), "", ErrForbidden},
		{"plain user cannot reject", post.ID, models.PostRejected, actorOf(f.other), "", ErrForbidden},
		{"moderator approves", post.ID, models.PostApproved, actorOf(f.moderator), models.PostApproved, nil},
		{"approve again is a no-op", post.ID, models.PostApproved, actorOf(f.moderator), models.PostApproved, nil},
		{"admin rejects", post.ID, models.PostRejected, actorOf(f.admin), models.PostRejected, nil},
		{"moderator re-approves", post.ID, models.PostApproved, actorOf(f.moderator), models.PostApproved, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := f.posts.SetPostStatus(tt.id, tt.status, tt.actor)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Status)

			stored, err := f.posts.GetPost(tt.id)
			require.NoError(t, err)
			assert.Equal(t, tt.want, stored.Status)
		})
	}
}

func TestSetPostStatusAfterDelete(t *testing.T) {
	f := newFixture(t)
	post := f.mustPost(t, "short lived")
	require.NoError(t, f.posts.DeletePost(post.ID, actorOf(f.author)))

	_, err := f.posts.SetPostStatus(post.ID, models.PostApproved, actorOf(f.moderator))
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = f.posts.GetPost(post.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeletePostCascade(t *testing.T) {
	f := newFixture(t)
	post := f.mustPost(t, "doomed")
	survivor := f.mustPost(t, "survivor")

	c1 := f.mustComment(t, post.ID, f.other)
	c2 := f.mustComment(t, post.ID, f.author)
	kept := f.mustComment(t, survivor.ID, f.other)

	onThePost := f.mustReport(t, onPost(post.ID))
	onFirstComment := f.mustReport(t, onComment(c1.ID))
	dismissed := f.mustReport(t, onComment(c2.ID))
	_, err := f.reports.UpdateReportStatus(dismissed.ID, models.ReportDismissed, actorOf(f.moderator))
	require.NoError(t, err)
	onSurvivor := f.mustReport(t, onPost(survivor.ID))

	require.NoError(t, f.posts.DeletePost(post.ID, actorOf(f.moderator)))

	_, err = f.posts.GetPost(post.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	for _, id := range []int{c1.ID, c2.ID} {
		_, err = f.comments.GetComment(id)
		assert.ErrorIs(t, err, ErrNotFound)
	}
	_, err = f.comments.GetComment(kept.ID)
	assert.NoError(t, err)

	want := map[int]models.ReportStatus{
		onThePost.ID:      models.ReportResolved,
		onFirstComment.ID: models.ReportResolved,
		dismissed.ID:      models.ReportDismissed,
		onSurvivor.ID:     models.ReportPending,
	}
	for id, status := range want {
		r, err := f.reports.GetReport(id, actorOf(f.moderator))
		require.NoError(t, err)
		assert.Equal(t, status, r.Status, "report %d", id)
	}

	expected := `
# HELP modboard_report_status_changes_total Report status changes by target status and cause.
# TYPE modboard_report_status_changes_total counter
modboard_report_status_changes_total{cause="cascade",status="resolved"} 2
modboard_report_status_changes_total{cause="moderator",status="dismissed"} 1
`
	assert.NoError(t, testutil.GatherAndCompare(f.metrics.Gatherer(), strings.NewReader(expected),
		"modboard_report_status_changes_total"))
}

func TestDeletePostPermissions(t *testing.T) {
	f := newFixture(t)
	post := f.mustPost(t, "mine")

	err := f.posts.DeletePost(post.ID, actorOf(f.other))
	assert.ErrorIs(t, err, ErrForbidden)
	_, err = f.posts.GetPost(post.ID)
	assert.NoError(t, err)

	err = f.posts.DeletePost(999, actorOf(f.other))
	assert.ErrorIs(t, err, ErrNotFound)

	assert.NoError(t, f.posts.DeletePost(post.ID, actorOf(f.author)))
	assert.ErrorIs(t, f.posts.DeletePost(post.ID, actorOf(f.author)), ErrNotFound)
}

func TestListPosts(t *testing.T) {
	f := newFixture(t)
	var ids []int
	for _, title := range []string{"a", "b", "c", "d"} {
		ids = append(ids, f.mustPost(t, title).ID)
	}
	_, err := f.posts.SetPostStatus(ids[0], models.PostApproved, actorOf(f.moderator))
	require.NoError(t, err)
	_, err = f.posts.SetPostStatus(ids[2], models.PostApproved, actorOf(f.moderator))
	require.NoError(t, err)
	_, err = f.posts.SetPostStatus(ids[3], models.PostRejected, actorOf(f.moderator))
	require.NoError(t, err)

	tests := []struct {
		filter string
		want   []int
	}{
		{"all", []int{ids[3], ids[2], ids[1], ids[0]}},
		{"", []int{ids[3], ids[2], ids[1], ids[0]}},
		{"approved", []int{ids[2], ids[0]}},
		{"Pending", []int{ids[1]}},
		{"rejected", []int{ids[3]}},
	}
	for _, tt := range tests {
		t.Run(tt.filter, func(t *testing.T) {
			posts, err := f.posts.ListPosts(tt.filter)
			require.NoError(t, err)
			var got []int
			for _, p := range posts {
				got = append(got, p.ID)
			}
			assert.Equal(t, tt.want, got)
		})
	}

	_, err = f.posts.ListPosts("published")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestListPostsByAuthor(t *testing.T) {
	f := newFixture(t)
	first := f.mustPost(t, "first")
	second := f.mustPost(t, "second")
	_, err := f.posts.CreatePost(f.other.ID, "not mine", "body")
	require.NoError(t, err)

	posts, err := f.posts.ListPostsByAuthor(f.author.ID)
	require.NoError(t, err)
	require.Len(t, posts, 2)
	assert.Equal(t, second.ID, posts[0].ID)
	assert.Equal(t, first.ID, posts[1].ID)

	posts, err = f.posts.ListPostsByAuthor(f.admin.ID)
	require.NoError(t, err)
	assert.Empty(t, posts)

	_, err = f.posts.ListPostsByAuthor(999)
	assert.ErrorIs(t, err, ErrNotFound)
}
