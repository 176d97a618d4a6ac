package services

import (
	"testing"

	"modboard/app/metrics"
	"modboard/app/models"
	"modboard/app/repositories/memory"

	"github.com/stretchr/testify/require"
)

type fixture struct {
	store      *memory.Store
	metrics    *metrics.Recorder
	posts      *PostService
	comments   *CommentService
	reports    *ReportService
	users      *UserService
	moderation *ModerationService

	author    models.User
	other     models.User
	moderator models.User
	admin     models.User
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	rec := metrics.New()
	f := &fixture{
		store:    store,
		metrics:  rec,
		posts:    NewPostService(store, rec),
		comments: NewCommentService(store, rec),
		reports:  NewReportService(store, rec),
		users:    NewUserService(store),
	}
	f.moderation = NewModerationService(f.posts, f.reports)

	f.author = f.mustUser(t, "user_author", "author", models.RoleUser)
	f.other = f.mustUser(t, "user_other", "other", models.RoleUser)
	f.moderator = f.mustUser(t, "user_mod", "mod", models.RoleModerator)
	f.admin = f.mustUser(t, "user_admin", "admin", models.RoleAdmin)
	return f
}

func (f *fixture) mustUser(t *testing.T, clerkID, nickname string, role models.Role) models.User {
	t.Helper()
	u, err := f.users.CreateUser(models.User{ClerkID: clerkID, Nickname: nickname, Role: role})
	require.NoError(t, err)
	return u
}

func (f *fixture) mustPost(t *testing.T, title string) models.Post {
	t.Helper()
	p, err := f.posts.CreatePost(f.author.ID, title, "body of "+title)
	require.NoError(t, err)
	return p
}

func (f *fixture) mustComment(t *testing.T, postID int, author models.User) models.Comment {
	t.Helper()
	c, err := f.comments.CreateComment(postID, author.ID, "nice post")
	require.NoError(t, err)
	return c
}

func (f *fixture) mustReport(t *testing.T, target ReportTarget) models.Report {
	t.Helper()
	r, err := f.reports.CreateReport(f.other.ID, models.ReasonSpam, "", target)
	require.NoError(t, err)
	return r
}

func actorOf(u models.User) models.Actor {
	return models.Actor{UserID: u.ID, Role: u.Role}
}

func onPost(id int) ReportTarget    { return ReportTarget{PostID: &id} }
func onComment(id int) ReportTarget { return ReportTarget{CommentID: &id} }
