// Package repotest holds the contract every repositories.Store backend must satisfy.
package repotest

import (
	"errors"
	"testing"
	"time"

	"modboard/app/models"
	"modboard/app/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunStoreSuite exercises a fresh store returned by newStore for every subtest.
func RunStoreSuite(t *testing.T, newStore func(t *testing.T) repositories.Store) {
	t.Run("post crud", func(t *testing.T) { testPostCRUD(t, newStore(t)) })
	t.Run("comments by post", func(t *testing.T) { testCommentsByPost(t, newStore(t)) })
	t.Run("reports by target", func(t *testing.T) { testReportsByTarget(t, newStore(t)) })
	t.Run("user uniqueness", func(t *testing.T) { testUserUniqueness(t, newStore(t)) })
	t.Run("update rolls back on error", func(t *testing.T) { testRollback(t, newStore(t)) })
	t.Run("reads are snapshots", func(t *testing.T) { testSnapshots(t, newStore(t)) })
}

func newPost(authorID int, title string) *models.Post {
	return &models.Post{
		Title:    title,
		Content:  "content of " + title,
		AuthorID: authorID,
		Date:     time.Now().UTC(),
		Status:   models.PostPending,
	}
}

func testPostCRUD(t *testing.T, store repositories.Store) {
	first := newPost(1, "first")
	second := newPost(2, "second")
	require.NoError(t, store.Update(func(tx repositories.Tx) error {
		if err := tx.Posts().Create(first); err != nil {
			return err
		}
		return tx.Posts().Create(second)
	}))
	assert.Equal(t, 1, first.ID)
	assert.Equal(t, 2, second.ID)

	require.NoError(t, store.View(func(tx repositories.Tx) error {
		got, err := tx.Posts().GetByID(first.ID)
		require.NoError(t, err)
		assert.Equal(t, "first", got.Title)
		assert.Equal(t, models.PostPending, got.Status)

		all, err := tx.Posts().List()
		require.NoError(t, err)
		assert.Len(t, all, 2)

		mine, err := tx.Posts().ListByAuthor(2)
		require.NoError(t, err)
		require.Len(t, mine, 1)
		assert.Equal(t, second.ID, mine[0].ID)
		return nil
	}))

	first.Status = models.PostApproved
	require.NoError(t, store.Update(func(tx repositories.Tx) error {
		return tx.Posts().Update(first)
	}))
	require.NoError(t, store.Update(func(tx repositories.Tx) error {
		return tx.Posts().Delete(second.ID)
	}))

	require.NoError(t, store.View(func(tx repositories.Tx) error {
		got, err := tx.Posts().GetByID(first.ID)
		require.NoError(t, err)
		assert.Equal(t, models.PostApproved, got.Status)

		_, err = tx.Posts().GetByID(second.ID)
		assert.ErrorIs(t, err, repositories.ErrNotFound)

		mine, err := tx.Posts().ListByAuthor(2)
		require.NoError(t, err)
		assert.Empty(t, mine)
		return nil
	}))

	// Writes after delete never resurrect the record.
	err := store.Update(func(tx repositories.Tx) error {
		return tx.Posts().Update(second)
	})
	assert.ErrorIs(t, err, repositories.ErrNotFound)
	err = store.Update(func(tx repositories.Tx) error {
		return tx.Posts().Delete(second.ID)
	})
	assert.ErrorIs(t, err, repositories.ErrNotFound)

	// IDs are never reused.
	third := newPost(1, "third")
	require.NoError(t, store.Update(func(tx repositories.Tx) error {
		return tx.Posts().Create(third)
	}))
	assert.Equal(t, 3, third.ID)
}

func testCommentsByPost(t *testing.T, store repositories.Store) {
	var comments []*models.Comment
	require.NoError(t, store.Update(func(tx repositories.Tx) error {
		for i, postID := range []int{1, 1, 12, 1} {
			c := &models.Comment{
				PostID:    postID,
				AuthorID:  i + 1,
				Content:   "comment",
				CreatedAt: time.Now().UTC(),
			}
			if err := tx.Comments().Create(c); err != nil {
				return err
			}
			comments = append(comments, c)
		}
		return nil
	}))

	require.NoError(t, store.View(func(tx repositories.Tx) error {
		onFirst, err := tx.Comments().ListByPost(1)
		require.NoError(t, err)
		assert.Len(t, onFirst, 3)

		onTwelfth, err := tx.Comments().ListByPost(12)
		require.NoError(t, err)
		assert.Len(t, onTwelfth, 1)
		return nil
	}))

	require.NoError(t, store.Update(func(tx repositories.Tx) error {
		return tx.Comments().Delete(comments[0].ID)
	}))
	require.NoError(t, store.View(func(tx repositories.Tx) error {
		_, err := tx.Comments().GetByID(comments[0].ID)
		assert.ErrorIs(t, err, repositories.ErrNotFound)

		onFirst, err := tx.Comments().ListByPost(1)
		require.NoError(t, err)
		assert.Len(t, onFirst, 2)
		return nil
	}))
}

func testReportsByTarget(t *testing.T, store repositories.Store) {
	postID, commentID := 4, 2
	onPost := &models.Report{
		Reason:     models.ReasonInappropriate,
		ReporterID: 1,
		PostID:     &postID,
		CreatedAt:  time.Now().UTC(),
		Status:     models.ReportPending,
	}
	onComment := &models.Report{
		Reason:     models.ReasonSpam,
		ReporterID: 2,
		CommentID:  &commentID,
		CreatedAt:  time.Now().UTC(),
		Status:     models.ReportPending,
	}
	require.NoError(t, store.Update(func(tx repositories.Tx) error {
		if err := tx.Reports().Create(onPost); err != nil {
			return err
		}
		return tx.Reports().Create(onComment)
	}))

	onPost.Status = models.ReportResolved
	require.NoError(t, store.Update(func(tx repositories.Tx) error {
		return tx.Reports().Update(onPost)
	}))

	require.NoError(t, store.View(func(tx repositories.Tx) error {
		byPost, err := tx.Reports().ListByPost(postID)
		require.NoError(t, err)
		require.Len(t, byPost, 1)
		assert.Equal(t, models.ReportResolved, byPost[0].Status)

		byComment, err := tx.Reports().ListByComment(commentID)
		require.NoError(t, err)
		require.Len(t, byComment, 1)
		assert.Equal(t, onComment.ID, byComment[0].ID)

		none, err := tx.Reports().ListByPost(commentID)
		require.NoError(t, err)
		assert.Empty(t, none)

		all, err := tx.Reports().List()
		require.NoError(t, err)
		assert.Len(t, all, 2)
		return nil
	}))
}

func testUserUniqueness(t *testing.T, store repositories.Store) {
	alex := &models.User{ClerkID: "user_a", Nickname: "alex", Role: models.RoleUser}
	bo := &models.User{ClerkID: "user_b", Nickname: "bo", Role: models.RoleUser}
	require.NoError(t, store.Update(func(tx repositories.Tx) error {
		if err := tx.Users().Create(alex); err != nil {
			return err
		}
		return tx.Users().Create(bo)
	}))

	err := store.Update(func(tx repositories.Tx) error {
		return tx.Users().Create(&models.User{ClerkID: "user_c", Nickname: "ALEX", Role: models.RoleUser})
	})
	assert.ErrorIs(t, err, repositories.ErrDuplicate)

	err = store.Update(func(tx repositories.Tx) error {
		return tx.Users().Create(&models.User{ClerkID: "user_a", Nickname: "other", Role: models.RoleUser})
	})
	assert.ErrorIs(t, err, repositories.ErrDuplicate)

	renamed := *bo
	renamed.Nickname = "Alex"
	err = store.Update(func(tx repositories.Tx) error {
		return tx.Users().Update(&renamed)
	})
	assert.ErrorIs(t, err, repositories.ErrDuplicate)

	renamed.Nickname = "bobby"
	require.NoError(t, store.Update(func(tx repositories.Tx) error {
		return tx.Users().Update(&renamed)
	}))

	require.NoError(t, store.View(func(tx repositories.Tx) error {
		got, err := tx.Users().GetByNickname("BOBBY")
		require.NoError(t, err)
		assert.Equal(t, bo.ID, got.ID)

		_, err = tx.Users().GetByNickname("bo")
		assert.ErrorIs(t, err, repositories.ErrNotFound)

		got, err = tx.Users().GetByClerkID("user_a")
		require.NoError(t, err)
		assert.Equal(t, alex.ID, got.ID)

		users, err := tx.Users().List()
		require.NoError(t, err)
		assert.Len(t, users, 2)
		return nil
	}))

	// The freed nickname can be claimed again.
	require.NoError(t, store.Update(func(tx repositories.Tx) error {
		return tx.Users().Create(&models.User{ClerkID: "user_d", Nickname: "bo", Role: models.RoleUser})
	}))
}

func testRollback(t *testing.T, store repositories.Store) {
	post := newPost(1, "keep")
	require.NoError(t, store.Update(func(tx repositories.Tx) error {
		return tx.Posts().Create(post)
	}))

	boom := errors.New("boom")
	err := store.Update(func(tx repositories.Tx) error {
		if err := tx.Posts().Delete(post.ID); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	require.NoError(t, store.View(func(tx repositories.Tx) error {
		_, err := tx.Posts().GetByID(post.ID)
		assert.NoError(t, err)
		return nil
	}))
}

func testSnapshots(t *testing.T, store repositories.Store) {
	post := newPost(1, "original")
	require.NoError(t, store.Update(func(tx repositories.Tx) error {
		return tx.Posts().Create(post)
	}))

	var got *models.Post
	require.NoError(t, store.View(func(tx repositories.Tx) error {
		var err error
		got, err = tx.Posts().GetByID(post.ID)
		return err
	}))
	got.Title = "mutated"
	post.Title = "mutated too"

	require.NoError(t, store.View(func(tx repositories.Tx) error {
		again, err := tx.Posts().GetByID(post.ID)
		require.NoError(t, err)
		assert.Equal(t, "original", again.Title)
		return nil
	}))
}
