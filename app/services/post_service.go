package services

import (
	"fmt"

	"modboard/app/metrics"
	"modboard/app/models"
	"modboard/app/query"
	"modboard/app/repositories"
)

// PostService handles the post lifecycle: authoring, moderation and deletion.
type PostService struct {
	store   repositories.Store
	metrics *metrics.Recorder
}

// NewPostService creates a new PostService. rec may be nil.
func NewPostService(store repositories.Store, rec *metrics.Recorder) *PostService {
	return &PostService{store: store, metrics: rec}
}

// CreatePost stores a new pending post for an existing author.
func (s *PostService) CreatePost(authorID int, title, content string) (models.Post, error) {
	post := models.Post{
		Title:    plainText(title),
		Content:  content,
		AuthorID: authorID,
	}
	if isBlank(post.Title) {
		return models.Post{}, validationErrorf("title is required")
	}
	if isBlank(post.Content) {
		return models.Post{}, validationErrorf("content is required")
	}
	post.BeforeCreate()
	if err := post.Validate(); err != nil {
		return models.Post{}, validationErrorf("invalid post: %v", err)
	}

	err := s.store.Update(func(tx repositories.Tx) error {
		if _, err := tx.Users().GetByID(authorID); err != nil {
			return translate(err, "user", authorID)
		}
		return tx.Posts().Create(&post)
	})
	if err != nil {
		return models.Post{}, err
	}
	s.metrics.Created("post")
	return post, nil
}

// GetPost retrieves a post by ID
func (s *PostService) GetPost(id int) (models.Post, error) {
	var post models.Post
	err := s.store.View(func(tx repositories.Tx) error {
		p, err := tx.Posts().GetByID(id)
		if err != nil {
			return translate(err, "post", id)
		}
		post = *p
		return nil
	})
	return post, err
}

// SetPostStatus moves a post to approved or rejected. Setting the current
// status again succeeds without writing.
func (s *PostService) SetPostStatus(id int, status models.PostStatus, actor models.Actor) (models.Post, error) {
	if status != models.PostApproved && status != models.PostRejected {
		return models.Post{}, validationErrorf("post status must be approved or rejected, got %q", status)
	}

	var post models.Post
	changed := false
	err := s.store.Update(func(tx repositories.Tx) error {
		p, err := tx.Posts().GetByID(id)
		if err != nil {
			return translate(err, "post", id)
		}
		if err := RequireModerator(actor); err != nil {
			return err
		}
		if p.Status != status {
			p.Status = status
			if err := tx.Posts().Update(p); err != nil {
				return translate(err, "post", id)
			}
			changed = true
		}
		post = *p
		return nil
	})
	if err != nil {
		return models.Post{}, err
	}
	if changed {
		s.metrics.PostStatusChanged(string(status))
	}
	return post, nil
}

// DeletePost removes a post with its comments and resolves every pending
// report that pointed at either, all in one transaction.
func (s *PostService) DeletePost(id int, actor models.Actor) error {
	var removedComments, resolved int
	err := s.store.Update(func(tx repositories.Tx) error {
		post, err := tx.Posts().GetByID(id)
		if err != nil {
			return translate(err, "post", id)
		}
		if !actor.CanModify(post.AuthorID) {
			return forbiddenf("only the author or a moderator can delete post %d", id)
		}

		comments, err := tx.Comments().ListByPost(id)
		if err != nil {
			return fmt.Errorf("failed to list comments of post %d: %w", id, err)
		}
		reports, err := tx.Reports().ListByPost(id)
		if err != nil {
			return fmt.Errorf("failed to list reports of post %d: %w", id, err)
		}
		for _, c := range comments {
			onComment, err := tx.Reports().ListByComment(c.ID)
			if err != nil {
				return fmt.Errorf("failed to list reports of comment %d: %w", c.ID, err)
			}
			reports = append(reports, onComment...)
			if err := tx.Comments().Delete(c.ID); err != nil {
				return translate(err, "comment", c.ID)
			}
		}
		if resolved, err = resolveReports(tx, reports); err != nil {
			return err
		}
		removedComments = len(comments)
		return translate(tx.Posts().Delete(id), "post", id)
	})
	if err != nil {
		return err
	}
	s.metrics.Deleted("post", 1)
	s.metrics.Deleted("comment", removedComments)
	for i := 0; i < resolved; i++ {
		s.metrics.ReportStatusChanged(string(models.ReportResolved), metrics.CauseCascade)
	}
	return nil
}

// ListPosts returns the posts matching filter, a status or "all", newest first.
func (s *PostService) ListPosts(filter string) ([]models.Post, error) {
	filter = normalizeFilter(filter)
	if filter != query.All {
		if _, ok := models.ParsePostStatus(filter); !ok {
			return nil, validationErrorf("unknown post status %q", filter)
		}
	}
	posts, err := s.allPosts()
	if err != nil {
		return nil, err
	}
	return query.FilterByStatus(posts, filter), nil
}

// ListPostsByAuthor returns every post written by authorID, newest first.
func (s *PostService) ListPostsByAuthor(authorID int) ([]models.Post, error) {
	var posts []models.Post
	err := s.store.View(func(tx repositories.Tx) error {
		if _, err := tx.Users().GetByID(authorID); err != nil {
			return translate(err, "user", authorID)
		}
		ps, err := tx.Posts().ListByAuthor(authorID)
		if err != nil {
			return err
		}
		posts = values(ps)
		return nil
	})
	if err != nil {
		return nil, err
	}
	sortPostsNewestFirst(posts)
	return posts, nil
}

func (s *PostService) allPosts() ([]models.Post, error) {
	var posts []models.Post
	err := s.store.View(func(tx repositories.Tx) error {
		ps, err := tx.Posts().List()
		if err != nil {
			return err
		}
		posts = values(ps)
		return nil
	})
	if err != nil {
		return nil, err
	}
	sortPostsNewestFirst(posts)
	return posts, nil
}
