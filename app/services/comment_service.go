package services

import (
	"fmt"

	"modboard/app/metrics"
	"modboard/app/models"
	"modboard/app/repositories"
)

// CommentService handles business logic for comments
type CommentService struct {
	store   repositories.Store
	metrics *metrics.Recorder
}

// NewCommentService creates a new CommentService
func NewCommentService(store repositories.Store, rec *metrics.Recorder) *CommentService {
	return &CommentService{store: store, metrics: rec}
}

// CreateComment attaches a comment to an existing post.
func (s *CommentService) CreateComment(postID, authorID int, content string) (models.Comment, error) {
	comment := models.Comment{
		PostID:   postID,
		AuthorID: authorID,
		Content:  content,
	}
	err := s.store.Update(func(tx repositories.Tx) error {
		if _, err := tx.Posts().GetByID(postID); err != nil {
			return translate(err, "post", postID)
		}
		if isBlank(content) {
			return validationErrorf("comment content is required")
		}
		if _, err := tx.Users().GetByID(authorID); err != nil {
			return translate(err, "user", authorID)
		}
		comment.BeforeCreate()
		if err := comment.Validate(); err != nil {
			return validationErrorf("invalid comment: %v", err)
		}
		return tx.Comments().Create(&comment)
	})
	if err != nil {
		return models.Comment{}, err
	}
	s.metrics.Created("comment")
	return comment, nil
}

// GetComment retrieves a comment by ID
func (s *CommentService) GetComment(id int) (models.Comment, error) {
	var comment models.Comment
	err := s.store.View(func(tx repositories.Tx) error {
		c, err := tx.Comments().GetByID(id)
		if err != nil {
			return translate(err, "comment", id)
		}
		comment = *c
		return nil
	})
	return comment, err
}

// DeleteComment removes a comment and resolves the pending reports against it.
func (s *CommentService) DeleteComment(id int, actor models.Actor) error {
	var resolved int
	err := s.store.Update(func(tx repositories.Tx) error {
		comment, err := tx.Comments().GetByID(id)
		if err != nil {
			return translate(err, "comment", id)
		}
		if !actor.CanModify(comment.AuthorID) {
			return forbiddenf("only the author or a moderator can delete comment %d", id)
		}
		reports, err := tx.Reports().ListByComment(id)
		if err != nil {
			return fmt.Errorf("failed to list reports of comment %d: %w", id, err)
		}
		if resolved, err = resolveReports(tx, reports); err != nil {
			return err
		}
		return translate(tx.Comments().Delete(id), "comment", id)
	})
	if err != nil {
		return err
	}
	s.metrics.Deleted("comment", 1)
	for i := 0; i < resolved; i++ {
		s.metrics.ReportStatusChanged(string(models.ReportResolved), metrics.CauseCascade)
	}
	return nil
}

// ListCommentsForPost returns the comments of a post, oldest first.
func (s *CommentService) ListCommentsForPost(postID int) ([]models.Comment, error) {
	var comments []models.Comment
	err := s.store.View(func(tx repositories.Tx) error {
		if _, err := tx.Posts().GetByID(postID); err != nil {
			return translate(err, "post", postID)
		}
		cs, err := tx.Comments().ListByPost(postID)
		if err != nil {
			return fmt.Errorf("failed to get comments: %w", err)
		}
		comments = values(cs)
		return nil
	})
	if err != nil {
		return nil, err
	}
	sortCommentsChronological(comments)
	return comments, nil
}
