package repositories

import (
	"modboard/app/models"

	"github.com/dgraph-io/badger/v4"
)

// BadgerCommentRepository implements CommentRepository inside one badger transaction
type BadgerCommentRepository struct {
	txn *badger.Txn
}

// Create creates a new comment and indexes it under its post
func (r *BadgerCommentRepository) Create(comment *models.Comment) error {
	id, err := getNextID(r.txn, CommentSeqKey)
	if err != nil {
		return err
	}
	comment.ID = id

	if err := putEntity(r.txn, entityKey(CommentKeyPrefix, comment.ID), comment); err != nil {
		return err
	}
	return r.txn.Set(indexKey(postCommentIndex, comment.PostID, comment.ID), nil)
}

// GetByID retrieves a comment by ID
func (r *BadgerCommentRepository) GetByID(id int) (*models.Comment, error) {
	var comment models.Comment
	if err := getEntity(r.txn, entityKey(CommentKeyPrefix, id), &comment); err != nil {
		return nil, err
	}
	return &comment, nil
}

// ListByPost retrieves all comments for a post
func (r *BadgerCommentRepository) ListByPost(postID int) ([]*models.Comment, error) {
	ids, err := scanIndex(r.txn, indexPrefix(postCommentIndex, postID))
	if err != nil {
		return nil, err
	}
	comments := make([]*models.Comment, 0, len(ids))
	for _, id := range ids {
		comment, err := r.GetByID(id)
		if err != nil {
			return nil, err
		}
		comments = append(comments, comment)
	}
	return comments, nil
}

// Delete deletes a comment by ID
func (r *BadgerCommentRepository) Delete(id int) error {
	comment, err := r.GetByID(id)
	if err != nil {
		return err
	}
	if err := r.txn.Delete(indexKey(postCommentIndex, comment.PostID, id)); err != nil {
		return err
	}
	return r.txn.Delete(entityKey(CommentKeyPrefix, id))
}
