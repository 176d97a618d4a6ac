package repositories

import (
	"modboard/app/models"

	"github.com/dgraph-io/badger/v4"
)

// BadgerPostRepository implements PostRepository inside one badger transaction
type BadgerPostRepository struct {
	txn *badger.Txn
}

// Create assigns the next post ID and saves the post
func (r *BadgerPostRepository) Create(post *models.Post) error {
	id, err := getNextID(r.txn, PostSeqKey)
	if err != nil {
		return err
	}
	post.ID = id

	if err := putEntity(r.txn, entityKey(PostKeyPrefix, post.ID), post); err != nil {
		return err
	}
	return r.txn.Set(indexKey(postAuthorIndex, post.AuthorID, post.ID), nil)
}

// GetByID retrieves a post by ID
func (r *BadgerPostRepository) GetByID(id int) (*models.Post, error) {
	var post models.Post
	if err := getEntity(r.txn, entityKey(PostKeyPrefix, id), &post); err != nil {
		return nil, err
	}
	return &post, nil
}

// List retrieves every post in key order
func (r *BadgerPostRepository) List() ([]*models.Post, error) {
	var posts []*models.Post
	err := scanEntities(r.txn, []byte(PostKeyPrefix), func(val []byte) error {
		var post models.Post
		if err := unmarshalEntity(val, &post); err != nil {
			return err
		}
		posts = append(posts, &post)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return posts, nil
}

// ListByAuthor retrieves the posts written by a user
func (r *BadgerPostRepository) ListByAuthor(authorID int) ([]*models.Post, error) {
	ids, err := scanIndex(r.txn, indexPrefix(postAuthorIndex, authorID))
	if err != nil {
		return nil, err
	}
	posts := make([]*models.Post, 0, len(ids))
	for _, id := range ids {
		post, err := r.GetByID(id)
		if err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}
	return posts, nil
}

// Update overwrites an existing post; a missing post is never recreated
func (r *BadgerPostRepository) Update(post *models.Post) error {
	existing, err := r.GetByID(post.ID)
	if err != nil {
		return err
	}
	if existing.AuthorID != post.AuthorID {
		if err := r.txn.Delete(indexKey(postAuthorIndex, existing.AuthorID, post.ID)); err != nil {
			return err
		}
		if err := r.txn.Set(indexKey(postAuthorIndex, post.AuthorID, post.ID), nil); err != nil {
			return err
		}
	}
	return putEntity(r.txn, entityKey(PostKeyPrefix, post.ID), post)
}

// Delete deletes a post by ID
func (r *BadgerPostRepository) Delete(id int) error {
	post, err := r.GetByID(id)
	if err != nil {
		return err
	}
	if err := r.txn.Delete(indexKey(postAuthorIndex, post.AuthorID, id)); err != nil {
		return err
	}
	return r.txn.Delete(entityKey(PostKeyPrefix, id))
}
