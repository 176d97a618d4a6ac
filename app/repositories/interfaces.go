package repositories

import "modboard/app/models"

// PostRepository defines the interface for post data access
type PostRepository interface {
	Create(post *models.Post) error
	GetByID(id int) (*models.Post, error)
	List() ([]*models.Post, error)
	ListByAuthor(authorID int) ([]*models.Post, error)
	Update(post *models.Post) error
	Delete(id int) error
}

// CommentRepository defines the interface for comment data access
type CommentRepository interface {
	Create(comment *models.Comment) error
	GetByID(id int) (*models.Comment, error)
	ListByPost(postID int) ([]*models.Comment, error)
	Delete(id int) error
}

// ReportRepository defines the interface for report data access.
// Reports are never deleted.
type ReportRepository interface {
	Create(report *models.Report) error
	GetByID(id int) (*models.Report, error)
	List() ([]*models.Report, error)
	ListByPost(postID int) ([]*models.Report, error)
	ListByComment(commentID int) ([]*models.Report, error)
	Update(report *models.Report) error
}

// UserRepository defines the interface for user data access.
// Implementations enforce unique clerk ids and case-insensitive unique nicknames.
type UserRepository interface {
	Create(user *models.User) error
	GetByID(id int) (*models.User, error)
	GetByClerkID(clerkID string) (*models.User, error)
	GetByNickname(nickname string) (*models.User, error)
	List() ([]*models.User, error)
	Update(user *models.User) error
}

// Tx exposes the repositories bound to a single transaction.
type Tx interface {
	Posts() PostRepository
	Comments() CommentRepository
	Reports() ReportRepository
	Users() UserRepository
}

// Store owns the four entity collections. Update runs fn atomically:
// either every write made through tx commits or none does.
type Store interface {
	View(fn func(tx Tx) error) error
	Update(fn func(tx Tx) error) error
	Close() error
}
