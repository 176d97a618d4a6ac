package models

import "time"

// PostStatus is the moderation state of a post.
type PostStatus string

const (
	PostPending  PostStatus = "pending"
	PostApproved PostStatus = "approved"
	PostRejected PostStatus = "rejected"
)

// ReportStatus is the triage state of a report.
type ReportStatus string

const (
	ReportPending   ReportStatus = "pending"
	ReportResolved  ReportStatus = "resolved"
	ReportDismissed ReportStatus = "dismissed"
)

// ReportReason is the fixed set of reasons a report can be filed for.
type ReportReason string

const (
	ReasonSpam           ReportReason = "spam"
	ReasonInappropriate  ReportReason = "inappropriate"
	ReasonHarassment     ReportReason = "harassment"
	ReasonMisinformation ReportReason = "misinformation"
	ReasonOther          ReportReason = "other"
)

// Role is the authorization level of a user.
type Role string

const (
	RoleUser      Role = "USER"
	RoleModerator Role = "MODERATOR"
	RoleAdmin     Role = "ADMIN"
)

// User is a registered member, linked to the identity provider by ClerkID.
type User struct {
	ID             int       `json:"id" validate:"gte=0"`
	ClerkID        string    `json:"clerkId" validate:"required,max=128"`
	Name           string    `json:"name" validate:"max=100"`
	Nickname       string    `json:"nickname" validate:"required,min=2,max=50"`
	Email          string    `json:"email" validate:"omitempty,email"`
	ProfilePicture string    `json:"profilePicture,omitempty" validate:"omitempty,url"`
	Role           Role      `json:"role" validate:"required,oneof=USER MODERATOR ADMIN"`
	CreatedAt      time.Time `json:"createdAt"`
}

// Post is a user-authored article awaiting or past moderation.
type Post struct {
	ID       int        `json:"id" validate:"gte=0"`
	Title    string     `json:"title" validate:"required,max=200"`
	Content  string     `json:"content" validate:"required"`
	AuthorID int        `json:"authorId" validate:"required,gt=0"`
	Date     time.Time  `json:"date"`
	Status   PostStatus `json:"status" validate:"required,oneof=pending approved rejected"`
	Likes    int        `json:"likes" validate:"gte=0"`
}

// Comment is a reply attached to a post.
type Comment struct {
	ID        int       `json:"id" validate:"gte=0"`
	PostID    int       `json:"postId" validate:"required,gt=0"`
	AuthorID  int       `json:"authorId" validate:"required,gt=0"`
	Content   string    `json:"content" validate:"required,max=1000"`
	CreatedAt time.Time `json:"createdAt"`
}

// Report flags exactly one post or comment for moderator review.
type Report struct {
	ID          int          `json:"id" validate:"gte=0"`
	Reason      ReportReason `json:"reason" validate:"required,oneof=spam inappropriate harassment misinformation other"`
	Description string       `json:"description,omitempty" validate:"max=500"`
	ReporterID  int          `json:"reporterId" validate:"required,gt=0"`
	PostID      *int         `json:"postId,omitempty" validate:"omitempty,gt=0"`
	CommentID   *int         `json:"commentId,omitempty" validate:"omitempty,gt=0"`
	CreatedAt   time.Time    `json:"createdAt"`
	Status      ReportStatus `json:"status" validate:"required,oneof=pending resolved dismissed"`
}

// Actor is the caller of a mutating operation as resolved by the identity provider.
type Actor struct {
	UserID int
	Role   Role
}

// PostCounts holds the per-status totals shown on the moderation dashboard.
type PostCounts struct {
	All      int `json:"all"`
	Pending  int `json:"pending"`
	Approved int `json:"approved"`
	Rejected int `json:"rejected"`
}

// ReportCounts holds the per-status totals of the report queue.
type ReportCounts struct {
	All       int `json:"all"`
	Pending   int `json:"pending"`
	Resolved  int `json:"resolved"`
	Dismissed int `json:"dismissed"`
}
