package models

import (
	"errors"
	"strings"
	"time"
)

// ParsePostStatus maps a raw status string to a PostStatus.
func ParsePostStatus(s string) (PostStatus, bool) {
	switch PostStatus(strings.ToLower(strings.TrimSpace(s))) {
	case PostPending:
		return PostPending, true
	case PostApproved:
		return PostApproved, true
	case PostRejected:
		return PostRejected, true
	}
	return "", false
}

// StatusString returns the status as a plain string for generic filtering.
func (p Post) StatusString() string {
	return string(p.Status)
}

// Validate checks if the post meets all validation requirements
func (p *Post) Validate() error {
	if err := validate.Struct(p); err != nil {
		return err
	}
	if strings.TrimSpace(p.Title) == "" {
		return errors.New("title cannot be blank")
	}
	if strings.TrimSpace(p.Content) == "" {
		return errors.New("content cannot be blank")
	}
	if p.Date.IsZero() {
		return errors.New("date cannot be zero")
	}
	return nil
}

// BeforeCreate sets up any necessary fields before creation
func (p *Post) BeforeCreate() {
	if p.Date.IsZero() {
		p.Date = time.Now().UTC()
	}
	p.Status = PostPending
	p.Likes = 0
}

// VisibleTo reports whether the post can be read by the given actor.
// Approved posts are public; others only reach their author and moderators.
func (p Post) VisibleTo(actor *Actor) bool {
	if p.Status == PostApproved {
		return true
	}
	if actor == nil {
		return false
	}
	return actor.UserID == p.AuthorID || actor.IsModerator()
}
