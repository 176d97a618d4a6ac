package models

import (
	"errors"
	"strings"
	"time"
)

// ParseReportStatus maps a raw status string to a ReportStatus.
func ParseReportStatus(s string) (ReportStatus, bool) {
	switch ReportStatus(strings.ToLower(strings.TrimSpace(s))) {
	case ReportPending:
		return ReportPending, true
	case ReportResolved:
		return ReportResolved, true
	case ReportDismissed:
		return ReportDismissed, true
	}
	return "", false
}

// ParseReportReason maps a raw reason string to a ReportReason.
func ParseReportReason(s string) (ReportReason, bool) {
	switch r := ReportReason(strings.ToLower(strings.TrimSpace(s))); r {
	case ReasonSpam, ReasonInappropriate, ReasonHarassment, ReasonMisinformation, ReasonOther:
		return r, true
	}
	return "", false
}

// IsTerminal reports whether the status can no longer change.
func (s ReportStatus) IsTerminal() bool {
	return s == ReportResolved || s == ReportDismissed
}

// StatusString returns the status as a plain string for generic filtering.
func (r Report) StatusString() string {
	return string(r.Status)
}

// Validate checks if the report meets all validation requirements,
// including that it targets exactly one of a post or a comment.
func (r *Report) Validate() error {
	if err := validate.Struct(r); err != nil {
		return err
	}
	if r.PostID == nil && r.CommentID == nil {
		return errors.New("report must target a post or a comment")
	}
	if r.PostID != nil && r.CommentID != nil {
		return errors.New("report cannot target both a post and a comment")
	}
	if r.CreatedAt.IsZero() {
		return errors.New("created_at cannot be zero")
	}
	return nil
}

// BeforeCreate sets up any necessary fields before creation
func (r *Report) BeforeCreate() {
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now().UTC()
	}
	r.Status = ReportPending
	r.Description = strings.TrimSpace(r.Description)
}

// TargetsPost reports whether the report points at the given post.
func (r Report) TargetsPost(postID int) bool {
	return r.PostID != nil && *r.PostID == postID
}

// TargetsComment reports whether the report points at the given comment.
func (r Report) TargetsComment(commentID int) bool {
	return r.CommentID != nil && *r.CommentID == commentID
}
