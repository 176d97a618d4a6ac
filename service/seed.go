package service

import (
	"fmt"
	"time"

	"modboard/app/models"
	"modboard/app/routes"
	"modboard/app/services"
)

type seedPost struct {
	author  string
	title   string
	content string
	status  models.PostStatus
}

var (
	seedUsers = []models.User{
		{ClerkID: "user_123", Name: "Ana Torres", Nickname: "anatrs", Email: "ana.torres@example.com", Role: models.RoleUser,
			CreatedAt: time.Date(2024, 12, 1, 0, 0, 0, 0, time.UTC)},
		{ClerkID: "user_456", Name: "Carlos Mendez", Nickname: "carlosdev", Email: "carlos.mendez@example.com", Role: models.RoleUser,
			CreatedAt: time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)},
		{ClerkID: "user_789", Name: "Maria Lopez", Nickname: "mariacode", Email: "maria.lopez@example.com", Role: models.RoleModerator,
			CreatedAt: time.Date(2025, 2, 20, 0, 0, 0, 0, time.UTC)},
		{ClerkID: "user_101", Name: "Juan Perez", Nickname: "juandev", Email: "juan.perez@example.com", Role: models.RoleAdmin,
			CreatedAt: time.Date(2024, 11, 5, 0, 0, 0, 0, time.UTC)},
	}

	seedPosts = []seedPost{
		{"user_123", "Getting started with Next.js",
			"# Getting started with Next.js\n\nA tour of routing, data fetching and rendering modes.", models.PostApproved},
		{"user_456", "Speeding up React rendering",
			"# Speeding up React rendering\n\nMemoization, list virtualization and splitting bundles.", models.PostApproved},
		{"user_456", "TypeScript for React developers",
			"# TypeScript for React developers\n\nTyping props, hooks and context.", models.PostPending},
		{"user_789", "Global state with the Context API",
			"# Global state with the Context API\n\nProviders, consumers and when to reach for a library.", models.PostRejected},
	}
)

// Seed loads demo users, posts, comments and a report. A store that already
// has users is left untouched.
func Seed(s *routes.Services) error {
	admin := models.Actor{Role: models.RoleAdmin}
	existing, err := s.Users.ListUsers(admin)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}

	ids := make(map[string]int, len(seedUsers))
	for _, u := range seedUsers {
		created, err := s.Users.CreateUser(u)
		if err != nil {
			return fmt.Errorf("seed user %s: %w", u.ClerkID, err)
		}
		ids[u.ClerkID] = created.ID
		if u.Role == models.RoleAdmin {
			admin.UserID = created.ID
		}
	}

	var posts []models.Post
	for _, p := range seedPosts {
		post, err := s.Posts.CreatePost(ids[p.author], p.title, p.content)
		if err != nil {
			return fmt.Errorf("seed post %q: %w", p.title, err)
		}
		if p.status != models.PostPending {
			if post, err = s.Posts.SetPostStatus(post.ID, p.status, admin); err != nil {
				return fmt.Errorf("seed post %q: %w", p.title, err)
			}
		}
		posts = append(posts, post)
	}

	comments := []struct {
		author  string
		post    int
		content string
	}{
		{"user_456", 0, "Great intro, the routing section cleared things up for me."},
		{"user_789", 0, "Could you go deeper on server rendering versus static generation?"},
		{"user_123", 1, "I'd love an example of memoizing a large form."},
	}
	var firstComment models.Comment
	for i, c := range comments {
		comment, err := s.Comments.CreateComment(posts[c.post].ID, ids[c.author], c.content)
		if err != nil {
			return fmt.Errorf("seed comment: %w", err)
		}
		if i == 0 {
			firstComment = comment
		}
	}

	_, err = s.Reports.CreateReport(ids["user_123"], models.ReasonSpam, "Looks like a promotion.",
		services.ReportTarget{CommentID: &firstComment.ID})
	if err != nil {
		return fmt.Errorf("seed report: %w", err)
	}
	return nil
}
