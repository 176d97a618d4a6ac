package services

import (
	"html"
	"sort"
	"strings"

	"modboard/app/models"

	"github.com/microcosm-cc/bluemonday"
)

var plainTextPolicy = bluemonday.StrictPolicy()

// plainText strips every HTML tag from single-line fields such as titles and
// nicknames. Markdown bodies are stored verbatim.
func plainText(s string) string {
	return strings.TrimSpace(html.UnescapeString(plainTextPolicy.Sanitize(s)))
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

func values[T any](ptrs []*T) []T {
	out := make([]T, 0, len(ptrs))
	for _, p := range ptrs {
		out = append(out, *p)
	}
	return out
}

// sortPostsNewestFirst orders by date descending, newest id first on ties.
func sortPostsNewestFirst(posts []models.Post) {
	sort.Slice(posts, func(i, j int) bool {
		if !posts[i].Date.Equal(posts[j].Date) {
			return posts[i].Date.After(posts[j].Date)
		}
		return posts[i].ID > posts[j].ID
	})
}

// sortCommentsChronological orders by creation time, oldest first.
func sortCommentsChronological(comments []models.Comment) {
	sort.Slice(comments, func(i, j int) bool {
		if !comments[i].CreatedAt.Equal(comments[j].CreatedAt) {
			return comments[i].CreatedAt.Before(comments[j].CreatedAt)
		}
		return comments[i].ID < comments[j].ID
	})
}

// sortReportsOldestFirst gives the FIFO triage order.
func sortReportsOldestFirst(reports []models.Report) {
	sort.Slice(reports, func(i, j int) bool {
		if !reports[i].CreatedAt.Equal(reports[j].CreatedAt) {
			return reports[i].CreatedAt.Before(reports[j].CreatedAt)
		}
		return reports[i].ID < reports[j].ID
	})
}
