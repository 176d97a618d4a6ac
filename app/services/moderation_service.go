package services

import (
	"strings"

	"modboard/app/models"
	"modboard/app/query"
)

// DefaultPageSize matches the moderator dashboard.
const DefaultPageSize = 5

// PostQueue is one page of the moderation post list with dashboard totals.
type PostQueue struct {
	query.Page[models.Post]
	Status string            `json:"status"`
	Counts models.PostCounts `json:"counts"`
}

// ReportQueue is one page of the report list with dashboard totals.
type ReportQueue struct {
	query.Page[models.Report]
	Status string              `json:"status"`
	Counts models.ReportCounts `json:"counts"`
}

// ModerationService computes the read-side views of the moderation dashboard.
// Nothing is cached; every call recomputes from the store.
type ModerationService struct {
	posts   *PostService
	reports *ReportService
}

// NewModerationService creates a new ModerationService
func NewModerationService(posts *PostService, reports *ReportService) *ModerationService {
	return &ModerationService{posts: posts, reports: reports}
}

// PostQueue filters posts by status and returns the requested page.
func (s *ModerationService) PostQueue(actor models.Actor, status string, page, pageSize int) (PostQueue, error) {
	status = normalizeFilter(status)
	if status != query.All {
		if _, ok := models.ParsePostStatus(status); !ok {
			return PostQueue{}, validationErrorf("unknown post status %q", status)
		}
	}
	if err := RequireModerator(actor); err != nil {
		return PostQueue{}, err
	}
	all, err := s.posts.allPosts()
	if err != nil {
		return PostQueue{}, err
	}
	return PostQueue{
		Page:   query.NewPage(query.FilterByStatus(all, status), page, defaultSize(pageSize)),
		Status: status,
		Counts: postCounts(all),
	}, nil
}

// ReportQueue filters reports by status and returns the requested page.
func (s *ModerationService) ReportQueue(actor models.Actor, status string, page, pageSize int) (ReportQueue, error) {
	status = normalizeFilter(status)
	if status != query.All {
		if _, ok := models.ParseReportStatus(status); !ok {
			return ReportQueue{}, validationErrorf("unknown report status %q", status)
		}
	}
	if err := RequireModerator(actor); err != nil {
		return ReportQueue{}, err
	}
	all, err := s.reports.allReports()
	if err != nil {
		return ReportQueue{}, err
	}
	return ReportQueue{
		Page:   query.NewPage(query.FilterByStatus(all, status), page, defaultSize(pageSize)),
		Status: status,
		Counts: reportCounts(all),
	}, nil
}

// PostCounts returns the number of posts per status.
func (s *ModerationService) PostCounts() (models.PostCounts, error) {
	all, err := s.posts.allPosts()
	if err != nil {
		return models.PostCounts{}, err
	}
	return postCounts(all), nil
}

// ReportCounts returns the number of reports per status.
func (s *ModerationService) ReportCounts() (models.ReportCounts, error) {
	all, err := s.reports.allReports()
	if err != nil {
		return models.ReportCounts{}, err
	}
	return reportCounts(all), nil
}

// PublicFeed pages through approved posts, newest first.
func (s *ModerationService) PublicFeed(page, pageSize int) (query.Page[models.Post], error) {
	all, err := s.posts.allPosts()
	if err != nil {
		return query.Page[models.Post]{}, err
	}
	approved := query.FilterByStatus(all, string(models.PostApproved))
	return query.NewPage(approved, page, defaultSize(pageSize)), nil
}

func postCounts(posts []models.Post) models.PostCounts {
	c := query.CountsByStatus(posts,
		string(models.PostPending), string(models.PostApproved), string(models.PostRejected))
	return models.PostCounts{
		All:      c[query.All],
		Pending:  c[string(models.PostPending)],
		Approved: c[string(models.PostApproved)],
		Rejected: c[string(models.PostRejected)],
	}
}

func reportCounts(reports []models.Report) models.ReportCounts {
	c := query.CountsByStatus(reports,
		string(models.ReportPending), string(models.ReportResolved), string(models.ReportDismissed))
	return models.ReportCounts{
		All:       c[query.All],
		Pending:   c[string(models.ReportPending)],
		Resolved:  c[string(models.ReportResolved)],
		Dismissed: c[string(models.ReportDismissed)],
	}
}

func normalizeFilter(status string) string {
	status = strings.ToLower(strings.TrimSpace(status))
	if status == "" {
		return query.All
	}
	return status
}

func defaultSize(pageSize int) int {
	if pageSize == 0 {
		return DefaultPageSize
	}
	return pageSize
}
