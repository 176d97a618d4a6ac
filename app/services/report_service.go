package services

import (
	"errors"
	"fmt"

	"modboard/app/metrics"
	"modboard/app/models"
	"modboard/app/query"
	"modboard/app/repositories"
)

// ReportTarget names the content a report flags. Exactly one field is set.
type ReportTarget struct {
	PostID    *int `json:"postId,omitempty"`
	CommentID *int `json:"commentId,omitempty"`
}

// ReportService drives the report lifecycle.
type ReportService struct {
	store   repositories.Store
	metrics *metrics.Recorder
}

// NewReportService creates a new ReportService
func NewReportService(store repositories.Store, rec *metrics.Recorder) *ReportService {
	return &ReportService{store: store, metrics: rec}
}

// CreateReport files a pending report against a post or a comment.
func (s *ReportService) CreateReport(reporterID int, reason models.ReportReason, description string, target ReportTarget) (models.Report, error) {
	switch {
	case target.PostID == nil && target.CommentID == nil:
		return models.Report{}, validationErrorf("report must target a post or a comment")
	case target.PostID != nil && target.CommentID != nil:
		return models.Report{}, validationErrorf("report cannot target both a post and a comment")
	}
	if _, ok := models.ParseReportReason(string(reason)); !ok {
		return models.Report{}, validationErrorf("unknown report reason %q", reason)
	}

	report := models.Report{
		Reason:      reason,
		Description: plainText(description),
		ReporterID:  reporterID,
		PostID:      target.PostID,
		CommentID:   target.CommentID,
	}
	report.BeforeCreate()
	if err := report.Validate(); err != nil {
		return models.Report{}, validationErrorf("invalid report: %v", err)
	}

	err := s.store.Update(func(tx repositories.Tx) error {
		if report.PostID != nil {
			if _, err := tx.Posts().GetByID(*report.PostID); err != nil {
				return targetMissing(err, "post", *report.PostID)
			}
		} else {
			if _, err := tx.Comments().GetByID(*report.CommentID); err != nil {
				return targetMissing(err, "comment", *report.CommentID)
			}
		}
		if _, err := tx.Users().GetByID(reporterID); err != nil {
			return translate(err, "user", reporterID)
		}
		return tx.Reports().Create(&report)
	})
	if err != nil {
		return models.Report{}, err
	}
	s.metrics.Created("report")
	return report, nil
}

// targetMissing turns a dangling report target into a validation error.
func targetMissing(err error, kind string, id int) error {
	if errors.Is(err, repositories.ErrNotFound) {
		return validationErrorf("reported %s %d does not exist", kind, id)
	}
	return err
}

// GetReport retrieves a report by ID. Moderators only.
func (s *ReportService) GetReport(id int, actor models.Actor) (models.Report, error) {
	var report models.Report
	err := s.store.View(func(tx repositories.Tx) error {
		r, err := tx.Reports().GetByID(id)
		if err != nil {
			return translate(err, "report", id)
		}
		if err := RequireModerator(actor); err != nil {
			return err
		}
		report = *r
		return nil
	})
	return report, err
}

// ListReports returns the reports with the given status, or all of them,
// oldest first. Moderators only.
func (s *ReportService) ListReports(status string, actor models.Actor) ([]models.Report, error) {
	status = normalizeFilter(status)
	if status != query.All {
		if _, ok := models.ParseReportStatus(status); !ok {
			return nil, validationErrorf("unknown report status %q", status)
		}
	}
	if err := RequireModerator(actor); err != nil {
		return nil, err
	}
	reports, err := s.allReports()
	if err != nil {
		return nil, err
	}
	return query.FilterByStatus(reports, status), nil
}

// ListPendingReports returns the triage queue, oldest first.
func (s *ReportService) ListPendingReports() ([]models.Report, error) {
	reports, err := s.allReports()
	if err != nil {
		return nil, err
	}
	return query.FilterByStatus(reports, string(models.ReportPending)), nil
}

// UpdateReportStatus resolves or dismisses a pending report. Repeating the
// current terminal status succeeds; switching between terminal statuses fails.
func (s *ReportService) UpdateReportStatus(id int, status models.ReportStatus, actor models.Actor) (models.Report, error) {
	if !status.IsTerminal() {
		return models.Report{}, validationErrorf("report status must be resolved or dismissed, got %q", status)
	}

	var report models.Report
	changed := false
	err := s.store.Update(func(tx repositories.Tx) error {
		r, err := tx.Reports().GetByID(id)
		if err != nil {
			return translate(err, "report", id)
		}
		if err := RequireModerator(actor); err != nil {
			return err
		}
		switch {
		case r.Status == status:
		case r.Status.IsTerminal():
			return validationErrorf("report %d is already %s", id, r.Status)
		default:
			r.Status = status
			if err := tx.Reports().Update(r); err != nil {
				return translate(err, "report", id)
			}
			changed = true
		}
		report = *r
		return nil
	})
	if err != nil {
		return models.Report{}, err
	}
	if changed {
		s.metrics.ReportStatusChanged(string(status), metrics.CauseModerator)
	}
	return report, nil
}

func (s *ReportService) allReports() ([]models.Report, error) {
	var reports []models.Report
	err := s.store.View(func(tx repositories.Tx) error {
		rs, err := tx.Reports().List()
		if err != nil {
			return err
		}
		reports = values(rs)
		return nil
	})
	if err != nil {
		return nil, err
	}
	sortReportsOldestFirst(reports)
	return reports, nil
}

// resolveReports moves every pending report in reports to resolved and
// returns how many changed. Terminal reports are left alone.
func resolveReports(tx repositories.Tx, reports []*models.Report) (int, error) {
	n := 0
	for _, r := range reports {
		if r.Status != models.ReportPending {
			continue
		}
		r.Status = models.ReportResolved
		if err := tx.Reports().Update(r); err != nil {
			return n, fmt.Errorf("failed to resolve report %d: %w", r.ID, err)
		}
		n++
	}
	return n, nil
}
