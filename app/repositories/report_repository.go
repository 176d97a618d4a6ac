package repositories

import (
	"modboard/app/models"

	"github.com/dgraph-io/badger/v4"
)

// BadgerReportRepository implements ReportRepository inside one badger transaction
type BadgerReportRepository struct {
	txn *badger.Txn
}

func (r *BadgerReportRepository) targetIndexKey(report *models.Report) []byte {
	if report.PostID != nil {
		return indexKey(reportPostIndex, *report.PostID, report.ID)
	}
	if report.CommentID != nil {
		return indexKey(reportCommentIndex, *report.CommentID, report.ID)
	}
	return nil
}

// Create saves a new report and indexes it under its target
func (r *BadgerReportRepository) Create(report *models.Report) error {
	id, err := getNextID(r.txn, ReportSeqKey)
	if err != nil {
		return err
	}
	report.ID = id

	if err := putEntity(r.txn, entityKey(ReportKeyPrefix, report.ID), report); err != nil {
		return err
	}
	if key := r.targetIndexKey(report); key != nil {
		return r.txn.Set(key, nil)
	}
	return nil
}

// GetByID retrieves a report by ID
func (r *BadgerReportRepository) GetByID(id int) (*models.Report, error) {
	var report models.Report
	if err := getEntity(r.txn, entityKey(ReportKeyPrefix, id), &report); err != nil {
		return nil, err
	}
	return &report, nil
}

// List retrieves every report
func (r *BadgerReportRepository) List() ([]*models.Report, error) {
	var reports []*models.Report
	err := scanEntities(r.txn, []byte(ReportKeyPrefix), func(val []byte) error {
		var report models.Report
		if err := unmarshalEntity(val, &report); err != nil {
			return err
		}
		reports = append(reports, &report)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return reports, nil
}

// ListByPost retrieves the reports filed against a post
func (r *BadgerReportRepository) ListByPost(postID int) ([]*models.Report, error) {
	return r.listByIndex(indexPrefix(reportPostIndex, postID))
}

// ListByComment retrieves the reports filed against a comment
func (r *BadgerReportRepository) ListByComment(commentID int) ([]*models.Report, error) {
	return r.listByIndex(indexPrefix(reportCommentIndex, commentID))
}

func (r *BadgerReportRepository) listByIndex(prefix []byte) ([]*models.Report, error) {
	ids, err := scanIndex(r.txn, prefix)
	if err != nil {
		return nil, err
	}
	reports := make([]*models.Report, 0, len(ids))
	for _, id := range ids {
		report, err := r.GetByID(id)
		if err != nil {
			return nil, err
		}
		reports = append(reports, report)
	}
	return reports, nil
}

// Update overwrites an existing report. The target is immutable.
func (r *BadgerReportRepository) Update(report *models.Report) error {
	existing, err := r.GetByID(report.ID)
	if err != nil {
		return err
	}
	report.PostID = existing.PostID
	report.CommentID = existing.CommentID
	return putEntity(r.txn, entityKey(ReportKeyPrefix, report.ID), report)
}
