package controllers

import (
	"net/http"
	"strings"

	"modboard/app/models"
	"modboard/app/services"
)

// ReportController handles HTTP requests for reports
type ReportController struct {
	reports *services.ReportService
}

// NewReportController creates a new ReportController
func NewReportController(reports *services.ReportService) *ReportController {
	return &ReportController{reports: reports}
}

type createReportRequest struct {
	Reason      string `json:"reason"`
	Description string `json:"description"`
	PostID      *int   `json:"postId"`
	CommentID   *int   `json:"commentId"`
}

// Create files a report against a post or a comment.
func (rc *ReportController) Create(w http.ResponseWriter, r *http.Request) {
	caller, ok := requireCaller(w, r)
	if !ok {
		return
	}
	var req createReportRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	reason := models.ReportReason(strings.ToLower(strings.TrimSpace(req.Reason)))
	target := services.ReportTarget{PostID: req.PostID, CommentID: req.CommentID}
	report, err := rc.reports.CreateReport(caller.Actor.UserID, reason, req.Description, target)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	sendJSON(w, http.StatusCreated, report)
}

// Index lists reports, optionally filtered by ?status=.
func (rc *ReportController) Index(w http.ResponseWriter, r *http.Request) {
	caller, ok := requireCaller(w, r)
	if !ok {
		return
	}
	reports, err := rc.reports.ListReports(r.URL.Query().Get("status"), caller.Actor)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	sendJSON(w, http.StatusOK, map[string]interface{}{"reports": reports})
}

// Pending lists the triage queue, oldest first.
func (rc *ReportController) Pending(w http.ResponseWriter, r *http.Request) {
	caller, ok := requireCaller(w, r)
	if !ok {
		return
	}
	if err := services.RequireModerator(caller.Actor); err != nil {
		writeServiceError(w, r, err)
		return
	}
	reports, err := rc.reports.ListPendingReports()
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	sendJSON(w, http.StatusOK, map[string]interface{}{"reports": reports})
}

// Show handles displaying a single report
func (rc *ReportController) Show(w http.ResponseWriter, r *http.Request) {
	caller, ok := requireCaller(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	report, err := rc.reports.GetReport(id, caller.Actor)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	sendJSON(w, http.StatusOK, report)
}

// UpdateStatus resolves or dismisses a report.
func (rc *ReportController) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	caller, ok := requireCaller(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req statusRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	status := models.ReportStatus(strings.ToLower(strings.TrimSpace(req.Status)))
	report, err := rc.reports.UpdateReportStatus(id, status, caller.Actor)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	sendJSON(w, http.StatusOK, report)
}
