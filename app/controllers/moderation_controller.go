package controllers

import (
	"net/http"

	"modboard/app/models"
	"modboard/app/services"
)

// ModerationController serves the moderator dashboard.
type ModerationController struct {
	moderation *services.ModerationService
}

// NewModerationController creates a new ModerationController
func NewModerationController(moderation *services.ModerationService) *ModerationController {
	return &ModerationController{moderation: moderation}
}

// Posts returns one page of the post queue with per-status counts.
func (mc *ModerationController) Posts(w http.ResponseWriter, r *http.Request) {
	caller, ok := requireCaller(w, r)
	if !ok {
		return
	}
	page, perPage := pagination(r)
	queue, err := mc.moderation.PostQueue(caller.Actor, r.URL.Query().Get("status"), page, perPage)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	sendJSON(w, http.StatusOK, queue)
}

// Reports returns one page of the report queue with per-status counts.
func (mc *ModerationController) Reports(w http.ResponseWriter, r *http.Request) {
	caller, ok := requireCaller(w, r)
	if !ok {
		return
	}
	page, perPage := pagination(r)
	queue, err := mc.moderation.ReportQueue(caller.Actor, r.URL.Query().Get("status"), page, perPage)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	sendJSON(w, http.StatusOK, queue)
}

type countsResponse struct {
	Posts   models.PostCounts   `json:"posts"`
	Reports models.ReportCounts `json:"reports"`
}

// Counts returns the dashboard totals.
func (mc *ModerationController) Counts(w http.ResponseWriter, r *http.Request) {
	caller, ok := requireCaller(w, r)
	if !ok {
		return
	}
	if err := services.RequireModerator(caller.Actor); err != nil {
		writeServiceError(w, r, err)
		return
	}
	posts, err := mc.moderation.PostCounts()
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	reports, err := mc.moderation.ReportCounts()
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	sendJSON(w, http.StatusOK, countsResponse{Posts: posts, Reports: reports})
}
