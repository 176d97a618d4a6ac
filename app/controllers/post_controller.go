package controllers

import (
	"net/http"
	"strings"

	"modboard/app/models"
	"modboard/app/services"
)

// PostController handles HTTP requests for posts
type PostController struct {
	posts      *services.PostService
	moderation *services.ModerationService
}

// NewPostController creates a new PostController
func NewPostController(posts *services.PostService, moderation *services.ModerationService) *PostController {
	return &PostController{posts: posts, moderation: moderation}
}

// Index serves the public feed of approved posts.
func (pc *PostController) Index(w http.ResponseWriter, r *http.Request) {
	page, perPage := pagination(r)
	feed, err := pc.moderation.PublicFeed(page, perPage)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	sendJSON(w, http.StatusOK, feed)
}

// Show handles displaying a single post. Posts that are not approved are
// reported missing to everyone but their author and moderators.
func (pc *PostController) Show(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	post, err := pc.posts.GetPost(id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	if !post.VisibleTo(optionalActor(r)) {
		sendError(w, "Post not found", http.StatusNotFound)
		return
	}
	sendJSON(w, http.StatusOK, post)
}

type createPostRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// Create handles creating a new post
func (pc *PostController) Create(w http.ResponseWriter, r *http.Request) {
	caller, ok := requireCaller(w, r)
	if !ok {
		return
	}
	var req createPostRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	post, err := pc.posts.CreatePost(caller.Actor.UserID, req.Title, req.Content)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	sendJSON(w, http.StatusCreated, post)
}

type statusRequest struct {
	Status string `json:"status"`
}

// UpdateStatus approves or rejects a post.
func (pc *PostController) UpdateStatus(w http.ResponseWriter, r *http.Request) {
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
	status := models.PostStatus(strings.ToLower(strings.TrimSpace(req.Status)))
	post, err := pc.posts.SetPostStatus(id, status, caller.Actor)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	sendJSON(w, http.StatusOK, post)
}

// Delete handles deleting a post
func (pc *PostController) Delete(w http.ResponseWriter, r *http.Request) {
	caller, ok := requireCaller(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := pc.posts.DeletePost(id, caller.Actor); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
