package controllers

import (
	"net/http"

	"modboard/app/services"
)

// CommentController handles HTTP requests for comments
type CommentController struct {
	comments *services.CommentService
	posts    *services.PostService
}

// NewCommentController creates a new CommentController
func NewCommentController(comments *services.CommentService, posts *services.PostService) *CommentController {
	return &CommentController{comments: comments, posts: posts}
}

// Index lists the comments of a post the caller may see.
func (cc *CommentController) Index(w http.ResponseWriter, r *http.Request) {
	postID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if !cc.postVisible(w, r, postID) {
		return
	}
	comments, err := cc.comments.ListCommentsForPost(postID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	sendJSON(w, http.StatusOK, map[string]interface{}{"comments": comments})
}

type createCommentRequest struct {
	Content string `json:"content"`
}

// Create handles adding a comment to a post
func (cc *CommentController) Create(w http.ResponseWriter, r *http.Request) {
	caller, ok := requireCaller(w, r)
	if !ok {
		return
	}
	postID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if !cc.postVisible(w, r, postID) {
		return
	}
	var req createCommentRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	comment, err := cc.comments.CreateComment(postID, caller.Actor.UserID, req.Content)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	sendJSON(w, http.StatusCreated, comment)
}

// Show handles displaying a single comment
func (cc *CommentController) Show(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	comment, err := cc.comments.GetComment(id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	sendJSON(w, http.StatusOK, comment)
}

// Delete handles deleting a comment
func (cc *CommentController) Delete(w http.ResponseWriter, r *http.Request) {
	caller, ok := requireCaller(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := cc.comments.DeleteComment(id, caller.Actor); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (cc *CommentController) postVisible(w http.ResponseWriter, r *http.Request, postID int) bool {
	post, err := cc.posts.GetPost(postID)
	if err != nil {
		writeServiceError(w, r, err)
		return false
	}
	if !post.VisibleTo(optionalActor(r)) {
		sendError(w, "Post not found", http.StatusNotFound)
		return false
	}
	return true
}
