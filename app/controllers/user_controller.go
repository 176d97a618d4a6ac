package controllers

import (
	"net/http"

	"modboard/app/models"
	"modboard/app/services"

	"github.com/gorilla/mux"
)

// UserController handles HTTP requests for the user directory
type UserController struct {
	users *services.UserService
	posts *services.PostService
}

// NewUserController creates a new UserController
func NewUserController(users *services.UserService, posts *services.PostService) *UserController {
	return &UserController{users: users, posts: posts}
}

type meResponse struct {
	User models.User `json:"user"`
	Role string      `json:"role"`
}

// Me returns the caller's own record and the role in effect for this request.
func (uc *UserController) Me(w http.ResponseWriter, r *http.Request) {
	caller, ok := requireCaller(w, r)
	if !ok {
		return
	}
	sendJSON(w, http.StatusOK, meResponse{User: caller.User, Role: string(caller.Actor.Role)})
}

// Index lists every user. Moderators only.
func (uc *UserController) Index(w http.ResponseWriter, r *http.Request) {
	caller, ok := requireCaller(w, r)
	if !ok {
		return
	}
	users, err := uc.users.ListUsers(caller.Actor)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	sendJSON(w, http.StatusOK, map[string]interface{}{"users": users})
}

// Show looks a user up by clerk id.
func (uc *UserController) Show(w http.ResponseWriter, r *http.Request) {
	user, err := uc.users.GetByClerkID(mux.Vars(r)["clerkId"])
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	sendJSON(w, http.StatusOK, user)
}

// Posts lists every post of a user, whatever its status. Only the user
// themselves and moderators may see it.
func (uc *UserController) Posts(w http.ResponseWriter, r *http.Request) {
	caller, ok := requireCaller(w, r)
	if !ok {
		return
	}
	user, err := uc.users.GetByClerkID(mux.Vars(r)["clerkId"])
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	if !caller.Actor.CanModify(user.ID) {
		sendError(w, "cannot list the posts of another user", http.StatusForbidden)
		return
	}
	posts, err := uc.posts.ListPostsByAuthor(user.ID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	sendJSON(w, http.StatusOK, map[string]interface{}{"posts": posts})
}

type nicknameRequest struct {
	Nickname string `json:"nickname"`
}

// UpdateNickname renames a user.
func (uc *UserController) UpdateNickname(w http.ResponseWriter, r *http.Request) {
	caller, ok := requireCaller(w, r)
	if !ok {
		return
	}
	var req nicknameRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	user, err := uc.users.UpdateNickname(mux.Vars(r)["clerkId"], req.Nickname, caller.Actor)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	sendJSON(w, http.StatusOK, user)
}

type roleRequest struct {
	Role string `json:"role"`
}

// UpdateRole changes a user's role. Admins only.
func (uc *UserController) UpdateRole(w http.ResponseWriter, r *http.Request) {
	caller, ok := requireCaller(w, r)
	if !ok {
		return
	}
	var req roleRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	user, err := uc.users.UpdateRole(mux.Vars(r)["clerkId"], req.Role, caller.Actor)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	sendJSON(w, http.StatusOK, user)
}
