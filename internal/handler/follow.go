package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sakif/microblog/internal/auth"
	"github.com/sakif/microblog/internal/service"
)

// FollowHandler serves the follow/unfollow links on a profile page.
type FollowHandler struct {
	follows  *service.FollowService
	renderer *Renderer
	logger   *slog.Logger
}

func NewFollowHandler(follows *service.FollowService, renderer *Renderer, logger *slog.Logger) *FollowHandler {
	return &FollowHandler{follows: follows, renderer: renderer, logger: logger}
}

// HandleFollow subscribes the viewer to an author.
//
// HTTP: GET /profile/{username}/follow/
// Auth: required
func (h *FollowHandler) HandleFollow(w http.ResponseWriter, r *http.Request) {
	viewerID, _ := auth.UserIDFromContext(r.Context())
	username := chi.URLParam(r, "username")

	if err := h.follows.Follow(r.Context(), viewerID, username); err != nil {
		h.renderer.Error(w, r, err)
		return
	}

	http.Redirect(w, r, "/profile/"+username+"/", http.StatusSeeOther)
}

// HandleUnfollow removes the viewer's subscription to an author.
//
// HTTP: GET /profile/{username}/unfollow/
// Auth: required
//
// Unfollowing someone you never followed just lands back on the profile —
// the edge is gone either way, no point in a 404 page. An unknown
// username is a different matter: that 404s like any other bad URL.
func (h *FollowHandler) HandleUnfollow(w http.ResponseWriter, r *http.Request) {
	viewerID, _ := auth.UserIDFromContext(r.Context())
	username := chi.URLParam(r, "username")

	err := h.follows.Unfollow(r.Context(), viewerID, username)
	if err != nil && !errors.Is(err, service.ErrNotFollowing) {
		h.renderer.Error(w, r, err)
		return
	}

	http.Redirect(w, r, "/profile/"+username+"/", http.StatusSeeOther)
}
