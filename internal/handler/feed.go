package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sakif/microblog/internal/auth"
	"github.com/sakif/microblog/internal/cache"
	"github.com/sakif/microblog/internal/model"
	"github.com/sakif/microblog/internal/pagination"
	"github.com/sakif/microblog/internal/service"
)

// FeedHandler serves the read-only listing pages: the main feed, group
// feeds, author profiles, and the followed-authors feed.
type FeedHandler struct {
	posts     *service.PostService
	feedCache cache.FeedCache
	renderer  *Renderer
	logger    *slog.Logger
}

func NewFeedHandler(
	posts *service.PostService,
	feedCache cache.FeedCache,
	renderer *Renderer,
	logger *slog.Logger,
) *FeedHandler {
	return &FeedHandler{
		posts:     posts,
		feedCache: feedCache,
		renderer:  renderer,
		logger:    logger,
	}
}

type feedView struct {
	baseView
	Page pagination.Page[model.Post]
}

type groupView struct {
	baseView
	Group *model.Group
	Page  pagination.Page[model.Post]
}

type profileView struct {
	baseView
	Author    *model.User
	PostCount int
	Following bool
	IsOwner   bool
	Page      pagination.Page[model.Post]
}

// HandleIndex serves the main feed.
//
// HTTP: GET /?page=N
//
// Rendered pages are cached for guests only: the layout for a logged-in
// user differs (nav links, follow state), so those render fresh, while
// the anonymous front page — the hot path — comes out of the cache.
func (h *FeedHandler) HandleIndex(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	_, loggedIn := auth.UserIDFromContext(ctx)
	page := pageNumber(r)

	if !loggedIn {
		if html, ok, err := h.feedCache.GetPage(ctx, page); err != nil {
			h.logger.Warn("feed cache read failed", slog.String("error", err.Error()))
		} else if ok {
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			w.Write([]byte(html))
			return
		}
	}

	posts, err := h.posts.ListFeed(ctx)
	if err != nil {
		h.renderer.Error(w, r, err)
		return
	}

	view := feedView{
		baseView: baseView{Title: "Latest posts", LoggedIn: loggedIn},
		Page:     pagination.Paginate(posts, page),
	}

	if !loggedIn {
		html, err := h.renderer.RenderString("index.html", view)
		if err != nil {
			h.renderer.Error(w, r, err)
			return
		}
		if err := h.feedCache.SetPage(ctx, view.Page.Number, html); err != nil {
			h.logger.Warn("feed cache write failed", slog.String("error", err.Error()))
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte(html))
		return
	}

	h.renderer.Render(w, http.StatusOK, "index.html", view)
}

// HandleGroup serves one group's feed.
//
// HTTP: GET /group/{slug}/?page=N
//
// An unknown slug 404s; a known group with no posts renders an empty page.
func (h *FeedHandler) HandleGroup(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	_, loggedIn := auth.UserIDFromContext(ctx)

	feed, err := h.posts.ListByGroup(ctx, chi.URLParam(r, "slug"))
	if err != nil {
		h.renderer.Error(w, r, err)
		return
	}

	h.renderer.Render(w, http.StatusOK, "group_list.html", groupView{
		baseView: baseView{Title: feed.Group.Title, LoggedIn: loggedIn},
		Group:    feed.Group,
		Page:     pagination.Paginate(feed.Posts, pageNumber(r)),
	})
}

// HandleProfile serves an author's page: their posts, post count, and —
// for a logged-in viewer — whether the viewer follows them.
//
// HTTP: GET /profile/{username}/?page=N
func (h *FeedHandler) HandleProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	viewerID, loggedIn := auth.UserIDFromContext(ctx)

	profile, err := h.posts.ListByAuthor(ctx, chi.URLParam(r, "username"), viewerID)
	if err != nil {
		h.renderer.Error(w, r, err)
		return
	}

	h.renderer.Render(w, http.StatusOK, "profile.html", profileView{
		baseView:  baseView{Title: "Posts by " + profile.Author.Username, LoggedIn: loggedIn},
		Author:    profile.Author,
		PostCount: profile.PostCount,
		Following: profile.Following,
		IsOwner:   loggedIn && viewerID == profile.Author.ID,
		Page:      pagination.Paginate(profile.Posts, pageNumber(r)),
	})
}

// HandleFollowIndex serves the followed-authors feed.
//
// HTTP: GET /follow/?page=N
// Auth: required
func (h *FeedHandler) HandleFollowIndex(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	viewerID, _ := auth.UserIDFromContext(ctx)

	posts, err := h.posts.ListFollowedFeed(ctx, viewerID)
	if err != nil {
		h.renderer.Error(w, r, err)
		return
	}

	h.renderer.Render(w, http.StatusOK, "follow.html", feedView{
		baseView: baseView{Title: "Authors you follow", LoggedIn: true},
		Page:     pagination.Paginate(posts, pageNumber(r)),
	})
}
