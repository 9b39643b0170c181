package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sakif/microblog/internal/apperror"
	"github.com/sakif/microblog/internal/auth"
	"github.com/sakif/microblog/internal/mediastore"
	"github.com/sakif/microblog/internal/model"
	"github.com/sakif/microblog/internal/service"
)

// maxUploadBytes bounds a post form submission, image included.
const maxUploadBytes = 10 << 20 // 10 MB

// PostHandler serves the single-post page and every post mutation:
// create, edit, delete, comment.
type PostHandler struct {
	posts    *service.PostService
	media    *mediastore.Store
	renderer *Renderer
	logger   *slog.Logger
}

func NewPostHandler(
	posts *service.PostService,
	media *mediastore.Store,
	renderer *Renderer,
	logger *slog.Logger,
) *PostHandler {
	return &PostHandler{
		posts:    posts,
		media:    media,
		renderer: renderer,
		logger:   logger,
	}
}

type detailView struct {
	baseView
	Post            *model.Post
	AuthorPostCount int
	Comments        []model.Comment
	IsAuthor        bool
}

// postFormView renders post_form.html for both create and edit. Editing
// is the mode where Post is non-nil; the template pre-fills from it.
type postFormView struct {
	baseView
	Groups  []model.Group
	Post    *model.Post
	GroupID string
	Text    string
	Error   string
}

// HandleDetail serves one post with its comments.
//
// HTTP: GET /posts/{id}/
func (h *PostHandler) HandleDetail(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	viewerID, loggedIn := auth.UserIDFromContext(ctx)

	detail, err := h.posts.GetPostDetail(ctx, chi.URLParam(r, "id"))
	if err != nil {
		h.renderer.Error(w, r, err)
		return
	}

	h.renderer.Render(w, http.StatusOK, "post_detail.html", detailView{
		baseView:        baseView{Title: "Post by " + detail.Post.AuthorUsername, LoggedIn: loggedIn},
		Post:            detail.Post,
		AuthorPostCount: detail.AuthorPostCount,
		Comments:        detail.Comments,
		IsAuthor:        loggedIn && viewerID == detail.Post.AuthorID,
	})
}

// HandleCreateForm serves the blank post form.
//
// HTTP: GET /create/
// Auth: required
func (h *PostHandler) HandleCreateForm(w http.ResponseWriter, r *http.Request) {
	h.renderCreateForm(w, r, "", "")
}

// HandleCreate accepts the post form.
//
// HTTP: POST /create/ (multipart: text, group, image)
// Auth: required
//
// Validation failure re-renders the form with the message and the
// submitted text; success redirects to the author's profile.
func (h *PostHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	authorID, _ := auth.UserIDFromContext(ctx)

	text, groupID, imagePath, ok := h.parsePostForm(w, r)
	if !ok {
		return
	}

	post, err := h.posts.CreatePost(ctx, authorID, text, groupID, imagePath)
	if err != nil {
		if errors.Is(err, apperror.ErrValidation) {
			h.renderCreateForm(w, r, text, validationMessage(err))
			return
		}
		h.renderer.Error(w, r, err)
		return
	}

	http.Redirect(w, r, afterCreatePath(post), http.StatusSeeOther)
}

// afterCreatePath is where a successful create lands: the author's
// profile, or the post itself if the username didn't come back with the
// post (never a malformed "/profile//").
func afterCreatePath(post *model.Post) string {
	if post.AuthorUsername == "" {
		return "/posts/" + post.ID + "/"
	}
	return "/profile/" + post.AuthorUsername + "/"
}

// HandleEditForm serves the form pre-filled with the post being edited.
//
// HTTP: GET /posts/{id}/edit/
// Auth: required
//
// A non-author asking for the form gets the same treatment as a
// non-author submitting it: a quiet redirect to the detail view.
func (h *PostHandler) HandleEditForm(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	viewerID, _ := auth.UserIDFromContext(ctx)
	postID := chi.URLParam(r, "id")

	detail, err := h.posts.GetPostDetail(ctx, postID)
	if err != nil {
		h.renderer.Error(w, r, err)
		return
	}
	if detail.Post.AuthorID != viewerID {
		http.Redirect(w, r, "/posts/"+postID+"/", http.StatusSeeOther)
		return
	}

	groups, err := h.posts.ListGroups(ctx)
	if err != nil {
		h.renderer.Error(w, r, err)
		return
	}

	view := postFormView{
		baseView: baseView{Title: "Edit post", LoggedIn: true},
		Groups:   groups,
		Post:     detail.Post,
		Text:     detail.Post.Text,
	}
	if detail.Post.GroupID != nil {
		view.GroupID = *detail.Post.GroupID
	}

	h.renderer.Render(w, http.StatusOK, "post_form.html", view)
}

// HandleEdit accepts the edit form.
//
// HTTP: POST /posts/{id}/edit/ (multipart: text, group, image)
// Auth: required
func (h *PostHandler) HandleEdit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requesterID, _ := auth.UserIDFromContext(ctx)
	postID := chi.URLParam(r, "id")

	text, groupID, imagePath, ok := h.parsePostForm(w, r)
	if !ok {
		return
	}

	outcome, err := h.posts.EditPost(ctx, requesterID, postID, text, groupID, imagePath)
	if err != nil {
		if errors.Is(err, apperror.ErrValidation) {
			h.renderEditForm(w, r, postID, text, validationMessage(err))
			return
		}
		h.renderer.Error(w, r, err)
		return
	}

	// Denied or updated, either way the detail view is the destination.
	http.Redirect(w, r, "/posts/"+outcome.Post.ID+"/", http.StatusSeeOther)
}

// HandleDelete removes a post.
//
// HTTP: POST /posts/{id}/delete/
// Auth: required
func (h *PostHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requesterID, _ := auth.UserIDFromContext(ctx)

	if err := h.posts.DeletePost(ctx, requesterID, chi.URLParam(r, "id")); err != nil {
		h.renderer.Error(w, r, err)
		return
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// HandleComment accepts the comment form under a post.
//
// HTTP: POST /posts/{id}/comment/ (form: text)
// Auth: required
//
// A blank comment just bounces back to the detail page — the form there
// is a single textarea, not worth a dedicated error render.
func (h *PostHandler) HandleComment(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requesterID, _ := auth.UserIDFromContext(ctx)
	postID := chi.URLParam(r, "id")

	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	_, err := h.posts.AddComment(ctx, requesterID, postID, r.PostFormValue("text"))
	if err != nil && !errors.Is(err, apperror.ErrValidation) {
		h.renderer.Error(w, r, err)
		return
	}

	http.Redirect(w, r, "/posts/"+postID+"/", http.StatusSeeOther)
}

// parsePostForm pulls text, group, and the optional image out of the
// multipart post form. On a bad upload it writes the response itself and
// returns ok=false.
func (h *PostHandler) parsePostForm(w http.ResponseWriter, r *http.Request) (text, groupID, imagePath string, ok bool) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return "", "", "", false
	}

	text = r.PostFormValue("text")
	groupID = r.PostFormValue("group")

	file, header, err := r.FormFile("image")
	switch {
	case errors.Is(err, http.ErrMissingFile):
		// image is optional
	case err != nil:
		http.Error(w, "invalid image upload", http.StatusBadRequest)
		return "", "", "", false
	default:
		defer file.Close()
		imagePath, err = h.media.Save(header.Filename, file)
		if err != nil {
			if errors.Is(err, apperror.ErrValidation) {
				h.renderCreateForm(w, r, text, validationMessage(err))
				return "", "", "", false
			}
			h.renderer.Error(w, r, err)
			return "", "", "", false
		}
	}

	return text, groupID, imagePath, true
}

func (h *PostHandler) renderCreateForm(w http.ResponseWriter, r *http.Request, text, errMsg string) {
	groups, err := h.posts.ListGroups(r.Context())
	if err != nil {
		h.renderer.Error(w, r, err)
		return
	}

	status := http.StatusOK
	if errMsg != "" {
		status = http.StatusBadRequest
	}

	h.renderer.Render(w, status, "post_form.html", postFormView{
		baseView: baseView{Title: "New post", LoggedIn: true},
		Groups:   groups,
		Text:     text,
		Error:    errMsg,
	})
}

func (h *PostHandler) renderEditForm(w http.ResponseWriter, r *http.Request, postID, text, errMsg string) {
	ctx := r.Context()

	detail, err := h.posts.GetPostDetail(ctx, postID)
	if err != nil {
		h.renderer.Error(w, r, err)
		return
	}
	groups, err := h.posts.ListGroups(ctx)
	if err != nil {
		h.renderer.Error(w, r, err)
		return
	}

	view := postFormView{
		baseView: baseView{Title: "Edit post", LoggedIn: true},
		Groups:   groups,
		Post:     detail.Post,
		Text:     text,
		Error:    errMsg,
	}
	if detail.Post.GroupID != nil {
		view.GroupID = *detail.Post.GroupID
	}

	h.renderer.Render(w, http.StatusBadRequest, "post_form.html", view)
}
