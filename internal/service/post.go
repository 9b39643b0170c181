// Package service contains the business logic layer.
//
// Handlers parse HTTP and render HTML; repositories run SQL; everything
// between — validation, authorization, feed assembly, cache invalidation —
// lives here. Services accept plain values plus an explicit authenticated
// identity (a user ID), never an *http.Request and never an ambient
// "current user": every caller states on whose behalf it acts.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sakif/microblog/internal/apperror"
	"github.com/sakif/microblog/internal/cache"
	"github.com/sakif/microblog/internal/model"
	"github.com/sakif/microblog/internal/repository"
)

// MaxTextLength bounds post and comment bodies (~10KB of text).
const MaxTextLength = 10000

// PostService owns posts, comments, and every feed read.
type PostService struct {
	posts    repository.PostRepository
	groups   repository.GroupRepository
	users    repository.UserRepository
	comments repository.CommentRepository
	follows  repository.FollowRepository
	cache    cache.FeedCache
	logger   *slog.Logger
}

// NewPostService wires a PostService. The cache may be cache.Noop{} when
// caching is disabled.
func NewPostService(
	posts repository.PostRepository,
	groups repository.GroupRepository,
	users repository.UserRepository,
	comments repository.CommentRepository,
	follows repository.FollowRepository,
	feedCache cache.FeedCache,
	logger *slog.Logger,
) *PostService {
	return &PostService{
		posts:    posts,
		groups:   groups,
		users:    users,
		comments: comments,
		follows:  follows,
		cache:    feedCache,
		logger:   logger,
	}
}

// GroupFeed is what the group page renders: the group itself plus its
// posts, newest first.
type GroupFeed struct {
	Group *model.Group
	Posts []model.Post
}

// Profile is what the profile page renders. Following is only meaningful
// when the lookup was made with an authenticated viewer; for guests it is
// always false.
type Profile struct {
	Author    *model.User
	Posts     []model.Post
	PostCount int
	Following bool
}

// PostDetail is what the post page renders: the post, the author's total
// post count, and the comments oldest-first.
type PostDetail struct {
	Post            *model.Post
	AuthorPostCount int
	Comments        []model.Comment
}

// EditOutcome is the tagged result of EditPost.
//
// A non-author's edit attempt is NOT an error: the original behaviour —
// kept deliberately — is a silent redirect to the read-only detail view,
// with no message shown. Modelling that as {Denied | updated Post} keeps
// the authorization short-circuit explicit in the type instead of hiding
// it in an HTTP concern; the handler maps Denied to the redirect.
type EditOutcome struct {
	Denied bool
	Post   *model.Post
}

// ListGroups returns every category, for the group selection on the post
// form.
func (s *PostService) ListGroups(ctx context.Context) ([]model.Group, error) {
	groups, err := s.groups.ListGroups(ctx)
	if err != nil {
		s.logger.Error("failed to list groups", slog.String("error", err.Error()))
		return nil, fmt.Errorf("listing groups: %w", err)
	}
	return groups, nil
}

// ListFeed returns every post, newest first.
func (s *PostService) ListFeed(ctx context.Context) ([]model.Post, error) {
	posts, err := s.posts.ListFeed(ctx)
	if err != nil {
		s.logger.Error("failed to list feed", slog.String("error", err.Error()))
		return nil, fmt.Errorf("listing feed: %w", err)
	}
	return posts, nil
}

// ListByGroup returns the group and its posts. An unknown slug is
// NotFound; a known slug with no posts is a valid, empty feed.
func (s *PostService) ListByGroup(ctx context.Context, slug string) (*GroupFeed, error) {
	group, err := s.groups.GetGroupBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	posts, err := s.posts.ListByGroup(ctx, group.ID)
	if err != nil {
		s.logger.Error("failed to list group posts",
			slog.String("slug", slug),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("listing posts for group %s: %w", slug, err)
	}

	return &GroupFeed{Group: group, Posts: posts}, nil
}

// ListByAuthor returns an author's profile feed. viewerID may be empty
// (anonymous viewer); when set, Following reports whether that viewer
// follows the author.
func (s *PostService) ListByAuthor(ctx context.Context, username, viewerID string) (*Profile, error) {
	author, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	posts, err := s.posts.ListByAuthor(ctx, author.ID)
	if err != nil {
		return nil, fmt.Errorf("listing posts for %s: %w", username, err)
	}

	count, err := s.posts.CountByAuthor(ctx, author.ID)
	if err != nil {
		return nil, fmt.Errorf("counting posts for %s: %w", username, err)
	}

	following := false
	if viewerID != "" {
		following, err = s.follows.FollowExists(ctx, viewerID, author.ID)
		if err != nil {
			return nil, fmt.Errorf("checking follow state for %s: %w", username, err)
		}
	}

	return &Profile{
		Author:    author,
		Posts:     posts,
		PostCount: count,
		Following: following,
	}, nil
}

// GetPostDetail returns a single post with its comments and the author's
// post count. NotFound if the id is unknown.
func (s *PostService) GetPostDetail(ctx context.Context, postID string) (*PostDetail, error) {
	post, err := s.posts.GetPostByID(ctx, postID)
	if err != nil {
		return nil, err
	}

	count, err := s.posts.CountByAuthor(ctx, post.AuthorID)
	if err != nil {
		return nil, fmt.Errorf("counting posts for author of %s: %w", postID, err)
	}

	comments, err := s.comments.ListByPost(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("listing comments for %s: %w", postID, err)
	}

	return &PostDetail{
		Post:            post,
		AuthorPostCount: count,
		Comments:        comments,
	}, nil
}

// ListFollowedFeed returns posts by every author the viewer follows,
// newest first. A viewer following nobody gets an empty feed.
func (s *PostService) ListFollowedFeed(ctx context.Context, viewerID string) ([]model.Post, error) {
	authorIDs, err := s.follows.ListFollowedAuthorIDs(ctx, viewerID)
	if err != nil {
		return nil, fmt.Errorf("listing followed authors: %w", err)
	}

	posts, err := s.posts.ListByAuthors(ctx, authorIDs)
	if err != nil {
		return nil, fmt.Errorf("listing followed feed: %w", err)
	}

	return posts, nil
}

// CreatePost validates and persists a new post owned by authorID.
//
// groupID is optional ("" means no group) but, when given, must exist —
// a dangling selection is NotFound rather than a silently groupless post.
// imagePath is the stored path from the media store, or "".
func (s *PostService) CreatePost(ctx context.Context, authorID, text, groupID, imagePath string) (*model.Post, error) {
	text, err := validText("post", text)
	if err != nil {
		return nil, err
	}

	post := &model.Post{
		Text:      text,
		AuthorID:  authorID,
		ImagePath: imagePath,
	}

	if groupID != "" {
		group, err := s.groups.GetGroupByID(ctx, groupID)
		if err != nil {
			return nil, err
		}
		post.GroupID = &group.ID
	}

	if err := s.posts.CreatePost(ctx, post); err != nil {
		s.logger.Error("failed to create post",
			slog.String("author", authorID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("creating post: %w", err)
	}

	s.invalidateFeed(ctx)

	s.logger.Info("post created",
		slog.String("id", post.ID),
		slog.String("author", authorID),
	)

	// The handler redirects to the author's profile after a create, so
	// hand it the username along with the post. The post is already
	// persisted, so a failed lookup isn't grounds to fail the create —
	// log it and leave the field empty; the handler redirects to the
	// post itself instead.
	if author, err := s.users.GetUserByID(ctx, authorID); err == nil {
		post.AuthorUsername = author.Username
	} else {
		s.logger.Warn("author lookup after create failed",
			slog.String("author", authorID),
			slog.String("error", err.Error()),
		)
	}

	return post, nil
}

// EditPost applies an edit on behalf of requesterID.
//
// Order of checks matters: NotFound for an unknown post comes first (there
// is nothing to be denied about), then the authorship gate, then text
// validation — a non-author submitting garbage still just gets the silent
// redirect, never a validation message about a post that isn't theirs.
//
// The author and PubDate are preserved; an empty imagePath keeps the
// current image.
func (s *PostService) EditPost(ctx context.Context, requesterID, postID, text, groupID, imagePath string) (*EditOutcome, error) {
	post, err := s.posts.GetPostByID(ctx, postID)
	if err != nil {
		return nil, err
	}

	if post.AuthorID != requesterID {
		s.logger.Info("edit denied",
			slog.String("post", postID),
			slog.String("requester", requesterID),
		)
		return &EditOutcome{Denied: true, Post: post}, nil
	}

	text, err = validText("post", text)
	if err != nil {
		return nil, err
	}
	post.Text = text

	// The form always submits the full group selection, so an empty
	// groupID clears the group rather than keeping it.
	post.GroupID = nil
	if groupID != "" {
		group, err := s.groups.GetGroupByID(ctx, groupID)
		if err != nil {
			return nil, err
		}
		post.GroupID = &group.ID
	}

	if imagePath != "" {
		post.ImagePath = imagePath
	}

	if err := s.posts.UpdatePost(ctx, post); err != nil {
		s.logger.Error("failed to update post",
			slog.String("id", postID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("updating post: %w", err)
	}

	s.invalidateFeed(ctx)

	s.logger.Info("post updated", slog.String("id", postID))

	return &EditOutcome{Post: post}, nil
}

// DeletePost removes a post on behalf of requesterID. Unlike editing,
// deletion has no soft-fail contract: a non-author gets Forbidden.
func (s *PostService) DeletePost(ctx context.Context, requesterID, postID string) error {
	post, err := s.posts.GetPostByID(ctx, postID)
	if err != nil {
		return err
	}

	if post.AuthorID != requesterID {
		return apperror.Forbidden("only the author may delete a post")
	}

	if err := s.posts.DeletePost(ctx, postID); err != nil {
		return fmt.Errorf("deleting post: %w", err)
	}

	s.invalidateFeed(ctx)

	s.logger.Info("post deleted", slog.String("id", postID))
	return nil
}

// AddComment persists a comment by requesterID on the given post.
// Authentication is the route's job; by the time this runs, requesterID
// is a logged-in user.
func (s *PostService) AddComment(ctx context.Context, requesterID, postID, text string) (*model.Comment, error) {
	// The post lookup both 404s unknown ids and anchors the redirect
	// target the handler needs afterwards.
	if _, err := s.posts.GetPostByID(ctx, postID); err != nil {
		return nil, err
	}

	text, err := validText("comment", text)
	if err != nil {
		return nil, err
	}

	comment := &model.Comment{
		Text:     text,
		AuthorID: requesterID,
		PostID:   postID,
	}

	if err := s.comments.CreateComment(ctx, comment); err != nil {
		s.logger.Error("failed to create comment",
			slog.String("post", postID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("creating comment: %w", err)
	}

	s.logger.Info("comment created",
		slog.String("id", comment.ID),
		slog.String("post", postID),
	)

	return comment, nil
}

// invalidateFeed drops cached feed pages after a post mutation. A cache
// failure is logged, never surfaced — stale-for-TTL beats a failed write.
func (s *PostService) invalidateFeed(ctx context.Context) {
	if err := s.cache.Invalidate(ctx); err != nil {
		s.logger.Warn("feed cache invalidation failed", slog.String("error", err.Error()))
	}
}

// validText trims and validates a post or comment body: never empty (or
// whitespace-only), never absurdly long.
func validText(kind, text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", apperror.ValidationFailed("text", kind+" text is required")
	}
	if len(text) > MaxTextLength {
		return "", apperror.ValidationFailed("text",
			fmt.Sprintf("%s text must be %d characters or less", kind, MaxTextLength))
	}
	return text, nil
}
