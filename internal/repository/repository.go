// Package repository declares the storage interfaces the service layer
// depends on.
//
// The service is programmed against these interfaces, never against the
// concrete SQLite implementation — tests inject in-memory mocks, and the
// storage engine could be swapped by changing one line in the server
// wiring.
package repository

import (
	"context"

	"github.com/sakif/microblog/internal/model"
)

// UserRepository manages registered accounts.
type UserRepository interface {
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByID(ctx context.Context, id string) (*model.User, error)
	GetUserByUsername(ctx context.Context, username string) (*model.User, error)
	// DeleteUser cascades: the user's posts, comments, and follow edges go
	// with the account.
	DeleteUser(ctx context.Context, id string) error
}

// GroupRepository manages post categories.
type GroupRepository interface {
	CreateGroup(ctx context.Context, group *model.Group) error
	GetGroupByID(ctx context.Context, id string) (*model.Group, error)
	GetGroupBySlug(ctx context.Context, slug string) (*model.Group, error)
	// ListGroups returns every category ordered by title, for the group
	// selection on the post form.
	ListGroups(ctx context.Context) ([]model.Group, error)
	// DeleteGroup detaches the group's posts (group reference nulled);
	// it never deletes posts.
	DeleteGroup(ctx context.Context, id string) error
}

// PostRepository manages posts and the feed queries over them.
//
// Every listing returns posts ordered by pub_date descending (newest
// first), with the author username and group slug/title joined in for
// display. Listings return the full ordered sequence; the pagination
// package slices it into pages.
type PostRepository interface {
	CreatePost(ctx context.Context, post *model.Post) error
	GetPostByID(ctx context.Context, id string) (*model.Post, error)
	// UpdatePost persists text, group, and image changes in place. The
	// author and pub_date columns are never written.
	UpdatePost(ctx context.Context, post *model.Post) error
	DeletePost(ctx context.Context, id string) error

	ListFeed(ctx context.Context) ([]model.Post, error)
	ListByGroup(ctx context.Context, groupID string) ([]model.Post, error)
	ListByAuthor(ctx context.Context, authorID string) ([]model.Post, error)
	// ListByAuthors powers the followed feed: posts by any of the given
	// authors, newest first. An empty author set yields an empty sequence.
	ListByAuthors(ctx context.Context, authorIDs []string) ([]model.Post, error)
	CountByAuthor(ctx context.Context, authorID string) (int, error)
}

// CommentRepository manages replies attached to posts.
type CommentRepository interface {
	CreateComment(ctx context.Context, comment *model.Comment) error
	// ListByPost returns the post's comments ordered by creation time
	// ascending (oldest first), author username joined in.
	ListByPost(ctx context.Context, postID string) ([]model.Comment, error)
}

// FollowRepository manages directed follow edges.
type FollowRepository interface {
	CreateFollow(ctx context.Context, follow *model.Follow) error
	// DeleteFollow removes the single (user, author) edge and reports
	// NotFound when no such edge exists.
	DeleteFollow(ctx context.Context, userID, authorID string) error
	FollowExists(ctx context.Context, userID, authorID string) (bool, error)
	// ListFollowedAuthorIDs returns the IDs of every author the user follows.
	ListFollowedAuthorIDs(ctx context.Context, userID string) ([]string, error)
}
