package sqlite

import (
	"context"
	"testing"

	"github.com/sakif/microblog/internal/model"
)

// newTestDB creates a fresh in-memory database for one test. ":memory:"
// is fast, isolated, and destroyed when the connection closes; t.Cleanup
// handles the close even in subtests.
func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := New(":memory:")
	if err != nil {
		t.Fatalf("failed to create test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func createTestUser(t *testing.T, db *DB, username string) *model.User {
	t.Helper()
	user := &model.User{Username: username, PasswordHash: "x"}
	if err := db.CreateUser(context.Background(), user); err != nil {
		t.Fatalf("failed to create test user %s: %v", username, err)
	}
	return user
}

func createTestGroup(t *testing.T, db *DB, slug string) *model.Group {
	t.Helper()
	group := &model.Group{Slug: slug, Title: "Group " + slug, Description: "test group"}
	if err := db.CreateGroup(context.Background(), group); err != nil {
		t.Fatalf("failed to create test group %s: %v", slug, err)
	}
	return group
}

func createTestPost(t *testing.T, db *DB, author *model.User, group *model.Group, text string) *model.Post {
	t.Helper()
	post := &model.Post{Text: text, AuthorID: author.ID}
	if group != nil {
		post.GroupID = &group.ID
	}
	if err := db.CreatePost(context.Background(), post); err != nil {
		t.Fatalf("failed to create test post: %v", err)
	}
	return post
}

func createTestComment(t *testing.T, db *DB, author *model.User, post *model.Post, text string) *model.Comment {
	t.Helper()
	comment := &model.Comment{Text: text, AuthorID: author.ID, PostID: post.ID}
	if err := db.CreateComment(context.Background(), comment); err != nil {
		t.Fatalf("failed to create test comment: %v", err)
	}
	return comment
}
