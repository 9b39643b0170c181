package sqlite

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
)

// The pragmas live in the DSN precisely so that every connection the pool
// opens — not just the first — has foreign keys on. These tests force the
// pool to hand out fresh connections and check the schema rules still
// hold there.

func TestCascadeFiresOnFreshPoolConnection(t *testing.T) {
	db, err := New(filepath.Join(t.TempDir(), "pool.db"))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() { db.Close() })

	// With no idle connections retained, every operation below runs on a
	// brand-new pool connection.
	db.conn.SetMaxIdleConns(0)

	author := createTestUser(t, db, "leo")
	createTestPost(t, db, author, nil, "doomed with its author")

	if err := db.DeleteUser(context.Background(), author.ID); err != nil {
		t.Fatalf("DeleteUser() error = %v", err)
	}

	var remaining int
	err = db.conn.QueryRow(`SELECT COUNT(*) FROM posts`).Scan(&remaining)
	if err != nil {
		t.Fatalf("counting posts: %v", err)
	}
	if remaining != 0 {
		t.Errorf("posts remaining after author delete = %d, want 0", remaining)
	}
}

func TestGroupDetachFiresOnFreshPoolConnection(t *testing.T) {
	db, err := New(filepath.Join(t.TempDir(), "pool.db"))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() { db.Close() })

	db.conn.SetMaxIdleConns(0)

	author := createTestUser(t, db, "leo")
	group := createTestGroup(t, db, "cats")
	post := createTestPost(t, db, author, group, "survives, detached")

	if err := db.DeleteGroup(context.Background(), group.ID); err != nil {
		t.Fatalf("DeleteGroup() error = %v", err)
	}

	found, err := db.GetPostByID(context.Background(), post.ID)
	if err != nil {
		t.Fatalf("GetPostByID() after group delete: %v", err)
	}
	if found.GroupID != nil {
		t.Errorf("GroupID = %v, want nil (post detached, not deleted)", *found.GroupID)
	}
}

func TestMemoryDatabaseSurvivesConcurrentUse(t *testing.T) {
	// A second pool connection to ":memory:" would open a separate empty
	// database — New pins the pool to one connection so concurrent use
	// can't make the tables vanish.
	db := newTestDB(t)
	author := createTestUser(t, db, "leo")
	createTestPost(t, db, author, nil, "still here")

	var wg sync.WaitGroup
	errs := make(chan error, 10)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := db.ListFeed(context.Background()); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("concurrent ListFeed() error = %v", err)
	}

	posts, err := db.ListFeed(context.Background())
	if err != nil {
		t.Fatalf("ListFeed() error = %v", err)
	}
	if len(posts) != 1 {
		t.Errorf("len(posts) = %d, want 1", len(posts))
	}
}
