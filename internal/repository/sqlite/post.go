package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/rs/xid"
	"github.com/sakif/microblog/internal/apperror"
	"github.com/sakif/microblog/internal/model"
	"github.com/sakif/microblog/internal/repository"
)

// compile-time check that *DB implements repository.PostRepository
var _ repository.PostRepository = (*DB)(nil)

// selectPost is the shared projection for every post query: the post's own
// columns plus the author username and (when present) group slug/title,
// joined in so feed pages render without per-row lookups.
//
// The group join is a LEFT JOIN because group_id is nullable; COALESCE
// turns the resulting NULLs into empty strings, which is the "no group"
// representation the display fields use.
const selectPost = `
	SELECT p.id, p.text, p.author_id, p.group_id, p.image_path, p.pub_date,
	       u.username,
	       COALESCE(g.slug, ''), COALESCE(g.title, '')
	FROM posts p
	JOIN users u ON u.id = p.author_id
	LEFT JOIN post_groups g ON g.id = p.group_id`

// orderNewestFirst is the feed ordering: pub_date descending, with the id
// (a creation-time-sortable xid) as tiebreak so two posts created in the
// same instant still have a stable total order.
const orderNewestFirst = ` ORDER BY p.pub_date DESC, p.id DESC`

// CreatePost inserts a new post. ID and PubDate are generated here;
// PubDate is set exactly once and no later write path touches it.
func (db *DB) CreatePost(ctx context.Context, post *model.Post) error {
	post.ID = xid.New().String()
	post.PubDate = time.Now()

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO posts (id, text, author_id, group_id, image_path, pub_date)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		post.ID,
		post.Text,
		post.AuthorID,
		post.GroupID,
		post.ImagePath,
		post.PubDate,
	)
	if err != nil {
		return fmt.Errorf("sqlite: creating post: %w", err)
	}

	return nil
}

// GetPostByID retrieves a single post with display fields populated.
func (db *DB) GetPostByID(ctx context.Context, id string) (*model.Post, error) {
	var p model.Post
	var groupID sql.NullString

	err := db.conn.QueryRowContext(ctx, selectPost+` WHERE p.id = ?`, id).Scan(
		&p.ID,
		&p.Text,
		&p.AuthorID,
		&groupID,
		&p.ImagePath,
		&p.PubDate,
		&p.AuthorUsername,
		&p.GroupSlug,
		&p.GroupTitle,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("post", id)
		}
		return nil, fmt.Errorf("sqlite: getting post %s: %w", id, err)
	}

	if groupID.Valid {
		p.GroupID = &groupID.String
	}

	return &p, nil
}

// UpdatePost persists text, group, and image changes in place.
//
// author_id and pub_date are deliberately absent from the SET list: the
// author never changes, and pub_date is immutable by contract. Missing
// rows are detected via RowsAffected, same as everywhere else.
func (db *DB) UpdatePost(ctx context.Context, post *model.Post) error {
	result, err := db.conn.ExecContext(ctx,
		`UPDATE posts SET text = ?, group_id = ?, image_path = ? WHERE id = ?`,
		post.Text,
		post.GroupID,
		post.ImagePath,
		post.ID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating post %s: %w", post.ID, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("post", post.ID)
	}

	return nil
}

// DeletePost removes a post; its comments cascade with it.
func (db *DB) DeletePost(ctx context.Context, id string) error {
	result, err := db.conn.ExecContext(ctx, `DELETE FROM posts WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("sqlite: deleting post %s: %w", id, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("post", id)
	}

	return nil
}

// ListFeed returns every post, newest first — the home page feed.
func (db *DB) ListFeed(ctx context.Context) ([]model.Post, error) {
	return db.listPosts(ctx, selectPost+orderNewestFirst)
}

// ListByGroup returns the posts in one group, newest first. The caller
// resolves the slug to a group ID first (and 404s on an unknown slug), so
// an unknown ID here simply yields an empty feed.
func (db *DB) ListByGroup(ctx context.Context, groupID string) ([]model.Post, error) {
	return db.listPosts(ctx, selectPost+` WHERE p.group_id = ?`+orderNewestFirst, groupID)
}

// ListByAuthor returns one author's posts, newest first — the profile feed.
func (db *DB) ListByAuthor(ctx context.Context, authorID string) ([]model.Post, error) {
	return db.listPosts(ctx, selectPost+` WHERE p.author_id = ?`+orderNewestFirst, authorID)
}

// ListByAuthors returns posts by any of the given authors, newest first —
// the followed feed. An empty author set short-circuits to an empty slice
// (SQL IN () is a syntax error, and a viewer following nobody is the
// normal case, not an error).
func (db *DB) ListByAuthors(ctx context.Context, authorIDs []string) ([]model.Post, error) {
	if len(authorIDs) == 0 {
		return []model.Post{}, nil
	}

	// Build one ? per author. Placeholders only — the IDs are user-shaped
	// data and never concatenated into the SQL.
	placeholders := strings.Repeat("?,", len(authorIDs))
	placeholders = placeholders[:len(placeholders)-1]

	args := make([]any, len(authorIDs))
	for i, id := range authorIDs {
		args[i] = id
	}

	query := selectPost + ` WHERE p.author_id IN (` + placeholders + `)` + orderNewestFirst
	return db.listPosts(ctx, query, args...)
}

// CountByAuthor returns the author's total post count, shown on profile
// and post-detail pages.
func (db *DB) CountByAuthor(ctx context.Context, authorID string) (int, error) {
	var count int
	err := db.conn.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM posts WHERE author_id = ?`, authorID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("sqlite: counting posts for author %s: %w", authorID, err)
	}
	return count, nil
}

// listPosts runs a selectPost-shaped query and scans the rows.
func (db *DB) listPosts(ctx context.Context, query string, args ...any) ([]model.Post, error) {
	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing posts: %w", err)
	}
	defer rows.Close()

	posts := []model.Post{}
	for rows.Next() {
		var p model.Post
		var groupID sql.NullString

		if err := rows.Scan(
			&p.ID,
			&p.Text,
			&p.AuthorID,
			&groupID,
			&p.ImagePath,
			&p.PubDate,
			&p.AuthorUsername,
			&p.GroupSlug,
			&p.GroupTitle,
		); err != nil {
			return nil, fmt.Errorf("sqlite: scanning post row: %w", err)
		}

		if groupID.Valid {
			p.GroupID = &groupID.String
		}
		posts = append(posts, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating posts: %w", err)
	}

	return posts, nil
}
