package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/xid"
	"github.com/sakif/microblog/internal/model"
	"github.com/sakif/microblog/internal/repository"
)

// compile-time check that *DB implements repository.CommentRepository
var _ repository.CommentRepository = (*DB)(nil)

// CreateComment inserts a reply. The post/author existence checks live in
// the service (which needs the post anyway for the redirect target); a
// dangling reference here would be caught by the foreign keys regardless.
func (db *DB) CreateComment(ctx context.Context, comment *model.Comment) error {
	comment.ID = xid.New().String()
	comment.PubDate = time.Now()

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO comments (id, text, author_id, post_id, pub_date)
		 VALUES (?, ?, ?, ?, ?)`,
		comment.ID,
		comment.Text,
		comment.AuthorID,
		comment.PostID,
		comment.PubDate,
	)
	if err != nil {
		return fmt.Errorf("sqlite: creating comment on post %s: %w", comment.PostID, err)
	}

	return nil
}

// ListByPost returns a post's comments oldest-first (a conversation reads
// top to bottom), with the commenter's username joined in. The id tiebreak
// keeps the order deterministic for comments created in the same instant.
func (db *DB) ListByPost(ctx context.Context, postID string) ([]model.Comment, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT c.id, c.text, c.author_id, c.post_id, c.pub_date, u.username
		 FROM comments c
		 JOIN users u ON u.id = c.author_id
		 WHERE c.post_id = ?
		 ORDER BY c.pub_date ASC, c.id ASC`,
		postID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing comments for post %s: %w", postID, err)
	}
	defer rows.Close()

	comments := []model.Comment{}
	for rows.Next() {
		var c model.Comment
		if err := rows.Scan(
			&c.ID,
			&c.Text,
			&c.AuthorID,
			&c.PostID,
			&c.PubDate,
			&c.AuthorUsername,
		); err != nil {
			return nil, fmt.Errorf("sqlite: scanning comment row: %w", err)
		}
		comments = append(comments, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating comments: %w", err)
	}

	return comments, nil
}
