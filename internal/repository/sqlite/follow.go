package sqlite

import (
	"context"
	"fmt"

	"github.com/sakif/microblog/internal/apperror"
	"github.com/sakif/microblog/internal/model"
	"github.com/sakif/microblog/internal/repository"
)

// compile-time check that *DB implements repository.FollowRepository
var _ repository.FollowRepository = (*DB)(nil)

// CreateFollow inserts a follow edge.
//
// INSERT OR IGNORE leans on the PRIMARY KEY (user_id, author_id): if the
// edge already exists the statement is a silent no-op, which is exactly
// the duplicate-follow semantics the service wants. The old
// check-then-create race is closed here at the store, not by the caller.
func (db *DB) CreateFollow(ctx context.Context, follow *model.Follow) error {
	_, err := db.conn.ExecContext(ctx,
		`INSERT OR IGNORE INTO follows (user_id, author_id) VALUES (?, ?)`,
		follow.UserID,
		follow.AuthorID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: creating follow %s -> %s: %w", follow.UserID, follow.AuthorID, err)
	}

	return nil
}

// DeleteFollow removes the single (user, author) edge. Unfollowing someone
// you never followed is NotFound — that comes from the deletion itself
// (zero rows affected), not from a prior existence check.
func (db *DB) DeleteFollow(ctx context.Context, userID, authorID string) error {
	result, err := db.conn.ExecContext(ctx,
		`DELETE FROM follows WHERE user_id = ? AND author_id = ?`,
		userID,
		authorID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: deleting follow %s -> %s: %w", userID, authorID, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("follow", userID+" -> "+authorID)
	}

	return nil
}

// FollowExists reports whether user follows author — rendered on profile
// pages as the follow/unfollow toggle.
func (db *DB) FollowExists(ctx context.Context, userID, authorID string) (bool, error) {
	var count int
	err := db.conn.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM follows WHERE user_id = ? AND author_id = ?`,
		userID,
		authorID,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("sqlite: checking follow %s -> %s: %w", userID, authorID, err)
	}

	return count > 0, nil
}

// ListFollowedAuthorIDs returns the IDs of every author the user follows,
// feeding the IN-clause of the followed feed query.
func (db *DB) ListFollowedAuthorIDs(ctx context.Context, userID string) ([]string, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT author_id FROM follows WHERE user_id = ?`, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing follows for %s: %w", userID, err)
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("sqlite: scanning follow row: %w", err)
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating follows: %w", err)
	}

	return ids, nil
}
