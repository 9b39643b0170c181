package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rs/xid"
	"github.com/sakif/microblog/internal/apperror"
	"github.com/sakif/microblog/internal/model"
	"github.com/sakif/microblog/internal/repository"
)

// compile-time check that *DB implements repository.GroupRepository
var _ repository.GroupRepository = (*DB)(nil)

// CreateGroup inserts a new category. Slug collisions surface as Conflict.
func (db *DB) CreateGroup(ctx context.Context, group *model.Group) error {
	group.ID = xid.New().String()

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO post_groups (id, slug, title, description)
		 VALUES (?, ?, ?, ?)`,
		group.ID,
		group.Slug,
		group.Title,
		group.Description,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.Conflict("group", group.Slug)
		}
		return fmt.Errorf("sqlite: creating group %s: %w", group.Slug, err)
	}

	return nil
}

// GetGroupByID retrieves a group by internal ID.
func (db *DB) GetGroupByID(ctx context.Context, id string) (*model.Group, error) {
	return db.getGroup(ctx, `WHERE id = ?`, id)
}

// GetGroupBySlug retrieves a group by its URL slug — the lookup behind
// /group/{slug}/. An unknown slug is NotFound even before any posts are
// considered, so an empty group still renders (with an empty feed) while a
// bogus slug 404s.
func (db *DB) GetGroupBySlug(ctx context.Context, slug string) (*model.Group, error) {
	return db.getGroup(ctx, `WHERE slug = ?`, slug)
}

func (db *DB) getGroup(ctx context.Context, where, key string) (*model.Group, error) {
	var g model.Group

	err := db.conn.QueryRowContext(ctx,
		`SELECT id, slug, title, description FROM post_groups `+where,
		key,
	).Scan(
		&g.ID,
		&g.Slug,
		&g.Title,
		&g.Description,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("group", key)
		}
		return nil, fmt.Errorf("sqlite: getting group %s: %w", key, err)
	}

	return &g, nil
}

// ListGroups returns every category ordered by title.
func (db *DB) ListGroups(ctx context.Context) ([]model.Group, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, slug, title, description FROM post_groups ORDER BY title ASC`)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing groups: %w", err)
	}
	defer rows.Close()

	groups := []model.Group{}
	for rows.Next() {
		var g model.Group
		if err := rows.Scan(&g.ID, &g.Slug, &g.Title, &g.Description); err != nil {
			return nil, fmt.Errorf("sqlite: scanning group: %w", err)
		}
		groups = append(groups, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating groups: %w", err)
	}

	return groups, nil
}

// DeleteGroup removes a category. The ON DELETE SET NULL rule on
// posts.group_id detaches the group's posts — they survive, groupless.
func (db *DB) DeleteGroup(ctx context.Context, id string) error {
	result, err := db.conn.ExecContext(ctx, `DELETE FROM post_groups WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("sqlite: deleting group %s: %w", id, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("group", id)
	}

	return nil
}
