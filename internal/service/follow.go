package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/sakif/microblog/internal/apperror"
	"github.com/sakif/microblog/internal/model"
	"github.com/sakif/microblog/internal/repository"
)

// ErrNotFollowing is the NotFound Unfollow returns when the target user
// exists but there is no edge to remove. It is distinct from the plain
// NotFound of an unknown username, so the boundary can treat "wasn't
// following them anyway" as done while a bogus username still 404s.
var ErrNotFollowing = &apperror.AppError{
	Err:     apperror.ErrNotFound,
	Message: "you are not following this author",
}

// FollowService owns the follow/unfollow mutations. Reads over the edges
// (the followed feed, the profile toggle) live in PostService, which
// assembles them into views.
type FollowService struct {
	follows repository.FollowRepository
	users   repository.UserRepository
	logger  *slog.Logger
}

func NewFollowService(
	follows repository.FollowRepository,
	users repository.UserRepository,
	logger *slog.Logger,
) *FollowService {
	return &FollowService{
		follows: follows,
		users:   users,
		logger:  logger,
	}
}

// Follow creates a follow edge from requesterID to the named author.
//
// NotFound if the target username is unknown. Two cases are silent no-ops
// rather than errors:
//   - already following (the store's INSERT OR IGNORE absorbs it)
//   - following yourself (checked here; the store doesn't forbid the
//     edge, only this mutation path does)
func (s *FollowService) Follow(ctx context.Context, requesterID, targetUsername string) error {
	target, err := s.users.GetUserByUsername(ctx, targetUsername)
	if err != nil {
		return err
	}

	if target.ID == requesterID {
		return nil
	}

	edge := &model.Follow{UserID: requesterID, AuthorID: target.ID}
	if err := s.follows.CreateFollow(ctx, edge); err != nil {
		s.logger.Error("failed to create follow",
			slog.String("user", requesterID),
			slog.String("author", target.ID),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("following %s: %w", targetUsername, err)
	}

	s.logger.Info("follow created",
		slog.String("user", requesterID),
		slog.String("author", target.ID),
	)
	return nil
}

// Unfollow removes the follow edge from requesterID to the named author.
//
// NotFound if the target username is unknown; ErrNotFollowing when the
// user exists but no edge does, surfaced by the deletion itself, not a
// prior check.
func (s *FollowService) Unfollow(ctx context.Context, requesterID, targetUsername string) error {
	target, err := s.users.GetUserByUsername(ctx, targetUsername)
	if err != nil {
		return err
	}

	if err := s.follows.DeleteFollow(ctx, requesterID, target.ID); err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return ErrNotFollowing
		}
		return err
	}

	s.logger.Info("follow removed",
		slog.String("user", requesterID),
		slog.String("author", target.ID),
	)
	return nil
}
