package service

import (
	"context"
	"errors"
	"testing"

	"github.com/sakif/microblog/internal/apperror"
)

func newTestFollowService(t *testing.T) (*FollowService, *mockStore) {
	t.Helper()
	store := newMockStore()
	return NewFollowService(store, store, testLogger()), store
}

func TestFollow(t *testing.T) {
	svc, store := newTestFollowService(t)
	follower := mockUser(t, store, "follower")
	author := mockUser(t, store, "author")

	if err := svc.Follow(context.Background(), follower.ID, "author"); err != nil {
		t.Fatalf("Follow() error = %v", err)
	}

	exists, err := store.FollowExists(context.Background(), follower.ID, author.ID)
	if err != nil {
		t.Fatalf("FollowExists() error = %v", err)
	}
	if !exists {
		t.Error("follow edge was not created")
	}
}

func TestFollow_TwiceKeepsOneEdge(t *testing.T) {
	svc, store := newTestFollowService(t)
	follower := mockUser(t, store, "follower")
	author := mockUser(t, store, "author")

	for i := 0; i < 2; i++ {
		if err := svc.Follow(context.Background(), follower.ID, "author"); err != nil {
			t.Fatalf("Follow() call %d error = %v", i+1, err)
		}
	}

	ids, err := store.ListFollowedAuthorIDs(context.Background(), follower.ID)
	if err != nil {
		t.Fatalf("ListFollowedAuthorIDs() error = %v", err)
	}
	if len(ids) != 1 || ids[0] != author.ID {
		t.Errorf("followed authors = %v, want exactly [%s]", ids, author.ID)
	}
}

func TestFollow_SelfIsNoOp(t *testing.T) {
	svc, store := newTestFollowService(t)
	user := mockUser(t, store, "narcissus")

	if err := svc.Follow(context.Background(), user.ID, "narcissus"); err != nil {
		t.Fatalf("Follow() self error = %v, want nil (silent no-op)", err)
	}

	ids, err := store.ListFollowedAuthorIDs(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("ListFollowedAuthorIDs() error = %v", err)
	}
	if len(ids) != 0 {
		t.Errorf("followed authors = %v, want none after self-follow", ids)
	}
}

func TestFollow_UnknownTargetIsNotFound(t *testing.T) {
	svc, store := newTestFollowService(t)
	follower := mockUser(t, store, "follower")

	err := svc.Follow(context.Background(), follower.ID, "nobody")
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("Follow() error = %v, want ErrNotFound", err)
	}
}

func TestUnfollow(t *testing.T) {
	svc, store := newTestFollowService(t)
	follower := mockUser(t, store, "follower")
	author := mockUser(t, store, "author")

	if err := svc.Follow(context.Background(), follower.ID, "author"); err != nil {
		t.Fatalf("Follow() error = %v", err)
	}
	if err := svc.Unfollow(context.Background(), follower.ID, "author"); err != nil {
		t.Fatalf("Unfollow() error = %v", err)
	}

	exists, err := store.FollowExists(context.Background(), follower.ID, author.ID)
	if err != nil {
		t.Fatalf("FollowExists() error = %v", err)
	}
	if exists {
		t.Error("follow edge survived Unfollow()")
	}
}

func TestUnfollow_MissingEdgeIsNotFollowing(t *testing.T) {
	svc, store := newTestFollowService(t)
	follower := mockUser(t, store, "follower")
	mockUser(t, store, "author")

	err := svc.Unfollow(context.Background(), follower.ID, "author")
	if !errors.Is(err, ErrNotFollowing) {
		t.Errorf("Unfollow() error = %v, want ErrNotFollowing", err)
	}
	// Still a NotFound for callers that don't care which kind.
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("Unfollow() error = %v, want to satisfy ErrNotFound", err)
	}
}

func TestUnfollow_UnknownTargetIsPlainNotFound(t *testing.T) {
	svc, store := newTestFollowService(t)
	follower := mockUser(t, store, "follower")

	err := svc.Unfollow(context.Background(), follower.ID, "nobody")
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("Unfollow() error = %v, want ErrNotFound", err)
	}
	if errors.Is(err, ErrNotFollowing) {
		t.Error("unknown username must not read as a missing edge")
	}
}
