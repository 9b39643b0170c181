package model

import "time"

// Post is an authored text entry, optionally assigned to a group and
// optionally illustrated with an uploaded image.
//
// RELATIONS:
//   - AuthorID is mandatory. Deleting the author deletes the post (and,
//     transitively, its comments) — the store declares ON DELETE CASCADE.
//   - GroupID is optional, hence a pointer: nil means "no group". Deleting
//     a group only detaches its posts (ON DELETE SET NULL), it never
//     deletes them.
//
// PubDate is set once when the post is created and never touched again,
// even by edits. The feed ordering depends on that immutability.
//
// AuthorUsername, GroupSlug and GroupTitle are display fields populated by
// the feed queries (which JOIN users and groups). They are not columns of
// the posts table and are left empty by mutations.
type Post struct {
	ID        string    `json:"id"        db:"id"`
	Text      string    `json:"text"      db:"text"`
	AuthorID  string    `json:"authorId"  db:"author_id"`
	GroupID   *string   `json:"groupId"   db:"group_id"`
	ImagePath string    `json:"imagePath" db:"image_path"`
	PubDate   time.Time `json:"pubDate"   db:"pub_date"`

	// Joined display fields (read paths only).
	AuthorUsername string `json:"authorUsername" db:"-"`
	GroupSlug      string `json:"groupSlug"      db:"-"`
	GroupTitle     string `json:"groupTitle"     db:"-"`
}

// Comment is a text reply attached to exactly one post.
//
// Both references are mandatory and cascade: deleting the post or the
// comment's author deletes the comment.
type Comment struct {
	ID       string    `json:"id"       db:"id"`
	Text     string    `json:"text"     db:"text"`
	AuthorID string    `json:"authorId" db:"author_id"`
	PostID   string    `json:"postId"   db:"post_id"`
	PubDate  time.Time `json:"pubDate"  db:"pub_date"`

	AuthorUsername string `json:"authorUsername" db:"-"`
}
