package model

// Group is a named category that posts can belong to.
//
// The slug is the URL-facing identifier (/group/{slug}/) and is UNIQUE in
// the store. Posts reference groups by internal ID, so slugs could in
// principle be renamed without rewriting posts.
type Group struct {
	ID          string `json:"id"          db:"id"`
	Slug        string `json:"slug"        db:"slug"`
	Title       string `json:"title"       db:"title"`
	Description string `json:"description" db:"description"`
}

// Follow is a directed subscription edge: User (the follower) receives
// Author's posts in their personal feed.
//
// The store enforces UNIQUE(user_id, author_id), so a pair can exist at
// most once even under concurrent follow requests. Nothing in the store
// prevents user_id == author_id; only the mutation path blocks new
// self-follows, mirroring the behaviour this design inherited.
type Follow struct {
	UserID   string `json:"userId"   db:"user_id"`
	AuthorID string `json:"authorId" db:"author_id"`
}
