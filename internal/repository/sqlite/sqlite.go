// Package sqlite implements the repository interfaces using SQLite as the
// storage backend.
//
// The driver is modernc.org/sqlite — a pure Go translation of SQLite, so
// no C compiler is involved and the binary stays trivially
// cross-compilable. The blank import below registers it with database/sql
// under the driver name "sqlite".
//
// The relational rules the data model depends on live here, in the schema:
//   - users.username is UNIQUE
//   - post_groups.slug is UNIQUE
//   - posts.author_id cascades (deleting an author deletes their posts)
//   - posts.group_id is nullable and SET NULL on group deletion (deleting
//     a group detaches posts, never deletes them)
//   - comments cascade from both their post and their author
//   - follows has PRIMARY KEY (user_id, author_id), so a follow pair can
//     exist at most once no matter how requests interleave
//
// Foreign key enforcement is OFF by default in SQLite and per-connection
// when on; New carries the pragma in the DSN so the driver applies it to
// every connection the pool opens — the cascade rules are dead letters on
// any connection without it.
package sqlite

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// DB wraps a sql.DB connection pool and implements every repository
// interface (user, group, post, comment, follow). One type for all of them
// keeps the wiring simple and lets related queries share the connection.
type DB struct {
	conn *sql.DB
}

// New opens (or creates) the database at dbPath and runs migrations.
// Use ":memory:" for a throwaway in-memory database in tests.
func New(dbPath string) (*DB, error) {
	// The pragmas ride in the DSN, not in a one-off Exec: foreign_keys
	// is a per-connection setting in SQLite, and database/sql is a pool.
	// An Exec would configure only whichever connection happened to run
	// it — every connection the pool opens later would have foreign keys
	// OFF, and the cascade/detach rules would silently stop firing.
	// The driver replays DSN pragmas on each new connection.
	//
	// WAL allows concurrent reads while a write is in progress — this is
	// the storage engine's native serialization the request model relies
	// on; no in-process locking exists above it.
	dsn := "file:" + dbPath + "?_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)"

	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening database: %w", err)
	}

	// An in-memory database is private to the connection that opened it;
	// a second pool connection would see a separate, empty database. Pin
	// the pool to a single connection so there is exactly one database.
	if dbPath == ":memory:" {
		conn.SetMaxOpenConns(1)
	}

	// Force an immediate connection so a bad path surfaces here, not on
	// the first query.
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: pinging database: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: running migrations: %w", err)
	}

	return db, nil
}

// Close closes the connection pool. The server defers this during
// shutdown so the WAL is flushed and the file lock released.
func (db *DB) Close() error {
	return db.conn.Close()
}

// migrate creates the schema. CREATE TABLE IF NOT EXISTS keeps it
// idempotent — safe on every startup.
//
// The category table is named post_groups (not "groups") because GROUPS
// became an SQL keyword with window functions and quoting it in every
// query is noise.
func (db *DB) migrate() error {
	_, err := db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS users (
			id            TEXT PRIMARY KEY,
			username      TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			created_at    DATETIME NOT NULL
		);

		CREATE TABLE IF NOT EXISTS post_groups (
			id          TEXT PRIMARY KEY,
			slug        TEXT NOT NULL UNIQUE,
			title       TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT ''
		);

		CREATE TABLE IF NOT EXISTS posts (
			id         TEXT PRIMARY KEY,
			text       TEXT NOT NULL,
			author_id  TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			group_id   TEXT REFERENCES post_groups(id) ON DELETE SET NULL,
			image_path TEXT NOT NULL DEFAULT '',
			pub_date   DATETIME NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_posts_pub_date  ON posts(pub_date);
		CREATE INDEX IF NOT EXISTS idx_posts_author_id ON posts(author_id);
		CREATE INDEX IF NOT EXISTS idx_posts_group_id  ON posts(group_id);

		CREATE TABLE IF NOT EXISTS comments (
			id        TEXT PRIMARY KEY,
			text      TEXT NOT NULL,
			author_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			post_id   TEXT NOT NULL REFERENCES posts(id) ON DELETE CASCADE,
			pub_date  DATETIME NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_comments_post_id ON comments(post_id);

		CREATE TABLE IF NOT EXISTS follows (
			user_id   TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			author_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			PRIMARY KEY (user_id, author_id)
		);
	`)
	if err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}

	return nil
}
