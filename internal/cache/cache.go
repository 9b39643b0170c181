// Package cache provides the response cache that sits in front of the
// home feed.
//
// The feed is the hottest page and the only one every visitor sees, so
// its rendered pages are cached. Correctness rule: the cache is
// invalidated whenever any post is created, edited, or deleted — the
// service layer owns those mutations and calls Invalidate after each one.
//
// Caching is optional. When no Redis address is configured, the server
// wires the Noop implementation and every request renders fresh.
package cache

import "context"

// FeedCache caches rendered feed pages keyed by page number.
//
// A cache failure is never a request failure: implementations return
// errors so callers can log them, but callers treat any error as a miss
// and carry on.
type FeedCache interface {
	// GetPage returns the cached rendering of the given feed page.
	// ok is false on a miss.
	GetPage(ctx context.Context, page int) (html string, ok bool, err error)
	// SetPage stores the rendering of the given feed page.
	SetPage(ctx context.Context, page int, html string) error
	// Invalidate drops every cached feed page.
	Invalidate(ctx context.Context) error
}

// Noop is the FeedCache used when caching is disabled: every read is a
// miss, every write succeeds.
type Noop struct{}

func (Noop) GetPage(context.Context, int) (string, bool, error) { return "", false, nil }
func (Noop) SetPage(context.Context, int, string) error         { return nil }
func (Noop) Invalidate(context.Context) error                   { return nil }
