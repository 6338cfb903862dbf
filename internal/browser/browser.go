// Package browser abstracts the DOM surface the scraper needs, so the
// same scraping logic can run against a live Chromium page or a parsed
// HTML snapshot.
package browser

import (
	"context"
	"time"
)

// Factory creates sessions. One factory owns at most one underlying
// browser process; every session is an independent page inside it.
type Factory interface {
	NewSession(ctx context.Context) (Session, error)
	Close() error
}

// Session is one navigable page.
type Session interface {
	// Navigate loads the given URL.
	Navigate(ctx context.Context, pageURL string) error

	// WaitFor blocks until at least one element matches the CSS
	// selector or the timeout elapses. A timeout unwraps to
	// types.ErrWaitTimeout.
	WaitFor(ctx context.Context, selector string, timeout time.Duration) error

	// Elements returns every element matching a CSS selector, in
	// document order, without waiting.
	Elements(selector string) ([]Element, error)

	// ElementsX returns every element matching an XPath expression,
	// in document order, without waiting.
	ElementsX(expr string) ([]Element, error)

	// Eval runs a JavaScript function in the page and returns its
	// result as a string. Sessions without a scripting engine return
	// types.ErrScriptingUnsupported.
	Eval(script string, args ...any) (string, error)

	// URL reports the session's current location.
	URL() string

	Close() error
}

// Element is a handle on one DOM element.
type Element interface {
	// Text returns the element's rendered text. Block boundaries
	// become line breaks, matching what a browser's innerText shows.
	Text() (string, error)

	// Attr returns an attribute value, "" when the attribute is
	// absent.
	Attr(name string) (string, error)

	// Elements returns descendant elements matching a CSS selector.
	Elements(selector string) ([]Element, error)

	// Ancestors returns the element's enclosing div containers,
	// nearest first, at most limit of them.
	Ancestors(limit int) ([]Element, error)
}
