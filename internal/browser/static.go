package browser

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/antchfx/htmlquery"
	"golang.org/x/net/html"

	"pumpwatch/internal/types"
)

// StaticSession serves a parsed HTML document as a read-only page.
// Snapshots never change, so waits resolve immediately and script
// evaluation is unsupported. Useful for offline parsing and tests.
type StaticSession struct {
	doc *html.Node
	url string
}

// NewStaticSession parses an HTML snapshot taken from pageURL.
func NewStaticSession(body []byte, pageURL string) (*StaticSession, error) {
	doc, err := html.Parse(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse snapshot: %w", err)
	}
	return &StaticSession{doc: doc, url: pageURL}, nil
}

// Navigate only repositions the session's URL; the document is fixed.
func (s *StaticSession) Navigate(ctx context.Context, pageURL string) error {
	s.url = pageURL
	return nil
}

func (s *StaticSession) WaitFor(ctx context.Context, selector string, timeout time.Duration) error {
	els, err := s.Elements(selector)
	if err != nil {
		return err
	}
	if len(els) == 0 {
		return &types.WaitError{Selector: selector, Timeout: timeout}
	}
	return nil
}

func (s *StaticSession) Elements(selector string) ([]Element, error) {
	sel := goquery.NewDocumentFromNode(s.doc).Find(selector)
	out := make([]Element, 0, sel.Length())
	sel.Each(func(_ int, q *goquery.Selection) {
		out = append(out, &staticElement{node: q.Nodes[0]})
	})
	return out, nil
}

func (s *StaticSession) ElementsX(expr string) ([]Element, error) {
	nodes, err := htmlquery.QueryAll(s.doc, expr)
	if err != nil {
		return nil, fmt.Errorf("query xpath %q: %w", expr, err)
	}
	out := make([]Element, len(nodes))
	for i, n := range nodes {
		out[i] = &staticElement{node: n}
	}
	return out, nil
}

func (s *StaticSession) Eval(script string, args ...any) (string, error) {
	return "", types.ErrScriptingUnsupported
}

func (s *StaticSession) URL() string { return s.url }

func (s *StaticSession) Close() error { return nil }

type staticElement struct {
	node *html.Node
}

func (e *staticElement) Text() (string, error) {
	return renderText(e.node), nil
}

func (e *staticElement) Attr(name string) (string, error) {
	for _, a := range e.node.Attr {
		if a.Key == name {
			return a.Val, nil
		}
	}
	return "", nil
}

func (e *staticElement) Elements(selector string) ([]Element, error) {
	sel := goquery.NewDocumentFromNode(e.node).Find(selector)
	out := make([]Element, 0, sel.Length())
	sel.Each(func(_ int, q *goquery.Selection) {
		out = append(out, &staticElement{node: q.Nodes[0]})
	})
	return out, nil
}

// Ancestors walks the parent chain, keeping div containers, nearest
// first, until limit of them are collected.
func (e *staticElement) Ancestors(limit int) ([]Element, error) {
	var out []Element
	for n := e.node.Parent; n != nil && len(out) < limit; n = n.Parent {
		if n.Type == html.ElementNode && n.Data == "div" {
			out = append(out, &staticElement{node: n})
		}
	}
	return out, nil
}
