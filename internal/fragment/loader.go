// Package fragment loads the shared header and footer markup and splices it
// into pages at their mount points.
package fragment

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"strings"
	"sync"

	"golang.org/x/net/html"
	"golang.org/x/sync/errgroup"
)

// Fragment names a piece of shared markup and where it is mounted.
type Fragment struct {
	Name    string
	Path    string
	MountID string
}

var (
	Header = Fragment{Name: "header", Path: "components/header.html", MountID: "header-container"}
	Footer = Fragment{Name: "footer", Path: "components/footer.html", MountID: "footer-container"}
)

// Loader fetches fragments from Source. Failed fragments are logged and
// skipped; Loader never reports an error to its caller.
type Loader struct {
	Source    Source
	Fragments []Fragment
	Logf      func(format string, args ...any)
}

func NewLoader(src Source) *Loader {
	return &Loader{Source: src, Fragments: []Fragment{Header, Footer}, Logf: log.Printf}
}

func (l *Loader) logf(format string, args ...any) {
	if l.Logf != nil {
		l.Logf(format, args...)
	}
}

// Fetch requests every fragment concurrently and returns the markup of those
// that succeeded, keyed by mount id.
func (l *Loader) Fetch(ctx context.Context) map[string]string {
	var (
		mu  sync.Mutex
		out = make(map[string]string, len(l.Fragments))
	)
	var g errgroup.Group
	for _, f := range l.Fragments {
		g.Go(func() error {
			body, err := l.Source.Fetch(ctx, f.Path)
			if err != nil {
				l.logf("fragment: %s: %v", f.Name, err)
				return nil
			}
			mu.Lock()
			out[f.MountID] = body
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()
	return out
}

// Apply fetches the fragments and splices them into doc. On any failure the
// original document is returned.
func (l *Loader) Apply(ctx context.Context, doc []byte) []byte {
	contents := l.Fetch(ctx)
	if len(contents) == 0 {
		return doc
	}
	out, err := Splice(doc, contents)
	if err != nil {
		l.logf("fragment: splice: %v", err)
		return doc
	}
	return out
}

// Splice replaces the children of each element whose id is a key of contents
// with the parsed markup. Keys with no matching element are ignored.
func Splice(doc []byte, contents map[string]string) ([]byte, error) {
	root, err := html.Parse(bytes.NewReader(doc))
	if err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}

	var mounts []*html.Node
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			if _, ok := contents[attr(n, "id")]; ok {
				mounts = append(mounts, n)
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)

	for _, m := range mounts {
		nodes, err := html.ParseFragment(strings.NewReader(contents[attr(m, "id")]), m)
		if err != nil {
			return nil, fmt.Errorf("parse fragment for #%s: %w", attr(m, "id"), err)
		}
		for c := m.FirstChild; c != nil; {
			next := c.NextSibling
			m.RemoveChild(c)
			c = next
		}
		for _, n := range nodes {
			m.AppendChild(n)
		}
	}

	var buf bytes.Buffer
	if err := html.Render(&buf, root); err != nil {
		return nil, fmt.Errorf("render document: %w", err)
	}
	return buf.Bytes(), nil
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}
