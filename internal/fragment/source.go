package fragment

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"net/url"
	"strings"
)

// ErrNotOK is returned when a fragment request completes with a non-2xx status.
var ErrNotOK = errors.New("fragment: response not ok")

// ErrNotFound is returned by sources that have no content for a path.
var ErrNotFound = errors.New("fragment: not found")

// Source fetches fragment markup by relative path.
type Source interface {
	Fetch(ctx context.Context, path string) (string, error)
}

// HTTPSource resolves paths against Base and GETs them.
type HTTPSource struct {
	Base   *url.URL
	Client *http.Client
}

func NewHTTPSource(base string) (*HTTPSource, error) {
	u, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("parse fragment base %q: %w", base, err)
	}
	if !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	return &HTTPSource{Base: u, Client: http.DefaultClient}, nil
}

func (s *HTTPSource) Fetch(ctx context.Context, path string) (string, error) {
	ref, err := url.Parse(path)
	if err != nil {
		return "", fmt.Errorf("parse fragment path %q: %w", path, err)
	}
	target := s.Base.ResolveReference(ref)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.String(), http.NoBody)
	if err != nil {
		return "", err
	}
	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch %s: %w", target, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("%w: %s %d", ErrNotOK, target, resp.StatusCode)
	}
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", target, err)
	}
	return string(b), nil
}

// FSSource reads fragments from a file system, e.g. os.DirFS(staticDir).
type FSSource struct {
	FS fs.FS
}

func (s FSSource) Fetch(_ context.Context, path string) (string, error) {
	b, err := fs.ReadFile(s.FS, path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// StaticSource serves fixed content; a missing path is ErrNotFound.
type StaticSource map[string]string

func (s StaticSource) Fetch(_ context.Context, path string) (string, error) {
	v, ok := s[path]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	return v, nil
}
