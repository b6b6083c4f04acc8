package catalog

import (
	"context"
	_ "embed"
	"io"
	"net/http"
	"os"
	"strings"
)

//go:embed sample.json
var sample []byte

// Source produces the raw catalog payload.
type Source interface {
	Fetch(ctx context.Context) ([]byte, error)
}

// HTTPSource GETs the catalog from URL.
type HTTPSource struct {
	URL    string
	Client *http.Client
}

func (s HTTPSource) Fetch(ctx context.Context) ([]byte, error) {
	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL, nil)
	if err != nil {
		return nil, &FetchError{Source: s.URL, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	resp, err := client.Do(req)
	if err != nil {
		return nil, &FetchError{Source: s.URL, Err: err}
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, &FetchError{Source: s.URL, Status: resp.StatusCode}
	}
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &FetchError{Source: s.URL, Err: err}
	}
	return b, nil
}

// FileSource reads the catalog from a local JSON file.
type FileSource struct {
	Path string
}

func (s FileSource) Fetch(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, &FetchError{Source: s.Path, Err: err}
	}
	b, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, &FetchError{Source: s.Path, Err: err}
	}
	return b, nil
}

// Static serves a fixed payload.
type Static []byte

func (s Static) Fetch(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, &FetchError{Source: "static", Err: err}
	}
	return s, nil
}

// Sample returns the built-in demo catalog payload.
func Sample() []byte {
	return append([]byte(nil), sample...)
}

// SourceFor picks a source for loc: http(s) URLs are fetched, "file://" and
// plain paths are read from disk, and an empty location uses the sample.
func SourceFor(loc string) Source {
	loc = strings.TrimSpace(loc)
	switch {
	case loc == "":
		return Static(Sample())
	case strings.HasPrefix(loc, "http://"), strings.HasPrefix(loc, "https://"):
		return HTTPSource{URL: loc}
	default:
		return FileSource{Path: strings.TrimPrefix(loc, "file://")}
	}
}
