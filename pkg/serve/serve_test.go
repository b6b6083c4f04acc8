package serve

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/go-cmp/cmp"

	"tableflip.dev/shelf/pkg/catalog"
	"tableflip.dev/shelf/pkg/item"
)

func newServer(t *testing.T, src catalog.Source) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(Handler(catalog.NewStore(src), nil))
	t.Cleanup(srv.Close)
	return srv
}

func TestHealthz(t *testing.T) {
	srv := newServer(t, catalog.SourceFor(""))
	resp, err := http.Get(srv.URL + "/healthz")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
}

func TestItemsRoundTripThroughHTTPSource(t *testing.T) {
	srv := newServer(t, catalog.SourceFor(""))

	// The served payload must itself be a loadable catalog.
	remote := catalog.NewStore(catalog.HTTPSource{URL: srv.URL + "/items"})
	items, err := remote.Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	local, err := catalog.Parse(catalog.Sample())
	if err != nil {
		t.Fatalf("parse sample: %v", err)
	}
	if diff := cmp.Diff(local, items); diff != "" {
		t.Fatalf("served catalog differs (-want +got):\n%s", diff)
	}
}

func TestItemsQuery(t *testing.T) {
	srv := newServer(t, catalog.SourceFor(""))
	resp, err := http.Get(srv.URL + "/items?q=climate")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()
	var items []item.Item
	if err := json.NewDecoder(resp.Body).Decode(&items); err != nil {
		t.Fatalf("decode: %v", err)
	}
	var got []int
	for _, it := range items {
		got = append(got, it.ID)
	}
	if diff := cmp.Diff([]int{1, 6, 10, 14}, got); diff != "" {
		t.Fatalf("unexpected ids (-want +got):\n%s", diff)
	}
}

func TestItemsTagAndQuery(t *testing.T) {
	srv := newServer(t, catalog.SourceFor(""))
	for query, want := range map[string][]int{
		"tag=ev":            {3, 8},
		"tag=chips&q=build": {11},
	} {
		resp, err := http.Get(srv.URL + "/items?" + query)
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		var items []item.Item
		err = json.NewDecoder(resp.Body).Decode(&items)
		resp.Body.Close()
		if err != nil {
			t.Fatalf("decode: %v", err)
		}
		var got []int
		for _, it := range items {
			got = append(got, it.ID)
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Fatalf("%s: unexpected ids (-want +got):\n%s", query, diff)
		}
	}
}

func TestItemStatusCodes(t *testing.T) {
	srv := newServer(t, catalog.SourceFor(""))
	for path, want := range map[string]int{
		"/items/3":             http.StatusOK,
		"/items/404":           http.StatusNotFound,
		"/items/abc":           http.StatusBadRequest,
		"/items?within=banana": http.StatusBadRequest,
	} {
		resp, err := http.Get(srv.URL + path)
		if err != nil {
			t.Fatalf("get %s: %v", path, err)
		}
		resp.Body.Close()
		if resp.StatusCode != want {
			t.Fatalf("%s: expected %d, got %d", path, want, resp.StatusCode)
		}
	}
}

func TestBrokenCatalogIsBadGateway(t *testing.T) {
	srv := newServer(t, catalog.Static(`not json`))
	resp, err := http.Get(srv.URL + "/items")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", resp.StatusCode)
	}
	var body map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["error"] == "" {
		t.Fatalf("expected error message")
	}
}
