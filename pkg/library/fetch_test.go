package library

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestIntegrity(t *testing.T) {
	// sha384 of the empty input.
	const want = "sha384-OLBgp1GsljhM2TJ+sbHjaiH9txEUvgdDTAzHv2P24donTt6/529l+9Ua0vFImLlb"
	if got := Integrity(nil); got != want {
		t.Errorf("Integrity(nil) = %q, expected %q", got, want)
	}
}

func TestHTTPFetcher(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/ok.js":
			_, _ = w.Write([]byte("ok"))
		case "/gone.js":
			w.WriteHeader(http.StatusGone)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	f := HTTPFetcher{Client: srv.Client()}
	ctx := context.Background()

	body, err := f.Fetch(ctx, srv.URL+"/ok.js")
	if err != nil || string(body) != "ok" {
		t.Errorf("Fetch(ok) = %q, %v", body, err)
	}

	for path, status := range map[string]int{"/gone.js": http.StatusGone, "/missing.js": http.StatusNotFound} {
		_, err = f.Fetch(ctx, srv.URL+path)
		var fetchErr *FetchError
		if !errors.As(err, &fetchErr) {
			t.Fatalf("Fetch(%s): expected a *FetchError, got %v", path, err)
		}
		if fetchErr.StatusCode != status || fetchErr.URL != srv.URL+path {
			t.Errorf("Fetch(%s) error = %+v", path, fetchErr)
		}
	}
}

func TestHTTPFetcher_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL + "/asset.js"
	srv.Close()

	_, err := HTTPFetcher{}.Fetch(context.Background(), url)
	var fetchErr *FetchError
	if !errors.As(err, &fetchErr) || fetchErr.Err == nil {
		t.Errorf("expected a *FetchError wrapping the transport error, got %v", err)
	}
}
