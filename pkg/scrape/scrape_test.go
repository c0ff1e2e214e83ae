package scrape

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dealhound/dealhound/pkg/feeds"
	"github.com/dealhound/dealhound/pkg/whttp"
)

func servePage(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		fmt.Fprint(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestBuildAssemblesRecord(t *testing.T) {
	srv := servePage(t, http.StatusOK,
		"<html><body><div class=\"content-section\">intro text\nmore\nFeatures bullet one bullet two</div></body></html>")

	entry := feeds.Entry{
		Title:   "Widget Pro",
		Summary: `<div class="snippet summary">A fine <b>widget</b></div>`,
		Link:    srv.URL,
	}

	deal, err := NewBuilder(whttp.NewClient(0)).Build(context.Background(), "Electronics", entry)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if deal.Category != "Electronics" {
		t.Fatalf("expected category from source feed, got %q", deal.Category)
	}
	if deal.Title != "Widget Pro" {
		t.Fatalf("title must be taken verbatim, got %q", deal.Title)
	}
	if deal.Summary != "A fine widget" {
		t.Fatalf("summary not normalized: %q", deal.Summary)
	}
	if deal.URL != srv.URL {
		t.Fatalf("unexpected URL: %q", deal.URL)
	}
	if deal.Details != "intro text" {
		t.Fatalf("expected details %q, got %q", "intro text", deal.Details)
	}
	if deal.Features != "bullet one bullet two" {
		t.Fatalf("expected features %q, got %q", "bullet one bullet two", deal.Features)
	}
}

func TestBuildWithoutFeaturesSection(t *testing.T) {
	srv := servePage(t, http.StatusOK,
		`<html><body><div class="content-section">only details here</div></body></html>`)

	entry := feeds.Entry{Title: "Widget", Summary: "plain", Link: srv.URL}
	deal, err := NewBuilder(nil).Build(context.Background(), "Computers", entry)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if deal.Details != "only details here" {
		t.Fatalf("unexpected details: %q", deal.Details)
	}
	if deal.Features != "" {
		t.Fatalf("expected empty features, got %q", deal.Features)
	}
}

func TestBuildContentNotFound(t *testing.T) {
	srv := servePage(t, http.StatusOK,
		`<html><body><div class="unrelated">nothing to see</div></body></html>`)

	entry := feeds.Entry{Title: "Widget", Summary: "plain", Link: srv.URL}
	_, err := NewBuilder(nil).Build(context.Background(), "", entry)

	var cErr *ContentNotFoundError
	if !errors.As(err, &cErr) {
		t.Fatalf("expected ContentNotFoundError, got %v", err)
	}
	if cErr.URL != srv.URL {
		t.Fatalf("error should carry the page URL, got %q", cErr.URL)
	}
}

func TestBuildFetchFailure(t *testing.T) {
	srv := servePage(t, http.StatusNotFound, "gone")

	entry := feeds.Entry{Title: "Widget", Summary: "plain", Link: srv.URL}
	_, err := NewBuilder(nil).Build(context.Background(), "", entry)

	var fErr *EntryFetchError
	if !errors.As(err, &fErr) {
		t.Fatalf("expected EntryFetchError, got %v", err)
	}
}
