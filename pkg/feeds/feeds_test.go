package feeds

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func rssFeed(items ...string) string {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?><rss version="2.0"><channel><title>deals</title>`)
	for _, item := range items {
		b.WriteString(item)
	}
	b.WriteString(`</channel></rss>`)
	return b.String()
}

func rssItem(title, link, description string) string {
	var b strings.Builder
	b.WriteString("<item>")
	if title != "" {
		b.WriteString("<title>" + title + "</title>")
	}
	if link != "" {
		b.WriteString("<link>" + link + "</link>")
	}
	if description != "" {
		b.WriteString("<description><![CDATA[" + description + "]]></description>")
	}
	b.WriteString("</item>")
	return b.String()
}

func serveFeed(t *testing.T, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		fmt.Fprint(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestFetchReturnsEntriesInFeedOrder(t *testing.T) {
	srv := serveFeed(t, rssFeed(
		rssItem("Deal 1", "http://example.com/1", "first"),
		rssItem("Deal 2", "http://example.com/2", "second"),
		rssItem("Deal 3", "http://example.com/3", "third"),
	))

	entries, err := NewFetcher().Fetch(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}
	for i, want := range []string{"Deal 1", "Deal 2", "Deal 3"} {
		if entries[i].Title != want {
			t.Fatalf("entry %d: expected title %q, got %q", i, want, entries[i].Title)
		}
	}
	if entries[0].Link != "http://example.com/1" {
		t.Fatalf("unexpected link: %q", entries[0].Link)
	}
	if entries[0].Summary != "first" {
		t.Fatalf("unexpected summary: %q", entries[0].Summary)
	}
}

func TestFetchCapsAtTenEntries(t *testing.T) {
	var items []string
	for i := 0; i < 15; i++ {
		items = append(items, rssItem(
			fmt.Sprintf("Deal %d", i),
			fmt.Sprintf("http://example.com/%d", i),
			"desc",
		))
	}
	srv := serveFeed(t, rssFeed(items...))

	entries, err := NewFetcher().Fetch(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 10 {
		t.Fatalf("expected 10 entries, got %d", len(entries))
	}
	if entries[9].Title != "Deal 9" {
		t.Fatalf("cap must keep the first entries: got %q", entries[9].Title)
	}
}

func TestFetchSkipsMalformedEntries(t *testing.T) {
	srv := serveFeed(t, rssFeed(
		rssItem("Deal 1", "http://example.com/1", "ok"),
		rssItem("No Link", "", "broken"),
		rssItem("", "http://example.com/3", "no title"),
		rssItem("Deal 4", "http://example.com/4", "ok"),
	))

	entries, err := NewFetcher().Fetch(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 valid entries, got %d", len(entries))
	}
	if entries[0].Title != "Deal 1" || entries[1].Title != "Deal 4" {
		t.Fatalf("wrong entries survived: %+v", entries)
	}
}

func TestFetchFeedFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := NewFetcher().Fetch(context.Background(), srv.URL)
	var fErr *FeedFetchError
	if !errors.As(err, &fErr) {
		t.Fatalf("expected FeedFetchError, got %v", err)
	}
	if fErr.FeedURL != srv.URL {
		t.Fatalf("error should carry the feed URL, got %q", fErr.FeedURL)
	}
}

func TestFetchUnparseableFeed(t *testing.T) {
	srv := serveFeed(t, "this is not a feed at all")

	_, err := NewFetcher().Fetch(context.Background(), srv.URL)
	var fErr *FeedFetchError
	if !errors.As(err, &fErr) {
		t.Fatalf("expected FeedFetchError, got %v", err)
	}
}
